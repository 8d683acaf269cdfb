package redisserver

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

// ============================================================
// Decode Tests
// ============================================================

func TestDecode_Complete(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "PING",
			input: "*1\r\n$4\r\nPING\r\n",
			want:  []string{"PING"},
		},
		{
			name:  "GET command",
			input: "*2\r\n$3\r\nGET\r\n$6\r\nmykey1\r\n",
			want:  []string{"GET", "mykey1"},
		},
		{
			name:  "SET with PX",
			input: "*5\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n$2\r\nPX\r\n$2\r\n50\r\n",
			want:  []string{"SET", "foo", "bar", "PX", "50"},
		},
		{
			name:  "binary value with CRLF inside",
			input: "*2\r\n$4\r\nECHO\r\n$4\r\na\r\nb\r\n",
			want:  []string{"ECHO", "a\r\nb"},
		},
		{
			name:  "empty bulk",
			input: "*2\r\n$4\r\nECHO\r\n$0\r\n\r\n",
			want:  []string{"ECHO", ""},
		},
		{
			name:  "empty array",
			input: "*0\r\n",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, n, err := Decode([]byte(tt.input), DefaultLimits())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != len(tt.input) {
				t.Errorf("consumed = %d, want %d", n, len(tt.input))
			}
			if len(args) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(args), len(tt.want))
			}
			for i, want := range tt.want {
				if string(args[i]) != want {
					t.Errorf("arg[%d] = %q, want %q", i, args[i], want)
				}
			}
		})
	}
}

func TestDecode_EveryPrefixIsIncomplete(t *testing.T) {
	frame := "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$10\r\nbar\r\nbaz!!\r\n"
	for i := 0; i < len(frame); i++ {
		args, n, err := Decode([]byte(frame[:i]), DefaultLimits())
		if err != nil {
			t.Fatalf("prefix %q: unexpected error: %v", frame[:i], err)
		}
		if n != 0 || args != nil {
			t.Fatalf("prefix %q: got n=%d args=%q, want incomplete", frame[:i], n, args)
		}
	}
}

func TestDecode_Pipelined(t *testing.T) {
	first := "*1\r\n$4\r\nPING\r\n"
	input := first + "*2\r\n$3\r\nGET\r\n$1\r\nk\r\n"

	args, n, err := Decode([]byte(input), DefaultLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(first) {
		t.Errorf("consumed = %d, want %d", n, len(first))
	}
	if len(args) != 1 || string(args[0]) != "PING" {
		t.Errorf("args = %q, want [PING]", args)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"inline command", "PING\r\n"},
		{"simple string element", "*1\r\n+PING\r\n"},
		{"integer element", "*1\r\n:1\r\n"},
		{"null array", "*-1\r\n"},
		{"null bulk", "*1\r\n$-1\r\n"},
		{"non-numeric array length", "*x\r\n"},
		{"missing array length", "*\r\n"},
		{"space in length", "*1 \r\n"},
		{"LF without CR", "*1\n"},
		{"CR without LF", "*1\rX"},
		{"bad bulk terminator", "*1\r\n$3\r\nabcXY"},
		{"header too long", "*0000000000000000000\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, n, err := Decode([]byte(tt.input), DefaultLimits())
			if !errors.Is(err, ErrProtocol) {
				t.Fatalf("error = %v, want ErrProtocol", err)
			}
			if errors.Is(err, ErrLimitExceeded) {
				t.Errorf("error = %v, should not be a limit error", err)
			}
			if n != 0 {
				t.Errorf("consumed = %d, want 0", n)
			}
		})
	}
}

func TestDecode_Limits(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		limits Limits
	}{
		{"array too long", "*1025\r\n", DefaultLimits()},
		{"bulk too long", "*1\r\n$524289\r\n", DefaultLimits()},
		{"custom array limit", "*3\r\n", Limits{MaxArrayLen: 2, MaxBulkLen: 10}},
		{"custom bulk limit", "*1\r\n$11\r\n", Limits{MaxArrayLen: 2, MaxBulkLen: 10}},
		{"huge length before CRLF", "*1\r\n$99999999999", DefaultLimits()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.input), tt.limits)
			if !errors.Is(err, ErrLimitExceeded) {
				t.Fatalf("error = %v, want ErrLimitExceeded", err)
			}
			if !errors.Is(err, ErrProtocol) {
				t.Error("ErrLimitExceeded should match ErrProtocol")
			}
		})
	}
}

func TestDecode_AtLimit(t *testing.T) {
	value := strings.Repeat("v", 10)
	input := "*2\r\n$4\r\nECHO\r\n$10\r\n" + value + "\r\n"
	args, _, err := Decode([]byte(input), Limits{MaxArrayLen: 2, MaxBulkLen: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(args[1]) != value {
		t.Errorf("arg = %q, want %q", args[1], value)
	}
}

// ============================================================
// Reader Tests
// ============================================================

func TestReader_OneByteAtATime(t *testing.T) {
	input := "*1\r\n$4\r\nPING\r\n*2\r\n$4\r\nECHO\r\n$5\r\nhello\r\n"
	r := NewReader(iotest.OneByteReader(strings.NewReader(input)), DefaultLimits())

	first, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	second, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}

	if len(first) != 1 || string(first[0]) != "PING" {
		t.Errorf("first = %q", first)
	}
	if len(second) != 2 || string(second[1]) != "hello" {
		t.Errorf("second = %q", second)
	}

	if _, err := r.ReadFrame(); err != io.EOF {
		t.Errorf("after last frame err = %v, want io.EOF", err)
	}
}

func TestReader_ArgsAreOwned(t *testing.T) {
	input := "*1\r\n$3\r\naaa\r\n*1\r\n$3\r\nbbb\r\n"
	r := NewReader(strings.NewReader(input), DefaultLimits())

	first, err := r.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadFrame(); err != nil {
		t.Fatal(err)
	}
	if string(first[0]) != "aaa" {
		t.Errorf("first frame mutated to %q", first[0])
	}
}

func TestReader_UnexpectedEOF(t *testing.T) {
	r := NewReader(strings.NewReader("*1\r\n$5\r\nab"), DefaultLimits())

	_, err := r.ReadFrame()
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReader_ProtocolError(t *testing.T) {
	r := NewReader(strings.NewReader("*10000\r\n"), DefaultLimits())
	if _, err := r.ReadFrame(); !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("error = %v, want ErrLimitExceeded", err)
	}
}

func TestReader_ReadErrorIsSticky(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader(iotest.ErrReader(boom), DefaultLimits())

	if err := r.Peek(); !errors.Is(err, boom) {
		t.Fatalf("Peek() error = %v, want boom", err)
	}
	if _, err := r.ReadFrame(); !errors.Is(err, boom) {
		t.Errorf("ReadFrame() error = %v, want boom", err)
	}
}

func TestReader_Peek(t *testing.T) {
	r := NewReader(strings.NewReader(""), DefaultLimits())
	if err := r.Peek(); err != io.EOF {
		t.Errorf("Peek() on empty stream = %v, want io.EOF", err)
	}

	r = NewReader(strings.NewReader("*0\r\n"), DefaultLimits())
	if err := r.Peek(); err != nil {
		t.Fatalf("Peek() error = %v", err)
	}
	args, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Peek() error = %v", err)
	}
	if len(args) != 0 {
		t.Errorf("ReadFrame() = %q, want empty frame", args)
	}
}

func TestReader_LargeFrame(t *testing.T) {
	value := bytes.Repeat([]byte("x"), 100*1024)
	var frame bytes.Buffer
	frame.WriteString("*2\r\n$4\r\nECHO\r\n$102400\r\n")
	frame.Write(value)
	frame.WriteString("\r\n")

	r := NewReader(&frame, DefaultLimits())
	args, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if !bytes.Equal(args[1], value) {
		t.Error("large value corrupted")
	}
}

// ============================================================
// Reply Encoding Tests
// ============================================================

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		reply Reply
		want  string
	}{
		{"simple", SimpleString("OK"), "+OK\r\n"},
		{"simple with newline falls back to bulk", SimpleString("a\nb"), "$3\r\na\nb\r\n"},
		{"bulk", BulkReply([]byte("bar")), "$3\r\nbar\r\n"},
		{"empty bulk", BulkReply([]byte{}), "$0\r\n\r\n"},
		{"binary bulk", BulkReply([]byte{0, '\r', '\n', 0xff}), "$4\r\n\x00\r\n\xff\r\n"},
		{"nil", NilReply(), "$-1\r\n"},
		{"error", ErrorReply("ERR syntax error"), "-ERR syntax error\r\n"},
		{"error with CRLF", ErrorReply("ERR bad\r\nthing"), "-ERR bad  thing\r\n"},
		{"zero value", Reply{}, "$-1\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Encode(tt.reply)); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteReply(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReply(&buf, SimpleString("PONG")); err != nil {
		t.Fatal(err)
	}
	if err := WriteReply(&buf, ErrorReply("ERR x")); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "+PONG\r\n-ERR x\r\n" {
		t.Errorf("written = %q", got)
	}
}

func TestNormalizeCommandName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"get", "GET"},
		{"SeT", "SET"},
		{"PING", "PING"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeCommandName([]byte(tt.in)); got != tt.want {
			t.Errorf("normalizeCommandName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
