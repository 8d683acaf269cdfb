package redisserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Protocol limits to prevent DoS attacks.
const (
	// MaxArrayLen limits the number of elements in a RESP array.
	MaxArrayLen = 1024

	// MaxBulkLen limits the size of a single bulk string (512KB).
	MaxBulkLen = 512 * 1024

	// maxHeaderDigits bounds the length of a "*<n>" or "$<n>" header so a
	// peer cannot stream digits forever.
	maxHeaderDigits = 18
)

var (
	// ErrProtocol reports a malformed frame. It is fatal to the connection.
	ErrProtocol = errors.New("resp: protocol error")
	// ErrLimitExceeded reports a frame that declares more elements or bytes
	// than the configured limits allow. It matches ErrProtocol.
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrProtocol)
)

// Limits bounds the memory a single frame may claim.
type Limits struct {
	MaxArrayLen int
	MaxBulkLen  int
}

// DefaultLimits returns the built-in protocol limits.
func DefaultLimits() Limits {
	return Limits{MaxArrayLen: MaxArrayLen, MaxBulkLen: MaxBulkLen}
}

func (l Limits) orDefault() Limits {
	if l.MaxArrayLen <= 0 {
		l.MaxArrayLen = MaxArrayLen
	}
	if l.MaxBulkLen <= 0 {
		l.MaxBulkLen = MaxBulkLen
	}
	return l
}

// Decode decodes one request frame from the start of buf.
//
// A request is "*<n>\r\n" followed by n bulk strings "$<len>\r\n<bytes>\r\n".
// When buf does not yet hold a complete frame Decode returns n == 0 and a nil
// error; the caller should read more bytes and call it again with the same
// prefix. The returned arguments alias buf.
func Decode(buf []byte, limits Limits) (args [][]byte, n int, err error) {
	if len(buf) == 0 {
		return nil, 0, nil
	}
	limits = limits.orDefault()

	if buf[0] != '*' {
		return nil, 0, fmt.Errorf("%w: expected '*', got %q", ErrProtocol, buf[0])
	}
	count, pos, err := parseLength(buf, 1, limits.MaxArrayLen, "array")
	if err != nil || pos == 0 {
		return nil, 0, err
	}

	args = make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		if pos >= len(buf) {
			return nil, 0, nil
		}
		if buf[pos] != '$' {
			return nil, 0, fmt.Errorf("%w: expected '$', got %q", ErrProtocol, buf[pos])
		}
		size, start, err := parseLength(buf, pos+1, limits.MaxBulkLen, "bulk")
		if err != nil || start == 0 {
			return nil, 0, err
		}
		end := start + size
		if len(buf) < end+2 {
			return nil, 0, nil
		}
		if buf[end] != '\r' || buf[end+1] != '\n' {
			return nil, 0, fmt.Errorf("%w: invalid bulk terminator", ErrProtocol)
		}
		args = append(args, buf[start:end:end])
		pos = end + 2
	}
	return args, pos, nil
}

// parseLength parses the decimal length that starts at buf[start] and ends
// with CRLF. It returns the value and the offset just past the CRLF, or a
// zero offset when the header is still incomplete.
func parseLength(buf []byte, start, limit int, what string) (int, int, error) {
	v := 0
	for i := start; i < len(buf); i++ {
		c := buf[i]
		switch {
		case c >= '0' && c <= '9':
			if i-start >= maxHeaderDigits {
				return 0, 0, fmt.Errorf("%w: %s header too long", ErrProtocol, what)
			}
			v = v*10 + int(c-'0')
			if v > limit {
				return 0, 0, fmt.Errorf("%w: %s length exceeds limit %d", ErrLimitExceeded, what, limit)
			}
		case c == '\r':
			if i == start {
				return 0, 0, fmt.Errorf("%w: missing %s length", ErrProtocol, what)
			}
			if i+1 == len(buf) {
				return 0, 0, nil
			}
			if buf[i+1] != '\n' {
				return 0, 0, fmt.Errorf("%w: missing CRLF", ErrProtocol)
			}
			return v, i + 2, nil
		default:
			return 0, 0, fmt.Errorf("%w: invalid %s length", ErrProtocol, what)
		}
	}
	return 0, 0, nil
}

const (
	readChunk     = 4096
	maxIdleBuffer = 64 * 1024
)

// Reader reads request frames from a byte stream, accumulating partial
// reads until Decode reports a complete frame.
type Reader struct {
	rd     io.Reader
	limits Limits
	buf    []byte
	err    error
}

// NewReader returns a Reader that decodes frames from rd.
func NewReader(rd io.Reader, limits Limits) *Reader {
	return &Reader{
		rd:     rd,
		limits: limits.orDefault(),
		buf:    make([]byte, 0, readChunk),
	}
}

// Peek blocks until at least one byte of the next frame is available.
func (r *Reader) Peek() error {
	for len(r.buf) == 0 {
		if err := r.fill(); err != nil {
			return err
		}
	}
	return nil
}

// ReadFrame returns the arguments of the next request frame. The returned
// slices are owned by the caller.
//
// A clean end of stream between frames yields io.EOF. An end of stream in
// the middle of a frame yields ErrProtocol wrapping io.ErrUnexpectedEOF.
func (r *Reader) ReadFrame() ([][]byte, error) {
	for {
		args, n, err := Decode(r.buf, r.limits)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out := make([][]byte, len(args))
			for i, a := range args {
				out[i] = bytes.Clone(a)
			}
			r.consume(n)
			return out, nil
		}

		if err := r.fill(); err != nil {
			if errors.Is(err, io.EOF) {
				if len(r.buf) == 0 {
					return nil, io.EOF
				}
				return nil, fmt.Errorf("%w: %w", ErrProtocol, io.ErrUnexpectedEOF)
			}
			return nil, err
		}
	}
}

// fill performs one read from the underlying stream. Read errors are
// sticky; bytes returned alongside an error are kept.
func (r *Reader) fill() error {
	if r.err != nil {
		return r.err
	}
	if cap(r.buf)-len(r.buf) < readChunk {
		grown := make([]byte, len(r.buf), 2*cap(r.buf)+readChunk)
		copy(grown, r.buf)
		r.buf = grown
	}
	n, err := r.rd.Read(r.buf[len(r.buf):cap(r.buf)])
	r.buf = r.buf[:len(r.buf)+n]
	if err != nil {
		r.err = err
		if n > 0 {
			return nil
		}
	}
	return err
}

func (r *Reader) consume(n int) {
	rest := copy(r.buf, r.buf[n:])
	r.buf = r.buf[:rest]
	if rest == 0 && cap(r.buf) > maxIdleBuffer {
		r.buf = make([]byte, 0, readChunk)
	}
}

// ReplyKind identifies the RESP type of a reply.
type ReplyKind uint8

const (
	ReplySimple ReplyKind = iota + 1
	ReplyBulk
	ReplyNil
	ReplyError
)

// Reply is a server response ready to be encoded.
type Reply struct {
	Kind ReplyKind
	Str  string
	Bulk []byte
}

// SimpleString returns a "+text" reply.
func SimpleString(s string) Reply { return Reply{Kind: ReplySimple, Str: s} }

// BulkReply returns a "$len" reply carrying b.
func BulkReply(b []byte) Reply { return Reply{Kind: ReplyBulk, Bulk: b} }

// NilReply returns the null bulk string.
func NilReply() Reply { return Reply{Kind: ReplyNil} }

// ErrorReply returns a "-msg" reply.
func ErrorReply(msg string) Reply { return Reply{Kind: ReplyError, Str: msg} }

// AppendReply appends the wire form of rep to dst.
func AppendReply(dst []byte, rep Reply) []byte {
	switch rep.Kind {
	case ReplySimple:
		if strings.ContainsAny(rep.Str, "\r\n") {
			return appendBulk(dst, []byte(rep.Str))
		}
		dst = append(dst, '+')
		dst = append(dst, rep.Str...)
		return append(dst, '\r', '\n')
	case ReplyBulk:
		return appendBulk(dst, rep.Bulk)
	case ReplyError:
		dst = append(dst, '-')
		dst = append(dst, sanitizeLine(rep.Str)...)
		return append(dst, '\r', '\n')
	default:
		return append(dst, "$-1\r\n"...)
	}
}

func appendBulk(dst, b []byte) []byte {
	dst = append(dst, '$')
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, '\r', '\n')
	dst = append(dst, b...)
	return append(dst, '\r', '\n')
}

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

func sanitizeLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return lineBreaks.Replace(s)
}

// Encode returns the wire form of rep.
func Encode(rep Reply) []byte {
	return AppendReply(nil, rep)
}

// WriteReply encodes rep to w.
func WriteReply(w io.Writer, rep Reply) error {
	_, err := w.Write(Encode(rep))
	return err
}

func normalizeCommandName(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	// Uppercase ASCII without allocating for already uppercased tokens.
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}
