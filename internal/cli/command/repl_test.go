package command

import (
	"strings"
	"testing"
)

func TestReplAction(t *testing.T) {
	addr, _ := startServer(t)
	env := testContext(t, addr, nil)
	env.ctx.App.Reader = strings.NewReader("set k \"two words\"\nget k\nget missing\nbogus\nexit\n")

	if err := replAction(env.ctx); err != nil {
		t.Fatalf("replAction() error = %v", err)
	}

	out := env.output()
	for _, want := range []string{
		"OK\n",
		"two words\n",
		"(nil)\n",
		"(error) ERR unknown command 'bogus'\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, addr+"> ") {
		t.Errorf("prompt should show the server address:\n%s", out)
	}
}
