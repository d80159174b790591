//go:build !integration && !windows

package tty

import (
	"os"
	"testing"

	"github.com/creack/pty"
)

func TestIsTerminalWithPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	defer r.Close()
	defer w.Close()

	if IsTerminal(r) {
		t.Error("IsTerminal(pipe read end) = true, want false")
	}
	if IsTerminal(w) {
		t.Error("IsTerminal(pipe write end) = true, want false")
	}
}

func TestIsTerminalWithPty(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty.Open() failed (no pty support in this environment): %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if !IsTerminal(tty) {
		t.Error("IsTerminal(pty replica) = false, want true")
	}
}

func TestIsTerminalWithRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tty-test-*")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	defer f.Close()

	if IsTerminal(f) {
		t.Error("IsTerminal(regular file) = true, want false")
	}
}
