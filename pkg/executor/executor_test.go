package executor

import (
	"context"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	exec := New()

	out, err := exec.Execute(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Execute() = %q, want %q", out, "hello")
	}
}

func TestExecuteIncludesStderr(t *testing.T) {
	exec := New()

	_, err := exec.Execute(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail for non-zero exit")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should contain stderr", err)
	}
}

func TestExecuteInDir(t *testing.T) {
	dir := t.TempDir()
	exec := New()

	out, err := exec.ExecuteInDir(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	if !strings.Contains(strings.TrimSpace(out), strings.TrimPrefix(dir, "/private")) {
		t.Errorf("ExecuteInDir() = %q, want dir %q", out, dir)
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"0123456789", 4, "...6789"},
		// "é" is two bytes; a 3-byte tail would start inside it.
		{"abcé12", 3, "...12"},
		{"abcé12", 4, "...é12"},
	}

	for _, tt := range tests {
		if got := tail(tt.in, tt.n); got != tt.want {
			t.Errorf("tail(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
