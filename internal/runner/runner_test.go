package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{Dir: t.TempDir()}
}

// writeScript creates an executable shell script in dir.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Success(t *testing.T) {
	r := newTestRunner(t)
	var out bytes.Buffer
	res, err := r.Run(context.Background(), []string{"echo", "hello"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Abnormal {
		t.Error("Abnormal = true, want false")
	}
	if !strings.Contains(out.String(), "hello") {
		t.Errorf("output = %q, want to contain 'hello'", out.String())
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	r := newTestRunner(t)
	script := writeScript(t, r.Dir, "fail.sh", "exit 3")
	res, err := r.Run(context.Background(), []string{script}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Abnormal {
		t.Error("Abnormal = true, want false")
	}
}

func TestRun_BinaryNotFound(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Run(context.Background(), []string{"nonexistent-binary-xyz-123"}, nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "nonexistent-binary-xyz-123") {
		t.Errorf("error = %q, want to mention the binary name", err)
	}
}

func TestRun_EmptyArgv(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Run(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("expected error for empty argv")
	}
}

func TestRun_StdoutAndStderrShareSink(t *testing.T) {
	r := newTestRunner(t)
	script := writeScript(t, r.Dir, "both.sh", "echo out\necho err >&2\necho out2")
	var out bytes.Buffer
	if _, err := r.Run(context.Background(), []string{script}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := out.String(), "out\nerr\nout2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_FileSink(t *testing.T) {
	r := newTestRunner(t)
	logPath := filepath.Join(r.Dir, "case.log")
	f, err := os.Create(logPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	for _, word := range []string{"first", "second"} {
		if _, err := r.Run(context.Background(), []string{"echo", word}, f); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "first\nsecond\n"; got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestRun_RelativePathResolvesAgainstDir(t *testing.T) {
	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	work := filepath.Join(root, "case", "np1")
	for _, d := range []string{bin, work} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeScript(t, bin, "tool", "pwd")

	r := &Runner{Dir: work}
	var out bytes.Buffer
	res, err := r.Run(context.Background(), []string{"../../bin/tool"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(out.String(), filepath.Join("case", "np1")) {
		t.Errorf("output = %q, want child cwd to be the runner dir", out.String())
	}
}

func TestRun_Timeout(t *testing.T) {
	r := newTestRunner(t)
	r.Timeout = 100 * time.Millisecond

	res, err := r.Run(context.Background(), []string{"sleep", "10"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Abnormal {
		t.Error("Abnormal = false, want true after timeout")
	}
	if res.ExitCode == 0 {
		t.Error("ExitCode = 0, want non-zero after timeout")
	}
}
