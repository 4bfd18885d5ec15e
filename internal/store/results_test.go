package store

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFormatResultLine(t *testing.T) {
	at := time.Date(2025, time.March, 7, 14, 5, 9, 0, time.UTC)
	got := FormatResultLine(at, 4, 5)
	want := "07-03-2025 14:05:09 - Score: 4/5"
	if got != want {
		t.Fatalf("FormatResultLine() = %q, want %q", got, want)
	}
}

func TestAppendAndReadResultLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")

	if got := ReadResultLines(path); got != nil {
		t.Fatalf("missing file should read empty, got %v", got)
	}

	if err := AppendResultLine(path, "first line"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := AppendResultLine(path, "second line\n"); err != nil {
		t.Fatalf("append: %v", err)
	}

	lines := ReadResultLines(path)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "first line" || lines[1] != "second line" {
		t.Fatalf("lines out of order or mangled: %v", lines)
	}
}
