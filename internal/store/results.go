package store

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// resultTimeLayout renders timestamps as DD-MM-YYYY HH:MM:SS, the
// format existing results files already use.
const resultTimeLayout = "02-01-2006 15:04:05"

// FormatResultLine renders one test outcome for the results log.
func FormatResultLine(at time.Time, correct, total int) string {
	return fmt.Sprintf("%s - Score: %d/%d", at.Format(resultTimeLayout), correct, total)
}

// AppendResultLine appends a single line to the results log, creating
// the file if missing. The log is append-only; lines are never
// rewritten.
func AppendResultLine(path, line string) error {
	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(strings.TrimRight(line, "\n") + "\n"); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

// ReadResultLines returns the results log as lines, oldest first.
// A missing file reads as empty.
func ReadResultLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	raw := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	var lines []string
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
