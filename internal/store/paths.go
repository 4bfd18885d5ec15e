package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	questionsFile = "questions.json"
	resultsFile   = "results.txt"
	eventsFile    = "quizdrill.db"
)

// DataDir resolves the data directory in priority order:
// 1. QUIZDRILL_DATA environment variable
// 2. $XDG_DATA_HOME/quizdrill
// 3. ~/.local/share/quizdrill
// The directory is created if missing.
func DataDir() (string, error) {
	if p := os.Getenv("QUIZDRILL_DATA"); p != "" {
		return p, os.MkdirAll(p, 0o755)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizdrill")
	return p, os.MkdirAll(p, 0o755)
}

// QuestionsPath returns the questions file path inside the data dir.
func QuestionsPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, questionsFile), nil
}

// ResultsPath returns the results log path inside the data dir.
func ResultsPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, resultsFile), nil
}

// EventsPath returns the sqlite event log path inside the data dir.
func EventsPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, eventsFile), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
