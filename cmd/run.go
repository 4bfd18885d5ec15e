package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizdrill/quizdrill/internal/app"
	"github.com/quizdrill/quizdrill/internal/eventlog"
	"github.com/quizdrill/quizdrill/internal/llm"
	"github.com/quizdrill/quizdrill/internal/store"
)

// runApp opens the question bank, builds dependencies, and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := store.Open()
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}

	var events eventlog.Repo
	if path, err := store.EventsPath(); err == nil {
		log, err := eventlog.Open(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: LLM event log unavailable:", err)
		} else {
			events = log
			defer log.Close()
		}
	}

	// The LLM provider is optional; the app runs without it.
	provider, err := llm.NewProviderFromEnv(ctx, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Question generation and freeform judging will be unavailable.")
		provider = nil
	}

	return app.Run(st, provider)
}
