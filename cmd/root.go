package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quizdrill",
	Short: "Terminal quiz trainer",
	Long:  "QuizDrill — terminal app for drilling a personal question bank, with LLM question generation and freeform answer judging.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// The data dir is resolved through the environment everywhere,
		// so the flag becomes an env override.
		if d, _ := cmd.Flags().GetString("data"); d != "" {
			os.Setenv("QUIZDRILL_DATA", d)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("data", "", "Path to data directory (overrides QUIZDRILL_DATA env var)")

	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}
