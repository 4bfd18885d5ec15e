package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizdrill/quizdrill/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset question statistics",
	Long:  "Zero every question's usage counters. With --results, also delete the test results log.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open()
		if err != nil {
			return fmt.Errorf("open question bank: %w", err)
		}

		st.ResetCounters()
		fmt.Println("Question counters reset.")

		if clearResults, _ := cmd.Flags().GetBool("results"); clearResults {
			path, err := store.ResultsPath()
			if err != nil {
				return err
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove results log: %w", err)
			}
			fmt.Println("Test results log deleted.")
		}

		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("results", false, "Also delete the test results log")
}
