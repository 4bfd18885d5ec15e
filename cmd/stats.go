package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizdrill/quizdrill/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print question bank statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open()
		if err != nil {
			return fmt.Errorf("open question bank: %w", err)
		}

		questions := st.ListAll()
		if len(questions) == 0 {
			fmt.Println("The question bank is empty.")
			return nil
		}

		var active, shown, correct, incorrect int
		byTopic := make(map[string][3]int) // questions, correct, incorrect
		for _, q := range questions {
			if q.Active {
				active++
			}
			shown += q.TimesShown
			correct += q.CorrectCount
			incorrect += q.IncorrectCount

			t := byTopic[q.Topic]
			t[0]++
			t[1] += q.CorrectCount
			t[2] += q.IncorrectCount
			byTopic[q.Topic] = t
		}

		fmt.Printf("Questions: %d (%d active)\n", len(questions), active)
		fmt.Printf("Answers:   %d\n", shown)
		if correct+incorrect > 0 {
			fmt.Printf("Accuracy:  %.1f%%\n", float64(correct)/float64(correct+incorrect)*100)
		}

		topics := make([]string, 0, len(byTopic))
		for t := range byTopic {
			topics = append(topics, t)
		}
		sort.Strings(topics)

		fmt.Println()
		fmt.Printf("%-20s  %9s  %9s\n", "Topic", "Questions", "Accuracy")
		fmt.Println(strings.Repeat("─", 44))
		for _, t := range topics {
			c := byTopic[t]
			acc := "—"
			if c[1]+c[2] > 0 {
				acc = fmt.Sprintf("%.1f%%", float64(c[1])/float64(c[1]+c[2])*100)
			}
			fmt.Printf("%-20s  %9d  %9s\n", t, c[0], acc)
		}

		if path, err := store.ResultsPath(); err == nil {
			lines := store.ReadResultLines(path)
			if len(lines) > 0 {
				fmt.Println()
				fmt.Println("Recent test results:")
				const maxShown = 10
				if len(lines) > maxShown {
					lines = lines[len(lines)-maxShown:]
				}
				for i := len(lines) - 1; i >= 0; i-- {
					fmt.Println(" ", lines[i])
				}
			}
		}

		return nil
	},
}
