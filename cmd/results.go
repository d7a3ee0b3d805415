package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect stored interview results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results for an email, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.ResultRepo().ResultsByEmail(cmd.Context(), email, limit)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No feedback found for this email.")
			return nil
		}

		t := newTable("ID", "Time", "Session", "Score", "Max", "%", "Questions")
		for _, r := range list {
			t.row(r.ID, localTime(r.Timestamp), truncate(r.SessionID, 36),
				r.TotalScore, r.MaxScore, fmt.Sprintf("%.1f", r.Percentage), r.QuestionCount)
		}
		return t.flush()
	},
}

func init() {
	resultsListCmd.Flags().String("email", "", "email the results were stored under (required)")
	resultsListCmd.Flags().IntP("limit", "n", 20, "number of results to show")
	_ = resultsListCmd.MarkFlagRequired("email")

	resultsCmd.AddCommand(resultsListCmd)
}
