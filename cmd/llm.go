package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vintervu/vintervu/internal/llm"
	"github.com/vintervu/vintervu/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM calls made for interviews",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		format, _ := cmd.Flags().GetString("format")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if format == "json" {
			return printJSON(events)
		}
		if len(events) == 0 {
			fmt.Println("No LLM calls recorded.")
			return nil
		}

		t := newTable("ID", "Time", "Session", "Purpose", "Model", "In", "Out", "Ms", "OK")
		for _, e := range events {
			t.row(e.ID, localTime(e.Timestamp), truncate(e.SessionID, 8), e.Purpose,
				truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, status(e))
		}
		return t.flush()
	},
}

func status(e store.LLMEvent) string {
	switch {
	case !e.Success:
		return "✗"
	case e.Cached:
		return "cache"
	default:
		return "✓"
	}
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		session := e.SessionID
		if session == "" {
			session = "-"
		}
		fmt.Printf("ID:       %d\n", e.ID)
		fmt.Printf("Time:     %s\n", localTime(e.Timestamp))
		fmt.Printf("Session:  %s\n", session)
		fmt.Printf("Purpose:  %s\n", e.Purpose)
		fmt.Printf("Model:    %s (%s)\n", e.Model, e.Provider)
		fmt.Printf("Tokens:   %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Printf("Latency:  %dms\n", e.LatencyMs)
		fmt.Printf("Status:   %s\n", status(*e))
		if e.ErrorMessage != "" {
			fmt.Printf("Error:    %s\n", e.ErrorMessage)
		}

		section("PROMPT", e.RequestBody)
		section("REPLY", e.ResponseBody)
		return nil
	},
}

func section(title, body string) {
	sep := strings.Repeat("─", 60)
	fmt.Printf("\n%s\n%s\n%s\n", sep, title, sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		var calls, in, out int
		t := newTable("Purpose", "Calls", "Input", "Output", "Avg ms")
		for _, u := range byPurpose {
			t.row(u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			calls += u.Calls
			in += u.InputTokens
			out += u.OutputTokens
		}
		t.row("TOTAL", calls, in, out, "")
		if err := t.flush(); err != nil {
			return err
		}

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		fmt.Println()
		var (
			total   float64
			unknown []string
		)
		t = newTable("Model", "Calls", "Input", "Output", "Cost (USD)")
		for _, u := range byModel {
			cost := llm.LookupCost(u.Model)
			if cost == nil {
				unknown = append(unknown, u.Model)
				t.row(truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
				continue
			}
			c := cost.Cost(u.InputTokens, u.OutputTokens)
			total += c
			t.row(truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
		}
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		t.row(label, "", "", "", formatCost(total))
		if err := t.flush(); err != nil {
			return err
		}

		if len(unknown) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "filter by purpose (question-intro, question-technical, question-followup, answer-score, answer-feedback, resume-extract)")
	llmListCmd.Flags().StringP("session", "s", "", "filter by interview session id")
	llmListCmd.Flags().String("format", "text", "output format: text or json")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
