package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vintervu/vintervu/internal/interview"
	"github.com/vintervu/vintervu/internal/questions"
	"github.com/vintervu/vintervu/internal/results"
	"github.com/vintervu/vintervu/internal/speech"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run a mock interview in the terminal",
	Long: `Run a mock interview with typed answers.

Type "/end" or close the input to finish early. The final report lists
the score and feedback for every answer.`,
	RunE: runPractice,
}

func init() {
	practiceCmd.Flags().StringSlice("skills", nil, "comma-separated skills to base technical questions on")
	practiceCmd.Flags().String("branch", "", "engineering branch, e.g. \"Computer Science\"")
	practiceCmd.Flags().String("resume", "", "PDF resume to read skills and branch from")
	practiceCmd.Flags().String("email", "", "email to store the result under")
	practiceCmd.Flags().Int("max", 10, "stop after this many questions")
}

func runPractice(cmd *cobra.Command, args []string) error {
	skills, _ := cmd.Flags().GetStringSlice("skills")
	branch, _ := cmd.Flags().GetString("branch")
	resumePath, _ := cmd.Flags().GetString("resume")
	email, _ := cmd.Flags().GetString("email")
	maxQ, _ := cmd.Flags().GetInt("max")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Answers are typed; announcements would only be noise.
	cfg.Speech.Provider = "text"

	log, err := newLoggerFromConfig(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	out := cmd.OutOrStdout()
	ctx := context.Background()
	c, err := buildComponents(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	if resumePath != "" {
		doc, err := os.ReadFile(resumePath)
		if err != nil {
			return fmt.Errorf("read resume: %w", err)
		}
		profile, err := c.resumes.Extract(ctx, doc)
		if err != nil {
			return err
		}
		skills = append(skills, profile.Skills...)
		if branch == "" {
			branch = profile.Branch
		}
		fmt.Fprintf(out, "Resume: %d skills, branch %s\n", len(profile.Skills), profile.Branch)
	}

	fmt.Fprintln(out, "Preparing questions...")
	sess, err := c.interviews.Start(ctx, interview.StartInput{Skills: skills, Branch: branch})
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for i := 1; maxQ <= 0 || i <= maxQ; i++ {
		q, done, err := c.interviews.Next(ctx, sess.ID)
		if errors.Is(err, questions.ErrExhausted) {
			fmt.Fprintln(out, "No new follow-up question could be generated.")
			break
		}
		if err != nil {
			return err
		}
		if done {
			break
		}

		fmt.Fprintf(out, "\n── Question %d ──\n%s\n\nYour answer: ", i, q)
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "/end" {
			break
		}

		rec, err := c.interviews.Record(ctx, sess.ID, interview.RecordInput{
			Audio:    &speech.Audio{Data: []byte(answer)},
			Question: q,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Score: %d/%d\n", rec.Score, results.PointsPerQuestion)
	}

	fmt.Fprintln(out, "\nWriting feedback...")
	summary, err := c.interviews.End(ctx, sess.ID, interview.EndInput{Email: email})
	if err != nil {
		return err
	}
	printSummary(out, summary)
	return nil
}

func printSummary(w io.Writer, s results.Summary) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "Total: %d/%d (%.1f%%)\n", s.TotalScore, s.MaxScore, s.Percentage)
	fmt.Fprintln(w, sep)
	for i, r := range s.Feedback {
		fmt.Fprintf(w, "%d. %s\n", i+1, r.Question)
		fmt.Fprintf(w, "   Answer:     %s\n", r.Response)
		fmt.Fprintf(w, "   Score:      %d\n", r.Score)
		fmt.Fprintf(w, "   Feedback:   %s\n", r.Feedback)
		fmt.Fprintf(w, "   Suggestion: %s\n", r.Suggestion)
	}
}
