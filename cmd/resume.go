package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vintervu/vintervu/internal/resume"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Inspect a PDF resume",
}

var resumeAnalyzeCmd = &cobra.Command{
	Use:   "analyze <pdf>",
	Short: "Extract skills from a resume and compare them with a job role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		format, _ := cmd.Flags().GetString("format")

		if role != "" {
			if _, ok := resume.RequiredSkills(role); !ok {
				return fmt.Errorf("unsupported role %q (see `vintervu resume roles`)", role)
			}
		}

		doc, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read resume: %w", err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLoggerFromConfig(cfg.Log.JSON, cfg.Log.Debug)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		c, err := buildComponents(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer c.Close()

		profile, err := c.resumes.Extract(cmd.Context(), doc)
		if err != nil {
			return err
		}

		var analysis *resume.Analysis
		if role != "" {
			a, err := resume.Analyze(role, profile.Skills)
			if err != nil {
				return err
			}
			analysis = &a
		}

		if format == "json" {
			return printJSON(struct {
				Profile  resume.Profile   `json:"profile"`
				Analysis *resume.Analysis `json:"analysis,omitempty"`
			}{profile, analysis})
		}

		fmt.Printf("Branch:   %s\n", profile.Branch)
		fmt.Printf("Skills:   %s\n", strings.Join(profile.Skills, ", "))
		fmt.Printf("Projects: %s\n", strings.Join(profile.Projects, ", "))
		if analysis != nil {
			fmt.Printf("\nRole:     %s\n", analysis.Role)
			fmt.Printf("Score:    %.2f%%\n", analysis.Score)
			fmt.Printf("Found:    %s\n", strings.Join(analysis.FoundKeywords, ", "))
			fmt.Printf("Missing:  %s\n", strings.Join(analysis.MissingKeywords, ", "))
			for _, s := range analysis.Suggestions {
				fmt.Printf("  - %s\n", s)
			}
		}
		return nil
	},
}

var resumeRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the job roles resumes can be analyzed against",
	Run: func(cmd *cobra.Command, args []string) {
		for _, r := range resume.Roles() {
			skills, _ := resume.RequiredSkills(r)
			fmt.Printf("%-26s  %s\n", r, strings.Join(skills, ", "))
		}
	},
}

func init() {
	resumeAnalyzeCmd.Flags().String("role", "", "job role to compare against, e.g. \"data analyst\"")
	resumeAnalyzeCmd.Flags().String("format", "text", "output format: text or json")

	resumeCmd.AddCommand(resumeAnalyzeCmd)
	resumeCmd.AddCommand(resumeRolesCmd)
}
