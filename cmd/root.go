package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/config"
	"github.com/vintervu/vintervu/internal/logger"
	"github.com/vintervu/vintervu/internal/store"
)

const app = "vintervu"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "Mock interview engine for engineering students",
		Long: `vintervu runs mock placement interviews: it asks introductory and
technical questions, generates follow-ups, scores answers and writes
per-question feedback with an LLM.`,
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vintervu.yaml)")
	rootCmd.PersistentFlags().String("db", "", "path to SQLite database file (overrides VINTERVU_DB)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file, environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"log.debug":     "debug",
		"log.json":      "json",
		"store.db_path": "db",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}
	return config.Load(v, cfgFile)
}

// newLogger builds the process logger from the global flags only, for
// commands that never load the full config.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	json, _ := cmd.Flags().GetBool("json")
	return newLoggerFromConfig(json, debug)
}

func newLoggerFromConfig(json, debug bool) (*zap.Logger, error) {
	log, err := logger.New(json, debug)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log.Named(app), nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then VINTERVU_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
