package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/config"
	"github.com/jackzampolin/presence/internal/home"
	"github.com/jackzampolin/presence/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "presence",
	Short: "PR and marketing content assistant",
	Long: `Presence drafts PR and marketing content from a company profile and a
short brief.

It provides:
  - Content variants (press releases, ads, social posts, landing pages,
    emails, blog intros) with offline templates when no model is reachable
  - Strategy ideas, A/B/C testing with scoring, and a word optimizer
  - A per-session history with tag filters, search, export and import
  - A campaign brief assembled from the latest results`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.presence/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "presence home directory (default: ~/.presence)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or text",
	)

	// Set output format and load .env files before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		api.SetOutputFormat(outputFormat)
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		loadEnv(h.EnvPath(), ".env")
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

// loadEnv loads each .env file that exists. Variables already set in the
// environment win.
func loadEnv(paths ...string) {
	for _, p := range paths {
		err := godotenv.Load(p)
		switch {
		case err == nil:
			slog.Debug("loaded env file", "path", p)
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("failed to load env file", "path", p, "error", err)
		}
	}
}

// loadConfig resolves the home directory and reads configuration.
func loadConfig() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	cfgMgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, err
	}
	return h, cfgMgr, nil
}
