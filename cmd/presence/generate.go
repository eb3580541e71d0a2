package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/brief"
	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/llmcall"
	"github.com/jackzampolin/presence/internal/profile"
	"github.com/jackzampolin/presence/internal/prompts/content"
	"github.com/jackzampolin/presence/internal/providers"
	"github.com/jackzampolin/presence/internal/server/endpoints"
	"github.com/jackzampolin/presence/internal/session"
	"github.com/jackzampolin/presence/internal/studio"
)

// profileFile is the on-disk form of a company profile.
type profileFile struct {
	Name       string `yaml:"name"`
	Industry   string `yaml:"industry"`
	Size       string `yaml:"size"`
	Goals      string `yaml:"goals"`
	Audience   string `yaml:"audience"`
	BrandVoice string `yaml:"brand_voice"`
	BrandRules string `yaml:"brand_rules"`
	Website    string `yaml:"website"`
}

func readProfile(path string) (profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return profile.Profile{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return profile.Profile(f), nil
}

func newGenerateCmd() *cobra.Command {
	var in brief.Input
	var profilePath string
	var save bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate content once, without a server",
		Long: `Generate content variants in-process using the configured provider.

Falls back to offline templates when no provider is reachable. With --save
the resulting history is exported to the home directory's exports folder.`,
		Example: `  presence generate --topic "Launch X" --bullets $'fast\nsecure' --variants 3
  presence generate --profile acme.yaml --type "Email" --topic "Spring sale" --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, cfgMgr, err := loadConfig()
			if err != nil {
				return err
			}
			cfg := cfgMgr.Get()

			registry := providers.NewRegistry()
			registry.Reload(cfg.ToProviderRegistryConfig())
			recorder := llmcall.NewRecorder(llmcall.DefaultCapacity)

			gen, err := generation.FromRegistry(registry, cfg.Defaults.LLMProvider, content.SystemPrompt(), recorder)
			if err != nil {
				fmt.Fprintf(os.Stderr, "provider %q unavailable: %v\n", cfg.Defaults.LLMProvider, err)
			}
			engine := generation.NewEngine(generation.Config{})
			engine.Apply(generation.Settings{
				Generator:   gen,
				Temperature: cfg.Defaults.Temperature,
				MaxTokens:   cfg.Defaults.MaxTokens,
			})
			s := studio.New(studio.Config{
				Engine:   engine,
				Settings: studio.Settings{RequireBullets: cfg.Generation.RequireBullets},
			})

			st := session.NewState(cfg.History.Cap)
			if profilePath != "" {
				p, err := readProfile(profilePath)
				if err != nil {
					return err
				}
				st.Profile.Set(p)
			}

			res, err := s.Generate(cmd.Context(), st, in)
			if err != nil {
				return err
			}
			if res.Diagnostic != nil {
				fmt.Fprintf(os.Stderr, "offline output (%s)\n", res.Diagnostic)
			}

			if save {
				if err := h.EnsureExists(); err != nil {
					return err
				}
				data, err := st.History.Export()
				if err != nil {
					return err
				}
				path := h.HistoryExportPath(time.Now())
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				fmt.Fprintf(os.Stderr, "Saved history to %s\n", path)
			}

			if api.IsStructuredOutput() {
				return api.Output(res)
			}
			return api.Output(res.Variants)
		},
	}
	endpoints.BindBriefFlags(cmd, &in)
	cmd.Flags().IntVar(&in.VariantCount, "variants", 1, "Number of variants (1-3)")
	cmd.Flags().StringVar(&profilePath, "profile", "", "Company profile YAML (default: built-in sample company)")
	cmd.Flags().BoolVar(&save, "save", false, "Export the resulting history")
	return cmd
}

func init() {
	rootCmd.AddCommand(newGenerateCmd())
}
