package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func newAPICmd() *cobra.Command {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		registry.Register(ep)
	}
	apiCmd := registry.BuildCommands(getServerURL)

	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	var attempts uint
	var delay time.Duration
	waitCmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until the server answers /health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.WaitReady(cmd.Context(), attempts, delay); err != nil {
				return fmt.Errorf("server at %s not ready: %w", getServerURL(), err)
			}
			fmt.Println("ready")
			return nil
		},
	}
	waitCmd.Flags().UintVar(&attempts, "attempts", 30, "Number of attempts")
	waitCmd.Flags().DurationVar(&delay, "delay", time.Second, "Delay between attempts")
	apiCmd.AddCommand(waitCmd)

	return apiCmd
}

func init() {
	rootCmd.AddCommand(newAPICmd())
}
