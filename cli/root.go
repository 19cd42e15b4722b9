// Package cli wires the stardust command line: the HTTP server, schema
// migration and an offline preview of the daily content.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stardust-app/server/config"
	"go.uber.org/zap"
)

const Version = "0.3.0"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "stardust",
	Short:         "Stardust companion server",
	Long:          "Stardust serves daily quests, guidance and a growing companion pet over a JSON API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command. Without a subcommand it serves.
func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.yaml", "path to the YAML config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newPreviewCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, bad.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
