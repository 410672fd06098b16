// Package cli contains the cobra commands of the kisaanmitra binary.
// Running it without a subcommand starts the API server.
package cli

import (
	"fmt"

	"github.com/Vidhi35/Kisan-Mitra/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kisaanmitra",
	Short: "Kisaan Mitra farming assistant backend",
	Long: `Kisaan Mitra serves the farmer assistant API:
  • multilingual chat and plant disease diagnosis with provider fallback
  • government scheme, news and mandi price lookups
  • community forum, farm records, market rates and weather alerts

Run 'kisaanmitra' to start the API server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, legacyCmd, migrateCmd, checkEnvCmd, healthCheckCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads .env, when present, before the YAML file so that ${VAR}
// references resolve.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
