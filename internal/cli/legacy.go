package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Vidhi35/Kisan-Mitra/internal/legacy"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/spf13/cobra"
)

var legacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "Start the standalone agent query server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer logger.Sync()

		c, err := newClients(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer c.Close()

		h := legacy.NewHandler(map[string]legacy.Generator{
			"gemini": legacy.GeneratorFunc(func(ctx context.Context, prompt string) models.ProviderResult {
				return c.gemini.Generate(ctx, cfg.Legacy.GeminiModel, prompt)
			}),
			"groq": legacy.GeneratorFunc(func(ctx context.Context, prompt string) models.ProviderResult {
				return c.groq.Complete(ctx, "", prompt)
			}),
			"openrouter": c.openrouter,
		}, logger)

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Legacy.Port),
			Handler: legacy.NewRouter(h, cfg.Server.AllowedOrigins),
		}
		return serveUntilSignal(srv, logger)
	},
}
