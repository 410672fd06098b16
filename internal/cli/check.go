package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/config"
	"github.com/Vidhi35/Kisan-Mitra/internal/service"

	"github.com/spf13/cobra"
)

var errMissingKeys = errors.New("required environment variables are missing")

var checkEnvCmd = &cobra.Command{
	Use:   "check-env",
	Short: "Report which API keys are configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return reportEnv(cmd.OutOrStdout(), envChecks(cfg))
	},
}

var healthURL string

var healthCheckCmd = &cobra.Command{
	Use:   "health-check",
	Short: "Query a running server's /api/health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := healthURL
		if url == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			url = fmt.Sprintf("http://localhost:%s/api/health", cfg.Server.Port)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		report, err := fetchHealth(ctx, http.DefaultClient, url)
		if err != nil {
			return err
		}
		printHealth(cmd.OutOrStdout(), report)
		if !report.Ready() {
			return fmt.Errorf("server reported status %q", report.Status)
		}
		return nil
	},
}

func init() {
	healthCheckCmd.Flags().StringVar(&healthURL, "url", "", "health endpoint (default http://localhost:<server.port>/api/health)")
}

type envCheck struct {
	Name     string
	Value    string
	Required bool
	Purpose  string
}

func envChecks(cfg *config.Config) []envCheck {
	p := cfg.Providers
	checks := []envCheck{
		{"GEMINI_API_KEY", p.Gemini.APIKey, true, "chat and diagnosis"},
		{"OPENROUTER_API_KEY", p.OpenRouter.APIKey, false, "fallback chat and vision"},
		{"GROQ_API_KEY", p.Groq.APIKey, false, "image analysis advice"},
		{"PERPLEXITY_API_KEY", p.Perplexity.APIKey, false, "schemes, news and market insight"},
		{"HF_ACCESS_TOKEN", p.HuggingFace.APIKey, false, "disease classifier"},
	}
	if cfg.Database.Type == "postgres" {
		checks = append(checks, envCheck{"DATABASE_URL", cfg.Database.URL, true, "postgres storage"})
	}
	return checks
}

func reportEnv(w io.Writer, checks []envCheck) error {
	missing := 0
	for _, c := range checks {
		switch {
		case c.Value != "":
			fmt.Fprintf(w, "✅ %-20s %s (%s)\n", c.Name, maskSecret(c.Value), c.Purpose)
		case c.Required:
			missing++
			fmt.Fprintf(w, "❌ %-20s missing (%s)\n", c.Name, c.Purpose)
		default:
			fmt.Fprintf(w, "⚠️  %-20s not set, optional (%s)\n", c.Name, c.Purpose)
		}
	}
	if missing > 0 {
		return errMissingKeys
	}
	fmt.Fprintln(w, "All required keys are configured.")
	return nil
}

// maskSecret keeps the first and last four characters of long values.
func maskSecret(v string) string {
	if len(v) <= 12 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + "..." + v[len(v)-4:]
}

func fetchHealth(ctx context.Context, client *http.Client, url string) (service.HealthReport, error) {
	var report service.HealthReport

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return report, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return report, fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return report, fmt.Errorf("failed to decode health response (status %d): %w", resp.StatusCode, err)
	}
	return report, nil
}

func printHealth(w io.Writer, r service.HealthReport) {
	fmt.Fprintf(w, "status: %s\n", r.Status)
	for _, name := range []string{"gemini", "openrouter", "groq", "perplexity", "huggingface", "database"} {
		c, ok := r.Checks[name]
		if !ok {
			continue
		}
		if model, ok := c.Model["model"].(string); ok && model != "" {
			fmt.Fprintf(w, "  %-12s %s (%s)\n", name, c.Status, model)
			continue
		}
		fmt.Fprintf(w, "  %-12s %s\n", name, c.Status)
	}
}
