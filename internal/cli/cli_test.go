package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vidhi35/Kisan-Mitra/internal/config"
)

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":                         "",
		"short":                    "*****",
		"AIzaSyD-1234567890abcdef": "AIza...cdef",
	}
	for in, want := range tests {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReportEnv(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.Groq.APIKey = "gsk_abcdefghijklmnop"

	var out bytes.Buffer
	err := reportEnv(&out, envChecks(cfg))
	if !errors.Is(err, errMissingKeys) {
		t.Fatalf("expected missing keys error, got %v", err)
	}
	if !strings.Contains(out.String(), "GEMINI_API_KEY") || !strings.Contains(out.String(), "gsk_...mnop") {
		t.Errorf("unexpected report:\n%s", out.String())
	}

	cfg.Providers.Gemini.APIKey = "AIzaSyD-1234567890abcdef"
	out.Reset()
	if err := reportEnv(&out, envChecks(cfg)); err != nil {
		t.Errorf("expected success once gemini is set, got %v", err)
	}
}

func TestEnvChecksPostgres(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Type = "postgres"
	checks := envChecks(cfg)
	if last := checks[len(checks)-1]; last.Name != "DATABASE_URL" || !last.Required {
		t.Errorf("expected DATABASE_URL to be required for postgres, got %+v", last)
	}
}

func TestFetchHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"error","checks":{"gemini":{"configured":false,"status":"missing","model":{"provider":"gemini","model":"gemini-2.0-flash"}}}}`))
	}))
	defer srv.Close()

	report, err := fetchHealth(context.Background(), srv.Client(), srv.URL+"/api/health")
	if err != nil {
		t.Fatalf("fetchHealth: %v", err)
	}
	if report.Ready() || report.Checks["gemini"].Status != "missing" {
		t.Errorf("unexpected report %+v", report)
	}

	var out bytes.Buffer
	printHealth(&out, report)
	if !strings.Contains(out.String(), "status: error") || !strings.Contains(out.String(), "missing (gemini-2.0-flash)") {
		t.Errorf("unexpected output %q", out.String())
	}

	if _, err := fetchHealth(context.Background(), srv.Client(), srv.URL+"/other"); err == nil {
		t.Error("expected a decode error for a non-JSON response")
	}
}
