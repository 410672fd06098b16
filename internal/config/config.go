package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider holds credentials and limits for one model vendor.
type Provider struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Model             string        `yaml:"model"`
	VisionModel       string        `yaml:"vision_model"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// Config holds application configuration
type Config struct {
	Server struct {
		Port           string        `yaml:"port"`
		Mode           string        `yaml:"mode"` // gin mode: debug, release, test
		RequestTimeout time.Duration `yaml:"request_timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"server"`

	Legacy struct {
		Port        string `yaml:"port"`
		GeminiModel string `yaml:"gemini_model"`
	} `yaml:"legacy"`

	Log struct {
		Level string `yaml:"level"` // development or production
	} `yaml:"log"`

	Database struct {
		Type string `yaml:"type"` // "sqlite" or "postgres"
		URL  string `yaml:"url"`  // SQLite path or PostgreSQL URL
	} `yaml:"database"`

	Storage struct {
		Dir        string `yaml:"dir"`
		PublicPath string `yaml:"public_path"`
	} `yaml:"storage"`

	Providers struct {
		Gemini      Provider `yaml:"gemini"`
		OpenRouter  Provider `yaml:"openrouter"`
		Groq        Provider `yaml:"groq"`
		Perplexity  Provider `yaml:"perplexity"`
		HuggingFace Provider `yaml:"huggingface"`
	} `yaml:"providers"`

	OpenRouter struct {
		Referer string `yaml:"referer"`
		Title   string `yaml:"title"`
	} `yaml:"openrouter"`

	User struct {
		DefaultID string `yaml:"default_id"`
	} `yaml:"user"`

	Language struct {
		Chat     string `yaml:"chat"`
		Analysis string `yaml:"analysis"`
	} `yaml:"language"`
}

// LoadConfig loads configuration from YAML file. A missing file yields the
// defaults with secrets taken from the environment.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	config.expand()
	config.setDefaults()
	return config, nil
}

// Parse decodes configuration from raw YAML. Used by tests and embedded
// defaults.
func Parse(data []byte) (*Config, error) {
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	config.expand()
	config.setDefaults()
	return config, nil
}

func (c *Config) expand() {
	c.Database.URL = os.ExpandEnv(c.Database.URL)
	for _, p := range c.providers() {
		p.APIKey = strings.TrimSpace(os.ExpandEnv(p.APIKey))
		p.BaseURL = os.ExpandEnv(p.BaseURL)
	}
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 60 * time.Second
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	if c.Legacy.Port == "" {
		c.Legacy.Port = "8080"
	}
	if c.Legacy.GeminiModel == "" {
		c.Legacy.GeminiModel = "gemini-pro"
	}

	if c.Log.Level == "" {
		c.Log.Level = "development"
	}

	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.URL == "" {
		if c.Database.Type == "postgres" {
			c.Database.URL = os.Getenv("DATABASE_URL")
		} else {
			c.Database.URL = "./data/kisaanmitra.db"
		}
	}

	if c.Storage.Dir == "" {
		c.Storage.Dir = "./data/uploads"
	}
	if c.Storage.PublicPath == "" {
		c.Storage.PublicPath = "/uploads"
	}

	if c.Providers.Gemini.APIKey == "" {
		c.Providers.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Providers.Gemini.Model == "" {
		c.Providers.Gemini.Model = "gemini-1.5-flash"
	}
	if c.Providers.OpenRouter.APIKey == "" {
		c.Providers.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if c.Providers.OpenRouter.Model == "" {
		c.Providers.OpenRouter.Model = "amazon/nova-2-lite-v1:free"
	}
	if c.Providers.OpenRouter.VisionModel == "" {
		c.Providers.OpenRouter.VisionModel = "google/gemini-2.0-flash-exp:free"
	}
	if c.Providers.Groq.APIKey == "" {
		c.Providers.Groq.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if c.Providers.Groq.Model == "" {
		c.Providers.Groq.Model = "llama-3.3-70b-versatile"
	}
	if c.Providers.Perplexity.APIKey == "" {
		c.Providers.Perplexity.APIKey = os.Getenv("PERPLEXITY_API_KEY")
	}
	if c.Providers.Perplexity.Model == "" {
		c.Providers.Perplexity.Model = "llama-3.1-sonar-large-128k-online"
	}
	if c.Providers.HuggingFace.APIKey == "" {
		c.Providers.HuggingFace.APIKey = os.Getenv("HF_ACCESS_TOKEN")
	}
	for _, p := range c.providers() {
		if p.Timeout == 0 {
			p.Timeout = 30 * time.Second
		}
	}

	if c.OpenRouter.Referer == "" {
		c.OpenRouter.Referer = "https://plantdoctor.app"
	}
	if c.OpenRouter.Title == "" {
		c.OpenRouter.Title = "PlantDoctor Kisaan Mitra"
	}

	if c.User.DefaultID == "" {
		c.User.DefaultID = "00000000-0000-0000-0000-000000000001"
	}

	if c.Language.Chat == "" {
		c.Language.Chat = "hi"
	}
	if c.Language.Analysis == "" {
		c.Language.Analysis = "en"
	}
}

func (c *Config) providers() []*Provider {
	return []*Provider{
		&c.Providers.Gemini,
		&c.Providers.OpenRouter,
		&c.Providers.Groq,
		&c.Providers.Perplexity,
		&c.Providers.HuggingFace,
	}
}
