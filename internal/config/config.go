// Package config loads the YAML configuration for coldreach.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	LLM       LLMConfig
	Portfolio PortfolioConfig
	Fetch     FetchConfig
	History   HistoryConfig
	Server    ServerConfig
}

// LLMConfig controls the chat-completion endpoint used for extraction and
// email composition.
type LLMConfig struct {
	BaseURL string        // defaults to the Groq OpenAI-compatible endpoint
	Model   string        // model identifier, e.g. "llama-3.3-70b-versatile"
	APIKey  string        // expanded from env var by Load; validated on first call, not here
	Timeout time.Duration // per-request timeout
}

// PortfolioConfig locates the tabular source and the persistent index.
type PortfolioConfig struct {
	SourcePath string // CSV with Techstack and Links columns
	IndexPath  string // directory holding the similarity index
}

// FetchConfig controls the page fetcher.
type FetchConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// HistoryConfig controls where generated emails are recorded.
type HistoryConfig struct {
	DBPath string
}

// ServerConfig controls the optional HTTP facade.
type ServerConfig struct {
	Addr string
}

const (
	defaultBaseURL    = "https://api.groq.com/openai/v1"
	defaultModel      = "llama-3.3-70b-versatile"
	defaultIndexPath  = "vectorstore"
	defaultDBPath     = "coldreach.db"
	defaultAddr       = ":8080"
	defaultUserAgent  = "coldreach/1.0"
	defaultLLMTimeout = 60 * time.Second
	defaultFetchTO    = 30 * time.Second
)

// rawConfig is used for YAML unmarshaling (snake_case fields, durations as strings).
type rawConfig struct {
	LLM       rawLLMConfig       `yaml:"llm"`
	Portfolio rawPortfolioConfig `yaml:"portfolio"`
	Fetch     rawFetchConfig     `yaml:"fetch"`
	History   rawHistoryConfig   `yaml:"history"`
	Server    rawServerConfig    `yaml:"server"`
}

type rawLLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

type rawPortfolioConfig struct {
	SourcePath string `yaml:"source_path"`
	IndexPath  string `yaml:"index_path"`
}

type rawFetchConfig struct {
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

type rawHistoryConfig struct {
	DBPath string `yaml:"db_path"`
}

type rawServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads and parses the YAML config at path, applies defaults, validates
// it, and returns Config. Environment variables in the file are expanded, so
// the API key can be written as ${GROQ_API_KEY}.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	llmTimeout := defaultLLMTimeout
	if raw.LLM.Timeout != "" {
		llmTimeout, err = time.ParseDuration(raw.LLM.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse llm.timeout %q: %w", raw.LLM.Timeout, err)
		}
	}

	fetchTimeout := defaultFetchTO
	if raw.Fetch.Timeout != "" {
		fetchTimeout, err = time.ParseDuration(raw.Fetch.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.timeout %q: %w", raw.Fetch.Timeout, err)
		}
	}

	cfg := &Config{
		LLM: LLMConfig{
			BaseURL: orDefault(raw.LLM.BaseURL, defaultBaseURL),
			Model:   orDefault(raw.LLM.Model, defaultModel),
			APIKey:  raw.LLM.APIKey,
			Timeout: llmTimeout,
		},
		Portfolio: PortfolioConfig{
			SourcePath: raw.Portfolio.SourcePath,
			IndexPath:  orDefault(raw.Portfolio.IndexPath, defaultIndexPath),
		},
		Fetch: FetchConfig{
			Timeout:   fetchTimeout,
			UserAgent: orDefault(raw.Fetch.UserAgent, defaultUserAgent),
		},
		History: HistoryConfig{
			DBPath: orDefault(raw.History.DBPath, defaultDBPath),
		},
		Server: ServerConfig{
			Addr: orDefault(raw.Server.Addr, defaultAddr),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func validate(cfg *Config) error {
	if cfg.Portfolio.SourcePath == "" {
		return fmt.Errorf("portfolio.source_path is required")
	}
	if cfg.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %v", cfg.LLM.Timeout)
	}
	if cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %v", cfg.Fetch.Timeout)
	}
	return nil
}
