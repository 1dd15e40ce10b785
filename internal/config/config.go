package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CrossEncoderConfig holds configuration for an HTTP cross-encoder endpoint.
type CrossEncoderConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Format      string `yaml:"format"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbeddingConfig holds configuration for the OpenAI-compatible embeddings scorer.
type EmbeddingConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ScorerConfig selects and configures the relevance scorer.
type ScorerConfig struct {
	Type         string              `yaml:"type"`
	CrossEncoder *CrossEncoderConfig `yaml:"cross_encoder,omitempty"`
	Embedding    *EmbeddingConfig    `yaml:"embedding,omitempty"`
}

// EmphasisConfig controls middle-token emphasis before scoring.
// A nil Separator selects the scorer's default, see AppConfig.EmphasisSeparator.
type EmphasisConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Factor    int     `yaml:"factor"`
	Separator *string `yaml:"separator,omitempty"`
}

// ChunkerConfig configures how input files are split into passages.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Scorer   ScorerConfig   `yaml:"scorer"`
	Emphasis EmphasisConfig `yaml:"emphasis"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Log      LogConfig      `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	// Decode over defaults so omitted keys keep their default values.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./rerank.yaml first, then ~/.config/rerank/config.yaml.
// If neither exists, it writes defaults to ~/.config/rerank/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "rerank.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultUserConfigPath returns ~/.config/rerank/config.yaml.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rerank", "config.yaml"), nil
}

// Default returns the built-in configuration: offline TF-IDF scoring,
// emphasis factor 1 with the scorer's default separator, one passage per
// input line.
func Default() *AppConfig {
	return &AppConfig{
		Scorer:   ScorerConfig{Type: "tfidf"},
		Emphasis: EmphasisConfig{Enabled: true, Factor: 1},
		Chunker:  ChunkerConfig{Type: "line", SentencesPerChunk: 3, OverlapSentences: 0},
		Log:      LogConfig{Level: "warn", Format: "console"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Emphasis.Factor < 1 {
		cfg.Emphasis.Factor = 1
	}
	if cfg.Chunker.SentencesPerChunk <= 0 {
		cfg.Chunker.SentencesPerChunk = 3
	}
	if cfg.Scorer.Type == "crossencoder" {
		if cfg.Scorer.CrossEncoder == nil {
			cfg.Scorer.CrossEncoder = &CrossEncoderConfig{}
		}
		ce := cfg.Scorer.CrossEncoder
		if ce.URL == "" {
			ce.URL = "http://localhost:7997/rerank"
		}
		if ce.Model == "" {
			ce.Model = "cross-encoder/stsb-roberta-base"
		}
		if ce.Format == "" {
			ce.Format = "cohere"
		}
		if ce.TimeoutSecs == 0 {
			ce.TimeoutSecs = 30
		}
	}
	if cfg.Scorer.Type == "embedding" {
		if cfg.Scorer.Embedding == nil {
			cfg.Scorer.Embedding = &EmbeddingConfig{}
		}
		em := cfg.Scorer.Embedding
		if em.BaseURL == "" {
			em.BaseURL = "https://api.openai.com/v1"
		}
		if em.APIKeyEnv == "" && em.BaseURL == "https://api.openai.com/v1" {
			em.APIKeyEnv = "OPENAI_API_KEY"
		}
		if em.Model == "" {
			em.Model = "text-embedding-3-small"
		}
		if em.TimeoutSecs == 0 {
			em.TimeoutSecs = 30
		}
	}
}

// EmphasisSeparator returns the string emphasized tokens are joined with.
// Model-backed scorers get the bare concatenation. The offline scorers
// split on word boundaries and would see one glued token per passage, so
// they get a space.
func (c *AppConfig) EmphasisSeparator() string {
	if c.Emphasis.Separator != nil {
		return *c.Emphasis.Separator
	}
	switch c.Scorer.Type {
	case "tfidf", "lexical", "":
		return " "
	default:
		return ""
	}
}

// ApplyDefaults fills in backend defaults after the scorer type has been
// changed programmatically (e.g. by a command-line override).
func ApplyDefaults(cfg *AppConfig) { applyConfigDefaults(cfg) }
