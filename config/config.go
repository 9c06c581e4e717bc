// Package config loads the service configuration from YAML with
// environment variable overrides for secrets.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig configures an OpenAI-compatible endpoint. The API key
// is read from the environment variable named by APIKeyEnv, never from
// the file.
type OpenAIConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	// Type is "openai" or "local".
	Type       string        `yaml:"type"`
	Dimensions int           `yaml:"dimensions"`
	OpenAI     *OpenAIConfig `yaml:"openai,omitempty"`
}

// StoreConfig selects and configures the vector store implementation.
type StoreConfig struct {
	// Type is "sqlite", "pgvector" or "memory".
	Type       string `yaml:"type"`
	PersistDir string `yaml:"persist_dir"`
	Collection string `yaml:"collection"`
	// ConnString is the PostgreSQL connection string for pgvector.
	ConnString string `yaml:"conn_string"`
	Dimension  int    `yaml:"dimension"`
}

// GeneratorConfig selects and configures answer generation.
type GeneratorConfig struct {
	// Type is "openai", "openrouter", "bedrock" or "extractive".
	Type   string        `yaml:"type"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
	// BedrockModel is the Bedrock model id when Type is "bedrock".
	BedrockModel string `yaml:"bedrock_model"`
}

// ChunkingConfig configures how extracted elements are split. Type
// "word" sizes chunks in characters, "token" sizes them in model
// tokens counted with the tokenizer for TokenModel.
type ChunkingConfig struct {
	Type         string `yaml:"type"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TokenModel   string `yaml:"token_model"`
}

// OCRConfig configures text recognition.
type OCRConfig struct {
	TesseractPath string `yaml:"tesseract_path"`
	DataPath      string `yaml:"data_path"`
	Languages     string `yaml:"languages"`
	RasterDPI     int    `yaml:"raster_dpi"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the root configuration structure.
type Config struct {
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Store     StoreConfig     `yaml:"store"`
	Generator GeneratorConfig `yaml:"generator"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	OCR       OCRConfig       `yaml:"ocr"`
	Server    ServerConfig    `yaml:"server"`
	TopK      int             `yaml:"top_k"`
}

// Load reads a config from path. A missing file returns the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// APIKey resolves the key for an OpenAI-compatible endpoint from the
// environment.
func (c *OpenAIConfig) APIKey() string {
	if c == nil || c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// Default returns the configuration used when no file exists: a local
// embedder and SQLite store, so the service runs without any external
// dependencies.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "local"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIConfig{}
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
	}

	if cfg.Store.Type == "" {
		cfg.Store.Type = "sqlite"
	}
	if cfg.Store.PersistDir == "" {
		cfg.Store.PersistDir = ".ragdata"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "visual-docs"
	}

	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "extractive"
	}
	switch cfg.Generator.Type {
	case "openai":
		if cfg.Generator.OpenAI == nil {
			cfg.Generator.OpenAI = &OpenAIConfig{}
		}
		if cfg.Generator.OpenAI.APIKeyEnv == "" {
			cfg.Generator.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Generator.OpenAI.Model == "" {
			cfg.Generator.OpenAI.Model = "gpt-4o-mini"
		}
	case "openrouter":
		if cfg.Generator.OpenAI == nil {
			cfg.Generator.OpenAI = &OpenAIConfig{}
		}
		if cfg.Generator.OpenAI.BaseURL == "" {
			cfg.Generator.OpenAI.BaseURL = "https://openrouter.ai/api/v1"
		}
		if cfg.Generator.OpenAI.APIKeyEnv == "" {
			cfg.Generator.OpenAI.APIKeyEnv = "OPENROUTER_API_KEY"
		}
		if cfg.Generator.OpenAI.Model == "" {
			cfg.Generator.OpenAI.Model = "mistralai/mistral-7b-instruct:free"
		}
	}

	if cfg.Chunking.Type == "" {
		cfg.Chunking.Type = "word"
	}
	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = 1000
	}
	if cfg.Chunking.ChunkOverlap == 0 {
		cfg.Chunking.ChunkOverlap = 150
	}
	if cfg.Chunking.TokenModel == "" {
		cfg.Chunking.TokenModel = "gpt-3.5-turbo"
	}

	if cfg.OCR.TesseractPath == "" {
		cfg.OCR.TesseractPath = "tesseract"
	}
	if cfg.OCR.Languages == "" {
		cfg.OCR.Languages = "eng"
	}
	if cfg.OCR.RasterDPI == 0 {
		cfg.OCR.RasterDPI = 200
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	if cfg.TopK == 0 {
		cfg.TopK = 5
	}
}
