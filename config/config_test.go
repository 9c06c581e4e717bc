package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Embedder.Type != "local" {
		t.Errorf("embedder type = %q, want local", cfg.Embedder.Type)
	}
	if cfg.Store.Collection != "visual-docs" {
		t.Errorf("collection = %q", cfg.Store.Collection)
	}
	if cfg.Chunking.ChunkSize != 1000 || cfg.Chunking.ChunkOverlap != 150 {
		t.Errorf("chunking = %+v", cfg.Chunking)
	}
	if cfg.TopK != 5 {
		t.Errorf("top_k = %d", cfg.TopK)
	}
}

func TestLoad_FileWithPartialValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
store:
  type: sqlite
  collection: invoices
chunking:
  chunk_size: 600
top_k: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Collection != "invoices" {
		t.Errorf("collection = %q", cfg.Store.Collection)
	}
	if cfg.Chunking.ChunkSize != 600 {
		t.Errorf("chunk_size = %d", cfg.Chunking.ChunkSize)
	}
	// Unset values still get defaults.
	if cfg.Chunking.ChunkOverlap != 150 {
		t.Errorf("chunk_overlap = %d", cfg.Chunking.ChunkOverlap)
	}
	if cfg.OCR.Languages != "eng" {
		t.Errorf("ocr languages = %q", cfg.OCR.Languages)
	}
	if cfg.TopK != 3 {
		t.Errorf("top_k = %d", cfg.TopK)
	}
}

func TestLoad_OpenRouterDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("generator:\n  type: openrouter\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generator.OpenAI == nil {
		t.Fatal("openrouter generator config not filled")
	}
	if cfg.Generator.OpenAI.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("base_url = %q", cfg.Generator.OpenAI.BaseURL)
	}
	if cfg.Generator.OpenAI.APIKeyEnv != "OPENROUTER_API_KEY" {
		t.Errorf("api_key_env = %q", cfg.Generator.OpenAI.APIKeyEnv)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestOpenAIConfig_APIKey(t *testing.T) {
	t.Setenv("TEST_RAG_KEY", "sk-test")
	c := &OpenAIConfig{APIKeyEnv: "TEST_RAG_KEY"}
	if got := c.APIKey(); got != "sk-test" {
		t.Errorf("APIKey() = %q", got)
	}

	var nilCfg *OpenAIConfig
	if got := nilCfg.APIKey(); got != "" {
		t.Errorf("nil APIKey() = %q", got)
	}
}
