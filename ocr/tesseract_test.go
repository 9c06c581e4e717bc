package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "tesseract", cfg.TesseractPath)
	require.Equal(t, "eng", cfg.Languages)
	require.Empty(t, cfg.DataPath)
}

func TestNewClient_NilConfigUsesDefaults(t *testing.T) {
	c := NewClient(nil)
	require.Equal(t, "tesseract", c.config.TesseractPath)
	require.Equal(t, "eng", c.Languages())
}

func TestNewClient_EmptyFieldsFilled(t *testing.T) {
	c := NewClient(&Config{Languages: "spa+eng"})
	require.Equal(t, "tesseract", c.config.TesseractPath)
	require.Equal(t, "spa+eng", c.Languages())
}
