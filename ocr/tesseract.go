// Package ocr wraps the Tesseract binary to recognize text in raster
// images, with a small preprocessing pass tuned for noisy scans.
package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Config holds the OCR configuration
type Config struct {
	// TesseractPath is the path to the tesseract executable
	TesseractPath string
	// DataPath is the path to the tessdata directory (optional)
	DataPath string
	// Languages are the languages to use for OCR (e.g., "eng" or "deu+eng")
	Languages string
}

// DefaultConfig returns the default OCR configuration
func DefaultConfig() *Config {
	return &Config{
		TesseractPath: "tesseract",
		DataPath:      "",
		Languages:     "eng",
	}
}

// Client provides OCR functionality
type Client struct {
	config *Config
}

// NewClient creates a new OCR client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.TesseractPath == "" {
		config.TesseractPath = "tesseract"
	}
	if config.Languages == "" {
		config.Languages = "eng"
	}
	return &Client{config: config}
}

// Languages returns the configured recognition languages.
func (c *Client) Languages() string {
	return c.config.Languages
}

// ExtractImage preprocesses the image (grayscale, Otsu binarization,
// median denoise) and runs Tesseract on it. Returns the trimmed
// recognized text, which may be empty.
func (c *Client) ExtractImage(ctx context.Context, img image.Image) (string, error) {
	prepared := Preprocess(img)

	tmpFile, err := os.CreateTemp("", "ocr_*.png")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, prepared); err != nil {
		tmpFile.Close()
		return "", errors.Wrap(err, "failed to encode preprocessed image")
	}
	if err := tmpFile.Close(); err != nil {
		return "", errors.Wrap(err, "failed to flush temp file")
	}

	return c.runTesseract(ctx, tmpPath)
}

// ExtractFile opens an image file and recognizes its text.
func (c *Client) ExtractFile(ctx context.Context, path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open image %s", path)
	}
	return c.ExtractImage(ctx, img)
}

func (c *Client) runTesseract(ctx context.Context, imagePath string) (string, error) {
	// Tesseract writes <out>.txt next to the given output base.
	outPath := strings.TrimSuffix(imagePath, filepath.Ext(imagePath))

	args := []string{imagePath, outPath}
	if c.config.Languages != "" {
		args = append(args, "-l", c.config.Languages)
	}
	if c.config.DataPath != "" {
		args = append(args, "--tessdata-dir", c.config.DataPath)
	}

	cmd := exec.CommandContext(ctx, c.config.TesseractPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slog.Warn("tesseract command failed", "error", err, "stderr", stderr.String())
		return "", errors.Wrap(err, "tesseract command failed")
	}

	txtPath := outPath + ".txt"
	defer os.Remove(txtPath)

	text, err := os.ReadFile(txtPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to read OCR output")
	}

	return strings.TrimSpace(string(text)), nil
}

// IsAvailable checks if Tesseract is available
func (c *Client) IsAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, c.config.TesseractPath, "--version")
	return cmd.Run() == nil
}
