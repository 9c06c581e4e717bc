package loader

import (
	"context"

	"github.com/visualdoc/ragservice/document"
	"github.com/visualdoc/ragservice/ocr"
)

// ImageLoader recognizes text in standalone raster images. A single
// image counts as page 1.
type ImageLoader struct {
	ocr *ocr.Client
}

// NewImageLoader creates an image loader backed by the given OCR
// client.
func NewImageLoader(ocrClient *ocr.Client) *ImageLoader {
	return &ImageLoader{ocr: ocrClient}
}

// Load recognizes the image's text. An image with no recognizable
// text yields zero elements and no error.
func (l *ImageLoader) Load(ctx context.Context, path string) ([]document.Element, error) {
	if l.ocr == nil {
		return nil, NewLoaderError("Load", path, "no OCR client is configured", nil)
	}

	text, err := l.ocr.ExtractFile(ctx, path)
	if err != nil {
		return nil, NewLoaderError("Load", path, "recognition failed", err)
	}
	if text = document.CleanText(text); text == "" {
		return nil, nil
	}

	return []document.Element{{
		Type:   document.ElementImageOCR,
		Text:   text,
		Page:   1,
		Source: SourceImageOCR,
	}}, nil
}
