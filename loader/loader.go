// Package loader turns source files into typed document elements.
// PDFs go through text-layer extraction with table detection and OCR
// fallbacks for scanned pages and embedded images. Raster images go
// straight to OCR.
package loader

import (
	"context"

	"github.com/visualdoc/ragservice/document"
)

// Element sources recorded on extracted content.
const (
	SourcePDFText     = "pdf_text"
	SourcePDFTable    = "pdf_table"
	SourcePDFImageOCR = "pdf_image_ocr"
	SourcePDFOCRFull  = "pdf_ocr_full"
	SourceImageOCR    = "image_ocr"
)

// Loader extracts typed elements from a file on disk.
type Loader interface {
	// Load reads the file and returns its elements in page order.
	// Elements always carry non-empty text.
	Load(ctx context.Context, path string) ([]document.Element, error)
}

var _ Loader = (*PDFLoader)(nil)
var _ Loader = (*ImageLoader)(nil)
