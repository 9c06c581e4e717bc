package loader

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// Verdict is the result of inspecting a PDF's text layer.
type Verdict int

const (
	// VerdictTextLayer means the document carries a usable text layer.
	VerdictTextLayer Verdict = iota
	// VerdictNeedsFullOCR means the document looks scanned and its
	// pages must be rasterized and recognized.
	VerdictNeedsFullOCR
)

const (
	// classifyPageLimit bounds how many leading pages are sampled.
	classifyPageLimit = 3
	// scannedTextThreshold is the minimum number of text-layer
	// characters across the sampled pages for a document to count as
	// digital. Below it the document is treated as scanned.
	scannedTextThreshold = 50
)

// ClassifyTextLayer samples the first pages of a PDF and decides
// whether its text layer is usable. A file that cannot be opened as a
// PDF is treated as scanned rather than rejected, so recognition can
// still be attempted.
func ClassifyTextLayer(path string) Verdict {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return VerdictNeedsFullOCR
	}
	defer f.Close()

	pages := reader.NumPage()
	if pages > classifyPageLimit {
		pages = classifyPageLimit
	}

	chars := 0
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		chars += len(strings.TrimSpace(text))
		if chars >= scannedTextThreshold {
			return VerdictTextLayer
		}
	}

	if chars < scannedTextThreshold {
		return VerdictNeedsFullOCR
	}
	return VerdictTextLayer
}
