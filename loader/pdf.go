package loader

import (
	"context"
	"log/slog"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/visualdoc/ragservice/document"
	"github.com/visualdoc/ragservice/ocr"
)

// PDFLoader extracts elements from PDF files. Digital PDFs yield text
// and table elements from the text layer plus recognized text from
// embedded images. Scanned PDFs are rasterized page by page and
// recognized in full.
type PDFLoader struct {
	ocr  *ocr.Client
	opts *PDFOptions
}

// NewPDFLoader creates a PDF loader backed by the given OCR client.
func NewPDFLoader(ocrClient *ocr.Client, opts ...PDFOption) *PDFLoader {
	options := defaultPDFOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &PDFLoader{ocr: ocrClient, opts: options}
}

// Load extracts all elements from the PDF at path. The cheap passes
// run first regardless of classification: text layer, tables and
// embedded images. Full page recognition happens only when the
// document was classified as scanned and those passes found no text
// or table content. Failures on individual pages or images are logged
// and skipped so one bad page does not sink the document.
func (l *PDFLoader) Load(ctx context.Context, path string) ([]document.Element, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, NewLoaderError("Load", path, "file not accessible", err)
	}

	verdict := ClassifyTextLayer(path)

	elements, err := l.loadTextLayer(path)
	if err != nil {
		// An unreadable text layer on a scanned document is expected,
		// the page images still carry the content.
		if verdict != VerdictNeedsFullOCR {
			return nil, err
		}
		slog.Warn("text layer unreadable", "path", path, "error", err)
		elements = nil
	}
	elements = append(elements, l.loadEmbeddedImages(ctx, path)...)

	if needsFullPageOCR(verdict, elements) {
		scanned, err := l.loadScanned(ctx, path)
		if err != nil {
			if len(elements) > 0 {
				slog.Warn("full page recognition fallback failed", "path", path, "error", err)
				return elements, nil
			}
			return nil, err
		}
		elements = append(elements, scanned...)
	}
	return elements, nil
}

func (l *PDFLoader) loadTextLayer(path string) ([]document.Element, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, NewLoaderError("loadTextLayer", path, "failed to open pdf", err)
	}
	defer f.Close()

	var elements []document.Element
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			slog.Warn("failed to extract page text", "path", path, "page", i, "error", err)
			continue
		}

		elements = append(elements, pageElements(text, i)...)
	}
	return elements, nil
}

// pageElements splits one page's raw text into prose and table
// elements. Table detection must see the raw text: whitespace
// normalization collapses the column gaps it keys on.
func pageElements(text string, page int) []document.Element {
	plain, tables := splitPageContent(text)

	var elements []document.Element
	if plain = document.CleanText(plain); plain != "" {
		elements = append(elements, document.Element{
			Type:   document.ElementText,
			Text:   plain,
			Page:   page,
			Source: SourcePDFText,
		})
	}
	for _, table := range tables {
		elements = append(elements, document.Element{
			Type:   document.ElementTable,
			Text:   table,
			Page:   page,
			Source: SourcePDFTable,
		})
	}
	return elements
}

// loadEmbeddedImages extracts raster images embedded in the PDF and
// recognizes their text. Missing tooling or extraction failures are
// logged and produce no elements.
func (l *PDFLoader) loadEmbeddedImages(ctx context.Context, path string) []document.Element {
	if l.ocr == nil {
		return nil
	}
	dir, err := os.MkdirTemp("", "pdfimg_")
	if err != nil {
		slog.Warn("failed to create temp dir for embedded images", "error", err)
		return nil
	}
	defer os.RemoveAll(dir)

	images, err := extractEmbeddedImages(ctx, path, dir)
	if err != nil {
		slog.Warn("embedded image extraction unavailable", "path", path, "error", err)
		return nil
	}

	var elements []document.Element
	for _, img := range images {
		text, err := l.ocr.ExtractFile(ctx, img.Path)
		if err != nil {
			slog.Warn("embedded image recognition failed", "image", img.Path, "error", err)
			continue
		}
		if text = document.CleanText(text); text == "" {
			continue
		}
		elements = append(elements, document.Element{
			Type:   document.ElementImageOCR,
			Text:   text,
			Page:   img.Page,
			Source: SourcePDFImageOCR,
		})
	}
	return elements
}

// loadScanned rasterizes every page and recognizes the full page
// image.
func (l *PDFLoader) loadScanned(ctx context.Context, path string) ([]document.Element, error) {
	if l.ocr == nil {
		return nil, NewLoaderError("loadScanned", path, "document needs recognition but no OCR client is configured", nil)
	}
	dir, err := os.MkdirTemp("", "pdfocr_")
	if err != nil {
		return nil, NewLoaderError("loadScanned", path, "failed to create temp dir", err)
	}
	defer os.RemoveAll(dir)

	images, err := rasterizePages(ctx, path, dir, l.opts.RasterDPI)
	if err != nil {
		return nil, NewLoaderError("loadScanned", path, "failed to rasterize pages", err)
	}

	var elements []document.Element
	for _, img := range images {
		text, err := l.ocr.ExtractFile(ctx, img.Path)
		if err != nil {
			slog.Warn("page recognition failed", "path", path, "page", img.Page, "error", err)
			continue
		}
		if text = document.CleanText(text); text == "" {
			continue
		}
		elements = append(elements, document.Element{
			Type:   document.ElementText,
			Text:   text,
			Page:   img.Page,
			Source: SourcePDFOCRFull,
		})
	}
	return elements, nil
}

// needsFullPageOCR decides the expensive second stage: rasterize and
// recognize every page only when classification flagged the document
// as scanned and the cheap passes produced no text or table elements.
func needsFullPageOCR(verdict Verdict, elements []document.Element) bool {
	return verdict == VerdictNeedsFullOCR && !hasTextContent(elements)
}

func hasTextContent(elements []document.Element) bool {
	for _, el := range elements {
		if el.Type == document.ElementText || el.Type == document.ElementTable {
			return true
		}
	}
	return false
}
