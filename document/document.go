package document

// ElementType is the extraction category of a piece of document content.
type ElementType string

const (
	// ElementText is plain text pulled from a document's text layer.
	ElementText ElementType = "text"
	// ElementTable is tabular content, rows joined with newlines and
	// cells joined with tabs.
	ElementTable ElementType = "table"
	// ElementImageOCR is text recognized from a raster image.
	ElementImageOCR ElementType = "image_ocr"
)

// Element is a typed piece of content extracted from a source file.
// Loaders only emit elements with non-empty text.
type Element struct {
	Type   ElementType
	Text   string
	Page   int
	Source string
}

// Metadata keys carried by every chunk.
const (
	MetaModality = "modality"
	MetaPage     = "page"
	MetaSource   = "source"
)

// Chunk is the unit of storage and retrieval: a bounded span of text
// with provenance metadata. Chunks are immutable once created.
type Chunk struct {
	ID       string                 `json:"id"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
}
