package document

import "github.com/google/uuid"

// Splitter interface defines methods for splitting text into chunks
type Splitter interface {
	SplitText(text string) ([]string, error)
}

// ChunkElements splits extracted elements into chunks. Text and OCR
// elements go through textSplitter, table elements through
// tableSplitter. Every chunk gets a fresh id and carries the modality,
// page and source of the element it came from. An element with empty
// text produces no chunks.
func ChunkElements(elements []Element, textSplitter, tableSplitter Splitter) ([]Chunk, error) {
	var chunks []Chunk

	for _, el := range elements {
		var splitter Splitter
		switch el.Type {
		case ElementText, ElementImageOCR:
			splitter = textSplitter
		case ElementTable:
			splitter = tableSplitter
		default:
			continue
		}

		pieces, err := splitter.SplitText(el.Text)
		if err != nil {
			return nil, &SplitterError{
				Op:      "chunk_elements",
				Message: "failed to split element text",
				Err:     err,
			}
		}

		for _, piece := range pieces {
			chunks = append(chunks, Chunk{
				ID:   uuid.NewString(),
				Text: piece,
				Metadata: map[string]interface{}{
					MetaModality: string(el.Type),
					MetaPage:     el.Page,
					MetaSource:   el.Source,
				},
			})
		}
	}

	return chunks, nil
}
