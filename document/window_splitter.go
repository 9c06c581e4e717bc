package document

import (
	"fmt"
	"strings"
)

// WordWindowSplitter splits text by sliding a fixed window of
// whitespace tokens. Window and step are derived from character-based
// chunk sizing: the window holds chunkSize/6 tokens (an approximate
// words-per-chunk heuristic) and consecutive windows overlap by
// chunkOverlap/6 tokens.
type WordWindowSplitter struct {
	ChunkSize    int
	ChunkOverlap int
}

func NewWordWindowSplitter(chunkSize, chunkOverlap int) (*WordWindowSplitter, error) {
	if chunkSize <= 0 {
		return nil, &SplitterError{
			Op:      "new_word_window_splitter",
			Message: "chunkSize must be positive",
			Err:     fmt.Errorf("invalid chunkSize: %d", chunkSize),
		}
	}
	if chunkOverlap < 0 {
		return nil, &SplitterError{
			Op:      "new_word_window_splitter",
			Message: "chunkOverlap must be non-negative",
			Err:     fmt.Errorf("invalid chunkOverlap: %d", chunkOverlap),
		}
	}
	if chunkOverlap >= chunkSize {
		return nil, &SplitterError{
			Op:      "new_word_window_splitter",
			Message: "chunkOverlap must be less than chunkSize",
			Err:     fmt.Errorf("overlap %d >= chunk size %d", chunkOverlap, chunkSize),
		}
	}
	return &WordWindowSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}, nil
}

// windowTokens returns the token counts for window and overlap, both at
// least large enough to guarantee forward progress.
func (ws *WordWindowSplitter) windowTokens() (window, overlap int) {
	window = ws.ChunkSize / 6
	if window < 1 {
		window = 1
	}
	overlap = ws.ChunkOverlap / 6
	if overlap >= window {
		overlap = window - 1
	}
	return window, overlap
}

func (ws *WordWindowSplitter) SplitText(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	toks := strings.Fields(text)
	if len(toks) == 0 {
		return nil, nil
	}

	window, overlap := ws.windowTokens()

	var chunks []string
	start := 0
	for start < len(toks) {
		end := start + window
		if end > len(toks) {
			end = len(toks)
		}

		chunk := strings.Join(toks[start:end], " ")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(toks) {
			break
		}
		next := end - overlap
		if next < 0 {
			next = 0
		}
		// overlap < window, so next always moves past start
		start = next
	}

	return chunks, nil
}
