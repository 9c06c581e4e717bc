package document

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenWindowSplitter slides a window of model tokens instead of
// whitespace words. Useful when chunk budgets must line up with an
// embedding model's tokenizer.
type TokenWindowSplitter struct {
	TokensPerChunk int
	ChunkOverlap   int
	Model          string
	encoding       *tiktoken.Tiktoken
}

// encodingForModel returns the tiktoken encoding name for a model.
func encodingForModel(model string) string {
	if strings.HasPrefix(model, "gpt-4o") {
		return "o200k_base"
	}
	if strings.HasPrefix(model, "gpt-4") ||
		strings.HasPrefix(model, "gpt-3.5-turbo") ||
		model == "text-embedding-ada-002" ||
		model == "text-embedding-3-small" ||
		model == "text-embedding-3-large" {
		return "cl100k_base"
	}
	return "cl100k_base"
}

func NewTokenWindowSplitter(tokensPerChunk, chunkOverlap int, model string) (*TokenWindowSplitter, error) {
	if tokensPerChunk <= 0 {
		return nil, &SplitterError{
			Op:      "new_token_window_splitter",
			Message: "tokensPerChunk must be positive",
			Err:     fmt.Errorf("invalid tokensPerChunk: %d", tokensPerChunk),
		}
	}
	if chunkOverlap < 0 {
		return nil, &SplitterError{
			Op:      "new_token_window_splitter",
			Message: "chunkOverlap must be non-negative",
			Err:     fmt.Errorf("invalid chunkOverlap: %d", chunkOverlap),
		}
	}
	if chunkOverlap >= tokensPerChunk {
		return nil, &SplitterError{
			Op:      "new_token_window_splitter",
			Message: "chunkOverlap must be less than tokensPerChunk",
			Err:     fmt.Errorf("overlap %d >= chunk size %d", chunkOverlap, tokensPerChunk),
		}
	}

	encodingName := encodingForModel(model)
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, &SplitterError{
			Op:      "new_token_window_splitter",
			Message: fmt.Sprintf("failed to get %s encoding for model %s", encodingName, model),
			Err:     err,
		}
	}

	return &TokenWindowSplitter{
		TokensPerChunk: tokensPerChunk,
		ChunkOverlap:   chunkOverlap,
		Model:          model,
		encoding:       encoding,
	}, nil
}

func (ts *TokenWindowSplitter) SplitText(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	tokens := ts.encoding.Encode(text, nil, nil)
	if len(tokens) == 0 {
		return nil, nil
	}

	var chunks []string
	for _, w := range tokenWindows(len(tokens), ts.TokensPerChunk, ts.ChunkOverlap) {
		chunk := ts.encoding.Decode(tokens[w[0]:w[1]])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks, nil
}

// tokenWindows returns the [start, end) bounds of a window of size
// sliding over n items with the given overlap between neighbors. The
// constructor guarantees overlap < size, so every step advances.
func tokenWindows(n, size, overlap int) [][2]int {
	var bounds [][2]int
	start := 0
	for start < n {
		end := start + size
		if end > n {
			end = n
		}
		bounds = append(bounds, [2]int{start, end})
		if end == n {
			break
		}
		start = end - overlap
	}
	return bounds
}
