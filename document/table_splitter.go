package document

import (
	"fmt"
	"strings"
)

// TableSplitter splits tabular text into row batches. The first
// non-empty line is treated as the header and is repeated at the top of
// every chunk so each chunk stays interpretable on its own. A batch is
// flushed once its joined rows exceed chunkSize/1.5 characters.
type TableSplitter struct {
	ChunkSize int
}

func NewTableSplitter(chunkSize int) (*TableSplitter, error) {
	if chunkSize <= 0 {
		return nil, &SplitterError{
			Op:      "new_table_splitter",
			Message: "chunkSize must be positive",
			Err:     fmt.Errorf("invalid chunkSize: %d", chunkSize),
		}
	}
	return &TableSplitter{ChunkSize: chunkSize}, nil
}

func (ts *TableSplitter) SplitText(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	header := lines[0]
	limit := float64(ts.ChunkSize) / 1.5

	var chunks []string
	var batch []string
	flush := func() {
		if len(batch) == 0 {
			return
		}
		chunks = append(chunks, header+"\n"+strings.Join(batch, "\n"))
		batch = nil
	}

	for _, row := range lines[1:] {
		batch = append(batch, row)
		if float64(len(strings.Join(batch, "\n"))) > limit {
			flush()
		}
	}
	flush()

	return chunks, nil
}
