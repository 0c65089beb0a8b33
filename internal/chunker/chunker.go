package chunker

import (
	"fmt"
	"strings"

	"github.com/naveenvivek/aiagentrag/internal/models"
)

// Chunker splits text into overlapping word windows.
type Chunker struct {
	size    int
	overlap int
}

// New returns a Chunker producing windows of at most size words, with overlap
// words shared between consecutive windows. overlap must stay below size or
// the window start would never advance.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text on whitespace and rejoins each window with single spaces,
// so runs of whitespace collapse. base is copied onto every chunk.
// Text with no words yields no chunks.
func (c *Chunker) Chunk(text string, base models.Metadata) []models.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []models.Chunk
	for i := 0; i < len(words); i += step {
		end := i + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, models.Chunk{
			Content:   strings.Join(words[i:end], " "),
			Index:     len(chunks),
			Size:      end - i,
			StartWord: i,
			EndWord:   end,
			Metadata:  base,
		})
		if end == len(words) {
			break
		}
	}
	return chunks
}
