// Package chunking cuts extracted policy text into overlapping windows
// sized for the embedding model.
package chunking

import "strings"

// Splitter produces fixed-size rune windows with a configurable
// overlap, so a clause that straddles a boundary still appears whole in
// at least one chunk.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

// NewSplitter clamps nonsense settings instead of failing: policy
// ingestion should not abort because of a bad CHUNK_SIZE env value.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 900
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

// Split windows over runes, not bytes, so multi-byte characters in
// policy documents never get cut mid-character. Whitespace-only chunks
// are dropped.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
