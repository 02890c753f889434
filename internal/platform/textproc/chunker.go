// Package textproc provides text cleaning, section splitting, and
// fixed-size overlapping chunking for extracted document text. Chunks are
// the unit of retrieval: each one is embedded and stored independently.
package textproc

// Chunk is a contiguous slice of source text. Start and End are rune
// offsets into the cleaned source.
type Chunk struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
	Start   int    `json:"start_offset"`
	End     int    `json:"end_offset"`
}

// ChunkText splits text into segments of up to size runes, advancing the
// window by size-overlap each step so consecutive chunks share overlap runes
// of context. The chunks cover the whole input with no gaps; the final chunk
// may be shorter than size. Empty text yields no chunks.
//
// Callers must pass size > overlap >= 0. Out-of-range values are clamped so
// the coverage guarantee still holds.
func ChunkText(text string, size, overlap int) []Chunk {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return []Chunk{}
	}

	step := size - overlap
	chunks := make([]Chunk, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Content: string(runes[start:end]),
			Start:   start,
			End:     end,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
