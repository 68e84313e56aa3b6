package chunking

import (
	"fmt"
	"strings"
)

// Chunk is a bounded window of a normalized document, the unit of retrieval.
// StartOffset and EndOffset are positions in the normalized text, not in the
// trimmed chunk text, so windows can be mapped back onto the source.
type Chunk struct {
	Text          string
	Source        string
	StartOffset   int
	EndOffset     int
	SequenceIndex int
}

// ErrInvalidWindow reports a chunk_size/overlap pair that cannot make
// forward progress. It is a configuration error, never worked around.
type ErrInvalidWindow struct {
	ChunkSize int
	Overlap   int
}

func (e *ErrInvalidWindow) Error() string {
	return fmt.Sprintf("chunking: overlap %d must be in (0, %d)", e.Overlap, e.ChunkSize)
}

// Normalize collapses all whitespace runs to single spaces, drops carriage
// returns and trims the ends. Normalizing twice equals normalizing once.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(text, "\r", "")), " ")
}

// Split cuts normalized text into overlapping fixed-size windows.
//
// Each window covers [i, i+chunkSize) clipped to the text length. The
// emitted text is trimmed of incidental whitespace but the recorded offsets
// stay relative to the normalized text. Windows that are empty after
// trimming are dropped while offsets still advance, so SequenceIndex counts
// emitted chunks only. The next window starts at max(0, end-overlap); a
// window that reached the end of the text is the last one.
//
// Empty or whitespace-only input yields a nil slice and no error.
func Split(text, source string, chunkSize, overlap int) ([]Chunk, error) {
	if chunkSize <= 0 || overlap <= 0 || overlap >= chunkSize {
		return nil, &ErrInvalidWindow{ChunkSize: chunkSize, Overlap: overlap}
	}

	clean := Normalize(text)
	if clean == "" {
		return nil, nil
	}

	var chunks []Chunk
	n := len(clean)
	i := 0
	seq := 0

	for i < n {
		end := i + chunkSize
		if end > n {
			end = n
		}

		if window := strings.TrimSpace(clean[i:end]); window != "" {
			chunks = append(chunks, Chunk{
				Text:          window,
				Source:        source,
				StartOffset:   i,
				EndOffset:     end,
				SequenceIndex: seq,
			})
			seq++
		}

		if end == n {
			break
		}

		next := end - overlap
		if next <= i {
			// The precondition makes this unreachable, but the loop must
			// never stall.
			next = i + 1
		}
		i = next
	}

	return chunks, nil
}

// MaxWindows returns the upper bound on the number of windows Split can
// emit for text of the given normalized length: ceil(n / (chunkSize-overlap)).
func MaxWindows(textLen, chunkSize, overlap int) int {
	step := chunkSize - overlap
	if step <= 0 || textLen <= 0 {
		return 0
	}
	return (textLen + step - 1) / step
}
