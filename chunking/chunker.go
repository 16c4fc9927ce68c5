// Package chunking splits document text into bounded, contiguous chunks.
package chunking

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/vitae/core"
)

// DefaultMaxChars is the chunk size used when none is configured.
const DefaultMaxChars = 8000

// ErrInvalidSize is returned for a non-positive chunk size.
var ErrInvalidSize = errors.New("chunk size must be positive")

// Split divides text into chunks of at most maxChars runes. Concatenating the
// chunk texts reproduces text exactly. A split lands on the last paragraph
// break before the limit, else the last line break, else the last whitespace,
// searching back no further than half the limit; otherwise it is a hard cut.
func Split(text string, maxChars int) ([]core.TextChunk, error) {
	if maxChars <= 0 {
		return nil, ErrInvalidSize
	}
	// Runes are decoded only to find boundaries; chunks slice the original
	// bytes, so invalid UTF-8 survives a round trip.
	var runes []rune
	var offsets []int
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		runes = append(runes, r)
		offsets = append(offsets, i)
		i += size
	}
	offsets = append(offsets, len(text))

	var parts []string
	for start := 0; start < len(runes); {
		end := cutPoint(runes, start, maxChars)
		parts = append(parts, text[offsets[start]:offsets[end]])
		start = end
	}

	chunks := make([]core.TextChunk, len(parts))
	for i, part := range parts {
		chunks[i] = core.TextChunk{
			Index:   i,
			Total:   len(parts),
			Text:    part,
			IsFirst: i == 0,
			IsLast:  i == len(parts)-1,
		}
	}
	return chunks, nil
}

// cutPoint returns the exclusive end of the chunk starting at start.
func cutPoint(runes []rune, start, maxChars int) int {
	limit := start + maxChars
	if limit >= len(runes) {
		return len(runes)
	}
	floor := start + maxChars/2
	if floor <= start {
		floor = start + 1
	}

	// The separator stays with the chunk it ends.
	for i := limit - 1; i >= floor; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := limit - 1; i >= floor; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	for i := limit - 1; i >= floor; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return limit
}
