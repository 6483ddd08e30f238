// Package ingest loads model documentation from disk into the chunk store.
package ingest

import "strings"

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

// separators are tried in order when looking for a natural break point
// near the end of a chunk window.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split cuts text into overlapping chunks of roughly chunkSize characters,
// preferring paragraph and sentence boundaries over hard cuts.
func Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			chunk := strings.TrimSpace(text[start:])
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := breakPoint(text[start:end])
		chunk := strings.TrimSpace(text[start : start+cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := start + cut - chunkOverlap
		if next <= start {
			next = start + cut
		}
		start = next
	}

	return chunks
}

// breakPoint returns the length of window to keep, ending at the last
// occurrence of the highest-priority separator in its second half. Falls
// back to the full window when no separator is found.
func breakPoint(window string) int {
	half := len(window) / 2
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx > half {
			return idx + len(sep)
		}
	}
	return len(window)
}
