package chunker

import (
	"strings"
	"unicode/utf8"
)

type Options struct {
	Size     int    // max chunk length in runes
	Overlap  int    // runes carried over between consecutive chunks
	Strategy string // "recursive" (default) or "fixed"
}

type Chunk struct {
	Content string
	Index   int
}

func DefaultOptions() Options {
	return Options{Size: 1000, Overlap: 200, Strategy: "recursive"}
}

// Split cuts text into overlapping windows of at most opts.Size runes.
// The result depends only on the input and the options.
func Split(text string, opts Options) []Chunk {
	if opts.Size <= 0 {
		opts.Size = 1000
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}
	if opts.Overlap >= opts.Size {
		opts.Overlap = opts.Size / 2
	}

	if opts.Strategy == "fixed" {
		return splitFixed(text, opts)
	}
	return mergeWithOverlap(splitRecursive(text, separators, opts.Size), opts)
}

// separators are tried in order; each level breaks pieces that still
// exceed the chunk size.
var separators = []string{"\n\n", "\n", ". ", " "}

// splitRecursive returns pieces of at most size runes, with separators
// kept at the end of the piece they close so that joining the pieces
// reproduces the original text.
func splitRecursive(text string, seps []string, size int) []string {
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	if len(seps) == 0 {
		var pieces []string
		runes := []rune(text)
		for i := 0; i < len(runes); i += size {
			end := i + size
			if end > len(runes) {
				end = len(runes)
			}
			pieces = append(pieces, string(runes[i:end]))
		}
		return pieces
	}

	sep := seps[0]
	parts := strings.Split(text, sep)
	var pieces []string
	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if part == "" {
			continue
		}
		if utf8.RuneCountInString(part) > size {
			pieces = append(pieces, splitRecursive(part, seps[1:], size)...)
		} else {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// mergeWithOverlap packs pieces into chunks up to the size limit. When a
// chunk is flushed, trailing pieces totalling at most Overlap runes are
// carried into the next chunk.
func mergeWithOverlap(pieces []string, opts Options) []Chunk {
	var chunks []Chunk
	var current []string
	currentLen := 0

	flush := func() {
		content := strings.TrimSpace(strings.Join(current, ""))
		if content != "" {
			chunks = append(chunks, Chunk{Content: content, Index: len(chunks)})
		}
	}

	for _, piece := range pieces {
		pieceLen := utf8.RuneCountInString(piece)
		if currentLen > 0 && currentLen+pieceLen > opts.Size {
			flush()

			var tail []string
			tailLen := 0
			for i := len(current) - 1; i >= 0; i-- {
				l := utf8.RuneCountInString(current[i])
				if tailLen+l > opts.Overlap || tailLen+l+pieceLen > opts.Size {
					break
				}
				tail = append([]string{current[i]}, tail...)
				tailLen += l
			}
			current = tail
			currentLen = tailLen
		}
		current = append(current, piece)
		currentLen += pieceLen
	}
	flush()

	return chunks
}

func splitFixed(text string, opts Options) []Chunk {
	var chunks []Chunk
	runes := []rune(text)

	step := opts.Size - opts.Overlap
	if step <= 0 {
		step = opts.Size
	}

	for start := 0; start < len(runes); start += step {
		end := start + opts.Size
		if end > len(runes) {
			end = len(runes)
		}
		content := strings.TrimSpace(string(runes[start:end]))
		if content != "" {
			chunks = append(chunks, Chunk{Content: content, Index: len(chunks)})
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
