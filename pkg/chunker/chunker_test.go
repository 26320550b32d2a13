package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	chunks := Split("The sky is blue.", DefaultOptions())
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "The sky is blue." {
		t.Fatalf("unexpected content: %q", chunks[0].Content)
	}
	if chunks[0].Index != 0 {
		t.Fatalf("unexpected index: %d", chunks[0].Index)
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := Split("", DefaultOptions()); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
	if chunks := Split("   \n\n  ", DefaultOptions()); len(chunks) != 0 {
		t.Fatalf("whitespace-only text should yield no chunks, got %d", len(chunks))
	}
}

func TestSplitRespectsSizeLimit(t *testing.T) {
	text := strings.Repeat("Some sentence about nothing in particular. ", 200)
	opts := Options{Size: 300, Overlap: 60}

	chunks := Split(text, opts)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if n := utf8.RuneCountInString(c.Content); n > opts.Size {
			t.Fatalf("chunk %d has %d runes, limit %d", c.Index, n, opts.Size)
		}
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Fatalf("chunk %d carries index %d", i, c.Index)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Paragraph one.\n\nParagraph two with more words in it. ", 80)
	opts := DefaultOptions()

	a := Split(text, opts)
	b := Split(text, opts)
	if len(a) != len(b) {
		t.Fatalf("runs disagree on chunk count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitOverlapCarriesText(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon. ", 100)
	opts := Options{Size: 200, Overlap: 80}

	chunks := Split(text, opts)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// each chunk after the first must start with text already seen at
	// the end of its predecessor
	for i := 1; i < len(chunks); i++ {
		head := chunks[i].Content
		if len(head) > 30 {
			head = head[:30]
		}
		if !strings.Contains(chunks[i-1].Content, strings.TrimSpace(head)) {
			t.Fatalf("chunk %d does not overlap its predecessor:\nprev=%q\nhead=%q",
				i, chunks[i-1].Content, head)
		}
	}
}

func TestSplitUnbrokenTextHardSplits(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := Split(text, Options{Size: 1000, Overlap: 0})
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if n := utf8.RuneCountInString(c.Content); n > 1000 {
			t.Fatalf("chunk %d has %d runes", c.Index, n)
		}
	}
}

func TestSplitFixedStrategy(t *testing.T) {
	text := strings.Repeat("abcde", 100) // 500 runes, no separators
	chunks := Split(text, Options{Size: 200, Overlap: 50, Strategy: "fixed"})
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	// fixed windows step by size-overlap
	if !strings.HasPrefix(chunks[1].Content, text[150:200]) {
		t.Fatalf("second window should start 150 runes in")
	}
}
