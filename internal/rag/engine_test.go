package rag

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/Shreya728/pdfbot/internal/llm"
	"github.com/Shreya728/pdfbot/internal/vectorstore"
	"github.com/Shreya728/pdfbot/pkg/chunker"
	"github.com/Shreya728/pdfbot/pkg/textextract"
)

// wordEmbedder is a deterministic bag-of-words embedding: overlapping
// vocabulary yields positive cosine similarity, disjoint text stays
// near zero.
type wordEmbedder struct{}

func (wordEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, 64)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			w = strings.Trim(w, ".,!?")
			h := fnv.New32a()
			h.Write([]byte(w))
			vec[h.Sum32()%64]++
		}
		out[i] = vec
	}
	return out, nil
}

func (e wordEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

type fakeGateway struct {
	lastChat llm.ChatRequest
	answer   string
	err      error
	calls    int
}

func (g *fakeGateway) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	g.calls++
	g.lastChat = req
	if g.err != nil {
		return nil, g.err
	}
	return &llm.ChatResponse{Content: g.answer, Model: req.Model}, nil
}

func (g *fakeGateway) Embed(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not used")
}

func newTestEngine(gw llm.Gateway) (*Engine, *Index) {
	index := NewIndex(vectorstore.NewMemoryStore(), wordEmbedder{}, chunker.DefaultOptions(), 0.1)
	engine := NewEngine(gw, index, "llama-3.1-8b-instant", 0.3, 1500, 5)
	return engine, index
}

func TestAnswerRefusesWithoutContext(t *testing.T) {
	gw := &fakeGateway{answer: "should not be called"}
	engine, _ := newTestEngine(gw)

	resp := engine.Answer(context.Background(), AnswerRequest{
		Owner: "alice",
		Query: "anything",
	})

	if resp.Answer != NoContextMessage {
		t.Fatalf("expected the fixed instructional message, got %q", resp.Answer)
	}
	if gw.calls != 0 {
		t.Fatalf("model must not be invoked without context")
	}
}

func TestAnswerEndToEnd(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{answer: "The sky is blue."}
	engine, index := newTestEngine(gw)

	n, err := index.AddDocuments(ctx, "alice", []textextract.Unit{
		{Text: "The sky is blue.", Filename: "sky.txt"},
	})
	if err != nil {
		t.Fatalf("add documents: %v", err)
	}
	if n == 0 {
		t.Fatalf("expected chunks to be indexed")
	}

	resp := engine.Answer(ctx, AnswerRequest{
		Owner:       "alice",
		Query:       "What color is the sky?",
		FilesActive: true,
	})

	if resp.Answer == "" {
		t.Fatalf("expected a non-empty answer")
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "sky.txt" {
		t.Fatalf("expected sources [sky.txt], got %v", resp.Sources)
	}
	if !strings.Contains(gw.lastChat.Messages[0].Content, "[Source: sky.txt, Page: 0]") {
		t.Fatalf("prompt missing the retrieved chunk header:\n%s", gw.lastChat.Messages[0].Content)
	}
	if !strings.Contains(gw.lastChat.Messages[0].Content, "The sky is blue.") {
		t.Fatalf("prompt missing the retrieved chunk text")
	}
	if gw.lastChat.Model != "llama-3.1-8b-instant" {
		t.Fatalf("unexpected model %q", gw.lastChat.Model)
	}
	if gw.lastChat.MaxTokens != 1500 {
		t.Fatalf("unexpected max tokens %d", gw.lastChat.MaxTokens)
	}
}

func TestAnswerLoadedChatSkipsRetrieval(t *testing.T) {
	gw := &fakeGateway{answer: "ok"}
	engine, _ := newTestEngine(gw)

	resp := engine.Answer(context.Background(), AnswerRequest{
		Owner:         "alice",
		Query:         "continue please",
		LoadedChat:    true,
		ActiveSources: []string{"old.pdf", "old.pdf", "other.pdf"},
	})

	if !strings.Contains(gw.lastChat.Messages[0].Content, loadedChatContext) {
		t.Fatalf("loaded chat should use the recorded-history context marker")
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("expected deduplicated sources, got %v", resp.Sources)
	}
}

func TestAnswerModelFailureBecomesMessage(t *testing.T) {
	gw := &fakeGateway{err: errors.New("quota exceeded")}
	engine, _ := newTestEngine(gw)

	resp := engine.Answer(context.Background(), AnswerRequest{
		Owner:         "alice",
		Query:         "hello",
		LoadedChat:    true,
		ActiveSources: []string{"a.txt"},
	})

	if !strings.HasPrefix(resp.Answer, "Error: ") {
		t.Fatalf("model failure should surface as an error string, got %q", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "quota exceeded") {
		t.Fatalf("error string should carry the cause, got %q", resp.Answer)
	}
}

func TestIndexSearchEmptyIndex(t *testing.T) {
	_, index := newTestEngine(&fakeGateway{})
	if results := index.Search(context.Background(), "alice", "anything", 5); len(results) != 0 {
		t.Fatalf("empty index must return no results, got %d", len(results))
	}
}

func TestIndexSearchThresholdAndCap(t *testing.T) {
	ctx := context.Background()
	_, index := newTestEngine(&fakeGateway{})

	_, err := index.AddDocuments(ctx, "alice", []textextract.Unit{
		{Text: "The sky is blue.", Filename: "sky.txt"},
		{Text: "Quarterly revenue grew twelve percent.", Filename: "report.txt"},
	})
	if err != nil {
		t.Fatalf("add documents: %v", err)
	}

	results := index.Search(ctx, "alice", "What color is the sky?", 1)
	if len(results) > 1 {
		t.Fatalf("search returned more than k results: %d", len(results))
	}
	for _, r := range results {
		if r.Score < 0.1 {
			t.Fatalf("result below threshold: %v", r.Score)
		}
	}
	if len(results) != 1 || results[0].Filename != "sky.txt" {
		t.Fatalf("expected the sky chunk, got %+v", results)
	}
}

func TestIndexClearRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, index := newTestEngine(&fakeGateway{})

	if _, err := index.AddDocuments(ctx, "alice", []textextract.Unit{{Text: "The sky is blue.", Filename: "sky.txt"}}); err != nil {
		t.Fatalf("add documents: %v", err)
	}
	if err := index.Clear(ctx, "alice"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if results := index.Search(ctx, "alice", "sky", 5); len(results) != 0 {
		t.Fatalf("expected empty after clear, got %d", len(results))
	}
}

func TestIndexAddEmptyNoop(t *testing.T) {
	_, index := newTestEngine(&fakeGateway{})
	n, err := index.AddDocuments(context.Background(), "alice", nil)
	if err != nil {
		t.Fatalf("add empty: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected zero chunks, got %d", n)
	}
}
