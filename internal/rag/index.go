package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Shreya728/pdfbot/internal/vectorstore"
	"github.com/Shreya728/pdfbot/pkg/chunker"
	"github.com/Shreya728/pdfbot/pkg/textextract"
)

// Embedder turns text into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

// Index is the embedding/index store for one process: it chunks
// extracted text, embeds the chunks and answers similarity queries.
// Search failures are swallowed into empty results; a caller cannot
// tell "nothing relevant" from "search broke", only the logs can.
type Index struct {
	store     vectorstore.VectorStore
	embedder  Embedder
	chunkOpts chunker.Options
	minScore  float64
}

func NewIndex(store vectorstore.VectorStore, embedder Embedder, chunkOpts chunker.Options, minScore float64) *Index {
	if chunkOpts.Size <= 0 {
		chunkOpts = chunker.DefaultOptions()
	}
	return &Index{
		store:     store,
		embedder:  embedder,
		chunkOpts: chunkOpts,
		minScore:  minScore,
	}
}

// Clear drops the owner's stored chunks. Clearing an empty index is a
// no-op.
func (ix *Index) Clear(ctx context.Context, owner string) error {
	if err := ix.store.Clear(ctx, owner); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return nil
}

// AddDocuments chunks and embeds the units and stores them under owner.
// Empty input is a no-op. Returns the number of chunks stored.
func (ix *Index) AddDocuments(ctx context.Context, owner string, units []textextract.Unit) (int, error) {
	if len(units) == 0 {
		return 0, nil
	}

	var chunks []vectorstore.Chunk
	var texts []string
	for _, unit := range units {
		for _, c := range chunker.Split(unit.Text, ix.chunkOpts) {
			chunks = append(chunks, vectorstore.Chunk{
				ID:         uuid.New(),
				Owner:      owner,
				Filename:   unit.Filename,
				Page:       unit.Page,
				ChunkIndex: c.Index,
				Content:    c.Content,
			})
			texts = append(texts, c.Content)
		}
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	embeddings, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(embeddings))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := ix.store.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}

	slog.Info("indexed documents", "owner", owner, "units", len(units), "chunks", len(chunks))
	return len(chunks), nil
}

// Search embeds the query and returns at most topK chunks scoring at or
// above the similarity floor. Any failure returns an empty slice.
func (ix *Index) Search(ctx context.Context, owner, query string, topK int) []vectorstore.SearchResult {
	queryVec, err := ix.embedder.EmbedSingle(ctx, query)
	if err != nil {
		slog.Error("query embedding failed", "owner", owner, "error", err)
		return nil
	}

	results, err := ix.store.Search(ctx, owner, queryVec, topK)
	if err != nil {
		slog.Error("search failed", "owner", owner, "error", err)
		return nil
	}

	filtered := results[:0]
	for _, r := range results {
		if r.Score >= ix.minScore {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 && len(results) > 0 {
		slog.Debug("no results above threshold", "owner", owner, "min_score", ix.minScore)
	}
	return filtered
}
