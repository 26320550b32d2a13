package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

// Chunk is one embedded slice of an uploaded document. Owner scopes the
// chunk to the user whose file-set it belongs to; the store holds at
// most one file-set per owner at a time.
type Chunk struct {
	ID         uuid.UUID
	Owner      string
	Filename   string
	Page       int
	ChunkIndex int
	Content    string
	Embedding  []float32
}

// SearchResult is a retrieved chunk with its similarity to the query,
// where 1 means identical direction and 0 means orthogonal.
type SearchResult struct {
	Content  string  `json:"content"`
	Filename string  `json:"filename"`
	Page     int     `json:"page"`
	Score    float64 `json:"score"`
}

type VectorStore interface {
	Add(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, owner string, query []float32, topK int) ([]SearchResult, error)
	Clear(ctx context.Context, owner string) error
	Count(ctx context.Context, owner string) (int, error)
}
