package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
	berrors "github.com/BatAIInc/bat-ai-core/pkg/errors"
)

// VectorStore defines the interface for a vector database.
type VectorStore interface {
	// Upsert adds or updates points in the vector store.
	Upsert(ctx context.Context, collection string, points []Point) error
	// Search searches for the nearest vectors to the given vector.
	Search(ctx context.Context, collection string, vector []float32, limit int, scoreThreshold float32) ([]SearchResult, error)
	// CreateCollection creates a new collection if it doesn't exist.
	CreateCollection(ctx context.Context, name string, vectorSize uint64) error
}

// Point represents a data point in the vector store.
type Point struct {
	ID        string                 `json:"id"`
	Vector    []float32              `json:"vector"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp int64                  `json:"timestamp"`
}

// SearchResult represents a result from a vector search.
type SearchResult struct {
	ID    string  `json:"id"`
	Score float32 `json:"score"`
	Point Point   `json:"point"`
}

// Embedder defines the interface for converting text to vectors.
type Embedder interface {
	// Embed converts a text string into a vector.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorContext implements core.Memory over a vector store. Exchanges are
// embedded on save; LoadContext embeds the scope and returns the nearest
// stored exchanges for it, most relevant last so prompt builders can keep
// the highest-scoring entry closest to the task.
type VectorContext struct {
	store      VectorStore
	embedder   Embedder
	collection string
	limit      int
	threshold  float32
}

// VectorOption configures a VectorContext.
type VectorOption func(*VectorContext)

// WithSearchLimit caps how many exchanges LoadContext returns.
func WithSearchLimit(n int) VectorOption {
	return func(v *VectorContext) {
		if n > 0 {
			v.limit = n
		}
	}
}

// WithScoreThreshold drops results below the given similarity score.
func WithScoreThreshold(t float32) VectorOption {
	return func(v *VectorContext) { v.threshold = t }
}

// NewVectorContext creates a vector-backed context store.
func NewVectorContext(store VectorStore, embedder Embedder, collection string, opts ...VectorOption) (*VectorContext, error) {
	if store == nil {
		return nil, berrors.New(berrors.CodeInvalidInput, "vector store is required", nil).WithRecoverable(false)
	}
	if embedder == nil {
		return nil, berrors.New(berrors.CodeInvalidInput, "embedder is required", nil).WithRecoverable(false)
	}
	if collection == "" {
		collection = "batai_context"
	}
	v := &VectorContext{
		store:      store,
		embedder:   embedder,
		collection: collection,
		limit:      5,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// LoadContext returns the stored exchanges nearest to the scope text.
func (v *VectorContext) LoadContext(ctx context.Context, scope string) ([]core.Exchange, error) {
	vector, err := v.embedder.Embed(ctx, scope)
	if err != nil {
		return nil, berrors.New(berrors.CodeMemoryError, "failed to embed scope", err).
			WithContext("scope", scope)
	}

	results, err := v.store.Search(ctx, v.collection, vector, v.limit, v.threshold)
	if err != nil {
		return nil, berrors.New(berrors.CodeMemoryError, "vector search failed", err).
			WithContext("scope", scope)
	}

	exchanges := make([]core.Exchange, 0, len(results))
	// Reverse so the best match lands last.
	for i := len(results) - 1; i >= 0; i-- {
		payload := results[i].Point.Payload
		if s, _ := payload["scope"].(string); s != scope {
			continue
		}
		ex := core.Exchange{}
		ex.Input, _ = payload["input"].(string)
		ex.Output, _ = payload["output"].(string)
		if ts, ok := payload["created_at"].(int64); ok {
			ex.CreatedAt = time.Unix(ts, 0).UTC()
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, nil
}

// SaveContext embeds and stores a single exchange.
func (v *VectorContext) SaveContext(ctx context.Context, scope string, exchange core.Exchange) error {
	created := exchange.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	vector, err := v.embedder.Embed(ctx, exchange.Input+"\n"+exchange.Output)
	if err != nil {
		return berrors.New(berrors.CodeMemoryError, "failed to embed exchange", err).
			WithContext("scope", scope)
	}

	point := Point{
		ID:     uuid.NewString(),
		Vector: vector,
		Payload: map[string]interface{}{
			"scope":      scope,
			"input":      exchange.Input,
			"output":     exchange.Output,
			"created_at": created.Unix(),
		},
		Timestamp: created.Unix(),
	}

	if err := v.store.Upsert(ctx, v.collection, []Point{point}); err != nil {
		return berrors.New(berrors.CodeMemoryError, "vector upsert failed", err).
			WithContext("scope", scope)
	}
	return nil
}

var _ core.Memory = (*VectorContext)(nil)
