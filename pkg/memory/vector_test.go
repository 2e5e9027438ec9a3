package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
	berrors "github.com/BatAIInc/bat-ai-core/pkg/errors"
)

type fakeEmbedder struct {
	err   error
	calls []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeStore struct {
	upserted  []Point
	results   []SearchResult
	searchErr error
	upsertErr error
}

func (f *fakeStore) Upsert(_ context.Context, _ string, points []Point) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, points...)
	return nil
}

func (f *fakeStore) Search(_ context.Context, _ string, _ []float32, _ int, _ float32) ([]SearchResult, error) {
	return f.results, f.searchErr
}

func (f *fakeStore) CreateCollection(_ context.Context, _ string, _ uint64) error {
	return nil
}

func TestVectorContextSaveEmbedsExchange(t *testing.T) {
	store := &fakeStore{}
	embedder := &fakeEmbedder{}
	mem, err := NewVectorContext(store, embedder, "test")
	if err != nil {
		t.Fatalf("NewVectorContext failed: %v", err)
	}

	err = mem.SaveContext(context.Background(), "research", core.Exchange{Input: "question", Output: "answer"})
	if err != nil {
		t.Fatalf("SaveContext failed: %v", err)
	}

	if len(embedder.calls) != 1 || embedder.calls[0] != "question\nanswer" {
		t.Errorf("unexpected embed input: %v", embedder.calls)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("expected 1 upserted point, got %d", len(store.upserted))
	}
	payload := store.upserted[0].Payload
	if payload["scope"] != "research" || payload["input"] != "question" || payload["output"] != "answer" {
		t.Errorf("unexpected payload: %v", payload)
	}
	if store.upserted[0].ID == "" {
		t.Error("expected point to get an ID")
	}
}

func TestVectorContextLoadOrdersBestMatchLast(t *testing.T) {
	store := &fakeStore{
		results: []SearchResult{
			{ID: "1", Score: 0.9, Point: Point{Payload: map[string]interface{}{"scope": "s", "input": "best", "output": "o1"}}},
			{ID: "2", Score: 0.5, Point: Point{Payload: map[string]interface{}{"scope": "s", "input": "worst", "output": "o2"}}},
		},
	}
	mem, err := NewVectorContext(store, &fakeEmbedder{}, "test")
	if err != nil {
		t.Fatalf("NewVectorContext failed: %v", err)
	}

	exchanges, err := mem.LoadContext(context.Background(), "s")
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	if len(exchanges) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(exchanges))
	}
	if exchanges[0].Input != "worst" || exchanges[1].Input != "best" {
		t.Errorf("expected best match last, got %q then %q", exchanges[0].Input, exchanges[1].Input)
	}
}

func TestVectorContextLoadFiltersForeignScopes(t *testing.T) {
	store := &fakeStore{
		results: []SearchResult{
			{ID: "1", Score: 0.9, Point: Point{Payload: map[string]interface{}{"scope": "mine", "input": "keep", "output": "o"}}},
			{ID: "2", Score: 0.8, Point: Point{Payload: map[string]interface{}{"scope": "other", "input": "drop", "output": "o"}}},
		},
	}
	mem, err := NewVectorContext(store, &fakeEmbedder{}, "test")
	if err != nil {
		t.Fatalf("NewVectorContext failed: %v", err)
	}

	exchanges, err := mem.LoadContext(context.Background(), "mine")
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	if len(exchanges) != 1 || exchanges[0].Input != "keep" {
		t.Errorf("expected only same-scope results, got %+v", exchanges)
	}
}

func TestVectorContextEmbedErrorIsMemoryError(t *testing.T) {
	mem, err := NewVectorContext(&fakeStore{}, &fakeEmbedder{err: errors.New("embed down")}, "test")
	if err != nil {
		t.Fatalf("NewVectorContext failed: %v", err)
	}

	if err := mem.SaveContext(context.Background(), "s", core.Exchange{Input: "x"}); !berrors.IsCode(err, berrors.CodeMemoryError) {
		t.Errorf("expected CodeMemoryError, got %v", err)
	}
	if _, err := mem.LoadContext(context.Background(), "s"); !berrors.IsCode(err, berrors.CodeMemoryError) {
		t.Errorf("expected CodeMemoryError, got %v", err)
	}
}

func TestNewVectorContextValidation(t *testing.T) {
	if _, err := NewVectorContext(nil, &fakeEmbedder{}, ""); !berrors.IsCode(err, berrors.CodeInvalidInput) {
		t.Errorf("expected CodeInvalidInput for nil store, got %v", err)
	}
	if _, err := NewVectorContext(&fakeStore{}, nil, ""); !berrors.IsCode(err, berrors.CodeInvalidInput) {
		t.Errorf("expected CodeInvalidInput for nil embedder, got %v", err)
	}
}
