package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
)

func TestInMemoryContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewInMemoryContext()

	if err := mem.SaveContext(ctx, "research", core.Exchange{Input: "q1", Output: "a1"}); err != nil {
		t.Fatalf("SaveContext failed: %v", err)
	}
	if err := mem.SaveContext(ctx, "research", core.Exchange{Input: "q2", Output: "a2"}); err != nil {
		t.Fatalf("SaveContext failed: %v", err)
	}
	if err := mem.SaveContext(ctx, "writing", core.Exchange{Input: "draft", Output: "done"}); err != nil {
		t.Fatalf("SaveContext failed: %v", err)
	}

	exchanges, err := mem.LoadContext(ctx, "research")
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	if len(exchanges) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(exchanges))
	}
	if exchanges[0].Input != "q1" || exchanges[1].Input != "q2" {
		t.Errorf("exchanges out of insertion order: %+v", exchanges)
	}
	if exchanges[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped on save")
	}
}

func TestInMemoryContextEmptyScope(t *testing.T) {
	mem := NewInMemoryContext()

	exchanges, err := mem.LoadContext(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	if len(exchanges) != 0 {
		t.Errorf("expected empty scope to return no exchanges, got %d", len(exchanges))
	}
}

func TestInMemoryContextIsolation(t *testing.T) {
	ctx := context.Background()
	mem := NewInMemoryContext()

	if err := mem.SaveContext(ctx, "a", core.Exchange{Input: "in", Output: "out"}); err != nil {
		t.Fatalf("SaveContext failed: %v", err)
	}

	exchanges, _ := mem.LoadContext(ctx, "a")
	exchanges[0].Input = "mutated"

	reloaded, _ := mem.LoadContext(ctx, "a")
	if reloaded[0].Input != "in" {
		t.Error("LoadContext must return a copy, not the backing slice")
	}
}

func TestSQLiteContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "context.db")

	mem, err := OpenSQLiteContext(path)
	if err != nil {
		t.Fatalf("OpenSQLiteContext failed: %v", err)
	}
	defer mem.Close()

	for _, ex := range []core.Exchange{
		{Input: "q1", Output: "a1"},
		{Input: "q2", Output: "a2"},
		{Input: "q3", Output: "a3"},
	} {
		if err := mem.SaveContext(ctx, "research", ex); err != nil {
			t.Fatalf("SaveContext failed: %v", err)
		}
	}

	exchanges, err := mem.LoadContext(ctx, "research")
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	if len(exchanges) != 3 {
		t.Fatalf("expected 3 exchanges, got %d", len(exchanges))
	}
	for i, want := range []string{"q1", "q2", "q3"} {
		if exchanges[i].Input != want {
			t.Errorf("exchange %d: input = %q, want %q", i, exchanges[i].Input, want)
		}
	}
}

func TestSQLiteContextLoadLimit(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "context.db")

	mem, err := OpenSQLiteContext(path, WithLoadLimit(2))
	if err != nil {
		t.Fatalf("OpenSQLiteContext failed: %v", err)
	}
	defer mem.Close()

	for _, in := range []string{"q1", "q2", "q3", "q4"} {
		if err := mem.SaveContext(ctx, "s", core.Exchange{Input: in, Output: "a"}); err != nil {
			t.Fatalf("SaveContext failed: %v", err)
		}
	}

	exchanges, err := mem.LoadContext(ctx, "s")
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	if len(exchanges) != 2 {
		t.Fatalf("expected limit of 2 exchanges, got %d", len(exchanges))
	}
	// The window keeps the most recent entries, oldest first.
	if exchanges[0].Input != "q3" || exchanges[1].Input != "q4" {
		t.Errorf("unexpected window: %q, %q", exchanges[0].Input, exchanges[1].Input)
	}
}

func TestSQLiteContextScopeIsolation(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "context.db")

	mem, err := OpenSQLiteContext(path)
	if err != nil {
		t.Fatalf("OpenSQLiteContext failed: %v", err)
	}
	defer mem.Close()

	if err := mem.SaveContext(ctx, "a", core.Exchange{Input: "in-a", Output: "out"}); err != nil {
		t.Fatalf("SaveContext failed: %v", err)
	}
	if err := mem.SaveContext(ctx, "b", core.Exchange{Input: "in-b", Output: "out"}); err != nil {
		t.Fatalf("SaveContext failed: %v", err)
	}

	exchanges, err := mem.LoadContext(ctx, "a")
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	if len(exchanges) != 1 || exchanges[0].Input != "in-a" {
		t.Errorf("scope leak: %+v", exchanges)
	}
}
