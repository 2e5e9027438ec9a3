package core

import (
	"context"
	"testing"
)

func TestEnsureRunID(t *testing.T) {
	ctx, id := EnsureRunID(context.Background())
	if id == "" {
		t.Fatal("expected generated run id")
	}

	ctx2, id2 := EnsureRunID(ctx)
	if id2 != id {
		t.Errorf("expected stable run id, got %s then %s", id, id2)
	}
	if ctx2 != ctx {
		t.Error("expected unchanged context when run id exists")
	}
}

func TestDelegationPath(t *testing.T) {
	ctx := context.Background()
	if DelegationDepth(ctx) != 0 {
		t.Error("expected empty delegation path")
	}

	ctx = WithDelegation(ctx, "researcher")
	ctx = WithDelegation(ctx, "writer")

	if DelegationDepth(ctx) != 2 {
		t.Errorf("expected depth 2, got %d", DelegationDepth(ctx))
	}
	if !DelegationVisited(ctx, "researcher") {
		t.Error("expected researcher to be visited")
	}
	if DelegationVisited(ctx, "reviewer") {
		t.Error("reviewer should not be visited")
	}
}

func TestDelegationPathIsolation(t *testing.T) {
	base := WithDelegation(context.Background(), "a")
	left := WithDelegation(base, "b")
	right := WithDelegation(base, "c")

	if DelegationVisited(left, "c") || DelegationVisited(right, "b") {
		t.Error("delegation branches must not share path entries")
	}
	if DelegationDepth(base) != 1 {
		t.Error("parent path mutated by child branch")
	}
}
