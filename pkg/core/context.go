package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type runIDKey struct{}
type agentPoolKey struct{}
type delegationPathKey struct{}

// WithRunID attaches a run id to the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id if present.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok
}

// EnsureRunID ensures a run id exists in the context.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if id, ok := RunID(ctx); ok {
		return ctx, id
	}
	id := newRunID()
	return WithRunID(ctx, id), id
}

// WithAgentPool attaches the pool of delegation candidates to the context.
func WithAgentPool(ctx context.Context, pool AgentPool) context.Context {
	return context.WithValue(ctx, agentPoolKey{}, pool)
}

// AgentPoolFromContext returns the agent pool if present.
func AgentPoolFromContext(ctx context.Context) (AgentPool, bool) {
	pool, ok := ctx.Value(agentPoolKey{}).(AgentPool)
	return pool, ok
}

// WithDelegation records a role in the delegation path. The path doubles
// as a visited set for cycle detection and as a depth counter.
func WithDelegation(ctx context.Context, role string) context.Context {
	path := DelegationPath(ctx)
	next := make([]string, 0, len(path)+1)
	next = append(next, path...)
	next = append(next, role)
	return context.WithValue(ctx, delegationPathKey{}, next)
}

// DelegationPath returns the roles visited so far in a delegation chain.
func DelegationPath(ctx context.Context) []string {
	path, _ := ctx.Value(delegationPathKey{}).([]string)
	return path
}

// DelegationDepth returns the number of hops in the delegation chain.
func DelegationDepth(ctx context.Context) int {
	return len(DelegationPath(ctx))
}

// DelegationVisited reports whether a role already appears in the chain.
func DelegationVisited(ctx context.Context, role string) bool {
	for _, r := range DelegationPath(ctx) {
		if r == role {
			return true
		}
	}
	return false
}

func newRunID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "run-unknown"
	}
	return "run-" + hex.EncodeToString(buf)
}
