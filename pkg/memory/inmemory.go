// Package memory provides context memory backends for agents.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
)

// InMemoryContext is a simple in-process memory backend. Suitable for
// development, testing, and single-instance deployments. Data is lost on
// restart.
type InMemoryContext struct {
	mu     sync.RWMutex
	scopes map[string][]core.Exchange
}

// NewInMemoryContext creates an empty in-memory context store.
func NewInMemoryContext() *InMemoryContext {
	return &InMemoryContext{
		scopes: make(map[string][]core.Exchange),
	}
}

// LoadContext returns all stored exchanges for a scope in insertion order.
func (m *InMemoryContext) LoadContext(_ context.Context, scope string) ([]core.Exchange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exchanges := make([]core.Exchange, len(m.scopes[scope]))
	copy(exchanges, m.scopes[scope])
	return exchanges, nil
}

// SaveContext appends an exchange to a scope.
func (m *InMemoryContext) SaveContext(_ context.Context, scope string, exchange core.Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now().UTC()
	}
	m.scopes[scope] = append(m.scopes[scope], exchange)
	return nil
}

// Scopes returns all scopes with at least one stored exchange.
func (m *InMemoryContext) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scopes := make([]string, 0, len(m.scopes))
	for s := range m.scopes {
		scopes = append(scopes, s)
	}
	return scopes
}

var _ core.Memory = (*InMemoryContext)(nil)
