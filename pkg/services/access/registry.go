package access

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultSessionID   = "default"
	DefaultMaxSessions = 1024
)

// Registry keeps sessions by id. Least recently used sessions are evicted
// once the registry is full; an evicted session comes back with the default role.
type Registry struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Session]
}

func NewRegistry(size int) (*Registry, error) {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	cache, err := lru.New[string, *Session](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &Registry{cache: cache}, nil
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.cache.Get(id); ok {
		return s
	}
	s := NewSession(id)
	r.cache.Add(id, s)
	return s
}

func (r *Registry) Len() int {
	return r.cache.Len()
}
