package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/awmpietro/golang-dmn-decision-engine/internal/decision"
)

// InMemory caches compiled decision graphs by document hash. Concurrent
// misses on the same document share a single compilation. Once max entries
// are stored new graphs are still returned but not cached.
type InMemory struct {
	mu    sync.RWMutex
	max   int
	items map[string]*decision.Graph
	group singleflight.Group
}

func NewInMemory(max int) *InMemory {
	return &InMemory{
		max:   max,
		items: make(map[string]*decision.Graph, max),
	}
}

func (c *InMemory) GetOrCompute(document string, fn func() (*decision.Graph, error)) (*decision.Graph, error) {
	key := Hash(document)

	if g, ok := c.get(key); ok {
		return g, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if g, ok := c.get(key); ok {
			return g, nil
		}

		g, err := compute(fn)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if len(c.items) < c.max {
			c.items[key] = g
		}
		c.mu.Unlock()
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*decision.Graph), nil
}

func (c *InMemory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *InMemory) get(key string) (*decision.Graph, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.items[key]
	return g, ok
}

// compute turns a panic in fn into an error so waiters sharing the flight
// are released with a failure instead of re-panicking.
func compute(fn func() (*decision.Graph, error)) (g *decision.Graph, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("graph compilation panicked: %v", r)
		}
	}()
	return fn()
}

// Hash is the cache key of a document, also reported to clients as the
// model hash.
func Hash(document string) string {
	sum := sha256.Sum256([]byte(document))
	return hex.EncodeToString(sum[:])
}
