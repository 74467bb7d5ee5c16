package state

import (
	"sort"

	"github.com/eowm/eowm/internal/layout"
)

const registryBuckets = 64

// Registry indexes managed clients by window id. It never owns a client;
// the workspace columns do.
type Registry struct {
	buckets [registryBuckets][]*Client
	size    int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

func bucketOf(id layout.Window) int {
	return int(uint32(id) % registryBuckets)
}

// Insert adds c. It reports false when a client with the same window is
// already present, leaving the registry unchanged.
func (r *Registry) Insert(c *Client) bool {
	b := bucketOf(c.Window)
	for _, existing := range r.buckets[b] {
		if existing.Window == c.Window {
			return false
		}
	}
	r.buckets[b] = append(r.buckets[b], c)
	r.size++
	return true
}

// Find looks up the client managing id.
func (r *Registry) Find(id layout.Window) (*Client, bool) {
	for _, c := range r.buckets[bucketOf(id)] {
		if c.Window == id {
			return c, true
		}
	}
	return nil, false
}

// Remove deletes the entry for id and reports whether it existed.
func (r *Registry) Remove(id layout.Window) bool {
	b := bucketOf(id)
	chain := r.buckets[b]
	for i, c := range chain {
		if c.Window != id {
			continue
		}
		copy(chain[i:], chain[i+1:])
		chain[len(chain)-1] = nil
		r.buckets[b] = chain[:len(chain)-1]
		r.size--
		return true
	}
	return false
}

// Len returns the number of managed clients.
func (r *Registry) Len() int {
	return r.size
}

// All returns every client ordered by window id.
func (r *Registry) All() []*Client {
	out := make([]*Client, 0, r.size)
	for _, chain := range r.buckets {
		out = append(out, chain...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window < out[j].Window })
	return out
}
