// Package cache mirrors the server-side cookie collection for the active
// session. All writes go through the operations below, never direct slice
// surgery. Loads and mutations run on command goroutines while the update
// loop reads, and distinct entities may be in flight at once, so every
// accessor takes the lock.
package cache

import (
	"context"
	"log/slog"
	"sync"

	"mooncookies-cli/internal/api"
	"mooncookies-cli/internal/model"
)

// Lister is the slice of the API client the cache needs for loads.
type Lister interface {
	ListCookies(ctx context.Context, q api.ListQuery) ([]model.Cookie, error)
}

type Cache struct {
	mu      sync.Mutex
	entries []model.Cookie
	loading bool
	log     *slog.Logger
}

func New(log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{log: log}
}

// Load replaces the cache contents with a fresh bulk read (owner expanded,
// newest first). A failed load is logged and leaves the previous contents
// untouched; the UI stays interactive either way.
func (c *Cache) Load(ctx context.Context, lister Lister) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	// The network call runs unlocked so a slow read never blocks mutations
	// on other entities.
	cookies, err := lister.ListCookies(ctx, api.ListQuery{
		Include:  []string{"owner"},
		SortDesc: true,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.log.Error("load cookies failed", "err", err)
		return
	}
	c.entries = cookies
}

// Loading reports whether a Load call is in progress. Suppressing a second
// concurrent load is the caller's job, not the cache's.
func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// InsertFront prepends a newly created entry. Locally created entries go to
// the front regardless of server timestamp so perceived ordering stays
// stable without a refetch. The caller guarantees the id is new.
func (c *Cache) InsertFront(cookie model.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]model.Cookie{cookie}, c.entries...)
}

// Replace swaps the entry with a matching id in place, preserving its
// position. No-op when the id is absent.
func (c *Cache) Replace(id string, cookie model.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if c.entries[i].ID == id {
			c.entries[i] = cookie
			return
		}
	}
}

// Remove drops the entry with a matching id. No-op when absent.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if c.entries[i].ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Entries returns a copy of the current contents, newest first.
func (c *Cache) Entries() []model.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Cookie, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Find returns the entry with the given id, if present.
func (c *Cache) Find(id string) (model.Cookie, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.ID == id {
			return e, true
		}
	}
	return model.Cookie{}, false
}
