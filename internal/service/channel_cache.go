package service

import (
	"context"
	"sync"
	"time"

	"kenyamusic/internal/client/youtube"
)

type channelEntry struct {
	info      youtube.ChannelInfo
	fetchedAt time.Time
}

// ChannelCache memoizes channel lookups for a TTL so one discovery cycle, and
// cycles close together, do not refetch the same channels. Lookup misses
// (nil info) are not cached.
type ChannelCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]channelEntry

	// Now is swappable in tests.
	Now func() time.Time
}

func NewChannelCache(ttl time.Duration) *ChannelCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ChannelCache{
		ttl:     ttl,
		entries: make(map[string]channelEntry),
		Now:     time.Now,
	}
}

// GetOrFetch returns the cached info for channelID when fresh, otherwise
// calls fetch and caches a non-nil result.
func (c *ChannelCache) GetOrFetch(ctx context.Context, channelID string, fetch func(ctx context.Context, channelID string) (*youtube.ChannelInfo, error)) (*youtube.ChannelInfo, error) {
	now := c.Now()

	c.mu.Lock()
	if entry, ok := c.entries[channelID]; ok && now.Sub(entry.fetchedAt) < c.ttl {
		info := entry.info
		c.mu.Unlock()
		return &info, nil
	}
	c.mu.Unlock()

	info, err := fetch(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}

	c.mu.Lock()
	c.entries[channelID] = channelEntry{info: *info, fetchedAt: now}
	c.mu.Unlock()
	return info, nil
}

// Len reports the number of cached channels.
func (c *ChannelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
