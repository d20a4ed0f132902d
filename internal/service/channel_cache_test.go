package service

import (
	"context"
	"testing"
	"time"

	"kenyamusic/internal/client/youtube"
)

func TestChannelCache_ServesFreshEntries(t *testing.T) {
	now := testNow
	cache := NewChannelCache(24 * time.Hour)
	cache.Now = func() time.Time { return now }

	calls := 0
	fetch := func(ctx context.Context, id string) (*youtube.ChannelInfo, error) {
		calls++
		return &youtube.ChannelInfo{Country: "KE", Subscribers: 12000}, nil
	}

	for i := 0; i < 3; i++ {
		info, err := cache.GetOrFetch(context.Background(), "ch1", fetch)
		if err != nil {
			t.Fatalf("err=%v", err)
		}
		if info == nil || info.Country != "KE" {
			t.Fatalf("info=%+v", info)
		}
	}
	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
}

func TestChannelCache_ExpiresAfterTTL(t *testing.T) {
	now := testNow
	cache := NewChannelCache(24 * time.Hour)
	cache.Now = func() time.Time { return now }

	calls := 0
	fetch := func(ctx context.Context, id string) (*youtube.ChannelInfo, error) {
		calls++
		return &youtube.ChannelInfo{Country: "KE"}, nil
	}

	if _, err := cache.GetOrFetch(context.Background(), "ch1", fetch); err != nil {
		t.Fatalf("err=%v", err)
	}
	now = now.Add(25 * time.Hour)
	if _, err := cache.GetOrFetch(context.Background(), "ch1", fetch); err != nil {
		t.Fatalf("err=%v", err)
	}
	if calls != 2 {
		t.Fatalf("calls=%d want 2", calls)
	}
}

func TestChannelCache_DoesNotCacheMisses(t *testing.T) {
	cache := NewChannelCache(24 * time.Hour)
	cache.Now = func() time.Time { return testNow }

	calls := 0
	fetch := func(ctx context.Context, id string) (*youtube.ChannelInfo, error) {
		calls++
		return nil, nil
	}

	for i := 0; i < 2; i++ {
		info, err := cache.GetOrFetch(context.Background(), "gone", fetch)
		if err != nil || info != nil {
			t.Fatalf("info=%v err=%v", info, err)
		}
	}
	if calls != 2 {
		t.Fatalf("calls=%d want 2", calls)
	}
	if cache.Len() != 0 {
		t.Fatalf("len=%d want 0", cache.Len())
	}
}
