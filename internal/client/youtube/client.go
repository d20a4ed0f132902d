package youtube

import (
	"context"
	"fmt"
	"time"

	"kenyamusic/internal/config"
)

const musicCategoryID = "10"

// SearchResult is one raw item from a search call. PublishedAt is kept as the
// wire string; the pipeline parses it and skips malformed items.
type SearchResult struct {
	VideoID      string
	Title        string
	ChannelID    string
	ChannelTitle string
	PublishedAt  string
	ThumbnailURL string
}

// ChannelInfo is the subset of channel metadata the content filter needs.
type ChannelInfo struct {
	Country     string
	Subscribers int64
}

// Client performs the remote search and channel-info calls, scoped to the
// music category and a region, with per-call timeouts.
type Client struct {
	Rotator *KeyRotator

	regionCode     string
	searchTimeout  time.Duration
	channelTimeout time.Duration
}

func NewClient(ctx context.Context, cfg config.YouTubeConfig) (*Client, error) {
	rotator, err := NewKeyRotator(ctx, cfg.APIKeys)
	if err != nil {
		return nil, err
	}
	searchTimeout := cfg.SearchTimeout
	if searchTimeout <= 0 {
		searchTimeout = 10 * time.Second
	}
	channelTimeout := cfg.ChannelTimeout
	if channelTimeout <= 0 {
		channelTimeout = 8 * time.Second
	}
	region := cfg.RegionCode
	if region == "" {
		region = "KE"
	}
	return &Client{
		Rotator:        rotator,
		regionCode:     region,
		searchTimeout:  searchTimeout,
		channelTimeout: channelTimeout,
	}, nil
}

// Search runs one dated video search with the current credential. The caller
// decides whether to rotate after a failure.
func (c *Client) Search(ctx context.Context, query string, publishedAfter time.Time, maxResults int64) ([]SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	call := c.Rotator.Current().Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		VideoCategoryId(musicCategoryID).
		RegionCode(c.regionCode).
		MaxResults(maxResults).
		Order("date").
		PublishedAfter(publishedAfter.UTC().Format(time.RFC3339)).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		r := SearchResult{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			r.ThumbnailURL = item.Snippet.Thumbnails.High.Url
		}
		results = append(results, r)
	}
	return results, nil
}

// ChannelInfo fetches country and subscriber count for a channel. A channel
// that cannot be found returns (nil, nil) so the caller treats it as a
// lookup miss rather than a failure.
func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*ChannelInfo, error) {
	if channelID == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.channelTimeout)
	defer cancel()

	resp, err := c.Rotator.Current().Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube channel %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	info := &ChannelInfo{}
	item := resp.Items[0]
	if item.Snippet != nil {
		info.Country = item.Snippet.Country
	}
	if item.Statistics != nil && !item.Statistics.HiddenSubscriberCount {
		info.Subscribers = int64(item.Statistics.SubscriberCount)
	}
	return info, nil
}

// RotateKey advances to the next credential in the rotation set.
func (c *Client) RotateKey() {
	c.Rotator.Rotate()
}

// WatchURL is the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}
