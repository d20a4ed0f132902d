package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"kenyamusic/internal/client/youtube"
	"kenyamusic/internal/config"
	"kenyamusic/internal/filter"
	"kenyamusic/internal/models"
	"kenyamusic/internal/repository"
)

const defaultThumbnailURL = "/static/images/default_album.jpg"

// ErrRunInProgress is returned when a discovery cycle is requested while one
// is already running.
var ErrRunInProgress = errors.New("discovery run already in progress")

// defaultSearchQueries is the rotation of searches one discovery cycle runs.
// Mixing broad genre queries with named artists keeps both chart releases and
// smaller drops in the net.
var defaultSearchQueries = []string{
	"New Kenyan official music video 2025",
	"Latest Kenyan songs 2025",
	"Kenyan AfroPop official music video",
	"Kenya Bongo and Afrobeat songs 2025",
	"Nairobi music release this week",
	"Kenya trending music videos 2025",
	"Top Kenyan hits 2025",
	"Kenyan RnB official video 2025",
	"Kenya Hip Hop official release 2025",
	"New gengetone song 2025",
	"Njerae",
	"watendawili music",
	"cedo",
	"tipsy gee",
	"costa ojwang",
	"Bensoul",
	"BURUKLYNBOYZ",
	"Nikita Kering",
	"Toxic lyrikali",
	"Nyashinski",
	"Xenia Manasseh",
	"Karun",
	"Muthaka",
	"Lisa Oduor-Noah",
	"Kui Ciu",
	"Okello Max",
	"Prince Indah",
	"Watendawili",
	"Nyashinski new song 2025",
	"Bensoul latest song 2025",
	"Buruklyn Boyz new track 2025",
	"Teslah new release 2025",
	"Nikita Kering new video 2025",
	"Khaligraph Jones official video 2025",
	"Otile Brown latest song 2025",
	"Iyanii new hit 2025",
	"Savara or Bien new song 2025",
	"Kenyan official gospel song 2025",
	"Kenyan love song 2025",
	"Kenya Top Charts 2025 music",
	"Kenyan YouTube trending official video",
	"Kenya latest audio release 2025",
	"Best new Kenyan artists 2025",
	"New Kenyan hit song",
	"Kenyan music video premiere 2025",
	"Kenya official music 2025 latest",
}

// VideoSource is the remote surface the pipeline searches against.
type VideoSource interface {
	Search(ctx context.Context, query string, publishedAfter time.Time, maxResults int64) ([]youtube.SearchResult, error)
	ChannelInfo(ctx context.Context, channelID string) (*youtube.ChannelInfo, error)
	RotateKey()
}

// CandidateVideo is a search result that survived filtering and is ready to
// be persisted.
type CandidateVideo struct {
	YoutubeID    string
	Title        string
	Artist       string
	ReleaseDate  time.Time
	YoutubeURL   string
	ThumbnailURL string
}

// QueryResult reports the outcome of one search query inside a run.
type QueryResult struct {
	Query string `json:"query"`
	Found int    `json:"found"`
	Kept  int    `json:"kept"`
	Error string `json:"error,omitempty"`
}

// RunResult summarizes one discovery cycle.
type RunResult struct {
	RunID           uuid.UUID     `json:"run_id"`
	Status          string        `json:"status"`
	VideosFound     int           `json:"videos_found"`
	VideosSaved     int           `json:"videos_saved"`
	ImagesGenerated int           `json:"images_generated"`
	Duration        time.Duration `json:"duration_ns"`
	Queries         []QueryResult `json:"queries"`
}

type DiscoveryService struct {
	Store  repository.Repository
	Source VideoSource
	Cache  *ChannelCache
	Logger *zap.Logger
	Cfg    config.DiscoveryConfig

	// Enrich and Stats are optional post-save steps.
	Enrich *EnrichService
	Stats  *StatsService

	// Queries overrides the default search catalog, mainly for tests.
	Queries []string

	// Now is swappable in tests.
	Now func() time.Time

	limiter *rate.Limiter
	running atomic.Bool
}

func NewDiscoveryService(store repository.Repository, source VideoSource, cfg config.DiscoveryConfig, logger *zap.Logger) *DiscoveryService {
	delay := cfg.SearchDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &DiscoveryService{
		Store:   store,
		Source:  source,
		Cache:   NewChannelCache(cfg.CacheTTL),
		Logger:  logger,
		Cfg:     cfg,
		Now:     time.Now,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

func (s *DiscoveryService) queries() []string {
	if len(s.Queries) > 0 {
		return s.Queries
	}
	return defaultSearchQueries
}

func (s *DiscoveryService) queryWorkers() int {
	if s.Cfg.QueryWorkers > 0 {
		return s.Cfg.QueryWorkers
	}
	return 3
}

func (s *DiscoveryService) batchSize() int {
	if s.Cfg.BatchSize > 0 {
		return s.Cfg.BatchSize
	}
	return 5
}

func (s *DiscoveryService) maxSongs() int {
	if s.Cfg.MaxSongs > 0 {
		return s.Cfg.MaxSongs
	}
	return 50
}

func (s *DiscoveryService) recencyDays() int {
	if s.Cfg.RecencyDays > 0 {
		return s.Cfg.RecencyDays
	}
	return 30
}

// UpdateLibrary runs one full discovery cycle: search, filter, save, then the
// optional enrichment and stats refresh. Concurrent invocations are rejected
// so a slow run and the cron schedule cannot overlap.
func (s *DiscoveryService) UpdateLibrary(ctx context.Context) (RunResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return RunResult{}, ErrRunInProgress
	}
	defer s.running.Store(false)

	start := s.Now().UTC()
	run := &models.DiscoveryRun{
		ID:        uuid.New(),
		Status:    models.DiscoveryRunRunning,
		StartedAt: start,
	}
	if err := s.Store.InsertDiscoveryRun(ctx, run); err != nil {
		return RunResult{}, fmt.Errorf("record discovery run: %w", err)
	}

	result := RunResult{RunID: run.ID}
	candidates, queryResults := s.discover(ctx)
	result.Queries = queryResults
	result.VideosFound = len(candidates)

	saved, err := s.SaveVideos(ctx, candidates)
	if err != nil {
		result.Duration = s.Now().UTC().Sub(start)
		s.finishRun(ctx, run, &result, err)
		return result, err
	}
	result.VideosSaved = saved

	if s.Enrich != nil && saved > 0 {
		generated, err := s.Enrich.GenerateMissingImages(ctx, saved)
		if err != nil {
			s.Logger.Warn("cover art generation failed", zap.Error(err))
		}
		result.ImagesGenerated = generated
	}
	if s.Stats != nil {
		if err := s.Stats.Recompute(ctx); err != nil {
			s.Logger.Warn("stats refresh failed", zap.Error(err))
		}
	}

	s.finishRun(ctx, run, &result, nil)
	result.Duration = s.Now().UTC().Sub(start)
	s.Logger.Info("discovery cycle finished",
		zap.String("run_id", run.ID.String()),
		zap.Int("videos_found", result.VideosFound),
		zap.Int("videos_saved", result.VideosSaved),
		zap.Duration("duration", result.Duration))
	return result, nil
}

func (s *DiscoveryService) finishRun(ctx context.Context, run *models.DiscoveryRun, result *RunResult, runErr error) {
	now := s.Now().UTC()
	run.FinishedAt = &now
	run.VideosFound = result.VideosFound
	run.VideosSaved = result.VideosSaved
	run.ImagesGenerated = result.ImagesGenerated
	if runErr != nil {
		run.Status = models.DiscoveryRunError
		msg := runErr.Error()
		run.LastError = &msg
	} else {
		run.Status = models.DiscoveryRunOK
	}
	result.Status = string(run.Status)
	if stats, err := json.Marshal(result.Queries); err == nil {
		run.StatsJSON = stats
	}
	if err := s.Store.UpdateDiscoveryRun(ctx, run); err != nil {
		s.Logger.Warn("update discovery run failed",
			zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

// discover fans the query catalog out over a small worker pool and merges the
// per-query candidates: dedup keeping first sight, second-pass refilter,
// newest first, capped.
func (s *DiscoveryService) discover(ctx context.Context) ([]CandidateVideo, []QueryResult) {
	cutoff := s.Now().UTC().AddDate(0, 0, -s.recencyDays())
	queries := s.queries()

	jobs := make(chan string)
	outcomes := make(chan queryOutcome)

	var wg sync.WaitGroup
	for i := 0; i < s.queryWorkers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for query := range jobs {
				outcomes <- s.runQuery(ctx, query, cutoff)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, q := range queries {
			select {
			case jobs <- q:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var all []CandidateVideo
	results := make([]QueryResult, 0, len(queries))
	for outcome := range outcomes {
		results = append(results, outcome.result)
		all = append(all, outcome.candidates...)
	}

	merged := mergeCandidates(all, cutoff, s.maxSongs())
	return merged, results
}

type queryOutcome struct {
	result     QueryResult
	candidates []CandidateVideo
}

func (s *DiscoveryService) runQuery(ctx context.Context, query string, cutoff time.Time) queryOutcome {
	outcome := queryOutcome{result: QueryResult{Query: query}}
	if err := s.limiter.Wait(ctx); err != nil {
		outcome.result.Error = err.Error()
		return outcome
	}

	items, err := s.Source.Search(ctx, query, cutoff, int64(s.Cfg.MaxResults))
	if err != nil {
		// The next query picks up the fresh credential.
		s.Source.RotateKey()
		s.Logger.Warn("search failed, rotating key", zap.String("query", query), zap.Error(err))
		outcome.result.Error = err.Error()
		return outcome
	}
	outcome.result.Found = len(items)

	batch := s.batchSize()
	for start := 0; start < len(items); start += batch {
		end := start + batch
		if end > len(items) {
			end = len(items)
		}
		outcome.candidates = append(outcome.candidates, s.processBatch(ctx, items[start:end], cutoff)...)
	}
	outcome.result.Kept = len(outcome.candidates)
	// Rotate after a successful query too, spreading quota over the key set.
	s.Source.RotateKey()
	return outcome
}

// processBatch vets one chunk concurrently; result order follows input order.
func (s *DiscoveryService) processBatch(ctx context.Context, items []youtube.SearchResult, cutoff time.Time) []CandidateVideo {
	out := make([]CandidateVideo, len(items))
	keep := make([]bool, len(items))
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i], keep[i] = s.vetVideo(ctx, items[i], cutoff)
		}(i)
	}
	wg.Wait()

	kept := out[:0]
	for i := range out {
		if keep[i] {
			kept = append(kept, out[i])
		}
	}
	return kept
}

// vetVideo applies the full acceptance chain to one search result: parseable
// timestamp, recency, cheap title pre-check, verified Kenyan channel with
// enough subscribers, and the official-release heuristic.
func (s *DiscoveryService) vetVideo(ctx context.Context, item youtube.SearchResult, cutoff time.Time) (CandidateVideo, bool) {
	published, err := time.Parse(time.RFC3339, item.PublishedAt)
	if err != nil {
		s.Logger.Debug("skipping video with bad timestamp",
			zap.String("video_id", item.VideoID), zap.String("published_at", item.PublishedAt))
		return CandidateVideo{}, false
	}
	published = published.UTC()
	if published.Before(cutoff) {
		return CandidateVideo{}, false
	}
	if !filter.QuickPreFilter(item.Title) {
		return CandidateVideo{}, false
	}

	info, err := s.Cache.GetOrFetch(ctx, item.ChannelID, s.Source.ChannelInfo)
	if err != nil {
		s.Logger.Warn("channel lookup failed",
			zap.String("channel_id", item.ChannelID), zap.Error(err))
		return CandidateVideo{}, false
	}
	if info == nil || info.Country != "KE" || info.Subscribers < s.Cfg.MinSubscribers {
		return CandidateVideo{}, false
	}
	if !filter.OfficialRelease(item.Title, item.ChannelTitle) {
		return CandidateVideo{}, false
	}

	thumbnail := item.ThumbnailURL
	if thumbnail == "" {
		thumbnail = defaultThumbnailURL
	}
	return CandidateVideo{
		YoutubeID:    item.VideoID,
		Title:        filter.NormalizeTitle(item.Title, item.ChannelTitle),
		Artist:       strings.TrimSpace(item.ChannelTitle),
		ReleaseDate:  published,
		YoutubeURL:   youtube.WatchURL(item.VideoID),
		ThumbnailURL: thumbnail,
	}, true
}

func mergeCandidates(all []CandidateVideo, cutoff time.Time, limit int) []CandidateVideo {
	seen := make(map[string]struct{}, len(all))
	merged := make([]CandidateVideo, 0, len(all))
	for _, c := range all {
		if _, dup := seen[c.YoutubeID]; dup {
			continue
		}
		seen[c.YoutubeID] = struct{}{}
		if !filter.Refilter(c.Title) || c.ReleaseDate.Before(cutoff) {
			continue
		}
		merged = append(merged, c)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ReleaseDate.After(merged[j].ReleaseDate)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func savePoint(tx *gorm.DB, name string) {
	if tx != nil {
		tx.SavePoint(name)
	}
}

func rollbackTo(tx *gorm.DB, name string) {
	if tx != nil {
		tx.RollbackTo(name)
	}
}

// SaveVideos persists candidates in one transaction. Phase one skips
// anything stale or already stored and resolves the artist rows, phase two
// inserts the songs. A candidate that fails is rolled back to its savepoint
// and skipped; a commit failure loses the whole batch and reports zero saved.
func (s *DiscoveryService) SaveVideos(ctx context.Context, candidates []CandidateVideo) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	cutoff := s.Now().UTC().AddDate(0, 0, -s.recencyDays())
	saved := 0
	err := s.Store.InTx(ctx, func(tx *gorm.DB) error {
		type pending struct {
			candidate CandidateVideo
			artistID  uint
		}
		var fresh []pending

		for _, c := range candidates {
			if c.ReleaseDate.Before(cutoff) {
				continue
			}
			exists, err := s.Store.SongExistsTx(ctx, tx, c.YoutubeID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			savePoint(tx, "artist_item")
			artist, err := s.Store.FindOrCreateArtistTx(ctx, tx, c.Artist)
			if err != nil {
				rollbackTo(tx, "artist_item")
				s.Logger.Warn("artist resolution failed",
					zap.String("artist", c.Artist), zap.Error(err))
				continue
			}
			fresh = append(fresh, pending{candidate: c, artistID: artist.ID})
		}

		for _, p := range fresh {
			c := p.candidate
			song := &models.Song{
				ArtistID:     p.artistID,
				Title:        c.Title,
				ReleaseDate:  c.ReleaseDate,
				YoutubeURL:   c.YoutubeURL,
				YoutubeID:    c.YoutubeID,
				ThumbnailURL: c.ThumbnailURL,
			}
			savePoint(tx, "song_item")
			if err := s.Store.InsertSongTx(ctx, tx, song); err != nil {
				rollbackTo(tx, "song_item")
				s.Logger.Warn("song insert failed",
					zap.String("youtube_id", c.YoutubeID), zap.Error(err))
				continue
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save videos: %w", err)
	}
	return saved, nil
}
