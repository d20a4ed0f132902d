package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kenyamusic/internal/client/youtube"
	"kenyamusic/internal/models"
	"kenyamusic/internal/repository"
)

var youtubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/v/|embed/|youtu\.be/|shorts/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^([A-Za-z0-9_-]{11})$`),
}

// ExtractYouTubeID pulls the 11-character video id out of a watch, share,
// embed or shorts URL, or accepts a bare id.
func ExtractYouTubeID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, re := range youtubeIDPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// CatalogService serves browse and search over the stored library and the
// manual add and maintenance paths that bypass discovery.
type CatalogService struct {
	Store  repository.Repository
	Logger *zap.Logger

	// Now is swappable in tests.
	Now func() time.Time
}

func NewCatalogService(store repository.Repository, logger *zap.Logger) *CatalogService {
	return &CatalogService{Store: store, Logger: logger, Now: time.Now}
}

func (s *CatalogService) ListSongs(ctx context.Context, params repository.ListSongsParams) ([]models.Song, int64, error) {
	songs, err := s.Store.ListSongs(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountSongs(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return songs, total, nil
}

func (s *CatalogService) ListArtists(ctx context.Context, limit, offset int) ([]repository.ArtistWithCount, int64, error) {
	artists, err := s.Store.ListArtists(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountArtists(ctx)
	if err != nil {
		return nil, 0, err
	}
	return artists, total, nil
}

// ArtistDetail returns an artist by name together with their songs, newest
// first. A missing artist returns (nil, nil, nil).
func (s *CatalogService) ArtistDetail(ctx context.Context, name string) (*models.Artist, []models.Song, error) {
	artist, err := s.Store.GetArtistByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if artist == nil {
		return nil, nil, nil
	}
	songs, err := s.Store.ListSongs(ctx, repository.ListSongsParams{
		ArtistID: &artist.ID,
		OrderBy:  "release_date",
		Limit:    200,
	})
	if err != nil {
		return nil, nil, err
	}
	return artist, songs, nil
}

// ManualSongInput is one operator-supplied song. ReleaseDate defaults to now.
type ManualSongInput struct {
	URL         string     `json:"url" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Artist      string     `json:"artist" binding:"required"`
	ReleaseDate *time.Time `json:"release_date"`
}

// AddSong stores one manually curated song. The URL must contain a parseable
// video id and the id must not already be in the library.
func (s *CatalogService) AddSong(ctx context.Context, input ManualSongInput) (*models.Song, error) {
	youtubeID, ok := ExtractYouTubeID(input.URL)
	if !ok {
		return nil, fmt.Errorf("unrecognized youtube url: %s", input.URL)
	}
	existing, err := s.Store.GetSongByYoutubeID(ctx, youtubeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("song already in library: %s", youtubeID)
	}

	releaseDate := s.Now().UTC()
	if input.ReleaseDate != nil {
		releaseDate = input.ReleaseDate.UTC()
	}

	var song *models.Song
	err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		artist, err := s.Store.FindOrCreateArtistTx(ctx, tx, input.Artist)
		if err != nil {
			return err
		}
		song = &models.Song{
			ArtistID:     artist.ID,
			Title:        strings.TrimSpace(input.Title),
			ReleaseDate:  releaseDate,
			YoutubeURL:   youtube.WatchURL(youtubeID),
			YoutubeID:    youtubeID,
			ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", youtubeID),
		}
		return s.Store.InsertSongTx(ctx, tx, song)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("song added manually",
		zap.String("youtube_id", youtubeID), zap.String("artist", input.Artist))
	return song, nil
}

// BulkAddResult reports per-item outcomes of a bulk import.
type BulkAddResult struct {
	Added  int      `json:"added"`
	Errors []string `json:"errors,omitempty"`
}

// AddSongs imports a batch of manual songs, continuing past individual
// failures.
func (s *CatalogService) AddSongs(ctx context.Context, inputs []ManualSongInput) (BulkAddResult, error) {
	var result BulkAddResult
	for _, input := range inputs {
		if _, err := s.AddSong(ctx, input); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Added++
	}
	return result, nil
}

// Cleanup removes songs released before the retention window.
func (s *CatalogService) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := s.Now().UTC().AddDate(0, 0, -retentionDays)
	removed, err := s.Store.DeleteSongsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.Logger.Info("removed stale songs",
			zap.Int64("count", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}
