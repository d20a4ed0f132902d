package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"kenyamusic/internal/models"
)

type ListSongsParams struct {
	// Search matches song title or artist name, case-insensitive.
	Search   string
	ArtistID *uint
	Since    *time.Time
	OrderBy  string // release_date | view_count | created_at
	Limit    int
	Offset   int
}

type ArtistWithCount struct {
	models.Artist
	SongCount int64 `json:"song_count"`
}

// Repository is the storage surface used by the discovery pipeline, the
// catalog query service and the enrichment service.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Discovery writes; Tx variants run inside InTx.
	SongExistsTx(ctx context.Context, tx *gorm.DB, youtubeID string) (bool, error)
	FindOrCreateArtistTx(ctx context.Context, tx *gorm.DB, name string) (*models.Artist, error)
	InsertSongTx(ctx context.Context, tx *gorm.DB, song *models.Song) error

	// Catalog reads.
	ListSongs(ctx context.Context, params ListSongsParams) ([]models.Song, error)
	CountSongs(ctx context.Context, params ListSongsParams) (int64, error)
	GetSongByYoutubeID(ctx context.Context, youtubeID string) (*models.Song, error)
	ListArtists(ctx context.Context, limit, offset int) ([]ArtistWithCount, error)
	CountArtists(ctx context.Context) (int64, error)
	GetArtistByName(ctx context.Context, name string) (*models.Artist, error)

	// Enrichment writes.
	UpdateArtistDescription(ctx context.Context, artistID uint, description string) error
	UpdateSongDescription(ctx context.Context, songID uint, description string) error
	UpdateSongImage(ctx context.Context, songID uint, imageURL string) error
	ListSongsMissingImages(ctx context.Context, limit int) ([]models.Song, error)
	ListSongTitlesByArtist(ctx context.Context, artistID uint, limit int) ([]string, error)

	// Maintenance and stats.
	DeleteSongsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	SumViewCounts(ctx context.Context) (int64, error)
	MostPopularArtist(ctx context.Context) (*string, error)
	MostViewedSongTitle(ctx context.Context) (*string, error)
	SaveMusicStats(ctx context.Context, stats *models.MusicStats) error
	GetMusicStats(ctx context.Context) (*models.MusicStats, error)

	// Discovery run history.
	InsertDiscoveryRun(ctx context.Context, run *models.DiscoveryRun) error
	UpdateDiscoveryRun(ctx context.Context, run *models.DiscoveryRun) error
	ListDiscoveryRuns(ctx context.Context, limit int) ([]models.DiscoveryRun, error)
}
