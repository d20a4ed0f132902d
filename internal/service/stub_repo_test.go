package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kenyamusic/internal/models"
	"kenyamusic/internal/repository"
)

// stubRepo is an in-memory Repository for service tests. InTx runs the
// callback against a snapshot so a simulated commit failure restores state.
type stubRepo struct {
	mu      sync.Mutex
	songs   map[string]*models.Song
	artists map[string]*models.Artist
	runs    map[uuid.UUID]*models.DiscoveryRun
	stats   *models.MusicStats

	nextSongID   uint
	nextArtistID uint

	failCommit    bool
	failInsertFor map[string]bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		songs:         make(map[string]*models.Song),
		artists:       make(map[string]*models.Artist),
		runs:          make(map[uuid.UUID]*models.DiscoveryRun),
		failInsertFor: make(map[string]bool),
	}
}

func (r *stubRepo) snapshot() (map[string]*models.Song, map[string]*models.Artist) {
	songs := make(map[string]*models.Song, len(r.songs))
	for k, v := range r.songs {
		copied := *v
		songs[k] = &copied
	}
	artists := make(map[string]*models.Artist, len(r.artists))
	for k, v := range r.artists {
		copied := *v
		artists[k] = &copied
	}
	return songs, artists
}

func (r *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	songs, artists := r.snapshot()
	r.mu.Unlock()

	if err := fn(nil); err != nil {
		r.mu.Lock()
		r.songs, r.artists = songs, artists
		r.mu.Unlock()
		return err
	}
	if r.failCommit {
		r.mu.Lock()
		r.songs, r.artists = songs, artists
		r.mu.Unlock()
		return fmt.Errorf("commit failed")
	}
	return nil
}

func (r *stubRepo) SongExistsTx(ctx context.Context, tx *gorm.DB, youtubeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.songs[youtubeID]
	return ok, nil
}

func (r *stubRepo) FindOrCreateArtistTx(ctx context.Context, tx *gorm.DB, name string) (*models.Artist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.TrimSpace(name)
	if artist, ok := r.artists[name]; ok {
		return artist, nil
	}
	r.nextArtistID++
	artist := &models.Artist{ID: r.nextArtistID, Name: name}
	r.artists[name] = artist
	return artist, nil
}

func (r *stubRepo) InsertSongTx(ctx context.Context, tx *gorm.DB, song *models.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsertFor[song.YoutubeID] {
		return fmt.Errorf("insert failed for %s", song.YoutubeID)
	}
	if _, ok := r.songs[song.YoutubeID]; ok {
		return fmt.Errorf("duplicate youtube id %s", song.YoutubeID)
	}
	r.nextSongID++
	song.ID = r.nextSongID
	r.songs[song.YoutubeID] = song
	return nil
}

func (r *stubRepo) allSongs() []models.Song {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Song, 0, len(r.songs))
	for _, s := range r.songs {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReleaseDate.After(out[j].ReleaseDate) })
	return out
}

func (r *stubRepo) ListSongs(ctx context.Context, params repository.ListSongsParams) ([]models.Song, error) {
	var out []models.Song
	for _, s := range r.allSongs() {
		if params.ArtistID != nil && s.ArtistID != *params.ArtistID {
			continue
		}
		if params.Since != nil && s.ReleaseDate.Before(*params.Since) {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *stubRepo) CountSongs(ctx context.Context, params repository.ListSongsParams) (int64, error) {
	songs, _ := r.ListSongs(ctx, params)
	return int64(len(songs)), nil
}

func (r *stubRepo) GetSongByYoutubeID(ctx context.Context, youtubeID string) (*models.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if song, ok := r.songs[youtubeID]; ok {
		copied := *song
		return &copied, nil
	}
	return nil, nil
}

func (r *stubRepo) ListArtists(ctx context.Context, limit, offset int) ([]repository.ArtistWithCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.ArtistWithCount
	for _, artist := range r.artists {
		var count int64
		for _, s := range r.songs {
			if s.ArtistID == artist.ID {
				count++
			}
		}
		out = append(out, repository.ArtistWithCount{Artist: *artist, SongCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubRepo) CountArtists(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.artists)), nil
}

func (r *stubRepo) GetArtistByName(ctx context.Context, name string) (*models.Artist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if artist, ok := r.artists[strings.TrimSpace(name)]; ok {
		copied := *artist
		return &copied, nil
	}
	return nil, nil
}

func (r *stubRepo) UpdateArtistDescription(ctx context.Context, artistID uint, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, artist := range r.artists {
		if artist.ID == artistID {
			artist.Description = &description
			return nil
		}
	}
	return fmt.Errorf("artist %d not found", artistID)
}

func (r *stubRepo) UpdateSongDescription(ctx context.Context, songID uint, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, song := range r.songs {
		if song.ID == songID {
			song.Description = &description
			return nil
		}
	}
	return fmt.Errorf("song %d not found", songID)
}

func (r *stubRepo) UpdateSongImage(ctx context.Context, songID uint, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, song := range r.songs {
		if song.ID == songID {
			song.ImageURL = imageURL
			return nil
		}
	}
	return fmt.Errorf("song %d not found", songID)
}

func (r *stubRepo) ListSongsMissingImages(ctx context.Context, limit int) ([]models.Song, error) {
	var out []models.Song
	for _, s := range r.allSongs() {
		if s.ImageURL == "" {
			out = append(out, s)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *stubRepo) ListSongTitlesByArtist(ctx context.Context, artistID uint, limit int) ([]string, error) {
	var out []string
	for _, s := range r.allSongs() {
		if s.ArtistID != artistID {
			continue
		}
		out = append(out, s.Title)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *stubRepo) DeleteSongsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, s := range r.songs {
		if s.ReleaseDate.Before(cutoff) {
			delete(r.songs, id)
			removed++
		}
	}
	return removed, nil
}

func (r *stubRepo) SumViewCounts(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, s := range r.songs {
		total += s.ViewCount
	}
	return total, nil
}

func (r *stubRepo) MostPopularArtist(ctx context.Context) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	views := make(map[uint]int64)
	for _, s := range r.songs {
		views[s.ArtistID] += s.ViewCount
	}
	var best *models.Artist
	var bestViews int64 = -1
	for _, artist := range r.artists {
		if v := views[artist.ID]; v > bestViews {
			best, bestViews = artist, v
		}
	}
	if best == nil {
		return nil, nil
	}
	name := best.Name
	return &name, nil
}

func (r *stubRepo) MostViewedSongTitle(ctx context.Context) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Song
	for _, s := range r.songs {
		if best == nil || s.ViewCount > best.ViewCount {
			best = s
		}
	}
	if best == nil {
		return nil, nil
	}
	title := best.Title
	return &title, nil
}

func (r *stubRepo) SaveMusicStats(ctx context.Context, stats *models.MusicStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *stats
	r.stats = &copied
	return nil
}

func (r *stubRepo) GetMusicStats(ctx context.Context) (*models.MusicStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stats == nil {
		return nil, nil
	}
	copied := *r.stats
	return &copied, nil
}

func (r *stubRepo) InsertDiscoveryRun(ctx context.Context, run *models.DiscoveryRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *run
	r.runs[run.ID] = &copied
	return nil
}

func (r *stubRepo) UpdateDiscoveryRun(ctx context.Context, run *models.DiscoveryRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *run
	r.runs[run.ID] = &copied
	return nil
}

func (r *stubRepo) ListDiscoveryRuns(ctx context.Context, limit int) ([]models.DiscoveryRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.DiscoveryRun, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, *run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repository.Repository = (*stubRepo)(nil)
