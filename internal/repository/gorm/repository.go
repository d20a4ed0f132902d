package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"kenyamusic/internal/models"
	"kenyamusic/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- discovery writes -------------------------------------------------------

func (s *Store) SongExistsTx(ctx context.Context, tx *gorm.DB, youtubeID string) (bool, error) {
	if tx == nil {
		tx = s.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Song{}).
		Where("youtube_id = ?", youtubeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) FindOrCreateArtistTx(ctx context.Context, tx *gorm.DB, name string) (*models.Artist, error) {
	if tx == nil {
		tx = s.db
	}
	name = strings.TrimSpace(name)
	var artist models.Artist
	err := tx.WithContext(ctx).Where("name = ?", name).First(&artist).Error
	if err == nil {
		return &artist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	artist = models.Artist{Name: name}
	if err := tx.WithContext(ctx).Create(&artist).Error; err != nil {
		return nil, err
	}
	return &artist, nil
}

func (s *Store) InsertSongTx(ctx context.Context, tx *gorm.DB, song *models.Song) error {
	if tx == nil {
		tx = s.db
	}
	return tx.WithContext(ctx).Create(song).Error
}

// --- catalog reads ----------------------------------------------------------

func applySongFilters(query *gorm.DB, params repository.ListSongsParams) *gorm.DB {
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("JOIN artists ON artists.id = songs.artist_id").
			Where("songs.title ILIKE ? OR artists.name ILIKE ?", pattern, pattern)
	}
	if params.ArtistID != nil {
		query = query.Where("songs.artist_id = ?", *params.ArtistID)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("songs.release_date >= ?", *params.Since)
	}
	return query
}

func songOrder(orderBy string) string {
	switch orderBy {
	case "view_count":
		return "songs.view_count desc"
	case "created_at":
		return "songs.created_at desc"
	default:
		return "songs.release_date desc"
	}
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 || limit > 500 {
		return def
	}
	return limit
}

func (s *Store) ListSongs(ctx context.Context, params repository.ListSongsParams) ([]models.Song, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applySongFilters(s.db.WithContext(ctx).Model(&models.Song{}), params)
	limit := normalizeLimit(params.Limit, 50)
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	var items []models.Song
	if err := query.Order(songOrder(params.OrderBy)).Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSongs(ctx context.Context, params repository.ListSongsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	query := applySongFilters(s.db.WithContext(ctx).Model(&models.Song{}), params)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) GetSongByYoutubeID(ctx context.Context, youtubeID string) (*models.Song, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var song models.Song
	err := s.db.WithContext(ctx).Where("youtube_id = ?", youtubeID).First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *Store) ListArtists(ctx context.Context, limit, offset int) ([]repository.ArtistWithCount, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 100)
	if offset < 0 {
		offset = 0
	}
	var items []repository.ArtistWithCount
	err := s.db.WithContext(ctx).
		Model(&models.Artist{}).
		Select("artists.*, COUNT(songs.id) AS song_count").
		Joins("LEFT JOIN songs ON songs.artist_id = artists.id").
		Group("artists.id").
		Order("artists.name asc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountArtists(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Artist{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) GetArtistByName(ctx context.Context, name string) (*models.Artist, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var artist models.Artist
	err := s.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&artist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

// --- enrichment writes ------------------------------------------------------

func (s *Store) UpdateArtistDescription(ctx context.Context, artistID uint, description string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Artist{}).
		Where("id = ?", artistID).
		Update("description", description).Error
}

func (s *Store) UpdateSongDescription(ctx context.Context, songID uint, description string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Song{}).
		Where("id = ?", songID).
		Update("description", description).Error
}

func (s *Store) UpdateSongImage(ctx context.Context, songID uint, imageURL string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Song{}).
		Where("id = ?", songID).
		Update("image_url", imageURL).Error
}

func (s *Store) ListSongsMissingImages(ctx context.Context, limit int) ([]models.Song, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 50)
	var items []models.Song
	err := s.db.WithContext(ctx).
		Model(&models.Song{}).
		Where("image_url = '' OR image_url IS NULL").
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListSongTitlesByArtist(ctx context.Context, artistID uint, limit int) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 5)
	var titles []string
	err := s.db.WithContext(ctx).
		Model(&models.Song{}).
		Where("artist_id = ?", artistID).
		Order("release_date desc").
		Limit(limit).
		Pluck("title", &titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// --- maintenance and stats --------------------------------------------------

func (s *Store) DeleteSongsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("release_date < ?", cutoff).
		Delete(&models.Song{})
	return res.RowsAffected, res.Error
}

func (s *Store) SumViewCounts(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total *int64
	err := s.db.WithContext(ctx).
		Model(&models.Song{}).
		Select("SUM(view_count)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (s *Store) MostPopularArtist(ctx context.Context) (*string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var name string
	err := s.db.WithContext(ctx).
		Model(&models.Artist{}).
		Select("artists.name").
		Joins("JOIN songs ON songs.artist_id = artists.id").
		Group("artists.id").
		Order("SUM(songs.view_count) desc").
		Limit(1).
		Scan(&name).Error
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return &name, nil
}

func (s *Store) MostViewedSongTitle(ctx context.Context) (*string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var song models.Song
	err := s.db.WithContext(ctx).
		Order("view_count desc").
		First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song.Title, nil
}

func (s *Store) SaveMusicStats(ctx context.Context, stats *models.MusicStats) error {
	if s == nil || s.db == nil || stats == nil {
		return nil
	}
	var existing models.MusicStats
	err := s.db.WithContext(ctx).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(stats).Error
	}
	if err != nil {
		return err
	}
	stats.ID = existing.ID
	return s.db.WithContext(ctx).Save(stats).Error
}

func (s *Store) GetMusicStats(ctx context.Context) (*models.MusicStats, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var stats models.MusicStats
	err := s.db.WithContext(ctx).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// --- discovery run history --------------------------------------------------

func (s *Store) InsertDiscoveryRun(ctx context.Context, run *models.DiscoveryRun) error {
	if s == nil || s.db == nil || run == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *Store) UpdateDiscoveryRun(ctx context.Context, run *models.DiscoveryRun) error {
	if s == nil || s.db == nil || run == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(run).Error
}

func (s *Store) ListDiscoveryRuns(ctx context.Context, limit int) ([]models.DiscoveryRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 50)
	var runs []models.DiscoveryRun
	err := s.db.WithContext(ctx).
		Order("started_at desc").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
