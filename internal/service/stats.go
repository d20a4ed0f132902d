package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"kenyamusic/internal/models"
	"kenyamusic/internal/repository"
)

type StatsService struct {
	Store  repository.Repository
	Logger *zap.Logger

	// Now is swappable in tests.
	Now func() time.Time
}

func NewStatsService(store repository.Repository, logger *zap.Logger) *StatsService {
	return &StatsService{Store: store, Logger: logger, Now: time.Now}
}

// Recompute rebuilds the snapshot row from the current catalog.
func (s *StatsService) Recompute(ctx context.Context) error {
	totalSongs, err := s.Store.CountSongs(ctx, repository.ListSongsParams{})
	if err != nil {
		return err
	}
	totalArtists, err := s.Store.CountArtists(ctx)
	if err != nil {
		return err
	}
	totalViews, err := s.Store.SumViewCounts(ctx)
	if err != nil {
		return err
	}
	popular, err := s.Store.MostPopularArtist(ctx)
	if err != nil {
		return err
	}
	viewed, err := s.Store.MostViewedSongTitle(ctx)
	if err != nil {
		return err
	}

	stats := &models.MusicStats{
		TotalSongs:        totalSongs,
		TotalArtists:      totalArtists,
		TotalViews:        totalViews,
		MostPopularArtist: popular,
		MostViewedSong:    viewed,
		LastUpdated:       s.Now().UTC(),
	}
	if err := s.Store.SaveMusicStats(ctx, stats); err != nil {
		return err
	}
	s.Logger.Debug("stats recomputed",
		zap.Int64("songs", totalSongs), zap.Int64("artists", totalArtists))
	return nil
}

// Current returns the stored snapshot, computing one on first use.
func (s *StatsService) Current(ctx context.Context) (*models.MusicStats, error) {
	stats, err := s.Store.GetMusicStats(ctx)
	if err != nil {
		return nil, err
	}
	if stats != nil {
		return stats, nil
	}
	if err := s.Recompute(ctx); err != nil {
		return nil, err
	}
	return s.Store.GetMusicStats(ctx)
}
