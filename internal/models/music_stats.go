package models

import "time"

// MusicStats is a single-row snapshot of library-wide aggregates, recomputed
// after each discovery cycle.
type MusicStats struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	TotalSongs        int64     `gorm:"not null;default:0"`
	TotalArtists      int64     `gorm:"not null;default:0"`
	TotalViews        int64     `gorm:"not null;default:0"`
	MostPopularArtist *string   `gorm:"type:varchar(100)"`
	MostViewedSong    *string   `gorm:"type:varchar(200)"`
	LastUpdated       time.Time `gorm:"type:timestamptz;not null"`
}

func (MusicStats) TableName() string {
	return "music_stats"
}
