package models

import (
	"fmt"
	"time"
)

// Song is a persisted verified release. YoutubeID is the platform video id and
// the global dedup key; ReleaseDate is always stored in UTC.
type Song struct {
	ID       uint `gorm:"primaryKey;autoIncrement"`
	ArtistID uint `gorm:"index;not null"`

	Title        string    `gorm:"type:varchar(200);not null"`
	ReleaseDate  time.Time `gorm:"type:timestamptz;not null;index"`
	YoutubeURL   string    `gorm:"type:varchar(500);not null"`
	YoutubeID    string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	ThumbnailURL string    `gorm:"type:varchar(500)"`
	ImageURL     string    `gorm:"type:varchar(500)"`
	Description  *string   `gorm:"type:text"`

	ViewCount  int64   `gorm:"not null;default:0;index"`
	LikeCount  int64   `gorm:"not null;default:0"`
	Duration   *string `gorm:"type:varchar(20)"`
	Genre      *string `gorm:"type:varchar(100)"`
	IsExplicit bool    `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Song) TableName() string {
	return "songs"
}

// EmbedURL is the YouTube embed form of the watch URL.
func (s Song) EmbedURL() string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s", s.YoutubeID)
}

// IsRecent reports whether the song was released within the last n days.
func (s Song) IsRecent(now time.Time, days int) bool {
	return !s.ReleaseDate.Before(now.AddDate(0, 0, -days))
}
