package models

import (
	"time"
)

// Artist is the uploading YouTube channel treated as the artist identity.
// One row per distinct channel title; songs cascade on delete.
type Artist struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description *string `gorm:"type:text"`
	Genre       *string `gorm:"type:varchar(100)"`
	Location    *string `gorm:"type:varchar(100)"`
	IsVerified  bool    `gorm:"not null;default:false"`

	Songs []Song `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Artist) TableName() string {
	return "artists"
}
