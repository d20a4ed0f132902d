package models

import "time"

type Genre struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Genre) TableName() string {
	return "genres"
}

// KenyanGenres seeds the genres table on first startup.
var KenyanGenres = []string{
	"Gengetone", "Afro-pop", "Gospel", "Benga", "Ohangla", "Hip Hop",
	"RnB", "Reggae", "Dancehall", "Zilizopendwa", "Kapuka", "Genge",
	"Afro-fusion", "Afrobeats", "Bongo Flava", "Mugithi", "Taarab",
}
