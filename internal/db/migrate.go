package db

import (
	"kenyamusic/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	if err := db.Gorm.AutoMigrate(
		&models.Artist{},
		&models.Song{},
		&models.Genre{},
		&models.MusicStats{},
		&models.DiscoveryRun{},
	); err != nil {
		return err
	}

	return seedGenres(db)
}

// seedGenres inserts the fixed Kenyan genre list, skipping names that already exist.
func seedGenres(db *DB) error {
	for _, name := range models.KenyanGenres {
		var count int64
		if err := db.Gorm.Model(&models.Genre{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Gorm.Create(&models.Genre{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
