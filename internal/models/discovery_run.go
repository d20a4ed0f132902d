package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DiscoveryRunStatus string

const (
	DiscoveryRunRunning DiscoveryRunStatus = "running"
	DiscoveryRunOK      DiscoveryRunStatus = "ok"
	DiscoveryRunError   DiscoveryRunStatus = "error"
)

// DiscoveryRun records one discovery cycle so operators can see what each
// scheduled or manually triggered run found, saved and enriched.
type DiscoveryRun struct {
	ID              uuid.UUID          `gorm:"primaryKey;type:uuid"`
	Status          DiscoveryRunStatus `gorm:"type:varchar(10);not null;index"`
	StartedAt       time.Time          `gorm:"type:timestamptz;not null;index"`
	FinishedAt      *time.Time         `gorm:"type:timestamptz"`
	VideosFound     int                `gorm:"not null;default:0"`
	VideosSaved     int                `gorm:"not null;default:0"`
	ImagesGenerated int                `gorm:"not null;default:0"`
	LastError       *string            `gorm:"type:text"`
	StatsJSON       datatypes.JSON     `gorm:"type:jsonb"`
}

func (DiscoveryRun) TableName() string {
	return "discovery_runs"
}
