package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Anime struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"column:title;not null;index" json:"title"`
	Synopsis     string    `gorm:"column:synopsis" json:"synopsis,omitempty"`
	EpisodeCount int       `gorm:"column:episode_count;not null;default:0" json:"episode_count"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Anime) TableName() string { return "anime" }

func (a *Anime) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
