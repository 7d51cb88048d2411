package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Watch statuses a user can put an anime in. Only the engaged subset
// (watching/completed/on_hold) counts as a consumption signal for
// similarity and recommendations.
const (
	StatusWatching    = "watching"
	StatusCompleted   = "completed"
	StatusOnHold      = "on_hold"
	StatusPlanToWatch = "plan_to_watch"
	StatusDropped     = "dropped"
)

// RatingScaleMax is the upper bound of the raw rating scale.
const RatingScaleMax = 10

func KnownStatuses() []string {
	return []string{StatusWatching, StatusCompleted, StatusOnHold, StatusPlanToWatch, StatusDropped}
}

// UserAnime is one user's entry for one anime: watch status plus an
// optional 0-10 rating. A nil Score still counts as "has this anime on
// their list" everywhere presence matters.
type UserAnime struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_users_anime_entry,unique,priority:1" json:"user_id"`
	User    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AnimeID uuid.UUID `gorm:"type:uuid;not null;index:idx_users_anime_entry,unique,priority:2" json:"anime_id"`
	Anime   *Anime    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnimeID;references:ID" json:"anime,omitempty"`
	Status  string    `gorm:"column:status;not null;index" json:"status"`
	Score   *float64  `gorm:"column:score" json:"score,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserAnime) TableName() string { return "users_anime" }

func (ua *UserAnime) BeforeCreate(tx *gorm.DB) error {
	if ua.ID == uuid.Nil {
		ua.ID = uuid.New()
	}
	return nil
}
