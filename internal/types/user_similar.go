package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSimilar is one directed half of a similarity edge. Edges are
// always written as a symmetric pair of rows carrying the same
// common_anime_count and correlation_score, and only the similarity
// service creates or destroys them.
type UserSimilar struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThisUserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_users_similar_pair,unique,priority:1" json:"this_user_id"`
	ThisUser    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ThisUserID;references:ID" json:"this_user,omitempty"`
	OtherUserID uuid.UUID `gorm:"type:uuid;not null;index:idx_users_similar_pair,unique,priority:2" json:"other_user_id"`
	OtherUser   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:OtherUserID;references:ID" json:"other_user,omitempty"`

	CommonAnimeCount int     `gorm:"column:common_anime_count;not null" json:"common_anime_count"`
	CorrelationScore float64 `gorm:"column:correlation_score;not null" json:"correlation_score"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserSimilar) TableName() string { return "users_similar" }

func (us *UserSimilar) BeforeCreate(tx *gorm.DB) error {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	return nil
}
