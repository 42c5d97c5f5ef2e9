package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinReviewScore = 0.0
	MaxReviewScore = 10.0
)

// Review is a user's current rating of an album. The composite unique index on
// (album_id, user_id) guarantees at most one live review per pair; a
// resubmission updates in place and bumps Version after snapshotting the prior
// state into ReviewHistory.
type Review struct {
	BaseUUIDModel
	AlbumID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_album_user,composite:0" json:"albumId"`
	Album   Album     `gorm:"foreignKey:AlbumID"                                               json:"-"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_album_user,composite:1" json:"userId"`
	User    User      `gorm:"foreignKey:UserID"                                                json:"-"`

	Score      float64 `gorm:"type:float8;not null" json:"score"`
	ReviewText *string `gorm:"type:text"            json:"reviewText,omitempty"`

	// FirstListen is tri-state: nil means the user never said either way.
	FirstListen *bool `gorm:"type:bool" json:"firstListen"`

	// AotdDate is the calendar date the review was first submitted on. It is
	// stamped once at creation and never recomputed.
	AotdDate time.Time `gorm:"type:date;not null" json:"aotdDate"`

	Version int `gorm:"not null;default:1" json:"version"`
}

// Snapshot captures the review's current state as a history row, taken
// immediately before an update overwrites it.
func (r *Review) Snapshot() *ReviewHistory {
	return &ReviewHistory{
		ReviewID:    r.ID,
		Score:       r.Score,
		ReviewText:  r.ReviewText,
		FirstListen: r.FirstListen,
		AotdDate:    r.AotdDate,
		Version:     r.Version,
		RecordedAt:  time.Now(),
	}
}

// ReviewHistory is an append-only snapshot of a review's prior state. Rows are
// never mutated or deleted; ordered by RecordedAt they reconstruct every state
// the live review has ever held.
type ReviewHistory struct {
	BaseUUIDModel
	ReviewID uuid.UUID `gorm:"type:uuid;not null;index" json:"reviewId"`
	Review   Review    `gorm:"foreignKey:ReviewID"      json:"-"`

	Score       float64   `gorm:"type:float8;not null" json:"score"`
	ReviewText  *string   `gorm:"type:text"            json:"reviewText,omitempty"`
	FirstListen *bool     `gorm:"type:bool"            json:"firstListen"`
	AotdDate    time.Time `gorm:"type:date;not null"   json:"aotdDate"`
	Version     int       `gorm:"not null"             json:"version"`
	RecordedAt  time.Time `gorm:"type:timestamp;not null" json:"recordedAt"`
}
