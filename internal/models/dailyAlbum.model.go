package models

import (
	"time"

	"github.com/google/uuid"
)

const CalendarDateFormat = "2006-01-02"

// DailyAlbum records the album featured on a calendar date. The unique index
// on Date is the enforcement point for the one-album-per-day invariant; a
// concurrent selection race is decided by the database, not the application.
type DailyAlbum struct {
	BaseUUIDModel
	AlbumID uuid.UUID `gorm:"type:uuid;not null;index"     json:"albumId"`
	Album   Album     `gorm:"foreignKey:AlbumID"           json:"album"`
	Date    time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`

	// Manual marks an administrative override, which bypasses the lookback
	// constraint entirely.
	Manual bool `gorm:"type:bool;default:false" json:"manual"`
}

func (d *DailyAlbum) DateString() string {
	return d.Date.Format(CalendarDateFormat)
}
