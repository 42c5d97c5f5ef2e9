package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Album is a catalog entry submitted into the album-of-the-day pool. Albums are
// immutable after submission; deletion requires an attributed actor and goes
// through the album controller, never directly through the store.
type Album struct {
	BaseUUIDModel
	SpotifyID  string `gorm:"type:text;uniqueIndex;not null" json:"spotifyId"`
	Title      string `gorm:"type:text;not null"             json:"title"`
	Artist     string `gorm:"type:text;not null"             json:"artist"`
	ArtistURL  string `gorm:"type:text;default:''"           json:"artistUrl"`
	CoverURL   string `gorm:"type:text"                      json:"coverUrl"`
	SpotifyURL string `gorm:"type:text;default:''"           json:"spotifyUrl"`

	// SubmittedByID survives submitter deletion so the album stays attributable.
	SubmittedByID *uuid.UUID `gorm:"type:uuid"              json:"submittedById,omitempty"`
	SubmittedBy   *User      `gorm:"foreignKey:SubmittedByID;constraint:OnDelete:SET NULL" json:"submittedBy,omitempty"`

	SubmitterComment *string        `gorm:"type:text"      json:"submitterComment,omitempty"`
	SubmittedAt      time.Time      `gorm:"autoCreateTime" json:"submittedAt"`
	RawData          datatypes.JSON `gorm:"type:jsonb"     json:"rawData,omitempty"`
}

func (a *Album) String() string {
	return a.Title + " by " + a.Artist
}
