package models

import (
	"time"

	"github.com/google/uuid"
)

// SpotifyProfile links a user to their Spotify account and holds the OAuth
// token set. Tokens are refreshed by the Spotify service when expired.
type SpotifyProfile struct {
	BaseUUIDModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	User   User      `gorm:"foreignKey:UserID"              json:"-"`

	SpotifyID      string  `gorm:"type:text;not null" json:"spotifyId"`
	DisplayName    *string `gorm:"type:text"          json:"displayName,omitempty"`
	Email          string  `gorm:"type:text"          json:"email"`
	Country        string  `gorm:"type:varchar(2)"    json:"country"`
	SpotifyURL     string  `gorm:"type:text"          json:"spotifyUrl"`
	FollowerCount  int     `gorm:"default:0"          json:"followerCount"`
	AvatarURL      *string `gorm:"type:text"          json:"avatarUrl,omitempty"`
	MembershipType string  `gorm:"type:text"          json:"membershipType"`

	AccessToken  *string    `gorm:"type:text"      json:"-"`
	RefreshToken *string    `gorm:"type:text"      json:"-"`
	TokenType    *string    `gorm:"type:text"      json:"-"`
	TokenScope   *string    `gorm:"type:text"      json:"-"`
	TokenExpiry  *time.Time `gorm:"type:timestamp" json:"-"`

	// Submissions from this profile can be blocked by an admin.
	SelectionBlocked bool `gorm:"type:bool;default:false" json:"selectionBlocked"`
}

// TokenExpired reports whether the access token needs a refresh before use.
func (p *SpotifyProfile) TokenExpired(now time.Time) bool {
	if p.AccessToken == nil || p.TokenExpiry == nil {
		return true
	}
	return !now.Before(*p.TokenExpiry)
}
