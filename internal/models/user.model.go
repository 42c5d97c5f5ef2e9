package models

import (
	"fmt"
	"strconv"
	"time"
)

type User struct {
	BaseUUIDModel
	// Discord identity
	DiscordID            string  `gorm:"type:text;uniqueIndex;not null" json:"discordId"`
	Username             string  `gorm:"type:text;not null"             json:"username"`
	Nickname             string  `gorm:"type:text"                      json:"nickname"`
	DiscordDiscriminator *string `gorm:"type:varchar(4)"                json:"discordDiscriminator,omitempty"`
	DiscordAvatar        *string `gorm:"type:text"                      json:"-"`
	DiscordVerified      bool    `gorm:"type:bool;default:false"        json:"discordVerified"`

	Email            *string    `gorm:"type:text"               json:"email,omitempty"`
	IsAdmin          bool       `gorm:"type:bool;default:false" json:"isAdmin"`
	IsActive         bool       `gorm:"type:bool;default:true"  json:"isActive"`
	SpotifyConnected bool       `gorm:"type:bool;default:false" json:"spotifyConnected"`
	LastRequestAt    *time.Time `gorm:"type:timestamp"          json:"lastRequestAt,omitempty"`
}

// AvatarURL builds the Discord CDN avatar URL, falling back to one of the five
// default embed avatars when the user has no custom avatar.
func (u *User) AvatarURL() string {
	if u.DiscordAvatar != nil && *u.DiscordAvatar != "" {
		return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", u.DiscordID, *u.DiscordAvatar)
	}

	index := 0
	if u.DiscordDiscriminator != nil {
		if disc, err := strconv.Atoi(*u.DiscordDiscriminator); err == nil {
			index = disc % 5
		}
	}
	return fmt.Sprintf("https://cdn.discordapp.com/embed/avatars/%d.png", index)
}

// IsOnline reports whether the user has made a request within the last five minutes.
func (u *User) IsOnline() bool {
	if u.LastRequestAt == nil {
		return false
	}
	return time.Since(*u.LastRequestAt) < 5*time.Minute
}

// DisplayName prefers the server nickname over the Discord username.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// UserProfile is the public view of a user returned by the API.
type UserProfile struct {
	ID               string     `json:"id"`
	DiscordID        string     `json:"discordId"`
	Username         string     `json:"username"`
	Nickname         string     `json:"nickname"`
	AvatarURL        string     `json:"avatarUrl"`
	IsAdmin          bool       `json:"isAdmin"`
	SpotifyConnected bool       `json:"spotifyConnected"`
	LastRequestAt    *time.Time `json:"lastRequestAt,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:               u.ID.String(),
		DiscordID:        u.DiscordID,
		Username:         u.Username,
		Nickname:         u.Nickname,
		AvatarURL:        u.AvatarURL(),
		IsAdmin:          u.IsAdmin,
		SpotifyConnected: u.SpotifyConnected,
		LastRequestAt:    u.LastRequestAt,
	}
}
