package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserAvatarURL(t *testing.T) {
	avatar := "a1b2c3"
	discriminator := "1337"

	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "custom avatar",
			user: User{DiscordID: "123", DiscordAvatar: &avatar},
			want: "https://cdn.discordapp.com/avatars/123/a1b2c3.png",
		},
		{
			name: "default avatar from discriminator",
			user: User{DiscordID: "123", DiscordDiscriminator: &discriminator},
			want: "https://cdn.discordapp.com/embed/avatars/2.png",
		},
		{
			name: "default avatar without discriminator",
			user: User{DiscordID: "123"},
			want: "https://cdn.discordapp.com/embed/avatars/0.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.AvatarURL())
		})
	}
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "nick", (&User{Username: "login", Nickname: "nick"}).DisplayName())
	assert.Equal(t, "login", (&User{Username: "login"}).DisplayName())
}

func TestUserIsOnline(t *testing.T) {
	recent := time.Now().Add(-time.Minute)
	stale := time.Now().Add(-10 * time.Minute)

	assert.False(t, (&User{}).IsOnline())
	assert.True(t, (&User{LastRequestAt: &recent}).IsOnline())
	assert.False(t, (&User{LastRequestAt: &stale}).IsOnline())
}

func TestDailyAlbumDateString(t *testing.T) {
	daily := DailyAlbum{Date: time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-07-04", daily.DateString())
}
