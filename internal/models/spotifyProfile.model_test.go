package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpotifyProfileTokenExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	token := "token"
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name    string
		profile SpotifyProfile
		want    bool
	}{
		{name: "no token", profile: SpotifyProfile{}, want: true},
		{name: "no expiry", profile: SpotifyProfile{AccessToken: &token}, want: true},
		{name: "valid token", profile: SpotifyProfile{AccessToken: &token, TokenExpiry: &future}, want: false},
		{name: "expired token", profile: SpotifyProfile{AccessToken: &token, TokenExpiry: &past}, want: true},
		{name: "expires exactly now", profile: SpotifyProfile{AccessToken: &token, TokenExpiry: &now}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.TokenExpired(now))
		})
	}
}
