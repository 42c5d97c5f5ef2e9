package services

import (
	"testing"
	"time"

	. "aotd/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   *float64
	}{
		{
			name:   "no reviews means no rating",
			scores: nil,
			want:   nil,
		},
		{
			name:   "single review",
			scores: []float64{7},
			want:   floatPtr(7),
		},
		{
			name:   "several reviews",
			scores: []float64{8, 6, 10},
			want:   floatPtr(8),
		},
		{
			name:   "all zero scores still counts as rated",
			scores: []float64{0, 0},
			want:   floatPtr(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := average(tt.scores)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{name: "no rounding needed", value: 8.0, want: 8.0},
		{name: "rounds down", value: 7.04, want: 7.0},
		{name: "rounds half up", value: 7.25, want: 7.3},
		{name: "repeating third", value: 22.0 / 3.0, want: 7.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, roundScore(tt.value), 1e-9)
		})
	}
}

func TestExtremes(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2024, 1, 1+offset, 0, 0, 0, 0, time.UTC)
	}

	entries := []AlbumRating{
		{Date: day(0), Rating: 6.5, ReviewCount: 5},
		{Date: day(1), Rating: 9.0, ReviewCount: 2},
		{Date: day(2), Rating: 3.0, ReviewCount: 3},
		{Date: day(3), Rating: 8.0, ReviewCount: 4},
	}

	t.Run("without minimum gate the outliers win", func(t *testing.T) {
		lowest, highest := extremes(entries, 4, false)
		require.NotNil(t, lowest)
		require.NotNil(t, highest)
		assert.Equal(t, 3.0, lowest.Rating)
		assert.Equal(t, 9.0, highest.Rating)
	})

	t.Run("minimum review gate excludes thin ratings", func(t *testing.T) {
		lowest, highest := extremes(entries, 4, true)
		require.NotNil(t, lowest)
		require.NotNil(t, highest)
		assert.Equal(t, 6.5, lowest.Rating)
		assert.Equal(t, 8.0, highest.Rating)
	})

	t.Run("ties resolve to the earliest featured date", func(t *testing.T) {
		tied := []AlbumRating{
			{Date: day(0), Rating: 7.0, ReviewCount: 5},
			{Date: day(1), Rating: 7.0, ReviewCount: 5},
		}
		lowest, highest := extremes(tied, 0, false)
		require.NotNil(t, lowest)
		require.NotNil(t, highest)
		assert.Equal(t, day(0), lowest.Date)
		assert.Equal(t, day(0), highest.Date)
	})

	t.Run("no qualifying entries", func(t *testing.T) {
		lowest, highest := extremes([]AlbumRating{{Rating: 5, ReviewCount: 1}}, 4, true)
		assert.Nil(t, lowest)
		assert.Nil(t, highest)
	})

	t.Run("empty input", func(t *testing.T) {
		lowest, highest := extremes(nil, 0, false)
		assert.Nil(t, lowest)
		assert.Nil(t, highest)
	})
}

func TestAggregateUserStats(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	album1 := uuid.New()
	album2 := uuid.New()
	album3 := uuid.New()

	reviews := []Review{
		reviewFor(userA, "alice", album1, 8),
		reviewFor(userA, "alice", album2, 4),
		reviewFor(userA, "alice", album3, 9),
		reviewFor(userB, "bob", album1, 6),
	}

	stats := aggregateUserStats(reviews)
	require.Len(t, stats, 2)

	alice := stats[0]
	assert.Equal(t, userA, alice.UserID)
	assert.Equal(t, "alice", alice.Nickname)
	assert.Equal(t, 3, alice.TotalReviews)
	assert.InDelta(t, 7.0, alice.AverageScore, 1e-9)
	require.NotNil(t, alice.LowestScore)
	assert.Equal(t, 4.0, *alice.LowestScore)
	assert.Equal(t, album2, *alice.LowestAlbum)
	require.NotNil(t, alice.HighestScore)
	assert.Equal(t, 9.0, *alice.HighestScore)
	assert.Equal(t, album3, *alice.HighestAlbum)

	bob := stats[1]
	assert.Equal(t, 1, bob.TotalReviews)
	assert.InDelta(t, 6.0, bob.AverageScore, 1e-9)
	assert.Equal(t, 6.0, *bob.LowestScore)
	assert.Equal(t, 6.0, *bob.HighestScore)
}

func TestAggregateUserStats_Empty(t *testing.T) {
	assert.Empty(t, aggregateUserStats(nil))
}

func reviewFor(userID uuid.UUID, nickname string, albumID uuid.UUID, score float64) Review {
	return Review{
		UserID:  userID,
		AlbumID: albumID,
		Score:   score,
		User:    User{Nickname: nickname},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
