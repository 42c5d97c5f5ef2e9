package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewSnapshot(t *testing.T) {
	text := "early impressions"
	firstListen := true
	aotdDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	review := Review{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		AlbumID:       uuid.New(),
		UserID:        uuid.New(),
		Score:         6.5,
		ReviewText:    &text,
		FirstListen:   &firstListen,
		AotdDate:      aotdDate,
		Version:       3,
	}

	snapshot := review.Snapshot()
	require.NotNil(t, snapshot)

	assert.Equal(t, review.ID, snapshot.ReviewID)
	assert.Equal(t, review.Score, snapshot.Score)
	assert.Equal(t, review.ReviewText, snapshot.ReviewText)
	assert.Equal(t, review.FirstListen, snapshot.FirstListen)
	assert.Equal(t, review.AotdDate, snapshot.AotdDate)
	assert.Equal(t, review.Version, snapshot.Version)
	assert.WithinDuration(t, time.Now(), snapshot.RecordedAt, time.Second)
}

func TestReviewSnapshot_IndependentOfLaterEdits(t *testing.T) {
	review := Review{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		Score:         4,
		Version:       1,
	}

	snapshot := review.Snapshot()

	review.Score = 9
	review.Version = 2

	assert.Equal(t, 4.0, snapshot.Score)
	assert.Equal(t, 1, snapshot.Version)
}

func TestReviewSnapshot_NilOptionalFields(t *testing.T) {
	review := Review{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		Score:         8,
		Version:       1,
	}

	snapshot := review.Snapshot()

	assert.Nil(t, snapshot.ReviewText)
	assert.Nil(t, snapshot.FirstListen)
}
