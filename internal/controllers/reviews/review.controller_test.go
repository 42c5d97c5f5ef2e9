package reviewController

import (
	"context"
	"errors"
	"testing"
	"time"

	. "aotd/internal/models"
	"aotd/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryReviewRepo keeps one live review and its history in memory, enforcing
// the same uniqueness the composite index does. hideFromLookup makes
// GetByAlbumAndUser miss an existing row, which is what a submission sees when
// a concurrent first submission wins the insert race.
type memoryReviewRepo struct {
	live           *Review
	history        []ReviewHistory
	hideFromLookup bool
}

func (r *memoryReviewRepo) GetByAlbumAndUser(ctx context.Context, albumID, userID uuid.UUID) (*Review, error) {
	if r.hideFromLookup || r.live == nil || r.live.AlbumID != albumID || r.live.UserID != userID {
		return nil, ErrNotFound
	}
	return r.live, nil
}

func (r *memoryReviewRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, albumID, userID uuid.UUID) (*Review, error) {
	if r.live == nil || r.live.AlbumID != albumID || r.live.UserID != userID {
		return nil, ErrNotFound
	}
	return r.live, nil
}

func (r *memoryReviewRepo) Create(ctx context.Context, tx *gorm.DB, review *Review) error {
	if r.live != nil && r.live.AlbumID == review.AlbumID && r.live.UserID == review.UserID {
		return ErrConflict
	}
	review.ID = uuid.New()
	r.live = review
	return nil
}

func (r *memoryReviewRepo) Save(ctx context.Context, tx *gorm.DB, review *Review) error {
	r.live = review
	return nil
}

func (r *memoryReviewRepo) GetAllForAlbum(ctx context.Context, albumID uuid.UUID) ([]Review, error) {
	if r.live == nil || r.live.AlbumID != albumID {
		return []Review{}, nil
	}
	return []Review{*r.live}, nil
}

func (r *memoryReviewRepo) GetScoresForAlbum(ctx context.Context, albumID uuid.UUID) ([]float64, error) {
	if r.live == nil || r.live.AlbumID != albumID {
		return []float64{}, nil
	}
	return []float64{r.live.Score}, nil
}

func (r *memoryReviewRepo) CountForAlbum(ctx context.Context, albumID uuid.UUID) (int64, error) {
	if r.live == nil || r.live.AlbumID != albumID {
		return 0, nil
	}
	return 1, nil
}

func (r *memoryReviewRepo) GetAll(ctx context.Context) ([]Review, error) {
	if r.live == nil {
		return []Review{}, nil
	}
	return []Review{*r.live}, nil
}

func (r *memoryReviewRepo) CreateHistory(ctx context.Context, tx *gorm.DB, history *ReviewHistory) error {
	history.ID = uuid.New()
	r.history = append(r.history, *history)
	return nil
}

func (r *memoryReviewRepo) GetHistoryForReview(ctx context.Context, reviewID uuid.UUID) ([]ReviewHistory, error) {
	rows := make([]ReviewHistory, 0, len(r.history))
	for _, h := range r.history {
		if h.ReviewID == reviewID {
			rows = append(rows, h)
		}
	}
	return rows, nil
}

// memoryActionRepo collects audit rows.
type memoryActionRepo struct {
	actions []UserAction
}

func (r *memoryActionRepo) Record(ctx context.Context, tx *gorm.DB, action *UserAction) error {
	r.actions = append(r.actions, *action)
	return nil
}

func (r *memoryActionRepo) GetForEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID) ([]UserAction, error) {
	rows := make([]UserAction, 0, len(r.actions))
	for _, a := range r.actions {
		if a.EntityType == entityType && a.EntityID == entityID {
			rows = append(rows, a)
		}
	}
	return rows, nil
}

func (r *memoryActionRepo) GetForUser(ctx context.Context, userID uuid.UUID) ([]UserAction, error) {
	rows := make([]UserAction, 0, len(r.actions))
	for _, a := range r.actions {
		if a.UserID != nil && *a.UserID == userID {
			rows = append(rows, a)
		}
	}
	return rows, nil
}

// singleAlbumRepo serves one album by ID.
type singleAlbumRepo struct {
	album *Album
}

func (r *singleAlbumRepo) Create(ctx context.Context, tx *gorm.DB, album *Album) error { return nil }

func (r *singleAlbumRepo) GetByID(ctx context.Context, id uuid.UUID) (*Album, error) {
	if r.album == nil || r.album.ID != id {
		return nil, ErrNotFound
	}
	return r.album, nil
}

func (r *singleAlbumRepo) GetBySpotifyID(ctx context.Context, spotifyID string) (*Album, error) {
	return nil, ErrNotFound
}

func (r *singleAlbumRepo) GetAll(ctx context.Context) ([]Album, error) { return []Album{}, nil }

func (r *singleAlbumRepo) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	return []uuid.UUID{}, nil
}

func (r *singleAlbumRepo) GetRecent(ctx context.Context, count int) ([]Album, error) {
	return []Album{}, nil
}

func (r *singleAlbumRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (r *singleAlbumRepo) CountBySubmitter(ctx context.Context) (map[uuid.UUID]int64, error) {
	return map[uuid.UUID]int64{}, nil
}

func (r *singleAlbumRepo) Delete(ctx context.Context, tx *gorm.DB, album *Album) error { return nil }

// passthroughTransactor runs the transactional function directly, with no
// database underneath.
type passthroughTransactor struct{}

func (passthroughTransactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

type reviewFixture struct {
	controller *ReviewController
	reviewRepo *memoryReviewRepo
	actionRepo *memoryActionRepo
	reviewer   *User
	album      *Album
}

func newReviewFixture(t *testing.T, now time.Time) *reviewFixture {
	t.Helper()

	clock, err := utils.NewFixedClock("America/Chicago", now)
	require.NoError(t, err)

	reviewRepo := &memoryReviewRepo{}
	actionRepo := &memoryActionRepo{}
	album := &Album{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Title: "Doolittle", Artist: "Pixies"}

	controller := &ReviewController{
		reviewRepo:     reviewRepo,
		albumRepo:      &singleAlbumRepo{album: album},
		userActionRepo: actionRepo,
		transaction:    passthroughTransactor{},
		clock:          clock,
		log:            logger.New("reviewController"),
	}

	return &reviewFixture{
		controller: controller,
		reviewRepo: reviewRepo,
		actionRepo: actionRepo,
		reviewer:   &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}},
		album:      album,
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestSubmitReview_VersionsAcrossResubmissions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newReviewFixture(t, now)
	ctx := context.Background()

	scores := []float64{5, 7, 9}
	for _, score := range scores {
		_, err := f.controller.SubmitReview(ctx, f.reviewer, SubmitReviewRequest{
			AlbumID: f.album.ID,
			Score:   score,
		})
		require.NoError(t, err)
	}

	// Three submissions leave one live review at version 3 and two history
	// rows holding versions 1 and 2.
	live := f.reviewRepo.live
	require.NotNil(t, live)
	assert.Equal(t, 3, live.Version)
	assert.Equal(t, 9.0, live.Score)

	history, err := f.controller.GetReviewHistory(ctx, live.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Version)
	assert.Equal(t, 5.0, history[0].Score)
	assert.Equal(t, 2, history[1].Version)
	assert.Equal(t, 7.0, history[1].Score)

	// One CREATE audit row, then one UPDATE per resubmission.
	require.Len(t, f.actionRepo.actions, 3)
	assert.Equal(t, ActionCreate, f.actionRepo.actions[0].ActionType)
	assert.Equal(t, ActionUpdate, f.actionRepo.actions[1].ActionType)
	assert.Equal(t, ActionUpdate, f.actionRepo.actions[2].ActionType)
	assert.Contains(t, string(f.actionRepo.actions[1].Details), "old_review_score")
	assert.Contains(t, string(f.actionRepo.actions[2].Details), "reviewhistory_pk")
}

func TestSubmitReview_StampsSubmissionDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newReviewFixture(t, now)

	_, err := f.controller.SubmitReview(context.Background(), f.reviewer, SubmitReviewRequest{
		AlbumID: f.album.ID,
		Score:   8,
	})
	require.NoError(t, err)

	// The review carries the calendar date it was submitted on, regardless of
	// when the album was featured.
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, f.reviewRepo.live.AotdDate)
}

func TestSubmitReview_ResubmissionReplacesOptionalFields(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newReviewFixture(t, now)
	ctx := context.Background()

	_, err := f.controller.SubmitReview(ctx, f.reviewer, SubmitReviewRequest{
		AlbumID:     f.album.ID,
		Score:       6,
		ReviewText:  strPtr("great opener"),
		FirstListen: boolPtr(true),
	})
	require.NoError(t, err)

	// A resubmission without the optional fields clears them; first listen
	// goes back to its unknown state.
	_, err = f.controller.SubmitReview(ctx, f.reviewer, SubmitReviewRequest{
		AlbumID: f.album.ID,
		Score:   7,
	})
	require.NoError(t, err)

	assert.Nil(t, f.reviewRepo.live.ReviewText)
	assert.Nil(t, f.reviewRepo.live.FirstListen)

	// The snapshot keeps the values the live row lost.
	require.Len(t, f.reviewRepo.history, 1)
	require.NotNil(t, f.reviewRepo.history[0].ReviewText)
	assert.Equal(t, "great opener", *f.reviewRepo.history[0].ReviewText)
	require.NotNil(t, f.reviewRepo.history[0].FirstListen)
	assert.True(t, *f.reviewRepo.history[0].FirstListen)
}

func TestSubmitReview_ScoreOutOfRange(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newReviewFixture(t, now)

	_, err := f.controller.SubmitReview(context.Background(), f.reviewer, SubmitReviewRequest{
		AlbumID: f.album.ID,
		Score:   10.5,
	})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Nil(t, f.reviewRepo.live)
	assert.Empty(t, f.actionRepo.actions)
}

func TestSubmitReview_LostCreationRaceRetriesAsUpdate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newReviewFixture(t, now)
	ctx := context.Background()

	// The winner's row exists but the loser's existence check missed it.
	winner := &Review{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		AlbumID:       f.album.ID,
		UserID:        f.reviewer.ID,
		Score:         4,
		AotdDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Version:       1,
	}
	f.reviewRepo.live = winner
	f.reviewRepo.hideFromLookup = true

	review, err := f.controller.SubmitReview(ctx, f.reviewer, SubmitReviewRequest{
		AlbumID: f.album.ID,
		Score:   8,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, review.Version)
	assert.Equal(t, 8.0, review.Score)
	require.Len(t, f.reviewRepo.history, 1)
	assert.Equal(t, 1, f.reviewRepo.history[0].Version)
	assert.Equal(t, 4.0, f.reviewRepo.history[0].Score)
}
