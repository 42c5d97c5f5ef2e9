package albumController

import (
	"context"
	"errors"
	"testing"

	. "aotd/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockAlbumRepository struct {
	mock.Mock
}

func (m *MockAlbumRepository) Create(ctx context.Context, tx *gorm.DB, album *Album) error {
	args := m.Called(ctx, tx, album)
	return args.Error(0)
}

func (m *MockAlbumRepository) GetByID(ctx context.Context, id uuid.UUID) (*Album, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Album), args.Error(1)
}

func (m *MockAlbumRepository) GetBySpotifyID(ctx context.Context, spotifyID string) (*Album, error) {
	args := m.Called(ctx, spotifyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Album), args.Error(1)
}

func (m *MockAlbumRepository) GetAll(ctx context.Context) ([]Album, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Album), args.Error(1)
}

func (m *MockAlbumRepository) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockAlbumRepository) GetRecent(ctx context.Context, count int) ([]Album, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Album), args.Error(1)
}

func (m *MockAlbumRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlbumRepository) CountBySubmitter(ctx context.Context) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockAlbumRepository) Delete(ctx context.Context, tx *gorm.DB, album *Album) error {
	args := m.Called(ctx, tx, album)
	return args.Error(0)
}

type MockUserActionRepository struct {
	mock.Mock
}

func (m *MockUserActionRepository) Record(ctx context.Context, tx *gorm.DB, action *UserAction) error {
	args := m.Called(ctx, tx, action)
	return args.Error(0)
}

func (m *MockUserActionRepository) GetForEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID) ([]UserAction, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]UserAction), args.Error(1)
}

func (m *MockUserActionRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]UserAction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]UserAction), args.Error(1)
}

// passthroughTransactor runs the transactional function directly, with no
// database underneath.
type passthroughTransactor struct{}

func (passthroughTransactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

func newAlbumController(albumRepo *MockAlbumRepository, userActionRepo *MockUserActionRepository) *AlbumController {
	return &AlbumController{
		albumRepo:      albumRepo,
		userActionRepo: userActionRepo,
		transaction:    passthroughTransactor{},
		log:            logger.New("albumController"),
	}
}

func TestDeleteAlbum_RefusedWithoutActor(t *testing.T) {
	albumRepo := &MockAlbumRepository{}
	userActionRepo := &MockUserActionRepository{}
	controller := newAlbumController(albumRepo, userActionRepo)

	err := controller.DeleteAlbum(context.Background(), nil, uuid.New(), "cleanup")
	assert.True(t, errors.Is(err, ErrMissingActor))

	// Refusal happens before any repository work: the album is untouched and
	// no audit row is written.
	albumRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	albumRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	userActionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteAlbum_ArchivesBeforeDeleting(t *testing.T) {
	albumRepo := &MockAlbumRepository{}
	userActionRepo := &MockUserActionRepository{}
	controller := newAlbumController(albumRepo, userActionRepo)

	deleter := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	album := &Album{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		SpotifyID:     "spotify-1",
		Title:         "Doolittle",
		Artist:        "Pixies",
	}

	var callOrder []string
	var recorded *UserAction

	albumRepo.On("GetByID", mock.Anything, album.ID).Return(album, nil)
	userActionRepo.On("Record", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			callOrder = append(callOrder, "record")
			recorded = args.Get(2).(*UserAction)
		}).
		Return(nil)
	albumRepo.On("Delete", mock.Anything, mock.Anything, album).
		Run(func(args mock.Arguments) {
			callOrder = append(callOrder, "delete")
		}).
		Return(nil)

	err := controller.DeleteAlbum(context.Background(), deleter, album.ID, "duplicate entry")
	assert.NoError(t, err)

	// The audit row carries the full album payload and lands before the row
	// is removed.
	assert.Equal(t, []string{"record", "delete"}, callOrder)
	require.NotNil(t, recorded)
	assert.Equal(t, ActionDelete, recorded.ActionType)
	assert.Equal(t, EntityAlbum, recorded.EntityType)
	assert.Equal(t, album.ID, recorded.EntityID)
	require.NotNil(t, recorded.UserID)
	assert.Equal(t, deleter.ID, *recorded.UserID)
	assert.Contains(t, string(recorded.Details), "duplicate entry")
	assert.Contains(t, string(recorded.Details), "Doolittle by Pixies")
	assert.Contains(t, string(recorded.Details), "spotify-1")

	albumRepo.AssertExpectations(t)
	userActionRepo.AssertExpectations(t)
}

func TestSubmitAlbum_DuplicateSpotifyID(t *testing.T) {
	albumRepo := &MockAlbumRepository{}
	userActionRepo := &MockUserActionRepository{}
	controller := newAlbumController(albumRepo, userActionRepo)

	submitter := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	existing := &Album{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, SpotifyID: "spotify-1"}

	albumRepo.On("GetBySpotifyID", mock.Anything, "spotify-1").Return(existing, nil)

	_, err := controller.SubmitAlbum(context.Background(), submitter, SubmitAlbumRequest{SpotifyAlbumID: "spotify-1"})
	assert.True(t, errors.Is(err, ErrConflict))

	albumRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	userActionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestAlbumExists(t *testing.T) {
	albumRepo := &MockAlbumRepository{}
	userActionRepo := &MockUserActionRepository{}
	controller := newAlbumController(albumRepo, userActionRepo)

	albumRepo.On("GetBySpotifyID", mock.Anything, "known").
		Return(&Album{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}, nil)
	albumRepo.On("GetBySpotifyID", mock.Anything, "unknown").Return(nil, ErrNotFound)

	exists, err := controller.AlbumExists(context.Background(), "known")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = controller.AlbumExists(context.Background(), "unknown")
	assert.NoError(t, err)
	assert.False(t, exists)
}
