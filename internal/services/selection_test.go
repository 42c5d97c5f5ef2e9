package services

import (
	"context"
	"errors"
	"testing"
	"time"

	. "aotd/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestEligibleAlbumIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()
	d := uuid.New()

	tests := []struct {
		name             string
		pool             []uuid.UUID
		recentlyFeatured []uuid.UUID
		want             []uuid.UUID
	}{
		{
			name:             "nothing featured, whole pool eligible",
			pool:             []uuid.UUID{a, b, c},
			recentlyFeatured: nil,
			want:             []uuid.UUID{a, b, c},
		},
		{
			name:             "featured albums excluded, pool order preserved",
			pool:             []uuid.UUID{a, b, c, d},
			recentlyFeatured: []uuid.UUID{b, d},
			want:             []uuid.UUID{a, c},
		},
		{
			name:             "single album already featured exhausts the pool",
			pool:             []uuid.UUID{a},
			recentlyFeatured: []uuid.UUID{a},
			want:             []uuid.UUID{},
		},
		{
			name:             "featured album not in pool is ignored",
			pool:             []uuid.UUID{a, b},
			recentlyFeatured: []uuid.UUID{c},
			want:             []uuid.UUID{a, b},
		},
		{
			name:             "empty pool",
			pool:             nil,
			recentlyFeatured: []uuid.UUID{a},
			want:             []uuid.UUID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eligibleAlbumIDs(tt.pool, tt.recentlyFeatured)
			assert.Equal(t, tt.want, got)
		})
	}
}

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

type MockDailyAlbumRepository struct {
	mock.Mock
}

func (m *MockDailyAlbumRepository) GetByDate(ctx context.Context, date time.Time) (*DailyAlbum, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DailyAlbum), args.Error(1)
}

func (m *MockDailyAlbumRepository) GetAll(ctx context.Context) ([]DailyAlbum, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DailyAlbum), args.Error(1)
}

func (m *MockDailyAlbumRepository) GetAlbumIDsSelectedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockDailyAlbumRepository) Create(ctx context.Context, tx *gorm.DB, daily *DailyAlbum) error {
	args := m.Called(ctx, tx, daily)
	return args.Error(0)
}

func (m *MockDailyAlbumRepository) Upsert(ctx context.Context, tx *gorm.DB, daily *DailyAlbum) error {
	args := m.Called(ctx, tx, daily)
	return args.Error(0)
}

// passthroughTransactor runs the transactional function directly, with no
// database underneath.
type passthroughTransactor struct{}

func (passthroughTransactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

func newSelectionService(albumRepo *MockAlbumRepository, dailyRepo *MockDailyAlbumRepository) *SelectionService {
	return &SelectionService{
		albumRepo:    albumRepo,
		dailyRepo:    dailyRepo,
		transaction:  passthroughTransactor{},
		lookbackDays: 365,
		intN:         func(n int) int { return 0 },
		log:          logger.New("selectionService"),
	}
}

func TestSelectDailyAlbum_AlreadySelected(t *testing.T) {
	albumRepo := &MockAlbumRepository{}
	dailyRepo := &MockDailyAlbumRepository{}
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	dailyRepo.On("GetByDate", mock.Anything, date).Return(&DailyAlbum{AlbumID: uuid.New(), Date: date}, nil)

	service := newSelectionService(albumRepo, dailyRepo)

	_, err := service.SelectDailyAlbum(context.Background(), date)
	assert.True(t, errors.Is(err, ErrAlreadySelected))

	albumRepo.AssertNotCalled(t, "GetAllIDs", mock.Anything)
	dailyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectDailyAlbum_PoolExhausted(t *testing.T) {
	albumRepo := &MockAlbumRepository{}
	dailyRepo := &MockDailyAlbumRepository{}
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	only := uuid.New()

	// A catalog of one album featured inside the lookback window leaves
	// nothing to draw from.
	dailyRepo.On("GetByDate", mock.Anything, date).Return(nil, ErrNotFound)
	albumRepo.On("GetAllIDs", mock.Anything).Return([]uuid.UUID{only}, nil)
	dailyRepo.On("GetAlbumIDsSelectedSince", mock.Anything, mock.Anything).Return([]uuid.UUID{only}, nil)

	service := newSelectionService(albumRepo, dailyRepo)

	_, err := service.SelectDailyAlbum(context.Background(), date)
	assert.True(t, errors.Is(err, ErrNoEligibleAlbum))

	dailyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectDailyAlbum_PicksFromEligibleSet(t *testing.T) {
	albumRepo := &MockAlbumRepository{}
	dailyRepo := &MockDailyAlbumRepository{}
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	featured := uuid.New()
	fresh := uuid.New()

	dailyRepo.On("GetByDate", mock.Anything, date).Return(nil, ErrNotFound)
	albumRepo.On("GetAllIDs", mock.Anything).Return([]uuid.UUID{featured, fresh}, nil)
	dailyRepo.On("GetAlbumIDsSelectedSince", mock.Anything, mock.Anything).Return([]uuid.UUID{featured}, nil)
	dailyRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := newSelectionService(albumRepo, dailyRepo)

	daily, err := service.SelectDailyAlbum(context.Background(), date)
	assert.NoError(t, err)
	assert.Equal(t, fresh, daily.AlbumID)
	assert.Equal(t, date, daily.Date)
	assert.False(t, daily.Manual)

	dailyRepo.AssertExpectations(t)
}

func TestSelectDailyAlbum_LostInsertRace(t *testing.T) {
	albumRepo := &MockAlbumRepository{}
	dailyRepo := &MockDailyAlbumRepository{}
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	dailyRepo.On("GetByDate", mock.Anything, date).Return(nil, ErrNotFound)
	albumRepo.On("GetAllIDs", mock.Anything).Return([]uuid.UUID{uuid.New()}, nil)
	dailyRepo.On("GetAlbumIDsSelectedSince", mock.Anything, mock.Anything).Return([]uuid.UUID{}, nil)
	dailyRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(ErrAlreadySelected)

	service := newSelectionService(albumRepo, dailyRepo)

	_, err := service.SelectDailyAlbum(context.Background(), date)
	assert.True(t, errors.Is(err, ErrAlreadySelected))
}

func TestEligibleAlbumIDs_FeaturedDuplicates(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	// The same album featured on several recent dates only excludes it once.
	got := eligibleAlbumIDs([]uuid.UUID{a, b}, []uuid.UUID{a, a, a})
	assert.Equal(t, []uuid.UUID{b}, got)
}
