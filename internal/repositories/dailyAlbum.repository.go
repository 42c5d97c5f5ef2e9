package repositories

import (
	"context"
	"errors"
	"time"

	"aotd/internal/database"
	. "aotd/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	AOTD_CACHE_PREFIX = "aotd"
	AOTD_CACHE_EXPIRY = time.Hour
)

type DailyAlbumRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*DailyAlbum, error)
	GetAll(ctx context.Context) ([]DailyAlbum, error)
	GetAlbumIDsSelectedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error)
	Create(ctx context.Context, tx *gorm.DB, daily *DailyAlbum) error
	Upsert(ctx context.Context, tx *gorm.DB, daily *DailyAlbum) error
}

type dailyAlbumRepository struct {
	db  database.DB
	log logger.Logger
}

func NewDailyAlbumRepository(db database.DB) DailyAlbumRepository {
	return &dailyAlbumRepository{
		db:  db,
		log: logger.New("dailyAlbumRepository"),
	}
}

func (r *dailyAlbumRepository) GetByDate(ctx context.Context, date time.Time) (*DailyAlbum, error) {
	log := r.log.Function("GetByDate")
	cacheKey := date.Format(CalendarDateFormat)

	var cached *DailyAlbum
	found, err := database.NewCacheBuilder(r.db.Cache.Aotd, cacheKey).
		WithContext(ctx).
		WithHash(AOTD_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get daily album from cache", "date", cacheKey, "error", err)
	}
	if found && cached != nil {
		return cached, nil
	}

	var daily DailyAlbum
	if err := r.db.SQLWithContext(ctx).
		Preload("Album").
		Preload("Album.SubmittedBy").
		First(&daily, "date = ?", date).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get daily album by date", err, "date", cacheKey)
	}

	if err := database.NewCacheBuilder(r.db.Cache.Aotd, cacheKey).
		WithContext(ctx).
		WithHash(AOTD_CACHE_PREFIX).
		WithStruct(&daily).
		WithTTL(AOTD_CACHE_EXPIRY).
		Set(); err != nil {
		log.Warn("failed to cache daily album", "date", cacheKey, "error", err)
	}

	return &daily, nil
}

// GetAll returns every selection, date ascending. The pinned ordering makes
// downstream tie-breaks (earliest featured date wins) deterministic.
func (r *dailyAlbumRepository) GetAll(ctx context.Context) ([]DailyAlbum, error) {
	log := r.log.Function("GetAll")

	var dailies []DailyAlbum
	if err := r.db.SQLWithContext(ctx).
		Preload("Album").
		Order("date ASC").
		Find(&dailies).Error; err != nil {
		return nil, log.Err("failed to get all daily albums", err)
	}

	return dailies, nil
}

func (r *dailyAlbumRepository) GetAlbumIDsSelectedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	log := r.log.Function("GetAlbumIDsSelectedSince")

	var ids []uuid.UUID
	if err := r.db.SQLWithContext(ctx).
		Model(&DailyAlbum{}).
		Where("date >= ?", since).
		Pluck("album_id", &ids).Error; err != nil {
		return nil, log.Err("failed to get recently selected album ids", err, "since", since)
	}

	return ids, nil
}

// Create inserts a selection for a date not yet taken. The unique index on
// date decides concurrent selection races: the loser's insert affects zero
// rows and maps to ErrAlreadySelected, never a duplicate.
func (r *dailyAlbumRepository) Create(ctx context.Context, tx *gorm.DB, daily *DailyAlbum) error {
	log := r.log.Function("Create")

	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoNothing: true,
		}).
		Create(daily)
	if result.Error != nil {
		return log.Err("failed to create daily album", result.Error, "date", daily.DateString())
	}

	if result.RowsAffected == 0 {
		return ErrAlreadySelected
	}

	r.invalidateDate(ctx, daily.Date)
	return nil
}

// Upsert is the administrative override: it replaces any existing selection
// for the date. Last write wins, no eligibility re-check.
func (r *dailyAlbumRepository) Upsert(ctx context.Context, tx *gorm.DB, daily *DailyAlbum) error {
	log := r.log.Function("Upsert")

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"album_id", "manual", "updated_at"}),
		}).
		Create(daily).Error; err != nil {
		return log.Err("failed to upsert daily album", err, "date", daily.DateString())
	}

	r.invalidateDate(ctx, daily.Date)
	return nil
}

func (r *dailyAlbumRepository) invalidateDate(ctx context.Context, date time.Time) {
	cacheKey := date.Format(CalendarDateFormat)
	if err := database.NewCacheBuilder(r.db.Cache.Aotd, cacheKey).
		WithContext(ctx).
		WithHash(AOTD_CACHE_PREFIX).
		Delete(); err != nil {
		r.log.Warn("failed to invalidate daily album cache", "date", cacheKey, "error", err)
	}
}
