package repositories

import (
	"context"
	"errors"

	"aotd/internal/database"
	. "aotd/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlbumRepository interface {
	Create(ctx context.Context, tx *gorm.DB, album *Album) error
	GetByID(ctx context.Context, id uuid.UUID) (*Album, error)
	GetBySpotifyID(ctx context.Context, spotifyID string) (*Album, error)
	GetAll(ctx context.Context) ([]Album, error)
	GetAllIDs(ctx context.Context) ([]uuid.UUID, error)
	GetRecent(ctx context.Context, count int) ([]Album, error)
	Count(ctx context.Context) (int64, error)
	CountBySubmitter(ctx context.Context) (map[uuid.UUID]int64, error)
	Delete(ctx context.Context, tx *gorm.DB, album *Album) error
}

type albumRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAlbumRepository(db database.DB) AlbumRepository {
	return &albumRepository{
		db:  db,
		log: logger.New("albumRepository"),
	}
}

// Create inserts a new album. The unique index on spotify_id rejects duplicate
// submissions; a conflicting insert surfaces as ErrConflict rather than a row.
func (r *albumRepository) Create(ctx context.Context, tx *gorm.DB, album *Album) error {
	log := r.log.Function("Create")

	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "spotify_id"}},
			DoNothing: true,
		}).
		Create(album)
	if result.Error != nil {
		return log.Err("failed to create album", result.Error, "spotifyID", album.SpotifyID)
	}

	if result.RowsAffected == 0 {
		return ErrConflict
	}

	return nil
}

func (r *albumRepository) GetByID(ctx context.Context, id uuid.UUID) (*Album, error) {
	log := r.log.Function("GetByID")

	var album Album
	if err := r.db.SQLWithContext(ctx).Preload("SubmittedBy").First(&album, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get album by id", err, "id", id)
	}

	return &album, nil
}

func (r *albumRepository) GetBySpotifyID(ctx context.Context, spotifyID string) (*Album, error) {
	log := r.log.Function("GetBySpotifyID")

	var album Album
	if err := r.db.SQLWithContext(ctx).Preload("SubmittedBy").First(&album, "spotify_id = ?", spotifyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get album by spotify id", err, "spotifyID", spotifyID)
	}

	return &album, nil
}

func (r *albumRepository) GetAll(ctx context.Context) ([]Album, error) {
	log := r.log.Function("GetAll")

	var albums []Album
	if err := r.db.SQLWithContext(ctx).Preload("SubmittedBy").Order("submitted_at ASC").Find(&albums).Error; err != nil {
		return nil, log.Err("failed to get all albums", err)
	}

	return albums, nil
}

func (r *albumRepository) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	log := r.log.Function("GetAllIDs")

	var ids []uuid.UUID
	if err := r.db.SQLWithContext(ctx).Model(&Album{}).Pluck("id", &ids).Error; err != nil {
		return nil, log.Err("failed to get album ids", err)
	}

	return ids, nil
}

func (r *albumRepository) GetRecent(ctx context.Context, count int) ([]Album, error) {
	log := r.log.Function("GetRecent")

	var albums []Album
	if err := r.db.SQLWithContext(ctx).
		Preload("SubmittedBy").
		Order("submitted_at DESC").
		Limit(count).
		Find(&albums).Error; err != nil {
		return nil, log.Err("failed to get recent albums", err, "count", count)
	}

	return albums, nil
}

func (r *albumRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.db.SQLWithContext(ctx).Model(&Album{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count albums", err)
	}

	return count, nil
}

func (r *albumRepository) CountBySubmitter(ctx context.Context) (map[uuid.UUID]int64, error) {
	log := r.log.Function("CountBySubmitter")

	var rows []struct {
		SubmittedByID uuid.UUID
		Count         int64
	}
	if err := r.db.SQLWithContext(ctx).
		Model(&Album{}).
		Select("submitted_by_id, count(*) as count").
		Where("submitted_by_id IS NOT NULL").
		Group("submitted_by_id").
		Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to count albums by submitter", err)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.SubmittedByID] = row.Count
	}

	return counts, nil
}

func (r *albumRepository) Delete(ctx context.Context, tx *gorm.DB, album *Album) error {
	log := r.log.Function("Delete")

	if err := tx.WithContext(ctx).Delete(album).Error; err != nil {
		return log.Err("failed to delete album", err, "albumID", album.ID)
	}

	return nil
}
