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

type ReviewRepository interface {
	GetByAlbumAndUser(ctx context.Context, albumID, userID uuid.UUID) (*Review, error)
	// GetForUpdate locks the live review row for the duration of the enclosing
	// transaction, serializing concurrent resubmissions for the same pair.
	GetForUpdate(ctx context.Context, tx *gorm.DB, albumID, userID uuid.UUID) (*Review, error)
	Create(ctx context.Context, tx *gorm.DB, review *Review) error
	Save(ctx context.Context, tx *gorm.DB, review *Review) error
	GetAllForAlbum(ctx context.Context, albumID uuid.UUID) ([]Review, error)
	GetScoresForAlbum(ctx context.Context, albumID uuid.UUID) ([]float64, error)
	CountForAlbum(ctx context.Context, albumID uuid.UUID) (int64, error)
	GetAll(ctx context.Context) ([]Review, error)
	CreateHistory(ctx context.Context, tx *gorm.DB, history *ReviewHistory) error
	GetHistoryForReview(ctx context.Context, reviewID uuid.UUID) ([]ReviewHistory, error)
}

type reviewRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReviewRepository(db database.DB) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: logger.New("reviewRepository"),
	}
}

func (r *reviewRepository) GetByAlbumAndUser(ctx context.Context, albumID, userID uuid.UUID) (*Review, error) {
	log := r.log.Function("GetByAlbumAndUser")

	var review Review
	if err := r.db.SQLWithContext(ctx).
		First(&review, "album_id = ? AND user_id = ?", albumID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get review", err, "albumID", albumID, "userID", userID)
	}

	return &review, nil
}

func (r *reviewRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, albumID, userID uuid.UUID) (*Review, error) {
	log := r.log.Function("GetForUpdate")

	var review Review
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&review, "album_id = ? AND user_id = ?", albumID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to lock review", err, "albumID", albumID, "userID", userID)
	}

	return &review, nil
}

// Create inserts the first review for an (album, user) pair. The composite
// unique index rejects a concurrent duplicate; the loser sees ErrConflict and
// retries as an update.
func (r *reviewRepository) Create(ctx context.Context, tx *gorm.DB, review *Review) error {
	log := r.log.Function("Create")

	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "album_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(review)
	if result.Error != nil {
		return log.Err("failed to create review", result.Error, "albumID", review.AlbumID, "userID", review.UserID)
	}

	if result.RowsAffected == 0 {
		return ErrConflict
	}

	return nil
}

func (r *reviewRepository) Save(ctx context.Context, tx *gorm.DB, review *Review) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Save(review).Error; err != nil {
		return log.Err("failed to save review", err, "reviewID", review.ID)
	}

	return nil
}

func (r *reviewRepository) GetAllForAlbum(ctx context.Context, albumID uuid.UUID) ([]Review, error) {
	log := r.log.Function("GetAllForAlbum")

	var reviews []Review
	if err := r.db.SQLWithContext(ctx).
		Preload("User").
		Where("album_id = ?", albumID).
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, log.Err("failed to get reviews for album", err, "albumID", albumID)
	}

	return reviews, nil
}

func (r *reviewRepository) GetScoresForAlbum(ctx context.Context, albumID uuid.UUID) ([]float64, error) {
	log := r.log.Function("GetScoresForAlbum")

	var scores []float64
	if err := r.db.SQLWithContext(ctx).
		Model(&Review{}).
		Where("album_id = ?", albumID).
		Pluck("score", &scores).Error; err != nil {
		return nil, log.Err("failed to get scores for album", err, "albumID", albumID)
	}

	return scores, nil
}

func (r *reviewRepository) CountForAlbum(ctx context.Context, albumID uuid.UUID) (int64, error) {
	log := r.log.Function("CountForAlbum")

	var count int64
	if err := r.db.SQLWithContext(ctx).
		Model(&Review{}).
		Where("album_id = ?", albumID).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count reviews for album", err, "albumID", albumID)
	}

	return count, nil
}

func (r *reviewRepository) GetAll(ctx context.Context) ([]Review, error) {
	log := r.log.Function("GetAll")

	var reviews []Review
	if err := r.db.SQLWithContext(ctx).
		Preload("User").
		Preload("Album").
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, log.Err("failed to get all reviews", err)
	}

	return reviews, nil
}

func (r *reviewRepository) CreateHistory(ctx context.Context, tx *gorm.DB, history *ReviewHistory) error {
	log := r.log.Function("CreateHistory")

	if err := tx.WithContext(ctx).Create(history).Error; err != nil {
		return log.Err("failed to create review history", err, "reviewID", history.ReviewID)
	}

	return nil
}

func (r *reviewRepository) GetHistoryForReview(ctx context.Context, reviewID uuid.UUID) ([]ReviewHistory, error) {
	log := r.log.Function("GetHistoryForReview")

	var history []ReviewHistory
	if err := r.db.SQLWithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("recorded_at ASC").
		Find(&history).Error; err != nil {
		return nil, log.Err("failed to get review history", err, "reviewID", reviewID)
	}

	return history, nil
}
