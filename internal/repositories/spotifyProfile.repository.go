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

type SpotifyProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*SpotifyProfile, error)
	GetAll(ctx context.Context) ([]SpotifyProfile, error)
	Upsert(ctx context.Context, profile *SpotifyProfile) error
	UpdateTokens(ctx context.Context, userID uuid.UUID, accessToken string, expiry time.Time) error
}

type spotifyProfileRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSpotifyProfileRepository(db database.DB) SpotifyProfileRepository {
	return &spotifyProfileRepository{
		db:  db,
		log: logger.New("spotifyProfileRepository"),
	}
}

func (r *spotifyProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*SpotifyProfile, error) {
	log := r.log.Function("GetByUserID")

	var profile SpotifyProfile
	if err := r.db.SQLWithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get spotify profile", err, "userID", userID)
	}

	return &profile, nil
}

func (r *spotifyProfileRepository) GetAll(ctx context.Context) ([]SpotifyProfile, error) {
	log := r.log.Function("GetAll")

	var profiles []SpotifyProfile
	if err := r.db.SQLWithContext(ctx).Preload("User").Find(&profiles).Error; err != nil {
		return nil, log.Err("failed to get all spotify profiles", err)
	}

	return profiles, nil
}

func (r *spotifyProfileRepository) Upsert(ctx context.Context, profile *SpotifyProfile) error {
	log := r.log.Function("Upsert")

	if err := r.db.SQLWithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"spotify_id", "display_name", "email", "country", "spotify_url",
				"follower_count", "avatar_url", "membership_type",
				"access_token", "refresh_token", "token_type", "token_scope", "token_expiry",
				"updated_at",
			}),
		}).
		Create(profile).Error; err != nil {
		return log.Err("failed to upsert spotify profile", err, "userID", profile.UserID)
	}

	return nil
}

func (r *spotifyProfileRepository) UpdateTokens(ctx context.Context, userID uuid.UUID, accessToken string, expiry time.Time) error {
	log := r.log.Function("UpdateTokens")

	if err := r.db.SQLWithContext(ctx).
		Model(&SpotifyProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"access_token": accessToken,
			"token_expiry": expiry,
		}).Error; err != nil {
		return log.Err("failed to update spotify tokens", err, "userID", userID)
	}

	return nil
}
