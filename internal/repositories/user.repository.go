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
)

const (
	USER_CACHE_EXPIRY       = 7 * 24 * time.Hour
	USER_CACHE_PREFIX       = "user:"
	DISCORD_MAPPING_PREFIX  = "discord:"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*User, error)
	GetAll(ctx context.Context) ([]User, error)
	FindOrCreateByDiscord(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) error
	TouchLastRequest(ctx context.Context, userID uuid.UUID) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if found := r.getCache(ctx, USER_CACHE_PREFIX+id.String(), &user); found {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get user by id", err, "id", id)
	}

	r.addToCache(ctx, &user)
	return &user, nil
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*User, error) {
	log := r.log.Function("GetByDiscordID")

	var user User
	if found := r.getCache(ctx, DISCORD_MAPPING_PREFIX+discordID, &user); found {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&user, "discord_id = ?", discordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get user by discord id", err, "discordID", discordID)
	}

	r.addToCache(ctx, &user)
	return &user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]User, error) {
	log := r.log.Function("GetAll")

	var users []User
	if err := r.db.SQLWithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, log.Err("failed to get all users", err)
	}

	return users, nil
}

// FindOrCreateByDiscord resolves a Discord identity to a local user, creating
// one on first login and refreshing profile fields on every subsequent login.
func (r *userRepository) FindOrCreateByDiscord(ctx context.Context, user *User) (*User, error) {
	log := r.log.Function("FindOrCreateByDiscord")

	existing, err := r.GetByDiscordID(ctx, user.DiscordID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
			return nil, log.Err("failed to create user", err, "discordID", user.DiscordID)
		}
		log.Info("created user from discord identity", "discordID", user.DiscordID)
		return user, nil
	}

	existing.Username = user.Username
	existing.DiscordDiscriminator = user.DiscordDiscriminator
	existing.DiscordAvatar = user.DiscordAvatar
	existing.DiscordVerified = user.DiscordVerified
	if user.Email != nil {
		existing.Email = user.Email
	}

	if err := r.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	r.clearCache(ctx, user)
	return nil
}

func (r *userRepository) TouchLastRequest(ctx context.Context, userID uuid.UUID) error {
	log := r.log.Function("TouchLastRequest")

	now := time.Now()
	if err := r.db.SQLWithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("last_request_at", now).Error; err != nil {
		return log.Err("failed to touch last request", err, "userID", userID)
	}

	return nil
}

func (r *userRepository) getCache(ctx context.Context, key string, user *User) bool {
	found, err := database.NewCacheBuilder(r.db.Cache.Session, key).WithContext(ctx).Get(user)
	if err != nil {
		r.log.Warn("failed to get user from cache", "key", key, "error", err)
		return false
	}
	return found
}

func (r *userRepository) addToCache(ctx context.Context, user *User) {
	for _, key := range []string{USER_CACHE_PREFIX + user.ID.String(), DISCORD_MAPPING_PREFIX + user.DiscordID} {
		if err := database.NewCacheBuilder(r.db.Cache.Session, key).
			WithContext(ctx).
			WithStruct(user).
			WithTTL(USER_CACHE_EXPIRY).
			Set(); err != nil {
			r.log.Warn("failed to add user to cache", "key", key, "error", err)
		}
	}
}

func (r *userRepository) clearCache(ctx context.Context, user *User) {
	for _, key := range []string{USER_CACHE_PREFIX + user.ID.String(), DISCORD_MAPPING_PREFIX + user.DiscordID} {
		if err := database.NewCacheBuilder(r.db.Cache.Session, key).WithContext(ctx).Delete(); err != nil {
			r.log.Warn("failed to clear user cache", "key", key, "error", err)
		}
	}
}
