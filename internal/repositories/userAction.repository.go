package repositories

import (
	"context"

	"aotd/internal/database"
	. "aotd/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserActionRepository is the audit sink. Rows are append-only: there is no
// update or delete path through this interface.
type UserActionRepository interface {
	Record(ctx context.Context, tx *gorm.DB, action *UserAction) error
	GetForEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID) ([]UserAction, error)
	GetForUser(ctx context.Context, userID uuid.UUID) ([]UserAction, error)
}

type userActionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserActionRepository(db database.DB) UserActionRepository {
	return &userActionRepository{
		db:  db,
		log: logger.New("userActionRepository"),
	}
}

func (r *userActionRepository) Record(ctx context.Context, tx *gorm.DB, action *UserAction) error {
	log := r.log.Function("Record")

	if err := tx.WithContext(ctx).Create(action).Error; err != nil {
		return log.Err(
			"failed to record user action",
			err,
			"actionType", action.ActionType,
			"entityType", action.EntityType,
			"entityID", action.EntityID,
		)
	}

	return nil
}

func (r *userActionRepository) GetForEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID) ([]UserAction, error) {
	log := r.log.Function("GetForEntity")

	var actions []UserAction
	if err := r.db.SQLWithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, log.Err("failed to get actions for entity", err, "entityType", entityType, "entityID", entityID)
	}

	return actions, nil
}

func (r *userActionRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]UserAction, error) {
	log := r.log.Function("GetForUser")

	var actions []UserAction
	if err := r.db.SQLWithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, log.Err("failed to get actions for user", err, "userID", userID)
	}

	return actions, nil
}
