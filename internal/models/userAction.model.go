package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActionType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
)

type EntityType string

const (
	EntityAlbum  EntityType = "ALBUM"
	EntityReview EntityType = "REVIEW"
)

// UserAction is the append-only audit log. Every mutation to an album or
// review writes exactly one row, in the same transaction as the mutation.
type UserAction struct {
	BaseUUIDModel
	// UserID is nullable so audit rows outlive their actor.
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"userId,omitempty"`
	User   *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`

	ActionType ActionType     `gorm:"type:varchar(10);not null;index" json:"actionType"`
	EntityType EntityType     `gorm:"type:varchar(10);not null;index" json:"entityType"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null"              json:"entityId"`
	Details    datatypes.JSON `gorm:"type:jsonb"                      json:"details,omitempty"`
}
