package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ModeratorsGroup = "moderators"

type Group struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (group *Group) BeforeCreate(tx *gorm.DB) (err error) {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	return
}
