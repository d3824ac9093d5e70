package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"not null" json:"description"`
	VideoLink   string     `gorm:"not null" json:"video_link"`
	PreviewPath *string    `json:"preview"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"course"`
	Course      *Course    `gorm:"foreignKey:CourseID" json:"-"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index" json:"owner"`
	Owner       *User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (lesson *Lesson) BeforeCreate(tx *gorm.DB) (err error) {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	return
}
