package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription links a user to a course. The composite unique index keeps
// concurrent subscribe calls from producing duplicates.
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_user_course" json:"user"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_user_course" json:"course"`
	Course    *Course   `gorm:"foreignKey:CourseID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (subscription *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if subscription.ID == uuid.Nil {
		subscription.ID = uuid.New()
	}
	return
}
