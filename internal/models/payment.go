package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
)

// Payment references at most one of course/lesson. The stripe_* columns stay
// null for cash payments and are filled atomically with creation for transfer
// payments that target a course or lesson.
type Payment struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID              uuid.UUID  `gorm:"type:uuid;not null;index" json:"user"`
	User                *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PaymentDate         time.Time  `gorm:"not null" json:"payment_date"`
	PaidCourseID        *uuid.UUID `gorm:"type:uuid" json:"paid_course"`
	PaidCourse          *Course    `gorm:"foreignKey:PaidCourseID;constraint:OnDelete:SET NULL" json:"-"`
	PaidLessonID        *uuid.UUID `gorm:"type:uuid" json:"paid_lesson"`
	PaidLesson          *Lesson    `gorm:"foreignKey:PaidLessonID;constraint:OnDelete:SET NULL" json:"-"`
	Amount              int        `gorm:"not null" json:"amount"`
	PaymentMethod       string     `gorm:"not null" json:"payment_method"`
	StripeProductID     *string    `json:"stripe_product_id"`
	StripePriceID       *string    `json:"stripe_price_id"`
	StripeSessionID     *string    `json:"stripe_session_id"`
	StripePaymentStatus *string    `json:"stripe_payment_status"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}
	return
}
