package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID         uuid.UUID `gorm:"type:char(36);not null;index" json:"-"`
	MenuItemID      uuid.UUID `gorm:"type:char(36);not null;index" json:"menu_item_id"`
	LineNo          int       `gorm:"not null" json:"-"`
	Quantity        int       `gorm:"not null;default:1;check:quantity >= 1" json:"quantity"`
	SpecialRequests *string   `gorm:"type:varchar(2000)" json:"special_requests"`
	// Cached price * quantity, rewritten on every recalculation of the order.
	LineTotalCents int64     `gorm:"not null;default:0;check:line_total_cents >= 0" json:"line_total_cents"`
	CreatedAt      time.Time `gorm:"not null" json:"-"`
	UpdatedAt      time.Time `gorm:"not null" json:"-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
