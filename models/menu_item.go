package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem is one sellable variant; the same pizza in two sizes is two rows.
type MenuItem struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Description *string   `gorm:"type:varchar(2000)" json:"description"`
	Size        *string   `gorm:"type:varchar(50)" json:"size"`
	PriceCents  int64     `gorm:"not null;check:price_cents >= 0" json:"price_cents"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`

	OrderItems []OrderItem `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
