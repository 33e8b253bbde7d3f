package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Email         *string   `gorm:"type:varchar(320);index" json:"email"`
	Phone         *string   `gorm:"type:varchar(32);index" json:"phone"`
	LoyaltyPoints int64     `gorm:"not null;default:0;check:loyalty_points >= 0" json:"loyalty_points"`
	CreatedAt     time.Time `gorm:"not null" json:"-"`
	UpdatedAt     time.Time `gorm:"not null" json:"-"`

	Orders []Order `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
