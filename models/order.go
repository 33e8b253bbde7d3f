package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// OrderStatuses lists every status in lifecycle order. Any status may be set
// from any other; there is no transition table.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivering,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID            uuid.UUID   `gorm:"type:char(36);primaryKey" json:"id"`
	CustomerID    uuid.UUID   `gorm:"type:char(36);not null;index" json:"customer_id"`
	SubtotalCents int64       `gorm:"not null;default:0;check:subtotal_cents >= 0" json:"subtotal_cents"`
	DiscountCents int64       `gorm:"not null;default:0;check:discount_cents >= 0" json:"discount_cents"`
	TaxCents      int64       `gorm:"not null;default:0;check:tax_cents >= 0" json:"tax_cents"`
	TotalCents    int64       `gorm:"not null;default:0;check:total_cents >= 0" json:"total_cents"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes         *string     `gorm:"type:varchar(2000)" json:"notes"`
	CreatedAt     time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}
