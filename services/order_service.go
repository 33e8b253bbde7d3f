package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/pizzagpt/models"
	"github.com/yeremiapane/pizzagpt/utils"
)

const (
	DefaultOrderListLimit = 50
	MaxOrderListLimit     = 500
)

type OrderService struct {
	db     *gorm.DB
	totals *TotalsCalculator
}

func NewOrderService(db *gorm.DB, totals *TotalsCalculator) *OrderService {
	if totals == nil {
		totals = NewTotalsCalculator(DefaultTaxRateBasisPoints)
	}
	return &OrderService{db: db, totals: totals}
}

type OrderItemInput struct {
	MenuItemID      string
	Quantity        int
	SpecialRequests *string
}

type CreateOrderParams struct {
	CustomerID    string
	Items         []OrderItemInput
	Notes         *string
	DiscountCents int64
}

// Create stores a pending order with all of its items and computed totals in
// one transaction.
func (s *OrderService) Create(ctx context.Context, p CreateOrderParams) (*models.Order, error) {
	if len(p.Items) == 0 {
		return nil, invalidArgument("items list is required")
	}
	customerID, err := parseID("customer_id", p.CustomerID)
	if err != nil {
		return nil, err
	}
	if p.DiscountCents < 0 {
		return nil, invalidArgument("discount_cents must be >= 0")
	}

	items := make([]models.OrderItem, 0, len(p.Items))
	menuIDs := make([]uuid.UUID, 0, len(p.Items))
	for i, in := range p.Items {
		menuItemID, err := parseID(fmt.Sprintf("items[%d].menu_item_id", i), in.MenuItemID)
		if err != nil {
			return nil, err
		}
		if in.Quantity < 1 {
			return nil, invalidArgument("items[%d].quantity must be >= 1", i)
		}
		items = append(items, models.OrderItem{
			MenuItemID:      menuItemID,
			LineNo:          i + 1,
			Quantity:        in.Quantity,
			SpecialRequests: optionalString(in.SpecialRequests),
		})
		menuIDs = append(menuIDs, menuItemID)
	}

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCustomerExists(tx, customerID); err != nil {
			return err
		}

		prices, err := loadMenuPrices(tx, menuIDs)
		if err != nil {
			return err
		}
		for _, id := range menuIDs {
			if _, ok := prices[id]; !ok {
				return notFound("menu item not found: %s", id)
			}
		}

		newOrder := models.Order{
			CustomerID:    customerID,
			DiscountCents: p.DiscountCents,
			Status:        models.OrderStatusPending,
			Notes:         optionalString(p.Notes),
			Items:         items,
		}
		if err := s.totals.Apply(&newOrder, prices); err != nil {
			return err
		}
		if newOrder.TotalCents < 0 {
			return invalidArgument("discount_cents (%d) exceeds the order subtotal (%d)", newOrder.DiscountCents, newOrder.SubtotalCents)
		}

		if err := tx.Create(&newOrder).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		order, err = loadOrder(tx, newOrder.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"items":       len(order.Items),
		"total":       utils.FormatCents(order.TotalCents),
	}).Info("Order created")
	return order, nil
}

type AddOrderItemParams struct {
	OrderID         string
	MenuItemID      string
	Quantity        int
	SpecialRequests *string
}

// AddItem appends one item and recomputes the totals over the whole item set.
func (s *OrderService) AddItem(ctx context.Context, p AddOrderItemParams) (*models.Order, error) {
	if p.Quantity < 1 {
		return nil, invalidArgument("quantity must be >= 1")
	}
	orderID, err := parseID("order_id", p.OrderID)
	if err != nil {
		return nil, err
	}
	menuItemID, err := parseID("menu_item_id", p.MenuItemID)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.MenuItem{}).Where("id = ?", menuItemID.String()).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up menu item: %w", err)
		}
		if count == 0 {
			return notFound("menu item not found: %s", menuItemID)
		}

		lineNo := 1
		for _, item := range current.Items {
			if item.LineNo >= lineNo {
				lineNo = item.LineNo + 1
			}
		}
		current.Items = append(current.Items, models.OrderItem{
			OrderID:         current.ID,
			MenuItemID:      menuItemID,
			LineNo:          lineNo,
			Quantity:        p.Quantity,
			SpecialRequests: optionalString(p.SpecialRequests),
		})

		if err := s.totals.Recalculate(tx, current); err != nil {
			return err
		}
		// prices may have dropped below the discount since the order was created
		if current.TotalCents < 0 {
			return invalidArgument("discount_cents (%d) exceeds the order subtotal (%d)", current.DiscountCents, current.SubtotalCents)
		}

		last := len(current.Items) - 1
		if err := tx.Create(&current.Items[last]).Error; err != nil {
			return fmt.Errorf("failed to add order item: %w", err)
		}
		for i := 0; i < last; i++ {
			item := &current.Items[i]
			if err := tx.Model(item).Update("line_total_cents", item.LineTotalCents).Error; err != nil {
				return fmt.Errorf("failed to update order item %s: %w", item.ID, err)
			}
		}
		if err := saveTotals(tx, current); err != nil {
			return err
		}

		order, err = loadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Item added to order %s (items=%d, total=%s)", order.ID, len(order.Items), utils.FormatCents(order.TotalCents))
	return order, nil
}

// SetStatus overwrites the status. Transitions are not checked: any valid
// status may follow any other.
func (s *OrderService) SetStatus(ctx context.Context, rawOrderID, rawStatus string) (*models.Order, error) {
	orderID, err := parseID("order_id", rawOrderID)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if err := tx.Model(current).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order, err = loadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s status set to %s", order.ID, order.Status)
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, rawID string) (*models.Order, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	return loadOrder(s.db.WithContext(ctx), id)
}

type ListOrdersParams struct {
	CustomerID string
	Status     string
	// Limit <= 0 means DefaultOrderListLimit.
	Limit int
}

// List returns orders newest first, each with its items.
func (s *OrderService) List(ctx context.Context, p ListOrdersParams) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	if strings.TrimSpace(p.CustomerID) != "" {
		customerID, err := parseID("customer_id", p.CustomerID)
		if err != nil {
			return nil, err
		}
		query = query.Where("customer_id = ?", customerID.String())
	}
	if strings.TrimSpace(p.Status) != "" {
		status, err := parseStatus(p.Status)
		if err != nil {
			return nil, err
		}
		query = query.Where("status = ?", status)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultOrderListLimit
	}
	if limit > MaxOrderListLimit {
		limit = MaxOrderListLimit
	}

	orders := make([]models.Order, 0)
	err := query.Preload("Items", orderItemsInLineOrder).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func parseStatus(raw string) (models.OrderStatus, error) {
	status := models.OrderStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", invalidArgument("invalid status: %s", raw)
	}
	return status, nil
}

func orderItemsInLineOrder(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC")
}

func loadOrder(tx *gorm.DB, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := tx.Preload("Items", orderItemsInLineOrder).First(&order, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func ensureCustomerExists(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", id.String()).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up customer: %w", err)
	}
	if count == 0 {
		return notFound("customer not found: %s", id)
	}
	return nil
}

func saveTotals(tx *gorm.DB, order *models.Order) error {
	err := tx.Model(order).Updates(map[string]interface{}{
		"subtotal_cents": order.SubtotalCents,
		"discount_cents": order.DiscountCents,
		"tax_cents":      order.TaxCents,
		"total_cents":    order.TotalCents,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to save order totals: %w", err)
	}
	return nil
}
