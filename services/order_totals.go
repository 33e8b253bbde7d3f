package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/pizzagpt/models"
	"github.com/yeremiapane/pizzagpt/utils"
)

// DefaultTaxRateBasisPoints is 8% sales tax.
const DefaultTaxRateBasisPoints int64 = 800

const basisPointsPerUnit = 10000

// MissingPricePolicy supplies the unit price for an order item whose menu item
// can no longer be found. Returning an error aborts the recalculation.
type MissingPricePolicy func(menuItemID uuid.UUID) (int64, error)

// ZeroPriceForMissingMenuItem prices an unresolved menu item at 0 and lets the
// recalculation continue.
//
// A deleted menu row therefore zeroes every line that referenced it on the
// next recalculation. RejectMissingMenuItem is the strict alternative.
func ZeroPriceForMissingMenuItem(menuItemID uuid.UUID) (int64, error) {
	utils.InfoLogger.Warnf("Menu item %s not found while pricing order, using price 0", menuItemID)
	return 0, nil
}

func RejectMissingMenuItem(menuItemID uuid.UUID) (int64, error) {
	return 0, notFound("menu item not found: %s", menuItemID)
}

// TotalsCalculator derives line totals, subtotal, tax and total for an order.
type TotalsCalculator struct {
	TaxRateBasisPoints int64
	MissingPrice       MissingPricePolicy
}

func NewTotalsCalculator(taxRateBasisPoints int64) *TotalsCalculator {
	return &TotalsCalculator{
		TaxRateBasisPoints: taxRateBasisPoints,
		MissingPrice:       ZeroPriceForMissingMenuItem,
	}
}

// Apply rewrites every item's line total and the order's subtotal, tax and
// total from prices (menu item id -> unit price in cents). The order and its
// items are mutated in place; persisting them is the caller's job.
func (tc *TotalsCalculator) Apply(order *models.Order, prices map[uuid.UUID]int64) error {
	missing := tc.MissingPrice
	if missing == nil {
		missing = ZeroPriceForMissingMenuItem
	}

	var subtotal int64
	for i := range order.Items {
		item := &order.Items[i]
		price, ok := prices[item.MenuItemID]
		if !ok {
			p, err := missing(item.MenuItemID)
			if err != nil {
				return err
			}
			price = p
		}
		lineTotal, ok := mulCents(price, int64(item.Quantity))
		if !ok {
			return invalidArgument("items[%d].quantity is too large", i)
		}
		if subtotal, ok = addCents(subtotal, lineTotal); !ok {
			return invalidArgument("order subtotal is too large")
		}
		item.LineTotalCents = lineTotal
	}

	taxable := subtotal - order.DiscountCents
	if taxable < 0 {
		taxable = 0
	}
	if _, ok := mulCents(taxable, tc.TaxRateBasisPoints); !ok {
		return invalidArgument("order subtotal is too large")
	}
	tax := TaxCents(taxable, tc.TaxRateBasisPoints)
	total, ok := addCents(subtotal-order.DiscountCents, tax)
	if !ok {
		return invalidArgument("order total is too large")
	}

	order.SubtotalCents = subtotal
	order.TaxCents = tax
	order.TotalCents = total
	return nil
}

// Recalculate loads the current price of every menu item the order references
// and applies the totals.
func (tc *TotalsCalculator) Recalculate(tx *gorm.DB, order *models.Order) error {
	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.MenuItemID)
	}

	prices, err := loadMenuPrices(tx, ids)
	if err != nil {
		return err
	}
	return tc.Apply(order, prices)
}

// TaxCents returns taxable * rate, rounded half to even.
// The multiplication is exact, so no float rounding is involved.
func TaxCents(taxable, rateBasisPoints int64) int64 {
	if taxable <= 0 || rateBasisPoints <= 0 {
		return 0
	}

	product := taxable * rateBasisPoints
	q, r := product/basisPointsPerUnit, product%basisPointsPerUnit
	switch {
	case r*2 > basisPointsPerUnit:
		q++
	case r*2 == basisPointsPerUnit && q%2 == 1:
		q++
	}
	return q
}

// mulCents multiplies two amounts and reports false on int64 overflow.
func mulCents(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return c, true
}

// addCents adds two amounts and reports false on int64 overflow.
func addCents(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, false
	}
	return c, true
}

// loadMenuPrices returns unit prices keyed by menu item id. Ids that do not
// resolve are simply absent from the map.
func loadMenuPrices(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	prices := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	keys := make([]string, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, id.String())
	}

	var menuItems []models.MenuItem
	if err := tx.Select("id", "price_cents").Where("id IN ?", keys).Find(&menuItems).Error; err != nil {
		return nil, fmt.Errorf("failed to load menu prices: %w", err)
	}
	for _, mi := range menuItems {
		prices[mi.ID] = mi.PriceCents
	}
	return prices, nil
}
