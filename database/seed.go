package database

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/pizzagpt/models"
	"github.com/yeremiapane/pizzagpt/services"
	"github.com/yeremiapane/pizzagpt/utils"
)

const (
	ModeSeed       = "seed"
	ModeRestoreSQL = "restore-sql"
	ModeAuto       = "auto"
	ModeNone       = "none"
)

// Run prepares the store according to mode. auto restores from dumpPath when
// the file exists and seeds otherwise.
func Run(db *gorm.DB, mode, dumpPath string, totals *services.TotalsCalculator) error {
	switch mode {
	case ModeNone, "":
		return nil
	case ModeSeed:
		return SeedWithORM(db, totals)
	case ModeRestoreSQL:
		return RestoreFromSQL(db, dumpPath)
	case ModeAuto:
		if _, err := os.Stat(dumpPath); err == nil {
			return RestoreFromSQL(db, dumpPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat SQL dump: %w", err)
		}
		return SeedWithORM(db, totals)
	default:
		return fmt.Errorf("unknown seed mode %q (want %s, %s, %s or %s)", mode, ModeSeed, ModeRestoreSQL, ModeAuto, ModeNone)
	}
}

// SeedWithORM loads the demo menu, customers and orders. It does nothing when
// any customer already exists.
func SeedWithORM(db *gorm.DB, totals *services.TotalsCalculator) error {
	if totals == nil {
		totals = services.NewTotalsCalculator(services.DefaultTaxRateBasisPoints)
	}

	var existing int64
	if err := db.Model(&models.Customer{}).Limit(1).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if existing > 0 {
		utils.InfoLogger.Println("Seed skipped: data already present")
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		ingredients := []models.Ingredient{
			{Name: "Mozzarella", CostCents: 50, IsAvailable: true},
			{Name: "Tomato Sauce", CostCents: 20, IsAvailable: true},
			{Name: "Basil", CostCents: 10, IsAvailable: true},
			{Name: "Pepperoni", CostCents: 70, IsAvailable: true},
			{Name: "Mushrooms", CostCents: 40, IsAvailable: true},
		}
		if err := tx.Create(&ingredients).Error; err != nil {
			return fmt.Errorf("ingredients: %w", err)
		}

		margheritaSmall := menuItem("Margherita", "Tomato, mozzarella, basil", "12in", 899)
		margheritaLarge := menuItem("Margherita", "Tomato, mozzarella, basil", "16in", 1299)
		pepperoni := menuItem("Pepperoni", "Tomato, mozzarella, pepperoni", "14in", 1199)
		funghi := menuItem("Funghi", "Tomato, mozzarella, mushrooms", "14in", 1099)
		menu := []*models.MenuItem{margheritaSmall, margheritaLarge, pepperoni, funghi}
		if err := tx.Create(&menu).Error; err != nil {
			return fmt.Errorf("menu items: %w", err)
		}
		prices := make(map[uuid.UUID]int64, len(menu))
		for _, m := range menu {
			prices[m.ID] = m.PriceCents
		}

		alice := &models.Customer{Name: "Alice Johnson", Email: strPtr("alice@example.com"), Phone: strPtr("+15551001")}
		bob := &models.Customer{Name: "Bob Smith", Email: strPtr("bob@example.com"), Phone: strPtr("+15551002")}
		customers := []*models.Customer{alice, bob}
		if err := tx.Create(&customers).Error; err != nil {
			return fmt.Errorf("customers: %w", err)
		}

		orders := []*models.Order{
			{
				CustomerID: alice.ID,
				Status:     models.OrderStatusConfirmed,
				Notes:      strPtr("Extra napkins, please."),
				Items: []models.OrderItem{
					{MenuItemID: margheritaLarge.ID, LineNo: 1, Quantity: 1},
					{MenuItemID: pepperoni.ID, LineNo: 2, Quantity: 2},
				},
			},
			{
				CustomerID:    bob.ID,
				Status:        models.OrderStatusPreparing,
				DiscountCents: 100,
				Items: []models.OrderItem{
					{MenuItemID: funghi.ID, LineNo: 1, Quantity: 1, SpecialRequests: strPtr("Well done")},
					{MenuItemID: margheritaSmall.ID, LineNo: 2, Quantity: 3},
				},
			},
		}
		for _, order := range orders {
			if err := totals.Apply(order, prices); err != nil {
				return err
			}
			if err := tx.Create(order).Error; err != nil {
				return fmt.Errorf("orders: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	utils.InfoLogger.Println("Seeded via ORM")
	return nil
}

func menuItem(name, description, size string, priceCents int64) *models.MenuItem {
	return &models.MenuItem{
		Name:        name,
		Description: strPtr(description),
		Size:        strPtr(size),
		PriceCents:  priceCents,
		IsActive:    true,
	}
}

func strPtr(s string) *string {
	return &s
}
