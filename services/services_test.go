package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/pizzagpt/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type testMenu struct {
	MargheritaSmall *models.MenuItem
	MargheritaLarge *models.MenuItem
	Pepperoni       *models.MenuItem
	Funghi          *models.MenuItem
	Hawaiian        *models.MenuItem // inactive
}

func strPtr(s string) *string {
	return &s
}

func createMenuItem(t *testing.T, db *gorm.DB, name, size string, price int64) *models.MenuItem {
	item := &models.MenuItem{Name: name, Size: strPtr(size), PriceCents: price, IsActive: true}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedTestMenu(t *testing.T, db *gorm.DB) testMenu {
	menu := testMenu{
		MargheritaSmall: createMenuItem(t, db, "Margherita", "12in", 899),
		MargheritaLarge: createMenuItem(t, db, "Margherita", "16in", 1299),
		Pepperoni:       createMenuItem(t, db, "Pepperoni", "14in", 1199),
		Funghi:          createMenuItem(t, db, "Funghi", "14in", 1099),
		Hawaiian:        createMenuItem(t, db, "Hawaiian", "14in", 1149),
	}
	// is_active defaults to true on insert, so switch it off afterwards
	require.NoError(t, db.Model(menu.Hawaiian).Update("is_active", false).Error)
	menu.Hawaiian.IsActive = false
	return menu
}

func createCustomer(t *testing.T, db *gorm.DB, name, email string) *models.Customer {
	c := &models.Customer{Name: name, Email: strPtr(email)}
	require.NoError(t, db.Create(c).Error)
	return c
}
