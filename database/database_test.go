package database

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/pizzagpt/models"
	"github.com/yeremiapane/pizzagpt/services"
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

func TestSeedWithORM(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SeedWithORM(db, nil))

	var count int64
	db.Model(&models.Ingredient{}).Count(&count)
	assert.Equal(t, int64(5), count)
	db.Model(&models.MenuItem{}).Count(&count)
	assert.Equal(t, int64(4), count)
	db.Model(&models.Customer{}).Count(&count)
	assert.Equal(t, int64(2), count)
	db.Model(&models.OrderItem{}).Count(&count)
	assert.Equal(t, int64(4), count)

	var alice models.Customer
	require.NoError(t, db.Where("email = ?", "alice@example.com").Take(&alice).Error)
	var aliceOrder models.Order
	require.NoError(t, db.Preload("Items").Where("customer_id = ?", alice.ID).Take(&aliceOrder).Error)
	assert.Equal(t, models.OrderStatusConfirmed, aliceOrder.Status)
	assert.Equal(t, int64(3697), aliceOrder.SubtotalCents)
	assert.Equal(t, int64(296), aliceOrder.TaxCents)
	assert.Equal(t, int64(3993), aliceOrder.TotalCents)
	require.NotNil(t, aliceOrder.Notes)
	assert.Equal(t, "Extra napkins, please.", *aliceOrder.Notes)

	var bob models.Customer
	require.NoError(t, db.Where("email = ?", "bob@example.com").Take(&bob).Error)
	var bobOrder models.Order
	require.NoError(t, db.Where("customer_id = ?", bob.ID).Take(&bobOrder).Error)
	assert.Equal(t, models.OrderStatusPreparing, bobOrder.Status)
	assert.Equal(t, int64(3796), bobOrder.SubtotalCents)
	assert.Equal(t, int64(100), bobOrder.DiscountCents)
	// 3696 * 8% = 295.68
	assert.Equal(t, int64(296), bobOrder.TaxCents)
	assert.Equal(t, int64(3992), bobOrder.TotalCents)
}

func TestSeedWithORMIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SeedWithORM(db, nil))
	require.NoError(t, SeedWithORM(db, nil))

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestSeedWithORMUsesTaxRate(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SeedWithORM(db, services.NewTotalsCalculator(0)))

	var orders []models.Order
	require.NoError(t, db.Find(&orders).Error)
	for _, o := range orders {
		assert.Zero(t, o.TaxCents)
		assert.Equal(t, o.SubtotalCents-o.DiscountCents, o.TotalCents)
	}
}

func writeDump(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const customerDump = `-- demo dump
BEGIN TRANSACTION;
INSERT INTO customers (id, name, email, phone, loyalty_points, created_at, updated_at)
VALUES ('8f2b8a52-3c1e-4f7a-9d38-0d2f6b1c9e01', 'Pat O''Brien; Jr', 'pat@example.com', NULL, 10, '2024-01-01 00:00:00', '2024-01-01 00:00:00');
/* second row */
INSERT INTO customers (id, name, email, phone, loyalty_points, created_at, updated_at)
VALUES ('8f2b8a52-3c1e-4f7a-9d38-0d2f6b1c9e02', 'Sam', NULL, '+15550000', 0, '2024-01-01 00:00:00', '2024-01-01 00:00:00');
COMMIT;
`

func TestRestoreFromSQL(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, RestoreFromSQL(db, writeDump(t, customerDump)))

	var customers []models.Customer
	require.NoError(t, db.Order("name ASC").Find(&customers).Error)
	require.Len(t, customers, 2)
	assert.Equal(t, "Pat O'Brien; Jr", customers[0].Name)
	assert.Equal(t, int64(10), customers[0].LoyaltyPoints)
	assert.Nil(t, customers[1].Email)
}

func TestRestoreFromSQLRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)

	dump := customerDump + "INSERT INTO no_such_table VALUES (1);\n"
	err := RestoreFromSQL(db, writeDump(t, dump))
	require.Error(t, err)

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.Zero(t, count)
}

func TestRestoreFromSQLMissingFile(t *testing.T) {
	db := setupTestDB(t)
	err := RestoreFromSQL(db, filepath.Join(t.TempDir(), "missing.sql"))
	assert.ErrorContains(t, err, "failed to read SQL dump")
}

func TestSplitSQLStatements(t *testing.T) {
	script := "SELECT 1;\n-- comment; still comment\nSELECT 'a;b', \"c;d\";/* x; y */SELECT 2;;  \n"
	assert.Equal(t, []string{"SELECT 1", "SELECT 'a;b', \"c;d\"", "SELECT 2"}, SplitSQLStatements(script))
}

func TestRun(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, Run(db, ModeNone, "", nil))
		var count int64
		db.Model(&models.Customer{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("auto without dump seeds", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, Run(db, ModeAuto, filepath.Join(t.TempDir(), "absent.sql"), nil))
		var count int64
		db.Model(&models.MenuItem{}).Count(&count)
		assert.Equal(t, int64(4), count)
	})

	t.Run("auto with dump restores", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, Run(db, ModeAuto, writeDump(t, customerDump), nil))
		var count int64
		db.Model(&models.MenuItem{}).Count(&count)
		assert.Zero(t, count)
		db.Model(&models.Customer{}).Count(&count)
		assert.Equal(t, int64(2), count)
	})

	t.Run("unknown mode", func(t *testing.T) {
		db := setupTestDB(t)
		assert.ErrorContains(t, Run(db, "bogus", "", nil), "unknown seed mode")
	})
}
