package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/gigpay/internal/config"
	"github.com/nurpe/gigpay/internal/model"
)

var testSchema = []string{
	`CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		profession TEXT NOT NULL,
		balance REAL NOT NULL DEFAULT 0,
		type TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE contracts (
		id TEXT PRIMARY KEY,
		terms TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'new',
		client_id TEXT NOT NULL REFERENCES profiles(id),
		contractor_id TEXT NOT NULL REFERENCES profiles(id),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE jobs (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL REFERENCES contracts(id),
		description TEXT NOT NULL,
		price REAL NOT NULL,
		paid BOOLEAN,
		payment_date DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range testSchema {
		require.NoError(t, database.Exec(stmt).Error)
	}
	return database
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Billing:     config.BillingConfig{DepositCapRatio: 0.25},
		Reports:     config.ReportsConfig{DefaultClientsLimit: 2},
	}
}

func seedProfile(t *testing.T, db *gorm.DB, profileType model.ProfileType, profession string, balance float64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := db.Exec(`
		INSERT INTO profiles (id, first_name, last_name, profession, balance, type)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, "Test", "Profile", profession, balance, profileType).Error
	require.NoError(t, err)
	return id
}

func seedNamedProfile(t *testing.T, db *gorm.DB, profileType model.ProfileType, firstName, lastName string, balance float64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := db.Exec(`
		INSERT INTO profiles (id, first_name, last_name, profession, balance, type)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, firstName, lastName, "Generalist", balance, profileType).Error
	require.NoError(t, err)
	return id
}

func seedContract(t *testing.T, db *gorm.DB, clientID, contractorID uuid.UUID, status model.ContractStatus) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := db.Exec(`
		INSERT INTO contracts (id, terms, status, client_id, contractor_id)
		VALUES (?, ?, ?, ?, ?)
	`, id, "terms", status, clientID, contractorID).Error
	require.NoError(t, err)
	return id
}

func seedJob(t *testing.T, db *gorm.DB, contractID uuid.UUID, price float64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := db.Exec(`
		INSERT INTO jobs (id, contract_id, description, price, paid, payment_date)
		VALUES (?, ?, ?, ?, NULL, NULL)
	`, id, contractID, "work", price).Error
	require.NoError(t, err)
	return id
}

func seedPaidJob(t *testing.T, db *gorm.DB, contractID uuid.UUID, price float64, paidAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := db.Exec(`
		INSERT INTO jobs (id, contract_id, description, price, paid, payment_date)
		VALUES (?, ?, ?, ?, TRUE, ?)
	`, id, contractID, "work", price, paidAt).Error
	require.NoError(t, err)
	return id
}

func testTime(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func profileBalance(t *testing.T, db *gorm.DB, id uuid.UUID) float64 {
	t.Helper()
	var balance float64
	require.NoError(t, db.Raw(`SELECT balance FROM profiles WHERE id = ?`, id).Scan(&balance).Error)
	return balance
}

func jobPaidState(t *testing.T, db *gorm.DB, id uuid.UUID) (paid *bool, paymentDate *time.Time) {
	t.Helper()
	var row struct {
		Paid        *bool
		PaymentDate *time.Time
	}
	require.NoError(t, db.Raw(`SELECT paid, payment_date FROM jobs WHERE id = ?`, id).Scan(&row).Error)
	return row.Paid, row.PaymentDate
}
