package assignment

import (
	"testing"
	"time"

	"github.com/sndworks/crewline/internal/dateutil"
	"github.com/sndworks/crewline/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB creates an in-memory SQLite database with all assignment stores.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// Each pooled connection to :memory: gets its own database, and the
	// completion fan-out runs stores concurrently. Pin to one connection so
	// every goroutine sees the same tables.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.Equipment{},
		&models.RentalAssignment{},
		&models.ProjectAssignment{},
		&models.RentalItem{},
		&models.EmployeeAssignment{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// partialDB creates a database missing the named tables, to force individual
// store updates to fail.
func partialDB(t *testing.T, skip ...string) *gorm.DB {
	t.Helper()
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	all := map[string]interface{}{
		StoreRental:      &models.RentalAssignment{},
		StoreProject:     &models.ProjectAssignment{},
		StoreRentalItems: &models.RentalItem{},
		StoreEmployee:    &models.EmployeeAssignment{},
	}
	for name, model := range all {
		if skipped[name] {
			continue
		}
		if err := db.AutoMigrate(model); err != nil {
			t.Fatalf("migrate %s: %v", name, err)
		}
	}
	return db
}

func testEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	return New(db, nil, nil), db
}

// day parses an ISO date for test fixtures.
func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dateutil.Parse(s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return d
}

func dayPtr(t *testing.T, s string) *time.Time {
	t.Helper()
	d := day(t, s)
	return &d
}

// assertOneOpen fails unless the employee has exactly one active open-ended
// record and it is the given one.
func assertOneOpen(t *testing.T, db *gorm.DB, employeeID, wantID uint) {
	t.Helper()
	var open []models.EmployeeAssignment
	if err := db.Where("employee_id = ? AND status = ?", employeeID, StatusActive).
		Find(&open).Error; err != nil {
		t.Fatalf("list open assignments: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open assignments = %d, want 1", len(open))
	}
	if open[0].ID != wantID {
		t.Errorf("open assignment id = %d, want %d", open[0].ID, wantID)
	}
	if open[0].EndDate != nil {
		t.Errorf("open assignment end date = %v, want nil", open[0].EndDate)
	}
}

func reloadEmployee(t *testing.T, db *gorm.DB, id uint) models.EmployeeAssignment {
	t.Helper()
	var rec models.EmployeeAssignment
	if err := db.First(&rec, id).Error; err != nil {
		t.Fatalf("reload employee assignment %d: %v", id, err)
	}
	return rec
}
