package equipstatus

import (
	"testing"
	"time"

	"github.com/sndworks/crewline/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Equipment{},
		&models.RentalAssignment{},
		&models.ProjectAssignment{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func equipmentStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var eq models.Equipment
	if err := db.First(&eq, id).Error; err != nil {
		t.Fatalf("reload equipment %d: %v", id, err)
	}
	return eq.Status
}

func TestRecompute_AssignedWhileRentalOpen(t *testing.T) {
	db := testDB(t)
	eq := models.Equipment{Name: "Excavator", Status: StatusAvailable}
	if err := db.Create(&eq).Error; err != nil {
		t.Fatalf("seed equipment: %v", err)
	}
	if err := db.Create(&models.RentalAssignment{
		EquipmentID: eq.ID, StartDate: time.Now(), Status: "active",
	}).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}

	if err := Recompute(db, eq.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := equipmentStatus(t, db, eq.ID); got != StatusAssigned {
		t.Errorf("status = %q, want %q", got, StatusAssigned)
	}
}

func TestRecompute_AssignedWhileProjectOpen(t *testing.T) {
	db := testDB(t)
	eq := models.Equipment{Name: "Loader", Status: StatusAvailable}
	if err := db.Create(&eq).Error; err != nil {
		t.Fatalf("seed equipment: %v", err)
	}
	if err := db.Create(&models.ProjectAssignment{
		ProjectID: 4, EquipmentID: eq.ID, StartDate: time.Now(), Status: "active",
	}).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}

	if err := Recompute(db, eq.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := equipmentStatus(t, db, eq.ID); got != StatusAssigned {
		t.Errorf("status = %q, want %q", got, StatusAssigned)
	}
}

func TestRecompute_AvailableWhenAllCompleted(t *testing.T) {
	db := testDB(t)
	eq := models.Equipment{Name: "Crane", Status: StatusAssigned}
	if err := db.Create(&eq).Error; err != nil {
		t.Fatalf("seed equipment: %v", err)
	}
	if err := db.Create(&models.RentalAssignment{
		EquipmentID: eq.ID, StartDate: time.Now(), Status: "completed",
	}).Error; err != nil {
		t.Fatalf("seed assignment: %v", err)
	}

	if err := Recompute(db, eq.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := equipmentStatus(t, db, eq.ID); got != StatusAvailable {
		t.Errorf("status = %q, want %q", got, StatusAvailable)
	}
}

func TestRecompute_IgnoresOtherEquipment(t *testing.T) {
	db := testDB(t)
	eq := models.Equipment{Name: "Crane", Status: StatusAvailable}
	if err := db.Create(&eq).Error; err != nil {
		t.Fatalf("seed equipment: %v", err)
	}
	if err := db.Create(&models.RentalAssignment{
		EquipmentID: eq.ID + 100, StartDate: time.Now(), Status: "active",
	}).Error; err != nil {
		t.Fatalf("seed other assignment: %v", err)
	}

	if err := Recompute(db, eq.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := equipmentStatus(t, db, eq.ID); got != StatusAvailable {
		t.Errorf("status = %q, want %q", got, StatusAvailable)
	}
}
