package assignment

import (
	"errors"
	"testing"
	"time"

	"github.com/sndworks/crewline/internal/dateutil"
)

func TestCompleteForVacation(t *testing.T) {
	e, db := testEngine(t)

	active := seedEmployeeAssignment(t, db, 30, "2024-01-01", nil, StatusActive)
	pending := seedEmployeeAssignment(t, db, 30, "2024-07-01", nil, StatusPending)
	done := seedEmployeeAssignment(t, db, 30, "2023-01-01", dayPtr(t, "2023-12-31"), StatusCompleted)

	n, err := e.CompleteForVacation(30, day(t, "2024-06-01"))
	if err != nil {
		t.Fatalf("complete for vacation: %v", err)
	}
	if n != 2 {
		t.Errorf("completed = %d, want 2", n)
	}

	for _, id := range []uint{active, pending} {
		rec := reloadEmployee(t, db, id)
		if rec.Status != StatusCompleted {
			t.Errorf("record %d status = %q, want %q", id, rec.Status, StatusCompleted)
		}
		if rec.EndDate == nil || !dateutil.SameDay(*rec.EndDate, day(t, "2024-05-31")) {
			t.Errorf("record %d end date = %v, want 2024-05-31", id, rec.EndDate)
		}
	}

	// Already-completed history keeps its own end date.
	old := reloadEmployee(t, db, done)
	if old.EndDate == nil || !dateutil.SameDay(*old.EndDate, day(t, "2023-12-31")) {
		t.Errorf("historical end date = %v, want 2023-12-31", old.EndDate)
	}
}

func TestCompleteForExit_InclusiveLastDay(t *testing.T) {
	e, db := testEngine(t)
	id := seedEmployeeAssignment(t, db, 31, "2024-01-01", nil, StatusActive)

	n, err := e.CompleteForExit(31, day(t, "2024-06-15"))
	if err != nil {
		t.Fatalf("complete for exit: %v", err)
	}
	if n != 1 {
		t.Errorf("completed = %d, want 1", n)
	}
	rec := reloadEmployee(t, db, id)
	if rec.EndDate == nil || !dateutil.SameDay(*rec.EndDate, day(t, "2024-06-15")) {
		t.Errorf("end date = %v, want the last working date itself", rec.EndDate)
	}
}

func TestVacationRoundTrip(t *testing.T) {
	e, db := testEngine(t)
	id := seedEmployeeAssignment(t, db, 32, "2024-01-01", nil, StatusActive)

	start := day(t, "2024-06-01")
	if _, err := e.CompleteForVacation(32, start); err != nil {
		t.Fatalf("complete: %v", err)
	}
	n, err := e.RestoreAfterVacationDeletion(32, start)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n != 1 {
		t.Errorf("restored = %d, want 1", n)
	}
	assertOneOpen(t, db, 32, id)
}

func TestExitRoundTrip(t *testing.T) {
	e, db := testEngine(t)
	id := seedEmployeeAssignment(t, db, 33, "2024-01-01", nil, StatusActive)

	last := day(t, "2024-09-30")
	if _, err := e.CompleteForExit(33, last); err != nil {
		t.Fatalf("complete: %v", err)
	}
	n, err := e.RestoreAfterExitDeletion(33, last)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n != 1 {
		t.Errorf("restored = %d, want 1", n)
	}
	assertOneOpen(t, db, 33, id)
}

func TestRestore_MatchesExactEndDateOnly(t *testing.T) {
	e, db := testEngine(t)

	// Completed earlier with an unrelated end date; a vacation restore for a
	// different date must not touch it.
	untouched := seedEmployeeAssignment(t, db, 34, "2024-01-01", dayPtr(t, "2024-03-31"), StatusCompleted)

	n, err := e.RestoreAfterVacationDeletion(34, day(t, "2024-06-01"))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n != 0 {
		t.Errorf("restored = %d, want 0", n)
	}
	rec := reloadEmployee(t, db, untouched)
	if rec.Status != StatusCompleted {
		t.Errorf("status = %q, want untouched %q", rec.Status, StatusCompleted)
	}
}

func TestSettlement_RequiresDate(t *testing.T) {
	e, _ := testEngine(t)
	var zero time.Time

	if _, err := e.CompleteForVacation(1, zero); !errors.Is(err, ErrInvalidAssignment) {
		t.Errorf("vacation error = %v, want ErrInvalidAssignment", err)
	}
	if _, err := e.CompleteForExit(1, zero); !errors.Is(err, ErrInvalidAssignment) {
		t.Errorf("exit error = %v, want ErrInvalidAssignment", err)
	}
	if _, err := e.RestoreAfterVacationDeletion(1, zero); !errors.Is(err, ErrInvalidAssignment) {
		t.Errorf("vacation restore error = %v, want ErrInvalidAssignment", err)
	}
	if _, err := e.RestoreAfterExitDeletion(1, zero); !errors.Is(err, ErrInvalidAssignment) {
		t.Errorf("exit restore error = %v, want ErrInvalidAssignment", err)
	}
}
