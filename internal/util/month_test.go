package util

import (
	"testing"
	"time"
)

func TestInCompetence(t *testing.T) {
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if !InCompetence(date, 2025, 3) {
		t.Error("Expected date in competence 03/2025")
	}
	if InCompetence(date, 2025, 4) {
		t.Error("Expected date outside competence 04/2025")
	}
	if InCompetence(date, 2024, 3) {
		t.Error("Expected date outside competence 03/2024")
	}
}

func TestDaysInclusive(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)
	if got := DaysInclusive(start, end); got != 30 {
		t.Errorf("Expected 30 days, got %d", got)
	}
	if got := DaysInclusive(start, start); got != 1 {
		t.Errorf("Expected 1 day for same-day period, got %d", got)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	if got := LastDayOfMonth(2025, time.February); got.Day() != 28 {
		t.Errorf("Expected Feb 2025 to end on 28, got %d", got.Day())
	}
	if got := LastDayOfMonth(2024, time.February); got.Day() != 29 {
		t.Errorf("Expected Feb 2024 to end on 29, got %d", got.Day())
	}
	if got := LastDayOfMonth(2025, time.December); got.Day() != 31 {
		t.Errorf("Expected Dec 2025 to end on 31, got %d", got.Day())
	}
}

func TestPreviousMonth(t *testing.T) {
	year, month := PreviousMonth(2025, 3)
	if year != 2025 || month != 2 {
		t.Errorf("Expected 02/2025, got %02d/%d", month, year)
	}

	// January rolls back a year
	year, month = PreviousMonth(2025, 1)
	if year != 2024 || month != 12 {
		t.Errorf("Expected 12/2024, got %02d/%d", month, year)
	}
}

func TestValidCompetence(t *testing.T) {
	for month := 1; month <= 12; month++ {
		if !ValidCompetence(month) {
			t.Errorf("Expected month %d valid", month)
		}
	}
	if ValidCompetence(0) || ValidCompetence(13) {
		t.Error("Expected months outside 1-12 invalid")
	}
}
