package util

import "time"

// InCompetence returns true if the date falls in the given competence
// month/year.
func InCompetence(date time.Time, year, month int) bool {
	return date.Year() == year && int(date.Month()) == month
}

// DaysInclusive counts the days from start to end, both ends included.
func DaysInclusive(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// LastDayOfMonth returns the final day of the given month.
func LastDayOfMonth(year int, month time.Month) time.Time {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

// PreviousMonth returns the year and month for the previous month.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// ValidCompetence reports whether the month number is a calendar month.
func ValidCompetence(month int) bool {
	return month >= 1 && month <= 12
}
