package domain

import "time"

// DayBounds returns [00:00 of day, 00:00 of the next day) in day's location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// YearBounds returns [Jan 1 of year, Jan 1 of year+1) in loc.
func YearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}

// LastMonthRange returns the calendar month preceding now, in now's location.
func LastMonthRange(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	thisMonth := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return thisMonth.AddDate(0, -1, 0), thisMonth
}
