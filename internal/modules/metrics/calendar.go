package metrics

import "time"

// AddMonths shifts t by a number of calendar months, keeping the time of day.
// When the target month is shorter than t's day, the day is clamped to the month's last
// day (Mar 31 minus one month is Feb 28/29), unlike time.AddDate which would roll over.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	offset := int(month) - 1 + months
	year += floorDiv(offset, 12)
	targetMonth := time.Month(offset - floorDiv(offset, 12)*12 + 1)

	if last := daysIn(year, targetMonth, t.Location()); day > last {
		day = last
	}

	return time.Date(year, targetMonth, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// WindowStart returns the inclusive lower bound of a trailing window of whole months
func WindowStart(asOf time.Time, months int) time.Time {
	return AddMonths(asOf, -months)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
