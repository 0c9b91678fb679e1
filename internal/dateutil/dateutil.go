// Package dateutil provides the calendar field and name helpers shared by the
// day, event and calendar packages. All functions are pure.
package dateutil

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Fields returns the calendar fields of t in t's own location.
// Weekday is 1-based starting on Sunday (1=Sunday .. 7=Saturday).
func Fields(t time.Time) (day, month, year, weekday int) {
	y, m, d := t.Date()
	return d, int(m), y, int(t.Weekday()) + 1
}

// SameDate reports whether a and b fall on the same (year, month, day).
// Each time is read in its own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CompareDate orders two (year, month, day) tuples lexicographically.
// It returns -1 if a is before b, 1 if a is after b and 0 if equal.
func CompareDate(aYear, aMonth, aDay, bYear, bMonth, bDay int) int {
	switch {
	case aYear < bYear:
		return -1
	case aYear > bYear:
		return 1
	case aMonth < bMonth:
		return -1
	case aMonth > bMonth:
		return 1
	case aDay < bDay:
		return -1
	case aDay > bDay:
		return 1
	}
	return 0
}

// WeekdayName returns the English name for a 1-based (Sunday=1) weekday.
// Out-of-range values yield an empty string.
func WeekdayName(weekday int) string {
	if weekday < 1 || weekday > len(weekdayNames) {
		return ""
	}
	return weekdayNames[weekday-1]
}

// ShortWeekdayName returns the three letter form of WeekdayName.
func ShortWeekdayName(weekday int) string {
	return short(WeekdayName(weekday))
}

// MonthName returns the English name for a 1-based month.
// Out-of-range values yield an empty string.
func MonthName(month int) string {
	if month < 1 || month > len(monthNames) {
		return ""
	}
	return monthNames[month-1]
}

// ShortMonthName returns the three letter form of MonthName.
func ShortMonthName(month int) string {
	return short(MonthName(month))
}

func short(name string) string {
	if len(name) < 3 {
		return name
	}
	return name[:3]
}

// PadDay formats a day of month with a leading zero below 10.
func PadDay(day int) string {
	return fmt.Sprintf("%02d", day)
}

// ClockString formats the time of day of t on a 12-hour clock, e.g.
// "09: 05 AM". Midnight renders as "00: 00 AM" and noon as "12: 00 PM".
func ClockString(t time.Time) string {
	hour, minute := t.Hour(), t.Minute()
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	if hour != 0 && hour != 12 {
		hour %= 12
	}
	return fmt.Sprintf("%02d: %02d %s", hour, minute, ampm)
}

// DurationString renders d as "Nd Nh Nm", omitting zero components.
// Seconds are truncated. A duration under one minute yields "".
func DurationString(d time.Duration) string {
	total := int(d / time.Second)
	days := total / (24 * 60 * 60)
	total %= 24 * 60 * 60
	hours := total / (60 * 60)
	total %= 60 * 60
	minutes := total / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}

// StartOfDay returns midnight of t's date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar days from a to b, read in a's location. It is
// negative when b's date is before a's and is unaffected by DST changes.
func DaysBetween(a, b time.Time) int {
	loc := a.Location()
	ay, am, ad := a.Date()
	by, bm, bd := b.In(loc).Date()
	da := time.Date(ay, am, ad, 12, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 12, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
