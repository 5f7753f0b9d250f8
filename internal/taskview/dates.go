package taskview

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDay parses the YYYY-MM-DD prefix of a date string into local
// midnight. Calendar comparisons must all run through this so a due date
// never shifts by a day across timezones.
func ParseDay(dateString string, loc *time.Location) (time.Time, error) {
	if len(dateString) > len(dateLayout) {
		dateString = dateString[:len(dateLayout)]
	}
	return time.ParseInLocation(dateLayout, dateString, loc)
}

// startOfDay normalizes a moment to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MatchesDateRange reports whether a due date falls into the named range,
// anchored at now's calendar day. A task with no due date matches only
// "no-due-date"; an unrecognized range matches everything.
func MatchesDateRange(dueDate *string, rng string, now time.Time) bool {
	if dueDate == nil || *dueDate == "" {
		return rng == RangeNoDueDate
	}

	day, err := ParseDay(*dueDate, now.Location())
	if err != nil {
		return rng == RangeNoDueDate
	}
	today := startOfDay(now)

	switch rng {
	case RangeOverdue:
		return day.Before(today)
	case RangeToday:
		return day.Equal(today)
	case RangeTomorrow:
		return day.Equal(today.AddDate(0, 0, 1))
	case RangeWeek:
		return !day.Before(today) && !day.After(today.AddDate(0, 0, 7))
	case RangeMonth:
		return !day.Before(today) && !day.After(today.AddDate(0, 1, 0))
	case RangeNoDueDate:
		return false
	default:
		return true
	}
}

// RelativeDateLabel renders a due date as a short human label relative to
// now: "Today", "Tomorrow", a weekday name inside the next week, "Yesterday"
// or "Nd overdue" for the past, and a calendar date otherwise. Returns ""
// when there is no due date.
func RelativeDateLabel(dueDate *string, now time.Time) string {
	if dueDate == nil || *dueDate == "" {
		return ""
	}
	day, err := ParseDay(*dueDate, now.Location())
	if err != nil {
		return ""
	}
	today := startOfDay(now)

	if day.Before(today) {
		daysOverdue := daysBetween(day, today)
		if daysOverdue == 1 {
			return "Yesterday"
		}
		return fmt.Sprintf("%dd overdue", daysOverdue)
	}

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	case day.Before(today.AddDate(0, 0, 7)):
		return day.Weekday().String()
	}

	if day.Year() == today.Year() {
		return day.Format("Jan 2")
	}
	return day.Format("Jan 2, 2006")
}

// IsOverdue reports whether the due date is strictly before now's calendar day.
func IsOverdue(dueDate *string, now time.Time) bool {
	if dueDate == nil || *dueDate == "" {
		return false
	}
	day, err := ParseDay(*dueDate, now.Location())
	if err != nil {
		return false
	}
	return day.Before(startOfDay(now))
}

// DaysUntilDue returns the calendar-day distance to the due date (negative
// when past), or false when there is no due date.
func DaysUntilDue(dueDate *string, now time.Time) (int, bool) {
	if dueDate == nil || *dueDate == "" {
		return 0, false
	}
	day, err := ParseDay(*dueDate, now.Location())
	if err != nil {
		return 0, false
	}
	today := startOfDay(now)
	if day.Before(today) {
		return -daysBetween(day, today), true
	}
	return daysBetween(today, day), true
}

// daysBetween counts calendar days from a to b (a <= b). Iterating by
// AddDate instead of dividing a duration keeps DST transitions from
// producing off-by-one counts.
func daysBetween(a, b time.Time) int {
	days := 0
	for d := a; d.Before(b); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}
