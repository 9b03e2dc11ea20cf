package types

import "time"

// Period is a preset time window applied to issue creation dates
type Period string

const (
	PeriodAllTime     Period = "Tudo"
	PeriodThisMonth   Period = "Este Mês"
	PeriodLastMonth   Period = "Mês Passado"
	PeriodLastQuarter Period = "Último Trimestre"
	PeriodThisYear    Period = "Este Ano"
)

// DefaultPeriod is the period of a fresh filter selection
const DefaultPeriod = PeriodAllTime

// AllPeriods returns the recognized periods in display order
func AllPeriods() []Period {
	return []Period{
		PeriodAllTime,
		PeriodThisMonth,
		PeriodLastMonth,
		PeriodLastQuarter,
		PeriodThisYear,
	}
}

// String returns the string representation of the period
func (p Period) String() string {
	return string(p)
}

// IsValid checks if the period belongs to the recognized enumeration
func (p Period) IsValid() bool {
	for _, known := range AllPeriods() {
		if p == known {
			return true
		}
	}
	return false
}

// Range returns the inclusive day window of the period relative to now.
// bounded is false for PeriodAllTime and for unrecognized values, which
// means no time filter applies.
func (p Period) Range(now time.Time) (start, end time.Time, bounded bool) {
	today := truncateDay(now)

	switch p {
	case PeriodThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), today, true
	case PeriodLastMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)
		last := first.AddDate(0, 1, -1)
		return first, last, true
	case PeriodLastQuarter:
		return today.AddDate(0, -3, 0), today, true
	case PeriodThisYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location()), today, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains reports whether t falls on a day inside the period window
func (p Period) Contains(now, t time.Time) bool {
	start, end, bounded := p.Range(now)
	if !bounded {
		return true
	}
	day := truncateDay(t.In(now.Location()))
	return !day.Before(start) && !day.After(end)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
