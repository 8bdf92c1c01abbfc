package calendar

import (
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/username/tool-rental/pkg/dateutil"
)

// Rule is a holiday rule. The set of implementations is closed:
// FixedDateRule and NthWeekdayRule.
type Rule interface {
	HolidayName() string
	isRule()
}

// FixedDateRule is a holiday on the same calendar date every year
type FixedDateRule struct {
	Name                    string
	Month                   time.Month
	Day                     int
	ObserveOnNearestWeekday bool
}

// NthWeekdayRule is a holiday on the Nth given weekday of a month,
// e.g. the 1st Monday of September
type NthWeekdayRule struct {
	Name                    string
	Month                   time.Month
	Weekday                 time.Weekday
	Ordinal                 int
	ObserveOnNearestWeekday bool
}

func (r FixedDateRule) HolidayName() string  { return r.Name }
func (r NthWeekdayRule) HolidayName() string { return r.Name }

func (FixedDateRule) isRule()  {}
func (NthWeekdayRule) isRule() {}

// ResolveRule returns the date the rule falls on in year, after weekend
// observance. ok is false when the rule has no occurrence that year
// (an NthWeekdayRule whose ordinal runs past the end of the month).
func ResolveRule(rule Rule, year int) (date civil.Date, ok bool, err error) {
	switch r := rule.(type) {
	case FixedDateRule:
		date = civil.Date{Year: year, Month: r.Month, Day: r.Day}
		if !date.IsValid() {
			return civil.Date{}, false, &InvalidDateError{
				Rule:  r.Name,
				Year:  year,
				Month: r.Month,
				Day:   r.Day,
			}
		}
		return observe(date, r.ObserveOnNearestWeekday), true, nil

	case NthWeekdayRule:
		first := dateutil.FirstOfMonth(year, r.Month)
		if !first.IsValid() {
			return civil.Date{}, false, &InvalidDateError{
				Rule:  r.Name,
				Year:  year,
				Month: r.Month,
				Day:   1,
			}
		}

		offset := (int(r.Weekday) - int(dateutil.Weekday(first)) + 7) % 7
		date = first.AddDays(offset + 7*(r.Ordinal-1))

		// e.g. "5th Monday" in a month with four Mondays: no holiday that year
		if date.Month != r.Month || date.Year != year {
			return civil.Date{}, false, nil
		}
		return observe(date, r.ObserveOnNearestWeekday), true, nil

	default:
		return civil.Date{}, false, fmt.Errorf("%w: %T", ErrUnknownRule, rule)
	}
}

// Observe moves a Saturday back to Friday and a Sunday forward to Monday.
// Weekdays are returned unchanged.
func Observe(date civil.Date) civil.Date {
	switch dateutil.Weekday(date) {
	case time.Saturday:
		return date.AddDays(-1)
	case time.Sunday:
		return date.AddDays(1)
	default:
		return date
	}
}

func observe(date civil.Date, enabled bool) civil.Date {
	if !enabled {
		return date
	}
	return Observe(date)
}

// HolidaySet is a set of resolved holiday dates
type HolidaySet struct {
	dates map[civil.Date]string // date -> holiday name
}

// NewHolidaySet creates an empty HolidaySet
func NewHolidaySet() HolidaySet {
	return HolidaySet{dates: make(map[civil.Date]string)}
}

// Add adds date to the set. The first name registered for a date wins.
func (s HolidaySet) Add(date civil.Date, name string) {
	if _, exists := s.dates[date]; exists {
		return
	}
	s.dates[date] = name
}

// Contains reports whether date is a holiday
func (s HolidaySet) Contains(date civil.Date) bool {
	_, ok := s.dates[date]
	return ok
}

// Name returns the holiday name for date
func (s HolidaySet) Name(date civil.Date) string {
	return s.dates[date]
}

// Len returns the number of distinct holiday dates
func (s HolidaySet) Len() int {
	return len(s.dates)
}

// Dates returns the holiday dates in ascending order
func (s HolidaySet) Dates() []civil.Date {
	dates := make([]civil.Date, 0, len(s.dates))
	for d := range s.dates {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

// ResolveHolidays resolves every rule for every year in years
func ResolveHolidays(rules []Rule, years YearRange) (HolidaySet, error) {
	set := NewHolidaySet()

	for _, rule := range rules {
		for year := years.Start; year <= years.End; year++ {
			date, ok, err := ResolveRule(rule, year)
			if err != nil {
				return HolidaySet{}, fmt.Errorf("failed to resolve holiday %q for %d: %w",
					rule.HolidayName(), year, err)
			}
			if ok {
				set.Add(date, rule.HolidayName())
			}
		}
	}

	return set, nil
}
