package calendar

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/username/tool-rental/pkg/dateutil"
)

// RentalYears returns the years touched by a rental, from the checkout
// year through the year of the due date
func RentalYears(checkout civil.Date, rentalDays int) YearRange {
	return YearRange{
		Start: checkout.Year,
		End:   checkout.AddDays(rentalDays).Year,
	}
}

// ClassifyDay returns the type of date. Holiday membership takes priority.
func ClassifyDay(date civil.Date, holidays HolidaySet) DayType {
	if holidays.Contains(date) {
		return DayTypeHoliday
	}
	if dateutil.IsWeekend(date) {
		return DayTypeWeekend
	}
	return DayTypeWeekday
}

// IsChargeable reports whether the policy charges for date. Weekday/weekend
// and holiday are independent exclusions: a holiday on a weekend is
// excluded if either flag is false.
func (p Policy) IsChargeable(date civil.Date, holidays HolidaySet) bool {
	return p.charges(dateutil.IsWeekend(date), holidays.Contains(date))
}

func (p Policy) charges(weekend, holiday bool) bool {
	switch {
	case weekend && !p.WeekendBillable:
		return false
	case !weekend && !p.WeekdayBillable:
		return false
	case holiday && !p.HolidayBillable:
		return false
	default:
		return true
	}
}

// holidayWindow holds the holidays that can land in one calendar year.
// Observance moves a date by one day at most, so only rules resolved for
// the neighbouring years can reach it. Memory stays bounded by the rule
// count however long the rental is.
type holidayWindow struct {
	rules  []Rule
	years  YearRange
	year   int
	loaded bool
	set    HolidaySet
}

func newHolidayWindow(rules []Rule, years YearRange) *holidayWindow {
	return &holidayWindow{rules: rules, years: years}
}

// forYear returns the holidays of years.Start..years.End that may fall in year
func (w *holidayWindow) forYear(year int) (HolidaySet, error) {
	if w.loaded && w.year == year {
		return w.set, nil
	}

	span := YearRange{
		Start: max(w.years.Start, year-1),
		End:   min(w.years.End, year+1),
	}
	set, err := ResolveHolidays(w.rules, span)
	if err != nil {
		return HolidaySet{}, err
	}

	w.year, w.loaded, w.set = year, true, set
	return set, nil
}

// EachDay calls fn for every rental day, from the day after checkout
// through the due date inclusive. It stops at the first error fn returns.
func EachDay(checkout civil.Date, rentalDays int, policy Policy, rules []Rule, fn func(DayInfo) error) error {
	if rentalDays <= 0 {
		return nil
	}

	window := newHolidayWindow(rules, RentalYears(checkout, rentalDays))
	date := checkout.AddDays(1)
	for i := 0; i < rentalDays; i++ {
		holidays, err := window.forYear(date.Year)
		if err != nil {
			return err
		}

		err = fn(DayInfo{
			Date:       date,
			Type:       ClassifyDay(date, holidays),
			Chargeable: policy.IsChargeable(date, holidays),
			Note:       holidays.Name(date),
		})
		if err != nil {
			return err
		}
		date = date.AddDays(1)
	}

	return nil
}

// DayBreakdown returns one DayInfo per rental day. Use EachDay for long
// rentals.
func DayBreakdown(checkout civil.Date, rentalDays int, policy Policy, rules []Rule) ([]DayInfo, error) {
	var days []DayInfo
	err := EachDay(checkout, rentalDays, policy, rules, func(day DayInfo) error {
		days = append(days, day)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return days, nil
}

// CountChargeableDays counts the rental days the policy charges for.
// A non-positive rentalDays yields 0.
func CountChargeableDays(checkout civil.Date, rentalDays int, policy Policy, rules []Rule) (int, error) {
	if rentalDays <= 0 {
		return 0, nil
	}

	window := newHolidayWindow(rules, RentalYears(checkout, rentalDays))
	date := checkout.AddDays(1)
	weekday := dateutil.Weekday(date)
	count := 0
	for i := 0; i < rentalDays; i++ {
		holidays, err := window.forYear(date.Year)
		if err != nil {
			return 0, err
		}

		weekend := weekday == time.Saturday || weekday == time.Sunday
		if policy.charges(weekend, holidays.Contains(date)) {
			count++
		}

		date = date.AddDays(1)
		weekday = (weekday + 1) % 7
	}

	return count, nil
}
