package calendar

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

var (
	// ErrInvalidDate is wrapped by InvalidDateError
	ErrInvalidDate = errors.New("invalid calendar date")
	// ErrUnknownRule is returned for holiday rule types the resolver does not handle
	ErrUnknownRule = errors.New("unknown holiday rule")
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWeekday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
)

func (t DayType) String() string {
	switch t {
	case DayTypeWeekday:
		return "weekday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	default:
		return fmt.Sprintf("DayType(%d)", int(t))
	}
}

// DayInfo represents information about a specific rental day
type DayInfo struct {
	Date       civil.Date
	Type       DayType
	Chargeable bool
	Note       string // holiday name, if any
}

// Policy holds the billable flags of a charge policy
type Policy struct {
	WeekdayBillable bool
	WeekendBillable bool
	HolidayBillable bool
}

// YearRange is an inclusive range of calendar years
type YearRange struct {
	Start int
	End   int
}

// InvalidDateError reports a holiday rule that resolves to a date that does not exist
type InvalidDateError struct {
	Rule  string
	Year  int
	Month time.Month
	Day   int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("holiday %q resolves to non-existent date %04d-%02d-%02d",
		e.Rule, e.Year, int(e.Month), e.Day)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}
