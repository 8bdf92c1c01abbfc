package dateutil

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// CheckoutLayout is the MM/dd/yy layout used for checkout and due dates
const CheckoutLayout = "01/02/06"

// Weekday returns the day of week for the given date
func Weekday(date civil.Date) time.Weekday {
	return date.In(time.UTC).Weekday()
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(date civil.Date) bool {
	weekday := Weekday(date)
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date civil.Date) bool {
	weekday := Weekday(date)
	return weekday == time.Saturday || weekday == time.Sunday
}

// FirstOfMonth returns the first day of the given month
func FirstOfMonth(year int, month time.Month) civil.Date {
	return civil.Date{Year: year, Month: month, Day: 1}
}

// ParseCheckoutDate parses a MM/dd/yy date string.
// Two-digit years 69-99 map to 19xx, 00-68 to 20xx.
func ParseCheckoutDate(dateStr string) (civil.Date, error) {
	t, err := time.Parse(CheckoutLayout, dateStr)
	if err != nil {
		return civil.Date{}, fmt.Errorf("failed to parse date %q: %w", dateStr, err)
	}
	return civil.DateOf(t), nil
}

// FormatCheckoutDate formats date as MM/dd/yy
func FormatCheckoutDate(date civil.Date) string {
	return date.In(time.UTC).Format(CheckoutLayout)
}

// FormatISO formats date as YYYY-MM-DD
func FormatISO(date civil.Date) string {
	return date.String()
}

// Today returns today's date in local time
func Today() civil.Date {
	return civil.DateOf(time.Now())
}
