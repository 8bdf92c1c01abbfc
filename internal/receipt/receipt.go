package receipt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/username/tool-rental/internal/calendar"
	"github.com/username/tool-rental/internal/checkout"
	"github.com/username/tool-rental/pkg/dateutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatMinorUnits formats cents as US currency, e.g. 123456 -> "$1,234.56"
func FormatMinorUnits(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "$" + usPrinter.Sprintf("%d", cents/100) + fmt.Sprintf(".%02d", cents%100)
}

// printer remembers the first write error so callers check once
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, a ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}

// WriteText writes the rental agreement receipt
func WriteText(w io.Writer, a *checkout.Agreement) error {
	p := &printer{w: w}

	p.printf("Tool code: %s\n", a.Tool.Code)
	p.printf("Tool type: %s\n", a.Tool.Type)
	p.printf("Tool brand: %s\n", a.Tool.Brand)
	p.printf("Rental days: %d\n", a.RentalDays)
	p.printf("Check out date: %s\n", dateutil.FormatCheckoutDate(a.CheckoutDate))
	p.printf("Due date: %s\n", dateutil.FormatCheckoutDate(a.DueDate))
	p.printf("Daily rental charge: %s\n", FormatMinorUnits(a.Charge.DailyRateMinorUnits))
	p.printf("Charge days: %d\n", a.Price.ChargeDays)
	p.printf("Pre-discount charge: %s\n", FormatMinorUnits(a.Price.PreDiscountMinorUnits))
	p.printf("Discount percent: %s%%\n", FormatPercent(a.DiscountPercent))
	p.printf("Discount amount: %s\n", FormatMinorUnits(a.Price.DiscountMinorUnits))
	p.printf("Final charge: %s\n", FormatMinorUnits(a.Price.FinalChargeMinorUnits))

	if p.err != nil {
		return fmt.Errorf("failed to write receipt: %w", p.err)
	}
	return nil
}

// DayTable writes a per-day breakdown one row at a time
type DayTable struct {
	p *printer
}

// NewDayTable writes the table header to w
func NewDayTable(w io.Writer) *DayTable {
	p := &printer{w: w}
	p.printf("\nPer-day breakdown:\n")
	p.printf("  Date       | Day | Type    | Charged | Note\n")
	p.printf("-------------+-----+---------+---------+-----------------\n")
	return &DayTable{p: p}
}

// Write writes one row. It returns the first write error seen so far.
func (t *DayTable) Write(day calendar.DayInfo) error {
	charged := "no"
	if day.Chargeable {
		charged = "yes"
	}
	t.p.printf("  %s | %s | %-7s | %-7s | %s\n",
		dateutil.FormatISO(day.Date),
		dateutil.Weekday(day.Date).String()[:3],
		day.Type,
		charged,
		day.Note)

	if t.p.err != nil {
		return fmt.Errorf("failed to write day breakdown: %w", t.p.err)
	}
	return nil
}

// WriteDays writes a per-day breakdown of the rental period
func WriteDays(w io.Writer, days []calendar.DayInfo) error {
	table := NewDayTable(w)
	for _, day := range days {
		if err := table.Write(day); err != nil {
			return err
		}
	}
	if table.p.err != nil {
		return fmt.Errorf("failed to write day breakdown: %w", table.p.err)
	}
	return nil
}

// FormatPercent prints a percentage with the scale it was entered with:
// "10.50" stays "10.50"
func FormatPercent(percent decimal.Decimal) string {
	places := -percent.Exponent()
	if places < 0 {
		places = 0
	}
	return percent.StringFixed(places)
}

type jsonReceipt struct {
	AgreementID       string `json:"agreement_id"`
	ToolCode          string `json:"tool_code"`
	ToolType          string `json:"tool_type"`
	ToolBrand         string `json:"tool_brand"`
	RentalDays        int    `json:"rental_days"`
	CheckoutDate      string `json:"checkout_date"`
	DueDate           string `json:"due_date"`
	DailyRentalCharge string `json:"daily_rental_charge"`
	ChargeDays        int    `json:"charge_days"`
	PreDiscountCharge string `json:"pre_discount_charge"`
	DiscountPercent   string `json:"discount_percent"`
	DiscountAmount    string `json:"discount_amount"`
	FinalCharge       string `json:"final_charge"`
	FinalChargeCents  int64  `json:"final_charge_cents"`
}

// WriteJSON writes the receipt as a JSON object
func WriteJSON(w io.Writer, a *checkout.Agreement) error {
	r := jsonReceipt{
		AgreementID:       a.ID.String(),
		ToolCode:          a.Tool.Code,
		ToolType:          a.Tool.Type,
		ToolBrand:         a.Tool.Brand,
		RentalDays:        a.RentalDays,
		CheckoutDate:      dateutil.FormatISO(a.CheckoutDate),
		DueDate:           dateutil.FormatISO(a.DueDate),
		DailyRentalCharge: FormatMinorUnits(a.Charge.DailyRateMinorUnits),
		ChargeDays:        a.Price.ChargeDays,
		PreDiscountCharge: FormatMinorUnits(a.Price.PreDiscountMinorUnits),
		DiscountPercent:   FormatPercent(a.DiscountPercent),
		DiscountAmount:    FormatMinorUnits(a.Price.DiscountMinorUnits),
		FinalCharge:       FormatMinorUnits(a.Price.FinalChargeMinorUnits),
		FinalChargeCents:  a.Price.FinalChargeMinorUnits,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}
	return nil
}
