package pricing

import (
	"github.com/shopspring/decimal"
)

// Breakdown is the priced result of a rental, in minor currency units
type Breakdown struct {
	ChargeDays            int             `json:"charge_days"`
	DailyRateMinorUnits   int64           `json:"daily_rate_minor_units"`
	PreDiscountMinorUnits int64           `json:"pre_discount_minor_units"`
	DiscountMinorUnits    int64           `json:"discount_minor_units"`
	FinalChargeMinorUnits int64           `json:"final_charge_minor_units"`
	DiscountPercent       decimal.Decimal `json:"discount_percent"`
}

// DiscountFraction converts a percentage to a fraction: 10 -> 0.1
func DiscountFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Shift(-2)
}

// RoundHalfUp rounds a non-negative amount to a whole number of minor
// units; exact halves round up (0.5 -> 1)
func RoundHalfUp(amount decimal.Decimal) int64 {
	// Round is half away from zero, which is half-up for non-negative values
	return amount.Round(0).IntPart()
}

// ComputePrice prices chargeDays at dailyRateMinorUnits and applies a
// discount percentage
func ComputePrice(chargeDays int, dailyRateMinorUnits int64, discountPercent decimal.Decimal) Breakdown {
	preDiscount := int64(chargeDays) * dailyRateMinorUnits

	discount := RoundHalfUp(
		DiscountFraction(discountPercent).Mul(decimal.NewFromInt(preDiscount)),
	)

	return Breakdown{
		ChargeDays:            chargeDays,
		DailyRateMinorUnits:   dailyRateMinorUnits,
		PreDiscountMinorUnits: preDiscount,
		DiscountMinorUnits:    discount,
		FinalChargeMinorUnits: preDiscount - discount,
		DiscountPercent:       discountPercent,
	}
}
