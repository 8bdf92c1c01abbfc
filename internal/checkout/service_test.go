package checkout

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tool-rental/internal/calendar"
	"github.com/username/tool-rental/internal/catalog"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cat, err := catalog.Default()
	require.NoError(t, err)

	svc := NewService(cat, zap.NewNop())
	svc.newID = func() uuid.UUID {
		return uuid.MustParse("00000000-0000-0000-0000-000000000001")
	}
	return svc
}

func TestService_Checkout(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name         string
		req          Request
		wantDue      civil.Date
		wantDays     int
		wantPre      int64
		wantDiscount int64
		wantFinal    int64
	}{
		{
			"Ladder over July 4 2020",
			Request{ToolCode: "LADW", RentalDays: "3", DiscountPercent: "10", CheckoutDate: "07/02/20"},
			civil.Date{Year: 2020, Month: time.July, Day: 5}, 2, 398, 40, 358,
		},
		{
			"Chainsaw over July 4 2015",
			Request{ToolCode: "CHNS", RentalDays: "5", DiscountPercent: "25", CheckoutDate: "07/02/15"},
			civil.Date{Year: 2015, Month: time.July, Day: 7}, 3, 447, 112, 335,
		},
		{
			"DeWalt jackhammer over Labor Day 2015",
			Request{ToolCode: "JAKD", RentalDays: "6", DiscountPercent: "0", CheckoutDate: "09/03/15"},
			civil.Date{Year: 2015, Month: time.September, Day: 9}, 3, 897, 0, 897,
		},
		{
			"Ridgid jackhammer over July 4 2015",
			Request{ToolCode: "JAKR", RentalDays: "9", DiscountPercent: "0", CheckoutDate: "07/02/15"},
			civil.Date{Year: 2015, Month: time.July, Day: 11}, 5, 1495, 0, 1495,
		},
		{
			"Ridgid jackhammer with half discount rounds up",
			Request{ToolCode: "JAKR", RentalDays: "4", DiscountPercent: "50", CheckoutDate: "07/02/20"},
			civil.Date{Year: 2020, Month: time.July, Day: 6}, 1, 299, 150, 149,
		},
		{
			"Ladder one day one percent",
			Request{ToolCode: "LADW", RentalDays: "1", DiscountPercent: "1", CheckoutDate: "07/01/24"},
			civil.Date{Year: 2024, Month: time.July, Day: 2}, 1, 199, 2, 197,
		},
		{
			"Ladder eleven days ten percent",
			Request{ToolCode: "LADW", RentalDays: "11", DiscountPercent: "10%", CheckoutDate: "07/01/24"},
			civil.Date{Year: 2024, Month: time.July, Day: 12}, 10, 1990, 199, 1791,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agreement, err := svc.Checkout(tt.req)
			require.NoError(t, err)

			assert.Equal(t, "00000000-0000-0000-0000-000000000001", agreement.ID.String())
			assert.Equal(t, tt.req.ToolCode, agreement.Tool.Code)
			assert.Equal(t, agreement.Tool.Type, agreement.Charge.ToolType)
			assert.Equal(t, tt.wantDue, agreement.DueDate)
			assert.Equal(t, tt.wantDays, agreement.Price.ChargeDays)
			assert.Equal(t, tt.wantPre, agreement.Price.PreDiscountMinorUnits)
			assert.Equal(t, tt.wantDiscount, agreement.Price.DiscountMinorUnits)
			assert.Equal(t, tt.wantFinal, agreement.Price.FinalChargeMinorUnits)
		})
	}
}

func TestService_Checkout_InvalidInput(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		req     Request
		wantErr error
		wantMsg string
	}{
		{
			"Discount over 100",
			Request{ToolCode: "JAKR", RentalDays: "5", DiscountPercent: "101", CheckoutDate: "09/03/15"},
			ErrInvalidDiscountPercent, "The discount percentage must be between 0 and 100",
		},
		{
			"Discount of exactly 100",
			Request{ToolCode: "JAKR", RentalDays: "5", DiscountPercent: "100", CheckoutDate: "09/03/15"},
			ErrInvalidDiscountPercent, "The discount percentage must be between 0 and 100",
		},
		{
			"Negative discount",
			Request{ToolCode: "JAKR", RentalDays: "5", DiscountPercent: "-1", CheckoutDate: "09/03/15"},
			ErrInvalidDiscountPercent, "The discount percentage must be between 0 and 100",
		},
		{
			"Discount not a number",
			Request{ToolCode: "JAKR", RentalDays: "5", DiscountPercent: "ten", CheckoutDate: "09/03/15"},
			ErrInvalidDiscountPercent, "The discount percentage must be a valid number",
		},
		{
			"Zero rental days",
			Request{ToolCode: "LADW", RentalDays: "0", DiscountPercent: "10", CheckoutDate: "07/02/20"},
			ErrInvalidRentalDayCount, "The number of rental days must be 1 or greater",
		},
		{
			"Rental days not an integer",
			Request{ToolCode: "LADW", RentalDays: "2.5", DiscountPercent: "10", CheckoutDate: "07/02/20"},
			ErrInvalidRentalDayCount, "The rental day count must be a positive integer",
		},
		{
			"Unknown tool",
			Request{ToolCode: "XXXX", RentalDays: "3", DiscountPercent: "10", CheckoutDate: "07/02/20"},
			ErrInvalidToolCode, "The tool code provided does not match any tool in the catalog",
		},
		{
			"ISO date",
			Request{ToolCode: "LADW", RentalDays: "3", DiscountPercent: "10", CheckoutDate: "2020-07-02"},
			ErrInvalidDateFormat, "The checkout date must be formatted like MM/dd/yy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agreement, err := svc.Checkout(tt.req)
			require.Error(t, err)
			assert.Nil(t, agreement)
			assert.ErrorIs(t, err, tt.wantErr)

			inputErr := IsInputError(err)
			require.NotNil(t, inputErr)
			assert.Equal(t, []string{tt.wantMsg}, inputErr.Messages())
		})
	}
}

func TestService_Checkout_ReportsEveryInvalidField(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Checkout(Request{ToolCode: "NOPE", RentalDays: "-3", DiscountPercent: "150", CheckoutDate: "13/40/20"})
	require.Error(t, err)

	for _, sentinel := range []error{ErrInvalidToolCode, ErrInvalidRentalDayCount, ErrInvalidDiscountPercent, ErrInvalidDateFormat} {
		assert.True(t, errors.Is(err, sentinel), "expected %v", sentinel)
	}

	inputErr := IsInputError(err)
	require.NotNil(t, inputErr)
	assert.Len(t, inputErr.Fields(), 4)
	assert.Equal(t, []string{
		"The number of rental days must be 1 or greater",
		"The discount percentage must be between 0 and 100",
		"The checkout date must be formatted like MM/dd/yy",
		"The tool code provided does not match any tool in the catalog",
	}, inputErr.Messages())
}

func TestInputError_FieldsIsACopy(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Checkout(Request{ToolCode: "NOPE", RentalDays: "3", DiscountPercent: "10", CheckoutDate: "07/02/20"})
	inputErr := IsInputError(err)
	require.NotNil(t, inputErr)

	fields := inputErr.Fields()
	fields[fieldToolCode][0] = "changed"
	fields[fieldRentalDays] = []string{"added"}
	delete(fields, fieldToolCode)

	assert.Equal(t, map[string][]string{
		fieldToolCode: {"The tool code provided does not match any tool in the catalog"},
	}, inputErr.Fields())
	assert.Equal(t, []string{"The tool code provided does not match any tool in the catalog"}, inputErr.Messages())
}

func TestService_Checkout_KeepsDiscountScale(t *testing.T) {
	svc := newTestService(t)

	agreement, err := svc.Checkout(Request{ToolCode: "LADW", RentalDays: "3", DiscountPercent: "10.50", CheckoutDate: "07/02/20"})
	require.NoError(t, err)

	assert.Equal(t, int32(-2), agreement.DiscountPercent.Exponent())
	assert.Equal(t, int64(42), agreement.Price.DiscountMinorUnits) // 3.98 * 10.5% = 0.4179
}

type stubCatalog struct {
	tools    map[string]catalog.Tool
	policies map[string]catalog.ChargePolicy
	holidays []calendar.Rule
}

func (s stubCatalog) LookupTool(code string) (catalog.Tool, bool) {
	tool, ok := s.tools[code]
	return tool, ok
}

func (s stubCatalog) LookupPolicy(toolType string) (catalog.ChargePolicy, bool) {
	policy, ok := s.policies[toolType]
	return policy, ok
}

func (s stubCatalog) Holidays() []calendar.Rule {
	return s.holidays
}

func TestService_Checkout_MissingPolicy(t *testing.T) {
	svc := NewService(stubCatalog{
		tools: map[string]catalog.Tool{"SAWX": {Code: "SAWX", Type: "Saw", Brand: "Bosch"}},
	}, zap.NewNop())

	_, err := svc.Checkout(Request{ToolCode: "SAWX", RentalDays: "1", DiscountPercent: "0", CheckoutDate: "01/02/24"})
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
	assert.Nil(t, IsInputError(err))
}

func TestService_Checkout_InvalidHolidayDate(t *testing.T) {
	svc := NewService(stubCatalog{
		tools:    map[string]catalog.Tool{"SAWX": {Code: "SAWX", Type: "Saw"}},
		policies: map[string]catalog.ChargePolicy{"Saw": {ToolType: "Saw", DailyRateMinorUnits: 100, BillableOnWeekday: true}},
		holidays: []calendar.Rule{calendar.FixedDateRule{Name: "Leap Day", Month: time.February, Day: 29}},
	}, zap.NewNop())

	agreement, err := svc.Checkout(Request{ToolCode: "SAWX", RentalDays: "3", DiscountPercent: "0", CheckoutDate: "01/02/23"})
	assert.Nil(t, agreement)
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}

func TestService_Days(t *testing.T) {
	svc := newTestService(t)

	agreement, err := svc.Checkout(Request{ToolCode: "JAKR", RentalDays: "4", DiscountPercent: "50", CheckoutDate: "07/02/20"})
	require.NoError(t, err)

	days, err := svc.Days(agreement)
	require.NoError(t, err)
	require.Len(t, days, 4)

	assert.Equal(t, calendar.DayTypeHoliday, days[0].Type) // Friday July 3, observed
	assert.Equal(t, calendar.DayTypeWeekend, days[1].Type)
	assert.Equal(t, calendar.DayTypeWeekend, days[2].Type)
	assert.Equal(t, calendar.DayTypeWeekday, days[3].Type)

	chargeable := 0
	for _, d := range days {
		if d.Chargeable {
			chargeable++
		}
	}
	assert.Equal(t, agreement.Price.ChargeDays, chargeable)

	var streamed []calendar.DayInfo
	require.NoError(t, svc.EachDay(agreement, func(day calendar.DayInfo) error {
		streamed = append(streamed, day)
		return nil
	}))
	assert.Equal(t, days, streamed)
}
