package checkout

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/username/tool-rental/internal/calendar"
	"github.com/username/tool-rental/internal/catalog"
	"github.com/username/tool-rental/internal/pricing"
	"github.com/username/tool-rental/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	fieldToolCode        = "tool_code"
	fieldRentalDays      = "rental_days"
	fieldDiscountPercent = "discount_percent"
	fieldCheckoutDate    = "checkout_date"
)

var maxDiscountPercent = decimal.NewFromInt(100)

type toolCatalog interface {
	LookupTool(code string) (catalog.Tool, bool)
	LookupPolicy(toolType string) (catalog.ChargePolicy, bool)
	Holidays() []calendar.Rule
}

// Request is a checkout as typed on the command line
type Request struct {
	ToolCode        string
	RentalDays      string
	DiscountPercent string
	CheckoutDate    string
}

// Agreement is a priced tool rental
type Agreement struct {
	ID              uuid.UUID
	Tool            catalog.Tool
	Charge          catalog.ChargePolicy
	RentalDays      int
	CheckoutDate    civil.Date
	DueDate         civil.Date
	DiscountPercent decimal.Decimal
	Price           pricing.Breakdown
}

// Service validates checkout requests and prices rental agreements
type Service struct {
	catalog toolCatalog
	newID   func() uuid.UUID
	logger  *zap.Logger
}

// NewService creates a new checkout service
func NewService(cat toolCatalog, logger *zap.Logger) *Service {
	return &Service{
		catalog: cat,
		newID:   uuid.New,
		logger:  logger,
	}
}

// terms is a validated request
type terms struct {
	tool            catalog.Tool
	rentalDays      int
	discountPercent decimal.Decimal
	checkoutDate    civil.Date
}

func (s *Service) validate(req Request) (*terms, error) {
	inputErr := newInputError()
	t := &terms{}

	rentalDays, err := strconv.Atoi(strings.TrimSpace(req.RentalDays))
	switch {
	case err != nil:
		inputErr.addError(fieldRentalDays, ErrInvalidRentalDayCount,
			"The rental day count must be a positive integer")
	case rentalDays <= 0:
		inputErr.addError(fieldRentalDays, ErrInvalidRentalDayCount,
			"The number of rental days must be 1 or greater")
	default:
		t.rentalDays = rentalDays
	}

	discount, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(req.DiscountPercent), "%"))
	switch {
	case err != nil:
		inputErr.addError(fieldDiscountPercent, ErrInvalidDiscountPercent,
			"The discount percentage must be a valid number")
	case discount.IsNegative() || discount.GreaterThanOrEqual(maxDiscountPercent):
		inputErr.addError(fieldDiscountPercent, ErrInvalidDiscountPercent,
			"The discount percentage must be between 0 and 100")
	default:
		t.discountPercent = discount
	}

	checkoutDate, err := dateutil.ParseCheckoutDate(strings.TrimSpace(req.CheckoutDate))
	if err != nil {
		inputErr.addError(fieldCheckoutDate, ErrInvalidDateFormat,
			"The checkout date must be formatted like MM/dd/yy")
	} else {
		t.checkoutDate = checkoutDate
	}

	tool, ok := s.catalog.LookupTool(strings.TrimSpace(req.ToolCode))
	if !ok {
		inputErr.addError(fieldToolCode, ErrInvalidToolCode,
			"The tool code provided does not match any tool in the catalog")
	} else {
		t.tool = tool
	}

	if inputErr.fieldsCount() > 0 {
		return nil, inputErr
	}

	return t, nil
}

// Checkout validates req and prices the rental. On error no agreement is returned.
func (s *Service) Checkout(req Request) (*Agreement, error) {
	t, err := s.validate(req)
	if err != nil {
		if inputErr := IsInputError(err); inputErr != nil {
			s.logger.Debug("Checkout rejected",
				zap.String("tool_code", req.ToolCode),
				zap.Strings("errors", inputErr.Messages()))
		}
		return nil, err
	}

	charge, ok := s.catalog.LookupPolicy(t.tool.Type)
	if !ok {
		return nil, fmt.Errorf("%w: no charge policy for tool type %q", catalog.ErrInvalidCatalog, t.tool.Type)
	}

	chargeDays, err := calendar.CountChargeableDays(t.checkoutDate, t.rentalDays, charge.Policy(), s.catalog.Holidays())
	if err != nil {
		return nil, fmt.Errorf("failed to count chargeable days: %w", err)
	}

	agreement := &Agreement{
		ID:              s.newID(),
		Tool:            t.tool,
		Charge:          charge,
		RentalDays:      t.rentalDays,
		CheckoutDate:    t.checkoutDate,
		DueDate:         t.checkoutDate.AddDays(t.rentalDays),
		DiscountPercent: t.discountPercent,
		Price:           pricing.ComputePrice(chargeDays, charge.DailyRateMinorUnits, t.discountPercent),
	}

	s.logger.Info("Checkout priced",
		zap.String("agreement_id", agreement.ID.String()),
		zap.String("tool_code", agreement.Tool.Code),
		zap.Int("rental_days", agreement.RentalDays),
		zap.String("checkout_date", agreement.CheckoutDate.String()),
		zap.Int("charge_days", agreement.Price.ChargeDays),
		zap.Int64("final_charge_cents", agreement.Price.FinalChargeMinorUnits))

	return agreement, nil
}

// Days returns the per-day classification of the agreement's rental period
func (s *Service) Days(a *Agreement) ([]calendar.DayInfo, error) {
	return calendar.DayBreakdown(a.CheckoutDate, a.RentalDays, a.Charge.Policy(), s.catalog.Holidays())
}

// EachDay calls fn for every day of the agreement's rental period without
// holding the whole period in memory
func (s *Service) EachDay(a *Agreement, fn func(calendar.DayInfo) error) error {
	return calendar.EachDay(a.CheckoutDate, a.RentalDays, a.Charge.Policy(), s.catalog.Holidays(), fn)
}
