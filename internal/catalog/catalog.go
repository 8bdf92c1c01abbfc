package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/username/tool-rental/internal/calendar"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is wrapped by every catalog validation error
var ErrInvalidCatalog = errors.New("invalid catalog")

const (
	holidayKindFixed      = "fixed"
	holidayKindNthWeekday = "nth_weekday"
)

// Tool represents a rentable tool
type Tool struct {
	Code  string `yaml:"code" json:"code"`
	Type  string `yaml:"type" json:"type"`
	Brand string `yaml:"brand" json:"brand"`
}

// ChargePolicy represents the daily rate and billable days of a tool type
type ChargePolicy struct {
	ToolType            string `yaml:"type" json:"type"`
	DailyRateMinorUnits int64  `yaml:"daily_charge_cents" json:"daily_charge_cents"`
	BillableOnWeekday   bool   `yaml:"weekday_charge" json:"weekday_charge"`
	BillableOnWeekend   bool   `yaml:"weekend_charge" json:"weekend_charge"`
	BillableOnHoliday   bool   `yaml:"holiday_charge" json:"holiday_charge"`
}

// Policy returns the billable flags used by the chargeable-day counter
func (p ChargePolicy) Policy() calendar.Policy {
	return calendar.Policy{
		WeekdayBillable: p.BillableOnWeekday,
		WeekendBillable: p.BillableOnWeekend,
		HolidayBillable: p.BillableOnHoliday,
	}
}

// holidayRecord is the YAML form of a holiday rule
type holidayRecord struct {
	Name                    string `yaml:"name"`
	Kind                    string `yaml:"kind"`
	Month                   int    `yaml:"month"`
	Day                     int    `yaml:"day"`
	Weekday                 string `yaml:"weekday"`
	Ordinal                 int    `yaml:"ordinal"`
	ObserveOnNearestWeekday bool   `yaml:"observe_on_nearest_weekday"`
}

type catalogFile struct {
	Tools    []Tool          `yaml:"tools"`
	Charges  []ChargePolicy  `yaml:"charges"`
	Holidays []holidayRecord `yaml:"holidays"`
}

// Catalog holds the tool, charge policy and holiday catalogs.
// It is read-only once loaded.
type Catalog struct {
	tools    map[string]Tool
	policies map[string]ChargePolicy
	holidays []calendar.Rule
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// LoadFile loads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	cat, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return cat, nil
}

// Load parses and validates a YAML catalog
func Load(data []byte) (*Catalog, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var file catalogFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidCatalog, err)
	}

	cat := &Catalog{
		tools:    make(map[string]Tool, len(file.Tools)),
		policies: make(map[string]ChargePolicy, len(file.Charges)),
		holidays: make([]calendar.Rule, 0, len(file.Holidays)),
	}

	for _, p := range file.Charges {
		if p.ToolType == "" {
			return nil, fmt.Errorf("%w: charge policy without type", ErrInvalidCatalog)
		}
		if _, exists := cat.policies[p.ToolType]; exists {
			return nil, fmt.Errorf("%w: duplicate charge policy for %q", ErrInvalidCatalog, p.ToolType)
		}
		if p.DailyRateMinorUnits < 0 {
			return nil, fmt.Errorf("%w: charge policy %q has negative daily charge", ErrInvalidCatalog, p.ToolType)
		}
		cat.policies[p.ToolType] = p
	}

	for _, tool := range file.Tools {
		if tool.Code == "" {
			return nil, fmt.Errorf("%w: tool without code", ErrInvalidCatalog)
		}
		if _, exists := cat.tools[tool.Code]; exists {
			return nil, fmt.Errorf("%w: duplicate tool code %q", ErrInvalidCatalog, tool.Code)
		}
		if _, ok := cat.policies[tool.Type]; !ok {
			return nil, fmt.Errorf("%w: tool %q has type %q with no charge policy",
				ErrInvalidCatalog, tool.Code, tool.Type)
		}
		cat.tools[tool.Code] = tool
	}

	for i, h := range file.Holidays {
		rule, err := h.rule()
		if err != nil {
			return nil, fmt.Errorf("%w: holiday #%d (%s): %v", ErrInvalidCatalog, i+1, h.Name, err)
		}
		cat.holidays = append(cat.holidays, rule)
	}

	return cat, nil
}

func (h holidayRecord) rule() (calendar.Rule, error) {
	if h.Month < 1 || h.Month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12, got %d", h.Month)
	}

	switch h.Kind {
	case holidayKindFixed:
		if h.Day < 1 || h.Day > 31 {
			return nil, fmt.Errorf("day must be between 1 and 31, got %d", h.Day)
		}
		return calendar.FixedDateRule{
			Name:                    h.Name,
			Month:                   time.Month(h.Month),
			Day:                     h.Day,
			ObserveOnNearestWeekday: h.ObserveOnNearestWeekday,
		}, nil

	case holidayKindNthWeekday:
		weekday, err := parseWeekday(h.Weekday)
		if err != nil {
			return nil, err
		}
		if h.Ordinal < 1 {
			return nil, fmt.Errorf("ordinal must be 1 or greater, got %d", h.Ordinal)
		}
		return calendar.NthWeekdayRule{
			Name:                    h.Name,
			Month:                   time.Month(h.Month),
			Weekday:                 weekday,
			Ordinal:                 h.Ordinal,
			ObserveOnNearestWeekday: h.ObserveOnNearestWeekday,
		}, nil

	default:
		return nil, fmt.Errorf("kind must be %q or %q, got %q", holidayKindFixed, holidayKindNthWeekday, h.Kind)
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// LookupTool returns the tool with the given code
func (c *Catalog) LookupTool(code string) (Tool, bool) {
	tool, ok := c.tools[code]
	return tool, ok
}

// LookupPolicy returns the charge policy for a tool type
func (c *Catalog) LookupPolicy(toolType string) (ChargePolicy, bool) {
	policy, ok := c.policies[toolType]
	return policy, ok
}

// ToolCodes returns all tool codes in ascending order
func (c *Catalog) ToolCodes() []string {
	codes := make([]string, 0, len(c.tools))
	for code := range c.tools {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Tools returns all tools ordered by code
func (c *Catalog) Tools() []Tool {
	codes := c.ToolCodes()
	tools := make([]Tool, 0, len(codes))
	for _, code := range codes {
		tools = append(tools, c.tools[code])
	}
	return tools
}

// Holidays returns a copy of the holiday rules in catalog order
func (c *Catalog) Holidays() []calendar.Rule {
	rules := make([]calendar.Rule, len(c.holidays))
	copy(rules, c.holidays)
	return rules
}
