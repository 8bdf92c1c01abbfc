package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/tool-rental/internal/calendar"
	"github.com/username/tool-rental/internal/receipt"
	"github.com/username/tool-rental/pkg/dateutil"
	"go.uber.org/zap"
)

const maxHolidayYears = 200

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List rentable tools and their charges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n🧰 Tool catalog:\n")
			fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
			fmt.Fprintf(out, "  %-5s %-12s %-8s %8s  %-7s %-7s %-7s\n",
				"Code", "Type", "Brand", "Daily", "Weekday", "Weekend", "Holiday")

			for _, tool := range cat.Tools() {
				policy, ok := cat.LookupPolicy(tool.Type)
				if !ok {
					logger.Warn("Tool has no charge policy", zap.String("tool_code", tool.Code))
					continue
				}
				fmt.Fprintf(out, "  %-5s %-12s %-8s %8s  %-7s %-7s %-7s\n",
					tool.Code,
					tool.Type,
					tool.Brand,
					receipt.FormatMinorUnits(policy.DailyRateMinorUnits),
					yesNo(policy.BillableOnWeekday),
					yesNo(policy.BillableOnWeekend),
					yesNo(policy.BillableOnHoliday))
			}

			return nil
		},
	}

	return cmd
}

func holidaysCmd() *cobra.Command {
	var fromYear int
	var toYear int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Show observed holiday dates",
		Long:  "Resolve the catalog's holiday rules for a range of years. Dates are the observed (weekday) dates.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default: current year only
			thisYear := dateutil.Today().Year
			if fromYear == 0 {
				fromYear = thisYear
			}
			if toYear == 0 {
				toYear = fromYear
			}
			if toYear < fromYear {
				return fmt.Errorf("--to (%d) must not be before --from (%d)", toYear, fromYear)
			}
			if toYear-fromYear >= maxHolidayYears {
				return fmt.Errorf("at most %d years can be listed at once", maxHolidayYears)
			}

			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			holidays, err := calendar.ResolveHolidays(cat.Holidays(), calendar.YearRange{Start: fromYear, End: toYear})
			if err != nil {
				return fmt.Errorf("failed to resolve holidays: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n📅 Holidays %d to %d:\n", fromYear, toYear)
			fmt.Fprintln(out, "═══════════════════════════════════════════════════════")
			for _, date := range holidays.Dates() {
				fmt.Fprintf(out, "  %s  %s  %s\n",
					dateutil.FormatISO(date),
					dateutil.Weekday(date).String()[:3],
					holidays.Name(date))
			}
			if holidays.Len() == 0 {
				fmt.Fprintln(out, "  (none)")
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&fromYear, "from", 0, "First year (default: current year)")
	cmd.Flags().IntVar(&toYear, "to", 0, "Last year (default: same as --from)")

	return cmd
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
