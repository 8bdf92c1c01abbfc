package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/username/tool-rental/internal/catalog"
	"github.com/username/tool-rental/internal/checkout"
	"github.com/username/tool-rental/internal/config"
	"github.com/username/tool-rental/internal/receipt"
	"github.com/username/tool-rental/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

var errCheckoutRejected = errors.New("checkout rejected")

func main() {
	rootCmd := &cobra.Command{
		Use:           "tool-rental",
		Short:         "Tool rental checkout",
		Long:          "Price tool rentals: count chargeable days around weekends and holidays, apply discounts and print the rental agreement",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ., $HOME/.tool-rental, /etc/tool-rental)")

	rootCmd.AddCommand(checkoutCmd())
	rootCmd.AddCommand(toolsCmd())
	rootCmd.AddCommand(holidaysCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func checkoutCmd() *cobra.Command {
	var output string
	var teeOutput string
	var showDays bool

	cmd := &cobra.Command{
		Use:   "checkout <tool code> <rental day count> <discount percent> <check out date>",
		Short: "Check out a tool and print the rental agreement",
		Example: "  tool-rental checkout LADW 3 10 07/02/20\n" +
			"  tool-rental checkout JAKR 9 0 07/02/15 --output json",
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if output == "" {
				output = cfg.Receipt.Output
			}
			if output != "text" && output != "json" {
				return fmt.Errorf("--output must be 'text' or 'json', got '%s'", output)
			}

			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			svc := checkout.NewService(cat, logger)
			agreement, err := svc.Checkout(checkout.Request{
				ToolCode:        args[0],
				RentalDays:      args[1],
				DiscountPercent: args[2],
				CheckoutDate:    args[3],
			})
			if err != nil {
				if inputErr := checkout.IsInputError(err); inputErr != nil {
					printInputError(cmd.ErrOrStderr(), inputErr, cat.ToolCodes())
					return errCheckoutRejected
				}
				return fmt.Errorf("checkout failed: %w", err)
			}

			// Only a priced agreement touches the tee file
			var out io.Writer = cmd.OutOrStdout()
			if teeOutput != "" {
				if err := os.MkdirAll(filepath.Dir(teeOutput), 0o755); err != nil {
					return fmt.Errorf("failed to create tee path: %w", err)
				}
				f, err := os.OpenFile(teeOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open tee-output file: %w", err)
				}
				defer f.Close()
				out = io.MultiWriter(out, f)
			}

			if output == "json" {
				return receipt.WriteJSON(out, agreement)
			}

			if err := receipt.WriteText(out, agreement); err != nil {
				return err
			}

			if showDays {
				table := receipt.NewDayTable(out)
				if err := svc.EachDay(agreement, table.Write); err != nil {
					return fmt.Errorf("failed to build day breakdown: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Receipt format: text or json (default from receipt.output)")
	cmd.Flags().StringVar(&teeOutput, "tee-output", "", "Mirror the receipt to this file")
	cmd.Flags().BoolVar(&showDays, "days", false, "Print a per-day breakdown after the receipt (text output only)")

	return cmd
}

func printInputError(w io.Writer, inputErr *checkout.InputError, toolCodes []string) {
	for _, msg := range inputErr.Messages() {
		fmt.Fprintf(w, "%s\n", msg)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "required arguments: <tool code> <rental day count> <discount percent> <check out date>")
	fmt.Fprintf(w, "  check out date format: MM/dd/yy (e.g. %s)\n", dateutil.FormatCheckoutDate(dateutil.Today()))
	fmt.Fprintf(w, "  tool codes: %s\n", strings.Join(toolCodes, ", "))
}

func loadCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog.UseBuiltinCatalog() {
		return catalog.Default()
	}

	logger.Debug("Loading catalog file", zap.String("path", cfg.Catalog.File))
	cat, err := catalog.LoadFile(cfg.Catalog.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.WarnLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
