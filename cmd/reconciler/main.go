package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"booking-reconciliation/internal/config"
	"booking-reconciliation/internal/domain"
	"booking-reconciliation/internal/fees"
	"booking-reconciliation/internal/gateway"
	"booking-reconciliation/internal/logger"
	"booking-reconciliation/internal/usecase"

	"go.uber.org/zap"
)

// errUsage reports a command line the user has already been shown help for.
var errUsage = errors.New("invalid command line")

const usage = `Usage: reconciler [-config path] <command> [flags]

Commands:
  reconcile   compare a booking export against a ledger export
  journal     build consolidated revenue journals from a sales extract

Run "reconciler <command> -h" for the flags of a command.
`

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zl, err := logger.ForEnv(cfg.App.Env, cfg.App.Name)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}

	os.Exit(run(zl, cfg, flag.Arg(0), flag.Args()[1:]))
}

// run executes one command and returns the process exit code. Everything
// it opens is released before it returns.
func run(zl *zap.Logger, cfg *config.Config, cmd string, args []string) int {
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// --- Dependency Injection (Wiring the application) ---
	snapshots := gateway.NewFileSnapshotRepository(gateway.LoaderOptions{LedgerHeaderRow: cfg.Ledger.HeaderRow}, zl)

	mappings, closeMappings, err := newMappingRepository(ctx, cfg)
	if err != nil {
		zl.Error("mapping store unavailable", zap.Error(err))
		return 1
	}
	defer closeMappings()

	uc := usecase.NewReconciliationUseCase(snapshots, mappings, zl)

	switch cmd {
	case "reconcile":
		err = runReconcile(ctx, uc, cfg, args)
	case "journal":
		err = runJournal(ctx, uc, cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		return 2
	}
	if errors.Is(err, errUsage) {
		return 2
	}
	if err != nil {
		zl.Error(cmd+" failed", zap.Error(err))
		return 1
	}
	return 0
}

// newMappingRepository returns nil when no mapping store is configured so
// the usecase falls back to its built-in account defaults.
func newMappingRepository(ctx context.Context, cfg *config.Config) (usecase.MappingRepository, func(), error) {
	switch cfg.Mappings.Source {
	case config.MappingsFile:
		return gateway.NewFileMappingRepository(cfg.Mappings.File), func() {}, nil
	case config.MappingsPostgres:
		pool, err := gateway.NewPostgresPool(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return gateway.NewPostgresMappingRepository(pool), pool.Close, nil
	default:
		return nil, func() {}, nil
	}
}

func runReconcile(ctx context.Context, uc *usecase.ReconciliationUseCase, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	bookingsFile := fs.String("bookings", "", "Path to the booking export, CSV or XLSX (required)")
	ledgerFile := fs.String("ledger", "", "Path to the ledger export, CSV or XLSX (required)")
	paymentsFile := fs.String("payments", "", "Path to the platform payments export (optional)")
	format := fs.String("format", cfg.Output.Format, "Output format: json, csv or xlsx")
	outDir := fs.String("out", cfg.Output.Dir, "Output directory; JSON goes to stdout when empty")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *bookingsFile == "" || *ledgerFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -bookings and -ledger are required.")
		fs.Usage()
		return errUsage
	}

	report, err := uc.Reconcile(ctx, *bookingsFile, *ledgerFile, *paymentsFile)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}
	return writeOutput(*format, *outDir, "reconciliation", report, gateway.ReportTables(report))
}

func runJournal(ctx context.Context, uc *usecase.ReconciliationUseCase, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("journal", flag.ContinueOnError)
	salesFile := fs.String("sales", "", "Path to the sales extract, CSV or XLSX (required)")
	dateStr := fs.String("date", "", "Journal date (YYYY-MM-DD); defaults to the latest transaction date")
	operatorOnly := fs.Bool("operator-only", false, "Only build the journal that excludes affiliate-collected transactions")
	quickbooksFile := fs.String("quickbooks", "", "Also write QuickBooks journal entry payloads to this file")
	format := fs.String("format", cfg.Output.Format, "Output format: json, csv or xlsx")
	outDir := fs.String("out", cfg.Output.Dir, "Output directory; JSON goes to stdout when empty")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *salesFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -sales is required.")
		fs.Usage()
		return errUsage
	}

	allocation, err := fees.ParseMode(cfg.Journal.Allocation)
	if err != nil {
		return err
	}
	opts := usecase.JournalOptions{
		EntryPrefix:           cfg.Journal.EntryPrefix,
		Allocation:            allocation,
		IncludeProcessingFees: cfg.Journal.IncludeProcessingFees,
		BalanceTolerance:      cfg.BalanceTolerance(),
		RoundingLimit:         cfg.RoundingLimit(),
	}
	if *dateStr != "" {
		opts.Date, err = time.Parse(time.DateOnly, *dateStr)
		if err != nil {
			return fmt.Errorf("error parsing journal date: %w", err)
		}
	}
	if *operatorOnly {
		opts.Policies = []domain.JournalPolicy{domain.PolicyExcludeAffiliateCollected}
	}

	report, err := uc.GenerateJournals(ctx, *salesFile, opts)
	if err != nil {
		return fmt.Errorf("journal generation failed: %w", err)
	}

	if *quickbooksFile != "" {
		if err := writeQuickBooks(*quickbooksFile, report); err != nil {
			return err
		}
	}
	return writeOutput(*format, *outDir, "journal", report, gateway.JournalTables(report))
}

func writeQuickBooks(path string, report *domain.JournalReport) error {
	now := time.Now()
	payloads := make([]gateway.QuickBooksJournalEntry, 0, len(report.Journals))
	for i := range report.Journals {
		entry, warnings := gateway.QuickBooksPayload(&report.Journals[i], now)
		payloads = append(payloads, entry)
		report.Warnings = append(report.Warnings, warnings...)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()
	return gateway.WriteJSON(file, payloads)
}

// writeOutput presents a report. JSON without an output directory goes to
// stdout; everything else is written under dir.
func writeOutput(format, dir, name string, report any, tables []*gateway.Table) error {
	if format == config.FormatJSON && dir == "" {
		return gateway.WriteJSON(os.Stdout, report)
	}
	if dir == "" {
		dir = "."
	}

	switch format {
	case config.FormatJSON:
		return writeFile(filepath.Join(dir, name+".json"), func(f *os.File) error {
			return gateway.WriteJSON(f, report)
		})
	case config.FormatCSV:
		paths, err := gateway.WriteCSV(filepath.Join(dir, name), tables)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	case config.FormatXLSX:
		return writeFile(filepath.Join(dir, name+".xlsx"), func(f *os.File) error {
			return gateway.WriteWorkbook(f, tables)
		})
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
