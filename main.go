package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/giygas/antipsychotic-switch/config"
	"github.com/giygas/antipsychotic-switch/console"
	"github.com/giygas/antipsychotic-switch/conversion"
	"github.com/giygas/antipsychotic-switch/drugtable"
	"github.com/giygas/antipsychotic-switch/interfaces"
	"github.com/giygas/antipsychotic-switch/logging"
	"github.com/giygas/antipsychotic-switch/metrics"
	"github.com/giygas/antipsychotic-switch/scheduler"
	"github.com/giygas/antipsychotic-switch/validation"
	"github.com/joho/godotenv"
)

const (
	exitOK          = 0
	exitLoadFailure = 1
	exitUsage       = 2
)

type options struct {
	tablePath string
	repeat    bool
	check     bool
	verbose   bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("antipsychotic-switch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: antipsychotic-switch [flags] [table-file]\n\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.tablePath, "table", "", "drug table file (csv, tsv, txt, yaml); overrides DRUG_TABLE_PATH")
	fs.BoolVar(&opts.repeat, "repeat", false, "keep converting until exit")
	fs.BoolVar(&opts.check, "check", false, "print the table quality report and the table, then exit")
	fs.BoolVar(&opts.verbose, "v", false, "verbose console logging")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.tablePath = fs.Arg(0)
	default:
		fs.Usage()
		return opts, fmt.Errorf("expected at most one table file, got %d", fs.NArg())
	}

	return opts, nil
}

// loadEnvFile reads .env from the working directory, then from the
// executable's directory. A missing file is not an error.
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(filepath.Dir(ex), ".env"))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return exitLoadFailure
	}

	if opts.tablePath != "" {
		if err := config.ValidateTablePath(opts.tablePath); err != nil {
			fmt.Fprintf(stderr, "Configuration error: %v\n", err)
			return exitLoadFailure
		}
		cfg.DrugTablePath = opts.tablePath
	}

	logs := logging.InitLoggerFromConfig(cfg, opts.verbose)
	defer func() {
		if err := logs.Shutdown(); err != nil {
			fmt.Fprintf(stderr, "Failed to close log file: %v\n", err)
		}
	}()

	slog.Info("Starting antipsychotic switching tool",
		"env", cfg.Env,
		"table", cfg.DrugTablePath,
		"repeat", opts.repeat,
		"check", opts.check)

	var exporter interfaces.MetricsExporter
	if cfg.MetricsTextfile != "" {
		exporter = metrics.NewTextfileExporter(cfg.MetricsTextfile)
	}

	table, err := drugtable.Load(drugtable.SourceFor(cfg.DrugTablePath))
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load drug table: %v\n", err)
		return exitLoadFailure
	}

	validator := validation.NewDataValidator()

	if opts.check {
		report := validator.ReportTableQuality(table, table.Source())
		if err := console.PrintReport(stdout, report, table); err != nil {
			slog.Error("Failed to print table report", "error", err)
		}
		if exporter != nil {
			if err := exporter.Write(); err != nil {
				slog.Warn("Failed to export metrics", "error", err)
			}
		}
		return exitOK
	}

	maintenance := scheduler.NewScheduler(logs, exporter, time.Duration(cfg.MetricsFlushSeconds)*time.Second)
	if err := maintenance.Start(); err != nil {
		slog.Warn("Maintenance scheduler not started", "error", err)
	} else {
		defer maintenance.Stop()
	}

	session := console.NewSession(table, conversion.NewEngine(table), validator, stdin, stdout, opts.repeat)
	if err := session.Run(); err != nil {
		slog.Error("Console session failed", "error", err)
	}

	slog.Info("Antipsychotic switching tool stopped")
	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
