/*
main.go - periodctl, the command-line front end of the period engine

PURPOSE:
  Resolves reporting periods for extraction jobs without running the HTTP
  server. Output is JSON on stdout so job schedulers can consume it.

MODES:
  single    -year 2024 -type quarter -number 1 [-wait 1m0d]
  batch     -batch periods.yaml
  calendar  -calendar -year 2024 -type month [-xlsx out.xlsx] [-pdf out.pdf]

  Single and batch results can be stored as runs with -save <dataset>
  (database from -db or database.path).

CONFIGURATION:
  Reads the same config file and PERIOD_* environment as the server; only
  period.default_wait, database.path and logging.level are used.

EXAMPLES:
  periodctl -year 2024 -type m -number 3
  periodctl -batch nightly.yaml -save births -db ./data/periods.db
  periodctl -calendar -year 2025 -type week -wait 0m7d -xlsx weeks.xlsx
*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/warp/period-engine/config"
	"github.com/warp/period-engine/export"
	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store/sqlite"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "periodctl: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	year       int
	typ        string
	number     int
	wait       string
	batch      string
	calendar   bool
	xlsxPath   string
	pdfPath    string
	save       string
	dbPath     string
	verbose    bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("periodctl", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "path to config file")
	fs.IntVar(&o.year, "year", 0, "reporting year")
	fs.StringVar(&o.typ, "type", "", "period type: year, halfyear, quarter, month, week (or alias)")
	fs.IntVar(&o.number, "number", 0, "period number (ignored for year)")
	fs.StringVar(&o.wait, "wait", "", "follow-up wait as <months>m<days>d (default from config)")
	fs.StringVar(&o.batch, "batch", "", "YAML file with a list of periods")
	fs.BoolVar(&o.calendar, "calendar", false, "list every period of -type in -year")
	fs.StringVar(&o.xlsxPath, "xlsx", "", "with -calendar: write an XLSX file")
	fs.StringVar(&o.pdfPath, "pdf", "", "with -calendar: write a PDF file")
	fs.StringVar(&o.save, "save", "", "store results as runs for this dataset")
	fs.StringVar(&o.dbPath, "db", "", "SQLite database path (overrides config)")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.batch != "" && o.calendar {
		return o, errors.New("-batch and -calendar are mutually exclusive")
	}
	if o.calendar && o.save != "" {
		return o, errors.New("-save is not supported with -calendar")
	}
	if (o.xlsxPath != "" || o.pdfPath != "") && !o.calendar {
		return o, errors.New("-xlsx and -pdf require -calendar")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	v, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	v.Set("logging.format", "console")
	if o.verbose {
		v.Set("logging.level", "debug")
	} else {
		v.Set("logging.level", "warn")
	}
	if o.dbPath != "" {
		v.Set("database.path", o.dbPath)
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(v)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.Named("periodctl")

	wait, err := cfg.Period.Wait()
	if err != nil {
		return err
	}
	if o.wait != "" {
		if wait, err = period.ParseWaitPeriod(o.wait); err != nil {
			return err
		}
	}

	if o.calendar {
		return runCalendar(o, wait, stdout, logger)
	}

	var eps []*period.EventParams
	if o.batch != "" {
		f, err := os.Open(o.batch)
		if err != nil {
			return err
		}
		defer f.Close()
		if eps, err = ResolveBatch(f, wait); err != nil {
			return fmt.Errorf("%s: %w", o.batch, err)
		}
	} else {
		ep, err := period.NewEventParams(period.Input{
			Year:         o.year,
			PeriodType:   o.typ,
			PeriodNumber: o.number,
			WaitPeriod:   &wait,
		})
		if err != nil {
			return err
		}
		eps = []*period.EventParams{ep}
	}
	logger.Debug("resolved periods", zap.Int("count", len(eps)))

	results := make([]Result, len(eps))
	for i, ep := range eps {
		results[i] = newResult(ep)
	}

	if o.save != "" {
		store, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		defer store.Close()
		for i, ep := range eps {
			saved, err := store.SaveRun(ctx, o.save, ep)
			if err != nil {
				return err
			}
			results[i].RunID = saved.ID
			logger.Info("run saved", zap.String("id", saved.ID), zap.String("label", ep.TaggedLabel()))
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if o.batch == "" {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}

func runCalendar(o options, wait period.WaitPeriod, stdout io.Writer, logger *zap.Logger) error {
	t, err := period.ParseType(o.typ)
	if err != nil {
		return err
	}
	eps, err := period.PeriodsInYear(o.year, t, wait)
	if err != nil {
		return err
	}

	if o.xlsxPath != "" {
		data, err := export.BuildCalendarXLSX(eps)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.xlsxPath, data, 0o644); err != nil {
			return err
		}
		logger.Info("calendar written", zap.String("path", o.xlsxPath))
	}
	if o.pdfPath != "" {
		title := fmt.Sprintf("Reporting periods %d (%s, etterslep %s)", o.year, t, wait)
		data, err := export.BuildCalendarPDF(title, eps)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.pdfPath, data, 0o644); err != nil {
			return err
		}
		logger.Info("calendar written", zap.String("path", o.pdfPath))
	}
	if o.xlsxPath != "" || o.pdfPath != "" {
		return nil
	}

	results := make([]Result, len(eps))
	for i, ep := range eps {
		results[i] = newResult(ep)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
