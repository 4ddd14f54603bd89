package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"solarconv/internal"
	"solarconv/internal/config"
	"solarconv/internal/pipeline"
	"solarconv/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	must(err)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	switch cmd {
	case "minutes":
		args := os.Args[2:]
		format := ""
		if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
			format, args = args[0], args[1:]
		}
		positional := 0
		if format == "" {
			positional = 1
		}
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		rest, err := cfg.ParseFlags(fs, args, positional)
		must(err)
		if format == "" && len(rest) > 0 {
			format = rest[0]
		}
		if strings.TrimSpace(format) == "" {
			must(fmt.Errorf("minutes needs a format: plain|sl"))
		}
		f, err := pipeline.ParseMinuteFormat(format)
		must(err)
		convert(ctx, cfg, internal.Mode("minutes "+string(f)))
	case "day":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		_, err := cfg.ParseFlags(fs, os.Args[2:], 0)
		must(err)
		convert(ctx, cfg, internal.ModeDay)
	case "kaco":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		_, err := cfg.ParseFlags(fs, os.Args[2:], 0)
		must(err)
		convert(ctx, cfg, internal.ModeKaco)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		in := fs.String("in", filepath.Join(cfg.OutputDir, pipeline.ResultFileName), "result csv to convert")
		out := fs.String("out", "", "output xlsx path")
		header := fs.Bool("header", cfg.Header, "first line of the csv is a header")
		_ = fs.Parse(os.Args[2:])
		must(noExtraArgs(fs))
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		n, err := pipeline.ExportCSVToXLSX(*in, *out, *header)
		must(err)
		fmt.Printf("exported %d rows to %s\n", n, *out)
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		journal := fs.String("journal", cfg.JournalPath, "sqlite run journal")
		limit := fs.Int("limit", 20, "number of runs to list")
		_ = fs.Parse(os.Args[2:])
		must(noExtraArgs(fs))
		if strings.TrimSpace(*journal) == "" {
			must(fmt.Errorf("--journal is required"))
		}
		db, err := storage.Open(*journal)
		must(err)
		runs, err := db.ListRuns(*limit)
		_ = db.Close()
		must(err)
		for _, r := range runs {
			fmt.Printf("%-4d %s %-14s %-6s files=%d rows=%d %dms %s\n", r.ID, r.StartedAt, r.Mode, r.Status, r.Files, r.Rows, r.DurationMs, r.Error)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func convert(ctx context.Context, cfg config.Config, mode internal.Mode) {
	must(cfg.Validate())

	var journal pipeline.Journal
	var db *storage.DB
	if strings.TrimSpace(cfg.JournalPath) != "" {
		var err error
		db, err = storage.Open(cfg.JournalPath)
		must(err)
		journal = db
	}

	svc := pipeline.NewProcessingService(cfg, journal)
	sum, err := svc.Run(ctx, mode)
	if db != nil {
		_ = db.Close()
	}
	must(err)

	output := strings.Join(sum.Outputs, ",")
	if !mode.Tabular() {
		output = fmt.Sprintf("%s (%d files)", cfg.OutputDir, len(sum.Outputs))
	}
	fmt.Printf("%s done files=%d rows=%d output=%s\n", mode, sum.Files, sum.Rows, output)
}

func usage() {
	fmt.Println("usage: solarconv <command> [options]")
	fmt.Println("commands:")
	fmt.Println("  minutes plain|sl   convert minXXYYZZ.json files (plain CSV or Solar-Log .js)")
	fmt.Println("  day                convert the days_hist_all file")
	fmt.Println("  kaco               convert Kaco CSV exports")
	fmt.Println("  export:xlsx --in=output/result.csv --out=result.xlsx")
	fmt.Println("  runs --journal=runs.db [--limit=20]")
	fmt.Println("options:")
	fmt.Println("  --input=input/ --output=output/ --header true --efficiency=98 --udc=230 --xlsx=false --journal=")
}

func noExtraArgs(fs *flag.FlagSet) error {
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return nil
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
