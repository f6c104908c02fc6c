package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/usecases/ingest_history"
	"github.com/light-bringer/priceopt-service/internal/pkg/config"
	"github.com/light-bringer/priceopt-service/internal/pkg/logging"
	"github.com/light-bringer/priceopt-service/internal/pkg/retailcsv"
	"github.com/light-bringer/priceopt-service/internal/services"
)

var (
	configPath = flag.String("config", "", "Path to the YAML configuration file")
	csvPath    = flag.String("file", "retail_price.csv", "Retail price CSV to ingest")
	batchSize  = flag.Int("batch", ingest_history.DefaultBatchSize, "Products written per storage call")
	quiet      = flag.Bool("quiet", false, "Disable the progress bar")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("Ingest failed: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logCloser := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logCloser.Close()

	rows, skipped, err := readRows(*csvPath)
	if err != nil {
		return err
	}
	log.Printf("Read %d rows from %s (%d skipped)", len(rows), *csvPath, skipped)

	serviceOpts, err := services.NewServiceOptions(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	req := &ingest_history.Request{
		Rows:      rows,
		Skipped:   skipped,
		BatchSize: *batchSize,
	}
	if !*quiet {
		bar := progressbar.Default(int64(countProducts(rows)), "ingesting")
		req.OnProduct = func(string, int) { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	summary, err := serviceOpts.IngestHistory.Execute(ctx, req)
	if err != nil {
		if summary != nil {
			log.Printf("Stored %d products before failing", summary.Products)
		}
		return err
	}

	fmt.Printf("products=%d records=%d skipped=%d duplicates=%d elapsed=%s\n",
		summary.Products, summary.Records, summary.Skipped, summary.Duplicates, summary.Elapsed)
	return nil
}

// readRows parses the whole file. Malformed rows are logged and counted.
func readRows(path string) ([]retailcsv.Row, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader, err := retailcsv.NewReader(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rows []retailcsv.Row
	skipped := 0
	for {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr *retailcsv.RowError
		if errors.As(err, &rowErr) {
			log.Printf("Skipping %v", rowErr)
			skipped++
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows = append(rows, *row)
	}
	return rows, skipped, nil
}

func countProducts(rows []retailcsv.Row) int {
	seen := make(map[string]struct{})
	for _, row := range rows {
		seen[row.Product.ID] = struct{}{}
	}
	return len(seen)
}
