package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/optimize_price"
	"github.com/light-bringer/priceopt-service/internal/pkg/config"
	"github.com/light-bringer/priceopt-service/internal/pkg/report"
	"github.com/light-bringer/priceopt-service/internal/services"
)

var (
	configPath = flag.String("config", "", "Path to the YAML configuration file")
	productID  = flag.String("product", "", "Product to optimize")
	xlsxPath   = flag.String("xlsx", "", "Write scenarios and the fitted model to this workbook")
	asJSON     = flag.Bool("json", false, "Print the full result as JSON")
	timeout    = flag.Duration("timeout", time.Minute, "Overall deadline")
)

func main() {
	flag.Parse()
	if *productID == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(); err != nil {
		log.Fatalf("Optimization failed: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	serviceOpts, err := services.NewServiceOptions(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	result, err := serviceOpts.OptimizePrice.Execute(ctx, &optimize_price.Request{ProductID: *productID})
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Printf("product:          %s\n", result.ProductID)
		fmt.Printf("current price:    %.2f\n", result.CurrentPrice)
		fmt.Printf("optimized price:  %.2f (%+.1f%%)\n", result.OptimizedPrice, result.PriceChangePercentage)
		fmt.Printf("expected revenue: %.2f\n", result.ExpectedRevenue)
		fmt.Printf("elasticity:       %.4f\n", result.Elasticity)
		if result.Model != nil {
			fmt.Printf("model r squared:  %.4f (samples %d, ridge lambda %g)\n",
				result.Model.RSquared, result.Model.Samples, result.Model.RidgeLambda)
		}
	}

	if *xlsxPath != "" {
		if err := report.SaveAs(*xlsxPath, result); err != nil {
			return fmt.Errorf("failed to write %s: %w", *xlsxPath, err)
		}
		log.Printf("Wrote %s", *xlsxPath)
	}
	return nil
}
