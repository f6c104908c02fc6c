// Package report exports optimization results as spreadsheets.
package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

const (
	ScenariosSheet = "Scenarios"
	ModelSheet     = "Model"
)

var scenarioHeader = []any{"Price", "Predicted Quantity", "Predicted Revenue", "Optimal"}

// Build lays out a result on two sheets: the scenario grid and the fitted
// model summary. The caller closes the returned file.
func Build(result *domain.OptimizationResult) (*excelize.File, error) {
	if result == nil {
		return nil, fmt.Errorf("nil optimization result")
	}

	xl := excelize.NewFile()
	if err := xl.SetSheetName(xl.GetSheetName(0), ScenariosSheet); err != nil {
		_ = xl.Close()
		return nil, err
	}
	if _, err := xl.NewSheet(ModelSheet); err != nil {
		_ = xl.Close()
		return nil, err
	}

	if err := writeScenarios(xl, result); err != nil {
		_ = xl.Close()
		return nil, fmt.Errorf("failed to write scenarios: %w", err)
	}
	if err := writeModel(xl, result); err != nil {
		_ = xl.Close()
		return nil, fmt.Errorf("failed to write model: %w", err)
	}
	return xl, nil
}

// Write renders result as an xlsx workbook into w.
func Write(w io.Writer, result *domain.OptimizationResult) error {
	xl, err := Build(result)
	if err != nil {
		return err
	}
	defer func() { _ = xl.Close() }()

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to render workbook: %w", err)
	}
	_, err = io.Copy(w, bytes.NewReader(buf.Bytes()))
	return err
}

// SaveAs writes the workbook to path.
func SaveAs(path string, result *domain.OptimizationResult) error {
	xl, err := Build(result)
	if err != nil {
		return err
	}
	defer func() { _ = xl.Close() }()
	return xl.SaveAs(path)
}

func writeScenarios(xl *excelize.File, result *domain.OptimizationResult) error {
	if err := xl.SetSheetRow(ScenariosSheet, "A1", &scenarioHeader); err != nil {
		return err
	}
	for i, s := range result.Scenarios {
		marker := ""
		if s.Price == result.OptimizedPrice {
			marker = "*"
		}
		row := []any{s.Price, s.PredictedQuantity, s.PredictedRevenue, marker}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := xl.SetSheetRow(ScenariosSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeModel(xl *excelize.File, result *domain.OptimizationResult) error {
	rows := [][]any{
		{"Product", result.ProductID},
		{"Current Price", result.CurrentPrice},
		{"Optimized Price", result.OptimizedPrice},
		{"Expected Revenue", result.ExpectedRevenue},
		{"Price Change %", result.PriceChangePercentage},
		{"Elasticity", result.Elasticity},
	}
	if m := result.Model; m != nil {
		rows = append(rows,
			[]any{"R Squared", m.RSquared},
			[]any{"Ridge Lambda", m.RidgeLambda},
			[]any{"Samples", m.Samples},
			[]any{"Intercept", m.Intercept},
			[]any{},
			[]any{"Feature", "Coefficient"},
		)
		for i, name := range m.FeatureOrder {
			if i >= len(m.Coefficients) {
				break
			}
			rows = append(rows, []any{name, m.Coefficients[i]})
		}
	}

	for i := range rows {
		if len(rows[i]) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := xl.SetSheetRow(ModelSheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
