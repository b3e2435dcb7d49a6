package service

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/set-night/ptucalc/internal/config"
	"github.com/set-night/ptucalc/internal/domain"
)

// ExportColumns is the header row of the results sheet.
var ExportColumns = []string{
	"Model Name",
	"Input Token Number",
	"Output Token Number",
	"RPM",
	"Cache Hit Rate (%)",
	"Image Count",
	"Image Tokens",
	"Commitment Type",
	"Required PTU Num",
	"Deployed PTU Num",
	"PTU Utilization",
	"PayGO cost",
	"PTU cost",
	"PTU Cost Saving (%)",
	"Throughput per Dollar (M)",
}

type ExportService struct {
	now func() time.Time
}

func NewExportService() *ExportService {
	return &ExportService{now: time.Now}
}

// FileName is the download name of a workbook written now.
func (s *ExportService) FileName() string {
	return config.ExportFilePrefix + s.now().Format(config.ExportTimeLayout) + ".xlsx"
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// ExportRow renders one result in ExportColumns order.
func ExportRow(r domain.ComparisonResult) []any {
	return []any{
		r.ModelName,
		r.InputTextTokens,
		r.OutputTokens,
		r.RequestsPerMinute,
		r.CacheHitRate,
		r.ImageCount,
		r.ImageTokens,
		r.Term.Title(),
		round(r.RequiredUnits, 2),
		r.DeployedUnits,
		round(r.Utilization, 4),
		r.MeteredCost.Round(2).InexactFloat64(),
		r.CommittedCost.Round(2).InexactFloat64(),
		round(r.CostSavingPercent, 2),
		round(r.ThroughputPerDollar, 4),
	}
}

// Workbook writes the results to a single-sheet xlsx workbook, one row per
// result under a bold header.
func (s *ExportService) Workbook(results []domain.ComparisonResult) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := config.ExportSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(ExportColumns))
	for i, c := range ExportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := ExportRow(r)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return nil, fmt.Errorf("size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
