package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rsconstruction/constructhub-api/internal/domain"
)

const SheetName = "Daily Rates"

// XLSX builds a single-sheet workbook with currency-annotated headers.
func XLSX(rates []domain.MaterialRate) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return nil, fmt.Errorf("f.SetSheetName -> %w", err)
	}

	header := []interface{}{
		"Material Name",
		"Category",
		"Unit",
		"Current Price (₹)",
		"Previous Price (₹)",
		"Change (%)",
		"Quality Grade",
		"Market Trend",
		"Source",
		"Min Order",
		"Stock Status",
		"Last Updated",
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	row := 2
	for _, r := range rates {
		excelRow := []interface{}{
			r.MaterialName,
			r.Category,
			r.Unit,
			r.CurrentPrice,
			r.PreviousPrice,
			r.ChangePercent,
			r.QualityGrade,
			r.MarketTrend,
			r.Source,
			r.MinOrder,
			r.StockStatus,
			r.LastUpdated.Format("2006-01-02 15:04:05"),
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("f.SetSheetRow -> %w", err)
		}

		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("f.WriteToBuffer -> %w", err)
	}

	return buf.Bytes(), nil
}
