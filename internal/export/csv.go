// Package export serializes rate collections to the download formats the
// portal offers (CSV, XLSX, PDF, JSON) and parses uploaded spreadsheets back
// into rates.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rsconstruction/constructhub-api/internal/domain"
)

var csvHeader = []string{
	"Material Name",
	"Category",
	"Unit",
	"Current Price",
	"Previous Price",
	"Change %",
	"Quality Grade",
	"Market Trend",
	"Source",
	"Min Order",
	"Stock Status",
	"Last Updated",
}

// CSV renders one row per rate, RFC 4180 quoting, prices and percentages raw.
func CSV(rates []domain.MaterialRate) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("w.Write -> %w", err)
	}

	for _, r := range rates {
		record := []string{
			r.MaterialName,
			r.Category,
			r.Unit,
			formatPrice(r.CurrentPrice),
			formatPrice(r.PreviousPrice),
			strconv.FormatFloat(r.ChangePercent, 'f', 2, 64),
			r.QualityGrade,
			r.MarketTrend,
			r.Source,
			r.MinOrder,
			r.StockStatus,
			r.LastUpdated.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("w.Write -> %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("w.Error -> %w", err)
	}

	return buf.Bytes(), nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
