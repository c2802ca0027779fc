package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rsconstruction/constructhub-api/internal/domain"
)

// PDF renders a titled landscape report: generation date, a summary line and
// the tabular body. Prices are printed with the "Rs." prefix because the
// core fonts have no rupee glyph.
func PDF(rates []domain.MaterialRate, generatedAt time.Time) ([]byte, error) {
	stats := domain.ComputeStatistics(rates)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "ConstructHub Pro - Daily Material Rates", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("02 Jan 2006 15:04")), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total materials: %d | Average change: %.2f%%", stats.TotalMaterials, stats.AvgChange), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Material", "Category", "Unit", "Current (Rs.)", "Previous (Rs.)", "Change %", "Grade", "Trend"}
	widths := []float64{55, 35, 20, 32, 32, 25, 30, 28}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rates {
		cells := []string{
			r.MaterialName,
			r.Category,
			r.Unit,
			fmt.Sprintf("%.2f", r.CurrentPrice),
			fmt.Sprintf("%.2f", r.PreviousPrice),
			fmt.Sprintf("%.2f", r.ChangePercent),
			r.QualityGrade,
			r.MarketTrend,
		}
		for i, c := range cells {
			align := "L"
			if i >= 3 && i <= 5 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf.Output -> %w", err)
	}

	return buf.Bytes(), nil
}
