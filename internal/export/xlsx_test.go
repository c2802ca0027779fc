package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rsconstruction/constructhub-api/internal/domain"
)

func TestXLSX(t *testing.T) {
	rates := []domain.MaterialRate{
		{
			MaterialName:  "TMT Steel Bar 12mm",
			Category:      "Steel",
			Unit:          "tonne",
			CurrentPrice:  68000,
			PreviousPrice: 70000,
			ChangePercent: -2.86,
			QualityGrade:  domain.GradeStandard,
			MarketTrend:   domain.TrendFalling,
			Source:        "Local Market",
			LastUpdated:   time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		},
	}

	data, err := XLSX(rates)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Material Name", rows[0][0])
	assert.Equal(t, "Current Price (₹)", rows[0][3])

	assert.Equal(t, "TMT Steel Bar 12mm", rows[1][0])
	assert.Equal(t, "68000", rows[1][3])
	assert.Equal(t, "-2.86", rows[1][5])
	assert.Equal(t, "2025-03-14 09:30:00", rows[1][11])
}

func TestPDF(t *testing.T) {
	rates := []domain.MaterialRate{
		{MaterialName: "OPC Cement", Category: "Cement", CurrentPrice: 420, ChangePercent: 5},
	}

	data, err := PDF(rates, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
