package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsconstruction/constructhub-api/internal/domain"
)

func TestCSV(t *testing.T) {
	updated := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	rates := []domain.MaterialRate{
		{
			MaterialName:  "OPC Cement 53 Grade",
			Category:      "Cement",
			Unit:          "bag",
			CurrentPrice:  420,
			PreviousPrice: 400,
			ChangePercent: 5,
			QualityGrade:  domain.GradePremium,
			MarketTrend:   domain.TrendRising,
			Source:        "UltraTech Dealer",
			MinOrder:      "50 bags",
			StockStatus:   "In Stock",
			LastUpdated:   updated,
		},
		{
			MaterialName:  `Steel, "TMT" 12mm`,
			Category:      "Steel",
			CurrentPrice:  68250.5,
			PreviousPrice: 70000,
			ChangePercent: -2.5,
			LastUpdated:   updated,
		},
	}

	data, err := CSV(rates)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"OPC Cement 53 Grade", "Cement", "bag", "420", "400", "5.00",
		"Premium", "rising", "UltraTech Dealer", "50 bags", "In Stock",
		"2025-03-14 09:30:00",
	}, records[1])

	// Commas and quotes in the name survive the round trip.
	assert.Equal(t, `Steel, "TMT" 12mm`, records[2][0])
	assert.Equal(t, "68250.5", records[2][3])
	assert.Equal(t, "-2.50", records[2][5])
}

func TestCSV_Empty(t *testing.T) {
	data, err := CSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}
