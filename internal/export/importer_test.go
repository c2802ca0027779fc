package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseSpreadsheet_CSV(t *testing.T) {
	input := strings.Join([]string{
		"Material Name,Category,Unit,Current Price (₹),Previous Price (₹),Quality Grade",
		"OPC Cement 53 Grade,Cement,bag,\"1,420\",400,Premium",
		",Cement,bag,300,290,Standard",
		"Bad Price Row,Cement,bag,not-a-number,290,Standard",
		"River Sand,Aggregates,tonne,₹2400,,Standard",
	}, "\n")

	rates, skipped, err := ParseSpreadsheet("rates.csv", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, rates, 2)

	assert.Equal(t, "OPC Cement 53 Grade", rates[0].MaterialName)
	assert.Equal(t, 1420.0, rates[0].CurrentPrice)
	assert.Equal(t, 400.0, rates[0].PreviousPrice)
	assert.InDelta(t, 255.0, rates[0].ChangePercent, 1e-9)
	assert.Equal(t, "Premium", rates[0].QualityGrade)

	// Missing previous price defaults to the current price.
	assert.Equal(t, "River Sand", rates[1].MaterialName)
	assert.Equal(t, 2400.0, rates[1].CurrentPrice)
	assert.Equal(t, 2400.0, rates[1].PreviousPrice)
	assert.Equal(t, 0.0, rates[1].ChangePercent)
}

func TestParseSpreadsheet_HeaderAliases(t *testing.T) {
	input := strings.Join([]string{
		"Item,Rate,Supplier,Grade",
		"Fly Ash Bricks,8.5,Local Kiln,Economy",
	}, "\n")

	rates, skipped, err := ParseSpreadsheet("upload.csv", strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rates, 1)

	assert.Equal(t, "Fly Ash Bricks", rates[0].MaterialName)
	assert.Equal(t, 8.5, rates[0].CurrentPrice)
	assert.Equal(t, "Local Kiln", rates[0].Source)
	assert.Equal(t, "Economy", rates[0].QualityGrade)
}

func TestParseSpreadsheet_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"Material", "Category", "Price"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	row := []interface{}{"PPC Cement", "Cement", 380}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rates, skipped, err := ParseSpreadsheet("rates.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rates, 1)

	assert.Equal(t, "PPC Cement", rates[0].MaterialName)
	assert.Equal(t, 380.0, rates[0].CurrentPrice)
	assert.Equal(t, 380.0, rates[0].PreviousPrice)
}

func TestParseSpreadsheet_Errors(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		_, _, err := ParseSpreadsheet("rates.csv", strings.NewReader("Material,Price"))
		assert.ErrorIs(t, err, ErrEmptySpreadsheet)
	})

	t.Run("no material column", func(t *testing.T) {
		input := "Color,Price\nred,100"
		_, _, err := ParseSpreadsheet("rates.csv", strings.NewReader(input))
		assert.ErrorIs(t, err, ErrNoMaterialColumn)
	})
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "currentprice", normalizeHeader("Current Price (₹)"))
	assert.Equal(t, "currentprice", normalizeHeader("current_price"))
	assert.Equal(t, "materialname", normalizeHeader(" Material  Name "))
}
