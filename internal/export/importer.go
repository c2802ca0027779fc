package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rsconstruction/constructhub-api/internal/domain"
)

var (
	ErrEmptySpreadsheet = errors.New("spreadsheet has no data rows")
	ErrNoMaterialColumn = errors.New("no material name column found")
)

// headerAliases maps normalized column headers to rate fields. Uploads come
// from several spreadsheet templates, so each field accepts a few spellings.
var headerAliases = map[string]string{
	"material":      "materialName",
	"materialname":  "materialName",
	"name":          "materialName",
	"item":          "materialName",
	"category":      "category",
	"unit":          "unit",
	"price":         "currentPrice",
	"currentprice":  "currentPrice",
	"rate":          "currentPrice",
	"previousprice": "previousPrice",
	"oldprice":      "previousPrice",
	"quality":       "qualityGrade",
	"qualitygrade":  "qualityGrade",
	"grade":         "qualityGrade",
	"trend":         "marketTrend",
	"markettrend":   "marketTrend",
	"source":        "source",
	"supplier":      "source",
	"minorder":      "minOrder",
	"minimumorder":  "minOrder",
	"stock":         "stockStatus",
	"stockstatus":   "stockStatus",
}

// ParseSpreadsheet reads an uploaded .xlsx or .csv file into rates. Rows
// without a material name or with an unparsable current price are skipped;
// the second return value is the skipped-row count.
func ParseSpreadsheet(filename string, r io.Reader) ([]domain.MaterialRate, int, error) {
	var (
		rows [][]string
		err  error
	)

	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		rows, err = readCSVRows(r)
	} else {
		rows, err = readXLSXRows(r)
	}
	if err != nil {
		return nil, 0, err
	}

	if len(rows) < 2 {
		return nil, 0, ErrEmptySpreadsheet
	}

	columns := map[string]int{}
	for i, h := range rows[0] {
		if field, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, taken := columns[field]; !taken {
				columns[field] = i
			}
		}
	}
	if _, ok := columns["materialName"]; !ok {
		return nil, 0, ErrNoMaterialColumn
	}

	var (
		rates   []domain.MaterialRate
		skipped int
	)
	for _, row := range rows[1:] {
		rate, ok := mapRow(row, columns)
		if !ok {
			skipped++
			continue
		}

		rates = append(rates, rate)
	}

	return rates, skipped, nil
}

func mapRow(row []string, columns map[string]int) (domain.MaterialRate, bool) {
	get := func(field string) string {
		i, ok := columns[field]
		if !ok || i >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[i])
	}

	rate := domain.MaterialRate{
		MaterialName: get("materialName"),
		Category:     get("category"),
		Unit:         get("unit"),
		QualityGrade: get("qualityGrade"),
		MarketTrend:  get("marketTrend"),
		Source:       get("source"),
		MinOrder:     get("minOrder"),
		StockStatus:  get("stockStatus"),
	}
	if rate.MaterialName == "" {
		return domain.MaterialRate{}, false
	}

	current, err := parsePrice(get("currentPrice"))
	if err != nil || current < 0 {
		return domain.MaterialRate{}, false
	}
	rate.CurrentPrice = current

	// Previous price is optional; a bad value just falls back to current.
	if previous, err := parsePrice(get("previousPrice")); err == nil && previous >= 0 {
		rate.PreviousPrice = previous
	}

	rate.Normalize()

	return rate, true
}

func parsePrice(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(strings.TrimPrefix(s, "₹"))
	if s == "" {
		return 0, errors.New("empty price")
	}

	return strconv.ParseFloat(s, 64)
}

// normalizeHeader lowercases and strips everything but letters, so
// "Current Price (₹)" and "current_price" both resolve to "currentprice".
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reader.ReadAll -> %w", err)
	}

	return rows, nil
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenReader -> %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySpreadsheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("f.GetRows -> %w", err)
	}

	return rows, nil
}
