package domain

import (
	"sort"
	"strings"
)

type SortKey string

const (
	SortByMaterialName  SortKey = "material_name"
	SortByCategory      SortKey = "category"
	SortByCurrentPrice  SortKey = "current_price"
	SortByChangePercent SortKey = "change_percent"
)

// FilterSpec selects rates by conjunction: a rate is kept only when it
// matches the search term AND the category AND the quality grade.
// Empty fields match everything.
type FilterSpec struct {
	Search   string
	Category string
	Quality  string
}

type SortSpec struct {
	Key  SortKey
	Desc bool
}

func (f FilterSpec) Matches(r MaterialRate) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.MaterialName), term) &&
			!strings.Contains(strings.ToLower(r.Category), term) &&
			!strings.Contains(strings.ToLower(r.Source), term) {
			return false
		}
	}

	if f.Category != "" && r.Category != f.Category {
		return false
	}

	if f.Quality != "" && r.QualityGrade != f.Quality {
		return false
	}

	return true
}

// ApplyView computes the filtered, sorted projection of the collection.
// The input slice is never mutated; the sort is stable so that equal keys
// keep their collection order.
func ApplyView(rates []MaterialRate, filter FilterSpec, sortSpec SortSpec) []MaterialRate {
	view := make([]MaterialRate, 0, len(rates))
	for _, r := range rates {
		if filter.Matches(r) {
			view = append(view, r)
		}
	}

	if sortSpec.Key == "" {
		return view
	}

	sort.SliceStable(view, func(i, j int) bool {
		a, b := view[i], view[j]
		if sortSpec.Desc {
			a, b = b, a
		}

		switch sortSpec.Key {
		case SortByCurrentPrice:
			return a.CurrentPrice < b.CurrentPrice
		case SortByChangePercent:
			return a.ChangePercent < b.ChangePercent
		case SortByCategory:
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		default:
			return strings.ToLower(a.MaterialName) < strings.ToLower(b.MaterialName)
		}
	})

	return view
}

type Statistics struct {
	TotalMaterials int     `json:"totalMaterials"`
	Rising         int     `json:"rising"`
	Falling        int     `json:"falling"`
	Stable         int     `json:"stable"`
	AvgChange      float64 `json:"avgChange"`
	TotalPrice     float64 `json:"totalPrice"`
	AvgPrice       float64 `json:"avgPrice"`
}

// ComputeStatistics aggregates the collection. An empty collection yields
// all-zero statistics rather than a division by zero.
func ComputeStatistics(rates []MaterialRate) Statistics {
	stats := Statistics{TotalMaterials: len(rates)}
	if len(rates) == 0 {
		return stats
	}

	var changeSum float64
	for _, r := range rates {
		switch {
		case r.ChangePercent > 0:
			stats.Rising++
		case r.ChangePercent < 0:
			stats.Falling++
		default:
			stats.Stable++
		}

		changeSum += r.ChangePercent
		stats.TotalPrice += r.CurrentPrice
	}

	stats.AvgChange = round2(changeSum / float64(len(rates)))
	stats.AvgPrice = round2(stats.TotalPrice / float64(len(rates)))

	return stats
}
