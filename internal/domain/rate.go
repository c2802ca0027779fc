package domain

import (
	"math"
	"time"
)

// Suggested quality grades. Values are not enforced beyond request validation.
const (
	GradePremium    = "Premium"
	GradeStandard   = "Standard"
	GradeEconomy    = "Economy"
	GradeCommercial = "Commercial"
	GradeIndustrial = "Industrial"
)

const (
	TrendRising   = "rising"
	TrendFalling  = "falling"
	TrendStable   = "stable"
	TrendVolatile = "volatile"
)

const (
	AdjustIncrease = "increase"
	AdjustDecrease = "decrease"
)

type MaterialRate struct {
	ID            uint      `json:"id"`
	MaterialName  string    `json:"materialName"`
	Category      string    `json:"category"`
	Unit          string    `json:"unit"`
	CurrentPrice  float64   `json:"currentPrice"`
	PreviousPrice float64   `json:"previousPrice"`
	ChangePercent float64   `json:"changePercent"`
	QualityGrade  string    `json:"qualityGrade"`
	MarketTrend   string    `json:"marketTrend"`
	Source        string    `json:"source"`
	MinOrder      string    `json:"minOrder"`
	StockStatus   string    `json:"stockStatus"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// RatePatch is a partial update. Nil fields are left untouched.
type RatePatch struct {
	MaterialName  *string
	Category      *string
	Unit          *string
	CurrentPrice  *float64
	PreviousPrice *float64
	QualityGrade  *string
	MarketTrend   *string
	Source        *string
	MinOrder      *string
	StockStatus   *string
}

type RateHistory struct {
	ID            uint      `json:"id"`
	RateID        uint      `json:"rateId"`
	Price         float64   `json:"price"`
	PreviousPrice float64   `json:"previousPrice"`
	ChangePercent float64   `json:"changePercent"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// ComputeChangePercent returns the relative price change in percent, rounded
// to two decimals. A zero previous price always yields zero.
func ComputeChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}

	return round2((current - previous) / previous * 100)
}

// Normalize restores the derived-field invariant: a missing previous price
// defaults to the current price and the change percent is recomputed from the
// two price fields. Change percent is never taken at face value.
func (r *MaterialRate) Normalize() {
	if r.PreviousPrice == 0 {
		r.PreviousPrice = r.CurrentPrice
	}

	r.ChangePercent = ComputeChangePercent(r.CurrentPrice, r.PreviousPrice)
}

// Apply merges a patch into the rate. If either price field is part of the
// patch, the previous price rolls over to the old current price (unless the
// patch sets it explicitly) and the change percent is recomputed.
func (r *MaterialRate) Apply(patch RatePatch) (priceChanged bool) {
	if patch.MaterialName != nil {
		r.MaterialName = *patch.MaterialName
	}
	if patch.Category != nil {
		r.Category = *patch.Category
	}
	if patch.Unit != nil {
		r.Unit = *patch.Unit
	}
	if patch.QualityGrade != nil {
		r.QualityGrade = *patch.QualityGrade
	}
	if patch.MarketTrend != nil {
		r.MarketTrend = *patch.MarketTrend
	}
	if patch.Source != nil {
		r.Source = *patch.Source
	}
	if patch.MinOrder != nil {
		r.MinOrder = *patch.MinOrder
	}
	if patch.StockStatus != nil {
		r.StockStatus = *patch.StockStatus
	}

	if patch.CurrentPrice == nil && patch.PreviousPrice == nil {
		return false
	}

	oldCurrent := r.CurrentPrice
	if patch.CurrentPrice != nil {
		r.CurrentPrice = *patch.CurrentPrice
	}
	if patch.PreviousPrice != nil {
		r.PreviousPrice = *patch.PreviousPrice
	} else if patch.CurrentPrice != nil {
		r.PreviousPrice = oldCurrent
	}

	r.ChangePercent = ComputeChangePercent(r.CurrentPrice, r.PreviousPrice)

	return true
}

// AdjustedPrice computes the new price for a bulk percentage adjustment,
// rounded to the nearest whole amount: 1000 at +5% gives 1050, at -5% gives 950.
func AdjustedPrice(current, percent float64, direction string) float64 {
	factor := 1 + percent/100
	if direction == AdjustDecrease {
		factor = 1 - percent/100
	}

	return math.Round(current * factor)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
