package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/rsconstruction/constructhub-api/internal/domain"
)

type CreateRateRequest struct {
	MaterialName  string  `json:"materialName"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	CurrentPrice  float64 `json:"currentPrice"`
	PreviousPrice float64 `json:"previousPrice,omitempty"`
	QualityGrade  string  `json:"qualityGrade,omitempty"`
	MarketTrend   string  `json:"marketTrend,omitempty"`
	Source        string  `json:"source,omitempty"`
	MinOrder      string  `json:"minOrder,omitempty"`
	StockStatus   string  `json:"stockStatus,omitempty"`
}

func (req *CreateRateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.MaterialName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.CurrentPrice, validation.Required, validation.Min(0.0)),
		validation.Field(&req.PreviousPrice, validation.Min(0.0)),
		validation.Field(&req.QualityGrade, validation.In(
			domain.GradePremium, domain.GradeStandard, domain.GradeEconomy,
			domain.GradeCommercial, domain.GradeIndustrial,
		)),
		validation.Field(&req.MarketTrend, validation.In(
			domain.TrendRising, domain.TrendFalling, domain.TrendStable, domain.TrendVolatile,
		)),
	)
}

func (req *CreateRateRequest) ToDomain() domain.MaterialRate {
	return domain.MaterialRate{
		MaterialName:  req.MaterialName,
		Category:      req.Category,
		Unit:          req.Unit,
		CurrentPrice:  req.CurrentPrice,
		PreviousPrice: req.PreviousPrice,
		QualityGrade:  req.QualityGrade,
		MarketTrend:   req.MarketTrend,
		Source:        req.Source,
		MinOrder:      req.MinOrder,
		StockStatus:   req.StockStatus,
	}
}

type UpdateRateRequest struct {
	MaterialName  *string  `json:"materialName,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	CurrentPrice  *float64 `json:"currentPrice,omitempty"`
	PreviousPrice *float64 `json:"previousPrice,omitempty"`
	QualityGrade  *string  `json:"qualityGrade,omitempty"`
	MarketTrend   *string  `json:"marketTrend,omitempty"`
	Source        *string  `json:"source,omitempty"`
	MinOrder      *string  `json:"minOrder,omitempty"`
	StockStatus   *string  `json:"stockStatus,omitempty"`
}

func (req *UpdateRateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.MaterialName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Category, validation.NilOrNotEmpty, validation.Length(1, 50)),
		validation.Field(&req.CurrentPrice, validation.Min(0.0)),
		validation.Field(&req.PreviousPrice, validation.Min(0.0)),
		validation.Field(&req.QualityGrade, validation.In(
			domain.GradePremium, domain.GradeStandard, domain.GradeEconomy,
			domain.GradeCommercial, domain.GradeIndustrial,
		)),
		validation.Field(&req.MarketTrend, validation.In(
			domain.TrendRising, domain.TrendFalling, domain.TrendStable, domain.TrendVolatile,
		)),
	)
}

func (req *UpdateRateRequest) ToPatch() domain.RatePatch {
	return domain.RatePatch{
		MaterialName:  req.MaterialName,
		Category:      req.Category,
		Unit:          req.Unit,
		CurrentPrice:  req.CurrentPrice,
		PreviousPrice: req.PreviousPrice,
		QualityGrade:  req.QualityGrade,
		MarketTrend:   req.MarketTrend,
		Source:        req.Source,
		MinOrder:      req.MinOrder,
		StockStatus:   req.StockStatus,
	}
}

type BulkUpdateRequest struct {
	RateIDs   []uint  `json:"rateIds"`
	Percent   float64 `json:"percent"`
	Direction string  `json:"direction"`
}

func (req *BulkUpdateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RateIDs, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.Percent, validation.Required, validation.Min(0.01), validation.Max(100.0)),
		validation.Field(&req.Direction, validation.Required, validation.In(
			domain.AdjustIncrease, domain.AdjustDecrease,
		)),
	)
}
