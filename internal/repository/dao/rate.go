package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrRateNotFound = errors.New("material rate not found")

type MaterialRate struct {
	ID uint `gorm:"primaryKey"`

	MaterialName  string  `gorm:"not null;index"`
	Category      string  `gorm:"not null;index"`
	Unit          string  `gorm:"not null"`
	CurrentPrice  float64 `gorm:"not null"`
	PreviousPrice float64 `gorm:"not null"`
	ChangePercent float64 `gorm:"not null"`
	QualityGrade  string
	MarketTrend   string
	Source        string
	MinOrder      string
	StockStatus   string

	LastUpdated time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type RateHistory struct {
	ID            uint         `gorm:"primaryKey"`
	RateID        uint         `gorm:"not null;index"`
	Rate          MaterialRate `gorm:"foreignKey:RateID;constraint:OnDelete:CASCADE"`
	Price         float64      `gorm:"not null"`
	PreviousPrice float64      `gorm:"not null"`
	ChangePercent float64      `gorm:"not null"`
	RecordedAt    time.Time    `gorm:"not null;index"`
}

type RateDAO struct {
	db *gorm.DB
}

func NewRateDAO(db *gorm.DB) *RateDAO {
	return &RateDAO{
		db: db,
	}
}

func (d *RateDAO) Insert(ctx context.Context, rate MaterialRate) (MaterialRate, error) {
	result := d.db.WithContext(ctx).Create(&rate)
	if result.Error != nil {
		return MaterialRate{}, result.Error
	}

	return rate, nil
}

// InsertBatch creates all rates in one transaction; either every row is
// persisted or none are.
func (d *RateDAO) InsertBatch(ctx context.Context, rates []MaterialRate) ([]MaterialRate, error) {
	if len(rates) == 0 {
		return rates, nil
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rates).Error
	})
	if err != nil {
		return nil, err
	}

	return rates, nil
}

func (d *RateDAO) FindAll(ctx context.Context) ([]MaterialRate, error) {
	var rates []MaterialRate

	result := d.db.WithContext(ctx).Order("id").Find(&rates)
	if result.Error != nil {
		return nil, result.Error
	}

	return rates, nil
}

func (d *RateDAO) FindByID(ctx context.Context, id uint) (MaterialRate, error) {
	var rate MaterialRate

	result := d.db.WithContext(ctx).First(&rate, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return MaterialRate{}, ErrRateNotFound
		}

		return MaterialRate{}, result.Error
	}

	return rate, nil
}

func (d *RateDAO) Update(ctx context.Context, rate MaterialRate) (MaterialRate, error) {
	result := d.db.WithContext(ctx).Save(&rate)
	if result.Error != nil {
		return MaterialRate{}, result.Error
	}

	return rate, nil
}

// UpdateBatch saves all rates in one transaction. Used by bulk price
// adjustments so a partial failure never leaves a half-applied batch.
func (d *RateDAO) UpdateBatch(ctx context.Context, rates []MaterialRate) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rates {
			if err := tx.Save(&rates[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (d *RateDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&MaterialRate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRateNotFound
	}

	return nil
}

func (d *RateDAO) InsertHistory(ctx context.Context, entry RateHistory) error {
	return d.db.WithContext(ctx).Create(&entry).Error
}

func (d *RateDAO) InsertHistoryBatch(ctx context.Context, entries []RateHistory) error {
	if len(entries) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Create(&entries).Error
}

func (d *RateDAO) FindHistoryByRateID(ctx context.Context, rateID uint) ([]RateHistory, error) {
	var entries []RateHistory

	result := d.db.WithContext(ctx).
		Where("rate_id = ?", rateID).
		Order("recorded_at DESC, id DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
