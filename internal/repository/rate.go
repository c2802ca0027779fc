package repository

import (
	"context"
	"fmt"

	"github.com/rsconstruction/constructhub-api/internal/domain"
	"github.com/rsconstruction/constructhub-api/internal/repository/dao"
)

var ErrRateNotFound = dao.ErrRateNotFound

type RateDAO interface {
	Insert(ctx context.Context, rate dao.MaterialRate) (dao.MaterialRate, error)
	InsertBatch(ctx context.Context, rates []dao.MaterialRate) ([]dao.MaterialRate, error)
	FindAll(ctx context.Context) ([]dao.MaterialRate, error)
	FindByID(ctx context.Context, id uint) (dao.MaterialRate, error)
	Update(ctx context.Context, rate dao.MaterialRate) (dao.MaterialRate, error)
	UpdateBatch(ctx context.Context, rates []dao.MaterialRate) error
	Delete(ctx context.Context, id uint) error
	InsertHistory(ctx context.Context, entry dao.RateHistory) error
	InsertHistoryBatch(ctx context.Context, entries []dao.RateHistory) error
	FindHistoryByRateID(ctx context.Context, rateID uint) ([]dao.RateHistory, error)
}

type RateRepository struct {
	dao RateDAO
}

func NewRateRepository(dao RateDAO) *RateRepository {
	return &RateRepository{
		dao: dao,
	}
}

func (r *RateRepository) Create(ctx context.Context, rate domain.MaterialRate) (domain.MaterialRate, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(rate))
	if err != nil {
		return domain.MaterialRate{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RateRepository) CreateBatch(ctx context.Context, rates []domain.MaterialRate) ([]domain.MaterialRate, error) {
	daoRates := make([]dao.MaterialRate, 0, len(rates))
	for _, rate := range rates {
		daoRates = append(daoRates, r.domainToDao(rate))
	}

	created, err := r.dao.InsertBatch(ctx, daoRates)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertBatch -> %w", err)
	}

	result := make([]domain.MaterialRate, 0, len(created))
	for _, rate := range created {
		result = append(result, r.daoToDomain(rate))
	}

	return result, nil
}

func (r *RateRepository) FindAll(ctx context.Context) ([]domain.MaterialRate, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	rates := make([]domain.MaterialRate, 0, len(found))
	for _, rate := range found {
		rates = append(rates, r.daoToDomain(rate))
	}

	return rates, nil
}

func (r *RateRepository) FindByID(ctx context.Context, id uint) (domain.MaterialRate, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.MaterialRate{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RateRepository) Update(ctx context.Context, rate domain.MaterialRate) (domain.MaterialRate, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(rate))
	if err != nil {
		return domain.MaterialRate{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *RateRepository) UpdateBatch(ctx context.Context, rates []domain.MaterialRate) error {
	daoRates := make([]dao.MaterialRate, 0, len(rates))
	for _, rate := range rates {
		daoRates = append(daoRates, r.domainToDao(rate))
	}

	if err := r.dao.UpdateBatch(ctx, daoRates); err != nil {
		return fmt.Errorf("r.dao.UpdateBatch -> %w", err)
	}

	return nil
}

func (r *RateRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *RateRepository) AppendHistory(ctx context.Context, entry domain.RateHistory) error {
	if err := r.dao.InsertHistory(ctx, r.historyDomainToDao(entry)); err != nil {
		return fmt.Errorf("r.dao.InsertHistory -> %w", err)
	}

	return nil
}

func (r *RateRepository) AppendHistoryBatch(ctx context.Context, entries []domain.RateHistory) error {
	daoEntries := make([]dao.RateHistory, 0, len(entries))
	for _, entry := range entries {
		daoEntries = append(daoEntries, r.historyDomainToDao(entry))
	}

	if err := r.dao.InsertHistoryBatch(ctx, daoEntries); err != nil {
		return fmt.Errorf("r.dao.InsertHistoryBatch -> %w", err)
	}

	return nil
}

func (r *RateRepository) FindHistory(ctx context.Context, rateID uint) ([]domain.RateHistory, error) {
	found, err := r.dao.FindHistoryByRateID(ctx, rateID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindHistoryByRateID -> %w", err)
	}

	entries := make([]domain.RateHistory, 0, len(found))
	for _, entry := range found {
		entries = append(entries, domain.RateHistory{
			ID:            entry.ID,
			RateID:        entry.RateID,
			Price:         entry.Price,
			PreviousPrice: entry.PreviousPrice,
			ChangePercent: entry.ChangePercent,
			RecordedAt:    entry.RecordedAt,
		})
	}

	return entries, nil
}

func (r *RateRepository) daoToDomain(m dao.MaterialRate) domain.MaterialRate {
	return domain.MaterialRate{
		ID:            m.ID,
		MaterialName:  m.MaterialName,
		Category:      m.Category,
		Unit:          m.Unit,
		CurrentPrice:  m.CurrentPrice,
		PreviousPrice: m.PreviousPrice,
		ChangePercent: m.ChangePercent,
		QualityGrade:  m.QualityGrade,
		MarketTrend:   m.MarketTrend,
		Source:        m.Source,
		MinOrder:      m.MinOrder,
		StockStatus:   m.StockStatus,
		LastUpdated:   m.LastUpdated,
	}
}

func (r *RateRepository) domainToDao(m domain.MaterialRate) dao.MaterialRate {
	return dao.MaterialRate{
		ID:            m.ID,
		MaterialName:  m.MaterialName,
		Category:      m.Category,
		Unit:          m.Unit,
		CurrentPrice:  m.CurrentPrice,
		PreviousPrice: m.PreviousPrice,
		ChangePercent: m.ChangePercent,
		QualityGrade:  m.QualityGrade,
		MarketTrend:   m.MarketTrend,
		Source:        m.Source,
		MinOrder:      m.MinOrder,
		StockStatus:   m.StockStatus,
		LastUpdated:   m.LastUpdated,
	}
}

func (r *RateRepository) historyDomainToDao(h domain.RateHistory) dao.RateHistory {
	return dao.RateHistory{
		ID:            h.ID,
		RateID:        h.RateID,
		Price:         h.Price,
		PreviousPrice: h.PreviousPrice,
		ChangePercent: h.ChangePercent,
		RecordedAt:    h.RecordedAt,
	}
}
