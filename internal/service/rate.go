package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rsconstruction/constructhub-api/internal/domain"
	"github.com/rsconstruction/constructhub-api/internal/repository"
)

var (
	ErrRateNotFound    = repository.ErrRateNotFound
	ErrNoRatesSelected = errors.New("no rates selected for bulk update")
)

type RateRepository interface {
	Create(ctx context.Context, rate domain.MaterialRate) (domain.MaterialRate, error)
	CreateBatch(ctx context.Context, rates []domain.MaterialRate) ([]domain.MaterialRate, error)
	FindAll(ctx context.Context) ([]domain.MaterialRate, error)
	FindByID(ctx context.Context, id uint) (domain.MaterialRate, error)
	Update(ctx context.Context, rate domain.MaterialRate) (domain.MaterialRate, error)
	UpdateBatch(ctx context.Context, rates []domain.MaterialRate) error
	Delete(ctx context.Context, id uint) error
	AppendHistory(ctx context.Context, entry domain.RateHistory) error
	AppendHistoryBatch(ctx context.Context, entries []domain.RateHistory) error
	FindHistory(ctx context.Context, rateID uint) ([]domain.RateHistory, error)
}

type RateService struct {
	repo RateRepository
}

func NewRateService(repo RateRepository) *RateService {
	return &RateService{
		repo: repo,
	}
}

// ListRates returns the filtered, sorted view of the collection together
// with statistics over the whole collection. Records are normalized on the
// way out so a missing previous price never leaks a stale change percent.
func (s *RateService) ListRates(ctx context.Context, filter domain.FilterSpec, sortSpec domain.SortSpec) ([]domain.MaterialRate, domain.Statistics, error) {
	rates, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, domain.Statistics{}, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	for i := range rates {
		rates[i].Normalize()
	}

	stats := domain.ComputeStatistics(rates)
	view := domain.ApplyView(rates, filter, sortSpec)

	return view, stats, nil
}

func (s *RateService) CreateRate(ctx context.Context, rate domain.MaterialRate) (domain.MaterialRate, error) {
	rate.ID = 0
	rate.Normalize()
	rate.LastUpdated = time.Now()

	created, err := s.repo.Create(ctx, rate)
	if err != nil {
		return domain.MaterialRate{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if err := s.repo.AppendHistory(ctx, historyEntry(created)); err != nil {
		return domain.MaterialRate{}, fmt.Errorf("s.repo.AppendHistory -> %w", err)
	}

	return created, nil
}

func (s *RateService) UpdateRate(ctx context.Context, id uint, patch domain.RatePatch) (domain.MaterialRate, error) {
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.MaterialRate{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	priceChanged := rate.Apply(patch)
	rate.LastUpdated = time.Now()

	updated, err := s.repo.Update(ctx, rate)
	if err != nil {
		return domain.MaterialRate{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if priceChanged {
		if err := s.repo.AppendHistory(ctx, historyEntry(updated)); err != nil {
			return domain.MaterialRate{}, fmt.Errorf("s.repo.AppendHistory -> %w", err)
		}
	}

	return updated, nil
}

func (s *RateService) DeleteRate(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// BulkAdjust applies a uniform percentage change to the selected rates in a
// single batch and returns the refreshed full collection. Duplicate IDs in
// the selection are collapsed so a rate is never adjusted twice.
func (s *RateService) BulkAdjust(ctx context.Context, ids []uint, percent float64, direction string) ([]domain.MaterialRate, error) {
	if len(ids) == 0 {
		return nil, ErrNoRatesSelected
	}

	selected := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	rates, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	byID := make(map[uint]int, len(rates))
	for i, r := range rates {
		byID[r.ID] = i
	}

	now := time.Now()
	changed := make([]domain.MaterialRate, 0, len(selected))
	entries := make([]domain.RateHistory, 0, len(selected))

	for id := range selected {
		i, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("rate %d: %w", id, ErrRateNotFound)
		}

		rate := rates[i]
		rate.PreviousPrice = rate.CurrentPrice
		rate.CurrentPrice = domain.AdjustedPrice(rate.CurrentPrice, percent, direction)
		rate.ChangePercent = domain.ComputeChangePercent(rate.CurrentPrice, rate.PreviousPrice)
		rate.LastUpdated = now

		changed = append(changed, rate)
		entries = append(entries, historyEntry(rate))
	}

	if err := s.repo.UpdateBatch(ctx, changed); err != nil {
		return nil, fmt.Errorf("s.repo.UpdateBatch -> %w", err)
	}

	if err := s.repo.AppendHistoryBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("s.repo.AppendHistoryBatch -> %w", err)
	}

	refreshed, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return refreshed, nil
}

// ImportRates batch-creates rows parsed from an uploaded spreadsheet.
func (s *RateService) ImportRates(ctx context.Context, rates []domain.MaterialRate) ([]domain.MaterialRate, error) {
	now := time.Now()
	for i := range rates {
		rates[i].ID = 0
		rates[i].Normalize()
		rates[i].LastUpdated = now
	}

	created, err := s.repo.CreateBatch(ctx, rates)
	if err != nil {
		return nil, fmt.Errorf("s.repo.CreateBatch -> %w", err)
	}

	entries := make([]domain.RateHistory, 0, len(created))
	for _, rate := range created {
		entries = append(entries, historyEntry(rate))
	}
	if err := s.repo.AppendHistoryBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("s.repo.AppendHistoryBatch -> %w", err)
	}

	return created, nil
}

func (s *RateService) RateHistory(ctx context.Context, rateID uint) ([]domain.RateHistory, error) {
	if _, err := s.repo.FindByID(ctx, rateID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	entries, err := s.repo.FindHistory(ctx, rateID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindHistory -> %w", err)
	}

	return entries, nil
}

func historyEntry(rate domain.MaterialRate) domain.RateHistory {
	return domain.RateHistory{
		RateID:        rate.ID,
		Price:         rate.CurrentPrice,
		PreviousPrice: rate.PreviousPrice,
		ChangePercent: rate.ChangePercent,
		RecordedAt:    rate.LastUpdated,
	}
}
