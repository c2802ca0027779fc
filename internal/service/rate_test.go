package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsconstruction/constructhub-api/internal/domain"
	"github.com/rsconstruction/constructhub-api/internal/repository"
)

// fakeRateRepo keeps rates in memory so service logic can be tested
// without a database.
type fakeRateRepo struct {
	nextID  uint
	rates   map[uint]domain.MaterialRate
	history []domain.RateHistory
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{
		nextID: 1,
		rates:  map[uint]domain.MaterialRate{},
	}
}

func (f *fakeRateRepo) Create(_ context.Context, rate domain.MaterialRate) (domain.MaterialRate, error) {
	rate.ID = f.nextID
	f.nextID++
	f.rates[rate.ID] = rate

	return rate, nil
}

func (f *fakeRateRepo) CreateBatch(ctx context.Context, rates []domain.MaterialRate) ([]domain.MaterialRate, error) {
	created := make([]domain.MaterialRate, 0, len(rates))
	for _, r := range rates {
		c, _ := f.Create(ctx, r)
		created = append(created, c)
	}

	return created, nil
}

func (f *fakeRateRepo) FindAll(_ context.Context) ([]domain.MaterialRate, error) {
	all := make([]domain.MaterialRate, 0, len(f.rates))
	for _, r := range f.rates {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return all, nil
}

func (f *fakeRateRepo) FindByID(_ context.Context, id uint) (domain.MaterialRate, error) {
	r, ok := f.rates[id]
	if !ok {
		return domain.MaterialRate{}, repository.ErrRateNotFound
	}

	return r, nil
}

func (f *fakeRateRepo) Update(_ context.Context, rate domain.MaterialRate) (domain.MaterialRate, error) {
	if _, ok := f.rates[rate.ID]; !ok {
		return domain.MaterialRate{}, repository.ErrRateNotFound
	}
	f.rates[rate.ID] = rate

	return rate, nil
}

func (f *fakeRateRepo) UpdateBatch(ctx context.Context, rates []domain.MaterialRate) error {
	for _, r := range rates {
		if _, err := f.Update(ctx, r); err != nil {
			return err
		}
	}

	return nil
}

func (f *fakeRateRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.rates[id]; !ok {
		return repository.ErrRateNotFound
	}
	delete(f.rates, id)

	return nil
}

func (f *fakeRateRepo) AppendHistory(_ context.Context, entry domain.RateHistory) error {
	f.history = append(f.history, entry)

	return nil
}

func (f *fakeRateRepo) AppendHistoryBatch(_ context.Context, entries []domain.RateHistory) error {
	f.history = append(f.history, entries...)

	return nil
}

func (f *fakeRateRepo) FindHistory(_ context.Context, rateID uint) ([]domain.RateHistory, error) {
	var entries []domain.RateHistory
	for _, e := range f.history {
		if e.RateID == rateID {
			entries = append(entries, e)
		}
	}

	return entries, nil
}

func TestRateService_CreateRate(t *testing.T) {
	repo := newFakeRateRepo()
	svc := NewRateService(repo)

	created, err := svc.CreateRate(context.Background(), domain.MaterialRate{
		ID:           99, // client-provided IDs are ignored
		MaterialName: "OPC Cement",
		Category:     "Cement",
		CurrentPrice: 420,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, 420.0, created.PreviousPrice)
	assert.Equal(t, 0.0, created.ChangePercent)
	assert.False(t, created.LastUpdated.IsZero())

	require.Len(t, repo.history, 1)
	assert.Equal(t, created.ID, repo.history[0].RateID)
	assert.Equal(t, 420.0, repo.history[0].Price)
}

func TestRateService_UpdateRate(t *testing.T) {
	floatPtr := func(f float64) *float64 { return &f }
	strPtr := func(s string) *string { return &s }

	t.Run("price change rolls previous over and records history", func(t *testing.T) {
		repo := newFakeRateRepo()
		svc := NewRateService(repo)

		created, err := svc.CreateRate(context.Background(), domain.MaterialRate{
			MaterialName: "TMT Steel", Category: "Steel", CurrentPrice: 68000,
		})
		require.NoError(t, err)

		updated, err := svc.UpdateRate(context.Background(), created.ID, domain.RatePatch{
			CurrentPrice: floatPtr(71400),
		})
		require.NoError(t, err)

		assert.Equal(t, 71400.0, updated.CurrentPrice)
		assert.Equal(t, 68000.0, updated.PreviousPrice)
		assert.InDelta(t, 5.0, updated.ChangePercent, 1e-9)
		assert.Len(t, repo.history, 2)
	})

	t.Run("non-price update skips history", func(t *testing.T) {
		repo := newFakeRateRepo()
		svc := NewRateService(repo)

		created, err := svc.CreateRate(context.Background(), domain.MaterialRate{
			MaterialName: "TMT Steel", Category: "Steel", CurrentPrice: 68000,
		})
		require.NoError(t, err)

		updated, err := svc.UpdateRate(context.Background(), created.ID, domain.RatePatch{
			Source: strPtr("JSW Dealer"),
		})
		require.NoError(t, err)

		assert.Equal(t, "JSW Dealer", updated.Source)
		assert.Equal(t, 68000.0, updated.CurrentPrice)
		assert.Len(t, repo.history, 1) // only the creation entry
	})

	t.Run("unknown rate", func(t *testing.T) {
		svc := NewRateService(newFakeRateRepo())

		_, err := svc.UpdateRate(context.Background(), 42, domain.RatePatch{})
		assert.ErrorIs(t, err, ErrRateNotFound)
	})
}

func TestRateService_ListRates(t *testing.T) {
	repo := newFakeRateRepo()
	svc := NewRateService(repo)

	seed := []domain.MaterialRate{
		{MaterialName: "OPC Cement", Category: "Cement", CurrentPrice: 420, PreviousPrice: 400},
		{MaterialName: "TMT Steel", Category: "Steel", CurrentPrice: 68000, PreviousPrice: 70000},
		{MaterialName: "River Sand", Category: "Aggregates", CurrentPrice: 2400},
	}
	for _, r := range seed {
		_, err := svc.CreateRate(context.Background(), r)
		require.NoError(t, err)
	}

	view, stats, err := svc.ListRates(context.Background(),
		domain.FilterSpec{Category: "Cement"},
		domain.SortSpec{Key: domain.SortByCurrentPrice},
	)
	require.NoError(t, err)

	// The view is filtered but statistics cover the whole collection.
	require.Len(t, view, 1)
	assert.Equal(t, "OPC Cement", view[0].MaterialName)
	assert.Equal(t, 3, stats.TotalMaterials)
	assert.Equal(t, 1, stats.Rising)
	assert.Equal(t, 1, stats.Falling)
	assert.Equal(t, 1, stats.Stable)
}

func TestRateService_BulkAdjust(t *testing.T) {
	seedRates := func(t *testing.T, svc *RateService) []domain.MaterialRate {
		t.Helper()

		var created []domain.MaterialRate
		for _, r := range []domain.MaterialRate{
			{MaterialName: "OPC Cement", Category: "Cement", CurrentPrice: 1000},
			{MaterialName: "TMT Steel", Category: "Steel", CurrentPrice: 68000},
		} {
			c, err := svc.CreateRate(context.Background(), r)
			require.NoError(t, err)
			created = append(created, c)
		}

		return created
	}

	t.Run("five percent increase", func(t *testing.T) {
		repo := newFakeRateRepo()
		svc := NewRateService(repo)
		created := seedRates(t, svc)

		rates, err := svc.BulkAdjust(context.Background(), []uint{created[0].ID}, 5, domain.AdjustIncrease)
		require.NoError(t, err)
		require.Len(t, rates, 2)

		assert.Equal(t, 1050.0, rates[0].CurrentPrice)
		assert.Equal(t, 1000.0, rates[0].PreviousPrice)
		assert.InDelta(t, 5.0, rates[0].ChangePercent, 1e-9)

		// Unselected rate is untouched.
		assert.Equal(t, 68000.0, rates[1].CurrentPrice)
	})

	t.Run("duplicate IDs are applied once", func(t *testing.T) {
		repo := newFakeRateRepo()
		svc := NewRateService(repo)
		created := seedRates(t, svc)

		ids := []uint{created[0].ID, created[0].ID, created[0].ID}
		rates, err := svc.BulkAdjust(context.Background(), ids, 10, domain.AdjustIncrease)
		require.NoError(t, err)

		assert.Equal(t, 1100.0, rates[0].CurrentPrice)
	})

	t.Run("empty selection", func(t *testing.T) {
		svc := NewRateService(newFakeRateRepo())

		_, err := svc.BulkAdjust(context.Background(), nil, 5, domain.AdjustIncrease)
		assert.ErrorIs(t, err, ErrNoRatesSelected)
	})

	t.Run("unknown ID fails the whole batch", func(t *testing.T) {
		repo := newFakeRateRepo()
		svc := NewRateService(repo)
		created := seedRates(t, svc)

		_, err := svc.BulkAdjust(context.Background(), []uint{created[0].ID, 999}, 5, domain.AdjustIncrease)
		assert.ErrorIs(t, err, ErrRateNotFound)

		// Nothing was persisted.
		rate, err := repo.FindByID(context.Background(), created[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, rate.CurrentPrice)
	})
}

func TestRateService_ImportRates(t *testing.T) {
	repo := newFakeRateRepo()
	svc := NewRateService(repo)

	created, err := svc.ImportRates(context.Background(), []domain.MaterialRate{
		{MaterialName: "Fly Ash Bricks", Category: "Bricks", CurrentPrice: 8.5},
		{MaterialName: "Red Clay Bricks", Category: "Bricks", CurrentPrice: 10, PreviousPrice: 9},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, 8.5, created[0].PreviousPrice)
	assert.InDelta(t, 11.11, created[1].ChangePercent, 1e-9)
	assert.Len(t, repo.history, 2)
}

func TestRateService_RateHistory(t *testing.T) {
	repo := newFakeRateRepo()
	svc := NewRateService(repo)

	created, err := svc.CreateRate(context.Background(), domain.MaterialRate{
		MaterialName: "OPC Cement", Category: "Cement", CurrentPrice: 400,
	})
	require.NoError(t, err)

	floatPtr := func(f float64) *float64 { return &f }
	_, err = svc.UpdateRate(context.Background(), created.ID, domain.RatePatch{CurrentPrice: floatPtr(420)})
	require.NoError(t, err)

	entries, err := svc.RateHistory(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	_, err = svc.RateHistory(context.Background(), 999)
	assert.ErrorIs(t, err, ErrRateNotFound)
}
