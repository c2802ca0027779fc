package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeChangePercent(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"rising price", 110, 100, 10},
		{"falling price", 90, 100, -10},
		{"unchanged price", 100, 100, 0},
		{"zero previous yields zero", 100, 0, 0},
		{"rounds to two decimals", 100, 3, 3233.33},
		{"small change", 101.5, 100, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeChangePercent(tt.current, tt.previous), 1e-9)
		})
	}
}

func TestMaterialRate_Normalize(t *testing.T) {
	t.Run("missing previous price defaults to current", func(t *testing.T) {
		r := MaterialRate{CurrentPrice: 450}
		r.Normalize()

		assert.Equal(t, 450.0, r.PreviousPrice)
		assert.Equal(t, 0.0, r.ChangePercent)
	})

	t.Run("change percent is recomputed, not trusted", func(t *testing.T) {
		r := MaterialRate{CurrentPrice: 110, PreviousPrice: 100, ChangePercent: 99}
		r.Normalize()

		assert.InDelta(t, 10.0, r.ChangePercent, 1e-9)
	})
}

func TestMaterialRate_Apply(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	floatPtr := func(f float64) *float64 { return &f }

	t.Run("non-price fields merge without touching prices", func(t *testing.T) {
		r := MaterialRate{MaterialName: "Cement", CurrentPrice: 400, PreviousPrice: 380, ChangePercent: 5.26}

		changed := r.Apply(RatePatch{MaterialName: strPtr("OPC Cement"), Source: strPtr("Local Market")})

		assert.False(t, changed)
		assert.Equal(t, "OPC Cement", r.MaterialName)
		assert.Equal(t, "Local Market", r.Source)
		assert.Equal(t, 400.0, r.CurrentPrice)
		assert.Equal(t, 380.0, r.PreviousPrice)
		assert.InDelta(t, 5.26, r.ChangePercent, 1e-9)
	})

	t.Run("new current price rolls previous over", func(t *testing.T) {
		r := MaterialRate{CurrentPrice: 400, PreviousPrice: 380}

		changed := r.Apply(RatePatch{CurrentPrice: floatPtr(440)})

		assert.True(t, changed)
		assert.Equal(t, 440.0, r.CurrentPrice)
		assert.Equal(t, 400.0, r.PreviousPrice)
		assert.InDelta(t, 10.0, r.ChangePercent, 1e-9)
	})

	t.Run("explicit previous price wins over rollover", func(t *testing.T) {
		r := MaterialRate{CurrentPrice: 400, PreviousPrice: 380}

		changed := r.Apply(RatePatch{CurrentPrice: floatPtr(440), PreviousPrice: floatPtr(400)})

		assert.True(t, changed)
		assert.Equal(t, 400.0, r.PreviousPrice)
		assert.InDelta(t, 10.0, r.ChangePercent, 1e-9)
	})

	t.Run("previous price alone recomputes change", func(t *testing.T) {
		r := MaterialRate{CurrentPrice: 110, PreviousPrice: 110}

		changed := r.Apply(RatePatch{PreviousPrice: floatPtr(100)})

		assert.True(t, changed)
		assert.Equal(t, 110.0, r.CurrentPrice)
		assert.InDelta(t, 10.0, r.ChangePercent, 1e-9)
	})
}

func TestAdjustedPrice(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		percent   float64
		direction string
		want      float64
	}{
		{"five percent increase", 1000, 5, AdjustIncrease, 1050},
		{"five percent decrease", 1000, 5, AdjustDecrease, 950},
		{"rounds to nearest whole amount", 333, 10, AdjustIncrease, 366},
		{"ten percent decrease rounds", 333, 10, AdjustDecrease, 300},
		{"small base price", 7, 50, AdjustIncrease, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustedPrice(tt.current, tt.percent, tt.direction))
		})
	}
}
