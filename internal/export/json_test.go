package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsconstruction/constructhub-api/internal/domain"
)

func TestJSON(t *testing.T) {
	rates := []domain.MaterialRate{
		{
			ID:            7,
			MaterialName:  "River Sand",
			Category:      "Aggregates",
			CurrentPrice:  2400,
			PreviousPrice: 2400,
			LastUpdated:   time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		},
	}

	data, err := JSON(rates)
	require.NoError(t, err)

	var decoded []domain.MaterialRate
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rates, decoded)
}

func TestJSON_NilIsEmptyArray(t *testing.T) {
	data, err := JSON(nil)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
