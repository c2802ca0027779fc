package export

import (
	"encoding/json"
	"fmt"

	"github.com/rsconstruction/constructhub-api/internal/domain"
)

// JSON is the lossless format: re-parsing the output yields the input
// collection field for field.
func JSON(rates []domain.MaterialRate) ([]byte, error) {
	if rates == nil {
		rates = []domain.MaterialRate{}
	}

	data, err := json.MarshalIndent(rates, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json.MarshalIndent -> %w", err)
	}

	return data, nil
}
