package response

import "github.com/rsconstruction/constructhub-api/internal/domain"

// RatesResponse is the derived view plus collection-wide statistics.
type RatesResponse struct {
	Rates []domain.MaterialRate `json:"rates"`
	Stats domain.Statistics     `json:"stats"`
}

type BulkUpdateResponse struct {
	Rates []domain.MaterialRate `json:"rates"`
}

type ImportResponse struct {
	Created []domain.MaterialRate `json:"created"`
	Skipped int                   `json:"skipped"`
}
