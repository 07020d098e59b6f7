// internal/workers/manufacturer/find-similar/models.go
package findsimilar

import (
	"marketplace-workers/internal/comparison"
	"marketplace-workers/internal/models"
)

type Input struct {
	Source     *models.ManufacturerProfile   `json:"source"`
	Candidates []*models.ManufacturerProfile `json:"candidates,omitempty"`
	Threshold  float64                       `json:"threshold,omitempty"` // 0-100, default applies when unset
	MaxResults int                           `json:"maxResults,omitempty"`
}

type Output struct {
	Similar []comparison.SimilarManufacturer `json:"similar"`
	Total   int                              `json:"total"`
}
