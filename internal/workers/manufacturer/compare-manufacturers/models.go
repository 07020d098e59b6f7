// internal/workers/manufacturer/compare-manufacturers/models.go
package comparemanufacturers

import (
	"marketplace-workers/internal/comparison"
	"marketplace-workers/internal/models"
)

type Input struct {
	ManufacturerA *models.ManufacturerProfile `json:"manufacturerA"`
	ManufacturerB *models.ManufacturerProfile `json:"manufacturerB"`
}

type Output struct {
	Similarity float64                        `json:"similarity"` // 0-1 scale
	Breakdown  comparison.SimilarityBreakdown `json:"breakdown"`
}
