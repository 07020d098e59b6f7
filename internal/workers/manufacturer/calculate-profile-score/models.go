// internal/workers/manufacturer/calculate-profile-score/models.go
package calculateprofilescore

import "marketplace-workers/internal/models"

type Input struct {
	ManufacturerID string                      `json:"manufacturerId"`
	Profile        *models.ManufacturerProfile `json:"profile,omitempty"`
}

type Output struct {
	ManufacturerID      string `json:"manufacturerId,omitempty"`
	InitialScore        int    `json:"initialScore"`
	QualityScore        int    `json:"qualityScore"`
	ProfileCompleteness int    `json:"profileCompleteness"`
}
