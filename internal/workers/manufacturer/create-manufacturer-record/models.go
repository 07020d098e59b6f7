// internal/workers/manufacturer/create-manufacturer-record/models.go
package createmanufacturerrecord

import "marketplace-workers/internal/models"

type Input struct {
	BusinessID string                     `json:"businessId"`
	Profile    models.ManufacturerProfile `json:"profile"`
}

type Output struct {
	ManufacturerID      string `json:"manufacturerId"`
	Status              string `json:"status"`
	InitialScore        int    `json:"initialScore"`
	ProfileCompleteness int    `json:"profileCompleteness"`
	CreatedAt           string `json:"createdAt"` // ISO 8601
}
