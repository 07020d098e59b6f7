// internal/workers/manufacturer/match-criteria/models.go
package matchcriteria

import "marketplace-workers/internal/models"

type Input struct {
	Manufacturer *models.ManufacturerProfile `json:"manufacturer"`
	Criteria     *models.MatchCriteria       `json:"criteria,omitempty"`
}

type Output struct {
	Matches         bool     `json:"matches"`
	Score           float64  `json:"score"` // fraction of satisfied criteria in [0,1]
	MatchedCriteria []string `json:"matchedCriteria"`
}
