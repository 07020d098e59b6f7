// internal/workers/manufacturer/apply-ranking/models.go
package applyranking

import "marketplace-workers/internal/comparison"

type Input struct {
	Manufacturers []comparison.RankInput  `json:"manufacturers"`
	Weights       *comparison.RankWeights `json:"weights,omitempty"`
	MaxItems      int                     `json:"maxItems,omitempty"`
}

type Output struct {
	Ranked []comparison.RankedEntry `json:"ranked"`
	Total  int                      `json:"total"`
}
