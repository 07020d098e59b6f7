// internal/comparison/rank.go
package comparison

import (
	"fmt"
	"math"
	"sort"
)

// Normalization cap for certification and service counts when ranking.
const CountNormalizationCap = 10.0

// RankWeights weight the composite ranking score. Callers may supply a
// non-normalized set; Rank validates and normalizes it to sum 1.0.
type RankWeights struct {
	ProfileScore       float64 `json:"profileScore"`
	MatchScore         float64 `json:"matchScore"`
	CertificationCount float64 `json:"certificationCount"`
	ServicesCount      float64 `json:"servicesCount"`
}

// DefaultRankWeights returns the documented default weighting.
func DefaultRankWeights() RankWeights {
	return RankWeights{
		ProfileScore:       0.4,
		MatchScore:         0.3,
		CertificationCount: 0.2,
		ServicesCount:      0.1,
	}
}

// RankInput is one manufacturer's ranking signals. ProfileScore and
// MatchScore are on the 0-100 scale; MatchScore is 0 when the caller has
// no match context for this manufacturer.
type RankInput struct {
	ID                 string  `json:"id"`
	ProfileScore       float64 `json:"profileScore"`
	MatchScore         float64 `json:"matchScore"`
	CertificationCount int     `json:"certificationCount"`
	ServicesCount      int     `json:"servicesCount"`
}

type RankedEntry struct {
	ID    string  `json:"id"`
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// Validate rejects weight sets that would produce NaN or misleading
// scores: every weight must be a finite non-negative number and at least
// one must be positive.
func (w RankWeights) Validate() error {
	for name, v := range map[string]float64{
		"profileScore":       w.ProfileScore,
		"matchScore":         w.MatchScore,
		"certificationCount": w.CertificationCount,
		"servicesCount":      w.ServicesCount,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s is not finite", name)
		}
		if v < 0 {
			return fmt.Errorf("weight %s is negative", name)
		}
	}
	if w.sum() <= 0 {
		return fmt.Errorf("weights sum to zero")
	}
	return nil
}

func (w RankWeights) sum() float64 {
	return w.ProfileScore + w.MatchScore + w.CertificationCount + w.ServicesCount
}

func (w RankWeights) normalized() RankWeights {
	total := w.sum()
	return RankWeights{
		ProfileScore:       w.ProfileScore / total,
		MatchScore:         w.MatchScore / total,
		CertificationCount: w.CertificationCount / total,
		ServicesCount:      w.ServicesCount / total,
	}
}

// Rank orders manufacturers by composite score, descending. A nil weights
// pointer selects the defaults. Ties keep input order, and ranks are the
// 1-based positions after sorting, so equal scores still receive distinct
// consecutive ranks. An empty input yields an empty (non-nil) result.
func Rank(manufacturers []RankInput, weights *RankWeights) ([]RankedEntry, error) {
	w := DefaultRankWeights()
	if weights != nil {
		if err := weights.Validate(); err != nil {
			return nil, fmt.Errorf("invalid ranking weights: %w", err)
		}
		w = weights.normalized()
	}

	entries := make([]RankedEntry, 0, len(manufacturers))
	for _, m := range manufacturers {
		entries = append(entries, RankedEntry{
			ID:    m.ID,
			Score: compositeScore(m, w),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}

func compositeScore(m RankInput, w RankWeights) float64 {
	return normalizeScore(m.ProfileScore)*w.ProfileScore +
		normalizeScore(m.MatchScore)*w.MatchScore +
		normalizeCount(m.CertificationCount)*w.CertificationCount +
		normalizeCount(m.ServicesCount)*w.ServicesCount
}

func normalizeScore(v float64) float64 {
	return math.Min(math.Max(v, 0), 100) / 100.0
}

func normalizeCount(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Min(float64(n)/CountNormalizationCap, 1.0)
}
