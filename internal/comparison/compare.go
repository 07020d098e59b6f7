// internal/comparison/compare.go
package comparison

import (
	"math"
	"sort"
	"strings"

	"marketplace-workers/internal/models"
)

// Component weights for pairwise similarity. They sum to 1.0 so Compare
// stays inside [0,1] without a final normalization pass.
const (
	IndustryWeight = 0.30
	ServicesWeight = 0.30
	MOQWeight      = 0.20
	LocationWeight = 0.20

	// Location sub-score tiers: country match earns the coarse share,
	// a city match on top of it the rest.
	countryTier = 0.6
	cityTier    = 0.4
)

// DefaultSimilarityThreshold is on the 0-100 scale used by FindSimilar.
const DefaultSimilarityThreshold = 50.0

// SimilarityBreakdown carries the per-component sub-scores, each in [0,1].
type SimilarityBreakdown struct {
	Industry float64 `json:"industry"`
	Services float64 `json:"services"`
	MOQ      float64 `json:"moq"`
	Location float64 `json:"location"`
}

type SimilarManufacturer struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"` // 0-100 scale
}

// Compare computes the weighted similarity of two profiles in [0,1].
// Symmetric: Compare(a, b) == Compare(b, a). Missing fields score 0 on
// their component; in particular a Jaccard overlap of two empty service
// lists is defined as 0, not 1.
func Compare(a, b *models.ManufacturerProfile) float64 {
	sim, _ := CompareWithBreakdown(a, b)
	return sim
}

// CompareWithBreakdown is Compare plus the component sub-scores.
func CompareWithBreakdown(a, b *models.ManufacturerProfile) (float64, SimilarityBreakdown) {
	if a == nil || b == nil {
		return 0, SimilarityBreakdown{}
	}

	breakdown := SimilarityBreakdown{
		Industry: industrySimilarity(a.Industry, b.Industry),
		Services: jaccard(a.ServicesOffered, b.ServicesOffered),
		MOQ:      moqProximity(a.MOQ, b.MOQ),
		Location: locationSimilarity(a.Headquarters, b.Headquarters),
	}

	sim := breakdown.Industry*IndustryWeight +
		breakdown.Services*ServicesWeight +
		breakdown.MOQ*MOQWeight +
		breakdown.Location*LocationWeight

	return sim, breakdown
}

// FindSimilar filters candidates whose similarity to source, expressed on
// the 0-100 scale, is at or above threshold. A threshold <= 0 falls back
// to the default. Ordering is descending by similarity; candidates with
// equal scores keep their input order.
func FindSimilar(source *models.ManufacturerProfile, candidates []*models.ManufacturerProfile, threshold float64) []SimilarManufacturer {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	results := []SimilarManufacturer{}
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		similarity := Compare(source, candidate) * 100.0
		if similarity >= threshold {
			results = append(results, SimilarManufacturer{
				ID:         candidate.ID,
				Similarity: similarity,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	return results
}

func industrySimilarity(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return 1
	}
	return 0
}

// jaccard is intersection over union of two service sets, case-insensitive.
// Empty union is defined as 0 similarity.
func jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// moqProximity maps the relative MOQ difference to [0,1]: equal MOQs score
// 1, widely separated ones approach 0. Unset MOQs score 0.
func moqProximity(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	maxMOQ := math.Max(float64(a), float64(b))
	return 1.0 - math.Abs(float64(a)-float64(b))/maxMOQ
}

func locationSimilarity(a, b models.Headquarters) float64 {
	if !equalFoldNonEmpty(a.Country, b.Country) {
		return 0
	}
	score := countryTier
	if equalFoldNonEmpty(a.City, b.City) {
		score += cityTier
	}
	return score
}

func equalFoldNonEmpty(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
