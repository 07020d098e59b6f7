// internal/comparison/match.go
package comparison

import (
	"strings"

	"marketplace-workers/internal/models"
)

// Criterion names reported in MatchResult.MatchedCriteria, in declaration
// order: industry, services, moqRange.
const (
	CriterionIndustry = "industry"
	CriterionServices = "services"
	CriterionMOQRange = "moqRange"
)

// MatchResult reports how a manufacturer fared against a criteria set.
// Matches is true only when every specified criterion passed; Score keeps
// partial credit visible (fraction of specified criteria that passed).
type MatchResult struct {
	Matches         bool     `json:"matches"`
	Score           float64  `json:"score"`
	MatchedCriteria []string `json:"matchedCriteria"`
}

// MatchCriteria evaluates a manufacturer against an optional criteria set.
// A nil or empty criteria set is vacuously satisfied. An MOQ range whose
// min exceeds its max counts as a specified criterion that cannot pass.
func MatchCriteria(m *models.ManufacturerProfile, criteria *models.MatchCriteria) MatchResult {
	matched := []string{}
	specified := 0

	if criteria == nil {
		criteria = &models.MatchCriteria{}
	}

	if industrySpecified(criteria) {
		specified++
		if m != nil && industryMatches(m.Industry, criteria) {
			matched = append(matched, CriterionIndustry)
		}
	}

	if len(criteria.RequiredServices) > 0 {
		specified++
		if m != nil && servicesSubset(criteria.RequiredServices, m.ServicesOffered) {
			matched = append(matched, CriterionServices)
		}
	}

	if criteria.MOQRange != nil {
		specified++
		if m != nil && moqInRange(m.MOQ, criteria.MOQRange) {
			matched = append(matched, CriterionMOQRange)
		}
	}

	if specified == 0 {
		return MatchResult{Matches: true, Score: 1, MatchedCriteria: matched}
	}

	return MatchResult{
		Matches:         len(matched) == specified,
		Score:           float64(len(matched)) / float64(specified),
		MatchedCriteria: matched,
	}
}

func industrySpecified(criteria *models.MatchCriteria) bool {
	return len(criteria.Industries) > 0 || strings.TrimSpace(criteria.Industry) != ""
}

func industryMatches(industry string, criteria *models.MatchCriteria) bool {
	if len(criteria.Industries) > 0 {
		for _, want := range criteria.Industries {
			if equalFoldNonEmpty(industry, want) {
				return true
			}
		}
		return false
	}
	return equalFoldNonEmpty(industry, criteria.Industry)
}

// servicesSubset requires every wanted service to appear in offered.
func servicesSubset(wanted, offered []string) bool {
	offeredSet := toSet(offered)
	for _, w := range wanted {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := offeredSet[w]; !ok {
			return false
		}
	}
	return true
}

func moqInRange(moq int, r *models.MOQRange) bool {
	if r.Max != nil && r.Min > *r.Max {
		// Not satisfiable rather than an error.
		return false
	}
	if moq < r.Min {
		return false
	}
	return r.Max == nil || moq <= *r.Max
}
