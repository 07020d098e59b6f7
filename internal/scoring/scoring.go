// internal/scoring/scoring.go
package scoring

import (
	"math"
	"strings"

	"marketplace-workers/internal/models"
)

// Point allocations per profile field. The raw sum exceeds 100 on purpose:
// several field subsets can reach full marks, and the total is clamped
// after summing.
const (
	NamePoints         = 10
	DescriptionPoints  = 25
	IndustryPoints     = 20
	ContactEmailPoints = 15
	ServicesPoints     = 30
	MOQPoints          = 20
	CountryPoints      = 20

	EmailVerifiedPoints  = 15
	LongDescriptionBonus = 10
	CertificationPoints  = 10
	CertificationCap     = 25

	// Descriptions longer than this earn the long-form bonus.
	LongDescriptionLength = 50
)

// completenessChecklist is the fixed field checklist behind
// CalculateProfileCompleteness. Each entry contributes an equal share.
var completenessChecklist = []func(*models.ManufacturerProfile) bool{
	func(p *models.ManufacturerProfile) bool { return strings.TrimSpace(p.Name) != "" },
	func(p *models.ManufacturerProfile) bool { return strings.TrimSpace(p.Description) != "" },
	func(p *models.ManufacturerProfile) bool { return strings.TrimSpace(p.Industry) != "" },
	func(p *models.ManufacturerProfile) bool { return strings.TrimSpace(p.ContactEmail) != "" },
	func(p *models.ManufacturerProfile) bool { return len(p.ServicesOffered) > 0 },
	func(p *models.ManufacturerProfile) bool { return p.MOQ > 0 },
	func(p *models.ManufacturerProfile) bool { return strings.TrimSpace(p.Headquarters.Country) != "" },
	func(p *models.ManufacturerProfile) bool { return strings.TrimSpace(p.Headquarters.City) != "" },
	func(p *models.ManufacturerProfile) bool { return len(p.Certifications) > 0 },
	func(p *models.ManufacturerProfile) bool { return p.IsEmailVerified },
}

// CalculateInitialProfileScore scores registration data before the record
// is persisted. Only fields available at registration contribute.
func CalculateInitialProfileScore(p *models.ManufacturerProfile) int {
	if p == nil {
		return 0
	}
	return clamp(baseFieldPoints(p), 0, 100)
}

// CalculateProfileScore scores an existing record, adding verification and
// content-depth credit on top of the registration weights.
func CalculateProfileScore(p *models.ManufacturerProfile) int {
	if p == nil {
		return 0
	}

	score := baseFieldPoints(p)

	if len(p.Certifications) > 0 {
		bonus := len(p.Certifications) * CertificationPoints
		if bonus > CertificationCap {
			bonus = CertificationCap
		}
		score += bonus
	}

	if p.IsEmailVerified {
		score += EmailVerifiedPoints
	}

	if len(strings.TrimSpace(p.Description)) > LongDescriptionLength {
		score += LongDescriptionBonus
	}

	return clamp(score, 0, 100)
}

// CalculateProfileCompleteness returns the percentage of the checklist
// fields that are populated, rounded once at the end.
func CalculateProfileCompleteness(p *models.ManufacturerProfile) int {
	if p == nil {
		return 0
	}

	populated := 0
	for _, present := range completenessChecklist {
		if present(p) {
			populated++
		}
	}

	pct := float64(populated) * 100.0 / float64(len(completenessChecklist))
	return int(math.Round(pct))
}

func baseFieldPoints(p *models.ManufacturerProfile) int {
	score := 0

	if strings.TrimSpace(p.Name) != "" {
		score += NamePoints
	}
	if strings.TrimSpace(p.Description) != "" {
		score += DescriptionPoints
	}
	if strings.TrimSpace(p.Industry) != "" {
		score += IndustryPoints
	}
	if strings.TrimSpace(p.ContactEmail) != "" {
		score += ContactEmailPoints
	}
	if len(p.ServicesOffered) > 0 {
		score += ServicesPoints
	}
	if p.MOQ > 0 {
		score += MOQPoints
	}
	if strings.TrimSpace(p.Headquarters.Country) != "" {
		score += CountryPoints
	}

	return score
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
