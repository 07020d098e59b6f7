// internal/workers/manufacturer/check-verification/models.go
package checkverification

type Input struct {
	ManufacturerID string `json:"manufacturerId"`
}

// Output reports the verification state feeding the quality score.
type Output struct {
	IsVerified    bool   `json:"isVerified"`
	EmailVerified bool   `json:"emailVerified"`
	Tier          string `json:"tier"`
}

// Verification is a manufacturer verification record
type Verification struct {
	ManufacturerID string `json:"manufacturerId"`
	Status         string `json:"status"`
	EmailVerified  bool   `json:"emailVerified"`
	VerifiedAt     string `json:"verifiedAt"`
	Tier           string `json:"tier"`
}
