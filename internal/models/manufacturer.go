// internal/models/manufacturer.go
package models

// Headquarters is the manufacturer location block. Country is the coarse
// tier used by comparison; city refines it.
type Headquarters struct {
	Country string `json:"country"`
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
}

// ManufacturerProfile is the scoring/comparison input record. Every field
// is optional; missing fields degrade scores rather than erroring.
type ManufacturerProfile struct {
	ID              string       `json:"id,omitempty"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Industry        string       `json:"industry"`
	ContactEmail    string       `json:"contactEmail"`
	ServicesOffered []string     `json:"servicesOffered"`
	MOQ             int          `json:"moq"`
	Headquarters    Headquarters `json:"headquarters"`
	Certifications  []string     `json:"certifications"`
	IsEmailVerified bool         `json:"isEmailVerified"`

	// ProfileCompleteness is the cached checklist percentage. The scoring
	// package recomputes it; this field only carries the persisted value.
	ProfileCompleteness int `json:"profileCompleteness,omitempty"`
}

type Manufacturer struct {
	ManufacturerProfile

	BusinessID    string `json:"businessId"`
	Status        string `json:"status"` // "pending", "active", "suspended"
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
	InquiryCount  int    `json:"inquiryCount"`
	ViewCount     int    `json:"viewCount"`
	ContactPhone  string `json:"contactPhone,omitempty"`
	Website       string `json:"website,omitempty"`
	EmployeeCount int    `json:"employeeCount,omitempty"`
}

type ManufacturerVerification struct {
	ManufacturerID     string `json:"manufacturerId"`
	VerificationStatus string `json:"verificationStatus"`
	EmailVerified      bool   `json:"emailVerified"`
	VerifiedAt         string `json:"verifiedAt"`
	Tier               string `json:"tier"`
}

// MOQRange is an inclusive bounds check in match criteria. A nil Max leaves
// the range open above.
type MOQRange struct {
	Min int  `json:"min"`
	Max *int `json:"max,omitempty"`
}

// MatchCriteria is the criteria set for match-criteria evaluation.
// Industry and Industries are alternatives; when both are set the list
// wins. A nil MOQRange means the bound is not specified.
type MatchCriteria struct {
	Industry         string    `json:"industry,omitempty"`
	Industries       []string  `json:"industries,omitempty"`
	RequiredServices []string  `json:"requiredServices,omitempty"`
	MOQRange         *MOQRange `json:"moqRange,omitempty"`
}
