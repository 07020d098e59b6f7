// internal/workers/communication/send-notification/models.go
package sendnotification

type Input struct {
	RecipientID      string                 `json:"recipientId"`
	RecipientType    string                 `json:"recipientType"` // "business" or "manufacturer"
	NotificationType string                 `json:"notificationType"`
	ManufacturerID   string                 `json:"manufacturerId,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeMatchFound           = "match_found"
	TypeRegistrationComplete = "registration_complete"
	TypeVerificationApproved = "verification_approved"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Recipient types
const (
	RecipientTypeBusiness     = "business"
	RecipientTypeManufacturer = "manufacturer"
)
