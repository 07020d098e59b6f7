// internal/workers/communication/send-notification/handler.go
package sendnotification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	awsclients "marketplace-workers/internal/common/aws"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/common/validation"
	"marketplace-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config      *Config
	db          *sql.DB
	logger      logger.Logger
	sesClient   SESService
	snsClient   SNSService
	templateMap map[string]models.NotificationTemplate
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	templateData, err := loadTemplates(config.TemplateRegistry)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	sesClient, err := awsclients.NewSESClient(context.Background(), config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("create SES client: %w", err)
	}
	snsClient, err := awsclients.NewSNSClient(context.Background(), config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("create SNS client: %w", err)
	}

	return &Handler{
		config:      config,
		db:          db,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient:   sesClient,
		snsClient:   snsClient,
		templateMap: templateData,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "NOTIFICATION_SEND_FAILED"
		retries := int32(0)
		if errors.Is(err, ErrNotificationSendFailed) {
			retries = 3
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	email, phone, err := h.getRecipientContact(input.RecipientID, input.RecipientType)
	if err != nil {
		h.logger.Warn("recipient not found", map[string]interface{}{
			"recipientId": input.RecipientID,
			"type":        input.RecipientType,
		})
		return &Output{
			NotificationID: uuid.New().String(),
			Status:         StatusDisabled,
			SentAt:         time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	template, exists := h.templateMap[input.NotificationType]
	if !exists {
		return nil, fmt.Errorf("template not found for type: %s", input.NotificationType)
	}

	// Build data map for template rendering
	data := map[string]interface{}{
		"recipientId":      input.RecipientID,
		"notificationType": input.NotificationType,
		"manufacturerId":   input.ManufacturerID,
		"priority":         input.Priority,
	}

	// Merge metadata if present
	if input.Metadata != nil {
		for k, v := range input.Metadata {
			data[k] = v
		}
	}

	subject := renderTemplate(template.Subject, data)
	body := renderTemplate(template.Body, data)

	sentAt := time.Now().UTC().Format(time.RFC3339)
	notificationID := uuid.New().String()

	emailSent := false
	smsSent := false

	if email != "" && !validation.ValidateEmail(email) {
		h.logger.Warn("skipping malformed recipient email", map[string]interface{}{
			"recipientId": input.RecipientID,
		})
		email = ""
	}
	if phone != "" && !validation.ValidatePhone(phone) {
		h.logger.Warn("skipping malformed recipient phone", map[string]interface{}{
			"recipientId": input.RecipientID,
		})
		phone = ""
	}

	// Send email if enabled and email exists
	if h.config.EmailEnabled && email != "" {
		if err := h.sendEmail(ctx, email, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": email,
			})
			h.recordDelivery(ctx, notificationID, input, "email", StatusFailed, sentAt)
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		emailSent = true
	}

	// Send SMS only if: enabled AND phone exists AND priority is high
	if h.config.SMSEnabled && phone != "" && input.Priority == "high" {
		if err := h.sendSMS(ctx, phone, body); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": phone,
			})
			h.recordDelivery(ctx, notificationID, input, "sms", StatusFailed, sentAt)
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		smsSent = true
	}

	status := StatusDisabled
	channel := "none"
	switch {
	case emailSent && smsSent:
		status, channel = StatusSent, "email,sms"
	case emailSent:
		status, channel = StatusSent, "email"
	case smsSent:
		status, channel = StatusSent, "sms"
	}

	h.recordDelivery(ctx, notificationID, input, channel, status, sentAt)

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		SentAt:         sentAt,
	}, nil
}

func (h *Handler) getRecipientContact(recipientID, recipientType string) (string, string, error) {
	var email, phone string
	var query string

	switch recipientType {
	case RecipientTypeBusiness:
		query = `SELECT email, phone FROM businesses WHERE id = $1`
	case RecipientTypeManufacturer:
		query = `SELECT contact_email, contact_phone FROM manufacturers WHERE id = $1`
	default:
		return "", "", fmt.Errorf("invalid recipient type: %s", recipientType)
	}

	err := h.db.QueryRowContext(context.Background(), query, recipientID).Scan(&email, &phone)
	return email, phone, err
}

// recordDelivery writes the delivery audit row; failures only warn.
func (h *Handler) recordDelivery(ctx context.Context, notificationID string, input *Input, channel, status, sentAt string) {
	rec := models.Notification{
		ID:            notificationID,
		RecipientID:   input.RecipientID,
		RecipientType: input.RecipientType,
		Type:          input.NotificationType,
		Channel:       channel,
		Status:        status,
		SentAt:        sentAt,
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO notification_log (id, recipient_id, recipient_type, notification_type, channel, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.RecipientID, rec.RecipientType,
		rec.Type, rec.Channel, rec.Status, rec.SentAt,
	)
	if err != nil {
		h.logger.Warn("notification log insert failed", map[string]interface{}{
			"error":          err,
			"notificationId": notificationID,
		})
	}
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// Simplified template rendering with placeholder removal for missing values
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Remove any remaining placeholders (missing values)
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

// loadTemplates returns the built-in templates, overlaid with any templates
// from the registry file when a path is configured.
func loadTemplates(path string) (map[string]models.NotificationTemplate, error) {
	templates, err := defaultTemplates()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template registry: %w", err)
	}
	var overrides map[string]models.NotificationTemplate
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse template registry: %w", err)
	}
	for notificationType, tmpl := range overrides {
		templates[notificationType] = tmpl
	}
	return templates, nil
}

func defaultTemplates() (map[string]models.NotificationTemplate, error) {
	return map[string]models.NotificationTemplate{
		TypeMatchFound: {
			ID:      "tpl-match-found",
			Type:    TypeMatchFound,
			Subject: "New Manufacturer Match Found",
			Body:    "Good news! Manufacturer {{manufacturerName}} matches your sourcing criteria with a similarity of {{similarityScore}}%.",
			Version: "1",
		},
		TypeRegistrationComplete: {
			ID:      "tpl-registration-complete",
			Type:    TypeRegistrationComplete,
			Subject: "Manufacturer Registration Complete",
			Body:    "Your manufacturer profile {{manufacturerId}} has been registered and is pending verification.",
			Version: "1",
		},
		TypeVerificationApproved: {
			ID:      "tpl-verification-approved",
			Type:    TypeVerificationApproved,
			Subject: "Manufacturer Verification Approved",
			Body:    "Congratulations! Manufacturer {{manufacturerId}} is now verified on the marketplace.",
			Version: "1",
		},
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
