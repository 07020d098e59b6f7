// internal/workers/manufacturer/create-manufacturer-record/handler.go
package createmanufacturerrecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "create-manufacturer-record"
)

var (
	ErrDatabaseInsertFailed  = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateManufacturer = errors.New("DUPLICATE_MANUFACTURER")
	ErrInvalidPayload        = errors.New("INVALID_INPUT")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	raw := []byte(job.Variables)
	if err := ValidatePayload(raw); err != nil {
		h.failJob(client, job, "INVALID_INPUT", err.Error(), 0)
		return
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		if errors.Is(err, ErrDatabaseInsertFailed) {
			errorCode = "DATABASE_INSERT_FAILED"
			retries = 3
		} else if errors.Is(err, ErrDuplicateManufacturer) {
			errorCode = "DUPLICATE_MANUFACTURER"
		} else if errors.Is(err, ErrInvalidPayload) {
			errorCode = "INVALID_INPUT"
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.BusinessID == "" || input.Profile.Name == "" {
		return nil, fmt.Errorf("%w: businessId and profile.name are required", ErrInvalidPayload)
	}

	// Duplicate check: one profile per business and name
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM manufacturers
			WHERE business_id = $1 AND name = $2
		)`, input.BusinessID, input.Profile.Name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: manufacturer %q already registered for business %s",
			ErrDuplicateManufacturer, input.Profile.Name, input.BusinessID)
	}

	manufacturerID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	initialScore := scoring.CalculateInitialProfileScore(&input.Profile)
	completeness := scoring.CalculateProfileCompleteness(&input.Profile)

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO manufacturers (
			id, business_id, name, description, industry, contact_email,
			services_offered, moq, hq_country, hq_city, certifications,
			is_email_verified, profile_score, profile_completeness,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)`,
		manufacturerID,
		input.BusinessID,
		input.Profile.Name,
		input.Profile.Description,
		input.Profile.Industry,
		input.Profile.ContactEmail,
		pq.Array(input.Profile.ServicesOffered),
		input.Profile.MOQ,
		input.Profile.Headquarters.Country,
		input.Profile.Headquarters.City,
		pq.Array(input.Profile.Certifications),
		false, // email verification is a separate workflow step
		initialScore,
		completeness,
		"pending",
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	// Audit entry is non-critical
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"businessId":   input.BusinessID,
		"name":         input.Profile.Name,
		"industry":     input.Profile.Industry,
		"initialScore": initialScore,
		"completeness": completeness,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"manufacturer_registered",
		"manufacturer",
		manufacturerID,
		auditDetailsJSON,
		createdAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":          err,
			"manufacturerId": manufacturerID,
		})
	}

	h.logger.Info("manufacturer record created", map[string]interface{}{
		"manufacturerId": manufacturerID,
		"businessId":     input.BusinessID,
		"initialScore":   initialScore,
		"completeness":   completeness,
	})

	return &Output{
		ManufacturerID:      manufacturerID,
		Status:              "pending",
		InitialScore:        initialScore,
		ProfileCompleteness: completeness,
		CreatedAt:           createdAt,
	}, nil
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
	} else {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
