// internal/workers/manufacturer/check-verification/handler.go
package checkverification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "check-manufacturer-verification"
)

var (
	ErrManufacturerNotFound    = errors.New("MANUFACTURER_NOT_FOUND")
	ErrVerificationCheckFailed = errors.New("VERIFICATION_CHECK_FAILED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
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
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		if errors.Is(err, ErrManufacturerNotFound) {
			errorCode = "MANUFACTURER_NOT_FOUND"
		} else if errors.Is(err, ErrVerificationCheckFailed) {
			errorCode = "VERIFICATION_CHECK_FAILED"
			retries = 3
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	cacheKey := "verification:" + input.ManufacturerID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var rec Verification
		if err := json.Unmarshal([]byte(val), &rec); err == nil {
			return &Output{
				IsVerified:    rec.Status == "verified",
				EmailVerified: rec.EmailVerified,
				Tier:          rec.Tier,
			}, nil
		}
	}

	var rec Verification
	query := `SELECT manufacturer_id, status, email_verified, verified_at, tier FROM manufacturer_verifications WHERE manufacturer_id = $1`
	err := h.db.QueryRowContext(ctx, query, input.ManufacturerID).Scan(
		&rec.ManufacturerID, &rec.Status, &rec.EmailVerified, &rec.VerifiedAt, &rec.Tier,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrManufacturerNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrVerificationCheckFailed, err)
	}

	validStatuses := map[string]bool{
		"unverified": true, "pending": true, "verified": true, "revoked": true,
	}
	if !validStatuses[rec.Status] {
		return nil, fmt.Errorf("%w: %q", ErrVerificationCheckFailed, rec.Status)
	}

	if rec.VerifiedAt != "" {
		if _, parseErr := time.Parse(time.RFC3339, rec.VerifiedAt); parseErr != nil {
			h.logger.Debug("unparseable verification timestamp", map[string]interface{}{
				"manufacturerId": rec.ManufacturerID,
				"verifiedAt":     rec.VerifiedAt,
				"error":          parseErr.Error(),
			})
		}
	}

	data, _ := json.Marshal(rec)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &Output{
		IsVerified:    rec.Status == "verified",
		EmailVerified: rec.EmailVerified,
		Tier:          rec.Tier,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
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
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
