// internal/workers/manufacturer/calculate-profile-score/handler.go
package calculateprofilescore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/models"
	"marketplace-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "calculate-profile-score"
)

var (
	ErrProfileMissing = errors.New("SCORE_CALCULATION_FAILED")
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "SCORE_CALCULATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	profile := input.Profile
	if profile == nil && input.ManufacturerID != "" {
		var err error
		profile, err = h.getProfile(ctx, input.ManufacturerID)
		if err != nil {
			h.logger.Warn("failed to fetch manufacturer profile", map[string]interface{}{
				"manufacturerId": input.ManufacturerID,
				"error":          err,
			})
			return nil, err
		}
	}

	if profile == nil {
		return nil, ErrProfileMissing
	}

	quality := scoring.CalculateProfileScore(profile)
	output := &Output{
		ManufacturerID:      input.ManufacturerID,
		InitialScore:        scoring.CalculateInitialProfileScore(profile),
		QualityScore:        quality,
		ProfileCompleteness: scoring.CalculateProfileCompleteness(profile),
	}

	metrics.ProfileScoresCalculated.Observe(float64(quality))

	h.logger.Info("profile score calculated", map[string]interface{}{
		"manufacturerId": input.ManufacturerID,
		"initialScore":   output.InitialScore,
		"qualityScore":   output.QualityScore,
		"completeness":   output.ProfileCompleteness,
	})

	return output, nil
}

func (h *Handler) getProfile(ctx context.Context, manufacturerID string) (*models.ManufacturerProfile, error) {
	cacheKey := "manufacturer:profile:" + manufacturerID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var profile models.ManufacturerProfile
		if err := json.Unmarshal([]byte(val), &profile); err == nil {
			metrics.ProfileCacheHits.WithLabelValues("hit").Inc()
			return &profile, nil
		}
	}
	metrics.ProfileCacheHits.WithLabelValues("miss").Inc()

	row := h.db.QueryRowContext(ctx, `
		SELECT name, description, industry, contact_email, services_offered,
		       moq, hq_country, hq_city, certifications, is_email_verified
		FROM manufacturers WHERE id = $1`, manufacturerID)

	profile := models.ManufacturerProfile{ID: manufacturerID}
	err := row.Scan(
		&profile.Name,
		&profile.Description,
		&profile.Industry,
		&profile.ContactEmail,
		pq.Array(&profile.ServicesOffered),
		&profile.MOQ,
		&profile.Headquarters.Country,
		&profile.Headquarters.City,
		pq.Array(&profile.Certifications),
		&profile.IsEmailVerified,
	)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(profile)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &profile, nil
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
