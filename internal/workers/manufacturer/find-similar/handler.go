// internal/workers/manufacturer/find-similar/handler.go
package findsimilar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/comparison"
	"marketplace-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "find-similar-manufacturers"
)

var (
	ErrMissingSource   = errors.New("COMPARISON_FAILED")
	ErrCandidateSearch = errors.New("SEARCH_QUERY_FAILED")
)

type Handler struct {
	config *Config
	es     *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, es *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		es:     es,
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
		errorCode := "COMPARISON_FAILED"
		if errors.Is(err, ErrCandidateSearch) {
			errorCode = "SEARCH_QUERY_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Source == nil {
		return nil, ErrMissingSource
	}

	candidates := input.Candidates
	if len(candidates) == 0 && h.es != nil {
		var err error
		candidates, err = h.fetchCandidates(ctx, input.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCandidateSearch, err)
		}
	}

	similar := comparison.FindSimilar(input.Source, candidates, input.Threshold)

	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = h.config.MaxResults
	}
	if len(similar) > maxResults {
		similar = similar[:maxResults]
	}

	h.logger.Info("similar manufacturers found", map[string]interface{}{
		"sourceId":   input.Source.ID,
		"candidates": len(candidates),
		"matches":    len(similar),
	})

	return &Output{
		Similar: similar,
		Total:   len(similar),
	}, nil
}

// fetchCandidates pulls same-industry profiles from the manufacturer index.
// The source itself is excluded by ID.
func (h *Handler) fetchCandidates(ctx context.Context, source *models.ManufacturerProfile) ([]*models.ManufacturerProfile, error) {
	query := map[string]interface{}{
		"size": h.config.MaxCandidates,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"industry.keyword": source.Industry}},
				},
				"must_not": []map[string]interface{}{
					{"term": map[string]interface{}{"_id": source.ID}},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := h.es.Search(
		h.es.Search.WithContext(ctx),
		h.es.Search.WithIndex(h.config.IndexName),
		h.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search returned %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                     `json:"_id"`
				Source models.ManufacturerProfile `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	candidates := make([]*models.ManufacturerProfile, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		profile := hit.Source
		if profile.ID == "" {
			profile.ID = hit.ID
		}
		candidates = append(candidates, &profile)
	}

	return candidates, nil
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
