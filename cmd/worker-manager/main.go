// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"marketplace-workers/internal/common/camunda"
	"marketplace-workers/internal/common/config"
	"marketplace-workers/internal/common/database"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/metrics"
	"marketplace-workers/internal/common/observability"
	"marketplace-workers/pkg/registry"

	// Data Access Workers (2)
	qe "marketplace-workers/internal/workers/data-access/query-elasticsearch"
	qp "marketplace-workers/internal/workers/data-access/query-postgresql"

	// Manufacturer Workers (7)
	ar "marketplace-workers/internal/workers/manufacturer/apply-ranking"
	cps "marketplace-workers/internal/workers/manufacturer/calculate-profile-score"
	cv "marketplace-workers/internal/workers/manufacturer/check-verification"
	cm "marketplace-workers/internal/workers/manufacturer/compare-manufacturers"
	cmr "marketplace-workers/internal/workers/manufacturer/create-manufacturer-record"
	fs "marketplace-workers/internal/workers/manufacturer/find-similar"
	mc "marketplace-workers/internal/workers/manufacturer/match-criteria"

	// Communication Workers (1)
	sn "marketplace-workers/internal/workers/communication/send-notification"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	if reg, err := registry.LoadRegistry(cfg.Registry.Path); err != nil {
		zapLog.Warn("activity registry not loaded", zap.String("path", cfg.Registry.Path), zap.Error(err))
	} else {
		zapLog.Info("activity registry loaded",
			zap.String("version", reg.Version),
			zap.Int("activities", len(reg.Activities)))
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         30 * time.Second,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- START: Register ALL 10 Workers ---

	// --- 1. Manufacturer Workers (7) ---
	if wcfg := config.GetWorkerConfig(cfg, cmr.TaskType); wcfg.Enabled {
		handler := cmr.NewHandler(
			&cmr.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, cmr.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, cps.TaskType); wcfg.Enabled {
		handler := cps.NewHandler(
			&cps.Config{
				CacheTTL: time.Duration(cfg.Scoring.CacheTTL) * time.Second,
				Timeout:  config.GetDuration(wcfg.Timeout),
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, cps.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, cm.TaskType); wcfg.Enabled {
		handler := cm.NewHandler(
			&cm.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			log,
		)
		startWorker(zeebeClient, cm.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, fs.TaskType); wcfg.Enabled {
		handler := fs.NewHandler(
			&fs.Config{
				IndexName:     cfg.Search.ManufacturerIndex,
				MaxCandidates: 200,
				MaxResults:    cfg.Scoring.MaxSimilarResults,
				Timeout:       config.GetDuration(wcfg.Timeout),
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, fs.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, mc.TaskType); wcfg.Enabled {
		handler := mc.NewHandler(
			&mc.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			log,
		)
		startWorker(zeebeClient, mc.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, ar.TaskType); wcfg.Enabled {
		handler := ar.NewHandler(
			&ar.Config{
				MaxItems: 50,
				Timeout:  config.GetDuration(wcfg.Timeout),
			},
			log,
		)
		startWorker(zeebeClient, ar.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, cv.TaskType); wcfg.Enabled {
		handler := cv.NewHandler(
			&cv.Config{
				Timeout:  config.GetDuration(wcfg.Timeout),
				CacheTTL: time.Duration(cfg.Scoring.CacheTTL) * time.Second,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, cv.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	// --- 2. Data Access Workers (2) ---
	if wcfg := config.GetWorkerConfig(cfg, qp.TaskType); wcfg.Enabled {
		handler := qp.NewHandler(
			&qp.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qp.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, qe.TaskType); wcfg.Enabled {
		handler := qe.NewHandler(
			&qe.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, qe.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	// --- 3. Communication Workers (1) ---
	if wcfg := config.GetWorkerConfig(cfg, sn.TaskType); wcfg.Enabled {
		handler, err := sn.NewHandler(
			&sn.Config{
				EmailEnabled:     cfg.Notifications.Email.Enabled,
				SMSEnabled:       cfg.Notifications.SMS.Enabled,
				FromEmail:        cfg.Notifications.Email.FromEmail,
				AWSRegion:        cfg.Notifications.AWS.Region,
				TemplateRegistry: cfg.Notifications.Templates,
				Timeout:          config.GetDuration(wcfg.Timeout),
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-notification handler", zap.Error(err))
		}
		startWorker(zeebeClient, sn.TaskType, wcfg, handler.Handle, obs, zapLog)
	}

	zapLog.Info("All 10 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), obs *observability.Observability, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(func(c worker.JobClient, job entities.Job) {
			start := time.Now()
			metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
			defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			handlerFunc(c, job)
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
			obs.RecordJobProcessed(context.Background(), taskType)
			obs.RecordJobDuration(context.Background(), time.Since(start), taskType)
		}).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
