// internal/workers/manufacturer/calculate-profile-score/handler_test.go
package calculateprofilescore

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  10 * time.Second,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func setupMiniRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func createTestProfile() *models.ManufacturerProfile {
	return &models.ManufacturerProfile{
		ID:              "mfg-123",
		Name:            "Acme Precision",
		Description:     "Precision CNC machining shop serving aerospace and automotive clients",
		Industry:        "Aerospace",
		ContactEmail:    "sales@acme-precision.example",
		ServicesOffered: []string{"CNC Machining", "Anodizing"},
		MOQ:             100,
		Headquarters:    models.Headquarters{Country: "Germany", City: "Stuttgart"},
		Certifications:  []string{"ISO 9001", "AS9100"},
		IsEmailVerified: true,
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_WithProvidedProfile(t *testing.T) {
	tests := []struct {
		name                 string
		profile              *models.ManufacturerProfile
		expectedInitial      int
		expectedQuality      int
		expectedCompleteness int
	}{
		{
			name:                 "full profile clamps at 100",
			profile:              createTestProfile(),
			expectedInitial:      100,
			expectedQuality:      100,
			expectedCompleteness: 100,
		},
		{
			name: "name only",
			profile: &models.ManufacturerProfile{
				Name: "Solo Works",
			},
			expectedInitial:      10,
			expectedQuality:      10,
			expectedCompleteness: 10,
		},
		{
			name: "unverified email adds nothing beyond base",
			profile: &models.ManufacturerProfile{
				Name:         "Halfway Mfg",
				Industry:     "Electronics",
				ContactEmail: "info@halfway.example",
			},
			expectedInitial:      45,
			expectedQuality:      45,
			expectedCompleteness: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := setupMockDB(t)
			defer db.Close()
			rdb, _ := setupMiniRedis(t)

			handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{
				ManufacturerID: tt.profile.ID,
				Profile:        tt.profile,
			})

			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, tt.expectedInitial, output.InitialScore)
			assert.Equal(t, tt.expectedQuality, output.QualityScore)
			assert.Equal(t, tt.expectedCompleteness, output.ProfileCompleteness)
		})
	}
}

func TestHandler_Execute_FetchProfileFromDB(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	rdb, mr := setupMiniRedis(t)

	mock.ExpectQuery("SELECT name, description").
		WithArgs("mfg-456").
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "description", "industry", "contact_email", "services_offered",
			"moq", "hq_country", "hq_city", "certifications", "is_email_verified",
		}).AddRow(
			"Nordic Plastics",
			"Injection molding specialist with in-house tooling and rapid prototyping",
			"Plastics",
			"hello@nordicplastics.example",
			"{Injection Molding,Tooling}",
			500,
			"Sweden",
			"Malmö",
			"{ISO 9001}",
			true,
		))

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ManufacturerID: "mfg-456"})

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, 100, output.ProfileCompleteness)
	assert.Equal(t, 100, output.QualityScore)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Fetch populates the cache
	assert.True(t, mr.Exists("manufacturer:profile:mfg-456"))
}

func TestHandler_Execute_CacheHitSkipsDB(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	rdb, mr := setupMiniRedis(t)

	cached, _ := json.Marshal(createTestProfile())
	mr.Set("manufacturer:profile:mfg-123", string(cached))

	// No DB expectations: a query would fail ExpectationsWereMet
	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ManufacturerID: "mfg-123"})

	assert.NoError(t, err)
	assert.Equal(t, 100, output.QualityScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ManufacturerNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)

	mock.ExpectQuery("SELECT name, description").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{ManufacturerID: "missing"})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NoProfileNoID(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.ErrorIs(t, err, ErrProfileMissing)
	assert.Nil(t, output)
}

// ==========================
// Scoring Invariant Tests
// ==========================

func TestHandler_Execute_QualityNeverBelowInitial(t *testing.T) {
	profiles := []*models.ManufacturerProfile{
		createTestProfile(),
		{Name: "A"},
		{Name: "B", Description: "short", IsEmailVerified: true},
		{Industry: "Textiles", Certifications: []string{"OEKO-TEX"}},
	}

	db, _ := setupMockDB(t)
	defer db.Close()
	rdb, _ := setupMiniRedis(t)
	handler := NewHandler(createTestConfig(), db, rdb, newTestLogger(t))

	for _, p := range profiles {
		output, err := handler.Execute(context.Background(), &Input{Profile: p})
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, output.QualityScore, output.InitialScore)
		assert.LessOrEqual(t, output.QualityScore, 100)
		assert.GreaterOrEqual(t, output.InitialScore, 0)
	}
}

func BenchmarkHandler_Execute(b *testing.B) {
	db, _, err := sqlmock.New()
	if err != nil {
		b.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(&testing.T{}))
	input := &Input{Profile: createTestProfile()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
