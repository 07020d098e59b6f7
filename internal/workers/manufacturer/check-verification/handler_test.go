// internal/workers/manufacturer/check-verification/handler_test.go
package checkverification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 5 * time.Minute,
	}
}

func createTestHandler(t *testing.T, db *sql.DB, redisClient *redis.Client) *Handler {
	return NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))
}

func createVerification(manufacturerID, status, tier string, emailVerified bool) *Verification {
	return &Verification{
		ManufacturerID: manufacturerID,
		Status:         status,
		EmailVerified:  emailVerified,
		VerifiedAt:     time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
		Tier:           tier,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		record         *Verification
		expectedOutput *Output
	}{
		{
			name:   "verified gold tier",
			record: createVerification("mfg-1", "verified", "gold", true),
			expectedOutput: &Output{
				IsVerified:    true,
				EmailVerified: true,
				Tier:          "gold",
			},
		},
		{
			name:   "pending verification",
			record: createVerification("mfg-2", "pending", "standard", true),
			expectedOutput: &Output{
				IsVerified:    false,
				EmailVerified: true,
				Tier:          "standard",
			},
		},
		{
			name:   "unverified email",
			record: createVerification("mfg-3", "unverified", "standard", false),
			expectedOutput: &Output{
				IsVerified:    false,
				EmailVerified: false,
				Tier:          "standard",
			},
		},
		{
			name:   "revoked verification",
			record: createVerification("mfg-4", "revoked", "standard", true),
			expectedOutput: &Output{
				IsVerified:    false,
				EmailVerified: true,
				Tier:          "standard",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			redisClient, redisMock := redismock.NewClientMock()

			ctx := context.Background()

			// Redis GET misses, the DB row populates the cache
			cacheKey := "verification:" + tt.record.ManufacturerID
			redisMock.ExpectGet(cacheKey).RedisNil()

			rows := sqlmock.NewRows([]string{"manufacturer_id", "status", "email_verified", "verified_at", "tier"}).
				AddRow(tt.record.ManufacturerID, tt.record.Status, tt.record.EmailVerified,
					tt.record.VerifiedAt, tt.record.Tier)
			mock.ExpectQuery(`SELECT manufacturer_id, status, email_verified, verified_at, tier FROM manufacturer_verifications WHERE manufacturer_id = \$1`).
				WithArgs(tt.record.ManufacturerID).
				WillReturnRows(rows)

			cachedData, _ := json.Marshal(tt.record)
			redisMock.ExpectSet(cacheKey, cachedData, 5*time.Minute).SetVal("OK")

			handler := createTestHandler(t, db, redisClient)
			output, err := handler.Execute(ctx, &Input{ManufacturerID: tt.record.ManufacturerID})

			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, tt.expectedOutput, output)

			assert.NoError(t, mock.ExpectationsWereMet())
			assert.NoError(t, redisMock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_CacheHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()

	cached := createVerification("mfg-cached", "verified", "gold", true)
	cachedData, _ := json.Marshal(cached)
	redisMock.ExpectGet("verification:mfg-cached").SetVal(string(cachedData))

	handler := createTestHandler(t, db, redisClient)
	output, err := handler.Execute(context.Background(), &Input{ManufacturerID: "mfg-cached"})

	assert.NoError(t, err)
	assert.True(t, output.IsVerified)
	assert.Equal(t, "gold", output.Tier)

	// Database untouched on a cache hit
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name          string
		manufacturer  string
		mockDBError   error
		record        *Verification
		expectedError error
	}{
		{
			name:          "manufacturer not found",
			manufacturer:  "missing",
			mockDBError:   sql.ErrNoRows,
			expectedError: ErrManufacturerNotFound,
		},
		{
			name:          "database failure is retryable",
			manufacturer:  "db-down",
			mockDBError:   errors.New("connection refused"),
			expectedError: ErrVerificationCheckFailed,
		},
		{
			name:          "unknown status",
			manufacturer:  "mfg-odd",
			record:        createVerification("mfg-odd", "mystery", "standard", false),
			expectedError: ErrVerificationCheckFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			redisClient, redisMock := redismock.NewClientMock()
			redisMock.ExpectGet("verification:" + tt.manufacturer).RedisNil()

			query := mock.ExpectQuery(`SELECT manufacturer_id, status, email_verified, verified_at, tier FROM manufacturer_verifications WHERE manufacturer_id = \$1`).
				WithArgs(tt.manufacturer)
			if tt.mockDBError != nil {
				query.WillReturnError(tt.mockDBError)
			} else {
				query.WillReturnRows(sqlmock.NewRows([]string{"manufacturer_id", "status", "email_verified", "verified_at", "tier"}).
					AddRow(tt.record.ManufacturerID, tt.record.Status, tt.record.EmailVerified,
						tt.record.VerifiedAt, tt.record.Tier))
			}

			handler := createTestHandler(t, db, redisClient)
			output, err := handler.Execute(context.Background(), &Input{ManufacturerID: tt.manufacturer})

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, output)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
