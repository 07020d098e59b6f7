package querypostgresql

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/models"
	"marketplace-workers/internal/workers/data-access/query-postgresql/queries"
)

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createValidInput(queryType models.QueryType) *Input {
	input := &Input{
		QueryType: string(queryType),
	}

	switch queryType {
	case models.QueryTypeManufacturerFullDetails,
		models.QueryTypeManufacturerProfile,
		models.QueryTypeManufacturerVerification:
		input.ManufacturerID = "mfr-123"
	case models.QueryTypeManufacturerList:
		input.ManufacturerIDs = []string{"mfr-123", "mfr-456"}
	case models.QueryTypeBusinessProfile:
		input.BusinessID = "biz-123"
	}

	return input
}

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		queryType      models.QueryType
		mockQuery      func(mock sqlmock.Sqlmock)
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:      "manufacturer profile",
			queryType: models.QueryTypeManufacturerProfile,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "name", "description", "industry", "contact_email",
					"services_offered", "moq", "hq_country", "hq_city",
					"certifications", "is_email_verified",
				}).AddRow(
					"mfr-123", "Precision Plastics", "Injection molding house",
					"Plastics", "sales@precision.example",
					"{Injection Molding,Tooling}", 500, "Germany", "Stuttgart",
					"{ISO 9001}", true,
				)
				mock.ExpectQuery(`SELECT id, name, description, industry, contact_email`).
					WithArgs("mfr-123").
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)
				assert.GreaterOrEqual(t, output.QueryExecutionTime, int64(0))

				data := output.Data.(map[string]interface{})
				assert.Equal(t, "mfr-123", data["id"])
				assert.Equal(t, "Precision Plastics", data["name"])
				assert.Equal(t, []string{"Injection Molding", "Tooling"}, data["servicesOffered"])
				assert.Equal(t, 500, data["moq"])

				hq := data["headquarters"].(map[string]interface{})
				assert.Equal(t, "Germany", hq["country"])
				assert.Equal(t, "Stuttgart", hq["city"])
			},
		},
		{
			name:      "manufacturer full details",
			queryType: models.QueryTypeManufacturerFullDetails,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "business_id", "name", "description", "industry", "contact_email",
					"services_offered", "moq", "hq_country", "hq_city", "certifications",
					"is_email_verified", "profile_score", "profile_completeness",
					"inquiry_count", "view_count", "status", "created_at", "updated_at",
				}).AddRow(
					"mfr-123", "biz-123", "Precision Plastics", "Injection molding house",
					"Plastics", "sales@precision.example",
					"{Injection Molding}", 500, "Germany", "Stuttgart", "{ISO 9001}",
					true, 95, 90, 12, 340, "active",
					"2025-01-01T00:00:00Z", "2025-06-01T00:00:00Z",
				)
				mock.ExpectQuery(`SELECT id, business_id, name`).
					WithArgs("mfr-123").
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)

				data := output.Data.(map[string]interface{})
				assert.Equal(t, "biz-123", data["businessId"])
				assert.Equal(t, 95, data["profileScore"])
				assert.Equal(t, 90, data["profileCompleteness"])
				assert.Equal(t, "active", data["status"])
				assert.Equal(t, 340, data["viewCount"])
			},
		},
		{
			name:      "manufacturer list by ids",
			queryType: models.QueryTypeManufacturerList,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "name", "industry", "moq", "hq_country", "profile_score", "status",
				}).AddRow(
					"mfr-123", "Precision Plastics", "Plastics", 500, "Germany", 95, "active",
				).AddRow(
					"mfr-456", "Shenzhen Molds", "Plastics", 1000, "China", 80, "active",
				)
				mock.ExpectQuery(`WHERE id IN \(\$1,\$2\)`).
					WithArgs("mfr-123", "mfr-456").
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 2, output.RowCount)

				data := output.Data.([]map[string]interface{})
				assert.Equal(t, 2, len(data))
				assert.Equal(t, "Precision Plastics", data[0]["name"])
				assert.Equal(t, "Shenzhen Molds", data[1]["name"])
			},
		},
		{
			name:      "manufacturer verification",
			queryType: models.QueryTypeManufacturerVerification,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"manufacturer_id", "status", "email_verified", "verified_at", "tier",
				}).AddRow(
					"mfr-123", "verified", true, "2025-06-01T00:00:00Z", "gold",
				)
				mock.ExpectQuery(`FROM manufacturer_verifications`).
					WithArgs("mfr-123").
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)

				data := output.Data.(map[string]interface{})
				assert.Equal(t, "mfr-123", data["manufacturerId"])
				assert.Equal(t, "verified", data["status"])
				assert.Equal(t, true, data["emailVerified"])
				assert.Equal(t, "gold", data["tier"])
			},
		},
		{
			name:      "business profile",
			queryType: models.QueryTypeBusinessProfile,
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"id", "name", "email", "country", "subscription_tier",
					"created_at", "count",
				}).AddRow(
					"biz-123", "Acme Sourcing", "ops@acme.example", "US", "premium",
					"2024-03-01T00:00:00Z", 3,
				)
				mock.ExpectQuery(`FROM businesses b`).
					WithArgs("biz-123").
					WillReturnRows(rows)
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)

				data := output.Data.(map[string]interface{})
				assert.Equal(t, "biz-123", data["id"])
				assert.Equal(t, "premium", data["subscriptionTier"])
				assert.Equal(t, 3, data["manufacturerCount"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			tt.mockQuery(mock)

			handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))
			input := createValidInput(tt.queryType)

			output, err := handler.execute(context.Background(), input)

			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.NoError(t, mock.ExpectationsWereMet())

			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestHandler_Execute_FilteredList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "industry", "moq", "hq_country", "profile_score", "status",
	}).AddRow(
		"mfr-123", "Precision Plastics", "Plastics", 500, "Germany", 95, "active",
	)
	// args: industry, country, limit, offset
	mock.ExpectQuery(`ORDER BY profile_score DESC`).
		WithArgs("Plastics", "Germany", 5, 5).
		WillReturnRows(rows)

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))
	output, err := handler.execute(context.Background(), &Input{
		QueryType: string(models.QueryTypeManufacturerList),
		Filters: map[string]interface{}{
			"industry": "Plastics",
			"country":  "Germany",
			"page":     float64(2),
			"pageSize": float64(5),
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_PageSizeCap(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`ORDER BY profile_score DESC`).
		WithArgs(queries.MaxPageSize, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "industry", "moq", "hq_country", "profile_score", "status",
		}))

	handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))
	output, err := handler.execute(context.Background(), &Input{
		QueryType: string(models.QueryTypeManufacturerList),
		Filters: map[string]interface{}{
			"pageSize": float64(5000),
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_QueryErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         *Input
		mockQuery     func(mock sqlmock.Sqlmock)
		expectedErr   error
		errorContains string
	}{
		{
			name: "unknown query type",
			input: &Input{
				QueryType: "unknown_query",
			},
			expectedErr:   ErrInvalidQueryType,
			errorContains: "INVALID_QUERY_TYPE",
		},
		{
			name:  "database error",
			input: createValidInput(models.QueryTypeManufacturerProfile),
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, description`).
					WithArgs("mfr-123").
					WillReturnError(errors.New("database connection failed"))
			},
			expectedErr:   ErrQueryExecutionFailed,
			errorContains: "QUERY_EXECUTION_FAILED",
		},
		{
			name: "missing manufacturer ID",
			input: &Input{
				QueryType: string(models.QueryTypeManufacturerProfile),
			},
			expectedErr:   ErrQueryExecutionFailed,
			errorContains: "QUERY_EXECUTION_FAILED",
		},
		{
			name:  "no rows found",
			input: createValidInput(models.QueryTypeManufacturerVerification),
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM manufacturer_verifications`).
					WithArgs("mfr-123").
					WillReturnError(sql.ErrNoRows)
			},
			expectedErr:   ErrQueryExecutionFailed,
			errorContains: "QUERY_EXECUTION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer db.Close()

			if tt.mockQuery != nil {
				tt.mockQuery(mock)
			}

			handler := NewHandler(createTestConfig(), db, logger.NewTestLogger(t))
			output, err := handler.execute(context.Background(), tt.input)

			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedErr) || errors.Is(err, ErrQueryExecutionFailed))
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Nil(t, output)
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, description`).
		WithArgs("mfr-123").
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mfr-123"))

	config := createTestConfig()
	config.Timeout = 50 * time.Millisecond

	handler := NewHandler(config, db, logger.NewTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	output, err := handler.execute(ctx, createValidInput(models.QueryTypeManufacturerProfile))

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrQueryTimeout) || errors.Is(err, ErrQueryExecutionFailed))
	assert.Nil(t, output)
}

func TestHandler_EdgeCases(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	t.Run("nil input", func(t *testing.T) {
		output, err := handler.execute(context.Background(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "input cannot be nil")
		assert.Nil(t, output)
	})

	t.Run("empty query type", func(t *testing.T) {
		output, err := handler.execute(context.Background(), &Input{QueryType: ""})
		assert.Error(t, err)
		assert.Nil(t, output)
	})
}
