// internal/workers/data-access/query-postgresql/queries/manufacturer.go
package queries

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

func ManufacturerProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	manufacturerID, ok := params["manufacturerId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, name, description, industry, contactEmail string
	var hqCountry, hqCity string
	var services, certifications []string
	var moq int
	var isEmailVerified bool

	err := db.QueryRowContext(ctx, `
		SELECT id, name, description, industry, contact_email,
		       services_offered, moq, hq_country, hq_city, certifications,
		       is_email_verified
		FROM manufacturers
		WHERE id = $1`, manufacturerID).Scan(
		&id, &name, &description, &industry, &contactEmail,
		pq.Array(&services), &moq, &hqCountry, &hqCity,
		pq.Array(&certifications), &isEmailVerified,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":              id,
		"name":            name,
		"description":     description,
		"industry":        industry,
		"contactEmail":    contactEmail,
		"servicesOffered": services,
		"moq":             moq,
		"headquarters": map[string]interface{}{
			"country": hqCountry,
			"city":    hqCity,
		},
		"certifications":  certifications,
		"isEmailVerified": isEmailVerified,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func ManufacturerFullDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	manufacturerID, ok := params["manufacturerId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, businessID, name, description, industry, contactEmail string
	var hqCountry, hqCity, status, createdAt, updatedAt string
	var services, certifications []string
	var moq, profileScore, completeness, inquiryCount, viewCount int
	var isEmailVerified bool

	err := db.QueryRowContext(ctx, `
		SELECT id, business_id, name, description, industry, contact_email,
		       services_offered, moq, hq_country, hq_city, certifications,
		       is_email_verified, profile_score, profile_completeness,
		       inquiry_count, view_count, status, created_at, updated_at
		FROM manufacturers
		WHERE id = $1`, manufacturerID).Scan(
		&id, &businessID, &name, &description, &industry, &contactEmail,
		pq.Array(&services), &moq, &hqCountry, &hqCity,
		pq.Array(&certifications), &isEmailVerified,
		&profileScore, &completeness, &inquiryCount, &viewCount,
		&status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":              id,
		"businessId":      businessID,
		"name":            name,
		"description":     description,
		"industry":        industry,
		"contactEmail":    contactEmail,
		"servicesOffered": services,
		"moq":             moq,
		"headquarters": map[string]interface{}{
			"country": hqCountry,
			"city":    hqCity,
		},
		"certifications":      certifications,
		"isEmailVerified":     isEmailVerified,
		"profileScore":        profileScore,
		"profileCompleteness": completeness,
		"inquiryCount":        inquiryCount,
		"viewCount":           viewCount,
		"status":              status,
		"createdAt":           createdAt,
		"updatedAt":           updatedAt,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

// ManufacturerList supports batch lookup by ids and filtered listing. When
// manufacturerIds is present the filters are ignored.
func ManufacturerList(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	if ids, ok := params["manufacturerIds"].([]string); ok && len(ids) > 0 {
		return manufacturersByIDs(ctx, db, ids, start)
	}

	filters, _ := params["filters"].(map[string]interface{})
	return manufacturersFiltered(ctx, db, filters, start)
}

func manufacturersByIDs(ctx context.Context, db *sql.DB, ids []string, start time.Time) (interface{}, int, int64, error) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `
		SELECT id, name, industry, moq, hq_country, profile_score, status
		FROM manufacturers
		WHERE id IN (` + strings.Join(placeholders, ",") + `)`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results, err := scanSummaryRows(rows)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func manufacturersFiltered(ctx context.Context, db *sql.DB, filters map[string]interface{}, start time.Time) (interface{}, int, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters != nil {
		if industry, ok := filters["industry"].(string); ok && industry != "" {
			conditions = append(conditions, "industry = "+next(industry))
		}
		if country, ok := filters["country"].(string); ok && country != "" {
			conditions = append(conditions, "hq_country = "+next(country))
		}
		if status, ok := filters["status"].(string); ok && status != "" {
			conditions = append(conditions, "status = "+next(status))
		}
		if minScore, ok := filters["minScore"].(float64); ok && minScore > 0 {
			conditions = append(conditions, "profile_score >= "+next(int(minScore)))
		}
	}

	page, pageSize := pagination(filters)
	offset := (page - 1) * pageSize

	query := `
		SELECT id, name, industry, moq, hq_country, profile_score, status
		FROM manufacturers
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY profile_score DESC, name ASC
		LIMIT ` + next(pageSize) + ` OFFSET ` + next(offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results, err := scanSummaryRows(rows)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func scanSummaryRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	results := []map[string]interface{}{}
	for rows.Next() {
		var id, name, industry, hqCountry, status string
		var moq, profileScore int
		if err := rows.Scan(&id, &name, &industry, &moq, &hqCountry, &profileScore, &status); err != nil {
			return nil, err
		}
		results = append(results, map[string]interface{}{
			"id":           id,
			"name":         name,
			"industry":     industry,
			"moq":          moq,
			"hqCountry":    hqCountry,
			"profileScore": profileScore,
			"status":       status,
		})
	}
	return results, rows.Err()
}

func pagination(filters map[string]interface{}) (page, pageSize int) {
	page, pageSize = 1, DefaultPageSize
	if filters == nil {
		return page, pageSize
	}
	if p, ok := filters["page"].(float64); ok && p >= 1 {
		page = int(p)
	}
	if ps, ok := filters["pageSize"].(float64); ok && ps >= 1 {
		pageSize = int(ps)
		if pageSize > MaxPageSize {
			pageSize = MaxPageSize
		}
	}
	return page, pageSize
}

func ManufacturerVerification(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	manufacturerID, ok := params["manufacturerId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, status, tier string
	var verifiedAt sql.NullString
	var emailVerified bool

	err := db.QueryRowContext(ctx, `
		SELECT manufacturer_id, status, email_verified, verified_at, tier
		FROM manufacturer_verifications
		WHERE manufacturer_id = $1`, manufacturerID).Scan(
		&id, &status, &emailVerified, &verifiedAt, &tier,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"manufacturerId": id,
		"status":         status,
		"emailVerified":  emailVerified,
		"verifiedAt":     verifiedAt.String,
		"tier":           tier,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
