// internal/workers/data-access/query-postgresql/queries/business.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func BusinessProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	businessID, ok := params["businessId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, name, email, country, subscriptionTier string
	var manufacturerCount int
	var createdAt string

	err := db.QueryRowContext(ctx, `
		SELECT b.id, b.name, b.email, b.country, b.subscription_tier,
		       b.created_at,
		       (SELECT COUNT(*) FROM manufacturers m WHERE m.business_id = b.id)
		FROM businesses b
		WHERE b.id = $1`, businessID).Scan(
		&id, &name, &email, &country, &subscriptionTier,
		&createdAt, &manufacturerCount,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":                id,
		"name":              name,
		"email":             email,
		"country":           country,
		"subscriptionTier":  subscriptionTier,
		"createdAt":         createdAt,
		"manufacturerCount": manufacturerCount,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
