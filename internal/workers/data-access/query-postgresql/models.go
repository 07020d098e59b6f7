// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "marketplace-workers/internal/models"

type Input struct {
	QueryType       string                 `json:"queryType"`
	ManufacturerID  string                 `json:"manufacturerId,omitempty"`
	ManufacturerIDs []string               `json:"manufacturerIds,omitempty"`
	BusinessID      string                 `json:"businessId,omitempty"`
	Filters         map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeManufacturerFullDetails  = models.QueryTypeManufacturerFullDetails
	QueryTypeManufacturerProfile      = models.QueryTypeManufacturerProfile
	QueryTypeManufacturerList         = models.QueryTypeManufacturerList
	QueryTypeManufacturerVerification = models.QueryTypeManufacturerVerification
	QueryTypeBusinessProfile          = models.QueryTypeBusinessProfile
)
