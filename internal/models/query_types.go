// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeManufacturerFullDetails  QueryType = "manufacturer_full_details"
	QueryTypeManufacturerProfile      QueryType = "manufacturer_profile"
	QueryTypeManufacturerList         QueryType = "manufacturer_list"
	QueryTypeManufacturerVerification QueryType = "manufacturer_verification"
	QueryTypeBusinessProfile          QueryType = "business_profile"
)
