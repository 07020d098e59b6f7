package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ElasticsearchQuery defines the structure of a query request
type ElasticsearchQuery struct {
	Index          string
	QueryType      string
	Filters        map[string]interface{}
	ManufacturerID string
	Industry       string
	Pagination     struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, eq ElasticsearchQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case "manufacturer_search":
		queryBody = buildManufacturerSearchQuery(eq)
	case "related_manufacturers":
		queryBody = buildRelatedManufacturersQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{eq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &eq.Pagination.From,
		Size:   &eq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildManufacturerSearchQuery builds the main manufacturer search query dynamically
func buildManufacturerSearchQuery(eq ElasticsearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search
	if keywords, ok := eq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"name^3", "description^2", "industry", "servicesOffered"},
				"type":   "best_fields",
			},
		})
	}

	// Industry filter; explicit filter wins over the top-level field
	if industry, ok := eq.Filters["industry"].(string); ok && industry != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"industry.keyword": industry},
		})
	} else if eq.Industry != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"industry.keyword": eq.Industry},
		})
	}

	// Country filter
	if country, ok := eq.Filters["country"].(string); ok && country != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"headquarters.country.keyword": country},
		})
	}

	// MOQ range filter
	if moqRange, ok := eq.Filters["moqRange"].(map[string]interface{}); ok {
		bounds := map[string]interface{}{}
		if minVal, exists := toFloat(moqRange["min"]); exists && minVal > 0 {
			bounds["gte"] = minVal
		}
		if maxVal, exists := toFloat(moqRange["max"]); exists && maxVal > 0 {
			bounds["lte"] = maxVal
		}
		if len(bounds) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{"moq": bounds},
			})
		}
	}

	// Required services filter
	if services, ok := eq.Filters["services"].([]interface{}); ok && len(services) > 0 {
		terms := make([]string, 0, len(services))
		for _, svc := range services {
			if s, ok := svc.(string); ok {
				terms = append(terms, s)
			}
		}
		if len(terms) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"terms": map[string]interface{}{"servicesOffered.keyword": terms},
			})
		}
	}

	// Minimum profile score filter
	if minScore, exists := toFloat(eq.Filters["minProfileScore"]); exists && minScore > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"profileScore": map[string]interface{}{"gte": minScore},
			},
		})
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := eq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "profileScore":
			query["sort"] = []map[string]interface{}{{"profileScore": "desc"}}
		case "moq":
			query["sort"] = []map[string]interface{}{{"moq": "asc"}}
		case "name":
			query["sort"] = []map[string]interface{}{{"name.keyword": "asc"}}
		}
	}

	return query
}

// buildRelatedManufacturersQuery builds the "similar manufacturers" query
func buildRelatedManufacturersQuery(eq ElasticsearchQuery) map[string]interface{} {
	if eq.ManufacturerID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"name", "description", "industry", "servicesOffered"},
				"like": []map[string]interface{}{
					{"_index": eq.Index, "_id": eq.ManufacturerID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
