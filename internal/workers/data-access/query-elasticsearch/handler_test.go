package queryelasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/workers/data-access/query-elasticsearch/queries"
)

func createTestConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

func decodeBody(t *testing.T, eq queries.ElasticsearchQuery) map[string]interface{} {
	t.Helper()

	req, err := queries.BuildQuery(nil, eq)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
	return body
}

func TestBuildQuery_KeywordSearch(t *testing.T) {
	eq := queries.ElasticsearchQuery{
		Index:     "manufacturers",
		QueryType: "manufacturer_search",
		Filters: map[string]interface{}{
			"keywords": "injection molding",
		},
	}

	body := decodeBody(t, eq)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)

	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "injection molding", multiMatch["query"])

	fields := multiMatch["fields"].([]interface{})
	assert.Contains(t, fields, "name^3")
	assert.Contains(t, fields, "description^2")
}

func TestBuildQuery_Filters(t *testing.T) {
	eq := queries.ElasticsearchQuery{
		Index:     "manufacturers",
		QueryType: "manufacturer_search",
		Filters: map[string]interface{}{
			"industry": "Plastics",
			"country":  "Germany",
			"moqRange": map[string]interface{}{
				"min": float64(100),
				"max": float64(1000),
			},
			"services": []interface{}{"Tooling", "Assembly"},
		},
	}

	body := decodeBody(t, eq)

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolQuery["filter"].([]interface{})
	assert.Len(t, filters, 4)

	// No keyword: must defaults to match_all
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	_, isMatchAll := must[0].(map[string]interface{})["match_all"]
	assert.True(t, isMatchAll)

	raw, _ := json.Marshal(filters)
	assert.Contains(t, string(raw), `"industry.keyword":"Plastics"`)
	assert.Contains(t, string(raw), `"headquarters.country.keyword":"Germany"`)
	assert.Contains(t, string(raw), `"gte":100`)
	assert.Contains(t, string(raw), `"lte":1000`)
	assert.Contains(t, string(raw), `"servicesOffered.keyword":["Tooling","Assembly"]`)
}

func TestBuildQuery_MOQBoundsOptional(t *testing.T) {
	eq := queries.ElasticsearchQuery{
		Index:     "manufacturers",
		QueryType: "manufacturer_search",
		Filters: map[string]interface{}{
			"moqRange": map[string]interface{}{"max": float64(500)},
		},
	}

	body := decodeBody(t, eq)
	raw, _ := json.Marshal(body)
	assert.Contains(t, string(raw), `"lte":500`)
	assert.NotContains(t, string(raw), `"gte"`)
}

func TestBuildQuery_Sorting(t *testing.T) {
	eq := queries.ElasticsearchQuery{
		Index:     "manufacturers",
		QueryType: "manufacturer_search",
		Filters: map[string]interface{}{
			"sortBy": "profileScore",
		},
	}

	body := decodeBody(t, eq)
	sort := body["sort"].([]interface{})
	require.Len(t, sort, 1)
	assert.Equal(t, "desc", sort[0].(map[string]interface{})["profileScore"])
}

func TestBuildQuery_RelatedManufacturers(t *testing.T) {
	eq := queries.ElasticsearchQuery{
		Index:          "manufacturers",
		QueryType:      "related_manufacturers",
		Filters:        map[string]interface{}{},
		ManufacturerID: "mfr-123",
	}

	body := decodeBody(t, eq)

	mlt := body["query"].(map[string]interface{})["more_like_this"].(map[string]interface{})
	like := mlt["like"].([]interface{})
	require.Len(t, like, 1)
	assert.Equal(t, "mfr-123", like[0].(map[string]interface{})["_id"])
}

func TestBuildQuery_RelatedWithoutID(t *testing.T) {
	eq := queries.ElasticsearchQuery{
		Index:     "manufacturers",
		QueryType: "related_manufacturers",
		Filters:   map[string]interface{}{},
	}

	body := decodeBody(t, eq)
	_, isMatchNone := body["query"].(map[string]interface{})["match_none"]
	assert.True(t, isMatchNone)
}

func TestBuildQuery_Errors(t *testing.T) {
	_, err := queries.BuildQuery(nil, queries.ElasticsearchQuery{
		QueryType: "manufacturer_search",
		Filters:   map[string]interface{}{},
	})
	assert.ErrorIs(t, err, queries.ErrMissingIndex)

	_, err = queries.BuildQuery(nil, queries.ElasticsearchQuery{
		Index:     "manufacturers",
		QueryType: "bogus",
		Filters:   map[string]interface{}{},
	})
	assert.ErrorIs(t, err, queries.ErrUnknownQueryType)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	t.Run("nil input", func(t *testing.T) {
		output, err := handler.execute(context.Background(), nil)
		assert.Error(t, err)
		assert.Nil(t, output)
	})

	t.Run("missing index", func(t *testing.T) {
		output, err := handler.execute(context.Background(), &Input{
			QueryType: "manufacturer_search",
		})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrIndexNotFound))
		assert.Nil(t, output)
	})

	t.Run("unknown query type", func(t *testing.T) {
		output, err := handler.execute(context.Background(), &Input{
			IndexName: "manufacturers",
			QueryType: "bogus",
		})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrSearchQueryFailed))
		assert.Nil(t, output)
	})
}

func TestHandler_RetryMapping(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, logger.NewTestLogger(t))

	assert.Equal(t, int32(3), handler.getRetryCount(ErrSearchQueryFailed))
	assert.Equal(t, int32(3), handler.getRetryCount(ErrElasticsearchConnectionFailed))
	assert.Equal(t, int32(2), handler.getRetryCount(ErrSearchTimeout))
	assert.Equal(t, int32(0), handler.getRetryCount(ErrIndexNotFound))

	assert.Equal(t, "SEARCH_TIMEOUT", handler.mapErrorToCode(ErrSearchTimeout))
	assert.Equal(t, "INDEX_NOT_FOUND", handler.mapErrorToCode(ErrIndexNotFound))
}

// Integration coverage against a local Elasticsearch; skipped when no
// container is running.
func TestHandler_Execute_Integration(t *testing.T) {
	esClient := connectLocalElasticsearch(t)

	setupManufacturerIndex(t, esClient)

	handler := NewHandler(createTestConfig(), esClient, logger.NewTestLogger(t))

	t.Run("keyword search", func(t *testing.T) {
		output, err := handler.execute(context.Background(), &Input{
			IndexName: "manufacturers",
			QueryType: "manufacturer_search",
			Filters: map[string]interface{}{
				"keywords": "molding",
			},
			Pagination: Pagination{From: 0, Size: 10},
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, output.TotalHits, int64(1))
	})

	t.Run("industry filter", func(t *testing.T) {
		output, err := handler.execute(context.Background(), &Input{
			IndexName: "manufacturers",
			QueryType: "manufacturer_search",
			Filters: map[string]interface{}{
				"industry": "Electronics",
			},
			Pagination: Pagination{From: 0, Size: 10},
		})
		require.NoError(t, err)
		for _, doc := range output.Data {
			assert.Equal(t, "Electronics", doc["industry"])
		}
	})
}

func connectLocalElasticsearch(t *testing.T) *elasticsearch.Client {
	t.Helper()

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
	})
	if err != nil {
		t.Skipf("skipping: failed to create Elasticsearch client: %v", err)
		return nil
	}

	res, err := esClient.Info()
	if err != nil {
		t.Skipf("skipping: Elasticsearch not responding: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		t.Skipf("skipping: Elasticsearch error: %s", res.String())
		return nil
	}
	return esClient
}

func setupManufacturerIndex(t *testing.T, esClient *elasticsearch.Client) {
	t.Helper()

	esClient.Indices.Delete([]string{"manufacturers"}, esClient.Indices.Delete.WithIgnoreUnavailable(true))

	docs := []map[string]interface{}{
		{
			"name":            "Precision Plastics",
			"description":     "Injection molding house",
			"industry":        "Plastics",
			"servicesOffered": []string{"Injection Molding", "Tooling"},
			"moq":             500,
			"headquarters":    map[string]interface{}{"country": "Germany", "city": "Stuttgart"},
			"profileScore":    95,
		},
		{
			"name":            "Shenzhen Boards",
			"description":     "PCB assembly and fabrication",
			"industry":        "Electronics",
			"servicesOffered": []string{"PCB Assembly"},
			"moq":             1000,
			"headquarters":    map[string]interface{}{"country": "China", "city": "Shenzhen"},
			"profileScore":    80,
		},
	}

	for i, doc := range docs {
		docJSON, _ := json.Marshal(doc)
		res, err := esClient.Index(
			"manufacturers",
			strings.NewReader(string(docJSON)),
			esClient.Index.WithDocumentID(string(rune('a'+i))),
			esClient.Index.WithRefresh("true"),
		)
		require.NoError(t, err)
		res.Body.Close()
	}
}
