package search

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/freightdesk/services/forwarding/config"
	"example.com/freightdesk/services/forwarding/internal/models"
)

// ElasticClient provides integration with Elasticsearch
type ElasticClient struct {
	client *elasticsearch.Client
	config config.ElasticConfig
}

// NewElasticClient creates a new Elasticsearch client
func NewElasticClient(cfg config.ElasticConfig) (*ElasticClient, error) {
	esConfig := elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Elasticsearch client")
	}

	return &ElasticClient{
		client: client,
		config: cfg,
	}, nil
}

// IndexJob indexes a job in the shipment index. Document ID is the job ID, so
// reindexing is idempotent.
func (c *ElasticClient) IndexJob(ctx context.Context, job *models.Job) error {
	doc := map[string]interface{}{
		"entity_type":            "job",
		"id":                     job.ID.String(),
		"job_no":                 job.JobNo,
		"mawb_no":                job.MawbNo,
		"shipment_term":          job.ShipmentTerm,
		"freight_term":           job.FreightTerm,
		"shipper_name":           job.ShipperName,
		"consignee_name":         job.ConsigneeName,
		"airport_of_departure":   job.AirportOfDeparture,
		"airport_of_destination": job.AirportOfDestination,
		"flight_no":              job.FlightNo,
		"eta":                    job.ETA,
		"created_at":             job.CreatedAt,
		"updated_at":             job.UpdatedAt,
	}
	return c.index(ctx, job.ID.String(), doc)
}

// IndexHouse indexes a house bill in the shipment index.
func (c *ElasticClient) IndexHouse(ctx context.Context, house *models.House) error {
	doc := map[string]interface{}{
		"entity_type":    "house",
		"id":             house.ID.String(),
		"job_id":         house.JobID.String(),
		"hawb_no":        house.HawbNo,
		"mawb_no":        house.MawbNo,
		"shipper_name":   house.ShipperName,
		"consignee_name": house.ConsigneeName,
		"flight_no":      house.FlightNo,
		"eta":            house.ETA,
		"created_at":     house.CreatedAt,
		"updated_at":     house.UpdatedAt,
	}
	return c.index(ctx, house.ID.String(), doc)
}

func (c *ElasticClient) index(ctx context.Context, docID string, doc map[string]interface{}) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal shipment document")
	}

	indexName := config.FormatIndex(c.config, c.config.Index)
	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: docID,
		Body:       bytes.NewReader(docJSON),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(err, "failed to execute Elasticsearch index request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return errors.Errorf("Elasticsearch index error: %v", e)
	}

	log.Debug().Str("doc_id", docID).Msg("shipment document indexed")
	return nil
}

// SearchShipments runs a free-text query over the shipment index and returns
// the matching documents.
func (c *ElasticClient) SearchShipments(ctx context.Context, text string, size int) ([]map[string]interface{}, error) {
	if size <= 0 {
		size = 25
	}
	query := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     text,
				"fields":    []string{"*"},
				"fuzziness": "AUTO",
			},
		},
	}

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal search query")
	}

	indexName := config.FormatIndex(c.config, c.config.Index)
	req := esapi.SearchRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Elasticsearch search request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return nil, errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return nil, errors.Errorf("Elasticsearch search error: %v", e)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to parse Elasticsearch search response")
	}

	hits, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected search result format")
	}
	hitsArray, ok := hits["hits"].([]interface{})
	if !ok {
		return nil, errors.New("unexpected hits format")
	}

	var docs []map[string]interface{}
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}
		docs = append(docs, source)
	}

	return docs, nil
}
