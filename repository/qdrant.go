package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// QdrantClient is a minimal REST client for the Qdrant points API
type QdrantClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// QdrantOption configures a QdrantClient
type QdrantOption func(*QdrantClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) QdrantOption {
	return func(c *QdrantClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) QdrantOption {
	return func(c *QdrantClient) {
		c.httpClient.Timeout = d
	}
}

// NewQdrantClient creates a client for the Qdrant instance at baseURL,
// authenticating every request with the given API key
func NewQdrantClient(baseURL, apiKey string, opts ...QdrantOption) *QdrantClient {
	c := &QdrantClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VectorParams describes the vector storage of a collection
type VectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

// PointStruct is a single vector point with its payload
type PointStruct struct {
	ID      uint64                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// MatchValue matches a payload field against an exact value
type MatchValue struct {
	Value string `json:"value"`
}

// FieldCondition is a single payload filter condition
type FieldCondition struct {
	Key   string     `json:"key"`
	Match MatchValue `json:"match"`
}

// Filter restricts a search to points matching all conditions
type Filter struct {
	Must []FieldCondition `json:"must,omitempty"`
}

// SearchRequest is the body of a points search
type SearchRequest struct {
	Vector      []float32 `json:"vector"`
	Filter      *Filter   `json:"filter,omitempty"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

// ScoredPoint is a search hit. The point ID may be an integer or a UUID
// string depending on how the point was inserted.
type ScoredPoint struct {
	ID      interface{}            `json:"id"`
	Score   float32                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
}

type collectionsResponse struct {
	Result struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

type searchResponse struct {
	Result []ScoredPoint `json:"result"`
}

// ListCollections returns the names of all collections
func (c *QdrantClient) ListCollections(ctx context.Context) ([]string, error) {
	var resp collectionsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/collections", nil, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Result.Collections))
	for _, col := range resp.Result.Collections {
		names = append(names, col.Name)
	}
	return names, nil
}

// CollectionExists reports whether a collection with the given name exists
func (c *QdrantClient) CollectionExists(ctx context.Context, name string) (bool, error) {
	names, err := c.ListCollections(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateCollection creates a collection with the given vector parameters
func (c *QdrantClient) CreateCollection(ctx context.Context, name string, params VectorParams) error {
	body := struct {
		Vectors VectorParams `json:"vectors"`
	}{Vectors: params}

	return c.doRequest(ctx, http.MethodPut, "/collections/"+url.PathEscape(name), body, nil)
}

// CreatePayloadIndex creates an index on a payload field. Qdrant answers an
// already-indexed field with an error status.
func (c *QdrantClient) CreatePayloadIndex(ctx context.Context, collection, fieldName, fieldSchema string) error {
	body := struct {
		FieldName   string `json:"field_name"`
		FieldSchema string `json:"field_schema"`
	}{FieldName: fieldName, FieldSchema: fieldSchema}

	return c.doRequest(ctx, http.MethodPut, "/collections/"+url.PathEscape(collection)+"/index", body, nil)
}

// UpsertPoints inserts or replaces points, waiting until the operation is
// applied
func (c *QdrantClient) UpsertPoints(ctx context.Context, collection string, points []PointStruct) error {
	body := struct {
		Points []PointStruct `json:"points"`
	}{Points: points}

	return c.doRequest(ctx, http.MethodPut, "/collections/"+url.PathEscape(collection)+"/points?wait=true", body, nil)
}

// SearchPoints runs a nearest-neighbor search and returns the scored hits
func (c *QdrantClient) SearchPoints(ctx context.Context, collection string, req SearchRequest) ([]ScoredPoint, error) {
	var resp searchResponse
	if err := c.doRequest(ctx, http.MethodPost, "/collections/"+url.PathEscape(collection)+"/points/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (c *QdrantClient) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("qdrant API error: %d - %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
