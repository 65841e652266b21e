package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pilates-studio/internal/models"
)

// DefaultCosmicAPIURL is the Cosmic REST API base URL
const DefaultCosmicAPIURL = "https://api.cosmicjs.com/v3"

// CosmicConfig represents Cosmic CMS configuration
type CosmicConfig struct {
	BucketSlug string
	ReadKey    string
	WriteKey   string
	APIURL     string
}

// CosmicClient talks to a Cosmic bucket over its REST API
type CosmicClient struct {
	config  CosmicConfig
	client  *http.Client
	baseURL string
}

// NewCosmicClient creates a new Cosmic CMS client
func NewCosmicClient(config CosmicConfig) *CosmicClient {
	baseURL := config.APIURL
	if baseURL == "" {
		baseURL = DefaultCosmicAPIURL
	}

	return &CosmicClient{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ObjectQuery selects objects of one type from the bucket
type ObjectQuery struct {
	Type  string
	Slug  string
	Props []string
	Depth int
	Limit int
	Skip  int
	Sort  string
}

// CMSObject is an object written to the bucket
type CMSObject struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Slug     string `json:"slug,omitempty"`
	Metadata any    `json:"metadata"`
}

// CosmicError represents an error response from Cosmic
type CosmicError struct {
	StatusCode int    `json:"status"`
	Message    string `json:"message"`
}

func (e *CosmicError) Error() string {
	return fmt.Sprintf("Cosmic Error (status %d): %s", e.StatusCode, e.Message)
}

// FindObjects fetches the objects matching q into out, which must point to
// a struct with an "objects" field. A 404 leaves out untouched.
func (c *CosmicClient) FindObjects(ctx context.Context, q ObjectQuery, out any) error {
	body, err := c.get(ctx, q)
	if err != nil {
		if models.IsNotFound(err) {
			return nil
		}
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s objects: %w", q.Type, err)
	}
	return nil
}

// FindOneObject fetches the first object matching q into out. It returns
// models.ErrNotFound when nothing matches.
func (c *CosmicClient) FindOneObject(ctx context.Context, q ObjectQuery, out any) error {
	q.Limit = 1
	body, err := c.get(ctx, q)
	if err != nil {
		return err
	}

	var resp struct {
		Objects []json.RawMessage `json:"objects"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to decode %s object: %w", q.Type, err)
	}
	if len(resp.Objects) == 0 {
		return &models.ErrNotFound{Message: fmt.Sprintf("%s %q not found", q.Type, q.Slug)}
	}

	if err := json.Unmarshal(resp.Objects[0], out); err != nil {
		return fmt.Errorf("failed to decode %s object: %w", q.Type, err)
	}
	return nil
}

// CreateObject inserts a new object using the bucket write key
func (c *CosmicClient) CreateObject(ctx context.Context, obj *CMSObject) error {
	if c.config.WriteKey == "" {
		return fmt.Errorf("cosmic write key not configured")
	}

	jsonData, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal %s object: %w", obj.Type, err)
	}

	createURL := fmt.Sprintf("%s/buckets/%s/objects", c.baseURL, url.PathEscape(c.config.BucketSlug))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, createURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create object request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.config.WriteKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send object request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.handleAPIError(resp.StatusCode, bodyBytes)
	}

	return nil
}

func (c *CosmicClient) get(ctx context.Context, q ObjectQuery) ([]byte, error) {
	query := map[string]string{"type": q.Type}
	if q.Slug != "" {
		query["slug"] = q.Slug
	}
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	params := url.Values{}
	params.Set("query", string(queryJSON))
	params.Set("read_key", c.config.ReadKey)
	if len(q.Props) > 0 {
		params.Set("props", strings.Join(q.Props, ","))
	}
	if q.Depth > 0 {
		params.Set("depth", strconv.Itoa(q.Depth))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}

	findURL := fmt.Sprintf("%s/buckets/%s/objects?%s", c.baseURL, url.PathEscape(c.config.BucketSlug), params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, findURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create find request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send find request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp.StatusCode, bodyBytes)
	}

	return bodyBytes, nil
}

// handleAPIError handles Cosmic API errors
func (c *CosmicClient) handleAPIError(statusCode int, body []byte) error {
	cosmicErr := &CosmicError{StatusCode: statusCode}
	if err := json.Unmarshal(body, cosmicErr); err != nil || cosmicErr.Message == "" {
		cosmicErr.Message = strings.TrimSpace(string(body))
	}
	cosmicErr.StatusCode = statusCode

	switch statusCode {
	case http.StatusNotFound:
		return &models.ErrNotFound{Message: cosmicErr.Message}
	case http.StatusUnauthorized, http.StatusForbidden:
		log.Printf("Cosmic rejected credentials for bucket %s", c.config.BucketSlug)
		return fmt.Errorf("unauthorized: check bucket keys - %w", cosmicErr)
	default:
		return cosmicErr
	}
}
