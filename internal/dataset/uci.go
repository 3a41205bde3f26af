package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"heart-visualizer/internal/logger"
)

const (
	DefaultAPIURL = "https://archive.ics.uci.edu/api/dataset"

	roleFeature = "Feature"
	roleTarget  = "Target"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrNotImportable   = errors.New("dataset is not available for import")
)

// apiResponse is the envelope returned by the UCI dataset endpoint
type apiResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    *metadata `json:"data"`
}

type metadata struct {
	UCIID     int        `json:"uci_id"`
	Name      string     `json:"name"`
	DataURL   string     `json:"data_url"`
	Variables []variable `json:"variables"`
}

type variable struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	Type          string `json:"type"`
	MissingValues string `json:"missing_values"`
}

// Client fetches datasets from the UCI Machine Learning Repository
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(baseURL string, httpClient *http.Client, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: log}
}

// Fetch resolves the dataset metadata for id, downloads its data file and
// returns the feature columns followed by the target columns.
func (c *Client) Fetch(ctx context.Context, id int) (*Dataset, error) {
	meta, err := c.fetchMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	if meta.DataURL == "" {
		return nil, fmt.Errorf("%w: %q (id=%d)", ErrNotImportable, meta.Name, id)
	}

	var features, targets []string
	for _, v := range meta.Variables {
		switch v.Role {
		case roleFeature:
			features = append(features, v.Name)
		case roleTarget:
			targets = append(targets, v.Name)
		}
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("dataset %d declares no feature columns", id)
	}

	c.logger.Debug("UCIClient", "downloading data file", map[string]interface{}{
		"id":       id,
		"data_url": meta.DataURL,
		"features": len(features),
		"targets":  len(targets),
	})

	body, err := c.get(ctx, meta.DataURL)
	if err != nil {
		return nil, fmt.Errorf("download data for dataset %d: %w", id, err)
	}
	defer body.Close()

	frame, err := readFrame(body, features, targets)
	if err != nil {
		return nil, fmt.Errorf("parse data for dataset %d: %w", id, err)
	}

	name := meta.Name
	if name == "" {
		name = fmt.Sprintf("UCI dataset %d", id)
	}
	return &Dataset{
		ID:       id,
		Name:     name,
		Source:   meta.DataURL,
		Features: features,
		Targets:  targets,
		Frame:    frame,
	}, nil
}

func (c *Client) fetchMetadata(ctx context.Context, id int) (*metadata, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	query := endpoint.Query()
	query.Set("id", strconv.Itoa(id))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata for dataset %d: %w", id, err)
	}
	defer resp.Body.Close()

	var payload apiResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode != http.StatusOK || (decodeErr == nil && payload.Status != http.StatusOK) {
		msg := payload.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%w: id=%d: %s", ErrDatasetNotFound, id, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode metadata for dataset %d: %w", id, decodeErr)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("%w: id=%d: empty response", ErrDatasetNotFound, id)
	}
	return payload.Data, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// CloseIdleConnections releases pooled connections once loading is done.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
