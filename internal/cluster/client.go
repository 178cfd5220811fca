// Package cluster is a thin client over the HPC cluster-control API. All
// calls are one-shot request/response; cluster creation and teardown are
// asynchronous on the server side, so callers observe progress through job
// records rather than by waiting here.
package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "wrfcloud/pkg/errors"
)

const (
	defaultTimeout = 30 * time.Second

	headerAPIKey      = "X-Api-Key"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Interface is the narrow surface the action layer depends on.
type Interface interface {
	CreateCluster(ctx context.Context, req CreateRequest) error
	DeleteCluster(ctx context.Context, clusterName string) error
	DescribeCluster(ctx context.Context, clusterName string) (*Description, error)
}

// CreateRequest carries everything the cluster manager needs to build a
// compute cluster for one forecast job.
type CreateRequest struct {
	ClusterName string `json:"clusterName"`
	JobID       string `json:"jobId"`
	Cores       int    `json:"cores"`
}

// StatusRunning is reported once the cluster manager has the compute
// nodes up and the job can start.
const StatusRunning = "RUNNING"

// Description is the subset of the cluster manager's status response the
// system cares about.
type Description struct {
	ClusterName string `json:"clusterName"`
	Status      string `json:"clusterStatus"`
}

// Client talks to the cluster manager's REST endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) CreateCluster(ctx context.Context, req CreateRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal cluster request: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/v3/clusters", body, nil)
}

func (c *Client) DeleteCluster(ctx context.Context, clusterName string) error {
	return c.do(ctx, http.MethodDelete, "/v3/clusters/"+clusterName, nil, nil)
}

func (c *Client) DescribeCluster(ctx context.Context, clusterName string) (*Description, error) {
	var desc Description
	if err := c.do(ctx, http.MethodGet, "/v3/clusters/"+clusterName, nil, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build cluster request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.ClusterRequest("cluster manager unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperrors.ClusterRequest(
			fmt.Sprintf("cluster manager returned %d", resp.StatusCode),
			fmt.Errorf("%s %s: %s", method, path, detail),
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode cluster response: %w", err)
		}
	}
	return nil
}
