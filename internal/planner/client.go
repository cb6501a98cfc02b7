package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/finplan/advisor-service/internal/config"
	"github.com/finplan/advisor-service/internal/models"
)

// Client talks to the remote financial-planning engine. It makes exactly
// one outbound call per Submit, with no retries and no timeout of its own;
// deadline policy belongs to the caller's context.
type Client struct {
	url    string
	apiKey string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a planning-engine client.
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.PlannerURL,
		apiKey: cfg.PlannerAPIKey,
		client: &http.Client{},
		log:    log,
	}
}

// Submit posts one plan request and decodes the reply. Non-2xx statuses
// yield a *RequestFailedError, transport failures a *TransportError, and
// a body that is not valid JSON propagates the decode error as-is.
func (c *Client) Submit(ctx context.Context, planReq *models.PlanRequest) (*models.PlanResponse, error) {
	body, err := json.Marshal(planReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	c.log.Debugf("Plan request payload: %s", body)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Errorf("Planning engine returned %s for tag %q", resp.Status, planReq.Tag)
		return nil, &RequestFailedError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var plan models.PlanResponse
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, err
	}

	c.log.Infof("Plan generated for tag %q: %d allocations", planReq.Tag, len(plan.AssetAllocations))
	return &plan, nil
}
