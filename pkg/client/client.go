// Package client is a typed HTTP client for the dashboard API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	SessionHeader  = "X-Session-ID"
	apiPrefix      = "/api/v1"
)

// APIError is a non-2xx answer from the server. It unwraps to the matching
// domain sentinel so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusForbidden:
		return domain.ErrPermissionDenied
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrInvalidTransition
	case http.StatusBadRequest:
		return domain.ErrInvalidArgument
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	return nil
}

type Client struct {
	baseURL string
	session string
	http    *http.Client
}

type Option func(*Client)

func WithSession(id string) Option {
	return func(c *Client) { c.session = id }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimSuffix(u.String(), "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListSquads(ctx context.Context) ([]api.Squad, error) {
	var res []api.Squad
	err := c.do(ctx, http.MethodGet, "/squads", nil, nil, &res)
	return res, err
}

func (c *Client) Financials(ctx context.Context, squadID, from, to string) (api.Financials, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	var res api.Financials
	err := c.do(ctx, http.MethodGet, "/squads/"+url.PathEscape(squadID)+"/financials", q, nil, &res)
	return res, err
}

func (c *Client) ListAnomalies(ctx context.Context, squadID string) ([]api.Anomaly, error) {
	var res []api.Anomaly
	err := c.do(ctx, http.MethodGet, "/anomalies", squadQuery(squadID), nil, &res)
	return res, err
}

func (c *Client) SetAnomalyStatus(ctx context.Context, id, status string) (api.Anomaly, error) {
	var res api.Anomaly
	err := c.do(ctx, http.MethodPut, "/anomalies/"+url.PathEscape(id)+"/status", nil,
		api.StatusUpdate{Status: status}, &res)
	return res, err
}

func (c *Client) ListCharges(ctx context.Context, squadID string) ([]api.Charge, error) {
	var res []api.Charge
	err := c.do(ctx, http.MethodGet, "/charges", squadQuery(squadID), nil, &res)
	return res, err
}

func (c *Client) UpdateCostCenter(ctx context.Context, chargeID, costCenter string) (api.Charge, error) {
	var res api.Charge
	err := c.do(ctx, http.MethodPut, "/charges/"+url.PathEscape(chargeID)+"/cost-center", nil,
		api.CostCenterUpdate{CostCenter: costCenter}, &res)
	return res, err
}

func (c *Client) ListIntegrations(ctx context.Context) ([]api.Integration, error) {
	var res []api.Integration
	err := c.do(ctx, http.MethodGet, "/integrations", nil, nil, &res)
	return res, err
}

func (c *Client) ConnectIntegration(ctx context.Context, id string) (api.ConnectResult, error) {
	var res api.ConnectResult
	err := c.do(ctx, http.MethodPost, "/integrations/"+url.PathEscape(id)+"/connect", nil, nil, &res)
	return res, err
}

func (c *Client) RefreshIntegration(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/integrations/"+url.PathEscape(id)+"/refresh", nil, nil, nil)
}

func (c *Client) CreateAnnotation(ctx context.Context, req api.AnnotationRequest) (api.Annotation, error) {
	var res api.Annotation
	err := c.do(ctx, http.MethodPost, "/annotations", nil, req, &res)
	return res, err
}

func (c *Client) CreateChargeback(ctx context.Context, req api.ChargebackRequest) (api.Chargeback, error) {
	var res api.Chargeback
	err := c.do(ctx, http.MethodPost, "/chargebacks", nil, req, &res)
	return res, err
}

func (c *Client) Session(ctx context.Context) (api.Session, error) {
	var res api.Session
	err := c.do(ctx, http.MethodGet, "/session", nil, nil, &res)
	return res, err
}

func (c *Client) SetRole(ctx context.Context, role string) (api.Session, error) {
	var res api.Session
	err := c.do(ctx, http.MethodPut, "/session/role", nil, api.RoleUpdate{Role: role}, &res)
	return res, err
}

func (c *Client) ListActivity(ctx context.Context, limit int) ([]api.Activity, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var res []api.Activity
	err := c.do(ctx, http.MethodGet, "/activity", q, nil, &res)
	return res, err
}

func (c *Client) Overview(ctx context.Context) (api.Overview, error) {
	var res api.Overview
	err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &res)
	return res, err
}

func squadQuery(squadID string) url.Values {
	if squadID == "" {
		return nil
	}
	return url.Values{"squad": []string{squadID}}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.Header.Set(SessionHeader, c.session)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr api.Error
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
