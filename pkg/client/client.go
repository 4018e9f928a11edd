// Package client talks to a running plan server.
package client

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

	"github.com/kilianp07/mealplan/auth"
	"github.com/kilianp07/mealplan/core/model"
	"github.com/kilianp07/mealplan/pkg/export"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string              `json:"error"`
	Fields  map[string][]string `json:"fields"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	var parts []string
	for f, msgs := range e.Fields {
		parts = append(parts, f+": "+strings.Join(msgs, ", "))
	}
	return fmt.Sprintf("server returned %d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

type refresher interface {
	ForceRefresh(ctx context.Context) (string, error)
}

type Client struct {
	base string
	http *http.Client
	auth auth.Authorizer
}

// New returns a client for base, e.g. http://localhost:8080. a may be nil.
func New(base string, a auth.Authorizer) *Client {
	return &Client{
		base: strings.TrimSuffix(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
		auth: a,
	}
}

// Generate posts req and returns the plan built by the server.
func (c *Client) Generate(ctx context.Context, req model.PlanRequest) (*model.Plan, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var plan model.Plan
	if err := c.do(ctx, http.MethodPost, "/api/plans", b, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Export downloads a saved plan in format f and copies it to w.
func (c *Client) Export(ctx context.Context, id string, f export.Format, w io.Writer) error {
	path := "/api/plans/" + url.PathEscape(id) + "/export?format=" + string(f)
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, err = io.Copy(w, resp.Body)
	return err
}

// FoodItems lists the server catalog.
func (c *Client) FoodItems(ctx context.Context) ([]model.FoodItem, error) {
	var out []model.FoodItem
	return out, c.do(ctx, http.MethodGet, "/api/food-items", nil, &out)
}

// CookingPhases lists the server catalog.
func (c *Client) CookingPhases(ctx context.Context) ([]model.CookingPhase, error) {
	var out []model.CookingPhase
	return out, c.do(ctx, http.MethodGet, "/api/cooking-phases", nil, &out)
}

// Appliances lists the server catalog.
func (c *Client) Appliances(ctx context.Context) ([]model.Appliance, error) {
	var out []model.Appliance
	return out, c.do(ctx, http.MethodGet, "/api/appliances", nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs the request. A 401 is retried once with a fresh token when
// the authorizer can refresh.
func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	resp, err := c.attempt(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		if r, ok := c.auth.(refresher); ok {
			_ = resp.Body.Close()
			if _, err := r.ForceRefresh(ctx); err != nil {
				return nil, err
			}
			if resp, err = c.attempt(ctx, method, path, body); err != nil {
				return nil, err
			}
		}
	}
	if resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}
	return resp, nil
}

func (c *Client) attempt(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		if err := c.auth.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("authorize request: %w", err)
		}
	}
	return c.http.Do(req)
}
