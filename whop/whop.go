// Package whop verifies purchases against the Whop memberships API.
package whop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	leadmagnet "github.com/lvillar/leadmagnet"
)

const (
	// DefaultBaseURL is the Whop v2 API root.
	DefaultBaseURL = "https://api.whop.com/api/v2"
	// DefaultPlanID is the plan that unlocks unlimited generation.
	DefaultPlanID = "plan_3K6z9JF9ht5oU"
)

// Membership is the part of a Whop membership record that matters here.
type Membership struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	PlanID string `json:"plan_id"`
}

type membershipList struct {
	Data []Membership `json:"data"`
}

// Verifier reports whether a user holds an active purchase.
type Verifier interface {
	Verify(ctx context.Context, userID string) (bool, error)
}

// Client talks to the Whop API.
type Client struct {
	apiKey  string
	baseURL string
	planID  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithPlanID sets the plan a membership must belong to.
func WithPlanID(id string) Option {
	return func(c *Client) {
		c.planID = id
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a Client. An empty apiKey is accepted; Verify then
// fails with ErrNotConfigured.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		planID:  DefaultPlanID,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Verify lists the user's memberships and reports whether one is active on
// the configured plan.
func (c *Client) Verify(ctx context.Context, userID string) (bool, error) {
	if !c.Configured() {
		return false, fmt.Errorf("%w: WHOP_API_KEY is not set", leadmagnet.ErrNotConfigured)
	}
	u := c.baseURL + "/memberships?" + url.Values{"user_id": {userID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("whop: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, &leadmagnet.NetworkError{Service: "whop", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &leadmagnet.NetworkError{
			Service:    "whop",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var list membershipList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return false, &leadmagnet.NetworkError{Service: "whop", Err: fmt.Errorf("decoding memberships: %w", err)}
	}
	for _, m := range list.Data {
		if m.Status == "active" && m.PlanID == c.planID {
			return true, nil
		}
	}
	return false, nil
}
