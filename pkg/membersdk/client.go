// Package membersdk is a typed HTTP client for the membership service. It
// covers provisioning, login, invitation and license management, plus the
// public invitation accept flow used by onboarding frontends.
package membersdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a membership service instance. Call Login (or set Token)
// before using the admin operations.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is the bearer token attached to admin operations.
	Token string
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is a non-2xx response decoded into the standard error envelope.
type APIError struct {
	StatusCode int
	Response   ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.ErrorDescription != "" {
		return fmt.Sprintf("membership api: %s (%s)", e.Response.ErrorDescription, e.Response.Error)
	}
	return fmt.Sprintf("membership api: http %d", e.StatusCode)
}

// CreateOrganization provisions a new organization. Unauthenticated.
func (c *Client) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error) {
	var out OrganizationResponse
	if err := c.do(ctx, http.MethodPost, "/v1/organizations", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session and stores the token on the
// client for subsequent admin calls.
func (c *Client) Login(ctx context.Context, email, password string) (*SessionResponse, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/sessions", SessionRequest{Email: email, Password: password}, &out, false)
	if err != nil {
		return nil, err
	}
	c.Token = out.Token
	return &out, nil
}

// IssueInvites submits an invitation batch. Requires an org_admin session.
func (c *Client) IssueInvites(ctx context.Context, req IssueInvitesRequest) (*IssueInvitesResponse, error) {
	var out IssueInvitesResponse
	if err := c.do(ctx, http.MethodPost, "/v1/organizations/invites", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateInvite resolves a code into its accept-page summary.
func (c *Client) ValidateInvite(ctx context.Context, code string) (*ValidateInviteResponse, error) {
	var out ValidateInviteResponse
	path := "/v1/invites/" + url.PathEscape(code) + "/validate"
	if err := c.do(ctx, http.MethodGet, path, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptInvite redeems a code into an account. Unauthenticated.
func (c *Client) AcceptInvite(ctx context.Context, code string, req AcceptInviteRequest) (*AcceptInviteResponse, error) {
	var out AcceptInviteResponse
	path := "/v1/invites/" + url.PathEscape(code) + "/accept"
	if err := c.do(ctx, http.MethodPost, path, req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeInvite cancels a pending invitation. Requires an org_admin session.
func (c *Client) RevokeInvite(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodDelete, "/v1/invites/"+url.PathEscape(code), nil, nil, true)
}

// GetLicenses returns the organization's seat ledger. Requires an org_admin
// session.
func (c *Client) GetLicenses(ctx context.Context) (*Licenses, error) {
	var out Licenses
	if err := c.do(ctx, http.MethodGet, "/v1/organizations/licenses", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLicenses changes purchased seat totals. Requires an org_admin session.
func (c *Client) UpdateLicenses(ctx context.Context, req UpdateLicensesRequest) (*Licenses, error) {
	var out Licenses
	if err := c.do(ctx, http.MethodPut, "/v1/organizations/licenses", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns the organization's members. Requires an org_admin session.
func (c *Client) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	var out ListUsersResponse
	if err := c.do(ctx, http.MethodGet, "/v1/organizations/users", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveUser soft-disables a member and frees their seat. Requires an
// org_admin session.
func (c *Client) RemoveUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/users/"+url.PathEscape(userID), nil, nil, true)
}

// Health calls the liveness probe.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Response)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
