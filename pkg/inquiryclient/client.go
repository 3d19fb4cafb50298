// Package inquiryclient is an HTTP client for the admin inquiry API.
// Every call carries the admin password as a Basic credential; the API has
// no session, so the caller supplies the password each time.
package inquiryclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kvbuilders/site/internal/model"
	"github.com/kvbuilders/site/pkg/auth"
)

// ErrUnauthorized is returned when the API rejects the password (HTTP 401).
var ErrUnauthorized = errors.New("inquiryclient: unauthorized")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inquiryclient: %s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// Client is the admin inquiry API.
type Client interface {
	// ListInquiries fetches the whole inquiry collection in server order.
	ListInquiries(ctx context.Context, password string) ([]model.Inquiry, error)
	// UpdateStatus sets one inquiry's status. The response body is ignored.
	UpdateStatus(ctx context.Context, password, id string, status model.Status) error
}

// RealClient talks to the API over HTTP.
type RealClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a RealClient. baseURL is prepended to the API paths and
// may be empty only when the paths resolve elsewhere (e.g. a proxying
// transport). httpClient nil means http.DefaultClient; no timeout is
// imposed beyond the caller's context.
func NewClient(baseURL string, httpClient *http.Client) *RealClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RealClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

var _ Client = (*RealClient)(nil)

// InquiriesPath is the collection endpoint.
const InquiriesPath = "/api/admin/inquiries"

// ListInquiries issues GET /api/admin/inquiries.
func (c *RealClient) ListInquiries(ctx context.Context, password string) ([]model.Inquiry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+InquiriesPath, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(auth.AdminUsername, password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.MethodGet, InquiriesPath); err != nil {
		return nil, err
	}

	var inquiries []model.Inquiry
	if err := json.NewDecoder(resp.Body).Decode(&inquiries); err != nil {
		return nil, fmt.Errorf("inquiryclient: decode inquiries: %w", err)
	}
	if inquiries == nil {
		inquiries = []model.Inquiry{}
	}
	return inquiries, nil
}

// UpdateStatus issues PATCH /api/admin/inquiries/{id}?status={status}.
func (c *RealClient) UpdateStatus(ctx context.Context, password, id string, status model.Status) error {
	path := InquiriesPath + "/" + url.PathEscape(id)
	q := url.Values{}
	q.Set("status", string(status))

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(auth.AdminUsername, password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp, http.MethodPatch, path)
}

func checkStatus(resp *http.Response, method, path string) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	return nil
}
