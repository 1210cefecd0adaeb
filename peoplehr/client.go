/*
Package peoplehr is the outbound client for the PeopleHR API.

PURPOSE:
  Two upstream calls feed a resolution: GetEmployeeDetailById (for the
  employee's start date, used as the reference date) and
  GetWorkPatternDetail (the pattern document itself). Both are JSON
  POSTs carrying the API key in the request body, which is how the
  upstream authenticates.

RESPONSE HANDLING:
  The client deliberately does NOT decode response bodies. Upstream
  payloads are loosely shaped and the pattern package owns all
  normalization; handlers get the raw bytes plus the HTTP status and
  decide what to do with non-200s.

KEY MASKING:
  The API key never appears in logs. MaskKey keeps the first and last
  four characters for correlation against the upstream dashboard.

SEE ALSO:
  - pattern/types.go: document normalization
  - api/handlers.go:  the webhook that drives these calls
*/
package peoplehr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/warp/workpattern-engine/pattern"
)

const (
	defaultEmployeeDetailURL    = "https://api.peoplehr.net/Employee/GetEmployeeDetailById"
	defaultWorkPatternDetailURL = "https://api.peoplehr.net/WorkPattern/GetWorkPatternDetail"

	requestTimeout = 30 * time.Second
)

// =============================================================================
// CONFIG
// =============================================================================

// Config holds upstream connection settings. Endpoint URLs are
// overridable for staging environments and tests.
type Config struct {
	APIKey               string
	EmployeeDetailURL    string
	WorkPatternDetailURL string
}

// ConfigFromEnv loads config from the environment. Only the API key is
// required; endpoints fall back to the production URLs.
func ConfigFromEnv() (Config, error) {
	key := strings.TrimSpace(os.Getenv("PEOPLEHR_API_KEY"))
	if key == "" {
		return Config{}, fmt.Errorf("missing env var PEOPLEHR_API_KEY")
	}
	return Config{
		APIKey:               key,
		EmployeeDetailURL:    strings.TrimSpace(os.Getenv("PEOPLEHR_EMPLOYEE_DETAIL_URL")),
		WorkPatternDetailURL: strings.TrimSpace(os.Getenv("PEOPLEHR_WORKPATTERN_DETAIL_URL")),
	}, nil
}

// =============================================================================
// CLIENT
// =============================================================================

// Response is a raw upstream reply.
type Response struct {
	HTTPStatus int
	Body       []byte
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.EmployeeDetailURL == "" {
		cfg.EmployeeDetailURL = defaultEmployeeDetailURL
	}
	if cfg.WorkPatternDetailURL == "" {
		cfg.WorkPatternDetailURL = defaultWorkPatternDetailURL
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: requestTimeout},
	}
}

// GetEmployeeDetail fetches the employee record by id.
func (c *Client) GetEmployeeDetail(ctx context.Context, employeeID string) (*Response, error) {
	return c.post(ctx, c.cfg.EmployeeDetailURL, map[string]string{
		"APIKey":     c.cfg.APIKey,
		"Action":     "GetEmployeeDetailById",
		"EmployeeId": employeeID,
	})
}

// GetWorkPatternDetail fetches every work pattern visible for the
// employee, including ones assigned to other employees.
func (c *Client) GetWorkPatternDetail(ctx context.Context, employeeID string) (*Response, error) {
	return c.post(ctx, c.cfg.WorkPatternDetailURL, map[string]string{
		"APIKey":     c.cfg.APIKey,
		"Action":     "GetWorkPatternDetail",
		"EmployeeId": employeeID,
	})
}

func (c *Client) post(ctx context.Context, url string, payload map[string]string) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// The upstream rejects default Go user agents; present as a browser,
	// matching what its own integrations send.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", url, err)
	}

	return &Response{HTTPStatus: resp.StatusCode, Body: raw}, nil
}

// =============================================================================
// RESPONSE FIELD EXTRACTION
// =============================================================================

// DisplayValue extracts Result.<field>.DisplayValue from an employee
// detail body. Returns "" when any layer of the shape is missing or
// malformed; the caller treats that as "no reference date".
func DisplayValue(body []byte, field string) string {
	var payload struct {
		Result map[string]json.RawMessage `json:"Result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	raw, ok := payload.Result[field]
	if !ok {
		return ""
	}

	var fieldObj struct {
		DisplayValue pattern.FlexString `json:"DisplayValue"`
	}
	if err := json.Unmarshal(raw, &fieldObj); err != nil {
		return ""
	}
	return fieldObj.DisplayValue.String()
}

// MaskKey redacts an API key for logging.
func MaskKey(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + "***" + s[len(s)-4:]
}
