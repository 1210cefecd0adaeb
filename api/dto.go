/*
dto.go - Data Transfer Objects for the webhook API

PURPOSE:
  JSON shapes for the webhook envelope and the run audit endpoints.
  The resolution result itself (pattern.Result) marshals directly; the
  envelope wraps it with run metadata so a webhook consumer can
  correlate deliveries against upstream statuses and logs.

NAMING CONVENTION:
  - *Envelope: response wrappers stamped with run id and version
  - *DTO:      audit records returned to clients

SEE ALSO:
  - handlers.go: fills these in
  - pattern/resolver.go: the resolved bundle
*/
package api

import (
	"time"

	"github.com/warp/workpattern-engine/pattern"
	"github.com/warp/workpattern-engine/store/sqlite"
)

// =============================================================================
// WEBHOOK ENVELOPE
// =============================================================================

// ResolveEnvelope is the webhook response. Error responses carry the
// same shape with Status "error" and the Error field set.
type ResolveEnvelope struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	RunID      string `json:"run_id"`
	EmployeeID string `json:"employee_id,omitempty"`

	EmployeeHTTPStatus    int `json:"peoplehr_employee_http_status,omitempty"`
	WorkPatternHTTPStatus int `json:"peoplehr_workpattern_http_status,omitempty"`

	StartDate string          `json:"start_date,omitempty"`
	Resolved  *pattern.Result `json:"resolved,omitempty"`

	// Mode is "dry_run": the resolution is computed and captured but
	// not forwarded to any downstream system.
	Mode       string `json:"mode,omitempty"`
	CapturedAt string `json:"captured_at,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RunDTO is a captured run in audit listings. Raw payloads are omitted
// from listings; fetch a single run to see them.
type RunDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`

	EmployeeHTTPStatus    int `json:"peoplehr_employee_http_status"`
	WorkPatternHTTPStatus int `json:"peoplehr_workpattern_http_status"`

	StartDate string `json:"start_date,omitempty"`
	CreatedAt string `json:"created_at"`
}

// RunDetailDTO includes the captured payloads.
type RunDetailDTO struct {
	RunDTO
	WorkPatternBody string `json:"workpattern_body,omitempty"`
	ResolvedJSON    string `json:"resolved_json,omitempty"`
}

// ErrorResponse is the standard error response for audit endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toRunDTO(run sqlite.RunRecord) RunDTO {
	return RunDTO{
		ID:                    run.ID,
		EmployeeID:            run.EmployeeID,
		Status:                run.Status,
		Error:                 run.Error,
		EmployeeHTTPStatus:    run.EmployeeHTTPStatus,
		WorkPatternHTTPStatus: run.WorkPatternHTTPStatus,
		StartDate:             run.StartDate,
		CreatedAt:             run.CreatedAt.Format(time.RFC3339),
	}
}
