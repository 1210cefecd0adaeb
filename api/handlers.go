/*
handlers.go - Webhook and audit handlers

PURPOSE:
  The webhook endpoint is the whole point of the service: an HR event
  fires, we look up the employee's start date and work patterns
  upstream, resolve the effective pattern, and answer with the weekly
  metrics. Every invocation is captured to the run store.

ENDPOINTS:
  POST /api/workpattern   Resolve the effective pattern for an employee
  GET  /api/runs          Recent captured runs (audit)
  GET  /api/runs/{id}     One run with raw payloads
  GET  /healthz           Liveness

EMPLOYEE ID DETECTION:
  Webhook senders disagree on field naming, so the body is probed for
  the known variants (employee_id, employeeId, EmployeeId, ...) in a
  fixed precedence order. JSON bodies are tried first regardless of
  content type, then form encoding.

ERROR HANDLING:
  - 400: no employee id found in the payload
  - 200: successful resolution (status "ok" envelope)
  - 500: upstream or resolution failure (status "error" envelope)
  All envelopes carry the run id; failures are captured too.

CONFIG PER REQUEST:
  The pattern allow-list (PEOPLEHR_WORKPATTERN_ID_FILTER) is read once
  per request and passed into the resolver, so a config change between
  requests never mixes filter sets within one resolution.

SEE ALSO:
  - dto.go:    envelope shapes
  - server.go: router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/workpattern-engine/pattern"
	"github.com/warp/workpattern-engine/peoplehr"
	"github.com/warp/workpattern-engine/store/sqlite"
)

// Version stamps every envelope so log lines and stored runs can be
// tied to a deployment.
const Version = "workpattern-engine/1.2"

// maxBodyBytes caps webhook bodies; HR events are tiny.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Client *peoplehr.Client
}

// NewHandler creates a new handler with the given store and upstream client.
func NewHandler(store *sqlite.Store, client *peoplehr.Client) *Handler {
	return &Handler{Store: store, Client: client}
}

// =============================================================================
// WEBHOOK
// =============================================================================

// ResolveWorkPattern handles the inbound HR webhook.
// POST /api/workpattern
func (h *Handler) ResolveWorkPattern(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	log.Printf("run_id=%s webhook received method=%s", runID, r.Method)

	employeeID := extractEmployeeID(r)
	if employeeID == "" {
		log.Printf("run_id=%s no employee id in payload", runID)
		writeJSON(w, http.StatusBadRequest, ResolveEnvelope{
			Status:  "error",
			Version: Version,
			RunID:   runID,
			Error:   "Missing employeeId in request body",
		})
		return
	}
	log.Printf("run_id=%s employee_id=%s", runID, employeeID)

	ctx := r.Context()
	run := sqlite.RunRecord{ID: runID, EmployeeID: employeeID}

	emp, err := h.Client.GetEmployeeDetail(ctx, employeeID)
	if err != nil {
		h.fail(w, run, "employee detail request failed: "+err.Error())
		return
	}
	run.EmployeeHTTPStatus = emp.HTTPStatus
	run.StartDate = peoplehr.DisplayValue(emp.Body, "StartDate")

	wp, err := h.Client.GetWorkPatternDetail(ctx, employeeID)
	if err != nil {
		h.fail(w, run, "work pattern request failed: "+err.Error())
		return
	}
	run.WorkPatternHTTPStatus = wp.HTTPStatus
	run.WorkPatternBody = string(wp.Body)

	doc, err := pattern.ParseDocument(wp.Body)
	if err != nil {
		h.fail(w, run, err.Error())
		return
	}

	// Allow-list read per request, never cached across requests.
	filter := os.Getenv("PEOPLEHR_WORKPATTERN_ID_FILTER")

	resolved, err := pattern.Resolve(doc, employeeID, run.StartDate, filter)
	if err != nil {
		h.fail(w, run, err.Error())
		return
	}

	resolvedJSON, _ := json.Marshal(resolved)
	run.Status = "ok"
	run.ResolvedJSON = string(resolvedJSON)
	h.capture(run)

	writeJSON(w, http.StatusOK, ResolveEnvelope{
		Status:                "ok",
		Version:               Version,
		RunID:                 runID,
		EmployeeID:            employeeID,
		EmployeeHTTPStatus:    run.EmployeeHTTPStatus,
		WorkPatternHTTPStatus: run.WorkPatternHTTPStatus,
		StartDate:             run.StartDate,
		Resolved:              resolved,
		Mode:                  "dry_run",
		CapturedAt:            time.Now().UTC().Format(time.RFC3339),
	})
}

// fail captures and reports a failed run.
func (h *Handler) fail(w http.ResponseWriter, run sqlite.RunRecord, reason string) {
	log.Printf("run_id=%s failed: %s", run.ID, reason)

	run.Status = "error"
	run.Error = reason
	h.capture(run)

	writeJSON(w, http.StatusInternalServerError, ResolveEnvelope{
		Status:                "error",
		Version:               Version,
		RunID:                 run.ID,
		EmployeeID:            run.EmployeeID,
		EmployeeHTTPStatus:    run.EmployeeHTTPStatus,
		WorkPatternHTTPStatus: run.WorkPatternHTTPStatus,
		Error:                 reason,
	})
}

// capture persists the run; a storage failure is logged, never fatal
// to the webhook reply.
func (h *Handler) capture(run sqlite.RunRecord) {
	// Background context: the capture should survive the caller
	// disconnecting mid-reply.
	if err := h.Store.SaveRun(context.Background(), run); err != nil {
		log.Printf("run_id=%s capture failed: %v", run.ID, err)
	}
}

// =============================================================================
// AUDIT ENDPOINTS
// =============================================================================

// ListRuns returns recent captured runs.
// GET /api/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one captured run with its raw payloads.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, RunDetailDTO{
		RunDTO:          toRunDTO(*run),
		WorkPatternBody: run.WorkPatternBody,
		ResolvedJSON:    run.ResolvedJSON,
	})
}

// Healthz is the liveness probe.
// GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

// =============================================================================
// EMPLOYEE ID EXTRACTION
// =============================================================================

// employeeIDFields is the precedence order for probing webhook bodies.
var employeeIDFields = []string{
	"employee_id",
	"employeeId",
	"EmployeeId",
	"EmployeeID",
	"Employee",
	"employee",
	"Id",
	"id",
}

// extractEmployeeID probes the request body for an employee identifier.
// JSON is tried first regardless of declared content type (senders
// routinely mislabel it), then form encoding. Returns "" when nothing
// usable is found.
func extractEmployeeID(r *http.Request) string {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return ""
	}

	if id := employeeIDFromJSON(raw); id != "" {
		return id
	}

	// Form fallback: restore the body so ParseForm can read it.
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err := r.ParseForm(); err == nil {
		for _, key := range employeeIDFields {
			if v := strings.TrimSpace(r.PostForm.Get(key)); v != "" {
				return v
			}
		}
	}
	return ""
}

func employeeIDFromJSON(raw []byte) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return ""
	}

	for _, key := range employeeIDFields {
		switch v := data[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
