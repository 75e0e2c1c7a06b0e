package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yrb/jobtrack/internal/auth"
	"github.com/yrb/jobtrack/internal/model"
	"github.com/yrb/jobtrack/internal/service"
)

// JobHandler exposes CRUD endpoints for the caller's job records.
//
// All routes sit behind auth.RequireAuth, so IdentityFromContext always
// yields the verified caller; the handler passes that identity down and the
// lower layers do the ownership filtering.
type JobHandler struct {
	svc    *service.JobService
	logger *slog.Logger
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(svc *service.JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		svc:    svc,
		logger: logger,
	}
}

// identity pulls the verified caller from the request context. The second
// return is false only if the route was somehow registered outside the
// middleware — treated as a 401, never a panic.
func (h *JobHandler) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
	}
	return id, ok
}

// HandleList returns all of the caller's jobs, oldest first.
//
// HTTP: GET /jobs → 200 {"jobs": [...], "count": n}
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	jobs, err := h.svc.List(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// HandleGet returns a single job.
//
// HTTP: GET /jobs/{id} → 200 {"job": {...}} | 404
func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	job, err := h.svc.Get(r.Context(), id.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Job{"job": job})
}

// HandleCreate saves a new job owned by the caller.
//
// HTTP: POST /jobs {company, position} → 201 {"job": {...}} | 400
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req struct {
		Company  string `json:"company"`
		Position string `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	job, err := h.svc.Create(r.Context(), id.UserID, req.Company, req.Position)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Job{"job": job})
}

// HandleUpdate applies a partial update to one of the caller's jobs.
//
// HTTP: PATCH /jobs/{id} {company?, position?} → 200 {"job": {...}} | 400 | 404
//
// Pointer fields distinguish "absent" (nil — leave the stored value alone)
// from "present but empty" (non-nil "" — a validation error). A plain
// string can't represent that difference; both would decode to "".
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req struct {
		Company  *string `json:"company"`
		Position *string `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	job, err := h.svc.Update(r.Context(), id.UserID, chi.URLParam(r, "id"), req.Company, req.Position)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Job{"job": job})
}

// HandleDelete removes one of the caller's jobs.
//
// HTTP: DELETE /jobs/{id} → 200 empty | 404
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
