package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mvilar/glucose-tracker/internal/api/validation"
	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/internal/service"
	"github.com/mvilar/glucose-tracker/pkg/problem"
)

// maxUploadBytes bounds how much of an upload is read into memory.
const maxUploadBytes = 16 << 20

// DefaultUserID applies when the caller does not pass user_id (no auth in
// front of this service yet).
const DefaultUserID int64 = 1

type SessionHandler struct {
	service service.DashboardService
}

func NewSessionHandler(service service.DashboardService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Upload handles POST /v1/glucose-sessions/upload
// @Summary Upload a glucose recording
// @Description Parse a CSV upload (columns: timestamp, glucose, patient_id, session_id; one patient and one session per file), forecast near-future values from the anchor, and persist the assembled dashboard.
// @Tags glucose-sessions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with the glucose series"
// @Param user_id formData integer false "Owning user id" default(1)
// @Success 201 {object} domain.DashboardPayload "Computed dashboard with db_session_id"
// @Failure 400 {object} problem.Problem "Invalid or insufficient upload data"
// @Failure 500 {object} problem.Problem "Artifact/config inconsistency or server error"
// @Failure 503 {object} problem.Problem "Forecast artifacts unavailable"
// @Router /glucose-sessions/upload [post]
func (h *SessionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		problem.BadRequest("Invalid multipart form").Write(w)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		problem.BadRequest("Missing 'file' upload field").Write(w)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		problem.BadRequest("Failed to read upload").Write(w)
		return
	}

	userID := DefaultUserID
	if v := r.FormValue("user_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 1 {
			problem.BadRequest("user_id must be a positive integer").Write(w)
			return
		}
		userID = parsed
	}

	payload, err := h.service.Upload(r.Context(), userID, raw)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payload)
}

// List handles GET /v1/glucose-sessions
// @Summary List stored sessions
// @Description Fetch stored glucose sessions for a user, newest first, cursor-paginated.
// @Tags glucose-sessions
// @Produce json
// @Param user_id query integer false "Owning user id" default(1)
// @Param limit query integer false "Results per page (1-100)" default(20)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.SessionListResponse
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /glucose-sessions [get]
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	query, fieldErrors := parseListQuery(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	filter := domain.SessionFilter{Limit: query.Limit, Cursor: query.Cursor}
	response, err := h.service.List(r.Context(), query.UserID, filter)
	if err != nil {
		problem.InternalError("Failed to list glucose sessions").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Get handles GET /v1/glucose-sessions/{sessionId}
// @Summary Get one stored session
// @Description Fetch a stored session with its full dashboard payload.
// @Tags glucose-sessions
// @Produce json
// @Param sessionId path integer true "Stored session id"
// @Param user_id query integer false "Owning user id" default(1)
// @Success 200 {object} domain.SessionDetail
// @Failure 400 {object} problem.Problem "Invalid parameters"
// @Failure 404 {object} problem.Problem "Session not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /glucose-sessions/{sessionId} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionId"), 10, 64)
	if err != nil {
		problem.BadRequest("Invalid session ID format").Write(w)
		return
	}
	userID, fieldErr := parseUserID(r.URL.Query().Get("user_id"))
	if fieldErr != nil {
		problem.ValidationError("Invalid query parameters", []problem.FieldError{*fieldErr}).Write(w)
		return
	}

	detail, err := h.service.Get(r.Context(), sessionID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Glucose session not found").Write(w)
			return
		}
		problem.InternalError("Failed to fetch glucose session").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// listQuery carries the listing query parameters through validation.
type listQuery struct {
	UserID int64  `validate:"required,min=1"`
	Limit  int    `validate:"omitempty,min=1,max=100"`
	Cursor string `validate:"-"`
}

func parseListQuery(r *http.Request) (listQuery, []problem.FieldError) {
	query := listQuery{UserID: DefaultUserID}
	var fieldErrors []problem.FieldError

	if v := r.URL.Query().Get("user_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{Field: "user_id", Message: "must be an integer"})
		} else {
			query.UserID = parsed
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{Field: "limit", Message: "must be an integer"})
		} else {
			query.Limit = parsed
		}
	}
	query.Cursor = r.URL.Query().Get("cursor")

	if len(fieldErrors) > 0 {
		return query, fieldErrors
	}
	if errs := validation.Validate(query); errs != nil {
		return query, errs
	}
	return query, nil
}

func parseUserID(raw string) (int64, *problem.FieldError) {
	if raw == "" {
		return DefaultUserID, nil
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID < 1 {
		return 0, &problem.FieldError{Field: "user_id", Message: "must be a positive integer"}
	}
	return userID, nil
}

// writePipelineError maps upload pipeline failures onto problem responses:
// bad input is the caller's fault, missing artifacts mean the forecast
// feature is unavailable, and shape mismatches are server-side artifact
// inconsistencies.
func writePipelineError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var artifactErr *domain.ArtifactNotFoundError
	var shapeErr *domain.ShapeError

	switch {
	case errors.As(err, &validationErr):
		problem.BadRequest(validationErr.Error()).Write(w)
	case errors.As(err, &artifactErr):
		problem.ServiceUnavailable(artifactErr.Error()).Write(w)
	case errors.As(err, &shapeErr):
		problem.InternalError(shapeErr.Error()).Write(w)
	default:
		problem.InternalError("Failed to process glucose upload").Write(w)
	}
}
