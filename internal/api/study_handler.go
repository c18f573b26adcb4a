package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/study-buddy/internal/api/shared"
	"github.com/phrazzld/study-buddy/internal/domain"
	"github.com/phrazzld/study-buddy/internal/service"
	"github.com/phrazzld/study-buddy/internal/textsource"
)

// UploadField is the multipart form field holding an uploaded document.
const UploadField = "file"

// DefaultMaxUploadBytes applies when no upload limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// StudyHandler handles study-session HTTP requests
type StudyHandler struct {
	service        service.StudyService
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewStudyHandler creates a new StudyHandler. Uploads larger than
// maxUploadBytes are rejected.
func NewStudyHandler(svc service.StudyService, logger *slog.Logger, maxUploadBytes int64) *StudyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &StudyHandler{
		service:        svc,
		logger:         logger.With("component", "study_handler"),
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes mounts the session endpoints on r.
func (h *StudyHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.EndSession)
		r.Put("/notes", h.LoadPastedNotes)
		r.Post("/notes/upload", h.UploadNotes)
		r.Post("/artifacts/{kind}", h.GenerateArtifact)
		r.Put("/bookmark", h.SaveBookmark)
		r.Get("/bookmark", h.GetBookmark)
		r.Put("/progress", h.SetProgress)
		r.Post("/timer", h.StartTimer)
		r.Get("/timer", h.TimerStatus)
		r.Delete("/timer", h.CancelTimer)
		r.Get("/notifications", h.Notifications)
	})
}

// CreateSession handles POST /api/sessions requests
func (h *StudyHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CreateSession(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// GetSession handles GET /api/sessions/{id} requests
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	session, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// EndSession handles DELETE /api/sessions/{id} requests
func (h *StudyHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.EndSession(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadPastedNotes handles PUT /api/sessions/{id}/notes requests
func (h *StudyHandler) LoadPastedNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req LoadNotesRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.LoadPastedNotes(r.Context(), id, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// UploadNotes handles POST /api/sessions/{id}/notes/upload requests.
// The document is read from the multipart field named by UploadField.
func (h *StudyHandler) UploadNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleAPIError(w, r, errUploadTooLarge, "")
			return
		}
		h.logger.DebugContext(r.Context(), "missing upload", "error", err)
		shared.RespondWithError(w, r, http.StatusBadRequest, "A file upload is required")
		return
	}
	defer func() { _ = file.Close() }()

	mediaType, err := textsource.ParseMediaType(header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read upload")
		return
	}

	session, err := h.service.LoadDocument(r.Context(), id, data, mediaType)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.logger.InfoContext(r.Context(), "document uploaded",
		"session_id", id,
		"media_type", mediaType,
		"size_bytes", len(data))
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// GenerateArtifact handles POST /api/sessions/{id}/artifacts/{kind} requests.
// With ?download=1 a successful artifact is returned as a markdown attachment.
func (h *StudyHandler) GenerateArtifact(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	kind, err := domain.ParseArtifactKind(chi.URLParam(r, "kind"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// The body is optional; without one the defaults apply.
	var req GenerateArtifactRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	result, err := h.service.GenerateArtifact(r.Context(), id, kind, domain.Parameters{Count: req.Count})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if result.Succeeded && r.URL.Query().Get("download") == "1" {
		shared.RespondWithAttachment(w, r, result.Filename(), "text/markdown; charset=utf-8", []byte(result.RawText))
		return
	}

	// Backend failures are part of the result, not an HTTP error.
	shared.RespondWithJSON(w, r, http.StatusOK, artifactToResponse(result))
}

// SaveBookmark handles PUT /api/sessions/{id}/bookmark requests
func (h *StudyHandler) SaveBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req BookmarkRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.SaveBookmark(r.Context(), id, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BookmarkResponse{Text: session.Bookmark, Saved: session.HasBookmark})
}

// GetBookmark handles GET /api/sessions/{id}/bookmark requests
func (h *StudyHandler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	text, saved, err := h.service.Bookmark(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BookmarkResponse{Text: text, Saved: saved})
}

// SetProgress handles PUT /api/sessions/{id}/progress requests
func (h *StudyHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req ProgressRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.SetProgress(r.Context(), id, *req.Percent)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// StartTimer handles POST /api/sessions/{id}/timer requests
func (h *StudyHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req TimerRequest
	if !h.decode(w, r, &req) {
		return
	}

	status, err := h.service.StartTimer(r.Context(), id, req.Minutes)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, timerToResponse(status))
}

// TimerStatus handles GET /api/sessions/{id}/timer requests
func (h *StudyHandler) TimerStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	status, err := h.service.TimerStatus(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, timerToResponse(status))
}

// CancelTimer handles DELETE /api/sessions/{id}/timer requests
func (h *StudyHandler) CancelTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	cancelled, err := h.service.CancelTimer(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CancelTimerResponse{Cancelled: cancelled})
}

// Notifications handles GET /api/sessions/{id}/notifications requests
func (h *StudyHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	id, ok := handleSessionID(w, r, h.logger)
	if !ok {
		return
	}

	ns, err := h.service.Notifications(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, notificationsToResponse(ns))
}

// decode parses and validates a JSON body, writing a 400 response on failure.
func (h *StudyHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	return h.decodeBody(w, r, v, false)
}

// decodeOptional is decode for endpoints where an empty body means "use defaults".
func (h *StudyHandler) decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	return h.decodeBody(w, r, v, true)
}

func (h *StudyHandler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	err := shared.DecodeJSON(r, v)
	if optional && errors.Is(err, shared.ErrEmptyBody) {
		return true
	}
	if err != nil {
		h.logger.DebugContext(r.Context(), "invalid request body", "error", err)
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}
	return true
}
