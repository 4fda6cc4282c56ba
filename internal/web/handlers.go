package web

import (
	"database/sql"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/avisser/redline/internal/assets"
	"github.com/avisser/redline/internal/config"
	"github.com/avisser/redline/internal/errors"
	"github.com/avisser/redline/internal/ops"
	"github.com/avisser/redline/internal/session"
)

// Handlers contains HTTP route handlers for the editor API.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	sessions *session.Manager
	assets   *assets.Store
	version  string
	logger   *zap.Logger
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
	})
}

// HandleList handles GET /documents: paginated document summaries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(h.db, ops.ListInput{
		Limit:          parseIntParam(r, "limit", 20),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleCreate handles POST /documents: create a new document.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		Published bool   `json:"published"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Store(h.db, h.cfg, ops.StoreInput{
		Title:     body.Title,
		Content:   body.Content,
		Published: body.Published,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusCreated, result)
}

// HandleFetch handles GET /documents/{id}: retrieve a single document.
func (h *Handlers) HandleFetch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("document ID is required"))
		return
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             id,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleSave handles PUT /documents/{id}: persist editor state.
// Saving goes through the open session when one exists so the stored
// content matches the authoritative buffer.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("document ID is required"))
		return
	}

	var body struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		Published *bool  `json:"published"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	// Keep the live session buffer in step with what was saved.
	if s, err := h.sessions.Get(id); err == nil {
		s.SetTitle(body.Title)
		s.SetContent(body.Content)
	}

	result, err := ops.Save(h.db, h.cfg, ops.SaveInput{
		ID:        id,
		Title:     body.Title,
		Content:   body.Content,
		Published: body.Published,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleDelete handles DELETE /documents/{id}: soft-delete a document.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("document ID is required"))
		return
	}

	h.sessions.Close(id)

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: id})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandlePurge handles POST /documents/{id}/purge: permanent removal.
// Requires confirm=true; purge is irreversible.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("document ID is required"))
		return
	}
	if !parseBoolParam(r, "confirm") {
		renderError(w, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	h.sessions.Close(id)

	result, err := ops.Purge(h.db, ops.PurgeInput{ID: id})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandlePreview handles GET /documents/{id}/preview: rendered HTML.
// The live session buffer wins over the stored content so the preview
// tracks unsaved edits.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("document ID is required"))
		return
	}

	var md string
	if s, err := h.sessions.Get(id); err == nil {
		md = s.Content()
	} else {
		result, err := ops.Fetch(h.db, ops.FetchInput{ID: id})
		if err != nil {
			renderError(w, err)
			return
		}
		md = result.Document.Content
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(renderMarkdown(md)))
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
