package web

import (
	"net/http"

	"github.com/avisser/redline/internal/document"
	"github.com/avisser/redline/internal/errors"
	"github.com/avisser/redline/internal/gateway"
	"github.com/avisser/redline/internal/session"
)

// openResponse is the payload for a freshly opened (or rejoined) session.
type openResponse struct {
	Session  string            `json:"session"`
	State    session.State     `json:"state"`
	Document document.Document `json:"document"`
	Messages []transcriptEntry `json:"messages"`
}

type transcriptEntry struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	IsReply   bool   `json:"is_reply,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// HandleOpen handles POST /documents/{id}/open: start or rejoin the
// editing session for a document.
func (h *Handlers) HandleOpen(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("document ID is required"))
		return
	}

	s, err := h.sessions.Open(id)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, openResponse{
		Session:  s.Token,
		State:    s.State(),
		Document: s.Document(),
		Messages: toEntries(s),
	})
}

// HandleClose handles POST /documents/{id}/close: flush and drop the
// session. Unsaved buffer changes are discarded.
func (h *Handlers) HandleClose(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("document ID is required"))
		return
	}

	h.sessions.Close(id)
	renderJSON(w, http.StatusOK, map[string]any{"closed": true, "id": id})
}

// HandleContent handles PUT /documents/{id}/content: a manual edit of
// the live buffer. Manual edits do not create undo snapshots.
func (h *Handlers) HandleContent(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	s.SetContent(body.Content)
	renderJSON(w, http.StatusOK, map[string]any{"state": s.State()})
}

// HandleSelection handles POST /documents/{id}/selection: a selection
// change event from the editor. Events are debounced server-side.
func (h *Handlers) HandleSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body struct {
		SelectedText string `json:"selected_text"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	s.Observe(body.SelectedText)
	renderJSON(w, http.StatusOK, map[string]any{"observed": true})
}

// HandleCursor handles POST /documents/{id}/cursor: track the cursor
// offset used for image insertion.
func (h *Handlers) HandleCursor(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Offset int `json:"offset"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	s.SetCursor(body.Offset)
	renderJSON(w, http.StatusOK, map[string]any{"offset": body.Offset})
}

// HandleTransform handles POST /documents/{id}/transform: issue an AI
// action or a free-form chat message. The call blocks until the
// collaborator answers; gateway failures come back as 502 with an
// error message already appended to the transcript.
func (h *Handlers) HandleTransform(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Kind        string          `json:"kind"`
		Instruction string          `json:"instruction"`
		Range       *document.Range `json:"range"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	kind := gateway.ActionKind(body.Kind)
	if err := s.RequestTransform(r.Context(), kind, body.Instruction, body.Range); err != nil {
		renderError(w, err)
		return
	}

	resp := map[string]any{"state": s.State()}
	if view, err := s.Proposal(); err == nil {
		resp["proposal"] = view
	} else {
		resp["messages"] = toEntries(s)
	}
	renderJSON(w, http.StatusOK, resp)
}

// HandleProposal handles GET /documents/{id}/proposal: the review
// payload with diff spans and the divergence flag.
func (h *Handlers) HandleProposal(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	view, err := s.Proposal()
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, view)
}

// HandleProposalEdit handles PUT /documents/{id}/proposal: replace the
// proposed text before acceptance.
func (h *Handlers) HandleProposalEdit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	if err := s.EditProposal(body.Text); err != nil {
		renderError(w, err)
		return
	}

	view, err := s.Proposal()
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, view)
}

// HandleAccept handles POST /documents/{id}/proposal/accept.
func (h *Handlers) HandleAccept(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	content, err := s.Accept()
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{
		"state":   s.State(),
		"content": content,
	})
}

// HandleReject handles POST /documents/{id}/proposal/reject.
func (h *Handlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.Reject(); err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{
		"state":   s.State(),
		"content": s.Content(),
	})
}

// HandleUndo handles POST /documents/{id}/undo.
func (h *Handlers) HandleUndo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	content, applied := s.Undo()
	renderJSON(w, http.StatusOK, map[string]any{
		"applied": applied,
		"content": content,
	})
}

// HandleRedo handles POST /documents/{id}/redo.
func (h *Handlers) HandleRedo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	content, applied := s.Redo()
	renderJSON(w, http.StatusOK, map[string]any{
		"applied": applied,
		"content": content,
	})
}

// HandleMessages handles GET /documents/{id}/messages: the transcript.
func (h *Handlers) HandleMessages(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"messages": toEntries(s)})
}

// HandleClearMessages handles DELETE /documents/{id}/messages.
// Requires confirm=true; clearing the transcript is not undoable.
func (h *Handlers) HandleClearMessages(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !parseBoolParam(r, "confirm") {
		renderError(w, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	s.ClearTranscript()
	renderJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// HandleImageUpload handles POST /documents/{id}/images: store an image
// asset and insert its markdown token at the tracked cursor. Insertion
// pushes an undo snapshot first.
func (h *Handlers) HandleImageUpload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		renderError(w, errors.NewInvalidRequest("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		renderError(w, errors.NewInvalidRequest("image file is required"))
		return
	}
	defer file.Close()

	url, err := h.assets.SaveImage(header.Filename, file)
	if err != nil {
		renderError(w, err)
		return
	}

	alt := r.FormValue("alt")
	content := s.InsertImage(alt, url)

	renderJSON(w, http.StatusOK, map[string]any{
		"url":     url,
		"content": content,
	})
}

// session resolves the open session for the {id} path value, writing the
// error response itself when the session does not exist.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("document ID is required"))
		return nil, false
	}

	s, err := h.sessions.Get(id)
	if err != nil {
		renderError(w, err)
		return nil, false
	}
	return s, true
}

func toEntries(s *session.Session) []transcriptEntry {
	msgs := s.Transcript()
	out := make([]transcriptEntry, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, transcriptEntry{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			IsReply:   m.IsReply,
			IsError:   m.IsError,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
