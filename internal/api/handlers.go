package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scrivener/internal/apperr"
	"github.com/starford/scrivener/internal/compose"
	"github.com/starford/scrivener/internal/editor"
	"github.com/starford/scrivener/internal/element"
	"github.com/starford/scrivener/internal/session"
)

// maxBodyBytes bounds JSON and manifest request bodies.
const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *session.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *session.Service) *Handler {
	return &Handler{svc: svc}
}

func docID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// writeLookupError maps session lookup failures to responses.
func writeLookupError(w http.ResponseWriter, op, id string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	case errors.Is(err, apperr.ErrInvalidElement):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(op+" failed", slog.String("id", id), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List live documents
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := h.svc.List(r.Context())
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Total: len(docs)})
}

// CreateDocument handles POST /api/documents.
//
//	@Summary		Start a new document
//	@Tags			documents
//	@Produce		json
//	@Success		201	{object}	DocumentInfo
//	@Security		BearerAuth
//	@Router			/documents [post]
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	info := h.svc.Create(r.Context())
	writeJSON(w, http.StatusCreated, info)
}

// GetDocument handles GET /api/documents/{id}.
//
//	@Summary		Describe a document
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	DocumentInfo
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := docID(r)
	info, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, "get document", id, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// DeleteDocument handles DELETE /api/documents/{id}.
//
//	@Summary		Discard a document
//	@Tags			documents
//	@Param			id	path	string	true	"Document ID"
//	@Success		204	"Document discarded"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := docID(r)
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeLookupError(w, "delete document", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddElement handles POST /api/documents/{id}/elements.
//
//	@Summary		Append an element
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Document ID"
//	@Param			body	body		AddElementRequest	true	"Element to append"
//	@Success		200		{object}	DocumentInfo
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/elements [post]
func (h *Handler) AddElement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id := docID(r)

	var req AddElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := h.svc.Add(r.Context(), id, element.Kind(req.Kind), req.Value)
	if err != nil {
		writeLookupError(w, "add element", id, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ComposeDocument handles POST /api/documents/{id}/compose.
//
//	@Summary		Append every element of a YAML manifest
//	@Tags			documents
//	@Accept			application/yaml
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	DocumentInfo
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/compose [post]
func (h *Handler) ComposeDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id := docID(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	m, err := compose.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.svc.Editor(r.Context(), id, func(ed *editor.Editor) error {
		return m.Apply(ed)
	})
	if err != nil {
		writeLookupError(w, "compose document", id, err)
		return
	}
	info, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, "compose document", id, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// RenderDocument handles GET /api/documents/{id}/render.
//
//	@Summary		Render a document
//	@Tags			documents
//	@Produce		plain
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{string}	string	"Rendered document"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/render [get]
func (h *Handler) RenderDocument(w http.ResponseWriter, r *http.Request) {
	id := docID(r)
	out, err := h.svc.Render(r.Context(), id)
	if err != nil {
		writeLookupError(w, "render document", id, err)
		return
	}
	writeText(w, out)
}

// SaveDocument handles POST /api/documents/{id}/save.
//
//	@Summary		Persist a document's rendering
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	SaveResult
//	@Failure		404	{object}	errResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/save [post]
func (h *Handler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	id := docID(r)
	res, err := h.svc.Save(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		slog.Error("save document failed", slog.String("id", id), slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
