package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scrivener/internal/element"
	"github.com/starford/scrivener/internal/session"
)

const (
	assetPrefix    = "assets"
	maxUploadBytes = 50 << 20 // 50 MB
)

// AssetHandler stores uploaded images and appends them to documents.
type AssetHandler struct {
	root string
	svc  *session.Service
}

// NewAssetHandler creates a handler storing uploads under root.
func NewAssetHandler(root string, svc *session.Service) *AssetHandler {
	return &AssetHandler{root: root, svc: svc}
}

// safeName validates that the filename is a plain name (no path separators,
// no traversal) and returns the absolute path under the assets dir.
func (h *AssetHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	root, err := filepath.Abs(h.root)
	if err != nil {
		return "", err
	}
	abs := filepath.Join(root, cleaned)
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes assets directory")
	}
	return abs, nil
}

// ServeFile handles GET /assets/{filename}.
func (h *AssetHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	abs, err := h.safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /api/documents/{id}/images (multipart/form-data, field "file").
// The file is stored as an asset and an image element referencing it is appended.
//
//	@Summary		Upload an image and append it
//	@Tags			documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Document ID"
//	@Param			file	formData	file	true	"Image file"
//	@Success		201		{object}	ImageUploadResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/images [post]
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id := docID(r)
	if _, err := h.svc.Get(r.Context(), id); err != nil {
		writeLookupError(w, "upload image", id, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid multipart")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field in multipart form")
		return
	}
	defer file.Close()

	abs, err := h.safeName(header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create assets dir")
		return
	}

	dst, err := os.Create(abs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create file")
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to write file")
		return
	}

	path := assetPrefix + "/" + header.Filename
	info, err := h.svc.Add(r.Context(), id, element.KindImage, path)
	if err != nil {
		writeLookupError(w, "upload image", id, err)
		return
	}

	writeJSON(w, http.StatusCreated, ImageUploadResponse{
		Document: *info,
		Path:     path,
		Size:     written,
		URL:      "/" + path,
	})
}
