package mockhris

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxUploadBytes caps document uploads at 16 MiB.
const maxUploadBytes = 16 << 20

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	user, found := s.identity(r)
	if !found {
		unauthorized(w, "user no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, s.store.documentsByOwner(user.ID))
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	user, found := s.identity(r)
	if !found {
		unauthorized(w, "user no longer exists")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, "expected multipart form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read upload")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	doc := Document{
		ID:       uuid.NewString(),
		Name:     header.Filename,
		MimeType: mimeType,
		Size:     int64(len(content)),
		OwnerID:  user.ID,
		content:  content,
	}
	s.store.addDocument(doc)
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, found := s.store.documentByID(chi.URLParam(r, "documentID"))
	if !found {
		notFound(w, "document not found")
		return
	}

	w.Header().Set("Content-Type", doc.MimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.content)
}
