package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/photovault/internal/common"
	"github.com/dmitrijs2005/photovault/internal/server/models"
	"github.com/dmitrijs2005/photovault/internal/server/services"
)

// multipartMemory bounds how much of a multipart body is held in memory;
// the rest spills to temp files.
const multipartMemory = 8 << 20

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("collection")

	var (
		photos []*models.Photo
		err    error
	)
	if collection != "" {
		photos, err = s.photos.ListByCollection(r.Context(), collection)
	} else {
		photos, err = s.photos.List(r.Context())
	}
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}
	if photos == nil {
		photos = []*models.Photo{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"photos": photos})
}

func (s *Server) handleUploadPhotos(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		files = r.MultipartForm.File["photo"]
	}
	if len(files) == 0 {
		s.failWith(r.Context(), w, common.ErrorNoFile)
		return
	}

	collection := r.FormValue("collection")

	uploaded := make([]*models.Photo, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			s.failWith(r.Context(), w, err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, services.MaxUploadBytes+1))
		file.Close()
		if err != nil {
			s.failWith(r.Context(), w, err)
			return
		}

		photo, err := s.photos.Upload(r.Context(), services.UploadInput{
			Filename:   header.Filename,
			Collection: collection,
			Data:       data,
		})
		if err != nil {
			s.failWith(r.Context(), w, err)
			return
		}
		uploaded = append(uploaded, photo)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "photos uploaded",
		"photos":  uploaded,
	})
}

func photoID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

func (s *Server) handleUpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := photoID(r)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	photo, err := s.photos.Update(r.Context(), id, req.Title, req.Description)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"photo": photo})
}

func (s *Server) handleMovePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := photoID(r)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	var req struct {
		Collection string `json:"collection"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	photo, err := s.photos.Move(r.Context(), id, req.Collection)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "photo moved",
		"photo":   photo,
	})
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := photoID(r)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	if err := s.photos.Delete(r.Context(), id); err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "photo deleted"})
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhotoIDs []int64 `json:"photo_ids"`
	}
	if err := decodeBody(r, &req); err != nil || len(req.PhotoIDs) == 0 {
		writeError(w, http.StatusBadRequest, "no photo ids provided")
		return
	}

	deleted, err := s.photos.BulkDelete(r.Context(), req.PhotoIDs)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "photos deleted",
		"deleted_count": deleted,
	})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	report, err := s.sync.Sync(r.Context())
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}
