package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/photovault/internal/server/models"
)

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := s.collections.List(r.Context())
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}
	if collections == nil {
		collections = []*models.Collection{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"collections": collections})
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	collection, err := s.collections.Create(r.Context(), req.Name)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "collection created",
		"collection": collection,
	})
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := s.collections.Delete(r.Context(), key); err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "collection deleted"})
}

func (s *Server) handleCollectionPhotos(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	collection, err := s.collections.Get(r.Context(), key)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}

	photos, err := s.photos.ListByCollection(r.Context(), key)
	if err != nil {
		s.failWith(r.Context(), w, err)
		return
	}
	if photos == nil {
		photos = []*models.Photo{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"collection": collection,
		"photos":     photos,
	})
}
