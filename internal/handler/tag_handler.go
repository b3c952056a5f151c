package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/repository"
	"github.com/SnoopySong/nexaweb/internal/service"
)

// TagHandler handles tag CRUD.
type TagHandler struct {
	tags service.TagService
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(tags service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// List handles GET /api/tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tags, err := h.tags.List(r.Context())
	if err != nil {
		slog.Error("list tags failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if tags == nil {
		tags = []*model.Tag{}
	}
	_ = json.NewEncoder(w).Encode(tags)
}

type createTagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

// Create handles POST /api/tags. A name already in use answers 409.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	w.Header().Set("Content-Type", "application/json")

	tag, err := h.tags.Create(r.Context(), req.Name, req.Color)
	if errors.Is(err, repository.ErrDuplicate) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "tag_exists"})
		return
	}
	if err != nil {
		slog.Error("create tag failed", "name", req.Name, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(tag)
}

// Delete handles DELETE /api/tags/{id}.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ok, err := h.tags.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("delete tag failed", "id", r.PathValue("id"), "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "delete_failed"})
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
