package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/service"
)

// TemplateHandler handles reply-template CRUD.
type TemplateHandler struct {
	templates service.TemplateService
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(templates service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List handles GET /api/templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	templates, err := h.templates.List(r.Context())
	if err != nil {
		slog.Error("list templates failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if templates == nil {
		templates = []*model.Template{}
	}
	_ = json.NewEncoder(w).Encode(templates)
}

// Get handles GET /api/templates/{id}.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tpl, err := h.templates.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("get template failed", "id", r.PathValue("id"), "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "get_failed"})
		return
	}
	if tpl == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	_ = json.NewEncoder(w).Encode(tpl)
}

type createTemplateRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Subject string `json:"subject" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	w.Header().Set("Content-Type", "application/json")

	tpl, err := h.templates.Create(r.Context(), req.Name, req.Subject, req.Content)
	if err != nil {
		slog.Error("create template failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(tpl)
}

// updateTemplateRequest: absent fields are left untouched, present ones must be non-empty.
type updateTemplateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Subject *string `json:"subject" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// Update handles PATCH /api/templates/{id}.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTemplateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	w.Header().Set("Content-Type", "application/json")

	tpl, err := h.templates.Update(r.Context(), r.PathValue("id"), model.TemplatePatch{
		Name:    req.Name,
		Subject: req.Subject,
		Content: req.Content,
	})
	if err != nil {
		slog.Error("update template failed", "id", r.PathValue("id"), "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}
	if tpl == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	_ = json.NewEncoder(w).Encode(tpl)
}

// Delete handles DELETE /api/templates/{id}.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ok, err := h.templates.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("delete template failed", "id", r.PathValue("id"), "error", err)
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
