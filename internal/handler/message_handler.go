package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SnoopySong/nexaweb/internal/model"
	"github.com/SnoopySong/nexaweb/internal/repository"
	"github.com/SnoopySong/nexaweb/internal/service"
)

// MessageHandler handles contact-form intake and the admin message console.
type MessageHandler struct {
	messages service.MessageService
	now      func() time.Time
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages, now: time.Now}
}

// submitMessageRequest is the expected JSON body for POST /api/messages.
// isRead and createdAt are not accepted from clients.
type submitMessageRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Budget      *string `json:"budget" validate:"omitempty,max=100"`
	ProjectType *string `json:"projectType" validate:"omitempty,max=100"`
	Message     string  `json:"message" validate:"required,min=10"`
}

// Submit handles POST /api/messages (public).
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	w.Header().Set("Content-Type", "application/json")

	msg, err := h.messages.Submit(r.Context(), model.NewMessage{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Budget:      req.Budget,
		ProjectType: req.ProjectType,
		Message:     req.Message,
	})
	if err != nil {
		slog.Error("submit message failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "submit_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(msg)
}

// List handles GET /api/messages (admin).
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	messages, err := h.messages.List(r.Context())
	if err != nil {
		slog.Error("list messages failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	_ = json.NewEncoder(w).Encode(messages)
}

// MarkRead handles PATCH /api/messages/{id}/read (admin).
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	msg, err := h.messages.MarkRead(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("mark message read failed", "id", r.PathValue("id"), "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}
	if msg == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	_ = json.NewEncoder(w).Encode(msg)
}

// Delete handles DELETE /api/messages/{id} (admin).
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ok, err := h.messages.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("delete message failed", "id", r.PathValue("id"), "error", err)
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

// Tags handles GET /api/messages/{id}/tags.
func (h *MessageHandler) Tags(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tags, err := h.messages.Tags(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("get message tags failed", "id", r.PathValue("id"), "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if tags == nil {
		tags = []*model.Tag{}
	}
	_ = json.NewEncoder(w).Encode(tags)
}

// TagMap handles GET /api/messages/tags (admin): every message id mapped to its tags.
func (h *MessageHandler) TagMap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	m, err := h.messages.TagMap(r.Context())
	if err != nil {
		slog.Error("get tag map failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if m == nil {
		m = map[string][]*model.Tag{}
	}
	_ = json.NewEncoder(w).Encode(m)
}

type addTagRequest struct {
	TagID string `json:"tagId" validate:"required"`
}

// AddTag handles POST /api/messages/{id}/tags. Adding an attached tag again succeeds.
func (h *MessageHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	var req addTagRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	w.Header().Set("Content-Type", "application/json")

	err := h.messages.AddTag(r.Context(), r.PathValue("id"), req.TagID)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	if err != nil {
		slog.Error("add tag to message failed", "id", r.PathValue("id"), "tag_id", req.TagID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// RemoveTag handles DELETE /api/messages/{id}/tags/{tagId}.
func (h *MessageHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.messages.RemoveTag(r.Context(), r.PathValue("id"), r.PathValue("tagId")); err != nil {
		slog.Error("remove tag from message failed", "id", r.PathValue("id"), "tag_id", r.PathValue("tagId"), "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ExportCSV handles GET /api/messages/export/csv.
// The document is rendered fully before anything is written so a store failure still yields a JSON 500.
func (h *MessageHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.messages.ExportCSV(r.Context(), &buf); err != nil {
		slog.Error("export messages failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "export_failed"})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFilename(h.now())+`"`)
	_, _ = buf.WriteTo(w)
}
