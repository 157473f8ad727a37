package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"EventReach/internal/models"
	"EventReach/internal/scheduler"
	"EventReach/internal/tags"
	"EventReach/internal/templates"
)

type createScheduledEmailRequest struct {
	Name        string    `json:"name" validate:"required"`
	Subject     string    `json:"subject" validate:"required"`
	HTMLContent string    `json:"html_content" validate:"required"`
	TargetTags  []string  `json:"target_tags"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

type updateScheduledEmailRequest struct {
	Name        *string    `json:"name"`
	Subject     *string    `json:"subject"`
	HTMLContent *string    `json:"html_content"`
	TargetTags  []string   `json:"target_tags"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type taskSummary struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Subject     string            `json:"subject"`
	TargetTags  []string          `json:"targetTags"`
	ScheduledAt time.Time         `json:"scheduledAt"`
	SentAt      *time.Time        `json:"sentAt"`
	Status      models.TaskStatus `json:"status"`
	SentCount   int               `json:"sentCount"`
	FailedCount int               `json:"failedCount"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func (h *Handler) ListScheduledEmails(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Store.ListTasks(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]taskSummary, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskSummary{
			ID:          t.ID,
			Name:        t.Name,
			Subject:     t.Subject,
			TargetTags:  tags.Decode(t.TargetTags),
			ScheduledAt: t.ScheduledAt,
			SentAt:      t.SentAt,
			Status:      t.Status,
			SentCount:   t.SentCount,
			FailedCount: t.FailedCount,
			CreatedAt:   t.CreatedAt,
		})
	}

	h.respondJSON(w, http.StatusOK, out)
}

func (h *Handler) GetScheduledEmail(w http.ResponseWriter, r *http.Request) {
	task, err := h.Store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if task == nil {
		h.respondError(w, http.StatusNotFound, "Scheduled email not found")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":          task.ID,
		"name":        task.Name,
		"subject":     task.Subject,
		"htmlContent": task.HTMLContent,
		"targetTags":  tags.Decode(task.TargetTags),
		"scheduledAt": task.ScheduledAt,
		"status":      task.Status,
	})
}

func (h *Handler) CreateScheduledEmail(w http.ResponseWriter, r *http.Request) {
	var req createScheduledEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	task, err := h.Scheduler.Create(r.Context(), scheduler.CreateInput{
		Name:        req.Name,
		Subject:     req.Subject,
		HTMLContent: req.HTMLContent,
		TargetTags:  req.TargetTags,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		if errors.Is(err, scheduler.ErrInvalidSchedule) {
			h.respondError(w, http.StatusBadRequest, "Scheduled time must be in the future")
			return
		}
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":          task.ID,
		"name":        task.Name,
		"subject":     task.Subject,
		"targetTags":  tags.Decode(task.TargetTags),
		"scheduledAt": task.ScheduledAt,
		"status":      task.Status,
	})
}

func (h *Handler) UpdateScheduledEmail(w http.ResponseWriter, r *http.Request) {
	var req updateScheduledEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	task, err := h.Scheduler.Update(r.Context(), id, scheduler.UpdateInput{
		Name:        req.Name,
		Subject:     req.Subject,
		HTMLContent: req.HTMLContent,
		TargetTags:  req.TargetTags,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrNotFound):
			h.respondError(w, http.StatusNotFound, "Scheduled email not found")
		case errors.Is(err, scheduler.ErrInvalidState):
			h.respondError(w, http.StatusBadRequest, "Cannot update a processed email")
		case errors.Is(err, scheduler.ErrInvalidSchedule):
			h.respondError(w, http.StatusBadRequest, "Scheduled time must be in the future")
		default:
			h.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Updated", "id": task.ID})
}

func (h *Handler) CancelScheduledEmail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Scheduler.Cancel(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, scheduler.ErrNotFound):
			h.respondError(w, http.StatusNotFound, "Scheduled email not found")
		case errors.Is(err, scheduler.ErrInvalidState):
			h.respondError(w, http.StatusBadRequest, "Cannot cancel a processed email")
		default:
			h.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Cancelled"})
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, templates.List())
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, ok := templates.Get(chi.URLParam(r, "id"))
	if !ok {
		h.respondError(w, http.StatusNotFound, "Template not found")
		return
	}
	h.respondJSON(w, http.StatusOK, tmpl)
}

type recipientView struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name,omitempty"`
	Tags  []string `json:"tags"`
}

// PreviewRecipients applies the same superset filter rule the executor uses,
// without sending anything.
func (h *Handler) PreviewRecipients(w http.ResponseWriter, r *http.Request) {
	var target []string
	for _, t := range strings.Split(r.URL.Query().Get("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			target = append(target, t)
		}
	}

	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	matched := make([]recipientView, 0, len(users))
	for _, u := range users {
		userTags := tags.Decode(u.Tags)
		if !tags.ContainsAll(userTags, target) {
			continue
		}
		matched = append(matched, recipientView{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
			Tags:  userTags,
		})
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(matched),
		"users": matched,
	})
}

func (h *Handler) EmailLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	logs, err := h.Store.ListEmailLogs(r.Context(), limit)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if logs == nil {
		logs = []models.EmailLogWithUser{}
	}

	h.respondJSON(w, http.StatusOK, logs)
}
