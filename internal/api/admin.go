package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"EventReach/internal/models"
	"EventReach/internal/tags"
)

type userView struct {
	ID        string              `json:"id"`
	Email     string              `json:"email"`
	Name      string              `json:"name,omitempty"`
	Phone     string              `json:"phone,omitempty"`
	Tags      []string            `json:"tags"`
	CreatedAt time.Time           `json:"createdAt"`
	Logs      []models.CheckInLog `json:"logs"`
}

// Users lists all contacts with their decoded tags and check-in history,
// newest first.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.Store.ListUsers(ctx)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logs, err := h.Store.ListCheckInLogs(ctx)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byUser := make(map[string][]models.CheckInLog)
	for _, l := range logs {
		byUser[l.UserID] = append(byUser[l.UserID], l)
	}

	out := make([]userView, 0, len(users))
	for _, u := range users {
		userLogs := byUser[u.ID]
		if userLogs == nil {
			userLogs = []models.CheckInLog{}
		}
		out = append(out, userView{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Phone:     u.Phone,
			Tags:      tags.Decode(u.Tags),
			CreatedAt: u.CreatedAt,
			Logs:      userLogs,
		})
	}

	h.respondJSON(w, http.StatusOK, out)
}

func (h *Handler) Event(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"event_name": h.EventName})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalUsers, err := h.Store.CountUsers(ctx)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	totalCheckIns, err := h.Store.CountCheckIns(ctx)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	eventCheckIns, err := h.Store.CountCheckInsByEvent(ctx, h.EventName)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]int64{
		"total_users":    totalUsers,
		"total_checkins": totalCheckIns,
		"event_checkins": eventCheckIns,
	})
}

// Tags returns the deduplicated, sorted union of all users' tag sets.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sets := make([][]string, 0, len(users))
	for _, u := range users {
		sets = append(sets, tags.Decode(u.Tags))
	}

	h.respondJSON(w, http.StatusOK, tags.SortedUnion(sets...))
}

// ExportCSV streams the contact list as CSV, optionally filtered to users
// carrying the given tag. A UTF-8 BOM is written first so spreadsheet apps
// detect the encoding.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filter := r.URL.Query().Get("tag")
	filename := fmt.Sprintf("users_export_%s.csv", time.Now().Format("20060102_150405"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if _, err := w.Write([]byte("\ufeff")); err != nil {
		return
	}

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Email", "姓名", "電話", "標籤", "建立時間"})

	for _, u := range users {
		userTags := tags.Decode(u.Tags)
		if filter != "" && !tags.ContainsAll(userTags, []string{filter}) {
			continue
		}
		_ = cw.Write([]string{
			u.Email,
			u.Name,
			u.Phone,
			strings.Join(userTags, ", "),
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	cw.Flush()
}
