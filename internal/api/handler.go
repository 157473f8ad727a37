package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"EventReach/internal/models"
	"EventReach/internal/scheduler"
)

// Store is the persistence surface the HTTP layer needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	CreateCheckInLog(ctx context.Context, l *models.CheckInLog) error
	ListCheckInLogs(ctx context.Context) ([]models.CheckInLog, error)
	CountCheckIns(ctx context.Context) (int64, error)
	CountCheckInsByEvent(ctx context.Context, eventName string) (int64, error)
	ListTasks(ctx context.Context) ([]models.ScheduledEmailTask, error)
	GetTask(ctx context.Context, id string) (*models.ScheduledEmailTask, error)
	ListEmailLogs(ctx context.Context, limit int) ([]models.EmailLogWithUser, error)
}

type Handler struct {
	Store     Store
	Scheduler *scheduler.Service
	Jobs      chan<- models.WelcomeEmailJob
	EventName string
	Log       *zap.Logger

	validate *validator.Validate
}

func NewHandler(store Store, sched *scheduler.Service, jobs chan<- models.WelcomeEmailJob, eventName string, log *zap.Logger) *Handler {
	return &Handler{
		Store:     store,
		Scheduler: sched,
		Jobs:      jobs,
		EventName: eventName,
		Log:       log,
		validate:  validator.New(),
	}
}

// Router wires the full HTTP surface.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Post("/check-in", h.CheckIn)
	r.Get("/users", h.Users)
	r.Get("/event", h.Event)
	r.Get("/stats", h.Stats)
	r.Get("/tags", h.Tags)
	r.Get("/export/csv", h.ExportCSV)

	r.Route("/scheduler", func(r chi.Router) {
		r.Get("/emails", h.ListScheduledEmails)
		r.Post("/emails", h.CreateScheduledEmail)
		r.Get("/emails/{id}", h.GetScheduledEmail)
		r.Put("/emails/{id}", h.UpdateScheduledEmail)
		r.Delete("/emails/{id}", h.CancelScheduledEmail)

		r.Get("/templates", h.ListTemplates)
		r.Get("/templates/{id}", h.GetTemplate)

		r.Get("/preview-recipients", h.PreviewRecipients)
		r.Get("/logs", h.EmailLogs)
	})

	return r
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("response encode failed", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, detail string) {
	h.respondJSON(w, status, map[string]string{"detail": detail})
}
