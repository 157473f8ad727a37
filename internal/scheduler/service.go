package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"EventReach/internal/models"
	"EventReach/internal/tags"
)

var (
	ErrNotFound        = errors.New("scheduled email not found")
	ErrInvalidState    = errors.New("scheduled email already processed")
	ErrInvalidSchedule = errors.New("scheduled time must be in the future")
)

// TaskStore is the persistence surface the lifecycle service needs.
type TaskStore interface {
	CreateTask(ctx context.Context, t *models.ScheduledEmailTask) error
	GetTask(ctx context.Context, id string) (*models.ScheduledEmailTask, error)
	UpdateTaskContent(ctx context.Context, t *models.ScheduledEmailTask) error
	SetTaskStatus(ctx context.Context, id string, status models.TaskStatus) error
	ListPendingTasks(ctx context.Context) ([]models.ScheduledEmailTask, error)
}

// Service implements the administrative lifecycle of scheduled email tasks.
// It owns no global state; construct one in main and pass it around.
type Service struct {
	store   TaskStore
	trigger *Trigger
	log     *zap.Logger
	now     func() time.Time
}

func NewService(store TaskStore, trigger *Trigger, log *zap.Logger) *Service {
	return &Service{
		store:   store,
		trigger: trigger,
		log:     log,
		now:     time.Now,
	}
}

type CreateInput struct {
	Name        string
	Subject     string
	HTMLContent string
	TargetTags  []string
	ScheduledAt time.Time
}

// Create persists a pending task and arms its trigger.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.ScheduledEmailTask, error) {
	if !in.ScheduledAt.After(s.now()) {
		return nil, ErrInvalidSchedule
	}

	task := &models.ScheduledEmailTask{
		Name:        in.Name,
		Subject:     in.Subject,
		HTMLContent: in.HTMLContent,
		TargetTags:  tags.Encode(in.TargetTags),
		ScheduledAt: in.ScheduledAt,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.trigger.Schedule(task.ID, task.ScheduledAt)
	return task, nil
}

// UpdateInput carries the fields to overwrite; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Subject     *string
	HTMLContent *string
	TargetTags  []string
	ScheduledAt *time.Time
}

// Update overwrites the provided fields of a pending task. A new scheduled
// time replaces the trigger registration.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.ScheduledEmailTask, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if task.Status != models.TaskPending {
		return nil, ErrInvalidState
	}
	if in.ScheduledAt != nil && !in.ScheduledAt.After(s.now()) {
		return nil, ErrInvalidSchedule
	}

	if in.Name != nil {
		task.Name = *in.Name
	}
	if in.Subject != nil {
		task.Subject = *in.Subject
	}
	if in.HTMLContent != nil {
		task.HTMLContent = *in.HTMLContent
	}
	if in.TargetTags != nil {
		task.TargetTags = tags.Encode(in.TargetTags)
	}
	if in.ScheduledAt != nil {
		task.ScheduledAt = *in.ScheduledAt
	}

	if err := s.store.UpdateTaskContent(ctx, task); err != nil {
		return nil, err
	}

	if in.ScheduledAt != nil {
		s.trigger.Schedule(task.ID, task.ScheduledAt)
	}
	return task, nil
}

// Cancel disarms the trigger and marks a pending task cancelled.
func (s *Service) Cancel(ctx context.Context, id string) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrNotFound
	}
	if task.Status != models.TaskPending {
		return ErrInvalidState
	}

	if !s.trigger.Cancel(id) {
		s.log.Warn("no live trigger for cancelled task", zap.String("task_id", id))
	}

	return s.store.SetTaskStatus(ctx, id, models.TaskCancelled)
}

// Restore re-arms triggers for pending tasks after a restart. Tasks whose
// window passed while the process was down are neither fired nor failed;
// they stay pending without a trigger, and each one is logged so the gap is
// visible to operators.
func (s *Service) Restore(ctx context.Context) error {
	pending, err := s.store.ListPendingTasks(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	restored, missed := 0, 0
	for i := range pending {
		task := &pending[i]
		if task.ScheduledAt.After(now) {
			s.trigger.Schedule(task.ID, task.ScheduledAt)
			restored++
			continue
		}
		missed++
		s.log.Warn("missed scheduled window, task left pending without trigger",
			zap.String("task_id", task.ID),
			zap.Time("scheduled_at", task.ScheduledAt),
		)
	}

	s.log.Info("pending email tasks restored",
		zap.Int("restored", restored),
		zap.Int("missed", missed),
	)
	return nil
}
