// Package campaign executes scheduled email tasks against the user directory.
package campaign

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"EventReach/internal/metrics"
	"EventReach/internal/models"
	"EventReach/internal/tags"
	"EventReach/internal/templates"
)

// Store is the persistence surface the executor needs.
type Store interface {
	GetTask(ctx context.Context, id string) (*models.ScheduledEmailTask, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateEmailLog(ctx context.Context, l *models.EmailLog) error
	FinalizeTask(ctx context.Context, id string, status models.TaskStatus, sentCount, failedCount int, sentAt *time.Time) error
}

type MailSender interface {
	Send(to, subject, htmlBody, displayName string) error
}

type Executor struct {
	store   Store
	sender  MailSender
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewExecutor(store Store, sender MailSender, limiter *rate.Limiter, log *zap.Logger) *Executor {
	return &Executor{
		store:   store,
		sender:  sender,
		limiter: limiter,
		log:     log,
	}
}

// Execute runs a scheduled email task to completion. Per-recipient send
// failures are tallied, not fatal; anything escaping the run as a whole marks
// the task failed with the failedCount=-1 sentinel.
func (e *Executor) Execute(ctx context.Context, taskID string) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("execution panic: %v", r)
			}
		}()
		return e.run(ctx, taskID)
	}()
	if err == nil {
		return
	}

	e.log.Error("scheduled email execution failed",
		zap.String("task_id", taskID),
		zap.Error(err),
	)
	if ferr := e.store.FinalizeTask(ctx, taskID, models.TaskFailed, 0, -1, nil); ferr != nil {
		e.log.Error("failed to mark task failed",
			zap.String("task_id", taskID),
			zap.Error(ferr),
		)
	}
}

func (e *Executor) run(ctx context.Context, taskID string) error {
	task, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		e.log.Warn("task vanished before execution", zap.String("task_id", taskID))
		return nil
	}
	if task.Status != models.TaskPending {
		// a cancel or update raced the fire; the status check wins
		e.log.Info("task no longer pending, skipping",
			zap.String("task_id", taskID),
			zap.String("status", string(task.Status)),
		)
		return nil
	}

	recipients, err := e.Recipients(ctx, tags.Decode(task.TargetTags))
	if err != nil {
		return err
	}

	e.log.Info("executing scheduled email task",
		zap.String("task_id", taskID),
		zap.Int("recipients", len(recipients)),
	)

	sent, failed := 0, 0
	for _, u := range recipients {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}

		body := templates.Personalize(task.HTMLContent, u.Name, u.Email)
		sendErr := e.sender.Send(u.Email, task.Subject, body, u.Name)

		logRow := &models.EmailLog{
			UserID:    u.ID,
			EmailType: models.EmailTypeCampaign,
			Subject:   task.Subject,
			Status:    models.EmailSent,
			SentAt:    time.Now(),
		}
		if sendErr != nil {
			failed++
			metrics.CampaignEmailFailures.Inc()
			logRow.Status = models.EmailFailed
			logRow.Error = sendErr.Error()
			e.log.Warn("campaign send failed",
				zap.String("task_id", taskID),
				zap.String("to", u.Email),
				zap.Error(sendErr),
			)
		} else {
			sent++
			metrics.CampaignEmailsSent.Inc()
		}

		if err := e.store.CreateEmailLog(ctx, logRow); err != nil {
			e.log.Error("email log write failed",
				zap.String("task_id", taskID),
				zap.Error(err),
			)
		}
	}

	// "sent" means execution completed, even when every delivery failed
	now := time.Now()
	if err := e.store.FinalizeTask(ctx, taskID, models.TaskSent, sent, failed, &now); err != nil {
		return err
	}

	metrics.CampaignTasksExecuted.Inc()
	e.log.Info("scheduled email task completed",
		zap.String("task_id", taskID),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	return nil
}

// Recipients resolves the target tag filter against the user directory. An
// empty filter selects everyone; otherwise a user qualifies when their tag
// set contains every target tag.
func (e *Executor) Recipients(ctx context.Context, target []string) ([]models.User, error) {
	users, err := e.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(target) == 0 {
		return users, nil
	}

	var matched []models.User
	for _, u := range users {
		if tags.ContainsAll(tags.Decode(u.Tags), target) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}
