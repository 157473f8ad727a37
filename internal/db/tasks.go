package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"EventReach/internal/models"
)

func (s *Store) CreateTask(ctx context.Context, t *models.ScheduledEmailTask) error {
	t.ID = uuid.New().String()
	t.Status = models.TaskPending
	return s.Pool.QueryRow(ctx,
		`INSERT INTO scheduled_emails
		 (id, name, subject, html_content, target_tags, scheduled_at, status, sent_count, failed_count, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,0,0,NOW())
		 RETURNING created_at`,
		t.ID, t.Name, t.Subject, t.HTMLContent, t.TargetTags, t.ScheduledAt, t.Status,
	).Scan(&t.CreatedAt)
}

// GetTask returns nil, nil when no row matches.
func (s *Store) GetTask(ctx context.Context, id string) (*models.ScheduledEmailTask, error) {
	var t models.ScheduledEmailTask
	err := s.Pool.QueryRow(ctx,
		`SELECT id, name, subject, html_content, target_tags, scheduled_at, sent_at,
		        status, sent_count, failed_count, created_at
		 FROM scheduled_emails
		 WHERE id=$1`,
		id,
	).Scan(&t.ID, &t.Name, &t.Subject, &t.HTMLContent, &t.TargetTags, &t.ScheduledAt,
		&t.SentAt, &t.Status, &t.SentCount, &t.FailedCount, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]models.ScheduledEmailTask, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, subject, html_content, target_tags, scheduled_at, sent_at,
		        status, sent_count, failed_count, created_at
		 FROM scheduled_emails
		 ORDER BY scheduled_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// ListPendingTasks returns every pending task regardless of fire time; the
// restore pass decides which still get a trigger.
func (s *Store) ListPendingTasks(ctx context.Context) ([]models.ScheduledEmailTask, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, subject, html_content, target_tags, scheduled_at, sent_at,
		        status, sent_count, failed_count, created_at
		 FROM scheduled_emails
		 WHERE status=$1
		 ORDER BY scheduled_at`,
		models.TaskPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]models.ScheduledEmailTask, error) {
	var tasks []models.ScheduledEmailTask
	for rows.Next() {
		var t models.ScheduledEmailTask
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.HTMLContent, &t.TargetTags,
			&t.ScheduledAt, &t.SentAt, &t.Status, &t.SentCount, &t.FailedCount, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskContent overwrites the mutable fields of a pending task.
func (s *Store) UpdateTaskContent(ctx context.Context, t *models.ScheduledEmailTask) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE scheduled_emails
		 SET name=$1,
		     subject=$2,
		     html_content=$3,
		     target_tags=$4,
		     scheduled_at=$5
		 WHERE id=$6`,
		t.Name, t.Subject, t.HTMLContent, t.TargetTags, t.ScheduledAt, t.ID,
	)
	return err
}

func (s *Store) SetTaskStatus(ctx context.Context, id string, status models.TaskStatus) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE scheduled_emails SET status=$1 WHERE id=$2`,
		status, id,
	)
	return err
}

// FinalizeTask records the outcome of an execution.
func (s *Store) FinalizeTask(ctx context.Context, id string, status models.TaskStatus, sentCount, failedCount int, sentAt *time.Time) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE scheduled_emails
		 SET status=$1,
		     sent_count=$2,
		     failed_count=$3,
		     sent_at=$4
		 WHERE id=$5`,
		status, sentCount, failedCount, sentAt, id,
	)
	return err
}
