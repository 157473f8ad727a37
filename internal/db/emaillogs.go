package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"EventReach/internal/models"
)

func (s *Store) CreateEmailLog(ctx context.Context, l *models.EmailLog) error {
	l.ID = uuid.New().String()
	if l.SentAt.IsZero() {
		l.SentAt = time.Now()
	}
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO email_logs (id, user_id, email_type, subject, status, error, sent_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		l.ID, l.UserID, l.EmailType, l.Subject, l.Status, l.Error, l.SentAt,
	)
	return err
}

// ListEmailLogs returns the most recent log rows joined with recipient info.
func (s *Store) ListEmailLogs(ctx context.Context, limit int) ([]models.EmailLogWithUser, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT l.id, l.user_id, l.email_type, l.subject, l.status, l.error, l.sent_at,
		        u.email, u.name
		 FROM email_logs l
		 JOIN users u ON u.id = l.user_id
		 ORDER BY l.sent_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.EmailLogWithUser
	for rows.Next() {
		var l models.EmailLogWithUser
		if err := rows.Scan(&l.ID, &l.UserID, &l.EmailType, &l.Subject, &l.Status,
			&l.Error, &l.SentAt, &l.UserEmail, &l.UserName); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
