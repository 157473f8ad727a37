package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"EventReach/internal/models"
)

// GetUserByEmail returns nil, nil when no row matches.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.Pool.QueryRow(ctx,
		`SELECT id, email, name, phone, tags, created_at
		 FROM users
		 WHERE email=$1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Tags, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = uuid.New().String()
	return s.Pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name, phone, tags, created_at)
		 VALUES ($1,$2,$3,$4,$5,NOW())
		 RETURNING created_at`,
		u.ID, u.Email, u.Name, u.Phone, u.Tags,
	).Scan(&u.CreatedAt)
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE users
		 SET name=$1,
		     phone=$2,
		     tags=$3
		 WHERE id=$4`,
		u.Name, u.Phone, u.Tags, u.ID,
	)
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, email, name, phone, tags, created_at
		 FROM users
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Tags, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (s *Store) CreateCheckInLog(ctx context.Context, l *models.CheckInLog) error {
	l.ID = uuid.New().String()
	return s.Pool.QueryRow(ctx,
		`INSERT INTO checkin_logs (id, event_name, user_id, created_at)
		 VALUES ($1,$2,$3,NOW())
		 RETURNING created_at`,
		l.ID, l.EventName, l.UserID,
	).Scan(&l.CreatedAt)
}

func (s *Store) ListCheckInLogs(ctx context.Context) ([]models.CheckInLog, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, event_name, user_id, created_at
		 FROM checkin_logs
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.CheckInLog
	for rows.Next() {
		var l models.CheckInLog
		if err := rows.Scan(&l.ID, &l.EventName, &l.UserID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) CountCheckIns(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM checkin_logs`).Scan(&n)
	return n, err
}

func (s *Store) CountCheckInsByEvent(ctx context.Context, eventName string) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM checkin_logs WHERE event_name=$1`,
		eventName,
	).Scan(&n)
	return n, err
}
