package notifications

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Notification struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type StoreAPI interface {
	CreateNotification(ctx context.Context, employeeID, ntype, title, body string) error
	ListNotifications(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context, employeeID string) (int, error)
	MarkRead(ctx context.Context, employeeID, notificationID string) error
	EmployeeEmail(ctx context.Context, employeeID string) (string, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateNotification(ctx context.Context, employeeID, ntype, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (employee_id, type, title, body)
    VALUES ($1,$2,$3,$4)
  `, employeeID, ntype, title, body)
	return err
}

func (s *Store) ListNotifications(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, type, title, body, read, created_at
    FROM notifications
    WHERE employee_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.Type, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountNotifications(ctx context.Context, employeeID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE employee_id = $1", employeeID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, employeeID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read = true WHERE id = $1 AND employee_id = $2
  `, notificationID, employeeID)
	return err
}

func (s *Store) EmployeeEmail(ctx context.Context, employeeID string) (string, error) {
	var email string
	if err := s.DB.QueryRow(ctx, "SELECT email FROM employees WHERE id = $1", employeeID).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}
