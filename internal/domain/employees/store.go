package employees

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `id, first_name, last_name, email, COALESCE(phone, ''), role, include_social_insurance, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone, &emp.Role, &emp.IncludeSocialInsurance, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt)
	return emp, err
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+` FROM employees WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1 AND status = $2", id, StatusActive).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY last_name, first_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, phone, role, include_social_insurance, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Role, emp.IncludeSocialInsurance, emp.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, id string, emp Employee) (Employee, error) {
	updated, err := scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET first_name = $2, last_name = $3, email = $4, phone = $5, role = $6,
        include_social_insurance = $7, status = $8, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns+`
  `, id, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Role, emp.IncludeSocialInsurance, emp.Status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return updated, err
}

func (s *Store) SetSocialInsurance(ctx context.Context, id string, include bool) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET include_social_insurance = $2, updated_at = now() WHERE id = $1
  `, id, include)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
