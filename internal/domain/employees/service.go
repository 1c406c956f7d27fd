package employees

import (
	"context"
	"fmt"
	"strings"
)

type StoreAPI interface {
	Get(ctx context.Context, id string) (Employee, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, emp Employee) (string, error)
	Update(ctx context.Context, id string, emp Employee) (Employee, error)
	SetSocialInsurance(ctx context.Context, id string, include bool) error
}

// Service is the employee directory. It owns Employee rows; other
// domains reference employees by id only.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.store.Exists(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.store.List(ctx)
}

func (s *Service) Create(ctx context.Context, emp Employee) (Employee, error) {
	if strings.TrimSpace(emp.LastName) == "" && strings.TrimSpace(emp.FirstName) == "" {
		return Employee{}, fmt.Errorf("employee needs a name")
	}
	if emp.Status == "" {
		emp.Status = StatusActive
	}
	if emp.Role == "" {
		emp.Role = RoleTeacher
	}
	id, err := s.store.Create(ctx, emp)
	if err != nil {
		return Employee{}, err
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, emp Employee) (Employee, error) {
	return s.store.Update(ctx, id, emp)
}

func (s *Service) SetSocialInsurance(ctx context.Context, id string, include bool) error {
	return s.store.SetSocialInsurance(ctx, id, include)
}
