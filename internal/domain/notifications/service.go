package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"sams/internal/domain/payroll"
)

const TypePaymentReceipt = "payment_receipt"

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Service persists notifications and mails receipts. It implements
// the payroll Notifier interface; a failed email never fails the
// notification, and a failed notification never fails the payment.
type Service struct {
	store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer, from string) *Service {
	if from == "" {
		from = "no-reply@example.com"
	}
	return &Service{store: store, Mailer: mailer, DefaultFrom: from}
}

// NotifyPayment records a receipt notification for the employee and
// emails it when the employee has an address on file.
func (s *Service) NotifyPayment(ctx context.Context, event payroll.PaymentEvent) error {
	title := fmt.Sprintf("Salary paid for %s", event.Period.String())
	body := fmt.Sprintf(
		"Your salary of %.2f for %s was paid on %s. The payslip is available from the bursar's office.",
		event.Amount, event.Period.String(), event.PaidAt.Format("2006-01-02"),
	)

	if err := s.store.CreateNotification(ctx, event.EmployeeID, TypePaymentReceipt, title, body); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}
	email, err := s.store.EmployeeEmail(ctx, event.EmployeeID)
	if err != nil {
		slog.Warn("receipt email lookup failed", "employeeId", event.EmployeeID, "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, email, title, body); err != nil {
		slog.Warn("receipt email send failed", "employeeId", event.EmployeeID, "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, employeeID, limit, offset)
}

func (s *Service) Count(ctx context.Context, employeeID string) (int, error) {
	return s.store.CountNotifications(ctx, employeeID)
}

func (s *Service) MarkRead(ctx context.Context, employeeID, notificationID string) error {
	return s.store.MarkRead(ctx, employeeID, notificationID)
}
