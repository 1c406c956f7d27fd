package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sams/internal/domain/audit"
	"sams/internal/domain/payroll"
	"sams/internal/platform/metrics"
	"sams/internal/transport/http/api"
	"sams/internal/transport/http/middleware"
	"sams/internal/transport/http/shared"
)

type Handler struct {
	Service    *payroll.Service
	Structures *payroll.StructureStore
	Audit      *audit.Service
	Metrics    *metrics.Collector
}

func NewHandler(service *payroll.Service, structures *payroll.StructureStore, auditor *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Structures: structures, Audit: auditor, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/structure", h.HandleGetStructure)
		r.Get("/payslips/{employeeID}", h.HandlePayslip)
		r.Get("/payslips/{employeeID}/pdf", h.HandlePayslipPDF)
		r.Post("/payslips/{employeeID}/preview", h.HandlePayslipPreview)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePayrollAccess)
			r.Post("/salaries", h.HandleSetSalary)
			r.Post("/payments", h.HandlePay)
			r.Delete("/payments", h.HandleResetPaid)
			r.Get("/payable", h.HandleListPayable)
			r.Post("/structure", h.HandleSaveStructure)
		})
	})
}

type setSalaryRequest struct {
	EmployeeID string  `json:"employeeId"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
}

type payRequest struct {
	EmployeeID string `json:"employeeId"`
	Month      int    `json:"month"`
	YearStart  int    `json:"yearStart"`
}

// periodFromQuery reads month / yearStart query parameters, resolving
// the current period when both are absent.
func periodFromQuery(r *http.Request) (payroll.Period, error) {
	rawMonth := r.URL.Query().Get("month")
	rawYear := r.URL.Query().Get("yearStart")
	if rawMonth == "" && rawYear == "" {
		return payroll.ResolvePeriod(time.Now()), nil
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("invalid month %q", rawMonth)
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return payroll.Period{}, fmt.Errorf("invalid yearStart %q", rawYear)
	}
	period := payroll.Period{Month: time.Month(month), YearStart: year}
	if !period.Valid() {
		return payroll.Period{}, fmt.Errorf("invalid period %d/%d", month, year)
	}
	return period, nil
}

func (h *Handler) HandleSetSalary(w http.ResponseWriter, r *http.Request) {
	var payload setSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	refDate := time.Now()
	if payload.Date != "" {
		parsed, ok := v.Date("date", payload.Date)
		if ok {
			refDate = parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.SetSalaryForPeriod(r.Context(), payload.EmployeeID, payload.Amount, refDate)
	if err != nil {
		h.failFromError(w, r, err, "set_salary_failed", "failed to set salary")
		return
	}

	h.recordAudit(r, payroll.ActionSalarySet, "salary_record", record.ID, map[string]any{
		"employeeId": record.EmployeeID,
		"amount":     record.Amount,
		"period":     record.Period().Label(),
	})
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandlePay(w http.ResponseWriter, r *http.Request) {
	var payload payRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	period := payroll.ResolvePeriod(time.Now())
	if payload.Month != 0 || payload.YearStart != 0 {
		period = payroll.Period{Month: time.Month(payload.Month), YearStart: payload.YearStart}
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	if !period.Valid() {
		v.Add("month", "month and yearStart must name a valid pay period")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.PaySalary(r.Context(), payload.EmployeeID, period)
	if err != nil {
		h.failFromError(w, r, err, "pay_failed", "failed to pay salary")
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordPayment()
	}
	h.recordAudit(r, payroll.ActionSalaryPaid, "salary_record", record.ID, map[string]any{
		"employeeId": record.EmployeeID,
		"amount":     record.Amount,
		"period":     record.Period().Label(),
	})
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleListPayable(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	list, err := h.Service.ListPayableEmployees(r.Context(), period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list payable employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"period":    period,
		"label":     period.Label(),
		"employees": list,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandlePayslip(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	slip, err := h.Service.RenderPayslip(r.Context(), chi.URLParam(r, "employeeID"), period, nil)
	if err != nil {
		h.failFromError(w, r, err, "payslip_failed", "failed to render payslip")
		return
	}
	api.Success(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandlePayslipPDF(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	slip, err := h.Service.RenderPayslip(r.Context(), chi.URLParam(r, "employeeID"), period, nil)
	if err != nil {
		h.failFromError(w, r, err, "payslip_failed", "failed to render payslip")
		return
	}

	filename := fmt.Sprintf("payslip-%s-%02d-%d.pdf", slip.EmploymentNumber, int(period.Month), period.YearStart)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := payroll.WritePayslipPDF(w, slip); err != nil {
		slog.Error("payslip pdf write failed", "employeeId", slip.EmployeeID, "err", err)
	}
}

// HandlePayslipPreview renders the payslip against a candidate
// structure without saving it.
func (h *Handler) HandlePayslipPreview(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	var structure payroll.Structure
	if err := json.NewDecoder(r.Body).Decode(&structure); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	slip, err := h.Service.RenderPayslip(r.Context(), chi.URLParam(r, "employeeID"), period, &structure)
	if err != nil {
		if errors.Is(err, payroll.ErrEmptyStructure) || errors.Is(err, payroll.ErrInvalidPercent) {
			api.Fail(w, http.StatusBadRequest, "invalid_structure", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		h.failFromError(w, r, err, "payslip_failed", "failed to render payslip")
		return
	}
	api.Success(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleGetStructure(w http.ResponseWriter, r *http.Request) {
	structure, err := h.Structures.Current(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "structure_failed", "failed to load payslip structure", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, structure, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleSaveStructure(w http.ResponseWriter, r *http.Request) {
	var structure payroll.Structure
	if err := json.NewDecoder(r.Body).Decode(&structure); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Structures.Save(r.Context(), structure)
	if err != nil {
		if errors.Is(err, payroll.ErrEmptyStructure) || errors.Is(err, payroll.ErrInvalidPercent) {
			api.Fail(w, http.StatusBadRequest, "invalid_structure", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "structure_failed", "failed to save payslip structure", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "payslip_structure.saved", "payslip_structure", id, nil)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

// HandleResetPaid clears the paid flag history, typically at the start
// of a new school year.
func (h *Handler) HandleResetPaid(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.Service.ResetPaidRecords(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reset_failed", "failed to clear paid records", middleware.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, payroll.ActionPaidCleared, "salary_record", "", map[string]any{"cleared": cleared})
	api.Success(w, map[string]int64{"cleared": cleared}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failFromError(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMessage string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, payroll.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "record_not_found", "salary record not found", requestID)
	case errors.Is(err, payroll.ErrNoSalarySet):
		api.Fail(w, http.StatusConflict, "no_salary_set", "no salary amount set for this period", requestID)
	case errors.Is(err, payroll.ErrAlreadyPaid):
		api.Fail(w, http.StatusConflict, "already_paid", "salary already paid for this period", requestID)
	case errors.Is(err, payroll.ErrZeroAmount):
		api.Fail(w, http.StatusConflict, "no_salary_set", "salary amount for this period is zero", requestID)
	case errors.Is(err, payroll.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must not be negative", requestID)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", "invalid pay period", requestID)
	default:
		slog.Error("payroll handler error", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, requestID)
	}
}

func (h *Handler) recordAudit(r *http.Request, action, entityType, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	actorID := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actorID = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
