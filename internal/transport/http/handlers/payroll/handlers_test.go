package payrollhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sams/internal/domain/auth"
	"sams/internal/domain/payroll"
	"sams/internal/transport/http/middleware"
)

const testSecret = "handler-test-secret"

type stubDirectory struct {
	employees map[string]payroll.EmployeeInfo
}

func (d stubDirectory) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := d.employees[id]
	return ok, nil
}

func (d stubDirectory) Info(ctx context.Context, id string) (payroll.EmployeeInfo, error) {
	info, ok := d.employees[id]
	if !ok {
		return payroll.EmployeeInfo{}, payroll.ErrEmployeeNotFound
	}
	return info, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	directory := stubDirectory{employees: map[string]payroll.EmployeeInfo{
		"emp-1": {ID: "emp-1", Name: "Jules Tchoua", EmploymentNumber: "EMP-04521", IncludeSocialInsurance: true},
	}}
	structures := payroll.StructureFunc(func(ctx context.Context) (payroll.Structure, error) {
		return payroll.DefaultStructure(), nil
	})
	service := payroll.NewService(payroll.NewLedger(payroll.NewMemStore()), directory, structures, nil)
	handler := NewHandler(service, nil, nil, nil)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	router.Route("/api/v1", handler.RegisterRoutes)
	return router
}

func bearerToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "user-1", Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, router http.Handler, method, path, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if role != "" {
		req.Header.Set("Authorization", bearerToken(t, role))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSetSalaryRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/salaries", "", `{"employeeId":"emp-1","amount":500000}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSetSalaryForbiddenForStaff(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/salaries", auth.RoleStaff, `{"employeeId":"emp-1","amount":500000}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSetAndPayFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/salaries", auth.RoleBursar,
		`{"employeeId":"emp-1","amount":500000,"date":"2025-10-05"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Success bool                 `json:"success"`
		Data    payroll.SalaryRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 500000.0, envelope.Data.Amount)
	assert.False(t, envelope.Data.Paid)

	payBody := `{"employeeId":"emp-1","month":10,"yearStart":2025}`
	rec = doRequest(t, router, http.MethodPost, "/api/v1/payroll/payments", auth.RoleBursar, payBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the same period cannot be paid twice
	rec = doRequest(t, router, http.MethodPost, "/api/v1/payroll/payments", auth.RoleBursar, payBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already_paid")
}

func TestPayWithoutSalaryConflicts(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/payments", auth.RoleAdmin,
		`{"employeeId":"emp-1","month":11,"yearStart":2025}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "no_salary_set")
}

func TestPayUnknownEmployee(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/salaries", auth.RoleBursar,
		`{"employeeId":"ghost","amount":100000}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "employee_not_found")
}

func TestPayslipEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/salaries", auth.RoleBursar,
		`{"employeeId":"emp-1","amount":500000,"date":"2025-10-05"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips/emp-1?month=10&yearStart=2025", auth.RoleStaff, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data payroll.Payslip `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Jules Tchoua", envelope.Data.EmployeeName)
	assert.Equal(t, "October 2025/2026", envelope.Data.PeriodLabel)
	assert.Equal(t, 500000.0, envelope.Data.Computed.Gross)
}

func TestPayslipPDFDownload(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/salaries", auth.RoleBursar,
		`{"employeeId":"emp-1","amount":500000,"date":"2025-10-05"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payslips/emp-1/pdf?month=10&yearStart=2025", auth.RoleStaff, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestPayableListAndReset(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/salaries", auth.RoleBursar,
		`{"employeeId":"emp-1","amount":500000,"date":"2025-10-05"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/payroll/payable?month=10&yearStart=2025", auth.RoleBursar, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "emp-1")

	rec = doRequest(t, router, http.MethodPost, "/api/v1/payroll/payments", auth.RoleBursar,
		`{"employeeId":"emp-1","month":10,"yearStart":2025}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/payroll/payments", auth.RoleAdmin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cleared":1`)
}

func TestPayslipPreviewWithOverride(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/payroll/salaries", auth.RoleBursar,
		`{"employeeId":"emp-1","amount":100000,"date":"2025-10-05"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	override := `{"sections":[{"title":"Base","items":[{"code":"BASE","label":"Base pay","percent":80}]}]}`
	rec = doRequest(t, router, http.MethodPost, "/api/v1/payroll/payslips/emp-1/preview?month=10&yearStart=2025", auth.RoleStaff, override)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data payroll.Payslip `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 80000.0, envelope.Data.Computed.GrossCreditTotal)

	// an invalid candidate structure is rejected
	rec = doRequest(t, router, http.MethodPost, "/api/v1/payroll/payslips/emp-1/preview?month=10&yearStart=2025", auth.RoleStaff,
		`{"sections":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidPeriodQuery(t *testing.T) {
	router := newTestRouter(t)

	for _, query := range []string{"month=13&yearStart=2025", "month=ten&yearStart=2025", "month=10"} {
		rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/payroll/payable?%s", query), auth.RoleBursar, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}
