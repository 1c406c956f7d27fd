package employeeshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sams/internal/domain/employees"
	"sams/internal/transport/http/api"
	"sams/internal/transport/http/middleware"
	"sams/internal/transport/http/shared"
)

type Handler struct {
	Service *employees.Service
}

func NewHandler(service *employees.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePayrollAccess)
			r.Post("/", h.HandleCreate)
			r.Put("/{id}", h.HandleUpdate)
			r.Put("/{id}/social-insurance", h.HandleSetSocialInsurance)
		})
	})
}

type employeeRequest struct {
	FirstName              string `json:"firstName"`
	LastName               string `json:"lastName"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone"`
	Role                   string `json:"role"`
	Status                 string `json:"status"`
	IncludeSocialInsurance bool   `json:"includeSocialInsurance"`
}

type socialInsuranceRequest struct {
	IncludeSocialInsurance bool `json:"includeSocialInsurance"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	v.Enum("role", payload.Role, []string{employees.RoleTeacher, employees.RoleBursar, employees.RoleAdmin, employees.RoleSupport}, "unknown role")
	v.Enum("status", payload.Status, []string{employees.StatusActive, employees.StatusLeft}, "unknown status")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.Create(r.Context(), employees.Employee{
		FirstName:              payload.FirstName,
		LastName:               payload.LastName,
		Email:                  payload.Email,
		Phone:                  payload.Phone,
		Role:                   payload.Role,
		Status:                 payload.Status,
		IncludeSocialInsurance: payload.IncludeSocialInsurance,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Enum("role", payload.Role, []string{employees.RoleTeacher, employees.RoleBursar, employees.RoleAdmin, employees.RoleSupport}, "unknown role")
	v.Enum("status", payload.Status, []string{employees.StatusActive, employees.StatusLeft}, "unknown status")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), employees.Employee{
		FirstName:              payload.FirstName,
		LastName:               payload.LastName,
		Email:                  payload.Email,
		Phone:                  payload.Phone,
		Role:                   payload.Role,
		Status:                 payload.Status,
		IncludeSocialInsurance: payload.IncludeSocialInsurance,
	})
	if err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

// HandleSetSocialInsurance flips the single CNPS participation flag.
func (h *Handler) HandleSetSocialInsurance(w http.ResponseWriter, r *http.Request) {
	var payload socialInsuranceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.SetSocialInsurance(r.Context(), chi.URLParam(r, "id"), payload.IncludeSocialInsurance); err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"includeSocialInsurance": payload.IncludeSocialInsurance}, middleware.GetRequestID(r.Context()))
}
