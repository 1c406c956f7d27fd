package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sams/internal/domain/notifications"
	"sams/internal/transport/http/api"
	"sams/internal/transport/http/middleware"
	"sams/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications/{employeeID}", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.HandleList)
		r.Put("/{id}/read", h.HandleMarkRead)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	page := shared.ParsePagination(r, 20, 100)

	list, err := h.Service.List(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list notifications", middleware.GetRequestID(r.Context()))
		return
	}
	total, err := h.Service.Count(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to count notifications", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"notifications": list,
		"total":         total,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	notificationID := chi.URLParam(r, "id")

	if err := h.Service.MarkRead(r.Context(), employeeID, notificationID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to mark notification read", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "read"}, middleware.GetRequestID(r.Context()))
}
