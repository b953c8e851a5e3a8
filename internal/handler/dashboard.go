package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"classgateway/internal/service"
)

type DashboardHandler struct {
	svc *service.CourseService
}

func NewDashboardHandler(svc *service.CourseService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Get("/dashboard", h.Dashboard)
}

type dashboardResponse struct {
	Courses []service.CourseView `json:"courses"`
	*service.Dashboard
}

// Dashboard resolves the caller's course list and its per-course summaries.
// Only the initial course-list fetch can fail the request; the summary maps
// degrade per entry instead.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.ListCourses(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch courses")
		return
	}

	dashboard := h.svc.Dashboard(r.Context(), courses, time.Now())
	respondJSON(w, r, dashboardResponse{Courses: courses, Dashboard: dashboard})
}
