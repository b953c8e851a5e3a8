package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"classgateway/internal/service"
	"classgateway/internal/upstream"
)

type CourseHandler struct {
	svc *service.CourseService
}

func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

func (h *CourseHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Group(func(r chi.Router) {
		r.Get("/courses", h.ListCourses)
		r.Get("/courses/{courseId}", h.CourseDetail)
		r.Get("/courses/{courseId}/announcements", h.Announcements)
		r.Get("/courses/{courseId}/courseWork", h.CourseWorkList)
		r.Get("/courses/{courseId}/courseWork/{taskId}", h.CourseWorkItem)
		r.Get("/courses/{courseId}/courseWork/{taskId}/submission", h.MySubmission)
		r.Get("/userProfiles/{userId}", h.UserProfile)
	})
}

func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.ListCourses(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch courses")
		return
	}
	respondJSON(w, r, courses)
}

func (h *CourseHandler) CourseDetail(w http.ResponseWriter, r *http.Request) {
	courseID, err := parsePathParam(r, "courseId")
	if err != nil {
		respondError(w, r, err, "invalid request parameters")
		return
	}

	detail, err := h.svc.CourseDetail(r.Context(), courseID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch course details")
		return
	}
	respondJSON(w, r, detail)
}

func (h *CourseHandler) Announcements(w http.ResponseWriter, r *http.Request) {
	courseID, err := parsePathParam(r, "courseId")
	if err != nil {
		respondError(w, r, err, "invalid request parameters")
		return
	}

	announcements, err := h.svc.Announcements(r.Context(), courseID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch announcements")
		return
	}
	respondJSON(w, r, struct {
		Announcements []upstream.Announcement `json:"announcements"`
	}{announcements})
}

func (h *CourseHandler) CourseWorkList(w http.ResponseWriter, r *http.Request) {
	courseID, err := parsePathParam(r, "courseId")
	if err != nil {
		respondError(w, r, err, "invalid request parameters")
		return
	}

	tasks, err := h.svc.CourseWorkList(r.Context(), courseID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch course work")
		return
	}
	respondJSON(w, r, struct {
		CourseWork []upstream.CourseWork `json:"courseWork"`
	}{tasks})
}

func (h *CourseHandler) CourseWorkItem(w http.ResponseWriter, r *http.Request) {
	courseID, err := parsePathParam(r, "courseId")
	if err != nil {
		respondError(w, r, err, "invalid request parameters")
		return
	}
	taskID, err := parsePathParam(r, "taskId")
	if err != nil {
		respondError(w, r, err, "invalid request parameters")
		return
	}

	task, err := h.svc.CourseWorkItem(r.Context(), courseID, taskID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch task")
		return
	}
	respondJSON(w, r, task)
}

func (h *CourseHandler) MySubmission(w http.ResponseWriter, r *http.Request) {
	courseID, err := parsePathParam(r, "courseId")
	if err != nil {
		respondError(w, r, err, "invalid request parameters")
		return
	}
	taskID, err := parsePathParam(r, "taskId")
	if err != nil {
		respondError(w, r, err, "invalid request parameters")
		return
	}

	submission, err := h.svc.MySubmission(r.Context(), courseID, taskID)
	if err != nil {
		respondError(w, r, err, "No submission found")
		return
	}
	respondJSON(w, r, submission)
}

func (h *CourseHandler) UserProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathParam(r, "userId")
	if err != nil {
		respondError(w, r, err, "invalid request parameters")
		return
	}

	profile, err := h.svc.UserProfile(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, "Failed to fetch user profile")
		return
	}
	respondJSON(w, r, profile)
}
