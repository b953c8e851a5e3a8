package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"classgateway/internal/logging"
	"classgateway/internal/upstream"
)

// Dashboard holds two maps keyed by course id: the latest announcement text
// and the nearest upcoming task. Every input course id has an entry in both
// maps; a failed or empty fetch yields nil.
type Dashboard struct {
	LatestAnnouncements map[string]*string              `json:"latestAnnouncements"`
	NextTasks           map[string]*upstream.CourseWork `json:"nextTasks"`
}

type courseSummary struct {
	courseID     string
	announcement *string
	nextTask     *upstream.CourseWork
}

// Dashboard resolves the per-course summaries concurrently. A failure for
// one course nils that course's entries and never aborts the others.
func (s *CourseService) Dashboard(ctx context.Context, courses []CourseView, now time.Time) *Dashboard {
	summaries := settleAll(ctx, len(courses),
		func(ctx context.Context, i int) (courseSummary, error) {
			return s.summarizeCourse(ctx, courses[i].ID, now), nil
		},
		func(i int, _ error) courseSummary {
			return courseSummary{courseID: courses[i].ID}
		},
	)

	dashboard := &Dashboard{
		LatestAnnouncements: make(map[string]*string, len(courses)),
		NextTasks:           make(map[string]*upstream.CourseWork, len(courses)),
	}
	for _, summary := range summaries {
		dashboard.LatestAnnouncements[summary.courseID] = summary.announcement
		dashboard.NextTasks[summary.courseID] = summary.nextTask
	}
	return dashboard
}

func (s *CourseService) summarizeCourse(ctx context.Context, courseID string, now time.Time) courseSummary {
	summary := courseSummary{courseID: courseID}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		announcements, err := s.classroom.ListAnnouncements(ctx, courseID)
		if err != nil {
			s.logDegradedSummary(ctx, courseID, "announcements", err)
			return
		}
		if len(announcements) > 0 {
			summary.announcement = announcements[0].Text
		}
	}()
	go func() {
		defer wg.Done()
		tasks, err := s.classroom.ListCourseWork(ctx, courseID)
		if err != nil {
			s.logDegradedSummary(ctx, courseID, "coursework", err)
			return
		}
		summary.nextTask = nextUpcomingTask(tasks, now)
	}()
	wg.Wait()

	return summary
}

func (s *CourseService) logDegradedSummary(ctx context.Context, courseID, what string, err error) {
	if logger, ok := logging.GetFromContext(ctx); ok {
		logger.Warn(ctx, "dashboard entry degraded to nil",
			zap.String("course_id", courseID), zap.String("fetch", what), zap.Error(err))
	}
}

// nextUpcomingTask picks the task with the earliest due date that falls
// today or later, at calendar-date granularity. Equal due dates keep the
// earlier list position, relying on stable upstream order. Tasks without a
// due date never qualify.
func nextUpcomingTask(tasks []upstream.CourseWork, now time.Time) *upstream.CourseWork {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var next *upstream.CourseWork
	var nextDue time.Time
	for i := range tasks {
		task := &tasks[i]
		if task.DueDate == nil {
			continue
		}
		due := time.Date(task.DueDate.Year, time.Month(task.DueDate.Month), task.DueDate.Day, 0, 0, 0, 0, time.UTC)
		if due.Before(today) {
			continue
		}
		if next == nil || due.Before(nextDue) {
			next = task
			nextDue = due
		}
	}
	return next
}
