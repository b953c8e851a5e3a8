package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"classgateway/internal/errdefs"
	"classgateway/internal/logging"
	"classgateway/internal/upstream"
)

// TeacherNotAssigned is the sentinel shown when a course's teacher roster
// could not be resolved.
const TeacherNotAssigned = "Not assigned"

// CourseView is one course enriched with its primary teacher.
type CourseView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Section       *string `json:"section,omitempty"`
	Description   *string `json:"description,omitempty"`
	Room          *string `json:"room,omitempty"`
	Teacher       string  `json:"teacher"`
	TeacherPhoto  *string `json:"teacherPhoto,omitempty"`
	AlternateLink *string `json:"alternateLink,omitempty"`
}

// CourseDetail is a course merged with its full rosters. Rosters are never
// nil.
type CourseDetail struct {
	upstream.Course
	Teachers []upstream.RosterEntry `json:"teachers"`
	Students []upstream.RosterEntry `json:"students"`
}

type ProfileView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CourseService struct {
	classroom         Classroom
	announcementLimit int
}

func NewCourseService(classroom Classroom, announcementLimit int) *CourseService {
	return &CourseService{classroom: classroom, announcementLimit: announcementLimit}
}

// ListCourses returns every course where the caller is teacher or student,
// deduplicated by id, each enriched with its primary teacher. A failed
// enrichment degrades that course to the "Not assigned" sentinel; only both
// role lists failing is a hard error.
func (s *CourseService) ListCourses(ctx context.Context) ([]CourseView, error) {
	var (
		wg             sync.WaitGroup
		teacherCourses []upstream.Course
		studentCourses []upstream.Course
		teacherErr     error
		studentErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		teacherCourses, teacherErr = s.classroom.ListCourses(ctx, upstream.RoleTeacher)
	}()
	go func() {
		defer wg.Done()
		studentCourses, studentErr = s.classroom.ListCourses(ctx, upstream.RoleStudent)
	}()
	wg.Wait()

	if teacherErr != nil && studentErr != nil {
		return nil, fmt.Errorf("list courses: %w", teacherErr)
	}
	if teacherErr != nil {
		s.logDegradedList(ctx, upstream.RoleTeacher, teacherErr)
	}
	if studentErr != nil {
		s.logDegradedList(ctx, upstream.RoleStudent, studentErr)
	}

	// Teacher-role entries are concatenated first, so they win on overlap.
	merged := dedupeCourses(append(teacherCourses, studentCourses...))

	return settleAll(ctx, len(merged),
		func(ctx context.Context, i int) (CourseView, error) {
			teachers, err := s.classroom.ListTeachers(ctx, merged[i].ID)
			if err != nil {
				return CourseView{}, err
			}
			return courseView(merged[i], firstTeacher(teachers)), nil
		},
		func(i int, err error) CourseView {
			if logger, ok := logging.GetFromContext(ctx); ok {
				logger.Warn(ctx, "teacher enrichment failed",
					zap.String("course_id", merged[i].ID), zap.Error(err))
			}
			return courseView(merged[i], nil)
		},
	), nil
}

// CourseDetail composes one course with its full teacher and student
// rosters. Unlike ListCourses there is no per-item degradation: any of the
// three fetches failing fails the composition.
func (s *CourseService) CourseDetail(ctx context.Context, courseID string) (*CourseDetail, error) {
	var (
		wg       sync.WaitGroup
		course   *upstream.Course
		teachers []upstream.RosterEntry
		students []upstream.RosterEntry
		errs     [3]error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		course, errs[0] = s.classroom.GetCourse(ctx, courseID)
	}()
	go func() {
		defer wg.Done()
		teachers, errs[1] = s.classroom.ListTeachers(ctx, courseID)
	}()
	go func() {
		defer wg.Done()
		students, errs[2] = s.classroom.ListStudents(ctx, courseID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("course detail %s: %w", courseID, err)
		}
	}

	if teachers == nil {
		teachers = []upstream.RosterEntry{}
	}
	if students == nil {
		students = []upstream.RosterEntry{}
	}
	return &CourseDetail{Course: *course, Teachers: teachers, Students: students}, nil
}

// Announcements returns the course's announcements in upstream order,
// bounded to the configured limit. Absence is an empty list, never nil.
func (s *CourseService) Announcements(ctx context.Context, courseID string) ([]upstream.Announcement, error) {
	announcements, err := s.classroom.ListAnnouncements(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("announcements %s: %w", courseID, err)
	}
	if announcements == nil {
		announcements = []upstream.Announcement{}
	}
	if s.announcementLimit > 0 && len(announcements) > s.announcementLimit {
		announcements = announcements[:s.announcementLimit]
	}
	return announcements, nil
}

func (s *CourseService) CourseWorkList(ctx context.Context, courseID string) ([]upstream.CourseWork, error) {
	tasks, err := s.classroom.ListCourseWork(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("coursework %s: %w", courseID, err)
	}
	if tasks == nil {
		tasks = []upstream.CourseWork{}
	}
	return tasks, nil
}

func (s *CourseService) CourseWorkItem(ctx context.Context, courseID, taskID string) (*upstream.CourseWork, error) {
	task, err := s.classroom.GetCourseWork(ctx, courseID, taskID)
	if err != nil {
		return nil, fmt.Errorf("coursework %s/%s: %w", courseID, taskID, err)
	}
	return task, nil
}

// MySubmission returns the caller's submission record for a task. A task has
// at most one submission per caller; none is ErrNotFound.
func (s *CourseService) MySubmission(ctx context.Context, courseID, taskID string) (*upstream.Submission, error) {
	submissions, err := s.classroom.ListMySubmissions(ctx, courseID, taskID)
	if err != nil {
		return nil, fmt.Errorf("submission %s/%s: %w", courseID, taskID, err)
	}
	if len(submissions) == 0 {
		return nil, fmt.Errorf("submission %s/%s: %w", courseID, taskID, errdefs.ErrNotFound)
	}
	return &submissions[0], nil
}

func (s *CourseService) UserProfile(ctx context.Context, userID string) (*ProfileView, error) {
	profile, err := s.classroom.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user profile %s: %w", userID, err)
	}

	view := &ProfileView{Name: "Unknown User", Email: "No email available"}
	if profile.Name != nil && profile.Name.FullName != nil {
		view.Name = *profile.Name.FullName
	}
	if profile.EmailAddress != nil {
		view.Email = *profile.EmailAddress
	}
	return view, nil
}

func (s *CourseService) logDegradedList(ctx context.Context, role upstream.Role, err error) {
	if logger, ok := logging.GetFromContext(ctx); ok {
		logger.Warn(ctx, "course list degraded to empty",
			zap.String("role", string(role)), zap.Error(err))
	}
}

func dedupeCourses(courses []upstream.Course) []upstream.Course {
	seen := make(map[string]struct{}, len(courses))
	merged := make([]upstream.Course, 0, len(courses))
	for _, course := range courses {
		if _, ok := seen[course.ID]; ok {
			continue
		}
		seen[course.ID] = struct{}{}
		merged = append(merged, course)
	}
	return merged
}

func firstTeacher(teachers []upstream.RosterEntry) *upstream.RosterEntry {
	if len(teachers) == 0 {
		return nil
	}
	return &teachers[0]
}

func courseView(course upstream.Course, teacher *upstream.RosterEntry) CourseView {
	view := CourseView{
		ID:            course.ID,
		Name:          course.Name,
		Section:       course.Section,
		Description:   course.Description,
		Room:          course.Room,
		Teacher:       TeacherNotAssigned,
		AlternateLink: course.AlternateLink,
	}
	if teacher != nil && teacher.Profile != nil {
		if teacher.Profile.Name != nil && teacher.Profile.Name.FullName != nil {
			view.Teacher = *teacher.Profile.Name.FullName
		}
		view.TeacherPhoto = teacher.Profile.PhotoURL
	}
	return view
}
