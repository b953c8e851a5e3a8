package service

import (
	"context"

	"classgateway/internal/upstream"
)

// Classroom is the upstream capability the aggregators consume.
type Classroom interface {
	ListCourses(ctx context.Context, role upstream.Role) ([]upstream.Course, error)
	GetCourse(ctx context.Context, courseID string) (*upstream.Course, error)
	ListTeachers(ctx context.Context, courseID string) ([]upstream.RosterEntry, error)
	ListStudents(ctx context.Context, courseID string) ([]upstream.RosterEntry, error)
	GetUserProfile(ctx context.Context, userID string) (*upstream.UserProfile, error)
	ListAnnouncements(ctx context.Context, courseID string) ([]upstream.Announcement, error)
	ListCourseWork(ctx context.Context, courseID string) ([]upstream.CourseWork, error)
	GetCourseWork(ctx context.Context, courseID, taskID string) (*upstream.CourseWork, error)
	ListMySubmissions(ctx context.Context, courseID, taskID string) ([]upstream.Submission, error)
	AttachSubmission(ctx context.Context, courseID, taskID, submissionID, fileID, fileURL string) error
}

// Storage is the object-storage capability the submission workflow consumes.
type Storage interface {
	CreateFile(ctx context.Context, ownerID, name, mimeType string, data []byte) (string, error)
	ShareFile(ctx context.Context, fileID string) error
	DeleteFile(ctx context.Context, fileID string) error
	ObjectURL(fileID string) string
}

// Events publishes domain events. Implementations are best-effort; callers
// log failures and move on.
type Events interface {
	Send(ctx context.Context, message any) error
}
