package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"classgateway/internal/upstream"
)

// MockClassroom is a testify mock for Classroom.
type MockClassroom struct {
	mock.Mock
}

func (m *MockClassroom) ListCourses(ctx context.Context, role upstream.Role) ([]upstream.Course, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]upstream.Course), args.Error(1)
}

func (m *MockClassroom) GetCourse(ctx context.Context, courseID string) (*upstream.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.Course), args.Error(1)
}

func (m *MockClassroom) ListTeachers(ctx context.Context, courseID string) ([]upstream.RosterEntry, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]upstream.RosterEntry), args.Error(1)
}

func (m *MockClassroom) ListStudents(ctx context.Context, courseID string) ([]upstream.RosterEntry, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]upstream.RosterEntry), args.Error(1)
}

func (m *MockClassroom) GetUserProfile(ctx context.Context, userID string) (*upstream.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.UserProfile), args.Error(1)
}

func (m *MockClassroom) ListAnnouncements(ctx context.Context, courseID string) ([]upstream.Announcement, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]upstream.Announcement), args.Error(1)
}

func (m *MockClassroom) ListCourseWork(ctx context.Context, courseID string) ([]upstream.CourseWork, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]upstream.CourseWork), args.Error(1)
}

func (m *MockClassroom) GetCourseWork(ctx context.Context, courseID, taskID string) (*upstream.CourseWork, error) {
	args := m.Called(ctx, courseID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.CourseWork), args.Error(1)
}

func (m *MockClassroom) ListMySubmissions(ctx context.Context, courseID, taskID string) ([]upstream.Submission, error) {
	args := m.Called(ctx, courseID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]upstream.Submission), args.Error(1)
}

func (m *MockClassroom) AttachSubmission(ctx context.Context, courseID, taskID, submissionID, fileID, fileURL string) error {
	args := m.Called(ctx, courseID, taskID, submissionID, fileID, fileURL)
	return args.Error(0)
}

// MockStorage is a testify mock for Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateFile(ctx context.Context, ownerID, name, mimeType string, data []byte) (string, error) {
	args := m.Called(ctx, ownerID, name, mimeType, data)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) ShareFile(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

func (m *MockStorage) DeleteFile(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

func (m *MockStorage) ObjectURL(fileID string) string {
	args := m.Called(fileID)
	return args.String(0)
}

// MockEvents is a testify mock for Events.
type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) Send(ctx context.Context, message any) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func strPtr(s string) *string {
	return &s
}

func roster(courseID, userID, fullName string) upstream.RosterEntry {
	return upstream.RosterEntry{
		CourseID: courseID,
		UserID:   userID,
		Profile: &upstream.Profile{
			ID:   userID,
			Name: &upstream.Name{FullName: strPtr(fullName)},
		},
	}
}
