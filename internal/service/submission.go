package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"classgateway/internal/ctxdata"
	"classgateway/internal/errdefs"
	"classgateway/internal/logging"
)

// Step tags the stage of the submission workflow that failed. Callers need
// the tag: "no submission exists to attach to" asks for a different remedy
// than "could not upload".
type Step string

const (
	StepUpload       Step = "upload"
	StepShare        Step = "share"
	StepLocate       Step = "locate"
	StepNoSubmission Step = "no-submission"
	StepAttach       Step = "attach"
)

type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("submission workflow failed at %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// SubmissionFile is the raw payload handed to the workflow.
type SubmissionFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type SubmissionResult struct {
	FileID       string `json:"fileId"`
	SubmissionID string `json:"submissionId"`
}

type submissionAttachedEvent struct {
	CourseID     string    `json:"course_id"`
	CourseWorkID string    `json:"course_work_id"`
	SubmissionID string    `json:"submission_id"`
	FileID       string    `json:"file_id"`
	UserID       string    `json:"user_id"`
	AttachedAt   time.Time `json:"attached_at"`
}

// SubmissionService runs the upload → share → locate → attach sequence.
// Steps are strictly sequential: each consumes the previous step's output.
type SubmissionService struct {
	classroom Classroom
	storage   Storage
	events    Events

	// cleanupOrphans deletes the uploaded object when a later step fails.
	// Off, a share/locate/attach failure leaves an unattached object behind,
	// matching the upstream platform's own non-transactional semantics.
	cleanupOrphans bool
}

func NewSubmissionService(classroom Classroom, storage Storage, events Events, cleanupOrphans bool) *SubmissionService {
	return &SubmissionService{
		classroom:      classroom,
		storage:        storage,
		events:         events,
		cleanupOrphans: cleanupOrphans,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, courseID, taskID string, file SubmissionFile) (*SubmissionResult, error) {
	if len(file.Data) == 0 {
		return nil, &StepError{Step: StepUpload, Err: fmt.Errorf("empty file payload: %w", errdefs.ErrValidation)}
	}

	ownerID, _ := ctxdata.GetUserID(ctx)

	fileID, err := s.storage.CreateFile(ctx, ownerID, file.Name, file.ContentType, file.Data)
	if err != nil {
		return nil, &StepError{Step: StepUpload, Err: err}
	}

	if err := s.storage.ShareFile(ctx, fileID); err != nil {
		s.abandonUpload(ctx, fileID)
		return nil, &StepError{Step: StepShare, Err: err}
	}

	submissions, err := s.classroom.ListMySubmissions(ctx, courseID, taskID)
	if err != nil {
		s.abandonUpload(ctx, fileID)
		return nil, &StepError{Step: StepLocate, Err: err}
	}
	if len(submissions) == 0 {
		s.abandonUpload(ctx, fileID)
		return nil, &StepError{
			Step: StepNoSubmission,
			Err:  fmt.Errorf("no submission record for task %s: %w", taskID, errdefs.ErrNotFound),
		}
	}
	submissionID := submissions[0].ID

	if err := s.classroom.AttachSubmission(ctx, courseID, taskID, submissionID, fileID, s.storage.ObjectURL(fileID)); err != nil {
		s.abandonUpload(ctx, fileID)
		return nil, &StepError{Step: StepAttach, Err: err}
	}

	s.publishAttached(ctx, courseID, taskID, submissionID, fileID, ownerID)

	return &SubmissionResult{FileID: fileID, SubmissionID: submissionID}, nil
}

// abandonUpload handles an object uploaded by a workflow that later failed.
// With the cleanup policy off it only logs the orphan.
func (s *SubmissionService) abandonUpload(ctx context.Context, fileID string) {
	logger, hasLogger := logging.GetFromContext(ctx)

	if !s.cleanupOrphans {
		if hasLogger {
			logger.Warn(ctx, "orphaned upload left in storage", zap.String("file_id", fileID))
		}
		return
	}
	if err := s.storage.DeleteFile(ctx, fileID); err != nil {
		if hasLogger {
			logger.Error(ctx, "failed to delete orphaned upload",
				zap.String("file_id", fileID), zap.Error(err))
		}
	}
}

func (s *SubmissionService) publishAttached(ctx context.Context, courseID, taskID, submissionID, fileID, userID string) {
	if s.events == nil {
		return
	}
	event := submissionAttachedEvent{
		CourseID:     courseID,
		CourseWorkID: taskID,
		SubmissionID: submissionID,
		FileID:       fileID,
		UserID:       userID,
		AttachedAt:   time.Now().UTC(),
	}
	if err := s.events.Send(ctx, event); err != nil {
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Error(ctx, "failed to publish submission event", zap.Error(err))
		}
	}
}
