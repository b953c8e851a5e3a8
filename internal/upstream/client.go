package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"classgateway/internal/config"
	"classgateway/internal/ctxdata"
	"classgateway/internal/errdefs"
	"classgateway/internal/utils"
)

// Client talks to the learning-platform REST API. It holds no credentials:
// the caller's bearer token travels in the request context and is applied
// per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pageSize   int
	retries    int
	retryDelay time.Duration
	breaker    *utils.CircuitBreaker
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.ClassroomAPIURL,
		httpClient: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
		pageSize:   cfg.PageSize,
		retries:    cfg.UpstreamRetries,
		retryDelay: cfg.UpstreamRetryDelay,
		breaker:    utils.NewCircuitBreaker(5, 30*time.Second),
	}
}

func (c *Client) ListCourses(ctx context.Context, role Role) ([]Course, error) {
	var out struct {
		Courses []Course `json:"courses"`
	}
	path := fmt.Sprintf("/v1/courses?role=%s&pageSize=%d", url.QueryEscape(string(role)), c.pageSize)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

func (c *Client) GetCourse(ctx context.Context, courseID string) (*Course, error) {
	var out Course
	if err := c.get(ctx, "/v1/courses/"+url.PathEscape(courseID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTeachers(ctx context.Context, courseID string) ([]RosterEntry, error) {
	var out struct {
		Teachers []RosterEntry `json:"teachers"`
	}
	if err := c.get(ctx, "/v1/courses/"+url.PathEscape(courseID)+"/teachers", &out); err != nil {
		return nil, err
	}
	return out.Teachers, nil
}

func (c *Client) ListStudents(ctx context.Context, courseID string) ([]RosterEntry, error) {
	var out struct {
		Students []RosterEntry `json:"students"`
	}
	if err := c.get(ctx, "/v1/courses/"+url.PathEscape(courseID)+"/students", &out); err != nil {
		return nil, err
	}
	return out.Students, nil
}

func (c *Client) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	var out UserProfile
	if err := c.get(ctx, "/v1/userProfiles/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAnnouncements(ctx context.Context, courseID string) ([]Announcement, error) {
	var out struct {
		Announcements []Announcement `json:"announcements"`
	}
	path := fmt.Sprintf("/v1/courses/%s/announcements?pageSize=%d", url.PathEscape(courseID), c.pageSize)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Announcements, nil
}

func (c *Client) ListCourseWork(ctx context.Context, courseID string) ([]CourseWork, error) {
	var out struct {
		CourseWork []CourseWork `json:"courseWork"`
	}
	path := fmt.Sprintf("/v1/courses/%s/courseWork?pageSize=%d", url.PathEscape(courseID), c.pageSize)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.CourseWork, nil
}

func (c *Client) GetCourseWork(ctx context.Context, courseID, taskID string) (*CourseWork, error) {
	var out CourseWork
	path := "/v1/courses/" + url.PathEscape(courseID) + "/courseWork/" + url.PathEscape(taskID)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMySubmissions returns the caller's own submission records for a task.
// Cross-user submission access is not exposed.
func (c *Client) ListMySubmissions(ctx context.Context, courseID, taskID string) ([]Submission, error) {
	var out struct {
		StudentSubmissions []Submission `json:"studentSubmissions"`
	}
	path := fmt.Sprintf("/v1/courses/%s/courseWork/%s/studentSubmissions?userId=me",
		url.PathEscape(courseID), url.PathEscape(taskID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.StudentSubmissions, nil
}

// AttachSubmission appends a shared storage object to a submission record.
// Not retried: the modification is not idempotent.
func (c *Client) AttachSubmission(ctx context.Context, courseID, taskID, submissionID, fileID, fileURL string) error {
	body := struct {
		AddAttachments []Attachment `json:"addAttachments"`
	}{
		AddAttachments: []Attachment{{FileID: fileID, URL: &fileURL}},
	}
	path := fmt.Sprintf("/v1/courses/%s/courseWork/%s/studentSubmissions/%s:modifyAttachments",
		url.PathEscape(courseID), url.PathEscape(taskID), url.PathEscape(submissionID))
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	_, err := utils.RetryWithCircuitBreaker(ctx, c.breaker, c.retries, c.retryDelay, func() (struct{}, error) {
		return struct{}{}, c.do(ctx, http.MethodGet, path, nil, out)
	})
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if token, ok := ctxdata.GetAuthToken(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, errdefs.ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func classifyStatus(method, path string, status int) error {
	var kind error
	switch {
	case status == http.StatusBadRequest:
		kind = errdefs.ErrValidation
	case status == http.StatusUnauthorized:
		kind = errdefs.ErrUnauthenticated
	case status == http.StatusForbidden:
		kind = errdefs.ErrPermissionDenied
	case status == http.StatusNotFound:
		kind = errdefs.ErrNotFound
	case status >= 500:
		kind = errdefs.ErrUnavailable
	default:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, status)
	}
	return fmt.Errorf("%s %s: status %d: %w", method, path, status, kind)
}
