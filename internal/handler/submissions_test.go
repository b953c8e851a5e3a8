package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"classgateway/internal/errdefs"
	"classgateway/internal/service"
	"classgateway/internal/upstream"
)

func newSubmissionRouter(classroom *MockClassroom, storage *MockStorage) chi.Router {
	r := chi.NewRouter()
	svc := service.NewSubmissionService(classroom, storage, nil, false)
	NewSubmissionHandler(svc).RegisterRoutes(r, passthrough)
	return r
}

func multipartRequest(t *testing.T, fields map[string]string, fileName string, fileData []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, val := range fields {
		require.NoError(t, writer.WriteField(key, val))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/submissions", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSubmitSuccess(t *testing.T) {
	classroom := new(MockClassroom)
	storage := new(MockStorage)

	storage.On("CreateFile", mock.Anything, "", "essay.pdf", mock.Anything, []byte("essay body")).
		Return("f123", nil)
	storage.On("ShareFile", mock.Anything, "f123").Return(nil)
	storage.On("ObjectURL", "f123").Return("http://files.local/submissions/f123")
	classroom.On("ListMySubmissions", mock.Anything, "c1", "t1").
		Return([]upstream.Submission{{ID: "s1", CourseID: "c1", CourseWorkID: "t1"}}, nil)
	classroom.On("AttachSubmission", mock.Anything, "c1", "t1", "s1", "f123",
		"http://files.local/submissions/f123").Return(nil)

	req := multipartRequest(t, map[string]string{"courseId": "c1", "taskId": "t1"}, "essay.pdf", []byte("essay body"))
	rec := httptest.NewRecorder()
	newSubmissionRouter(classroom, storage).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Submission uploaded successfully", body["message"])
	assert.Equal(t, "f123", body["fileId"])
	assert.Equal(t, "s1", body["submissionId"])

	classroom.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestSubmitMissingFile(t *testing.T) {
	req := multipartRequest(t, map[string]string{"courseId": "c1", "taskId": "t1"}, "", nil)
	rec := httptest.NewRecorder()
	newSubmissionRouter(new(MockClassroom), new(MockStorage)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No file uploaded", body["error"])
}

func TestSubmitMissingIdentifiers(t *testing.T) {
	req := multipartRequest(t, map[string]string{"courseId": "c1"}, "essay.pdf", []byte("x"))
	rec := httptest.NewRecorder()
	newSubmissionRouter(new(MockClassroom), new(MockStorage)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitStepErrorBody(t *testing.T) {
	classroom := new(MockClassroom)
	storage := new(MockStorage)

	storage.On("CreateFile", mock.Anything, "", "essay.pdf", mock.Anything, mock.Anything).
		Return("f123", nil)
	storage.On("ShareFile", mock.Anything, "f123").
		Return(fmt.Errorf("acl rejected: %w", errdefs.ErrUnavailable))

	req := multipartRequest(t, map[string]string{"courseId": "c1", "taskId": "t1"}, "essay.pdf", []byte("x"))
	rec := httptest.NewRecorder()
	newSubmissionRouter(classroom, storage).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "share", body["step"])

	classroom.AssertNotCalled(t, "AttachSubmission",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitNoSubmissionRecord(t *testing.T) {
	classroom := new(MockClassroom)
	storage := new(MockStorage)

	storage.On("CreateFile", mock.Anything, "", "essay.pdf", mock.Anything, mock.Anything).
		Return("f123", nil)
	storage.On("ShareFile", mock.Anything, "f123").Return(nil)
	classroom.On("ListMySubmissions", mock.Anything, "c1", "t1").
		Return([]upstream.Submission{}, nil)

	req := multipartRequest(t, map[string]string{"courseId": "c1", "taskId": "t1"}, "essay.pdf", []byte("x"))
	rec := httptest.NewRecorder()
	newSubmissionRouter(classroom, storage).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no-submission", body["step"])
}
