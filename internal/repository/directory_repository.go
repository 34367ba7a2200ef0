package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/staff-directory-console/internal/models"
	appErrors "github.com/noah-isme/staff-directory-console/pkg/errors"
	"github.com/noah-isme/staff-directory-console/pkg/middleware/requestid"
)

const maxErrorBody = 512

// CallObserver receives timing for every directory call.
type CallObserver interface {
	ObserveDirectoryCall(operation string, status int, duration time.Duration)
}

// DirectoryRepository talks to the remote directory service over its REST contract.
type DirectoryRepository struct {
	baseURL  string
	client   *http.Client
	observer CallObserver
	logger   *zap.Logger
}

// NewDirectoryRepository constructs a repository rooted at baseURL. A nil client
// falls back to one with the given timeout (zero means no timeout).
func NewDirectoryRepository(baseURL string, client *http.Client, timeout time.Duration, observer CallObserver, logger *zap.Logger) *DirectoryRepository {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryRepository{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		observer: observer,
		logger:   logger,
	}
}

// ListDepartments returns every department in server order.
func (r *DirectoryRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := r.do(ctx, "list_departments", http.MethodGet, "/api/departments", nil, nil, &departments); err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []models.Department{}
	}
	return departments, nil
}

// ListTeachers returns teachers matching filter. Empty filter fields are not sent.
func (r *DirectoryRepository) ListTeachers(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherSummary, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Department != "" {
		query.Set("department", filter.Department)
	}

	var teachers []models.TeacherSummary
	if err := r.do(ctx, "list_teachers", http.MethodGet, "/api/teachers", query, nil, &teachers); err != nil {
		return nil, err
	}
	if teachers == nil {
		teachers = []models.TeacherSummary{}
	}
	return teachers, nil
}

// GetTeacher returns the full record including publications, trainings and awards.
func (r *DirectoryRepository) GetTeacher(ctx context.Context, id int64) (*models.TeacherDetail, error) {
	var detail models.TeacherDetail
	if err := r.do(ctx, "get_teacher", http.MethodGet, teacherPath(id), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateTeacher submits a new record and returns the server-assigned id when reported.
func (r *DirectoryRepository) CreateTeacher(ctx context.Context, payload models.TeacherPayload) (int64, error) {
	var created struct {
		ID int64 `json:"id"`
	}
	if err := r.do(ctx, "create_teacher", http.MethodPost, "/api/teachers", nil, payload, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// UpdateTeacher replaces the editable fields of teacher id.
func (r *DirectoryRepository) UpdateTeacher(ctx context.Context, id int64, payload models.TeacherPayload) error {
	return r.do(ctx, "update_teacher", http.MethodPut, teacherPath(id), nil, payload, nil)
}

// DeleteTeacher removes teacher id.
func (r *DirectoryRepository) DeleteTeacher(ctx context.Context, id int64) error {
	return r.do(ctx, "delete_teacher", http.MethodDelete, teacherPath(id), nil, nil, nil)
}

// Statistics fetches a freshly computed aggregate snapshot.
func (r *DirectoryRepository) Statistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if err := r.do(ctx, "statistics", http.MethodGet, "/api/statistics", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func teacherPath(id int64) string {
	return fmt.Sprintf("/api/teachers/%d", id)
}

func (r *DirectoryRepository) do(ctx context.Context, operation, method, path string, query url.Values, body, dest interface{}) error {
	endpoint := r.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode directory request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build directory request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		r.observe(operation, http.StatusServiceUnavailable, duration)
		r.logger.Debug("directory call failed", zap.String("operation", operation), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstreamDown.Code, appErrors.ErrUpstreamDown.Status, appErrors.ErrUpstreamDown.Message)
	}
	defer resp.Body.Close()
	r.observe(operation, resp.StatusCode, duration)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return appErrors.Upstream(resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamDown.Code, appErrors.ErrUpstreamDown.Status, "read directory response")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode directory response")
	}
	return nil
}

func (r *DirectoryRepository) observe(operation string, status int, duration time.Duration) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveDirectoryCall(operation, status, duration)
}
