package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/staff-directory-console/internal/directoryfake"
	"github.com/noah-isme/staff-directory-console/internal/middleware"
	"github.com/noah-isme/staff-directory-console/internal/models"
	"github.com/noah-isme/staff-directory-console/internal/repository"
	"github.com/noah-isme/staff-directory-console/internal/service"
	"github.com/noah-isme/staff-directory-console/pkg/session"
)

const testCookieName = "console_session"

type routerFixture struct {
	router *gin.Engine
	fake   *directoryfake.Server
	store  *repository.MemorySessionStore
	cookie *http.Cookie
}

func newRouterFixture(t *testing.T, checks map[string]ReadinessCheck) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := directoryfake.New(
		models.Department{ID: 1, Name: "Computer Science"},
		models.Department{ID: 2, Name: "Mathematics"},
	)
	fake.Seed(models.TeacherPayload{FirstName: "Maria", LastName: "Ivanova", DepartmentID: 2, Position: "Professor", Email: "ivanova@example.edu"}, nil, nil, nil)
	srv := fake.Start()
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	metrics := service.NewMetricsService()
	directory := repository.NewDirectoryRepository(srv.URL, nil, 0, metrics, logger)
	store := repository.NewMemorySessionStore(time.Hour, logger)
	console := service.NewConsoleService(directory, store, nil, metrics, service.ConsoleConfig{NotificationTTL: time.Minute, SequenceGuard: true, ExportsEnabled: true}, logger)
	exports := service.NewExportService(store, true, logger, nil, nil)

	signer := session.NewSigner("router-test-secret", time.Hour)
	cookie := middleware.SessionCookie{Name: testCookieName}

	router, err := NewRouter(RouterDeps{
		Console:         NewConsoleHandler(console, exports, cookie, true),
		Ops:             NewMetricsHandler(metrics, checks),
		Metrics:         metrics,
		Logger:          logger,
		Session:         middleware.Session(console, signer, cookie, logger),
		ExistingSession: middleware.ExistingSession(signer, cookie),
		MetricsEnabled:  true,
	})
	require.NoError(t, err)

	return &routerFixture{router: router, fake: fake, store: store}
}

// do sends a request carrying the current session cookie and keeps any
// cookie the server sets.
func (f *routerFixture) do(method, target string, form url.Values, wantJSON bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if wantJSON {
		req.Header.Set("Accept", "application/json")
	}
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			f.cookie = c
		}
	}
	return rec
}

func (f *routerFixture) page(t *testing.T, method, target string, form url.Values) pageEnvelope {
	t.Helper()
	rec := f.do(method, target, form, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var envelope pageEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func notificationMessages(page pageEnvelope) []string {
	out := make([]string, 0, len(page.Data.Notifications))
	for _, n := range page.Data.Notifications {
		out = append(out, n.Message)
	}
	return out
}

func TestRouterStartsSessionOnFirstVisit(t *testing.T) {
	f := newRouterFixture(t, nil)

	first := f.page(t, http.MethodGet, "/", nil)
	require.NotNil(t, f.cookie)
	assert.True(t, f.cookie.HttpOnly)
	assert.Equal(t, true, first.Meta[middleware.MetaSessionStarted])
	assert.Equal(t, "list", first.Data.ActiveView)
	assert.Equal(t, "Total teachers: 1", first.Data.Count)
	require.NotNil(t, first.Data.Table)
	require.Len(t, first.Data.Table.Rows, 1)
	assert.Equal(t, "Ivanova Maria", first.Data.Table.Rows[0].FullName)
	assert.Equal(t, "—", first.Data.Table.Rows[0].Phone)

	second := f.page(t, http.MethodGet, "/", nil)
	assert.NotContains(t, second.Meta, middleware.MetaSessionStarted)
	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, 1, f.fake.Count(http.MethodGet, "/api/departments"))
}

func TestRouterReplacesTamperedCookie(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.page(t, http.MethodGet, "/", nil)

	f.cookie = &http.Cookie{Name: testCookieName, Value: f.cookie.Value + "x"}
	page := f.page(t, http.MethodGet, "/", nil)

	assert.Equal(t, true, page.Meta[middleware.MetaSessionStarted])
	assert.Equal(t, 2, f.store.Len())
}

func TestRouterCreateThenDeleteTeacher(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.page(t, http.MethodGet, "/", nil)

	opened := f.page(t, http.MethodPost, "/console/teachers/new", url.Values{})
	require.NotNil(t, opened.Data.Form)
	assert.Equal(t, "Add teacher", opened.Data.Form.Title)
	assert.Nil(t, opened.Data.Form.EditingID)

	created := f.page(t, http.MethodPost, "/console/teachers/form", url.Values{
		"first_name":    {"Ivan"},
		"last_name":     {"Petrov"},
		"department_id": {"1"},
		"position":      {"Lecturer"},
	})
	assert.Nil(t, created.Data.Form)
	assert.Equal(t, "Total teachers: 2", created.Data.Count)
	assert.Contains(t, notificationMessages(created), service.MsgTeacherAdded)

	var newID int64
	for _, row := range created.Data.Table.Rows {
		if row.FullName == "Petrov Ivan" {
			newID = row.ID
		}
	}
	require.NotZero(t, newID)

	pending := f.page(t, http.MethodPost, "/console/teachers/"+itoa(newID)+"/delete", url.Values{})
	require.NotNil(t, pending.Data.Confirm)
	assert.Equal(t, newID, pending.Data.Confirm.TeacherID)

	deleted := f.page(t, http.MethodPost, "/console/teachers/delete/confirm", url.Values{"confirmed": {"true"}})
	assert.Nil(t, deleted.Data.Confirm)
	assert.Equal(t, "Total teachers: 1", deleted.Data.Count)
	assert.Contains(t, notificationMessages(deleted), service.MsgTeacherDeleted)
	assert.Equal(t, 1, f.fake.Count(http.MethodDelete, "/api/teachers/:id"))
}

func TestRouterInvalidFormIsNotSent(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.page(t, http.MethodGet, "/", nil)
	f.page(t, http.MethodPost, "/console/teachers/new", url.Values{})

	page := f.page(t, http.MethodPost, "/console/teachers/form", url.Values{
		"first_name":    {"Ivan"},
		"department_id": {"1"},
		"position":      {"Lecturer"},
		"email":         {"not-an-email"},
	})

	require.NotNil(t, page.Data.Form)
	assert.Equal(t, "Ivan", page.Data.Form.Fields.FirstName)
	assert.Equal(t, "not-an-email", page.Data.Form.Fields.Email)
	messages := notificationMessages(page)
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[len(messages)-1], "last_name")
	assert.Contains(t, messages[len(messages)-1], "email")
	assert.Zero(t, f.fake.Count(http.MethodPost, "/api/teachers"))
}

func TestRouterViewAndStatistics(t *testing.T) {
	f := newRouterFixture(t, nil)
	first := f.page(t, http.MethodGet, "/", nil)
	id := first.Data.Table.Rows[0].ID

	detail := f.page(t, http.MethodGet, "/console/teachers/"+itoa(id), nil)
	require.NotNil(t, detail.Data.Detail)
	assert.Equal(t, "Ivanova Maria", detail.Data.Detail.Title)

	closed := f.page(t, http.MethodPost, "/console/teachers/detail/close", url.Values{})
	assert.Nil(t, closed.Data.Detail)

	stats := f.page(t, http.MethodGet, "/console/views/statistics", nil)
	assert.Equal(t, "statistics", stats.Data.ActiveView)
	assert.Nil(t, stats.Data.Table)
	require.NotNil(t, stats.Data.Statistics)
	assert.Equal(t, 1, stats.Data.Statistics.Total)

	rec := f.do(http.MethodGet, "/console/views/reports", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterFiltersDriveTeacherQuery(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.page(t, http.MethodGet, "/", nil)

	page := f.page(t, http.MethodPost, "/console/filters/search", url.Values{"search": {"zzz"}})
	require.NotNil(t, page.Data.Table)
	assert.True(t, page.Data.Table.Empty)
	assert.Equal(t, "Total teachers: 0", page.Data.Count)

	reset := f.page(t, http.MethodPost, "/console/filters/reset", url.Values{})
	assert.Equal(t, "", reset.Data.Filters.Search)
	assert.Equal(t, "Total teachers: 1", reset.Data.Count)

	requests := f.fake.Requests()
	assert.Equal(t, "search=zzz", requests[len(requests)-2].RawQuery)
	assert.Equal(t, "", requests[len(requests)-1].RawQuery)
}

func TestRouterHTMLFlow(t *testing.T) {
	f := newRouterFixture(t, nil)

	rec := f.do(http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Total teachers: 1")
	assert.Contains(t, rec.Body.String(), "Ivanova Maria")

	rec = f.do(http.MethodPost, "/console/filters/search", url.Values{"search": {"Iv"}}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRouterExportsCurrentTable(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.page(t, http.MethodGet, "/", nil)

	rec := f.do(http.MethodGet, "/console/export/teachers.csv", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"teachers_")
	assert.Contains(t, rec.Body.String(), "Ivanova Maria")

	rec = f.do(http.MethodGet, "/console/export/teachers.xlsx", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterEndSession(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.page(t, http.MethodGet, "/", nil)
	require.Equal(t, 1, f.store.Len())

	rec := f.do(http.MethodPost, "/console/session/end", nil, false)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.store.Len())
	require.NotNil(t, f.cookie)
	assert.Equal(t, "", f.cookie.Value)

	f.cookie = nil
	rec = f.do(http.MethodPost, "/console/session/end", nil, false)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouterOpsEndpoints(t *testing.T) {
	f := newRouterFixture(t, map[string]ReadinessCheck{
		"directory": func(context.Context) error { return errors.New("connection refused") },
	})

	rec := f.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/ready", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
	assert.Nil(t, f.cookie)

	f.page(t, http.MethodGet, "/", nil)
	rec = f.do(http.MethodGet, "/metrics", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console_sessions_active 1")
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
