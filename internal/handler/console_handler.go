package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/staff-directory-console/internal/dto"
	"github.com/noah-isme/staff-directory-console/internal/middleware"
	"github.com/noah-isme/staff-directory-console/internal/models"
	"github.com/noah-isme/staff-directory-console/internal/service"
	appErrors "github.com/noah-isme/staff-directory-console/pkg/errors"
	"github.com/noah-isme/staff-directory-console/pkg/response"
)

const pageTemplate = "console.html"

type consoleService interface {
	Page(ctx context.Context, sessionID string) (dto.PageView, error)
	SwitchView(ctx context.Context, sessionID, control string) (*models.ConsoleState, error)
	SetSearch(ctx context.Context, sessionID, text string) (*models.ConsoleState, error)
	SetDepartmentFilter(ctx context.Context, sessionID, department string) (*models.ConsoleState, error)
	ResetFilters(ctx context.Context, sessionID string) (*models.ConsoleState, error)
	OpenCreate(ctx context.Context, sessionID string) (*models.ConsoleState, error)
	EditTeacher(ctx context.Context, sessionID string, id int64) (*models.ConsoleState, error)
	ViewTeacher(ctx context.Context, sessionID string, id int64) (*models.ConsoleState, error)
	CloseDetail(ctx context.Context, sessionID string) (*models.ConsoleState, error)
	SubmitForm(ctx context.Context, sessionID string, values models.TeacherForm) (*models.ConsoleState, error)
	CloseForm(ctx context.Context, sessionID string) (*models.ConsoleState, error)
	RequestDelete(ctx context.Context, sessionID string, id int64) (*models.ConsoleState, error)
	ConfirmDelete(ctx context.Context, sessionID string, accepted bool) (*models.ConsoleState, error)
	EndSession(ctx context.Context, sessionID string) error
}

type exportService interface {
	Teachers(ctx context.Context, sessionID, format string) (*service.ExportFile, error)
}

// ConsoleHandler binds browser interactions to console operations. Every
// action answers with the refreshed page: a JSON envelope when the client asks
// for JSON, otherwise a redirect back to the page (HTML form posts).
type ConsoleHandler struct {
	console       consoleService
	exports       exportService
	cookie        middleware.SessionCookie
	sequenceGuard bool
}

// NewConsoleHandler constructs a ConsoleHandler.
func NewConsoleHandler(console consoleService, exports exportService, cookie middleware.SessionCookie, sequenceGuard bool) *ConsoleHandler {
	return &ConsoleHandler{
		console:       console,
		exports:       exports,
		cookie:        cookie,
		sequenceGuard: sequenceGuard,
	}
}

// Page godoc
// @Summary Render the console page
// @Description Starts a session on first visit. Returns HTML unless JSON is requested.
// @Tags Console
// @Produce html,json
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Router / [get]
func (h *ConsoleHandler) Page(c *gin.Context) {
	page, err := h.console.Page(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if response.WantsJSON(c) {
		response.JSON(c, http.StatusOK, page, h.meta(c))
		return
	}
	response.HTML(c, http.StatusOK, pageTemplate, page)
}

// SwitchView godoc
// @Summary Switch the active view
// @Tags Console
// @Produce json
// @Param view path string true "View name (list, statistics)"
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Failure 404 {object} response.Envelope
// @Router /console/views/{view} [get]
func (h *ConsoleHandler) SwitchView(c *gin.Context) {
	_, err := h.console.SwitchView(c.Request.Context(), middleware.SessionID(c), c.Param("view"))
	h.respond(c, err)
}

// SetSearch godoc
// @Summary Set the search filter and reload teachers
// @Tags Console
// @Accept x-www-form-urlencoded
// @Produce json
// @Param search formData string false "Free-text search"
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Router /console/filters/search [post]
func (h *ConsoleHandler) SetSearch(c *gin.Context) {
	_, err := h.console.SetSearch(c.Request.Context(), middleware.SessionID(c), formOrQuery(c, "search"))
	h.respond(c, err)
}

// SetDepartment godoc
// @Summary Set the department filter and reload teachers
// @Tags Console
// @Accept x-www-form-urlencoded
// @Produce json
// @Param department formData string false "Department id, empty for all"
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Router /console/filters/department [post]
func (h *ConsoleHandler) SetDepartment(c *gin.Context) {
	department := strings.TrimSpace(formOrQuery(c, "department"))
	if department != "" {
		if _, err := strconv.ParseInt(department, 10, 64); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid department id"))
			return
		}
	}
	_, err := h.console.SetDepartmentFilter(c.Request.Context(), middleware.SessionID(c), department)
	h.respond(c, err)
}

// ResetFilters godoc
// @Summary Clear both filters and reload teachers
// @Tags Console
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Router /console/filters/reset [post]
func (h *ConsoleHandler) ResetFilters(c *gin.Context) {
	_, err := h.console.ResetFilters(c.Request.Context(), middleware.SessionID(c))
	h.respond(c, err)
}

// OpenCreate godoc
// @Summary Open an empty teacher form
// @Tags Console
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Router /console/teachers/new [post]
func (h *ConsoleHandler) OpenCreate(c *gin.Context) {
	_, err := h.console.OpenCreate(c.Request.Context(), middleware.SessionID(c))
	h.respond(c, err)
}

// ViewTeacher godoc
// @Summary Open the teacher profile
// @Tags Console
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Failure 400 {object} response.Envelope
// @Router /console/teachers/{id} [get]
func (h *ConsoleHandler) ViewTeacher(c *gin.Context) {
	id, ok := teacherID(c)
	if !ok {
		return
	}
	_, err := h.console.ViewTeacher(c.Request.Context(), middleware.SessionID(c), id)
	h.respond(c, err)
}

// CloseDetail godoc
// @Summary Close the teacher profile
// @Tags Console
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Router /console/teachers/detail/close [post]
func (h *ConsoleHandler) CloseDetail(c *gin.Context) {
	_, err := h.console.CloseDetail(c.Request.Context(), middleware.SessionID(c))
	h.respond(c, err)
}

// EditTeacher godoc
// @Summary Open the teacher form for an existing record
// @Tags Console
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Failure 400 {object} response.Envelope
// @Router /console/teachers/{id}/edit [get]
func (h *ConsoleHandler) EditTeacher(c *gin.Context) {
	id, ok := teacherID(c)
	if !ok {
		return
	}
	_, err := h.console.EditTeacher(c.Request.Context(), middleware.SessionID(c), id)
	h.respond(c, err)
}

// SubmitForm godoc
// @Summary Submit the teacher form
// @Description Creates a teacher, or updates the one being edited.
// @Tags Console
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param payload body models.TeacherForm true "Form values"
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Router /console/teachers/form [post]
func (h *ConsoleHandler) SubmitForm(c *gin.Context) {
	var values models.TeacherForm
	if err := c.ShouldBind(&values); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid form payload"))
		return
	}
	_, err := h.console.SubmitForm(c.Request.Context(), middleware.SessionID(c), values)
	h.respond(c, err)
}

// CloseForm godoc
// @Summary Close the teacher form
// @Tags Console
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Router /console/teachers/form/close [post]
func (h *ConsoleHandler) CloseForm(c *gin.Context) {
	_, err := h.console.CloseForm(c.Request.Context(), middleware.SessionID(c))
	h.respond(c, err)
}

// RequestDelete godoc
// @Summary Ask for delete confirmation
// @Tags Console
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Router /console/teachers/{id}/delete [post]
func (h *ConsoleHandler) RequestDelete(c *gin.Context) {
	id, ok := teacherID(c)
	if !ok {
		return
	}
	_, err := h.console.RequestDelete(c.Request.Context(), middleware.SessionID(c), id)
	h.respond(c, err)
}

// ConfirmDelete godoc
// @Summary Accept or decline the pending delete
// @Tags Console
// @Accept x-www-form-urlencoded
// @Produce json
// @Param confirmed formData bool true "true to delete, false to cancel"
// @Success 200 {object} response.Envelope{data=dto.PageView}
// @Failure 400 {object} response.Envelope
// @Router /console/teachers/delete/confirm [post]
func (h *ConsoleHandler) ConfirmDelete(c *gin.Context) {
	accepted, err := strconv.ParseBool(formOrQuery(c, "confirmed"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "confirmed must be true or false"))
		return
	}
	_, err = h.console.ConfirmDelete(c.Request.Context(), middleware.SessionID(c), accepted)
	h.respond(c, err)
}

// Export godoc
// @Summary Download the current teacher table
// @Tags Console
// @Produce text/csv,application/pdf
// @Param format path string true "csv or pdf"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /console/export/teachers.{format} [get]
func (h *ConsoleHandler) Export(c *gin.Context) {
	file := c.Param("file")
	format, found := strings.CutPrefix(file, "teachers.")
	if !found {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export not found"))
		return
	}
	out, err := h.exports.Teachers(c.Request.Context(), middleware.SessionID(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, out.Filename, out.ContentType, out.Data)
}

// EndSession godoc
// @Summary End the console session
// @Tags Console
// @Success 204
// @Router /console/session/end [post]
func (h *ConsoleHandler) EndSession(c *gin.Context) {
	if sessionID := middleware.SessionID(c); sessionID != "" {
		if err := h.console.EndSession(c.Request.Context(), sessionID); err != nil {
			response.Error(c, err)
			return
		}
	}
	middleware.ClearSessionCookie(c, h.cookie)
	response.NoContent(c)
}

func (h *ConsoleHandler) respond(c *gin.Context, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if !response.WantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	page, err := h.console.Page(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page, h.meta(c))
}

func (h *ConsoleHandler) meta(c *gin.Context) map[string]interface{} {
	middleware.SetMeta(c, middleware.MetaSequenceGuard, h.sequenceGuard)
	return middleware.ExtractMeta(c)
}

func teacherID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid teacher id"))
		return 0, false
	}
	return id, true
}

func formOrQuery(c *gin.Context, key string) string {
	if value, ok := c.GetPostForm(key); ok {
		return value
	}
	return c.Query(key)
}
