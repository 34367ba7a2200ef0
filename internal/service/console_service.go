package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/staff-directory-console/internal/dto"
	"github.com/noah-isme/staff-directory-console/internal/models"
	appErrors "github.com/noah-isme/staff-directory-console/pkg/errors"
)

// Notification texts shown to the user.
const (
	MsgTeacherAdded      = "Teacher added"
	MsgTeacherUpdated    = "Teacher updated"
	MsgTeacherDeleted    = "Teacher deleted"
	MsgSaveFailed        = "Failed to save teacher"
	MsgDeleteFailed      = "Failed to delete teacher"
	MsgDepartmentsFailed = "Failed to load departments"
	MsgTeachersFailed    = "Failed to load teachers"
	MsgStatisticsFailed  = "Failed to load statistics"
	MsgDetailFailed      = "Failed to load teacher details"
	MsgEditFailed        = "Failed to load teacher data"
)

const (
	msgInvalidFieldsPrefix   = "Check the highlighted fields: "
	formTitleCreate          = "Add teacher"
	formTitleEdit            = "Edit teacher"
	formDepartmentSentinel   = "Select department"
	filterDepartmentSentinel = "All departments"
)

type directoryRepository interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	ListTeachers(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherSummary, error)
	GetTeacher(ctx context.Context, id int64) (*models.TeacherDetail, error)
	CreateTeacher(ctx context.Context, payload models.TeacherPayload) (int64, error)
	UpdateTeacher(ctx context.Context, id int64, payload models.TeacherPayload) error
	DeleteTeacher(ctx context.Context, id int64) error
	Statistics(ctx context.Context) (*models.Statistics, error)
}

type sessionStore interface {
	Create(ctx context.Context, state *models.ConsoleState) error
	Load(ctx context.Context, id string) (*models.ConsoleState, error)
	Update(ctx context.Context, id string, fn func(*models.ConsoleState) error) (*models.ConsoleState, error)
	Delete(ctx context.Context, id string) error
}

type consoleObserver interface {
	RecordNotification(kind string)
	RecordStaleResponse(query string)
	SessionStarted()
	SessionEnded()
}

// ConsoleConfig tunes console behaviour.
type ConsoleConfig struct {
	NotificationTTL time.Duration
	SequenceGuard   bool
	ExportsEnabled  bool
}

// ConsoleService drives one console session per browser: it owns the load
// pipeline, the form controller, the delete flow and notifications.
type ConsoleService struct {
	directory directoryRepository
	sessions  sessionStore
	validate  *validator.Validate
	observer  consoleObserver
	logger    *zap.Logger
	cfg       ConsoleConfig

	now   func() time.Time
	newID func() string
}

// NewConsoleService wires a console service.
func NewConsoleService(directory directoryRepository, sessions sessionStore, validate *validator.Validate, observer consoleObserver, cfg ConsoleConfig, logger *zap.Logger) *ConsoleService {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterTagNameFunc(formFieldName)
	_ = validate.RegisterValidation("department_id", validDepartmentID)
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NotificationTTL <= 0 {
		cfg.NotificationTTL = 3 * time.Second
	}
	return &ConsoleService{
		directory: directory,
		sessions:  sessions,
		validate:  validate,
		observer:  observer,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// StartSession creates a fresh session and runs the initial loads.
func (s *ConsoleService) StartSession(ctx context.Context) (*models.ConsoleState, error) {
	state := models.NewConsoleState(s.newID(), s.now().UTC())
	if err := s.sessions.Create(ctx, state); err != nil {
		return nil, err
	}
	if s.observer != nil {
		s.observer.SessionStarted()
	}
	s.logger.Info("console session started", zap.String("session_id", state.SessionID))
	return s.Initialize(ctx, state.SessionID)
}

// Initialize loads departments, teachers and statistics in that order.
func (s *ConsoleService) Initialize(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	if _, err := s.LoadDepartments(ctx, sessionID); err != nil {
		return nil, err
	}
	if _, err := s.LoadTeachers(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.LoadStatistics(ctx, sessionID)
}

// EndSession discards all state of the session.
func (s *ConsoleService) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if s.observer != nil {
		s.observer.SessionEnded()
	}
	s.logger.Info("console session ended", zap.String("session_id", sessionID))
	return nil
}

// State returns a snapshot of the session.
func (s *ConsoleService) State(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	return s.sessions.Load(ctx, sessionID)
}

// Page drops expired notifications and renders the page tree.
func (s *ConsoleService) Page(ctx context.Context, sessionID string) (dto.PageView, error) {
	now := s.now()
	state, err := s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		st.Notifications = pruneNotifications(st.Notifications, now)
		return nil
	})
	if err != nil {
		return dto.PageView{}, err
	}
	return RenderPage(state, now, s.cfg.ExportsEnabled), nil
}

// LoadDepartments refreshes departments and rebuilds both option sets.
func (s *ConsoleService) LoadDepartments(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	return s.load(ctx, sessionID, models.QueryDepartments, MsgDepartmentsFailed,
		func(ctx context.Context, _ *models.ConsoleState) (func(*models.ConsoleState), error) {
			departments, err := s.directory.ListDepartments(ctx)
			if err != nil {
				return nil, err
			}
			return func(st *models.ConsoleState) {
				st.Departments = departments
				st.FormDepartmentOptions = departmentOptions(departments, formDepartmentSentinel)
				st.FilterDepartmentOptions = departmentOptions(departments, filterDepartmentSentinel)
			}, nil
		})
}

// LoadTeachers refreshes the teacher cache using the filter values current at
// call time.
func (s *ConsoleService) LoadTeachers(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	return s.load(ctx, sessionID, models.QueryTeachers, MsgTeachersFailed,
		func(ctx context.Context, snapshot *models.ConsoleState) (func(*models.ConsoleState), error) {
			teachers, err := s.directory.ListTeachers(ctx, snapshot.Filter)
			if err != nil {
				return nil, err
			}
			return func(st *models.ConsoleState) {
				st.Teachers = teachers
			}, nil
		})
}

// LoadStatistics refreshes the statistics snapshot.
func (s *ConsoleService) LoadStatistics(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	return s.load(ctx, sessionID, models.QueryStatistics, MsgStatisticsFailed,
		func(ctx context.Context, _ *models.ConsoleState) (func(*models.ConsoleState), error) {
			stats, err := s.directory.Statistics(ctx)
			if err != nil {
				return nil, err
			}
			return func(st *models.ConsoleState) {
				st.Statistics = stats
			}, nil
		})
}

type fetchFunc func(ctx context.Context, snapshot *models.ConsoleState) (func(*models.ConsoleState), error)

// load issues a sequence number, fetches outside the session lock and applies
// the result. With the guard on, a response whose number is no longer the
// latest for its query is dropped.
func (s *ConsoleService) load(ctx context.Context, sessionID, query, failMsg string, fetch fetchFunc) (*models.ConsoleState, error) {
	var seq int64
	snapshot, err := s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		if st.Sequences == nil {
			st.Sequences = map[string]int64{}
		}
		st.Sequences[query]++
		seq = st.Sequences[query]
		return nil
	})
	if err != nil {
		return nil, err
	}

	apply, fetchErr := fetch(ctx, snapshot)

	var stale bool
	var latest int64
	state, err := s.update(ctx, sessionID, func(st *models.ConsoleState, fx *effects) error {
		latest = st.Sequences[query]
		stale = s.cfg.SequenceGuard && latest != seq
		switch {
		case stale:
		case fetchErr != nil:
			s.notify(st, fx, models.NotificationError, failMsg)
		default:
			apply(st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case stale:
		s.logger.Debug("stale directory response discarded",
			zap.String("session_id", sessionID),
			zap.String("query", query),
			zap.Int64("sequence", seq),
			zap.Int64("latest", latest),
			zap.Bool("failed", fetchErr != nil),
		)
		if s.observer != nil {
			s.observer.RecordStaleResponse(query)
		}
	case fetchErr != nil:
		s.logger.Warn("directory load failed",
			zap.String("session_id", sessionID),
			zap.String("query", query),
			zap.Error(fetchErr),
		)
	}
	return state, nil
}

// SetSearch stores the search text and reloads teachers.
func (s *ConsoleService) SetSearch(ctx context.Context, sessionID, text string) (*models.ConsoleState, error) {
	if _, err := s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		st.Filter.Search = text
		return nil
	}); err != nil {
		return nil, err
	}
	return s.LoadTeachers(ctx, sessionID)
}

// SetDepartmentFilter stores the department filter and reloads teachers.
func (s *ConsoleService) SetDepartmentFilter(ctx context.Context, sessionID, department string) (*models.ConsoleState, error) {
	if _, err := s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		st.Filter.Department = department
		return nil
	}); err != nil {
		return nil, err
	}
	return s.LoadTeachers(ctx, sessionID)
}

// ResetFilters clears both filters and reloads teachers.
func (s *ConsoleService) ResetFilters(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	if _, err := s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		st.Filter = models.TeacherFilter{}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.LoadTeachers(ctx, sessionID)
}

// SwitchView activates the view named by the navigation control. Entering the
// statistics view reloads statistics.
func (s *ConsoleService) SwitchView(ctx context.Context, sessionID, control string) (*models.ConsoleState, error) {
	view, ok := models.ParseView(control)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownView, fmt.Sprintf("unknown view %q", control))
	}
	state, err := s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		st.ActiveView = view
		return nil
	})
	if err != nil {
		return nil, err
	}
	if view == models.ViewStatistics {
		return s.LoadStatistics(ctx, sessionID)
	}
	return state, nil
}

// OpenCreate opens an empty form with no editing target.
func (s *ConsoleService) OpenCreate(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	return s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		st.Detail = nil
		st.Form = models.FormState{Open: true, Title: formTitleCreate}
		return nil
	})
}

// EditTeacher fetches the record and opens the form for it. On failure the
// slot and form stay as they were.
func (s *ConsoleService) EditTeacher(ctx context.Context, sessionID string, id int64) (*models.ConsoleState, error) {
	if _, err := s.sessions.Load(ctx, sessionID); err != nil {
		return nil, err
	}
	detail, fetchErr := s.directory.GetTeacher(ctx, id)
	if fetchErr != nil {
		s.logger.Warn("load teacher for edit failed", zap.String("session_id", sessionID), zap.Int64("teacher_id", id), zap.Error(fetchErr))
	}
	return s.update(ctx, sessionID, func(st *models.ConsoleState, fx *effects) error {
		if fetchErr != nil {
			s.notify(st, fx, models.NotificationError, MsgEditFailed)
			return nil
		}
		editing := id
		st.Detail = nil
		st.Form = models.FormState{
			Open:      true,
			Title:     formTitleEdit,
			EditingID: &editing,
			Values:    FormFromDetail(*detail),
		}
		return nil
	})
}

// ViewTeacher fetches the record and opens the read-only profile. The edit
// slot is not touched.
func (s *ConsoleService) ViewTeacher(ctx context.Context, sessionID string, id int64) (*models.ConsoleState, error) {
	if _, err := s.sessions.Load(ctx, sessionID); err != nil {
		return nil, err
	}
	detail, fetchErr := s.directory.GetTeacher(ctx, id)
	if fetchErr != nil {
		s.logger.Warn("load teacher detail failed", zap.String("session_id", sessionID), zap.Int64("teacher_id", id), zap.Error(fetchErr))
	}
	return s.update(ctx, sessionID, func(st *models.ConsoleState, fx *effects) error {
		if fetchErr != nil {
			s.notify(st, fx, models.NotificationError, MsgDetailFailed)
			return nil
		}
		st.Detail = detail
		return nil
	})
}

// CloseDetail closes the profile modal.
func (s *ConsoleService) CloseDetail(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	return s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		st.Detail = nil
		return nil
	})
}

// CloseForm closes the form, resets its fields and clears the slot.
func (s *ConsoleService) CloseForm(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	return s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		st.Form = models.FormState{}
		return nil
	})
}

// SubmitForm creates or updates depending on the edit slot. Values that fail
// the form constraints are never sent; the form stays open with them.
func (s *ConsoleService) SubmitForm(ctx context.Context, sessionID string, values models.TeacherForm) (*models.ConsoleState, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if invalid := s.invalidFields(values); len(invalid) > 0 {
		return s.update(ctx, sessionID, func(st *models.ConsoleState, fx *effects) error {
			keepFormOpen(st, values)
			s.notify(st, fx, models.NotificationError, msgInvalidFieldsPrefix+strings.Join(invalid, ", "))
			return nil
		})
	}

	payload := toPayload(values)
	var (
		saveErr error
		message string
		editing = state.Form.EditingID
	)
	if editing != nil {
		saveErr = s.directory.UpdateTeacher(ctx, *editing, payload)
		message = MsgTeacherUpdated
	} else {
		var newID int64
		newID, saveErr = s.directory.CreateTeacher(ctx, payload)
		message = MsgTeacherAdded
		if saveErr == nil {
			s.logger.Info("teacher created", zap.String("session_id", sessionID), zap.Int64("teacher_id", newID))
		}
	}

	if saveErr != nil {
		s.logger.Warn("save teacher failed", zap.String("session_id", sessionID), zap.Error(saveErr))
		return s.update(ctx, sessionID, func(st *models.ConsoleState, fx *effects) error {
			keepFormOpen(st, values)
			s.notify(st, fx, models.NotificationError, MsgSaveFailed)
			return nil
		})
	}

	if _, err := s.update(ctx, sessionID, func(st *models.ConsoleState, fx *effects) error {
		st.Form = models.FormState{}
		s.notify(st, fx, models.NotificationSuccess, message)
		return nil
	}); err != nil {
		return nil, err
	}
	return s.refreshAfterMutation(ctx, sessionID)
}

// RequestDelete asks for confirmation; nothing is sent yet.
func (s *ConsoleService) RequestDelete(ctx context.Context, sessionID string, id int64) (*models.ConsoleState, error) {
	return s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		pending := id
		st.Detail = nil
		st.PendingDeleteID = &pending
		return nil
	})
}

// ConfirmDelete resolves the pending confirmation. Declining sends nothing.
func (s *ConsoleService) ConfirmDelete(ctx context.Context, sessionID string, accepted bool) (*models.ConsoleState, error) {
	var pending *int64
	state, err := s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		pending = st.PendingDeleteID
		st.PendingDeleteID = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	if pending == nil || !accepted {
		return state, nil
	}

	id := *pending
	if err := s.directory.DeleteTeacher(ctx, id); err != nil {
		s.logger.Warn("delete teacher failed", zap.String("session_id", sessionID), zap.Int64("teacher_id", id), zap.Error(err))
		return s.update(ctx, sessionID, func(st *models.ConsoleState, fx *effects) error {
			s.notify(st, fx, models.NotificationError, MsgDeleteFailed)
			return nil
		})
	}

	s.logger.Info("teacher deleted", zap.String("session_id", sessionID), zap.Int64("teacher_id", id))
	if _, err := s.update(ctx, sessionID, func(st *models.ConsoleState, fx *effects) error {
		s.notify(st, fx, models.NotificationSuccess, MsgTeacherDeleted)
		return nil
	}); err != nil {
		return nil, err
	}
	return s.refreshAfterMutation(ctx, sessionID)
}

func (s *ConsoleService) refreshAfterMutation(ctx context.Context, sessionID string) (*models.ConsoleState, error) {
	if _, err := s.LoadTeachers(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.LoadStatistics(ctx, sessionID)
}

// effects collects what a state mutation wants reported once it commits.
// Stores may run the mutation more than once, so nothing is reported from
// inside it.
type effects struct {
	notifications []models.NotificationKind
}

// update runs fn through the session store and reports its effects only for
// the attempt that was committed.
func (s *ConsoleService) update(ctx context.Context, sessionID string, fn func(*models.ConsoleState, *effects) error) (*models.ConsoleState, error) {
	var fx effects
	state, err := s.sessions.Update(ctx, sessionID, func(st *models.ConsoleState) error {
		fx = effects{}
		return fn(st, &fx)
	})
	if err != nil {
		return nil, err
	}
	if s.observer != nil {
		for _, kind := range fx.notifications {
			s.observer.RecordNotification(string(kind))
		}
	}
	return state, nil
}

func (s *ConsoleService) notify(st *models.ConsoleState, fx *effects, kind models.NotificationKind, message string) {
	now := s.now()
	st.Notifications = append(pruneNotifications(st.Notifications, now), models.Notification{
		ID:        s.newID(),
		Kind:      kind,
		Message:   message,
		ExpiresAt: now.Add(s.cfg.NotificationTTL),
	})
	fx.notifications = append(fx.notifications, kind)
}

func (s *ConsoleService) invalidFields(values models.TeacherForm) []string {
	err := s.validate.Struct(values)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func keepFormOpen(st *models.ConsoleState, values models.TeacherForm) {
	st.Form.Open = true
	st.Form.Values = values
	if st.Form.Title == "" {
		st.Form.Title = formTitleCreate
		if st.Form.EditingID != nil {
			st.Form.Title = formTitleEdit
		}
	}
}

func pruneNotifications(notifications []models.Notification, now time.Time) []models.Notification {
	kept := notifications[:0:0]
	for _, n := range notifications {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	return kept
}

func departmentOptions(departments []models.Department, sentinel string) []models.SelectOption {
	options := make([]models.SelectOption, 0, len(departments)+1)
	options = append(options, models.SelectOption{Value: "", Label: sentinel})
	for _, d := range departments {
		options = append(options, models.SelectOption{Value: strconv.FormatInt(d.ID, 10), Label: d.Name})
	}
	return options
}

func toPayload(values models.TeacherForm) models.TeacherPayload {
	deptID, _ := strconv.ParseInt(strings.TrimSpace(values.DepartmentID), 10, 64)
	return models.TeacherPayload{
		FirstName:      values.FirstName,
		LastName:       values.LastName,
		Patronymic:     values.Patronymic,
		DepartmentID:   deptID,
		Position:       values.Position,
		AcademicDegree: values.AcademicDegree,
		AcademicTitle:  values.AcademicTitle,
		Email:          values.Email,
		Phone:          values.Phone,
		HireDate:       values.HireDate,
	}
}

// validDepartmentID accepts a positive id that fits the payload's int64.
func validDepartmentID(fl validator.FieldLevel) bool {
	id, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 64)
	return err == nil && id > 0
}

func formFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
