package models

import "time"

// ViewName identifies one of the console's top-level views.
type ViewName string

const (
	ViewList       ViewName = "list"
	ViewStatistics ViewName = "statistics"
)

// Views lists the navigable views in display order.
var Views = []ViewName{ViewList, ViewStatistics}

// ParseView resolves a navigation control identity into a view.
func ParseView(raw string) (ViewName, bool) {
	for _, v := range Views {
		if string(v) == raw {
			return v, true
		}
	}
	return "", false
}

// NotificationKind classifies a toast.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

// Notification is a transient toast that expires on its own.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Query kinds used for response sequencing.
const (
	QueryDepartments = "departments"
	QueryTeachers    = "teachers"
	QueryStatistics  = "statistics"
)

// TeacherForm mirrors the ten controls of the teacher form as the browser
// submits them. Validation tags reproduce native control constraints.
type TeacherForm struct {
	FirstName      string `form:"first_name" json:"first_name" validate:"required"`
	LastName       string `form:"last_name" json:"last_name" validate:"required"`
	Patronymic     string `form:"patronymic" json:"patronymic"`
	DepartmentID   string `form:"department_id" json:"department_id" validate:"required,department_id"`
	Position       string `form:"position" json:"position" validate:"required"`
	AcademicDegree string `form:"academic_degree" json:"academic_degree"`
	AcademicTitle  string `form:"academic_title" json:"academic_title"`
	Email          string `form:"email" json:"email" validate:"omitempty,email"`
	Phone          string `form:"phone" json:"phone"`
	HireDate       string `form:"hire_date" json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
}

// FormState is the single create-or-edit slot. EditingID is nil while
// creating and holds the target id while editing.
type FormState struct {
	Open      bool        `json:"open"`
	Title     string      `json:"title"`
	EditingID *int64      `json:"editing_id,omitempty"`
	Values    TeacherForm `json:"values"`
}

// ConsoleState is everything one console session knows. Collections are
// always replaced wholesale, never patched.
type ConsoleState struct {
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
	ActiveView ViewName  `json:"active_view"`

	Teachers                []TeacherSummary `json:"teachers"`
	Departments             []Department     `json:"departments"`
	FormDepartmentOptions   []SelectOption   `json:"form_department_options"`
	FilterDepartmentOptions []SelectOption   `json:"filter_department_options"`
	Filter                  TeacherFilter    `json:"filter"`
	Statistics              *Statistics      `json:"statistics,omitempty"`

	Form            FormState      `json:"form"`
	Detail          *TeacherDetail `json:"detail,omitempty"`
	PendingDeleteID *int64         `json:"pending_delete_id,omitempty"`

	Notifications []Notification   `json:"notifications"`
	Sequences     map[string]int64 `json:"sequences"`
}

// NewConsoleState returns the state of a freshly opened console.
func NewConsoleState(sessionID string, now time.Time) *ConsoleState {
	return &ConsoleState{
		SessionID:  sessionID,
		CreatedAt:  now,
		ActiveView: ViewList,
		Sequences:  map[string]int64{},
	}
}

// Clone returns a copy that shares no mutable slices or pointers with s.
func (s *ConsoleState) Clone() *ConsoleState {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Teachers = append([]TeacherSummary(nil), s.Teachers...)
	cp.Departments = append([]Department(nil), s.Departments...)
	cp.FormDepartmentOptions = append([]SelectOption(nil), s.FormDepartmentOptions...)
	cp.FilterDepartmentOptions = append([]SelectOption(nil), s.FilterDepartmentOptions...)
	cp.Notifications = append([]Notification(nil), s.Notifications...)
	if s.Statistics != nil {
		stats := *s.Statistics
		stats.ByDepartment = append([]DepartmentCount(nil), s.Statistics.ByDepartment...)
		stats.ByPosition = append([]PositionCount(nil), s.Statistics.ByPosition...)
		cp.Statistics = &stats
	}
	if s.Detail != nil {
		detail := *s.Detail
		detail.Publications = append([]Publication(nil), s.Detail.Publications...)
		detail.ProfessionalDevelopment = append([]ProfessionalDevelopment(nil), s.Detail.ProfessionalDevelopment...)
		detail.Awards = append([]Award(nil), s.Detail.Awards...)
		cp.Detail = &detail
	}
	if s.Form.EditingID != nil {
		id := *s.Form.EditingID
		cp.Form.EditingID = &id
	}
	if s.PendingDeleteID != nil {
		id := *s.PendingDeleteID
		cp.PendingDeleteID = &id
	}
	cp.Sequences = make(map[string]int64, len(s.Sequences))
	for k, v := range s.Sequences {
		cp.Sequences[k] = v
	}
	return &cp
}
