package dto

// PageView is the declarative tree of the whole console page. It is derived
// purely from console state and carries no behaviour.
type PageView struct {
	ActiveView    string             `json:"active_view"`
	Nav           []NavItemView      `json:"nav"`
	Filters       FiltersView        `json:"filters"`
	Count         string             `json:"count"`
	Table         *TeachersTableView `json:"table,omitempty"`
	Statistics    *StatisticsView    `json:"statistics,omitempty"`
	Form          *TeacherFormView   `json:"form,omitempty"`
	Detail        *DetailView        `json:"detail,omitempty"`
	Confirm       *ConfirmView       `json:"confirm,omitempty"`
	Notifications []NotificationView `json:"notifications"`
	ExportsOn     bool               `json:"exports_enabled"`
}

// NavItemView is one navigation control.
type NavItemView struct {
	View   string `json:"view"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// FiltersView holds the current filter control values.
type FiltersView struct {
	Search            string       `json:"search"`
	Department        string       `json:"department"`
	DepartmentOptions []OptionView `json:"department_options"`
}

// OptionView is one select option.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// TeachersTableView is the list view body. When Empty is set Rows is empty and
// Message holds the single informational row.
type TeachersTableView struct {
	Rows    []TeacherRowView `json:"rows"`
	Empty   bool             `json:"empty"`
	Message string           `json:"message,omitempty"`
}

// TeacherRowView is one table row; optional columns carry the em-dash placeholder.
type TeacherRowView struct {
	ID         int64        `json:"id"`
	FullName   string       `json:"full_name"`
	Position   string       `json:"position"`
	Department string       `json:"department"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Degree     string       `json:"degree"`
	Actions    []ActionView `json:"actions"`
}

// ActionView is a row-scoped trigger.
type ActionView struct {
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	TeacherID int64  `json:"teacher_id"`
}

// StatisticsView is the chart view body.
type StatisticsView struct {
	Total        int       `json:"total"`
	ByDepartment []BarView `json:"by_department"`
	ByPosition   []BarView `json:"by_position"`
}

// BarView is one bar of a relative bar chart; Width is a percentage in [0, 100].
type BarView struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Width float64 `json:"width"`
}

// TeacherFormView is the create/edit modal.
type TeacherFormView struct {
	Title             string           `json:"title"`
	EditingID         *int64           `json:"editing_id,omitempty"`
	Fields            TeacherFormField `json:"fields"`
	DepartmentOptions []OptionView     `json:"department_options"`
}

// TeacherFormField holds raw control values; absent optionals are empty strings.
type TeacherFormField struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Patronymic     string `json:"patronymic"`
	DepartmentID   string `json:"department_id"`
	Position       string `json:"position"`
	AcademicDegree string `json:"academic_degree"`
	AcademicTitle  string `json:"academic_title"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	HireDate       string `json:"hire_date"`
}

// DetailView is the read-only profile modal.
type DetailView struct {
	TeacherID int64               `json:"teacher_id"`
	Title     string              `json:"title"`
	Fields    []DetailFieldView   `json:"fields"`
	Sections  []DetailSectionView `json:"sections"`
}

// DetailFieldView is a label/value pair of the profile.
type DetailFieldView struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DetailSectionView groups sub-records; only non-empty sections are emitted.
type DetailSectionView struct {
	Kind  string           `json:"kind"`
	Title string           `json:"title"`
	Items []DetailItemView `json:"items"`
}

// DetailItemView is one sub-record line.
type DetailItemView struct {
	Title     string `json:"title"`
	Secondary string `json:"secondary"`
}

// ConfirmView asks the user to confirm a destructive action.
type ConfirmView struct {
	TeacherID int64  `json:"teacher_id"`
	Message   string `json:"message"`
}

// NotificationView is a visible toast.
type NotificationView struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
