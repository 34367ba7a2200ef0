package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/staff-directory-console/internal/dto"
	"github.com/noah-isme/staff-directory-console/internal/models"
)

// Placeholder is shown in display views for absent optional values. It never
// appears in form controls.
const Placeholder = "—"

const (
	emptyTableMessage = "No teachers found"
	confirmDeleteText = "Are you sure you want to delete this teacher?"
)

var viewLabels = map[models.ViewName]string{
	models.ViewList:       "Teachers",
	models.ViewStatistics: "Statistics",
}

// RenderPage projects the whole console state into a page tree. Expired
// notifications are left out.
func RenderPage(state *models.ConsoleState, now time.Time, exportsOn bool) dto.PageView {
	page := dto.PageView{
		ActiveView: string(state.ActiveView),
		Filters: dto.FiltersView{
			Search:            state.Filter.Search,
			Department:        state.Filter.Department,
			DepartmentOptions: RenderOptions(state.FilterDepartmentOptions, state.Filter.Department),
		},
		Count:         TeachersCount(state.Teachers),
		Notifications: RenderNotifications(state.Notifications, now),
		ExportsOn:     exportsOn,
	}
	for _, v := range models.Views {
		page.Nav = append(page.Nav, dto.NavItemView{View: string(v), Label: viewLabels[v], Active: v == state.ActiveView})
	}

	switch state.ActiveView {
	case models.ViewStatistics:
		stats := RenderStatistics(state.Statistics)
		page.Statistics = &stats
	default:
		table := RenderTeachersTable(state.Teachers)
		page.Table = &table
	}

	page.Form = RenderForm(state.Form, state.FormDepartmentOptions)
	if state.Detail != nil {
		detail := RenderDetail(*state.Detail)
		page.Detail = &detail
	}
	if state.PendingDeleteID != nil {
		page.Confirm = &dto.ConfirmView{TeacherID: *state.PendingDeleteID, Message: confirmDeleteText}
	}
	return page
}

// RenderTeachersTable projects the cached teachers into table rows.
func RenderTeachersTable(teachers []models.TeacherSummary) dto.TeachersTableView {
	if len(teachers) == 0 {
		return dto.TeachersTableView{Rows: []dto.TeacherRowView{}, Empty: true, Message: emptyTableMessage}
	}
	rows := make([]dto.TeacherRowView, 0, len(teachers))
	for _, t := range teachers {
		rows = append(rows, dto.TeacherRowView{
			ID:         t.ID,
			FullName:   FullName(t.LastName, t.FirstName, t.Patronymic),
			Position:   t.Position,
			Department: t.Department,
			Email:      orPlaceholder(t.Email),
			Phone:      orPlaceholder(t.Phone),
			Degree:     orPlaceholder(t.AcademicDegree),
			Actions: []dto.ActionView{
				{Kind: "view", Label: "View", TeacherID: t.ID},
				{Kind: "edit", Label: "Edit", TeacherID: t.ID},
				{Kind: "delete", Label: "Delete", TeacherID: t.ID},
			},
		})
	}
	return dto.TeachersTableView{Rows: rows}
}

// FullName joins last, first and patronymic with single spaces, skipping
// empty parts.
func FullName(last, first, patronymic string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{last, first, patronymic} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// TeachersCount renders the count banner.
func TeachersCount(teachers []models.TeacherSummary) string {
	return fmt.Sprintf("Total teachers: %d", len(teachers))
}

// RenderStatistics turns a snapshot into two relative bar charts.
func RenderStatistics(stats *models.Statistics) dto.StatisticsView {
	if stats == nil {
		return dto.StatisticsView{ByDepartment: []dto.BarView{}, ByPosition: []dto.BarView{}}
	}
	deptLabels := make([]string, len(stats.ByDepartment))
	deptCounts := make([]int, len(stats.ByDepartment))
	for i, d := range stats.ByDepartment {
		deptLabels[i], deptCounts[i] = d.Department, d.Count
	}
	posLabels := make([]string, len(stats.ByPosition))
	posCounts := make([]int, len(stats.ByPosition))
	for i, p := range stats.ByPosition {
		posLabels[i], posCounts[i] = p.Position, p.Count
	}
	return dto.StatisticsView{
		Total:        stats.TotalTeachers,
		ByDepartment: barChart(deptLabels, deptCounts),
		ByPosition:   barChart(posLabels, posCounts),
	}
}

// barChart scales every count against the largest one (at least 1).
func barChart(labels []string, counts []int) []dto.BarView {
	denominator := 1
	for _, c := range counts {
		if c > denominator {
			denominator = c
		}
	}
	bars := make([]dto.BarView, 0, len(counts))
	for i, c := range counts {
		width := float64(c) / float64(denominator) * 100
		if width < 0 {
			width = 0
		}
		bars = append(bars, dto.BarView{Label: labels[i], Count: c, Width: width})
	}
	return bars
}

// RenderDetail composes the read-only profile.
func RenderDetail(t models.TeacherDetail) dto.DetailView {
	view := dto.DetailView{
		TeacherID: t.ID,
		Title:     FullName(t.LastName, t.FirstName, t.Patronymic),
		Fields: []dto.DetailFieldView{
			{Label: "Position", Value: t.Position},
			{Label: "Department", Value: t.Department},
			{Label: "Email", Value: orPlaceholder(t.Email)},
			{Label: "Phone", Value: orPlaceholder(t.Phone)},
			{Label: "Academic degree", Value: orPlaceholder(t.AcademicDegree)},
			{Label: "Academic title", Value: orPlaceholder(t.AcademicTitle)},
			{Label: "Hire date", Value: orPlaceholder(t.HireDate)},
		},
		Sections: []dto.DetailSectionView{},
	}

	if len(t.Publications) > 0 {
		items := make([]dto.DetailItemView, 0, len(t.Publications))
		for _, p := range t.Publications {
			items = append(items, dto.DetailItemView{Title: p.Title, Secondary: secondaryLine(p.Journal, p.PublicationDate)})
		}
		view.Sections = append(view.Sections, dto.DetailSectionView{Kind: "publications", Title: "Publications", Items: items})
	}
	if len(t.ProfessionalDevelopment) > 0 {
		items := make([]dto.DetailItemView, 0, len(t.ProfessionalDevelopment))
		for _, pd := range t.ProfessionalDevelopment {
			items = append(items, dto.DetailItemView{Title: pd.CourseName, Secondary: pd.CompletionDate})
		}
		view.Sections = append(view.Sections, dto.DetailSectionView{Kind: "professional_development", Title: "Professional development", Items: items})
	}
	if len(t.Awards) > 0 {
		items := make([]dto.DetailItemView, 0, len(t.Awards))
		for _, a := range t.Awards {
			items = append(items, dto.DetailItemView{Title: a.AwardName, Secondary: a.AwardDate})
		}
		view.Sections = append(view.Sections, dto.DetailSectionView{Kind: "awards", Title: "Awards", Items: items})
	}
	return view
}

// secondaryLine renders "label (date)", dropping whichever part is empty.
func secondaryLine(label, date string) string {
	label, date = strings.TrimSpace(label), strings.TrimSpace(date)
	switch {
	case label == "" && date == "":
		return ""
	case date == "":
		return label
	case label == "":
		return "(" + date + ")"
	default:
		return label + " (" + date + ")"
	}
}

// RenderForm returns the modal view, or nil when the form is closed.
func RenderForm(form models.FormState, options []models.SelectOption) *dto.TeacherFormView {
	if !form.Open {
		return nil
	}
	v := form.Values
	view := &dto.TeacherFormView{
		Title: form.Title,
		Fields: dto.TeacherFormField{
			FirstName:      v.FirstName,
			LastName:       v.LastName,
			Patronymic:     v.Patronymic,
			DepartmentID:   v.DepartmentID,
			Position:       v.Position,
			AcademicDegree: v.AcademicDegree,
			AcademicTitle:  v.AcademicTitle,
			Email:          v.Email,
			Phone:          v.Phone,
			HireDate:       v.HireDate,
		},
		DepartmentOptions: RenderOptions(options, v.DepartmentID),
	}
	if form.EditingID != nil {
		id := *form.EditingID
		view.EditingID = &id
	}
	return view
}

// FormFromDetail fills form controls 1:1 from a fetched record. Absent
// optionals become empty strings.
func FormFromDetail(t models.TeacherDetail) models.TeacherForm {
	deptID := ""
	if t.DepartmentID != 0 {
		deptID = strconv.FormatInt(t.DepartmentID, 10)
	}
	return models.TeacherForm{
		FirstName:      t.FirstName,
		LastName:       t.LastName,
		Patronymic:     t.Patronymic,
		DepartmentID:   deptID,
		Position:       t.Position,
		AcademicDegree: t.AcademicDegree,
		AcademicTitle:  t.AcademicTitle,
		Email:          t.Email,
		Phone:          t.Phone,
		HireDate:       t.HireDate,
	}
}

// RenderOptions marks the option whose value equals selected.
func RenderOptions(options []models.SelectOption, selected string) []dto.OptionView {
	out := make([]dto.OptionView, 0, len(options))
	for _, o := range options {
		out = append(out, dto.OptionView{Value: o.Value, Label: o.Label, Selected: o.Value == selected})
	}
	return out
}

// RenderNotifications keeps toasts that have not expired at now, oldest first.
func RenderNotifications(notifications []models.Notification, now time.Time) []dto.NotificationView {
	out := make([]dto.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		if !now.Before(n.ExpiresAt) {
			continue
		}
		out = append(out, dto.NotificationView{ID: n.ID, Kind: string(n.Kind), Message: n.Message})
	}
	return out
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	return value
}
