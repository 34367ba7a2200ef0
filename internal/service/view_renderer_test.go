package service

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/staff-directory-console/internal/dto"
	"github.com/noah-isme/staff-directory-console/internal/models"
)

func sampleTeachers() []models.TeacherSummary {
	return []models.TeacherSummary{
		{ID: 1, FirstName: "Maria", LastName: "Ivanova", Patronymic: "Petrovna", Position: "Professor", Department: "Mathematics", Email: "m.ivanova@univ.test", Phone: "+7 900 000 00 01", AcademicDegree: "Doctor of Sciences"},
		{ID: 2, FirstName: "Ivan", LastName: "Petrov", Position: "Lecturer", Department: "Physics"},
	}
}

func TestRenderTeachersTablePlaceholders(t *testing.T) {
	table := RenderTeachersTable(sampleTeachers())

	require.False(t, table.Empty)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Ivanova Maria Petrovna", table.Rows[0].FullName)
	assert.Equal(t, "m.ivanova@univ.test", table.Rows[0].Email)

	row := table.Rows[1]
	assert.Equal(t, "Petrov Ivan", row.FullName)
	assert.Equal(t, Placeholder, row.Email)
	assert.Equal(t, Placeholder, row.Phone)
	assert.Equal(t, Placeholder, row.Degree)
	require.Len(t, row.Actions, 3)
	for _, action := range row.Actions {
		assert.Equal(t, int64(2), action.TeacherID)
	}
}

func TestRenderTeachersTableEmpty(t *testing.T) {
	table := RenderTeachersTable(nil)

	assert.True(t, table.Empty)
	assert.Empty(t, table.Rows)
	assert.Equal(t, "No teachers found", table.Message)
	assert.Equal(t, "Total teachers: 0", TeachersCount(nil))
}

func TestTeachersCount(t *testing.T) {
	assert.Equal(t, "Total teachers: 2", TeachersCount(sampleTeachers()))
}

func TestFullNameSkipsMissingPatronymic(t *testing.T) {
	assert.Equal(t, "Petrov Ivan", FullName("Petrov", "Ivan", ""))
	assert.Equal(t, "Petrov Ivan Sergeevich", FullName("Petrov", "Ivan", "Sergeevich"))
	assert.Equal(t, "Petrov Ivan", FullName("Petrov", "Ivan", "   "))
}

func TestRenderStatisticsWidths(t *testing.T) {
	view := RenderStatistics(&models.Statistics{
		TotalTeachers: 6,
		ByDepartment: []models.DepartmentCount{
			{Department: "Mathematics", Count: 4},
			{Department: "Physics", Count: 2},
			{Department: "Chemistry", Count: 0},
		},
		ByPosition: []models.PositionCount{{Position: "Lecturer", Count: 6}},
	})

	assert.Equal(t, 6, view.Total)
	require.Len(t, view.ByDepartment, 3)
	assert.InDelta(t, 100, view.ByDepartment[0].Width, 0.001)
	assert.InDelta(t, 50, view.ByDepartment[1].Width, 0.001)
	assert.InDelta(t, 0, view.ByDepartment[2].Width, 0.001)
	assert.Equal(t, "Chemistry", view.ByDepartment[2].Label)
	require.Len(t, view.ByPosition, 1)
	assert.InDelta(t, 100, view.ByPosition[0].Width, 0.001)
}

func TestRenderStatisticsAllZeroAndEmpty(t *testing.T) {
	view := RenderStatistics(&models.Statistics{
		ByDepartment: []models.DepartmentCount{{Department: "Mathematics", Count: 0}},
	})
	require.Len(t, view.ByDepartment, 1)
	assert.Equal(t, 0.0, view.ByDepartment[0].Width)
	assert.Empty(t, view.ByPosition)

	assert.Empty(t, RenderStatistics(nil).ByDepartment)
}

func TestRenderStatisticsWidthsBounded(t *testing.T) {
	counts := []int{7, 3, 12, 1, 0, 12}
	labels := make([]string, len(counts))
	bars := barChart(labels, counts)
	maxSeen := 0.0
	for _, bar := range bars {
		assert.GreaterOrEqual(t, bar.Width, 0.0)
		assert.LessOrEqual(t, bar.Width, 100.0)
		if bar.Width > maxSeen {
			maxSeen = bar.Width
		}
	}
	assert.Equal(t, 100.0, maxSeen)
}

func TestRenderDetailSections(t *testing.T) {
	detail := models.TeacherDetail{
		TeacherSummary: models.TeacherSummary{ID: 5, FirstName: "Maria", LastName: "Ivanova", Position: "Professor", Department: "Mathematics", HireDate: "2015-09-01"},
		Publications: []models.Publication{
			{Title: "Graph Colouring", Journal: "J. Comb.", PublicationDate: "2019-03-01"},
			{Title: "Untitled Notes"},
		},
		Awards: []models.Award{{AwardName: "Honoured Educator", AwardDate: "2021-05-24"}},
	}

	view := RenderDetail(detail)

	assert.Equal(t, "Ivanova Maria", view.Title)
	fields := map[string]string{}
	for _, f := range view.Fields {
		fields[f.Label] = f.Value
	}
	assert.Equal(t, Placeholder, fields["Email"])
	assert.Equal(t, Placeholder, fields["Academic title"])
	assert.Equal(t, "2015-09-01", fields["Hire date"])

	require.Len(t, view.Sections, 2)
	assert.Equal(t, "publications", view.Sections[0].Kind)
	assert.Equal(t, "J. Comb. (2019-03-01)", view.Sections[0].Items[0].Secondary)
	assert.Equal(t, "", view.Sections[0].Items[1].Secondary)
	assert.Equal(t, "awards", view.Sections[1].Kind)
	assert.Equal(t, "2021-05-24", view.Sections[1].Items[0].Secondary)
}

func TestRenderDetailWithoutSubRecords(t *testing.T) {
	view := RenderDetail(models.TeacherDetail{TeacherSummary: models.TeacherSummary{ID: 1, FirstName: "Ivan", LastName: "Petrov"}})
	assert.Empty(t, view.Sections)
}

func TestRenderDetailProfessionalDevelopment(t *testing.T) {
	view := RenderDetail(models.TeacherDetail{
		ProfessionalDevelopment: []models.ProfessionalDevelopment{
			{CourseName: "Modern Pedagogy", Certificate: "No. 1234", CompletionDate: "2022-06-30"},
			{CourseName: "Online Teaching", CompletionDate: "2020-04-01"},
		},
	})
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "2022-06-30", view.Sections[0].Items[0].Secondary)
	assert.Equal(t, "2020-04-01", view.Sections[0].Items[1].Secondary)
}

func TestRenderFormUsesEmptyStrings(t *testing.T) {
	detail := models.TeacherDetail{
		TeacherSummary: models.TeacherSummary{ID: 9, FirstName: "Ivan", LastName: "Petrov", Position: "Lecturer"},
		DepartmentID:   3,
	}
	id := int64(9)
	form := models.FormState{Open: true, Title: "Edit teacher", EditingID: &id, Values: FormFromDetail(detail)}
	options := []models.SelectOption{{Value: "", Label: "Select department"}, {Value: "3", Label: "Physics"}}

	view := RenderForm(form, options)

	require.NotNil(t, view)
	assert.Equal(t, "", view.Fields.Email)
	assert.Equal(t, "", view.Fields.Patronymic)
	assert.Equal(t, "3", view.Fields.DepartmentID)
	assert.NotContains(t, []string{view.Fields.Email, view.Fields.Phone, view.Fields.HireDate}, Placeholder)
	require.NotNil(t, view.EditingID)
	assert.Equal(t, int64(9), *view.EditingID)
	assert.False(t, view.DepartmentOptions[0].Selected)
	assert.True(t, view.DepartmentOptions[1].Selected)

	assert.Nil(t, RenderForm(models.FormState{}, options))
}

func TestRenderNotificationsDropsExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	views := RenderNotifications([]models.Notification{
		{ID: "a", Kind: models.NotificationSuccess, Message: "Teacher added", ExpiresAt: now.Add(-time.Second)},
		{ID: "b", Kind: models.NotificationError, Message: "Failed to load teachers", ExpiresAt: now.Add(time.Second)},
		{ID: "c", Kind: models.NotificationError, Message: "Failed to load teachers", ExpiresAt: now.Add(2 * time.Second)},
	}, now)

	assert.Equal(t, []dto.NotificationView{
		{ID: "b", Kind: "error", Message: "Failed to load teachers"},
		{ID: "c", Kind: "error", Message: "Failed to load teachers"},
	}, views)
}

func samplePageState(now time.Time) *models.ConsoleState {
	state := models.NewConsoleState("session-1", now)
	state.Teachers = sampleTeachers()
	state.FilterDepartmentOptions = []models.SelectOption{{Value: "", Label: "All departments"}, {Value: "2", Label: "Mathematics"}}
	state.Filter = models.TeacherFilter{Search: "iv", Department: "2"}
	state.Statistics = &models.Statistics{TotalTeachers: 2, ByDepartment: []models.DepartmentCount{{Department: "Mathematics", Count: 1}}}
	pending := int64(2)
	state.PendingDeleteID = &pending
	state.Notifications = []models.Notification{{ID: "n1", Kind: models.NotificationInfo, Message: "hello", ExpiresAt: now.Add(time.Second)}}
	return state
}

func TestRenderPageListView(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	page := RenderPage(samplePageState(now), now, true)

	assert.Equal(t, "list", page.ActiveView)
	require.Len(t, page.Nav, 2)
	assert.True(t, page.Nav[0].Active)
	assert.False(t, page.Nav[1].Active)
	require.NotNil(t, page.Table)
	assert.Nil(t, page.Statistics)
	assert.Equal(t, "Total teachers: 2", page.Count)
	assert.Equal(t, "iv", page.Filters.Search)
	assert.True(t, page.Filters.DepartmentOptions[1].Selected)
	require.NotNil(t, page.Confirm)
	assert.Equal(t, int64(2), page.Confirm.TeacherID)
	assert.Nil(t, page.Form)
	assert.Nil(t, page.Detail)
	assert.Len(t, page.Notifications, 1)
	assert.True(t, page.ExportsOn)
}

func TestRenderPageStatisticsView(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	state := samplePageState(now)
	state.ActiveView = models.ViewStatistics

	page := RenderPage(state, now, false)

	assert.Nil(t, page.Table)
	require.NotNil(t, page.Statistics)
	assert.Equal(t, 2, page.Statistics.Total)
	assert.True(t, page.Nav[1].Active)
}

func TestRenderPageIsIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	state := samplePageState(now)
	state.Detail = &models.TeacherDetail{
		TeacherSummary: sampleTeachers()[0],
		Publications:   []models.Publication{{Title: "Graph Colouring"}},
	}
	state.Form = models.FormState{Open: true, Title: "Add teacher"}

	first := RenderPage(state, now, true)
	second := RenderPage(state, now, true)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("render not idempotent (-first +second):\n%s", diff)
	}
}
