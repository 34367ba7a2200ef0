package models

// TeacherSummary is one row of the directory teacher list.
// Department is the display name supplied by the directory service.
type TeacherSummary struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Patronymic     string `json:"patronymic,omitempty"`
	Position       string `json:"position"`
	Department     string `json:"department"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	AcademicDegree string `json:"academic_degree,omitempty"`
	AcademicTitle  string `json:"academic_title,omitempty"`
	HireDate       string `json:"hire_date,omitempty"`
}

// TeacherDetail is the full teacher record including read-only sub-records.
type TeacherDetail struct {
	TeacherSummary
	DepartmentID            int64                     `json:"department_id"`
	Publications            []Publication             `json:"publications,omitempty"`
	ProfessionalDevelopment []ProfessionalDevelopment `json:"professional_development,omitempty"`
	Awards                  []Award                   `json:"awards,omitempty"`
}

// Publication is an immutable publication entry of a teacher.
type Publication struct {
	ID              int64  `json:"id,omitempty"`
	Title           string `json:"title"`
	Journal         string `json:"journal,omitempty"`
	PublicationDate string `json:"publication_date,omitempty"`
}

// ProfessionalDevelopment is a completed training course.
type ProfessionalDevelopment struct {
	ID             int64  `json:"id,omitempty"`
	CourseName     string `json:"course_name"`
	Certificate    string `json:"certificate,omitempty"`
	CompletionDate string `json:"completion_date,omitempty"`
}

// Award is an honour granted to a teacher.
type Award struct {
	ID        int64  `json:"id,omitempty"`
	AwardName string `json:"award_name"`
	AwardDate string `json:"award_date,omitempty"`
}

// TeacherFilter captures the list query. Empty fields are omitted from the request.
type TeacherFilter struct {
	Search     string `json:"search"`
	Department string `json:"department"`
}

// TeacherPayload is the flat body of create and update requests.
// All ten editable fields are always sent; blank optionals are empty strings.
type TeacherPayload struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Patronymic     string `json:"patronymic"`
	DepartmentID   int64  `json:"department_id"`
	Position       string `json:"position"`
	AcademicDegree string `json:"academic_degree"`
	AcademicTitle  string `json:"academic_title"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	HireDate       string `json:"hire_date"`
}
