package models

// Statistics is the aggregate snapshot computed by the directory service.
type Statistics struct {
	TotalTeachers int               `json:"total_teachers"`
	ByDepartment  []DepartmentCount `json:"by_department"`
	ByPosition    []PositionCount   `json:"by_position"`
}

// DepartmentCount is one row of the per-department breakdown.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// PositionCount is one row of the per-position breakdown.
type PositionCount struct {
	Position string `json:"position"`
	Count    int    `json:"count"`
}
