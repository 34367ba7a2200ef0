// Package directoryfake is an in-memory stand-in for the remote directory
// service used by tests. It honours the same REST contract: ordering,
// filtering and response shapes match the production service.
package directoryfake

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/staff-directory-console/internal/models"
)

// Request records one call received by the fake.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	ID       string
}

type teacherRecord struct {
	models.TeacherPayload
	ID                      int64
	Publications            []models.Publication
	ProfessionalDevelopment []models.ProfessionalDevelopment
	Awards                  []models.Award
}

// Server is a thread-safe fake directory.
type Server struct {
	mu          sync.Mutex
	departments []models.Department
	teachers    map[int64]*teacherRecord
	nextID      int64
	failures    map[string]int
	requests    []Request

	engine *gin.Engine
}

// New returns a fake seeded with departments and no teachers.
func New(departments ...models.Department) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		departments: append([]models.Department(nil), departments...),
		teachers:    make(map[int64]*teacherRecord),
		nextID:      1,
		failures:    make(map[string]int),
	}

	r := gin.New()
	r.Use(s.record, s.injectFailure)
	r.GET("/api/departments", s.listDepartments)
	r.GET("/api/teachers", s.listTeachers)
	r.GET("/api/teachers/:id", s.getTeacher)
	r.POST("/api/teachers", s.createTeacher)
	r.PUT("/api/teachers/:id", s.updateTeacher)
	r.DELETE("/api/teachers/:id", s.deleteTeacher)
	r.GET("/api/statistics", s.statistics)
	s.engine = r
	return s
}

// Start serves the fake on a loopback listener; callers must Close it.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s.engine)
}

// ServeHTTP lets the fake be mounted directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Seed inserts a teacher with sub-records and returns its id.
func (s *Server) Seed(payload models.TeacherPayload, pubs []models.Publication, trainings []models.ProfessionalDevelopment, awards []models.Award) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.teachers[id] = &teacherRecord{
		TeacherPayload:          payload,
		ID:                      id,
		Publications:            pubs,
		ProfessionalDevelopment: trainings,
		Awards:                  awards,
	}
	return id
}

// FailNext makes the next request matching "METHOD /route" answer with status.
// Route uses gin patterns, e.g. "DELETE /api/teachers/:id".
func (s *Server) FailNext(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count reports how many requests matched method and gin route.
func (s *Server) Count(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, req := range s.requests {
		if req.Method == method && req.Path == route {
			n++
		}
	}
	return n
}

// Teacher returns the stored editable fields of id.
func (s *Server) Teacher(id int64) (models.TeacherPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.teachers[id]
	if !ok {
		return models.TeacherPayload{}, false
	}
	return rec.TeacherPayload, true
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   c.Request.Method,
		Path:     c.FullPath(),
		RawQuery: c.Request.URL.RawQuery,
		ID:       c.GetHeader("X-Request-ID"),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) injectFailure(c *gin.Context) {
	key := c.Request.Method + " " + c.FullPath()
	s.mu.Lock()
	status, ok := s.failures[key]
	if ok {
		delete(s.failures, key)
	}
	s.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(status, gin.H{"error": "injected failure"})
		return
	}
	c.Next()
}

func (s *Server) listDepartments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.Department(nil), s.departments...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	c.JSON(http.StatusOK, out)
}

func (s *Server) listTeachers(c *gin.Context) {
	search := strings.ToLower(c.Query("search"))
	dept := c.Query("department")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TeacherSummary, 0, len(s.teachers))
	for _, rec := range s.teachers {
		if search != "" &&
			!strings.Contains(strings.ToLower(rec.FirstName), search) &&
			!strings.Contains(strings.ToLower(rec.LastName), search) &&
			!strings.Contains(strings.ToLower(rec.Email), search) {
			continue
		}
		if dept != "" && strconv.FormatInt(rec.DepartmentID, 10) != dept {
			continue
		}
		out = append(out, s.summary(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) getTeacher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, found := s.teachers[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "teacher not found"})
		return
	}
	c.JSON(http.StatusOK, models.TeacherDetail{
		TeacherSummary:          s.summary(rec),
		DepartmentID:            rec.DepartmentID,
		Publications:            rec.Publications,
		ProfessionalDevelopment: rec.ProfessionalDevelopment,
		Awards:                  rec.Awards,
	})
}

func (s *Server) createTeacher(c *gin.Context) {
	var payload models.TeacherPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if payload.HireDate == "" {
		payload.HireDate = time.Now().Format("2006-01-02")
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.teachers[id] = &teacherRecord{TeacherPayload: payload, ID: id}
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "teacher created"})
}

func (s *Server) updateTeacher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload models.TeacherPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, found := s.teachers[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "teacher not found"})
		return
	}
	rec.TeacherPayload = payload
	c.JSON(http.StatusOK, gin.H{"message": "teacher updated"})
}

func (s *Server) deleteTeacher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.teachers, id)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "teacher deleted"})
}

func (s *Server) statistics(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	perDept := make(map[int64]int)
	perPos := make(map[string]int)
	for _, rec := range s.teachers {
		perDept[rec.DepartmentID]++
		perPos[rec.Position]++
	}

	depts := append([]models.Department(nil), s.departments...)
	sort.SliceStable(depts, func(i, j int) bool { return depts[i].Name < depts[j].Name })
	stats := models.Statistics{
		TotalTeachers: len(s.teachers),
		ByDepartment:  make([]models.DepartmentCount, 0, len(depts)),
		ByPosition:    make([]models.PositionCount, 0, len(perPos)),
	}
	for _, d := range depts {
		stats.ByDepartment = append(stats.ByDepartment, models.DepartmentCount{Department: d.Name, Count: perDept[d.ID]})
	}
	for pos, n := range perPos {
		stats.ByPosition = append(stats.ByPosition, models.PositionCount{Position: pos, Count: n})
	}
	sort.Slice(stats.ByPosition, func(i, j int) bool {
		if stats.ByPosition[i].Count != stats.ByPosition[j].Count {
			return stats.ByPosition[i].Count > stats.ByPosition[j].Count
		}
		return stats.ByPosition[i].Position < stats.ByPosition[j].Position
	})
	c.JSON(http.StatusOK, stats)
}

// summary must be called with s.mu held.
func (s *Server) summary(rec *teacherRecord) models.TeacherSummary {
	var deptName string
	for _, d := range s.departments {
		if d.ID == rec.DepartmentID {
			deptName = d.Name
			break
		}
	}
	return models.TeacherSummary{
		ID:             rec.ID,
		FirstName:      rec.FirstName,
		LastName:       rec.LastName,
		Patronymic:     rec.Patronymic,
		Position:       rec.Position,
		Department:     deptName,
		Email:          rec.Email,
		Phone:          rec.Phone,
		AcademicDegree: rec.AcademicDegree,
		AcademicTitle:  rec.AcademicTitle,
		HireDate:       rec.HireDate,
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "teacher not found"})
		return 0, false
	}
	return id, true
}
