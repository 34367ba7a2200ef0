package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/staff-directory-console/internal/models"
	"github.com/noah-isme/staff-directory-console/pkg/export"
	appErrors "github.com/noah-isme/staff-directory-console/pkg/errors"
)

// Export formats served by the console.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var exportHeaders = []string{"Full name", "Position", "Department", "Email", "Phone", "Academic degree"}

type sessionLoader interface {
	Load(ctx context.Context, id string) (*models.ConsoleState, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the session's cached teacher table as a download. It
// never calls the directory; the file matches what the list view shows.
type ExportService struct {
	sessions  sessionLoader
	renderers map[string]renderer
	enabled   bool
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// default CSV and PDF exporters.
func NewExportService(sessions sessionLoader, enabled bool, logger *zap.Logger, csv, pdf renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		sessions:  sessions,
		renderers: map[string]renderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		enabled:   enabled,
		logger:    logger,
		now:       time.Now,
	}
}

// Enabled reports whether exports are served.
func (s *ExportService) Enabled() bool {
	return s != nil && s.enabled
}

// Teachers renders the cached teachers of the session in format.
func (s *ExportService) Teachers(ctx context.Context, sessionID, format string) (*ExportFile, error) {
	if !s.Enabled() {
		return nil, appErrors.ErrExportsDisabled
	}
	format = strings.ToLower(format)
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	data, err := r.Render(teachersDataset(state))
	if err != nil {
		s.logger.Error("render teachers export failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    s.buildFilename(state.Filter, format),
		ContentType: r.ContentType(),
		Data:        data,
	}, nil
}

func teachersDataset(state *models.ConsoleState) export.Dataset {
	table := RenderTeachersTable(state.Teachers)
	rows := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		rows = append(rows, []string{row.FullName, row.Position, row.Department, row.Email, row.Phone, row.Degree})
	}

	title := "Teachers"
	var qualifiers []string
	if state.Filter.Search != "" {
		qualifiers = append(qualifiers, fmt.Sprintf("search %q", state.Filter.Search))
	}
	if state.Filter.Department != "" {
		qualifiers = append(qualifiers, "department "+departmentLabel(state, state.Filter.Department))
	}
	if len(qualifiers) > 0 {
		title += " (" + strings.Join(qualifiers, ", ") + ")"
	}
	return export.Dataset{Title: title, Headers: exportHeaders, Rows: rows}
}

func departmentLabel(state *models.ConsoleState, id string) string {
	for _, d := range state.Departments {
		if strconv.FormatInt(d.ID, 10) == id {
			return d.Name
		}
	}
	return id
}

func (s *ExportService) buildFilename(filter models.TeacherFilter, format string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	parts := []string{"teachers"}
	if filter.Search != "" {
		parts = append(parts, sanitizeFilename(filter.Search))
	}
	if filter.Department != "" {
		parts = append(parts, "dept-"+sanitizeFilename(filter.Department))
	}
	parts = append(parts, timestamp)
	return strings.Join(parts, "_") + "." + format
}

func sanitizeFilename(raw string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "", "'", "")
	result := replacer.Replace(strings.TrimSpace(raw))
	if result == "" {
		return "na"
	}
	if runes := []rune(result); len(runes) > 40 {
		return string(runes[:40])
	}
	return result
}
