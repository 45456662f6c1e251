package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/pkg/export"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
)

// Supported export formats.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

type progressEvaluator interface {
	Evaluate(ctx context.Context, studentID string, milestone models.MilestoneType) (*models.Progress, error)
}

type reportRenderer interface {
	Render(report export.Report) ([]byte, error)
	ContentType() string
	Extension() string
}

// ReportFile is a rendered progress report ready to be served.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService renders progress evaluations into downloadable files.
type ReportService struct {
	progress  progressEvaluator
	renderers map[string]reportRenderer
	logger    *zap.Logger
}

// NewReportService constructs a ReportService. Nil renderers fall back to the defaults.
func NewReportService(progress progressEvaluator, csv, pdf reportRenderer, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{
		progress:  progress,
		renderers: map[string]reportRenderer{ReportFormatCSV: csv, ReportFormatPDF: pdf},
		logger:    logger,
	}
}

// Export evaluates the student and renders the result in the requested format.
func (s *ReportService) Export(ctx context.Context, studentID string, milestone models.MilestoneType, format string) (*ReportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ReportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}

	progress, err := s.progress.Evaluate(ctx, studentID, milestone)
	if err != nil {
		return nil, err
	}

	content, err := renderer.Render(BuildProgressReport(progress))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render progress report")
	}
	s.logger.Debug("progress report rendered",
		zap.String("student_id", studentID),
		zap.String("format", format),
		zap.Int("bytes", len(content)),
	)
	return &ReportFile{
		Filename:    fmt.Sprintf("progress_%s_%s.%s", sanitizeReportName(studentID), progress.Evaluation.Milestone, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// BuildProgressReport lays a progress evaluation out as report sections.
// Map-backed sections are sorted by key so output is stable.
func BuildProgressReport(progress *models.Progress) export.Report {
	eval := progress.Evaluation
	status := "shortfall"
	if eval.Satisfied {
		status = "satisfied"
	}

	summary := export.Section{
		Heading: "Summary",
		Headers: []string{"Item", "Value"},
		Rows: [][]string{
			{"Student", progress.StudentID},
			{"Enrollment year", fmt.Sprintf("%d", progress.EnrollmentYear)},
			{"Department", progress.Department},
			{"Current grade", fmt.Sprintf("%d", progress.CurrentGrade)},
			{"Milestone", string(eval.Milestone)},
			{"Required credits", fmt.Sprintf("%d", eval.TotalRequiredCredits)},
			{"Counted credits", fmt.Sprintf("%d", eval.CountedCredits)},
			{"Remaining credits", fmt.Sprintf("%d", eval.RemainingTotal)},
			{"Status", status},
		},
	}

	sections := []export.Section{summary, remainingSection("Remaining by category", "Category", eval.RemainingByCategory)}
	if len(eval.RemainingByComposite) > 0 {
		sections = append(sections, remainingSection("Remaining by composite subcategory", "Subcategory", eval.RemainingByComposite))
	}

	missing := export.Section{Heading: "Missing mandatory courses", Headers: []string{"Course"}}
	for _, name := range eval.MissingMandatoryCourses {
		missing.Rows = append(missing.Rows, []string{name})
	}
	sections = append(sections, missing)

	return export.Report{
		Title:    "Credit progress",
		Subtitle: progress.GeneratedAt.Format("2006-01-02 15:04 MST"),
		Sections: sections,
	}
}

func remainingSection(heading, keyHeader string, remaining map[string]int) export.Section {
	keys := make([]string, 0, len(remaining))
	for k := range remaining {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	section := export.Section{Heading: heading, Headers: []string{keyHeader, "Remaining"}}
	for _, k := range keys {
		section.Rows = append(section.Rows, []string{k, fmt.Sprintf("%d", remaining[k])})
	}
	return section
}

func sanitizeReportName(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 64 {
		return result[:64]
	}
	return result
}
