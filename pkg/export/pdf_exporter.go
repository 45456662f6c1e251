package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders reports as a tabular A4 PDF.
//
// The core PDF fonts only cover Latin-1, so text is passed through a
// code page translator; a UTF-8 TrueType font can be registered with
// WithUTF8Font to render Japanese labels.
type PDFExporter struct {
	fontFamily string
	fontPath   string
}

// PDFOption configures a PDFExporter.
type PDFOption func(*PDFExporter)

// WithUTF8Font registers a TrueType font file under family for every page.
func WithUTF8Font(family, path string) PDFOption {
	return func(e *PDFExporter) {
		if family != "" && path != "" {
			e.fontFamily = family
			e.fontPath = path
		}
	}
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(opts ...PDFOption) *PDFExporter {
	e := &PDFExporter{fontFamily: "Arial"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ContentType returns the MIME type produced by Render.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension returns the file extension produced by Render.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF document with one table per section.
func (e *PDFExporter) Render(report Report) ([]byte, error) {
	if len(report.Sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one section")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	tr := func(s string) string { return s }
	if e.fontPath != "" {
		pdf.AddUTF8Font(e.fontFamily, "", e.fontPath)
		pdf.AddUTF8Font(e.fontFamily, "B", e.fontPath)
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()

	if report.Title != "" {
		pdf.SetFont(e.fontFamily, "B", 14)
		pdf.CellFormat(0, 10, tr(report.Title), "", 1, "C", false, 0, "")
	}
	if report.Subtitle != "" {
		pdf.SetFont(e.fontFamily, "", 10)
		pdf.CellFormat(0, 6, tr(report.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range report.Sections {
		if len(section.Headers) == 0 {
			return nil, fmt.Errorf("section %q has no headers", section.Heading)
		}
		if section.Heading != "" {
			pdf.SetFont(e.fontFamily, "B", 11)
			pdf.CellFormat(0, 8, tr(section.Heading), "", 1, "L", false, 0, "")
		}

		colWidth := 190.0 / float64(len(section.Headers))
		pdf.SetFont(e.fontFamily, "B", 10)
		for _, header := range section.Headers {
			pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(e.fontFamily, "", 9)
		for _, row := range section.Rows {
			for i := range section.Headers {
				value := ""
				if i < len(row) {
					value = row[i]
				}
				pdf.CellFormat(colWidth, 7, tr(value), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
