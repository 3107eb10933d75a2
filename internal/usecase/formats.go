package usecase

import (
	"regexp"
	"strings"
	"time"

	"resume-export/internal/model"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatJSON Format = "json"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatPDF, FormatDOCX, FormatJSON}

var mimeTypes = map[Format]string{
	FormatPDF:  "application/pdf",
	FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FormatJSON: "application/json",
}

var baseExportTime = map[Format]time.Duration{
	FormatPDF:  2 * time.Second,
	FormatDOCX: time.Second,
	FormatJSON: 100 * time.Millisecond,
}

const (
	perSectionExportTime = 100 * time.Millisecond
	maxFilenameStem      = 50
)

// IsFormatSupported is true only for exactly "pdf", "docx" and "json".
func IsFormatSupported(s string) bool {
	_, ok := mimeTypes[Format(s)]
	return ok
}

// MimeType returns the content type of f, or "application/octet-stream" for unknown formats.
func MimeType(f Format) string {
	if m, ok := mimeTypes[f]; ok {
		return m
	}
	return "application/octet-stream"
}

// EstimateExportTime is a rough UI hint: a per-format base plus a fixed cost per visible section.
func EstimateExportTime(r *model.Resume, f Format) time.Duration {
	base, ok := baseExportTime[f]
	if !ok {
		return 0
	}
	return base + time.Duration(len(r.OrderedVisibleSections()))*perSectionExportTime
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// GenerateFilename builds "<sanitized_title>_<YYYY-MM-DD>.<ext>" using the UTC date of at.
func GenerateFilename(r *model.Resume, f Format, at time.Time) string {
	stem := ""
	if r != nil {
		stem = strings.ToLower(nonAlnum.ReplaceAllString(r.Title, "_"))
	}
	if len(stem) > maxFilenameStem {
		stem = stem[:maxFilenameStem]
	}
	if stem == "" {
		stem = "resume"
	}
	return stem + "_" + at.UTC().Format("2006-01-02") + "." + string(f)
}

// ValidateResumeData fails with VALIDATION_FAILED for a nil resume or one without sections.
func ValidateResumeData(r *model.Resume) error {
	if r == nil {
		return validationError("resume is required")
	}
	if len(r.Sections) == 0 {
		return validationError("resume has no sections")
	}
	return nil
}
