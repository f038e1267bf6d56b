// Package output provides formatting and report generation for parse
// results.
package output

import (
	"time"

	"github.com/chatmill/chatmill/pkg/chatlog"
	"github.com/chatmill/chatmill/pkg/parser"
)

// Report is the complete parse output across one or more files.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Files contains per-file results in argument order.
	Files []FileReport `json:"files"`

	// ParsedAt is when the parse was performed.
	ParsedAt time.Time `json:"parsed_at"`
}

// FileReport holds one file's parse result.
type FileReport struct {
	// File is the input path ("-" for stdin).
	File string `json:"file"`

	// Locale is the profile the file was parsed with.
	Locale string `json:"locale"`

	// Detected is true when the locale was auto-detected.
	Detected bool `json:"detected,omitempty"`

	// Empty is true when the file yielded no messages.
	Empty bool `json:"empty,omitempty"`

	Messages []chatlog.Message `json:"messages"`
	Warnings []parser.Warning  `json:"warnings,omitempty"`
	Stats    parser.Stats      `json:"stats"`
}

// Summary provides aggregate statistics.
type Summary struct {
	FilesParsed    int `json:"files_parsed"`
	EmptyFiles     int `json:"empty_files"`
	TotalMessages  int `json:"total_messages"`
	MediaMessages  int `json:"media_messages"`
	QuotedMessages int `json:"quoted_messages"`
	TotalWarnings  int `json:"total_warnings"`
}

// NewReport builds a Report and its summary from per-file results.
func NewReport(files []FileReport) *Report {
	report := &Report{
		Files:    files,
		ParsedAt: time.Now(),
	}
	for _, f := range files {
		report.Summary.FilesParsed++
		if f.Empty {
			report.Summary.EmptyFiles++
		}
		report.Summary.TotalMessages += len(f.Messages)
		report.Summary.MediaMessages += f.Stats.MediaMessages
		report.Summary.QuotedMessages += f.Stats.QuotedMessages
		report.Summary.TotalWarnings += len(f.Warnings)
	}
	return report
}

// HasEmptyFiles reports whether any file yielded no messages.
func (r *Report) HasEmptyFiles() bool {
	return r.Summary.EmptyFiles > 0
}
