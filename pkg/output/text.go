package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chatmill/chatmill/pkg/chatlog"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "chatmill: %d file(s) parsed, %d messages, %d media, %d warnings\n",
		report.Summary.FilesParsed,
		report.Summary.TotalMessages,
		report.Summary.MediaMessages,
		report.Summary.TotalWarnings)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Chat Parse Report ===")
	fmt.Fprintln(w)

	for i := range report.Files {
		f.formatFile(&report.Files[i], w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d file(s), %d messages (%d media, %d quoted), %d warnings\n",
		report.Summary.FilesParsed,
		report.Summary.TotalMessages,
		report.Summary.MediaMessages,
		report.Summary.QuotedMessages,
		report.Summary.TotalWarnings)

	return nil
}

func (f *TextFormatter) formatFile(fr *FileReport, w io.Writer) {
	locale := fr.Locale
	if fr.Detected {
		locale += " (detected)"
	}
	fmt.Fprintf(w, "%s [%s]\n", fr.File, locale)

	if fr.Empty {
		fmt.Fprintln(w, "  No messages found")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "  Messages: %d (%d media, %d quoted, %d multiline)\n",
		len(fr.Messages),
		fr.Stats.MediaMessages,
		fr.Stats.QuotedMessages,
		fr.Stats.MultilineMessages)

	if len(fr.Warnings) > 0 {
		fmt.Fprintf(w, "  Warnings: %d\n", len(fr.Warnings))
		for _, warn := range fr.Warnings {
			fmt.Fprintf(w, "    line %d: %s\n", warn.LineNum, warn.Reason)
		}
	}

	if f.opts.Verbose {
		for i := range fr.Messages {
			f.formatMessage(&fr.Messages[i], w)
		}
	}

	fmt.Fprintln(w)
}

func (f *TextFormatter) formatMessage(msg *chatlog.Message, w io.Writer) {
	tag := ""
	if msg.Type == chatlog.TypeMedia {
		tag = fmt.Sprintf(" [media:%s]", msg.MediaType)
	} else if msg.Quoted {
		tag = " [quoted]"
	}
	content := strings.ReplaceAll(msg.Content, "\n", " | ")
	fmt.Fprintf(w, "  %s %s:%s %s\n",
		msg.Timestamp.Format("2006-01-02 15:04:05"),
		msg.Sender,
		tag,
		content)
}
