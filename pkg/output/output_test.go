package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/chatmill/chatmill/pkg/chatlog"
	"github.com/chatmill/chatmill/pkg/parser"
)

func sampleReport() *Report {
	return NewReport([]FileReport{
		{
			File:   "chat.txt",
			Locale: "en",
			Messages: []chatlog.Message{
				{
					Timestamp: time.Date(2023, 1, 12, 18, 42, 0, 0, time.UTC),
					Sender:    "Alice",
					Type:      chatlog.TypeText,
					Content:   "hello\nsecond line",
				},
				{
					Timestamp: time.Date(2023, 1, 12, 18, 43, 0, 0, time.UTC),
					Sender:    "Bob",
					Type:      chatlog.TypeMedia,
					MediaType: chatlog.MediaImage,
					Content:   "<Image omitted>",
				},
			},
			Warnings: []parser.Warning{
				{LineNum: 1, Line: "prose", Reason: "line before first message header"},
			},
			Stats: parser.Stats{
				TotalLines:    4,
				HeaderLines:   2,
				MediaMessages: 1,
			},
		},
		{
			File:   "empty.txt",
			Locale: "en",
			Empty:  true,
		},
	})
}

func TestNewReport_Summary(t *testing.T) {
	r := sampleReport()

	if r.Summary.FilesParsed != 2 {
		t.Errorf("FilesParsed = %d, want 2", r.Summary.FilesParsed)
	}
	if r.Summary.EmptyFiles != 1 {
		t.Errorf("EmptyFiles = %d, want 1", r.Summary.EmptyFiles)
	}
	if r.Summary.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", r.Summary.TotalMessages)
	}
	if r.Summary.MediaMessages != 1 {
		t.Errorf("MediaMessages = %d, want 1", r.Summary.MediaMessages)
	}
	if r.Summary.TotalWarnings != 1 {
		t.Errorf("TotalWarnings = %d, want 1", r.Summary.TotalWarnings)
	}
	if !r.HasEmptyFiles() {
		t.Error("HasEmptyFiles() = false, want true")
	}
}

func TestTextFormatter_Full(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{})

	if f.Name() != "text" {
		t.Errorf("Name() = %q", f.Name())
	}
	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"=== Chat Parse Report ===",
		"chat.txt [en]",
		"Messages: 2 (1 media, 0 quoted, 0 multiline)",
		"line 1: line before first message header",
		"empty.txt [en]",
		"No messages found",
		"Summary: 2 file(s), 2 messages (1 media, 0 quoted), 1 warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	// Full message listing is verbose-only.
	if strings.Contains(out, "hello") {
		t.Errorf("Non-verbose output contains message bodies:\n%s", out)
	}
}

func TestTextFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{Verbose: true})

	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "hello | second line") {
		t.Errorf("Verbose output missing flattened multiline body:\n%s", out)
	}
	if !strings.Contains(out, "[media:image]") {
		t.Errorf("Verbose output missing media tag:\n%s", out)
	}
}

func TestTextFormatter_DetectedLabel(t *testing.T) {
	var buf bytes.Buffer
	r := NewReport([]FileReport{{File: "chat.txt", Locale: "es", Detected: true, Empty: true}})

	if err := NewTextFormatter(FormatOptions{}).Format(context.Background(), r, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "chat.txt [es (detected)]") {
		t.Errorf("Output missing detected label:\n%s", buf.String())
	}
}

func TestTextFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(FormatOptions{Quiet: true})

	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Errorf("Quiet output should be one line:\n%s", out)
	}
	if !strings.Contains(out, "2 file(s) parsed, 2 messages") {
		t.Errorf("Quiet output = %q", out)
	}
}

func TestJSONFormatter_Full(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{})

	if f.Name() != "json" {
		t.Errorf("Name() = %q", f.Name())
	}
	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(decoded.Files) != 2 {
		t.Errorf("Decoded %d files, want 2", len(decoded.Files))
	}
	if decoded.Files[0].Messages[1].MediaType != chatlog.MediaImage {
		t.Errorf("MediaType = %q, want image", decoded.Files[0].Messages[1].MediaType)
	}
	if decoded.Summary.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", decoded.Summary.TotalMessages)
	}
}

func TestJSONFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{Quiet: true})

	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if summary.FilesParsed != 2 {
		t.Errorf("FilesParsed = %d, want 2", summary.FilesParsed)
	}
	if strings.Contains(buf.String(), `"files":`) {
		t.Errorf("Quiet JSON should omit per-file results:\n%s", buf.String())
	}
}
