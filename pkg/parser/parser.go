// Package parser converts exported chat text into structured messages.
//
// Parsing is a two-state line machine: a line matching the profile's header
// pattern finalizes the message being accumulated (if any) and starts a new
// one; every other line is a body continuation. Malformed individual lines
// are never fatal — they surface as warnings on the result.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chatmill/chatmill/pkg/chatlog"
	"github.com/chatmill/chatmill/pkg/locale"
)

// ErrNoMessages is returned when parsing finalized zero messages. Callers
// treat it as a recoverable "no messages found" condition.
var ErrNoMessages = errors.New("no messages found")

// Warning records a non-fatal parse anomaly.
type Warning struct {
	// LineNum is the 1-based line number in the input.
	LineNum int `json:"line_num"`

	// Line is the offending line, cleaned.
	Line string `json:"line"`

	// Reason describes the anomaly.
	Reason string `json:"reason"`
}

// Stats holds counters from a parse run.
type Stats struct {
	TotalLines        int `json:"total_lines"`
	HeaderLines       int `json:"header_lines"`
	MultilineMessages int `json:"multiline_messages"`
	IgnoredLines      int `json:"ignored_lines"`
	MediaMessages     int `json:"media_messages"`
	QuotedMessages    int `json:"quoted_messages"`
}

// Result is the output of a parse run.
type Result struct {
	Messages []chatlog.Message `json:"messages"`
	Warnings []Warning         `json:"warnings,omitempty"`
	Stats    Stats             `json:"stats"`
}

// Parser parses chat exports for a single locale profile. It holds no
// mutable state and is safe to reuse across inputs.
type Parser struct {
	profile *locale.Profile
}

// New creates a parser for the given profile.
func New(profile *locale.Profile) *Parser {
	return &Parser{profile: profile}
}

// pending is a message being accumulated.
type pending struct {
	ts     time.Time
	sender string
	lines  []string
}

// Parse reads chat text line by line and returns the ordered message
// sequence. Read failures are fatal and wrapped; ErrNoMessages is returned
// alongside the (empty) result when no message could be finalized.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	res := &Result{}
	var cur *pending
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		res.Stats.TotalLines++
		line := locale.CleanLine(scanner.Text())

		if hdr, ok := p.profile.MatchHeader(line); ok {
			ts, err := p.profile.ParseTimestamp(hdr.TimestampText)
			if err == nil {
				if cur != nil {
					p.finalize(cur, res)
				}
				cur = &pending{ts: ts, sender: hdr.Sender, lines: []string{hdr.Remainder}}
				res.Stats.HeaderLines++
				continue
			}
			// The pattern matched but the timestamp value is invalid
			// (e.g. month 13). Warn and fall through to continuation
			// handling.
			res.Warnings = append(res.Warnings, Warning{
				LineNum: lineNum,
				Line:    line,
				Reason:  fmt.Sprintf("header with unparseable timestamp: %v", err),
			})
		}

		if cur != nil {
			cur.lines = append(cur.lines, line)
			continue
		}

		// Stray line before any recognized header.
		res.Stats.IgnoredLines++
		res.Warnings = append(res.Warnings, Warning{
			LineNum: lineNum,
			Line:    line,
			Reason:  "line before first message header",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading chat text: %w", err)
	}

	if cur != nil {
		p.finalize(cur, res)
	}

	if len(res.Messages) == 0 {
		return res, ErrNoMessages
	}
	return res, nil
}

// ParseString parses chat text held in memory.
func (p *Parser) ParseString(text string) (*Result, error) {
	return p.Parse(strings.NewReader(text))
}

// finalize applies media detection, then quote detection, and appends the
// finished message.
func (p *Parser) finalize(cur *pending, res *Result) {
	body := strings.Join(cur.lines, "\n")
	if len(cur.lines) > 1 {
		res.Stats.MultilineMessages++
	}

	msg := chatlog.Message{
		Timestamp: cur.ts,
		Sender:    cur.sender,
		Type:      chatlog.TypeText,
		Content:   body,
	}

	if mt, ok := p.profile.MediaType(strings.TrimSpace(body)); ok {
		msg.Type = chatlog.TypeMedia
		msg.MediaType = mt
		res.Stats.MediaMessages++
	}

	if stripped, ok := p.profile.TrimQuote(msg.Content); ok {
		msg.Quoted = true
		msg.Content = stripped
		res.Stats.QuotedMessages++
	}

	res.Messages = append(res.Messages, msg)
}
