// Package locale defines per-locale export format profiles and the registry
// used to look them up. A profile describes one locale's header line syntax,
// timestamp layout and media placeholder vocabulary; the parser and generator
// hold only a Profile reference and never branch on locale identity.
package locale

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chatmill/chatmill/pkg/chatlog"
)

// MediaMarker maps a literal placeholder string to a media type.
type MediaMarker struct {
	// Text is the placeholder as it appears in the export.
	Text string

	// Type is the media type the placeholder denotes.
	Type chatlog.MediaType

	// Prefix matches the placeholder as a body prefix instead of requiring
	// whole-body equality. Some export variants append a file name.
	Prefix bool

	// Alias marks parse-only spellings. The generator renders the first
	// non-alias marker registered for a media type.
	Alias bool
}

// Header holds the fields extracted from a matched header line.
type Header struct {
	// TimestampText is the raw timestamp portion, not yet parsed.
	TimestampText string

	// Sender is the participant name.
	Sender string

	// Remainder is the body text trailing the header on the same line.
	Remainder string
}

// Profile describes one locale's export line format. Profiles are immutable
// after registration; all fields are read-only.
type Profile struct {
	// Locale is the registry key ("en", "es", ...).
	Locale string

	// PatternStr is the header line regex. It must capture exactly three
	// groups: timestamp text, sender, and the remaining body text.
	PatternStr string

	// Layout is the Go time layout for the captured timestamp text.
	Layout string

	// Resolution is the timestamp granularity the header encodes. The
	// round-trip guarantee holds at this resolution.
	Resolution time.Duration

	// TimestampPrefix, TimestampSuffix and SenderSuffix are the literal
	// pieces around the timestamp and sender when rendering a header.
	// Rendering must produce exactly what PatternStr recognizes.
	TimestampPrefix string
	TimestampSuffix string
	SenderSuffix    string

	// QuoteMarker is the body prefix denoting a quoted reply.
	QuoteMarker string

	// Markers is the media placeholder vocabulary.
	Markers []MediaMarker

	// Examples are sample header lines for documentation and detection
	// sanity checks.
	Examples []string

	// pattern is compiled during registration.
	pattern *regexp.Regexp
}

// MatchHeader reports whether line opens a new message. The line should
// already be cleaned with CleanLine.
func (p *Profile) MatchHeader(line string) (Header, bool) {
	m := p.pattern.FindStringSubmatch(line)
	if len(m) != 4 {
		return Header{}, false
	}
	return Header{
		TimestampText: m[1],
		Sender:        m[2],
		Remainder:     m[3],
	}, true
}

// ParseTimestamp parses the timestamp text captured by MatchHeader.
func (p *Profile) ParseTimestamp(text string) (time.Time, error) {
	ts, err := time.Parse(p.Layout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", text, err)
	}
	return ts, nil
}

// FormatHeader renders a header line prefix for the given timestamp and
// sender. Concatenating it with FormatBody yields a parseable message.
func (p *Profile) FormatHeader(ts time.Time, sender string) string {
	return p.TimestampPrefix + ts.Format(p.Layout) + p.TimestampSuffix + sender + p.SenderSuffix
}

// FormatBody renders a message body. Media messages render their canonical
// placeholder; quoted text messages are prefixed with the quote marker.
func (p *Profile) FormatBody(content string, msgType chatlog.MessageType, quoted bool) string {
	if msgType == chatlog.TypeMedia {
		return content
	}
	if quoted {
		return p.QuoteMarker + content
	}
	return content
}

// MarkerText returns the canonical placeholder for a media type, or "" if
// the profile has no marker for it.
func (p *Profile) MarkerText(t chatlog.MediaType) string {
	for _, m := range p.Markers {
		if m.Type == t && !m.Alias {
			return m.Text
		}
	}
	return ""
}

// MediaTypes lists the media types the profile can render, in registration
// order without duplicates.
func (p *Profile) MediaTypes() []chatlog.MediaType {
	seen := make(map[chatlog.MediaType]bool)
	var types []chatlog.MediaType
	for _, m := range p.Markers {
		if m.Alias || seen[m.Type] {
			continue
		}
		seen[m.Type] = true
		types = append(types, m.Type)
	}
	return types
}

// MediaType reports whether a trimmed body is a media placeholder and which
// media type it denotes.
func (p *Profile) MediaType(body string) (chatlog.MediaType, bool) {
	for _, m := range p.Markers {
		if m.Prefix {
			if strings.HasPrefix(body, m.Text) {
				return m.Type, true
			}
			continue
		}
		if body == m.Text {
			return m.Type, true
		}
	}
	return "", false
}

// TrimQuote strips the quote marker from a body. The second return value
// reports whether the marker was present.
func (p *Profile) TrimQuote(body string) (string, bool) {
	if p.QuoteMarker == "" || !strings.HasPrefix(body, p.QuoteMarker) {
		return body, false
	}
	return strings.TrimPrefix(body, p.QuoteMarker), true
}

// AtResolution truncates a timestamp to the profile's declared resolution.
func (p *Profile) AtResolution(ts time.Time) time.Time {
	return ts.Truncate(p.Resolution)
}

// invisible characters commonly found in exports: BOM, LRM, RLM.
var invisibleReplacer = strings.NewReplacer(
	"\ufeff", "",
	"\u200e", "",
	"\u200f", "",
)

// CleanLine removes invisible Unicode characters and trailing carriage
// returns before header matching.
func CleanLine(line string) string {
	return strings.TrimRight(invisibleReplacer.Replace(line), "\r")
}
