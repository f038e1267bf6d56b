package locale

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DefaultSampleSize is the number of lines Detect examines by default.
const DefaultSampleSize = 100

// Detection holds the result of sampling a chat file against every
// registered profile.
type Detection struct {
	// Matches are profiles that matched at least one header line, sorted
	// by confidence descending.
	Matches []Match

	// SampledLines is the number of non-empty lines examined.
	SampledLines int
}

// Match is one profile's score against the sampled lines.
type Match struct {
	Profile    *Profile
	Confidence float64 // fraction of sampled lines recognized as headers
	MatchCount int
	SampleLine string // first line that matched
}

// HasMatch reports whether any profile matched.
func (d *Detection) HasMatch() bool {
	return len(d.Matches) > 0
}

// BestMatch returns the highest-confidence match, or nil.
func (d *Detection) BestMatch() *Match {
	if len(d.Matches) == 0 {
		return nil
	}
	return &d.Matches[0]
}

// Detect samples up to sampleSize lines from r and scores every registered
// profile by how many lines it recognizes as message headers. Continuation
// lines of multi-line messages count against confidence, so scores below
// 1.0 are normal for real chats.
func Detect(r io.Reader, sampleSize int) (*Detection, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for len(lines) < sampleSize && scanner.Scan() {
		line := CleanLine(scanner.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sampling chat text: %w", err)
	}

	return DetectLines(lines), nil
}

// DetectLines scores every registered profile against already-cleaned lines.
func DetectLines(lines []string) *Detection {
	result := &Detection{SampledLines: len(lines)}
	if len(lines) == 0 {
		return result
	}

	registryMu.RLock()
	profiles := make([]*Profile, 0, len(registry))
	for _, key := range lockedKeys() {
		profiles = append(profiles, registry[key])
	}
	registryMu.RUnlock()

	for _, p := range profiles {
		match := Match{Profile: p}
		for _, line := range lines {
			hdr, ok := p.MatchHeader(line)
			if !ok {
				continue
			}
			// A header line with an unparseable timestamp is a
			// coincidental match, not evidence for the profile.
			if _, err := p.ParseTimestamp(hdr.TimestampText); err != nil {
				continue
			}
			if match.MatchCount == 0 {
				match.SampleLine = line
			}
			match.MatchCount++
		}
		if match.MatchCount > 0 {
			match.Confidence = float64(match.MatchCount) / float64(len(lines))
			result.Matches = append(result.Matches, match)
		}
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	return result
}

// DetectProfile returns the best-matching registered profile for the text
// in r, or ErrUnknownLocale if nothing matched.
func DetectProfile(r io.Reader) (*Profile, error) {
	d, err := Detect(r, DefaultSampleSize)
	if err != nil {
		return nil, err
	}
	best := d.BestMatch()
	if best == nil {
		return nil, fmt.Errorf("%w: no registered profile matches the input", ErrUnknownLocale)
	}
	return best.Profile, nil
}
