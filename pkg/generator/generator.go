// Package generator builds synthetic chat exports from a participant roster
// and behavioral profiles. Output is deterministic for a given seed: each
// day draws from its own labeled sub-stream, so changing the day count
// never perturbs the messages of other days.
package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chatmill/chatmill/pkg/chatlog"
	"github.com/chatmill/chatmill/pkg/locale"
	"github.com/chatmill/chatmill/pkg/randstream"
)

// ErrInvalidConfig wraps every configuration error detected before
// sampling begins.
var ErrInvalidConfig = errors.New("invalid generator configuration")

// defaultSnippets is the text vocabulary for generated message bodies.
// Bodies must never mimic a header line, so snippets contain no
// timestamp-like prefixes.
var defaultSnippets = []string{
	"ok",
	"👍",
	"😂",
	"sounds good",
	"I'll check later",
	"jajaja",
	"perfect",
	"yes",
	"no",
	"maybe",
	"😂😂",
	"on my way",
	"see you there",
}

// Config holds the inputs of a generation run.
type Config struct {
	// Users is the participant roster (at least two names).
	Users []string

	// Profiles optionally replaces seeded archetype assignment with
	// explicit behavior profiles, one per roster name.
	Profiles []UserProfile

	// PinnedArchetypes optionally fixes archetypes for a subset of the
	// roster. The remaining participants draw theirs from the seed.
	// Ignored when Profiles is set.
	PinnedArchetypes map[string]Archetype

	// StartDate is the first day of the range (time of day ignored).
	StartDate time.Time

	// Days is the number of days to generate (zero yields no messages).
	Days int

	// AvgMessagesPerDay is the Poisson mean for the per-day count.
	AvgMessagesPerDay float64

	// Seed drives all sampling.
	Seed int64
}

// Option tunes generation behavior beyond the core config.
type Option func(*Generator)

// WithSnippets replaces the text body vocabulary.
func WithSnippets(snippets []string) Option {
	return func(g *Generator) {
		if len(snippets) > 0 {
			g.snippets = snippets
		}
	}
}

// WithMultilineProbability sets the chance a text body spans several lines.
func WithMultilineProbability(p float64) Option {
	return func(g *Generator) {
		g.multilineProb = p
	}
}

// WithQuoteProbability sets the chance a text message is a quoted reply.
func WithQuoteProbability(p float64) Option {
	return func(g *Generator) {
		g.quoteProb = p
	}
}

// Output is the result of a generation run: the rendered export text and
// the message sequence it encodes, so in-memory consumers can skip a parse
// round trip.
type Output struct {
	Text     string
	Messages []chatlog.Message
}

// Generator produces synthetic chats for one validated configuration.
type Generator struct {
	profile  *locale.Profile
	cfg      Config
	profiles []UserProfile // resolved at Generate time when cfg.Profiles is empty

	snippets      []string
	multilineProb float64
	quoteProb     float64
}

// New validates the configuration and returns a generator. All parameter
// errors are reported here, before any sampling occurs.
func New(profile *locale.Profile, cfg Config, opts ...Option) (*Generator, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: nil locale profile", ErrInvalidConfig)
	}
	if len(cfg.Users) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 participants, got %d", ErrInvalidConfig, len(cfg.Users))
	}
	if cfg.Days < 0 {
		return nil, fmt.Errorf("%w: days must be non-negative, got %d", ErrInvalidConfig, cfg.Days)
	}
	if cfg.AvgMessagesPerDay <= 0 {
		return nil, fmt.Errorf("%w: average messages per day must be positive, got %v", ErrInvalidConfig, cfg.AvgMessagesPerDay)
	}
	if cfg.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(cfg.Users))
	for _, name := range cfg.Users {
		if name == "" {
			return nil, fmt.Errorf("%w: participant with empty name", ErrInvalidConfig)
		}
		// Colons and line breaks collide with the header syntax and would
		// break the parse round trip.
		if strings.ContainsAny(name, ":\n\r") {
			return nil, fmt.Errorf("%w: participant name %q contains a colon or line break", ErrInvalidConfig, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate participant %q", ErrInvalidConfig, name)
		}
		seen[name] = true
	}

	for name, a := range cfg.PinnedArchetypes {
		if !seen[name] {
			return nil, fmt.Errorf("%w: pinned archetype for unknown participant %q", ErrInvalidConfig, name)
		}
		if _, ok := archetypeDefaults[a]; !ok {
			return nil, fmt.Errorf("%w: unknown archetype %q for participant %q", ErrInvalidConfig, a, name)
		}
	}

	if len(cfg.Profiles) > 0 {
		if len(cfg.Profiles) != len(cfg.Users) {
			return nil, fmt.Errorf("%w: %d profiles for %d participants", ErrInvalidConfig, len(cfg.Profiles), len(cfg.Users))
		}
		byName := make(map[string]bool, len(cfg.Profiles))
		for i := range cfg.Profiles {
			if err := cfg.Profiles[i].validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
			}
			byName[cfg.Profiles[i].Name] = true
		}
		for _, name := range cfg.Users {
			if !byName[name] {
				return nil, fmt.Errorf("%w: no profile for participant %q", ErrInvalidConfig, name)
			}
		}
	}

	g := &Generator{
		profile:       profile,
		cfg:           cfg,
		snippets:      defaultSnippets,
		multilineProb: 0.05,
		quoteProb:     0.04,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate runs the full date range and returns the rendered export text
// plus the structured messages, in timestamp order.
func (g *Generator) Generate() (*Output, error) {
	root := randstream.New(g.cfg.Seed)

	profiles := g.cfg.Profiles
	if len(profiles) == 0 {
		profiles = g.assignArchetypes(root.Sub("roster"))
	}

	senderChoices := make([]randstream.Weighted, len(profiles))
	byName := make(map[string]*UserProfile, len(profiles))
	for i := range profiles {
		senderChoices[i] = randstream.Weighted{
			Label:  profiles[i].Name,
			Weight: profiles[i].ActivityMultiplier,
		}
		byName[profiles[i].Name] = &profiles[i]
	}

	startDay := time.Date(
		g.cfg.StartDate.Year(), g.cfg.StartDate.Month(), g.cfg.StartDate.Day(),
		0, 0, 0, 0, time.UTC,
	)

	var messages []chatlog.Message
	for day := 0; day < g.cfg.Days; day++ {
		date := startDay.AddDate(0, 0, day)
		stream := root.Sub("day-" + date.Format("2006-01-02"))
		dayMsgs, err := g.generateDay(stream, date, senderChoices, byName)
		if err != nil {
			return nil, err
		}
		messages = append(messages, dayMsgs...)
	}

	return &Output{
		Text:     g.render(messages),
		Messages: messages,
	}, nil
}

// assignArchetypes gives every roster name an archetype: pinned ones are
// honored, the rest are drawn. The draw order follows the roster, so the
// assignment is reproducible for a seed.
func (g *Generator) assignArchetypes(stream *randstream.Stream) []UserProfile {
	profiles := make([]UserProfile, len(g.cfg.Users))
	for i, name := range g.cfg.Users {
		a, pinned := g.cfg.PinnedArchetypes[name]
		if !pinned {
			a = Archetypes[stream.IntN(len(Archetypes))]
		}
		// Archetypes were checked during New; the lookup cannot fail.
		profiles[i], _ = NewUserProfile(name, a)
	}
	return profiles
}

// render writes messages through the profile's header and body formatting.
// Multi-line bodies become continuation lines, which is exactly what the
// parser reassembles.
func (g *Generator) render(messages []chatlog.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(g.profile.FormatHeader(msg.Timestamp, msg.Sender))
		b.WriteString(g.profile.FormatBody(msg.Content, msg.Type, msg.Quoted))
		b.WriteByte('\n')
	}
	return b.String()
}
