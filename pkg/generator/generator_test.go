package generator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chatmill/chatmill/pkg/chatlog"
	"github.com/chatmill/chatmill/pkg/locale"
	"github.com/chatmill/chatmill/pkg/parser"
)

func enProfile(t *testing.T) *locale.Profile {
	t.Helper()
	p, err := locale.Get("en")
	if err != nil {
		t.Fatalf("locale.Get(en) error = %v", err)
	}
	return p
}

func baseConfig() Config {
	return Config{
		Users:             []string{"Alice", "Bob"},
		StartDate:         time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:              1,
		AvgMessagesPerDay: 10,
		Seed:              42,
	}
}

func TestNew_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"one user", func(c *Config) { c.Users = []string{"Alice"} }},
		{"no users", func(c *Config) { c.Users = nil }},
		{"empty name", func(c *Config) { c.Users = []string{"Alice", ""} }},
		{"duplicate name", func(c *Config) { c.Users = []string{"Alice", "Alice"} }},
		{"colon in name", func(c *Config) { c.Users = []string{"Alice", "Bob: the builder"} }},
		{"newline in name", func(c *Config) { c.Users = []string{"Alice", "Bob\nCarol"} }},
		{"carriage return in name", func(c *Config) { c.Users = []string{"Alice", "Bob\r"} }},
		{"negative days", func(c *Config) { c.Days = -1 }},
		{"zero rate", func(c *Config) { c.AvgMessagesPerDay = 0 }},
		{"negative rate", func(c *Config) { c.AvgMessagesPerDay = -5 }},
		{"zero start date", func(c *Config) { c.StartDate = time.Time{} }},
		{"pinned unknown participant", func(c *Config) {
			c.PinnedArchetypes = map[string]Archetype{"Carol": Talker}
		}},
		{"pinned unknown archetype", func(c *Config) {
			c.PinnedArchetypes = map[string]Archetype{"Alice": Archetype("ghost")}
		}},
		{"profile count mismatch", func(c *Config) {
			p, _ := NewUserProfile("Alice", Balanced)
			c.Profiles = []UserProfile{p}
		}},
		{"profile for wrong name", func(c *Config) {
			p1, _ := NewUserProfile("Alice", Balanced)
			p2, _ := NewUserProfile("Carol", Balanced)
			c.Profiles = []UserProfile{p1, p2}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			_, err := New(enProfile(t), cfg)
			if err == nil {
				t.Fatal("Expected configuration error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNew_NilProfile(t *testing.T) {
	_, err := New(nil, baseConfig())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestGenerate_SameSeedIdentical(t *testing.T) {
	cfg := baseConfig()
	cfg.Days = 5
	cfg.AvgMessagesPerDay = 40

	var outputs [2]*Output
	for i := range outputs {
		g, err := New(enProfile(t), cfg)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		out, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		outputs[i] = out
	}

	if outputs[0].Text != outputs[1].Text {
		t.Error("Same seed produced different text")
	}
	if len(outputs[0].Messages) != len(outputs[1].Messages) {
		t.Errorf("Message counts differ: %d vs %d", len(outputs[0].Messages), len(outputs[1].Messages))
	}
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	cfg := baseConfig()
	cfg.Days = 3
	cfg.AvgMessagesPerDay = 50

	g1, err := New(enProfile(t), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out1, err := g1.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	cfg.Seed = 43
	g2, err := New(enProfile(t), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out2, err := g2.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if out1.Text == out2.Text {
		t.Error("Different seeds produced identical output")
	}
}

func TestGenerate_ZeroDays(t *testing.T) {
	cfg := baseConfig()
	cfg.Days = 0

	g, err := New(enProfile(t), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out.Text != "" {
		t.Errorf("Text = %q, want empty", out.Text)
	}
	if len(out.Messages) != 0 {
		t.Errorf("Got %d messages, want 0", len(out.Messages))
	}
}

func TestGenerate_TimestampsOrderedAndInRange(t *testing.T) {
	cfg := baseConfig()
	cfg.Days = 7
	cfg.AvgMessagesPerDay = 60

	g, err := New(enProfile(t), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(out.Messages) == 0 {
		t.Fatal("Expected messages over a 7-day range")
	}

	rangeStart := cfg.StartDate
	rangeEnd := cfg.StartDate.AddDate(0, 0, cfg.Days)
	var prev time.Time
	for i, m := range out.Messages {
		if m.Timestamp.Before(prev) {
			t.Fatalf("Message %d timestamp %v before predecessor %v", i, m.Timestamp, prev)
		}
		prev = m.Timestamp
		if m.Timestamp.Before(rangeStart) || !m.Timestamp.Before(rangeEnd) {
			t.Fatalf("Message %d timestamp %v outside [%v, %v)", i, m.Timestamp, rangeStart, rangeEnd)
		}
	}
}

func TestGenerate_SendersFromRoster(t *testing.T) {
	cfg := baseConfig()
	cfg.Users = []string{"Alice", "Bob", "Carol"}
	cfg.Days = 3
	cfg.AvgMessagesPerDay = 80

	g, err := New(enProfile(t), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	roster := map[string]bool{"Alice": true, "Bob": true, "Carol": true}
	for _, m := range out.Messages {
		if !roster[m.Sender] {
			t.Fatalf("Unknown sender %q", m.Sender)
		}
	}
}

func TestGenerate_PinnedArchetypeShapesOutput(t *testing.T) {
	cfg := baseConfig()
	cfg.Users = []string{"Alice", "Bob"}
	cfg.PinnedArchetypes = map[string]Archetype{
		"Alice": MediaSender,
		"Bob":   Lurker,
	}
	cfg.Days = 10
	cfg.AvgMessagesPerDay = 100

	g, err := New(enProfile(t), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	counts := map[string]int{}
	media := map[string]int{}
	for _, m := range out.Messages {
		counts[m.Sender]++
		if m.IsMedia() {
			media[m.Sender]++
		}
	}

	// MediaSender has four times the activity weight of Lurker.
	if counts["Alice"] <= counts["Bob"] {
		t.Errorf("Expected Alice above Bob: %v", counts)
	}
	// Media probability 0.45 vs 0.05 must show in the ratios.
	aliceRatio := float64(media["Alice"]) / float64(counts["Alice"])
	bobRatio := float64(media["Bob"]) / float64(counts["Bob"])
	if aliceRatio <= bobRatio {
		t.Errorf("Expected Alice's media ratio (%v) above Bob's (%v)", aliceRatio, bobRatio)
	}
}

func TestGenerate_ExplicitProfiles(t *testing.T) {
	cfg := baseConfig()
	cfg.Profiles = []UserProfile{
		{
			Name:               "Alice",
			ActivityMultiplier: 1,
			MediaProbability:   0,
			ActiveHours:        HourWindow{Start: 9, End: 17},
		},
		{
			Name:               "Bob",
			ActivityMultiplier: 1,
			MediaProbability:   0,
			ActiveHours:        HourWindow{Start: 9, End: 17},
		},
	}
	cfg.Days = 5
	cfg.AvgMessagesPerDay = 50

	g, err := New(enProfile(t), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, m := range out.Messages {
		if m.IsMedia() {
			t.Fatalf("Media message from zero-probability profile: %+v", m)
		}
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	for _, loc := range []string{"en", "es"} {
		t.Run(loc, func(t *testing.T) {
			p, err := locale.Get(loc)
			if err != nil {
				t.Fatalf("locale.Get(%s) error = %v", loc, err)
			}

			cfg := baseConfig()
			cfg.Days = 5
			cfg.AvgMessagesPerDay = 50

			g, err := New(p, cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			out, err := g.Generate()
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			res, err := parser.New(p).ParseString(out.Text)
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			if len(res.Warnings) != 0 {
				t.Errorf("Round trip produced warnings: %v", res.Warnings)
			}
			if len(res.Messages) != len(out.Messages) {
				t.Fatalf("Parsed %d messages, generated %d", len(res.Messages), len(out.Messages))
			}
			for i := range out.Messages {
				want, got := out.Messages[i], res.Messages[i]
				if got.Sender != want.Sender || got.Type != want.Type ||
					got.MediaType != want.MediaType || got.Quoted != want.Quoted ||
					!got.Timestamp.Equal(want.Timestamp) {
					t.Fatalf("Message %d differs:\n  generated: %+v\n  parsed:    %+v", i, want, got)
				}
				if got.Content != want.Content {
					t.Fatalf("Message %d content = %q, want %q", i, got.Content, want.Content)
				}
			}
		})
	}
}

func TestGenerate_SmallScenario(t *testing.T) {
	// seed 42, Alice and Bob, one day, ten messages a day on average.
	cfg := baseConfig()

	g, err := New(enProfile(t), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	dayEnd := cfg.StartDate.AddDate(0, 0, 1)
	var prev time.Time
	for i, m := range out.Messages {
		if m.Sender != "Alice" && m.Sender != "Bob" {
			t.Fatalf("Unknown sender %q", m.Sender)
		}
		if m.Timestamp.Before(cfg.StartDate) || !m.Timestamp.Before(dayEnd) {
			t.Fatalf("Message %d timestamp %v outside day 1", i, m.Timestamp)
		}
		if m.Timestamp.Before(prev) {
			t.Fatalf("Message %d timestamp %v before predecessor %v", i, m.Timestamp, prev)
		}
		prev = m.Timestamp
	}

	if len(out.Messages) > 0 {
		res, err := parser.New(enProfile(t)).ParseString(out.Text)
		if err != nil {
			t.Fatalf("ParseString() error = %v", err)
		}
		if len(res.Messages) != len(out.Messages) {
			t.Errorf("Parsed %d messages, generated %d", len(res.Messages), len(out.Messages))
		}
	}
}

func TestGenerate_WithOptions(t *testing.T) {
	cfg := baseConfig()
	cfg.Days = 3
	cfg.AvgMessagesPerDay = 40

	g, err := New(enProfile(t), cfg,
		WithSnippets([]string{"custom snippet"}),
		WithMultilineProbability(0),
		WithQuoteProbability(0),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, m := range out.Messages {
		if m.Quoted {
			t.Fatalf("Quoted message with quote probability 0: %+v", m)
		}
		if m.Type == chatlog.TypeText {
			if m.Content != "custom snippet" {
				t.Fatalf("Content = %q, want custom snippet", m.Content)
			}
			if strings.Contains(m.Content, "\n") {
				t.Fatalf("Multiline body with multiline probability 0: %q", m.Content)
			}
		}
	}
}

func TestNewUserProfile(t *testing.T) {
	p, err := NewUserProfile("Alice", Talker)
	if err != nil {
		t.Fatalf("NewUserProfile() error = %v", err)
	}
	if p.Name != "Alice" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.ActivityMultiplier != 2.5 {
		t.Errorf("ActivityMultiplier = %v, want 2.5", p.ActivityMultiplier)
	}
	if err := p.validate(); err != nil {
		t.Errorf("validate() error = %v", err)
	}

	if _, err := NewUserProfile("Bob", Archetype("ghost")); err == nil {
		t.Error("Expected error for unknown archetype")
	}
}

func TestUserProfile_Validate(t *testing.T) {
	base := func() UserProfile {
		p, _ := NewUserProfile("Alice", Balanced)
		return p
	}

	tests := []struct {
		name   string
		mutate func(*UserProfile)
	}{
		{"empty name", func(p *UserProfile) { p.Name = "" }},
		{"zero activity", func(p *UserProfile) { p.ActivityMultiplier = 0 }},
		{"media probability above 1", func(p *UserProfile) { p.MediaProbability = 1.5 }},
		{"negative media probability", func(p *UserProfile) { p.MediaProbability = -0.1 }},
		{"inverted hours", func(p *UserProfile) { p.ActiveHours = HourWindow{Start: 20, End: 8} }},
		{"hours past midnight", func(p *UserProfile) { p.ActiveHours = HourWindow{Start: 9, End: 25} }},
		{"negative media weight", func(p *UserProfile) {
			p.MediaTypeWeights = []MediaWeight{{Type: chatlog.MediaImage, Weight: -1}}
		}},
		{"media probability without weights", func(p *UserProfile) {
			p.MediaProbability = 0.2
			p.MediaTypeWeights = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			if err := p.validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
