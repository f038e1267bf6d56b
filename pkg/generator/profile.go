package generator

import (
	"fmt"

	"github.com/chatmill/chatmill/pkg/chatlog"
	"github.com/chatmill/chatmill/pkg/randstream"
)

// Archetype names a default behavioral configuration for a participant.
type Archetype string

const (
	Talker      Archetype = "talker"
	MediaSender Archetype = "media_sender"
	Balanced    Archetype = "balanced"
	Lurker      Archetype = "lurker"
)

// Archetypes lists the built-in archetypes in assignment order.
var Archetypes = []Archetype{Talker, MediaSender, Balanced, Lurker}

// HourWindow is a [Start, End) time-of-day window in whole hours.
type HourWindow struct {
	Start int
	End   int
}

// Valid reports whether the window lies within a day and is non-empty.
func (w HourWindow) Valid() bool {
	return w.Start >= 0 && w.End <= 24 && w.Start < w.End
}

// MediaWeight pairs a media type with a relative selection weight.
type MediaWeight struct {
	Type   chatlog.MediaType
	Weight float64
}

// UserProfile describes one participant's behavior. Profiles are built once
// per generation run and never mutated afterwards.
type UserProfile struct {
	// Name is the participant identifier used in headers.
	Name string

	// ActivityMultiplier is the relative weight in sender selection.
	ActivityMultiplier float64

	// MediaProbability is the chance a message is a media placeholder.
	MediaProbability float64

	// MediaTypeWeights biases which media type is sent.
	MediaTypeWeights []MediaWeight

	// ActiveHours biases timestamp sampling to this window.
	ActiveHours HourWindow
}

// archetypeDefaults holds the fixed parameter sets behind each archetype.
// Archetypes are data records, not behaviors; extending the set means
// adding an entry here.
var archetypeDefaults = map[Archetype]UserProfile{
	Talker: {
		ActivityMultiplier: 2.5,
		MediaProbability:   0.08,
		MediaTypeWeights: []MediaWeight{
			{Type: chatlog.MediaImage, Weight: 3},
			{Type: chatlog.MediaAudio, Weight: 2},
			{Type: chatlog.MediaSticker, Weight: 1},
		},
		ActiveHours: HourWindow{Start: 8, End: 24},
	},
	MediaSender: {
		ActivityMultiplier: 1.2,
		MediaProbability:   0.45,
		MediaTypeWeights: []MediaWeight{
			{Type: chatlog.MediaImage, Weight: 4},
			{Type: chatlog.MediaVideo, Weight: 2},
			{Type: chatlog.MediaSticker, Weight: 2},
			{Type: chatlog.MediaGIF, Weight: 1},
		},
		ActiveHours: HourWindow{Start: 10, End: 23},
	},
	Balanced: {
		ActivityMultiplier: 1.0,
		MediaProbability:   0.15,
		MediaTypeWeights: []MediaWeight{
			{Type: chatlog.MediaImage, Weight: 2},
			{Type: chatlog.MediaVideo, Weight: 1},
			{Type: chatlog.MediaAudio, Weight: 1},
			{Type: chatlog.MediaSticker, Weight: 1},
		},
		ActiveHours: HourWindow{Start: 9, End: 23},
	},
	Lurker: {
		ActivityMultiplier: 0.3,
		MediaProbability:   0.05,
		MediaTypeWeights: []MediaWeight{
			{Type: chatlog.MediaImage, Weight: 1},
			{Type: chatlog.MediaSticker, Weight: 1},
		},
		ActiveHours: HourWindow{Start: 19, End: 23},
	},
}

// NewUserProfile builds a participant profile from an archetype.
func NewUserProfile(name string, a Archetype) (UserProfile, error) {
	defaults, ok := archetypeDefaults[a]
	if !ok {
		return UserProfile{}, fmt.Errorf("unknown archetype %q", a)
	}
	p := defaults
	p.Name = name
	return p, nil
}

// mediaChoices converts the weight table for randstream selection.
func (p *UserProfile) mediaChoices() []randstream.Weighted {
	items := make([]randstream.Weighted, len(p.MediaTypeWeights))
	for i, w := range p.MediaTypeWeights {
		items[i] = randstream.Weighted{Label: string(w.Type), Weight: w.Weight}
	}
	return items
}

// validate checks a profile's parameter ranges.
func (p *UserProfile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("participant with empty name")
	}
	if p.ActivityMultiplier <= 0 {
		return fmt.Errorf("participant %q: activity multiplier must be positive", p.Name)
	}
	if p.MediaProbability < 0 || p.MediaProbability > 1 {
		return fmt.Errorf("participant %q: media probability must be in [0, 1]", p.Name)
	}
	if !p.ActiveHours.Valid() {
		return fmt.Errorf("participant %q: active hours %d-%d outside a day", p.Name, p.ActiveHours.Start, p.ActiveHours.End)
	}
	total := 0.0
	for _, w := range p.MediaTypeWeights {
		if w.Weight < 0 {
			return fmt.Errorf("participant %q: negative weight for media type %q", p.Name, w.Type)
		}
		total += w.Weight
	}
	if p.MediaProbability > 0 && total <= 0 {
		return fmt.Errorf("participant %q: media type weights must sum to a positive value", p.Name)
	}
	return nil
}
