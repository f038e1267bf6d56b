package generator

import (
	"fmt"
	"time"

	"github.com/chatmill/chatmill/pkg/chatlog"
	"github.com/chatmill/chatmill/pkg/randstream"
)

const (
	// burstSizeMean drives the Poisson draw for extra messages per burst.
	burstSizeMean = 3.0

	// minGapSeconds and gapMeanSeconds shape intra-burst reply delays.
	minGapSeconds  = 5
	gapMeanSeconds = 90.0
)

// generateDay produces one day's messages in non-decreasing timestamp
// order. All draws come from the day's own sub-stream.
func (g *Generator) generateDay(
	stream *randstream.Stream,
	date time.Time,
	senderChoices []randstream.Weighted,
	byName map[string]*UserProfile,
) ([]chatlog.Message, error) {
	count := stream.Count(g.cfg.AvgMessagesPerDay)
	if count == 0 {
		return nil, nil
	}

	endOfDay := date.Add(24*time.Hour - time.Second)
	var messages []chatlog.Message
	var current time.Time

	remaining := count
	for remaining > 0 {
		// Burst boundaries and sizes are sampled, not fixed, to avoid
		// uniform spacing across the day.
		size := 1 + stream.Count(burstSizeMean)
		if size > remaining {
			size = remaining
		}
		remaining -= size

		for i := 0; i < size; i++ {
			sender, err := stream.WeightedChoice(senderChoices)
			if err != nil {
				return nil, fmt.Errorf("choosing sender: %w", err)
			}
			profile := byName[sender]

			if i == 0 {
				// A new burst jumps to a fresh time in the sender's
				// active window, never earlier than what came before.
				ts := sampleInWindow(stream, date, profile.ActiveHours)
				if ts.After(current) {
					current = ts
				}
			} else {
				gap := time.Duration(minGapSeconds+stream.Exp(gapMeanSeconds)) * time.Second
				current = current.Add(gap)
			}
			if current.After(endOfDay) {
				current = endOfDay
			}

			msg, err := g.buildMessage(stream, current, profile)
			if err != nil {
				return nil, err
			}
			messages = append(messages, msg)
		}
	}

	return messages, nil
}

// sampleInWindow draws a time of day inside the participant's active hours.
func sampleInWindow(stream *randstream.Stream, date time.Time, window HourWindow) time.Time {
	hour := window.Start + stream.IntN(window.End-window.Start)
	minute := stream.IntN(60)
	second := stream.IntN(60)
	return date.Add(
		time.Duration(hour)*time.Hour +
			time.Duration(minute)*time.Minute +
			time.Duration(second)*time.Second,
	)
}

// buildMessage fills in sender-dependent content: media type, text snippet,
// multiline continuation and the quoted-reply marker.
func (g *Generator) buildMessage(stream *randstream.Stream, ts time.Time, profile *UserProfile) (chatlog.Message, error) {
	msg := chatlog.Message{
		Timestamp: g.profile.AtResolution(ts),
		Sender:    profile.Name,
		Type:      chatlog.TypeText,
	}

	if stream.Bool(profile.MediaProbability) {
		label, err := stream.WeightedChoice(profile.mediaChoices())
		if err != nil {
			return chatlog.Message{}, fmt.Errorf("choosing media type for %q: %w", profile.Name, err)
		}
		mt := chatlog.MediaType(label)
		marker := g.profile.MarkerText(mt)
		if marker == "" {
			return chatlog.Message{}, fmt.Errorf("locale %q has no marker for media type %q", g.profile.Locale, mt)
		}
		msg.Type = chatlog.TypeMedia
		msg.MediaType = mt
		msg.Content = marker
		return msg, nil
	}

	content := g.snippets[stream.IntN(len(g.snippets))]
	if stream.Bool(g.multilineProb) {
		content += "\n" + g.snippets[stream.IntN(len(g.snippets))]
	}
	msg.Content = content
	msg.Quoted = stream.Bool(g.quoteProb)
	return msg, nil
}
