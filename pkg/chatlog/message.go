// Package chatlog defines the structured message records shared by the
// parser and the generator.
package chatlog

import "time"

// MessageType distinguishes plain text messages from media placeholders.
type MessageType string

const (
	TypeText  MessageType = "text"
	TypeMedia MessageType = "media"
)

// MediaType identifies the kind of attachment behind a media placeholder.
type MediaType string

const (
	MediaImage   MediaType = "image"
	MediaVideo   MediaType = "video"
	MediaAudio   MediaType = "audio"
	MediaSticker MediaType = "sticker"
	MediaGIF     MediaType = "gif"
)

// Message is a single chat message with exactly one sender and timestamp.
type Message struct {
	// Timestamp is the message time at the locale profile's resolution.
	Timestamp time.Time `json:"timestamp"`

	// Sender is the participant name from the header line.
	Sender string `json:"sender"`

	// Type is text or media.
	Type MessageType `json:"type"`

	// MediaType is set if and only if Type is media.
	MediaType MediaType `json:"media_type,omitempty"`

	// Content is the full body. Multi-line bodies are joined with "\n".
	// For media messages it holds the matched placeholder verbatim.
	Content string `json:"content"`

	// Quoted is true when the body carried the profile's quote marker.
	// The marker itself is stripped from Content.
	Quoted bool `json:"quoted,omitempty"`
}

// IsMedia reports whether the message is a media placeholder.
func (m *Message) IsMedia() bool {
	return m.Type == TypeMedia
}
