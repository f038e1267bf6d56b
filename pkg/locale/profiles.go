package locale

import (
	"time"

	"github.com/chatmill/chatmill/pkg/chatlog"
)

// builtinProfiles returns the locale profiles registered at startup.
// Adding a locale means adding an entry here (or calling Register from
// client code); the parser and generator need no changes.
func builtinProfiles() []*Profile {
	return []*Profile{
		// English export: "1/12/23, 18:42 - Alice: Hello!"
		// The header carries no seconds, so the declared resolution is
		// one minute.
		{
			Locale:          "en",
			PatternStr:      `^(\d{1,2}/\d{1,2}/\d{2}, \d{1,2}:\d{2}) - ([^:]+): (.*)$`,
			Layout:          "1/2/06, 15:04",
			Resolution:      time.Minute,
			TimestampPrefix: "",
			TimestampSuffix: " - ",
			SenderSuffix:    ": ",
			QuoteMarker:     "> ",
			Markers: []MediaMarker{
				{Text: "<Image omitted>", Type: chatlog.MediaImage},
				{Text: "<Video omitted>", Type: chatlog.MediaVideo},
				{Text: "<Audio omitted>", Type: chatlog.MediaAudio},
				{Text: "<Sticker omitted>", Type: chatlog.MediaSticker},
				{Text: "<GIF omitted>", Type: chatlog.MediaGIF},
				// Older exports spell placeholders without brackets.
				{Text: "image omitted", Type: chatlog.MediaImage, Alias: true},
				{Text: "video omitted", Type: chatlog.MediaVideo, Alias: true},
				{Text: "audio omitted", Type: chatlog.MediaAudio, Alias: true},
				{Text: "sticker omitted", Type: chatlog.MediaSticker, Alias: true},
			},
			Examples: []string{
				"1/12/23, 18:42 - Alice: Hello!",
				"12/31/23, 09:05 - Bob: <Image omitted>",
			},
		},
		// Spanish export: "[12/1/23, 18:42:07] Alice: ¡Hola!"
		// Day-first date order and a seconds field.
		{
			Locale:          "es",
			PatternStr:      `^\[(\d{1,2}/\d{1,2}/\d{2}, \d{1,2}:\d{2}:\d{2})\] ([^:]+): (.*)$`,
			Layout:          "2/1/06, 15:04:05",
			Resolution:      time.Second,
			TimestampPrefix: "[",
			TimestampSuffix: "] ",
			SenderSuffix:    ": ",
			QuoteMarker:     "> ",
			Markers: []MediaMarker{
				{Text: "imagen omitida", Type: chatlog.MediaImage},
				{Text: "video omitido", Type: chatlog.MediaVideo},
				{Text: "audio omitido", Type: chatlog.MediaAudio},
				{Text: "sticker omitido", Type: chatlog.MediaSticker},
				{Text: "GIF omitido", Type: chatlog.MediaGIF},
			},
			Examples: []string{
				"[12/1/23, 18:42:07] Alice: ¡Hola!",
				"[31/12/23, 09:05:30] Bob: imagen omitida",
			},
		},
	}
}
