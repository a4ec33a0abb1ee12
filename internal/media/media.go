// Package media reduces incoming Telegram attachments to descriptive text.
// The payload bytes are never stored — only a human-readable summary plus
// the transport file id, enough for the admin to re-send or download the
// file later.
package media

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/xodimov/relaybot/internal/textutil"
)

// Media kinds, matching Telegram's attachment taxonomy.
const (
	KindPhoto     = "photo"
	KindVideo     = "video"
	KindAudio     = "audio"
	KindVoice     = "voice"
	KindVideoNote = "video_note"
	KindDocument  = "document"
	KindSticker   = "sticker"
	KindAnimation = "animation"
	KindLocation  = "location"
	KindVenue     = "venue"
	KindContact   = "contact"
	KindPoll      = "poll"
	KindDice      = "dice"
)

// Descriptor is the stored, text-only representation of an attachment.
type Descriptor struct {
	Kind string
	Text string
}

// blockedExtensions are file suffixes the bot refuses to accept from users.
var blockedExtensions = []string{".apk", ".exe", ".msi", ".deb", ".rpm", ".dmg", ".scr", ".bat", ".cmd", ".com", ".pif"}

// blockedMIMETypes mirrors blockedExtensions for senders that strip or fake
// the file name.
var blockedMIMETypes = map[string]bool{
	"application/vnd.android.package-archive": true,
	"application/x-msdownload":                true,
	"application/x-msi":                       true,
	"application/x-deb":                       true,
	"application/x-rpm":                       true,
	"application/x-apple-diskimage":           true,
}

// CheckFile reports whether a document with the given name and MIME type is
// acceptable. The second return value carries the rejection reason for the
// user-facing message.
func CheckFile(fileName, mimeType string) (bool, string) {
	lower := strings.ToLower(fileName)
	for _, ext := range blockedExtensions {
		if strings.HasSuffix(lower, ext) {
			return false, fmt.Sprintf("%s files are not allowed", strings.ToUpper(strings.TrimPrefix(ext, ".")))
		}
	}
	if blockedMIMETypes[strings.ToLower(mimeType)] {
		return false, "this file type is not allowed"
	}
	return true, ""
}

// Describe builds the descriptive text for whatever attachment the message
// carries. The second return value is false when the message has no
// supported attachment (plain text messages are handled elsewhere).
func Describe(msg *models.Message) (Descriptor, bool) {
	var d Descriptor

	switch {
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1]
		d = Descriptor{KindPhoto, fmt.Sprintf("📷 Photo\n• Size: %s\n• File ID: %s",
			textutil.FormatFileSize(int64(photo.FileSize)), photo.FileID)}

	case msg.Video != nil:
		v := msg.Video
		d = Descriptor{KindVideo, fmt.Sprintf("🎥 Video\n• Duration: %s\n• Resolution: %dx%d\n• Size: %s\n• File ID: %s",
			textutil.FormatDuration(v.Duration), v.Width, v.Height,
			textutil.FormatFileSize(int64(v.FileSize)), v.FileID)}

	case msg.Audio != nil:
		a := msg.Audio
		performer := a.Performer
		if performer == "" {
			performer = "unknown"
		}
		title := a.Title
		if title == "" {
			title = "unknown"
		}
		d = Descriptor{KindAudio, fmt.Sprintf("🎵 Audio\n• Performer: %s\n• Title: %s\n• Duration: %s\n• Size: %s\n• File ID: %s",
			performer, title, textutil.FormatDuration(a.Duration),
			textutil.FormatFileSize(int64(a.FileSize)), a.FileID)}

	case msg.Voice != nil:
		v := msg.Voice
		d = Descriptor{KindVoice, fmt.Sprintf("🎤 Voice message\n• Duration: %s\n• Size: %s\n• File ID: %s",
			textutil.FormatDuration(v.Duration), textutil.FormatFileSize(int64(v.FileSize)), v.FileID)}

	case msg.VideoNote != nil:
		v := msg.VideoNote
		d = Descriptor{KindVideoNote, fmt.Sprintf("🎬 Video note\n• Duration: %s\n• Size: %s\n• File ID: %s",
			textutil.FormatDuration(v.Duration), textutil.FormatFileSize(int64(v.FileSize)), v.FileID)}

	case msg.Document != nil:
		doc := msg.Document
		name := doc.FileName
		if name == "" {
			name = "unknown file"
		}
		mime := doc.MimeType
		if mime == "" {
			mime = "unknown"
		}
		d = Descriptor{KindDocument, fmt.Sprintf("📄 Document\n• Name: %s\n• Size: %s\n• Type: %s\n• File ID: %s",
			name, textutil.FormatFileSize(int64(doc.FileSize)), mime, doc.FileID)}

	case msg.Sticker != nil:
		st := msg.Sticker
		emoji := st.Emoji
		if emoji == "" {
			emoji = "🙂"
		}
		d = Descriptor{KindSticker, fmt.Sprintf("😄 Sticker\n• Emoji: %s\n• Set: %s\n• File ID: %s",
			emoji, st.SetName, st.FileID)}

	case msg.Animation != nil:
		a := msg.Animation
		d = Descriptor{KindAnimation, fmt.Sprintf("🎭 Animation\n• Duration: %s\n• Size: %s\n• File ID: %s",
			textutil.FormatDuration(a.Duration), textutil.FormatFileSize(int64(a.FileSize)), a.FileID)}

	case msg.Location != nil:
		l := msg.Location
		d = Descriptor{KindLocation, fmt.Sprintf("📍 Location\n• Latitude: %f\n• Longitude: %f", l.Latitude, l.Longitude)}

	case msg.Venue != nil:
		v := msg.Venue
		d = Descriptor{KindVenue, fmt.Sprintf("🏢 Venue\n• Name: %s\n• Address: %s", v.Title, v.Address)}

	case msg.Contact != nil:
		c := msg.Contact
		name := strings.TrimSpace(c.FirstName + " " + c.LastName)
		d = Descriptor{KindContact, fmt.Sprintf("📞 Contact\n• Name: %s\n• Phone: %s", name, c.PhoneNumber)}

	case msg.Poll != nil:
		p := msg.Poll
		var options []string
		for _, opt := range p.Options {
			options = append(options, "• "+opt.Text)
		}
		d = Descriptor{KindPoll, fmt.Sprintf("📊 Poll\n• Question: %s\n• Options:\n%s",
			p.Question, strings.Join(options, "\n"))}

	case msg.Dice != nil:
		d = Descriptor{KindDice, fmt.Sprintf("🎲 Dice\n• Emoji: %s\n• Value: %d", msg.Dice.Emoji, msg.Dice.Value)}

	default:
		return Descriptor{}, false
	}

	if msg.Caption != "" {
		d.Text += "\n\n📝 Caption: " + msg.Caption
	}
	return d, true
}
