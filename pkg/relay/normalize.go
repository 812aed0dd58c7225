package relay

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/mymmrac/telego"
)

// ErrMalformedEvent marks chat events that lack the sender or timestamp
// required for a meaningful record. Such events are skipped, not forwarded.
var ErrMalformedEvent = errors.New("malformed chat event")

// Normalize maps one incoming Telegram message into a flat wire record.
// Absent text fields become empty strings; photo variants go through
// SelectLargest before landing in Images.
func Normalize(message *telego.Message) (Message, error) {
	if message == nil {
		return Message{}, fmt.Errorf("%w: no message payload", ErrMalformedEvent)
	}
	if message.From == nil {
		return Message{}, fmt.Errorf("%w: missing sender", ErrMalformedEvent)
	}
	if message.Date == 0 {
		return Message{}, fmt.Errorf("%w: missing timestamp", ErrMalformedEvent)
	}

	sentAt := time.Unix(message.Date, 0).UTC()

	return Message{
		SenderID:      message.From.ID,
		MessageID:     message.MessageID,
		ChatID:        message.Chat.ID,
		FullName:      fullName(message.From),
		Username:      message.From.Username,
		IsBot:         message.From.IsBot,
		Text:          message.Text,
		Caption:       message.Caption,
		FormattedText: renderFormatted(message.Text, message.Entities),
		Images:        SelectLargest(photoAttachments(message.Photo)),
		Video:         videoAttachment(message.Video),
		SentAtISO:     sentAt.Format(time.RFC3339),
		SentAtPosix:   sentAt.Unix(),
	}, nil
}

func fullName(user *telego.User) string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func photoAttachments(photos []telego.PhotoSize) []Attachment {
	attachments := make([]Attachment, 0, len(photos))
	for _, photo := range photos {
		attachments = append(attachments, Attachment{
			"file_id":        photo.FileID,
			"file_unique_id": photo.FileUniqueID,
			"file_size":      int64(photo.FileSize),
			"width":          photo.Width,
			"height":         photo.Height,
		})
	}

	return attachments
}

func videoAttachment(video *telego.Video) Attachment {
	if video == nil {
		return Attachment{}
	}

	return Attachment{
		"file_id":        video.FileID,
		"file_unique_id": video.FileUniqueID,
		"file_size":      video.FileSize,
		"width":          video.Width,
		"height":         video.Height,
		"duration":       video.Duration,
		"mime_type":      video.MimeType,
	}
}

// renderFormatted rebuilds message text with inline [label](url) markup for
// text_link entities. Entity offsets are UTF-16 code units per the Bot API.
func renderFormatted(text string, entities []telego.MessageEntity) string {
	if text == "" || len(entities) == 0 {
		return text
	}

	units := utf16.Encode([]rune(text))
	var out strings.Builder
	pos := 0

	for _, entity := range entities {
		if entity.Type != telego.EntityTypeTextLink || entity.URL == "" {
			continue
		}

		end := entity.Offset + entity.Length
		if entity.Offset < pos || end > len(units) {
			continue
		}

		out.WriteString(string(utf16.Decode(units[pos:entity.Offset])))
		label := string(utf16.Decode(units[entity.Offset:end]))
		out.WriteString("[" + label + "](" + entity.URL + ")")
		pos = end
	}

	out.WriteString(string(utf16.Decode(units[pos:])))

	return out.String()
}
