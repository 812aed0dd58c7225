package relay

// Attachment is an opaque platform file descriptor carried through to the
// sink as-is. The relay reads only the size for variant selection and the
// file id for media resends.
type Attachment map[string]any

// Size returns the attachment byte size, or zero when absent.
func (a Attachment) Size() int64 {
	switch value := a["file_size"].(type) {
	case int64:
		return value
	case int:
		return int64(value)
	case float64:
		return int64(value)
	default:
		return 0
	}
}

// FileID returns the platform file identifier, or empty when absent.
func (a Attachment) FileID() string {
	value, _ := a["file_id"].(string)
	return value
}

// Message is the flat wire record forwarded to the sink. Every field has a
// defined non-null default: absent text fields are empty strings, Images is
// always a slice, and Video is always a map (empty when no video exists).
type Message struct {
	SenderID      int64        `json:"sender_id"`
	MessageID     int          `json:"message_id"`
	ChatID        int64        `json:"chat_id"`
	FullName      string       `json:"full_name"`
	Username      string       `json:"username"`
	IsBot         bool         `json:"is_bot"`
	Text          string       `json:"text"`
	Caption       string       `json:"caption"`
	FormattedText string       `json:"formatted_text"`
	Images        []Attachment `json:"images"`
	Video         Attachment   `json:"video"`
	SentAtISO     string       `json:"sent_at_iso"`
	SentAtPosix   int64        `json:"sent_at_posix"`
}
