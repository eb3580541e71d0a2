package campaign

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackzampolin/presence/internal/history"
)

// Share channels.
const (
	ChannelEmail = "email"
	ChannelSlack = "slack"
)

// ErrUnknownChannel is returned for a share channel other than email or slack.
var ErrUnknownChannel = errors.New("unknown share channel")

// ShareResult is recorded as the output of a share.
const ShareResult = "Mock share completed."

// Share describes a brief handed to a recipient. Delivery is simulated;
// only the history record is produced.
type Share struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Note    string `json:"note"`
}

// Normalize lowercases the channel and validates it.
func (s Share) Normalize() (Share, error) {
	s.Channel = strings.ToLower(strings.TrimSpace(s.Channel))
	if s.Channel == "" {
		s.Channel = ChannelEmail
	}
	if s.Channel != ChannelEmail && s.Channel != ChannelSlack {
		return s, fmt.Errorf("%w %q", ErrUnknownChannel, s.Channel)
	}
	s.To = strings.TrimSpace(s.To)
	s.Note = strings.TrimSpace(s.Note)
	return s, nil
}

// Payload returns the history payload of the share.
func (s Share) Payload(now time.Time) map[string]any {
	return map[string]any{
		"channel":    s.Channel,
		"to":         s.To,
		"note":       s.Note,
		"file":       Filename,
		"created_at": now.UTC().Format(history.TimeFormat),
	}
}

// Tags returns the history tags of the share.
func (s Share) Tags() []string {
	return []string{"brief", "share", s.Channel}
}

// Recipient is the display name of the recipient.
func (s Share) Recipient() string {
	if s.To == "" {
		return "recipient"
	}
	return s.To
}
