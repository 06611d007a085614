package notification

import "fmt"

// MessageKind tags the reminder categories. Each kind carries exactly
// the fields its rendering needs, so substitution stays exhaustive
// instead of going through free-text templates.
type MessageKind string

const (
	// KindWindowOpening fires shortly before a room's window opens.
	KindWindowOpening MessageKind = "window_opening"
	// KindWindowClosing fires while a window is open and running out.
	KindWindowClosing MessageKind = "window_closing"
)

// Message is one reminder to deliver to a room's subscribers.
type Message struct {
	Kind      MessageKind `json:"kind"`
	RoomID    int64       `json:"-"`
	RoomName  string      `json:"-"`
	Countdown string      `json:"-"`
	Urgency   string      `json:"-"`
}

// Title renders the alert title for the message kind.
func (m Message) Title() string {
	switch m.Kind {
	case KindWindowOpening:
		return fmt.Sprintf("%s opens soon", m.RoomName)
	case KindWindowClosing:
		return fmt.Sprintf("%s closes soon", m.RoomName)
	default:
		return m.RoomName
	}
}

// Body renders the alert body for the message kind.
func (m Message) Body() string {
	switch m.Kind {
	case KindWindowOpening:
		return fmt.Sprintf("The check-in window for %s opens in %s.", m.RoomName, m.Countdown)
	case KindWindowClosing:
		return fmt.Sprintf("Only %s left to submit proof for %s.", m.Countdown, m.RoomName)
	default:
		return ""
	}
}
