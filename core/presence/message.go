package presence

import (
	"encoding/json"
	"fmt"
)

// Message is one detector update. ViewerPresent is nil when the frame
// carries only a gesture.
type Message struct {
	ViewerPresent  *bool  `json:"viewer_present,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	SwipeDirection string `json:"swipe_direction,omitempty"`
}

func parseMessage(data []byte) (Message, error) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		return Message{}, fmt.Errorf("invalid presence message: %w", err)
	}
	return message, nil
}

// swipeDirection maps the detector's hand direction onto a selection step:
// a leftward swipe moves forward.
func swipeDirection(direction string) (int, bool) {
	switch direction {
	case "left":
		return 1, true
	case "right":
		return -1, true
	default:
		return 0, false
	}
}
