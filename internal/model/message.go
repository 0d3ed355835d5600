package model

import "strconv"

// ActionKindURL is the only action kind with a built-in side effect:
// opening the action's target URI. Unrecognized kinds are structurally
// valid and only notify observers when chosen.
const ActionKindURL = "url"

// Action is one selectable option attached to a Message. The wire field
// names ("title", "action", "url") are fixed by the server format.
type Action struct {
	// Label is the text shown on the button.
	Label string `json:"title"`

	// Kind tags what choosing this action does. Open-ended; only
	// ActionKindURL is recognized today.
	Kind string `json:"action"`

	// Target is the URI to open when Kind is "url". Unset otherwise.
	Target string `json:"url,omitempty"`
}

// Message is a single broadcast payload fetched from the announcement
// server and shown at most once per installation.
type Message struct {
	// ID identifies this broadcast. Used for equality-based dedup only,
	// never for ordering.
	ID int `json:"id"`

	// Title is the headline shown to the user.
	Title string `json:"title"`

	// Body is the message text. The server calls this field "message".
	Body string `json:"message"`

	// Actions are the selectable options, in display order.
	Actions []Action `json:"buttons"`
}

// MessageFromPayload builds a Message from a decoded JSON payload that
// already passed structural validation. Scalar fields are coerced the
// way a lenient client would: numbers and numeric strings both work
// for the id, anything else stringifies to its literal form.
func MessageFromPayload(payload map[string]any) Message {
	msg := Message{
		ID:    asInt(payload["id"]),
		Title: asString(payload["title"]),
		Body:  asString(payload["message"]),
	}

	buttons, _ := payload["buttons"].([]any)
	for _, b := range buttons {
		entry, ok := b.(map[string]any)
		if !ok {
			continue
		}
		msg.Actions = append(msg.Actions, Action{
			Label:  asString(entry["title"]),
			Kind:   asString(entry["action"]),
			Target: asString(entry["url"]),
		})
	}

	return msg
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
