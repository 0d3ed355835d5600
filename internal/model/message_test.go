package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageFromPayload(t *testing.T) {
	raw := `{
		"id": 7,
		"title": "New release",
		"message": "Version 2.0 is out.",
		"buttons": [
			{"title": "Read more", "action": "url", "url": "https://example.com"},
			{"title": "OK", "action": "dismiss"}
		]
	}`

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	msg := MessageFromPayload(payload)
	assert.Equal(t, 7, msg.ID)
	assert.Equal(t, "New release", msg.Title)
	assert.Equal(t, "Version 2.0 is out.", msg.Body)
	require.Len(t, msg.Actions, 2)
	assert.Equal(t, Action{Label: "Read more", Kind: "url", Target: "https://example.com"}, msg.Actions[0])
	assert.Equal(t, Action{Label: "OK", Kind: "dismiss"}, msg.Actions[1])
}

func TestMessageFromPayload_CoercesNumericStringID(t *testing.T) {
	msg := MessageFromPayload(map[string]any{
		"id":      "12",
		"title":   "t",
		"message": "m",
		"buttons": []any{},
	})
	assert.Equal(t, 12, msg.ID)
	assert.Empty(t, msg.Actions)
}

func TestMessageFromPayload_ButtonOrderPreserved(t *testing.T) {
	payload := map[string]any{
		"id":      float64(1),
		"title":   "t",
		"message": "m",
		"buttons": []any{
			map[string]any{"title": "first", "action": "a"},
			map[string]any{"title": "second", "action": "b"},
			map[string]any{"title": "third", "action": "c"},
		},
	}

	msg := MessageFromPayload(payload)
	labels := make([]string, 0, len(msg.Actions))
	for _, a := range msg.Actions {
		labels = append(labels, a.Label)
	}
	assert.Equal(t, []string{"first", "second", "third"}, labels)
}
