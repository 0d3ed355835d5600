package announce

// ValidPayload reports whether a decoded JSON value has the shape of an
// announcement message. Malformed server payloads are an expected
// operating condition, so this is a boolean check and never an error.
//
// Required shape: an object with keys "id", "title", "message" and
// "buttons"; "buttons" must be an array whose elements are objects with
// "title" and "action"; an "action" of "url" additionally requires a
// "url" key. Scalar field types beyond the array-ness of "buttons" are
// not inspected.
func ValidPayload(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}

	for _, key := range []string{"id", "title", "message"} {
		if _, ok := obj[key]; !ok {
			return false
		}
	}

	buttons, ok := obj["buttons"].([]any)
	if !ok {
		return false
	}

	for _, b := range buttons {
		entry, ok := b.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := entry["title"]; !ok {
			return false
		}
		action, ok := entry["action"]
		if !ok {
			return false
		}
		if kind, _ := action.(string); kind == "url" {
			if _, ok := entry["url"]; !ok {
				return false
			}
		}
	}

	return true
}
