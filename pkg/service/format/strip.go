package format

// StripEmpty recursively removes empty values from decoded JSON data:
// nils, empty strings, empty slices, and maps that end up empty once
// their values are stripped. false and 0 are meaningful and survive.
// Returns nil when the whole value strips away.
func StripEmpty(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return val
	case map[string]any:
		stripped := make(map[string]any, len(val))
		for k, item := range val {
			if s := StripEmpty(item); s != nil {
				stripped[k] = s
			}
		}
		if len(stripped) == 0 {
			return nil
		}
		return stripped
	case []any:
		stripped := make([]any, 0, len(val))
		for _, item := range val {
			if s := StripEmpty(item); s != nil {
				stripped = append(stripped, s)
			}
		}
		if len(stripped) == 0 {
			return nil
		}
		return stripped
	default:
		return v
	}
}

// StripMessage strips a message record and restores the text field,
// which every message must carry even when empty. File shares and some
// bot messages legitimately have no text.
func StripMessage(msg map[string]any) map[string]any {
	stripped, _ := StripEmpty(msg).(map[string]any)
	if stripped == nil {
		stripped = map[string]any{}
	}
	if _, ok := stripped["text"]; !ok {
		stripped["text"] = ""
	}
	return stripped
}
