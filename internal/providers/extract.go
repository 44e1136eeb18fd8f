package providers

import (
	"encoding/json"
)

// Extractor pulls generated text out of one response shape. ok is false when
// the body is not in that shape or carries no text.
type Extractor struct {
	Name    string
	Extract func(body json.RawMessage) (text string, ok bool)
}

// Extractors is the ordered list of response shapes the inference API is
// known to return. The first extractor that yields text wins.
var Extractors = []Extractor{
	{Name: "array", Extract: extractArray},
	{Name: "string", Extract: extractString},
	{Name: "object", Extract: extractObject},
}

type generation struct {
	GeneratedText *string `json:"generated_text"`
	Text          *string `json:"text"`
}

// ExtractText runs Extractors in order and reports which one matched.
func ExtractText(body json.RawMessage) (text, strategy string, ok bool) {
	for _, e := range Extractors {
		if text, ok := e.Extract(body); ok {
			return text, e.Name, true
		}
	}
	return "", "", false
}

// extractArray handles [{"generated_text": "..."}] and [{"text": "..."}],
// looking only at the first element.
func extractArray(body json.RawMessage) (string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil || len(items) == 0 {
		return "", false
	}

	var first generation
	if err := json.Unmarshal(items[0], &first); err != nil {
		return "", false
	}
	if first.GeneratedText != nil && *first.GeneratedText != "" {
		return *first.GeneratedText, true
	}
	if first.Text != nil && *first.Text != "" {
		return *first.Text, true
	}
	return "", false
}

func extractString(body json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(body, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func extractObject(body json.RawMessage) (string, bool) {
	var obj generation
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", false
	}
	if obj.GeneratedText == nil || *obj.GeneratedText == "" {
		return "", false
	}
	return *obj.GeneratedText, true
}
