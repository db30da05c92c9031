package voice

import "encoding/json"

// CloneError is returned when the provider rejects a voice-creation request,
// e.g. a sample that is too short or a quota that is exhausted.
type CloneError struct {
	Message string
}

func (e *CloneError) Error() string {
	return "voice clone failed: " + e.Message
}

// SynthesisError is returned when the provider fails to generate speech for
// the given text and voice.
type SynthesisError struct {
	Message string
}

func (e *SynthesisError) Error() string {
	return "speech synthesis failed: " + e.Message
}

const unknownAPIError = "unknown error"

// extractors are tried in order against a decoded error body; the first one
// that yields a non-empty string wins.
var extractors = []func(map[string]json.RawMessage) string{
	extractDetailString,
	extractDetailMessage,
	extractDetailList,
	extractField("message"),
	extractField("error"),
}

// parseAPIError collapses the provider's heterogeneous error bodies into a
// single human-readable string. ElevenLabs reports errors as a plain string
// detail, a nested detail.message, a FastAPI-style list of validation errors,
// or a generic message/error field depending on the endpoint and failure.
// Unrecognized JSON falls back to the raw body text; non-JSON bodies fall
// back to the body itself or a generic message when empty.
func parseAPIError(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		if len(body) > 0 {
			return string(body)
		}
		return unknownAPIError
	}

	for _, extract := range extractors {
		if msg := extract(fields); msg != "" {
			return msg
		}
	}

	if len(body) > 0 {
		return string(body)
	}
	return unknownAPIError
}

func extractDetailString(fields map[string]json.RawMessage) string {
	raw, ok := fields["detail"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func extractDetailMessage(fields map[string]json.RawMessage) string {
	raw, ok := fields["detail"]
	if !ok {
		return ""
	}
	var detail struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &detail); err != nil {
		return ""
	}
	return detail.Message
}

func extractDetailList(fields map[string]json.RawMessage) string {
	raw, ok := fields["detail"]
	if !ok {
		return ""
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return ""
	}
	return items[0].Msg
}

func extractField(name string) func(map[string]json.RawMessage) string {
	return func(fields map[string]json.RawMessage) string {
		raw, ok := fields[name]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
}
