// Package normalizer flattens the agent service's inconsistent response
// envelopes into a ParsedResponse. The upstream is a black box whose shape
// has varied across manager/sub-agent routing paths and versions; the probe
// order below encodes the shapes observed in production and must not be
// reordered, since a different order can silently change which answer text
// is surfaced for ambiguous payloads.
package normalizer

import (
	"encoding/json"
	"strings"

	"medrep-hub-backend/internal/models"
)

// alternateAnswerKeys is the fixed priority list probed when a candidate
// object carries no "answer" field.
var alternateAnswerKeys = []string{"text", "response", "content", "message", "answer_text", "summary", "output"}

// Normalize produces a best-effort ParsedResponse from one agent
// invocation's decoded JSON body. It never fails: every lookup is optional
// and every field has a fallback default.
func Normalize(v any) models.ParsedResponse {
	out := defaults()

	// A bare string body is the answer itself.
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) != "" {
			out.Answer = s
		}
		return out
	}

	root := asObject(v)
	resp := asObject(root["response"])

	candidate, answer := probeResult(resp)
	if answer == "" {
		candidate, answer = probeMessage(resp)
	}
	if answer == "" {
		candidate, answer = probeTopLevel(root)
	}
	if answer == "" {
		candidate, answer = probeRawResponse(root)
	}
	if answer == "" {
		return out
	}

	out.Answer = answer
	out.SourcesConsulted = SafeStringArray(candidate["sources_consulted"])
	out.DomainsAccessed = SafeStringArray(candidate["domains_accessed"])
	out.Flags = SafeStringArray(candidate["flags"])
	if s := stringField(candidate, "compliance_status"); s != "" {
		out.ComplianceStatus = strings.ToLower(s)
	}
	if s := stringField(candidate, "confidence"); s != "" {
		out.Confidence = strings.ToLower(s)
	}
	return out
}

// NormalizeJSON decodes a raw JSON body and normalizes it. An undecodable
// body degrades to the all-default record, never an error.
func NormalizeJSON(raw []byte) models.ParsedResponse {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return defaults()
	}
	return Normalize(v)
}

func defaults() models.ParsedResponse {
	return models.ParsedResponse{
		SourcesConsulted: []string{},
		ComplianceStatus: "compliant",
		DomainsAccessed:  []string{},
		Confidence:       "medium",
		Flags:            []string{},
	}
}

// probeResult inspects response.result. A stringified JSON object is
// re-parsed and its fields merged over the enclosing response object.
func probeResult(resp map[string]any) (map[string]any, string) {
	result, present := resp["result"]
	if !present || result == nil {
		return nil, ""
	}
	candidate := overlay(resp, objectForm(result))
	if answer := stringField(candidate, "answer"); answer != "" {
		return candidate, answer
	}
	for _, key := range alternateAnswerKeys {
		if answer := stringField(candidate, key); answer != "" {
			return candidate, answer
		}
	}
	return nil, ""
}

// probeMessage inspects response.message: an object (or stringified object)
// carrying "answer" wins; otherwise a non-empty string is the answer itself,
// with metadata drawn from the enclosing response object.
func probeMessage(resp map[string]any) (map[string]any, string) {
	msg, present := resp["message"]
	if !present || msg == nil {
		return nil, ""
	}
	if obj := objectForm(msg); obj != nil {
		if answer := stringField(obj, "answer"); answer != "" {
			return obj, answer
		}
	}
	if s, ok := msg.(string); ok && strings.TrimSpace(s) != "" {
		return resp, s
	}
	return nil, ""
}

// probeTopLevel inspects answer, then text, then message directly on the
// result value. message is only adopted when it is a string.
func probeTopLevel(root map[string]any) (map[string]any, string) {
	if answer := stringField(root, "answer"); answer != "" {
		return root, answer
	}
	if answer := stringField(root, "text"); answer != "" {
		return root, answer
	}
	if answer := stringField(root, "message"); answer != "" {
		return root, answer
	}
	return nil, ""
}

// probeRawResponse applies the message logic to a top-level raw_response.
func probeRawResponse(root map[string]any) (map[string]any, string) {
	raw, present := root["raw_response"]
	if !present || raw == nil {
		return nil, ""
	}
	if obj := objectForm(raw); obj != nil {
		if answer := stringField(obj, "answer"); answer != "" {
			return obj, answer
		}
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
		return root, s
	}
	return nil, ""
}

// SafeStringArray coerces an arbitrary value into a string sequence:
// a sequence stringifies element-wise in order; a string is JSON-parsed and
// accepted if it decodes to a sequence, otherwise it becomes a single
// element (or nothing when blank); any other type yields an empty sequence.
func SafeStringArray(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, el := range val {
			out = append(out, stringify(el))
		}
		return out
	case []string:
		return append([]string{}, val...)
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		var parsed []any
		if err := json.Unmarshal([]byte(val), &parsed); err == nil {
			out := make([]string, 0, len(parsed))
			for _, el := range parsed {
				out = append(out, stringify(el))
			}
			return out
		}
		return []string{val}
	default:
		return []string{}
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// objectForm returns the value as an object: maps pass through, strings
// starting with "{" are JSON-parsed, anything else is nil.
func objectForm(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if !strings.HasPrefix(trimmed, "{") {
			return nil
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			return nil
		}
		return parsed
	default:
		return nil
	}
}

// overlay merges over's fields on top of base without mutating either.
func overlay(base, over map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return ""
}
