package normalize

import (
	"bytes"
	"encoding/json"

	"advisory_portal/internal/leads/domain"
)

// ParseGoals normalizes financial goals stored as an array or a comma-joined string.
func ParseGoals(raw json.RawMessage) []string {
	return parseList(raw)
}

// ParseSpecializations normalizes advisor specializations stored as an array or a comma-joined string.
func ParseSpecializations(raw json.RawMessage) []string {
	return parseList(raw)
}

func parseList(raw json.RawMessage) []string {
	var list FlexStrings
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return []string{}
	}
	return []string(list)
}

// NormalizeDisqualification merges the two formats the workflow engine has used:
// a reason array with an optional parallel display array, or a single legacy
// comma-joined string. The array wins when it is non-empty. Unknown codes keep
// their code as label, and Keys and Labels always have the same length.
func NormalizeDisqualification(reasons, display, legacy json.RawMessage) domain.Disqualification {
	keys := parseList(reasons)
	if len(keys) > 0 {
		labels := parseList(display)
		if len(labels) != len(keys) {
			labels = labelsFor(keys)
		}
		return domain.Disqualification{Keys: keys, Labels: labels}
	}

	keys = parseList(legacy)
	return domain.Disqualification{Keys: keys, Labels: labelsFor(keys)}
}

func labelsFor(keys []string) []string {
	labels := make([]string, len(keys))
	for i, key := range keys {
		labels[i] = domain.DisqualificationLabel(key)
	}
	return labels
}

// SafeJSON decodes a field that may hold JSON text or an already-decoded value.
// Empty, null, false, 0 and "" yield fallback, as does text that is not valid JSON
// or a value that does not fit T.
func SafeJSON[T any](raw json.RawMessage, fallback T) T {
	value, ok := structured(raw)
	if !ok {
		return fallback
	}
	var out T
	if err := json.Unmarshal(value, &out); err != nil {
		return fallback
	}
	return out
}

// Structured canonicalizes a JSON-text-or-object field for storage on a Lead:
// JSON text is replaced by the value it encodes, other text is kept as a string,
// and falsy or malformed values become nil.
func Structured(raw json.RawMessage) json.RawMessage {
	if value, ok := structured(raw); ok {
		return value
	}
	trimmed := bytes.TrimSpace(raw)
	if isFalsy(trimmed) || trimmed[0] != '"' || !json.Valid(trimmed) {
		return nil
	}
	return append(json.RawMessage(nil), trimmed...)
}

func structured(raw json.RawMessage) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if isFalsy(trimmed) {
		return nil, false
	}
	if trimmed[0] != '"' {
		if !json.Valid(trimmed) {
			return nil, false
		}
		return trimmed, true
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return nil, false
	}
	inner := bytes.TrimSpace([]byte(text))
	if len(inner) == 0 || !json.Valid(inner) {
		return nil, false
	}
	return inner, true
}

func isFalsy(trimmed []byte) bool {
	switch string(trimmed) {
	case "", "null", "false", "0", `""`:
		return true
	default:
		return false
	}
}

type advisorMatchWire struct {
	AdvisorID   FlexString `json:"advisorId"`
	AdvisorName FlexString `json:"advisorName"`
	MatchScore  FlexNumber `json:"matchScore"`
	Reasoning   FlexString `json:"reasoning"`
}

// AdvisorRanking decodes the advisor match ranking, best match first.
func AdvisorRanking(lead domain.Lead) []domain.AdvisorMatch {
	wire := SafeJSON[[]advisorMatchWire](lead.AdvisorMatchRanking, nil)
	out := make([]domain.AdvisorMatch, 0, len(wire))
	for _, entry := range wire {
		out = append(out, domain.AdvisorMatch{
			AdvisorID:   string(entry.AdvisorID),
			AdvisorName: string(entry.AdvisorName),
			MatchScore:  float64(entry.MatchScore),
			Reasoning:   string(entry.Reasoning),
		})
	}
	return out
}

// RiskFlags decodes the risk flag list.
func RiskFlags(lead domain.Lead) []domain.RiskFlag {
	return SafeJSON(lead.RiskFlags, []domain.RiskFlag{})
}

// ConversationStarters decodes the conversation starter list.
func ConversationStarters(lead domain.Lead) []string {
	return SafeJSON(lead.ConversationStarters, []string{})
}

// ServiceTier decodes the recommended service tier.
func ServiceTier(lead domain.Lead) domain.ServiceTier {
	return SafeJSON(lead.RecommendedServiceTier, domain.ServiceTier{})
}

// SuggestedBooking decodes the proposed booking, or nil.
func SuggestedBooking(lead domain.Lead) *domain.SuggestedBooking {
	return SafeJSON[*domain.SuggestedBooking](lead.SuggestedBooking, nil)
}

// PrepBrief decodes the consultation prep brief as an opaque object, or nil.
func PrepBrief(lead domain.Lead) map[string]any {
	return SafeJSON[map[string]any](lead.ConsultationPrepBrief, nil)
}

// FlexJSON holds a JSON-text-or-object value canonicalized by Structured.
type FlexJSON json.RawMessage

func (f *FlexJSON) UnmarshalJSON(data []byte) error {
	*f = FlexJSON(Structured(data))
	return nil
}

func (f FlexJSON) MarshalJSON() ([]byte, error) {
	if len(f) == 0 {
		return []byte("null"), nil
	}
	return []byte(f), nil
}
