package steps

import (
	"encoding/json"
	"strings"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
)

// IdentifyResult mirrors the identify-stage response schema.
type IdentifyResult struct {
	PlantInfo        domain.PlantInfo `json:"plant_info"`
	IsHealthy        bool             `json:"is_healthy"`
	DiseaseName      string           `json:"disease_name"`
	DiseaseType      string           `json:"disease_type"`
	Confidence       float64          `json:"confidence"`
	Severity         string           `json:"severity"`
	HealthScore      float64          `json:"health_score"`
	SymptomsObserved []string         `json:"symptoms_observed"`
}

// EnrichResult mirrors the enrich-stage response schema. Description stays
// raw because models occasionally return an object there.
type EnrichResult struct {
	Description      json.RawMessage         `json:"description"`
	Causes           []string                `json:"causes"`
	ImmediateActions []string                `json:"immediate_actions"`
	Treatment        domain.Treatment        `json:"treatment"`
	Prevention       []string                `json:"prevention"`
	WateringAdvice   domain.WateringAdvice   `json:"watering_advice"`
	RecoveryTimeline domain.RecoveryTimeline `json:"recovery_timeline"`
	RiskIfUntreated  string                  `json:"risk_if_untreated"`
}

// DecodeIdentify parses identify-stage model output.
func DecodeIdentify(text string) (*IdentifyResult, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var out IdentifyResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &domain.ParseError{Reason: "identify payload shape", Snippet: clip(text)}
	}
	return &out, nil
}

// DecodeEnrich parses enrich-stage model output.
func DecodeEnrich(text string) (*EnrichResult, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var out EnrichResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &domain.ParseError{Reason: "enrich payload shape", Snippet: clip(text)}
	}
	return &out, nil
}

// ExtractJSON pulls one JSON object out of model text. Staged: strip
// markdown fences, try the whole cleaned text, then scan for the first
// balanced brace pair that decodes. Fenced and unfenced payloads yield the
// same object.
func ExtractJSON(text string) ([]byte, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) && strings.HasPrefix(cleaned, "{") {
		return []byte(cleaned), nil
	}

	depth := 0
	start := -1
	for i, ch := range cleaned {
		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				candidate := cleaned[start : i+1]
				if json.Valid([]byte(candidate)) {
					return []byte(candidate), nil
				}
				start = -1
			}
		}
	}
	return nil, &domain.ParseError{Reason: "no JSON object found", Snippet: clip(text)}
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
