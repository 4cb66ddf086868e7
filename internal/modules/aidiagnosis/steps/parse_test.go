package steps

import (
	"errors"
	"testing"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
)

const identifyPayload = `{
  "plant_info": {"common_name": "Tomato", "scientific_name": "Solanum lycopersicum"},
  "is_healthy": false,
  "disease_name": "Early Blight",
  "disease_type": "fungal",
  "confidence": 85,
  "severity": "moderate",
  "health_score": 45,
  "symptoms_observed": ["brown spots", "yellow halo"]
}`

func TestDecodeIdentifyFencedEqualsUnfenced(t *testing.T) {
	plain, err := DecodeIdentify(identifyPayload)
	if err != nil {
		t.Fatalf("plain decode: %v", err)
	}
	fenced, err := DecodeIdentify("```json\n" + identifyPayload + "\n```")
	if err != nil {
		t.Fatalf("fenced decode: %v", err)
	}
	if plain.DiseaseName != fenced.DiseaseName || plain.Confidence != fenced.Confidence {
		t.Fatalf("fenced and unfenced results differ: %+v vs %+v", plain, fenced)
	}
	if plain.DiseaseName != "Early Blight" || plain.HealthScore != 45 {
		t.Fatalf("unexpected decode: %+v", plain)
	}
}

func TestExtractJSONFromProse(t *testing.T) {
	text := "Here is my analysis of the plant:\n" + identifyPayload + "\nHope this helps!"
	got, err := DecodeIdentify(text)
	if err != nil {
		t.Fatalf("prose-wrapped decode: %v", err)
	}
	if got.DiseaseName != "Early Blight" {
		t.Fatalf("disease = %q", got.DiseaseName)
	}
}

func TestExtractJSONSkipsBrokenLeadingObject(t *testing.T) {
	text := `{"broken": } {"disease_name": "Rust", "confidence": 70}`
	got, err := DecodeIdentify(text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DiseaseName != "Rust" {
		t.Fatalf("disease = %q, want the first valid object", got.DiseaseName)
	}
}

func TestExtractJSONFailure(t *testing.T) {
	_, err := DecodeIdentify("the model refused to answer")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *domain.ParseError, got %T", err)
	}
}

func TestDecodeEnrichObjectDescription(t *testing.T) {
	text := `{"description": {"summary": "fungal", "spread": "fast"}, "risk_if_untreated": "plant death"}`
	enr, err := DecodeEnrich(text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	res := &domain.ExternalAnalysisResult{}
	Merge(res, enr)
	if res.Description == "" {
		t.Fatal("object description was dropped instead of re-marshaled")
	}
	if res.RiskIfUntreated != "plant death" {
		t.Fatalf("risk text = %q", res.RiskIfUntreated)
	}
}
