package logic

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
)

func TestProcessCriticalSevereScenario(t *testing.T) {
	e := NewEngine(nil)
	got := e.Process(&Input{
		Diagnosis:   "leaf spot",
		Confidence:  90,
		HealthScore: 15,
		Severity:    "severe",
	})

	for _, want := range []domain.ConditionTag{
		domain.CondCriticalPlantHealth,
		domain.CondSevereDisease,
		domain.CondEmergencyIntervention,
		domain.CondFungalDiseaseDetected,
		domain.CondHighConfidenceDiagnosis,
	} {
		if !got.Conditions.Has(want) {
			t.Fatalf("conditions %v missing %s", got.Conditions.Sorted(), want)
		}
	}
	if got.FollowUp.Schedule != "DAILY" {
		t.Fatalf("follow-up schedule = %q, want DAILY", got.FollowUp.Schedule)
	}
	if got.FollowUp.IntervalDays != 1 || got.FollowUp.DurationDays != 7 {
		t.Fatalf("follow-up cadence = %+v", got.FollowUp)
	}
	if got.DiseaseCategory != domain.CategoryFungal {
		t.Fatalf("category = %s, want FUNGAL", got.DiseaseCategory)
	}
}

func TestRiskBuckets(t *testing.T) {
	cases := []struct {
		name      string
		diagnosis string
		health    float64
		severity  string
		wantScore int
		wantLevel domain.RiskLevel
	}{
		// moderate(15) + spread(5)
		{"low", "unknown condition", 90, "moderate", 20, domain.RiskLow},
		// poor health(25), spread suppressed
		{"medium lower bound", "environmental_stress", 35, "", 25, domain.RiskMedium},
		// poor(25) + moderate(15) + spread(5)
		{"medium upper", "unknown condition", 35, "moderate", 45, domain.RiskMedium},
		// fungal(15) + severe(30) + spread(5)
		{"high lower bound", "rust", 70, "severe", 50, domain.RiskHigh},
		// poor(25) + severe(30) + fungal(15), spread suppressed
		{"high upper", "rust environmental_stress", 35, "severe", 70, domain.RiskHigh},
		// critical(40) + severe(30) + spread(5)
		{"critical lower bound", "unknown condition", 10, "severe", 75, domain.RiskCritical},
		// critical(40) + severe(30) + viral(20) + spread(5)
		{"critical max", "mosaic virus", 10, "severe", 95, domain.RiskCritical},
	}

	e := NewEngine(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Process(&Input{
				Diagnosis:   tc.diagnosis,
				Confidence:  60,
				HealthScore: tc.health,
				Severity:    tc.severity,
			})
			if got.Risk.RiskScore != tc.wantScore {
				t.Fatalf("risk score = %d, want %d", got.Risk.RiskScore, tc.wantScore)
			}
			if got.Risk.RiskLevel != tc.wantLevel {
				t.Fatalf("risk level = %s, want %s", got.Risk.RiskLevel, tc.wantLevel)
			}
		})
	}
}

func TestCategoryPriorityOrder(t *testing.T) {
	cases := []struct {
		diagnosis string
		want      domain.DiseaseCategory
	}{
		{"powdery mildew", domain.CategoryFungal},
		{"crown gall", domain.CategoryBacterial},
		{"mosaic virus", domain.CategoryViral},
		{"drought stress", domain.CategoryEnvironmental},
		{"pest infestation", domain.CategoryPestDamage},
		{"insect damage", domain.CategoryPestDamage},
		{"healthy", domain.CategoryHealthy},
		{"no disease detected", domain.CategoryHealthy},
		{"something odd", domain.CategoryUnknown},
		// Fungal vocabulary wins over the bacterial qualifier.
		{"bacterial leaf spot", domain.CategoryFungal},
	}
	for _, tc := range cases {
		if got := classifyDisease(tc.diagnosis); got != tc.want {
			t.Fatalf("classifyDisease(%q) = %s, want %s", tc.diagnosis, got, tc.want)
		}
	}
}

func TestProcessDeterministic(t *testing.T) {
	e := NewEngine(nil)
	in := &Input{Diagnosis: "rust", Confidence: 72, HealthScore: 55, Severity: "moderate", RawAnalysis: "orange pustules"}
	a := e.Process(in)
	b := e.Process(in)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different results")
	}
}

func TestProcessEmptyInput(t *testing.T) {
	e := NewEngine(nil)
	got := e.Process(nil)

	if !got.Conditions.Has(domain.CondErrorProcessing) {
		t.Fatalf("conditions = %v, want ERROR_PROCESSING_ANALYSIS", got.Conditions.Sorted())
	}
	if got.Risk.RiskLevel != domain.RiskUnknown || got.Risk.RiskScore != 50 {
		t.Fatalf("risk = %+v, want UNKNOWN/50", got.Risk)
	}
	if got.FollowUp.Schedule != "IMMEDIATE_REVIEW" {
		t.Fatalf("follow-up = %q, want IMMEDIATE_REVIEW", got.FollowUp.Schedule)
	}
}

func TestUrgentActionsSevereFungal(t *testing.T) {
	e := NewEngine(nil)
	got := e.Process(&Input{Diagnosis: "blight", Confidence: 85, HealthScore: 10, Severity: "severe"})
	want := []string{
		"ISOLATE PLANT: Prevent disease spread to other plants",
		"TREAT IMMEDIATELY: Disease is advancing rapidly",
		"APPLY FUNGICIDE: Fungal diseases spread quickly",
	}
	if !reflect.DeepEqual(got.UrgentActions, want) {
		t.Fatalf("urgent actions = %v, want %v", got.UrgentActions, want)
	}
}

func TestSuggestionsLowConfidence(t *testing.T) {
	e := NewEngine(nil)
	got := e.Process(&Input{Diagnosis: "something odd", Confidence: 30, HealthScore: 70})

	var found bool
	for _, s := range got.Suggestions {
		if s.Type == "DIAGNOSIS_CLARIFICATION" && s.Priority == domain.PriorityHigh {
			found = true
		}
	}
	if !found {
		t.Fatalf("suggestions %+v missing DIAGNOSIS_CLARIFICATION", got.Suggestions)
	}
	if !got.Conditions.Has(domain.CondLowConfidenceDiagnosis) || !got.Conditions.Has(domain.CondAmbiguousDiagnosis) {
		t.Fatalf("conditions = %v, want low-confidence flags", got.Conditions.Sorted())
	}
}

func TestSuggestionsIgnoreRawAnalysis(t *testing.T) {
	e := NewEngine(nil)
	got := e.Process(&Input{
		Diagnosis:   "rust",
		Confidence:  85,
		HealthScore: 70,
		Severity:    "mild",
		RawAnalysis: "leaves look dry and wilted with pale yellowing patches",
	})

	// The free-form text still drives condition flags.
	if !got.Conditions.Has(domain.CondWaterStressDetected) || !got.Conditions.Has(domain.CondNutrientDeficiency) {
		t.Fatalf("conditions = %v, want water and nutrient flags from raw text", got.Conditions.Sorted())
	}
	// Suggestions key off the diagnosis alone.
	for _, s := range got.Suggestions {
		if s.Type == "WATER_MANAGEMENT" || s.Type == "NUTRIENT_MANAGEMENT" {
			t.Fatalf("suggestion %s triggered by raw text, not the diagnosis", s.Type)
		}
	}
}

func TestConditionSetSemantics(t *testing.T) {
	set := domain.NewConditionSet(
		domain.CondSevereDisease,
		domain.CondCriticalPlantHealth,
		domain.CondSevereDisease,
	)
	if len(set) != 2 {
		t.Fatalf("set size = %d, want 2 (duplicates collapse)", len(set))
	}
	out, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `["CRITICAL_PLANT_HEALTH","SEVERE_DISEASE"]`
	if string(out) != want {
		t.Fatalf("serialized = %s, want sorted %s", out, want)
	}
}
