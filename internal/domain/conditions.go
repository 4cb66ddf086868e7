package domain

import (
	"encoding/json"
	"sort"
)

// ConditionTag is the closed vocabulary of flags the logic engine can raise.
type ConditionTag string

const (
	CondLowConfidenceDiagnosis  ConditionTag = "LOW_CONFIDENCE_DIAGNOSIS"
	CondAmbiguousDiagnosis      ConditionTag = "AMBIGUOUS_DIAGNOSIS"
	CondHighConfidenceDiagnosis ConditionTag = "HIGH_CONFIDENCE_DIAGNOSIS"
	CondCriticalPlantHealth     ConditionTag = "CRITICAL_PLANT_HEALTH"
	CondPoorPlantHealth         ConditionTag = "POOR_PLANT_HEALTH"
	CondFairPlantHealth         ConditionTag = "FAIR_PLANT_HEALTH"
	CondGoodPlantHealth         ConditionTag = "GOOD_PLANT_HEALTH"
	CondFungalDiseaseDetected   ConditionTag = "FUNGAL_DISEASE_DETECTED"
	CondBacterialDisease        ConditionTag = "BACTERIAL_DISEASE_DETECTED"
	CondViralDiseaseDetected    ConditionTag = "VIRAL_DISEASE_DETECTED"
	CondWaterStressDetected     ConditionTag = "WATER_STRESS_DETECTED"
	CondNutrientDeficiency      ConditionTag = "NUTRIENT_DEFICIENCY_DETECTED"
	CondSevereDisease           ConditionTag = "SEVERE_DISEASE"
	CondModerateDisease         ConditionTag = "MODERATE_DISEASE"
	CondMildDisease             ConditionTag = "MILD_DISEASE"
	CondEmergencyIntervention   ConditionTag = "EMERGENCY_INTERVENTION_NEEDED"
	CondEnvironmentalStressOnly ConditionTag = "ENVIRONMENTAL_STRESS_ONLY"
	CondPlantAppearsHealthy     ConditionTag = "PLANT_APPEARS_HEALTHY"
	CondErrorProcessing         ConditionTag = "ERROR_PROCESSING_ANALYSIS"
)

// ConditionSet holds raised tags without duplicates or ordering.
// Serialization is sorted so equal sets always render identically.
type ConditionSet map[ConditionTag]struct{}

func NewConditionSet(tags ...ConditionTag) ConditionSet {
	s := make(ConditionSet, len(tags))
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

func (s ConditionSet) Add(t ConditionTag) {
	s[t] = struct{}{}
}

func (s ConditionSet) Has(t ConditionTag) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the tags in lexical order.
func (s ConditionSet) Sorted() []ConditionTag {
	out := make([]ConditionTag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s ConditionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *ConditionSet) UnmarshalJSON(data []byte) error {
	var tags []ConditionTag
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewConditionSet(tags...)
	return nil
}
