package steps

import (
	"encoding/json"
	"fmt"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
)

// FromIdentify seeds the combined result with the identify-stage fields.
func FromIdentify(id *IdentifyResult) *domain.ExternalAnalysisResult {
	return &domain.ExternalAnalysisResult{
		PlantInfo:        id.PlantInfo,
		IsHealthy:        id.IsHealthy,
		DiseaseName:      id.DiseaseName,
		DiseaseType:      id.DiseaseType,
		Confidence:       id.Confidence,
		Severity:         id.Severity,
		HealthScore:      id.HealthScore,
		SymptomsObserved: id.SymptomsObserved,
	}
}

// Merge overlays the enrich fields onto the result. Empty enrich fields
// leave the existing value alone.
func Merge(res *domain.ExternalAnalysisResult, enr *EnrichResult) {
	if desc := coerceDescription(enr.Description); desc != "" {
		res.Description = desc
	}
	if len(enr.Causes) > 0 {
		res.Causes = enr.Causes
	}
	if len(enr.ImmediateActions) > 0 {
		res.ImmediateActions = enr.ImmediateActions
	}
	if !enr.Treatment.Empty() {
		res.Treatment = enr.Treatment
	}
	if len(enr.Prevention) > 0 {
		res.Prevention = enr.Prevention
	}
	if !enr.WateringAdvice.Empty() {
		res.WateringAdvice = enr.WateringAdvice
	}
	if !enr.RecoveryTimeline.Empty() {
		res.RecoveryTimeline = enr.RecoveryTimeline
	}
	if enr.RiskIfUntreated != "" {
		res.RiskIfUntreated = enr.RiskIfUntreated
	}
}

// coerceDescription turns whatever JSON value the model produced into a
// plain string. Objects are re-marshaled compactly.
func coerceDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	compact, err := json.Marshal(json.RawMessage(raw))
	if err != nil {
		return ""
	}
	return string(compact)
}

// FillDefaults backfills generic treatment content when the enrich stage
// produced nothing usable.
func FillDefaults(res *domain.ExternalAnalysisResult, plantName, diseaseName string) {
	if res.Description == "" {
		res.Description = fmt.Sprintf("%s detected on %s. This condition requires attention.", diseaseName, plantName)
	}
	if len(res.Causes) == 0 {
		res.Causes = []string{fmt.Sprintf("%s is commonly caused by environmental stress or pathogens", diseaseName)}
	}
	if len(res.ImmediateActions) == 0 {
		res.ImmediateActions = []string{
			"Isolate the affected plant from healthy plants",
			"Remove heavily affected leaves and dispose of them",
			"Improve air circulation around the plant",
		}
	}
	if res.Treatment.Empty() {
		res.Treatment = domain.Treatment{
			Organic:  []string{"Apply neem oil spray (2 tsp per liter water, every 7 days)"},
			Chemical: []string{"Consult your local garden center for specific fungicide/pesticide"},
			Cultural: []string{"Ensure proper watering - avoid wetting leaves", "Improve drainage"},
		}
	}
	if len(res.Prevention) == 0 {
		res.Prevention = []string{"Regular monitoring", "Proper spacing between plants", "Good hygiene"}
	}
	if res.WateringAdvice.Empty() {
		res.WateringAdvice = domain.WateringAdvice{
			Frequency: "Water when top inch of soil is dry",
			Method:    "Water at the base, avoid wetting leaves",
			Amount:    "Until water drains from bottom",
		}
	}
	if res.RecoveryTimeline.Empty() {
		res.RecoveryTimeline = domain.RecoveryTimeline{
			FirstImprovement:    "1-2 weeks with proper treatment",
			SignificantRecovery: "3-4 weeks",
			FullRecovery:        "6-8 weeks",
		}
	}
	if res.RiskIfUntreated == "" {
		res.RiskIfUntreated = "The condition may spread and worsen, potentially killing the plant."
	}
}

// FillHealthyDefaults backfills the no-treatment content for a healthy
// identification.
func FillHealthyDefaults(res *domain.ExternalAnalysisResult, plantName string) {
	if res.Description == "" {
		res.Description = fmt.Sprintf("This %s appears to be in good health with no visible signs of disease.", plantName)
	}
	if len(res.ImmediateActions) == 0 {
		res.ImmediateActions = []string{
			"Continue current care routine",
			"Monitor for any changes in leaf color or texture",
			"Maintain consistent watering schedule",
		}
	}
	if res.Treatment.Empty() {
		res.Treatment = domain.Treatment{
			Organic:  []string{"No treatment needed - plant is healthy"},
			Chemical: []string{"No chemical treatment required"},
			Cultural: []string{"Continue good cultural practices"},
		}
	}
	if len(res.Prevention) == 0 {
		res.Prevention = []string{
			"Regular inspection of leaves and stems",
			"Proper watering and fertilizing schedule",
			"Good air circulation",
		}
	}
	if res.WateringAdvice.Empty() {
		res.WateringAdvice = domain.WateringAdvice{
			Frequency: "Follow regular schedule for this plant",
			Method:    "Water at soil level",
			Amount:    "Standard amount for the species",
		}
	}
	if res.RecoveryTimeline.Empty() {
		res.RecoveryTimeline = domain.RecoveryTimeline{
			FirstImprovement:    "N/A - Plant is healthy",
			SignificantRecovery: "N/A",
			FullRecovery:        "N/A",
		}
	}
	if res.RiskIfUntreated == "" {
		res.RiskIfUntreated = "No risk - plant is currently healthy."
	}
}
