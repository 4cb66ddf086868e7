package steps

import "github.com/verdantlabs/leafsense-backend/internal/domain"

// Validate defaults missing fields and normalizes scores so every caller
// sees the same shape. Confidence is normalized to the 0-100 scale exactly
// once: a fractional value is treated as a ratio, anything else is clamped.
func Validate(res *domain.ExternalAnalysisResult) {
	if res.DiseaseName == "" {
		res.DiseaseName = "Unknown"
	}
	if res.DiseaseType == "" {
		res.DiseaseType = "unknown"
	}
	if res.Severity == "" {
		res.Severity = "moderate"
	}
	if res.Confidence == 0 {
		res.Confidence = 50
	}
	if res.HealthScore == 0 {
		res.HealthScore = 50
	}

	if res.Confidence > 0 && res.Confidence <= 1.0 {
		res.Confidence *= 100
	}
	res.Confidence = clamp(res.Confidence, 0, 100)
	res.HealthScore = clamp(res.HealthScore, 0, 100)

	if res.PlantInfo.CommonName == "" {
		res.PlantInfo.CommonName = "Unknown Plant"
	}
	if res.SymptomsObserved == nil {
		res.SymptomsObserved = []string{}
	}
	if res.Causes == nil {
		res.Causes = []string{}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
