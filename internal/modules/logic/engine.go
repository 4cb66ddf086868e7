package logic

import (
	"strings"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
	"github.com/verdantlabs/leafsense-backend/internal/platform/logger"
)

// Confidence thresholds (percent scale).
const (
	HighConfidenceThreshold   = 80.0
	MediumConfidenceThreshold = 50.0
)

// Health score bands (percent scale).
const (
	HealthCriticalThreshold = 20.0
	HealthPoorThreshold     = 40.0
	HealthFairThreshold     = 60.0
	HealthGoodThreshold     = 80.0
)

// Input is the diagnosis summary the engine interprets. Confidence and
// HealthScore are on the 0-100 scale.
type Input struct {
	Diagnosis   string
	Confidence  float64
	HealthScore float64
	Severity    string
	RawAnalysis string
}

// Engine derives conditions, suggestions, urgent actions, risk and a
// follow-up schedule from a diagnosis. Pure decision logic: no external
// calls, fully deterministic.
type Engine struct {
	log *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{log: log.With("service", "logic_engine")}
}

// Process never panics; a nil input yields the designated error-shaped
// result so downstream consumers keep a uniform record shape.
func (e *Engine) Process(in *Input) domain.ProcessedAnalysis {
	if in == nil {
		return e.errorResult("Empty analysis")
	}

	diagnosis := strings.ToLower(strings.TrimSpace(in.Diagnosis))
	severity := strings.ToLower(strings.TrimSpace(in.Severity))
	if severity == "" {
		severity = "unknown"
	}
	raw := strings.ToLower(in.RawAnalysis)

	category := classifyDisease(diagnosis)
	result := domain.ProcessedAnalysis{
		OriginalAnalysis: diagnosis,
		Confidence:       in.Confidence,
		HealthScore:      in.HealthScore,
		Severity:         severity,
		Conditions:       e.evaluateConditions(diagnosis, raw, in.Confidence, in.HealthScore, severity),
		DiseaseCategory:  category,
	}
	result.Suggestions = e.suggestions(diagnosis, in.Confidence, in.HealthScore, severity, category)
	result.UrgentActions = urgentActions(in.HealthScore, severity, category)
	result.Risk = assessRisk(diagnosis, in.HealthScore, severity)
	result.FollowUp = followUp(in.HealthScore)

	e.log.Debug("analysis processed",
		"category", category,
		"conditions", len(result.Conditions),
		"risk_level", result.Risk.RiskLevel,
	)
	return result
}

func (e *Engine) evaluateConditions(diagnosis, raw string, confidence, healthScore float64, severity string) domain.ConditionSet {
	set := domain.NewConditionSet()

	if confidence < MediumConfidenceThreshold {
		set.Add(domain.CondLowConfidenceDiagnosis)
		set.Add(domain.CondAmbiguousDiagnosis)
	}
	if confidence >= HighConfidenceThreshold {
		set.Add(domain.CondHighConfidenceDiagnosis)
	}

	if healthScore <= HealthCriticalThreshold {
		set.Add(domain.CondCriticalPlantHealth)
	}
	if healthScore <= HealthPoorThreshold {
		set.Add(domain.CondPoorPlantHealth)
	}
	if healthScore <= HealthFairThreshold {
		set.Add(domain.CondFairPlantHealth)
	}
	if healthScore >= HealthGoodThreshold {
		set.Add(domain.CondGoodPlantHealth)
	}

	if containsAny(diagnosis, fungalDiseases) {
		set.Add(domain.CondFungalDiseaseDetected)
	}
	if containsAny(diagnosis, bacterialDiseases) {
		set.Add(domain.CondBacterialDisease)
	}
	if containsAny(diagnosis, viralDiseases) {
		set.Add(domain.CondViralDiseaseDetected)
	}
	if containsAny(diagnosis+" "+raw, waterIndicators) {
		set.Add(domain.CondWaterStressDetected)
	}
	if containsAny(diagnosis+" "+raw, nutrientIndicators) {
		set.Add(domain.CondNutrientDeficiency)
	}

	switch severity {
	case "severe":
		set.Add(domain.CondSevereDisease)
	case "moderate":
		set.Add(domain.CondModerateDisease)
	case "mild":
		set.Add(domain.CondMildDisease)
	}

	if healthScore <= HealthCriticalThreshold && severity == "severe" {
		set.Add(domain.CondEmergencyIntervention)
	}
	if containsAny(diagnosis, environmentalStresses) && !containsAny(diagnosis, diseaseIndicators) {
		set.Add(domain.CondEnvironmentalStressOnly)
	}
	if healthScore >= HealthGoodThreshold && confidence >= MediumConfidenceThreshold {
		set.Add(domain.CondPlantAppearsHealthy)
	}

	return set
}

// classifyDisease picks the first matching family in fixed priority order.
func classifyDisease(diagnosis string) domain.DiseaseCategory {
	switch {
	case containsAny(diagnosis, fungalDiseases):
		return domain.CategoryFungal
	case containsAny(diagnosis, bacterialDiseases):
		return domain.CategoryBacterial
	case containsAny(diagnosis, viralDiseases):
		return domain.CategoryViral
	case containsAny(diagnosis, environmentalStresses):
		return domain.CategoryEnvironmental
	case strings.Contains(diagnosis, "pest") || strings.Contains(diagnosis, "insect"):
		return domain.CategoryPestDamage
	case strings.Contains(diagnosis, "healthy") || strings.Contains(diagnosis, "no disease"):
		return domain.CategoryHealthy
	default:
		return domain.CategoryUnknown
	}
}

// suggestions keys off the diagnosis text alone; the free-form raw analysis
// only feeds condition evaluation.
func (e *Engine) suggestions(diagnosis string, confidence, healthScore float64, severity string, category domain.DiseaseCategory) []domain.Suggestion {
	var out []domain.Suggestion

	if category == domain.CategoryFungal {
		switch severity {
		case "severe":
			out = append(out, domain.Suggestion{
				Type:     "FUNGAL_DISEASE_TREATMENT",
				Priority: domain.PriorityUrgent,
				Action:   "Apply fungicide immediately",
				Details: []string{
					"Use broad-spectrum fungicide (e.g., sulfur, copper)",
					"Apply every 7-10 days until improvement",
					"Remove affected leaves",
					"Improve air circulation",
					"Reduce leaf wetness (avoid overhead watering)",
				},
			})
		case "moderate":
			out = append(out, domain.Suggestion{
				Type:     "FUNGAL_DISEASE_TREATMENT",
				Priority: domain.PriorityHigh,
				Action:   "Treat fungal infection",
				Details: []string{
					"Apply fungicide spray",
					"Repeat treatment every 10-14 days",
					"Remove moderately affected leaves",
					"Improve air circulation and reduce humidity",
				},
			})
		default:
			out = append(out, domain.Suggestion{
				Type:     "FUNGAL_DISEASE_TREATMENT",
				Priority: domain.PriorityMedium,
				Action:   "Monitor and treat early fungal signs",
				Details: []string{
					"Apply preventative fungicide",
					"Remove affected leaves",
					"Monitor closely for spread",
				},
			})
		}
	}

	if category == domain.CategoryBacterial {
		if severity == "severe" {
			out = append(out, domain.Suggestion{
				Type:     "BACTERIAL_DISEASE_TREATMENT",
				Priority: domain.PriorityUrgent,
				Action:   "Address bacterial infection urgently",
				Details: []string{
					"Remove severely affected plant parts",
					"Apply copper-based bactericide",
					"Sterilize tools between cuts",
					"Avoid watering foliage",
					"Consider plant removal if severely infected",
				},
			})
		} else {
			out = append(out, domain.Suggestion{
				Type:     "BACTERIAL_DISEASE_TREATMENT",
				Priority: domain.PriorityHigh,
				Action:   "Treat bacterial infection",
				Details: []string{
					"Apply copper spray",
					"Remove infected plant material",
					"Prevent wetting of leaves",
					"Improve drainage",
				},
			})
		}
	}

	if category == domain.CategoryViral {
		out = append(out, domain.Suggestion{
			Type:     "VIRAL_DISEASE_TREATMENT",
			Priority: domain.PriorityUrgent,
			Action:   "Manage viral infection",
			Details: []string{
				"Remove entire affected plant (no cure for viruses)",
				"Control insect vectors (aphids, whiteflies)",
				"Disinfect tools to prevent spread",
				"No chemical treatment available",
				"Focus on prevention for other plants",
			},
		})
	}

	if containsAny(diagnosis, waterIndicators) {
		if strings.Contains(diagnosis, "drought") || strings.Contains(diagnosis, "dry") {
			out = append(out, domain.Suggestion{
				Type:     "WATER_MANAGEMENT",
				Priority: domain.PriorityHigh,
				Action:   "Address drought stress",
				Details: []string{
					"Water deeply and thoroughly",
					"Water less frequently but more thoroughly",
					"Add mulch to retain moisture",
					"Water during early morning or evening",
					"Check soil moisture regularly (should be moist not wet)",
				},
			})
		} else {
			out = append(out, domain.Suggestion{
				Type:     "WATER_MANAGEMENT",
				Priority: domain.PriorityHigh,
				Action:   "Reduce watering",
				Details: []string{
					"Allow soil to dry between waterings",
					"Improve drainage (repot if needed)",
					"Reduce watering frequency",
					"Ensure pot has drainage holes",
					"Check for root rot",
				},
			})
		}
	}

	if containsAny(diagnosis, nutrientIndicators) {
		out = append(out, domain.Suggestion{
			Type:     "NUTRIENT_MANAGEMENT",
			Priority: domain.PriorityMedium,
			Action:   "Address nutrient deficiency",
			Details: []string{
				"Apply balanced fertilizer (NPK 10-10-10)",
				"Feed every 2-4 weeks during growing season",
				"Use slow-release fertilizer",
				"Consider foliar spray for quick recovery",
				"Repot with fresh soil if last repotted >1 year ago",
			},
		})
	}

	if confidence < MediumConfidenceThreshold {
		out = append(out, domain.Suggestion{
			Type:     "DIAGNOSIS_CLARIFICATION",
			Priority: domain.PriorityHigh,
			Action:   "Get professional confirmation",
			Details: []string{
				"Diagnosis is uncertain",
				"Consult local plant expert or extension service",
				"Take multiple clear photos from different angles",
				"Monitor plant closely for symptom development",
				"Consider waiting to see symptom progression",
			},
		})
	}

	if category == domain.CategoryEnvironmental {
		out = append(out, domain.Suggestion{
			Type:     "ENVIRONMENTAL_ADJUSTMENT",
			Priority: domain.PriorityMedium,
			Action:   "Improve growing conditions",
			Details: []string{
				"Review light conditions (6-8 hours for most plants)",
				"Check temperature (65-75F optimal for most plants)",
				"Monitor humidity (40-60% for most plants)",
				"Ensure adequate air circulation",
				"Avoid placing near heating/cooling vents",
			},
		})
	}

	if category == domain.CategoryPestDamage {
		out = append(out, domain.Suggestion{
			Type:     "PEST_MANAGEMENT",
			Priority: domain.PriorityHigh,
			Action:   "Control pests",
			Details: []string{
				"Inspect regularly for insect presence",
				"Isolate plant to prevent spread",
				"Use neem oil or insecticidal soap",
				"Remove heavily infested leaves",
				"Repeat treatment weekly until clear",
			},
		})
	}

	if healthScore >= HealthGoodThreshold || category == domain.CategoryHealthy {
		out = append(out, domain.Suggestion{
			Type:     "PREVENTATIVE_CARE",
			Priority: domain.PriorityLow,
			Action:   "Maintain plant health",
			Details: []string{
				"Continue regular watering schedule",
				"Feed monthly during growing season",
				"Monitor for early disease signs",
				"Ensure good air circulation",
				"Clean leaves monthly to improve photosynthesis",
			},
		})
	}

	return out
}

func urgentActions(healthScore float64, severity string, category domain.DiseaseCategory) []string {
	var actions []string
	if healthScore <= HealthCriticalThreshold {
		actions = append(actions, "ISOLATE PLANT: Prevent disease spread to other plants")
	}
	if severity == "severe" {
		actions = append(actions, "TREAT IMMEDIATELY: Disease is advancing rapidly")
	}
	if category == domain.CategoryFungal && severity == "severe" {
		actions = append(actions, "APPLY FUNGICIDE: Fungal diseases spread quickly")
	}
	if category == domain.CategoryViral {
		actions = append(actions, "CONSIDER REMOVAL: Viruses cannot be cured, only contained")
	}
	if healthScore <= HealthCriticalThreshold && category == domain.CategoryEnvironmental {
		actions = append(actions, "CHANGE CONDITIONS: Environmental stress is critical")
	}
	if category == domain.CategoryPestDamage && severity == "severe" {
		actions = append(actions, "ISOLATE AND TREAT: Pest infestation is severe")
	}
	return actions
}

// assessRisk accumulates additive factors and buckets the capped score.
func assessRisk(diagnosis string, healthScore float64, severity string) domain.RiskAssessment {
	score := 0
	var factors []string

	if healthScore <= HealthCriticalThreshold {
		score += 40
		factors = append(factors, "Critical plant health")
	} else if healthScore <= HealthPoorThreshold {
		score += 25
		factors = append(factors, "Poor plant health")
	}

	switch severity {
	case "severe":
		score += 30
		factors = append(factors, "Severe disease status")
	case "moderate":
		score += 15
		factors = append(factors, "Moderate disease status")
	}

	if containsAny(diagnosis, viralDiseases) {
		score += 20
		factors = append(factors, "Viral disease (incurable)")
	} else if containsAny(diagnosis, fungalDiseases) {
		score += 15
		factors = append(factors, "Fungal disease (spreads quickly)")
	}

	// Diseases spread; pure environmental stress does not.
	if !strings.Contains(diagnosis, "environmental_stress") {
		score += 5
	}

	if score > 100 {
		score = 100
	}

	var level domain.RiskLevel
	switch {
	case score >= 75:
		level = domain.RiskCritical
	case score >= 50:
		level = domain.RiskHigh
	case score >= 25:
		level = domain.RiskMedium
	default:
		level = domain.RiskLow
	}

	return domain.RiskAssessment{
		RiskScore:   score,
		RiskLevel:   level,
		RiskFactors: factors,
	}
}

func followUp(healthScore float64) domain.FollowUpPlan {
	switch {
	case healthScore <= HealthCriticalThreshold:
		return domain.FollowUpPlan{Schedule: "DAILY", IntervalDays: 1, DurationDays: 7, Reason: "Plant is in critical condition"}
	case healthScore <= HealthPoorThreshold:
		return domain.FollowUpPlan{Schedule: "EVERY_2_3_DAYS", IntervalDays: 3, DurationDays: 14, Reason: "Plant health is poor"}
	case healthScore <= HealthFairThreshold:
		return domain.FollowUpPlan{Schedule: "WEEKLY", IntervalDays: 7, DurationDays: 30, Reason: "Plant health is fair"}
	default:
		return domain.FollowUpPlan{Schedule: "BI_WEEKLY", IntervalDays: 14, DurationDays: 60, Reason: "Plant appears healthy"}
	}
}

func (e *Engine) errorResult(msg string) domain.ProcessedAnalysis {
	e.log.Warn("logic engine received unusable input", "error", msg)
	return domain.ProcessedAnalysis{
		OriginalAnalysis: msg,
		Confidence:       0,
		HealthScore:      50,
		Severity:         "unknown",
		Conditions:       domain.NewConditionSet(domain.CondErrorProcessing),
		UrgentActions:    []string{"Error: " + msg},
		DiseaseCategory:  domain.CategoryUnknown,
		Risk: domain.RiskAssessment{
			RiskScore:   50,
			RiskLevel:   domain.RiskUnknown,
			RiskFactors: []string{msg},
		},
		FollowUp: domain.FollowUpPlan{
			Schedule: "IMMEDIATE_REVIEW",
			Reason:   msg,
		},
	}
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
