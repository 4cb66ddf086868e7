package careplan

import (
	"fmt"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
	"github.com/verdantlabs/leafsense-backend/internal/platform/logger"
)

// Synthesizer turns a (disease, severity, confidence) triple into a full
// care plan from the embedded template catalogue. Templates are loaded once
// at construction and never mutated afterwards.
type Synthesizer struct {
	log       *logger.Logger
	templates map[domain.Disease]Template
	fallback  Template
}

func NewSynthesizer(log *logger.Logger) (*Synthesizer, error) {
	if log == nil {
		log = logger.NewNop()
	}
	templates, fallback, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Synthesizer{
		log:       log.With("service", "careplan"),
		templates: templates,
		fallback:  fallback,
	}, nil
}

// Synthesize never fails: unknown labels get the generic default template.
func (s *Synthesizer) Synthesize(disease domain.Disease, severity domain.Severity, confidence float64) domain.CarePlan {
	tpl, ok := s.templates[disease]
	if !ok {
		s.log.Warn("no template for disease, using default", "disease", disease)
		tpl = s.fallback
	}

	urgency, window, monitoring := severityAdjustment(severity)

	plan := domain.CarePlan{
		Disease:          disease,
		Severity:         severity,
		Confidence:       confidence,
		Urgency:          urgency,
		TreatmentWindow:  window,
		Monitoring:       monitoring,
		ImmediateActions: cloneStrings(tpl.ImmediateActions),
		Treatment: domain.Treatment{
			Organic:  cloneStrings(tpl.Treatment.Organic),
			Chemical: cloneStrings(tpl.Treatment.Chemical),
			Cultural: cloneStrings(tpl.Treatment.Cultural),
		},
		Prevention: cloneStrings(tpl.Prevention),
		Watering: domain.WateringAdvice{
			Frequency: tpl.Watering.Frequency,
			Method:    tpl.Watering.Method,
			Amount:    tpl.Watering.Amount,
			Tip:       tpl.Watering.Tip,
		},
		PriorityActions: priorityActions(tpl.ImmediateActions, severity),
		Notes:           cloneStrings(tpl.Notes),
		Timeline:        treatmentTimeline(),
		Tips:            cloneStrings(tpl.Tips),
		FAQ:             diseaseFAQ(disease),
		Emergency:       emergencyInfo(severity),
	}
	return plan
}

// severityAdjustment maps the calculated tier to urgency, treatment window
// and monitoring cadence.
func severityAdjustment(severity domain.Severity) (urgency, window, monitoring string) {
	switch severity {
	case domain.SeveritySevere:
		return "CRITICAL - Act immediately", "24-48 hours for initial treatment", "Check every 12 hours"
	case domain.SeverityModerate:
		return "High - Treat within 2-3 days", "1-2 weeks for significant improvement", "Check every 2-3 days"
	default:
		return "Standard - Treat within 1 week", "2-4 weeks for recovery", "Check weekly"
	}
}

// priorityActions truncates the action list harder the worse the tier: the
// top 3 for severe, 5 for moderate, everything otherwise.
func priorityActions(actions []string, severity domain.Severity) []string {
	limit := len(actions)
	switch severity {
	case domain.SeveritySevere:
		limit = 3
	case domain.SeverityModerate:
		limit = 5
	}
	if limit > len(actions) {
		limit = len(actions)
	}
	return cloneStrings(actions[:limit])
}

func treatmentTimeline() domain.CareTimeline {
	return domain.CareTimeline{
		Assessment:             "0-24 hours",
		InitialTreatment:       "0-24 hours",
		FirstSignsImprovement:  "1-7 days",
		SignificantImprovement: "2-4 weeks",
		FullRecovery:           "1-3 months",
	}
}

func diseaseFAQ(disease domain.Disease) domain.CareFAQ {
	return domain.CareFAQ{
		HowLongTreatment: "Usually 2-4 weeks to see significant improvement",
		WillPlantSurvive: "With proper care, most plants recover unless severely affected",
		CanSpread:        fmt.Sprintf("Yes, %s can spread to nearby plants - isolate if possible", disease),
		NaturalRemedy:    "Check the organic treatment options in the care plan",
		SafeForPets:      "Always check fungicide/pesticide labels for pet safety",
	}
}

func emergencyInfo(severity domain.Severity) domain.EmergencyInfo {
	if severity != domain.SeveritySevere {
		return domain.EmergencyInfo{Urgent: false}
	}
	return domain.EmergencyInfo{
		Urgent:         true,
		Recommendation: "Consider consulting local extension office or expert",
		Resources: []string{
			"Local agricultural extension office",
			"Botanical gardens",
			"Plant hospital services",
		},
	}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
