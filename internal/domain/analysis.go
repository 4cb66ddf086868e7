package domain

import "time"

// Disease is the closed catalogue label set. Declaration order in
// DiseaseOrder is also the ranking tie-break order.
type Disease string

const (
	DiseaseHealthy       Disease = "healthy"
	DiseaseLeafSpot      Disease = "leaf_spot"
	DiseasePowderyMildew Disease = "powdery_mildew"
	DiseaseRust          Disease = "rust"
	DiseaseBlight        Disease = "blight"
	DiseaseYellowing     Disease = "yellowing"
	DiseaseWilting       Disease = "wilting"
	DiseasePestDamage    Disease = "pest_damage"
)

var DiseaseOrder = []Disease{
	DiseaseHealthy,
	DiseaseLeafSpot,
	DiseasePowderyMildew,
	DiseaseRust,
	DiseaseBlight,
	DiseaseYellowing,
	DiseaseWilting,
	DiseasePestDamage,
}

func (d Disease) Valid() bool {
	for _, known := range DiseaseOrder {
		if d == known {
			return true
		}
	}
	return false
}

// Severity is the tier ladder none < mild < moderate < severe.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityUnknown  Severity = "unknown"
)

// Rank orders tiers for monotonicity checks. Unknown ranks below none.
func (s Severity) Rank() int {
	switch s {
	case SeverityNone:
		return 0
	case SeverityMild:
		return 1
	case SeverityModerate:
		return 2
	case SeveritySevere:
		return 3
	default:
		return -1
	}
}

// Progression labels track severity tiers 1:1.
type Progression string

const (
	ProgressionEarly     Progression = "early_stage"
	ProgressionOngoing   Progression = "progressing"
	ProgressionAdvancing Progression = "advancing"
)

// FeatureVector is the scalar visual summary of one image. Computed once,
// never mutated.
type FeatureVector struct {
	ColorVariance      float64 `json:"color_variance"`
	Brightness         float64 `json:"brightness"`
	Contrast           float64 `json:"contrast"`
	Greenness          float64 `json:"greenness"`
	EdgeDensity        float64 `json:"edge_density"`
	DamagedPixelsRatio float64 `json:"damaged_pixels_ratio"`
}

// DiseasePrediction carries one ranked classifier output plus the static
// catalogue metadata for its label.
type DiseasePrediction struct {
	Disease      Disease  `json:"disease"`
	Confidence   float64  `json:"confidence"`
	Severity     Severity `json:"severity"`
	Description  string   `json:"description"`
	CommonCauses []string `json:"common_causes"`
}

// SeverityAssessment is derived from the primary prediction plus the sampled
// region grid. Always attached to an analysis result, never stored alone.
type SeverityAssessment struct {
	BaseSeverity           Severity    `json:"base_severity"`
	CalculatedSeverity     Severity    `json:"calculated_severity"`
	ProgressionStage       Progression `json:"progression_stage"`
	AffectedAreaPercentage float64     `json:"affected_area_percentage"`
	DamageExtent           float64     `json:"damage_extent"`
	ConfidenceInSeverity   float64     `json:"confidence_in_severity"`
}

// RegionSummary reports the sampled-grid breakdown.
type RegionSummary struct {
	TotalRegions       int     `json:"total_regions"`
	AffectedRegions    int     `json:"affected_regions"`
	HealthyRegions     int     `json:"healthy_regions"`
	AffectedPercentage float64 `json:"affected_percentage"`
}

// Treatment groups treatment options by approach.
type Treatment struct {
	Organic  []string `json:"organic,omitempty"`
	Chemical []string `json:"chemical,omitempty"`
	Cultural []string `json:"cultural,omitempty"`
}

func (t Treatment) Empty() bool {
	return len(t.Organic) == 0 && len(t.Chemical) == 0 && len(t.Cultural) == 0
}

type WateringAdvice struct {
	Frequency string `json:"frequency,omitempty"`
	Method    string `json:"method,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Tip       string `json:"tip,omitempty"`
}

func (w WateringAdvice) Empty() bool {
	return w.Frequency == "" && w.Method == "" && w.Amount == "" && w.Tip == ""
}

// CareTimeline spells out the treatment phases from first assessment to
// full recovery.
type CareTimeline struct {
	Assessment             string `json:"assessment"`
	InitialTreatment       string `json:"initial_treatment"`
	FirstSignsImprovement  string `json:"first_signs_improvement"`
	SignificantImprovement string `json:"significant_improvement"`
	FullRecovery           string `json:"full_recovery"`
}

// CareFAQ answers the fixed set of questions surfaced with every plan.
type CareFAQ struct {
	HowLongTreatment string `json:"how_long_treatment"`
	WillPlantSurvive string `json:"will_plant_survive"`
	CanSpread        string `json:"can_spread"`
	NaturalRemedy    string `json:"natural_remedy"`
	SafeForPets      string `json:"safe_for_pets"`
}

type EmergencyInfo struct {
	Urgent         bool     `json:"urgent"`
	Recommendation string   `json:"recommendation,omitempty"`
	Resources      []string `json:"resources,omitempty"`
}

// CarePlan is built fresh per request from the (disease, severity) pair.
type CarePlan struct {
	Disease          Disease        `json:"disease"`
	Severity         Severity       `json:"severity"`
	Confidence       float64        `json:"confidence"`
	Urgency          string         `json:"urgency"`
	TreatmentWindow  string         `json:"treatment_window"`
	Monitoring       string         `json:"monitoring"`
	ImmediateActions []string       `json:"immediate_actions"`
	Treatment        Treatment      `json:"treatment"`
	Prevention       []string       `json:"prevention"`
	Watering         WateringAdvice `json:"watering"`
	PriorityActions  []string       `json:"priority_actions"`
	Notes            []string       `json:"notes,omitempty"`
	Timeline         CareTimeline   `json:"timeline"`
	Tips             []string       `json:"tips"`
	FAQ              CareFAQ        `json:"faq"`
	Emergency        EmergencyInfo  `json:"emergency_contacts"`
}

// DiseaseCategory is the logic engine's disease-family classification.
type DiseaseCategory string

const (
	CategoryFungal        DiseaseCategory = "FUNGAL"
	CategoryBacterial     DiseaseCategory = "BACTERIAL"
	CategoryViral         DiseaseCategory = "VIRAL"
	CategoryEnvironmental DiseaseCategory = "ENVIRONMENTAL"
	CategoryPestDamage    DiseaseCategory = "PEST_DAMAGE"
	CategoryHealthy       DiseaseCategory = "HEALTHY"
	CategoryUnknown       DiseaseCategory = "UNKNOWN"
)

// Priority levels for suggestions.
type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

type Suggestion struct {
	Type     string   `json:"type"`
	Priority Priority `json:"priority"`
	Action   string   `json:"action"`
	Details  []string `json:"details"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
	RiskUnknown  RiskLevel = "UNKNOWN"
)

type RiskAssessment struct {
	RiskScore   int       `json:"risk_score"`
	RiskLevel   RiskLevel `json:"risk_level"`
	RiskFactors []string  `json:"risk_factors"`
}

type FollowUpPlan struct {
	Schedule     string `json:"schedule"`
	IntervalDays int    `json:"interval_days,omitempty"`
	DurationDays int    `json:"duration_days,omitempty"`
	Reason       string `json:"reason"`
}

// ProcessedAnalysis is the logic engine's full output for one diagnosis.
type ProcessedAnalysis struct {
	OriginalAnalysis string          `json:"original_analysis"`
	Confidence       float64         `json:"confidence"`
	HealthScore      float64         `json:"health_score"`
	Severity         string          `json:"severity"`
	Conditions       ConditionSet    `json:"conditions"`
	Suggestions      []Suggestion    `json:"suggestions"`
	UrgentActions    []string        `json:"urgent_actions"`
	DiseaseCategory  DiseaseCategory `json:"disease_category"`
	Risk             RiskAssessment  `json:"risk_assessment"`
	FollowUp         FollowUpPlan    `json:"follow_up"`
}

// ---------------- external analysis result ----------------

type PlantIdealConditions struct {
	Sunlight    string `json:"sunlight,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	Humidity    string `json:"humidity,omitempty"`
	Soil        string `json:"soil,omitempty"`
}

type PlantGeneralCare struct {
	Watering     string   `json:"watering,omitempty"`
	Fertilizing  string   `json:"fertilizing,omitempty"`
	Pruning      string   `json:"pruning,omitempty"`
	CommonIssues []string `json:"common_issues,omitempty"`
}

type PlantInfo struct {
	CommonName      string               `json:"common_name"`
	ScientificName  string               `json:"scientific_name"`
	Family          string               `json:"family"`
	PlantType       string               `json:"plant_type"`
	Origin          string               `json:"origin"`
	Description     string               `json:"description"`
	IdealConditions PlantIdealConditions `json:"ideal_conditions"`
	GeneralCare     PlantGeneralCare     `json:"general_care"`
}

type RecoveryTimeline struct {
	FirstImprovement    string `json:"first_improvement,omitempty"`
	SignificantRecovery string `json:"significant_recovery,omitempty"`
	FullRecovery        string `json:"full_recovery,omitempty"`
}

func (r RecoveryTimeline) Empty() bool {
	return r.FirstImprovement == "" && r.SignificantRecovery == "" && r.FullRecovery == ""
}

// ExternalAnalysisResult merges the identify and enrich stages of the
// external service path. It is mutated only inside the orchestrator's
// merge/backfill step and is immutable once returned.
type ExternalAnalysisResult struct {
	PlantInfo        PlantInfo        `json:"plant_info"`
	IsHealthy        bool             `json:"is_healthy"`
	DiseaseName      string           `json:"disease_name"`
	DiseaseType      string           `json:"disease_type"`
	Confidence       float64          `json:"confidence"`
	Severity         string           `json:"severity"`
	HealthScore      float64          `json:"health_score"`
	SymptomsObserved []string         `json:"symptoms_observed"`
	Description      string           `json:"description"`
	Causes           []string         `json:"causes"`
	ImmediateActions []string         `json:"immediate_actions"`
	Treatment        Treatment        `json:"treatment"`
	Prevention       []string         `json:"prevention"`
	WateringAdvice   WateringAdvice   `json:"watering_advice"`
	RecoveryTimeline RecoveryTimeline `json:"recovery_timeline"`
	RiskIfUntreated  string           `json:"risk_if_untreated"`
}

// ---------------- top-level analysis record ----------------

// AnalysisSource marks which path produced a record, so backfilled generic
// content is never mistaken for service-derived fact.
type AnalysisSource string

const (
	SourceRuleBased AnalysisSource = "rule_based"
	SourceAI        AnalysisSource = "ai"
)

type DiseaseDetection struct {
	PrimaryDisease string   `json:"primary_disease"`
	Confidence     float64  `json:"confidence"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	CommonCauses   []string `json:"common_causes"`
}

// AnalysisResult is the structured record returned to callers regardless of
// which path produced it.
type AnalysisResult struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Source    AnalysisSource `json:"analysis_source"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Stage     string         `json:"stage,omitempty"`

	DiseaseDetection DiseaseDetection        `json:"disease_detection"`
	Predictions      []DiseasePrediction     `json:"predictions"`
	FeatureAnalysis  *FeatureVector          `json:"feature_analysis,omitempty"`
	Regions          *RegionSummary          `json:"roi_analysis,omitempty"`
	SeverityDetails  *SeverityAssessment     `json:"severity_details,omitempty"`
	CarePlan         *CarePlan               `json:"care_plan,omitempty"`
	External         *ExternalAnalysisResult `json:"external_analysis,omitempty"`

	Conditions      ConditionSet    `json:"conditions,omitempty"`
	DiseaseCategory DiseaseCategory `json:"disease_category,omitempty"`
	RiskAssessment  *RiskAssessment `json:"risk_assessment,omitempty"`
	FollowUp        *FollowUpPlan   `json:"follow_up,omitempty"`
}
