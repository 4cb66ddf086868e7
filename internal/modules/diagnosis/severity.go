package diagnosis

import (
	"math"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
	"github.com/verdantlabs/leafsense-backend/internal/platform/logger"
)

// Severity tier thresholds on the damage ratio and affected-area fraction.
const (
	severeDamageRatio   = 0.6
	severeAffectedArea  = 0.7
	moderateDamageRatio = 0.3
	moderateAffected    = 0.4
	maxSeverityConf     = 0.95
)

// SeverityEstimator refines a prediction's base severity with the image
// evidence: the damage ratio and the affected fraction of the region grid.
type SeverityEstimator struct {
	log *logger.Logger
}

func NewSeverityEstimator(log *logger.Logger) *SeverityEstimator {
	if log == nil {
		log = logger.NewNop()
	}
	return &SeverityEstimator{log: log.With("service", "severity")}
}

// Assess is monotone in both inputs: more damage or more affected area never
// lowers the tier.
func (s *SeverityEstimator) Assess(primary domain.DiseasePrediction, fv domain.FeatureVector, regions domain.RegionSummary) domain.SeverityAssessment {
	damage := fv.DamagedPixelsRatio
	affected := regions.AffectedPercentage / 100

	var level domain.Severity
	var progression domain.Progression
	switch {
	case damage > severeDamageRatio || affected > severeAffectedArea:
		level = domain.SeveritySevere
		progression = domain.ProgressionAdvancing
	case damage > moderateDamageRatio || affected > moderateAffected:
		level = domain.SeverityModerate
		progression = domain.ProgressionOngoing
	default:
		level = domain.SeverityMild
		progression = domain.ProgressionEarly
	}

	return domain.SeverityAssessment{
		BaseSeverity:           primary.Severity,
		CalculatedSeverity:     level,
		ProgressionStage:       progression,
		AffectedAreaPercentage: round1(affected * 100),
		DamageExtent:           round1(damage * 100),
		ConfidenceInSeverity:   math.Min(maxSeverityConf, math.Max(damage, affected)),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
