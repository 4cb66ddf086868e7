package diagnosis

import (
	"testing"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
)

func TestAssessTiers(t *testing.T) {
	est := NewSeverityEstimator(nil)
	primary := domain.DiseasePrediction{Disease: domain.DiseaseBlight, Severity: domain.SeveritySevere}

	cases := []struct {
		name        string
		damage      float64
		affectedPct float64
		wantLevel   domain.Severity
		wantStage   domain.Progression
	}{
		{"high damage", 0.65, 0, domain.SeveritySevere, domain.ProgressionAdvancing},
		{"high area", 0.1, 75, domain.SeveritySevere, domain.ProgressionAdvancing},
		{"moderate damage", 0.35, 0, domain.SeverityModerate, domain.ProgressionOngoing},
		{"moderate area", 0.1, 45, domain.SeverityModerate, domain.ProgressionOngoing},
		{"mild", 0.1, 10, domain.SeverityMild, domain.ProgressionEarly},
		{"boundary damage", 0.6, 0, domain.SeverityModerate, domain.ProgressionOngoing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fv := domain.FeatureVector{DamagedPixelsRatio: tc.damage}
			regions := domain.RegionSummary{AffectedPercentage: tc.affectedPct}
			got := est.Assess(primary, fv, regions)
			if got.CalculatedSeverity != tc.wantLevel {
				t.Fatalf("severity = %s, want %s", got.CalculatedSeverity, tc.wantLevel)
			}
			if got.ProgressionStage != tc.wantStage {
				t.Fatalf("progression = %s, want %s", got.ProgressionStage, tc.wantStage)
			}
			if got.BaseSeverity != primary.Severity {
				t.Fatalf("base severity = %s, want %s", got.BaseSeverity, primary.Severity)
			}
		})
	}
}

func TestAssessConfidenceCapped(t *testing.T) {
	est := NewSeverityEstimator(nil)
	fv := domain.FeatureVector{DamagedPixelsRatio: 0.99}
	got := est.Assess(domain.DiseasePrediction{}, fv, domain.RegionSummary{AffectedPercentage: 100})
	if got.ConfidenceInSeverity != 0.95 {
		t.Fatalf("confidence = %v, want cap 0.95", got.ConfidenceInSeverity)
	}
}

func TestAssessPercentagesRounded(t *testing.T) {
	est := NewSeverityEstimator(nil)
	fv := domain.FeatureVector{DamagedPixelsRatio: 0.3333}
	got := est.Assess(domain.DiseasePrediction{}, fv, domain.RegionSummary{AffectedPercentage: 66.666})
	if got.DamageExtent != 33.3 {
		t.Fatalf("damage extent = %v, want 33.3", got.DamageExtent)
	}
	if got.AffectedAreaPercentage != 66.7 {
		t.Fatalf("affected area = %v, want 66.7", got.AffectedAreaPercentage)
	}
}
