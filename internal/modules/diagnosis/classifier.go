package diagnosis

import (
	"math"
	"sort"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
	"github.com/verdantlabs/leafsense-backend/internal/platform/logger"
)

const (
	// DefaultConfidenceThreshold filters out weak predictions; the top one
	// survives regardless so callers always get a primary disease.
	DefaultConfidenceThreshold = 0.7
	maxPredictions             = 5
)

// RuleBasedClassifier scores every catalogue label against a feature vector
// with fixed formulas. Deterministic: equal features always yield equal
// predictions.
type RuleBasedClassifier struct {
	log       *logger.Logger
	threshold float64
}

func NewRuleBasedClassifier(log *logger.Logger, threshold float64) *RuleBasedClassifier {
	if log == nil {
		log = logger.NewNop()
	}
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &RuleBasedClassifier{
		log:       log.With("service", "classifier"),
		threshold: threshold,
	}
}

// Classify ranks the catalogue by confidence and returns the surviving
// predictions, strongest first. Never empty on success.
func (c *RuleBasedClassifier) Classify(fv domain.FeatureVector) ([]domain.DiseasePrediction, error) {
	scores := diseaseScores(fv)

	total := 0.0
	for _, s := range scores {
		total += s
	}
	// An all-zero score map stays raw instead of being forced into a
	// uniform distribution.
	if total > 0 {
		for d, s := range scores {
			scores[d] = s / total
		}
	}

	ranked := make([]domain.Disease, len(domain.DiseaseOrder))
	copy(ranked, domain.DiseaseOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	if len(ranked) > maxPredictions {
		ranked = ranked[:maxPredictions]
	}

	predictions := make([]domain.DiseasePrediction, 0, len(ranked))
	for _, d := range ranked {
		entry, ok := Lookup(d)
		if !ok {
			return nil, &domain.ClassificationError{Reason: "label missing from catalogue: " + string(d)}
		}
		predictions = append(predictions, domain.DiseasePrediction{
			Disease:      d,
			Confidence:   scores[d],
			Severity:     entry.BaseSeverity,
			Description:  entry.Description,
			CommonCauses: entry.CommonCauses,
		})
	}

	filtered := predictions[:0:0]
	for _, p := range predictions {
		if p.Confidence >= c.threshold {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		filtered = predictions[:1]
	}

	c.log.Debug("classified", "primary", filtered[0].Disease, "confidence", filtered[0].Confidence)
	return filtered, nil
}

// HealthScore reports the healthy label's share of the normalized score
// distribution on the 0-100 scale. Used as the plant health estimate for
// downstream condition evaluation.
func (c *RuleBasedClassifier) HealthScore(fv domain.FeatureVector) float64 {
	scores := diseaseScores(fv)
	total := 0.0
	for _, s := range scores {
		total += s
	}
	if total <= 0 {
		return 50
	}
	return scores[domain.DiseaseHealthy] / total * 100
}

// diseaseScores applies the per-label formulas. Each score is clamped at
// zero before normalization.
func diseaseScores(fv domain.FeatureVector) map[domain.Disease]float64 {
	g := fv.Greenness
	e := fv.EdgeDensity
	d := fv.DamagedPixelsRatio
	b := fv.Brightness

	scores := map[domain.Disease]float64{
		domain.DiseaseHealthy:       math.Min(g, 1.0) * (1 - e*0.5),
		domain.DiseaseLeafSpot:      (1-g)*0.3 + e*0.5 + d*0.2,
		domain.DiseasePowderyMildew: (1-g)*0.4 + e*0.6,
		domain.DiseaseRust:          (1-g)*0.35 + e*0.45 + d*0.2,
		domain.DiseaseBlight:        (1-g)*0.7 + d*0.6,
		domain.DiseaseYellowing:     (1 - g) * 0.5 * (1 - e),
		domain.DiseaseWilting:       math.Abs(b-128) / 128 * 0.4,
		domain.DiseasePestDamage:    e*0.7 + d*0.3,
	}
	for label, s := range scores {
		if s < 0 {
			scores[label] = 0
		}
	}
	return scores
}
