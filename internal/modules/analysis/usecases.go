package analysis

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
	"github.com/verdantlabs/leafsense-backend/internal/modules/careplan"
	"github.com/verdantlabs/leafsense-backend/internal/modules/diagnosis"
	"github.com/verdantlabs/leafsense-backend/internal/modules/logic"
	"github.com/verdantlabs/leafsense-backend/internal/modules/vision"
	"github.com/verdantlabs/leafsense-backend/internal/platform/logger"
)

const defaultBatchConcurrency = 4

// ExternalAnalyzer is the slice of the AI diagnosis orchestrator the
// pipeline needs. Nil means the external path is not configured.
type ExternalAnalyzer interface {
	Analyze(ctx context.Context, image []byte) (*domain.ExternalAnalysisResult, error)
}

// Deps are the explicitly injected collaborators of the pipeline service.
type Deps struct {
	Log        *logger.Logger
	Extractor  *vision.FeatureExtractor
	Classifier *diagnosis.RuleBasedClassifier
	Severity   *diagnosis.SeverityEstimator
	Care       *careplan.Synthesizer
	Logic      *logic.Engine
	External   ExternalAnalyzer

	RegionCount      int
	BatchConcurrency int
}

// Service composes the full analysis pipeline: the deterministic rule-based
// path and, when configured, the external AI path with graceful degradation.
type Service struct {
	log        *logger.Logger
	extractor  *vision.FeatureExtractor
	classifier *diagnosis.RuleBasedClassifier
	severity   *diagnosis.SeverityEstimator
	care       *careplan.Synthesizer
	logic      *logic.Engine
	external   ExternalAnalyzer

	regionCount int
	batchLimit  int

	now   func() time.Time
	newID func() string
}

func NewService(deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	batch := deps.BatchConcurrency
	if batch <= 0 {
		batch = defaultBatchConcurrency
	}
	return &Service{
		log:         log.With("service", "analysis"),
		extractor:   deps.Extractor,
		classifier:  deps.Classifier,
		severity:    deps.Severity,
		care:        deps.Care,
		logic:       deps.Logic,
		external:    deps.External,
		regionCount: deps.RegionCount,
		batchLimit:  batch,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// Analyze runs the deterministic rule-based path over a decoded matrix.
// Failures come back as structured failure records, never as panics.
func (s *Service) Analyze(ctx context.Context, m vision.Matrix) *domain.AnalysisResult {
	record := s.newRecord(domain.SourceRuleBased)

	fv, err := s.extractor.Extract(m)
	if err != nil {
		return s.failure(record, "validation", err)
	}

	predictions, err := s.classifier.Classify(fv)
	if err != nil {
		return s.failure(record, "detection", err)
	}
	primary := predictions[0]

	_, summary, err := vision.AnalyzeRegions(m, s.regionCount)
	if err != nil {
		return s.failure(record, "detection", err)
	}

	assessment := s.severity.Assess(primary, fv, summary)
	plan := s.care.Synthesize(primary.Disease, assessment.CalculatedSeverity, primary.Confidence)
	healthScore := s.classifier.HealthScore(fv)

	processed := s.logic.Process(&logic.Input{
		Diagnosis:   diagnosisText(primary.Disease),
		Confidence:  primary.Confidence * 100,
		HealthScore: healthScore,
		Severity:    string(assessment.CalculatedSeverity),
		RawAnalysis: primary.Description,
	})

	record.Success = true
	record.DiseaseDetection = domain.DiseaseDetection{
		PrimaryDisease: string(primary.Disease),
		Confidence:     round3(primary.Confidence),
		Severity:       assessment.CalculatedSeverity,
		Description:    primary.Description,
		CommonCauses:   primary.CommonCauses,
	}
	record.Predictions = predictions
	record.FeatureAnalysis = &fv
	record.Regions = &summary
	record.SeverityDetails = &assessment
	record.CarePlan = &plan
	s.attachLogic(record, processed)
	return record
}

// AnalyzeImage prefers the external path when an orchestrator is wired,
// degrading to the rule-based path on any orchestration failure. The
// record's source field always says which path produced it.
func (s *Service) AnalyzeImage(ctx context.Context, image []byte, m vision.Matrix) *domain.AnalysisResult {
	if s.external == nil {
		return s.Analyze(ctx, m)
	}

	ext, err := s.external.Analyze(ctx, image)
	if err != nil {
		s.log.Warn("external analysis failed, degrading to rule-based path", "error", err)
		return s.Analyze(ctx, m)
	}

	record := s.newRecord(domain.SourceAI)
	record.Success = true
	record.External = ext

	// The external result carries confidence on the 0-100 scale; detection
	// and predictions expose the 0-1 scale on every path.
	primary := domain.DiseasePrediction{
		Disease:      domain.Disease(ext.DiseaseName),
		Confidence:   round3(ext.Confidence / 100),
		Severity:     coerceSeverity(ext.Severity),
		Description:  ext.Description,
		CommonCauses: ext.Causes,
	}
	record.Predictions = []domain.DiseasePrediction{primary}
	record.DiseaseDetection = domain.DiseaseDetection{
		PrimaryDisease: ext.DiseaseName,
		Confidence:     primary.Confidence,
		Severity:       primary.Severity,
		Description:    ext.Description,
		CommonCauses:   ext.Causes,
	}

	processed := s.logic.Process(&logic.Input{
		Diagnosis:   ext.DiseaseName,
		Confidence:  ext.Confidence,
		HealthScore: ext.HealthScore,
		Severity:    ext.Severity,
		RawAnalysis: ext.Description + " " + strings.Join(ext.SymptomsObserved, " "),
	})
	s.attachLogic(record, processed)
	return record
}

// BatchAnalyze runs the rule-based path over many matrices with bounded
// concurrency. Results keep input order; per-image failures become failure
// records rather than aborting the batch.
func (s *Service) BatchAnalyze(ctx context.Context, matrices []vision.Matrix) []*domain.AnalysisResult {
	results := make([]*domain.AnalysisResult, len(matrices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, m := range matrices {
		i, m := i, m
		g.Go(func() error {
			results[i] = s.Analyze(gctx, m)
			return nil
		})
	}
	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()
	return results
}

func (s *Service) newRecord(source domain.AnalysisSource) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ID:        s.newID(),
		Timestamp: s.now(),
		Source:    source,
	}
}

func (s *Service) failure(record *domain.AnalysisResult, stage string, err error) *domain.AnalysisResult {
	s.log.Warn("analysis failed", "stage", stage, "error", err)
	record.Success = false
	record.Stage = stage
	record.Error = err.Error()
	return record
}

func (s *Service) attachLogic(record *domain.AnalysisResult, processed domain.ProcessedAnalysis) {
	record.Conditions = processed.Conditions
	record.DiseaseCategory = processed.DiseaseCategory
	risk := processed.Risk
	record.RiskAssessment = &risk
	followUp := processed.FollowUp
	record.FollowUp = &followUp
}

// diagnosisText renders a catalogue label the way the logic engine's
// keyword vocabularies expect it.
func diagnosisText(d domain.Disease) string {
	return strings.ReplaceAll(string(d), "_", " ")
}

func coerceSeverity(s string) domain.Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return domain.SeverityNone
	case "mild":
		return domain.SeverityMild
	case "moderate":
		return domain.SeverityModerate
	case "severe":
		return domain.SeveritySevere
	default:
		return domain.SeverityUnknown
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
