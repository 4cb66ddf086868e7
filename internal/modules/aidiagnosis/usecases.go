package aidiagnosis

import (
	"context"
	"strings"
	"time"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
	"github.com/verdantlabs/leafsense-backend/internal/modules/aidiagnosis/steps"
	"github.com/verdantlabs/leafsense-backend/internal/platform/logger"
)

// rateLimitPause is how long the orchestrator waits before advancing to the
// next model after a rate-limit response.
const rateLimitPause = 2 * time.Second

// Client is the slice of the vision service the orchestrator needs. The
// platform gemini client satisfies it; tests use a fake.
type Client interface {
	Models() []string
	GenerateVision(ctx context.Context, model, prompt string, image []byte, grounded bool) (string, error)
	GenerateText(ctx context.Context, model, prompt string, grounded bool) (string, error)
}

// Orchestrator drives the two-stage external analysis: identify the plant
// and disease from the image, then enrich the diagnosis with grounded
// treatment detail. Every stage walks the model priority list.
type Orchestrator struct {
	client Client
	log    *logger.Logger
	pause  func(ctx context.Context, d time.Duration) error
}

func NewOrchestrator(client Client, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{
		client: client,
		log:    log.With("service", "ai_diagnosis"),
		pause:  sleepCtx,
	}
}

// Analyze runs identify, enrich, merge and validate. The returned result is
// complete: every field is populated, with generic defaults backfilled where
// the service gave nothing.
func (o *Orchestrator) Analyze(ctx context.Context, image []byte) (*domain.ExternalAnalysisResult, error) {
	identify, err := o.identify(ctx, image)
	if err != nil {
		return nil, err
	}

	result := steps.FromIdentify(identify)
	plantName := identify.PlantInfo.CommonName
	if plantName == "" {
		plantName = "Unknown plant"
	}
	diseaseName := identify.DiseaseName

	lower := strings.ToLower(diseaseName)
	healthy := identify.IsHealthy || lower == "healthy" || lower == "none" || lower == ""

	if healthy || lower == "unknown" {
		o.log.Info("plant appears healthy, skipping disease enrichment", "plant", plantName)
		steps.FillHealthyDefaults(result, plantName)
	} else {
		enrich := o.enrich(ctx, plantName, diseaseName, identify.SymptomsObserved)
		if enrich != nil {
			steps.Merge(result, enrich)
		} else {
			o.log.Warn("enrichment failed, backfilling generic treatment info",
				"plant", plantName, "disease", diseaseName)
			steps.FillDefaults(result, plantName, diseaseName)
		}
	}

	steps.Validate(result)
	return result, nil
}

// identify walks the model list until one returns a parseable diagnosis.
func (o *Orchestrator) identify(ctx context.Context, image []byte) (*steps.IdentifyResult, error) {
	var lastErr error
	attempts := 0
	for _, model := range o.client.Models() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		attempts++
		text, err := o.client.GenerateVision(ctx, model, steps.IdentifyPrompt, image, false)
		if err != nil {
			lastErr = err
			if domain.IsAuthFailure(err) {
				return nil, err
			}
			if domain.IsRateLimited(err) {
				o.log.Warn("rate limited, advancing to next model", "model", model)
				if perr := o.pause(ctx, rateLimitPause); perr != nil {
					return nil, perr
				}
				continue
			}
			o.log.Warn("identify call failed", "model", model, "error", err)
			continue
		}
		parsed, err := steps.DecodeIdentify(text)
		if err != nil {
			lastErr = err
			o.log.Warn("identify response unparseable", "model", model, "error", err)
			continue
		}
		o.log.Info("identify succeeded",
			"model", model,
			"plant", parsed.PlantInfo.CommonName,
			"disease", parsed.DiseaseName,
		)
		return parsed, nil
	}
	return nil, &domain.OrchestrationExhausted{Attempts: attempts, Err: lastErr}
}

// enrich tries each model grounded first, then ungrounded with the same
// prompt. Failure is soft: a nil return means fall back to defaults.
func (o *Orchestrator) enrich(ctx context.Context, plantName, diseaseName string, symptoms []string) *steps.EnrichResult {
	prompt := steps.EnrichPrompt(plantName, diseaseName, symptoms)
	for _, model := range o.client.Models() {
		if ctx.Err() != nil {
			return nil
		}
		for _, grounded := range []bool{true, false} {
			text, err := o.client.GenerateText(ctx, model, prompt, grounded)
			if err != nil {
				if domain.IsAuthFailure(err) {
					return nil
				}
				if domain.IsRateLimited(err) {
					if o.pause(ctx, rateLimitPause) != nil {
						return nil
					}
					// Next model rather than the ungrounded variant.
					break
				}
				o.log.Warn("enrich call failed", "model", model, "grounded", grounded, "error", err)
				continue
			}
			parsed, err := steps.DecodeEnrich(text)
			if err != nil {
				o.log.Warn("enrich response unparseable", "model", model, "grounded", grounded, "error", err)
				continue
			}
			o.log.Info("enrich succeeded", "model", model, "grounded", grounded)
			return parsed
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
