package aidiagnosis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
)

const sickIdentify = `{
  "plant_info": {"common_name": "Tomato"},
  "is_healthy": false,
  "disease_name": "Early Blight",
  "disease_type": "fungal",
  "confidence": 0.9,
  "severity": "severe",
  "health_score": 30,
  "symptoms_observed": ["brown spots"]
}`

const healthyIdentify = `{
  "plant_info": {"common_name": "Monstera"},
  "is_healthy": true,
  "disease_name": "Healthy",
  "disease_type": "healthy",
  "confidence": 95,
  "severity": "none",
  "health_score": 92
}`

// fakeClient scripts per-model responses for both stages.
type fakeClient struct {
	models      []string
	visionByMdl map[string]string
	visionErrs  map[string]error
	textByMdl   map[string]string
	textErrs    map[string]error
	visionCalls []string
	textCalls   []string
}

func (f *fakeClient) Models() []string { return f.models }

func (f *fakeClient) GenerateVision(_ context.Context, model, _ string, _ []byte, _ bool) (string, error) {
	f.visionCalls = append(f.visionCalls, model)
	if err, ok := f.visionErrs[model]; ok {
		return "", err
	}
	if text, ok := f.visionByMdl[model]; ok {
		return text, nil
	}
	return "", fmt.Errorf("no script for model %s", model)
}

func (f *fakeClient) GenerateText(_ context.Context, model, _ string, grounded bool) (string, error) {
	f.textCalls = append(f.textCalls, fmt.Sprintf("%s/grounded=%v", model, grounded))
	if err, ok := f.textErrs[model]; ok {
		return "", err
	}
	if text, ok := f.textByMdl[model]; ok {
		return text, nil
	}
	return "", fmt.Errorf("no script for model %s", model)
}

func newTestOrchestrator(c Client) *Orchestrator {
	o := NewOrchestrator(c, nil)
	o.pause = func(context.Context, time.Duration) error { return nil }
	return o
}

func TestAnalyzeEnrichFailureBackfillsDefaults(t *testing.T) {
	fc := &fakeClient{
		models:      []string{"m1"},
		visionByMdl: map[string]string{"m1": sickIdentify},
		textErrs:    map[string]error{"m1": errors.New("boom")},
	}
	o := newTestOrchestrator(fc)

	res, err := o.Analyze(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DiseaseName != "Early Blight" {
		t.Fatalf("disease = %q", res.DiseaseName)
	}
	if res.Description == "" || len(res.ImmediateActions) == 0 || res.Treatment.Empty() {
		t.Fatalf("enrich fields not backfilled: %+v", res)
	}
	if res.Confidence != 90 {
		t.Fatalf("confidence = %v, want 90 (0.9 scaled once)", res.Confidence)
	}
}

func TestAnalyzeHealthySkipsEnrich(t *testing.T) {
	fc := &fakeClient{
		models:      []string{"m1"},
		visionByMdl: map[string]string{"m1": healthyIdentify},
	}
	o := newTestOrchestrator(fc)

	res, err := o.Analyze(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.textCalls) != 0 {
		t.Fatalf("enrich was called for a healthy plant: %v", fc.textCalls)
	}
	if res.RiskIfUntreated != "No risk - plant is currently healthy." {
		t.Fatalf("risk text = %q, want healthy default", res.RiskIfUntreated)
	}
	if res.Confidence != 95 {
		t.Fatalf("confidence = %v, want 95 unchanged", res.Confidence)
	}
}

func TestAnalyzeRateLimitAdvancesModelList(t *testing.T) {
	fc := &fakeClient{
		models: []string{"m1", "m2"},
		visionErrs: map[string]error{
			"m1": &domain.ExternalServiceError{Kind: domain.RateLimited, StatusCode: 429, Model: "m1"},
		},
		visionByMdl: map[string]string{"m2": healthyIdentify},
	}
	o := newTestOrchestrator(fc)

	res, err := o.Analyze(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PlantInfo.CommonName != "Monstera" {
		t.Fatalf("result from wrong model: %+v", res.PlantInfo)
	}
	if len(fc.visionCalls) != 2 {
		t.Fatalf("vision calls = %v, want both models tried", fc.visionCalls)
	}
}

func TestAnalyzeAllModelsFailExhausted(t *testing.T) {
	fc := &fakeClient{
		models: []string{"m1", "m2"},
		visionErrs: map[string]error{
			"m1": &domain.ExternalServiceError{Kind: domain.Unavailable, StatusCode: 503, Model: "m1"},
			"m2": &domain.ExternalServiceError{Kind: domain.Unavailable, StatusCode: 500, Model: "m2"},
		},
	}
	o := newTestOrchestrator(fc)

	_, err := o.Analyze(context.Background(), []byte("img"))
	var exhausted *domain.OrchestrationExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected OrchestrationExhausted, got %v", err)
	}
	if exhausted.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", exhausted.Attempts)
	}
}

func TestAnalyzeAuthFailureIsFatal(t *testing.T) {
	fc := &fakeClient{
		models: []string{"m1", "m2"},
		visionErrs: map[string]error{
			"m1": &domain.ExternalServiceError{Kind: domain.AuthFailure, StatusCode: 401, Model: "m1"},
		},
	}
	o := newTestOrchestrator(fc)

	_, err := o.Analyze(context.Background(), []byte("img"))
	if !domain.IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
	if len(fc.visionCalls) != 1 {
		t.Fatalf("vision calls = %v, auth failure should not advance", fc.visionCalls)
	}
}

func TestAnalyzeUnparseableIdentifyTriesNextModel(t *testing.T) {
	fc := &fakeClient{
		models: []string{"m1", "m2"},
		visionByMdl: map[string]string{
			"m1": "sorry, I cannot help with that",
			"m2": healthyIdentify,
		},
	}
	o := newTestOrchestrator(fc)

	res, err := o.Analyze(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PlantInfo.CommonName != "Monstera" {
		t.Fatalf("expected fallback model result, got %+v", res.PlantInfo)
	}
}

func TestAnalyzeEnrichMergesTreatment(t *testing.T) {
	enrich := `{
  "description": "Alternaria solani infection.",
  "causes": ["Alternaria solani"],
  "treatment": {"organic": ["Neem oil weekly"], "chemical": ["Chlorothalonil"]},
  "risk_if_untreated": "Defoliation and fruit loss."
}`
	fc := &fakeClient{
		models:      []string{"m1"},
		visionByMdl: map[string]string{"m1": sickIdentify},
		textByMdl:   map[string]string{"m1": enrich},
	}
	o := newTestOrchestrator(fc)

	res, err := o.Analyze(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Description != "Alternaria solani infection." {
		t.Fatalf("description = %q", res.Description)
	}
	if len(res.Treatment.Organic) != 1 || res.Treatment.Organic[0] != "Neem oil weekly" {
		t.Fatalf("treatment = %+v", res.Treatment)
	}
	// Unfilled enrich fields still get defaults at validation time.
	if res.Severity != "severe" {
		t.Fatalf("severity = %q, want identify value preserved", res.Severity)
	}
}
