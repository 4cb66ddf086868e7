package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/webp"

	"github.com/verdantlabs/leafsense-backend/internal/modules/aidiagnosis"
	"github.com/verdantlabs/leafsense-backend/internal/modules/analysis"
	"github.com/verdantlabs/leafsense-backend/internal/modules/careplan"
	"github.com/verdantlabs/leafsense-backend/internal/modules/diagnosis"
	"github.com/verdantlabs/leafsense-backend/internal/modules/logic"
	"github.com/verdantlabs/leafsense-backend/internal/modules/vision"
	"github.com/verdantlabs/leafsense-backend/internal/platform/envutil"
	"github.com/verdantlabs/leafsense-backend/internal/platform/gemini"
	"github.com/verdantlabs/leafsense-backend/internal/platform/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: leafsense <image-file>")
		os.Exit(2)
	}
	imagePath := os.Args[1]

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	raw, err := os.ReadFile(imagePath)
	if err != nil {
		log.Fatal("cannot read image file", "path", imagePath, "error", err)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		log.Fatal("cannot decode image", "path", imagePath, "error", err)
	}
	log.Info("image decoded", "path", imagePath, "format", format)

	matrix := vision.FromImage(img)

	// External path is optional: no API key (or an explicit opt-out) means
	// rule-based only.
	var external analysis.ExternalAnalyzer
	if !envutil.Bool("GEMINI_ENABLED", true) {
		log.Info("external analysis disabled via GEMINI_ENABLED")
	} else if cfg := gemini.ConfigFromEnv(); cfg.APIKey != "" {
		client, err := gemini.New(cfg, log)
		if err != nil {
			log.Warn("gemini client init failed, continuing rule-based only", "error", err)
		} else {
			external = aidiagnosis.NewOrchestrator(client, log)
		}
	} else {
		log.Info("no GEMINI_API_KEY set, using rule-based analysis only")
	}

	care, err := careplan.NewSynthesizer(log)
	if err != nil {
		log.Fatal("care synthesizer init failed", "error", err)
	}

	service := analysis.NewService(analysis.Deps{
		Log:        log,
		Extractor:  vision.NewFeatureExtractor(log),
		Classifier: diagnosis.NewRuleBasedClassifier(log, envutil.Float("CONFIDENCE_THRESHOLD", diagnosis.DefaultConfidenceThreshold)),
		Severity:   diagnosis.NewSeverityEstimator(log),
		Care:       care,
		Logic:      logic.NewEngine(log),
		External:   external,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	result := service.AnalyzeImage(ctx, raw, matrix)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal("cannot encode result", "error", err)
	}
	fmt.Println(string(out))
}
