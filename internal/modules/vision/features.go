package vision

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
	"github.com/verdantlabs/leafsense-backend/internal/platform/logger"
)

// greennessEpsilon keeps the greenness ratio finite on red/blue-free images.
const greennessEpsilon = 1e-5

// FeatureExtractor reduces a pixel matrix to the scalar feature vector the
// classifier scores against. Stateless apart from its logger.
type FeatureExtractor struct {
	log *logger.Logger
}

func NewFeatureExtractor(log *logger.Logger) *FeatureExtractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &FeatureExtractor{log: log.With("service", "feature_extractor")}
}

// Extract computes all six features in one pass over the matrix. Population
// moments throughout, so constant images yield exactly zero variance.
func (f *FeatureExtractor) Extract(m Matrix) (domain.FeatureVector, error) {
	if m.Empty() {
		return domain.FeatureVector{}, &domain.InvalidImageError{Reason: "empty matrix"}
	}
	if m.H < 2 || m.W < 2 {
		return domain.FeatureVector{}, &domain.InvalidImageError{Reason: "matrix smaller than 2x2"}
	}
	if m.C != 1 && m.C != 3 {
		return domain.FeatureVector{}, &domain.InvalidImageError{Reason: "unsupported channel count"}
	}

	gray := make([]float64, m.H*m.W)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			gray[y*m.W+x] = m.Gray(y, x)
		}
	}

	allStd := stat.PopStdDev(m.Data, nil)

	fv := domain.FeatureVector{
		ColorVariance:      stat.PopVariance(m.Data, nil),
		Brightness:         stat.Mean(gray, nil),
		Contrast:           stat.PopStdDev(gray, nil),
		Greenness:          f.greenness(m),
		EdgeDensity:        edgeDensity(gray, m.H, m.W),
		DamagedPixelsRatio: math.Min(allStd/255.0, 1.0),
	}
	f.log.Debug("features extracted",
		"brightness", fv.Brightness,
		"greenness", fv.Greenness,
		"edge_density", fv.EdgeDensity,
		"damaged_pixels_ratio", fv.DamagedPixelsRatio,
	)
	return fv, nil
}

// greenness is the green-channel dominance ratio. Defined only for RGB
// input; grayscale carries no hue information.
func (f *FeatureExtractor) greenness(m Matrix) float64 {
	if m.C != 3 {
		return 0
	}
	var r, g, b float64
	n := float64(m.H * m.W)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			r += m.At(y, x, 0)
			g += m.At(y, x, 1)
			b += m.At(y, x, 2)
		}
	}
	return (g / n) / (r/n + b/n + greennessEpsilon)
}

// edgeDensity averages the mean absolute first differences along both axes
// of the grayscale plane.
func edgeDensity(gray []float64, h, w int) float64 {
	var vert, horiz float64
	for y := 0; y < h-1; y++ {
		for x := 0; x < w; x++ {
			vert += math.Abs(gray[(y+1)*w+x] - gray[y*w+x])
		}
	}
	vert /= float64((h - 1) * w)
	for y := 0; y < h; y++ {
		for x := 0; x < w-1; x++ {
			horiz += math.Abs(gray[y*w+x+1] - gray[y*w+x])
		}
	}
	horiz /= float64(h * (w - 1))
	return (vert + horiz) / 2
}
