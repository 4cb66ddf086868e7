package vision

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// TargetSize is the fixed square side every image is scaled to before
// analysis.
const TargetSize = 224

// Matrix is an H×W×C pixel block in row-major order on the 0-255 scale.
// C is 1 (grayscale) or 3 (RGB).
type Matrix struct {
	H, W, C int
	Data    []float64
}

func NewMatrix(h, w, c int) Matrix {
	return Matrix{H: h, W: w, C: c, Data: make([]float64, h*w*c)}
}

func (m Matrix) At(y, x, c int) float64 {
	return m.Data[(y*m.W+x)*m.C+c]
}

func (m Matrix) Set(y, x, c int, v float64) {
	m.Data[(y*m.W+x)*m.C+c] = v
}

// Empty reports whether the matrix holds no pixels.
func (m Matrix) Empty() bool {
	return m.H == 0 || m.W == 0 || m.C == 0 || len(m.Data) == 0
}

// Gray collapses the channels of one pixel to their mean.
func (m Matrix) Gray(y, x int) float64 {
	base := (y*m.W + x) * m.C
	sum := 0.0
	for c := 0; c < m.C; c++ {
		sum += m.Data[base+c]
	}
	return sum / float64(m.C)
}

// Region copies the half-open window [y0,y1)×[x0,x1) into a new matrix.
func (m Matrix) Region(y0, x0, y1, x1 int) Matrix {
	if y0 < 0 {
		y0 = 0
	}
	if x0 < 0 {
		x0 = 0
	}
	if y1 > m.H {
		y1 = m.H
	}
	if x1 > m.W {
		x1 = m.W
	}
	if y1 <= y0 || x1 <= x0 {
		return Matrix{C: m.C}
	}
	out := NewMatrix(y1-y0, x1-x0, m.C)
	for y := y0; y < y1; y++ {
		src := (y*m.W + x0) * m.C
		dst := ((y - y0) * out.W) * out.C
		copy(out.Data[dst:dst+out.W*out.C], m.Data[src:src+out.W*out.C])
	}
	return out
}

// FromImage scales img to the analysis size and converts it to an RGB
// matrix. Decoding the source bytes stays with the caller.
func FromImage(img image.Image) Matrix {
	scaled := image.NewRGBA(image.Rect(0, 0, TargetSize, TargetSize))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	m := NewMatrix(TargetSize, TargetSize, 3)
	for y := 0; y < TargetSize; y++ {
		for x := 0; x < TargetSize; x++ {
			i := scaled.PixOffset(x, y)
			m.Set(y, x, 0, float64(scaled.Pix[i]))
			m.Set(y, x, 1, float64(scaled.Pix[i+1]))
			m.Set(y, x, 2, float64(scaled.Pix[i+2]))
		}
	}
	return m
}
