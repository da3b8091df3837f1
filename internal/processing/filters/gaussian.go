package filters

import (
	"context"
	"fmt"
	"math"

	"positive-area/internal/pyramid"
)

// Smoother produces a smoothed copy of a plane. The input is never modified.
type Smoother interface {
	Name() string
	Smooth(ctx context.Context, input *pyramid.Plane) (*pyramid.Plane, error)
}

// GaussianFilter is a separable Gaussian with half-sample symmetric
// ("reflect") borders. The kernel radius is int(Truncate*Sigma + 0.5).
type GaussianFilter struct {
	Sigma    float64
	Truncate float64
}

func NewGaussianFilter(sigma, truncate float64) *GaussianFilter {
	return &GaussianFilter{Sigma: sigma, Truncate: truncate}
}

func (g *GaussianFilter) Name() string {
	return "gaussian_filter"
}

func (g *GaussianFilter) Smooth(ctx context.Context, input *pyramid.Plane) (*pyramid.Plane, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if input == nil {
		return nil, fmt.Errorf("gaussian filter: nil plane")
	}
	if g.Sigma <= 0.0 || input.Len() == 0 {
		return input.Clone(), nil
	}

	kernel := GaussianKernel(g.Sigma, g.Truncate)
	tmp := pyramid.NewPlane(input.Width, input.Height)
	correlateColumns(input, tmp, kernel)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	out := pyramid.NewPlane(input.Width, input.Height)
	correlateRows(tmp, out, kernel)
	return out, nil
}

// GaussianKernel returns the normalised 1-D weights for offsets
// -radius..radius.
func GaussianKernel(sigma, truncate float64) []float64 {
	radius := KernelRadius(sigma, truncate)
	weights := make([]float64, 2*radius+1)
	var sum float64
	for i := range weights {
		x := float64(i - radius)
		weights[i] = math.Exp(-0.5 * x * x / (sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

func KernelRadius(sigma, truncate float64) int {
	return int(truncate*sigma + 0.5)
}

// reflect maps i into [0, n) mirroring about the pixel edges:
// d c b a | a b c d | d c b a.
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// correlateColumns filters along y (axis 0) first, then correlateRows along
// x, storing the intermediate as float32 like the array it came from.
func correlateColumns(src, dst *pyramid.Plane, kernel []float64) {
	radius := len(kernel) / 2
	w, h := src.Width, src.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k, wt := range kernel {
				yy := reflect(y+k-radius, h)
				acc += wt * float64(src.Pix[yy*w+x])
			}
			dst.Pix[y*w+x] = float32(acc)
		}
	}
}

func correlateRows(src, dst *pyramid.Plane, kernel []float64) {
	radius := len(kernel) / 2
	w, h := src.Width, src.Height
	for y := 0; y < h; y++ {
		row := src.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var acc float64
			for k, wt := range kernel {
				acc += wt * float64(row[reflect(x+k-radius, w)])
			}
			dst.Pix[y*w+x] = float32(acc)
		}
	}
}
