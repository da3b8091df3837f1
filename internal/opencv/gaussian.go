package opencv

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"positive-area/internal/opencv/conversion"
	"positive-area/internal/opencv/safe"
	"positive-area/internal/processing/filters"
	"positive-area/internal/pyramid"
)

// GaussianFilter smooths planes with cv::GaussianBlur using BORDER_REFLECT
// and the same kernel radius as the native filter, so both backends agree
// up to float rounding.
type GaussianFilter struct {
	Sigma    float64
	Truncate float64
	tracker  safe.MemoryTracker
}

var _ filters.Smoother = (*GaussianFilter)(nil)

func NewGaussianFilter(sigma, truncate float64, tracker safe.MemoryTracker) *GaussianFilter {
	return &GaussianFilter{Sigma: sigma, Truncate: truncate, tracker: tracker}
}

func (g *GaussianFilter) Name() string {
	return "opencv_gaussian_filter"
}

func (g *GaussianFilter) Smooth(ctx context.Context, input *pyramid.Plane) (*pyramid.Plane, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if input == nil {
		return nil, fmt.Errorf("opencv gaussian filter: nil plane")
	}
	if g.Sigma <= 0.0 || input.Len() == 0 {
		return input.Clone(), nil
	}

	src, err := conversion.MatFromPlane(input, g.tracker)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	kernelSize := 2*filters.KernelRadius(g.Sigma, g.Truncate) + 1
	dst := gocv.NewMat()
	srcMat := src.GetMat()
	gocv.GaussianBlur(srcMat, &dst, image.Point{X: kernelSize, Y: kernelSize}, g.Sigma, g.Sigma, gocv.BorderReflect)

	out, err := safe.Adopt(dst, g.tracker, "gaussian")
	if err != nil {
		return nil, err
	}
	defer out.Close()

	return conversion.PlaneFromMat(out)
}
