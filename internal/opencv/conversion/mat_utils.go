package conversion

import (
	"fmt"
	"image"
	"unsafe"

	"gocv.io/x/gocv"

	"positive-area/internal/opencv/safe"
	"positive-area/internal/pyramid"
)

// ToFloat32 converts a single-channel Mat of any depth to CV_32F without
// scaling, so intensities keep their stored values.
func ToFloat32(src *safe.Mat, tracker safe.MemoryTracker) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "Mat type conversion"); err != nil {
		return nil, err
	}
	if src.Channels() != 1 {
		return nil, fmt.Errorf("expected a single-channel Mat, got %d channels", src.Channels())
	}

	dst := gocv.NewMat()
	srcMat := src.GetMat()
	srcMat.ConvertTo(&dst, gocv.MatTypeCV32F)
	return safe.Adopt(dst, tracker, "float32")
}

// ResizeArea shrinks src to width×height with area interpolation, which
// averages the source pixels covered by each destination pixel.
func ResizeArea(src *safe.Mat, width, height int, tracker safe.MemoryTracker) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "Mat resizing"); err != nil {
		return nil, err
	}
	if err := safe.ValidateDimensions(width, height, "Mat resizing"); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	srcMat := src.GetMat()
	gocv.Resize(srcMat, &dst, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationArea)
	return safe.Adopt(dst, tracker, "resized")
}

// PlaneFromMat copies a CV_32FC1 Mat into a Plane.
func PlaneFromMat(src *safe.Mat) (*pyramid.Plane, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to plane"); err != nil {
		return nil, err
	}
	if src.Type() != gocv.MatTypeCV32FC1 {
		return nil, fmt.Errorf("expected CV_32FC1, got %v", src.Type())
	}

	m := src.GetMat()
	data, err := m.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read Mat data: %w", err)
	}
	plane := pyramid.NewPlane(src.Cols(), src.Rows())
	copy(plane.Pix, data)
	return plane, nil
}

// MatFromPlane copies a Plane into a new CV_32FC1 Mat.
func MatFromPlane(p *pyramid.Plane, tracker safe.MemoryTracker) (*safe.Mat, error) {
	if err := safe.ValidateDimensions(p.Width, p.Height, "plane to Mat"); err != nil {
		return nil, err
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&p.Pix[0])), len(p.Pix)*4)
	m, err := gocv.NewMatFromBytes(p.Height, p.Width, gocv.MatTypeCV32FC1, raw)
	if err != nil {
		return nil, fmt.Errorf("plane to Mat: %w", err)
	}
	// NewMatFromBytes may share raw; clone so the Mat owns its pixels.
	owned := m.Clone()
	m.Close()
	return safe.Adopt(owned, tracker, "plane")
}
