package filters

import (
	"fmt"

	"positive-area/internal/pyramid"
)

// Mask is a boolean field with the shape of the plane it was derived from.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// Threshold marks every pixel strictly greater than t.
func Threshold(p *pyramid.Plane, t float64) *Mask {
	m := &Mask{Width: p.Width, Height: p.Height, bits: make([]bool, len(p.Pix))}
	for i, v := range p.Pix {
		m.bits[i] = float64(v) > t
	}
	return m
}

func (m *Mask) At(x, y int) bool {
	return m.bits[y*m.Width+x]
}

func (m *Mask) Len() int {
	return len(m.bits)
}

func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// CountAnd counts pixels set in both masks.
func (m *Mask) CountAnd(other *Mask) (int, error) {
	if m.Width != other.Width || m.Height != other.Height {
		return 0, fmt.Errorf("mask shape %dx%d does not match %dx%d",
			m.Width, m.Height, other.Width, other.Height)
	}
	n := 0
	for i, b := range m.bits {
		if b && other.bits[i] {
			n++
		}
	}
	return n, nil
}
