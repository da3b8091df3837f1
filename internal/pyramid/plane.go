package pyramid

// Plane is a row-major single-channel image of float32 intensities.
type Plane struct {
	Width  int
	Height int
	Pix    []float32
}

func NewPlane(width, height int) *Plane {
	return &Plane{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// Uniform returns a plane filled with v.
func Uniform(width, height int, v float32) *Plane {
	p := NewPlane(width, height)
	for i := range p.Pix {
		p.Pix[i] = v
	}
	return p
}

// FromRows builds a plane from equally long rows.
func FromRows(rows [][]float32) *Plane {
	if len(rows) == 0 {
		return NewPlane(0, 0)
	}
	p := NewPlane(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(p.Pix[y*p.Width:(y+1)*p.Width], row)
	}
	return p
}

func (p *Plane) At(x, y int) float32 {
	return p.Pix[y*p.Width+x]
}

func (p *Plane) Set(x, y int, v float32) {
	p.Pix[y*p.Width+x] = v
}

func (p *Plane) Len() int {
	return len(p.Pix)
}

func (p *Plane) SameShape(o *Plane) bool {
	return p.Width == o.Width && p.Height == o.Height
}

func (p *Plane) Clone() *Plane {
	c := &Plane{Width: p.Width, Height: p.Height, Pix: make([]float32, len(p.Pix))}
	copy(c.Pix, p.Pix)
	return c
}

// Downsample averages non-overlapping factor×factor blocks. Trailing rows
// and columns that do not fill a block are dropped.
func Downsample(p *Plane, factor int) *Plane {
	if factor <= 1 {
		return p.Clone()
	}
	w, h := p.Width/factor, p.Height/factor
	out := NewPlane(w, h)
	n := float64(factor * factor)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for dy := 0; dy < factor; dy++ {
				row := (y*factor + dy) * p.Width
				for dx := 0; dx < factor; dx++ {
					sum += float64(p.Pix[row+x*factor+dx])
				}
			}
			out.Pix[y*w+x] = float32(sum / n)
		}
	}
	return out
}
