package pyramid

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/tiff"
)

// ImageReader serves planes from a single raster image decoded with the
// standard image registry (TIFF, PNG, JPEG). Grayscale images have one
// channel, everything else three (R, G, B). Levels are synthesised by block
// averaging the decoded image.
//
// Only the header is read on open; pixels are decoded on the first Plane
// call.
type ImageReader struct {
	path     string
	width    int
	height   int
	channels int
	wide     bool

	mu     sync.Mutex
	base   []*Plane
	cache  map[[2]int]*Plane
	closed bool
}

func OpenImage(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s header: %w", path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%s image %s has no pixels", format, path)
	}
	r := &ImageReader{
		path:     path,
		width:    cfg.Width,
		height:   cfg.Height,
		channels: 3,
		cache:    make(map[[2]int]*Plane),
	}
	switch cfg.ColorModel {
	case color.GrayModel:
		r.channels = 1
	case color.Gray16Model:
		r.channels = 1
		r.wide = true
	case color.RGBA64Model, color.NRGBA64Model:
		r.wide = true
	}
	return r, nil
}

func (r *ImageReader) Levels() int {
	n := 0
	for (r.width>>n) >= 1 && (r.height>>n) >= 1 {
		n++
	}
	return n
}

func (r *ImageReader) ChannelCount(level int) (int, error) {
	if err := checkLevel(level, r.Levels()); err != nil {
		return 0, err
	}
	return r.channels, nil
}

func (r *ImageReader) Plane(level, channel int) (*Plane, error) {
	if err := checkLevel(level, r.Levels()); err != nil {
		return nil, err
	}
	if err := checkChannel(channel, r.channels); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, fmt.Errorf("reader for %s is closed", r.path)
	}
	key := [2]int{level, channel}
	if p, ok := r.cache[key]; ok {
		return p, nil
	}
	if r.base == nil {
		if err := r.decode(); err != nil {
			return nil, err
		}
	}
	p := Downsample(r.base[channel], 1<<level)
	r.cache[key] = p
	return p, nil
}

func (r *ImageReader) decode() error {
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", r.path, err)
	}
	r.base = splitChannels(img, r.channels, r.wide)
	return nil
}

func splitChannels(img image.Image, channels int, wide bool) []*Plane {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	planes := make([]*Plane, channels)
	for i := range planes {
		planes[i] = NewPlane(w, h)
	}

	switch m := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+w]
			for x, v := range row {
				planes[0].Pix[y*w+x] = float32(v)
			}
		}
		return planes
	case *image.Gray16:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				planes[0].Pix[y*w+x] = float32(m.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return planes
	}

	shift := uint(8)
	if wide {
		shift = 0
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			i := y*w + x
			if channels == 1 {
				planes[0].Pix[i] = float32(c.R >> shift)
				continue
			}
			planes[0].Pix[i] = float32(c.R >> shift)
			planes[1].Pix[i] = float32(c.G >> shift)
			planes[2].Pix[i] = float32(c.B >> shift)
		}
	}
	return planes
}

func (r *ImageReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.base = nil
	r.cache = nil
	return nil
}
