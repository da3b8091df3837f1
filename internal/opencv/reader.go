// Package opencv provides gocv-backed implementations of the pixel provider
// and the smoothing filter.
package opencv

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"positive-area/internal/opencv/conversion"
	"positive-area/internal/opencv/safe"
	"positive-area/internal/pyramid"
)

// Reader loads every page of a (multi-page) image through OpenCV. Each
// single-channel page is one channel; colour pages contribute R, G and B in
// that order. Lower resolution levels are produced with area resampling.
type Reader struct {
	path    string
	width   int
	height  int
	base    []*safe.Mat
	tracker safe.MemoryTracker

	mu    sync.Mutex
	cache map[[2]int]*pyramid.Plane
}

// NewOpener returns a pyramid.Opener that reports allocations to tracker,
// which may be nil.
func NewOpener(tracker safe.MemoryTracker) pyramid.Opener {
	return func(path string) (pyramid.Reader, error) {
		return Open(path, tracker)
	}
}

func Open(path string, tracker safe.MemoryTracker) (*Reader, error) {
	pages := gocv.IMReadMulti(path, gocv.IMReadUnchanged)
	if len(pages) == 0 {
		return nil, fmt.Errorf("opencv could not read %s", path)
	}

	r := &Reader{path: path, tracker: tracker, cache: make(map[[2]int]*pyramid.Plane)}
	var failed error
	for i, page := range pages {
		if failed != nil {
			page.Close()
			continue
		}
		if err := r.addPage(i, page); err != nil {
			failed = err
		}
	}
	if failed != nil {
		r.Close()
		return nil, failed
	}
	return r, nil
}

func (r *Reader) addPage(index int, page gocv.Mat) error {
	defer page.Close()

	if page.Empty() {
		return fmt.Errorf("page %d of %s is empty", index, r.path)
	}
	if r.width == 0 {
		r.width, r.height = page.Cols(), page.Rows()
	} else if page.Cols() != r.width || page.Rows() != r.height {
		return fmt.Errorf("page %d of %s is %dx%d, expected %dx%d",
			index, r.path, page.Cols(), page.Rows(), r.width, r.height)
	}

	var channels []gocv.Mat
	if page.Channels() == 1 {
		channels = []gocv.Mat{page.Clone()}
	} else {
		split := gocv.Split(page)
		// BGR(A) -> R, G, B
		for _, i := range []int{2, 1, 0} {
			if i < len(split) {
				channels = append(channels, split[i])
			}
		}
		for i := 3; i < len(split); i++ {
			split[i].Close()
		}
	}

	var failed error
	for _, ch := range channels {
		if failed != nil {
			ch.Close()
			continue
		}
		owned, err := safe.Adopt(ch, r.tracker, fmt.Sprintf("page%d", index))
		if err != nil {
			failed = err
			continue
		}
		f32, err := conversion.ToFloat32(owned, r.tracker)
		owned.Close()
		if err != nil {
			failed = err
			continue
		}
		r.base = append(r.base, f32)
	}
	return failed
}

func (r *Reader) Levels() int {
	n := 0
	for (r.width>>n) >= 1 && (r.height>>n) >= 1 {
		n++
	}
	return n
}

func (r *Reader) ChannelCount(level int) (int, error) {
	if level < 0 || level >= r.Levels() {
		return 0, fmt.Errorf("%w: level %d (image has %d)", pyramid.ErrLevelUnavailable, level, r.Levels())
	}
	return len(r.base), nil
}

func (r *Reader) Plane(level, channel int) (*pyramid.Plane, error) {
	n, err := r.ChannelCount(level)
	if err != nil {
		return nil, err
	}
	if channel < 0 || channel >= n {
		return nil, fmt.Errorf("%w: channel index %d (image has %d)", pyramid.ErrChannelUnavailable, channel, n)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int{level, channel}
	if p, ok := r.cache[key]; ok {
		return p, nil
	}

	src := r.base[channel]
	if level == 0 {
		p, err := conversion.PlaneFromMat(src)
		if err != nil {
			return nil, err
		}
		r.cache[key] = p
		return p, nil
	}

	resized, err := conversion.ResizeArea(src, r.width>>level, r.height>>level, r.tracker)
	if err != nil {
		return nil, err
	}
	defer resized.Close()

	p, err := conversion.PlaneFromMat(resized)
	if err != nil {
		return nil, err
	}
	r.cache[key] = p
	return p, nil
}

func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.base {
		m.Close()
	}
	r.base = nil
	r.cache = nil
	return nil
}
