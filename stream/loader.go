package stream

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/seqtx/util"
)

// A SequenceLoader resolves frame indices to strip Frames. It owns the
// ordered image paths for a session; the engine only ever sees their count.
// Frames decode on first use unless PreloadAll is called up front.
type SequenceLoader struct {
	mu     sync.Mutex
	paths  []string
	pixels int
	lut    []float64
	cache  []*Frame
}

// NewSequenceLoader creates a loader over an ordered list of image files,
// flattening each onto a strip of the given length.
func NewSequenceLoader(paths []string, pixels int) *SequenceLoader {
	if pixels <= 0 {
		pixels = DefaultPixels
	}

	l := new(SequenceLoader)
	l.paths = paths
	l.pixels = pixels
	l.lut = util.GenerateLut(pixels)
	l.cache = make([]*Frame, len(paths))
	return l
}

// Len returns the number of frames in the sequence.
func (l *SequenceLoader) Len() int {
	return len(l.paths)
}

// Frame returns the strip frame for index i, decoding and caching it on
// first use.
func (l *SequenceLoader) Frame(i int) (*Frame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.paths) {
		return nil, fmt.Errorf("frame %d out of range (%d frames)", i, len(l.paths))
	}
	if l.cache[i] != nil {
		return l.cache[i], nil
	}

	f, err := l.load(l.paths[i])
	if err != nil {
		return nil, err
	}
	l.cache[i] = f
	return f, nil
}

// PreloadAll eagerly decodes every image in the sequence.
func (l *SequenceLoader) PreloadAll() error {
	for i := range l.paths {
		if _, err := l.Frame(i); err != nil {
			return err
		}
	}
	return nil
}

func (l *SequenceLoader) load(path string) (*Frame, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return l.flatten(img), nil
}

// flatten samples one column per strip position, averages it down to a
// single colour and applies the eased edge gain table.
func (l *SequenceLoader) flatten(img image.Image) *Frame {
	f := NewFrame(l.pixels)
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	for i := 0; i < l.pixels; i++ {
		x := bounds.Min.X + i*width/l.pixels
		var r, g, b float64
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			r += float64(pr)
			g += float64(pg)
			b += float64(pb)
		}
		n := float64(height) * 65535.0
		gain := l.lut[i]
		f.SetPixel(i, colorful.Color{R: r / n * gain, G: g / n * gain, B: b / n * gain})
	}
	return f
}
