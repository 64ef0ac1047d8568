package stream

import (
	"encoding/binary"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPixels is the strip length used when the sequence config does not
// set one.
const DefaultPixels = 500

// Frame represents a strip of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a black Frame of the given strip length.
func NewFrame(pixels int) *Frame {
	if pixels <= 0 {
		pixels = DefaultPixels
	}
	f := new(Frame)
	f.pixels = make([]colorful.Color, pixels)
	return f
}

// Len returns the strip length.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// SetPixel sets the colour at position i.
func (f *Frame) SetPixel(i int, c colorful.Color) {
	f.pixels[i] = c
}

// InterpolateFrame blends two frames at the given transition point, 0 being
// entirely f and 1 entirely f2.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := NewFrame(len(f.pixels))
	for i := 0; i < len(f.pixels); i++ {
		out.pixels[i] = f.pixels[i].BlendHcl(f2.pixels[i], transitionPoint)
	}

	return out
}

// MarshalBinary converts a Frame into the ledrx wire format: a little
// endian uint16 pixel count followed by RGB byte triples.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
