package stream

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestImage(t *testing.T, dir string, name string, c color.RGBA) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func TestLoaderFrame(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTestImage(t, dir, "a.png", color.RGBA{R: 255, A: 255}),
		writeTestImage(t, dir, "b.png", color.RGBA{B: 255, A: 255}),
	}

	l := NewSequenceLoader(paths, 8)
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}

	f, err := l.Frame(0)
	if err != nil {
		t.Fatalf("Frame(0) error: %v", err)
	}
	if f.Len() != 8 {
		t.Errorf("frame length = %d, want 8", f.Len())
	}

	// Second read serves the cached frame.
	f2, err := l.Frame(0)
	if err != nil {
		t.Fatalf("Frame(0) again error: %v", err)
	}
	if f2 != f {
		t.Error("Frame(0) decoded twice instead of caching")
	}
}

func TestLoaderFrameOutOfRange(t *testing.T) {
	l := NewSequenceLoader(nil, 8)
	if _, err := l.Frame(0); err == nil {
		t.Error("Frame(0) on empty sequence should error")
	}

	dir := t.TempDir()
	l = NewSequenceLoader([]string{writeTestImage(t, dir, "a.png", color.RGBA{A: 255})}, 8)
	if _, err := l.Frame(-1); err == nil {
		t.Error("Frame(-1) should error")
	}
	if _, err := l.Frame(1); err == nil {
		t.Error("Frame(1) should error")
	}
}

func TestLoaderPreloadAll(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTestImage(t, dir, "a.png", color.RGBA{R: 255, A: 255}),
		writeTestImage(t, dir, "b.png", color.RGBA{G: 255, A: 255}),
		writeTestImage(t, dir, "c.png", color.RGBA{B: 255, A: 255}),
	}

	l := NewSequenceLoader(paths, 8)
	if err := l.PreloadAll(); err != nil {
		t.Fatalf("PreloadAll() error: %v", err)
	}
	for i := range paths {
		if l.cache[i] == nil {
			t.Errorf("frame %d not cached after preload", i)
		}
	}
}

func TestLoaderBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	l := NewSequenceLoader([]string{path, filepath.Join(dir, "missing.png")}, 8)
	if _, err := l.Frame(0); err == nil {
		t.Error("decoding garbage should error")
	}
	if _, err := l.Frame(1); err == nil {
		t.Error("missing file should error")
	}
	if err := l.PreloadAll(); err == nil {
		t.Error("PreloadAll over bad files should error")
	}
}
