package effects

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/vic/alienvm/pkg/symbol"
)

// ImageSink renders a Picture to a PNG file under Dir, the host-chosen
// directory §6 allows renderings to be written to. Display never
// returns an error — failures are logged, per §4.5's contract that
// display failures are not surfaced to the evaluator.
type ImageSink struct {
	Dir     string
	counter int64
}

// NewImageSink ensures Dir exists and returns a sink rooted there.
func NewImageSink(dir string) (*ImageSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("effects: create image dir %s: %w", dir, err)
	}
	return &ImageSink{Dir: dir}, nil
}

func (s *ImageSink) Display(pic *symbol.Picture) {
	n := atomic.AddInt64(&s.counter, 1)
	path := filepath.Join(s.Dir, fmt.Sprintf("frame-%04d.png", n))

	img := rasterize(pic)
	f, err := os.Create(path)
	if err != nil {
		glog.Errorf("effects: create %s: %v", path, err)
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		glog.Errorf("effects: encode %s: %v", path, err)
		return
	}
	glog.V(1).Infof("effects: wrote %s (%d pixels)", path, len(pic.Pixels))
}

// rasterize converts a sparse Picture into a dense grayscale bitmap
// sized to its bounding box, mirroring the prototype's use of the Rust
// `image` crate's GrayImage as the Draw/Checkerboard render target.
func rasterize(pic *symbol.Picture) *image.Gray {
	w := pic.MaxX - pic.MinX + 1
	h := pic.MaxY - pic.MinY + 1
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for px := range pic.Pixels {
		img.SetGray(px.X-pic.MinX, px.Y-pic.MinY, color.Gray{Y: 0xff})
	}
	return img
}
