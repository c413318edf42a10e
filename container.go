package heatmap

import (
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/gogpu/heatmap/render"
)

// Container is the element a heatmap is drawn over.
//
// ClientSize returns the layout size in CSS pixels and PixelRatio the number
// of backing-store pixels per CSS pixel. Both are read on New and Resize.
type Container interface {
	ClientSize() (width, height int)
	PixelRatio() float64
}

// OverlayReceiver is implemented by containers that display the overlay.
// New calls AttachOverlay once; the overlay contents change on every render.
type OverlayReceiver interface {
	AttachOverlay(o *Overlay)
}

// Overlay is the drawing surface of a heatmap. Its backing store is
// ClientSize × PixelRatio pixels and it is shown at the container's CSS size.
type Overlay struct {
	target        *render.PixmapTarget
	width, height int
}

// Size returns the CSS size the overlay is displayed at.
func (o *Overlay) Size() (width, height int) {
	return o.width, o.height
}

// BackingSize returns the size of the overlay pixels.
func (o *Overlay) BackingSize() (width, height int) {
	return o.target.Width(), o.target.Height()
}

// Image returns the overlay pixels (non-premultiplied). The image is
// reallocated on resize.
func (o *Overlay) Image() *image.NRGBA {
	return o.target.Image()
}

// ImageContainer is an in-memory Container that composites the overlay
// over a base image, for headless rendering.
type ImageContainer struct {
	mu      sync.Mutex
	base    image.Image
	ratio   float64
	overlay *Overlay
	kernel  draw.Interpolator
}

// NewImageContainer creates a container the size of base. A pixelRatio that
// is not positive is treated as 1.
func NewImageContainer(base image.Image, pixelRatio float64) *ImageContainer {
	if !(pixelRatio > 0) {
		pixelRatio = 1
	}
	return &ImageContainer{base: base, ratio: pixelRatio, kernel: draw.ApproxBiLinear}
}

// ClientSize returns the size of the base image.
func (c *ImageContainer) ClientSize() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.base.Bounds()
	return b.Dx(), b.Dy()
}

// PixelRatio returns the configured pixel ratio.
func (c *ImageContainer) PixelRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ratio
}

// AttachOverlay implements OverlayReceiver.
func (c *ImageContainer) AttachOverlay(o *Overlay) {
	c.mu.Lock()
	c.overlay = o
	c.mu.Unlock()
}

// SetBase replaces the base image, changing the client size. Call
// Heatmap.Resize afterwards.
func (c *ImageContainer) SetBase(base image.Image) {
	c.mu.Lock()
	c.base = base
	c.mu.Unlock()
}

// SetPixelRatio changes the pixel ratio. Call Heatmap.Resize afterwards.
func (c *ImageContainer) SetPixelRatio(ratio float64) {
	if !(ratio > 0) {
		ratio = 1
	}
	c.mu.Lock()
	c.ratio = ratio
	c.mu.Unlock()
}

// SetInterpolator sets the kernel used to scale the overlay from its
// backing size to the client size (default draw.ApproxBiLinear).
func (c *ImageContainer) SetInterpolator(k draw.Interpolator) {
	c.mu.Lock()
	c.kernel = k
	c.mu.Unlock()
}

// Composite returns the base image with the overlay drawn over it at client
// size.
func (c *ImageContainer) Composite() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.base.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), c.base, b.Min, draw.Src)
	if c.overlay == nil {
		return dst
	}

	src := c.overlay.Image()
	sb := src.Bounds()
	if sb.Empty() {
		return dst
	}
	if sb.Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
		return dst
	}
	c.kernel.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}
