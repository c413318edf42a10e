package heatmap

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestImageContainerComposite(t *testing.T) {
	c := NewImageContainer(solid(20, 20, color.White), 1)
	hm, err := New(c, WithType(TypeHorizontal), WithGradient(testStops),
		WithRenderer(NewSoftwareRenderer()), WithColorStrategy(GradientLookup), WithMax(1))
	if err != nil {
		t.Fatal(err)
	}
	// left half of the clip space
	if err := hm.RenderRects([]Rect{{X: -1, Y: 1, SizeX: 1, SizeY: 2, Value: 1}}); err != nil {
		t.Fatal(err)
	}

	out := c.Composite()
	if got := out.RGBAAt(5, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("covered pixel = %v, want red", got)
	}
	if got := out.RGBAAt(15, 10); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("uncovered pixel = %v, want the white base", got)
	}
}

func TestImageContainerScalesOverlay(t *testing.T) {
	c := NewImageContainer(solid(10, 10, color.Black), 2)
	hm, err := New(c, WithType(TypeHorizontal), WithGradient(testStops),
		WithRenderer(NewSoftwareRenderer()), WithColorStrategy(GradientLookup), WithMax(1))
	if err != nil {
		t.Fatal(err)
	}
	if w, h := hm.Overlay().BackingSize(); w != 20 || h != 20 {
		t.Fatalf("BackingSize() = %dx%d, want 20x20", w, h)
	}
	if err := hm.RenderRects([]Rect{{X: -1, Y: 1, SizeX: 2, SizeY: 2, Value: 1}}); err != nil {
		t.Fatal(err)
	}

	out := c.Composite()
	if b := out.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Fatalf("Composite() bounds = %v, want 10x10", b)
	}
	if got := out.RGBAAt(5, 5); got.R < 250 || got.G > 5 {
		t.Errorf("scaled pixel = %v, want red", got)
	}
}

func TestImageContainerWithoutOverlay(t *testing.T) {
	c := NewImageContainer(solid(4, 4, color.White), 0)
	if c.PixelRatio() != 1 {
		t.Errorf("PixelRatio() = %v, want 1 for a non-positive ratio", c.PixelRatio())
	}
	if got := c.Composite().RGBAAt(1, 1); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Composite() = %v, want the base", got)
	}
}
