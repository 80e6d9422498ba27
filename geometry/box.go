package geometry

import (
	"image"
	"math"

	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// ObjectAlignedBox returns the four corners of the box aligned with the
// object: two corners at half width w either side of the target point, and
// two at the mirror of the target through the center. The corners are not
// in drawing order: the first pair sits at the target end, the second pair
// at the opposite end.
//
// Arguments:
// - rec: The object pose.
//
// Returns:
// - The four corners.
// - ErrDegenerate if the center and target coincide.
//
// @example
// corners, _ := ObjectAlignedBox(orientation.Record{Xc: 0, Yc: 0, Xt: 0, Yt: 5, W: 2})
// // (-2, 5), (2, 5), (2, -5), (-2, -5)
func ObjectAlignedBox(rec orientation.Record) ([4]r2.Vec, error) {
	var corners [4]r2.Vec
	c, t := Pt(rec.Xc, rec.Yc), Pt(rec.Xt, rec.Yt)
	if !finite(c) || !finite(t) || math.IsNaN(rec.W) || math.IsInf(rec.W, 0) {
		return corners, errors.Errorf("object pose %v is not finite", rec)
	}

	c1, c2, err := Perpendicular(c, t, rec.W)
	if err != nil {
		return corners, err
	}

	// Mirror the target point through the center.
	opposite, err := AlongVector(t, c, 2*Distance(c, t))
	if err != nil {
		return corners, err
	}
	c3, c4, err := Perpendicular(c, opposite, rec.W)
	if err != nil {
		return corners, err
	}

	corners[0], corners[1], corners[2], corners[3] = c1, c2, c3, c4
	return corners, nil
}

// Size is an image size in pixels.
type Size struct {
	H, W int
}

// BBox is an axis-aligned box given by its top-left corner and its size.
type BBox struct {
	X, Y, W, H int
}

// Rect is an axis-aligned box given by two corners.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Rect converts the box to corner form.
func (b BBox) Rect() Rect {
	return Rect{X1: b.X, Y1: b.Y, X2: b.X + b.W, Y2: b.Y + b.H}
}

// BBox converts the corner form back to top-left and size.
func (r Rect) BBox() BBox {
	return BBox{X: r.X1, Y: r.Y1, W: r.X2 - r.X1, H: r.Y2 - r.Y1}
}

// Increase grows the rectangle by scale around its center, clamped to the
// image. Each side grows by floor((size*scale - size) / 2) pixels.
//
// Arguments:
// - scale: The growth factor, e.g. 1.2 for 20% larger.
// - bounds: The image size to clamp to.
//
// Returns:
// - The grown rectangle.
func (r Rect) Increase(scale float64, bounds Size) Rect {
	bw := float64(r.X2 - r.X1)
	bh := float64(r.Y2 - r.Y1)
	growW := math.Floor((bw*scale - bw) / 2)
	growH := math.Floor((bh*scale - bh) / 2)

	return Rect{
		X1: int(math.Max(0, float64(r.X1)-growW)),
		Y1: int(math.Max(0, float64(r.Y1)-growH)),
		X2: int(math.Min(float64(bounds.W-1), float64(r.X2)+growW)),
		Y2: int(math.Min(float64(bounds.H-1), float64(r.Y2)+growH)),
	}
}

// Increase grows the box by scale around its center, clamped to the image.
func (b BBox) Increase(scale float64, bounds Size) BBox {
	return b.Rect().Increase(scale, bounds).BBox()
}

// ToOrigin expresses the box relative to a new origin. The size is kept;
// the result may go negative or outside the image.
func (b BBox) ToOrigin(origin image.Point) BBox {
	b.X -= origin.X
	b.Y -= origin.Y
	return b
}
