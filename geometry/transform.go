package geometry

import (
	"image"
	"math"

	"github.com/nfnt/resize"
	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// RotateCoordinates rotates points by angle degrees around centre using the
// image-axis convention (y grows downwards), so a positive angle turns the
// points counterclockwise on screen.
//
// When expand is true the points are then shifted so that the rotated image
// corners start at (0, 0), matching an image rotated with its canvas grown
// to fit.
//
// Arguments:
// - pts: The points to rotate.
// - angle: The rotation in degrees.
// - centre: The centre of rotation.
// - size: The image size, used only when expand is true.
// - expand: Whether to shift into the expanded canvas.
//
// Returns:
// - The rotated points, in a new slice.
func RotateCoordinates(pts []r2.Vec, angle float64, centre r2.Vec, size Size, expand bool) []r2.Vec {
	cos, sin := math.Cos(orientation.Radians(angle)), math.Sin(orientation.Radians(angle))
	apply := func(p r2.Vec) r2.Vec {
		d := r2.Sub(p, centre)
		return r2.Add(r2.Vec{X: cos*d.X + sin*d.Y, Y: -sin*d.X + cos*d.Y}, centre)
	}

	out := make([]r2.Vec, len(pts))
	for i, p := range pts {
		out[i] = apply(p)
	}
	if !expand {
		return out
	}

	rows, cols := float64(size.H), float64(size.W)
	corners := []r2.Vec{{X: 0, Y: 0}, {X: 0, Y: rows - 1}, {X: cols - 1, Y: rows - 1}, {X: cols - 1, Y: 0}}
	shift := r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	for _, c := range corners {
		rc := apply(c)
		shift.X = math.Min(shift.X, rc.X)
		shift.Y = math.Min(shift.Y, rc.Y)
	}
	for i := range out {
		out[i] = r2.Sub(out[i], shift)
	}
	return out
}

// ResizeCoords maps a pixel position from one image size to another,
// truncating to whole pixels.
func ResizeCoords(p r2.Vec, from, to Size) r2.Vec {
	return r2.Vec{
		X: math.Trunc(p.X / float64(from.W) * float64(to.W)),
		Y: math.Trunc(p.Y / float64(from.H) * float64(to.H)),
	}
}

// Sample is an annotated image: the image, the object pose and its
// annotated orientation in radians.
type Sample struct {
	Image  image.Image
	Record orientation.Record
	Theta  float64
}

// ResizeSample resizes the image of a sample with bicubic interpolation and
// carries the pose into the new size. The width is re-measured from the
// resized end of the width segment, and theta is recomputed from the
// resized center and target in the annotation convention.
//
// Arguments:
// - s: The sample to resize.
// - to: The target image size.
//
// Returns:
// - The resized sample.
// - An error if the image is nil or the pose is degenerate.
func ResizeSample(s Sample, to Size) (Sample, error) {
	if s.Image == nil {
		return Sample{}, errors.New("sample image is nil")
	}
	if to.W <= 0 || to.H <= 0 {
		return Sample{}, errors.Errorf("invalid target size %dx%d", to.W, to.H)
	}
	b := s.Image.Bounds()
	from := Size{H: b.Dy(), W: b.Dx()}

	rec := s.Record
	c, t := Pt(rec.Xc, rec.Yc), Pt(rec.Xt, rec.Yt)
	wEnd, _, err := Perpendicular(c, t, rec.W)
	if err != nil {
		return Sample{}, errors.Wrap(err, "width segment")
	}

	c = ResizeCoords(c, from, to)
	t = ResizeCoords(t, from, to)
	wEnd = ResizeCoords(wEnd, from, to)

	out := orientation.Record{Xc: c.X, Yc: c.Y, Xt: t.X, Yt: t.Y, W: Distance(wEnd, t)}
	return Sample{
		Image:  resize.Resize(uint(to.W), uint(to.H), s.Image, resize.Bicubic),
		Record: out,
		Theta:  orientation.DeriveTheta(orientation.Batch{out})[0],
	}, nil
}
