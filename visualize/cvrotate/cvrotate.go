// Package cvrotate - Debug panels of images rotated by ground truth and
// predicted orientation, rendered with OpenCV.
package cvrotate

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/nvr-ai/go-orientation/log"
	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/nvr-ai/go-orientation/visualize"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Options controls the rotated panel grid.
type Options struct {
	// MaxCols and MaxRows bound the sample grid.
	MaxCols, MaxRows int
	// PanelSize is the edge of one square panel in pixels.
	PanelSize int
}

// DefaultOptions returns a 4x4 grid of 256 pixel panels.
func DefaultOptions() Options {
	return Options{
		MaxCols:   visualize.DefaultMaxCols,
		MaxRows:   visualize.DefaultMaxRows,
		PanelSize: 256,
	}
}

// Rotate rotates img counterclockwise by angle degrees around centre. The
// output keeps the input size; uncovered pixels are black.
//
// Arguments:
// - img: The image to rotate.
// - angle: The rotation in degrees.
// - centre: The centre of rotation in pixels.
//
// Returns:
// - The rotated image.
// - An error if the image cannot be converted.
//
// @example
// upright, err := Rotate(frame, orientation.Degrees(theta), image.Pt(xc, yc))
func Rotate(img image.Image, angle float64, centre image.Point) (image.Image, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert image")
	}
	defer src.Close()

	rotated := rotateMat(src, angle, centre)
	defer rotated.Close()

	out, err := rotated.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert rotated image")
	}
	return out, nil
}

func rotateMat(src gocv.Mat, angle float64, centre image.Point) gocv.Mat {
	m := gocv.GetRotationMatrix2D(centre, angle, 1.0)
	defer m.Close()

	dst := gocv.NewMat()
	gocv.WarpAffine(src, &dst, m, image.Pt(src.Cols(), src.Rows()))
	return dst
}

// PlotRotated draws each sample rotated by its ground truth angle next to
// the same sample rotated by its predicted angle, around the respective
// center points. The grid is written to
// <outputDir>/debug_images/<prefix>.png.
//
// Arguments:
// - images: The sample images.
// - gt, pred: Ground truth and predicted poses; only the centers are used.
// - thetaGT, thetaPred: Angles in radians.
// - prefix: Name of the output file.
// - outputDir: The output directory.
// - opts: Grid options.
//
// Returns:
// - The path of the written file.
// - An error for mismatched inputs or a failed write.
func PlotRotated(images []image.Image, gt, pred orientation.Batch, thetaGT, thetaPred []float64, prefix, outputDir string, opts Options) (string, error) {
	n := len(images)
	if len(gt) != n || len(pred) != n || len(thetaGT) != n || len(thetaPred) != n {
		return "", errors.Wrapf(orientation.ErrInvalidInput,
			"panel inputs differ in length: images=%d gt=%d pred=%d thetaGT=%d thetaPred=%d",
			n, len(gt), len(pred), len(thetaGT), len(thetaPred))
	}
	if opts.PanelSize <= 0 {
		opts.PanelSize = DefaultOptions().PanelSize
	}
	layout, err := visualize.GridLayout(n, opts.MaxCols, opts.MaxRows)
	if err != nil {
		return "", err
	}

	size := opts.PanelSize
	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), layout.Rows*size, 2*layout.Cols*size, gocv.MatTypeCV8UC3)
	defer canvas.Close()

	for r := 0; r < layout.Rows; r++ {
		for c := 0; c < layout.Cols; c++ {
			if !layout.Valid(r, c) {
				continue
			}
			i := layout.Index(r, c)
			panels := []struct {
				rec   orientation.Record
				theta float64
				label string
			}{
				{gt[i], thetaGT[i], "GT Rotated by"},
				{pred[i], thetaPred[i], "Preds Rotated by"},
			}
			for k, p := range panels {
				at := image.Pt((2*c+k)*size, r*size)
				if err := drawPanel(&canvas, at, images[i], p.rec, p.theta, p.label, size); err != nil {
					return "", errors.Wrapf(err, "sample %d", i)
				}
			}
		}
	}

	path := filepath.Join(outputDir, visualize.DebugDir, prefix+".png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create output dir")
	}
	if ok := gocv.IMWrite(path, canvas); !ok {
		return "", errors.Errorf("failed to write %s", path)
	}
	log.Debugf("rotated panels: %d of %d samples -> %s", layout.Shown(), n, path)
	return path, nil
}

// drawPanel rotates img, scales it to a size x size panel, labels it and
// copies it into canvas at the given offset.
func drawPanel(canvas *gocv.Mat, at image.Point, img image.Image, rec orientation.Record, theta float64, label string, size int) error {
	if img == nil {
		return errors.New("image is nil")
	}
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return errors.Wrap(err, "failed to convert image")
	}
	defer src.Close()

	deg := orientation.Degrees(theta)
	centre := image.Pt(int(math.Round(rec.Xc)), int(math.Round(rec.Yc)))
	rotated := rotateMat(src, deg, centre)
	defer rotated.Close()

	panel := gocv.NewMat()
	defer panel.Close()
	gocv.Resize(rotated, &panel, image.Pt(size, size), 0, 0, gocv.InterpolationLinear)
	gocv.PutText(&panel, fmt.Sprintf("%s %.0f deg", label, deg), image.Pt(5, 15), gocv.FontHersheyPlain, 1.0, color.RGBA{255, 255, 255, 0}, 1)

	roi := canvas.Region(image.Rect(at.X, at.Y, at.X+size, at.Y+size))
	defer roi.Close()
	panel.CopyTo(&roi)
	return nil
}
