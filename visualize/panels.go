package visualize

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
	"github.com/nvr-ai/go-orientation/geometry"
	"github.com/nvr-ai/go-orientation/log"
	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DebugDir is the subdirectory of the output directory holding panel grids.
const DebugDir = "debug_images"

var (
	centerColor = color.RGBA{R: 255, A: 255}
	targetColor = color.RGBA{R: 255, G: 255, A: 255}
	boxColor    = color.RGBA{G: 200, A: 255}
)

// PanelOptions controls the size of a panel grid.
type PanelOptions struct {
	// MaxCols and MaxRows bound the sample grid.
	MaxCols, MaxRows int
	// PanelSize is the edge of one square panel.
	PanelSize vg.Length
	// Thumbnail bounds the images in pixels before they are drawn; 0 keeps
	// them at full size.
	Thumbnail uint
	// DPI of the written PNG.
	DPI int
}

// DefaultPanelOptions returns a 4x4 grid of 4 inch panels at 100 dpi.
func DefaultPanelOptions() PanelOptions {
	return PanelOptions{
		MaxCols:   DefaultMaxCols,
		MaxRows:   DefaultMaxRows,
		PanelSize: 4 * vg.Inch,
		Thumbnail: 256,
		DPI:       100,
	}
}

// PlotImages draws each sample twice, ground truth on the left and the
// prediction on the right, with the center point in red, the target point in
// yellow and the corners of the object-aligned box in green. The grid is
// written to <outputDir>/debug_images/<prefix>.png.
//
// Arguments:
// - images: The sample images, one per record.
// - gt, pred: Ground truth and predicted poses in image pixels.
// - thetaGT, thetaPred: Angles in radians, shown in the panel titles.
// - prefix: Name of the output file.
// - outputDir: The output directory.
// - opts: Grid options.
//
// Returns:
// - The path of the written file.
// - An error for mismatched inputs or a failed write.
func PlotImages(images []image.Image, gt, pred orientation.Batch, thetaGT, thetaPred []float64, prefix, outputDir string, opts PanelOptions) (string, error) {
	n := len(images)
	if len(gt) != n || len(pred) != n || len(thetaGT) != n || len(thetaPred) != n {
		return "", errors.Wrapf(orientation.ErrInvalidInput,
			"panel inputs differ in length: images=%d gt=%d pred=%d thetaGT=%d thetaPred=%d",
			n, len(gt), len(pred), len(thetaGT), len(thetaPred))
	}
	layout, err := GridLayout(n, opts.MaxCols, opts.MaxRows)
	if err != nil {
		return "", err
	}

	plots := make([][]*plot.Plot, layout.Rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, 2*layout.Cols)
		for c := 0; c < layout.Cols; c++ {
			if !layout.Valid(r, c) {
				continue
			}
			i := layout.Index(r, c)
			title := fmt.Sprintf("GT Theta %.0f deg", orientation.Degrees(thetaGT[i]))
			if plots[r][2*c], err = posePanel(images[i], gt[i], title, opts.Thumbnail); err != nil {
				return "", errors.Wrapf(err, "sample %d ground truth", i)
			}
			title = fmt.Sprintf("Preds Theta %.0f deg", orientation.Degrees(thetaPred[i]))
			if plots[r][2*c+1], err = posePanel(images[i], pred[i], title, opts.Thumbnail); err != nil {
				return "", errors.Wrapf(err, "sample %d prediction", i)
			}
		}
	}

	path := filepath.Join(outputDir, DebugDir, prefix+".png")
	if err := saveGrid(plots, opts, path); err != nil {
		return "", err
	}
	log.Debugf("debug panels: %d of %d samples -> %s", layout.Shown(), n, path)
	return path, nil
}

// PlotImagesTheta draws one panel per sample titled with ground truth and
// predicted angles. The angles are given as cosines, as produced by a
// regression head predicting cos(theta).
func PlotImagesTheta(images []image.Image, cosGT, cosPred []float64, prefix, outputDir string, opts PanelOptions) (string, error) {
	n := len(images)
	if len(cosGT) != n || len(cosPred) != n {
		return "", errors.Wrapf(orientation.ErrInvalidInput,
			"panel inputs differ in length: images=%d gt=%d pred=%d", n, len(cosGT), len(cosPred))
	}
	layout, err := GridLayout(n, opts.MaxCols, opts.MaxRows)
	if err != nil {
		return "", err
	}

	plots := make([][]*plot.Plot, layout.Rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, layout.Cols)
		for c := range plots[r] {
			if !layout.Valid(r, c) {
				continue
			}
			i := layout.Index(r, c)
			title := fmt.Sprintf("Gt %.0f Pred %.0f deg",
				orientation.Degrees(math.Acos(cosGT[i])), orientation.Degrees(math.Acos(cosPred[i])))
			if plots[r][c], err = imagePanel(images[i], title, opts.Thumbnail); err != nil {
				return "", errors.Wrapf(err, "sample %d", i)
			}
		}
	}

	path := filepath.Join(outputDir, DebugDir, prefix+".png")
	if err := saveGrid(plots, opts, path); err != nil {
		return "", err
	}
	return path, nil
}

// imagePanel returns a plot showing img in pixel coordinates.
func imagePanel(img image.Image, title string, thumb uint) (*plot.Plot, error) {
	p, _, _, err := imagePanelScaled(img, title, thumb)
	return p, err
}

// imagePanelScaled is imagePanel that also returns the x and y scale applied
// to fit img into the thumbnail bound.
func imagePanelScaled(img image.Image, title string, thumb uint) (*plot.Plot, float64, float64, error) {
	if img == nil {
		return nil, 0, 0, errors.New("image is nil")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, 0, 0, errors.New("image is empty")
	}
	if thumb > 0 {
		img = resize.Thumbnail(thumb, thumb, img, resize.Bilinear)
	}
	tb := img.Bounds()
	sx := float64(tb.Dx()) / float64(b.Dx())
	sy := float64(tb.Dy()) / float64(b.Dy())

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.Add(plotter.NewImage(img, 0, 0, float64(tb.Dx()), float64(tb.Dy())))
	return p, sx, sy, nil
}

type overlay struct {
	xys   plotter.XYs
	color color.Color
}

// posePanel draws img with the pose overlaid. Image rows grow downwards and
// plot y grows upwards, so overlay points are flipped on the image height.
func posePanel(img image.Image, rec orientation.Record, title string, thumb uint) (*plot.Plot, error) {
	p, sx, sy, err := imagePanelScaled(img, title, thumb)
	if err != nil {
		return nil, err
	}
	h := float64(img.Bounds().Dy()) * sy
	toPlot := func(x, y float64) plotter.XY {
		return plotter.XY{X: x * sx, Y: h - y*sy}
	}

	points := []overlay{
		{plotter.XYs{toPlot(rec.Xc, rec.Yc)}, centerColor},
		{plotter.XYs{toPlot(rec.Xt, rec.Yt)}, targetColor},
	}
	if corners, err := geometry.ObjectAlignedBox(rec); err == nil {
		box := make(plotter.XYs, 0, len(corners))
		for _, c := range corners {
			box = append(box, toPlot(c.X, c.Y))
		}
		points = append(points, overlay{box, boxColor})
	} else {
		log.Debugf("no object-aligned box for %v: %v", rec, err)
	}

	for _, pts := range points {
		s, err := plotter.NewScatter(pts.xys)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build overlay")
		}
		s.GlyphStyle.Color = pts.color
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
	}
	return p, nil
}

// saveGrid aligns the plots on a grid of square panels and writes a PNG.
// Nil plots leave their cell blank.
func saveGrid(plots [][]*plot.Plot, opts PanelOptions, path string) error {
	rows := len(plots)
	if rows == 0 || len(plots[0]) == 0 {
		return errors.New("empty panel grid")
	}
	cols := len(plots[0])
	size := opts.PanelSize
	if size <= 0 {
		size = DefaultPanelOptions().PanelSize
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultPanelOptions().DPI
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(cols)*size, vg.Length(rows)*size),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(color.White),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}

	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create output dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
