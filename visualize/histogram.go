package visualize

import (
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvr-ai/go-orientation/log"
	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistogramBins is the number of bins of the theta error histogram.
const HistogramBins = 36

// ThetaErrorsWrapped returns the per-sample angular error in degrees between
// ground truth and predicted angles given in radians. Unlike the error used
// by orientation.Evaluate, the difference is normalized again, so every
// value lies in [0, 180].
func ThetaErrorsWrapped(thetaGT, thetaPred []float64) ([]float64, error) {
	if len(thetaGT) != len(thetaPred) {
		return nil, errors.Wrapf(orientation.ErrInvalidInput,
			"theta length mismatch: gt=%d pred=%d", len(thetaGT), len(thetaPred))
	}
	out := make([]float64, len(thetaGT))
	for i := range thetaGT {
		gt := orientation.NormalizeAngle(orientation.Degrees(thetaGT[i]), true)
		pred := orientation.NormalizeAngle(orientation.Degrees(thetaPred[i]), true)
		out[i] = math.Abs(orientation.NormalizeAngle(math.Abs(pred-gt), true))
	}
	return out, nil
}

// PlotThetaErrorHist writes a histogram of the wrapped theta errors to
// <outputDir>/hist_<prefix>.png.
//
// Arguments:
// - thetaGT: Ground truth angles in radians.
// - thetaPred: Predicted angles in radians.
// - prefix: Name of the run.
// - outputDir: Directory to write into; created if missing.
//
// Returns:
// - The path of the written file.
// - An error if the inputs mismatch or the file cannot be written.
func PlotThetaErrorHist(thetaGT, thetaPred []float64, prefix, outputDir string) (string, error) {
	errs, err := ThetaErrorsWrapped(thetaGT, thetaPred)
	if err != nil {
		return "", err
	}
	if len(errs) == 0 {
		return "", errors.Wrap(orientation.ErrInvalidInput, "no samples to plot")
	}

	h, err := plotter.NewHist(plotter.Values(errs), HistogramBins)
	if err != nil {
		return "", errors.Wrap(err, "failed to build histogram")
	}

	p := plot.New()
	p.X.Label.Text = "Error in degrees"
	p.Y.Label.Text = "Number of images"
	p.X.Min = 0
	p.X.Max = 180
	ticks := make([]plot.Tick, 0, 18)
	for deg := 0; deg < 180; deg += 10 {
		ticks = append(ticks, plot.Tick{Value: float64(deg), Label: strconv.Itoa(deg)})
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Add(h)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create output dir")
	}
	path := filepath.Join(outputDir, "hist_"+prefix+".png")
	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", errors.Wrapf(err, "failed to save %s", path)
	}

	log.Debugf("theta error histogram: %d samples -> %s", len(errs), path)
	return path, nil
}
