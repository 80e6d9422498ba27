package orientation

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultThresholdDegrees is the angular error under which a prediction
// counts as correct.
const DefaultThresholdDegrees = 10.0

// Config controls an evaluation.
type Config struct {
	// ThresholdDegrees is the accuracy cutoff: a sample is correct when its
	// angular error is strictly below it.
	ThresholdDegrees float64 `json:"theta_threshold"`
	// Source selects where the ground-truth theta comes from.
	Source Source `json:"theta_source"`
}

// DefaultConfig returns a 10 degree threshold with annotation-sourced theta.
func DefaultConfig() Config {
	return Config{
		ThresholdDegrees: DefaultThresholdDegrees,
		Source:           SourceAnnot,
	}
}

// Validate checks the threshold and the source.
func (c Config) Validate() error {
	if math.IsNaN(c.ThresholdDegrees) || math.IsInf(c.ThresholdDegrees, 0) || c.ThresholdDegrees < 0 {
		return invalidf("theta threshold must be a finite non-negative number of degrees, got %v", c.ThresholdDegrees)
	}
	if !c.Source.Valid() {
		return invalidf("unknown theta source %q", c.Source)
	}
	return nil
}

// Result holds the statistics of one evaluated batch.
type Result struct {
	// ErrTheta is the mean angular error in degrees.
	ErrTheta float64 `json:"err_theta"`
	// AccTheta is the fraction of samples with an angular error below the
	// threshold.
	AccTheta float64 `json:"acc_theta"`
	// ErrXcYc is the L2 norm of all center point differences in the batch,
	// taken once over the flattened differences.
	ErrXcYc float64 `json:"err_xcyc"`
	// ErrXtYt is the L2 norm of all target point differences in the batch.
	ErrXtYt float64 `json:"err_xtyt"`
	// ErrW is the mean absolute width difference.
	ErrW float64 `json:"err_w"`
}

// AngularErrors derives the predicted and ground-truth angles of a batch,
// converts them to degrees and normalizes them to (-180, 180].
//
// Under SourceAnnot the predicted angle carries the 90 degree annotation
// offset and the ground truth is targetTheta (radians). Under SourceCalc
// both sides come from atan2 on the coordinates with no offset and
// targetTheta is ignored.
//
// Arguments:
// - pred: The predicted records.
// - target: The ground-truth records, aligned with pred by index.
// - targetTheta: Ground-truth angles in radians, one per record.
// - src: The theta source.
//
// Returns:
// - The normalized predicted angles in degrees.
// - The normalized ground-truth angles in degrees.
// - An error wrapping ErrInvalidInput if the inputs do not line up.
func AngularErrors(pred, target Batch, targetTheta []float64, src Source) ([]float64, []float64, error) {
	if err := validateInputs(pred, target, targetTheta, src); err != nil {
		return nil, nil, err
	}
	predDeg, gtDeg := normalizedDegrees(pred, target, targetTheta, src)
	return predDeg, gtDeg, nil
}

// Thetas returns the predicted and ground-truth angles in radians under the
// given source, before any normalization. This is what the debug plots show.
func Thetas(pred, target Batch, targetTheta []float64, src Source) ([]float64, []float64, error) {
	if err := validateInputs(pred, target, targetTheta, src); err != nil {
		return nil, nil, err
	}
	return deriveFor(pred, src), groundTruth(target, targetTheta, src), nil
}

func groundTruth(target Batch, targetTheta []float64, src Source) []float64 {
	if src == SourceAnnot {
		out := make([]float64, len(targetTheta))
		copy(out, targetTheta)
		return out
	}
	return RawTheta(target)
}

func normalizedDegrees(pred, target Batch, targetTheta []float64, src Source) ([]float64, []float64) {
	thetaPred := deriveFor(pred, src)
	thetaGT := groundTruth(target, targetTheta, src)

	for i := range thetaPred {
		thetaPred[i] = NormalizeAngle(Degrees(thetaPred[i]), true)
		thetaGT[i] = NormalizeAngle(Degrees(thetaGT[i]), true)
	}
	return thetaPred, thetaGT
}

// Evaluate measures the orientation and position errors of a predicted
// batch against ground truth.
//
// The per-sample angular error is the absolute difference of the two
// normalized angles. It is not wrapped a second time, so 179 against -179
// reports 358 rather than 2. The center and target errors are a single
// norm over the whole batch, not a per-sample mean.
//
// Arguments:
// - pred: The predicted records.
// - target: The ground-truth records, aligned with pred by index.
// - targetTheta: Ground-truth angles in radians; only read under SourceAnnot.
// - cfg: Threshold and theta source.
//
// Returns:
// - The batch statistics.
// - An error wrapping ErrInvalidInput for empty or mismatched batches,
// non-finite values, or an invalid config. No partial result is returned.
//
// @example
// res, err := Evaluate(pred, target, thetas, DefaultConfig())
// fmt.Printf("acc=%.2f err=%.1f deg\n", res.AccTheta, res.ErrTheta)
func Evaluate(pred, target Batch, targetTheta []float64, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := validateInputs(pred, target, targetTheta, cfg.Source); err != nil {
		return Result{}, err
	}

	predDeg, gtDeg := normalizedDegrees(pred, target, targetTheta, cfg.Source)

	n := len(pred)
	errTheta := make([]float64, n)
	correct := 0
	for i := range predDeg {
		errTheta[i] = math.Abs(predDeg[i] - gtDeg[i])
		if errTheta[i] < cfg.ThresholdDegrees {
			correct++
		}
	}

	centers := make([]float64, 0, 2*n)
	targets := make([]float64, 0, 2*n)
	widths := make([]float64, n)
	for i := range pred {
		p, t := pred[i], target[i]
		centers = append(centers, t.Xc-p.Xc, t.Yc-p.Yc)
		targets = append(targets, t.Xt-p.Xt, t.Yt-p.Yt)
		widths[i] = math.Abs(t.W - p.W)
	}

	return Result{
		ErrTheta: stat.Mean(errTheta, nil),
		AccTheta: float64(correct) / float64(n),
		ErrXcYc:  floats.Norm(centers, 2),
		ErrXtYt:  floats.Norm(targets, 2),
		ErrW:     stat.Mean(widths, nil),
	}, nil
}

// EvaluateOrientation is Evaluate with the threshold and source passed
// positionally; source is parsed with ParseSource.
func EvaluateOrientation(pred, target Batch, targetTheta []float64, thresholdDegrees float64, source string) (Result, error) {
	src, err := ParseSource(source)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(pred, target, targetTheta, Config{ThresholdDegrees: thresholdDegrees, Source: src})
}

func validateInputs(pred, target Batch, targetTheta []float64, src Source) error {
	if !src.Valid() {
		return invalidf("unknown theta source %q", src)
	}
	if len(pred) == 0 {
		return invalidf("predicted batch is empty")
	}
	if len(pred) != len(target) {
		return invalidf("predicted batch has %d records, target has %d", len(pred), len(target))
	}
	if err := pred.validate("predicted"); err != nil {
		return err
	}
	if err := target.validate("target"); err != nil {
		return err
	}
	if src != SourceAnnot {
		return nil
	}
	if len(targetTheta) != len(pred) {
		return invalidf("target theta has %d values, predicted batch has %d records", len(targetTheta), len(pred))
	}
	for i, t := range targetTheta {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return invalidf("target_theta[%d] is not finite (%v)", i, t)
		}
	}
	return nil
}
