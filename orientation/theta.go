package orientation

import (
	"math"
	"strings"
)

// Source selects where the ground-truth angle comes from.
type Source string

const (
	// SourceAnnot takes ground-truth theta from the annotations. Annotations
	// measure theta from a reference rotated by 90 degrees relative to atan2,
	// so the predicted angle gets the same offset.
	SourceAnnot Source = "annot"
	// SourceCalc derives both angles from the coordinates with atan2 and no
	// offset.
	SourceCalc Source = "calc"
)

// annotOffset re-bases an atan2 angle onto the annotation convention.
const annotOffset = math.Pi / 2

// ParseSource parses "annot" or "calc".
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case SourceAnnot, SourceCalc:
		return src, nil
	default:
		return "", invalidf("unknown theta source %q", s)
	}
}

// Valid reports whether the source is one of the known values.
func (s Source) Valid() bool {
	return s == SourceAnnot || s == SourceCalc
}

// RawTheta returns atan2(yt-yc, xt-xc) for every record, in radians.
// A degenerate record with the target on the center yields 0.
func RawTheta(b Batch) []float64 {
	thetas := make([]float64, len(b))
	for i, r := range b {
		thetas[i] = math.Atan2(r.Yt-r.Yc, r.Xt-r.Xc)
	}
	return thetas
}

// DeriveTheta computes the orientation of each record in radians, in the
// annotation convention: atan2(yt-yc, xt-xc) + 90 degrees.
//
// Arguments:
// - b: The batch of records.
//
// Returns:
// - One angle per record, in input order.
//
// @example
// thetas := DeriveTheta(Batch{{Xc: 0, Yc: 0, Xt: 1, Yt: 0}}) // [π/2]
func DeriveTheta(b Batch) []float64 {
	thetas := RawTheta(b)
	for i := range thetas {
		thetas[i] += annotOffset
	}
	return thetas
}

// deriveFor computes the predicted angle under the given source.
func deriveFor(b Batch, src Source) []float64 {
	if src == SourceAnnot {
		return DeriveTheta(b)
	}
	return RawTheta(b)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * (180 / math.Pi)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// NormalizeAngle maps theta onto its representative in (-180, 180] when
// degrees is true, or (-π, π] otherwise.
//
// Angles at or beyond a full turn in either direction are first reduced
// with a floor modulo into [0, 360), so negative inputs land on the
// non-negative side before the half-turn shift. The boundary value 180 maps
// to itself and -180 maps to 180.
//
// Arguments:
// - theta: The angle to normalize.
// - degrees: Whether theta is in degrees (true) or radians (false).
//
// Returns:
// - The normalized angle.
//
// @example
// NormalizeAngle(270, true)  // -90
// NormalizeAngle(-180, true) // 180
func NormalizeAngle(theta float64, degrees bool) float64 {
	half := math.Pi
	if degrees {
		half = 180.
	}
	full := 2 * half

	if theta >= full || theta <= -full {
		theta = math.Mod(theta, full)
		if theta < 0 {
			// Rounding can land exactly on full; step 3 folds it back to 0.
			theta += full
		} else if theta == 0 {
			// math.Mod keeps the sign of the dividend; -0 becomes 0.
			theta = 0
		}
	}

	switch {
	case theta > -half && theta <= half:
		return theta
	case theta > half:
		return theta - full
	default:
		return theta + full
	}
}

// NormalizeAngles applies NormalizeAngle to every element and returns a new
// slice in the same order.
func NormalizeAngles(thetas []float64, degrees bool) []float64 {
	out := make([]float64, len(thetas))
	for i, t := range thetas {
		out[i] = NormalizeAngle(t, degrees)
	}
	return out
}
