package orientation

import (
	"math"

	"github.com/chewxy/math32"
	"gorgonia.org/tensor"
)

// BatchFromTensor reads an (N, 5) Float64 or Float32 tensor, typically the
// raw output of a keypoint regression head, into a Batch.
//
// Arguments:
// - t: The tensor laid out as rows of [xc, yc, xt, yt, w].
//
// Returns:
// - The batch in row order.
// - An error wrapping ErrInvalidInput for a wrong shape, an unsupported
// dtype, or a non-finite value.
//
// @example
// out := tensor.New(tensor.WithShape(2, 5), tensor.WithBacking(data))
// batch, err := BatchFromTensor(out)
func BatchFromTensor(t tensor.Tensor) (Batch, error) {
	if t == nil {
		return nil, invalidf("tensor is nil")
	}
	shape := t.Shape()
	if len(shape) != 2 || shape[1] != RecordSize {
		return nil, invalidf("tensor shape %v is not (N, %d)", shape, RecordSize)
	}
	values, err := tensorFloats(t, "tensor")
	if err != nil {
		return nil, err
	}

	batch := make(Batch, shape[0])
	for i := range batch {
		row := values[i*RecordSize : (i+1)*RecordSize]
		batch[i] = Record{Xc: row[0], Yc: row[1], Xt: row[2], Yt: row[3], W: row[4]}
	}
	return batch, nil
}

// ThetaFromTensor reads an (N) or (N, 1) tensor of angles in radians.
func ThetaFromTensor(t tensor.Tensor) ([]float64, error) {
	if t == nil {
		return nil, invalidf("theta tensor is nil")
	}
	shape := t.Shape()
	switch {
	case len(shape) == 1:
	case len(shape) == 2 && shape[1] == 1:
	default:
		return nil, invalidf("theta tensor shape %v is not (N) or (N, 1)", shape)
	}
	return tensorFloats(t, "theta")
}

// Tensor returns the batch as an (N, 5) Float64 tensor, or nil for an empty
// batch.
func (b Batch) Tensor() *tensor.Dense {
	if len(b) == 0 {
		return nil
	}
	backing := make([]float64, 0, len(b)*RecordSize)
	for _, r := range b {
		v := r.Values()
		backing = append(backing, v[:]...)
	}
	return tensor.New(tensor.WithShape(len(b), RecordSize), tensor.WithBacking(backing))
}

// tensorFloats copies the tensor data into a new []float64, widening and
// checking float32 values on the way.
func tensorFloats(t tensor.Tensor, name string) ([]float64, error) {
	if d, ok := t.(*tensor.Dense); ok && d.IsView() {
		t = d.Materialize()
	}

	switch data := t.Data().(type) {
	case []float64:
		out := make([]float64, len(data))
		for i, v := range data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, invalidf("%s value %d is not finite (%v)", name, i, v)
			}
			out[i] = v
		}
		return out, nil
	case []float32:
		out := make([]float64, len(data))
		for i, v := range data {
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				return nil, invalidf("%s value %d is not finite (%v)", name, i, v)
			}
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, invalidf("%s dtype %v is not Float64 or Float32", name, t.Dtype())
	}
}
