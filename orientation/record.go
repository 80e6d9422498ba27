// Package orientation - Orientation metric engine: theta derivation, angle
// normalization and batch evaluation of predicted poses against ground truth.
package orientation

import (
	"fmt"
	"math"
)

// RecordSize is the number of scalar fields in a Record.
const RecordSize = 5

// Record is the pose of one object: a center point, a target point defining
// the direction of the object, and a half width.
type Record struct {
	// Xc, Yc is the center point.
	Xc, Yc float64
	// Xt, Yt is the target point.
	Xt, Yt float64
	// W is the width measured from the target point.
	W float64
}

// Batch is an ordered sequence of records, conceptually an N x 5 matrix.
type Batch []Record

// NewRecord builds a record from a slice laid out as [xc, yc, xt, yt, w].
func NewRecord(v []float64) (Record, error) {
	if len(v) != RecordSize {
		return Record{}, invalidf("record has %d values, expected %d", len(v), RecordSize)
	}
	return Record{Xc: v[0], Yc: v[1], Xt: v[2], Yt: v[3], W: v[4]}, nil
}

// Values returns the record as [xc, yc, xt, yt, w].
func (r Record) Values() [RecordSize]float64 {
	return [RecordSize]float64{r.Xc, r.Yc, r.Xt, r.Yt, r.W}
}

func (r Record) String() string {
	return fmt.Sprintf("(xc=%.2f, yc=%.2f, xt=%.2f, yt=%.2f, w=%.2f)", r.Xc, r.Yc, r.Xt, r.Yt, r.W)
}

var fieldNames = [RecordSize]string{"xc", "yc", "xt", "yt", "w"}

// validate returns the first non-finite field of the record, named after
// the batch it came from.
func (r Record) validate(batch string, i int) error {
	for k, v := range r.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("%s[%d].%s is not finite (%v)", batch, i, fieldNames[k], v)
		}
	}
	return nil
}

// BatchFromRows converts rows of [xc, yc, xt, yt, w] into a Batch.
//
// Arguments:
// - rows: The rows to convert, each with exactly five values.
//
// Returns:
// - The batch in row order.
// - An error wrapping ErrInvalidInput if a row has the wrong width or a
// non-finite value.
//
// @example
// batch, err := BatchFromRows([][]float64{{0, 0, 1, 0, 2}, {0, 0, 0, 1, 3}})
func BatchFromRows(rows [][]float64) (Batch, error) {
	batch := make(Batch, 0, len(rows))
	for i, row := range rows {
		rec, err := NewRecord(row)
		if err != nil {
			return nil, invalidf("row %d has %d values, expected %d", i, len(row), RecordSize)
		}
		if err := rec.validate("rows", i); err != nil {
			return nil, err
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

// Rows returns the batch as a slice of [xc, yc, xt, yt, w] rows.
func (b Batch) Rows() [][]float64 {
	rows := make([][]float64, len(b))
	for i, r := range b {
		v := r.Values()
		rows[i] = v[:]
	}
	return rows
}

// Validate checks that every field of every record is finite.
func (b Batch) Validate() error {
	return b.validate("batch")
}

func (b Batch) validate(name string) error {
	for i, r := range b {
		if err := r.validate(name, i); err != nil {
			return err
		}
	}
	return nil
}
