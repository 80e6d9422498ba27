package orientation

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestBatchFromTensor_Float64(t *testing.T) {
	out := tensor.New(tensor.WithShape(2, 5), tensor.WithBacking([]float64{
		0, 0, 1, 0, 2,
		0, 0, 0, 1, 3,
	}))

	batch, err := BatchFromTensor(out)
	require.NoError(t, err)
	assert.Equal(t, Batch{
		{Xc: 0, Yc: 0, Xt: 1, Yt: 0, W: 2},
		{Xc: 0, Yc: 0, Xt: 0, Yt: 1, W: 3},
	}, batch)
}

func TestBatchFromTensor_Float32(t *testing.T) {
	out := tensor.New(tensor.WithShape(1, 5), tensor.WithBacking([]float32{1.5, 2.5, 3.5, 4.5, 0.25}))

	batch, err := BatchFromTensor(out)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, Record{Xc: 1.5, Yc: 2.5, Xt: 3.5, Yt: 4.5, W: 0.25}, batch[0])
}

func TestBatchFromTensor_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   tensor.Tensor
	}{
		{"nil", nil},
		{"wrong width", tensor.New(tensor.WithShape(2, 4), tensor.WithBacking(make([]float64, 8)))},
		{"vector", tensor.New(tensor.WithShape(5), tensor.WithBacking(make([]float64, 5)))},
		{"int dtype", tensor.New(tensor.WithShape(1, 5), tensor.WithBacking([]int{1, 2, 3, 4, 5}))},
		{"float32 nan", tensor.New(tensor.WithShape(1, 5), tensor.WithBacking([]float32{0, 0, math32.NaN(), 0, 0}))},
		{"float64 inf", tensor.New(tensor.WithShape(1, 5), tensor.WithBacking([]float64{0, 0, 0, math.Inf(1), 0}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BatchFromTensor(tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestThetaFromTensor(t *testing.T) {
	flat := tensor.New(tensor.WithShape(2), tensor.WithBacking([]float64{math.Pi / 2, math.Pi}))
	thetas, err := ThetaFromTensor(flat)
	require.NoError(t, err)
	assert.Equal(t, []float64{math.Pi / 2, math.Pi}, thetas)

	column := tensor.New(tensor.WithShape(2, 1), tensor.WithBacking([]float32{0.5, -0.5}))
	thetas, err = ThetaFromTensor(column)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.5}, thetas)

	_, err = ThetaFromTensor(tensor.New(tensor.WithShape(2, 2), tensor.WithBacking(make([]float64, 4))))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBatchTensorRoundTripFeedsEvaluate(t *testing.T) {
	batch := Batch{
		{Xc: 0, Yc: 0, Xt: 1, Yt: 0, W: 2},
		{Xc: 0, Yc: 0, Xt: 0, Yt: 1, W: 3},
	}

	dense := batch.Tensor()
	require.NotNil(t, dense)
	assert.Equal(t, tensor.Shape{2, 5}, dense.Shape())

	back, err := BatchFromTensor(dense)
	require.NoError(t, err)

	res, err := Evaluate(back, batch, []float64{math.Pi / 2, math.Pi}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.AccTheta)

	assert.Nil(t, Batch{}.Tensor())
}
