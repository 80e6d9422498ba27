package visualize

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridLayout(t *testing.T) {
	tests := []struct {
		name       string
		batch      int
		maxCols    int
		maxRows    int
		rows, cols int
		shown      int
	}{
		{"two full rows", 8, 4, 4, 2, 4, 8},
		{"single row splits over two", 3, 4, 4, 2, 1, 2},
		{"single sample", 1, 4, 4, 2, 1, 1},
		{"full grid", 16, 4, 4, 4, 4, 16},
		{"overflow is cut", 20, 4, 4, 4, 4, 16},
		{"row cap", 5, 4, 2, 2, 4, 5},
		{"partial last row", 6, 4, 4, 2, 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := GridLayout(tt.batch, tt.maxCols, tt.maxRows)
			require.NoError(t, err)
			assert.Equal(t, tt.rows, l.Rows)
			assert.Equal(t, tt.cols, l.Cols)
			assert.Equal(t, tt.shown, l.Shown())
		})
	}

	_, err := GridLayout(0, 4, 4)
	assert.Error(t, err)
	_, err = GridLayout(4, 0, 4)
	assert.Error(t, err)
}

func TestLayoutIndexValid(t *testing.T) {
	l, err := GridLayout(6, 4, 4)
	require.NoError(t, err)

	assert.Equal(t, 5, l.Index(1, 1))
	assert.True(t, l.Valid(1, 1))
	assert.False(t, l.Valid(1, 2), "index 6 is past the batch")
	assert.False(t, l.Valid(2, 0))
	assert.False(t, l.Valid(0, -1))
}

func TestThetaErrorsWrapped(t *testing.T) {
	gt := []float64{orientation.Radians(-179), orientation.Radians(10), orientation.Radians(90)}
	pred := []float64{orientation.Radians(179), orientation.Radians(350), orientation.Radians(-90)}

	errs, err := ThetaErrorsWrapped(gt, pred)
	require.NoError(t, err)
	require.Len(t, errs, 3)
	assert.InDelta(t, 2, errs[0], 1e-9)
	assert.InDelta(t, 20, errs[1], 1e-9)
	assert.InDelta(t, 180, errs[2], 1e-9)

	for _, e := range errs {
		assert.GreaterOrEqual(t, e, 0.0)
		assert.LessOrEqual(t, e, 180.0)
	}

	_, err = ThetaErrorsWrapped(gt, pred[:1])
	assert.ErrorIs(t, err, orientation.ErrInvalidInput)
}

func assertPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.Greater(t, img.Bounds().Dy(), 0)
	return img
}

func TestPlotThetaErrorHist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	gt := []float64{0, 0.5, 1, 1.5, 2, -2, -1}
	pred := []float64{0.1, 0.4, 1.3, 1.5, 2.9, 2, -0.2}

	path, err := PlotThetaErrorHist(gt, pred, "val", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hist_val.png"), path)
	assertPNG(t, path)

	_, err = PlotThetaErrorHist(nil, nil, "empty", dir)
	assert.ErrorIs(t, err, orientation.ErrInvalidInput)
}

func testImages(n, w, h int) []image.Image {
	images := make([]image.Image, n)
	for i := range images {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8(i * 40), A: 255})
			}
		}
		images[i] = img
	}
	return images
}

func smallOptions() PanelOptions {
	opts := DefaultPanelOptions()
	opts.PanelSize = opts.PanelSize / 2
	opts.Thumbnail = 32
	opts.DPI = 50
	return opts
}

func TestPlotImages(t *testing.T) {
	dir := t.TempDir()
	images := testImages(3, 64, 48)
	gt := orientation.Batch{
		{Xc: 32, Yc: 24, Xt: 32, Yt: 8, W: 6},
		{Xc: 20, Yc: 20, Xt: 40, Yt: 20, W: 4},
		{Xc: 10, Yc: 10, Xt: 10, Yt: 10, W: 2},
	}
	pred := orientation.Batch{
		{Xc: 30, Yc: 25, Xt: 35, Yt: 9, W: 5},
		{Xc: 21, Yc: 19, Xt: 38, Yt: 25, W: 4},
		{Xc: 12, Yc: 11, Xt: 20, Yt: 11, W: 3},
	}
	thetaGT := orientation.DeriveTheta(gt)
	thetaPred := orientation.DeriveTheta(pred)

	path, err := PlotImages(images, gt, pred, thetaGT, thetaPred, "epoch_1", dir, smallOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DebugDir, "epoch_1.png"), path)
	assertPNG(t, path)

	_, err = PlotImages(images[:2], gt, pred, thetaGT, thetaPred, "bad", dir, smallOptions())
	assert.ErrorIs(t, err, orientation.ErrInvalidInput)

	images[1] = nil
	_, err = PlotImages(images, gt, pred, thetaGT, thetaPred, "nil", dir, smallOptions())
	assert.Error(t, err)
}

func TestPlotImagesTheta(t *testing.T) {
	dir := t.TempDir()
	images := testImages(4, 40, 40)
	cosGT := []float64{1, 0, -1, math.Cos(math.Pi / 3)}
	cosPred := []float64{0.9, 0.1, -0.95, 0.4}

	path, err := PlotImagesTheta(images, cosGT, cosPred, "theta", dir, smallOptions())
	require.NoError(t, err)
	assertPNG(t, path)

	_, err = PlotImagesTheta(images, cosGT[:3], cosPred, "bad", dir, smallOptions())
	assert.ErrorIs(t, err, orientation.ErrInvalidInput)
}
