package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-orientation/config"
	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBatch(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestRun_SingleBatch(t *testing.T) {
	dir := t.TempDir()
	path := writeBatch(t, dir, "a.json", `{
		"predicted": [[0, 0, 1, 0, 2], [0, 0, 0, 1, 3]],
		"target": [[0, 0, 1, 0, 2], [0, 0, 0, 1, 3]]
	}`)

	cfg := config.DefaultConfig()
	cfg.Source = orientation.SourceCalc
	cfg.BatchPath = path

	var out bytes.Buffer
	require.NoError(t, run(cfg, []string{path}, false, &out))

	var rep report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	require.Len(t, rep.Batches, 1)
	assert.Equal(t, 2, rep.Samples)
	assert.Equal(t, 1.0, rep.Average.AccTheta)
	assert.Equal(t, 0.0, rep.Average.ErrTheta)
	assert.Empty(t, rep.Plots)
}

func TestRun_WeightedAverage(t *testing.T) {
	dir := t.TempDir()
	// One sample off by 90 degrees.
	a := writeBatch(t, dir, "a.json", `{
		"predicted": [[0, 0, 1, 0, 0]],
		"target": [[0, 0, 0, 1, 0]]
	}`)
	// Three exact samples.
	b := writeBatch(t, dir, "b.json", `{
		"predicted": [[0, 0, 1, 0, 0], [0, 0, 1, 0, 0], [0, 0, 1, 0, 0]],
		"target": [[0, 0, 1, 0, 0], [0, 0, 1, 0, 0], [0, 0, 1, 0, 0]]
	}`)

	cfg := config.DefaultConfig()
	cfg.Source = orientation.SourceCalc

	var out bytes.Buffer
	require.NoError(t, run(cfg, []string{a, b}, false, &out))

	var rep report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	require.Len(t, rep.Batches, 2)
	assert.Equal(t, 4, rep.Samples)
	assert.InDelta(t, 90.0, rep.Batches[0].Result.ErrTheta, 1e-9)
	assert.InDelta(t, 22.5, rep.Average.ErrTheta, 1e-9)
	assert.InDelta(t, 0.75, rep.Average.AccTheta, 1e-9)
}

func TestRun_Histogram(t *testing.T) {
	dir := t.TempDir()
	path := writeBatch(t, dir, "a.json", `{
		"predicted": [[0, 0, 1, 0, 2], [0, 0, 0, 1, 3]],
		"target": [[0, 0, 1, 1, 2], [0, 0, -1, 1, 3]],
		"target_theta": [0.5, 1.0]
	}`)

	cfg := config.DefaultConfig()
	cfg.Histogram = true
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.Prefix = "run"

	var out bytes.Buffer
	require.NoError(t, run(cfg, []string{path}, false, &out))

	var rep report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	require.Len(t, rep.Plots, 1)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "hist_run.png"))
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()

	t.Run("missing file", func(t *testing.T) {
		err := run(cfg, []string{filepath.Join(dir, "nope.json")}, false, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("mismatched batch", func(t *testing.T) {
		path := writeBatch(t, dir, "bad.json", `{
			"predicted": [[0, 0, 1, 0, 2]],
			"target": [],
			"target_theta": [0]
		}`)
		var out bytes.Buffer
		err := run(cfg, []string{path}, false, &out)
		require.Error(t, err)
		assert.ErrorIs(t, err, orientation.ErrInvalidInput)
		assert.Zero(t, out.Len())
	})
}
