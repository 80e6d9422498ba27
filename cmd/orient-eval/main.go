package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nvr-ai/go-orientation/config"
	"github.com/nvr-ai/go-orientation/log"
	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/nvr-ai/go-orientation/util"
	"github.com/nvr-ai/go-orientation/visualize"
	"github.com/nvr-ai/go-orientation/visualize/cvrotate"
	"github.com/pkg/errors"
)

// report is the JSON document printed on stdout.
type report struct {
	Batches []batchReport      `json:"batches"`
	Average orientation.Result `json:"average"`
	Samples int                `json:"samples"`
	Plots   []string           `json:"plots,omitempty"`
}

type batchReport struct {
	Path    string             `json:"path"`
	Samples int                `json:"samples"`
	Result  orientation.Result `json:"result"`
}

func main() {
	var (
		configFile = flag.String("config", "", "Path to JSON evaluation config")
		batchPath  = flag.String("batch", "", "Path to JSON batch file; further batch files may follow as arguments")
		threshold  = flag.Float64("threshold", orientation.DefaultThresholdDegrees, "Theta accuracy threshold in degrees")
		source     = flag.String("source", string(orientation.SourceAnnot), "Theta source: annot or calc")
		outputDir  = flag.String("output", "", "Output directory for plots")
		prefix     = flag.String("prefix", "", "Name of the plot files")
		hist       = flag.Bool("hist", false, "Write the theta error histogram")
		imagesDir  = flag.String("images", "", "Directory of frame-N images for debug panels")
		rotated    = flag.Bool("rotated", false, "Also write rotated image panels (requires -images)")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadConfig(*configFile); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Flags given explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "batch":
			cfg.BatchPath = *batchPath
		case "threshold":
			cfg.ThresholdDegrees = *threshold
		case "source":
			src, err := orientation.ParseSource(*source)
			if err != nil {
				log.Fatalf("Invalid -source: %v", err)
			}
			cfg.Source = src
		case "output":
			cfg.OutputDir = *outputDir
		case "prefix":
			cfg.Prefix = *prefix
		case "hist":
			cfg.Histogram = *hist
		case "images":
			cfg.ImagesDir = *imagesDir
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	log.SetLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	paths := append([]string{cfg.BatchPath}, flag.Args()...)
	if err := run(cfg, paths, *rotated, os.Stdout); err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
}

// run evaluates every batch file, averages the results weighted by batch
// size and writes the report as JSON to w. Plots are drawn for the first
// batch only.
func run(cfg *config.Config, paths []string, rotated bool, w io.Writer) error {
	meter := orientation.NewMeter()
	rep := report{}

	for i, path := range paths {
		f, err := util.LoadBatchFile(path)
		if err != nil {
			return err
		}
		pred, target, err := f.Batches()
		if err != nil {
			return errors.Wrapf(err, "batch %s", path)
		}

		res, err := orientation.Evaluate(pred, target, f.TargetTheta, cfg.Config)
		if err != nil {
			return errors.Wrapf(err, "batch %s", path)
		}
		meter.Update(res, len(pred))
		rep.Batches = append(rep.Batches, batchReport{Path: path, Samples: len(pred), Result: res})
		log.Infof("%s: n=%d err_theta=%.2f acc_theta=%.3f err_xcyc=%.2f err_xtyt=%.2f err_w=%.2f",
			path, len(pred), res.ErrTheta, res.AccTheta, res.ErrXcYc, res.ErrXtYt, res.ErrW)

		if i == 0 {
			plots, err := plot(cfg, pred, target, f.TargetTheta, rotated)
			if err != nil {
				return err
			}
			rep.Plots = plots
		}
	}

	rep.Average = meter.Average()
	rep.Samples = meter.Count()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}

func plot(cfg *config.Config, pred, target orientation.Batch, targetTheta []float64, rotated bool) ([]string, error) {
	if !cfg.Histogram && cfg.ImagesDir == "" {
		return nil, nil
	}
	thetaPred, thetaGT, err := orientation.Thetas(pred, target, targetTheta, cfg.Source)
	if err != nil {
		return nil, err
	}

	var plots []string
	if cfg.Histogram {
		path, err := visualize.PlotThetaErrorHist(thetaGT, thetaPred, cfg.Prefix, cfg.OutputDir)
		if err != nil {
			return nil, err
		}
		plots = append(plots, path)
	}
	if cfg.ImagesDir == "" {
		return plots, nil
	}

	images, err := util.LoadDirectoryImages(cfg.ImagesDir)
	if err != nil {
		return nil, err
	}
	if len(images) != len(pred) {
		return nil, errors.Errorf("%s has %d images for %d records", cfg.ImagesDir, len(images), len(pred))
	}

	opts := visualize.DefaultPanelOptions()
	opts.MaxCols, opts.MaxRows = cfg.MaxCols, cfg.MaxRows
	path, err := visualize.PlotImages(images, target, pred, thetaGT, thetaPred, cfg.Prefix, cfg.OutputDir, opts)
	if err != nil {
		return nil, err
	}
	plots = append(plots, path)

	if rotated {
		ropts := cvrotate.DefaultOptions()
		ropts.MaxCols, ropts.MaxRows = cfg.MaxCols, cfg.MaxRows
		path, err := cvrotate.PlotRotated(images, target, pred, thetaGT, thetaPred, fmt.Sprintf("%s_rotated", cfg.Prefix), cfg.OutputDir, ropts)
		if err != nil {
			return nil, err
		}
		plots = append(plots, path)
	}
	return plots, nil
}
