package util

import (
	"bytes"
	"encoding/json"
	"image"
	_ "image/jpeg" // register decoders for sample images
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/pkg/errors"
)

// BatchFile is a serialized evaluation batch: predicted and ground-truth
// rows of [xc, yc, xt, yt, w] and annotated theta in radians.
type BatchFile struct {
	// Predicted are the model outputs.
	Predicted [][]float64 `json:"predicted"`
	// Target are the ground-truth rows, aligned with Predicted.
	Target [][]float64 `json:"target"`
	// TargetTheta are the annotated angles; may be empty for calc sources.
	TargetTheta []float64 `json:"target_theta,omitempty"`
}

// Batches converts the rows into predicted and target batches.
func (f *BatchFile) Batches() (orientation.Batch, orientation.Batch, error) {
	pred, err := orientation.BatchFromRows(f.Predicted)
	if err != nil {
		return nil, nil, errors.Wrap(err, "predicted")
	}
	target, err := orientation.BatchFromRows(f.Target)
	if err != nil {
		return nil, nil, errors.Wrap(err, "target")
	}
	return pred, target, nil
}

// LoadBatchFile reads a JSON batch file.
//
// Arguments:
// - path: Path to the JSON file.
//
// Returns:
// - *BatchFile: The decoded batch.
// - error: Error if reading or decoding fails.
func LoadBatchFile(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read batch file")
	}

	var f BatchFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to decode batch file %s", path)
	}
	return &f, nil
}

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Frame is the frame number of the image file.
	Frame int
}

// Decode decodes the image data. WebP frames go through the webp decoder,
// everything else through the registered standard decoders.
func (f ImageFile) Decode() (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(f.Path), ".webp") {
		img, err = webp.Decode(bytes.NewReader(f.Data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(f.Data))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", f.Path)
	}
	return img, nil
}

// LoadDirectoryImageFiles reads all frame-N image files from a directory,
// ordered by frame number. Frame N is the N-th record of the batch.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Slice of ImageFile, each containing the raw bytes of an image file.
// - error: Error if loading fails.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := filepath.Ext(file.Name())
		switch strings.ToLower(ext) {
		case ".jpg", ".jpeg", ".png", ".webp":
			imgPath := filepath.Join(dir, file.Name())
			frame, err := strconv.Atoi(strings.TrimSuffix(strings.ReplaceAll(file.Name(), "frame-", ""), ext))
			if err != nil {
				return nil, errors.Wrapf(err, "image %s is not named frame-N", file.Name())
			}
			data, readErr := os.ReadFile(imgPath)
			if readErr != nil {
				return nil, readErr
			}
			images = append(images, ImageFile{
				Path:  imgPath,
				Data:  data,
				Frame: frame,
			})
		}
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Frame < images[j].Frame
	})

	return images, nil
}

// LoadDirectoryImages loads and decodes the frame images of a directory.
func LoadDirectoryImages(dir string) ([]image.Image, error) {
	files, err := LoadDirectoryImageFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]image.Image, 0, len(files))
	for _, f := range files {
		img, err := f.Decode()
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}
