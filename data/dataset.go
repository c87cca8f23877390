// Package data loads columnar sample files and turns them into batched
// tensors.
package data

import (
	"fmt"
	"math"

	"github.com/parquet-go/parquet-go"

	"github.com/zerfoo/tapegrad/device"
	"github.com/zerfoo/tapegrad/tensor"
)

// Row represents a single sample: a feature vector and a target value
// (training data has it, inference data will not).
type Row struct {
	ID       string    `parquet:"id"`
	Features []float64 `parquet:"features"`
	Target   float64   `parquet:"target"`
}

// Dataset represents an entire sample file.
type Dataset struct {
	Rows []Row
}

// Load reads a parquet sample file.
func Load(path string) (*Dataset, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &Dataset{Rows: rows}, nil
}

// NumFeatures returns the feature width, zero for an empty dataset.
func (d *Dataset) NumFeatures() int {
	if len(d.Rows) == 0 {
		return 0
	}

	return len(d.Rows[0].Features)
}

// NormalizeFeatures applies z-score normalization to the features of the
// dataset.
func (d *Dataset) NormalizeFeatures() {
	n := d.NumFeatures()
	if n == 0 {
		return
	}
	means := make([]float64, n)
	stdDevs := make([]float64, n)
	for _, row := range d.Rows {
		for i, f := range row.Features {
			means[i] += f
		}
	}
	for i := range means {
		means[i] /= float64(len(d.Rows))
	}
	for _, row := range d.Rows {
		for i, f := range row.Features {
			stdDevs[i] += (f - means[i]) * (f - means[i])
		}
	}
	for i := range stdDevs {
		stdDevs[i] = math.Sqrt(stdDevs[i] / float64(len(d.Rows)))
	}
	for _, row := range d.Rows {
		for i := range row.Features {
			if stdDevs[i] > 0 {
				row.Features[i] = (row.Features[i] - means[i]) / stdDevs[i]
			}
		}
	}
}

// Batch is one training batch: features of shape (batch, numFeatures) and
// targets of shape (batch,).
type Batch struct {
	X *tensor.Tensor[float64]
	Y *tensor.Tensor[float64]
}

// Batches splits the dataset into device tensors of at most batchSize rows.
// The final batch may be smaller. Rows must share one feature width.
func (d *Dataset) Batches(dev device.Device, batchSize int) ([]Batch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	width := d.NumFeatures()
	var batches []Batch
	for start := 0; start < len(d.Rows); start += batchSize {
		end := start + batchSize
		if end > len(d.Rows) {
			end = len(d.Rows)
		}
		rows := d.Rows[start:end]
		features := make([]float64, 0, len(rows)*width)
		targets := make([]float64, 0, len(rows))
		for _, row := range rows {
			if len(row.Features) != width {
				return nil, fmt.Errorf("%w: row has %d features, want %d", tensor.ErrWrongElementCount, len(row.Features), width)
			}
			features = append(features, row.Features...)
			targets = append(targets, row.Target)
		}
		x, err := tensor.New[float64](dev, []int{len(rows), width}, features)
		if err != nil {
			return nil, err
		}
		y, err := tensor.New[float64](dev, []int{len(rows)}, targets)
		if err != nil {
			return nil, err
		}
		batches = append(batches, Batch{X: x, Y: y})
	}

	return batches, nil
}
