// Package datafile reads prediction, label and input files, plain or compressed.
package datafile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/doubletfilter/internal/evaluation"
)

var ErrMalformed = errors.New("malformed data file")

// Open returns a reader over the decompressed content of path; .zst and .gz are
// decompressed, anything else is read as is.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []func() error{func() error { zr.Close(); return nil }, f.Close}}, nil
	case ".gz":
		gr, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &stackedCloser{Reader: gr, closers: []func() error{gr.Close, f.Close}}, nil
	}
	return f, nil
}

type stackedCloser struct {
	io.Reader
	closers []func() error
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func decode(path string, v any) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := sonic.ConfigDefault.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// LoadScores reads a ScoreFile and returns labels and predictions as matrices.
func LoadScores(path string) (yTrue, yPred *mat.Dense, err error) {
	var sf ScoreFile
	if err := decode(path, &sf); err != nil {
		return nil, nil, err
	}

	yTrue, err = ToDense(sf.Labels)
	if err != nil {
		return nil, nil, fmt.Errorf("%s labels: %w", path, err)
	}
	yPred, err = ToDense(sf.Predictions)
	if err != nil {
		return nil, nil, fmt.Errorf("%s predictions: %w", path, err)
	}

	log.Debug().Str("path", path).Int("samples", len(sf.Labels)).Msg("loaded scores")
	return yTrue, yPred, nil
}

// LoadDataset reads a DatasetFile and checks every tensor against its shape.
func LoadDataset(path string) (evaluation.Dataset, error) {
	var df DatasetFile
	if err := decode(path, &df); err != nil {
		return evaluation.Dataset{}, err
	}
	if len(df.Inputs) == 0 {
		return evaluation.Dataset{}, fmt.Errorf("%s: no inputs: %w", path, ErrMalformed)
	}

	labels, err := ToDense(df.Labels)
	if err != nil {
		return evaluation.Dataset{}, fmt.Errorf("%s labels: %w", path, err)
	}
	rows, _ := labels.Dims()

	for name, tensor := range df.Inputs {
		if len(tensor.Shape) == 0 || tensor.Shape[0] != int64(rows) {
			return evaluation.Dataset{}, fmt.Errorf("%s: input %q shape %v does not hold %d samples: %w",
				path, name, tensor.Shape, rows, ErrMalformed)
		}
		size := int64(1)
		for _, d := range tensor.Shape {
			size *= d
		}
		if size != int64(len(tensor.Data)) {
			return evaluation.Dataset{}, fmt.Errorf("%s: input %q has %d values for shape %v: %w",
				path, name, len(tensor.Data), tensor.Shape, ErrMalformed)
		}
	}

	log.Debug().Str("path", path).Int("samples", rows).Int("inputs", len(df.Inputs)).Msg("loaded dataset")
	return evaluation.Dataset{Inputs: df.Inputs, Labels: labels}, nil
}

// ToDense packs equally long rows into a matrix.
func ToDense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("no rows: %w", ErrMalformed)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d: %w", i, len(row), cols, ErrMalformed)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}
