// Package pivot reshapes aggregate rows into a labelled 2-D matrix.
package pivot

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var ErrDuplicateCell = errors.New("pivot cell has more than one value")

// Key is one category on a matrix axis. Categories are ordered by Rank, then Label.
type Key struct {
	Label string
	Rank  []float64
}

// Matrix is a metric indexed by two categorical axes. Cells without a source
// row hold NaN. Data is nil when the matrix is empty.
type Matrix struct {
	Rows []string
	Cols []string
	Data *mat.Dense
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (r, c int) {
	return len(m.Rows), len(m.Cols)
}

// Empty reports whether the matrix has no cells.
func (m *Matrix) Empty() bool {
	return m.Data == nil
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.Data.At(i, j)
}

// Build pivots rows into a matrix: row and col pick the cell, value the metric.
func Build[R any](rows []R, row, col func(R) Key, value func(R) float64) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}

	rowKeys := distinct(rows, row)
	colKeys := distinct(rows, col)

	rowIdx := make(map[string]int, len(rowKeys))
	for i, k := range rowKeys {
		rowIdx[k.Label] = i
	}
	colIdx := make(map[string]int, len(colKeys))
	for j, k := range colKeys {
		colIdx[k.Label] = j
	}

	r, c := len(rowKeys), len(colKeys)
	data := make([]float64, r*c)
	filled := make([]bool, r*c)
	for i := range data {
		data[i] = math.NaN()
	}

	for _, item := range rows {
		rk, ck := row(item), col(item)
		cell := rowIdx[rk.Label]*c + colIdx[ck.Label]
		if filled[cell] {
			return nil, fmt.Errorf("%w: (%s, %s)", ErrDuplicateCell, rk.Label, ck.Label)
		}
		filled[cell] = true
		data[cell] = value(item)
	}

	return &Matrix{
		Rows: labels(rowKeys),
		Cols: labels(colKeys),
		Data: mat.NewDense(r, c, data),
	}, nil
}

func distinct[R any](rows []R, key func(R) Key) []Key {
	seen := make(map[string]bool)
	var keys []Key
	for _, item := range rows {
		k := key(item)
		if seen[k.Label] {
			continue
		}
		seen[k.Label] = true
		keys = append(keys, k)
	}
	slices.SortStableFunc(keys, func(a, b Key) int {
		if c := slices.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return keys
}

func labels(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Label
	}
	return out
}
