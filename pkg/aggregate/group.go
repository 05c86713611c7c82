// Package aggregate reduces experiment records to per-configuration means.
package aggregate

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/gilchrisn/annealing-heatmaps/pkg/records"
)

// Group is the mean of every non-key column over the rows sharing one key tuple.
type Group struct {
	Key   []float64          // key values, in the order the keys were given
	Means map[string]float64 // non-key column -> mean
	Count int                // rows in the group
}

// GroupMean groups the table rows by the key columns and averages every other
// column. Groups come back sorted by key tuple. Rows with a NaN key are dropped.
func GroupMean(t *records.Table, keys ...string) ([]Group, error) {
	if t.Len() == 0 {
		return []Group{}, nil
	}

	keyCols := make([][]float64, len(keys))
	isKey := make(map[string]bool, len(keys))
	for i, name := range keys {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		keyCols[i] = col
		isKey[name] = true
	}

	var metrics []string
	metricCols := make(map[string][]float64)
	for _, name := range t.Columns() {
		if isKey[name] {
			continue
		}
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, name)
		metricCols[name] = col
	}

	// group id -> member rows
	index := make(map[string]int)
	var (
		groupKeys [][]float64
		members   [][]int
	)
	for row := 0; row < t.Len(); row++ {
		key := make([]float64, len(keys))
		skip := false
		for i := range keys {
			key[i] = keyCols[i][row]
			if math.IsNaN(key[i]) {
				skip = true
			}
		}
		if skip {
			continue
		}

		id := keyString(key)
		g, ok := index[id]
		if !ok {
			g = len(groupKeys)
			index[id] = g
			groupKeys = append(groupKeys, key)
			members = append(members, nil)
		}
		members[g] = append(members[g], row)
	}

	groups := make([]Group, len(groupKeys))
	buf := make([]float64, 0, t.Len())
	for g, key := range groupKeys {
		means := make(map[string]float64, len(metrics))
		for _, name := range metrics {
			buf = buf[:0]
			for _, row := range members[g] {
				buf = append(buf, metricCols[name][row])
			}
			means[name] = stat.Mean(buf, nil)
		}
		groups[g] = Group{Key: key, Means: means, Count: len(members[g])}
	}

	slices.SortFunc(groups, func(a, b Group) int {
		return slices.Compare(a.Key, b.Key)
	})

	return groups, nil
}

func keyString(key []float64) string {
	parts := make([]string, len(key))
	for i, v := range key {
		// -0 and +0 must land in the same group
		if v == 0 {
			v = 0
		}
		parts[i] = strconv.FormatUint(math.Float64bits(v), 16)
	}
	return strings.Join(parts, "/")
}
