package aggregate

import (
	"strconv"

	"github.com/gilchrisn/annealing-heatmaps/pkg/records"
)

// RelIncreasePercentColumn names the derived improvement metric.
const RelIncreasePercentColumn = "rel_increase_percent"

// TimeRow is the mean execution time of one (processors, works) configuration.
type TimeRow struct {
	Processors  float64
	Works       float64
	DurationSec float64
	Runs        int
}

// LawRow is the mean outcome of one (processors, works, law) configuration.
type LawRow struct {
	Processors         float64
	Works              float64
	Law                float64
	DurationSec        float64
	StartCriterion     float64
	BestCriterion      float64
	RelIncreasePercent float64
	ProcWorks          string
	Runs               int

	// Means holds the mean of every non-key column, including the ones above.
	Means map[string]float64
}

// Time averages duration_sec per (processors, works). Other columns are ignored.
func Time(t *records.Table) ([]TimeRow, error) {
	if t.Len() == 0 {
		return []TimeRow{}, nil
	}

	sel, err := t.Select(records.Processors, records.Works, records.DurationSec)
	if err != nil {
		return nil, err
	}

	groups, err := GroupMean(sel, records.Processors, records.Works)
	if err != nil {
		return nil, err
	}

	rows := make([]TimeRow, len(groups))
	for i, g := range groups {
		rows[i] = TimeRow{
			Processors:  g.Key[0],
			Works:       g.Key[1],
			DurationSec: g.Means[records.DurationSec],
			Runs:        g.Count,
		}
	}
	return rows, nil
}

// Law averages every column per (processors, works, law) and derives the
// relative improvement of the best criterion over the start criterion.
func Law(t *records.Table) ([]LawRow, error) {
	if t.Len() == 0 {
		return []LawRow{}, nil
	}

	if err := records.LawSchema.Validate(t); err != nil {
		return nil, err
	}

	groups, err := GroupMean(t, records.Processors, records.Works, records.Law)
	if err != nil {
		return nil, err
	}

	rows := make([]LawRow, len(groups))
	for i, g := range groups {
		start := g.Means[records.StartCriterion]
		best := g.Means[records.BestCriterion]
		rel := RelIncreasePercent(start, best)
		g.Means[RelIncreasePercentColumn] = rel

		rows[i] = LawRow{
			Processors:         g.Key[0],
			Works:              g.Key[1],
			Law:                g.Key[2],
			DurationSec:        g.Means[records.DurationSec],
			StartCriterion:     start,
			BestCriterion:      best,
			RelIncreasePercent: rel,
			ProcWorks:          ProcWorksLabel(g.Key[0], g.Key[1]),
			Runs:               g.Count,
			Means:              g.Means,
		}
	}
	return rows, nil
}

// RelIncreasePercent is the relative decrease of the criterion, in percent.
// A zero start value yields NaN or ±Inf.
func RelIncreasePercent(start, best float64) float64 {
	return (start - best) / start * 100
}

// ProcWorksLabel joins processors and works as "p-w".
func ProcWorksLabel(processors, works float64) string {
	return FormatKey(processors) + "-" + FormatKey(works)
}

// FormatKey renders a key value with the fewest digits, "2" rather than "2.0".
func FormatKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
