package aggregate

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/gilchrisn/annealing-heatmaps/pkg/records"
)

func mustParse(t *testing.T, content string) *records.Table {
	t.Helper()
	table, err := records.Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return table
}

func TestTimeSingleGroup(t *testing.T) {
	table := mustParse(t, "processors:2,works:4,duration_sec:1.5\nprocessors:2,works:4,duration_sec:2.5\n")

	rows, err := Time(table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := []TimeRow{{Processors: 2, Works: 4, DurationSec: 2.0, Runs: 2}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Expected %+v, got %+v", want, rows)
	}
}

func TestTimeGroupsSortedAndAveraged(t *testing.T) {
	content := strings.Join([]string{
		"processors:4,works:100,duration_sec:3,law:1",
		"processors:2,works:200,duration_sec:5,law:1",
		"processors:2,works:100,duration_sec:1,law:1",
		"processors:2,works:100,duration_sec:2,law:0",
		"processors:4,works:100,duration_sec:5,law:2",
		"processors:2,works:100,duration_sec:6,law:2",
	}, "\n") + "\n"
	table := mustParse(t, content)

	rows, err := Time(table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := []TimeRow{
		{Processors: 2, Works: 100, DurationSec: 3, Runs: 3},
		{Processors: 2, Works: 200, DurationSec: 5, Runs: 1},
		{Processors: 4, Works: 100, DurationSec: 4, Runs: 2},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Expected %+v, got %+v", want, rows)
	}
}

func TestGroupMeanMatchesRowMeans(t *testing.T) {
	content := strings.Join([]string{
		"processors:2,works:4,duration_sec:0.1",
		"processors:2,works:8,duration_sec:0.7",
		"processors:2,works:4,duration_sec:0.2",
		"processors:2,works:4,duration_sec:0.4",
		"processors:6,works:8,duration_sec:1.9",
	}, "\n")
	table := mustParse(t, content)

	groups, err := GroupMean(table, records.Processors, records.Works)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	procs, _ := table.Column(records.Processors)
	works, _ := table.Column(records.Works)
	durs, _ := table.Column(records.DurationSec)

	total := 0
	for _, g := range groups {
		sum, n := 0.0, 0
		for i := range durs {
			if procs[i] == g.Key[0] && works[i] == g.Key[1] {
				sum += durs[i]
				n++
			}
		}
		if n != g.Count {
			t.Errorf("Group %v: expected %d rows, got %d", g.Key, n, g.Count)
		}
		if !scalar.EqualWithinAbsOrRel(g.Means[records.DurationSec], sum/float64(n), 1e-12, 1e-12) {
			t.Errorf("Group %v: expected mean %v, got %v", g.Key, sum/float64(n), g.Means[records.DurationSec])
		}
		if _, ok := g.Means[records.Processors]; ok {
			t.Errorf("Group %v: key column must not be averaged", g.Key)
		}
		total += g.Count
	}
	if total != table.Len() {
		t.Errorf("Expected groups to cover %d rows, covered %d", table.Len(), total)
	}
}

func TestGroupMeanDropsNaNKeys(t *testing.T) {
	table := mustParse(t, "processors:NaN,works:4,duration_sec:1\nprocessors:2,works:4,duration_sec:3\n")

	groups, err := GroupMean(table, records.Processors, records.Works)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(groups) != 1 || groups[0].Means[records.DurationSec] != 3 {
		t.Errorf("Expected only the (2,4) group, got %+v", groups)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	table := mustParse(t, strings.Join([]string{
		"processors:2,works:4,law:0,duration_sec:1,startCriterion:100,bestCriterion:80",
		"processors:2,works:4,law:1,duration_sec:2,startCriterion:120,bestCriterion:90",
		"processors:2,works:4,law:0,duration_sec:3,startCriterion:100,bestCriterion:60",
	}, "\n"))
	before := table.Columns()

	first, err := Law(table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := Law(table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(before, table.Columns()) {
		t.Errorf("Expected table columns untouched, got %v", table.Columns())
	}

	t1, _ := Time(table)
	t2, _ := Time(table)
	if !reflect.DeepEqual(t1, t2) {
		t.Errorf("Expected identical time rows, got %+v and %+v", t1, t2)
	}
}

func TestLawDerivedMetric(t *testing.T) {
	table := mustParse(t, strings.Join([]string{
		"processors:2,works:4,duration_sec:1,startCriterion:100,bestCriterion:80,law:0",
		"processors:2,works:4,duration_sec:3,startCriterion:100,bestCriterion:60,law:0",
	}, "\n"))

	rows, err := Law(table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.StartCriterion != 100 {
		t.Errorf("Expected startCriterion 100, got %v", row.StartCriterion)
	}
	if row.BestCriterion != 70 {
		t.Errorf("Expected bestCriterion 70, got %v", row.BestCriterion)
	}
	if !scalar.EqualWithinAbsOrRel(row.RelIncreasePercent, 30, 1e-9, 1e-9) {
		t.Errorf("Expected rel increase 30, got %v", row.RelIncreasePercent)
	}
	if row.RelIncreasePercent != (row.StartCriterion-row.BestCriterion)/row.StartCriterion*100 {
		t.Errorf("Derived metric does not match its definition: %v", row.RelIncreasePercent)
	}
	if row.DurationSec != 2 {
		t.Errorf("Expected duration 2, got %v", row.DurationSec)
	}
	if row.ProcWorks != "2-4" {
		t.Errorf("Expected label 2-4, got %q", row.ProcWorks)
	}
	if row.Means[RelIncreasePercentColumn] != row.RelIncreasePercent {
		t.Errorf("Expected derived metric in Means, got %v", row.Means[RelIncreasePercentColumn])
	}
}

func TestLawZeroStartCriterion(t *testing.T) {
	table := mustParse(t, strings.Join([]string{
		"processors:2,works:4,law:0,duration_sec:1,startCriterion:0,bestCriterion:5",
		"processors:2,works:4,law:1,duration_sec:1,startCriterion:0,bestCriterion:0",
	}, "\n"))

	rows, err := Law(table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !math.IsInf(rows[0].RelIncreasePercent, -1) {
		t.Errorf("Expected -Inf for 0 start and positive best, got %v", rows[0].RelIncreasePercent)
	}
	if !math.IsNaN(rows[1].RelIncreasePercent) {
		t.Errorf("Expected NaN for 0/0, got %v", rows[1].RelIncreasePercent)
	}
}

func TestEmptyTable(t *testing.T) {
	table := mustParse(t, "")

	timeRows, err := Time(table)
	if err != nil || len(timeRows) != 0 {
		t.Errorf("Expected empty time rows, got %v, %v", timeRows, err)
	}
	lawRows, err := Law(table)
	if err != nil || len(lawRows) != 0 {
		t.Errorf("Expected empty law rows, got %v, %v", lawRows, err)
	}
	groups, err := GroupMean(table, records.Processors)
	if err != nil || len(groups) != 0 {
		t.Errorf("Expected empty groups, got %v, %v", groups, err)
	}
}

func TestMissingColumns(t *testing.T) {
	table := mustParse(t, "processors:2,duration_sec:1\n")

	if _, err := Time(table); !errors.Is(err, records.ErrMissingColumn) {
		t.Errorf("Expected missing column error from Time, got: %v", err)
	}
	if _, err := Law(table); !errors.Is(err, records.ErrMissingColumn) {
		t.Errorf("Expected missing column error from Law, got: %v", err)
	}
	if _, err := GroupMean(table, "works"); !errors.Is(err, records.ErrMissingColumn) {
		t.Errorf("Expected missing column error from GroupMean, got: %v", err)
	}
}

func TestProcWorksLabel(t *testing.T) {
	tests := []struct {
		p, w float64
		want string
	}{
		{2, 4, "2-4"},
		{128, 25000, "128-25000"},
		{2.5, 4, "2.5-4"},
	}
	for _, tt := range tests {
		if got := ProcWorksLabel(tt.p, tt.w); got != tt.want {
			t.Errorf("ProcWorksLabel(%v, %v) = %q, want %q", tt.p, tt.w, got, tt.want)
		}
	}
}
