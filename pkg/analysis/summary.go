package analysis

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gilchrisn/annealing-heatmaps/pkg/aggregate"
	"github.com/gilchrisn/annealing-heatmaps/pkg/records"
)

// WriteTimeSummary prints the aggregated time rows as an aligned table.
func WriteTimeSummary(w io.Writer, rows []aggregate.TimeRow, floatFormat string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	writeRow(tw, records.Processors, records.Works, records.DurationSec, "runs")
	for _, r := range rows {
		writeRow(tw,
			aggregate.FormatKey(r.Processors),
			aggregate.FormatKey(r.Works),
			fmt.Sprintf(floatFormat, r.DurationSec),
			fmt.Sprint(r.Runs),
		)
	}
	return tw.Flush()
}

// WriteLawSummary prints the aggregated law rows as an aligned table.
func WriteLawSummary(w io.Writer, rows []aggregate.LawRow, floatFormat string, labels []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	writeRow(tw,
		records.Processors, records.Works, records.Law,
		records.DurationSec, records.StartCriterion, records.BestCriterion,
		aggregate.RelIncreasePercentColumn, "runs",
	)
	for _, r := range rows {
		writeRow(tw,
			aggregate.FormatKey(r.Processors),
			aggregate.FormatKey(r.Works),
			LawLabel(r.Law, labels),
			fmt.Sprintf(floatFormat, r.DurationSec),
			fmt.Sprintf(floatFormat, r.StartCriterion),
			fmt.Sprintf(floatFormat, r.BestCriterion),
			fmt.Sprintf(floatFormat, r.RelIncreasePercent),
			fmt.Sprint(r.Runs),
		)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
}
