// Package analysis runs the two heatmap studies: execution time per
// (processors, works), and time plus solution improvement per temperature law.
package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/annealing-heatmaps/pkg/aggregate"
	"github.com/gilchrisn/annealing-heatmaps/pkg/pivot"
	"github.com/gilchrisn/annealing-heatmaps/pkg/records"
	"github.com/gilchrisn/annealing-heatmaps/pkg/render"
)

// TimeReport is the outcome of the execution-time study.
type TimeReport struct {
	Input   string
	Output  string
	Records int
	Rows    []aggregate.TimeRow
	Matrix  *pivot.Matrix
	Elapsed time.Duration
}

// LawReport is the outcome of the temperature-law study.
type LawReport struct {
	Input      string
	Output     string
	Records    int
	Rows       []aggregate.LawRow
	TimeMatrix *pivot.Matrix
	RelMatrix  *pivot.Matrix
	Elapsed    time.Duration
}

// AnalyzeTime loads time-study records from input, averages duration per
// (processors, works) and writes a processors x works heatmap to output.
func AnalyzeTime(ctx context.Context, cfg *Config, input, output string) (*TimeReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("study", "time").Logger()
	start := time.Now()

	table, err := records.LoadWithSchema(input, records.TimeSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	logger.Info().
		Str("input", input).
		Int("records", table.Len()).
		Msg("Records loaded")
	logger.Debug().Strs("columns", table.Columns()).Msg("Record columns")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := aggregate.Time(table)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate records: %w", err)
	}
	logger.Info().Int("groups", len(rows)).Msg("Records aggregated")

	matrix, err := pivot.Build(rows,
		func(r aggregate.TimeRow) pivot.Key { return numericKey(r.Processors) },
		func(r aggregate.TimeRow) pivot.Key { return numericKey(r.Works) },
		func(r aggregate.TimeRow) float64 { return r.DurationSec },
	)
	if err != nil {
		return nil, fmt.Errorf("failed to pivot duration: %w", err)
	}
	nr, nc := matrix.Dims()
	logger.Debug().Int("rows", nr).Int("cols", nc).Msg("Duration matrix built")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fig := render.Figure{
		Width:  cfg.TimeWidth(),
		Height: cfg.TimeHeight(),
		Panels: []render.Panel{{
			Title:            cfg.TimeTitle(),
			XLabel:           cfg.TimeXLabel(),
			YLabel:           cfg.TimeYLabel(),
			Palette:          cfg.TimePalette(),
			AnnotationFormat: cfg.TimeAnnotationFormat(),
			Matrix:           matrix,
		}},
	}
	if err := render.Save(fig, output); err != nil {
		return nil, fmt.Errorf("failed to render time heatmap: %w", err)
	}

	report := &TimeReport{
		Input:   input,
		Output:  output,
		Records: table.Len(),
		Rows:    rows,
		Matrix:  matrix,
		Elapsed: time.Since(start),
	}
	logger.Info().
		Str("output", output).
		Dur("elapsed", report.Elapsed).
		Msg("Time heatmap written")

	return report, nil
}

// AnalyzeLaw loads law-study records from input, averages every metric per
// (processors, works, law), derives the relative improvement and writes the
// duration and improvement heatmaps side by side to output.
func AnalyzeLaw(ctx context.Context, cfg *Config, input, output string) (*LawReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("study", "law").Logger()
	start := time.Now()

	table, err := records.LoadWithSchema(input, records.LawSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	logger.Info().
		Str("input", input).
		Int("records", table.Len()).
		Msg("Records loaded")
	logger.Debug().Strs("columns", table.Columns()).Msg("Record columns")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := aggregate.Law(table)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate records: %w", err)
	}
	logger.Info().Int("groups", len(rows)).Msg("Records aggregated")

	for _, r := range rows {
		if math.IsNaN(r.RelIncreasePercent) || math.IsInf(r.RelIncreasePercent, 0) {
			logger.Warn().
				Str("proc_works", r.ProcWorks).
				Float64("law", r.Law).
				Float64("start_criterion", r.StartCriterion).
				Msg("Relative increase undefined for zero start criterion")
		}
	}

	labels := cfg.LawLabels()
	procWorks := func(r aggregate.LawRow) pivot.Key {
		return pivot.Key{Label: r.ProcWorks, Rank: []float64{r.Processors, r.Works}}
	}
	law := func(r aggregate.LawRow) pivot.Key {
		return pivot.Key{Label: LawLabel(r.Law, labels), Rank: []float64{r.Law}}
	}

	timeMatrix, err := pivot.Build(rows, procWorks, law,
		func(r aggregate.LawRow) float64 { return r.DurationSec })
	if err != nil {
		return nil, fmt.Errorf("failed to pivot duration: %w", err)
	}
	relMatrix, err := pivot.Build(rows, procWorks, law,
		func(r aggregate.LawRow) float64 { return r.RelIncreasePercent })
	if err != nil {
		return nil, fmt.Errorf("failed to pivot relative increase: %w", err)
	}
	nr, nc := timeMatrix.Dims()
	logger.Debug().Int("rows", nr).Int("cols", nc).Msg("Law matrices built")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	panel := func(title, palette string, m *pivot.Matrix) render.Panel {
		return render.Panel{
			Title:            title,
			XLabel:           cfg.LawXLabel(),
			YLabel:           cfg.LawYLabel(),
			Palette:          palette,
			AnnotationFormat: cfg.LawAnnotationFormat(),
			Matrix:           m,
		}
	}
	fig := render.Figure{
		Title:  cfg.LawTitle(),
		Width:  cfg.LawWidth(),
		Height: cfg.LawHeight(),
		Panels: []render.Panel{
			panel(cfg.LawTimeTitle(), cfg.LawTimePalette(), timeMatrix),
			panel(cfg.LawRelTitle(), cfg.LawRelPalette(), relMatrix),
		},
	}
	if err := render.Save(fig, output); err != nil {
		return nil, fmt.Errorf("failed to render law heatmap: %w", err)
	}

	report := &LawReport{
		Input:      input,
		Output:     output,
		Records:    table.Len(),
		Rows:       rows,
		TimeMatrix: timeMatrix,
		RelMatrix:  relMatrix,
		Elapsed:    time.Since(start),
	}
	logger.Info().
		Str("output", output).
		Dur("elapsed", report.Elapsed).
		Msg("Law heatmap written")

	return report, nil
}

// LawLabel names a temperature-law code using labels indexed by code. Codes
// without a label keep their number.
func LawLabel(code float64, labels []string) string {
	if i := int(code); float64(i) == code && i >= 0 && i < len(labels) {
		return labels[i]
	}
	return aggregate.FormatKey(code)
}

func numericKey(v float64) pivot.Key {
	return pivot.Key{Label: aggregate.FormatKey(v), Rank: []float64{v}}
}
