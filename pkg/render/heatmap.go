package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gilchrisn/annealing-heatmaps/pkg/pivot"
)

var (
	ErrEmptyPivot = errors.New("nothing to render: pivot matrix is empty")
	ErrValueRange = errors.New("cell values span more than float64 can hold")
)

// Panel is one annotated heatmap.
type Panel struct {
	Title            string
	XLabel           string
	YLabel           string
	Palette          string
	AnnotationFormat string // fmt verb for cell values, e.g. "%.2f"
	Matrix           *pivot.Matrix
}

var (
	nonFiniteColor = color.Gray{Y: 200}
	colorBarWidth  = 2 * vg.Centimeter
	paletteSize    = 255
)

// grid adapts a pivot matrix to plotter.GridXYZ. Matrix row 0 is drawn on top.
// Non-finite cells are reported below the colour range so the heatmap leaves
// them blank for nonFiniteCells to fill.
type grid struct {
	m *pivot.Matrix
}

func (g grid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g grid) Z(c, r int) float64 {
	v := g.m.At(g.row(r), c)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.Inf(-1)
	}
	return v
}

func (g grid) X(c int) float64 { return float64(c) }
func (g grid) Y(r int) float64 { return float64(r) }

func (g grid) row(r int) int { return len(g.m.Rows) - 1 - r }

// nonFiniteCells fills cells the heatmap leaves blank (NaN or ±Inf).
type nonFiniteCells struct {
	cells plotter.XYs
	color color.Color
}

func (n nonFiniteCells) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, cell := range n.cells {
		x0, x1 := trX(cell.X-0.5), trX(cell.X+0.5)
		y0, y1 := trY(cell.Y-0.5), trY(cell.Y+0.5)
		poly := c.ClipPolygonXY([]vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}})
		c.FillPolygon(n.color, poly)
	}
}

// finiteRange returns the min and max of the finite cells, widened so that
// min < max. A constant matrix is widened relative to its magnitude.
func finiteRange(m *pivot.Matrix) (lo, hi float64, err error) {
	lo, hi = math.Inf(1), math.Inf(-1)
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	switch {
	case lo > hi:
		return 0, 1, nil
	case lo == hi:
		d := math.Max(0.5, math.Abs(lo)/1e9)
		lo, hi = lo-d, hi+d
	}
	if span := hi - lo; math.IsInf(span, 0) || !(lo < hi) {
		return 0, 0, fmt.Errorf("%w: [%g, %g]", ErrValueRange, lo, hi)
	}
	return lo, hi, nil
}

// panelPlots holds the heatmap and its colour bar.
type panelPlots struct {
	heat *plot.Plot
	bar  *plot.Plot
}

func newPanelPlots(panel Panel) (*panelPlots, error) {
	m := panel.Matrix
	if m == nil || m.Empty() {
		return nil, ErrEmptyPivot
	}

	cm, err := colorMap(panel.Palette)
	if err != nil {
		return nil, err
	}
	lo, hi, err := finiteRange(m)
	if err != nil {
		return nil, err
	}
	cm.SetMax(hi)
	cm.SetMin(lo)
	if div, ok := cm.(palette.DivergingColorMap); ok {
		div.SetConvergePoint((lo + hi) / 2)
	}

	format := panel.AnnotationFormat
	if format == "" {
		format = "%.2g"
	}

	p := plot.New()
	p.Title.Text = panel.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.X.Padding = 0
	p.Y.Padding = 0

	g := grid{m: m}
	cols, rows := g.Dims()

	var (
		blanks    plotter.XYs
		positions plotter.XYs
		texts     []string
		colors    []color.Color
	)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := m.At(g.row(r), c)
			pt := plotter.XY{X: g.X(c), Y: g.Y(r)}
			positions = append(positions, pt)
			texts = append(texts, fmt.Sprintf(format, v))

			if math.IsNaN(v) || math.IsInf(v, 0) {
				blanks = append(blanks, pt)
				colors = append(colors, color.Black)
				continue
			}
			bg, err := cm.At(v)
			if err != nil {
				bg = nil
			}
			colors = append(colors, textColorFor(bg))
		}
	}

	if len(blanks) > 0 {
		p.Add(nonFiniteCells{cells: blanks, color: nonFiniteColor})
	}

	hm := plotter.NewHeatMap(g, cm.Palette(paletteSize))
	hm.Min, hm.Max = lo, hi
	p.Add(hm)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: positions, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to build cell annotations: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].Color = colors[i]
	}
	p.Add(labels)

	p.X.Tick.Marker = categoryTicks(m.Cols, func(j int) float64 { return g.X(j) })
	p.Y.Tick.Marker = categoryTicks(m.Rows, func(i int) float64 { return g.Y(rows - 1 - i) })

	bar := plot.New()
	bar.HideX()
	bar.Y.Padding = 0
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})

	return &panelPlots{heat: p, bar: bar}, nil
}

func categoryTicks(labels []string, pos func(int) float64) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(labels))
	for i, label := range labels {
		ticks[i] = plot.Tick{Value: pos(i), Label: label}
	}
	return plot.ConstantTicks(ticks)
}

// draw renders the heatmap with its colour bar on the right of c.
func (pp *panelPlots) draw(c draw.Canvas) {
	width := c.Rectangle.Size().X
	pp.heat.Draw(draw.Crop(c, 0, -colorBarWidth, 0, 0))
	pp.bar.Draw(draw.Crop(c, width-colorBarWidth, 0, 0, 0))
}
