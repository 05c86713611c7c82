// Package render draws pivot matrices as annotated heatmaps.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrNoPanels = errors.New("figure has no panels")

// Figure is a row of panels under a shared title.
type Figure struct {
	Title     string
	TitleSize vg.Length
	Width     vg.Length
	Height    vg.Length
	Panels    []Panel
}

// Save renders the figure to path. The image format follows the file
// extension (png, jpg, svg, pdf, tif, eps). An existing file is replaced.
// Nothing is written when a panel cannot be built.
func Save(fig Figure, path string) error {
	if len(fig.Panels) == 0 {
		return ErrNoPanels
	}

	panels := make([]*panelPlots, len(fig.Panels))
	for i, panel := range fig.Panels {
		pp, err := newPanelPlots(panel)
		if err != nil {
			return fmt.Errorf("panel %d (%s): %w", i, panel.Title, err)
		}
		panels[i] = pp
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	canvas, err := draw.NewFormattedCanvas(fig.Width, fig.Height, format)
	if err != nil {
		return fmt.Errorf("failed to create %q canvas: %w", format, err)
	}

	dc := draw.New(canvas)
	body := dc
	if fig.Title != "" {
		size := fig.TitleSize
		if size == 0 {
			size = vg.Points(18)
		}
		sty := titleStyle(size)
		top := dc.Max.Y - size/2
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: top}, fig.Title)
		body = draw.Crop(dc, 0, 0, 0, -2*size)
	}

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(panels),
		PadX:      vg.Centimeter,
		PadTop:    vg.Centimeter / 2,
		PadBottom: vg.Centimeter / 2,
		PadLeft:   vg.Centimeter / 2,
		PadRight:  vg.Centimeter / 2,
	}
	for i, pp := range panels {
		pp.draw(tiles.At(body, i, 0))
	}

	return writeImage(canvas, path)
}

// writeImage writes to a temporary file next to path and renames it into
// place, so a failed write leaves any previous image intact.
func writeImage(canvas io.WriterTo, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := canvas.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func titleStyle(size vg.Length) text.Style {
	fnt := plot.DefaultFont
	fnt.Size = size
	return text.Style{
		Color:   color.Black,
		Font:    fnt,
		XAlign:  text.XCenter,
		YAlign:  text.YTop,
		Handler: plot.DefaultTextHandler,
	}
}
