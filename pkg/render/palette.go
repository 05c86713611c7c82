package render

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

var ErrUnknownPalette = errors.New("unknown palette")

// Palettes lists the colour map names accepted by Panel.Palette.
var Palettes = []string{
	"kindlmann",
	"extended_kindlmann",
	"black_body",
	"extended_black_body",
	"smooth_blue_red",
}

func colorMap(name string) (palette.ColorMap, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "kindlmann":
		return moreland.Kindlmann(), nil
	case "extended_kindlmann":
		return moreland.ExtendedKindlmann(), nil
	case "black_body":
		return moreland.BlackBody(), nil
	case "extended_black_body":
		return moreland.ExtendedBlackBody(), nil
	case "smooth_blue_red":
		return moreland.SmoothBlueRed(), nil
	default:
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPalette, name, strings.Join(Palettes, ", "))
	}
}

// textColorFor picks black or white, whichever reads better on bg.
func textColorFor(bg color.Color) color.Color {
	if bg == nil {
		return color.Black
	}
	r, g, b, _ := bg.RGBA()
	lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 0xffff
	if lum < 0.5 {
		return color.White
	}
	return color.Black
}
