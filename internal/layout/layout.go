// Package layout holds the pure pagination and geometry math: which
// addresses share a sheet, and where images and address blocks sit on it.
// Nothing here touches the PDF engine.
package layout

import (
	"fmt"
)

// US-letter sheet, in inches. 1-per-sheet prints landscape, 2-per-sheet
// portrait; the orientation is fixed by the mode, not computed.
const (
	LetterShort = 8.5
	LetterLong  = 11.0
)

// Base font sizes in points. The 2-per-sheet base is smaller to fit the
// halved vertical space.
const (
	baseFontSize      = 16
	twoPerSheetOffset = 2
)

// Line heights of the address block, in inches.
const (
	lineHeightOne = 0.25
	lineHeightTwo = 0.2
)

// Rect is an image placement: origin plus size.
type Rect struct {
	X, Y, W, H float64
}

// TextBlock is an address block placement. Height follows from the line
// count at the fixed line height, so only the width is stored.
type TextBlock struct {
	X, Y, W    float64
	LineHeight float64
}

// Spec is the geometry for one page unit: where the base image copies go
// (same rectangles on the front and the back page) and where the address
// blocks go on the back page.
type Spec struct {
	Images []Rect
	Texts  []TextBlock
}

// Params are the inputs the geometry is a function of.
type Params struct {
	PerSheet int
	Margin   float64
	SheetW   float64
	SheetH   float64
	XAdjust  float64
	YAdjust  float64
}

// SheetSize returns the sheet dimensions for a prints-per-sheet mode.
func SheetSize(perSheet int) (w, h float64, err error) {
	switch perSheet {
	case 1:
		return LetterLong, LetterShort, nil
	case 2:
		return LetterShort, LetterLong, nil
	default:
		return 0, 0, fmt.Errorf("prints per sheet must be 1 or 2, got %d", perSheet)
	}
}

// FontSize returns the font size for a mode plus the caller's delta.
func FontSize(perSheet, adjust int) int {
	if perSheet == 1 {
		return baseFontSize + adjust
	}
	return baseFontSize - twoPerSheetOffset + adjust
}

// For computes the placement rectangles for one page unit.
func For(p Params) (Spec, error) {
	switch p.PerSheet {
	case 1:
		return oneUp(p), nil
	case 2:
		return twoUp(p), nil
	default:
		return Spec{}, fmt.Errorf("prints per sheet must be 1 or 2, got %d", p.PerSheet)
	}
}

func oneUp(p Params) Spec {
	image := Rect{
		X: p.Margin,
		Y: p.Margin,
		W: p.SheetW - 2*p.Margin,
		H: p.SheetH - 2*p.Margin,
	}
	x := 0.6*p.SheetW + p.XAdjust
	text := TextBlock{
		X:          x,
		Y:          0.55*p.SheetH + p.YAdjust,
		W:          p.SheetW - p.Margin - 0.5 - x,
		LineHeight: lineHeightOne,
	}
	return Spec{Images: []Rect{image}, Texts: []TextBlock{text}}
}

func twoUp(p Params) Spec {
	w := p.SheetW - 2*p.Margin
	h := (p.SheetH - 4*p.Margin) / 2
	top := Rect{X: p.Margin, Y: p.Margin, W: w, H: h}
	bottom := Rect{X: p.Margin, Y: p.SheetH/2 + p.Margin, W: w, H: h}

	x := 0.6*p.SheetW + p.XAdjust
	text1 := TextBlock{
		X:          x,
		Y:          0.3*p.SheetH + p.YAdjust,
		W:          p.SheetW - p.Margin - 0.5 - x,
		LineHeight: lineHeightTwo,
	}
	text2 := text1
	text2.Y += p.SheetH / 2

	return Spec{Images: []Rect{top, bottom}, Texts: []TextBlock{text1, text2}}
}
