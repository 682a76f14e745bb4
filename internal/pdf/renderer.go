// Package pdf drives the rendering engine. The layout package decides
// where things go; this package puts them there and writes the document.
package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/signintech/gopdf"

	"github.com/jeanlaroche/PDFMail/internal/layout"
)

// Renderer is the contract with the document-rendering engine: add a page,
// place an image, place an address block, write the finished document.
type Renderer interface {
	AddPage()
	Image(path string, r layout.Rect) error
	Text(text string, b layout.TextBlock) error
	Output(path string) error
}

// GopdfRenderer renders through github.com/signintech/gopdf. The engine
// only knows TTF fonts, so a font file is a required input.
type GopdfRenderer struct {
	pdf  *gopdf.GoPdf
	font string
}

func NewRenderer(fontFile string, sheetW, sheetH, margin float64, fontSize int) (*GopdfRenderer, error) {
	p := &gopdf.GoPdf{}
	p.Start(gopdf.Config{
		PageSize: gopdf.Rect{W: sheetW, H: sheetH},
		Unit:     gopdf.UnitIN,
	})
	p.SetMargins(margin, margin, margin, margin)

	if err := p.AddTTFFont("address", fontFile); err != nil {
		return nil, fmt.Errorf("cannot load font %s: %w", fontFile, err)
	}
	if err := p.SetFont("address", "", fontSize); err != nil {
		return nil, fmt.Errorf("cannot set font: %w", err)
	}

	return &GopdfRenderer{pdf: p, font: "address"}, nil
}

func (r *GopdfRenderer) AddPage() {
	r.pdf.AddPage()
}

func (r *GopdfRenderer) Image(path string, rect layout.Rect) error {
	return r.pdf.Image(path, rect.X, rect.Y, &gopdf.Rect{W: rect.W, H: rect.H})
}

// Text draws an address block line by line at the block's fixed line
// height, word-wrapping each line to the block width. An empty address (a
// padded bottom half) draws nothing.
func (r *GopdfRenderer) Text(text string, b layout.TextBlock) error {
	if text == "" {
		return nil
	}

	y := b.Y
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			y += b.LineHeight
			continue
		}
		wrapped, err := r.pdf.SplitTextWithWordWrap(line, b.W)
		if err != nil {
			return fmt.Errorf("cannot wrap address line: %w", err)
		}
		for _, wl := range wrapped {
			r.pdf.SetX(b.X)
			r.pdf.SetY(y)
			if err := r.pdf.Cell(nil, wl); err != nil {
				return fmt.Errorf("cannot draw address line: %w", err)
			}
			y += b.LineHeight
		}
	}
	return nil
}

// Output writes the document next to its final path and renames it into
// place, so a failed run never leaves a half-written file behind as valid
// output.
func (r *GopdfRenderer) Output(path string) error {
	tmp := path + ".partial"
	if err := r.pdf.WritePdf(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot finalize output file: %w", err)
	}
	return nil
}
