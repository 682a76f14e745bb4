package pdf

import (
	"fmt"

	"github.com/jeanlaroche/PDFMail/internal/layout"
	"github.com/jeanlaroche/PDFMail/internal/logger"
	"github.com/jeanlaroche/PDFMail/internal/model"
)

// Assembler sequences the render calls for a document: for every page
// unit, a front page carrying the front image, then a back page carrying
// the back image and the address block(s).
type Assembler struct {
	r        Renderer
	spec     layout.Spec
	front    string
	back     string
	backOnly bool
}

// NewAssembler builds an assembler for one document run. backOnly skips
// the front pages, for proofing the address side without reprinting fronts.
func NewAssembler(r Renderer, spec layout.Spec, front, back string, backOnly bool) *Assembler {
	return &Assembler{r: r, spec: spec, front: front, back: back, backOnly: backOnly}
}

// Run emits every page unit and finalizes the output exactly once.
func (a *Assembler) Run(units []model.PageUnit, outFile string) error {
	for i, u := range units {
		if !a.backOnly {
			a.r.AddPage()
			for _, rect := range a.spec.Images {
				if err := a.r.Image(a.front, rect); err != nil {
					return fmt.Errorf("sheet %d: placing front image: %w", i+1, err)
				}
			}
		}

		a.r.AddPage()
		for _, rect := range a.spec.Images {
			if err := a.r.Image(a.back, rect); err != nil {
				return fmt.Errorf("sheet %d: placing back image: %w", i+1, err)
			}
		}

		texts := []string{u.Top, u.Bottom}
		for j, block := range a.spec.Texts {
			if err := a.r.Text(texts[j], block); err != nil {
				return fmt.Errorf("sheet %d: placing address: %w", i+1, err)
			}
		}
	}

	logger.Debug("document assembled", "units", len(units), "output", outFile)
	return a.r.Output(outFile)
}
