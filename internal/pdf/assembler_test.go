package pdf

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanlaroche/PDFMail/internal/layout"
	"github.com/jeanlaroche/PDFMail/internal/model"
)

// fakeRenderer records the render calls in order.
type fakeRenderer struct {
	ops     []string
	failOn  string
	outputs int
}

func (f *fakeRenderer) AddPage() {
	f.ops = append(f.ops, "page")
}

func (f *fakeRenderer) Image(path string, r layout.Rect) error {
	if f.failOn == "image" {
		return errors.New("image failed")
	}
	f.ops = append(f.ops, "image:"+path)
	return nil
}

func (f *fakeRenderer) Text(text string, b layout.TextBlock) error {
	if f.failOn == "text" {
		return errors.New("text failed")
	}
	f.ops = append(f.ops, fmt.Sprintf("text:%q", text))
	return nil
}

func (f *fakeRenderer) Output(path string) error {
	f.outputs++
	f.ops = append(f.ops, "output:"+path)
	return nil
}

func oneUpSpec() layout.Spec {
	return layout.Spec{
		Images: []layout.Rect{{}},
		Texts:  []layout.TextBlock{{}},
	}
}

func twoUpSpec() layout.Spec {
	return layout.Spec{
		Images: []layout.Rect{{}, {}},
		Texts:  []layout.TextBlock{{}, {}},
	}
}

func TestAssembler_OnePerSheetEmitsPagePairs(t *testing.T) {
	r := &fakeRenderer{}
	asm := NewAssembler(r, oneUpSpec(), "front.png", "back.png", false)

	units := []model.PageUnit{{Top: "addr1"}, {Top: "addr2"}, {Top: "addr3"}}
	require.NoError(t, asm.Run(units, "out.pdf"))

	// Two pages per unit: front image page, then back image page with the
	// address block. Six pages for three units.
	assert.Equal(t, []string{
		"page", "image:front.png", "page", "image:back.png", `text:"addr1"`,
		"page", "image:front.png", "page", "image:back.png", `text:"addr2"`,
		"page", "image:front.png", "page", "image:back.png", `text:"addr3"`,
		"output:out.pdf",
	}, r.ops)
	assert.Equal(t, 1, r.outputs, "output must be finalized exactly once")
}

func TestAssembler_TwoPerSheet(t *testing.T) {
	r := &fakeRenderer{}
	asm := NewAssembler(r, twoUpSpec(), "front.png", "back.png", false)

	units := []model.PageUnit{{Top: "a", Bottom: "b"}, {Top: "c", Bottom: ""}}
	require.NoError(t, asm.Run(units, "out.pdf"))

	assert.Equal(t, []string{
		"page", "image:front.png", "image:front.png",
		"page", "image:back.png", "image:back.png", `text:"a"`, `text:"b"`,
		"page", "image:front.png", "image:front.png",
		"page", "image:back.png", "image:back.png", `text:"c"`, `text:""`,
		"output:out.pdf",
	}, r.ops)
}

func TestAssembler_BackOnlySkipsFrontPages(t *testing.T) {
	r := &fakeRenderer{}
	asm := NewAssembler(r, oneUpSpec(), "front.png", "back.png", true)

	units := []model.PageUnit{{Top: "addr1"}, {Top: "addr2"}}
	require.NoError(t, asm.Run(units, "out.pdf"))

	assert.Equal(t, []string{
		"page", "image:back.png", `text:"addr1"`,
		"page", "image:back.png", `text:"addr2"`,
		"output:out.pdf",
	}, r.ops)
}

func TestAssembler_ErrorsNameTheStage(t *testing.T) {
	r := &fakeRenderer{failOn: "image"}
	asm := NewAssembler(r, oneUpSpec(), "front.png", "back.png", false)

	err := asm.Run([]model.PageUnit{{Top: "addr"}}, "out.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "front image")
	assert.Zero(t, r.outputs, "a failed run must not finalize output")
}
