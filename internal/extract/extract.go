// Package extract pulls the front and back base images out of an existing
// document by rasterizing its first two pages.
package extract

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/sync/errgroup"

	"github.com/jeanlaroche/PDFMail/internal/logger"
)

// FrontBack rasterizes page 1 and page 2 of the source document at the
// given resolution and writes them as front.png and back.png under dir.
// A document with fewer than two pages is an error before anything is
// written.
func FrontBack(src string, dpi float64, dir string) (front, back string, err error) {
	doc, err := fitz.New(src)
	if err != nil {
		return "", "", fmt.Errorf("cannot open source document %s: %w", src, err)
	}
	defer doc.Close()

	if n := doc.NumPage(); n < 2 {
		return "", "", fmt.Errorf("source document %s has %d page(s), need at least 2", src, n)
	}

	front = filepath.Join(dir, "front.png")
	back = filepath.Join(dir, "back.png")
	paths := [2]string{front, back}

	var g errgroup.Group
	for i := 0; i < 2; i++ {
		i := i
		g.Go(func() error {
			return renderPage(doc, i, dpi, paths[i])
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", err
	}

	logger.Debug("base images extracted", "source", src, "dpi", dpi)
	return front, back, nil
}

func renderPage(doc *fitz.Document, page int, dpi float64, out string) error {
	img, err := doc.ImageDPI(page, dpi)
	if err != nil {
		return fmt.Errorf("cannot rasterize page %d: %w", page+1, err)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("cannot create image file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(out)
		return fmt.Errorf("cannot encode page %d image: %w", page+1, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(out)
		return err
	}
	return nil
}
