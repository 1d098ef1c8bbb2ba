package pages

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfImageTypes are the embedded image formats the fingerprinter can decode.
var pdfImageTypes = map[string]bool{
	"jpg": true,
	"png": true,
	"tif": true,
}

// ListPDF reads a PDF and returns one page per PDF page. Each page holds the
// largest decodable image embedded in it, which for scanned books is the page
// scan itself. A page without such an image is an error wrapping
// ErrNoPageImage.
func ListPDF(ctx context.Context, path string) ([]Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}

	pages := make([]Page, 0, pdfCtx.PageCount)
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := largestPageImage(pdfCtx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", path, pageNr, err)
		}
		pages = append(pages, Page{
			Index: pageNr - 1,
			Path:  fmt.Sprintf("%s#page=%d", path, pageNr),
			data:  data,
		})
	}
	return pages, nil
}

// largestPageImage returns the encoded bytes of the embedded image with the
// most pixels on a page. Ties go to the lowest object number.
func largestPageImage(pdfCtx *model.Context, pageNr int) ([]byte, error) {
	images, err := pdfcpu.ExtractPageImages(pdfCtx, pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	bestObj, bestArea := -1, -1
	for objNr, img := range images {
		if !pdfImageTypes[strings.ToLower(img.FileType)] {
			continue
		}
		area := img.Width * img.Height
		if area > bestArea || (area == bestArea && objNr < bestObj) {
			bestObj, bestArea = objNr, area
		}
	}
	if bestObj == -1 {
		return nil, ErrNoPageImage
	}

	data, err := io.ReadAll(images[bestObj])
	if err != nil {
		return nil, fmt.Errorf("read image object %d: %w", bestObj, err)
	}
	return data, nil
}
