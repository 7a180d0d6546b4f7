// Command genfits writes a GMIMS-shaped FITS cube for local runs. The primary
// header carries the same WCS keywords as the DRAO Faraday depth cubes; the
// data array is zero-filled.
//
// Usage:
//
//	go run ./cmd/genfits -out data/Drao_60Rad.mod.fits
//	go run ./cmd/genfits -out data/small.fits -cols 72 -rows 36 -planes 4
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/astrogo/fitsio"

	fitsadapter "github.com/couchcryptid/draogmims2caom2/internal/adapter/fits"
	"github.com/couchcryptid/draogmims2caom2/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the FITS fixture")
	cols := flag.Int("cols", domain.SurveyColumns, "longitude pixels (NAXIS1)")
	rows := flag.Int("rows", domain.SurveyRows, "latitude pixels (NAXIS2)")
	planes := flag.Int("planes", 1, "Faraday depth planes (NAXIS3)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	var buf bytes.Buffer
	if err := fitsadapter.EncodeCube(&buf, gmimsCards(*cols, *rows), []int{*cols, *rows, *planes}); err != nil {
		return err
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}

	fmt.Printf("Wrote %dx%dx%d cube to %s\n", *cols, *rows, *planes, *out)
	return nil
}

// gmimsCards returns the WCS of an all-sky plate carree cube in Galactic
// coordinates, centered on (0, 0).
func gmimsCards(cols, rows int) []fitsio.Card {
	scale := domain.SurveyPixelScale
	return []fitsio.Card{
		{Name: "CTYPE1", Value: "GLON-CAR", Comment: "x-axis"},
		{Name: "CTYPE2", Value: "GLAT-CAR", Comment: "y-axis"},
		{Name: "CTYPE3", Value: "RM", Comment: "z-axis"},
		{Name: "CRVAL1", Value: 0.0, Comment: "reference pixel value"},
		{Name: "CRVAL2", Value: 0.0, Comment: "reference pixel value"},
		{Name: "CRVAL3", Value: -400.0, Comment: "reference pixel value"},
		{Name: "CRPIX1", Value: float64(cols)/2 + 0.5, Comment: "reference value"},
		{Name: "CRPIX2", Value: rows/2 + 1, Comment: "reference value"},
		{Name: "CRPIX3", Value: 1.0, Comment: "reference value"},
		{Name: "CDELT1", Value: -scale, Comment: "Degrees/pixel"},
		{Name: "CDELT2", Value: scale, Comment: "Degrees/pixel"},
		{Name: "CDELT3", Value: 5.0, Comment: "Degrees/pixel"},
		{Name: "CUNIT1", Value: "deg"},
		{Name: "CUNIT2", Value: "deg"},
		{Name: "CUNIT3", Value: "rad/m2"},
	}
}
