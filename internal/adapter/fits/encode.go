package fits

import (
	"fmt"
	"io"

	"github.com/astrogo/fitsio"
)

// EncodeCube writes a single-HDU FITS file holding a zero-filled float32
// array of the given dimensions, with cards appended to the primary header.
func EncodeCube(w io.Writer, cards []fitsio.Card, dims []int) error {
	if len(dims) == 0 {
		return fmt.Errorf("encode cube: no dimensions")
	}
	n := 1
	for _, d := range dims {
		if d <= 0 {
			return fmt.Errorf("encode cube: invalid dimension %d", d)
		}
		n *= d
	}

	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("encode cube: %w", err)
	}
	defer f.Close()

	im := fitsio.NewImage(-32, dims)
	defer im.Close()

	if err := im.Header().Append(cards...); err != nil {
		return fmt.Errorf("encode cube header: %w", err)
	}
	if err := im.Write(make([]float32, n)); err != nil {
		return fmt.Errorf("encode cube data: %w", err)
	}
	return f.Write(im)
}
