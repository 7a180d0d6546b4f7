package fits

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/astrogo/fitsio"

	"github.com/couchcryptid/draogmims2caom2/internal/blueprint"
)

// FITS files are a sequence of 2880-byte blocks holding 80-byte cards.
const (
	blockSize = 2880
	cardSize  = 80
)

// Reader extracts the header keywords of FITS files on disk.
// It implements pipeline.HeaderReader.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a FITS header reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadHeaders returns one Header per HDU of the file at path, primary first.
func (r *Reader) ReadHeaders(ctx context.Context, path string) (blueprint.Headers, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fits file: %w", err)
	}
	defer f.Close()

	headers, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.logger.Debug("read fits headers", "path", path, "hdus", len(headers))
	return headers, nil
}

// Decode reads every HDU header from a FITS stream. Data arrays are skipped:
// with a Seek when rd supports it, otherwise by discarding them.
func Decode(rd io.Reader) (blueprint.Headers, error) {
	var headers blueprint.Headers
	for {
		raw, err := readHeaderBlocks(rd)
		if errors.Is(err, io.EOF) && len(headers) > 0 {
			return headers, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode fits: %w", err)
		}

		h, err := parseCards(raw)
		if err != nil {
			return nil, fmt.Errorf("decode fits hdu %d: %w", len(headers), err)
		}
		headers = append(headers, h)

		if err := skip(rd, dataSize(h)); err != nil {
			return nil, fmt.Errorf("decode fits hdu %d: skip data: %w", len(headers)-1, err)
		}
	}
}

// readHeaderBlocks returns the cards of one header, up to but excluding END.
func readHeaderBlocks(rd io.Reader) ([]byte, error) {
	var raw []byte
	block := make([]byte, blockSize)
	for {
		if _, err := io.ReadFull(rd, block); err != nil {
			if errors.Is(err, io.EOF) && len(raw) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		for i := 0; i < blockSize; i += cardSize {
			if string(block[i:i+8]) == "END     " {
				return append(raw, block[:i]...), nil
			}
		}
		raw = append(raw, block...)
	}
}

// parseCards decodes header cards with fitsio. The cards are framed as a
// primary header whose trailing NAXIS = 0 tells the decoder there is no data
// to load; the first occurrence of every keyword is the original one.
func parseCards(raw []byte) (blueprint.Header, error) {
	var buf bytes.Buffer
	buf.Write(card("SIMPLE", "T"))
	buf.Write(raw)
	buf.Write(card("NAXIS", "0"))
	buf.Write(card("END", ""))
	if rem := buf.Len() % blockSize; rem != 0 {
		buf.Write(bytes.Repeat([]byte{' '}, blockSize-rem))
	}

	hdu, err := fitsio.NewDecoder(&buf).DecodeHDU()
	if err != nil {
		return nil, err
	}
	defer hdu.Close()

	hdr := hdu.Header()
	keys := hdr.Keys()
	h := make(blueprint.Header, len(keys))
	for _, key := range keys {
		if c := hdr.Get(key); c != nil {
			h[key] = c.Value
		}
	}
	if !bytes.HasPrefix(raw, []byte("SIMPLE  ")) {
		delete(h, "SIMPLE")
	}
	return h, nil
}

func card(key, value string) []byte {
	line := key
	if value != "" {
		line = fmt.Sprintf("%-8s= %20s", key, value)
	}
	return []byte(fmt.Sprintf("%-80s", line))
}

// dataSize is the padded byte length of the data following header h.
func dataSize(h blueprint.Header) int64 {
	naxis := intValue(h, "NAXIS", 0)
	if naxis == 0 {
		return 0
	}
	elements := int64(1)
	for i := 1; i <= int(naxis); i++ {
		elements *= intValue(h, "NAXIS"+strconv.Itoa(i), 0)
	}
	bitpix := intValue(h, "BITPIX", 0)
	if bitpix < 0 {
		bitpix = -bitpix
	}
	size := bitpix / 8 * intValue(h, "GCOUNT", 1) * (intValue(h, "PCOUNT", 0) + elements)
	if rem := size % blockSize; rem != 0 {
		size += blockSize - rem
	}
	return size
}

func intValue(h blueprint.Header, key string, def int64) int64 {
	switch v := h[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return def
	}
}

func skip(rd io.Reader, n int64) error {
	if n == 0 {
		return nil
	}
	if s, ok := rd.(io.Seeker); ok {
		_, err := s.Seek(n, io.SeekCurrent)
		return err
	}
	_, err := io.CopyN(io.Discard, rd, n)
	return err
}
