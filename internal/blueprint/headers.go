package blueprint

import (
	"fmt"
	"strconv"
	"strings"
)

// Header holds the keyword values of one HDU.
type Header map[string]any

// Headers holds one Header per HDU, primary first.
type Headers []Header

// Lookup returns the value of the first key found, searching the primary
// header before the extensions.
func (h Headers) Lookup(keys ...string) (any, bool) {
	for _, hdu := range h {
		for _, k := range keys {
			if v, ok := hdu[k]; ok && v != nil {
				return v, true
			}
		}
	}
	return nil, false
}

// LookupString is Lookup with the value rendered as a trimmed string.
func (h Headers) LookupString(keys ...string) (string, bool) {
	v, ok := h.Lookup(keys...)
	if !ok {
		return "", false
	}
	return formatValue(v), true
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
