package blueprint

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/couchcryptid/draogmims2caom2/internal/caom"
)

// ApplyOptions identifies the entities Apply creates.
type ApplyOptions struct {
	Collection    string
	ObservationID string // overrides any Observation.observationID binding when set
	ProductID     string
	URI           string
}

// target is the set of entities a setter may write to.
type target struct {
	obs      *caom.Observation
	plane    *caom.Plane
	artifact *caom.Artifact
	chunk    *caom.Chunk
}

func (t *target) spatial() *caom.SpatialWCS {
	if t.chunk.Position == nil {
		t.chunk.Position = &caom.SpatialWCS{}
	}
	return t.chunk.Position
}

type setter func(t *target, v string) error

// Apply builds a new Observation holding one plane, artifact and chunk, and
// populates it by evaluating every rule of b against headers.
func Apply(b *Blueprint, headers Headers, opts ApplyOptions) (*caom.Observation, error) {
	t := &target{
		obs:      caom.NewObservation(opts.Collection, ""),
		plane:    caom.NewPlane(opts.ProductID),
		artifact: caom.NewArtifact(opts.URI),
		chunk:    caom.NewChunk(),
	}

	for _, attr := range b.order {
		v, ok, err := b.evaluate(b.rules[attr], headers)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", attr, err)
		}
		if !ok {
			continue
		}
		if err := setters[attr](t, v); err != nil {
			return nil, fmt.Errorf("set %s: %w", attr, err)
		}
	}

	if opts.ObservationID != "" {
		t.obs.ObservationID = opts.ObservationID
	}
	if t.chunk.Position != nil || t.chunk.PositionAxis1 != nil {
		t.artifact.Chunks = append(t.artifact.Chunks, t.chunk)
	}
	t.plane.AddArtifact(t.artifact)
	t.obs.AddPlane(t.plane)
	return t.obs, nil
}

// evaluate returns the value a rule yields, and false when it yields nothing.
func (b *Blueprint) evaluate(r Rule, headers Headers) (string, bool, error) {
	switch r.Kind {
	case KindLiteral:
		return r.Value, true, nil
	case KindKeyword:
		if v, ok := headers.LookupString(r.Keys...); ok {
			return v, true, nil
		}
		return r.Default, r.HasDefault, nil
	case KindFunction:
		fn, ok := b.registry[r.Value]
		if !ok {
			return "", false, fmt.Errorf("%w: %s", ErrUnknownFunction, r.Value)
		}
		v, err := fn(headers)
		if err != nil {
			return "", false, err
		}
		return v, v != "", nil
	default:
		return "", false, fmt.Errorf("unsupported rule kind %v", r.Kind)
	}
}

var setters = map[string]setter{
	"Observation.observationID": func(t *target, v string) error {
		t.obs.ObservationID = v
		return nil
	},
	"Observation.intent": func(t *target, v string) error {
		t.obs.Intent = v
		return nil
	},
	"Observation.algorithm.name": func(t *target, v string) error {
		t.obs.Algorithm = v
		return nil
	},
	"Observation.telescope.name": func(t *target, v string) error {
		t.obs.Telescope = v
		return nil
	},
	"Observation.instrument.name": func(t *target, v string) error {
		t.obs.Instrument = v
		return nil
	},

	"Plane.dataProductType": func(t *target, v string) error {
		return t.plane.SetDataProductType(v)
	},
	"Plane.calibrationLevel": func(t *target, v string) error {
		level, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		return t.plane.SetCalibrationLevel(level)
	},
	"Plane.metaRelease": func(t *target, v string) error {
		ts, err := parseDate(v)
		if err != nil {
			return err
		}
		t.plane.MetaRelease = &ts
		return nil
	},
	"Plane.dataRelease": func(t *target, v string) error {
		ts, err := parseDate(v)
		if err != nil {
			return err
		}
		t.plane.DataRelease = &ts
		return nil
	},
	"Plane.provenance.keywords": func(t *target, v string) error {
		t.plane.SetKeywords(strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		}))
		return nil
	},

	"Artifact.productType": func(t *target, v string) error {
		t.artifact.ProductType = v
		return nil
	},
	"Artifact.releaseType": func(t *target, v string) error {
		t.artifact.ReleaseType = v
		return nil
	},

	"Chunk.positionAxis1": intSetter(func(t *target, n int) { t.chunk.PositionAxis1 = &n }),
	"Chunk.positionAxis2": intSetter(func(t *target, n int) { t.chunk.PositionAxis2 = &n }),
	"Chunk.position.coordsys": func(t *target, v string) error {
		t.spatial().CoordSys = v
		return nil
	},
	"Chunk.position.equinox": floatSetter(func(t *target, f float64) { t.spatial().Equinox = &f }),
	"Chunk.position.axis.axis1.ctype": func(t *target, v string) error {
		t.spatial().Axis1.CType = v
		return nil
	},
	"Chunk.position.axis.axis1.cunit": func(t *target, v string) error {
		t.spatial().Axis1.CUnit = v
		return nil
	},
	"Chunk.position.axis.axis2.ctype": func(t *target, v string) error {
		t.spatial().Axis2.CType = v
		return nil
	},
	"Chunk.position.axis.axis2.cunit": func(t *target, v string) error {
		t.spatial().Axis2.CUnit = v
		return nil
	},
	"Chunk.position.axis.function.dimension.naxis1":    intSetter(func(t *target, n int) { t.spatial().Axis1.NAxis = n }),
	"Chunk.position.axis.function.dimension.naxis2":    intSetter(func(t *target, n int) { t.spatial().Axis2.NAxis = n }),
	"Chunk.position.axis.function.refCoord.coord1.pix": floatSetter(func(t *target, f float64) { t.spatial().Axis1.CRPix = f }),
	"Chunk.position.axis.function.refCoord.coord1.val": floatSetter(func(t *target, f float64) { t.spatial().Axis1.CRVal = f }),
	"Chunk.position.axis.function.refCoord.coord2.pix": floatSetter(func(t *target, f float64) { t.spatial().Axis2.CRPix = f }),
	"Chunk.position.axis.function.refCoord.coord2.val": floatSetter(func(t *target, f float64) { t.spatial().Axis2.CRVal = f }),
	"Chunk.position.axis.function.cd11":                floatSetter(func(t *target, f float64) { t.spatial().Axis1.CDelt = f }),
	"Chunk.position.axis.function.cd22":                floatSetter(func(t *target, f float64) { t.spatial().Axis2.CDelt = f }),
}

func intSetter(set func(t *target, n int)) setter {
	return func(t *target, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		set(t, n)
		return nil
	}
}

func floatSetter(set func(t *target, f float64)) setter {
	return func(t *target, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		set(t, f)
		return nil
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	time.RFC3339,
}

// parseDate accepts the ISO 8601 forms found in FITS headers and blueprints.
func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", v)
}
