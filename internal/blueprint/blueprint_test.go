package blueprint

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	testURI       = "ad:DRAO/Drao_60Rad.mod.fits"
	testProductID = "Drao_60Rad.mod"
)

// gmimsHeaders mirrors the primary HDU of drao_60rad.mod.fits.
func gmimsHeaders() Headers {
	return Headers{{
		"SIMPLE": true,
		"BITPIX": -64,
		"NAXIS":  3,
		"NAXIS1": 720,
		"NAXIS2": 360,
		"NAXIS3": 161,
		"CTYPE1": "GLON-CAR",
		"CTYPE2": "GLAT-CAR",
		"CTYPE3": "RM      ",
		"CRVAL1": 0.0,
		"CRVAL2": 0.0,
		"CRVAL3": -400.0,
		"CRPIX1": 360.5,
		"CRPIX2": 181,
		"CRPIX3": 1.0,
		"CDELT1": -0.5,
		"CDELT2": 0.5,
		"CDELT3": 5.0,
		"CUNIT1": "deg     ",
		"CUNIT2": "deg     ",
		"CUNIT3": "rad/m2  ",
	}}
}

func testOptions() ApplyOptions {
	return ApplyOptions{
		Collection:    "DRAO",
		ObservationID: testProductID,
		ProductID:     testProductID,
		URI:           testURI,
	}
}

func TestNew_Defaults(t *testing.T) {
	b := New(nil)

	rule, ok := b.Get("Artifact.productType")
	require.True(t, ok)
	assert.Equal(t, Literal("science"), rule)

	rule, ok = b.Get("Observation.intent")
	require.True(t, ok)
	assert.Equal(t, KindKeyword, rule.Kind)
	assert.True(t, rule.HasDefault)
	assert.Equal(t, "science", rule.Default)
}

func TestNew_FreshPerCall(t *testing.T) {
	first := New(nil)
	require.NoError(t, first.Set("Plane.dataProductType", Literal("image")))

	second := New(nil)
	_, ok := second.Get("Plane.dataProductType")
	assert.False(t, ok, "bindings must not leak between blueprints")
}

func TestSet(t *testing.T) {
	t.Run("unknown attribute", func(t *testing.T) {
		err := New(nil).Set("Plane.colour", Literal("blue"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownAttribute))
	})

	t.Run("unregistered function", func(t *testing.T) {
		err := New(Registry{}).Set("Observation.telescope.name", Call("get_telescope"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownFunction))
	})

	t.Run("replacing keeps order", func(t *testing.T) {
		b := New(nil)
		before := b.Attributes()
		require.NoError(t, b.Set("Artifact.productType", Literal("auxiliary")))
		assert.Equal(t, before, b.Attributes())
	})
}

func TestDelete(t *testing.T) {
	b := New(nil)
	b.Delete("Observation.intent")
	b.Delete("Observation.intent")

	_, ok := b.Get("Observation.intent")
	assert.False(t, ok)
	assert.NotContains(t, b.Attributes(), "Observation.intent")
}

func TestConfigurePositionAxes(t *testing.T) {
	t.Run("binds axis keywords", func(t *testing.T) {
		b := New(nil)
		require.NoError(t, b.ConfigurePositionAxes(1, 2))

		rule, ok := b.Get("Chunk.position.axis.axis2.ctype")
		require.True(t, ok)
		assert.Equal(t, []string{"CTYPE2"}, rule.Keys)

		rule, ok = b.Get("Chunk.position.axis.function.cd11")
		require.True(t, ok)
		assert.Equal(t, []string{"CDELT1", "CD1_1"}, rule.Keys)
	})

	t.Run("rejects invalid axes", func(t *testing.T) {
		assert.Error(t, New(nil).ConfigurePositionAxes(0, 2))
		assert.Error(t, New(nil).ConfigurePositionAxes(2, 2))
	})
}

func TestApply(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.ConfigurePositionAxes(1, 2))
	require.NoError(t, b.Set("Observation.observationID", Literal("test_obs_id")))
	require.NoError(t, b.Set("Plane.dataProductType", Literal("cube")))
	require.NoError(t, b.Set("Plane.calibrationLevel", Literal("4")))
	require.NoError(t, b.Set("Plane.metaRelease", Literal("2030-01-01")))

	obs, err := Apply(b, gmimsHeaders(), testOptions())
	require.NoError(t, err)

	assert.Equal(t, "DRAO", obs.Collection)
	assert.Equal(t, testProductID, obs.ObservationID)
	assert.Equal(t, "science", obs.Intent)
	assert.Equal(t, "exposure", obs.Algorithm)
	assert.Empty(t, obs.Telescope)

	require.Len(t, obs.Planes, 1)
	plane := obs.Planes[testProductID]
	require.NotNil(t, plane)
	assert.Equal(t, "cube", plane.DataProductType)
	require.NotNil(t, plane.CalibrationLevel)
	assert.Equal(t, 4, *plane.CalibrationLevel)
	require.NotNil(t, plane.MetaRelease)
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), *plane.MetaRelease)
	assert.Nil(t, plane.DataRelease)

	artifact := plane.Artifacts[testURI]
	require.NotNil(t, artifact)
	assert.Equal(t, "science", artifact.ProductType)
	assert.Equal(t, "data", artifact.ReleaseType)
	require.Len(t, artifact.Chunks, 1)

	chunk := artifact.Chunks[0]
	require.NotNil(t, chunk.PositionAxis1)
	assert.Equal(t, 1, *chunk.PositionAxis1)
	assert.Equal(t, 2, *chunk.PositionAxis2)
	require.NotNil(t, chunk.Position)
	assert.Equal(t, "GLON-CAR", chunk.Position.Axis1.CType)
	assert.Equal(t, "deg", chunk.Position.Axis2.CUnit)
	assert.Equal(t, 720, chunk.Position.Axis1.NAxis)
	assert.Equal(t, 360.5, chunk.Position.Axis1.CRPix)
	assert.Equal(t, -0.5, chunk.Position.Axis1.CDelt)
	assert.Equal(t, 181.0, chunk.Position.Axis2.CRPix)
	assert.Nil(t, chunk.Position.Equinox)
}

func TestApply_PlaceholderObservationID(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.Set("Observation.observationID", Literal("test_obs_id")))

	opts := testOptions()
	opts.ObservationID = ""
	obs, err := Apply(b, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "test_obs_id", obs.ObservationID)
}

func TestApply_NoPositionAxes(t *testing.T) {
	obs, err := Apply(New(nil), gmimsHeaders(), testOptions())
	require.NoError(t, err)
	assert.Empty(t, obs.Planes[testProductID].Artifacts[testURI].Chunks)
}

func TestApply_Keywords(t *testing.T) {
	headers := Headers{{"KEYWORDS": "faraday, rotation  polarization"}}

	obs, err := Apply(New(nil), headers, testOptions())
	require.NoError(t, err)

	kw := obs.Planes[testProductID].Keywords
	assert.Len(t, kw, 3)
	assert.Contains(t, kw, "faraday")
	assert.Contains(t, kw, "rotation")
	assert.Contains(t, kw, "polarization")
}

func TestApply_Function(t *testing.T) {
	registry := Registry{
		"get_telescope": func(h Headers) (string, error) {
			if v, ok := h.LookupString("OBSERVAT"); ok {
				return v + "-ST", nil
			}
			return "", nil
		},
		"broken": func(Headers) (string, error) {
			return "", errors.New("no WCS")
		},
	}

	t.Run("value", func(t *testing.T) {
		b := New(registry)
		require.NoError(t, b.Set("Observation.telescope.name", Call("get_telescope")))

		obs, err := Apply(b, Headers{{"OBSERVAT": "DRAO"}}, testOptions())
		require.NoError(t, err)
		assert.Equal(t, "DRAO-ST", obs.Telescope)
	})

	t.Run("error", func(t *testing.T) {
		b := New(registry)
		require.NoError(t, b.Set("Observation.telescope.name", Call("broken")))

		_, err := Apply(b, nil, testOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Observation.telescope.name")
	})
}

func TestApply_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		attr  string
		value string
	}{
		{"product type", "Plane.dataProductType", "hologram"},
		{"calibration level text", "Plane.calibrationLevel", "four"},
		{"calibration level range", "Plane.calibrationLevel", "9"},
		{"release date", "Plane.dataRelease", "someday"},
		{"axis number", "Chunk.positionAxis1", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(nil)
			require.NoError(t, b.Set(tt.attr, Literal(tt.value)))

			_, err := Apply(b, nil, testOptions())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.attr)
		})
	}
}

func TestHeadersLookup(t *testing.T) {
	headers := Headers{
		{"OBJECT": "GMIMS"},
		{"OBJECT": "ext", "EXTNAME": "RM"},
	}

	v, ok := headers.LookupString("EXTNAME")
	assert.True(t, ok)
	assert.Equal(t, "RM", v)

	v, ok = headers.LookupString("OBJECT")
	assert.True(t, ok)
	assert.Equal(t, "GMIMS", v, "primary header wins")

	_, ok = headers.Lookup("MISSING")
	assert.False(t, ok)
}

func TestMarshalYAML(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.Set("Plane.calibrationLevel", Literal("4")))

	out, err := yaml.Marshal(b)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "4", decoded["Plane.calibrationLevel"])
	assert.Equal(t, "exposure", decoded["Observation.algorithm.name"])

	intent, ok := decoded["Observation.intent"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"OBSINTNT"}, intent["keywords"])
	assert.Equal(t, "science", intent["default"])

	assert.Contains(t, b.String(), "Observation.algorithm.name: exposure")
}
