package domain

import (
	"github.com/pkg/errors"

	"github.com/couchcryptid/draogmims2caom2/internal/blueprint"
	"github.com/couchcryptid/draogmims2caom2/internal/caom"
)

// Survey grid of the GMIMS all-sky cubes. The plane bounds are derived from
// these rather than from each file's WCS keywords.
const (
	SurveyColumns    = 720
	SurveyRows       = 360
	SurveyPixelScale = 0.5 // degrees per pixel
)

// UpdateParams is the context handed to Update alongside the observation.
type UpdateParams struct {
	Headers blueprint.Headers
	FQN     string // fully qualified path of the file on disk, if any
}

// Update sets the derived attributes that have no 1:1 header mapping. It
// returns true on success; failures are reported as errors.
func Update(observation any, params UpdateParams) (bool, error) {
	obs, ok := observation.(*caom.Observation)
	if !ok || obs == nil {
		return false, errors.Wrapf(ErrTypeMismatch, "expected *caom.Observation, got %T", observation)
	}
	if err := ApplyBounds(obs); err != nil {
		return false, err
	}
	return true, nil
}

// ApplyBounds overwrites the position of every plane with the survey footprint.
func ApplyBounds(obs *caom.Observation) error {
	for _, plane := range obs.Planes {
		box, err := SurveyBounds()
		if err != nil {
			return errors.Wrapf(err, "bounds for plane %s", plane.ProductID)
		}
		plane.Position = &caom.Position{Bounds: box}
	}
	return nil
}

// SurveyBounds is the fixed GMIMS footprint: 360° x 180° centered on (0, 0).
func SurveyBounds() (*caom.Box, error) {
	return caom.NewBox(
		caom.Point{CVal1: 0.0, CVal2: 0.0},
		SurveyColumns*SurveyPixelScale,
		SurveyRows*SurveyPixelScale,
	)
}
