package domain

import (
	"github.com/pkg/errors"

	"github.com/couchcryptid/draogmims2caom2/internal/blueprint"
)

const (
	placeholderObsID = "test_obs_id"
	dataProductType  = "cube"
	calibrationLevel = "4"

	// embargoDate stands in for a per-file release policy.
	embargoDate = "2030-01-01"
)

// functions is the registry GMIMS blueprints may call into. The mapping is
// entirely literal and keyword based today.
var functions = blueprint.Registry{}

// AccumulateBlueprint configures bp for the GMIMS artifact at uri.
func AccumulateBlueprint(bp *blueprint.Blueprint, uri string) error {
	if err := bp.ConfigurePositionAxes(1, 2); err != nil {
		return errors.Wrapf(err, "configure position axes for %s", uri)
	}

	literals := []struct{ attr, value string }{
		{"Observation.observationID", placeholderObsID},
		{"Plane.dataProductType", dataProductType},
		{"Plane.calibrationLevel", calibrationLevel},
		{"Plane.metaRelease", embargoDate},
		{"Plane.dataRelease", embargoDate},
	}
	for _, l := range literals {
		if err := bp.Set(l.attr, blueprint.Literal(l.value)); err != nil {
			return errors.Wrapf(err, "blueprint for %s", uri)
		}
	}
	return nil
}

// BuildBlueprints returns a new blueprint for uri, keyed by uri.
func BuildBlueprints(uri string) (map[string]*blueprint.Blueprint, error) {
	return buildBlueprints(uri, functions)
}

func buildBlueprints(uri string, registry blueprint.Registry) (map[string]*blueprint.Blueprint, error) {
	if registry == nil {
		return nil, errors.Wrap(ErrConfiguration, "no blueprint function registry")
	}
	bp := blueprint.New(registry)
	if err := AccumulateBlueprint(bp, uri); err != nil {
		return nil, err
	}
	return map[string]*blueprint.Blueprint{uri: bp}, nil
}
