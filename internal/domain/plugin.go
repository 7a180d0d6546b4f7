package domain

import "github.com/couchcryptid/draogmims2caom2/internal/blueprint"

// Plugin is what the ingestion pipeline needs from an instrument mapping.
type Plugin interface {
	BuildBlueprints(uri string) (map[string]*blueprint.Blueprint, error)
	Update(observation any, params UpdateParams) (bool, error)
}

// GMIMS implements Plugin with the DRAO GMIMS rules.
type GMIMS struct{}

func (GMIMS) BuildBlueprints(uri string) (map[string]*blueprint.Blueprint, error) {
	return BuildBlueprints(uri)
}

func (GMIMS) Update(observation any, params UpdateParams) (bool, error) {
	return Update(observation, params)
}
