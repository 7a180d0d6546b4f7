// Package caom models the subset of the Common Archive Observation Model (CAOM2)
// populated by the GMIMS mapping: observations, planes, artifacts, chunks and
// the spatial bounds of a plane.
package caom

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DataProductType values accepted by Plane.dataProductType.
var dataProductTypes = map[string]bool{
	"image":        true,
	"cube":         true,
	"spectrum":     true,
	"timeseries":   true,
	"visibility":   true,
	"eventlist":    true,
	"measurements": true,
	"catalog":      true,
}

// Calibration levels range from raw instrument data (0) to analysis products (4).
const (
	CalibrationLevelRaw      = 0
	CalibrationLevelAnalysis = 4
)

// Observation is the root entity. It is the sole owner of its planes.
type Observation struct {
	ID            uuid.UUID         `json:"id"`
	Collection    string            `json:"collection"`
	ObservationID string            `json:"observation_id"`
	Intent        string            `json:"intent,omitempty"`
	Algorithm     string            `json:"algorithm,omitempty"`
	Telescope     string            `json:"telescope,omitempty"`
	Instrument    string            `json:"instrument,omitempty"`
	Planes        map[string]*Plane `json:"planes"`
}

// NewObservation returns an empty observation in collection with the given ID.
func NewObservation(collection, observationID string) *Observation {
	return &Observation{
		ID:            uuid.New(),
		Collection:    collection,
		ObservationID: observationID,
		Planes:        make(map[string]*Plane),
	}
}

// AddPlane attaches p, replacing any plane with the same product ID.
func (o *Observation) AddPlane(p *Plane) {
	o.Planes[p.ProductID] = p
}

// Plane is one data product of an observation.
type Plane struct {
	ID               uuid.UUID            `json:"id"`
	ProductID        string               `json:"product_id"`
	DataProductType  string               `json:"data_product_type,omitempty"`
	CalibrationLevel *int                 `json:"calibration_level,omitempty"`
	MetaRelease      *time.Time           `json:"meta_release,omitempty"`
	DataRelease      *time.Time           `json:"data_release,omitempty"`
	Keywords         map[string]struct{}  `json:"-"`
	Artifacts        map[string]*Artifact `json:"artifacts"`
	Position         *Position            `json:"position,omitempty"`
}

// NewPlane returns an empty plane identified by productID.
func NewPlane(productID string) *Plane {
	return &Plane{
		ID:        uuid.New(),
		ProductID: productID,
		Keywords:  make(map[string]struct{}),
		Artifacts: make(map[string]*Artifact),
	}
}

// AddArtifact attaches a, replacing any artifact with the same URI.
func (p *Plane) AddArtifact(a *Artifact) {
	p.Artifacts[a.URI] = a
}

// SetDataProductType validates v against the known product types.
func (p *Plane) SetDataProductType(v string) error {
	if !dataProductTypes[v] {
		return fmt.Errorf("unknown data product type %q", v)
	}
	p.DataProductType = v
	return nil
}

// SetCalibrationLevel validates and stores a calibration level.
func (p *Plane) SetCalibrationLevel(level int) error {
	if level < CalibrationLevelRaw || level > CalibrationLevelAnalysis {
		return fmt.Errorf("calibration level %d out of range", level)
	}
	p.CalibrationLevel = &level
	return nil
}

// SetKeywords replaces the plane keyword set in place. The map identity is
// kept because callers may hold a reference to it.
func (p *Plane) SetKeywords(keywords []string) {
	if p.Keywords == nil {
		p.Keywords = make(map[string]struct{}, len(keywords))
	}
	for k := range p.Keywords {
		delete(p.Keywords, k)
	}
	for _, k := range keywords {
		if k != "" {
			p.Keywords[k] = struct{}{}
		}
	}
}

// Artifact is a single stored file belonging to a plane.
type Artifact struct {
	ID          uuid.UUID `json:"id"`
	URI         string    `json:"uri"`
	ProductType string    `json:"product_type,omitempty"`
	ReleaseType string    `json:"release_type,omitempty"`
	Chunks      []*Chunk  `json:"chunks,omitempty"`
}

// NewArtifact returns an artifact for uri with no chunks.
func NewArtifact(uri string) *Artifact {
	return &Artifact{ID: uuid.New(), URI: uri}
}

// Chunk carries the WCS description of one data array.
type Chunk struct {
	ID            uuid.UUID   `json:"id"`
	PositionAxis1 *int        `json:"position_axis_1,omitempty"`
	PositionAxis2 *int        `json:"position_axis_2,omitempty"`
	Position      *SpatialWCS `json:"position,omitempty"`
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{ID: uuid.New()}
}

// SpatialWCS is the linear spatial WCS of a chunk.
type SpatialWCS struct {
	Axis1    Axis     `json:"axis1"`
	Axis2    Axis     `json:"axis2"`
	CoordSys string   `json:"coordsys,omitempty"`
	Equinox  *float64 `json:"equinox,omitempty"`
}

// Axis describes one WCS axis: its type, unit and linear pixel mapping.
type Axis struct {
	CType string  `json:"ctype,omitempty"`
	CUnit string  `json:"cunit,omitempty"`
	NAxis int     `json:"naxis,omitempty"`
	CRPix float64 `json:"crpix,omitempty"`
	CRVal float64 `json:"crval,omitempty"`
	CDelt float64 `json:"cdelt,omitempty"`
}
