package caom

import (
	"encoding/json"
	"fmt"
)

// Point is a spherical coordinate pair in degrees.
type Point struct {
	CVal1 float64 `json:"cval1"`
	CVal2 float64 `json:"cval2"`
}

// Shape is a spatial bound of a plane.
type Shape interface {
	ShapeType() string
}

// Box is an axis-aligned rectangle around a center point.
type Box struct {
	Center Point   `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewBox validates that width and height are non-negative numbers.
func NewBox(center Point, width, height float64) (*Box, error) {
	if !(width >= 0) || !(height >= 0) {
		return nil, fmt.Errorf("box extent must be non-negative, got %gx%g", width, height)
	}
	return &Box{Center: center, Width: width, Height: height}, nil
}

func (b *Box) ShapeType() string { return "box" }

// MarshalJSON tags the box with its shape type so readers can tell shapes apart.
func (b *Box) MarshalJSON() ([]byte, error) {
	type plain Box
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{Type: b.ShapeType(), plain: (*plain)(b)})
}

// Position is the spatial coverage of a plane.
type Position struct {
	Bounds Shape `json:"bounds,omitempty"`
}
