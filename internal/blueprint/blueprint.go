// Package blueprint maps FITS header keywords onto CAOM2 model attributes.
//
// A Blueprint is an ordered table from attribute path (for example
// "Plane.dataProductType") to a Rule. A rule is a literal value, a header
// keyword lookup with an optional default, or a call into an explicit function
// Registry. Apply evaluates every rule against a file's headers and sets the
// attribute through a fixed setter table, so no reflection is involved.
package blueprint

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnknownAttribute = errors.New("unknown blueprint attribute")
	ErrUnknownFunction  = errors.New("unknown blueprint function")
)

// RuleKind tells how a rule produces its value.
type RuleKind int

const (
	KindLiteral RuleKind = iota
	KindKeyword
	KindFunction
)

func (k RuleKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindKeyword:
		return "keyword"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Rule is the value source for one attribute.
type Rule struct {
	Kind       RuleKind
	Value      string   // literal value, or function name for KindFunction
	Keys       []string // header keywords tried in order
	Default    string
	HasDefault bool
}

// Literal binds an attribute to a constant.
func Literal(v string) Rule {
	return Rule{Kind: KindLiteral, Value: v}
}

// Keyword binds an attribute to the first of keys present in the headers.
func Keyword(keys ...string) Rule {
	return Rule{Kind: KindKeyword, Keys: keys}
}

// WithDefault returns a copy of r that falls back to v when no keyword is found.
func (r Rule) WithDefault(v string) Rule {
	r.Keys = append([]string(nil), r.Keys...)
	r.Default = v
	r.HasDefault = true
	return r
}

// Call binds an attribute to a function registered under name.
func Call(name string) Rule {
	return Rule{Kind: KindFunction, Value: name}
}

// Function computes an attribute value from a file's headers.
type Function func(headers Headers) (string, error)

// Registry is the explicit table of functions a blueprint may call.
type Registry map[string]Function

// Blueprint is an ordered attribute-to-rule table for a single artifact.
type Blueprint struct {
	registry Registry
	order    []string
	rules    map[string]Rule
}

// New returns a blueprint holding the default mappings, bound to registry.
func New(registry Registry) *Blueprint {
	b := &Blueprint{
		registry: registry,
		rules:    make(map[string]Rule),
	}
	for _, d := range defaults {
		b.put(d.attr, d.rule)
	}
	return b
}

var defaults = []struct {
	attr string
	rule Rule
}{
	{"Observation.algorithm.name", Literal("exposure")},
	{"Observation.intent", Keyword("OBSINTNT").WithDefault("science")},
	{"Observation.telescope.name", Keyword("TELESCOP")},
	{"Observation.instrument.name", Keyword("INSTRUME")},
	{"Plane.provenance.keywords", Keyword("KEYWORDS")},
	{"Artifact.productType", Literal("science")},
	{"Artifact.releaseType", Literal("data")},
}

// Set binds attr to rule. Unknown attributes and unregistered functions are
// rejected.
func (b *Blueprint) Set(attr string, rule Rule) error {
	if _, ok := setters[attr]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, attr)
	}
	if rule.Kind == KindFunction {
		if _, ok := b.registry[rule.Value]; !ok {
			return fmt.Errorf("%w: %s for %s", ErrUnknownFunction, rule.Value, attr)
		}
	}
	b.put(attr, rule)
	return nil
}

// Get returns the rule bound to attr.
func (b *Blueprint) Get(attr string) (Rule, bool) {
	r, ok := b.rules[attr]
	return r, ok
}

// Delete removes any binding for attr.
func (b *Blueprint) Delete(attr string) {
	if _, ok := b.rules[attr]; !ok {
		return
	}
	delete(b.rules, attr)
	for i, a := range b.order {
		if a == attr {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Attributes lists the bound attributes in insertion order.
func (b *Blueprint) Attributes() []string {
	return append([]string(nil), b.order...)
}

func (b *Blueprint) put(attr string, rule Rule) {
	if _, ok := b.rules[attr]; !ok {
		b.order = append(b.order, attr)
	}
	b.rules[attr] = rule
}

// ConfigurePositionAxes declares the two array axes (1-based) holding
// longitude and latitude, and binds the spatial WCS keywords for them.
func (b *Blueprint) ConfigurePositionAxes(axis1, axis2 int) error {
	if axis1 < 1 || axis2 < 1 || axis1 == axis2 {
		return fmt.Errorf("invalid position axes (%d, %d)", axis1, axis2)
	}
	a1, a2 := strconv.Itoa(axis1), strconv.Itoa(axis2)

	b.put("Chunk.positionAxis1", Literal(a1))
	b.put("Chunk.positionAxis2", Literal(a2))
	b.put("Chunk.position.coordsys", Keyword("RADESYS", "RADECSYS"))
	b.put("Chunk.position.equinox", Keyword("EQUINOX", "EPOCH"))
	b.put("Chunk.position.axis.axis1.ctype", Keyword("CTYPE"+a1))
	b.put("Chunk.position.axis.axis1.cunit", Keyword("CUNIT"+a1))
	b.put("Chunk.position.axis.axis2.ctype", Keyword("CTYPE"+a2))
	b.put("Chunk.position.axis.axis2.cunit", Keyword("CUNIT"+a2))
	b.put("Chunk.position.axis.function.dimension.naxis1", Keyword("NAXIS"+a1))
	b.put("Chunk.position.axis.function.dimension.naxis2", Keyword("NAXIS"+a2))
	b.put("Chunk.position.axis.function.refCoord.coord1.pix", Keyword("CRPIX"+a1))
	b.put("Chunk.position.axis.function.refCoord.coord1.val", Keyword("CRVAL"+a1))
	b.put("Chunk.position.axis.function.refCoord.coord2.pix", Keyword("CRPIX"+a2))
	b.put("Chunk.position.axis.function.refCoord.coord2.val", Keyword("CRVAL"+a2))
	b.put("Chunk.position.axis.function.cd11", Keyword("CDELT"+a1, "CD"+a1+"_"+a1))
	b.put("Chunk.position.axis.function.cd22", Keyword("CDELT"+a2, "CD"+a2+"_"+a2))
	return nil
}
