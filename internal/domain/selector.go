package domain

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Args carries the identifier sources a run may be given. Only the first
// populated one, in field order, is used.
type Args struct {
	Observation []string // collection, observation ID
	Local       []string // paths of files on disk
	Lineage     []string // "<product ID>/<URI>" strings
}

func (a Args) String() string {
	return fmt.Sprintf("observation=%v local=%v lineage=%v", a.Observation, a.Local, a.Lineage)
}

// Selection is the identifier source chosen from Args: one of
// ExplicitSelection, LocalSelection or LineageSelection.
type Selection interface {
	selection()
}

// ExplicitSelection names an observation directly.
type ExplicitSelection struct {
	Collection string
	ObsID      string
}

// LocalSelection names a file on disk.
type LocalSelection struct {
	Path string
}

// LineageSelection carries a "<product ID>/<URI>" string.
type LineageSelection struct {
	Lineage string
}

func (ExplicitSelection) selection() {}
func (LocalSelection) selection()    {}
func (LineageSelection) selection()  {}

// Target is what a selection resolves to.
type Target struct {
	ObservationID string
	ProductID     string
	URI           string
	FnameOnDisk   string // set for local files only
}

// Select picks the identifier source: observation, then local, then lineage.
func Select(args Args) (Selection, error) {
	switch {
	case len(args.Observation) > 0:
		if len(args.Observation) < 2 || args.Observation[1] == "" {
			return nil, errors.Wrapf(ErrConfiguration, "observation needs a collection and an ID, got %v", args.Observation)
		}
		return ExplicitSelection{Collection: args.Observation[0], ObsID: args.Observation[1]}, nil
	case len(args.Local) > 0:
		return LocalSelection{Path: args.Local[0]}, nil
	case len(args.Lineage) > 0:
		return LineageSelection{Lineage: args.Lineage[0]}, nil
	default:
		return nil, errors.Wrapf(ErrConfiguration, "could not define uri from these args %s", args)
	}
}

// Resolve turns a selection into the identifiers of the file to process.
func Resolve(sel Selection) (Target, error) {
	switch s := sel.(type) {
	case ExplicitSelection:
		name, err := NewStorageName(s.ObsID, "", "")
		if err != nil {
			return Target{}, err
		}
		return targetFor(name, ""), nil
	case LocalSelection:
		base := filepath.Base(s.Path)
		name, err := NewStorageName(RemoveExtensions(base), base, "")
		if err != nil {
			return Target{}, err
		}
		return targetFor(name, s.Path), nil
	case LineageSelection:
		productID, uri, ok := strings.Cut(s.Lineage, "/")
		if !ok || uri == "" {
			return Target{}, errors.Wrapf(ErrConfiguration, "lineage %q is not <product ID>/<URI>", s.Lineage)
		}
		if productID == "" {
			// The URI is still taken verbatim; the IDs come from its file name.
			id, err := ResolveObsID("", path.Base(uri))
			if err != nil {
				return Target{}, err
			}
			productID = id
		}
		return Target{ObservationID: productID, ProductID: productID, URI: uri}, nil
	default:
		return Target{}, errors.Wrapf(ErrConfiguration, "unsupported selection %T", sel)
	}
}

// SelectURI returns the storage URI for the highest-precedence source in args.
func SelectURI(args Args) (string, error) {
	sel, err := Select(args)
	if err != nil {
		return "", err
	}
	target, err := Resolve(sel)
	if err != nil {
		return "", err
	}
	return target.URI, nil
}

func targetFor(name *StorageName, path string) Target {
	return Target{
		ObservationID: name.ObsID(),
		ProductID:     name.ProductID(),
		URI:           name.FileURI(),
		FnameOnDisk:   path,
	}
}
