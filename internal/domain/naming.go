package domain

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// Application is the name this tool reports in logs and metrics.
	Application = "draogmims2caom2"

	// Collection is the archive namespace for every GMIMS observation.
	Collection = "DRAO"

	scheme        = "ad"
	fitsExtension = ".fits"
)

// archiveExtensions are stripped from local file names, in any combination.
var archiveExtensions = []string{".fits", ".fz", ".gz", ".bz2", ".header"}

// StorageName applies the GMIMS naming rules to one file.
type StorageName struct {
	obsID       string
	fnameOnDisk string
	fileName    string
}

// ResolveObsID returns obsID unchanged when set, otherwise fileName without its
// ".fits" suffix.
func ResolveObsID(obsID, fileName string) (string, error) {
	if obsID != "" {
		return obsID, nil
	}
	if fileName == "" {
		return "", errors.Wrap(ErrConfiguration, "expecting to run GMIMS by file names")
	}
	id := strings.TrimSuffix(fileName, fitsExtension)
	if id == "" {
		return "", errors.Wrapf(ErrConfiguration, "file name %q yields an empty observation ID", fileName)
	}
	return id, nil
}

// NewStorageName accepts any combination of observation ID, on-disk file name
// and in-archive file name, as long as an observation ID can be derived.
func NewStorageName(obsID, fnameOnDisk, fileName string) (*StorageName, error) {
	id, err := ResolveObsID(obsID, fileName)
	if err != nil {
		return nil, err
	}
	return &StorageName{obsID: id, fnameOnDisk: fnameOnDisk, fileName: fileName}, nil
}

func (n *StorageName) ObsID() string       { return n.obsID }
func (n *StorageName) ProductID() string   { return n.obsID }
func (n *StorageName) Collection() string  { return Collection }
func (n *StorageName) FnameOnDisk() string { return n.fnameOnDisk }

// FileName is the in-archive file name: the one supplied, or the observation
// ID plus ".fits".
func (n *StorageName) FileName() string {
	if n.fileName != "" {
		return n.fileName
	}
	return n.obsID + fitsExtension
}

// FileURI addresses the file in archive storage.
func (n *StorageName) FileURI() string {
	return scheme + ":" + Collection + "/" + n.FileName()
}

// Lineage is "<product ID>/<URI>", the form accepted by --lineage.
func (n *StorageName) Lineage() string {
	return n.ProductID() + "/" + n.FileURI()
}

// IsValid always reports true: GMIMS identifiers get no structural checks.
func (n *StorageName) IsValid() bool {
	return true
}

// RemoveExtensions strips trailing archive extensions from a file name, so
// "a.mod.fits.gz" becomes "a.mod".
func RemoveExtensions(name string) string {
	for {
		trimmed := name
		for _, ext := range archiveExtensions {
			trimmed = strings.TrimSuffix(trimmed, ext)
		}
		if trimmed == name {
			return name
		}
		name = trimmed
	}
}
