// Package domain holds the DRAO GMIMS rules for turning survey FITS files into
// CAOM2 observations.
//
// # Data Source
//
// GMIMS (Global Magneto-Ionic Medium Survey) products from the DRAO
// Synthesis Telescope are archived in the DRAO collection. Each product is a
// single FITS cube, e.g. "Drao_60Rad.mod.fits": a Faraday depth cube on a
// plate carrée all-sky grid.
//
//	NAXIS1 = 720   CTYPE1 = 'GLON-CAR'  CDELT1 = -0.5 deg
//	NAXIS2 = 360   CTYPE2 = 'GLAT-CAR'  CDELT2 =  0.5 deg
//	NAXIS3 = 161   CTYPE3 = 'RM'        CDELT3 =  5.0 rad/m2
//
// # Naming
//
// File names are mixed case and stored uncompressed. The observation ID is
// the file name without its ".fits" suffix, case preserved:
//
//	Drao_60Rad.mod.fits  →  obs ID "Drao_60Rad.mod"
//	                        URI    "ad:DRAO/Drao_60Rad.mod.fits"
//
// The product ID equals the observation ID, and a lineage string is
// "<product ID>/<URI>".
//
// # Mapping
//
// [BuildBlueprints] declares the 1:1 keyword mappings: axes 1 and 2 are the
// spatial axes; no time, energy, polarization or observable axes are
// configured. Products are cubes at calibration level 4, with release dates
// fixed at 2030-01-01 until a per-file release policy exists.
//
// [Update] then sets every plane's spatial bounds to the survey footprint,
// a 360° x 180° box centered on (0, 0). The box comes from the survey grid
// constants and not from the header WCS.
//
// # Identifier Sources
//
// A run names its file in one of three ways, resolved by [Select] in this
// order: an explicit observation ID, a local file path, or a lineage string.
package domain
