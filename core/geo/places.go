// Package geo holds the static place reference table used by demo routes
// and the crude distance approximation the simulation relies on.
package geo

import "math"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// metersPerDegree is the equirectangular scaling used throughout the
// simulation. Deliberately crude; the sim is cosmetic motion, not geodesy.
const metersPerDegree = 111000

var places = map[string]LatLng{
	// Muscat area
	"Seeb Industrial Area":      {Lat: 23.6690, Lng: 58.1890},
	"Muttrah Port":              {Lat: 23.6160, Lng: 58.5660},
	"Ruwi Depot":                {Lat: 23.5950, Lng: 58.5570},
	"Qurum Fuel Station":        {Lat: 23.5940, Lng: 58.4200},
	"Seeb Logistics Park":       {Lat: 23.6760, Lng: 58.1940},
	"Muscat Intl Airport Cargo": {Lat: 23.5933, Lng: 58.2844},

	// Outside Muscat
	"Barka Hub":            {Lat: 23.7080, Lng: 57.8890},
	"Sohar Refinery":       {Lat: 24.4840, Lng: 56.6110},
	"Quriyat Terminal":     {Lat: 23.2620, Lng: 58.9440},
	"Sur Distribution Hub": {Lat: 22.5700, Lng: 59.5280},
}

// PlaceLatLng resolves a named place. The second return is false for
// unknown names.
func PlaceLatLng(name string) (LatLng, bool) {
	p, ok := places[name]
	return p, ok
}

// DriftMeters converts a per-tick lat/lng drift (degrees) into metres using
// the equirectangular scale.
func DriftMeters(latDeg, lngDeg float64) float64 {
	return math.Sqrt(math.Pow(latDeg*metersPerDegree, 2) + math.Pow(lngDeg*metersPerDegree, 2))
}
