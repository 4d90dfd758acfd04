package domain

import "fmt"

// EntityKind distinguishes the two kinds of explorable entities.
type EntityKind string

const (
	// KindSite is an individual archaeological site.
	KindSite EntityKind = "site"

	// KindEmpire is a historical polity with boundaries over time.
	KindEmpire EntityKind = "empire"
)

// EntityIdentity identifies a site or historical polity being explored.
// It is the unit of content aggregation: every fetch, cache key and
// re-fetch guard derives from it.
type EntityIdentity struct {
	// Name is the display name of the site or polity.
	Name string

	// Location is an optional disambiguating place name (e.g. country).
	Location string

	// Lat is the latitude in decimal degrees.
	Lat float64

	// Lon is the longitude in decimal degrees.
	Lon float64

	// Kind is site or empire.
	Kind EntityKind

	// EmpireID is the polity identifier. Only set when Kind is empire.
	EmpireID string
}

// Key derives the identity key used for cache and re-fetch guard lookups.
// Two site identities are the same iff name, lat and lon match exactly;
// no fuzzy matching. Empires are identified by their polity ID alone.
func (e EntityIdentity) Key() string {
	if e.Kind == KindEmpire {
		return "empire:" + e.EmpireID
	}
	return fmt.Sprintf("site:%s|%v|%v", e.Name, e.Lat, e.Lon)
}

// IsEmpire reports whether this identity refers to a historical polity.
func (e EntityIdentity) IsEmpire() bool {
	return e.Kind == KindEmpire
}
