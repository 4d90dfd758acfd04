package domain

import "time"

// Tier is a priority group of content types fetched together with a
// shared timeout. The four tiers are fixed and never reordered at
// runtime: tier delays are measured from entity selection, not from
// completion of the prior tier, so tiers may overlap in flight.
type Tier struct {
	// Number is the 1-based tier position.
	Number int

	// Label is the human-readable tier name.
	Label string

	// ContentTypes are the types requested by this tier.
	ContentTypes []ContentType

	// Timeout bounds the aggregation call for this tier.
	Timeout time.Duration

	// Delay is the stagger from entity selection before issuing.
	Delay time.Duration

	// OnDemand tiers are not scheduled automatically; they fire when
	// a consumer explicitly requests them.
	OnDemand bool
}

// Tiers is the fixed tier table, in issuance order.
var Tiers = []Tier{
	{
		Number:       1,
		Label:        "media",
		ContentTypes: []ContentType{ContentPhoto, ContentVideo, ContentAudio},
		Timeout:      10 * time.Second,
	},
	{
		Number:       2,
		Label:        "models",
		ContentTypes: []ContentType{ContentModel3D},
		Timeout:      12 * time.Second,
		Delay:        1 * time.Second,
	},
	{
		Number:       3,
		Label:        "maps-artifacts",
		ContentTypes: []ContentType{ContentMap, ContentArtifact, ContentArtwork},
		Timeout:      15 * time.Second,
		Delay:        1500 * time.Millisecond,
	},
	{
		Number:       4,
		Label:        "texts",
		ContentTypes: []ContentType{ContentBook, ContentPaper, ContentMyth, ContentText},
		Timeout:      20 * time.Second,
		OnDemand:     true,
	},
}

// TierByNumber returns the tier with the given number, or nil.
func TierByNumber(n int) *Tier {
	for i := range Tiers {
		if Tiers[i].Number == n {
			return &Tiers[i]
		}
	}
	return nil
}
