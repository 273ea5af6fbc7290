package feed

// Profile describes the per-feed importer behavior the reconciliation
// engine needs: how to fabricate references, which status policy applies,
// and whether reservation rows embed payment sub-records.
type Profile struct {
	// Source is the source_system value stamped on records from this feed.
	Source string

	// ReferencePrefix is prepended to the row's source id when the row has
	// no reference field of its own.
	ReferencePrefix string

	StatusPolicy StatusPolicy

	NestedPayments bool
}

// WithOverrides overlays non-empty configuration values onto the profile
// defaults.
func (p Profile) WithOverrides(referencePrefix, statusPolicy string, nestedPayments bool) Profile {
	if referencePrefix != "" {
		p.ReferencePrefix = referencePrefix
	}
	switch StatusPolicy(statusPolicy) {
	case StatusPassThrough, StatusDefaultPending:
		p.StatusPolicy = StatusPolicy(statusPolicy)
	}
	if nestedPayments {
		p.NestedPayments = true
	}
	return p
}

// The two feeds this backend aggregates. VEVS sends flat snake_case rows
// and its importer coerces unknown statuses to pending; Dream Drives sends
// PascalCase rows with embedded payment records and keeps unknown statuses
// verbatim.
var (
	VEVS = Profile{
		Source:          "vevs",
		ReferencePrefix: "VEVS-",
		StatusPolicy:    StatusDefaultPending,
	}

	DreamDrives = Profile{
		Source:          "dreamdrives",
		ReferencePrefix: "DD-",
		StatusPolicy:    StatusPassThrough,
		NestedPayments:  true,
	}
)
