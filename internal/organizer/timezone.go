package organizer

import "github.com/ringsaturn/tzf"

// ZoneFinder resolves the IANA time zone name in effect at a GPS coordinate,
// backing stage 3's set-time-zone-from-gps sub-pass. Grounded on
// stage_3_metadata.rs's tzf_rs::Finder, which performs the same polygon
// lookup against an embedded combined-with-oceans.bin dataset; tzf is the Go
// port of the same project (same author, same embedded-polygon binary
// format), used here via its default finder.
type ZoneFinder interface {
	// GetTimezoneName returns the IANA zone name (e.g. "America/Los_Angeles")
	// containing (lng, lat), or "" if no zone covers the point (open ocean
	// outside the dataset's oceanic zones).
	GetTimezoneName(lng, lat float64) string
}

// newDefaultZoneFinder loads tzf's embedded polygon dataset. This is done
// lazily, only when set-time-zone-from-gps is enabled, since the dataset is
// sizable and most invocations never need it.
func newDefaultZoneFinder() (ZoneFinder, error) {
	return tzf.NewDefaultFinder()
}
