package prim

import (
	"fmt"
	"regexp"
	"time"
)

// ParsedDateTime is a parsed timestamp together with whatever UTC offset
// information was present in the source string.
type ParsedDateTime struct {
	// Naive is the wall-clock time with no offset applied; used when Offset
	// is not known and the caller must assume local time.
	Naive time.Time
	// Offset is set when the source string carried an explicit zone offset.
	Offset   *time.Duration
	HasOffset bool
}

var dateTimeRe = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d{1,3})?)([+-]\d{2}:\d{2})?$`)

// ParseDateTime parses an RFC-3339-ish timestamp of the shape
// "2006-01-02T15:04:05[.fff][+07:00]" as produced by the metadata tool. The
// offset group is optional; when absent the returned value carries no offset
// and callers should treat it as local time (see GetOffsetLocal).
func ParseDateTime(s string) (ParsedDateTime, error) {
	if s == "" {
		return ParsedDateTime{}, fmt.Errorf("empty date/time string")
	}
	match := dateTimeRe.FindStringSubmatch(s)
	if match == nil {
		return ParsedDateTime{}, fmt.Errorf("%q: does not match expected date/time format", s)
	}
	naiveStr, offsetStr := match[1], match[2]

	layout := "2006-01-02T15:04:05"
	if len(naiveStr) > len("2006-01-02T15:04:05") {
		layout = "2006-01-02T15:04:05.999999999"
	}

	if offsetStr != "" {
		full, err := time.Parse(layout+"Z07:00", naiveStr+offsetStr)
		if err != nil {
			return ParsedDateTime{}, fmt.Errorf("%q: %w", s, err)
		}
		_, offset := full.Zone()
		d := time.Duration(offset) * time.Second
		return ParsedDateTime{Naive: full, Offset: &d, HasOffset: true}, nil
	}

	naive, err := time.Parse(layout, naiveStr)
	if err != nil {
		return ParsedDateTime{}, fmt.Errorf("%q: %w", s, err)
	}
	return ParsedDateTime{Naive: naive}, nil
}

// GetOffsetLocal returns the local time zone's offset applicable at t, for
// use when a source timestamp carried no explicit offset.
func GetOffsetLocal(t time.Time) time.Duration {
	_, offset := t.In(time.Local).Zone()
	return time.Duration(offset) * time.Second
}

// Time returns the absolute instant this value represents, applying Offset
// if present, else the local offset at the naive wall-clock time.
func (p ParsedDateTime) Time() time.Time {
	offset := p.Offset
	if offset == nil {
		local := GetOffsetLocal(p.Naive)
		offset = &local
	}
	loc := time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", int(offset.Hours()), int(offset.Minutes())%60), int(offset.Seconds()))
	return time.Date(
		p.Naive.Year(), p.Naive.Month(), p.Naive.Day(),
		p.Naive.Hour(), p.Naive.Minute(), p.Naive.Second(), p.Naive.Nanosecond(),
		loc,
	)
}

// OffsetForZone returns the UTC offset in effect for naive (a wall-clock time
// with no zone attached) within the named IANA zone, honoring DST
// transitions. Mirrors conv.rs's get_offset_for_time_zone, which parses
// zoneName as a chrono_tz::Tz and calls offset_from_local_datetime; Go's
// equivalent is time.LoadLocation plus constructing the wall-clock instant in
// that location and reading back its zone offset.
func OffsetForZone(naive time.Time, zoneName string) (time.Duration, error) {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return 0, fmt.Errorf("loading time zone %q: %w", zoneName, err)
	}
	local := time.Date(
		naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(),
		loc,
	)
	_, offset := local.Zone()
	return time.Duration(offset) * time.Second, nil
}
