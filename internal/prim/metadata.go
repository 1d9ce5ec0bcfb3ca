package prim

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Metadata is the immutable-per-load record of one file's tags, as read from
// the metadata-tool collaborator. Every field but SourceFile, FileType, and
// FileTypeExtension is optional; the tool is invoked with a date-format
// directive so any time-valued tag it returns follows the RFC 3339 shape
// (with optional fractional seconds and optional offset).
type Metadata struct {
	SourceFile        string
	FileType          string
	FileTypeExtension string
	CompressorID      string
	ContentIdentifier string

	Creator   string
	Copyright string
	Make      string
	Model     string

	FileModifyDate string

	ModifyDate          string
	SubSecModifyDate    string
	CreateDate          string
	SubSecCreateDate    string
	DateTimeOriginal    string
	SubSecDateTimeOriginal string

	GPSLatitude  string
	GPSLongitude string
	GPSPosition  string

	City    string
	State   string
	Country string
}

func (m Metadata) String() string {
	return m.SourceFile
}

// FileCategory tags how a Metadata record participates in the entity model.
type FileCategory int

const (
	CategoryMedia FileCategory = iota
	CategorySidecarInitial
	CategorySidecarDupe
)

// ParsedFileName is the result of decomposing a sidecar or media file name
// into its directory+stem, optional two-digit duplicate number, and base
// extension (the extension of the underlying media file, not ".xmp").
type ParsedFileName struct {
	ParentAndStem string // directory + stem, no extension
	DupeNumber    string // "" if absent
	BaseExt       string
}

var fileNameRe = regexp.MustCompile(`^(.*?)(?:_(\d{2}))?\.([^.]+)(?:\.[Xx][Mm][Pp])?$`)

// ParseFileName decomposes path's base name per the sidecar/dupe naming
// convention: "<stem>.<ext>.xmp" for an initial sidecar, "<stem>_<nn>.<ext>.xmp"
// for a duplicate sidecar, or plain "<stem>.<ext>" for media.
func ParseFileName(path string) ParsedFileName {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	match := fileNameRe.FindStringSubmatch(base)
	if match == nil {
		return ParsedFileName{ParentAndStem: filepath.Join(dir, base), BaseExt: ""}
	}
	stem, dupe, ext := match[1], match[2], match[3]
	return ParsedFileName{
		ParentAndStem: filepath.Join(dir, stem),
		DupeNumber:    dupe,
		BaseExt:       ext,
	}
}

// GetFileCategory classifies this record by FileType plus filename shape, per
// catalog §4.1 step 2. It errors only on the degenerate case of an unknown
// file type ("-" or empty); the full set of per-category construction
// invariants (extension shape, Live-Photo codec rules, ...) is enforced by
// Media/SidecarInitial/SidecarDupe constructors, not here.
func (m Metadata) GetFileCategory() (FileCategory, error) {
	if strings.EqualFold(m.FileType, "XMP") {
		parsed := ParseFileName(m.SourceFile)
		if parsed.DupeNumber != "" {
			return CategorySidecarDupe, nil
		}
		return CategorySidecarInitial, nil
	}
	if m.FileType == "" || m.FileType == "-" {
		return 0, fmt.Errorf("%s: unknown file type", m.SourceFile)
	}
	return CategoryMedia, nil
}

// GetDateTimeOriginal parses and returns the best available "taken at"
// timestamp, preferring the sub-second composite tag over the plain one.
func (m Metadata) GetDateTimeOriginal() (ParsedDateTime, error) {
	if m.SubSecDateTimeOriginal != "" {
		return ParseDateTime(m.SubSecDateTimeOriginal)
	}
	return ParseDateTime(m.DateTimeOriginal)
}

var gpsPositionRe = regexp.MustCompile(
	`^(\d+) deg (\d+)' (\d+(?:\.\d+)?)" ([NnSs]), (\d+) deg (\d+)' (\d+(?:\.\d+)?)" ([WwEe])$`)

// GetLatLon parses GPSPosition (format "D deg M' S.ss\" H, D deg M' S.ss\" H")
// into decimal-degree latitude/longitude, or (0, 0, false) if unparseable or
// absent.
func (m Metadata) GetLatLon() (lat, lon float64, ok bool) {
	match := gpsPositionRe.FindStringSubmatch(m.GPSPosition)
	if match == nil {
		return 0, 0, false
	}
	lat = dmsToDecimal(match[1], match[2], match[3])
	if strings.EqualFold(match[4], "S") {
		lat = -lat
	}
	lon = dmsToDecimal(match[5], match[6], match[7])
	if strings.EqualFold(match[8], "W") {
		lon = -lon
	}
	return lat, lon, true
}

func dmsToDecimal(deg, min, sec string) float64 {
	d, _ := strconv.ParseFloat(deg, 64)
	m2, _ := strconv.ParseFloat(min, 64)
	s, _ := strconv.ParseFloat(sec, 64)
	return d + m2/60 + s/3600
}
