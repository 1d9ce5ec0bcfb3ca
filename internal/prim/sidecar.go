package prim

import (
	"fmt"
	"strings"
)

// Sidecar is the capability shared by SidecarInitial and SidecarDupe: both
// wrap an XMP Metadata record and an optional back-link to the Media they
// describe.
type Sidecar interface {
	GetMediaHandle() (Handle[Media], bool)
	SetMediaHandle(Handle[Media])
	ClearMediaHandle()
	GetMetadata() Metadata
	UpdateMetadata(Metadata)
	IsLeftover() bool
	// MediaPath returns the path of the media file this sidecar describes,
	// computed from its own file name by stripping ".xmp" and any
	// "_<nn>" duplicate-number segment.
	MediaPath() string
}

// SidecarInitial is the first (non-duplicate) XMP sidecar for a media file.
// Its file name must be "<stem>.<ext>.xmp"; a name with no real media
// extension embedded (e.g. a literal "foo.xmp") is invalid.
type SidecarInitial struct {
	metadata Metadata
	media    *Handle[Media]
}

// NewSidecarInitial validates metadata against the SidecarInitial invariants:
// file category must be SidecarInitial, and the base extension recovered
// from the file name must not itself be "xmp".
func NewSidecarInitial(metadata Metadata) (*SidecarInitial, error) {
	category, err := metadata.GetFileCategory()
	if err != nil {
		return nil, err
	}
	if category != CategorySidecarInitial {
		return nil, fmt.Errorf("%s: not an initial sidecar", metadata.SourceFile)
	}
	parsed := ParseFileName(metadata.SourceFile)
	if strings.EqualFold(parsed.BaseExt, "xmp") {
		return nil, fmt.Errorf("%s: sidecar name has no underlying media extension", metadata.SourceFile)
	}
	return &SidecarInitial{metadata: metadata}, nil
}

func (s *SidecarInitial) GetMediaHandle() (Handle[Media], bool) {
	if s.media == nil {
		return Handle[Media]{}, false
	}
	return *s.media, true
}

func (s *SidecarInitial) SetMediaHandle(h Handle[Media]) {
	if s.media != nil {
		panic(fmt.Sprintf("%s: media already linked", s.metadata.SourceFile))
	}
	s.media = &h
}

func (s *SidecarInitial) ClearMediaHandle() {
	s.media = nil
}

func (s *SidecarInitial) GetMetadata() Metadata {
	return s.metadata
}

func (s *SidecarInitial) UpdateMetadata(metadata Metadata) {
	s.metadata = metadata
}

func (s *SidecarInitial) IsLeftover() bool {
	return s.media == nil
}

func (s *SidecarInitial) MediaPath() string {
	return mediaPathFor(s.metadata.SourceFile)
}

func (s *SidecarInitial) String() string {
	return s.metadata.SourceFile
}

// SidecarDupe is an additional XMP sidecar created by an image editor to
// represent a further edit of the same media, named "<stem>_<nn>.<ext>.xmp".
type SidecarDupe struct {
	metadata   Metadata
	media      *Handle[Media]
	dupeNumber string
}

// NewSidecarDupe validates metadata against the SidecarDupe invariants: file
// category must be SidecarDupe, and the base extension must not be "xmp".
func NewSidecarDupe(metadata Metadata) (*SidecarDupe, error) {
	category, err := metadata.GetFileCategory()
	if err != nil {
		return nil, err
	}
	if category != CategorySidecarDupe {
		return nil, fmt.Errorf("%s: not a duplicate sidecar", metadata.SourceFile)
	}
	parsed := ParseFileName(metadata.SourceFile)
	if strings.EqualFold(parsed.BaseExt, "xmp") {
		return nil, fmt.Errorf("%s: sidecar name has no underlying media extension", metadata.SourceFile)
	}
	return &SidecarDupe{metadata: metadata, dupeNumber: parsed.DupeNumber}, nil
}

// DupeNumber returns the two-digit duplicate number parsed from this
// sidecar's file name.
func (s *SidecarDupe) DupeNumber() string {
	return s.dupeNumber
}

func (s *SidecarDupe) GetMediaHandle() (Handle[Media], bool) {
	if s.media == nil {
		return Handle[Media]{}, false
	}
	return *s.media, true
}

func (s *SidecarDupe) SetMediaHandle(h Handle[Media]) {
	if s.media != nil {
		panic(fmt.Sprintf("%s: media already linked", s.metadata.SourceFile))
	}
	s.media = &h
}

func (s *SidecarDupe) ClearMediaHandle() {
	s.media = nil
}

func (s *SidecarDupe) GetMetadata() Metadata {
	return s.metadata
}

func (s *SidecarDupe) UpdateMetadata(metadata Metadata) {
	s.metadata = metadata
}

func (s *SidecarDupe) IsLeftover() bool {
	return s.media == nil
}

func (s *SidecarDupe) MediaPath() string {
	return mediaPathFor(s.metadata.SourceFile)
}

func (s *SidecarDupe) String() string {
	return s.metadata.SourceFile
}

// mediaPathFor computes the media path a sidecar file name describes, by
// parsing out its stem, optional dupe number, and base extension and
// rejoining stem+extension (dropping ".xmp" and any "_<nn>" segment).
func mediaPathFor(sidecarPath string) string {
	parsed := ParseFileName(sidecarPath)
	return parsed.ParentAndStem + "." + parsed.BaseExt
}

var _ Sidecar = (*SidecarInitial)(nil)
var _ Sidecar = (*SidecarDupe)(nil)
