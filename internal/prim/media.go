package prim

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Codec identifies the compression format of a Live-Photo-eligible media
// file, ranked for deduplication preference (see Rank).
type Codec int

const (
	CodecOther Codec = iota
	CodecJPEG
	CodecAVC
	CodecHEIC
	CodecHEVC
)

// Rank returns the deduplication preference rank for codec: HEIC and HEVC
// tie at the top, JPEG and AVC tie below them, everything else is lowest.
func (c Codec) Rank() int {
	switch c {
	case CodecHEIC, CodecHEVC:
		return 2
	case CodecJPEG, CodecAVC:
		return 1
	default:
		return 0
	}
}

func (c Codec) String() string {
	switch c {
	case CodecJPEG:
		return "JPEG"
	case CodecAVC:
		return "AVC"
	case CodecHEIC:
		return "HEIC"
	case CodecHEVC:
		return "HEVC"
	default:
		return "Other"
	}
}

// LivePhotoComponentType distinguishes the image and video halves of a Live
// Photo pair.
type LivePhotoComponentType int

const (
	LivePhotoNone LivePhotoComponentType = iota
	LivePhotoImage
	LivePhotoVideo
)

var liveImageExts = map[string]bool{"JPEG": true, "HEIC": true}
var liveVideoExts = map[string]bool{"MOV": true}

// Media wraps the Metadata for one non-sidecar file, plus cross-handles to
// its linked initial sidecar (if any) and any duplicate sidecars.
type Media struct {
	metadata Metadata
	sidecar  *Handle[SidecarInitial]
	dupes    map[Handle[SidecarDupe]]struct{}
}

// NewMedia validates metadata against the Media invariants from catalog §3
// and constructs a Media entity: FileType must not be XMP, and if
// ContentIdentifier is set, the file's codec/type combination must be a
// recognized Live-Photo image or video kind.
func NewMedia(metadata Metadata) (*Media, error) {
	category, err := metadata.GetFileCategory()
	if err != nil {
		return nil, err
	}
	if category != CategoryMedia {
		return nil, fmt.Errorf("%s: not a media file type (%s)", metadata.SourceFile, metadata.FileType)
	}

	m := &Media{metadata: metadata, dupes: make(map[Handle[SidecarDupe]]struct{})}
	codec := m.GetCodec()
	componentType := m.GetLivePhotoComponentType()

	switch componentType {
	case LivePhotoImage:
		if codec != CodecJPEG && codec != CodecHEIC {
			return nil, fmt.Errorf("%s: unexpected Live Photo codec (%s)", metadata.SourceFile, codec)
		}
	case LivePhotoVideo:
		if codec != CodecAVC && codec != CodecHEVC {
			return nil, fmt.Errorf("%s: unexpected Live Photo codec (%s)", metadata.SourceFile, codec)
		}
	case LivePhotoNone:
		if metadata.ContentIdentifier != "" {
			return nil, fmt.Errorf("%s: unexpected Live Photo file type (%s)", metadata.SourceFile, metadata.FileType)
		}
	}
	return m, nil
}

// GetMetadata returns this media's current Metadata.
func (m *Media) GetMetadata() Metadata {
	return m.metadata
}

// UpdateMetadata wholesale-replaces this media's Metadata, per the
// "never mutate in place" lifecycle rule in catalog §3.
func (m *Media) UpdateMetadata(metadata Metadata) {
	m.metadata = metadata
}

// GetSidecar returns this media's linked initial sidecar handle, if any.
func (m *Media) GetSidecar() (Handle[SidecarInitial], bool) {
	if m.sidecar == nil {
		return Handle[SidecarInitial]{}, false
	}
	return *m.sidecar, true
}

// IsMissingSidecar reports whether this media has no linked initial sidecar.
func (m *Media) IsMissingSidecar() bool {
	return m.sidecar == nil
}

// SetSidecar links handle as this media's initial sidecar. It is a
// programming error to call this when a sidecar is already linked.
func (m *Media) SetSidecar(handle Handle[SidecarInitial]) {
	if m.sidecar != nil {
		panic(fmt.Sprintf("%s: sidecar already linked", m.metadata.SourceFile))
	}
	m.sidecar = &handle
}

// ClearSidecar unlinks this media's initial sidecar (used when the sidecar is
// removed from its FileMap).
func (m *Media) ClearSidecar() {
	m.sidecar = nil
}

// AddDupe links handle as one of this media's duplicate sidecars. It is a
// programming error to insert the same handle twice.
func (m *Media) AddDupe(handle Handle[SidecarDupe]) {
	if _, exists := m.dupes[handle]; exists {
		panic(fmt.Sprintf("%s: dupe handle already linked", m.metadata.SourceFile))
	}
	m.dupes[handle] = struct{}{}
}

// RemoveDupe unlinks handle from this media's duplicate-sidecar set.
func (m *Media) RemoveDupe(handle Handle[SidecarDupe]) {
	delete(m.dupes, handle)
}

// IterDupes calls fn for every linked duplicate-sidecar handle.
func (m *Media) IterDupes(fn func(Handle[SidecarDupe])) {
	for h := range m.dupes {
		fn(h)
	}
}

// ContentID returns the Live-Photo group key for this media, if set.
func (m *Media) ContentID() (string, bool) {
	if m.metadata.ContentIdentifier == "" {
		return "", false
	}
	return m.metadata.ContentIdentifier, true
}

// GetCodec classifies this media's compression format from its FileType and
// CompressorID tags.
func (m *Media) GetCodec() Codec {
	switch strings.ToUpper(m.metadata.FileType) {
	case "JPEG":
		return CodecJPEG
	case "HEIC":
		return CodecHEIC
	case "MOV":
		switch strings.ToLower(m.metadata.CompressorID) {
		case "avc1":
			return CodecAVC
		case "hev1", "hvc1":
			return CodecHEVC
		}
	}
	return CodecOther
}

// GetLivePhotoComponentType classifies this media as the image or video half
// of a Live Photo pair, based on whether ContentIdentifier is set and the
// file's FileType tag falls in the known image/video type sets.
func (m *Media) GetLivePhotoComponentType() LivePhotoComponentType {
	if m.metadata.ContentIdentifier == "" {
		return LivePhotoNone
	}
	ft := strings.ToUpper(m.metadata.FileType)
	if liveImageExts[ft] {
		return LivePhotoImage
	}
	if liveVideoExts[ft] {
		return LivePhotoVideo
	}
	return LivePhotoNone
}

// GetModifyDate returns this media's best available modification timestamp,
// preferring SubSecModifyDate, then ModifyDate (ignoring the QuickTime zero
// sentinel "0000:00:00 00:00:00"), then falling back to FileModifyDate.
func (m *Media) GetModifyDate() ParsedDateTime {
	candidates := []string{m.metadata.SubSecModifyDate, m.metadata.ModifyDate}
	for _, c := range candidates {
		if c == "" || c == "0000:00:00 00:00:00" {
			continue
		}
		if parsed, err := ParseDateTime(c); err == nil {
			return parsed
		}
	}
	parsed, err := ParseDateTime(m.metadata.FileModifyDate)
	if err != nil {
		return ParsedDateTime{}
	}
	return parsed
}

// Path returns this media's source file path.
func (m *Media) Path() string {
	return m.metadata.SourceFile
}

func (m *Media) String() string {
	return m.metadata.SourceFile
}

// Ext returns the media's lowercase extension without a leading dot, as
// used when constructing destination file names in stage 6.
func (m *Media) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(m.metadata.SourceFile), "."))
}
