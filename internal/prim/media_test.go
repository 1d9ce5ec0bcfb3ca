package prim

import "testing"

func TestNewMediaRejectsXMP(t *testing.T) {
	_, err := NewMedia(Metadata{SourceFile: "/a.jpg.xmp", FileType: "XMP"})
	if err == nil {
		t.Fatalf("NewMedia with FileType XMP: nil error, want error")
	}
}

func TestNewMediaAcceptsPlainJPEG(t *testing.T) {
	m, err := NewMedia(Metadata{SourceFile: "/a.jpg", FileType: "JPEG"})
	if err != nil {
		t.Fatalf("NewMedia: %v", err)
	}
	if m.Ext() != "jpg" {
		t.Fatalf("Ext() = %q, want jpg", m.Ext())
	}
}

func TestNewMediaAcceptsLivePhotoImage(t *testing.T) {
	_, err := NewMedia(Metadata{SourceFile: "/a.jpg", FileType: "JPEG", ContentIdentifier: "id-1"})
	if err != nil {
		t.Fatalf("NewMedia: %v", err)
	}
}

func TestNewMediaRejectsMismatchedLivePhotoCodec(t *testing.T) {
	_, err := NewMedia(Metadata{SourceFile: "/a.png", FileType: "PNG", ContentIdentifier: "id-1"})
	if err == nil {
		t.Fatalf("NewMedia with PNG + ContentIdentifier: nil error, want error")
	}
}

func TestNewMediaAcceptsLivePhotoVideo(t *testing.T) {
	m, err := NewMedia(Metadata{SourceFile: "/a.mov", FileType: "MOV", CompressorID: "avc1", ContentIdentifier: "id-1"})
	if err != nil {
		t.Fatalf("NewMedia: %v", err)
	}
	if got := m.GetLivePhotoComponentType(); got != LivePhotoVideo {
		t.Fatalf("GetLivePhotoComponentType() = %v, want LivePhotoVideo", got)
	}
}

func TestMediaSetSidecarPanicsOnDoubleLink(t *testing.T) {
	m, err := NewMedia(Metadata{SourceFile: "/a.jpg", FileType: "JPEG"})
	if err != nil {
		t.Fatalf("NewMedia: %v", err)
	}
	m.SetSidecar(NewHandle[SidecarInitial](0))

	defer func() {
		if recover() == nil {
			t.Fatalf("SetSidecar a second time: no panic, want panic")
		}
	}()
	m.SetSidecar(NewHandle[SidecarInitial](1))
}

func TestMediaAddDupePanicsOnDuplicateHandle(t *testing.T) {
	m, err := NewMedia(Metadata{SourceFile: "/a.jpg", FileType: "JPEG"})
	if err != nil {
		t.Fatalf("NewMedia: %v", err)
	}
	h := NewHandle[SidecarDupe](0)
	m.AddDupe(h)

	defer func() {
		if recover() == nil {
			t.Fatalf("AddDupe with already-linked handle: no panic, want panic")
		}
	}()
	m.AddDupe(h)
}

func TestMediaGetCodec(t *testing.T) {
	cases := []struct {
		fileType, compressorID string
		want                   Codec
	}{
		{"JPEG", "", CodecJPEG},
		{"HEIC", "", CodecHEIC},
		{"MOV", "avc1", CodecAVC},
		{"MOV", "hvc1", CodecHEVC},
		{"PNG", "", CodecOther},
	}
	for _, c := range cases {
		m := &Media{metadata: Metadata{FileType: c.fileType, CompressorID: c.compressorID}}
		if got := m.GetCodec(); got != c.want {
			t.Errorf("GetCodec() for %+v = %v, want %v", c, got, c.want)
		}
	}
}

func TestMediaGetModifyDatePrefersSubSec(t *testing.T) {
	m := &Media{metadata: Metadata{
		SubSecModifyDate: "2023-01-01T00:00:00.250+00:00",
		ModifyDate:       "2023-01-01T00:00:00+00:00",
		FileModifyDate:   "2022-01-01T00:00:00+00:00",
	}}
	got := m.GetModifyDate()
	if got.Naive.Nanosecond() != 250000000 {
		t.Fatalf("GetModifyDate() nanosecond = %d, want 250000000", got.Naive.Nanosecond())
	}
}

func TestMediaGetModifyDateSkipsQuickTimeZeroSentinel(t *testing.T) {
	m := &Media{metadata: Metadata{
		ModifyDate:     "0000:00:00 00:00:00",
		FileModifyDate: "2022-01-01T00:00:00+00:00",
	}}
	got := m.GetModifyDate()
	if got.Naive.Year() != 2022 {
		t.Fatalf("GetModifyDate() = %v, want fallback to FileModifyDate (2022)", got.Naive)
	}
}
