package prim

import "testing"

func TestNewSidecarInitialMediaPath(t *testing.T) {
	s, err := NewSidecarInitial(Metadata{SourceFile: "/a/img.jpg.xmp", FileType: "XMP"})
	if err != nil {
		t.Fatalf("NewSidecarInitial: %v", err)
	}
	if got := s.MediaPath(); got != "/a/img.jpg" {
		t.Fatalf("MediaPath() = %q, want /a/img.jpg", got)
	}
	if !s.IsLeftover() {
		t.Fatalf("IsLeftover() = false, want true (no media linked yet)")
	}
}

func TestNewSidecarInitialRejectsBareXMP(t *testing.T) {
	_, err := NewSidecarInitial(Metadata{SourceFile: "/a/foo.xmp", FileType: "XMP"})
	if err == nil {
		t.Fatalf("NewSidecarInitial(foo.xmp): nil error, want error (no underlying media extension)")
	}
}

func TestNewSidecarInitialRejectsDupeName(t *testing.T) {
	_, err := NewSidecarInitial(Metadata{SourceFile: "/a/img_01.jpg.xmp", FileType: "XMP"})
	if err == nil {
		t.Fatalf("NewSidecarInitial(img_01.jpg.xmp): nil error, want error (this is a dupe, not an initial sidecar)")
	}
}

func TestNewSidecarDupeMediaPathAndNumber(t *testing.T) {
	d, err := NewSidecarDupe(Metadata{SourceFile: "/a/img_02.jpg.xmp", FileType: "XMP"})
	if err != nil {
		t.Fatalf("NewSidecarDupe: %v", err)
	}
	if got := d.MediaPath(); got != "/a/img.jpg" {
		t.Fatalf("MediaPath() = %q, want /a/img.jpg", got)
	}
	if got := d.DupeNumber(); got != "02" {
		t.Fatalf("DupeNumber() = %q, want 02", got)
	}
}

func TestSidecarSetMediaHandlePanicsOnDoubleLink(t *testing.T) {
	s, err := NewSidecarInitial(Metadata{SourceFile: "/a/img.jpg.xmp", FileType: "XMP"})
	if err != nil {
		t.Fatalf("NewSidecarInitial: %v", err)
	}
	s.SetMediaHandle(NewHandle[Media](0))

	defer func() {
		if recover() == nil {
			t.Fatalf("SetMediaHandle a second time: no panic, want panic")
		}
	}()
	s.SetMediaHandle(NewHandle[Media](1))
}

func TestSidecarIsLeftoverAfterClear(t *testing.T) {
	s, err := NewSidecarInitial(Metadata{SourceFile: "/a/img.jpg.xmp", FileType: "XMP"})
	if err != nil {
		t.Fatalf("NewSidecarInitial: %v", err)
	}
	s.SetMediaHandle(NewHandle[Media](0))
	if s.IsLeftover() {
		t.Fatalf("IsLeftover() after link = true, want false")
	}
	s.ClearMediaHandle()
	if !s.IsLeftover() {
		t.Fatalf("IsLeftover() after ClearMediaHandle = false, want true")
	}
}
