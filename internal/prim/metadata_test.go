package prim

import "testing"

func TestGetFileCategoryMedia(t *testing.T) {
	m := Metadata{SourceFile: "/a/img.jpg", FileType: "JPEG"}
	cat, err := m.GetFileCategory()
	if err != nil {
		t.Fatalf("GetFileCategory: %v", err)
	}
	if cat != CategoryMedia {
		t.Fatalf("category = %v, want CategoryMedia", cat)
	}
}

func TestGetFileCategorySidecarInitial(t *testing.T) {
	m := Metadata{SourceFile: "/a/img.jpg.xmp", FileType: "XMP"}
	cat, err := m.GetFileCategory()
	if err != nil {
		t.Fatalf("GetFileCategory: %v", err)
	}
	if cat != CategorySidecarInitial {
		t.Fatalf("category = %v, want CategorySidecarInitial", cat)
	}
}

func TestGetFileCategorySidecarDupe(t *testing.T) {
	m := Metadata{SourceFile: "/a/img_01.jpg.xmp", FileType: "XMP"}
	cat, err := m.GetFileCategory()
	if err != nil {
		t.Fatalf("GetFileCategory: %v", err)
	}
	if cat != CategorySidecarDupe {
		t.Fatalf("category = %v, want CategorySidecarDupe", cat)
	}
}

func TestGetFileCategoryUnknownErrors(t *testing.T) {
	m := Metadata{SourceFile: "/a/mystery", FileType: "-"}
	if _, err := m.GetFileCategory(); err == nil {
		t.Fatalf("GetFileCategory with FileType \"-\": nil error, want error")
	}
}

func TestParseFileNamePlainMedia(t *testing.T) {
	got := ParseFileName("/a/b/img.jpg")
	if got.BaseExt != "jpg" || got.DupeNumber != "" {
		t.Fatalf("ParseFileName(img.jpg) = %+v", got)
	}
}

func TestParseFileNameInitialSidecar(t *testing.T) {
	got := ParseFileName("/a/b/img.jpg.xmp")
	if got.BaseExt != "jpg" || got.DupeNumber != "" {
		t.Fatalf("ParseFileName(img.jpg.xmp) = %+v", got)
	}
}

func TestParseFileNameDupeSidecar(t *testing.T) {
	got := ParseFileName("/a/b/img_02.jpg.xmp")
	if got.BaseExt != "jpg" || got.DupeNumber != "02" {
		t.Fatalf("ParseFileName(img_02.jpg.xmp) = %+v", got)
	}
}

func TestGetDateTimeOriginalPrefersSubSec(t *testing.T) {
	m := Metadata{
		DateTimeOriginal:       "2023-01-01T00:00:00+00:00",
		SubSecDateTimeOriginal: "2023-01-01T00:00:00.500+00:00",
	}
	got, err := m.GetDateTimeOriginal()
	if err != nil {
		t.Fatalf("GetDateTimeOriginal: %v", err)
	}
	if got.Naive.Nanosecond() != 500000000 {
		t.Fatalf("got nanosecond = %d, want 500000000 (should prefer SubSecDateTimeOriginal)", got.Naive.Nanosecond())
	}
}

func TestGetLatLonValid(t *testing.T) {
	m := Metadata{GPSPosition: `37 deg 46' 29.64" N, 122 deg 25' 9.84" W`}
	lat, lon, ok := m.GetLatLon()
	if !ok {
		t.Fatalf("GetLatLon: ok = false, want true")
	}
	if lat < 37.7 || lat > 37.8 {
		t.Fatalf("lat = %v, want ~37.77", lat)
	}
	if lon > -122.3 || lon < -122.5 {
		t.Fatalf("lon = %v, want ~-122.42", lon)
	}
}

func TestGetLatLonAbsent(t *testing.T) {
	m := Metadata{}
	if _, _, ok := m.GetLatLon(); ok {
		t.Fatalf("GetLatLon with no GPSPosition: ok = true, want false")
	}
}
