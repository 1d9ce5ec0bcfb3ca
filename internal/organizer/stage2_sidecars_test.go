package organizer

import (
	"log/slog"
	"testing"

	"github.com/bleemesser/photosort/internal/testutil"
)

func TestCreateMissingSidecarsAddsXMPForBareMedia(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", map[string]string{"Creator": "Alice"})

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := o.CreateMissingSidecars(); err != nil {
		t.Fatalf("CreateMissingSidecars: %v", err)
	}

	f.AssertDir([]string{"img.jpg", "img.jpg.xmp"})
	if got := f.ReadTag("img.jpg.xmp", "Creator"); got != "Alice" {
		t.Fatalf("sidecar Creator = %q, want Alice (copied from media)", got)
	}
}

func TestCreateMissingSidecarsSkipsMediaWithSidecar(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", nil)
	f.Add("img.jpg.xmp", nil)

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := o.CreateMissingSidecars(); err != nil {
		t.Fatalf("CreateMissingSidecars: %v", err)
	}
	f.AssertDir([]string{"img.jpg", "img.jpg.xmp"})
}
