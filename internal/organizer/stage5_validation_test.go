package organizer

import (
	"log/slog"
	"testing"

	"github.com/bleemesser/photosort/internal/prim"
	"github.com/bleemesser/photosort/internal/testutil"
)

func soleMediaHandle(t *testing.T, o *Organizer) prim.Handle[prim.Media] {
	t.Helper()
	var h prim.Handle[prim.Media]
	var found bool
	o.media.IterIndexed(func(handle prim.Handle[prim.Media], _ *prim.Media) {
		h = handle
		found = true
	})
	if !found {
		t.Fatalf("no media loaded")
	}
	return h
}

func TestValidateAttributionFailsWithoutCreatorOrCopyright(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", nil)

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o.SetValidationConfig(ValidationConfig{Attribution: true})
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if o.IsValid(soleMediaHandle(t, o)) {
		t.Fatalf("IsValid() = true, want false (missing Creator/Copyright)")
	}
}

func TestValidateAttributionPasses(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", map[string]string{"Creator": "Alice", "Copyright": "Copyright Alice"})

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o.SetValidationConfig(ValidationConfig{Attribution: true})
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !o.IsValid(soleMediaHandle(t, o)) {
		t.Fatalf("IsValid() = false, want true")
	}
}

func TestValidateCameraRequiresMakeAndModel(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", map[string]string{"Make": "Canon"})

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o.SetValidationConfig(ValidationConfig{Camera: true})
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if o.IsValid(soleMediaHandle(t, o)) {
		t.Fatalf("IsValid() = true, want false (missing Model)")
	}
}

func TestValidateDateTimeRequiresOffsets(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", map[string]string{
		"DateTimeOriginal": "2023-06-15T10:00:00",
		"CreateDate":       "2023-06-15T10:00:00",
	})

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o.SetValidationConfig(ValidationConfig{DateTime: true})
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if o.IsValid(soleMediaHandle(t, o)) {
		t.Fatalf("IsValid() = true, want false (neither timestamp carries a time zone offset)")
	}
}

func TestValidateDateTimePassesWithOffsetsAndOrdering(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", map[string]string{
		"DateTimeOriginal": "2023-06-15T10:00:00+02:00",
		"CreateDate":       "2023-06-15T10:05:00+02:00",
	})

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o.SetValidationConfig(ValidationConfig{DateTime: true})
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !o.IsValid(soleMediaHandle(t, o)) {
		t.Fatalf("IsValid() = false, want true")
	}
}

func TestValidateDateTimeFailsWhenCreateDatePrecedesOriginal(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", map[string]string{
		"DateTimeOriginal": "2023-06-15T10:05:00+02:00",
		"CreateDate":       "2023-06-15T10:00:00+02:00",
	})

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o.SetValidationConfig(ValidationConfig{DateTime: true})
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if o.IsValid(soleMediaHandle(t, o)) {
		t.Fatalf("IsValid() = true, want false (CreateDate precedes DateTimeOriginal)")
	}
}

func TestValidateLocationRequiresAllFourFields(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", map[string]string{
		"GPSPosition": `37 deg 46' 29.64" N, 122 deg 25' 9.84" W`,
		"City":        "San Francisco",
	})

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o.SetValidationConfig(ValidationConfig{Location: true})
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if o.IsValid(soleMediaHandle(t, o)) {
		t.Fatalf("IsValid() = true, want false (missing State/Country)")
	}
}

func TestValidateNoopWhenNoCategoryEnabled(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Add("img.jpg", nil)

	o, err := Load(f.Adapter, slog.Default(), f.Root, f.Trash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if o.IsValid(soleMediaHandle(t, o)) {
		t.Fatalf("IsValid() = true, want false (validation never ran)")
	}
}
