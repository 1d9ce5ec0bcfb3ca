package cli

import (
	"testing"
)

func TestParseImportRequiresSourceDir(t *testing.T) {
	dir := t.TempDir()
	cmd, err := Parse([]string{"photosort", "import", dir, "--trash=/tmp/trash"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Action != "import" {
		t.Fatalf("Action = %q, want import", cmd.Action)
	}
	if cmd.Source != dir {
		t.Fatalf("Source = %q, want %q", cmd.Source, dir)
	}
	if cmd.Trash != "/tmp/trash" {
		t.Fatalf("Trash = %q, want /tmp/trash", cmd.Trash)
	}
}

func TestParseImportRejectsMissingDir(t *testing.T) {
	if _, err := Parse([]string{"photosort", "import", "/does/not/exist"}); err == nil {
		t.Fatalf("Parse with nonexistent source: nil error, want error")
	}
}

func TestParseImportRejectsWrongArgCount(t *testing.T) {
	dir := t.TempDir()
	if _, err := Parse([]string{"photosort", "import", dir, dir}); err == nil {
		t.Fatalf("Parse import with two dirs: nil error, want error")
	}
}

func TestParseOrganizeParsesFlags(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir() + "/dest-does-not-exist-yet"

	cmd, err := Parse([]string{
		"photosort", "organize", src, dst,
		"--force", "--validate=attribution,camera", "--fix=mwg,copyright",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cmd.Force {
		t.Fatalf("Force = false, want true")
	}
	if !cmd.Validation.Attribution || !cmd.Validation.Camera || cmd.Validation.DateTime || cmd.Validation.Location {
		t.Fatalf("Validation = %+v, want only Attribution and Camera", cmd.Validation)
	}
	if !cmd.Fix.AlignMWGTags || !cmd.Fix.SetCopyrightFromCreator || cmd.Fix.SetLocationFromGPS || cmd.Fix.SetTimeZoneFromGPS {
		t.Fatalf("Fix = %+v, want only AlignMWGTags and SetCopyrightFromCreator", cmd.Fix)
	}
}

func TestParseOrganizeValidateAllEnablesEveryCategory(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	cmd, err := Parse([]string{"photosort", "organize", src, dst, "--validate=all", "--fix=all"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cmd.Validation.Enabled() || !cmd.Validation.Attribution || !cmd.Validation.Camera || !cmd.Validation.DateTime || !cmd.Validation.Location {
		t.Fatalf("Validation = %+v, want all categories enabled", cmd.Validation)
	}
	if !cmd.Fix.Enabled() || !cmd.Fix.AlignMWGTags || !cmd.Fix.SetCopyrightFromCreator || !cmd.Fix.SetLocationFromGPS || !cmd.Fix.SetTimeZoneFromGPS {
		t.Fatalf("Fix = %+v, want all sub-passes enabled", cmd.Fix)
	}
}

func TestParseSyncRequiresTwoExistingDirs(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	cmd, err := Parse([]string{"photosort", "sync", first, second})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Source != first || cmd.Dest != second {
		t.Fatalf("Source/Dest = %q/%q, want %q/%q", cmd.Source, cmd.Dest, first, second)
	}
}

func TestParseCheckDefaultsToAllValidationCategories(t *testing.T) {
	dir := t.TempDir()
	cmd, err := Parse([]string{"photosort", "check", dir})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cmd.Validation.Enabled() {
		t.Fatalf("Validation.Enabled() = false, want true (check defaults to full validation)")
	}
}

func TestParseCheckHonorsExplicitValidateFlag(t *testing.T) {
	dir := t.TempDir()
	cmd, err := Parse([]string{"photosort", "check", dir, "--validate=camera"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cmd.Validation.Camera || cmd.Validation.Attribution || cmd.Validation.DateTime || cmd.Validation.Location {
		t.Fatalf("Validation = %+v, want only Camera", cmd.Validation)
	}
}

func TestParseRejectsUnknownAction(t *testing.T) {
	if _, err := Parse([]string{"photosort", "bogus"}); err == nil {
		t.Fatalf("Parse with unknown action: nil error, want error")
	}
}

func TestParseRejectsNoAction(t *testing.T) {
	if _, err := Parse([]string{"photosort"}); err == nil {
		t.Fatalf("Parse with no action: nil error, want error")
	}
}

func TestParseVerboseFlag(t *testing.T) {
	dir := t.TempDir()
	cmd, err := Parse([]string{"photosort", "check", dir, "-v"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cmd.Verbose {
		t.Fatalf("Verbose = false, want true")
	}
}
