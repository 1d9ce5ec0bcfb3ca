package catalog

import (
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()
	if c.path != filepath.Join(dir, "catalog.db") {
		t.Fatalf("path = %q, want %s", c.path, filepath.Join(dir, "catalog.db"))
	}
}

func TestSetConfigGetConfigRoundTrip(t *testing.T) {
	c := openTest(t)
	if err := c.SetConfig("last_import_source", "/photos/in"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	got, ok, err := c.GetConfig("last_import_source")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if !ok || got != "/photos/in" {
		t.Fatalf("GetConfig = (%q, %v), want (/photos/in, true)", got, ok)
	}
}

func TestGetConfigMissingKeyReturnsNotOK(t *testing.T) {
	c := openTest(t)
	_, ok, err := c.GetConfig("nope")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if ok {
		t.Fatalf("ok = true, want false for a key never set")
	}
}

func TestSetConfigOverwritesExistingValue(t *testing.T) {
	c := openTest(t)
	if err := c.SetConfig("k", "first"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := c.SetConfig("k", "second"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	got, ok, err := c.GetConfig("k")
	if err != nil || !ok || got != "second" {
		t.Fatalf("GetConfig = (%q, %v, %v), want (second, true, nil)", got, ok, err)
	}
}

func TestRunJournalRoundTrip(t *testing.T) {
	c := openTest(t)
	run, err := c.StartRun("organize", "/src", "/dst")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if run.ID == "" {
		t.Fatalf("run ID is empty")
	}
	if err := run.Finish(Counts{Processed: 10, Moved: 8, Trashed: 2}, false); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	runs, err := c.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Action != "organize" || got.Source != "/src" || got.Dest != "/dst" {
		t.Fatalf("RecentRuns()[0] = %+v", got)
	}
	if got.Processed != 10 || got.Moved != 8 || got.Trashed != 2 || got.Failed {
		t.Fatalf("RecentRuns()[0] counts = %+v", got)
	}
	if !got.FinishedAt.Valid {
		t.Fatalf("FinishedAt.Valid = false, want true after Finish")
	}
}

func TestRunJournalRecordsFailure(t *testing.T) {
	c := openTest(t)
	run, err := c.StartRun("check", "/src", "")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := run.Finish(Counts{}, true); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	runs, err := c.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || !runs[0].Failed {
		t.Fatalf("RecentRuns()[0].Failed = false, want true")
	}
	if runs[0].Dest != "" {
		t.Fatalf("Dest = %q, want empty for a run with no destination", runs[0].Dest)
	}
}

func TestRecentRunsOrdersNewestFirst(t *testing.T) {
	c := openTest(t)
	first, err := c.StartRun("check", "/a", "")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	first.Finish(Counts{}, false)

	second, err := c.StartRun("check", "/b", "")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	second.Finish(Counts{}, false)

	runs, err := c.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].Source != "/b" || runs[1].Source != "/a" {
		t.Fatalf("RecentRuns() sources = %q, %q; want /b, /a (newest first)", runs[0].Source, runs[1].Source)
	}
}
