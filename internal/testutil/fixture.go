package testutil

import (
	"os"
	"testing"
)

// Fixture is a temp-directory test harness pairing a FakeAdapter with the
// conventional root/trash/destination layout the organizer pipeline expects.
// It mirrors original_source's test_dir! builder.
type Fixture struct {
	T       *testing.T
	Root    string
	Trash   string
	Dest    string
	Adapter *FakeAdapter
}

// NewFixture creates a fixture rooted at three fresh subdirectories of
// t.TempDir(): "src", "trash", "dst".
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	base := t.TempDir()
	root := base + "/src"
	trash := base + "/trash"
	dest := base + "/dst"
	for _, d := range []string{root, trash, dest} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	return &Fixture{T: t, Root: root, Trash: trash, Dest: dest, Adapter: NewFakeAdapter(root)}
}

// Add registers relPath (under Root) with the given tags and returns its
// absolute path.
func (f *Fixture) Add(relPath string, tags map[string]string) string {
	return f.Adapter.Add(f.T, relPath, tags)
}

// ReadTag reads a tag's current value for path (absolute or Root-relative).
func (f *Fixture) ReadTag(path, tag string) string {
	return f.Adapter.ReadTag(f.resolve(path), tag)
}

// AssertDir fails the test unless Root's contents exactly match want.
func (f *Fixture) AssertDir(want []string) {
	f.Adapter.AssertDir(f.T, f.Root, want)
}

// AssertTrash fails the test unless Trash's contents exactly match want.
func (f *Fixture) AssertTrash(want []string) {
	f.Adapter.AssertDir(f.T, f.Trash, want)
}

// AssertDest fails the test unless Dest's contents exactly match want.
func (f *Fixture) AssertDest(want []string) {
	f.Adapter.AssertDir(f.T, f.Dest, want)
}

func (f *Fixture) resolve(path string) string {
	if len(path) > 0 && path[0] == '/' {
		return path
	}
	return f.Root + "/" + path
}
