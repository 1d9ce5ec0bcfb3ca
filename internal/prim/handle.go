// Package prim implements the dense-handle entity model described by the
// catalog: Metadata records, the Media/SidecarInitial/SidecarDupe entities
// that wrap them, and the FileMap arena that stores them behind stable,
// type-tagged handles.
package prim

import "fmt"

// Handle is an opaque, type-tagged dense index into a FileMap[T]. Handles are
// never reused within a run; once an entry is taken out of its FileMap the
// handle's slot becomes a tombstone for the rest of the run.
type Handle[T any] struct {
	idx int
}

// NewHandle wraps a raw index. Exported for callers (e.g. tests) that need to
// construct a Handle from a known index.
func NewHandle[T any](idx int) Handle[T] {
	return Handle[T]{idx: idx}
}

// Int returns the raw index backing this handle.
func (h Handle[T]) Int() int {
	return h.idx
}

func (h Handle[T]) String() string {
	return fmt.Sprintf("Handle(%d)", h.idx)
}

// FileMap is a typed arena mapping dense integer handles to optional values,
// plus a path index for handle lookup by absolute path. Only insertion and
// take are supported; there is no overwrite and no compaction during a run,
// so handles remain valid (possibly pointing at a tombstone) for the life of
// the map.
type FileMap[T any] struct {
	data         []*T
	pathToHandle map[string]Handle[T]
}

// NewFileMap constructs an empty FileMap.
func NewFileMap[T any]() *FileMap[T] {
	return &FileMap[T]{
		pathToHandle: make(map[string]Handle[T]),
	}
}

// Find returns the handle registered for path, if any.
func (m *FileMap[T]) Find(path string) (Handle[T], bool) {
	h, ok := m.pathToHandle[path]
	return h, ok
}

// Insert appends value to the arena under path, returning its new handle. It
// is a programming error to insert a path that already has a live (non-
// tombstoned) entry. Insert always appends a new slot and points path at it;
// a tombstoned slot is never reused.
func (m *FileMap[T]) Insert(path string, value T) Handle[T] {
	h := Handle[T]{idx: len(m.data)}
	v := value
	m.data = append(m.data, &v)
	m.pathToHandle[path] = h
	return h
}

// Get returns the live value at handle, or (nil, false) if the slot is a
// tombstone or the handle is out of range.
func (m *FileMap[T]) Get(h Handle[T]) (*T, bool) {
	if h.idx < 0 || h.idx >= len(m.data) {
		return nil, false
	}
	if m.data[h.idx] == nil {
		return nil, false
	}
	return m.data[h.idx], true
}

// GetEntry is the same as Get: it returns a pointer to the live value, which
// the caller may read or mutate in place. It does not return tombstoned
// slots and cannot tombstone one; use Take for that.
func (m *FileMap[T]) GetEntry(h Handle[T]) (*T, bool) {
	return m.Get(h)
}

// Take removes the value at handle from the arena, returning it. The slot
// becomes a tombstone; the handle remains stable for iteration purposes but
// will no longer resolve via Get.
func (m *FileMap[T]) Take(h Handle[T]) (T, bool) {
	var zero T
	if h.idx < 0 || h.idx >= len(m.data) || m.data[h.idx] == nil {
		return zero, false
	}
	v := *m.data[h.idx]
	m.data[h.idx] = nil
	return v, true
}

// Len returns the number of slots in the arena, including tombstones.
func (m *FileMap[T]) Len() int {
	return len(m.data)
}

// IterIndexed calls fn for every live (non-tombstoned) entry, in handle
// order, passing its handle and a pointer to its value so the callback may
// mutate it in place.
func (m *FileMap[T]) IterIndexed(fn func(h Handle[T], v *T)) {
	for i, v := range m.data {
		if v != nil {
			fn(Handle[T]{idx: i}, v)
		}
	}
}

// Iter calls fn for every live entry's value, in handle order.
func (m *FileMap[T]) Iter(fn func(v *T)) {
	m.IterIndexed(func(_ Handle[T], v *T) { fn(v) })
}
