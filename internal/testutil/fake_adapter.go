// Package testutil provides fixtures for exercising the organizer pipeline
// without a real exiftool binary, mirroring original_source's test_dir!/
// assert_dir!/assert_tag! macro style as a small Go helper type built on
// t.TempDir() and an in-memory fake of the exiftool.Adapter collaborator.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/bleemesser/photosort/internal/prim"
)

// FakeAdapter is an in-memory stand-in for exiftool.Adapter. Every "file" is
// a prim.Metadata value keyed by absolute path; writes mutate that map
// rather than touching real tags, but real empty files are still created on
// disk so path-existence checks in organizer code behave the same as with a
// live exiftool.
type FakeAdapter struct {
	Root  string
	files map[string]prim.Metadata
}

// NewFakeAdapter constructs an empty fake rooted at root (typically a
// t.TempDir()).
func NewFakeAdapter(root string) *FakeAdapter {
	return &FakeAdapter{Root: root, files: make(map[string]prim.Metadata)}
}

// Add registers path with the given tag overrides layered onto sane
// defaults (FileType/FileTypeExtension inferred from the extension,
// FileModifyDate set to now), and touches an empty file on disk at path.
func (f *FakeAdapter) Add(t *testing.T, relPath string, tags map[string]string) string {
	t.Helper()
	abs := filepath.Join(f.Root, relPath)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(abs), err)
	}
	if err := os.WriteFile(abs, []byte{}, 0o644); err != nil {
		t.Fatalf("write %s: %v", abs, err)
	}

	m := prim.Metadata{
		SourceFile:     abs,
		FileType:       fileTypeFor(relPath),
		FileModifyDate: time.Now().Format("2006-01-02T15:04:05"),
	}
	applyTags(&m, tags)
	f.files[abs] = m
	return abs
}

func fileTypeFor(relPath string) string {
	if strings.HasSuffix(strings.ToLower(relPath), ".xmp") {
		return "XMP"
	}
	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(relPath), "."))
	return ext
}

func applyTags(m *prim.Metadata, tags map[string]string) {
	for k, v := range tags {
		setField(m, k, v)
	}
}

func setField(m *prim.Metadata, tag, value string) {
	switch tag {
	case "FileType":
		m.FileType = value
	case "FileTypeExtension":
		m.FileTypeExtension = value
	case "CompressorID":
		m.CompressorID = value
	case "ContentIdentifier":
		m.ContentIdentifier = value
	case "Creator":
		m.Creator = value
	case "Copyright":
		m.Copyright = value
	case "Make":
		m.Make = value
	case "Model":
		m.Model = value
	case "FileModifyDate":
		m.FileModifyDate = value
	case "ModifyDate":
		m.ModifyDate = value
	case "SubSecModifyDate":
		m.SubSecModifyDate = value
	case "CreateDate":
		m.CreateDate = value
	case "SubSecCreateDate":
		m.SubSecCreateDate = value
	case "DateTimeOriginal":
		m.DateTimeOriginal = value
	case "SubSecDateTimeOriginal":
		m.SubSecDateTimeOriginal = value
	case "GPSLatitude":
		m.GPSLatitude = value
	case "GPSLongitude":
		m.GPSLongitude = value
	case "GPSPosition":
		m.GPSPosition = value
	case "City":
		m.City = value
	case "State":
		m.State = value
	case "Country":
		m.Country = value
	}
}

func getField(m prim.Metadata, tag string) string {
	switch tag {
	case "FileType":
		return m.FileType
	case "Creator":
		return m.Creator
	case "Copyright":
		return m.Copyright
	case "Make":
		return m.Make
	case "Model":
		return m.Model
	case "ModifyDate":
		return m.ModifyDate
	case "DateTimeOriginal":
		return m.DateTimeOriginal
	case "OffsetTimeOriginal":
		return "" // not modeled as a distinct field; folded into DateTimeOriginal's offset.
	case "GPSPosition":
		return m.GPSPosition
	case "City":
		return m.City
	case "State":
		return m.State
	case "Country":
		return m.Country
	default:
		return ""
	}
}

func (f *FakeAdapter) ReadMetadata(path string) (prim.Metadata, error) {
	m, ok := f.files[path]
	if !ok {
		return prim.Metadata{}, fmt.Errorf("%s: no such file", path)
	}
	return m, nil
}

func (f *FakeAdapter) ReadMetadataRecursive(root string, exclude string) ([]prim.Metadata, error) {
	var paths []string
	for p := range f.files {
		rel, err := filepath.Rel(root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if exclude != "" {
			if relEx, err := filepath.Rel(exclude, p); err == nil && !strings.HasPrefix(relEx, "..") {
				continue
			}
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]prim.Metadata, 0, len(paths))
	for _, p := range paths {
		out = append(out, f.files[p])
	}
	return out, nil
}

func (f *FakeAdapter) CopyMetadata(src, dst string) (prim.Metadata, error) {
	srcM, ok := f.files[src]
	if !ok {
		return prim.Metadata{}, fmt.Errorf("%s: no such file", src)
	}
	dstM, ok := f.files[dst]
	if !ok {
		return prim.Metadata{}, fmt.Errorf("%s: no such file", dst)
	}
	keep := dstM
	merged := srcM
	merged.SourceFile = keep.SourceFile
	merged.FileType = keep.FileType
	merged.FileTypeExtension = keep.FileTypeExtension
	merged.FileModifyDate = keep.FileModifyDate
	f.files[dst] = merged
	return merged, nil
}

func (f *FakeAdapter) CreateXMP(mediaPath string) (prim.Metadata, error) {
	xmpPath := mediaPath + ".xmp"
	if _, exists := f.files[xmpPath]; exists {
		return prim.Metadata{}, fmt.Errorf("%s already exists", xmpPath)
	}
	src, ok := f.files[mediaPath]
	if !ok {
		return prim.Metadata{}, fmt.Errorf("%s: no such file", mediaPath)
	}
	if err := os.WriteFile(xmpPath, []byte{}, 0o644); err != nil {
		return prim.Metadata{}, err
	}
	m := src
	m.SourceFile = xmpPath
	m.FileType = "XMP"
	f.files[xmpPath] = m
	return m, nil
}

var dateTagRe = regexp.MustCompile(`^-(\w+)(<|=)(.*)$`)
var copyFromTagRe = regexp.MustCompile(`\$\{(\w+)\}`)

// RunArgs interprets a small subset of exiftool's argument grammar used by
// stage 3: "-TAG=value" direct assignment, "-TAG<OTHERTAG" tag-to-tag copy,
// and "-TAG<literal ${OTHERTAG}" interpolation. "-MWG:all<MWG:all" is
// treated as a no-op aligning already-equal EXIF/XMP fields, since this fake
// has no separate per-schema storage to align.
func (f *FakeAdapter) RunArgs(path string, args []string) error {
	m, ok := f.files[path]
	if !ok {
		return fmt.Errorf("%s: no such file", path)
	}
	for _, arg := range args {
		if arg == "-overwrite_original" || strings.HasPrefix(arg, "-MWG:all") {
			continue
		}
		match := dateTagRe.FindStringSubmatch(arg)
		if match == nil {
			continue
		}
		tag, op, rhs := match[1], match[2], match[3]
		var value string
		if op == "=" {
			value = rhs
		} else {
			value = copyFromTagRe.ReplaceAllStringFunc(rhs, func(ref string) string {
				refTag := copyFromTagRe.FindStringSubmatch(ref)[1]
				return getField(m, refTag)
			})
			if !strings.Contains(rhs, "${") && !strings.Contains(rhs, " ") {
				value = getField(m, rhs)
			}
		}
		setField(&m, tag, value)
	}
	f.files[path] = m
	return nil
}

func (f *FakeAdapter) MoveFile(src string, metadataSrc string, dstDir string, ext string, dateTag string) (string, error) {
	source := src
	if metadataSrc != "" {
		source = metadataSrc
	}
	sm, ok := f.files[source]
	if !ok {
		return "", fmt.Errorf("%s: no such file", source)
	}
	tagValue := sm.DateTimeOriginal
	if dateTag != "" {
		tagValue = getField(sm, dateTag)
		if tagValue == "" {
			tagValue = sm.DateTimeOriginal
		}
	}
	if tagValue == "" {
		tagValue = sm.SubSecDateTimeOriginal
	}
	if tagValue == "" {
		tagValue = sm.CreateDate
	}
	if tagValue == "" {
		return "", fmt.Errorf("%s: no parseable timestamp available for move", src)
	}
	parsed, err := prim.ParseDateTime(tagValue)
	if err != nil {
		return "", fmt.Errorf("%s: %w", src, err)
	}
	utc := parsed.Time().UTC()
	destDir := filepath.Join(dstDir, utc.Format("2006"), utc.Format("01"))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	base := fmt.Sprintf("%s_%s%03d", utc.Format("060102"), utc.Format("150405"), utc.Nanosecond()/1_000_000)

	suffixes := "bcdefghijklmnopqrstuvwxyz"
	for i := -1; i < len(suffixes); i++ {
		candidate := filepath.Join(destDir, base+"."+ext)
		if i >= 0 {
			candidate = filepath.Join(destDir, fmt.Sprintf("%s_%c.%s", base, suffixes[i], ext))
		}
		if _, exists := f.files[candidate]; !exists {
			if _, err := os.Stat(candidate); err == nil {
				continue
			}
			m, ok := f.files[src]
			if !ok {
				return "", fmt.Errorf("%s: no such file", src)
			}
			if err := os.Rename(src, candidate); err != nil {
				return "", err
			}
			delete(f.files, src)
			m.SourceFile = candidate
			f.files[candidate] = m
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: exhausted collision counters", src)
}

func (f *FakeAdapter) RemoveFile(root, trash, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%s escapes root %s", path, root)
	}
	dest := filepath.Join(trash, rel)
	if _, exists := f.files[dest]; exists {
		return fmt.Errorf("cannot safely delete %s: name collision in %s", path, trash)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	m, ok := f.files[path]
	if !ok {
		return fmt.Errorf("%s: no such file", path)
	}
	if err := os.Rename(path, dest); err != nil {
		return err
	}
	delete(f.files, path)
	m.SourceFile = dest
	f.files[dest] = m
	return nil
}

func (f *FakeAdapter) VersionCheck() error {
	return nil
}

// ReadTag reads a tag's current value directly from the fake's in-memory
// store, for test assertions (mirrors original_source's assert_tag!).
func (f *FakeAdapter) ReadTag(path, tag string) string {
	return getField(f.files[path], tag)
}

// AssertDir fails the test unless the set of relative paths under root
// exactly matches want (mirrors original_source's assert_dir!).
func (f *FakeAdapter) AssertDir(t *testing.T, root string, want []string) {
	t.Helper()
	var got []string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(got)
	wantSorted := append([]string{}, want...)
	sort.Strings(wantSorted)
	if len(got) != len(wantSorted) {
		t.Fatalf("directory listing mismatch:\n got: %v\nwant: %v", got, wantSorted)
	}
	for i := range got {
		if got[i] != wantSorted[i] {
			t.Fatalf("directory listing mismatch:\n got: %v\nwant: %v", got, wantSorted)
		}
	}
}
