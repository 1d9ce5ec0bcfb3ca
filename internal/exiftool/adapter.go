// Package exiftool defines the metadata-tool collaborator interface the
// organizer depends on, and a concrete adapter backed by ExifTool: reads go
// through a persistent "-stay_open" process via github.com/barasher/go-exiftool
// (the teacher's dependency), while writes that need ExifTool's tag-copy
// argument syntax (e.g. "-Copyright<Copyright ${Creator}") shell out to the
// exiftool binary directly, since that syntax has no equivalent in the
// go-exiftool library's plain key/value Fields map.
package exiftool

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	goexif "github.com/barasher/go-exiftool"

	"github.com/bleemesser/photosort/internal/prim"
)

// MinVersion is the lowest ExifTool version this adapter has been verified
// against.
const MinVersion = 12.0

// Adapter is the metadata-tool collaborator interface from the catalog's
// external-interfaces design: a stateless facade over ExifTool operations.
// Organizer code depends only on this interface, never on the concrete
// implementation, so tests can substitute a fake (see internal/testutil).
type Adapter interface {
	ReadMetadata(path string) (prim.Metadata, error)
	ReadMetadataRecursive(root string, exclude string) ([]prim.Metadata, error)
	CopyMetadata(src, dst string) (prim.Metadata, error)
	CreateXMP(mediaPath string) (prim.Metadata, error)
	MoveFile(src string, metadataSrc string, dstDir string, ext string, dateTag string) (string, error)
	RemoveFile(root, trash, path string) error
	RunArgs(path string, args []string) error
	VersionCheck() error
}

// ExiftoolAdapter is the concrete Adapter backed by a real exiftool
// installation.
type ExiftoolAdapter struct {
	et *goexif.Exiftool
}

// NewExiftoolAdapter starts a persistent exiftool process for batch reads.
func NewExiftoolAdapter() (*ExiftoolAdapter, error) {
	et, err := goexif.NewExiftool(goexif.DateFormat("%Y-%m-%dT%H:%M:%S%z"))
	if err != nil {
		return nil, fmt.Errorf("starting exiftool: %w", err)
	}
	return &ExiftoolAdapter{et: et}, nil
}

// Close shuts down the persistent exiftool process.
func (a *ExiftoolAdapter) Close() error {
	return a.et.Close()
}

// VersionCheck verifies the running exiftool's version is at least
// MinVersion.
func (a *ExiftoolAdapter) VersionCheck() error {
	out, err := exec.Command("exiftool", "-ver").Output()
	if err != nil {
		return fmt.Errorf("checking exiftool version: %w", err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return fmt.Errorf("parsing exiftool version %q: %w", out, err)
	}
	if v < MinVersion {
		return fmt.Errorf("exiftool version %.2f is older than required minimum %.2f", v, MinVersion)
	}
	return nil
}

// ReadMetadata reads and returns the tags of one file.
func (a *ExiftoolAdapter) ReadMetadata(path string) (prim.Metadata, error) {
	results := a.et.ExtractMetadata(path)
	if len(results) == 0 {
		return prim.Metadata{}, fmt.Errorf("%s: exiftool returned no metadata", path)
	}
	if results[0].Err != nil {
		return prim.Metadata{}, fmt.Errorf("%s: %w", path, results[0].Err)
	}
	return fieldsToMetadata(path, results[0].Fields), nil
}

// ReadMetadataRecursive reads every file under root, skipping any path under
// exclude.
func (a *ExiftoolAdapter) ReadMetadataRecursive(root string, exclude string) ([]prim.Metadata, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if exclude != "" && isUnder(path, exclude) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	out := make([]prim.Metadata, 0, len(paths))
	for _, p := range paths {
		m, err := a.ReadMetadata(p)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// CopyMetadata copies supported tags from src onto dst, translating between
// EXIF/XMP/QuickTime schemas as ExifTool's "-tagsFromFile" understands, and
// returns dst's refreshed metadata.
func (a *ExiftoolAdapter) CopyMetadata(src, dst string) (prim.Metadata, error) {
	if err := runExiftool(dst, []string{"-overwrite_original", "-tagsFromFile", src, "-all:all"}); err != nil {
		return prim.Metadata{}, fmt.Errorf("copying metadata %s -> %s: %w", src, dst, err)
	}
	return a.ReadMetadata(dst)
}

// CreateXMP creates "<mediaPath>.xmp" by copying all supported tags, and
// returns the new sidecar's metadata. Fails if an XMP already exists at the
// target path.
func (a *ExiftoolAdapter) CreateXMP(mediaPath string) (prim.Metadata, error) {
	xmpPath := mediaPath + ".xmp"
	if _, err := os.Stat(xmpPath); err == nil {
		return prim.Metadata{}, fmt.Errorf("%s already exists", xmpPath)
	}
	if err := runExiftool(xmpPath, []string{"-tagsFromFile", mediaPath, "-all:all"}); err != nil {
		return prim.Metadata{}, fmt.Errorf("creating xmp for %s: %w", mediaPath, err)
	}
	return a.ReadMetadata(xmpPath)
}

// MoveFile renames src into "dstDir/YYYY/MM/yymmdd_HHMMSSfff<counter>.ext",
// reading the date from dateTag on metadataSrc (or src itself if
// metadataSrc is empty). When the target name is taken, the adapter itself
// appends a counter suffix (_b, _c, ... _z) in the style of ExifTool's own.
func (a *ExiftoolAdapter) MoveFile(src string, metadataSrc string, dstDir string, ext string, dateTag string) (string, error) {
	source := src
	if metadataSrc != "" {
		source = metadataSrc
	}
	m, err := a.ReadMetadata(source)
	if err != nil {
		return "", fmt.Errorf("reading move-date source %s: %w", source, err)
	}
	t, err := bestMoveTime(m, dateTag)
	if err != nil {
		return "", fmt.Errorf("%s: %w", src, err)
	}
	utc := t.UTC()
	yyyy := utc.Format("2006")
	mm := utc.Format("01")
	base := fmt.Sprintf("%s_%s%s", utc.Format("060102"), utc.Format("150405"), fmt.Sprintf("%03d", utc.Nanosecond()/1_000_000))

	destDir := filepath.Join(dstDir, yyyy, mm)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", destDir, err)
	}

	dest := filepath.Join(destDir, base+"."+ext)
	suffixes := "bcdefghijklmnopqrstuvwxyz"
	for i := -1; i < len(suffixes); i++ {
		candidate := dest
		if i >= 0 {
			candidate = filepath.Join(destDir, fmt.Sprintf("%s_%c.%s", base, suffixes[i], ext))
		}
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			if err := os.Rename(src, candidate); err != nil {
				return "", fmt.Errorf("moving %s -> %s: %w", src, candidate, err)
			}
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: exhausted collision counters in %s", src, destDir)
}

// RemoveFile moves path under trash, preserving its relative layout below
// root. Fails on collision or if path does not lie under root.
func (a *ExiftoolAdapter) RemoveFile(root, trash, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%s escapes root %s", path, root)
	}
	dest := filepath.Join(trash, rel)
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("cannot safely delete %s: name collision in %s", path, trash)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("moving %s to trash: %w", path, err)
	}
	return nil
}

// RunArgs runs exiftool with arbitrary arguments against path, for the
// tag-copy and MWG-alignment writes stage 3 issues directly.
func (a *ExiftoolAdapter) RunArgs(path string, args []string) error {
	return runExiftool(path, args)
}

func runExiftool(path string, args []string) error {
	full := append(append([]string{}, args...), "-overwrite_original", path)
	cmd := exec.Command("exiftool", full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("exiftool %v: %w: %s", full, err, stderr.String())
	}
	return nil
}

func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && !strings.HasPrefix(rel, "..")
}

func bestMoveTime(m prim.Metadata, preferredTag string) (time.Time, error) {
	candidates := []string{
		m.DateTimeOriginal, m.SubSecDateTimeOriginal, m.CreateDate, m.SubSecCreateDate,
	}
	if preferredTag != "" {
		candidates = append([]string{fieldByTag(m, preferredTag)}, candidates...)
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if parsed, err := prim.ParseDateTime(c); err == nil {
			return parsed.Time(), nil
		}
	}
	return time.Time{}, fmt.Errorf("no parseable timestamp available for move")
}

func fieldByTag(m prim.Metadata, tag string) string {
	switch tag {
	case "DateTimeOriginal":
		return m.DateTimeOriginal
	case "SubSecDateTimeOriginal":
		return m.SubSecDateTimeOriginal
	case "CreateDate":
		return m.CreateDate
	case "SubSecCreateDate":
		return m.SubSecCreateDate
	default:
		return ""
	}
}

func fieldsToMetadata(path string, fields map[string]interface{}) prim.Metadata {
	get := func(key string) string {
		if v, ok := fields[key]; ok {
			return fmt.Sprintf("%v", v)
		}
		return ""
	}
	m := prim.Metadata{
		SourceFile:             path,
		FileType:               get("FileType"),
		FileTypeExtension:      get("FileTypeExtension"),
		CompressorID:           get("CompressorID"),
		ContentIdentifier:      get("ContentIdentifier"),
		Creator:                get("Creator"),
		Copyright:              get("Copyright"),
		Make:                   get("Make"),
		Model:                  get("Model"),
		FileModifyDate:         get("FileModifyDate"),
		ModifyDate:             get("ModifyDate"),
		SubSecModifyDate:       get("SubSecModifyDate"),
		CreateDate:             get("CreateDate"),
		SubSecCreateDate:       get("SubSecCreateDate"),
		DateTimeOriginal:       get("DateTimeOriginal"),
		SubSecDateTimeOriginal: get("SubSecDateTimeOriginal"),
		GPSLatitude:            get("GPSLatitude"),
		GPSLongitude:           get("GPSLongitude"),
		GPSPosition:            get("GPSPosition"),
		City:                   get("City"),
		State:                  get("State"),
		Country:                get("Country"),
	}
	return m
}

var _ Adapter = (*ExiftoolAdapter)(nil)
