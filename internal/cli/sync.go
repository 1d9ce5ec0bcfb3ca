package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bleemesser/photosort/internal/exiftool"
	"github.com/bleemesser/photosort/internal/organizer"
)

// RunSync is the legacy two-library sync flow from
// bleemesser-photosort/main.go's Library.SyncInto: every media file present
// in the first organized tree but absent (by relative date-bucket path) from
// the second gets copied across, sidecar included. Unlike the teacher's
// version this loads both trees through the Organizer (so Live Photo/dupe
// relationships are understood) rather than a bespoke library.json index,
// but the copy primitive below is lifted directly from util/import.go's
// Copy.
func RunSync(adapter exiftool.Adapter, logger *slog.Logger, first, second string) (copied int, err error) {
	src, err := organizer.Load(adapter, logger, first, "")
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", first, err)
	}
	dst, err := organizer.Load(adapter, logger, second, "")
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", second, err)
	}

	known := dst.RelativePaths()
	for rel := range src.RelativePaths() {
		if known[rel] {
			continue
		}
		from := filepath.Join(first, rel)
		to := filepath.Join(second, rel)
		if err := copyFile(from, to); err != nil {
			return copied, fmt.Errorf("syncing %s: %w", rel, err)
		}
		copied++
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		os.Remove(dst)
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return nil
}
