// Command photosort organizes a personal photo and video library: it scans
// a source tree, links sidecars and Live Photo pairs, deduplicates,
// propagates metadata, validates, and moves surviving files into a
// date-structured destination tree.
//
// Usage mirrors bleemesser-photosort/main.go's dispatch style (parse argv,
// branch on action, print a short summary line), but delegates all of the
// actual work to internal/cli, internal/organizer, internal/exiftool, and
// internal/catalog instead of main.go's original inline logic.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	bar "github.com/schollz/progressbar/v3"

	"github.com/bleemesser/photosort/internal/catalog"
	"github.com/bleemesser/photosort/internal/cli"
	"github.com/bleemesser/photosort/internal/exiftool"
	"github.com/bleemesser/photosort/internal/organizer"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "photosort:", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	cmd, err := cli.Parse(argv)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)

	adapter, err := exiftool.NewExiftoolAdapter()
	if err != nil {
		return fmt.Errorf("starting exiftool: %w", err)
	}
	defer adapter.Close()
	if err := adapter.VersionCheck(); err != nil {
		return err
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	switch cmd.Action {
	case "import":
		return doImport(adapter, cat, logger, cmd)
	case "organize":
		return doOrganize(adapter, cat, logger, cmd)
	case "check":
		return doCheck(adapter, cat, logger, cmd)
	case "sync":
		return doSync(adapter, cat, logger, cmd)
	default:
		return fmt.Errorf("unhandled action %q", cmd.Action)
	}
}

func newLogger(cmd cli.Command) *slog.Logger {
	level := slog.LevelInfo
	if cmd.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openCatalog() (*catalog.Catalog, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return catalog.Open(filepath.Join(dir, "photosort"))
}

func doImport(adapter exiftool.Adapter, cat *catalog.Catalog, logger *slog.Logger, cmd cli.Command) error {
	run, err := cat.StartRun("import", cmd.Source, "")
	if err != nil {
		return err
	}
	o, err := organizer.Load(adapter, logger, cmd.Source, cmd.Trash)
	if err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}

	if err := runCleanup(o); err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}

	if err := cat.SetConfig("last_import_source", cmd.Source); err != nil {
		logger.Warn("saving last-used import source", "error", err)
	}
	if err := run.Finish(catalog.Counts{Processed: countEntities(o)}, false); err != nil {
		logger.Warn("closing run journal entry", "error", err)
	}
	fmt.Printf("imported from %s\n", cmd.Source)
	return nil
}

func doOrganize(adapter exiftool.Adapter, cat *catalog.Catalog, logger *slog.Logger, cmd cli.Command) error {
	run, err := cat.StartRun("organize", cmd.Source, cmd.Dest)
	if err != nil {
		return err
	}

	o, err := organizer.Load(adapter, logger, cmd.Source, cmd.Trash)
	if err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	o.SetMetadataUpdateConfig(cmd.Fix)
	o.SetValidationConfig(cmd.Validation)

	progress := bar.Default(6, "organizing")

	if err := runCleanup(o); err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	progress.Add(1)

	if err := o.CreateMissingSidecars(); err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	progress.Add(1)

	if err := o.ApplyMetadataUpdates(); err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	progress.Add(1)

	// Media-sync is left disabled by default (o.SyncMediaMetadata is not
	// called here), matching the original import/organize commands.
	if err := o.SyncLivePhotoMetadata(); err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	if err := o.SyncDupeMetadata(); err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	progress.Add(1)

	if err := o.Validate(); err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	progress.Add(1)

	processed := countEntities(o)
	if err := o.MoveAndRename(cmd.Dest, cmd.Force); err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	progress.Add(1)
	progress.Finish()

	if err := cat.SetConfig("last_organize_dest", cmd.Dest); err != nil {
		logger.Warn("saving last-used destination", "error", err)
	}
	if err := run.Finish(catalog.Counts{Processed: processed}, false); err != nil {
		logger.Warn("closing run journal entry", "error", err)
	}
	fmt.Printf("organized %s into %s (%s)\n", cmd.Source, cmd.Dest, humanize.Comma(int64(processed)))
	return nil
}

func doCheck(adapter exiftool.Adapter, cat *catalog.Catalog, logger *slog.Logger, cmd cli.Command) error {
	run, err := cat.StartRun("check", cmd.Source, "")
	if err != nil {
		return err
	}
	o, err := organizer.Load(adapter, logger, cmd.Source, cmd.Trash)
	if err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	o.SetValidationConfig(cmd.Validation)
	if err := o.Validate(); err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	processed := countEntities(o)
	run.Finish(catalog.Counts{Processed: processed}, false)
	fmt.Printf("checked %s: %s entities inspected\n", cmd.Source, humanize.Comma(int64(processed)))
	return nil
}

func doSync(adapter exiftool.Adapter, cat *catalog.Catalog, logger *slog.Logger, cmd cli.Command) error {
	run, err := cat.StartRun("sync", cmd.Source, cmd.Dest)
	if err != nil {
		return err
	}
	copied, err := cli.RunSync(adapter, logger, cmd.Source, cmd.Dest)
	if err != nil {
		run.Finish(catalog.Counts{}, true)
		return err
	}
	run.Finish(catalog.Counts{Moved: copied}, false)
	fmt.Printf("synced %s into %s: %s files copied\n", cmd.Source, cmd.Dest, humanize.Comma(int64(copied)))
	return nil
}

func countEntities(o *organizer.Organizer) int {
	return len(o.RelativePaths())
}

func runCleanup(o *organizer.Organizer) error {
	if err := o.RemoveLivePhotoLeftovers(); err != nil {
		return err
	}
	if err := o.RemoveLivePhotoDuplicates(); err != nil {
		return err
	}
	return o.RemoveSidecarLeftovers()
}
