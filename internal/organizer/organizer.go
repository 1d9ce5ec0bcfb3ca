// Package organizer implements the six-stage pipeline that transforms a
// loaded catalog of media, sidecars, and Live Photo groups: cleanup, sidecar
// creation, automatic metadata updates, synchronization, validation, and
// move/rename. It is grounded on original_source/src/org/{organizer,
// stage_1_cleanup .. stage_6_organization}.rs, translated from Rust's
// BinaryHeap/FileMap/Handle idioms into Go generics and container/heap.
package organizer

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bleemesser/photosort/internal/exiftool"
	"github.com/bleemesser/photosort/internal/prim"
)

// MetadataUpdateConfig toggles stage 3's independent sub-passes.
type MetadataUpdateConfig struct {
	AlignMWGTags          bool
	SetCopyrightFromCreator bool
	SetLocationFromGPS     bool
	SetTimeZoneFromGPS     bool
}

// Enabled reports whether any stage-3 sub-pass is turned on.
func (c MetadataUpdateConfig) Enabled() bool {
	return c.AlignMWGTags || c.SetCopyrightFromCreator || c.SetLocationFromGPS || c.SetTimeZoneFromGPS
}

// ValidationConfig toggles stage 5's independent per-category checks.
type ValidationConfig struct {
	Attribution bool
	Camera      bool
	DateTime    bool
	Location    bool
}

// Enabled reports whether any validation category is turned on.
func (c ValidationConfig) Enabled() bool {
	return c.Attribution || c.Camera || c.DateTime || c.Location
}

// Organizer owns the entity maps, the Live-Photo linker, and the set of
// media that has passed validation. Every stage method mutates this state in
// place; the pipeline is single-threaded and cooperative, per catalog §5 —
// no stage spawns goroutines across entities.
type Organizer struct {
	source  string
	trash   string // "" if not supplied (import mode: cleanup logs, does not move).
	dstRoot string // set by MoveAndRename.

	media    *prim.FileMap[prim.Media]
	sidecars *prim.FileMap[prim.SidecarInitial]
	dupes    *prim.FileMap[prim.SidecarDupe]

	livePhotoMap map[string]*prim.LivePhotoLinker

	validMedia map[prim.Handle[prim.Media]]struct{}

	metadataUpdates MetadataUpdateConfig
	validation      ValidationConfig

	zoneFinder ZoneFinder // lazily set by ApplyMetadataUpdates, or injected by tests via SetZoneFinder.

	adapter exiftool.Adapter
	log     *slog.Logger
}

// New constructs an empty Organizer. Use Load to populate it from a source
// directory.
func New(adapter exiftool.Adapter, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Organizer{
		media:        prim.NewFileMap[prim.Media](),
		sidecars:     prim.NewFileMap[prim.SidecarInitial](),
		dupes:        prim.NewFileMap[prim.SidecarDupe](),
		livePhotoMap: make(map[string]*prim.LivePhotoLinker),
		validMedia:   make(map[prim.Handle[prim.Media]]struct{}),
		adapter:      adapter,
		log:          logger,
	}
}

// SetMetadataUpdateConfig installs stage 3's sub-pass toggles.
func (o *Organizer) SetMetadataUpdateConfig(c MetadataUpdateConfig) { o.metadataUpdates = c }

// SetValidationConfig installs stage 5's per-category toggles.
func (o *Organizer) SetValidationConfig(c ValidationConfig) { o.validation = c }

// ValidationConfig returns the currently installed validation toggles, so
// stage 6 can decide whether "no validation enabled" makes it a no-op.
func (o *Organizer) ValidationConfig() ValidationConfig { return o.validation }

// SetZoneFinder installs the collaborator stage 3's set-time-zone-from-gps
// sub-pass uses to resolve a GPS coordinate to an IANA zone name. Tests
// inject a fake here instead of loading tzf's real embedded dataset;
// production code leaves this nil and ApplyMetadataUpdates lazily loads the
// real one on first use.
func (o *Organizer) SetZoneFinder(f ZoneFinder) { o.zoneFinder = f }

// Load scans src (recursively, excluding trash if supplied), classifies each
// record, links sidecars to media by filename convention, and links Live
// Photo components by ContentIdentifier. Any construction failure aborts the
// whole load, per catalog §4.1/§7 ("Construction-time entity rejections
// abort the run, because the model would otherwise be incomplete").
func Load(adapter exiftool.Adapter, logger *slog.Logger, src string, trash string) (*Organizer, error) {
	if !filepath.IsAbs(src) {
		return nil, newStageError(KindConfiguration, "load", fmt.Errorf("source path %q is not absolute", src))
	}
	o := New(adapter, logger)
	o.source = src
	o.trash = trash

	records, err := adapter.ReadMetadataRecursive(src, trash)
	if err != nil {
		return nil, newStageError(KindToolFailure, "load", fmt.Errorf("scanning %s: %w", src, err))
	}

	for _, m := range records {
		if err := o.insertRecord(m); err != nil {
			return nil, newStageError(KindConstruction, "load", fmt.Errorf("loading %s: %w", m.SourceFile, err))
		}
	}
	o.linkSidecars()
	o.linkLivePhotos()
	return o, nil
}

func (o *Organizer) insertRecord(m prim.Metadata) error {
	category, err := m.GetFileCategory()
	if err != nil {
		return err
	}
	switch category {
	case prim.CategoryMedia:
		media, err := prim.NewMedia(m)
		if err != nil {
			return err
		}
		o.media.Insert(m.SourceFile, *media)
	case prim.CategorySidecarInitial:
		s, err := prim.NewSidecarInitial(m)
		if err != nil {
			return err
		}
		o.sidecars.Insert(m.SourceFile, *s)
	case prim.CategorySidecarDupe:
		d, err := prim.NewSidecarDupe(m)
		if err != nil {
			return err
		}
		o.dupes.Insert(m.SourceFile, *d)
	}
	return nil
}

func (o *Organizer) linkSidecars() {
	o.sidecars.IterIndexed(func(sh prim.Handle[prim.SidecarInitial], s *prim.SidecarInitial) {
		mediaPath := s.MediaPath()
		if mh, ok := o.media.Find(mediaPath); ok {
			if media, ok := o.media.Get(mh); ok {
				s.SetMediaHandle(mh)
				media.SetSidecar(sh)
			}
		}
	})
	o.dupes.IterIndexed(func(dh prim.Handle[prim.SidecarDupe], d *prim.SidecarDupe) {
		mediaPath := d.MediaPath()
		if mh, ok := o.media.Find(mediaPath); ok {
			if media, ok := o.media.Get(mh); ok {
				d.SetMediaHandle(mh)
				media.AddDupe(dh)
			}
		}
	})
}

func (o *Organizer) linkLivePhotos() {
	o.media.IterIndexed(func(h prim.Handle[prim.Media], media *prim.Media) {
		id, ok := media.ContentID()
		if !ok {
			return
		}
		linker, ok := o.livePhotoMap[id]
		if !ok {
			linker = prim.NewLivePhotoLinker()
			o.livePhotoMap[id] = linker
		}
		switch media.GetLivePhotoComponentType() {
		case prim.LivePhotoImage:
			linker.InsertImage(h, media)
		case prim.LivePhotoVideo:
			linker.InsertVideo(h, media)
		}
	})
}

// toAbsPath returns path unchanged when it is already absolute, and joins it
// onto the organizer's source root otherwise; kept as a named seam matching
// original_source's org::to_abs_path for the rare relative-path entry point
// (construction from tests).
func (o *Organizer) toAbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(o.source, path)
}

// RelativePaths returns, relative to the organizer's source root, every
// file currently tracked as media, an initial sidecar, or a duplicate
// sidecar. Used by the ambient `sync` flow to diff two trees; not part of
// the six-stage pipeline itself.
func (o *Organizer) RelativePaths() map[string]bool {
	out := make(map[string]bool)
	add := func(p string) {
		if rel, err := filepath.Rel(o.source, o.toAbsPath(p)); err == nil {
			out[rel] = true
		}
	}
	o.media.Iter(func(m *prim.Media) { add(m.Path()) })
	o.sidecars.Iter(func(s *prim.SidecarInitial) { add(s.GetMetadata().SourceFile) })
	o.dupes.Iter(func(d *prim.SidecarDupe) { add(d.GetMetadata().SourceFile) })
	return out
}

// removeByPath moves path to trash if a trash directory was configured,
// else only logs (import mode, per catalog §4.3's trash discipline).
func (o *Organizer) removeByPath(path string) error {
	if o.trash == "" {
		o.log.Warn("would remove file (no trash configured)", "path", path)
		return nil
	}
	o.log.Warn("removing file", "path", path)
	return o.adapter.RemoveFile(o.source, o.trash, path)
}
