package organizer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bleemesser/photosort/internal/prim"
)

func isAbs(path string) bool {
	return filepath.IsAbs(path)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// MoveAndRename is stage 6, the terminal stage: moves every surviving entity
// into dst, renamed by its resolved timestamp. Eligibility is force-or-
// validated (stage 5). If validation was never enabled and force is false,
// this is a no-op with a warning. Grounded on stage_6_organization.rs's
// move_and_rename_files.
//
// Per-group ordering follows catalog §4.8 literally: within a move, any
// duplicate sidecars move first, then the initial sidecar, then the media
// file itself — a different order from original_source's actual
// move_media_with_deps (dupes, media, sidecar); the catalog's explicit text
// is treated as authoritative (see DESIGN.md Open Question 2). The
// destination extension is computed from the in-memory Media entity before
// any of its files are touched, and when the initial sidecar is the metadata
// source the media's move follows it to its new path, so both orderings
// produce the same destination names; this implementation follows the
// documented one.
func (o *Organizer) MoveAndRename(dst string, force bool) error {
	if !isAbs(dst) {
		return newStageError(KindConfiguration, "move", fmt.Errorf("destination path %q is not absolute", dst))
	}
	if !dirExists(dst) {
		return newStageError(KindConfiguration, "move", fmt.Errorf("destination path %q does not exist", dst))
	}
	if !o.validation.Enabled() && !force {
		o.log.Warn("skipping move and rename: validation disabled")
		return nil
	}
	o.dstRoot = dst

	for id, linker := range o.livePhotoMap {
		if linker.IsLeftoverVideos() {
			continue
		}
		if err := o.moveLivePhotoGroup(id, linker, force); err != nil {
			return err
		}
	}

	var remaining []prim.Handle[prim.Media]
	o.media.IterIndexed(func(h prim.Handle[prim.Media], _ *prim.Media) {
		remaining = append(remaining, h)
	})
	for _, h := range remaining {
		media, ok := o.media.Take(h)
		if !ok {
			continue
		}
		sidecar, sidecarOK := o.takeSidecarOf(&media)
		dupes := o.takeDupesOf(&media)
		metadataSource := pickSource(&media, sidecar, sidecarOK)
		eligible := force || o.IsValid(h)
		if !eligible {
			o.log.Warn("not moving or renaming: file did not pass validation", "media", media.Path())
			continue
		}
		if err := o.moveMediaWithDepsUsingSource(media.Path(), media.Ext(), metadataSource, sidecar, sidecarOK, dupes); err != nil {
			return err
		}
	}
	return nil
}

func (o *Organizer) moveLivePhotoGroup(id string, linker *prim.LivePhotoLinker, force bool) error {
	mainHandle := linker.GetImageBest()
	eligible := force || o.IsValid(mainHandle)

	mainMedia, ok := o.media.Take(mainHandle)
	if !ok {
		return nil
	}
	mainSidecar, mainSidecarOK := o.takeSidecarOf(&mainMedia)
	mainDupes := o.takeDupesOf(&mainMedia)
	metadataSource := pickSource(&mainMedia, mainSidecar, mainSidecarOK)

	others := linker.Drain()
	for _, h := range others {
		if h == mainHandle {
			continue
		}
		media, ok := o.media.Take(h)
		if !ok {
			continue
		}
		sidecar, sidecarOK := o.takeSidecarOf(&media)
		dupes := o.takeDupesOf(&media)
		if !eligible {
			o.log.Warn("not moving or renaming: Live Photo group did not pass validation", "media", media.Path(), "content_identifier", id)
			continue
		}
		if err := o.moveMediaWithDepsUsingSource(media.Path(), media.Ext(), metadataSource, sidecar, sidecarOK, dupes); err != nil {
			return err
		}
	}

	if !eligible {
		o.log.Warn("not moving or renaming: file did not pass validation", "media", mainMedia.Path())
		return nil
	}
	return o.moveMediaWithDepsUsingSource(mainMedia.Path(), mainMedia.Ext(), metadataSource, mainSidecar, mainSidecarOK, mainDupes)
}

func (o *Organizer) takeSidecarOf(media *prim.Media) (prim.SidecarInitial, bool) {
	sh, ok := media.GetSidecar()
	if !ok {
		return prim.SidecarInitial{}, false
	}
	s, ok := o.sidecars.Take(sh)
	return s, ok
}

func (o *Organizer) takeDupesOf(media *prim.Media) []prim.SidecarDupe {
	var out []prim.SidecarDupe
	media.IterDupes(func(h prim.Handle[prim.SidecarDupe]) {
		if d, ok := o.dupes.Take(h); ok {
			out = append(out, d)
		}
	})
	return out
}

func pickSource(media *prim.Media, sidecar prim.SidecarInitial, hasSidecar bool) string {
	if hasSidecar {
		return sidecar.GetMetadata().SourceFile
	}
	return media.Path()
}

// moveMediaWithDepsUsingSource moves one media's dupes, then its initial
// sidecar, then the media file itself, all using metadataSource for the
// shared date/time template. When metadataSource is that initial sidecar, the
// media's move reads it from the path the sidecar was just moved to.
func (o *Organizer) moveMediaWithDepsUsingSource(mediaPath string, mediaExt string, metadataSource string, sidecar prim.SidecarInitial, hasSidecar bool, dupes []prim.SidecarDupe) error {
	for _, d := range dupes {
		ext := fmt.Sprintf("%s_%s.xmp", mediaExt, d.DupeNumber())
		if _, err := o.adapter.MoveFile(o.toAbsPath(d.GetMetadata().SourceFile), o.toAbsPath(metadataSource), o.dstRoot, ext, ""); err != nil {
			return fmt.Errorf("moving duplicate sidecar %s: %w", d.GetMetadata().SourceFile, err)
		}
	}
	if hasSidecar {
		ext := mediaExt + ".xmp"
		newPath, err := o.adapter.MoveFile(o.toAbsPath(sidecar.GetMetadata().SourceFile), o.toAbsPath(metadataSource), o.dstRoot, ext, "")
		if err != nil {
			return fmt.Errorf("moving sidecar %s: %w", sidecar.GetMetadata().SourceFile, err)
		}
		if metadataSource == sidecar.GetMetadata().SourceFile {
			metadataSource = newPath
		}
	}
	if _, err := o.adapter.MoveFile(o.toAbsPath(mediaPath), o.toAbsPath(metadataSource), o.dstRoot, mediaExt, ""); err != nil {
		return fmt.Errorf("moving %s: %w", mediaPath, err)
	}
	return nil
}
