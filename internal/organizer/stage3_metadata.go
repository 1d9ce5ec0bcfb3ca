package organizer

import (
	"fmt"
	"time"

	"github.com/bleemesser/photosort/internal/prim"
)

// ApplyMetadataUpdates is stage 3: opt-in per sub-pass, no-op if none are
// enabled. Grounded on stage_3_metadata.rs's apply_metadata_updates. Writes
// target the media's initial sidecar when one is linked, else the media
// file itself. MWG alignment is a separate tool invocation, run only on
// media (never XMP sidecars), matching the original's comment that ExifTool
// does not honor an offset write made in the same invocation as an MWG
// alignment.
func (o *Organizer) ApplyMetadataUpdates() error {
	if !o.metadataUpdates.Enabled() {
		return nil
	}
	o.log.Info("applying automatic metadata updates")

	if o.metadataUpdates.SetTimeZoneFromGPS && o.zoneFinder == nil {
		finder, err := newDefaultZoneFinder()
		if err != nil {
			return newStageError(KindMissingDependency, "apply-metadata-updates", fmt.Errorf("loading time zone polygon dataset: %w", err))
		}
		o.zoneFinder = finder
	}

	var handles []prim.Handle[prim.Media]
	o.media.IterIndexed(func(h prim.Handle[prim.Media], _ *prim.Media) {
		handles = append(handles, h)
	})

	for _, h := range handles {
		media, ok := o.media.Get(h)
		if !ok {
			continue
		}
		if err := o.applyMetadataUpdatesOne(h, media); err != nil {
			o.log.Warn("metadata update failed", "media", media.Path(), "error", err)
		}
	}
	return nil
}

func (o *Organizer) applyMetadataUpdatesOne(h prim.Handle[prim.Media], media *prim.Media) error {
	targetPath, metadata, isSidecar := o.writeTargetFor(media)

	var args []string
	if o.metadataUpdates.SetCopyrightFromCreator && metadata.Creator != "" && metadata.Copyright == "" {
		args = append(args, "-Copyright<Copyright ${Creator}")
	}
	if o.metadataUpdates.SetLocationFromGPS {
		if _, _, ok := metadata.GetLatLon(); ok {
			args = append(args, "-geolocate<GPSPosition")
		}
	}
	if o.metadataUpdates.SetTimeZoneFromGPS {
		if lat, lon, ok := metadata.GetLatLon(); ok {
			if dto, err := metadata.GetDateTimeOriginal(); err == nil {
				if zoneName := o.zoneFinder.GetTimezoneName(lon, lat); zoneName != "" {
					if offset, err := prim.OffsetForZone(dto.Naive, zoneName); err == nil {
						withOffset := applyOffset(dto, offset)
						args = append(args,
							fmt.Sprintf("-DateTimeOriginal=%s", withOffset),
							fmt.Sprintf("-OffsetTimeOriginal=%s", formatOffset(offset)),
						)
					} else {
						o.log.Warn("resolving time zone offset failed", "zone", zoneName, "error", err)
					}
				}
			}
		}
	}

	if len(args) > 0 {
		if err := o.adapter.RunArgs(targetPath, args); err != nil {
			return err
		}
		refreshed, err := o.adapter.ReadMetadata(targetPath)
		if err != nil {
			return err
		}
		o.storeRefreshed(h, isSidecar, refreshed)
	}

	if o.metadataUpdates.AlignMWGTags {
		// XMP sidecars can only hold XMP metadata, so there is no cross-schema
		// alignment to do there; this pass only ever targets the media file.
		if err := o.adapter.RunArgs(o.toAbsPath(media.Path()), []string{"-MWG:all<MWG:all"}); err != nil {
			return err
		}
		refreshed, err := o.adapter.ReadMetadata(o.toAbsPath(media.Path()))
		if err != nil {
			return err
		}
		media.UpdateMetadata(refreshed)
	}
	return nil
}

// writeTargetFor returns the path and metadata that stage 3 writes should
// target: the sidecar's if one is linked, else the media's own.
func (o *Organizer) writeTargetFor(media *prim.Media) (path string, metadata prim.Metadata, isSidecar bool) {
	if sh, ok := media.GetSidecar(); ok {
		if s, ok := o.sidecars.Get(sh); ok {
			return o.toAbsPath(s.GetMetadata().SourceFile), s.GetMetadata(), true
		}
	}
	return o.toAbsPath(media.Path()), media.GetMetadata(), false
}

func (o *Organizer) storeRefreshed(h prim.Handle[prim.Media], isSidecar bool, refreshed prim.Metadata) {
	media, ok := o.media.Get(h)
	if !ok {
		return
	}
	if isSidecar {
		if sh, ok := media.GetSidecar(); ok {
			if s, ok := o.sidecars.Get(sh); ok {
				s.UpdateMetadata(refreshed)
			}
		}
		return
	}
	media.UpdateMetadata(refreshed)
}

func applyOffset(dto prim.ParsedDateTime, offset time.Duration) string {
	t := dto.Naive
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d%s", t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), formatOffset(offset))
}

func formatOffset(offset time.Duration) string {
	total := int(offset.Seconds())
	sign := "+"
	if total < 0 {
		sign = "-"
		total = -total
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
}
