package organizer

import "github.com/bleemesser/photosort/internal/prim"

// SyncLivePhotoMetadata is stage 4's first sub-pass: for each Live-Photo
// group with exactly one image and one video, copy the image sidecar's
// metadata onto the video sidecar. Groups missing a sidecar on either side,
// or still holding duplicates, are skipped with a warning. Grounded on
// stage_4_synchronization.rs's sync_live_photo_metadata.
func (o *Organizer) SyncLivePhotoMetadata() error {
	o.log.Info("synchronizing Live Photo metadata")

	for id, linker := range o.livePhotoMap {
		if !linker.IsPair() {
			o.log.Warn("Live Photo group is not a clean pair, skipping sync", "content_identifier", id)
			continue
		}
		imageHandle := linker.GetImageBest()
		videoHandle := linker.GetVideoBest()

		image, ok := o.media.Get(imageHandle)
		if !ok {
			continue
		}
		video, ok := o.media.Get(videoHandle)
		if !ok {
			continue
		}

		imageSidecarHandle, ok := image.GetSidecar()
		if !ok {
			o.log.Debug("image has no sidecar, skipping Live Photo sync", "content_identifier", id)
			continue
		}
		videoSidecarHandle, ok := video.GetSidecar()
		if !ok {
			o.log.Debug("video has no sidecar, skipping Live Photo sync", "content_identifier", id)
			continue
		}
		imageSidecar, ok := o.sidecars.Get(imageSidecarHandle)
		if !ok {
			continue
		}
		videoSidecar, ok := o.sidecars.Get(videoSidecarHandle)
		if !ok {
			continue
		}

		refreshed, err := o.adapter.CopyMetadata(o.toAbsPath(imageSidecar.GetMetadata().SourceFile), o.toAbsPath(videoSidecar.GetMetadata().SourceFile))
		if err != nil {
			return err
		}
		videoSidecar.UpdateMetadata(refreshed)
	}
	return nil
}

// SyncDupeMetadata is stage 4's second sub-pass: for every SidecarInitial
// linked to a Media, copy its metadata onto every SidecarDupe linked to that
// same Media. Leftover sidecars (no linked media) are skipped. Grounded on
// stage_4_synchronization.rs's sync_dupe_metadata.
func (o *Organizer) SyncDupeMetadata() error {
	o.log.Info("synchronizing duplicate sidecar metadata")

	var syncErr error
	o.sidecars.Iter(func(s *prim.SidecarInitial) {
		if syncErr != nil {
			return
		}
		mediaHandle, ok := s.GetMediaHandle()
		if !ok {
			o.log.Debug("sidecar has no linked media, skipping dupe sync", "sidecar", s.GetMetadata().SourceFile)
			return
		}
		media, ok := o.media.Get(mediaHandle)
		if !ok {
			return
		}
		media.IterDupes(func(dh prim.Handle[prim.SidecarDupe]) {
			if syncErr != nil {
				return
			}
			dupe, ok := o.dupes.Get(dh)
			if !ok {
				return
			}
			refreshed, err := o.adapter.CopyMetadata(o.toAbsPath(s.GetMetadata().SourceFile), o.toAbsPath(dupe.GetMetadata().SourceFile))
			if err != nil {
				syncErr = err
				return
			}
			dupe.UpdateMetadata(refreshed)
		})
	})
	return syncErr
}

// SyncMediaMetadata is stage 4's third sub-pass: for every Media with a
// linked sidecar, copy the sidecar's metadata onto the media file itself.
// Grounded on stage_4_synchronization.rs's sync_media_metadata.
func (o *Organizer) SyncMediaMetadata() error {
	o.log.Info("synchronizing media metadata from sidecars")

	var syncErr error
	o.media.Iter(func(media *prim.Media) {
		if syncErr != nil {
			return
		}
		sh, ok := media.GetSidecar()
		if !ok {
			o.log.Debug("media has no linked sidecar, skipping media sync", "media", media.Path())
			return
		}
		sidecar, ok := o.sidecars.Get(sh)
		if !ok {
			return
		}
		refreshed, err := o.adapter.CopyMetadata(o.toAbsPath(sidecar.GetMetadata().SourceFile), o.toAbsPath(media.Path()))
		if err != nil {
			syncErr = err
			return
		}
		media.UpdateMetadata(refreshed)
	})
	return syncErr
}
