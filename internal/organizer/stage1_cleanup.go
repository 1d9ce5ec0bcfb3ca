package organizer

import "github.com/bleemesser/photosort/internal/prim"

// RemoveLivePhotoLeftovers is stage 1's first sub-pass: any Live-Photo group
// whose image side is empty is leftover video; every video handle in such a
// group is removed. Grounded on stage_1_cleanup.rs's
// remove_live_photo_leftovers.
func (o *Organizer) RemoveLivePhotoLeftovers() error {
	o.log.Info("removing leftover Live Photo videos")

	for id, linker := range o.livePhotoMap {
		if !linker.IsLeftoverVideos() {
			continue
		}
		for _, h := range linker.DrainVideos() {
			if err := o.removeMediaHandle(h); err != nil {
				return err
			}
		}
		delete(o.livePhotoMap, id)
	}
	return nil
}

// RemoveLivePhotoDuplicates is stage 1's second sub-pass: within each group,
// if a side has more than one member, keep the best and trash the rest.
// Grounded on stage_1_cleanup.rs's remove_live_photo_duplicates, which
// parameterizes the same algorithm over (has-duplicates, get-best, drain,
// insert) for images and videos; Go expresses that as two calls to the same
// closure-driven helper rather than a function-valued-parameter struct.
func (o *Organizer) RemoveLivePhotoDuplicates() error {
	o.log.Info("removing duplicate Live Photo components")

	for _, linker := range o.livePhotoMap {
		if err := o.dedupeSide(linker.HasDuplicateImages, linker.GetImageBest, linker.DrainImages, linker.InsertImage); err != nil {
			return err
		}
		if err := o.dedupeSide(linker.HasDuplicateVideos, linker.GetVideoBest, linker.DrainVideos, linker.InsertVideo); err != nil {
			return err
		}
	}
	return nil
}

func (o *Organizer) dedupeSide(
	hasDuplicates func() bool,
	getBest func() prim.Handle[prim.Media],
	drain func() []prim.Handle[prim.Media],
	insert func(prim.Handle[prim.Media], *prim.Media),
) error {
	if !hasDuplicates() {
		return nil
	}
	best := getBest()
	for _, h := range drain() {
		if h == best {
			continue
		}
		if err := o.removeMediaHandle(h); err != nil {
			return err
		}
	}
	media, ok := o.media.Get(best)
	if !ok {
		return nil
	}
	insert(best, media)
	return nil
}

// RemoveSidecarLeftovers is stage 1's third sub-pass: any SidecarInitial or
// SidecarDupe whose back-link is unset is removed. Grounded on
// stage_1_cleanup.rs's remove_sidecar_leftovers.
func (o *Organizer) RemoveSidecarLeftovers() error {
	o.log.Info("removing leftover sidecars")

	var toRemove []prim.Handle[prim.SidecarInitial]
	o.sidecars.IterIndexed(func(h prim.Handle[prim.SidecarInitial], s *prim.SidecarInitial) {
		if s.IsLeftover() {
			toRemove = append(toRemove, h)
		}
	})
	for _, h := range toRemove {
		s, ok := o.sidecars.Take(h)
		if !ok {
			continue
		}
		if err := o.removeByPath(s.GetMetadata().SourceFile); err != nil {
			return err
		}
	}

	var toRemoveDupes []prim.Handle[prim.SidecarDupe]
	o.dupes.IterIndexed(func(h prim.Handle[prim.SidecarDupe], d *prim.SidecarDupe) {
		if d.IsLeftover() {
			toRemoveDupes = append(toRemoveDupes, h)
		}
	})
	for _, h := range toRemoveDupes {
		d, ok := o.dupes.Take(h)
		if !ok {
			continue
		}
		if err := o.removeByPath(d.GetMetadata().SourceFile); err != nil {
			return err
		}
	}
	return nil
}

// removeMediaHandle takes media out of its FileMap and trashes its file.
func (o *Organizer) removeMediaHandle(h prim.Handle[prim.Media]) error {
	media, ok := o.media.Take(h)
	if !ok {
		return nil
	}
	return o.removeByPath(media.Path())
}
