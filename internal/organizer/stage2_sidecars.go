package organizer

import "github.com/bleemesser/photosort/internal/prim"

// CreateMissingSidecars is stage 2: every Media without a linked
// SidecarInitial gets a new "<media>.xmp" created by copying its tags; the
// new sidecar is inserted and linked on both sides. Grounded on
// stage_2_sidecars.rs's create_missing_sidecars — that implementation
// inserts the new SidecarInitial but, as read, does not appear to complete
// the back-link; this port follows catalog §4.4's explicit "link both
// sides" requirement instead (see DESIGN.md).
func (o *Organizer) CreateMissingSidecars() error {
	o.log.Info("creating XMP sidecars for media files without one")

	var handles []prim.Handle[prim.Media]
	o.media.IterIndexed(func(h prim.Handle[prim.Media], media *prim.Media) {
		if media.IsMissingSidecar() {
			handles = append(handles, h)
		}
	})

	for _, h := range handles {
		media, ok := o.media.Get(h)
		if !ok {
			continue
		}
		metadata, err := o.adapter.CreateXMP(o.toAbsPath(media.Path()))
		if err != nil {
			o.log.Warn("skipping sidecar creation", "media", media.Path(), "error", err)
			continue
		}
		sidecar, err := prim.NewSidecarInitial(metadata)
		if err != nil {
			return err
		}
		sh := o.sidecars.Insert(metadata.SourceFile, *sidecar)
		if s, ok := o.sidecars.Get(sh); ok {
			s.SetMediaHandle(h)
		}
		media.SetSidecar(sh)
	}
	return nil
}
