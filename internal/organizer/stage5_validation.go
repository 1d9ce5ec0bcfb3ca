package organizer

import "github.com/bleemesser/photosort/internal/prim"

// Validate is stage 5: opt-in per category, no-op if none enabled. Collects
// the handles of every Media passing all enabled checks into the valid set
// consumed by stage 6. Grounded on stage_5_validation.rs's validate.
func (o *Organizer) Validate() error {
	if !o.validation.Enabled() {
		return nil
	}
	o.log.Info("validating metadata")

	o.media.IterIndexed(func(h prim.Handle[prim.Media], media *prim.Media) {
		metadata := media.GetMetadata()
		if sh, ok := media.GetSidecar(); ok {
			if s, ok := o.sidecars.Get(sh); ok {
				metadata = s.GetMetadata()
			}
		}

		// Every enabled check runs regardless of earlier failures, so a
		// single pass surfaces every relevant warning for this entity.
		valid := true
		if o.validation.Attribution && !o.validateAttribution(media.Path(), metadata) {
			valid = false
		}
		if o.validation.Camera && !o.validateCamera(media.Path(), metadata) {
			valid = false
		}
		if o.validation.DateTime && !o.validateDateTime(media.Path(), metadata) {
			valid = false
		}
		if o.validation.Location && !o.validateLocation(media.Path(), metadata) {
			valid = false
		}

		if valid {
			o.validMedia[h] = struct{}{}
		}
	})
	return nil
}

// IsValid reports whether h passed stage 5. It is false for every handle when
// stage 5 was never enabled; whether force overrides that is for the caller
// to decide.
func (o *Organizer) IsValid(h prim.Handle[prim.Media]) bool {
	_, ok := o.validMedia[h]
	return ok
}

func (o *Organizer) validateAttribution(path string, m prim.Metadata) bool {
	valid := true
	if m.Creator == "" {
		o.log.Warn("missing Creator", "media", path)
		valid = false
	}
	if m.Copyright == "" {
		o.log.Warn("missing Copyright", "media", path)
		valid = false
	}
	if valid && m.Copyright != "Copyright "+m.Creator {
		o.log.Debug("Copyright does not follow expected format", "media", path)
	}
	return valid
}

func (o *Organizer) validateCamera(path string, m prim.Metadata) bool {
	valid := true
	if m.Make == "" {
		o.log.Warn("missing Make", "media", path)
		valid = false
	}
	if m.Model == "" {
		o.log.Warn("missing Model", "media", path)
		valid = false
	}
	return valid
}

func (o *Organizer) validateDateTime(path string, m prim.Metadata) bool {
	dto, err := m.GetDateTimeOriginal()
	if err != nil {
		o.log.Warn("DateTimeOriginal missing or unparseable", "media", path, "error", err)
		return false
	}
	if !dto.HasOffset {
		o.log.Warn("DateTimeOriginal has no time zone", "media", path)
		return false
	}

	createStr := m.SubSecCreateDate
	if createStr == "" {
		createStr = m.CreateDate
	}
	create, err := prim.ParseDateTime(createStr)
	if err != nil {
		o.log.Warn("CreateDate missing or unparseable", "media", path, "error", err)
		return false
	}
	if !create.HasOffset {
		o.log.Warn("CreateDate has no time zone", "media", path)
		return false
	}

	if create.Time().Before(dto.Time()) {
		o.log.Warn("CreateDate precedes DateTimeOriginal", "media", path)
		return false
	}
	return true
}

func (o *Organizer) validateLocation(path string, m prim.Metadata) bool {
	valid := true
	if m.GPSPosition == "" {
		o.log.Warn("missing GPSPosition", "media", path)
		valid = false
	}
	if m.City == "" {
		o.log.Warn("missing City", "media", path)
		valid = false
	}
	if m.State == "" {
		o.log.Warn("missing State", "media", path)
		valid = false
	}
	if m.Country == "" {
		o.log.Warn("missing Country", "media", path)
		valid = false
	}
	return valid
}
