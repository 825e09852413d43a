package sim

// Hook is one entry of a Hooks registry.
type Hook[F any] struct {
	Source    string
	Magnitude int
	Fn        F
}

// Hooks is an ordered set of callbacks keyed by the source that installed
// them. Installing from the same source again updates the existing entry
// instead of adding a duplicate, so stacking effects stay a single call.
type Hooks[F any] struct {
	// Max caps accumulated magnitudes. Zero means no cap.
	Max     int
	entries []Hook[F]
}

// Upsert adds fn under source with magnitude delta, or, if source is
// already present, adds delta to its magnitude and replaces its function.
// It returns the resulting magnitude.
func (h *Hooks[F]) Upsert(source string, delta int, fn F) int {
	for i := range h.entries {
		if h.entries[i].Source == source {
			h.entries[i].Magnitude = h.clamp(h.entries[i].Magnitude + delta)
			h.entries[i].Fn = fn
			return h.entries[i].Magnitude
		}
	}
	m := h.clamp(delta)
	h.entries = append(h.entries, Hook[F]{Source: source, Magnitude: m, Fn: fn})
	return m
}

func (h *Hooks[F]) clamp(m int) int {
	if h.Max > 0 && m > h.Max {
		return h.Max
	}
	return m
}

// Magnitude returns the magnitude installed by source.
func (h *Hooks[F]) Magnitude(source string) (int, bool) {
	for _, e := range h.entries {
		if e.Source == source {
			return e.Magnitude, true
		}
	}
	return 0, false
}

// Remove deletes the entry installed by source.
func (h *Hooks[F]) Remove(source string) {
	for i, e := range h.entries {
		if e.Source == source {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Entries returns the hooks in installation order.
func (h *Hooks[F]) Entries() []Hook[F] {
	return h.entries
}

// Len returns the number of installed hooks.
func (h *Hooks[F]) Len() int {
	return len(h.entries)
}

// Clone returns an independent copy.
func (h *Hooks[F]) Clone() Hooks[F] {
	return Hooks[F]{Max: h.Max, entries: append([]Hook[F](nil), h.entries...)}
}
