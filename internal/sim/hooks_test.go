package sim

import "testing"

func TestHooksUpsert(t *testing.T) {
	h := Hooks[func() int]{Max: 5}

	if m := h.Upsert("piercing", 1, func() int { return 1 }); m != 1 {
		t.Errorf("Upsert() = %d, expected 1", m)
	}
	h.Upsert("explosive", 2, func() int { return 2 })
	if m := h.Upsert("piercing", 3, func() int { return 3 }); m != 4 {
		t.Errorf("Upsert() = %d, expected 4", m)
	}
	if m := h.Upsert("piercing", 3, func() int { return 4 }); m != 5 {
		t.Errorf("Upsert() past cap = %d, expected 5", m)
	}

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", h.Len())
	}
	entries := h.Entries()
	if entries[0].Source != "piercing" || entries[1].Source != "explosive" {
		t.Errorf("Entries() order = %s, %s", entries[0].Source, entries[1].Source)
	}
	if got := entries[0].Fn(); got != 4 {
		t.Errorf("Upsert() kept old function, got %d", got)
	}

	if m, ok := h.Magnitude("explosive"); !ok || m != 2 {
		t.Errorf("Magnitude(explosive) = %d, %v", m, ok)
	}

	c := h.Clone()
	h.Remove("piercing")
	if h.Len() != 1 || c.Len() != 2 {
		t.Errorf("Remove() affected clone: len=%d clone=%d", h.Len(), c.Len())
	}
	if _, ok := h.Magnitude("piercing"); ok {
		t.Error("Magnitude() found removed source")
	}
}

func TestHooksUncapped(t *testing.T) {
	var h Hooks[func()]
	for i := 0; i < 10; i++ {
		h.Upsert("speed", 1, nil)
	}
	if m, _ := h.Magnitude("speed"); m != 10 {
		t.Errorf("Magnitude() = %d, expected 10", m)
	}
}
