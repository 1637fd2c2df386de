package profile

import (
	"slices"
	"testing"
)

func TestProfiler_StartDisabled(t *testing.T) {
	for _, p := range []Profiler{{}, {Mode: "no-such-mode", Quiet: true}} {
		s := p.Start()
		if _, ok := s.(ignore); !ok {
			t.Errorf("Start(%+v) = %T, want no-op", p, s)
		}

		s.Stop()
	}
}

func TestModes_Sorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("Modes() = %v, not sorted", m)
	}
}
