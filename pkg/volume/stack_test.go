package volume

import (
	"math"
	"testing"

	"github.com/jianoll/taichi/pkg/core"
)

func TestStack_TopIsAtmosphereAndLenTracksPushPop(t *testing.T) {
	atmosphere := Vacuum{}
	s := NewStack(atmosphere)
	if s.Top() != core.VolumeMaterial(atmosphere) {
		t.Fatalf("Top() after construction = %v, want atmosphere", s.Top())
	}

	fog := Vacuum{}
	s.Push(fog)
	if s.Len() != 2 {
		t.Fatalf("Len() after Push = %d, want 2", s.Len())
	}

	s.Pop()
	if s.Len() != 1 {
		t.Fatalf("Len() after Pop = %d, want 1", s.Len())
	}
}

func TestStack_PopEmptyPanics(t *testing.T) {
	s := NewStack(Vacuum{})
	s.Pop()

	defer func() {
		if recover() == nil {
			t.Fatal("Pop() on empty stack did not panic")
		}
	}()
	s.Pop()
}

func TestVacuum_NeverStopsOrAttenuates(t *testing.T) {
	v := Vacuum{}
	if d := v.SampleFreeDistance(nil); !math.IsInf(d, 1) {
		t.Errorf("SampleFreeDistance() = %v, want +Inf", d)
	}
	if e := v.SampleEvent(nil); e != core.VolumeNull {
		t.Errorf("SampleEvent() = %v, want VolumeNull", e)
	}
	if a := v.GetAttenuation(100); a != core.NewVec3(1, 1, 1) {
		t.Errorf("GetAttenuation() = %v, want (1,1,1)", a)
	}
}
