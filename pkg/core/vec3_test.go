package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/google/go-cmp/cmp"
)

func TestVec3_Luminance(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected float64
	}{
		{"white", NewVec3(1, 1, 1), 1.0},
		{"pure red", NewVec3(1, 0, 0), 0.299},
		{"pure green", NewVec3(0, 1, 0), 0.587},
		{"pure blue", NewVec3(0, 0, 1), 0.114},
		{"black", NewVec3(0, 0, 0), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Luminance(); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Luminance() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestVec3_IsFinite(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"finite", NewVec3(1, 2, 3), true},
		{"nan", NewVec3(math.NaN(), 0, 0), false},
		{"inf", NewVec3(0, math.Inf(1), 0), false},
		{"neg inf", NewVec3(0, 0, math.Inf(-1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.expected {
				t.Errorf("IsFinite() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	want := NewVec3(0.6, 0.8, 0)
	if diff := cmp.Diff(want, v, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("Normalize() of zero vector = %v, want zero vector", z)
	}
}

func TestVec3_Clamp(t *testing.T) {
	v := NewVec3(-1, 0.5, 2).Clamp(0, 1)
	want := NewVec3(0, 0.5, 1)
	if v != want {
		t.Errorf("Clamp() = %v, want %v", v, want)
	}
}

func TestVec3_Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	got := x.Cross(y)
	want := NewVec3(0, 0, 1)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Cross() mismatch (-want +got):\n%s", diff)
	}
}
