package embedding

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
	}{
		{name: "Simple", in: []float32{3, 4}},
		{name: "Negative components", in: []float32{-1, 2, -3}},
		{name: "Already unit", in: []float32{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Normalize(tt.in)
			var sum float64
			for _, v := range tt.in {
				sum += float64(v) * float64(v)
			}
			if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
				t.Errorf("normalized vector has length %f, want 1", math.Sqrt(sum))
			}
		})
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	Normalize(v)
	for i, x := range v {
		if x != 0 {
			t.Errorf("zero vector changed at %d: %f", i, x)
		}
	}
}
