package core

import (
	"math"
	"testing"
)

func TestDistribution1D_SampleDiscrete(t *testing.T) {
	d := NewDistribution1D([]float64{1, 3})

	tests := []struct {
		name          string
		u             float64
		expectedIndex int
		expectedPdf   float64
		expectedRemap float64
	}{
		{"First bucket start", 0, 0, 0.25, 0},
		{"First bucket middle", 0.125, 0, 0.25, 0.5},
		{"Second bucket start", 0.25, 1, 0.75, 0},
		{"Second bucket middle", 0.625, 1, 0.75, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, pdf, remapped := d.SampleDiscrete(tt.u)
			if index != tt.expectedIndex {
				t.Errorf("Expected index %d, got %d", tt.expectedIndex, index)
			}
			if math.Abs(pdf-tt.expectedPdf) > 1e-9 {
				t.Errorf("Expected pdf %f, got %f", tt.expectedPdf, pdf)
			}
			if math.Abs(remapped-tt.expectedRemap) > 1e-9 {
				t.Errorf("Expected remapped %f, got %f", tt.expectedRemap, remapped)
			}
		})
	}
}

func TestDistribution1D_AllZeroIsUniform(t *testing.T) {
	d := NewDistribution1D([]float64{0, 0, 0, 0})
	for i := 0; i < 4; i++ {
		if pdf := d.DiscretePDF(i); math.Abs(pdf-0.25) > 1e-9 {
			t.Errorf("Expected uniform pdf 0.25 for bucket %d, got %f", i, pdf)
		}
	}
	if index, _, _ := d.SampleDiscrete(0.6); index != 2 {
		t.Errorf("Expected bucket 2 for u=0.6, got %d", index)
	}
}

func TestDistribution1D_ZeroWeightNeverChosen(t *testing.T) {
	d := NewDistribution1D([]float64{1, 0, 1})
	for i := 0; i < 100; i++ {
		u := float64(i) / 100
		if index, _, _ := d.SampleDiscrete(u); index == 1 {
			t.Fatalf("Zero-weight bucket chosen for u=%f", u)
		}
	}
}

func TestDistribution1D_NegativeWeightPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for negative weight")
		}
	}()
	NewDistribution1D([]float64{1, -1})
}
