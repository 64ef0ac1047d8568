package util

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max int
		want            int
	}{
		{"in range", 5, 0, 9, 5},
		{"below", -3, 0, 9, 0},
		{"above", 42, 0, 9, 9},
		{"at min", 0, 0, 9, 0},
		{"at max", 9, 0, 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.value, tt.min, tt.max); got != tt.want {
				t.Errorf("Clamp(%d, %d, %d) = %d, want %d",
					tt.value, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestGenerateLut(t *testing.T) {
	lut := GenerateLut(10)
	if len(lut) != 10 {
		t.Fatalf("len(lut) = %d, want 10", len(lut))
	}

	for i, j := 0, 9; i < 5; i, j = i+1, j-1 {
		if lut[i] != lut[j] {
			t.Errorf("lut not symmetric: lut[%d]=%v, lut[%d]=%v", i, lut[i], j, lut[j])
		}
	}
	for i := 1; i < 5; i++ {
		if lut[i] <= lut[i-1] {
			t.Errorf("lut not increasing at %d: %v <= %v", i, lut[i], lut[i-1])
		}
	}
	for i, v := range lut {
		if v < 0 || v > 1 {
			t.Errorf("lut[%d] = %v, want within [0, 1]", i, v)
		}
	}
}
