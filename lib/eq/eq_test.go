package eq

import (
	"math"
	"testing"
)

func TestFloat32Bits(t *testing.T) {
	nan := float32(math.NaN())
	negZero := float32(math.Copysign(0, -1))

	tests := []struct {
		x, y       []float32
		bits, vals bool
	}{
		{[]float32{}, []float32{}, true, true},
		{[]float32{1, 2}, []float32{1, 2}, true, true},
		{[]float32{1, 2}, []float32{1}, false, false},
		{[]float32{nan}, []float32{nan}, true, false},
		{[]float32{0}, []float32{negZero}, false, true},
	}

	for i := range tests {
		if bits := Float32Bits(tests[i].x, tests[i].y); bits != tests[i].bits {
			t.Errorf("%d) Expected Float32Bits(%g, %g) = %t, got %t.",
				i, tests[i].x, tests[i].y, tests[i].bits, bits)
		}
		if vals := Float32s(tests[i].x, tests[i].y); vals != tests[i].vals {
			t.Errorf("%d) Expected Float32s(%g, %g) = %t, got %t.",
				i, tests[i].x, tests[i].y, tests[i].vals, vals)
		}
	}
}
