package grid

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the values of one packed buffer.
type Summary struct {
	Name                   string
	Min, Max, Mean, StdDev float64
}

// Summarize computes a Summary for every input field of g, in Field order.
// Gap-filled zeros are included.
func Summarize(g *Grid) []Summary {
	out := make([]Summary, NumFields)
	x := make([]float64, g.Cells())
	for f := range g.Fields {
		out[f] = summarize(Field(f).Name(), g.Fields[f], x)
	}
	return out
}

// summarize uses buf as scratch space for the float64 conversion.
func summarize(name string, data []float32, buf []float64) Summary {
	s := Summary{Name: name}
	if len(data) == 0 {
		return s
	}

	buf = buf[:len(data)]
	for i := range data {
		buf[i] = float64(data[i])
	}

	s.Min, s.Max = floats.Min(buf), floats.Max(buf)
	s.Mean, s.StdDev = stat.MeanStdDev(buf, nil)
	return s
}

// Filled returns the number of distinct cells which at least one record wrote.
func (s *Store) Filled() int { return len(s.cells[U]) }
