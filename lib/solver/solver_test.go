package solver

import (
	"errors"
	"testing"

	"github.com/phil-mansfield/psam/lib/grid"
)

// fakeDriver records how it was called.
type fakeDriver struct {
	handle Handle
	status int

	creates, runs int
	configPath    string
	last          *Call
}

func (d *fakeDriver) Create(configPath string, fixedGrid bool) Handle {
	d.creates++
	d.configPath = configPath
	return d.handle
}

func (d *fakeDriver) Run(h Handle, c *Call) int {
	d.runs++
	d.last = c
	if len(c.Outputs[grid.U]) > 0 {
		c.Outputs[grid.U][0] = 42
	}
	return d.status
}

func testGrid() *grid.Grid {
	b := grid.NewBuilder()
	b.Add(&grid.Record{Lat: 10, Lon: 20, Alt: 100, Values: [grid.NumFields]float64{1, 2, 3, 4, 5}})
	b.Add(&grid.Record{Lat: 10, Lon: 20, Alt: 200, Values: [grid.NumFields]float64{6, 7, 8, 9, 10}})
	b.Add(&grid.Record{Lat: 11, Lon: 20, Alt: 100, Values: [grid.NumFields]float64{11, 12, 13, 14, 15}})
	return b.Grid()
}

func TestInvokeNullHandle(t *testing.T) {
	d := &fakeDriver{handle: 0, status: 7}
	c, err := NewCall(testGrid(), TimeParams{}, Domain{})
	if err != nil {
		t.Fatal(err.Error())
	}

	h := d.Create("conf.xml", false)
	status, err := Invoke(d, h, c)
	if !errors.Is(err, ErrDriverCreation) {
		t.Errorf("Expected ErrDriverCreation, got %v.", err)
	} else if d.runs != 0 {
		t.Errorf("Run was called %d times with a null handle.", d.runs)
	} else if status != 0 {
		t.Errorf("Expected status 0 with a null handle, got %d.", status)
	}
}

func TestInvokeStatus(t *testing.T) {
	for i, want := range []int{0, 1, -1, 255} {
		d := &fakeDriver{handle: 3, status: want}
		g := testGrid()
		tp := TimeParams{"2015092918", 15, 60}
		dom := Domain{0, 12600, 45, 0, 6750, 45}

		c, err := NewCall(g, tp, dom)
		if err != nil {
			t.Fatal(err.Error())
		}
		status, err := Invoke(d, d.Create("conf.xml", true), c)

		if err != nil {
			t.Errorf("%d) Unexpected error: %s", i, err.Error())
		} else if status != want {
			t.Errorf("%d) Expected status %d, got %d.", i, want, status)
		} else if d.runs != 1 {
			t.Errorf("%d) Expected one call to Run, got %d.", i, d.runs)
		} else if d.last.NX != 2 || d.last.NY != 1 || d.last.NZ != 2 {
			t.Errorf("%d) Expected shape 2x1x2, got %dx%dx%d.",
				i, d.last.NX, d.last.NY, d.last.NZ)
		} else if d.last.TimeParams != tp || d.last.Domain != dom {
			t.Errorf("%d) Expected %+v %+v, got %+v %+v.",
				i, tp, dom, d.last.TimeParams, d.last.Domain)
		} else if g.Output[grid.U][0] != 42 {
			t.Errorf("%d) Solver output wasn't written into the grid's buffer.", i)
		} else if &d.last.Inputs[grid.Theta][0] != &g.Fields[grid.Theta][0] {
			t.Errorf("%d) Call copied the input buffers.", i)
		}
	}
}

func TestNewCallChecksLengths(t *testing.T) {
	tests := []func(g *grid.Grid){
		func(g *grid.Grid) {},
		func(g *grid.Grid) { g.Altitudes = g.Altitudes[:1] },
		func(g *grid.Grid) { g.Latitude = append(g.Latitude, 0) },
		func(g *grid.Grid) { g.Fields[grid.Qv] = g.Fields[grid.Qv][:3] },
		func(g *grid.Grid) { g.Output[grid.W] = nil },
	}

	for i := range tests {
		g := testGrid()
		tests[i](g)
		_, err := NewCall(g, TimeParams{}, Domain{})
		if i == 0 && err != nil {
			t.Errorf("%d) Unexpected error: %s", i, err.Error())
		} else if i > 0 && err == nil {
			t.Errorf("%d) Expected a length error.", i)
		}
	}
}

func TestDomainFromExtents(t *testing.T) {
	g := testGrid()
	d := DomainFromExtents(g)
	want := Domain{10, 11, 0.5, 20, 20, 0}
	if d != want {
		t.Errorf("Expected %+v, got %+v.", want, d)
	}

	empty := grid.NewBuilder().Grid()
	if d := DomainFromExtents(empty); d != (Domain{}) {
		t.Errorf("Expected a zero domain for an empty grid, got %+v.", d)
	}
}
