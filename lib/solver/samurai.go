//go:build cgo && samurai

package solver

/*
#cgo LDFLAGS: -lsamurai
#include <stdlib.h>

extern void *create_vardriver3D_From_File(const char *config_path, int fixed_grid);

extern int run_vardriver3D(void *driver, int nx, int ny, int nsigma,
	char *ymd, int delta, int iter,
	float imin, float imax, float iincr,
	float jmin, float jmax, float jincr,
	float *sigmas, float *latitude, float *longitude,
	float *u1, float *v1, float *w1, float *th1, float *p1,
	float *usam, float *vsam, float *wsam, float *thsam, float *psam);
*/
import "C"

import (
	"sync"
	"unsafe"
)

// samurai calls into libsamurai. Handles are kept in a table so that the C
// pointers never have to round-trip through a Go integer.
type samurai struct {
	mu      sync.Mutex
	drivers map[Handle]unsafe.Pointer
}

// Library returns the Driver backed by libsamurai.
func Library() (Driver, error) {
	return &samurai{drivers: map[Handle]unsafe.Pointer{}}, nil
}

func (s *samurai) Create(configPath string, fixedGrid bool) Handle {
	cPath := C.CString(configPath)
	defer C.free(unsafe.Pointer(cPath))

	flag := C.int(0)
	if fixedGrid {
		flag = 1
	}

	ptr := C.create_vardriver3D_From_File(cPath, flag)
	if ptr == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h := Handle(len(s.drivers) + 1)
	s.drivers[h] = ptr
	return h
}

func (s *samurai) Run(h Handle, c *Call) int {
	s.mu.Lock()
	ptr := s.drivers[h]
	s.mu.Unlock()

	ymd := C.CString(c.BaseDate)
	defer C.free(unsafe.Pointer(ymd))

	return int(C.run_vardriver3D(ptr,
		C.int(c.NX), C.int(c.NY), C.int(c.NZ),
		ymd, C.int(c.Delta), C.int(c.Iterations),
		C.float(c.IMin), C.float(c.IMax), C.float(c.IIncr),
		C.float(c.JMin), C.float(c.JMax), C.float(c.JIncr),
		floatPtr(c.Sigmas), floatPtr(c.Latitude), floatPtr(c.Longitude),
		floatPtr(c.Inputs[0]), floatPtr(c.Inputs[1]), floatPtr(c.Inputs[2]),
		floatPtr(c.Inputs[3]), floatPtr(c.Inputs[4]),
		floatPtr(c.Outputs[0]), floatPtr(c.Outputs[1]), floatPtr(c.Outputs[2]),
		floatPtr(c.Outputs[3]), floatPtr(c.Outputs[4]),
	))
}

// floatPtr returns a C view of a Go buffer. The buffers contain no Go
// pointers, so cgo lets C read and write them for the length of the call.
func floatPtr(x []float32) *C.float {
	if len(x) == 0 {
		return nil
	}
	return (*C.float)(unsafe.Pointer(&x[0]))
}
