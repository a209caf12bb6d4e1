/*package compress writes and reads zstd-compressed dumps of packed grids.
*/
package compress

/* dump.go reads and writes dump files: a copy of the exact buffers handed to
the solver, so a run can be inspected or replayed without the original
observation file.

Layout: MagicNumber (uint32), Version (uint32), the compressed payload length
(int64), and then a single zstd block. The payload is nx, ny, nz (int64), the
lat/lon/alt extents (6 float64), and then the altitude, latitude, longitude,
input, and output buffers as float32 arrays. Everything is written in the
writer's byte order, which the reader detects from the magic number. */

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unsafe"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/psam/lib/grid"
)

const (
	// MagicNumber is an arbirary number at the start of all dump files which
	// should help identify when the code is run on something else by
	// accident.
	MagicNumber = 0x95a3d0f1

	// ReverseMagicNumber is the magic number if read on a machine with
	// flipped endianness.
	ReverseMagicNumber = 0xf1d0a395
	Version            = 1

	// ZStdLevel is the compression level used for dumps.
	ZStdLevel = 3
)

// WriteDump writes g to wr in the given byte order.
func WriteDump(wr io.Writer, g *grid.Grid, order binary.ByteOrder) error {
	payload := &bytes.Buffer{}

	dims := []int64{int64(g.NX), int64(g.NY), int64(g.NZ)}
	extents := []float64{
		g.LatExtent[0], g.LatExtent[1], g.LonExtent[0], g.LonExtent[1],
		g.AltExtent[0], g.AltExtent[1],
	}
	if err := binary.Write(payload, order, dims); err != nil { return err }
	if err := binary.Write(payload, order, extents); err != nil { return err }

	for _, buf := range dumpBuffers(g) {
		if err := binary.Write(payload, order, buf); err != nil { return err }
	}

	block, err := zstd.CompressLevel(nil, payload.Bytes(), ZStdLevel)
	if err != nil { return err }

	if err = binary.Write(wr, order, uint32(MagicNumber)); err != nil { return err }
	if err = binary.Write(wr, order, uint32(Version)); err != nil { return err }
	if err = binary.Write(wr, order, int64(len(block))); err != nil { return err }
	_, err = wr.Write(block)
	return err
}

// ReadDump reads a grid written by WriteDump.
func ReadDump(rd io.Reader) (*grid.Grid, error) {
	var magic, version uint32
	if err := binary.Read(rd, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}

	var order binary.ByteOrder
	switch magic {
	case MagicNumber: order = binary.LittleEndian
	case ReverseMagicNumber: order = binary.BigEndian
	default:
		return nil, fmt.Errorf("Magic number 0x%x does not belong to a dump file.", magic)
	}

	if err := binary.Read(rd, order, &version); err != nil { return nil, err }
	if version != Version {
		return nil, fmt.Errorf("Dump file has version %d, but only version %d is supported.", version, Version)
	}

	var n int64
	if err := binary.Read(rd, order, &n); err != nil { return nil, err }
	if n < 0 {
		return nil, fmt.Errorf("Dump file has a negative block size, %d.", n)
	}
	// n is untrusted: only read what's actually there.
	block, err := io.ReadAll(io.LimitReader(rd, n))
	if err != nil { return nil, err }
	if int64(len(block)) != n {
		return nil, fmt.Errorf("Dump file has a block size of %d bytes, but only %d bytes follow the header.", n, len(block))
	}

	raw, err := zstd.Decompress(nil, block)
	if err != nil { return nil, err }
	payload := bytes.NewReader(raw)

	dims := make([]int64, 3)
	extents := make([]float64, 6)
	if err := binary.Read(payload, order, dims); err != nil { return nil, err }
	if err := binary.Read(payload, order, extents); err != nil { return nil, err }

	shape := grid.Shape{NX: int(dims[0]), NY: int(dims[1]), NZ: int(dims[2])}
	if shape.NX < 0 || shape.NY < 0 || shape.NZ < 0 {
		return nil, fmt.Errorf("Dump file has an invalid shape, %d.", dims)
	}
	want := 4 * (int64(shape.NZ) + 2*int64(shape.Columns()) +
		2*int64(grid.NumFields)*int64(shape.Cells()))
	if want != int64(payload.Len()) {
		return nil, fmt.Errorf("Dump file with shape %s should contain %d bytes of buffers, but contains %d.",
			shape, want, payload.Len())
	}

	g := &grid.Grid{Shape: shape}
	g.Altitudes = make([]float32, shape.NZ)
	g.Latitude = make([]float32, shape.Columns())
	g.Longitude = make([]float32, shape.Columns())
	for f := range g.Fields {
		g.Fields[f] = make([]float32, shape.Cells())
		g.Output[f] = make([]float32, shape.Cells())
	}
	copy(g.LatExtent[:], extents[0:2])
	copy(g.LonExtent[:], extents[2:4])
	copy(g.AltExtent[:], extents[4:6])

	for _, buf := range dumpBuffers(g) {
		if err := binary.Read(payload, order, buf); err != nil { return nil, err }
	}

	return g, nil
}

// WriteDumpFile writes g to fname in the system's byte order.
func WriteDumpFile(fname string, g *grid.Grid) error {
	f, err := os.Create(fname)
	if err != nil { return err }

	err = WriteDump(f, g, SystemByteOrder())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadDumpFile reads a dump file written by WriteDumpFile.
func ReadDumpFile(fname string) (*grid.Grid, error) {
	f, err := os.Open(fname)
	if err != nil { return nil, err }
	defer f.Close()
	return ReadDump(f)
}

// dumpBuffers lists g's buffers in file order.
func dumpBuffers(g *grid.Grid) [][]float32 {
	bufs := [][]float32{g.Altitudes, g.Latitude, g.Longitude}
	bufs = append(bufs, g.Fields[:]...)
	bufs = append(bufs, g.Output[:]...)
	return bufs
}

// SystemByteOrder returns the byte order of the machine psam is running on.
func SystemByteOrder() binary.ByteOrder {
	// See https://stackoverflow.com/questions/51332658/any-better-way-to-check-endianness-in-go/51332762
	b := [2]byte{ }
	*(*uint16)(unsafe.Pointer(&b[0])) = uint16(0x0001)
	if b[0] == 0 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
