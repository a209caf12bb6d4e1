/*package catio reads observation record files: whitespace-separated text with
one record per line. Lines with the wrong number of columns are skipped
rather than treated as fatal.
*/
package catio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phil-mansfield/psam/lib/grid"
)

// RecordFields is the number of columns in a valid record line: an ID, three
// coordinates, the packed fields, and the excluded fields.
const RecordFields = 4 + int(grid.NumFields) + grid.NumExcluded

var (
	// ErrFieldCount is wrapped by LineErrors for lines which don't have
	// RecordFields columns.
	ErrFieldCount = errors.New("wrong number of columns")

	// ErrLineTooLong is wrapped by LineErrors for lines longer than
	// TextConfig.MaxLineSize. The rest of the line is discarded.
	ErrLineTooLong = errors.New("line is longer than MaxLineSize")
)

// TextConfig contains information neccessary for parsing record files.
type TextConfig struct {
	Separator   byte // Character used to separate fields. ' ' means any whitespace.
	Comment     byte // Character used to start comments. 0 disables comments.
	SkipLines   int  // Number of lines to skip at the start of the file.
	MaxLineSize int  // Largest possible line size.
}

// DefaultConfig is a TextConfig which can read the background observation
// files written for the solver.
var DefaultConfig = TextConfig{
	Separator:   ' ',
	Comment:     '#',
	SkipLines:   0,
	MaxLineSize: 1 << 20,
}

// LineError describes a malformed line.
type LineError struct {
	Line   int // 1-based line number
	Fields int // number of columns found, 0 for lines that were too long
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (%d columns): %s", e.Line, e.Fields, e.Err.Error())
}

func (e *LineError) Unwrap() error { return e.Err }

// Scanner reads records one at a time. It's used like bufio.Scanner:
//
//    for s.Scan() {
//        rec := s.Record()
//    }
//    if err := s.Err(); err != nil { ... }
type Scanner struct {
	rd     *bufio.Reader
	config TextConfig
	closer io.Closer

	line, malformed int
	rec             grid.Record
	err             error

	// Malformed, if non-nil, is called for every skipped line.
	Malformed func(*LineError)
}

// NewScanner creates a Scanner reading from rd. An optional config can be
// provided, otherwise DefaultConfig will be used.
func NewScanner(rd io.Reader, config ...TextConfig) *Scanner {
	s := &Scanner{config: DefaultConfig}
	if len(config) > 0 {
		s.config = config[0]
	}
	if s.config.MaxLineSize <= 0 {
		s.config.MaxLineSize = DefaultConfig.MaxLineSize
	}

	// Room for a full line plus "\r\n".
	s.rd = bufio.NewReaderSize(rd, s.config.MaxLineSize+2)

	return s
}

// TextFile creates a Scanner for the file fname. The caller must Close it.
func TextFile(fname string, config ...TextConfig) (*Scanner, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	s := NewScanner(f, config...)
	s.closer = f
	return s, nil
}

// Close closes the underlying file, if the Scanner opened one.
func (s *Scanner) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Scan advances to the next valid record. Blank and comment-only lines are
// passed over silently, malformed lines are reported to Malformed and
// skipped. It returns false at the end of the input or on an I/O error.
func (s *Scanner) Scan() bool {
	for {
		line, tooLong, err := s.readLine()
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			return false
		}

		s.line++
		if s.line <= s.config.SkipLines {
			continue
		} else if tooLong {
			s.skip(&LineError{s.line, 0, ErrLineTooLong})
			continue
		}

		text := string(line)
		if s.config.Comment != 0 {
			if i := strings.IndexByte(text, s.config.Comment); i >= 0 {
				text = text[:i]
			}
		}

		fields := split(text, s.config.Separator)
		if len(fields) == 0 {
			continue
		}

		if err := parseRecord(fields, &s.rec); err != nil {
			s.skip(&LineError{s.line, len(fields), err})
			continue
		}
		return true
	}
}

// readLine returns the next line without its line ending. If the line is
// longer than MaxLineSize, tooLong is set and the line's contents are
// discarded. The returned slice is only valid until the next call.
func (s *Scanner) readLine() (line []byte, tooLong bool, err error) {
	line, isPrefix, err := s.rd.ReadLine()
	if err != nil {
		return nil, false, err
	}

	for isPrefix {
		tooLong = true
		_, isPrefix, err = s.rd.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, false, err
		}
	}

	if tooLong || len(line) > s.config.MaxLineSize {
		return nil, true, nil
	}
	return line, false, nil
}

func (s *Scanner) skip(e *LineError) {
	s.malformed++
	if s.Malformed != nil {
		s.Malformed(e)
	}
}

// Record returns the most recently scanned record. It is overwritten by the
// next call to Scan.
func (s *Scanner) Record() *grid.Record { return &s.rec }

// Err returns the first non-EOF I/O error encountered.
func (s *Scanner) Err() error { return s.err }

// Lines returns the number of lines read so far.
func (s *Scanner) Lines() int { return s.line }

// Skipped returns the number of malformed lines skipped so far.
func (s *Scanner) Skipped() int { return s.malformed }

// split separates a line into non-empty fields.
func split(text string, sep byte) []string {
	if sep == ' ' {
		return strings.Fields(text)
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}
	fields := strings.Split(text, string(sep))
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// parseRecord fills rec with the values in fields.
func parseRecord(fields []string, rec *grid.Record) error {
	if len(fields) != RecordFields {
		return ErrFieldCount
	}

	var vals [RecordFields - 1]float64
	for i := range vals {
		x, err := strconv.ParseFloat(fields[i+1], 64)
		// Out-of-range values parse to ±Inf or ±0 and are kept.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return err
		}
		vals[i] = x
	}

	rec.ID = fields[0]
	rec.Lat, rec.Lon, rec.Alt = vals[0], vals[1], vals[2]
	copy(rec.Values[:], vals[3:3+grid.NumFields])
	copy(rec.Excluded[:], vals[3+grid.NumFields:])

	return nil
}
