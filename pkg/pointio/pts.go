package pointio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"proximity_components/pkg/geo"
)

// ErrMalformed is wrapped by every ParseError.
var ErrMalformed = errors.New("malformed input")

// ParseError reports the 1-based line a .pts file failed on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

// Instance is one input: a distance threshold and the points to cluster.
type Instance struct {
	Threshold float64
	Points    []geo.Point
}

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// ReadPTS parses the .pts format: the first line is the threshold, every
// following line is "x,y". Blank lines are ignored.
func ReadPTS(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	inst := &Instance{}
	haveThreshold := false
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if !haveThreshold {
			d, err := parseFloat(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Err: fmt.Errorf("threshold: %w", err)}
			}
			inst.Threshold = d
			haveThreshold = true
			continue
		}

		p, err := parsePoint(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		inst.Points = append(inst.Points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if !haveThreshold {
		return nil, &ParseError{Line: lineNo + 1, Err: errors.New("missing threshold line")}
	}

	return inst, nil
}

// LoadPTS opens and parses a .pts file.
func LoadPTS(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	inst, err := ReadPTS(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

func parsePoint(line string) (geo.Point, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return geo.Point{}, fmt.Errorf("want 2 comma-separated coordinates, got %d", len(fields))
	}
	x, err := parseFloat(fields[0])
	if err != nil {
		return geo.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := parseFloat(fields[1])
	if err != nil {
		return geo.Point{}, fmt.Errorf("y: %w", err)
	}
	return geo.Point{X: x, Y: y}, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}
