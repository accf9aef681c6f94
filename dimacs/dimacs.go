// Package dimacs reads the DIMACS-like text format the CLI accepts:
//
//	c <comment>
//	p edge <n> <m>
//	e <u> <v>
//	n <v> <color>
//
// Vertices are 1-indexed in the file and 0-indexed internally; vertices
// without an n-line default to color 0. Parsing is strict: every edge
// must appear exactly once, the p-line's edge count must match, and any
// unrecognized line is an error.
package dimacs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/irsearch/symmetria/core"
)

// Sentinel errors; callers branch with errors.Is.
var (
	// ErrNoProblemLine is returned when no "p edge n m" line appears
	// before the end of input (or before the first e/n line).
	ErrNoProblemLine = errors.New("dimacs: missing problem line")

	// ErrMalformedLine is returned for a line that does not parse.
	ErrMalformedLine = errors.New("dimacs: malformed line")

	// ErrVertexRange is returned for a vertex index outside [1, n].
	ErrVertexRange = errors.New("dimacs: vertex index out of range")
)

// Parse reads a graph from r. Construction errors from the underlying
// builder (duplicate edges, count mismatches) are returned as-is so
// callers can distinguish them with errors.Is against the core
// sentinels.
func Parse(r io.Reader) (*core.Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		n, m   int
		haveP  bool
		colors []int32
		edges  [][2]int
	)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "c":
			continue
		case "p":
			if haveP {
				return nil, fmt.Errorf("%w: line %d: duplicate problem line", ErrMalformedLine, lineNo)
			}
			if len(fields) != 4 || fields[1] != "edge" {
				return nil, fmt.Errorf("%w: line %d: want \"p edge n m\"", ErrMalformedLine, lineNo)
			}
			var err error
			if n, err = strconv.Atoi(fields[2]); err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: bad vertex count", ErrMalformedLine, lineNo)
			}
			if m, err = strconv.Atoi(fields[3]); err != nil || m < 0 {
				return nil, fmt.Errorf("%w: line %d: bad edge count", ErrMalformedLine, lineNo)
			}
			colors = make([]int32, n)
			haveP = true
		case "e":
			if !haveP {
				return nil, fmt.Errorf("%w: line %d: e before p", ErrNoProblemLine, lineNo)
			}
			u, v, err := twoInts(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, lineNo, err)
			}
			if u < 1 || u > n || v < 1 || v > n {
				return nil, fmt.Errorf("%w: line %d", ErrVertexRange, lineNo)
			}
			edges = append(edges, [2]int{u - 1, v - 1})
		case "n":
			if !haveP {
				return nil, fmt.Errorf("%w: line %d: n before p", ErrNoProblemLine, lineNo)
			}
			v, c, err := twoInts(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, lineNo, err)
			}
			if v < 1 || v > n {
				return nil, fmt.Errorf("%w: line %d", ErrVertexRange, lineNo)
			}
			if c < 0 {
				return nil, fmt.Errorf("%w: line %d: negative color", ErrMalformedLine, lineNo)
			}
			colors[v-1] = int32(c)
		default:
			return nil, fmt.Errorf("%w: line %d: unknown line type %q", ErrMalformedLine, lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !haveP {
		return nil, ErrNoProblemLine
	}
	if len(edges) != m {
		return nil, fmt.Errorf("%w: %d edge lines, problem line declared %d", core.ErrEdgeCount, len(edges), m)
	}

	b := core.NewBuilder()
	if err := b.Initialize(n, 2*m); err != nil {
		return nil, err
	}
	for v := 0; v < n; v++ {
		if _, err := b.AddVertex(int(colors[v]), 0); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := b.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

func twoInts(fields []string) (int, int, error) {
	if len(fields) != 2 {
		return 0, 0, errors.New("want two integers")
	}
	a, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
