package dimacs_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/dimacs"
)

func TestParse_Triangle(t *testing.T) {
	in := `c a triangle
p edge 3 3
e 1 2
e 2 3
e 1 3
`
	g, err := dimacs.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 3, g.N())
	require.Equal(t, 6, g.M())
	require.True(t, g.HasEdge(0, 1))
	require.True(t, g.HasEdge(1, 2))
	require.True(t, g.HasEdge(0, 2))
}

func TestParse_VertexColors(t *testing.T) {
	in := `p edge 3 2
n 2 7
e 1 2
e 2 3
`
	g, err := dimacs.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.EqualValues(t, 0, g.Color(0))
	require.EqualValues(t, 7, g.Color(1))
	require.EqualValues(t, 0, g.Color(2))
}

func TestParse_MissingProblemLine(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("e 1 2\n"))
	require.ErrorIs(t, err, dimacs.ErrNoProblemLine)
}

func TestParse_VertexOutOfRange(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p edge 2 1\ne 1 5\n"))
	require.ErrorIs(t, err, dimacs.ErrVertexRange)
}

func TestParse_EdgeCountMismatch(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p edge 3 2\ne 1 2\n"))
	require.ErrorIs(t, err, core.ErrEdgeCount)
}

func TestParse_DuplicateEdge(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p edge 2 2\ne 1 2\ne 2 1\n"))
	require.ErrorIs(t, err, core.ErrDuplicateEdge)
}

func TestParse_UnknownLineType(t *testing.T) {
	_, err := dimacs.Parse(strings.NewReader("p edge 1 0\nx what\n"))
	require.ErrorIs(t, err, dimacs.ErrMalformedLine)
}
