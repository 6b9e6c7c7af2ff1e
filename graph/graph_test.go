package graph_test

import (
	"context"
	"testing"

	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/tabular"
	"github.com/brandonshearin/relgraph/tabular/store/memstore"
	gc "gopkg.in/check.v1"
	"golang.org/x/xerrors"
)

var _ = gc.Suite(new(GraphTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type GraphTestSuite struct {
	be tabular.Backend
}

func (s *GraphTestSuite) SetUpTest(c *gc.C) {
	s.be = memstore.NewInMemoryBackend()
}

func (s *GraphTestSuite) makeRelations(c *gc.C) (tabular.Relation, tabular.Relation) {
	nodes, err := s.be.FromRows([]string{"id", "name"}, [][]any{
		{int64(1), "a"},
		{int64(2), "b"},
		{int64(3), "c"},
	})
	c.Assert(err, gc.IsNil)
	edges, err := s.be.FromRows([]string{"src", "dst", "w"}, [][]any{
		{int64(1), int64(2), 0.5},
		{int64(2), int64(3), 1.5},
	})
	c.Assert(err, gc.IsNil)
	return nodes, edges
}

func (s *GraphTestSuite) TestCanonicalRenames(c *gc.C) {
	nodes, edges := s.makeRelations(c)
	g, err := graph.New(s.be, nodes, edges, graph.WithWeightColumn("w"))
	c.Assert(err, gc.IsNil)

	c.Assert(g.Nodes().Columns(), gc.DeepEquals, []string{graph.ColID, "name"})
	c.Assert(g.Edges().Columns(), gc.DeepEquals, []string{graph.ColSrc, graph.ColDst, graph.ColWeight})
	c.Assert(g.IsWeighted(), gc.Equals, true)
	c.Assert(g.Directed(), gc.Equals, false)
}

func (s *GraphTestSuite) TestMissingColumn(c *gc.C) {
	nodes, edges := s.makeRelations(c)

	_, err := graph.New(s.be, nodes, edges, graph.WithIDColumn("nope"))
	c.Assert(xerrors.Is(err, graph.ErrMissingColumn), gc.Equals, true)

	_, err = graph.New(s.be, nodes, edges, graph.WithSrcColumn("nope"))
	c.Assert(xerrors.Is(err, graph.ErrMissingColumn), gc.Equals, true)

	_, err = graph.New(s.be, nodes, edges, graph.WithWeightColumn("nope"))
	c.Assert(xerrors.Is(err, graph.ErrMissingColumn), gc.Equals, true)
}

func (s *GraphTestSuite) TestWrongColumnType(c *gc.C) {
	nodes, edges := s.makeRelations(c)

	_, err := graph.New(s.be, nodes, edges, graph.WithIDColumn("name"))
	c.Assert(xerrors.Is(err, graph.ErrWrongColumnType), gc.Equals, true,
		gc.Commentf("string-typed id column must be rejected"))

	_, err = graph.New(s.be, nodes, edges, graph.WithDstColumn("w"))
	c.Assert(xerrors.Is(err, graph.ErrWrongColumnType), gc.Equals, true,
		gc.Commentf("float-typed dst column must be rejected"))
}

func (s *GraphTestSuite) TestCounts(c *gc.C) {
	nodes, edges := s.makeRelations(c)
	g, err := graph.New(s.be, nodes, edges)
	c.Assert(err, gc.IsNil)

	n, err := g.NumNodes(context.Background())
	c.Assert(err, gc.IsNil)
	c.Assert(n, gc.Equals, int64(3))

	m, err := g.NumEdges(context.Background())
	c.Assert(err, gc.IsNil)
	c.Assert(m, gc.Equals, int64(2))
}

func (s *GraphTestSuite) TestSetDirected(c *gc.C) {
	nodes, edges := s.makeRelations(c)
	g, err := graph.New(s.be, nodes, edges)
	c.Assert(err, gc.IsNil)

	directed := g.SetDirected(true)
	c.Assert(directed.Directed(), gc.Equals, true)
	c.Assert(g.Directed(), gc.Equals, false, gc.Commentf("SetDirected must not mutate the receiver"))
}
