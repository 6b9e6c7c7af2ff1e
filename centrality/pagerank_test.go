package centrality_test

import (
	"context"
	"math"

	"github.com/brandonshearin/relgraph/centrality"
	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/graph/graphtest"
	"github.com/brandonshearin/relgraph/tabular"
	"github.com/brandonshearin/relgraph/tabular/store/memstore"
	gc "gopkg.in/check.v1"
	"golang.org/x/xerrors"
)

var _ = gc.Suite(new(PageRankTestSuite))

type PageRankTestSuite struct {
	be tabular.Backend
}

func (s *PageRankTestSuite) SetUpTest(c *gc.C) {
	s.be = memstore.NewInMemoryBackend()
}

func (s *PageRankTestSuite) TestKarateClub(c *gc.C) {
	g := graphtest.KarateClub(c, s.be)

	pr, err := centrality.PageRank(context.Background(), g, centrality.PageRankConfig{})
	c.Assert(err, gc.IsNil)

	ranks := ranksByID(c, s.be, pr)
	c.Assert(len(ranks), gc.Equals, 34)

	var sum float64
	for id, rank := range ranks {
		c.Assert(rank > 0, gc.Equals, true, gc.Commentf("vertex %d has non-positive pagerank %v", id, rank))
		sum += rank
	}
	c.Assert(math.Abs(sum-1.0) < 1e-4, gc.Equals, true,
		gc.Commentf("pageranks sum to %v, want 1.0", sum))
}

func (s *PageRankTestSuite) TestSimpleDirectedGraph(c *gc.C) {
	nodes := make([][]any, 5)
	for i := range nodes {
		nodes[i] = []any{int64(i)}
	}
	edges := [][]any{
		{int64(0), int64(1)},
		{int64(1), int64(2)},
		{int64(2), int64(4)},
		{int64(2), int64(0)},
		{int64(3), int64(4)},
		{int64(4), int64(0)},
		{int64(4), int64(2)},
	}
	nodeRel, err := s.be.FromRows([]string{"id"}, nodes)
	c.Assert(err, gc.IsNil)
	edgeRel, err := s.be.FromRows([]string{"src", "dst"}, edges)
	c.Assert(err, gc.IsNil)
	g, err := graph.New(s.be, nodeRel, edgeRel, graph.Directed())
	c.Assert(err, gc.IsNil)

	pr, err := centrality.PageRank(context.Background(), g, centrality.PageRankConfig{MaxIters: 5})
	c.Assert(err, gc.IsNil)

	ranks := ranksByID(c, s.be, pr)
	expected := map[int64]float64{0: 0.245, 1: 0.224, 2: 0.303, 3: 0.03, 4: 0.197}

	var sum float64
	for id, want := range expected {
		got := ranks[id]
		sum += got
		c.Assert(math.Abs(got-want) < 0.005, gc.Equals, true,
			gc.Commentf("vertex %d: pagerank %v, want about %v", id, got, want))
	}
	c.Assert(math.Abs(sum-1.0) < 1e-4, gc.Equals, true)
}

func (s *PageRankTestSuite) TestInvalidAlpha(c *gc.C) {
	g := graphtest.ChainGraph(c, s.be)

	_, err := centrality.PageRank(context.Background(), g, centrality.PageRankConfig{Alpha: 1.5})
	c.Assert(xerrors.Is(err, centrality.ErrInvalidAlpha), gc.Equals, true)
}

func ranksByID(c *gc.C, be tabular.Backend, pr tabular.Relation) map[int64]float64 {
	rows, err := tabular.CollectRows(context.Background(), be, pr)
	c.Assert(err, gc.IsNil)

	ranks := make(map[int64]float64, len(rows))
	for _, row := range rows {
		rank, ok := row["pagerank"].(float64)
		c.Assert(ok, gc.Equals, true, gc.Commentf("pagerank column holds %T", row["pagerank"]))
		ranks[row["node_id"].(int64)] = rank
	}
	return ranks
}
