package pregel

import (
	"context"
	"testing"

	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/graph/graphtest"
	"github.com/brandonshearin/relgraph/tabular"
	"github.com/brandonshearin/relgraph/tabular/store/memstore"
	gc "gopkg.in/check.v1"
	"golang.org/x/xerrors"
)

var _ = gc.Suite(new(PregelTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type PregelTestSuite struct {
	be tabular.Backend
}

func (s *PregelTestSuite) SetUpTest(c *gc.C) {
	s.be = memstore.NewInMemoryBackend()
}

// chainPregel wires the propagation scenario: a single value column
// seeded at vertex 1 that spreads along the chain via max-aggregated
// messages.
func chainPregel(g *graph.Graph) *Pregel {
	return New(g).
		AddVertexCol(
			"value",
			tabular.IfElse(tabular.Col(graph.ColID).Eq(tabular.Literal(1)), tabular.Literal(1), tabular.Literal(0)),
			tabular.IfElse(
				Msg().IsNull(),
				tabular.Col("value"),
				tabular.IfElse(Msg().Gt(tabular.Col("value")), Msg(), tabular.Col("value")),
			),
		).
		AddMessageToDst(tabular.IfElse(
			Dst("value").Le(Src("value")),
			Src("value"),
			tabular.Null(),
		)).
		SetAggExpressionFunc(MaxAggregator())
}

func (s *PregelTestSuite) TestChainPropagation(c *gc.C) {
	g := graphtest.ChainGraph(c, s.be)

	result, err := chainPregel(g).Run(context.Background())
	c.Assert(err, gc.IsNil)

	rows, err := tabular.CollectRows(context.Background(), s.be, result)
	c.Assert(err, gc.IsNil)
	c.Assert(len(rows), gc.Equals, 5, gc.Commentf("one output row per vertex"))

	seen := make(map[int64]bool)
	for _, row := range rows {
		id := row[graph.ColID].(int64)
		c.Assert(seen[id], gc.Equals, false, gc.Commentf("vertex %d appeared twice", id))
		seen[id] = true
		c.Assert(asInt(c, row["value"]), gc.Equals, int64(1), gc.Commentf("vertex %d did not converge", id))

		_, hasMsg := row[MsgCol]
		_, hasFlag := row[ActiveFlagCol]
		c.Assert(hasMsg, gc.Equals, false)
		c.Assert(hasFlag, gc.Equals, false)
	}
}

func (s *PregelTestSuite) TestValidation(c *gc.C) {
	g := graphtest.ChainGraph(c, s.be)

	_, err := New(g).Run(context.Background())
	c.Assert(err, gc.NotNil)
	c.Assert(xerrors.Is(err, ErrNoAggregator), gc.Equals, true)
	c.Assert(xerrors.Is(err, ErrNoMessages), gc.Equals, true)
	c.Assert(xerrors.Is(err, ErrNoVertexColumns), gc.Equals, true)

	_, err = chainPregel(g).SetMaxIter(0).Run(context.Background())
	c.Assert(xerrors.Is(err, ErrNonPositiveMaxIter), gc.Equals, true)

	_, err = chainPregel(g).SetCheckpointInterval(-1).Run(context.Background())
	c.Assert(xerrors.Is(err, ErrNegativeCheckpointInterval), gc.Equals, true)

	_, err = chainPregel(g).SetStopIfAllUnactive(true).Run(context.Background())
	c.Assert(xerrors.Is(err, ErrActiveFlagRequired), gc.Equals, true,
		gc.Commentf("all-inactive stop without an active flag must be rejected"))
}

func (s *PregelTestSuite) TestMaxIterPerformsAtMostThatManySupersteps(c *gc.C) {
	g := graphtest.ChainGraph(c, s.be)

	result, err := chainPregel(g).SetMaxIter(1).Run(context.Background())
	c.Assert(err, gc.IsNil)

	rows, err := tabular.CollectRows(context.Background(), s.be, result)
	c.Assert(err, gc.IsNil)

	// One superstep moves the seed exactly one hop down the chain.
	values := valuesByID(c, rows)
	c.Assert(values, gc.DeepEquals, map[int64]int64{1: 1, 2: 1, 3: 0, 4: 0, 5: 0})
}

func (s *PregelTestSuite) TestEmptyEdgeRelationStopsEarly(c *gc.C) {
	nodes, err := s.be.FromRows([]string{"id"}, [][]any{{int64(1)}, {int64(2)}})
	c.Assert(err, gc.IsNil)
	edges, err := s.be.FromRows([]string{"src", "dst"}, nil)
	c.Assert(err, gc.IsNil)
	g, err := graph.New(s.be, nodes, edges)
	c.Assert(err, gc.IsNil)

	result, err := chainPregel(g).Run(context.Background())
	c.Assert(err, gc.IsNil)

	rows, err := tabular.CollectRows(context.Background(), s.be, result)
	c.Assert(err, gc.IsNil)

	// No edge ever produces a message, so the run returns the initial
	// state untouched.
	values := valuesByID(c, rows)
	c.Assert(values, gc.DeepEquals, map[int64]int64{1: 1, 2: 0})
}

func (s *PregelTestSuite) TestSingleVertexGraph(c *gc.C) {
	nodes, err := s.be.FromRows([]string{"id"}, [][]any{{int64(7)}})
	c.Assert(err, gc.IsNil)
	edges, err := s.be.FromRows([]string{"src", "dst"}, nil)
	c.Assert(err, gc.IsNil)
	g, err := graph.New(s.be, nodes, edges)
	c.Assert(err, gc.IsNil)

	result, err := chainPregel(g).Run(context.Background())
	c.Assert(err, gc.IsNil)

	rows, err := tabular.CollectRows(context.Background(), s.be, result)
	c.Assert(err, gc.IsNil)
	c.Assert(len(rows), gc.Equals, 1)
	c.Assert(asInt(c, rows[0]["value"]), gc.Equals, int64(0))
}

func (s *PregelTestSuite) TestCheckpointIntervalDoesNotChangeResults(c *gc.C) {
	for _, interval := range []int{0, 1, 3} {
		g := graphtest.ChainGraph(c, s.be)

		result, err := chainPregel(g).
			SetMaxIter(4).
			SetCheckpointInterval(interval).
			Run(context.Background())
		c.Assert(err, gc.IsNil)

		rows, err := tabular.CollectRows(context.Background(), s.be, result)
		c.Assert(err, gc.IsNil)
		values := valuesByID(c, rows)
		c.Assert(values, gc.DeepEquals, map[int64]int64{1: 1, 2: 1, 3: 1, 4: 1, 5: 1},
			gc.Commentf("checkpoint interval %d changed the result", interval))
	}
}

func (s *PregelTestSuite) TestActiveFlagStopsDisconnectedComponents(c *gc.C) {
	// Two components: 1-2 and the isolated pair 3-4 with no seed. The
	// dead component must not be resurrected by the active flag.
	nodes, err := s.be.FromRows([]string{"id"}, [][]any{
		{int64(1)}, {int64(2)}, {int64(3)}, {int64(4)},
	})
	c.Assert(err, gc.IsNil)
	edges, err := s.be.FromRows([]string{"src", "dst"}, [][]any{
		{int64(1), int64(2)},
		{int64(3), int64(4)},
	})
	c.Assert(err, gc.IsNil)
	g, err := graph.New(s.be, nodes, edges)
	c.Assert(err, gc.IsNil)

	result, err := chainPregel(g).
		SetHasActiveFlag(true).
		SetStopIfAllUnactive(true).
		SetEarlyStopping(false).
		SetMaxIter(5).
		Run(context.Background())
	c.Assert(err, gc.IsNil)

	rows, err := tabular.CollectRows(context.Background(), s.be, result)
	c.Assert(err, gc.IsNil)
	values := valuesByID(c, rows)
	c.Assert(values[int64(2)], gc.Equals, int64(1))
	c.Assert(values[int64(3)], gc.Equals, int64(0))
	c.Assert(values[int64(4)], gc.Equals, int64(0))
}

func valuesByID(c *gc.C, rows []tabular.Row) map[int64]int64 {
	values := make(map[int64]int64, len(rows))
	for _, row := range rows {
		values[row[graph.ColID].(int64)] = asInt(c, row["value"])
	}
	return values
}

func asInt(c *gc.C, v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		c.Fatalf("expected numeric value, got %T", v)
		return 0
	}
}
