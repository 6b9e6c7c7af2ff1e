package centrality

import (
	"context"
	"io"

	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/pregel"
	"github.com/brandonshearin/relgraph/tabular"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

var (
	// ErrInvalidAlpha is returned when the damping factor is outside
	// the (0, 1) range.
	ErrInvalidAlpha = xerrors.New("alpha must be in the (0, 1) range")

	// ErrInvalidMaxIters is returned for a negative iteration cap.
	ErrInvalidMaxIters = xerrors.New("max iterations must be positive")

	// ErrEmptyGraph is returned when the graph has no vertices.
	ErrEmptyGraph = xerrors.New("graph has no vertices")
)

// PageRankConfig encapsulates the options for a PageRank computation.
type PageRankConfig struct {
	// Alpha is the damping factor. Defaults to 0.85.
	Alpha float64

	// MaxIters caps the number of supersteps. Defaults to 20.
	MaxIters int

	// CheckpointInterval is the number of supersteps between state
	// materializations. Defaults to 1, which suits in-memory backends;
	// distributed backends prefer sparser checkpoints.
	CheckpointInterval int

	// Tolerance is the per-vertex convergence threshold on the rank
	// delta. Defaults to 1e-4.
	Tolerance float64

	// Logger for the run loop. Defaults to a discard logger.
	Logger *logrus.Entry
}

func (c *PageRankConfig) validate() error {
	var err error
	if c.Alpha == 0 {
		c.Alpha = 0.85
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		err = multierror.Append(err, ErrInvalidAlpha)
	}
	if c.MaxIters == 0 {
		c.MaxIters = 20
	}
	if c.MaxIters < 0 {
		err = multierror.Append(err, ErrInvalidMaxIters)
	}
	if c.CheckpointInterval == 0 {
		c.CheckpointInterval = 1
	}
	if c.Tolerance == 0 {
		c.Tolerance = 1e-4
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

/*PageRank computes the damped PageRank of every vertex and returns a
relation (node_id, pagerank).

Directed graphs spread each vertex's rank across its out-degree.
Undirected graphs message both endpoints of every edge, which assumes
the edge relation stores each undirected edge exactly once: with both
orientations present, rank is double-counted.*/
func PageRank(ctx context.Context, g *graph.Graph, cfg PageRankConfig) (tabular.Relation, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("pagerank config validation failed: %w", err)
	}

	numNodes, err := g.NumNodes(ctx)
	if err != nil {
		return nil, xerrors.Errorf("counting vertices: %w", err)
	}
	if numNodes == 0 {
		return nil, ErrEmptyGraph
	}
	coeff := (1 - cfg.Alpha) / float64(numNodes)
	initialScore := 1.0 / float64(numNodes)

	var deg tabular.Relation
	if g.Directed() {
		deg, err = OutDegrees(ctx, g)
	} else {
		deg, err = Degrees(ctx, g)
	}
	if err != nil {
		return nil, err
	}

	nodesWithDegrees := g.Nodes().KeyJoin(
		deg.Rename(map[string]string{graph.ColID: "node_id"}),
		graph.ColID,
		tabular.InnerJoinKind,
	)
	opts := []graph.Option{
		graph.WithIDColumn(graph.ColID),
		graph.WithSrcColumn(graph.ColSrc),
		graph.WithDstColumn(graph.ColDst),
	}
	if g.Directed() {
		opts = append(opts, graph.Directed())
	}
	ranked, err := graph.New(g.Backend(), nodesWithDegrees, g.Edges(), opts...)
	if err != nil {
		return nil, xerrors.Errorf("wrapping degree-annotated graph: %w", err)
	}

	rankUpd := tabular.IfElse(pregel.Msg().IsNull(), tabular.Literal(0.0), pregel.Msg()).
		Mul(tabular.Literal(cfg.Alpha)).
		Add(tabular.Literal(coeff))

	p := pregel.New(ranked).
		AddVertexCol("pagerank", tabular.Literal(initialScore), rankUpd).
		AddVertexCol("err", tabular.Literal(100.0), tabular.Col("pagerank").Sub(rankUpd).Abs()).
		AddMessageToDst(pregel.Src("pagerank").AsFloat().Div(pregel.Src("degree").AsFloat())).
		SetAggExpressionFunc(pregel.SumAggregator()).
		SetHasActiveFlag(true).
		SetActiveFlagUpdCol(tabular.Col("err").Ge(tabular.Literal(cfg.Tolerance))).
		SetEarlyStopping(true).
		SetStopIfAllUnactive(true).
		SetMaxIter(cfg.MaxIters).
		SetCheckpointInterval(cfg.CheckpointInterval).
		SetLogger(cfg.Logger)

	if !g.Directed() {
		p.AddMessageToSrc(pregel.Dst("pagerank").AsFloat().Div(pregel.Dst("degree").AsFloat()))
	}

	out, err := p.Run(ctx)
	if err != nil {
		return nil, xerrors.Errorf("running pagerank: %w", err)
	}
	return out.
		Rename(map[string]string{"node_id": graph.ColID}).
		Select(
			tabular.Col("node_id").As("node_id"),
			tabular.Col("pagerank").As("pagerank"),
		), nil
}
