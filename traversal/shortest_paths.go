package traversal

import (
	"context"
	"fmt"
	"io"

	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/pregel"
	"github.com/brandonshearin/relgraph/tabular"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// ErrNoLandmarks is returned when no landmark vertices are provided.
var ErrNoLandmarks = xerrors.New("at least one landmark is required")

// ShortestPathsConfig encapsulates the options for a shortest-paths
// computation.
type ShortestPathsConfig struct {
	// CheckpointInterval is the number of supersteps between state
	// materializations. Defaults to 1.
	CheckpointInterval int

	// Logger for the run loops. Defaults to a discard logger.
	Logger *logrus.Entry
}

func (c *ShortestPathsConfig) validate() {
	if c.CheckpointInterval == 0 {
		c.CheckpointInterval = 1
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
}

/*ShortestPaths computes hop distances from every vertex to each of
the landmark vertices and returns a relation (node_id, distances),
where distances is a struct with one distance_to_<landmark> field per
landmark. Unreachable landmarks are null.

Each landmark gets its own frontier-style run: distances start at zero
on the landmark and null elsewhere, messages carry distance+1 along
edges touching an active vertex, and a vertex stays active only while
its distance keeps improving. The run ends once no vertex improves.*/
func ShortestPaths(ctx context.Context, g *graph.Graph, landmarks []int64, cfg ShortestPathsConfig) (tabular.Relation, error) {
	if len(landmarks) == 0 {
		return nil, ErrNoLandmarks
	}
	cfg.validate()

	numNodes, err := g.NumNodes(ctx)
	if err != nil {
		return nil, xerrors.Errorf("counting vertices: %w", err)
	}
	maxIter := int(numNodes)
	if maxIter < 1 {
		maxIter = 1
	}

	current := g
	distCols := make([]string, len(landmarks))
	for i, landmark := range landmarks {
		distCols[i] = fmt.Sprintf("distance_to_%d", landmark)
		current, err = distancesFrom(ctx, current, landmark, distCols[i], maxIter, cfg)
		if err != nil {
			return nil, xerrors.Errorf("distances to landmark %d: %w", landmark, err)
		}
	}

	fields := make([]tabular.StructField, len(distCols))
	for i, col := range distCols {
		fields[i] = tabular.StructField{Name: col, Expr: tabular.Col(col)}
	}
	return current.Nodes().Select(
		tabular.Col(graph.ColID).As("node_id"),
		tabular.StructOf(fields...).As("distances"),
	), nil
}

/*distancesFrom runs one landmark's frontier expansion and returns a
graph whose vertex relation carries the new distance column, so that
successive landmark runs accumulate columns.*/
func distancesFrom(ctx context.Context, g *graph.Graph, landmark int64, distCol string, maxIter int, cfg ShortestPathsConfig) (*graph.Graph, error) {
	dist := tabular.Col(distCol)
	isLandmark := tabular.Col(graph.ColID).Eq(tabular.Literal(landmark))

	update := tabular.IfElse(
		pregel.Msg().IsNull(),
		dist,
		tabular.IfElse(dist.IsNull(), pregel.Msg(), tabular.Least(dist, pregel.Msg())),
	)
	improved := tabular.IfElse(
		pregel.Msg().IsNull(),
		tabular.Literal(false),
		tabular.IfElse(dist.IsNull(), tabular.Literal(true), pregel.Msg().Lt(dist)),
	)
	hop := func(from func(string) tabular.Expr) tabular.Expr {
		return tabular.IfElse(
			from(distCol).IsNull(),
			tabular.Null(),
			from(distCol).Add(tabular.Literal(1)),
		)
	}

	p := pregel.New(g).
		AddVertexCol(distCol, tabular.IfElse(isLandmark, tabular.Literal(0), tabular.Null()), update).
		AddMessageToDst(hop(pregel.Src)).
		SetAggExpressionFunc(pregel.MinAggregator()).
		SetInitialActiveFlag(isLandmark).
		SetActiveFlagUpdCol(improved).
		SetFilterMessagesFromNonActive(true).
		SetStopIfAllUnactive(true).
		SetEarlyStopping(false).
		SetMaxIter(maxIter).
		SetCheckpointInterval(cfg.CheckpointInterval).
		SetLogger(cfg.Logger)

	if !g.Directed() {
		p.AddMessageToSrc(hop(pregel.Dst))
	}

	out, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	nodes, err := g.Backend().Materialize(ctx, out)
	if err != nil {
		return nil, xerrors.Errorf("caching distance column %q: %w", distCol, err)
	}

	opts := []graph.Option{
		graph.WithIDColumn(graph.ColID),
		graph.WithSrcColumn(graph.ColSrc),
		graph.WithDstColumn(graph.ColDst),
	}
	if g.Directed() {
		opts = append(opts, graph.Directed())
	}
	next, err := graph.New(g.Backend(), nodes, g.Edges(), opts...)
	if err != nil {
		return nil, xerrors.Errorf("wrapping distance-annotated graph: %w", err)
	}
	return next, nil
}
