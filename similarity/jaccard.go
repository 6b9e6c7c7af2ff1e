package similarity

import (
	"context"

	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/pregel"
	"github.com/brandonshearin/relgraph/tabular"
	"golang.org/x/xerrors"
)

/*JaccardSimilarity computes the Jaccard similarity of the neighbor
sets of every vertex pair and returns a relation (node_id_left,
node_id_right, jaccard_similarity) with one row per unordered pair,
keyed so that node_id_left < node_id_right.

Neighbor sets are collected in a single superstep; both endpoints of
every edge count as each other's neighbors.*/
func JaccardSimilarity(ctx context.Context, g *graph.Graph) (tabular.Relation, error) {
	neighbors, err := neighborSets(ctx, g)
	if err != nil {
		return nil, err
	}

	// The same struct-packing trick the superstep planner uses: both
	// sides of the self-join get distinct single-column names, so no
	// per-column aliasing is needed.
	packed := []tabular.StructField{
		{Name: graph.ColID, Expr: tabular.Col(graph.ColID)},
		{Name: "neighbors", Expr: tabular.Col("neighbors")},
	}
	left := neighbors.Select(tabular.StructOf(packed...).As("left_"))
	right := neighbors.Select(tabular.StructOf(packed...).As("right_"))

	pairs := left.InnerJoin(
		right,
		tabular.Col("left_").Field(graph.ColID).Lt(tabular.Col("right_").Field(graph.ColID)),
	)

	intersection := tabular.Raw("len(filter(left_.neighbors, # in right_.neighbors))")
	union := tabular.Col("left_").Field("neighbors").Len().
		Add(tabular.Col("right_").Field("neighbors").Len()).
		Sub(intersection)
	similarity := tabular.IfElse(
		union.Eq(tabular.Literal(0)),
		tabular.Literal(0.0),
		intersection.AsFloat().Div(union.AsFloat()),
	)

	return pairs.Select(
		tabular.Col("left_").Field(graph.ColID).As("node_id_left"),
		tabular.Col("right_").Field(graph.ColID).As("node_id_right"),
		similarity.As("jaccard_similarity"),
	), nil
}

/*neighborSets returns a materialized relation (id_, neighbors) where
neighbors is the sorted array of distinct adjacent vertex ids.*/
func neighborSets(ctx context.Context, g *graph.Graph) (tabular.Relation, error) {
	out, err := pregel.New(g).
		AddVertexCol("neighbors", tabular.EmptyArray(), pregel.Msg().Coalesce(tabular.EmptyArray())).
		AddMessageToDst(pregel.Src(graph.ColID)).
		AddMessageToSrc(pregel.Dst(graph.ColID)).
		SetAggExpressionFunc(pregel.CollectSetAggregator()).
		SetEarlyStopping(false).
		SetMaxIter(1).
		Run(ctx)
	if err != nil {
		return nil, xerrors.Errorf("collecting neighbor sets: %w", err)
	}

	sets := out.Select(
		tabular.Col(graph.ColID).As(graph.ColID),
		tabular.Col("neighbors").As("neighbors"),
	)
	cached, err := g.Backend().Materialize(ctx, sets)
	if err != nil {
		return nil, xerrors.Errorf("caching neighbor sets: %w", err)
	}
	return cached, nil
}
