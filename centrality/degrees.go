package centrality

import (
	"context"

	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/pregel"
	"github.com/brandonshearin/relgraph/tabular"
	"golang.org/x/xerrors"
)

/*Degrees returns a relation (node_id, degree) counting every edge at
both of its endpoints. With each undirected edge stored once this is
the undirected vertex degree; for directed graphs it is the sum of in-
and out-degree.*/
func Degrees(ctx context.Context, g *graph.Graph) (tabular.Relation, error) {
	return degreeRelation(ctx, g, true, true)
}

// InDegrees returns a relation (node_id, degree) counting the edges
// that point at each vertex.
func InDegrees(ctx context.Context, g *graph.Graph) (tabular.Relation, error) {
	return degreeRelation(ctx, g, false, true)
}

// OutDegrees returns a relation (node_id, degree) counting the edges
// that leave each vertex.
func OutDegrees(ctx context.Context, g *graph.Graph) (tabular.Relation, error) {
	return degreeRelation(ctx, g, true, false)
}

/*degreeRelation counts edge endpoints with a single superstep: each
edge contributes a literal 1 to its source (toSrc) and/or destination
(toDst), summed per vertex. Vertices that receive nothing keep degree
zero.*/
func degreeRelation(ctx context.Context, g *graph.Graph, toSrc, toDst bool) (tabular.Relation, error) {
	p := pregel.New(g).
		AddVertexCol("degree", tabular.Literal(0), pregel.Msg().Coalesce(tabular.Literal(0))).
		SetAggExpressionFunc(pregel.SumAggregator()).
		SetEarlyStopping(false).
		SetMaxIter(1)
	if toDst {
		p.AddMessageToDst(tabular.Literal(1))
	}
	if toSrc {
		p.AddMessageToSrc(tabular.Literal(1))
	}

	out, err := p.Run(ctx)
	if err != nil {
		return nil, xerrors.Errorf("computing degrees: %w", err)
	}
	return out.
		Rename(map[string]string{"node_id": graph.ColID}).
		Select(
			tabular.Col("node_id").As("node_id"),
			tabular.Col("degree").As("degree"),
		), nil
}
