package pregel

import (
	"context"

	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/tabular"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

/*Run executes the configured computation and returns the final vertex
relation: every original vertex column plus every declared vertex
column, with the active flag dropped.

Each superstep packs the state relation into src- and dst-side
structs, joins them with the pre-packed edges into triplets, produces
one row per (triplet, message declaration), drops null messages,
aggregates per target vertex and projects the next state. Everything
stays lazy except the packed-edge cache built before the first
superstep, the opt-in probes, the checkpoints and the final
materialization by the caller.*/
func (p *Pregel) Run(ctx context.Context) (tabular.Relation, error) {
	if err := p.validate(); err != nil {
		return nil, xerrors.Errorf("pregel config validation failed: %w", err)
	}

	be := p.g.Backend()
	logger := p.logger.WithField("run_id", uuid.New().String())

	msgStructs := make([]tabular.Expr, len(p.messages))
	for i, m := range p.messages {
		msgStructs[i] = tabular.StructOf(
			tabular.StructField{Name: graph.ColID, Expr: m.target},
			tabular.StructField{Name: "msg", Expr: m.msg},
		)
	}

	nodeCols := p.g.Nodes().Columns()
	initial := make([]tabular.NamedExpr, 0, len(nodeCols)+len(p.vertexCols)+1)
	for _, col := range nodeCols {
		initial = append(initial, tabular.Col(col).As(col))
	}
	for _, vc := range p.vertexCols {
		initial = append(initial, vc.initial.As(vc.name))
	}
	if p.hasActiveFlag {
		initial = append(initial, p.initialActiveFlag.As(ActiveFlagCol))
	}
	state := p.g.Nodes().Select(initial...)

	// Edges are packed once and cached at the backend before the loop.
	edgeCols := p.g.Edges().Columns()
	edgeFields := make([]tabular.StructField, len(edgeCols))
	for i, col := range edgeCols {
		edgeFields[i] = tabular.StructField{Name: col, Expr: tabular.Col(col)}
	}
	edges, err := be.Materialize(ctx, p.g.Edges().Select(tabular.StructOf(edgeFields...).As(graph.ColEdge)))
	if err != nil {
		return nil, xerrors.Errorf("caching packed edges: %w", err)
	}

	ctrl := &terminationController{
		earlyStopping:     p.earlyStopping,
		stopIfAllUnactive: p.stopIfAllUnactive,
	}
	cp := &checkpointer{be: be, interval: p.checkpointInterval}

	reason := stopMaxIter
	it := 0
	for it < p.maxIter {
		logger.WithFields(logrus.Fields{"iteration": it, "max_iter": p.maxIter}).Info("starting superstep")
		it++

		stateCols := state.Columns()
		packFields := make([]tabular.StructField, len(stateCols))
		for i, col := range stateCols {
			packFields[i] = tabular.StructField{Name: col, Expr: tabular.Col(col)}
		}
		srcSide := state.Select(tabular.StructOf(packFields...).As(graph.ColSrc))
		dstSide := state.Select(tabular.StructOf(packFields...).As(graph.ColDst))

		triplets := srcSide.
			InnerJoin(edges, Src(graph.ColID).Eq(Edge(graph.ColSrc))).
			InnerJoin(dstSide, Dst(graph.ColID).Eq(Edge(graph.ColDst)))

		if p.filterNonActive {
			srcActive := Src(ActiveFlagCol).AsBool()
			dstActive := Dst(ActiveFlagCol).AsBool()
			triplets = triplets.Filter(srcActive.Or(dstActive))
		}

		unnested := triplets.
			Select(tabular.ArrayOf(msgStructs...).As("msg")).
			Unnest("msg")
		messages := unnested.
			Filter(tabular.Col("msg").Field("msg").NotNull()).
			Select(
				tabular.Col("msg").Field(graph.ColID).As(graph.ColID),
				tabular.Col("msg").Field("msg").As(MsgCol),
			)

		if p.earlyStopping {
			count, err := be.Count(ctx, messages)
			if err != nil {
				return nil, xerrors.Errorf("counting messages on iteration %d: %w", it, err)
			}
			logger.WithField("messages", count).Info("generated non-null messages")
			if ctrl.noMessages(count) {
				reason = stopNoMessages
				break
			}
		}

		aggregated := messages.GroupBy(graph.ColID, p.agg.Aggregate(Msg()).As(MsgCol))
		joined := state.KeyJoin(aggregated, graph.ColID, tabular.LeftJoinKind)

		next := make([]tabular.NamedExpr, 0, len(nodeCols)+len(p.vertexCols)+1)
		for _, col := range nodeCols {
			next = append(next, tabular.Col(col).As(col))
		}
		for _, vc := range p.vertexCols {
			next = append(next, vc.update.As(vc.name))
		}
		if p.hasActiveFlag {
			upd := Msg().NotNull()
			if p.activeFlagUpdSet {
				upd = p.activeFlagUpd
			}
			next = append(next, upd.As(ActiveFlagCol))
		}
		state = joined.Select(next...)

		var checkpointed bool
		state, checkpointed, err = cp.maybeCheckpoint(ctx, state, it)
		if err != nil {
			return nil, err
		}
		if checkpointed {
			logger.WithField("iteration", it).Info("checkpointed vertex state")
		}

		if p.stopIfAllUnactive {
			vals, err := be.DistinctValues(ctx, state, ActiveFlagCol)
			if err != nil {
				return nil, xerrors.Errorf("probing active flags on iteration %d: %w", it, err)
			}
			if ctrl.allInactive(vals) {
				reason = stopAllInactive
				break
			}
		}
	}

	logger.WithField("reason", reason.String()).Info("pregel stopped")
	if p.hasActiveFlag {
		return state.Drop(ActiveFlagCol), nil
	}
	return state, nil
}
