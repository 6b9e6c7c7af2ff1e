package pregel

import (
	"context"

	"github.com/brandonshearin/relgraph/tabular"
	"golang.org/x/xerrors"
)

/*checkpointer materializes the vertex state relation at the
configured periodicity so that plan depth does not grow unboundedly
across supersteps. After a checkpoint, further references to the state
relation read the cached result instead of replaying its construction
plan. Nothing survives the backend session.*/
type checkpointer struct {
	be       tabular.Backend
	interval int
}

/*maybeCheckpoint materializes state when the iteration lands on the
configured interval and returns the relation to continue with. The
boolean reports whether a checkpoint was taken.*/
func (cp *checkpointer) maybeCheckpoint(ctx context.Context, state tabular.Relation, iteration int) (tabular.Relation, bool, error) {
	if cp.interval <= 0 || iteration%cp.interval != 0 {
		return state, false, nil
	}
	cached, err := cp.be.Materialize(ctx, state)
	if err != nil {
		return nil, false, xerrors.Errorf("checkpointing state on iteration %d: %w", iteration, err)
	}
	return cached, true, nil
}
