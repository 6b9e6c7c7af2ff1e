package clustering

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

// ErrInvalidMaxIters is returned for a negative iteration cap.
var ErrInvalidMaxIters = xerrors.New("max iterations must be positive")

// LabelPropagationConfig encapsulates the options for a label
// propagation run.
type LabelPropagationConfig struct {
	// MaxIters caps the number of supersteps. Defaults to 10.
	MaxIters int

	// CheckpointInterval is the number of supersteps between state
	// materializations. Defaults to 1.
	CheckpointInterval int

	// Logger for the run loop. Defaults to a discard logger.
	Logger *logrus.Entry
}

func (c *LabelPropagationConfig) validate() error {
	var err error
	if c.MaxIters == 0 {
		c.MaxIters = 10
	}
	if c.MaxIters < 0 {
		err = multierror.Append(err, ErrInvalidMaxIters)
	}
	if c.CheckpointInterval == 0 {
		c.CheckpointInterval = 1
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}

/*LabelPropagation detects communities by seeding every vertex with
its own id as the label and repeatedly adopting the most frequent
label among its neighbors. Returns a relation (node_id, label).

A vertex whose label did not change still has to keep sending
messages, so the run relies on the iteration cap alone: there is no
early stopping and no active-flag filtering.*/
func LabelPropagation(ctx context.Context, g *graph.Graph, cfg LabelPropagationConfig) (tabular.Relation, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("label propagation config validation failed: %w", err)
	}

	p := pregel.New(g).
		AddVertexCol("label", tabular.Col(graph.ColID), pregel.Msg().Coalesce(tabular.Col("label"))).
		AddMessageToDst(pregel.Src("label")).
		SetAggExpressionFunc(pregel.ModeAggregator()).
		SetEarlyStopping(false).
		SetMaxIter(cfg.MaxIters).
		SetCheckpointInterval(cfg.CheckpointInterval).
		SetLogger(cfg.Logger)

	if !g.Directed() {
		p.AddMessageToSrc(pregel.Dst("label"))
	}

	out, err := p.Run(ctx)
	if err != nil {
		return nil, xerrors.Errorf("running label propagation: %w", err)
	}
	return out.
		Rename(map[string]string{"node_id": graph.ColID}).
		Select(
			tabular.Col("node_id").As("node_id"),
			tabular.Col("label").As("label"),
		), nil
}
