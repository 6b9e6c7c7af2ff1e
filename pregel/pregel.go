package pregel

import (
	"io"

	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/tabular"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Reserved column names the driver adds to the vertex state relation.
const (
	// MsgCol holds the aggregated message delivered to a vertex.
	MsgCol = "_pregel_msg"

	// ActiveFlagCol holds the per-vertex active flag, when enabled.
	ActiveFlagCol = "_active_flag"
)

var (
	// ErrNoAggregator is returned by Run when no aggregation function
	// was configured.
	ErrNoAggregator = xerrors.New("aggregation expression function not specified")

	// ErrNoMessages is returned by Run when no message declaration
	// (to src or to dst) was added.
	ErrNoMessages = xerrors.New("at least one message (to src or to dst) must be declared")

	// ErrNoVertexColumns is returned by Run when no vertex column was
	// declared.
	ErrNoVertexColumns = xerrors.New("at least one vertex column must be declared")

	// ErrNonPositiveMaxIter is returned by Run when the iteration cap
	// is not a positive integer.
	ErrNonPositiveMaxIter = xerrors.New("max iterations must be a positive integer")

	// ErrNegativeCheckpointInterval is returned by Run when the
	// checkpoint interval is negative.
	ErrNegativeCheckpointInterval = xerrors.New("checkpoint interval must be non-negative")

	// ErrActiveFlagRequired is returned by Run when an active-flag
	// dependent feature is enabled without the active flag itself.
	ErrActiveFlagRequired = xerrors.New("feature requires the active flag to be enabled")
)

// Src references an attribute of the source endpoint of the current
// triplet inside a message expression.
func Src(col string) tabular.Expr {
	return tabular.Col(graph.ColSrc).Field(col)
}

// Dst references an attribute of the destination endpoint of the
// current triplet inside a message expression.
func Dst(col string) tabular.Expr {
	return tabular.Col(graph.ColDst).Field(col)
}

// Edge references an attribute of the edge of the current triplet
// inside a message expression.
func Edge(col string) tabular.Expr {
	return tabular.Col(graph.ColEdge).Field(col)
}

// Msg references the aggregated message value on a vertex row inside
// an update expression. It is null for vertices that received no
// messages this superstep.
func Msg() tabular.Expr {
	return tabular.Col(MsgCol)
}

type vertexColumn struct {
	name    string
	initial tabular.Expr
	update  tabular.Expr
}

type messageDecl struct {
	target tabular.Expr
	msg    tabular.Expr
}

/*Pregel drives a vertex-centric computation by compiling each
superstep into a lazy relational plan executed by the graph's backend.
The zero value is not usable; construct instances with New and
configure them through the fluent setters, then call Run.

This is the low-level surface. The algorithm packages (centrality,
clustering, similarity, traversal) compose it into named entry
points.*/
type Pregel struct {
	g *graph.Graph

	vertexCols []vertexColumn
	messages   []messageDecl
	agg        Aggregator

	hasActiveFlag     bool
	initialActiveFlag tabular.Expr
	activeFlagUpd     tabular.Expr
	activeFlagUpdSet  bool

	filterNonActive   bool
	stopIfAllUnactive bool
	earlyStopping     bool

	maxIter            int
	checkpointInterval int

	logger *logrus.Entry
}

// New returns a Pregel instance for the provided graph with the
// default configuration: early stopping on, at most 10 iterations,
// checkpoint every superstep, no active flag.
func New(g *graph.Graph) *Pregel {
	return &Pregel{
		g:                  g,
		initialActiveFlag:  tabular.Literal(true),
		earlyStopping:      true,
		maxIter:            10,
		checkpointInterval: 1,
		logger:             logrus.NewEntry(&logrus.Logger{Out: io.Discard}),
	}
}

/*AddVertexCol declares a state column with its initial expression
(evaluated against the vertex row before the first superstep) and its
update expression (evaluated against the state joined with aggregated
messages on every superstep). Redeclaring an existing name replaces it
in place.*/
func (p *Pregel) AddVertexCol(name string, initial, update tabular.Expr) *Pregel {
	for i, vc := range p.vertexCols {
		if vc.name == name {
			p.vertexCols[i] = vertexColumn{name: name, initial: initial, update: update}
			return p
		}
	}
	p.vertexCols = append(p.vertexCols, vertexColumn{name: name, initial: initial, update: update})
	return p
}

// RemoveVertexCol deletes a declared vertex column by name. It does
// nothing if the column was never declared.
func (p *Pregel) RemoveVertexCol(name string) *Pregel {
	for i, vc := range p.vertexCols {
		if vc.name == name {
			p.vertexCols = append(p.vertexCols[:i], p.vertexCols[i+1:]...)
			break
		}
	}
	return p
}

// AddMessageToDst declares a message delivered to the destination
// endpoint of each triplet. The expression may reference Src, Dst and
// Edge attributes; a null value means no message on that edge.
func (p *Pregel) AddMessageToDst(msg tabular.Expr) *Pregel {
	p.messages = append(p.messages, messageDecl{target: Dst(graph.ColID), msg: msg})
	return p
}

// AddMessageToSrc declares a message delivered to the source endpoint
// of each triplet.
func (p *Pregel) AddMessageToSrc(msg tabular.Expr) *Pregel {
	p.messages = append(p.messages, messageDecl{target: Src(graph.ColID), msg: msg})
	return p
}

// SetAggExpressionFunc configures how the messages arriving at one
// vertex are combined into a single value. Mandatory.
func (p *Pregel) SetAggExpressionFunc(agg Aggregator) *Pregel {
	p.agg = agg
	return p
}

/*SetHasActiveFlag enables the per-vertex active flag column, letting
vertices vote to stop iterating or stop producing messages. Unless an
initial expression is provided all vertices start active.*/
func (p *Pregel) SetHasActiveFlag(value bool) *Pregel {
	p.hasActiveFlag = value
	return p
}

// SetInitialActiveFlag sets the expression used for the initial value
// of the active flag, and implies SetHasActiveFlag(true).
func (p *Pregel) SetInitialActiveFlag(expression tabular.Expr) *Pregel {
	p.hasActiveFlag = true
	p.initialActiveFlag = expression
	return p
}

/*SetActiveFlagUpdCol sets a custom update expression for the active
flag. Without it a vertex stays active iff it received a non-null
aggregated message this superstep.*/
func (p *Pregel) SetActiveFlagUpdCol(expression tabular.Expr) *Pregel {
	p.activeFlagUpd = expression
	p.activeFlagUpdSet = true
	return p
}

/*SetFilterMessagesFromNonActive drops triplets where neither endpoint
is active before messages are produced. Some algorithms break under
this setting: a vertex that kept its value may still need to keep
sending messages.*/
func (p *Pregel) SetFilterMessagesFromNonActive(value bool) *Pregel {
	p.filterNonActive = value
	return p
}

// SetStopIfAllUnactive terminates the run when every vertex has voted
// itself inactive. The probe costs a backend round-trip per superstep.
func (p *Pregel) SetStopIfAllUnactive(value bool) *Pregel {
	p.stopIfAllUnactive = value
	return p
}

/*SetEarlyStopping terminates the run on the first superstep that
generates no non-null messages. The count probe costs a backend
round-trip per superstep, so algorithms that always generate messages
should disable it and rely on the other controls.*/
func (p *Pregel) SetEarlyStopping(value bool) *Pregel {
	p.earlyStopping = value
	return p
}

// SetMaxIter caps the number of supersteps. Validated by Run.
func (p *Pregel) SetMaxIter(value int) *Pregel {
	p.maxIter = value
	return p
}

/*SetCheckpointInterval materializes the state relation every value
supersteps, bounding plan depth at the cost of extra evaluation. Zero
disables checkpointing. Single-node in-memory backends tend to do best
with dense checkpoints, distributed ones with sparse checkpoints.
Validated by Run.*/
func (p *Pregel) SetCheckpointInterval(value int) *Pregel {
	p.checkpointInterval = value
	return p
}

// SetLogger attaches a logger to the run loop. Defaults to a discard
// logger.
func (p *Pregel) SetLogger(logger *logrus.Entry) *Pregel {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// validate checks the configuration before the first superstep,
// accumulating every problem found.
func (p *Pregel) validate() error {
	var err error
	if p.agg == nil {
		err = multierror.Append(err, ErrNoAggregator)
	}
	if len(p.messages) == 0 {
		err = multierror.Append(err, ErrNoMessages)
	}
	if len(p.vertexCols) == 0 {
		err = multierror.Append(err, ErrNoVertexColumns)
	}
	if p.maxIter <= 0 {
		err = multierror.Append(err, ErrNonPositiveMaxIter)
	}
	if p.checkpointInterval < 0 {
		err = multierror.Append(err, ErrNegativeCheckpointInterval)
	}
	if !p.hasActiveFlag && (p.filterNonActive || p.stopIfAllUnactive || p.activeFlagUpdSet) {
		err = multierror.Append(err, ErrActiveFlagRequired)
	}
	return err
}
