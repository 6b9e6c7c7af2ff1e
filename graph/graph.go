package graph

import (
	"context"

	"github.com/brandonshearin/relgraph/tabular"
	"golang.org/x/xerrors"
)

// Canonical column names the computation driver operates on. User
// relations may name their columns anything; the wrapper renames them
// on construction.
const (
	// ColID is the canonical vertex identifier column.
	ColID = "id_"

	// ColSrc and ColDst are the canonical edge endpoint columns.
	ColSrc = "src_"
	ColDst = "dst_"

	// ColWeight is the canonical edge weight column, when present.
	ColWeight = "weight_"

	// ColEdge is the name the driver packs whole edge tuples under.
	ColEdge = "edge_"
)

var (
	// ErrMissingColumn is returned when a nominated column does not
	// exist in the provided relation.
	ErrMissingColumn = xerrors.New("nominated column does not exist")

	// ErrWrongColumnType is returned when a nominated column does not
	// have the required type.
	ErrWrongColumnType = xerrors.New("nominated column has the wrong type")
)

/*Graph wraps a vertex relation and an edge relation under the
canonical column-naming scheme. A Graph is a value: holding one does
not imply any open backend resources beyond the referenced relations.*/
type Graph struct {
	be       tabular.Backend
	nodes    tabular.Relation
	edges    tabular.Relation
	directed bool
	weighted bool
}

type options struct {
	directed  bool
	idCol     string
	srcCol    string
	dstCol    string
	weightCol string
}

// Option customizes graph construction.
type Option func(*options)

// Directed marks the graph as directed.
func Directed() Option {
	return func(o *options) { o.directed = true }
}

// WithIDColumn nominates the vertex identifier column (default "id").
func WithIDColumn(name string) Option {
	return func(o *options) { o.idCol = name }
}

// WithSrcColumn nominates the edge source column (default "src").
func WithSrcColumn(name string) Option {
	return func(o *options) { o.srcCol = name }
}

// WithDstColumn nominates the edge destination column (default "dst").
func WithDstColumn(name string) Option {
	return func(o *options) { o.dstCol = name }
}

// WithWeightColumn nominates an edge weight column. Without this
// option the graph is unweighted.
func WithWeightColumn(name string) Option {
	return func(o *options) { o.weightCol = name }
}

/*New validates the nominated columns of the vertex and edge relations
and returns a Graph with the columns renamed to their canonical names.
The id, src and dst columns must exist and, where the backend reports
column types, must be integer-typed.*/
func New(be tabular.Backend, nodes, edges tabular.Relation, opts ...Option) (*Graph, error) {
	o := options{idCol: "id", srcCol: "src", dstCol: "dst"}
	for _, apply := range opts {
		apply(&o)
	}

	if err := requireIntegerColumn(nodes, o.idCol); err != nil {
		return nil, xerrors.Errorf("vertex relation: %w", err)
	}
	if err := requireIntegerColumn(edges, o.srcCol); err != nil {
		return nil, xerrors.Errorf("edge relation: %w", err)
	}
	if err := requireIntegerColumn(edges, o.dstCol); err != nil {
		return nil, xerrors.Errorf("edge relation: %w", err)
	}

	g := &Graph{
		be:       be,
		nodes:    renameIfNeeded(nodes, ColID, o.idCol),
		directed: o.directed,
	}

	renamedEdges := renameIfNeeded(edges, ColSrc, o.srcCol)
	renamedEdges = renameIfNeeded(renamedEdges, ColDst, o.dstCol)
	if o.weightCol != "" {
		if err := requireColumn(edges, o.weightCol); err != nil {
			return nil, xerrors.Errorf("edge relation: %w", err)
		}
		renamedEdges = renameIfNeeded(renamedEdges, ColWeight, o.weightCol)
		g.weighted = true
	}
	g.edges = renamedEdges

	return g, nil
}

// Backend returns the backend session the graph's relations belong to.
func (g *Graph) Backend() tabular.Backend { return g.be }

// Nodes returns the vertex relation with canonical column names.
func (g *Graph) Nodes() tabular.Relation { return g.nodes }

// Edges returns the edge relation with canonical column names.
func (g *Graph) Edges() tabular.Relation { return g.edges }

// Directed reports whether the graph is directed.
func (g *Graph) Directed() bool { return g.directed }

// IsWeighted reports whether a weight column was nominated.
func (g *Graph) IsWeighted() bool { return g.weighted }

// SetDirected returns a copy of the graph with the directed flag set
// to the given value.
func (g *Graph) SetDirected(directed bool) *Graph {
	copied := *g
	copied.directed = directed
	return &copied
}

// NumNodes materializes the vertex count via the backend.
func (g *Graph) NumNodes(ctx context.Context) (int64, error) {
	return g.be.Count(ctx, g.nodes)
}

// NumEdges materializes the edge count via the backend.
func (g *Graph) NumEdges(ctx context.Context) (int64, error) {
	return g.be.Count(ctx, g.edges)
}

func renameIfNeeded(r tabular.Relation, canonical, actual string) tabular.Relation {
	if canonical == actual {
		return r
	}
	return r.Rename(map[string]string{canonical: actual})
}

func requireColumn(r tabular.Relation, name string) error {
	for _, col := range r.Columns() {
		if col == name {
			return nil
		}
	}
	return xerrors.Errorf("column %q: %w", name, ErrMissingColumn)
}

/*requireIntegerColumn checks presence always, and the integer typing
whenever the relation knows its column types. Derived plans that do not
implement tabular.TypedRelation skip the type check.*/
func requireIntegerColumn(r tabular.Relation, name string) error {
	if err := requireColumn(r, name); err != nil {
		return err
	}
	typed, ok := r.(tabular.TypedRelation)
	if !ok {
		return nil
	}
	switch typed.ColumnTypes()[name] {
	case tabular.TypeInteger, tabular.TypeUnknown:
		return nil
	default:
		return xerrors.Errorf("column %q must be integer-typed: %w", name, ErrWrongColumnType)
	}
}
