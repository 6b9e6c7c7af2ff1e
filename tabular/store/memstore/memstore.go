package memstore

import (
	"context"
	"sync"

	"github.com/brandonshearin/relgraph/tabular"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"golang.org/x/xerrors"
)

/*InMemoryBackend implements the tabular.Backend interface against
plain in-process row slices. Plans built on its relations stay lazy
until one of the materializing methods runs them. Expressions are
compiled once per distinct source string and cached for the lifetime
of the backend.*/
type InMemoryBackend struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

/*NewInMemoryBackend initializes an in-memory implementation of the
tabular backend contract.*/
func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		programs: make(map[string]*vm.Program),
	}
}

/*FromRows creates a base relation from an in-memory table. Each row
must carry exactly one value per column.*/
func (b *InMemoryBackend) FromRows(cols []string, rows [][]any) (tabular.Relation, error) {
	if len(cols) == 0 {
		return nil, xerrors.Errorf("creating relation: %w", ErrNoColumns)
	}
	seen := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		if _, dup := seen[col]; dup {
			return nil, xerrors.Errorf("creating relation: column %q: %w", col, ErrDuplicateColumn)
		}
		seen[col] = struct{}{}
	}

	data := make([]tabular.Row, len(rows))
	for i, r := range rows {
		if len(r) != len(cols) {
			return nil, xerrors.Errorf("creating relation: row %d has %d values for %d columns: %w", i, len(r), len(cols), ErrRaggedRow)
		}
		row := make(tabular.Row, len(cols))
		for j, col := range cols {
			row[col] = r[j]
		}
		data[i] = row
	}

	return b.baseRelation(cols, data), nil
}

/*Materialize runs the plan behind r and returns a relation backed by
the cached result so that further references do not re-execute it.*/
func (b *InMemoryBackend) Materialize(ctx context.Context, r tabular.Relation) (tabular.Relation, error) {
	rel, err := b.own(r)
	if err != nil {
		return nil, err
	}
	rows, err := rel.eval(ctx)
	if err != nil {
		return nil, xerrors.Errorf("materializing relation: %w", err)
	}
	return b.baseRelation(rel.cols, rows), nil
}

// Count evaluates r and returns its row count.
func (b *InMemoryBackend) Count(ctx context.Context, r tabular.Relation) (int64, error) {
	rel, err := b.own(r)
	if err != nil {
		return 0, err
	}
	rows, err := rel.eval(ctx)
	if err != nil {
		return 0, xerrors.Errorf("counting relation: %w", err)
	}
	return int64(len(rows)), nil
}

// DistinctValues evaluates r and returns the distinct values of col in
// first-seen order.
func (b *InMemoryBackend) DistinctValues(ctx context.Context, r tabular.Relation, col string) ([]any, error) {
	rel, err := b.own(r)
	if err != nil {
		return nil, err
	}
	if !rel.hasColumn(col) {
		return nil, xerrors.Errorf("distinct values: column %q: %w", col, ErrUnknownColumn)
	}
	rows, err := rel.eval(ctx)
	if err != nil {
		return nil, xerrors.Errorf("distinct values of %q: %w", col, err)
	}

	var out []any
	seen := make(map[any]struct{})
	for _, row := range rows {
		key := normalizeValue(row[col])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row[col])
	}
	return out, nil
}

// Rows evaluates r and returns an iterator over its tuples.
func (b *InMemoryBackend) Rows(ctx context.Context, r tabular.Relation) (tabular.RowIterator, error) {
	rel, err := b.own(r)
	if err != nil {
		return nil, err
	}
	rows, err := rel.eval(ctx)
	if err != nil {
		return nil, xerrors.Errorf("reading relation rows: %w", err)
	}
	return &rowIterator{rows: rows, curIndex: 0}, nil
}

/*own verifies that a relation handed back through the interface was
produced by this backend.*/
func (b *InMemoryBackend) own(r tabular.Relation) (*relation, error) {
	rel, ok := r.(*relation)
	if !ok || rel.be != b {
		return nil, xerrors.Errorf("relation: %w", ErrForeignRelation)
	}
	return rel, nil
}

/*compile returns the compiled program for an expression source,
reusing a previously compiled program when available.*/
func (b *InMemoryBackend) compile(src string) (*vm.Program, error) {
	b.mu.RLock()
	program, found := b.programs[src]
	b.mu.RUnlock()
	if found {
		return program, nil
	}

	program, err := expr.Compile(src, aggregateFunctions()...)
	if err != nil {
		return nil, xerrors.Errorf("compiling expression %q: %w", src, err)
	}

	b.mu.Lock()
	b.programs[src] = program
	b.mu.Unlock()
	return program, nil
}

// evalExpr binds a compiled expression to a row environment.
func (b *InMemoryBackend) evalExpr(e tabular.Expr, env map[string]any) (any, error) {
	program, err := b.compile(e.Source())
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, xerrors.Errorf("evaluating expression %q: %w", e.Source(), err)
	}
	return out, nil
}
