package memstore

import (
	"context"

	"github.com/brandonshearin/relgraph/tabular"
	"golang.org/x/xerrors"
)

/*relation is a lazy plan node. Builder methods assemble new nodes
without touching row data; evalFn runs the node when one of the
backend's materializing methods is invoked. Invalid plans (unknown
columns, mixed backends) are represented as nodes whose evaluation
fails, so that all errors surface at materialization time.*/
type relation struct {
	be     *InMemoryBackend
	cols   []string
	types  map[string]tabular.ColumnType
	evalFn func(ctx context.Context) ([]tabular.Row, error)
}

func (b *InMemoryBackend) baseRelation(cols []string, rows []tabular.Row) *relation {
	colsCopy := append([]string(nil), cols...)
	return &relation{
		be:    b,
		cols:  colsCopy,
		types: inferTypes(colsCopy, rows),
		evalFn: func(context.Context) ([]tabular.Row, error) {
			return rows, nil
		},
	}
}

func (b *InMemoryBackend) derived(cols []string, evalFn func(ctx context.Context) ([]tabular.Row, error)) *relation {
	return &relation{be: b, cols: cols, evalFn: evalFn}
}

func (b *InMemoryBackend) invalid(err error) *relation {
	return &relation{
		be: b,
		evalFn: func(context.Context) ([]tabular.Row, error) {
			return nil, err
		},
	}
}

func (r *relation) eval(ctx context.Context) ([]tabular.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.evalFn(ctx)
}

// Columns returns the output column names of the plan, in order.
func (r *relation) Columns() []string {
	return append([]string(nil), r.cols...)
}

// ColumnTypes reports the value types of base (and materialized)
// relations. Derived plans return nil, so every column of a derived
// plan reads as tabular.TypeUnknown.
func (r *relation) ColumnTypes() map[string]tabular.ColumnType {
	if r.types == nil {
		return nil
	}
	out := make(map[string]tabular.ColumnType, len(r.types))
	for k, v := range r.types {
		out[k] = v
	}
	return out
}

func (r *relation) hasColumn(name string) bool {
	for _, col := range r.cols {
		if col == name {
			return true
		}
	}
	return false
}

// Select projects the relation through the given named expressions.
func (r *relation) Select(exprs ...tabular.NamedExpr) tabular.Relation {
	if len(exprs) == 0 {
		return r.be.invalid(xerrors.Errorf("select: %w", ErrNoColumns))
	}
	cols := make([]string, len(exprs))
	seen := make(map[string]struct{}, len(exprs))
	for i, ne := range exprs {
		if _, dup := seen[ne.Name]; dup {
			return r.be.invalid(xerrors.Errorf("select: column %q: %w", ne.Name, ErrDuplicateColumn))
		}
		seen[ne.Name] = struct{}{}
		cols[i] = ne.Name
	}

	return r.be.derived(cols, func(ctx context.Context) ([]tabular.Row, error) {
		in, err := r.eval(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]tabular.Row, len(in))
		for i, row := range in {
			projected := make(tabular.Row, len(exprs))
			for _, ne := range exprs {
				v, err := r.be.evalExpr(ne.Expr, row)
				if err != nil {
					return nil, xerrors.Errorf("select column %q: %w", ne.Name, err)
				}
				projected[ne.Name] = v
			}
			out[i] = projected
		}
		return out, nil
	})
}

// Filter retains the rows for which pred evaluates to true.
func (r *relation) Filter(pred tabular.Expr) tabular.Relation {
	return r.be.derived(r.Columns(), func(ctx context.Context) ([]tabular.Row, error) {
		in, err := r.eval(ctx)
		if err != nil {
			return nil, err
		}
		var out []tabular.Row
		for _, row := range in {
			v, err := r.be.evalExpr(pred, row)
			if err != nil {
				return nil, xerrors.Errorf("filter: %w", err)
			}
			keep, err := asPredicate(v)
			if err != nil {
				return nil, xerrors.Errorf("filter: %w", err)
			}
			if keep {
				out = append(out, row)
			}
		}
		return out, nil
	})
}

// InnerJoin joins with other on an arbitrary row condition.
func (r *relation) InnerJoin(other tabular.Relation, on tabular.Expr) tabular.Relation {
	right, err := r.be.own(other)
	if err != nil {
		return r.be.invalid(err)
	}
	cols := append(r.Columns(), right.cols...)
	seen := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		if _, dup := seen[col]; dup {
			return r.be.invalid(xerrors.Errorf("inner join: column %q: %w", col, ErrDuplicateColumn))
		}
		seen[col] = struct{}{}
	}

	return r.be.derived(cols, func(ctx context.Context) ([]tabular.Row, error) {
		leftRows, err := r.eval(ctx)
		if err != nil {
			return nil, err
		}
		rightRows, err := right.eval(ctx)
		if err != nil {
			return nil, err
		}
		var out []tabular.Row
		for _, lr := range leftRows {
			for _, rr := range rightRows {
				merged := mergeRows(lr, rr)
				v, err := r.be.evalExpr(on, merged)
				if err != nil {
					return nil, xerrors.Errorf("inner join condition: %w", err)
				}
				match, err := asPredicate(v)
				if err != nil {
					return nil, xerrors.Errorf("inner join condition: %w", err)
				}
				if match {
					out = append(out, merged)
				}
			}
		}
		return out, nil
	})
}

// KeyJoin equi-joins with other on a shared key column.
func (r *relation) KeyJoin(other tabular.Relation, key string, kind tabular.JoinKind) tabular.Relation {
	right, err := r.be.own(other)
	if err != nil {
		return r.be.invalid(err)
	}
	if !r.hasColumn(key) || !right.hasColumn(key) {
		return r.be.invalid(xerrors.Errorf("key join: column %q: %w", key, ErrUnknownColumn))
	}

	var rightCols []string
	for _, col := range right.cols {
		if col == key {
			continue
		}
		rightCols = append(rightCols, col)
	}
	cols := append(r.Columns(), rightCols...)
	seen := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		if _, dup := seen[col]; dup {
			return r.be.invalid(xerrors.Errorf("key join: column %q: %w", col, ErrDuplicateColumn))
		}
		seen[col] = struct{}{}
	}

	return r.be.derived(cols, func(ctx context.Context) ([]tabular.Row, error) {
		leftRows, err := r.eval(ctx)
		if err != nil {
			return nil, err
		}
		rightRows, err := right.eval(ctx)
		if err != nil {
			return nil, err
		}

		index := make(map[any][]tabular.Row)
		for _, rr := range rightRows {
			k := normalizeValue(rr[key])
			index[k] = append(index[k], rr)
		}

		var out []tabular.Row
		for _, lr := range leftRows {
			matches := index[normalizeValue(lr[key])]
			if len(matches) == 0 {
				if kind == tabular.LeftJoinKind {
					padded := mergeRows(lr, nil)
					for _, col := range rightCols {
						padded[col] = nil
					}
					out = append(out, padded)
				}
				continue
			}
			for _, rr := range matches {
				merged := mergeRows(lr, nil)
				for _, col := range rightCols {
					merged[col] = rr[col]
				}
				out = append(out, merged)
			}
		}
		return out, nil
	})
}

// GroupBy groups by the key column and evaluates agg once per group.
// Inside agg the key binds to its scalar value and every other column
// binds to the array of the group's values.
func (r *relation) GroupBy(key string, agg tabular.NamedExpr) tabular.Relation {
	if !r.hasColumn(key) {
		return r.be.invalid(xerrors.Errorf("group by: column %q: %w", key, ErrUnknownColumn))
	}
	inputCols := r.Columns()

	return r.be.derived([]string{key, agg.Name}, func(ctx context.Context) ([]tabular.Row, error) {
		in, err := r.eval(ctx)
		if err != nil {
			return nil, err
		}

		type group struct {
			keyValue any
			values   map[string][]any
		}
		var order []any
		groups := make(map[any]*group)
		for _, row := range in {
			k := normalizeValue(row[key])
			g := groups[k]
			if g == nil {
				g = &group{keyValue: row[key], values: make(map[string][]any)}
				groups[k] = g
				order = append(order, k)
			}
			for _, col := range inputCols {
				if col == key {
					continue
				}
				g.values[col] = append(g.values[col], row[col])
			}
		}

		out := make([]tabular.Row, 0, len(order))
		for _, k := range order {
			g := groups[k]
			env := make(map[string]any, len(inputCols))
			env[key] = g.keyValue
			for _, col := range inputCols {
				if col == key {
					continue
				}
				env[col] = g.values[col]
			}
			v, err := r.be.evalExpr(agg.Expr, env)
			if err != nil {
				return nil, xerrors.Errorf("group by aggregate %q: %w", agg.Name, err)
			}
			out = append(out, tabular.Row{key: g.keyValue, agg.Name: v})
		}
		return out, nil
	})
}

// Unnest explodes the named array column into one row per element.
func (r *relation) Unnest(col string) tabular.Relation {
	if !r.hasColumn(col) {
		return r.be.invalid(xerrors.Errorf("unnest: column %q: %w", col, ErrUnknownColumn))
	}

	return r.be.derived(r.Columns(), func(ctx context.Context) ([]tabular.Row, error) {
		in, err := r.eval(ctx)
		if err != nil {
			return nil, err
		}
		var out []tabular.Row
		for _, row := range in {
			if row[col] == nil {
				continue
			}
			elems, ok := row[col].([]any)
			if !ok {
				return nil, xerrors.Errorf("unnest: column %q holds %T: %w", col, row[col], ErrNotAnArray)
			}
			for _, elem := range elems {
				next := mergeRows(row, nil)
				next[col] = elem
				out = append(out, next)
			}
		}
		return out, nil
	})
}

// Rename renames columns; keys are new names, values are old ones.
func (r *relation) Rename(renames map[string]string) tabular.Relation {
	oldToNew := make(map[string]string, len(renames))
	for newName, oldName := range renames {
		if !r.hasColumn(oldName) {
			return r.be.invalid(xerrors.Errorf("rename: column %q: %w", oldName, ErrUnknownColumn))
		}
		oldToNew[oldName] = newName
	}

	cols := make([]string, len(r.cols))
	for i, col := range r.cols {
		if newName, renamed := oldToNew[col]; renamed {
			cols[i] = newName
		} else {
			cols[i] = col
		}
	}

	return r.be.derived(cols, func(ctx context.Context) ([]tabular.Row, error) {
		in, err := r.eval(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]tabular.Row, len(in))
		for i, row := range in {
			next := make(tabular.Row, len(row))
			for col, v := range row {
				if newName, renamed := oldToNew[col]; renamed {
					next[newName] = v
				} else {
					next[col] = v
				}
			}
			out[i] = next
		}
		return out, nil
	})
}

// Drop removes the named columns; unknown names are ignored.
func (r *relation) Drop(cols ...string) tabular.Relation {
	dropped := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		dropped[col] = struct{}{}
	}

	var kept []string
	for _, col := range r.cols {
		if _, drop := dropped[col]; !drop {
			kept = append(kept, col)
		}
	}

	return r.be.derived(kept, func(ctx context.Context) ([]tabular.Row, error) {
		in, err := r.eval(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]tabular.Row, len(in))
		for i, row := range in {
			next := make(tabular.Row, len(kept))
			for _, col := range kept {
				next[col] = row[col]
			}
			out[i] = next
		}
		return out, nil
	})
}

// mergeRows copies l and, when non-nil, overlays r on top of the copy.
func mergeRows(l, r tabular.Row) tabular.Row {
	merged := make(tabular.Row, len(l)+len(r))
	for k, v := range l {
		merged[k] = v
	}
	for k, v := range r {
		merged[k] = v
	}
	return merged
}

func asPredicate(v any) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	default:
		return false, xerrors.Errorf("predicate evaluated to %T: %w", v, ErrNotABool)
	}
}

func inferTypes(cols []string, rows []tabular.Row) map[string]tabular.ColumnType {
	types := make(map[string]tabular.ColumnType, len(cols))
	for _, col := range cols {
		types[col] = tabular.TypeUnknown
		for _, row := range rows {
			if row[col] == nil {
				continue
			}
			types[col] = typeOf(row[col])
			break
		}
	}
	return types
}

func typeOf(v any) tabular.ColumnType {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return tabular.TypeInteger
	case float32, float64:
		return tabular.TypeFloat
	case bool:
		return tabular.TypeBool
	case string:
		return tabular.TypeString
	case map[string]any:
		return tabular.TypeStruct
	case []any:
		return tabular.TypeArray
	default:
		return tabular.TypeUnknown
	}
}
