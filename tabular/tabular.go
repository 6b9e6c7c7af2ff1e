package tabular

import (
	"context"
)

// Row is a single materialized tuple, keyed by column name. A nil value
// represents SQL-style NULL.
type Row map[string]any

// JoinKind selects how a key join treats unmatched left-side rows.
type JoinKind int

const (
	// InnerJoinKind drops left rows without a match on the right.
	InnerJoinKind JoinKind = iota

	// LeftJoinKind keeps every left row; unmatched right columns are null.
	LeftJoinKind
)

/*Backend is the session handle against a tabular query engine. The
driver only ever materializes through one of these methods; everything
else is lazy plan construction on Relation values. Concurrent use of a
single Backend is the implementation's responsibility.*/
type Backend interface {
	/*FromRows creates a relation from an in-memory table. Every row
	must provide exactly the listed columns, in order.*/
	FromRows(cols []string, rows [][]any) (Relation, error)

	/*Materialize forces evaluation of r and returns a relation backed
	by the cached result. Further references to the returned relation
	must not re-execute r's construction plan.*/
	Materialize(ctx context.Context, r Relation) (Relation, error)

	// Count evaluates r and returns its row count.
	Count(ctx context.Context, r Relation) (int64, error)

	/*DistinctValues evaluates r and returns the set of distinct values
	held by the named column. Intended for small probe reads only.*/
	DistinctValues(ctx context.Context, r Relation, col string) ([]any, error)

	// Rows evaluates r and returns an iterator over its tuples.
	Rows(ctx context.Context, r Relation) (RowIterator, error)
}

/*Relation is a lazy relational plan. The builder methods never touch
the backend: they only grow the plan, and any error (unknown column,
expression that fails to compile, relations from different backends)
surfaces when the plan is finally materialized.*/
type Relation interface {
	// Columns returns the output column names of the plan, in order.
	Columns() []string

	// Select projects the relation through the given named expressions.
	Select(exprs ...NamedExpr) Relation

	// Filter retains the rows for which pred evaluates to true.
	Filter(pred Expr) Relation

	/*InnerJoin joins with other on an arbitrary condition evaluated
	against the concatenation of a left and a right row. Column names
	of the two sides must not overlap.*/
	InnerJoin(other Relation, on Expr) Relation

	/*KeyJoin equi-joins with other on a shared key column. The key
	appears once in the output; the remaining columns of both sides
	are concatenated.*/
	KeyJoin(other Relation, key string, kind JoinKind) Relation

	/*GroupBy groups by the key column and evaluates agg once per
	group. Inside agg, the key binds to its scalar value and every
	other column binds to the array of that group's values.*/
	GroupBy(key string, agg NamedExpr) Relation

	/*Unnest explodes the named array column, emitting one row per
	element. Other columns are repeated per element.*/
	Unnest(col string) Relation

	// Rename renames columns; keys are new names, values are old ones.
	Rename(renames map[string]string) Relation

	// Drop removes the named columns from the output.
	Drop(cols ...string) Relation
}

/*TypedRelation is implemented by relations that know their column
types, typically those created straight from in-memory tables. Plans
derived through Select and friends are free not to implement it.*/
type TypedRelation interface {
	Relation

	ColumnTypes() map[string]ColumnType
}

// ColumnType is the coarse value type of a column.
type ColumnType int

const (
	TypeUnknown ColumnType = iota
	TypeInteger
	TypeFloat
	TypeBool
	TypeString
	TypeStruct
	TypeArray
)

/*RowIterator is implemented by objects that can iterate a materialized
result set. Callers must Close the iterator to release any resources
held by the backend.*/
type RowIterator interface {
	/*Advance the iterator. If no more rows are available or an error
	occurs, calls to Next() return false.*/
	Next() bool

	// Row returns the current tuple.
	Row() Row

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources associated with the iterator.
	Close() error
}

/*CollectRows is a convenience helper that drains the iterator for r
and returns every tuple. Meant for small result sets and tests.*/
func CollectRows(ctx context.Context, be Backend, r Relation) ([]Row, error) {
	it, err := be.Rows(ctx, r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var rows []Row
	for it.Next() {
		rows = append(rows, it.Row())
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return rows, nil
}
