package memstore

import "golang.org/x/xerrors"

var (
	// ErrNoColumns is returned when a relation would have no columns.
	ErrNoColumns = xerrors.New("relation requires at least one column")

	// ErrDuplicateColumn is returned when an operation would produce
	// two columns with the same name.
	ErrDuplicateColumn = xerrors.New("duplicate column name")

	// ErrRaggedRow is returned by FromRows when a row's arity does not
	// match the column list.
	ErrRaggedRow = xerrors.New("row arity does not match column list")

	// ErrUnknownColumn is returned when an operation references a
	// column the relation does not have.
	ErrUnknownColumn = xerrors.New("unknown column")

	// ErrForeignRelation is returned when a relation produced by a
	// different backend is passed in.
	ErrForeignRelation = xerrors.New("relation does not belong to this backend")

	// ErrNotABool is returned when a filter or join predicate does not
	// evaluate to a boolean.
	ErrNotABool = xerrors.New("predicate must evaluate to a boolean")

	// ErrNotAnArray is returned by Unnest when the target column does
	// not hold array values.
	ErrNotAnArray = xerrors.New("unnest target must hold array values")
)
