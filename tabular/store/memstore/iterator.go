package memstore

import "github.com/brandonshearin/relgraph/tabular"

/*rowIterator walks an already-evaluated result set. Row returns a copy
of the current tuple so that callers cannot mutate cached results.*/
type rowIterator struct {
	rows     []tabular.Row
	curIndex int
}

func (i *rowIterator) Next() bool {
	if i.curIndex >= len(i.rows) {
		return false
	}
	i.curIndex++
	return true
}

func (i *rowIterator) Row() tabular.Row {
	row := i.rows[i.curIndex-1]
	copied := make(tabular.Row, len(row))
	for k, v := range row {
		copied[k] = v
	}
	return copied
}

func (i *rowIterator) Error() error { return nil }

func (i *rowIterator) Close() error { return nil }
