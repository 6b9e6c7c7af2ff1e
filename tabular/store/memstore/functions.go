package memstore

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"golang.org/x/xerrors"
)

/*aggregateFunctions returns the extra functions registered with every
compiled expression. The stock expr-lang builtins already cover sum,
min, max and first; these add the reducers the stock set lacks.*/
func aggregateFunctions() []expr.Option {
	return []expr.Option{
		expr.Function("mode", func(params ...any) (any, error) {
			vals, err := asValueSlice("mode", params)
			if err != nil {
				return nil, err
			}
			return mostFrequent(vals)
		}),
		expr.Function("collect_set", func(params ...any) (any, error) {
			vals, err := asValueSlice("collect_set", params)
			if err != nil {
				return nil, err
			}
			return distinctSorted(vals), nil
		}),
	}
}

func asValueSlice(fn string, params []any) ([]any, error) {
	if len(params) != 1 {
		return nil, xerrors.Errorf("%s expects a single array argument, got %d arguments", fn, len(params))
	}
	vals, ok := params[0].([]any)
	if !ok {
		return nil, xerrors.Errorf("%s expects an array argument, got %T", fn, params[0])
	}
	return vals, nil
}

/*mostFrequent returns the most frequent value of the slice; ties break
toward the smallest value so that repeated runs are deterministic.*/
func mostFrequent(vals []any) (any, error) {
	if len(vals) == 0 {
		return nil, nil
	}

	counts := make(map[any]int, len(vals))
	originals := make(map[any]any, len(vals))
	for _, v := range vals {
		k := normalizeValue(v)
		counts[k]++
		if _, seen := originals[k]; !seen {
			originals[k] = v
		}
	}

	var (
		bestKey   any
		bestCount int
		havePick  bool
	)
	for k, n := range counts {
		if !havePick || n > bestCount || (n == bestCount && lessValue(k, bestKey)) {
			bestKey, bestCount, havePick = k, n, true
		}
	}
	return originals[bestKey], nil
}

// distinctSorted returns the distinct values in ascending order.
func distinctSorted(vals []any) []any {
	seen := make(map[any]struct{}, len(vals))
	out := make([]any, 0, len(vals))
	for _, v := range vals {
		k := normalizeValue(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessValue(normalizeValue(out[i]), normalizeValue(out[j]))
	})
	return out
}

/*normalizeValue collapses the numeric kinds onto int64/float64 so that
values compare equal across the Go types a row may carry. Composite
values fall back to their printed form, which keeps them usable as map
keys.*/
func normalizeValue(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return int64(t)
	case float32:
		return float64(t)
	case nil, bool, float64, string:
		return t
	default:
		return fmt.Sprintf("%#v", v)
	}
}

func lessValue(a, b any) bool {
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		return af < bf
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return as < bs
	}
	// Mixed kinds: order numerics first, then by printed form.
	if aNum != bNum {
		return aNum
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}
