package pregel

import "github.com/brandonshearin/relgraph/tabular"

/*Aggregator is implemented by types that reduce the bag of messages
arriving at a vertex into a single value. The input expression binds
to the array of message values for one vertex; the returned expression
must reduce it to a scalar (or, for set collection, to an array). The
reduction is expected to be associative; no ordering among the
messages is promised.*/
type Aggregator interface {
	Aggregate(msgs tabular.Expr) tabular.Expr
}

// The AggregatorFunc type is an adapter to allow the use of ordinary
// functions as Aggregators. If f is a function with the appropriate
// signature, AggregatorFunc(f) is an Aggregator that calls f.
type AggregatorFunc func(msgs tabular.Expr) tabular.Expr

// Aggregate calls f(msgs).
func (f AggregatorFunc) Aggregate(msgs tabular.Expr) tabular.Expr {
	return f(msgs)
}

// SumAggregator reduces messages to their sum.
func SumAggregator() Aggregator {
	return AggregatorFunc(func(msgs tabular.Expr) tabular.Expr { return msgs.Sum() })
}

// MaxAggregator reduces messages to their maximum.
func MaxAggregator() Aggregator {
	return AggregatorFunc(func(msgs tabular.Expr) tabular.Expr { return msgs.Max() })
}

// MinAggregator reduces messages to their minimum.
func MinAggregator() Aggregator {
	return AggregatorFunc(func(msgs tabular.Expr) tabular.Expr { return msgs.Min() })
}

// FirstAggregator reduces messages to an arbitrary single message.
func FirstAggregator() Aggregator {
	return AggregatorFunc(func(msgs tabular.Expr) tabular.Expr { return msgs.First() })
}

// ModeAggregator reduces messages to the most frequent value; ties
// break toward the smallest value.
func ModeAggregator() Aggregator {
	return AggregatorFunc(func(msgs tabular.Expr) tabular.Expr { return msgs.Mode() })
}

// CollectSetAggregator reduces messages to the sorted array of their
// distinct values.
func CollectSetAggregator() Aggregator {
	return AggregatorFunc(func(msgs tabular.Expr) tabular.Expr { return msgs.CollectSet() })
}
