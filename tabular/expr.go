package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

/*Expr is an opaque, lazily-evaluated expression over the columns of a
relation. Combinators only assemble expression source; nothing is
evaluated until a backend binds the expression to actual rows during
plan execution. The source dialect is the expr-lang expression
language, which is what the bundled in-memory store compiles.*/
type Expr struct {
	src string
}

// Source returns the expression source for the backend to compile.
func (e Expr) Source() string { return e.src }

// Col references a column of the current row by name.
func Col(name string) Expr { return Expr{src: name} }

// Raw wraps an already-formed expression source string.
func Raw(src string) Expr { return Expr{src: src} }

// Null is the null literal. Expressions producing null on a message
// row mean "no message on this edge this superstep".
func Null() Expr { return Expr{src: "nil"} }

// Literal embeds a Go constant into an expression. Supported kinds are
// booleans, integers, floats and strings; nil maps to null.
func Literal(v any) Expr {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return Expr{src: strconv.FormatBool(t)}
	case int:
		return Expr{src: strconv.Itoa(t)}
	case int32:
		return Expr{src: strconv.FormatInt(int64(t), 10)}
	case int64:
		return Expr{src: strconv.FormatInt(t, 10)}
	case float32:
		return Expr{src: formatFloat(float64(t))}
	case float64:
		return Expr{src: formatFloat(t)}
	case string:
		return Expr{src: strconv.Quote(t)}
	default:
		// Uncommon literal kinds fall back to fmt; the backend will
		// reject anything that does not parse.
		return Expr{src: fmt.Sprintf("%v", v)}
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Field accesses a member of a struct-valued expression.
func (e Expr) Field(name string) Expr {
	return Expr{src: e.src + "." + name}
}

func binary(l Expr, op string, r Expr) Expr {
	return Expr{src: "(" + l.src + " " + op + " " + r.src + ")"}
}

func (e Expr) Add(o Expr) Expr { return binary(e, "+", o) }
func (e Expr) Sub(o Expr) Expr { return binary(e, "-", o) }
func (e Expr) Mul(o Expr) Expr { return binary(e, "*", o) }
func (e Expr) Div(o Expr) Expr { return binary(e, "/", o) }

func (e Expr) Eq(o Expr) Expr { return binary(e, "==", o) }
func (e Expr) Ne(o Expr) Expr { return binary(e, "!=", o) }
func (e Expr) Gt(o Expr) Expr { return binary(e, ">", o) }
func (e Expr) Ge(o Expr) Expr { return binary(e, ">=", o) }
func (e Expr) Lt(o Expr) Expr { return binary(e, "<", o) }
func (e Expr) Le(o Expr) Expr { return binary(e, "<=", o) }

func (e Expr) And(o Expr) Expr { return binary(e, "&&", o) }
func (e Expr) Or(o Expr) Expr  { return binary(e, "||", o) }
func (e Expr) Not() Expr       { return Expr{src: "!(" + e.src + ")"} }

// IsNull tests the expression against null.
func (e Expr) IsNull() Expr { return Expr{src: "(" + e.src + " == nil)"} }

// NotNull is the negation of IsNull.
func (e Expr) NotNull() Expr { return Expr{src: "(" + e.src + " != nil)"} }

// Coalesce yields e unless it is null, in which case it yields o.
func (e Expr) Coalesce(o Expr) Expr { return binary(e, "??", o) }

// AsBool casts to a boolean; null casts to false.
func (e Expr) AsBool() Expr { return Expr{src: "(" + e.src + " == true)"} }

// AsFloat casts a numeric expression to a float.
func (e Expr) AsFloat() Expr { return Expr{src: "float(" + e.src + ")"} }

// Abs is the absolute value of a numeric expression.
func (e Expr) Abs() Expr { return Expr{src: "abs(" + e.src + ")"} }

// Len is the element count of an array-valued expression.
func (e Expr) Len() Expr { return Expr{src: "len(" + e.src + ")"} }

// IfElse evaluates to then when cond holds and otherwise to els. Only
// the selected branch is evaluated.
func IfElse(cond, then, els Expr) Expr {
	return Expr{src: "(" + cond.src + " ? " + then.src + " : " + els.src + ")"}
}

// Least yields the smaller of two non-null numeric expressions.
func Least(a, b Expr) Expr {
	return Expr{src: "min(" + a.src + ", " + b.src + ")"}
}

// Greatest yields the larger of two non-null numeric expressions.
func Greatest(a, b Expr) Expr {
	return Expr{src: "max(" + a.src + ", " + b.src + ")"}
}

// StructField is one field of a struct-building expression.
type StructField struct {
	Name string
	Expr Expr
}

// StructOf builds a struct value out of named field expressions.
func StructOf(fields ...StructField) Expr {
	var sb strings.Builder
	sb.WriteString("{")
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Expr.src)
	}
	sb.WriteString("}")
	return Expr{src: sb.String()}
}

// ArrayOf builds an array value out of element expressions.
func ArrayOf(elems ...Expr) Expr {
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.src)
	}
	sb.WriteString("]")
	return Expr{src: sb.String()}
}

// EmptyArray is the zero-element array literal.
func EmptyArray() Expr { return Expr{src: "[]"} }

// Aggregate forms. Inside a GroupBy the aggregated column binds to the
// array of the group's values, so these reduce an array expression to
// a scalar (or, for CollectSet, to a deduplicated array).

func (e Expr) Sum() Expr   { return Expr{src: "sum(" + e.src + ")"} }
func (e Expr) Max() Expr   { return Expr{src: "max(" + e.src + ")"} }
func (e Expr) Min() Expr   { return Expr{src: "min(" + e.src + ")"} }
func (e Expr) First() Expr { return Expr{src: "first(" + e.src + ")"} }

// Mode reduces to the most frequent value; ties break toward the
// smallest value.
func (e Expr) Mode() Expr { return Expr{src: "mode(" + e.src + ")"} }

// CollectSet reduces to the sorted array of distinct values.
func (e Expr) CollectSet() Expr { return Expr{src: "collect_set(" + e.src + ")"} }

// NamedExpr pairs an expression with the output column it produces.
type NamedExpr struct {
	Name string
	Expr Expr
}

// As names the column an expression projects into.
func (e Expr) As(name string) NamedExpr { return NamedExpr{Name: name, Expr: e} }
