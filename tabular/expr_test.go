package tabular

import (
	"testing"

	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(ExprTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type ExprTestSuite struct{}

func (s *ExprTestSuite) TestLiterals(c *gc.C) {
	c.Assert(Literal(42).Source(), gc.Equals, "42")
	c.Assert(Literal(int64(42)).Source(), gc.Equals, "42")
	c.Assert(Literal(true).Source(), gc.Equals, "true")
	c.Assert(Literal("a\"b").Source(), gc.Equals, `"a\"b"`)
	c.Assert(Literal(nil).Source(), gc.Equals, "nil")
	c.Assert(Literal(0.5).Source(), gc.Equals, "0.5")
	c.Assert(Literal(1.0).Source(), gc.Equals, "1.0", gc.Commentf("float literals must stay floats"))
}

func (s *ExprTestSuite) TestCombinators(c *gc.C) {
	e := Col("a").Add(Literal(1)).Mul(Col("b"))
	c.Assert(e.Source(), gc.Equals, "((a + 1) * b)")

	c.Assert(Col("x").Field("y").Source(), gc.Equals, "x.y")
	c.Assert(Col("m").IsNull().Source(), gc.Equals, "(m == nil)")
	c.Assert(Col("m").Coalesce(Literal(0)).Source(), gc.Equals, "(m ?? 0)")
	c.Assert(Col("f").AsBool().Source(), gc.Equals, "(f == true)")
	c.Assert(IfElse(Col("p"), Col("a"), Col("b")).Source(), gc.Equals, "(p ? a : b)")
}

func (s *ExprTestSuite) TestStructAndArray(c *gc.C) {
	e := ArrayOf(
		StructOf(
			StructField{Name: "id_", Expr: Col("src_").Field("id_")},
			StructField{Name: "msg", Expr: Literal(1)},
		),
	)
	c.Assert(e.Source(), gc.Equals, "[{id_: src_.id_, msg: 1}]")
}

func (s *ExprTestSuite) TestAggregateForms(c *gc.C) {
	c.Assert(Col("msg").Sum().Source(), gc.Equals, "sum(msg)")
	c.Assert(Col("msg").Mode().Source(), gc.Equals, "mode(msg)")
	c.Assert(Col("msg").CollectSet().Source(), gc.Equals, "collect_set(msg)")
}
