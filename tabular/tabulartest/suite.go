package tabulartest

import (
	"context"
	"sort"

	"github.com/brandonshearin/relgraph/tabular"
	gc "gopkg.in/check.v1"
)

/*SuiteBase defines a re-usable set of conformance tests that can be
executed against any type that implements tabular.Backend.*/
type SuiteBase struct {
	be tabular.Backend
}

func (s *SuiteBase) SetBackend(be tabular.Backend) {
	s.be = be
}

func (s *SuiteBase) mustTable(c *gc.C, cols []string, rows [][]any) tabular.Relation {
	r, err := s.be.FromRows(cols, rows)
	c.Assert(err, gc.IsNil)
	return r
}

func (s *SuiteBase) TestFromRowsAndCount(c *gc.C) {
	r := s.mustTable(c, []string{"id", "score"}, [][]any{
		{int64(1), 0.5},
		{int64(2), 1.5},
		{int64(3), nil},
	})
	c.Assert(r.Columns(), gc.DeepEquals, []string{"id", "score"})

	n, err := s.be.Count(context.Background(), r)
	c.Assert(err, gc.IsNil)
	c.Assert(n, gc.Equals, int64(3))
}

func (s *SuiteBase) TestFromRowsRejectsRaggedRows(c *gc.C) {
	_, err := s.be.FromRows([]string{"a", "b"}, [][]any{{int64(1)}})
	c.Assert(err, gc.NotNil)

	_, err = s.be.FromRows([]string{"a", "a"}, nil)
	c.Assert(err, gc.NotNil, gc.Commentf("expected duplicate column names to be rejected"))
}

func (s *SuiteBase) TestSelectAndFilter(c *gc.C) {
	r := s.mustTable(c, []string{"id", "v"}, [][]any{
		{int64(1), int64(10)},
		{int64(2), int64(20)},
		{int64(3), int64(30)},
	})

	doubled := r.
		Select(tabular.Col("id").As("id"), tabular.Col("v").Mul(tabular.Literal(2)).As("v2")).
		Filter(tabular.Col("v2").Gt(tabular.Literal(30)))

	rows, err := tabular.CollectRows(context.Background(), s.be, doubled)
	c.Assert(err, gc.IsNil)
	c.Assert(len(rows), gc.Equals, 2)
	for _, row := range rows {
		c.Assert(toInt64(c, row["v2"]) > 30, gc.Equals, true)
	}
}

func (s *SuiteBase) TestFilterTreatsNullAsFalse(c *gc.C) {
	r := s.mustTable(c, []string{"id", "flag"}, [][]any{
		{int64(1), true},
		{int64(2), nil},
		{int64(3), false},
	})

	rows, err := tabular.CollectRows(context.Background(), s.be, r.Filter(tabular.Col("flag").AsBool()))
	c.Assert(err, gc.IsNil)
	c.Assert(len(rows), gc.Equals, 1)
	c.Assert(toInt64(c, rows[0]["id"]), gc.Equals, int64(1))
}

func (s *SuiteBase) TestInnerJoinOnPackedStructs(c *gc.C) {
	left := s.mustTable(c, []string{"id", "name"}, [][]any{
		{int64(1), "a"},
		{int64(2), "b"},
	}).Select(tabular.StructOf(
		tabular.StructField{Name: "id", Expr: tabular.Col("id")},
		tabular.StructField{Name: "name", Expr: tabular.Col("name")},
	).As("l"))

	right := s.mustTable(c, []string{"ref"}, [][]any{
		{int64(2)},
		{int64(2)},
		{int64(3)},
	})

	joined := left.InnerJoin(right, tabular.Col("l").Field("id").Eq(tabular.Col("ref")))
	rows, err := tabular.CollectRows(context.Background(), s.be, joined)
	c.Assert(err, gc.IsNil)
	c.Assert(len(rows), gc.Equals, 2, gc.Commentf("expected one row per matching right tuple"))
	for _, row := range rows {
		packed, ok := row["l"].(map[string]any)
		c.Assert(ok, gc.Equals, true)
		c.Assert(packed["name"], gc.Equals, "b")
	}
}

func (s *SuiteBase) TestKeyJoin(c *gc.C) {
	left := s.mustTable(c, []string{"id", "v"}, [][]any{
		{int64(1), int64(10)},
		{int64(2), int64(20)},
	})
	right := s.mustTable(c, []string{"id", "w"}, [][]any{
		{int64(2), int64(200)},
	})

	inner, err := tabular.CollectRows(context.Background(), s.be, left.KeyJoin(right, "id", tabular.InnerJoinKind))
	c.Assert(err, gc.IsNil)
	c.Assert(len(inner), gc.Equals, 1)
	c.Assert(toInt64(c, inner[0]["w"]), gc.Equals, int64(200))

	outer, err := tabular.CollectRows(context.Background(), s.be, left.KeyJoin(right, "id", tabular.LeftJoinKind))
	c.Assert(err, gc.IsNil)
	c.Assert(len(outer), gc.Equals, 2)
	for _, row := range outer {
		if toInt64(c, row["id"]) == 1 {
			c.Assert(row["w"], gc.IsNil, gc.Commentf("unmatched left rows must be null-padded"))
		} else {
			c.Assert(toInt64(c, row["w"]), gc.Equals, int64(200))
		}
	}
}

func (s *SuiteBase) TestGroupBy(c *gc.C) {
	r := s.mustTable(c, []string{"id", "msg"}, [][]any{
		{int64(1), int64(3)},
		{int64(1), int64(4)},
		{int64(2), int64(5)},
	})

	agg := r.GroupBy("id", tabular.Col("msg").Sum().As("msg"))
	rows, err := tabular.CollectRows(context.Background(), s.be, agg)
	c.Assert(err, gc.IsNil)
	c.Assert(len(rows), gc.Equals, 2)

	byID := map[int64]int64{}
	for _, row := range rows {
		byID[toInt64(c, row["id"])] = toInt64(c, row["msg"])
	}
	c.Assert(byID, gc.DeepEquals, map[int64]int64{1: 7, 2: 5})
}

func (s *SuiteBase) TestUnnestArrayOfStructs(c *gc.C) {
	r := s.mustTable(c, []string{"id"}, [][]any{
		{int64(1)},
		{int64(2)},
	})

	messages := r.Select(tabular.ArrayOf(
		tabular.StructOf(
			tabular.StructField{Name: "target", Expr: tabular.Col("id")},
			tabular.StructField{Name: "msg", Expr: tabular.Literal(1)},
		),
		tabular.StructOf(
			tabular.StructField{Name: "target", Expr: tabular.Col("id")},
			tabular.StructField{Name: "msg", Expr: tabular.Null()},
		),
	).As("m")).
		Unnest("m").
		Filter(tabular.Col("m").Field("msg").NotNull())

	rows, err := tabular.CollectRows(context.Background(), s.be, messages)
	c.Assert(err, gc.IsNil)
	c.Assert(len(rows), gc.Equals, 2, gc.Commentf("null messages must be dropped, one non-null per source row kept"))
}

func (s *SuiteBase) TestRenameAndDrop(c *gc.C) {
	r := s.mustTable(c, []string{"id", "x", "y"}, [][]any{
		{int64(1), int64(2), int64(3)},
	})

	reshaped := r.Rename(map[string]string{"node_id": "id"}).Drop("y")
	c.Assert(reshaped.Columns(), gc.DeepEquals, []string{"node_id", "x"})

	rows, err := tabular.CollectRows(context.Background(), s.be, reshaped)
	c.Assert(err, gc.IsNil)
	c.Assert(len(rows), gc.Equals, 1)
	c.Assert(toInt64(c, rows[0]["node_id"]), gc.Equals, int64(1))
	_, hasY := rows[0]["y"]
	c.Assert(hasY, gc.Equals, false)
}

func (s *SuiteBase) TestDistinctValues(c *gc.C) {
	r := s.mustTable(c, []string{"flag"}, [][]any{
		{false},
		{false},
		{false},
	})

	vals, err := s.be.DistinctValues(context.Background(), r, "flag")
	c.Assert(err, gc.IsNil)
	c.Assert(vals, gc.DeepEquals, []any{false})
}

func (s *SuiteBase) TestMaterializePreservesContents(c *gc.C) {
	r := s.mustTable(c, []string{"id"}, [][]any{
		{int64(2)}, {int64(1)}, {int64(3)},
	}).Filter(tabular.Col("id").Gt(tabular.Literal(1)))

	cached, err := s.be.Materialize(context.Background(), r)
	c.Assert(err, gc.IsNil)
	c.Assert(cached.Columns(), gc.DeepEquals, []string{"id"})

	want, err := tabular.CollectRows(context.Background(), s.be, r)
	c.Assert(err, gc.IsNil)
	got, err := tabular.CollectRows(context.Background(), s.be, cached)
	c.Assert(err, gc.IsNil)
	c.Assert(sortedIDs(c, got), gc.DeepEquals, sortedIDs(c, want))
}

func (s *SuiteBase) TestLazyPlanErrorsSurfaceOnMaterialize(c *gc.C) {
	r := s.mustTable(c, []string{"id"}, [][]any{{int64(1)}})

	// Building a plan against a missing column must not fail eagerly.
	bad := r.Unnest("no_such_column")
	_, err := tabular.CollectRows(context.Background(), s.be, bad)
	c.Assert(err, gc.NotNil)
}

func sortedIDs(c *gc.C, rows []tabular.Row) []int64 {
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = toInt64(c, row["id"])
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func toInt64(c *gc.C, v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		c.Fatalf("expected numeric value, got %T", v)
		return 0
	}
}
