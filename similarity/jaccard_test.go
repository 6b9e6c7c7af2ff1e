package similarity_test

import (
	"context"
	"math"
	"testing"

	"github.com/brandonshearin/relgraph/graph/graphtest"
	"github.com/brandonshearin/relgraph/similarity"
	"github.com/brandonshearin/relgraph/tabular"
	"github.com/brandonshearin/relgraph/tabular/store/memstore"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(JaccardTestSuite))

func Test(t *testing.T) { gc.TestingT(t) }

type JaccardTestSuite struct {
	be tabular.Backend
}

func (s *JaccardTestSuite) SetUpTest(c *gc.C) {
	s.be = memstore.NewInMemoryBackend()
}

func (s *JaccardTestSuite) TestKarateClub(c *gc.C) {
	g := graphtest.KarateClub(c, s.be)

	sim, err := similarity.JaccardSimilarity(context.Background(), g)
	c.Assert(err, gc.IsNil)

	rows, err := tabular.CollectRows(context.Background(), s.be, sim)
	c.Assert(err, gc.IsNil)
	c.Assert(len(rows), gc.Equals, 34*33/2, gc.Commentf("one row per unordered vertex pair"))

	var found bool
	for _, row := range rows {
		left := row["node_id_left"].(int64)
		right := row["node_id_right"].(int64)
		c.Assert(left < right, gc.Equals, true)

		if left == 1 && right == 33 {
			found = true
			got, ok := row["jaccard_similarity"].(float64)
			c.Assert(ok, gc.Equals, true)
			// |N(1) ∩ N(33)| = 3 and |N(1) ∪ N(33)| = 25.
			c.Assert(math.Abs(got-0.12) < 1e-4, gc.Equals, true,
				gc.Commentf("similarity(1, 33) = %v, want 0.12", got))
		}
	}
	c.Assert(found, gc.Equals, true)
}
