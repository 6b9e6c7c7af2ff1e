package pregel

import (
	"context"

	"github.com/brandonshearin/relgraph/pregel/mocks"
	"github.com/brandonshearin/relgraph/tabular/store/memstore"
	"github.com/golang/mock/gomock"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(CheckpointTestSuite))

type CheckpointTestSuite struct{}

func (s *CheckpointTestSuite) TestCheckpointsOnlyOnInterval(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	state, err := memstore.NewInMemoryBackend().FromRows([]string{"id_"}, [][]any{{int64(1)}})
	c.Assert(err, gc.IsNil)

	be := mocks.NewMockBackend(ctrl)
	be.EXPECT().Materialize(gomock.Any(), state).Return(state, nil).Times(2)

	cp := &checkpointer{be: be, interval: 2}
	for iteration := 1; iteration <= 4; iteration++ {
		next, checkpointed, err := cp.maybeCheckpoint(context.Background(), state, iteration)
		c.Assert(err, gc.IsNil)
		c.Assert(checkpointed, gc.Equals, iteration%2 == 0)
		c.Assert(next, gc.NotNil)
	}
}

func (s *CheckpointTestSuite) TestZeroIntervalDisablesCheckpointing(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	state, err := memstore.NewInMemoryBackend().FromRows([]string{"id_"}, [][]any{{int64(1)}})
	c.Assert(err, gc.IsNil)

	// No Materialize expectation: any call would fail the test.
	be := mocks.NewMockBackend(ctrl)

	cp := &checkpointer{be: be, interval: 0}
	for iteration := 1; iteration <= 4; iteration++ {
		next, checkpointed, err := cp.maybeCheckpoint(context.Background(), state, iteration)
		c.Assert(err, gc.IsNil)
		c.Assert(checkpointed, gc.Equals, false)
		c.Assert(next, gc.Equals, state)
	}
}
