package pregel

import (
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(TerminationTestSuite))

type TerminationTestSuite struct{}

func (s *TerminationTestSuite) TestStopReasonString(c *gc.C) {
	c.Assert(stopMaxIter.String(), gc.Equals, "max_iter")
	c.Assert(stopNoMessages.String(), gc.Equals, "no_messages")
	c.Assert(stopAllInactive.String(), gc.Equals, "all_inactive")
}

func (s *TerminationTestSuite) TestNoMessagesProbe(c *gc.C) {
	enabled := &terminationController{earlyStopping: true}
	c.Assert(enabled.noMessages(0), gc.Equals, true)
	c.Assert(enabled.noMessages(3), gc.Equals, false)

	disabled := &terminationController{earlyStopping: false}
	c.Assert(disabled.noMessages(0), gc.Equals, false)
}

func (s *TerminationTestSuite) TestAllInactiveProbe(c *gc.C) {
	ctrl := &terminationController{stopIfAllUnactive: true}

	c.Assert(ctrl.allInactive([]any{false}), gc.Equals, true)
	c.Assert(ctrl.allInactive([]any{true}), gc.Equals, false)
	c.Assert(ctrl.allInactive([]any{true, false}), gc.Equals, false)
	c.Assert(ctrl.allInactive(nil), gc.Equals, true,
		gc.Commentf("an empty vertex set terminates the run"))

	off := &terminationController{stopIfAllUnactive: false}
	c.Assert(off.allInactive([]any{false}), gc.Equals, false)
}
