// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"errors"
	"sync/atomic"
	"time"

	"gopkg.in/check.v1"
)

type throttleSuite struct{}

var _ = check.Suite(&throttleSuite{})

func (s *throttleSuite) TestMax(c *check.C) {
	var running, peak int64
	t := throttle{Max: 3}
	for i := 0; i < 20; i++ {
		t.Go(func() error {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&running, -1)
			return nil
		})
	}
	c.Check(t.Wait(), check.IsNil)
	c.Check(peak <= 3, check.Equals, true)
	c.Check(peak >= 1, check.Equals, true)
}

func (s *throttleSuite) TestFirstError(c *check.C) {
	errFirst := errors.New("first")
	t := throttle{Max: 1}
	c.Check(t.Go(func() error { return errFirst }), check.IsNil)
	c.Check(t.Wait(), check.Equals, errFirst)
	called := false
	c.Check(t.Go(func() error { called = true; return errors.New("second") }), check.Equals, errFirst)
	c.Check(t.Wait(), check.Equals, errFirst)
	c.Check(called, check.Equals, false)
}

func (s *throttleSuite) TestZeroMax(c *check.C) {
	var n int64
	t := throttle{}
	for i := 0; i < 5; i++ {
		t.Go(func() error { atomic.AddInt64(&n, 1); return nil })
	}
	c.Check(t.Wait(), check.IsNil)
	c.Check(n, check.Equals, int64(5))
}

type batchArgsSuite struct{}

var _ = check.Suite(&batchArgsSuite{})

func (s *batchArgsSuite) TestSlice(c *check.C) {
	in := []string{"a", "b", "c", "d", "e"}
	for _, trial := range []struct {
		batch   int
		batches int
		out     []string
	}{
		{-1, 1, in},
		{0, 1, in},
		{0, 2, []string{"a", "b", "c"}},
		{1, 2, []string{"d", "e"}},
		{4, 5, []string{"e"}},
		{3, 4, nil},
	} {
		b := batchArgs{batch: trial.batch, batches: trial.batches}
		c.Check(b.Check(), check.IsNil)
		c.Check(b.Slice(in), check.DeepEquals, trial.out, check.Commentf("%+v", trial))
	}
	c.Check((&batchArgs{batch: 2, batches: 2}).Check(), check.NotNil)
	c.Check((&batchArgs{batch: -1, batches: 0}).Check(), check.NotNil)
}
