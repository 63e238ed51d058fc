// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"bytes"
	"os"
	"strings"

	"gopkg.in/check.v1"
)

type traceSuite struct{}

var _ = check.Suite(&traceSuite{})

func (s *traceSuite) TestDump(c *check.C) {
	var e Engine
	var buf bytes.Buffer
	c.Check(e.Dump(&buf), check.IsNil)
	c.Check(buf.String(), check.Equals, "L:\t0\nX:\t[]\nP:\t[]\nM:\t[]\nS:\t[]\n")

	x := []int{3, 1, 2}
	e.Run(len(x), func(i int) int { return x[i] })
	buf.Reset()
	c.Check(e.Dump(&buf), check.IsNil)
	c.Check(buf.String(), check.Equals, `L:	2
X:	[3,1,2]
P:	[-1,-1,1]
M:	[-1,1,2,0]
S:	[1,2]
`)
}

func (s *traceSuite) TestTrace(c *check.C) {
	var buf bytes.Buffer
	err := trace(&buf, []int{3, 1, 2}, Increasing)
	c.Assert(err, check.IsNil)
	c.Check(buf.String(), check.Equals, `index:0 value:3 length:1 predecessor:-1
L:	1
X:	[3,1,2]
P:	[-1,0,0]
M:	[-1,0,0,0]
S:	[3]
index:1 value:1 length:1 predecessor:-1
L:	1
X:	[3,1,2]
P:	[-1,-1,0]
M:	[-1,1,0,0]
S:	[1]
index:2 value:2 length:2 predecessor:1
L:	2
X:	[3,1,2]
P:	[-1,-1,1]
M:	[-1,1,2,0]
S:	[1,2]
result:	1,2
`)
}

func (s *traceSuite) TestTraceCommand(c *check.C) {
	var stdout bytes.Buffer
	code := (&tracecmd{}).RunCommand("longseq trace", []string{"-direction=decreasing", "-input-format=list"}, strings.NewReader("1 3 2"), &stdout, os.Stderr)
	c.Check(code, check.Equals, 0)
	c.Check(stdout.String(), check.Matches, `(?ms)index:0 value:1 .*\nresult:\t3,2\n`)

	code = (&tracecmd{}).RunCommand("longseq trace", []string{"-direction=sideways"}, strings.NewReader(""), &stdout, &bytes.Buffer{})
	c.Check(code, check.Equals, 2)
}
