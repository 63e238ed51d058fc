// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"bytes"
	"encoding/json"
	"io/ioutil"

	"github.com/kshedden/gonpy"
	"gopkg.in/check.v1"
)

type outputSuite struct{}

var _ = check.Suite(&outputSuite{})

func (s *outputSuite) TestComputeResult(c *check.C) {
	res, err := computeResult(vanDerCorput, "digest", Increasing, true)
	c.Check(err, check.IsNil)
	c.Check(res.Direction, check.Equals, "increasing")
	c.Check(res.InputLength, check.Equals, 16)
	c.Check(res.Blake2b, check.Equals, "digest")
	c.Check(res.Length, check.Equals, 6)
	c.Check(res.Values, check.DeepEquals, []int{0, 2, 6, 9, 11, 15})
	c.Check(res.Indexes, check.DeepEquals, []int{0, 4, 6, 9, 13, 15})
}

func (s *outputSuite) TestSequenceDigest(c *check.C) {
	a := sequenceDigest([]int{1, 2, 3})
	c.Check(a, check.HasLen, 64)
	c.Check(sequenceDigest([]int{1, 2, 3}), check.Equals, a)
	c.Check(sequenceDigest([]int{3, 2, 1}), check.Not(check.Equals), a)
	c.Check(sequenceDigest(nil), check.Equals, sequenceDigest([]int{}))
}

func (s *outputSuite) TestWriteText(c *check.C) {
	results := []result{
		{Values: []int{1, 2, 3}, Indexes: []int{0, 4, 5}},
		{Values: []int{}, Indexes: []int{}},
	}
	var buf bytes.Buffer
	c.Check(writeResults(&buf, results, "text", false), check.IsNil)
	c.Check(buf.String(), check.Equals, "1,2,3\n\n")
	buf.Reset()
	c.Check(writeResults(&buf, results[:1], "text", true), check.IsNil)
	c.Check(buf.String(), check.Equals, "0,4,5\n")
}

func (s *outputSuite) TestWriteJSON(c *check.C) {
	res, err := computeResult([]int{2, 1, 3}, sequenceDigest([]int{2, 1, 3}), Decreasing, false)
	c.Assert(err, check.IsNil)
	var buf bytes.Buffer
	c.Check(writeResults(&buf, []result{res}, "json", false), check.IsNil)
	var decoded result
	c.Check(json.Unmarshal(buf.Bytes(), &decoded), check.IsNil)
	c.Check(decoded, check.DeepEquals, res)
	c.Check(buf.String(), check.Not(check.Matches), `(?s).*Filename.*`)
}

func (s *outputSuite) TestWriteNpy(c *check.C) {
	res := result{Values: []int{7, -8, 9}, Indexes: []int{1, 2, 3}}
	var buf bytes.Buffer
	c.Check(writeResults(&buf, []result{res}, "npy", false), check.IsNil)
	npy, err := gonpy.NewReader(&buf)
	c.Assert(err, check.IsNil)
	c.Check(npy.Shape, check.DeepEquals, []int{3})
	data, err := npy.GetInt64()
	c.Check(err, check.IsNil)
	c.Check(data, check.DeepEquals, []int64{7, -8, 9})

	c.Check(writeResults(&buf, []result{res, res}, "npy", false), check.ErrorMatches, `npy output holds one sequence, cannot write 2`)
	c.Check(writeResults(&buf, []result{res}, "csv", false), check.ErrorMatches, `unknown output format "csv".*`)
}

func (s *outputSuite) TestCreateOutput(c *check.C) {
	tmpdir := c.MkDir()
	for _, fnm := range []string{tmpdir + "/out.txt", tmpdir + "/out.txt.gz"} {
		out, err := createOutput(fnm, nil)
		c.Assert(err, check.IsNil)
		_, err = out.Write([]byte("hello\n"))
		c.Check(err, check.IsNil)
		c.Check(out.Close(), check.IsNil)
		c.Check(out.Close(), check.IsNil)

		f, err := zopen(fnm)
		c.Assert(err, check.IsNil)
		buf, err := ioutil.ReadAll(f)
		c.Check(err, check.IsNil)
		c.Check(string(buf), check.Equals, "hello\n")
		c.Check(f.Close(), check.IsNil)
	}

	var stdout bytes.Buffer
	out, err := createOutput("-", &stdout)
	c.Assert(err, check.IsNil)
	out.Write([]byte("x"))
	c.Check(stdout.Len(), check.Equals, 0)
	c.Check(out.Close(), check.IsNil)
	c.Check(stdout.String(), check.Equals, "x")
}
