// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

var outputFormats = []string{"text", "json", "npy"}

// result is what the subcommands report for one input sequence and
// one direction.
type result struct {
	Filename    string `json:",omitempty"`
	Direction   string
	InputLength int
	Blake2b     string
	Length      int
	Values      []int
	Indexes     []int
}

// computeResult runs the engine over x in direction dir. If verify is
// true, the witness is checked with Verify before returning.
func computeResult(x []int, digest string, dir Direction, verify bool) (result, error) {
	e := Engine{Direction: dir}
	if log.IsLevelEnabled(log.TraceLevel) {
		e.Observer = logStep
	}
	idx := e.Run(len(x), func(i int) int { return x[i] })
	res := result{
		Direction:   dir.String(),
		InputLength: len(x),
		Blake2b:     digest,
		Length:      e.Len(),
		Values:      e.Values(),
		Indexes:     idx,
	}
	if verify {
		if err := Verify(x, res.Values, dir); err != nil {
			return res, fmt.Errorf("verify failed: %w", err)
		}
	}
	return res, nil
}

func logStep(e *Engine, step Step) {
	log.WithFields(log.Fields{
		"direction":   e.Direction.String(),
		"index":       step.Index,
		"value":       step.Value,
		"length":      step.Length,
		"predecessor": step.Predecessor,
		"best":        step.Best,
	}).Trace("extend")
}

// sequenceDigest returns the hex blake2b-256 digest of x, encoded as
// little-endian int64s.
func sequenceDigest(x []int) string {
	h, _ := blake2b.New256(nil)
	buf := make([]byte, 8)
	for _, v := range x {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// writeResults writes results in the given format. The npy format
// holds a single array, so it accepts exactly one result.
func writeResults(w io.Writer, results []result, format string, indexes bool) error {
	switch format {
	case "text":
		bufw := bufio.NewWriter(w)
		for _, res := range results {
			list := res.Values
			if indexes {
				list = res.Indexes
			}
			writeInts(bufw, list, ",")
			bufw.WriteString("\n")
		}
		return bufw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
		return nil
	case "npy":
		if len(results) != 1 {
			return fmt.Errorf("npy output holds one sequence, cannot write %d", len(results))
		}
		list := results[0].Values
		if indexes {
			list = results[0].Indexes
		}
		data := make([]int64, len(list))
		for i, v := range list {
			data[i] = int64(v)
		}
		npw, err := gonpy.NewWriter(nopCloser{w})
		if err != nil {
			return err
		}
		npw.Shape = []int{len(data)}
		return npw.WriteInt64(data)
	default:
		return fmt.Errorf("unknown output format %q (want one of %v)", format, outputFormats)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// outputFile is a buffered, optionally gzipped, output file. Closing
// it flushes and closes each layer in turn and returns the first
// error.
type outputFile struct {
	f    *os.File
	bufw *bufio.Writer
	gzw  *pgzip.Writer

	closed bool
}

// createOutput opens the named file for writing, or wraps stdout if
// fnm is "-". Output is gzipped if fnm ends with ".gz".
func createOutput(fnm string, stdout io.Writer) (*outputFile, error) {
	out := &outputFile{}
	var w io.Writer = stdout
	if fnm != "-" {
		f, err := os.OpenFile(fnm, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
		if err != nil {
			return nil, err
		}
		out.f = f
		w = f
	}
	out.bufw = bufio.NewWriterSize(w, 1<<20)
	if strings.HasSuffix(fnm, ".gz") {
		out.gzw = pgzip.NewWriter(out.bufw)
	}
	return out, nil
}

func (out *outputFile) Write(p []byte) (int, error) {
	if out.gzw != nil {
		return out.gzw.Write(p)
	}
	return out.bufw.Write(p)
}

func (out *outputFile) Close() error {
	if out.closed {
		return nil
	}
	out.closed = true
	var firstErr error
	if out.gzw != nil {
		if err := out.gzw.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := out.bufw.Flush(); err != nil && firstErr == nil {
		firstErr = err
	}
	if out.f != nil {
		if err := out.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
