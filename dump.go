// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"bufio"
	"io"
	"strconv"
)

// Dump writes a human-readable copy of the engine's tables: the best
// length L, the input X, the predecessor table P, the tail-index table
// M, and the reconstructed subsequence S. The format is for people,
// not parsers.
func (e *Engine) Dump(w io.Writer) error {
	bufw := bufio.NewWriter(w)
	bufw.WriteString("L:\t" + strconv.Itoa(e.l) + "\n")
	x := make([]int, e.n)
	for i := range x {
		x[i] = e.x(i)
	}
	writeIntList(bufw, "X", x)
	writeIntList(bufw, "P", e.p)
	writeIntList(bufw, "M", e.m)
	writeIntList(bufw, "S", e.Values())
	return bufw.Flush()
}

func writeIntList(w *bufio.Writer, label string, list []int) {
	w.WriteString(label)
	w.WriteString(":\t[")
	writeInts(w, list, ",")
	w.WriteString("]\n")
}

func writeInts(w *bufio.Writer, list []int, sep string) {
	for i, v := range list {
		if i > 0 {
			w.WriteString(sep)
		}
		w.WriteString(strconv.Itoa(v))
	}
}
