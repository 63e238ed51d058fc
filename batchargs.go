// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"flag"
	"fmt"
)

// batchArgs lets several invocations of the batch command share one
// list of input files, each processing its own slice of the list.
type batchArgs struct {
	batch   int
	batches int
}

func (b *batchArgs) Flags(flags *flag.FlagSet) {
	flags.IntVar(&b.batches, "batches", 1, "number of batches")
	flags.IntVar(&b.batch, "batch", -1, "only do `N`th batch (-1 = all)")
}

func (b *batchArgs) Check() error {
	if b.batches < 1 {
		return fmt.Errorf("invalid -batches=%d, must be at least 1", b.batches)
	} else if b.batch >= b.batches {
		return fmt.Errorf("invalid -batch=%d, must be less than -batches=%d", b.batch, b.batches)
	}
	return nil
}

// Slice returns the portion of in that belongs to the selected batch,
// or all of in if no batch is selected.
func (b *batchArgs) Slice(in []string) []string {
	if b.batches == 0 || b.batch < 0 {
		return in
	}
	batchsize := (len(in) + b.batches - 1) / b.batches
	if batchsize*b.batch >= len(in) {
		return nil
	}
	out := in[batchsize*b.batch:]
	if len(out) > batchsize {
		out = out[:batchsize]
	}
	return out
}
