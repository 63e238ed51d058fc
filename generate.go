// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"strconv"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

// generatecmd writes a random sequence in counted format.
type generatecmd struct{}

func (cmd *generatecmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	n := flags.Int("n", 1000, "sequence length")
	max := flags.Int("max", 0, "values are chosen from [0,`max`) (0 = use length)")
	seed := flags.Uint64("seed", 0, "random `seed` (0 = choose one)")
	outputFilename := flags.String("o", "-", "output `file`")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	} else if flags.NArg() > 0 {
		err = fmt.Errorf("errant command line arguments after parsed flags: %v", flags.Args())
		return 2
	} else if *n < 0 {
		err = fmt.Errorf("invalid -n=%d", *n)
		return 2
	}
	if *seed == 0 {
		*seed = rand.Uint64()
		log.Infof("using -seed=%d", *seed)
	}

	x := randomSequence(rand.New(rand.NewSource(*seed)), *n, *max)
	output, err := createOutput(*outputFilename, stdout)
	if err != nil {
		return 1
	}
	defer output.Close()
	err = writeCounted(output, x)
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// randomSequence returns n values chosen uniformly from [0,max). If
// max < 1, n is used instead.
func randomSequence(rng *rand.Rand, n, max int) []int {
	if max < 1 {
		max = n
	}
	x := make([]int, n)
	for i := range x {
		x[i] = rng.Intn(max)
	}
	return x
}

// writeCounted writes x in the format read by ReadSequence(r,
// "counted").
func writeCounted(w io.Writer, x []int) error {
	bufw := bufio.NewWriter(w)
	bufw.WriteString(strconv.Itoa(len(x)))
	bufw.WriteString("\n")
	writeInts(bufw, x, " ")
	if len(x) > 0 {
		bufw.WriteString("\n")
	}
	return bufw.Flush()
}
