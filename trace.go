// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"bufio"
	"flag"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// tracecmd prints the engine's tables after every step, followed by
// the resulting subsequence.
type tracecmd struct{}

func (cmd *tracecmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputFilename := flags.String("i", "-", "input `file`")
	inputFormat := flags.String("input-format", "auto", "input `format`: auto, counted, list, json, or npy")
	outputFilename := flags.String("o", "-", "output `file`")
	direction := flags.String("direction", "increasing", "`direction`: increasing or decreasing")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	} else if flags.NArg() > 0 {
		err = fmt.Errorf("errant command line arguments after parsed flags: %v", flags.Args())
		return 2
	}
	dir, err := ParseDirection(*direction)
	if err != nil {
		return 2
	}

	x, err := readSequenceFile(*inputFilename, *inputFormat, stdin)
	if err != nil {
		return 1
	}
	output, err := createOutput(*outputFilename, stdout)
	if err != nil {
		return 1
	}
	defer output.Close()
	err = trace(output, x, dir)
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// trace runs the engine over x, writing a state dump to w after each
// element is processed.
func trace(w io.Writer, x []int, dir Direction) error {
	bufw := bufio.NewWriter(w)
	var err error
	e := Engine{
		Direction: dir,
		Observer: func(e *Engine, step Step) {
			if err != nil {
				return
			}
			fmt.Fprintf(bufw, "index:%d value:%d length:%d predecessor:%d\n", step.Index, step.Value, step.Length, step.Predecessor)
			err = e.Dump(bufw)
		},
	}
	e.Run(len(x), func(i int) int { return x[i] })
	if err != nil {
		return err
	}
	log.Debugf("traced %d steps, longest %s subsequence has length %d", len(x), dir, e.Len())
	bufw.WriteString("result:\t")
	writeInts(bufw, e.Values(), ",")
	bufw.WriteString("\n")
	return bufw.Flush()
}
