// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"

	log "github.com/sirupsen/logrus"
)

// longestcmd implements the lis, lds, and longest subcommands. If
// direction is empty, it is taken from the -direction flag.
type longestcmd struct {
	direction string
}

func (cmd *longestcmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	loglevel := flags.String("loglevel", "info", "logging `level` (trace logs every engine step)")
	inputFilename := flags.String("i", "-", "input `file`")
	inputFormat := flags.String("input-format", "auto", "input `format`: auto, counted, list, json, or npy")
	outputFilename := flags.String("o", "-", "output `file`")
	outputFormat := flags.String("output-format", "text", "output `format`: text, json, or npy")
	indexes := flags.Bool("indexes", false, "output indexes into the input sequence instead of values")
	verify := flags.Bool("verify", false, "check each subsequence before writing it")
	direction := cmd.direction
	if direction == "" {
		flags.StringVar(&direction, "direction", "both", "`direction`: increasing, decreasing, or both")
	}
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
	err = setLogLevel(*loglevel)
	if err != nil {
		return 2
	}
	dirs, err := parseDirections(direction)
	if err != nil {
		return 2
	}

	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	x, err := readSequenceFile(*inputFilename, *inputFormat, stdin)
	if err != nil {
		return 1
	}
	log.Debugf("read %d values from %s", len(x), *inputFilename)
	results, err := computeAll(x, sequenceDigest(x), dirs, *verify)
	if err != nil {
		return 1
	}
	for _, res := range results {
		log.Debugf("longest %s subsequence has length %d", res.Direction, res.Length)
	}

	output, err := createOutput(*outputFilename, stdout)
	if err != nil {
		return 1
	}
	defer output.Close()
	err = writeResults(output, results, *outputFormat, *indexes)
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// parseDirections accepts a single direction or "both".
func parseDirections(s string) ([]Direction, error) {
	if s == "both" {
		return []Direction{Increasing, Decreasing}, nil
	}
	dir, err := ParseDirection(s)
	if err != nil {
		return nil, err
	}
	return []Direction{dir}, nil
}

// computeAll computes one result per direction. The directions share
// only the (read-only) input, so they run concurrently.
func computeAll(x []int, digest string, dirs []Direction, verify bool) ([]result, error) {
	results := make([]result, len(dirs))
	throttle := throttle{Max: len(dirs)}
	for i, dir := range dirs {
		i, dir := i, dir
		throttle.Go(func() error {
			var err error
			results[i], err = computeResult(x, digest, dir, verify)
			return err
		})
	}
	return results, throttle.Wait()
}
