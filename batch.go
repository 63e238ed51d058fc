// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

var errNoInput = errors.New("no input files specified")

// batchcmd computes results for many input files, writing one JSON
// object per file and direction, in command line order.
type batchcmd struct {
	batchArgs
}

func (cmd *batchcmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	loglevel := flags.String("loglevel", "info", "logging `level`")
	threads := flags.Int("threads", runtime.NumCPU(), "maximum number of files to process at once")
	inputFormat := flags.String("input-format", "auto", "input `format`: auto, counted, list, json, or npy")
	outputFilename := flags.String("o", "-", "output `file`")
	direction := flags.String("direction", "both", "`direction`: increasing, decreasing, or both")
	verify := flags.Bool("verify", false, "check each subsequence before writing it")
	cmd.batchArgs.Flags(flags)
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	err = cmd.batchArgs.Check()
	if err != nil {
		return 2
	}
	err = setLogLevel(*loglevel)
	if err != nil {
		return 2
	}
	dirs, err := parseDirections(*direction)
	if err != nil {
		return 2
	}
	infiles := flags.Args()
	if len(infiles) == 0 {
		err = errNoInput
		return 2
	}
	infiles = cmd.batchArgs.Slice(infiles)

	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	results, err := runBatch(infiles, *inputFormat, dirs, *verify, *threads, stdin)
	if err != nil {
		return 1
	}

	output, err := createOutput(*outputFilename, stdout)
	if err != nil {
		return 1
	}
	defer output.Close()
	err = writeResults(output, results, "json", false)
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// memo holds the results for one distinct input sequence.
type memo struct {
	once    sync.Once
	results []result
	err     error
}

// runBatch reads and processes each input file, using at most threads
// goroutines. Files with identical content (by blake2b digest) are
// processed once. Results are returned in infiles order.
func runBatch(infiles []string, format string, dirs []Direction, verify bool, threads int, stdin io.Reader) ([]result, error) {
	var (
		mtx   sync.Mutex
		memos = map[string]*memo{}
		done  int64
	)
	perFile := make([][]result, len(infiles))
	throttle := throttle{Max: threads}
	for i, infile := range infiles {
		i, infile := i, infile
		throttle.Go(func() error {
			log.Printf("reading %s", infile)
			x, err := readSequenceFile(infile, format, stdin)
			if err != nil {
				return err
			}
			digest := sequenceDigest(x)
			mtx.Lock()
			m := memos[digest]
			if m == nil {
				m = &memo{}
				memos[digest] = m
			}
			mtx.Unlock()
			m.once.Do(func() {
				m.results, m.err = computeAll(x, digest, dirs, verify)
			})
			if m.err != nil {
				return fmt.Errorf("%s: %w", infile, m.err)
			}
			results := make([]result, len(m.results))
			for j, res := range m.results {
				res.Filename = infile
				results[j] = res
			}
			perFile[i] = results
			log.Infof("%s: %d values (%d/%d files done)", infile, len(x), atomic.AddInt64(&done, 1), len(infiles))
			return nil
		})
	}
	err := throttle.Wait()
	if err != nil {
		return nil, err
	}
	var results []result
	for _, rs := range perFile {
		results = append(results, rs...)
	}
	log.Printf("processed %d files, %d distinct sequences", len(infiles), len(memos))
	return results, nil
}
