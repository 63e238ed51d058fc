// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// benchcmd times the engine on random sequences.
type benchcmd struct{}

// benchReport summarizes all trials for one direction.
type benchReport struct {
	Direction      string
	N              int
	Trials         int
	MeanSeconds    float64
	StddevSeconds  float64
	MeanLength     float64
	StddevLength   float64
	ExpectedLength float64 // 2*sqrt(N), asymptotic for random permutations
}

func (cmd *benchcmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	n := flags.Int("n", 100000, "sequence length")
	max := flags.Int("max", 0, "values are chosen from [0,`max`) (0 = use length)")
	trials := flags.Int("trials", 10, "number of random sequences")
	seed := flags.Uint64("seed", 0, "random `seed` (0 = choose one)")
	verify := flags.Bool("verify", false, "check each subsequence")
	profileDir := flags.String("profile-dir", "", "write cpu.prof and mem.prof to `dir`")
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
	} else if *n < 0 || *trials < 1 {
		err = fmt.Errorf("invalid -n=%d or -trials=%d", *n, *trials)
		return 2
	}
	if *seed == 0 {
		*seed = rand.Uint64()
		log.Infof("using -seed=%d", *seed)
	}

	if *profileDir != "" {
		var stop func()
		stop, err = startCPUProfile(*profileDir)
		if err != nil {
			return 1
		}
		defer writeMemProfile(*profileDir)
		defer stop()
	}

	reports, err := bench(rand.New(rand.NewSource(*seed)), *n, *max, *trials, *verify)
	if err != nil {
		return 1
	}
	output, err := createOutput(*outputFilename, stdout)
	if err != nil {
		return 1
	}
	defer output.Close()
	enc := json.NewEncoder(output)
	for _, report := range reports {
		err = enc.Encode(report)
		if err != nil {
			return 1
		}
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// bench runs the engine in both directions over each of trials random
// sequences, and reports timing and length statistics.
func bench(rng *rand.Rand, n, max, trials int, verify bool) ([]benchReport, error) {
	dirs := []Direction{Increasing, Decreasing}
	seconds := make([][]float64, len(dirs))
	lengths := make([][]float64, len(dirs))
	for trial := 0; trial < trials; trial++ {
		x := randomSequence(rng, n, max)
		for d, dir := range dirs {
			e := Engine{Direction: dir}
			t0 := time.Now()
			e.Run(len(x), func(i int) int { return x[i] })
			seconds[d] = append(seconds[d], time.Since(t0).Seconds())
			lengths[d] = append(lengths[d], float64(e.Len()))
			if verify {
				if err := Verify(x, e.Values(), dir); err != nil {
					return nil, fmt.Errorf("trial %d: %w", trial, err)
				}
			}
		}
		log.Debugf("trial %d: lengths %v, %v", trial, lengths[0][trial], lengths[1][trial])
	}
	reports := make([]benchReport, len(dirs))
	for d, dir := range dirs {
		r := benchReport{
			Direction:      dir.String(),
			N:              n,
			Trials:         trials,
			ExpectedLength: 2 * math.Sqrt(float64(n)),
		}
		r.MeanSeconds, r.StddevSeconds = meanStdDev(seconds[d])
		r.MeanLength, r.StddevLength = meanStdDev(lengths[d])
		reports[d] = r
	}
	return reports, nil
}

// meanStdDev is stat.MeanStdDev, except the standard deviation of a
// single sample is 0 instead of NaN (which JSON cannot encode).
func meanStdDev(x []float64) (mean, std float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}
