// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"os"
	"runtime"
	"runtime/pprof"

	log "github.com/sirupsen/logrus"
)

// startCPUProfile starts writing a CPU profile to outdir/cpu.prof. The
// returned function stops profiling and moves the file into place.
func startCPUProfile(outdir string) (func(), error) {
	f, err := os.OpenFile(outdir+"/cpu.prof~", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		err := f.Close()
		if err != nil {
			log.Print(err)
			return
		}
		err = os.Rename(outdir+"/cpu.prof~", outdir+"/cpu.prof")
		if err != nil {
			log.Print(err)
		}
	}, nil
}

func writeMemProfile(outdir string) {
	f, err := os.OpenFile(outdir+"/mem.prof~", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		log.Print(err)
		return
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Print(err)
		return
	}
	err = f.Close()
	if err != nil {
		log.Print(err)
		return
	}
	err = os.Rename(outdir+"/mem.prof~", outdir+"/mem.prof")
	if err != nil {
		log.Print(err)
	}
}
