// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"sync"
	"sync/atomic"
)

// throttle limits the number of concurrent engine runs (e.g., one per
// input file in a batch) and remembers the first error reported by
// any of them.
type throttle struct {
	Max       int
	wg        sync.WaitGroup
	ch        chan bool
	err       atomic.Value
	setupOnce sync.Once
	errorOnce sync.Once
}

func (t *throttle) Acquire() {
	t.setupOnce.Do(func() {
		if t.Max < 1 {
			t.Max = 1
		}
		t.ch = make(chan bool, t.Max)
	})
	t.wg.Add(1)
	t.ch <- true
}

func (t *throttle) Release() {
	t.wg.Done()
	<-t.ch
}

func (t *throttle) Report(err error) {
	if err != nil {
		t.errorOnce.Do(func() { t.err.Store(err) })
	}
}

func (t *throttle) Err() error {
	err, _ := t.err.Load().(error)
	return err
}

// Go waits for a free slot, then calls f in a new goroutine. If an
// error has already been reported, f is not called and Go returns
// that error.
func (t *throttle) Go(f func() error) error {
	t.Acquire()
	if err := t.Err(); err != nil {
		t.Release()
		return err
	}
	go func() {
		defer t.Release()
		t.Report(f())
	}()
	return nil
}

func (t *throttle) Wait() error {
	t.wg.Wait()
	return t.Err()
}
