// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package longseq

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/kshedden/gonpy"
)

var inputFormats = []string{"auto", "counted", "list", "json", "npy"}

// inputFormat resolves "auto" to a concrete format using the file
// name, ignoring a trailing ".gz".
func inputFormat(fnm, format string) (string, error) {
	if format != "auto" {
		for _, f := range inputFormats {
			if f == format {
				return format, nil
			}
		}
		return "", fmt.Errorf("unknown input format %q (want one of %v)", format, inputFormats)
	}
	fnm = strings.TrimSuffix(fnm, ".gz")
	switch {
	case strings.HasSuffix(fnm, ".npy"):
		return "npy", nil
	case strings.HasSuffix(fnm, ".json"):
		return "json", nil
	default:
		return "counted", nil
	}
}

// readSequenceFile reads a sequence from the named file, or from
// stdin if fnm is "-".
func readSequenceFile(fnm, format string, stdin io.Reader) ([]int, error) {
	format, err := inputFormat(fnm, format)
	if err != nil {
		return nil, err
	}
	var input io.ReadCloser
	if fnm == "-" {
		input = ioutil.NopCloser(stdin)
	} else {
		input, err = zopen(fnm)
		if err != nil {
			return nil, err
		}
	}
	defer input.Close()
	x, err := ReadSequence(bufio.NewReaderSize(input, 1<<20), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fnm, err)
	}
	return x, nil
}

// ReadSequence reads a sequence of integers in the given format
// ("counted", "list", "json", or "npy").
//
// A "counted" sequence is a count n followed by exactly n integers. A
// "list" is any number of integers. In both cases integers are
// separated by whitespace and/or commas.
func ReadSequence(r io.Reader, format string) ([]int, error) {
	switch format {
	case "counted":
		return readCounted(r)
	case "list":
		return readList(r)
	case "json":
		var x []int
		err := json.NewDecoder(r).Decode(&x)
		if err != nil {
			return nil, fmt.Errorf("json decode: %w", err)
		}
		if x == nil {
			x = []int{}
		}
		return x, nil
	case "npy":
		return readNpy(r)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

func readCounted(r io.Reader) ([]int, error) {
	scanner := newIntScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("missing count")
	}
	n, err := strconv.Atoi(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("invalid count %q", scanner.Text())
	} else if n < 0 {
		return nil, fmt.Errorf("invalid count %d", n)
	}
	capacity := n
	if capacity > 1<<20 {
		capacity = 1 << 20
	}
	x := make([]int, 0, capacity)
	for len(x) < n && scanner.Scan() {
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q at position %d", scanner.Text(), len(x))
		}
		x = append(x, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(x) < n {
		return nil, fmt.Errorf("short input: count is %d but only %d values follow", n, len(x))
	}
	if scanner.Scan() {
		return nil, fmt.Errorf("trailing data after %d values: %q", n, scanner.Text())
	}
	return x, scanner.Err()
}

func readList(r io.Reader) ([]int, error) {
	scanner := newIntScanner(r)
	x := []int{}
	for scanner.Scan() {
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q at position %d", scanner.Text(), len(x))
		}
		x = append(x, v)
	}
	return x, scanner.Err()
}

func newIntScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Split(scanSeparated)
	return scanner
}

// scanSeparated is a bufio.SplitFunc that returns tokens separated by
// whitespace and commas.
func scanSeparated(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isSeparator(data[start]) {
		start++
	}
	for i := start; i < len(data); i++ {
		if isSeparator(data[i]) {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

func isSeparator(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == ','
}

// readNpy reads a numpy array of any integer dtype. The array is
// flattened; its shape is ignored.
func readNpy(r io.Reader) ([]int, error) {
	npy, err := gonpy.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("npy: %w", err)
	}
	var x []int
	dtype := strings.TrimLeft(npy.Dtype, "<>|=")
	switch dtype {
	case "i8":
		var data []int64
		if data, err = npy.GetInt64(); err == nil {
			x = make([]int, len(data))
			for i, v := range data {
				x[i] = int(v)
			}
		}
	case "i4":
		var data []int32
		if data, err = npy.GetInt32(); err == nil {
			x = make([]int, len(data))
			for i, v := range data {
				x[i] = int(v)
			}
		}
	case "i2":
		var data []int16
		if data, err = npy.GetInt16(); err == nil {
			x = make([]int, len(data))
			for i, v := range data {
				x[i] = int(v)
			}
		}
	case "i1":
		var data []int8
		if data, err = npy.GetInt8(); err == nil {
			x = make([]int, len(data))
			for i, v := range data {
				x[i] = int(v)
			}
		}
	case "u8":
		var data []uint64
		if data, err = npy.GetUint64(); err == nil {
			x = make([]int, len(data))
			for i, v := range data {
				if v > 1<<63-1 {
					return nil, fmt.Errorf("npy: value %d at position %d overflows int", v, i)
				}
				x[i] = int(v)
			}
		}
	case "u4":
		var data []uint32
		if data, err = npy.GetUint32(); err == nil {
			x = make([]int, len(data))
			for i, v := range data {
				x[i] = int(v)
			}
		}
	case "u2":
		var data []uint16
		if data, err = npy.GetUint16(); err == nil {
			x = make([]int, len(data))
			for i, v := range data {
				x[i] = int(v)
			}
		}
	case "u1":
		var data []uint8
		if data, err = npy.GetUint8(); err == nil {
			x = make([]int, len(data))
			for i, v := range data {
				x[i] = int(v)
			}
		}
	default:
		return nil, fmt.Errorf("npy: unsupported dtype %q (want an integer type)", dtype)
	}
	if err != nil {
		return nil, fmt.Errorf("npy: %w", err)
	}
	return x, nil
}

// zopen returns a reader for the given file, transparently
// decompressing the input if fnm ends with ".gz".
func zopen(fnm string) (io.ReadCloser, error) {
	f, err := os.Open(fnm)
	if err != nil || !strings.HasSuffix(fnm, ".gz") {
		return f, err
	}
	rdr, err := pgzip.NewReader(bufio.NewReaderSize(f, 4*1024*1024))
	if err != nil {
		f.Close()
		return nil, err
	}
	return gzipr{rdr, f}, nil
}

// gzipr wraps a ReadCloser and a Closer, presenting a single Close()
// method that closes both wrapped objects.
type gzipr struct {
	io.ReadCloser
	io.Closer
}

func (gr gzipr) Close() error {
	e1 := gr.ReadCloser.Close()
	e2 := gr.Closer.Close()
	if e1 != nil {
		return e1
	}
	return e2
}
