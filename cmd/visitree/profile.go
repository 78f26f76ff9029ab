package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rawbytedev/visitree"
	"github.com/rawbytedev/visitree/internal/demo"
)

// runProfile saves and reloads the sample scene in memory n times and writes
// a heap profile of the loop.
func runProfile(args []string, opts []visitree.Option, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 10000, "save/load iterations")
	out := fs.String("out", "mem.prof", "heap profile output file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	prev := runtime.MemProfileRate
	runtime.MemProfileRate = 1
	defer func() { runtime.MemProfileRate = prev }()

	scene := demo.SampleScene()
	var buf bytes.Buffer
	size := 0
	start := time.Now()
	for range *n {
		buf.Reset()
		w := visitree.NewWriter(opts...)
		if err := scene.Visit(w); err != nil {
			return err
		}
		if _, err := w.WriteTo(&buf); err != nil {
			return err
		}
		size = buf.Len()
		r, err := visitree.Read(&buf, opts...)
		if err != nil {
			return err
		}
		if err := new(demo.Scene).Visit(r); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	if err := pprof.WriteHeapProfile(f); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d round trips in %s, %d bytes each, profile in %s\n", *n, elapsed, size, *out)
	return nil
}
