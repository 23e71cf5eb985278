// Package main provides a profiling wrapper for SWIM to identify
// performance bottlenecks in the assembler and the datapath.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/loader"
	"github.com/sarchlab/swim/timing/core"
	"github.com/sarchlab/swim/timing/pipeline"
)

var (
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	instruction = flag.Uint64("max-instr", 1000000, "max instructions per run (0 = unlimited)")
	repeat      = flag.Int("repeat", 100, "number of times to load and run the program")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	programPath := flag.Arg(0)

	fmt.Printf("Profiling: %s (%d runs)\n", programPath, *repeat)

	start := time.Now()

	// Set timeout
	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	var instrCount uint64
	for i := 0; i < *repeat; i++ {
		n, err := runOnce(programPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Run %d: %v\n", i, err)
			os.Exit(1)
		}
		instrCount += n
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
}

// runOnce loads (assembling when needed) and runs the program on a fresh
// machine, returning the number of retired instructions.
func runOnce(programPath string) (uint64, error) {
	img, err := loader.LoadFile(programPath)
	if err != nil {
		return 0, err
	}

	regFile := &emu.RegFile{}
	c := core.NewCore(regFile, emu.NewMemory(),
		pipeline.WithMaxInstructions(*instruction))
	if err := c.Load(img.Program, img.Words); err != nil {
		return 0, err
	}
	if img.Entry != 0 {
		regFile.SetPC(img.Entry)
	}

	result := c.Run()
	if result.Err != nil {
		return 0, result.Err
	}

	return c.Stats().Instructions, nil
}
