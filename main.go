// Package main provides the entry point for SWIM.
// SWIM is an instructional MIPS64 simulator with a built-in assembler.
//
// For the full CLI, use: go run ./cmd/swim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("SWIM - MIPS64 Instructional Simulator")
	fmt.Println("")
	fmt.Println("Usage: swim [options] <program.s|program.hex|program.elf|program.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing    Print the timing report")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -cache     Model an L1 data cache")
	fmt.Println("  -max       Max instructions to execute (0 = unlimited)")
	fmt.Println("  -step      Trace every instruction; interactive on a terminal")
	fmt.Println("  -dump      Print the register file after the run")
	fmt.Println("  -hexdump   Write a memory hexdump to this file after the run")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/swim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/swim' instead.")
	}
}
