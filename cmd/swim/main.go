// Package main provides the entry point for SWIM, a MIPS64 instructional
// simulator. It loads assembly, hexdump, ELF or raw binary programs and
// runs them on the stage-by-stage datapath.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/sarchlab/swim/emu"
	"github.com/sarchlab/swim/insts"
	"github.com/sarchlab/swim/loader"
	"github.com/sarchlab/swim/timing/cache"
	"github.com/sarchlab/swim/timing/core"
	"github.com/sarchlab/swim/timing/latency"
	"github.com/sarchlab/swim/timing/pipeline"
	"github.com/sarchlab/swim/translate"
)

var f = translate.From

var (
	timing      = flag.Bool("timing", false, "Print the timing report")
	configPath  = flag.String("config", "", "Path to timing configuration JSON file")
	dataCache   = flag.Bool("cache", false, "Model an L1 data cache")
	verbose     = flag.Bool("v", false, "Verbose output")
	maxInstr    = flag.Uint64("max", 1_000_000, "Max instructions to execute (0 = unlimited)")
	step        = flag.Bool("step", false, "Trace every instruction; interactive on a terminal")
	dumpRegs    = flag.Bool("dump", false, "Print the register file after the run")
	hexdumpPath = flag.String("hexdump", "", "Write a memory hexdump to this file after the run")
)

// options are the parsed command-line settings.
type options struct {
	timing      bool
	configPath  string
	cache       bool
	verbose     bool
	maxInstr    uint64
	step        bool
	dump        bool
	hexdumpPath string
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprint(os.Stderr, f("Usage: swim [options] <program.s|program.hex|program.elf|program.bin>\n"))
		fmt.Fprint(os.Stderr, f("\nOptions:\n"))
		flag.PrintDefaults()
		os.Exit(1)
	}

	sim := &simulator{
		opts: options{
			timing:      *timing,
			configPath:  *configPath,
			cache:       *dataCache,
			verbose:     *verbose,
			maxInstr:    *maxInstr,
			step:        *step,
			dump:        *dumpRegs,
			hexdumpPath: *hexdumpPath,
		},
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		input:       bufio.NewReader(os.Stdin),
		interactive: *step && term.IsTerminal(int(os.Stdin.Fd())),
	}

	os.Exit(sim.run(flag.Arg(0)))
}

// simulator runs one program from the command line.
type simulator struct {
	opts   options
	stdout io.Writer
	stderr io.Writer

	// input supplies commands in interactive step mode.
	input       *bufio.Reader
	interactive bool
}

// run loads and executes the program at path and returns the exit code.
func (s *simulator) run(path string) int {
	img, err := loader.LoadFile(path)
	if img != nil && img.Program != nil && img.Program.HasErrors() {
		for _, d := range img.Program.Diagnostics {
			fmt.Fprintf(s.stderr, "%s:%v\n", path, d)
		}
		return 1
	}
	if err != nil {
		fmt.Fprint(s.stderr, f("Error loading program: %v\n", err))
		return 1
	}

	if s.opts.verbose {
		fmt.Fprint(s.stdout, f("Loaded: %s (%v, %d words)\n", path, img.Format, len(img.Words)))
		fmt.Fprint(s.stdout, f("Entry point: 0x%X\n", img.Entry))
	}

	opts, err := s.datapathOptions()
	if err != nil {
		fmt.Fprint(s.stderr, f("Error loading timing config: %v\n", err))
		return 1
	}

	regFile := &emu.RegFile{}
	memory := emu.NewMemory()
	c := core.NewCore(regFile, memory, opts...)

	if err := c.Load(img.Program, img.Words); err != nil {
		fmt.Fprint(s.stderr, f("Error loading program: %v\n", err))
		return 1
	}
	if img.Entry != 0 {
		regFile.SetPC(img.Entry)
	}
	if img.Format == loader.FormatELF {
		regFile.Write(emu.SP, loader.DefaultStackTop)
	}

	var result pipeline.StepResult
	if s.opts.step {
		result = s.stepLoop(c)
	} else {
		result = c.Run()
	}

	exitCode := 0
	if result.Err != nil {
		fmt.Fprint(s.stderr, f("Simulation stopped at 0x%X: %v\n", result.PC, result.Err))
		exitCode = 1
	}

	if s.opts.verbose {
		fmt.Fprint(s.stdout, f("\nProgram: %s\n", path))
		fmt.Fprint(s.stdout, f("Halted: %v\n", c.Halted()))
		fmt.Fprint(s.stdout, f("Instructions executed: %d\n", c.Stats().Instructions))
	}

	if s.opts.timing {
		s.printTiming(path, c.Stats())
	}

	if s.opts.dump {
		fmt.Fprint(s.stdout, regFile.Dump())
	}

	if s.opts.hexdumpPath != "" {
		err := os.WriteFile(s.opts.hexdumpPath, []byte(memory.GenerateHexdump()), 0o644)
		if err != nil {
			fmt.Fprint(s.stderr, f("Error writing hexdump: %v\n", err))
			return 1
		}
	}

	return exitCode
}

// datapathOptions builds the datapath configuration from the flags.
func (s *simulator) datapathOptions() ([]pipeline.Option, error) {
	timingConfig := latency.DefaultTimingConfig()
	if s.opts.configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(s.opts.configPath)
		if err != nil {
			return nil, err
		}
	}
	if err := timingConfig.Validate(); err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithLatencyTable(latency.NewTableWithConfig(timingConfig)),
		pipeline.WithMaxInstructions(s.opts.maxInstr),
	}
	if s.opts.cache {
		opts = append(opts, pipeline.WithDataCache(cache.DefaultL1DConfig()))
	}

	return opts, nil
}

// stepLoop executes one instruction at a time, printing a trace line for
// each. In interactive mode it waits for a command before every step.
func (s *simulator) stepLoop(c *core.Core) pipeline.StepResult {
	var result pipeline.StepResult

	for !c.Halted() {
		if s.opts.maxInstr > 0 && c.Stats().Instructions >= s.opts.maxInstr {
			result.PC = c.PC()
			result.Err = fmt.Errorf("%w: %v", pipeline.ErrInstructionLimit, s.opts.maxInstr)
			return result
		}

		command := "n"
		if s.interactive {
			var ok bool
			command, ok = s.prompt(c)
			if !ok {
				return result
			}
		}

		switch command {
		case "", "n", "next":
			result = c.Step()
		case "s", "stage":
			result = c.StepStage()
		case "r", "regs":
			fmt.Fprint(s.stdout, c.Datapath().RegFile().Dump())
			continue
		case "c", "continue":
			s.interactive = false
			continue
		case "q", "quit":
			return result
		default:
			fmt.Fprint(s.stdout, f("Commands: [n]ext, [s]tage, [r]egs, [c]ontinue, [q]uit\n"))
			continue
		}

		s.trace(c, result)
		if result.Err != nil {
			return result
		}
	}

	result.Halted = true
	return result
}

// prompt reads the next command. It returns false at end of input.
func (s *simulator) prompt(c *core.Core) (string, bool) {
	fmt.Fprintf(s.stdout, "(swim 0x%04X %v) ", c.PC(), c.Datapath().CurrentStage())

	line, err := s.input.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", false
	}

	return strings.TrimSpace(line), true
}

func (s *simulator) trace(c *core.Core, result pipeline.StepResult) {
	text := "?"
	if result.Inst != nil {
		text = insts.Disassemble(result.Inst)
	}

	fmt.Fprintf(s.stdout, "%08X  %-12v %-28s", result.PC, result.Stage, text)
	if c.Program() != nil {
		if line, ok := c.Program().LineForAddress(result.PC); ok {
			fmt.Fprint(s.stdout, f("  line %d", line+1))
		}
	}
	if result.Err != nil {
		fmt.Fprintf(s.stdout, "  %v", result.Err)
	}
	fmt.Fprintln(s.stdout)
}

func (s *simulator) printTiming(path string, stats core.Stats) {
	w := s.stdout
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, f("Program: %s\n", path))
	fmt.Fprint(w, f("Total Instructions: %d\n", stats.Instructions))
	fmt.Fprint(w, f("Total Cycles: %d\n", stats.Cycles))
	fmt.Fprint(w, f("CPI: %.2f\n", stats.CPI()))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, f("Instruction mix:\n"))
	fmt.Fprint(w, f("  Loads:          %4d\n", stats.Loads))
	fmt.Fprint(w, f("  Stores:         %4d\n", stats.Stores))
	fmt.Fprint(w, f("  Branches taken: %4d\n", stats.BranchesTaken))
	fmt.Fprint(w, f("  Faults:         %4d\n", stats.Faults))

	if !s.opts.cache {
		return
	}

	dc := stats.DataCache
	accesses := dc.Hits + dc.Misses
	if accesses == 0 {
		accesses = 1
	}

	fmt.Fprint(w, "\n")
	fmt.Fprint(w, f("Data cache:\n"))
	fmt.Fprint(w, f("  Reads:  %d\n", dc.Reads))
	fmt.Fprint(w, f("  Writes: %d\n", dc.Writes))
	fmt.Fprint(w, f("  Hits:   %d (%5.1f%%)\n", dc.Hits, 100.0*float64(dc.Hits)/float64(accesses)))
	fmt.Fprint(w, f("  Misses: %d\n", dc.Misses))
}
