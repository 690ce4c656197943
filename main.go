package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"regvm/assembler"
	"regvm/config"
	"regvm/debugger"
	"regvm/loader"
)

func main() {
	var (
		symbolsOnly = flag.Bool("symbols", false, "Dump the symbol table and exit")
		symbolsFile = flag.String("symbols-file", "", "Symbol dump output file (default: stdout)")
		traceFile   = flag.String("trace-file", "", "Execution trace output file (enables tracing)")
		debugMode   = flag.Bool("debug", false, "Attach the TRP 99 debugger TUI")
		maxCycles   = flag.Uint64("max-cycles", 0, "Cycle limit before aborting (0: use config default)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "regvm: loading config: %v\n", err)
		os.Exit(1)
	}

	source, err := os.ReadFile(flag.Arg(0)) // #nosec G304 -- user-specified source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "regvm: %v\n", err)
		os.Exit(1)
	}

	if *symbolsOnly {
		if err := dumpSymbols(string(source), *symbolsFile); err != nil {
			fmt.Fprintf(os.Stderr, "regvm: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	opts := loader.Options{MaxCycles: *maxCycles}
	if opts.MaxCycles == 0 {
		opts.MaxCycles = cfg.Execution.MaxCycles
	}

	if *traceFile != "" || cfg.Execution.EnableTrace {
		path := *traceFile
		if path == "" {
			path = cfg.Trace.OutputFile
		}
		f, err := os.Create(path) // #nosec G304 -- user-specified trace path
		if err != nil {
			fmt.Fprintf(os.Stderr, "regvm: opening trace file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		opts.Trace = f
	}

	machine, _, err := loader.Load(string(source), cfg.Execution.MemSize, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "regvm: assembling: %v\n", err)
		os.Exit(1)
	}

	if *debugMode {
		dbg := debugger.New(machine)
		machine.DebugHook = dbg.Hook
	}

	if err := machine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "regvm: %v\n", err)
		os.Exit(1)
	}

	os.Exit(machine.ExitCode)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: regvm [flags] <source.asm>")
	flag.PrintDefaults()
}

func dumpSymbols(source, filename string) error {
	var writer *os.File
	if filename == "" {
		writer = os.Stdout
	} else {
		f, err := os.Create(filename) // #nosec G304 -- user-specified symbol output path
		if err != nil {
			return fmt.Errorf("failed to create symbol file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	a := assembler.New()
	if err := a.FirstPassOnly(strings.Split(source, "\n")); err != nil {
		return err
	}

	all := a.Symbols.All()
	if len(all) == 0 {
		fmt.Fprintln(writer, "No symbols defined")
		return nil
	}

	fmt.Fprintln(writer, "Symbol Table")
	fmt.Fprintln(writer, "============")
	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "%-30s %-10s %s\n", "Name", "Address", "Referring lines")
	fmt.Fprintln(writer, "----------------------------------------")

	type entry struct {
		name string
		addr uint32
		refs []int
	}
	entries := make([]entry, 0, len(all))
	for name, sym := range all {
		entries = append(entries, entry{name, sym.Address, sym.References})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].addr < entries[j].addr })

	for _, e := range entries {
		refs := make([]string, len(e.refs))
		for i, l := range e.refs {
			refs[i] = fmt.Sprintf("%d", l)
		}
		fmt.Fprintf(writer, "%-30s %-10d %s\n", e.name, e.addr, strings.Join(refs, ", "))
	}
	return nil
}
