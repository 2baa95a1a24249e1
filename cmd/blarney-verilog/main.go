// Command blarney-verilog lowers an elaborated netlist to Verilog.
//
// The module subcommand writes <dir>/<name>.v; the top subcommand also
// writes the verilator simulation harness (C++ driver, Make rules and a
// top-level Makefile); the dump subcommand prints a readable rendering of
// the netlist for inspection.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JonasAlaif/blarney/internal/netlist"
	"github.com/JonasAlaif/blarney/internal/verilog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printGlobalUsage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "module":
		return runGenerate(args[1:], verilog.WriteModule)
	case "top":
		return runGenerate(args[1:], verilog.WriteTop)
	case "dump":
		return runDump(args[1:])
	default:
		printGlobalUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printGlobalUsage() {
	fmt.Fprintf(os.Stderr, "Blarney Verilog back end\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  blarney-verilog <command> [options] <netlist.json>\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  module    Generate <dir>/<name>.v from a netlist\n")
	fmt.Fprintf(os.Stderr, "  top       Generate the Verilog plus the verilator simulation harness\n")
	fmt.Fprintf(os.Stderr, "  dump      Print a readable rendering of a netlist\n")
}

func runGenerate(args []string, write func(*netlist.Netlist, string, string) error) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	name := fs.String("name", "top", "Verilog module name")
	dir := fs.String("o", ".", "output directory (created when missing)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one netlist file")
	}

	nl, err := loadNetlist(fs.Arg(0))
	if err != nil {
		return err
	}
	return write(nl, *name, *dir)
}

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one netlist file")
	}

	nl, err := loadNetlist(fs.Arg(0))
	if err != nil {
		return err
	}
	netlist.Dump(nl, os.Stdout)
	return nil
}

func loadNetlist(path string) (*netlist.Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return netlist.DecodeJSON(f)
}
