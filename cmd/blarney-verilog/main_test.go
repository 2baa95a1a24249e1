package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const counterJSON = `{
  "nets": [
    {"id": 0, "prim": {"kind": "input", "width": 1, "name": "en"}},
    {"id": 1, "prim": {"kind": "registeren", "width": 8},
     "inputs": [{"wire": {"id": 0}}, {"wire": {"id": 2}}],
     "hints": ["count"]},
    {"id": 2, "prim": {"kind": "add", "width": 8},
     "inputs": [{"wire": {"id": 1}}, {"expr": {"prim": {"kind": "const", "width": 8, "value": 1}}}]},
    {"id": 3, "prim": {"kind": "output", "width": 8, "name": "total"},
     "inputs": [{"wire": {"id": 1}}]}
  ]
}`

func writeNetlistFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counter.json")
	if err := os.WriteFile(path, []byte(counterJSON), 0o644); err != nil {
		t.Fatalf("write netlist: %v", err)
	}
	return path
}

func TestRunModule(t *testing.T) {
	t.Parallel()
	out := t.TempDir()
	if err := run([]string{"module", "-name", "Counter", "-o", out, writeNetlistFile(t)}); err != nil {
		t.Fatalf("module command failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "Counter.v"))
	if err != nil {
		t.Fatalf("read generated module: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"module Counter(input wire clock, input wire reset, input wire [0:0] en, output wire [7:0] total);",
		"reg [7:0] count_1_0 = 8'h0;",
		"if (en == 1) count_1_0 <= v_2_0;",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

func TestRunTop(t *testing.T) {
	t.Parallel()
	out := t.TempDir()
	if err := run([]string{"top", "-name", "Counter", "-o", out, writeNetlistFile(t)}); err != nil {
		t.Fatalf("top command failed: %v", err)
	}
	for _, name := range []string{"Counter.v", "Counter.cpp", "Counter.mk", "Makefile"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}
}

func TestRunDump(t *testing.T) {
	t.Parallel()
	if err := run([]string{"dump", writeNetlistFile(t)}); err != nil {
		t.Fatalf("dump command failed: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no command", args: nil, want: "missing command"},
		{name: "unknown command", args: []string{"lower"}, want: "unknown command"},
		{name: "missing netlist", args: []string{"module"}, want: "exactly one netlist"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := run(tc.args)
			if err == nil {
				t.Fatalf("run succeeded unexpectedly")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	t.Parallel()
	err := run([]string{"module", filepath.Join(t.TempDir(), "absent.json")})
	if err == nil {
		t.Fatalf("run succeeded with a missing netlist file")
	}
}
