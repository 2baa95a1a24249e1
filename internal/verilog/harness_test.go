package verilog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"github.com/JonasAlaif/blarney/internal/netlist"
)

// TestWriteTopGolden compares the four harness artifacts against the
// archived expectation byte for byte.
func TestWriteTopGolden(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := WriteTop(adderNetlist(), "Adder", dir); err != nil {
		t.Fatalf("WriteTop failed: %v", err)
	}

	archive, err := txtar.ParseFile(filepath.Join("testdata", "adder_top.txt"))
	if err != nil {
		t.Fatalf("read golden archive: %v", err)
	}
	if len(archive.Files) == 0 {
		t.Fatalf("golden archive is empty")
	}
	for _, file := range archive.Files {
		got, err := os.ReadFile(filepath.Join(dir, file.Name))
		if err != nil {
			t.Fatalf("read %s: %v", file.Name, err)
		}
		if diff := cmp.Diff(string(file.Data), string(got)); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", file.Name, diff)
		}
	}
}

func TestWriteModuleCreatesDirectory(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "out", "nested")
	if err := WriteModule(adderNetlist(), "M", dir); err != nil {
		t.Fatalf("WriteModule failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "M.v"))
	if err != nil {
		t.Fatalf("read generated module: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("generated module is empty")
	}
}

func TestWriteModuleRejectsMalformedNetlist(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	nl := adderNetlist()
	nl.Add(&netlist.Net{ID: 4, Prim: netlist.Not{Width: 4}, Inputs: []netlist.NetInput{netlist.Wire{ID: 99}}})
	if err := WriteModule(nl, "M", dir); err == nil {
		t.Fatalf("WriteModule accepted a malformed netlist")
	}
	if _, err := os.Stat(filepath.Join(dir, "M.v")); !os.IsNotExist(err) {
		t.Fatalf("output written despite generation failure")
	}
}
