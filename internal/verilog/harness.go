package verilog

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"

	"github.com/JonasAlaif/blarney/internal/netlist"
)

// The simulation harness is fixed boilerplate with a single substitution,
// the module name, so the templates live in-source.

// cppTemplate is the verilator driver: free-running clock until the design
// calls $finish.
const cppTemplate = `// Simulation driver for {{.}}
#include <verilated.h>
#include "V{{.}}.h"

V{{.}} *top;
vluint64_t main_time = 0;

double sc_time_stamp () {
  return main_time;
}

int main(int argc, char** argv, char** env) {
  Verilated::commandArgs(argc, argv);
  top = new V{{.}};
  while (!Verilated::gotFinish()) {
    top->clock = 0;
    top->eval();
    top->clock = 1;
    top->eval();
    main_time++;
  }
  top->final();
  delete top;
  return 0;
}
`

// mkTemplate builds the simulator binary. BLARNEY_ROOT must point at the
// framework checkout so verilator can resolve the block RAM library modules.
const mkTemplate = `all: {{.}}

{{.}}: *.v *.cpp
	verilator -cc {{.}}.v -exe {{.}}.cpp -o {{.}} ` +
	`-Wno-UNSIGNED -y $(BLARNEY_ROOT)/Verilog --x-assign unique --x-initial unique
	make -C obj_dir -j -f V{{.}}.mk {{.}}
	cp obj_dir/{{.}} .
	rm -rf obj_dir

.PHONY: clean-{{.}}
clean-{{.}}:
	rm -f {{.}}
`

const topMakefile = "include *.mk\n"

var (
	cppTmpl = template.Must(template.New("cpp").Parse(cppTemplate))
	mkTmpl  = template.Must(template.New("mk").Parse(mkTemplate))
)

// WriteModule generates the Verilog for nl and writes it to <dir>/<name>.v,
// creating dir when missing.
func WriteModule(nl *netlist.Netlist, name, dir string) error {
	text, err := Generate(nl, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create output dir")
	}
	return writeFile(filepath.Join(dir, name+".v"), []byte(text))
}

// WriteTop generates a top-level simulation harness: the Verilog module plus
// the verilator driver, its Make rules, and a one-line top-level Makefile.
func WriteTop(nl *netlist.Netlist, name, dir string) error {
	if err := WriteModule(nl, name, dir); err != nil {
		return err
	}
	cpp, err := render(cppTmpl, name)
	if err != nil {
		return err
	}
	mk, err := render(mkTmpl, name)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, name+".cpp"), cpp); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, name+".mk"), mk); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "Makefile"), []byte(topMakefile))
}

func render(tmpl *template.Template, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, name); err != nil {
		return nil, errors.Wrapf(err, "render %s template", tmpl.Name())
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write %s", filepath.Base(path))
}
