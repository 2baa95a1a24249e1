// Package verilog lowers an elaborated netlist to a single synthesizable
// Verilog module, plus the ancillary artifacts needed to simulate it with
// verilator. Generation is pure and deterministic: the same netlist and
// module name always produce byte-identical output.
package verilog

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/JonasAlaif/blarney/internal/netlist"
)

// Generate renders the netlist as one Verilog module with the given name.
// The netlist is validated first; a malformed netlist yields an error and no
// output.
func Generate(nl *netlist.Netlist, name string) (string, error) {
	var buf bytes.Buffer
	if err := WriteTo(nl, name, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteTo is Generate writing to w instead of returning a string.
func WriteTo(nl *netlist.Netlist, name string, w io.Writer) error {
	if name == "" {
		return errors.New("module name is empty")
	}
	if err := netlist.Check(nl); err != nil {
		return err
	}
	g := &generator{nl: nl, name: name}
	for _, id := range nl.IDs() {
		n, _ := nl.Net(id)
		if err := g.net(n); err != nil {
			return errors.Wrapf(err, "net %d", id)
		}
	}
	return g.assemble(w)
}

// generator accumulates the four per-net contribution streams, each in
// ascending net id order.
type generator struct {
	nl   *netlist.Netlist
	name string

	decls  []string
	insts  []string
	always []string
	resets []string
}

// net appends the contributions of a single net.
func (g *generator) net(n *netlist.Net) error {
	switch t := n.Prim.(type) {
	case netlist.BinOp, netlist.Not, netlist.ReplicateBit, netlist.ZeroExtend,
		netlist.SignExtend, netlist.SelectBits, netlist.Concat, netlist.Mux,
		netlist.CountOnes, netlist.Identity:
		return g.combinational(n)
	case netlist.Const:
		name, err := g.wireName(n.ID, 0)
		if err != nil {
			return err
		}
		g.decl("wire [%d:0] %s = %s;", t.Width-1, name, hexLit(t.Width, t.Value))
	case netlist.DontCare:
		name, err := g.wireName(n.ID, 0)
		if err != nil {
			return err
		}
		g.decl("wire [%d:0] %s = %s;", t.Width-1, name, dontCareLit(t.Width))
	case netlist.Register:
		return g.register(n, t.Width, t.Init, nil, n.Inputs[0])
	case netlist.RegisterEn:
		return g.register(n, t.Width, t.Init, n.Inputs[0], n.Inputs[1])
	case netlist.BRAM:
		return g.blockRAM(n, t)
	case netlist.TrueDualBRAM:
		return g.blockRAMTrueDual(n, t)
	case netlist.Display:
		return g.display(n, t)
	case netlist.Finish:
		en, err := g.expr(n.Inputs[0])
		if err != nil {
			return err
		}
		g.alwaysStmt("if (%s == 1) $finish;", en)
	case netlist.TestPlusArgs:
		name, err := g.wireName(n.ID, 0)
		if err != nil {
			return err
		}
		g.decl("wire [0:0] %s;", name)
		g.inst("assign %s = $test$plusargs(%s) == 0 ? 0 : 1;", name, verilogString(t.Flag))
	case netlist.Input:
		name, err := g.wireName(n.ID, 0)
		if err != nil {
			return err
		}
		g.decl("wire [%d:0] %s;", t.Width-1, name)
		g.inst("assign %s = %s;", name, t.Name)
	case netlist.Output:
		rhs, err := g.expr(n.Inputs[0])
		if err != nil {
			return err
		}
		g.inst("assign %s = %s;", t.Name, rhs)
	case netlist.RegFileMake:
		g.decl("reg [%d:0] rf%d [(2**%d)-1:0];", t.DataWidth-1, t.ID, t.AddrWidth)
		if t.InitFile != "" {
			g.decl("generate initial $readmemh(%s, rf%d); endgenerate", verilogString(t.InitFile), t.ID)
		}
	case netlist.RegFileRead:
		name, err := g.wireName(n.ID, 0)
		if err != nil {
			return err
		}
		addr, err := g.expr(n.Inputs[0])
		if err != nil {
			return err
		}
		g.decl("wire [%d:0] %s;", t.Width-1, name)
		g.inst("assign %s = rf%d[%s];", name, t.ID, addr)
	case netlist.RegFileWrite:
		en, err := g.expr(n.Inputs[0])
		if err != nil {
			return err
		}
		addr, err := g.expr(n.Inputs[1])
		if err != nil {
			return err
		}
		di, err := g.expr(n.Inputs[2])
		if err != nil {
			return err
		}
		g.alwaysStmt("if (%s == 1) rf%d[%s] <= %s;", en, t.ID, addr, di)
	case netlist.Custom:
		return g.custom(n, t)
	default:
		return errors.Wrapf(ErrUnsupportedPrim, "net %d: %T", n.ID, n.Prim)
	}
	return nil
}

// combinational emits the wire-plus-assign pattern shared by every pure
// operator.
func (g *generator) combinational(n *netlist.Net) error {
	name, err := g.wireName(n.ID, 0)
	if err != nil {
		return err
	}
	rhs, err := g.primExpr(n.Prim, n.Inputs)
	if err != nil {
		return err
	}
	width := netlist.OutputWidths(n.Prim)[0]
	g.decl("wire [%d:0] %s;", width-1, name)
	g.inst("assign %s = %s;", name, rhs)
	return nil
}

// register emits a reg declaration, its clocked update (guarded by the
// enable when one is present) and its synchronous reset.
func (g *generator) register(n *netlist.Net, width int, init uint64, enable, data netlist.NetInput) error {
	name, err := g.wireName(n.ID, 0)
	if err != nil {
		return err
	}
	d, err := g.expr(data)
	if err != nil {
		return err
	}
	g.decl("reg [%d:0] %s = %s;", width-1, name, hexLit(width, init))
	if enable == nil {
		g.alwaysStmt("%s <= %s;", name, d)
	} else {
		en, err := g.expr(enable)
		if err != nil {
			return err
		}
		g.alwaysStmt("if (%s == 1) %s <= %s;", en, name, d)
	}
	g.resetStmt("%s <= %s;", name, hexLit(width, init))
	return nil
}

func (g *generator) blockRAM(n *netlist.Net, t netlist.BRAM) error {
	name, err := g.wireName(n.ID, 0)
	if err != nil {
		return err
	}
	addr, err := g.expr(n.Inputs[0])
	if err != nil {
		return err
	}
	di, err := g.expr(n.Inputs[1])
	if err != nil {
		return err
	}
	we, err := g.expr(n.Inputs[2])
	if err != nil {
		return err
	}
	g.decl("wire [%d:0] %s;", t.DataWidth-1, name)
	g.inst("BlockRAM#(.INIT_FILE(%s), .ADDR_WIDTH(%d), .DATA_WIDTH(%d)) ram%d (.CLK(clock), .DI(%s), .ADDR(%s), .WE(%s), .DO(%s));",
		initFileParam(t.InitFile), t.AddrWidth, t.DataWidth, n.ID, di, addr, we, name)
	return nil
}

func (g *generator) blockRAMTrueDual(n *netlist.Net, t netlist.TrueDualBRAM) error {
	nameA, err := g.wireName(n.ID, 0)
	if err != nil {
		return err
	}
	nameB, err := g.wireName(n.ID, 1)
	if err != nil {
		return err
	}
	ports := make([]string, 6)
	for i := range ports {
		if ports[i], err = g.expr(n.Inputs[i]); err != nil {
			return err
		}
	}
	g.decl("wire [%d:0] %s;", t.DataWidth-1, nameA)
	g.decl("wire [%d:0] %s;", t.DataWidth-1, nameB)
	g.inst("BlockRAMTrueDual#(.INIT_FILE(%s), .ADDR_WIDTH(%d), .DATA_WIDTH(%d)) ram%d "+
		"(.CLK(clock), .DI_A(%s), .ADDR_A(%s), .WE_A(%s), .DO_A(%s), .DI_B(%s), .ADDR_B(%s), .WE_B(%s), .DO_B(%s));",
		initFileParam(t.InitFile), t.AddrWidth, t.DataWidth, n.ID,
		ports[1], ports[0], ports[2], nameA, ports[4], ports[3], ports[5], nameB)
	return nil
}

// display walks the format schema: literal items become quoted strings, bit
// slots consume the net's remaining inputs in order.
func (g *generator) display(n *netlist.Net, t netlist.Display) error {
	en, err := g.expr(n.Inputs[0])
	if err != nil {
		return err
	}
	args := make([]string, 0, len(t.Format))
	next := 1
	for _, item := range t.Format {
		if item.BitWidth > 0 {
			arg, err := g.expr(n.Inputs[next])
			if err != nil {
				return err
			}
			args = append(args, arg)
			next++
		} else {
			args = append(args, verilogString(item.Text))
		}
	}
	g.alwaysStmt("if (%s == 1) $write(%s);", en, strings.Join(args, ", "))
	return nil
}

func (g *generator) custom(n *netlist.Net, t netlist.Custom) error {
	var conns []string
	if t.Clocked {
		conns = append(conns, ".clock(clock)", ".reset(reset)")
	}
	for i, port := range t.Inputs {
		arg, err := g.expr(n.Inputs[i])
		if err != nil {
			return err
		}
		conns = append(conns, fmt.Sprintf(".%s(%s)", port.Name, arg))
	}
	for i, port := range t.Outputs {
		name, err := g.wireName(n.ID, i)
		if err != nil {
			return err
		}
		g.decl("wire [%d:0] %s;", port.Width-1, name)
		conns = append(conns, fmt.Sprintf(".%s(%s)", port.Name, name))
	}
	header := t.Name
	if len(t.Params) > 0 {
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = fmt.Sprintf(".%s(%s)", p.Name, p.Value)
		}
		header = fmt.Sprintf("%s #(%s)", t.Name, strings.Join(params, ", "))
	}
	g.inst("%s %s_%d(%s);", header, t.Name, n.ID, strings.Join(conns, ", "))
	return nil
}

func (g *generator) decl(format string, args ...interface{}) {
	g.decls = append(g.decls, fmt.Sprintf(format, args...))
}

func (g *generator) inst(format string, args ...interface{}) {
	g.insts = append(g.insts, fmt.Sprintf(format, args...))
}

func (g *generator) alwaysStmt(format string, args ...interface{}) {
	g.always = append(g.always, fmt.Sprintf(format, args...))
}

func (g *generator) resetStmt(format string, args ...interface{}) {
	g.resets = append(g.resets, fmt.Sprintf(format, args...))
}

// sectionRule is the line of slashes under each section comment.
var sectionRule = strings.Repeat("/", 78)

// assemble interleaves the contribution streams into the fixed module
// skeleton.
func (g *generator) assemble(w io.Writer) error {
	ports := []string{"input wire clock", "input wire reset"}
	for _, p := range g.nl.ModuleInputs() {
		ports = append(ports, fmt.Sprintf("input wire [%d:0] %s", p.Width-1, p.Name))
	}
	for _, p := range g.nl.ModuleOutputs() {
		ports = append(ports, fmt.Sprintf("output wire [%d:0] %s", p.Width-1, p.Name))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "module %s(%s);\n", g.name, strings.Join(ports, ", "))

	fmt.Fprintf(&buf, "\n  // Declarations\n  %s\n", sectionRule)
	for _, line := range g.decls {
		fmt.Fprintf(&buf, "  %s\n", line)
	}

	fmt.Fprintf(&buf, "\n  // Instances\n  %s\n", sectionRule)
	for _, line := range g.insts {
		fmt.Fprintf(&buf, "  %s\n", line)
	}

	fmt.Fprintf(&buf, "\n  // Always block\n  %s\n", sectionRule)
	fmt.Fprintf(&buf, "  always @(posedge clock) begin\n")
	fmt.Fprintf(&buf, "    if (reset) begin\n")
	for _, line := range g.resets {
		fmt.Fprintf(&buf, "      %s\n", line)
	}
	fmt.Fprintf(&buf, "    end else begin\n")
	for _, line := range g.always {
		fmt.Fprintf(&buf, "      %s\n", line)
	}
	fmt.Fprintf(&buf, "    end\n  end\n\nendmodule\n")

	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "write module")
}

// initFileParam renders the INIT_FILE parameter of a block RAM instance.
func initFileParam(file string) string {
	if file == "" {
		return `"UNUSED"`
	}
	return verilogString(file)
}

// verilogString renders s as a double-quoted Verilog string literal.
func verilogString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
