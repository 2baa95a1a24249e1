package verilog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/JonasAlaif/blarney/internal/netlist"
)

// Errors reported while lowering a netlist to Verilog.
var (
	// ErrUnsupportedInline reports a bit selection over a sub-expression
	// that has no Verilog spelling; elaboration is expected to have
	// materialised such operands as named wires.
	ErrUnsupportedInline = errors.New("expression cannot be inlined")
	// ErrUnsupportedPrim reports a primitive the backend has no lowering
	// for in the position it was found.
	ErrUnsupportedPrim = errors.New("primitive not supported by the Verilog backend")
)

// wireName returns the identifier of output port `port` of net `id`:
// hint_id_port, with hints sorted so the output is reproducible regardless
// of how they were accumulated. The bare prefix is "v" when no hints exist.
func (g *generator) wireName(id, port int) (string, error) {
	n, ok := g.nl.Net(id)
	if !ok {
		return "", errors.Wrapf(netlist.ErrMalformed, "wire reference to missing net %d", id)
	}
	hint := "v"
	if len(n.NameHints) > 0 {
		hints := append([]string(nil), n.NameHints...)
		sort.Strings(hints)
		hint = strings.Join(hints, "_")
	}
	return fmt.Sprintf("%s_%d_%d", hint, id, port), nil
}

// refName resolves a wire reference. References to module inputs read the
// port itself rather than the mirror wire the Input net declares.
func (g *generator) refName(w netlist.Wire) (string, error) {
	if n, ok := g.nl.Net(w.ID); ok {
		if in, ok := n.Prim.(netlist.Input); ok {
			return in.Name, nil
		}
	}
	return g.wireName(w.ID, w.Port)
}

// hexLit renders an integer literal. The caller passes a value that fits in
// width bits.
func hexLit(width int, value uint64) string {
	return fmt.Sprintf("%d'h%x", width, value)
}

// dontCareLit renders a width-bit literal with every bit undefined.
func dontCareLit(width int) string {
	return fmt.Sprintf("%d'b%s", width, strings.Repeat("x", width))
}

// expr renders a net input as a Verilog expression. Inlined sub-expressions
// of non-self-delimiting primitives are parenthesised; everything else is
// emitted bare.
func (g *generator) expr(in netlist.NetInput) (string, error) {
	switch t := in.(type) {
	case netlist.Wire:
		return g.refName(t)
	case netlist.Expr:
		s, err := g.primExpr(t.Prim, t.Children)
		if err != nil {
			return "", err
		}
		if netlist.CanInline(t.Prim) {
			return s, nil
		}
		return "(" + s + ")", nil
	default:
		return "", errors.Wrapf(netlist.ErrMalformed, "unknown input form %T", in)
	}
}

// primExpr renders a primitive applied to its inputs, without any outer
// parentheses; expr adds them when the context requires it.
func (g *generator) primExpr(p netlist.Prim, inputs []netlist.NetInput) (string, error) {
	switch t := p.(type) {
	case netlist.BinOp:
		lhs, err := g.expr(inputs[0])
		if err != nil {
			return "", err
		}
		rhs, err := g.expr(inputs[1])
		if err != nil {
			return "", err
		}
		if t.Op == netlist.OpArithShiftRight {
			return fmt.Sprintf("$signed(%s) >>> %s", lhs, rhs), nil
		}
		return fmt.Sprintf("%s %s %s", lhs, t.Op.Symbol(), rhs), nil
	case netlist.Not:
		x, err := g.expr(inputs[0])
		if err != nil {
			return "", err
		}
		return "~" + x, nil
	case netlist.ReplicateBit:
		x, err := g.expr(inputs[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("{%d{%s}}", t.Width, x), nil
	case netlist.ZeroExtend:
		x, err := g.expr(inputs[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("{{%d{1'b0}}, %s}", t.OutWidth-t.InWidth, x), nil
	case netlist.SignExtend:
		x, err := g.expr(inputs[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("{{%d{%s[%d]}}, %s}", t.OutWidth-t.InWidth, x, t.InWidth-1, x), nil
	case netlist.SelectBits:
		return g.selectExpr(t, inputs[0])
	case netlist.Concat:
		a, err := g.expr(inputs[0])
		if err != nil {
			return "", err
		}
		b, err := g.expr(inputs[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("{%s, %s}", a, b), nil
	case netlist.Mux:
		sel, err := g.expr(inputs[0])
		if err != nil {
			return "", err
		}
		tval, err := g.expr(inputs[1])
		if err != nil {
			return "", err
		}
		fval, err := g.expr(inputs[2])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s ? %s : %s", sel, tval, fval), nil
	case netlist.CountOnes:
		x, err := g.expr(inputs[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("$countones(%s)", x), nil
	case netlist.Identity:
		return g.expr(inputs[0])
	case netlist.Const:
		return hexLit(t.Width, t.Value), nil
	case netlist.DontCare:
		return dontCareLit(t.Width), nil
	default:
		return "", errors.Wrapf(ErrUnsupportedPrim, "%T in expression position", p)
	}
}

// selectExpr renders a bit selection. Verilog forbids indexing a
// parenthesised expression, so the operand must be a wire or a constant;
// constants are folded.
func (g *generator) selectExpr(sel netlist.SelectBits, in netlist.NetInput) (string, error) {
	width := sel.Hi - sel.Lo + 1
	switch t := in.(type) {
	case netlist.Wire:
		name, err := g.refName(t)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%d:%d]", name, sel.Hi, sel.Lo), nil
	case netlist.Expr:
		switch c := t.Prim.(type) {
		case netlist.Const:
			return hexLit(width, (c.Value>>uint(sel.Lo))&mask(width)), nil
		case netlist.DontCare:
			return dontCareLit(width), nil
		}
		return "", errors.Wrapf(ErrUnsupportedInline, "bit selection over inlined %T", t.Prim)
	default:
		return "", errors.Wrapf(netlist.ErrMalformed, "unknown input form %T", in)
	}
}

// mask returns width low bits set. Widths of 64 and above saturate.
func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}
