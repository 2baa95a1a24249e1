package netlist

import (
	"github.com/pkg/errors"
)

// ErrMalformed reports a netlist that violates its structural invariants.
// Such violations are elaborator bugs, not runtime conditions, so the
// backend refuses to generate anything from a malformed netlist.
var ErrMalformed = errors.New("malformed netlist")

// Check validates the structural invariants of nl: wire references resolve,
// input arities and widths match each primitive, module port names are
// unique, and register files are declared before use. The first violation
// found is returned, naming the offending net by instance id.
func Check(nl *Netlist) error {
	c := &checker{nl: nl, rfMakes: make(map[int]RegFileMake)}
	return c.run()
}

type checker struct {
	nl      *Netlist
	rfMakes map[int]RegFileMake
}

func (c *checker) run() error {
	inputs := make(map[string]int)
	outputs := make(map[string]bool)

	for _, id := range c.nl.IDs() {
		n, _ := c.nl.Net(id)
		if id < 0 {
			return errors.Wrapf(ErrMalformed, "net %d: negative instance id", id)
		}
		if err := c.checkPrim(id, n.Prim); err != nil {
			return err
		}
		if err := c.checkInputs(id, n.Prim, n.Inputs); err != nil {
			return err
		}
		switch t := n.Prim.(type) {
		case Input:
			if t.Name == "clock" || t.Name == "reset" {
				return errors.Wrapf(ErrMalformed, "net %d: input %q collides with the implicit clock/reset ports", id, t.Name)
			}
			if w, ok := inputs[t.Name]; ok && w != t.Width {
				return errors.Wrapf(ErrMalformed, "net %d: input %q redeclared with width %d (was %d)", id, t.Name, t.Width, w)
			}
			if outputs[t.Name] {
				return errors.Wrapf(ErrMalformed, "net %d: input %q collides with an output of the same name", id, t.Name)
			}
			inputs[t.Name] = t.Width
		case Output:
			if t.Name == "clock" || t.Name == "reset" {
				return errors.Wrapf(ErrMalformed, "net %d: output %q collides with the implicit clock/reset ports", id, t.Name)
			}
			if outputs[t.Name] {
				return errors.Wrapf(ErrMalformed, "net %d: duplicate output %q", id, t.Name)
			}
			if _, ok := inputs[t.Name]; ok {
				return errors.Wrapf(ErrMalformed, "net %d: output %q collides with an input of the same name", id, t.Name)
			}
			outputs[t.Name] = true
		case RegFileMake:
			if _, ok := c.rfMakes[t.ID]; ok {
				return errors.Wrapf(ErrMalformed, "net %d: register file %d declared twice", id, t.ID)
			}
			c.rfMakes[t.ID] = t
		case RegFileRead:
			decl, ok := c.rfMakes[t.ID]
			if !ok {
				return errors.Wrapf(ErrMalformed, "net %d: read from register file %d before its declaration", id, t.ID)
			}
			if decl.DataWidth != t.Width {
				return errors.Wrapf(ErrMalformed, "net %d: register file %d read width %d, declared %d", id, t.ID, t.Width, decl.DataWidth)
			}
			got, err := c.inputWidth(id, n.Inputs[0])
			if err != nil {
				return err
			}
			if got != decl.AddrWidth {
				return errors.Wrapf(ErrMalformed, "net %d: register file %d address width %d, declared %d", id, t.ID, got, decl.AddrWidth)
			}
		case RegFileWrite:
			decl, ok := c.rfMakes[t.ID]
			if !ok {
				return errors.Wrapf(ErrMalformed, "net %d: write to register file %d before its declaration", id, t.ID)
			}
			if decl.AddrWidth != t.AddrWidth || decl.DataWidth != t.DataWidth {
				return errors.Wrapf(ErrMalformed, "net %d: register file %d written as %dx%d, declared %dx%d",
					id, t.ID, t.AddrWidth, t.DataWidth, decl.AddrWidth, decl.DataWidth)
			}
		}
	}
	return nil
}

// checkPrim validates the static parameters of a primitive.
func (c *checker) checkPrim(id int, p Prim) error {
	switch t := p.(type) {
	case SelectBits:
		if t.Lo < 0 || t.Hi < t.Lo || t.Hi >= t.Width {
			return errors.Wrapf(ErrMalformed, "net %d: bit selection [%d:%d] out of range for width %d", id, t.Hi, t.Lo, t.Width)
		}
	case ZeroExtend:
		if t.OutWidth < t.InWidth {
			return errors.Wrapf(ErrMalformed, "net %d: zero extension narrows %d to %d", id, t.InWidth, t.OutWidth)
		}
	case SignExtend:
		if t.InWidth < 1 || t.OutWidth < t.InWidth {
			return errors.Wrapf(ErrMalformed, "net %d: sign extension from %d to %d", id, t.InWidth, t.OutWidth)
		}
	}
	for _, w := range OutputWidths(p) {
		if w < 1 {
			return errors.Wrapf(ErrMalformed, "net %d: output width %d", id, w)
		}
	}
	return nil
}

// checkInputs validates arity and operand widths against the primitive's
// declared input shape.
func (c *checker) checkInputs(id int, p Prim, inputs []NetInput) error {
	want := InputWidths(p)
	if len(inputs) != len(want) {
		return errors.Wrapf(ErrMalformed, "net %d: %d input(s), expected %d", id, len(inputs), len(want))
	}
	for i, in := range inputs {
		got, err := c.inputWidth(id, in)
		if err != nil {
			return err
		}
		if want[i] != anyWidth && got != want[i] {
			return errors.Wrapf(ErrMalformed, "net %d: input %d has width %d, expected %d", id, i, got, want[i])
		}
	}
	return nil
}

// inputWidth resolves the width of a net input, checking wire references and
// recursing through inlined expressions.
func (c *checker) inputWidth(id int, in NetInput) (int, error) {
	switch t := in.(type) {
	case Wire:
		target, ok := c.nl.Net(t.ID)
		if !ok {
			return 0, errors.Wrapf(ErrMalformed, "net %d: wire reference to missing net %d", id, t.ID)
		}
		widths := OutputWidths(target.Prim)
		if t.Port < 0 || t.Port >= len(widths) {
			return 0, errors.Wrapf(ErrMalformed, "net %d: wire reference to net %d port %d, which has %d output(s)", id, t.ID, t.Port, len(widths))
		}
		return widths[t.Port], nil
	case Expr:
		if err := c.checkInputs(id, t.Prim, t.Children); err != nil {
			return 0, err
		}
		widths := OutputWidths(t.Prim)
		if len(widths) != 1 {
			return 0, errors.Wrapf(ErrMalformed, "net %d: inlined primitive with %d output(s)", id, len(widths))
		}
		return widths[0], nil
	default:
		return 0, errors.Wrapf(ErrMalformed, "net %d: unknown input form %T", id, in)
	}
}
