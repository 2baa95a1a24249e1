package netlist

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Dump writes a simple human-readable representation of the netlist.
func Dump(nl *Netlist, w io.Writer) {
	if nl == nil {
		fmt.Fprintln(w, "<nil netlist>")
		return
	}
	for _, id := range nl.IDs() {
		n, _ := nl.Net(id)
		fmt.Fprintf(w, "%4d: %s", id, primString(n.Prim))
		if len(n.Inputs) > 0 {
			ins := make([]string, len(n.Inputs))
			for i, in := range n.Inputs {
				ins[i] = inputString(in)
			}
			fmt.Fprintf(w, " [%s]", strings.Join(ins, ", "))
		}
		if len(n.NameHints) > 0 {
			hints := append([]string(nil), n.NameHints...)
			sort.Strings(hints)
			fmt.Fprintf(w, " {%s}", strings.Join(hints, ", "))
		}
		fmt.Fprintln(w)
	}
}

func inputString(in NetInput) string {
	switch t := in.(type) {
	case Wire:
		return fmt.Sprintf("w%d.%d", t.ID, t.Port)
	case Expr:
		if len(t.Children) == 0 {
			return fmt.Sprintf("(%s)", primString(t.Prim))
		}
		ins := make([]string, len(t.Children))
		for i, child := range t.Children {
			ins[i] = inputString(child)
		}
		return fmt.Sprintf("(%s %s)", primString(t.Prim), strings.Join(ins, " "))
	default:
		return fmt.Sprintf("<unknown input %T>", in)
	}
}

func primString(p Prim) string {
	switch t := p.(type) {
	case BinOp:
		return fmt.Sprintf("%s %d", binOpName(t.Op), t.Width)
	case Not:
		return fmt.Sprintf("not %d", t.Width)
	case ReplicateBit:
		return fmt.Sprintf("replicate %d", t.Width)
	case ZeroExtend:
		return fmt.Sprintf("zext %d->%d", t.InWidth, t.OutWidth)
	case SignExtend:
		return fmt.Sprintf("sext %d->%d", t.InWidth, t.OutWidth)
	case SelectBits:
		return fmt.Sprintf("select %d [%d:%d]", t.Width, t.Hi, t.Lo)
	case Concat:
		return fmt.Sprintf("concat %d:%d", t.WidthA, t.WidthB)
	case Mux:
		return fmt.Sprintf("mux %d", t.Width)
	case CountOnes:
		return fmt.Sprintf("countones %d", t.Width)
	case Identity:
		return fmt.Sprintf("identity %d", t.Width)
	case Const:
		return fmt.Sprintf("const %d 0x%x", t.Width, t.Value)
	case DontCare:
		return fmt.Sprintf("dontcare %d", t.Width)
	case Register:
		return fmt.Sprintf("register %d init=0x%x", t.Width, t.Init)
	case RegisterEn:
		return fmt.Sprintf("registeren %d init=0x%x", t.Width, t.Init)
	case BRAM:
		return fmt.Sprintf("bram %dx%d init=%q", t.AddrWidth, t.DataWidth, t.InitFile)
	case TrueDualBRAM:
		return fmt.Sprintf("bramdual %dx%d init=%q", t.AddrWidth, t.DataWidth, t.InitFile)
	case Display:
		items := make([]string, len(t.Format))
		for i, item := range t.Format {
			if item.BitWidth > 0 {
				items[i] = fmt.Sprintf("bit:%d", item.BitWidth)
			} else {
				items[i] = fmt.Sprintf("%q", item.Text)
			}
		}
		return fmt.Sprintf("display [%s]", strings.Join(items, ", "))
	case Finish:
		return "finish"
	case TestPlusArgs:
		return fmt.Sprintf("plusargs %q", t.Flag)
	case Input:
		return fmt.Sprintf("input %d %q", t.Width, t.Name)
	case Output:
		return fmt.Sprintf("output %d %q", t.Width, t.Name)
	case RegFileMake:
		return fmt.Sprintf("rfmake %d %dx%d init=%q", t.ID, t.AddrWidth, t.DataWidth, t.InitFile)
	case RegFileRead:
		return fmt.Sprintf("rfread %d %d", t.ID, t.Width)
	case RegFileWrite:
		return fmt.Sprintf("rfwrite %d %dx%d", t.ID, t.AddrWidth, t.DataWidth)
	case Custom:
		return fmt.Sprintf("custom %q in=%d out=%d", t.Name, len(t.Inputs), len(t.Outputs))
	default:
		return fmt.Sprintf("<unknown primitive %T>", p)
	}
}

func binOpName(op BinOpKind) string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpMod:
		return "mod"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpXor:
		return "xor"
	case OpShiftLeft:
		return "shl"
	case OpShiftRight:
		return "shr"
	case OpArithShiftRight:
		return "ashr"
	case OpEqual:
		return "eq"
	case OpNotEqual:
		return "neq"
	case OpLessThan:
		return "lt"
	case OpLessThanEq:
		return "le"
	default:
		return "?"
	}
}
