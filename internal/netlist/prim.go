package netlist

// Prim is implemented by every hardware primitive. The set is closed: the
// Verilog backend dispatches exhaustively over these variants.
type Prim interface {
	isPrim()
}

// BinOpKind enumerates the two-input infix operators.
type BinOpKind int

const (
	OpAdd BinOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShiftLeft
	OpShiftRight
	OpArithShiftRight
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessThanEq
)

// Symbol returns the Verilog operator token.
func (op BinOpKind) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	case OpXor:
		return "^"
	case OpShiftLeft:
		return "<<"
	case OpShiftRight:
		return ">>"
	case OpArithShiftRight:
		return ">>>"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLessThan:
		return "<"
	case OpLessThanEq:
		return "<="
	default:
		return "?"
	}
}

// Comparison reports whether the operator yields a 1-bit result.
func (op BinOpKind) Comparison() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLessThan, OpLessThanEq:
		return true
	}
	return false
}

// BinOp is a two-input operator over equal-width operands.
type BinOp struct {
	Op    BinOpKind
	Width int
}

// Not is bitwise complement.
type Not struct {
	Width int
}

// ReplicateBit copies a single bit Width times.
type ReplicateBit struct {
	Width int
}

// ZeroExtend widens a value by padding with zero bits.
type ZeroExtend struct {
	InWidth  int
	OutWidth int
}

// SignExtend widens a value by replicating its top bit.
type SignExtend struct {
	InWidth  int
	OutWidth int
}

// SelectBits extracts bits Hi..Lo (inclusive) of a Width-bit value.
type SelectBits struct {
	Width int
	Hi    int
	Lo    int
}

// Concat joins two values, first input in the upper bits.
type Concat struct {
	WidthA int
	WidthB int
}

// Mux selects between two values on a 1-bit condition. Inputs are
// (sel, true-value, false-value).
type Mux struct {
	Width int
}

// CountOnes is the population count.
type CountOnes struct {
	Width int
}

// Identity passes its input through unchanged.
type Identity struct {
	Width int
}

// Const is an integer literal. Value must fit in Width bits.
type Const struct {
	Width int
	Value uint64
}

// DontCare is a value with every bit undefined.
type DontCare struct {
	Width int
}

// Register is a D flip-flop bank updated every clock cycle.
type Register struct {
	Init  uint64
	Width int
}

// RegisterEn is a register updated only when its enable input is high.
// Inputs are (enable, data).
type RegisterEn struct {
	Init  uint64
	Width int
}

// BRAM is a single-port synchronous block RAM. Inputs are
// (address, data-in, write-enable). An empty InitFile leaves the contents
// uninitialised.
type BRAM struct {
	InitFile  string
	AddrWidth int
	DataWidth int
}

// TrueDualBRAM is a true dual-port block RAM. Inputs 0..2 drive port A,
// inputs 3..5 drive port B, each ordered (address, data-in, write-enable).
// Output 0 is port A's read data, output 1 port B's.
type TrueDualBRAM struct {
	InitFile  string
	AddrWidth int
	DataWidth int
}

// Display writes formatted text during simulation when its first input
// (the enable) is high. Each Bit item of the format consumes one further
// input, in order.
type Display struct {
	Format Format
}

// Finish terminates simulation when its enable input is high.
type Finish struct{}

// TestPlusArgs samples a verilator plusarg: the output is 1 when
// +Flag was passed on the simulator command line.
type TestPlusArgs struct {
	Flag string
}

// Input is a module-level input port.
type Input struct {
	Width int
	Name  string
}

// Output is a module-level output port driven by the net's single input.
type Output struct {
	Width int
	Name  string
}

// RegFileMake declares a register file. Reads and writes refer to it by ID.
// An empty InitFile leaves the contents uninitialised.
type RegFileMake struct {
	InitFile  string
	AddrWidth int
	DataWidth int
	ID        int
}

// RegFileRead is an asynchronous register-file read. Its input is the
// address.
type RegFileRead struct {
	Width int
	ID    int
}

// RegFileWrite is a synchronous register-file write. Inputs are
// (enable, address, data).
type RegFileWrite struct {
	AddrWidth int
	DataWidth int
	ID        int
}

// CustomPort names one connection of a Custom primitive.
type CustomPort struct {
	Name  string
	Width int
}

// CustomParam is one Verilog parameter binding of a Custom instance.
type CustomParam struct {
	Name  string
	Value string
}

// Custom instantiates an externally defined Verilog module. When Clocked is
// set the instance is wired to the module's clock and reset.
type Custom struct {
	Name    string
	Inputs  []CustomPort
	Outputs []CustomPort
	Params  []CustomParam
	Clocked bool
}

func (BinOp) isPrim()        {}
func (Not) isPrim()          {}
func (ReplicateBit) isPrim() {}
func (ZeroExtend) isPrim()   {}
func (SignExtend) isPrim()   {}
func (SelectBits) isPrim()   {}
func (Concat) isPrim()       {}
func (Mux) isPrim()          {}
func (CountOnes) isPrim()    {}
func (Identity) isPrim()     {}
func (Const) isPrim()        {}
func (DontCare) isPrim()     {}
func (Register) isPrim()     {}
func (RegisterEn) isPrim()   {}
func (BRAM) isPrim()         {}
func (TrueDualBRAM) isPrim() {}
func (Display) isPrim()      {}
func (Finish) isPrim()       {}
func (TestPlusArgs) isPrim() {}
func (Input) isPrim()        {}
func (Output) isPrim()       {}
func (RegFileMake) isPrim()  {}
func (RegFileRead) isPrim()  {}
func (RegFileWrite) isPrim() {}
func (Custom) isPrim()       {}

// OutputWidths returns the width of each output port of p. Primitives with
// no outputs return nil.
func OutputWidths(p Prim) []int {
	switch t := p.(type) {
	case BinOp:
		if t.Op.Comparison() {
			return []int{1}
		}
		return []int{t.Width}
	case Not:
		return []int{t.Width}
	case ReplicateBit:
		return []int{t.Width}
	case ZeroExtend:
		return []int{t.OutWidth}
	case SignExtend:
		return []int{t.OutWidth}
	case SelectBits:
		return []int{t.Hi - t.Lo + 1}
	case Concat:
		return []int{t.WidthA + t.WidthB}
	case Mux:
		return []int{t.Width}
	case CountOnes:
		return []int{t.Width}
	case Identity:
		return []int{t.Width}
	case Const:
		return []int{t.Width}
	case DontCare:
		return []int{t.Width}
	case Register:
		return []int{t.Width}
	case RegisterEn:
		return []int{t.Width}
	case BRAM:
		return []int{t.DataWidth}
	case TrueDualBRAM:
		return []int{t.DataWidth, t.DataWidth}
	case TestPlusArgs:
		return []int{1}
	case Input:
		return []int{t.Width}
	case RegFileRead:
		return []int{t.Width}
	case Custom:
		widths := make([]int, len(t.Outputs))
		for i, out := range t.Outputs {
			widths[i] = out.Width
		}
		return widths
	case Display, Finish, Output, RegFileMake, RegFileWrite:
		return nil
	default:
		return nil
	}
}

// anyWidth marks an input whose width is not fixed by the primitive itself.
const anyWidth = -1

// InputWidths returns the expected width of each input of p. A width of
// anyWidth is not checked against the driving net (register-file addresses
// are checked against their RegFileMake instead).
func InputWidths(p Prim) []int {
	switch t := p.(type) {
	case BinOp:
		return []int{t.Width, t.Width}
	case Not:
		return []int{t.Width}
	case ReplicateBit:
		return []int{1}
	case ZeroExtend:
		return []int{t.InWidth}
	case SignExtend:
		return []int{t.InWidth}
	case SelectBits:
		return []int{t.Width}
	case Concat:
		return []int{t.WidthA, t.WidthB}
	case Mux:
		return []int{1, t.Width, t.Width}
	case CountOnes:
		return []int{t.Width}
	case Identity:
		return []int{t.Width}
	case Register:
		return []int{t.Width}
	case RegisterEn:
		return []int{1, t.Width}
	case BRAM:
		return []int{t.AddrWidth, t.DataWidth, 1}
	case TrueDualBRAM:
		return []int{t.AddrWidth, t.DataWidth, 1, t.AddrWidth, t.DataWidth, 1}
	case Display:
		widths := []int{1}
		for _, item := range t.Format {
			if item.BitWidth > 0 {
				widths = append(widths, item.BitWidth)
			}
		}
		return widths
	case Finish:
		return []int{1}
	case Output:
		return []int{t.Width}
	case RegFileRead:
		return []int{anyWidth}
	case RegFileWrite:
		return []int{1, t.AddrWidth, t.DataWidth}
	case Custom:
		widths := make([]int, len(t.Inputs))
		for i, in := range t.Inputs {
			widths[i] = in.Width
		}
		return widths
	case Const, DontCare, TestPlusArgs, Input, RegFileMake:
		return nil
	default:
		return nil
	}
}

// CanInline reports whether p may be rendered inside an enclosing expression
// without a named intermediate wire. The set is restricted to primitives
// whose Verilog syntax is self-delimiting.
func CanInline(p Prim) bool {
	switch p.(type) {
	case Const, DontCare, Not, ReplicateBit, ZeroExtend, SignExtend,
		SelectBits, Concat, CountOnes, Identity:
		return true
	}
	return false
}
