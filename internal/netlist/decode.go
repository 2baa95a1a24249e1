package netlist

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// The JSON wire format used by elaborators running outside this process.
// A netlist is an object {"nets": [...]}; each net carries its instance id,
// a tagged primitive, its inputs, and optional name hints:
//
//	{"id": 2, "prim": {"kind": "add", "width": 8},
//	 "inputs": [{"wire": {"id": 0}}, {"wire": {"id": 1}}],
//	 "hints": ["sum"]}
//
// Inlined expressions use {"expr": {"prim": ..., "children": [...]}}.

type netlistJSON struct {
	Nets []netJSON `json:"nets"`
}

type netJSON struct {
	ID     int         `json:"id"`
	Prim   primJSON    `json:"prim"`
	Inputs []inputJSON `json:"inputs,omitempty"`
	Hints  []string    `json:"hints,omitempty"`
}

type inputJSON struct {
	Wire *wireJSON `json:"wire,omitempty"`
	Expr *exprJSON `json:"expr,omitempty"`
}

type wireJSON struct {
	ID   int `json:"id"`
	Port int `json:"port,omitempty"`
}

type exprJSON struct {
	Prim     primJSON    `json:"prim"`
	Children []inputJSON `json:"children,omitempty"`
}

// primJSON flattens every primitive variant into one tagged record. Only the
// fields relevant to Kind are populated.
type primJSON struct {
	Kind      string           `json:"kind"`
	Width     int              `json:"width,omitempty"`
	InWidth   int              `json:"inWidth,omitempty"`
	OutWidth  int              `json:"outWidth,omitempty"`
	Hi        int              `json:"hi,omitempty"`
	Lo        int              `json:"lo,omitempty"`
	WidthA    int              `json:"widthA,omitempty"`
	WidthB    int              `json:"widthB,omitempty"`
	Value     uint64           `json:"value,omitempty"`
	Init      uint64           `json:"init,omitempty"`
	InitFile  string           `json:"initFile,omitempty"`
	AddrWidth int              `json:"addrWidth,omitempty"`
	DataWidth int              `json:"dataWidth,omitempty"`
	RegFileID int              `json:"regFileId,omitempty"`
	Name      string           `json:"name,omitempty"`
	Flag      string           `json:"flag,omitempty"`
	Format    []formatItemJSON `json:"format,omitempty"`
	Inputs    []portJSON       `json:"inputs,omitempty"`
	Outputs   []portJSON       `json:"outputs,omitempty"`
	Params    []paramJSON      `json:"params,omitempty"`
	Clocked   bool             `json:"clocked,omitempty"`
}

type formatItemJSON struct {
	Text     string `json:"text,omitempty"`
	BitWidth int    `json:"bitWidth,omitempty"`
}

type portJSON struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

type paramJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DecodeJSON reads a netlist from its JSON wire format. Unknown primitive
// kinds and duplicate instance ids are errors.
func DecodeJSON(r io.Reader) (*Netlist, error) {
	var raw netlistJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode netlist")
	}
	nl := New()
	for _, n := range raw.Nets {
		if _, ok := nl.Net(n.ID); ok {
			return nil, errors.Wrapf(ErrMalformed, "net %d: duplicate instance id", n.ID)
		}
		prim, err := primFromJSON(n.Prim)
		if err != nil {
			return nil, errors.Wrapf(err, "net %d", n.ID)
		}
		inputs, err := inputsFromJSON(n.Inputs)
		if err != nil {
			return nil, errors.Wrapf(err, "net %d", n.ID)
		}
		nl.Add(&Net{ID: n.ID, Prim: prim, Inputs: inputs, NameHints: n.Hints})
	}
	return nl, nil
}

// EncodeJSON writes nl in the JSON wire format, nets in ascending id order.
func EncodeJSON(nl *Netlist, w io.Writer) error {
	raw := netlistJSON{Nets: []netJSON{}}
	for _, id := range nl.IDs() {
		n, _ := nl.Net(id)
		inputs, err := inputsToJSON(n.Inputs)
		if err != nil {
			return errors.Wrapf(err, "net %d", id)
		}
		raw.Nets = append(raw.Nets, netJSON{
			ID:     n.ID,
			Prim:   primToJSON(n.Prim),
			Inputs: inputs,
			Hints:  n.NameHints,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(raw), "encode netlist")
}

func inputsFromJSON(raw []inputJSON) ([]NetInput, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	inputs := make([]NetInput, len(raw))
	for i, in := range raw {
		switch {
		case in.Wire != nil && in.Expr == nil:
			inputs[i] = Wire{ID: in.Wire.ID, Port: in.Wire.Port}
		case in.Expr != nil && in.Wire == nil:
			prim, err := primFromJSON(in.Expr.Prim)
			if err != nil {
				return nil, err
			}
			children, err := inputsFromJSON(in.Expr.Children)
			if err != nil {
				return nil, err
			}
			inputs[i] = Expr{Prim: prim, Children: children}
		default:
			return nil, errors.New("input must be exactly one of wire or expr")
		}
	}
	return inputs, nil
}

func inputsToJSON(inputs []NetInput) ([]inputJSON, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	raw := make([]inputJSON, len(inputs))
	for i, in := range inputs {
		switch t := in.(type) {
		case Wire:
			raw[i] = inputJSON{Wire: &wireJSON{ID: t.ID, Port: t.Port}}
		case Expr:
			children, err := inputsToJSON(t.Children)
			if err != nil {
				return nil, err
			}
			raw[i] = inputJSON{Expr: &exprJSON{Prim: primToJSON(t.Prim), Children: children}}
		default:
			return nil, errors.Errorf("unknown input form %T", in)
		}
	}
	return raw, nil
}

var binOpKinds = map[string]BinOpKind{
	"add": OpAdd, "sub": OpSub, "mul": OpMul, "div": OpDiv, "mod": OpMod,
	"and": OpAnd, "or": OpOr, "xor": OpXor,
	"shl": OpShiftLeft, "shr": OpShiftRight, "ashr": OpArithShiftRight,
	"eq": OpEqual, "neq": OpNotEqual, "lt": OpLessThan, "le": OpLessThanEq,
}

func primFromJSON(raw primJSON) (Prim, error) {
	if op, ok := binOpKinds[raw.Kind]; ok {
		return BinOp{Op: op, Width: raw.Width}, nil
	}
	switch raw.Kind {
	case "not":
		return Not{Width: raw.Width}, nil
	case "replicate":
		return ReplicateBit{Width: raw.Width}, nil
	case "zext":
		return ZeroExtend{InWidth: raw.InWidth, OutWidth: raw.OutWidth}, nil
	case "sext":
		return SignExtend{InWidth: raw.InWidth, OutWidth: raw.OutWidth}, nil
	case "select":
		return SelectBits{Width: raw.Width, Hi: raw.Hi, Lo: raw.Lo}, nil
	case "concat":
		return Concat{WidthA: raw.WidthA, WidthB: raw.WidthB}, nil
	case "mux":
		return Mux{Width: raw.Width}, nil
	case "countones":
		return CountOnes{Width: raw.Width}, nil
	case "identity":
		return Identity{Width: raw.Width}, nil
	case "const":
		return Const{Width: raw.Width, Value: raw.Value}, nil
	case "dontcare":
		return DontCare{Width: raw.Width}, nil
	case "register":
		return Register{Init: raw.Init, Width: raw.Width}, nil
	case "registeren":
		return RegisterEn{Init: raw.Init, Width: raw.Width}, nil
	case "bram":
		return BRAM{InitFile: raw.InitFile, AddrWidth: raw.AddrWidth, DataWidth: raw.DataWidth}, nil
	case "bramdual":
		return TrueDualBRAM{InitFile: raw.InitFile, AddrWidth: raw.AddrWidth, DataWidth: raw.DataWidth}, nil
	case "display":
		format := make(Format, len(raw.Format))
		for i, item := range raw.Format {
			format[i] = FormatItem{Text: item.Text, BitWidth: item.BitWidth}
		}
		return Display{Format: format}, nil
	case "finish":
		return Finish{}, nil
	case "plusargs":
		return TestPlusArgs{Flag: raw.Flag}, nil
	case "input":
		return Input{Width: raw.Width, Name: raw.Name}, nil
	case "output":
		return Output{Width: raw.Width, Name: raw.Name}, nil
	case "rfmake":
		return RegFileMake{InitFile: raw.InitFile, AddrWidth: raw.AddrWidth, DataWidth: raw.DataWidth, ID: raw.RegFileID}, nil
	case "rfread":
		return RegFileRead{Width: raw.Width, ID: raw.RegFileID}, nil
	case "rfwrite":
		return RegFileWrite{AddrWidth: raw.AddrWidth, DataWidth: raw.DataWidth, ID: raw.RegFileID}, nil
	case "custom":
		return Custom{
			Name:    raw.Name,
			Inputs:  portsFromJSON(raw.Inputs),
			Outputs: portsFromJSON(raw.Outputs),
			Params:  paramsFromJSON(raw.Params),
			Clocked: raw.Clocked,
		}, nil
	default:
		return nil, errors.Errorf("unknown primitive kind %q", raw.Kind)
	}
}

func primToJSON(p Prim) primJSON {
	switch t := p.(type) {
	case BinOp:
		return primJSON{Kind: binOpName(t.Op), Width: t.Width}
	case Not:
		return primJSON{Kind: "not", Width: t.Width}
	case ReplicateBit:
		return primJSON{Kind: "replicate", Width: t.Width}
	case ZeroExtend:
		return primJSON{Kind: "zext", InWidth: t.InWidth, OutWidth: t.OutWidth}
	case SignExtend:
		return primJSON{Kind: "sext", InWidth: t.InWidth, OutWidth: t.OutWidth}
	case SelectBits:
		return primJSON{Kind: "select", Width: t.Width, Hi: t.Hi, Lo: t.Lo}
	case Concat:
		return primJSON{Kind: "concat", WidthA: t.WidthA, WidthB: t.WidthB}
	case Mux:
		return primJSON{Kind: "mux", Width: t.Width}
	case CountOnes:
		return primJSON{Kind: "countones", Width: t.Width}
	case Identity:
		return primJSON{Kind: "identity", Width: t.Width}
	case Const:
		return primJSON{Kind: "const", Width: t.Width, Value: t.Value}
	case DontCare:
		return primJSON{Kind: "dontcare", Width: t.Width}
	case Register:
		return primJSON{Kind: "register", Width: t.Width, Init: t.Init}
	case RegisterEn:
		return primJSON{Kind: "registeren", Width: t.Width, Init: t.Init}
	case BRAM:
		return primJSON{Kind: "bram", InitFile: t.InitFile, AddrWidth: t.AddrWidth, DataWidth: t.DataWidth}
	case TrueDualBRAM:
		return primJSON{Kind: "bramdual", InitFile: t.InitFile, AddrWidth: t.AddrWidth, DataWidth: t.DataWidth}
	case Display:
		format := make([]formatItemJSON, len(t.Format))
		for i, item := range t.Format {
			format[i] = formatItemJSON{Text: item.Text, BitWidth: item.BitWidth}
		}
		return primJSON{Kind: "display", Format: format}
	case Finish:
		return primJSON{Kind: "finish"}
	case TestPlusArgs:
		return primJSON{Kind: "plusargs", Flag: t.Flag}
	case Input:
		return primJSON{Kind: "input", Width: t.Width, Name: t.Name}
	case Output:
		return primJSON{Kind: "output", Width: t.Width, Name: t.Name}
	case RegFileMake:
		return primJSON{Kind: "rfmake", InitFile: t.InitFile, AddrWidth: t.AddrWidth, DataWidth: t.DataWidth, RegFileID: t.ID}
	case RegFileRead:
		return primJSON{Kind: "rfread", Width: t.Width, RegFileID: t.ID}
	case RegFileWrite:
		return primJSON{Kind: "rfwrite", AddrWidth: t.AddrWidth, DataWidth: t.DataWidth, RegFileID: t.ID}
	case Custom:
		return primJSON{
			Kind:    "custom",
			Name:    t.Name,
			Inputs:  portsToJSON(t.Inputs),
			Outputs: portsToJSON(t.Outputs),
			Params:  paramsToJSON(t.Params),
			Clocked: t.Clocked,
		}
	default:
		return primJSON{Kind: "unknown"}
	}
}

func portsFromJSON(raw []portJSON) []CustomPort {
	if len(raw) == 0 {
		return nil
	}
	ports := make([]CustomPort, len(raw))
	for i, p := range raw {
		ports[i] = CustomPort{Name: p.Name, Width: p.Width}
	}
	return ports
}

func portsToJSON(ports []CustomPort) []portJSON {
	if len(ports) == 0 {
		return nil
	}
	raw := make([]portJSON, len(ports))
	for i, p := range ports {
		raw[i] = portJSON{Name: p.Name, Width: p.Width}
	}
	return raw
}

func paramsFromJSON(raw []paramJSON) []CustomParam {
	if len(raw) == 0 {
		return nil
	}
	params := make([]CustomParam, len(raw))
	for i, p := range raw {
		params[i] = CustomParam{Name: p.Name, Value: p.Value}
	}
	return params
}

func paramsToJSON(params []CustomParam) []paramJSON {
	if len(params) == 0 {
		return nil
	}
	raw := make([]paramJSON, len(params))
	for i, p := range params {
		raw[i] = paramJSON{Name: p.Name, Value: p.Value}
	}
	return raw
}
