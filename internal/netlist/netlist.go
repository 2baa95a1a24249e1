// Package netlist models an elaborated circuit as a sparse graph of
// primitive hardware operators. A netlist is immutable once handed to the
// Verilog backend; everything the backend emits is derived from it.
package netlist

import "sort"

// NetInput is one operand of a primitive: a reference to another net's
// output wire, or an inlined sub-expression.
type NetInput interface {
	isNetInput()
}

// Wire references output port Port of the net with instance id ID.
type Wire struct {
	ID   int
	Port int
}

// Expr inlines a sub-expression. Only primitives accepted by the expression
// printer may appear here; anything else is rejected during generation.
type Expr struct {
	Prim     Prim
	Children []NetInput
}

func (Wire) isNetInput() {}
func (Expr) isNetInput() {}

// Net is a single node of the netlist: one primitive, its input edges, and
// optional user-chosen name hints for the generated wire identifiers.
type Net struct {
	ID        int
	Prim      Prim
	Inputs    []NetInput
	NameHints []string
}

// Netlist is a sparse mapping from instance id to net. Ids need not be
// contiguous; iteration for code generation is in ascending id order.
type Netlist struct {
	nets map[int]*Net
}

// New returns an empty netlist.
func New() *Netlist {
	return &Netlist{nets: make(map[int]*Net)}
}

// Add inserts n, replacing any net with the same id.
func (nl *Netlist) Add(n *Net) {
	nl.nets[n.ID] = n
}

// Net looks up the net with the given instance id.
func (nl *Netlist) Net(id int) (*Net, bool) {
	n, ok := nl.nets[id]
	return n, ok
}

// Len returns the number of nets.
func (nl *Netlist) Len() int {
	return len(nl.nets)
}

// IDs returns every instance id in ascending order.
func (nl *Netlist) IDs() []int {
	ids := make([]int, 0, len(nl.nets))
	for id := range nl.nets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// PortDecl is one module-level port derived from an Input or Output net.
type PortDecl struct {
	Name  string
	Width int
}

// ModuleInputs returns the distinct module inputs in first-seen (ascending
// net id) order. Several Input nets may share a (width, name) pair; they
// contribute a single port.
func (nl *Netlist) ModuleInputs() []PortDecl {
	var ports []PortDecl
	seen := make(map[PortDecl]bool)
	for _, id := range nl.IDs() {
		if in, ok := nl.nets[id].Prim.(Input); ok {
			decl := PortDecl{Name: in.Name, Width: in.Width}
			if !seen[decl] {
				seen[decl] = true
				ports = append(ports, decl)
			}
		}
	}
	return ports
}

// ModuleOutputs returns the module outputs in ascending net id order.
func (nl *Netlist) ModuleOutputs() []PortDecl {
	var ports []PortDecl
	for _, id := range nl.IDs() {
		if out, ok := nl.nets[id].Prim.(Output); ok {
			ports = append(ports, PortDecl{Name: out.Name, Width: out.Width})
		}
	}
	return ports
}
