package netlist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOutputWidths(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		prim Prim
		want []int
	}{
		{name: "add", prim: BinOp{Op: OpAdd, Width: 8}, want: []int{8}},
		{name: "comparison is one bit", prim: BinOp{Op: OpLessThan, Width: 8}, want: []int{1}},
		{name: "select", prim: SelectBits{Width: 16, Hi: 7, Lo: 4}, want: []int{4}},
		{name: "concat", prim: Concat{WidthA: 3, WidthB: 5}, want: []int{8}},
		{name: "zero extend", prim: ZeroExtend{InWidth: 8, OutWidth: 32}, want: []int{32}},
		{name: "true dual bram", prim: TrueDualBRAM{AddrWidth: 10, DataWidth: 32}, want: []int{32, 32}},
		{name: "plusargs", prim: TestPlusArgs{Flag: "trace"}, want: []int{1}},
		{name: "display has no outputs", prim: Display{Format: Str("hi")}, want: nil},
		{name: "output has no outputs", prim: Output{Width: 8, Name: "y"}, want: nil},
		{
			name: "custom",
			prim: Custom{Outputs: []CustomPort{{Name: "sum", Width: 8}, {Name: "carry", Width: 1}}},
			want: []int{8, 1},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, OutputWidths(tc.prim)); diff != "" {
				t.Fatalf("OutputWidths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInputWidths(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		prim Prim
		want []int
	}{
		{name: "mux", prim: Mux{Width: 4}, want: []int{1, 4, 4}},
		{name: "replicate takes a bit", prim: ReplicateBit{Width: 8}, want: []int{1}},
		{name: "register", prim: Register{Width: 4}, want: []int{4}},
		{name: "register with enable", prim: RegisterEn{Width: 4}, want: []int{1, 4}},
		{name: "bram", prim: BRAM{AddrWidth: 10, DataWidth: 32}, want: []int{10, 32, 1}},
		{name: "const takes nothing", prim: Const{Width: 4, Value: 9}, want: nil},
		{
			name: "display consumes one input per bit slot",
			prim: Display{Format: Str("x=").Cat(Bit(8), Str("!"), Bit(2))},
			want: []int{1, 8, 2},
		},
		{name: "regfile write", prim: RegFileWrite{AddrWidth: 5, DataWidth: 32}, want: []int{1, 5, 32}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, InputWidths(tc.prim)); diff != "" {
				t.Fatalf("InputWidths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCanInline(t *testing.T) {
	t.Parallel()
	inlinable := []Prim{
		Const{Width: 4}, DontCare{Width: 4}, Not{Width: 4}, ReplicateBit{Width: 4},
		ZeroExtend{InWidth: 2, OutWidth: 4}, SignExtend{InWidth: 2, OutWidth: 4},
		SelectBits{Width: 4, Hi: 1, Lo: 0}, Concat{WidthA: 2, WidthB: 2},
		CountOnes{Width: 4}, Identity{Width: 4},
	}
	for _, p := range inlinable {
		if !CanInline(p) {
			t.Errorf("expected %T to be inlinable", p)
		}
	}
	named := []Prim{
		BinOp{Op: OpAdd, Width: 4}, BinOp{Op: OpEqual, Width: 4}, Mux{Width: 4},
		Register{Width: 4}, BRAM{AddrWidth: 2, DataWidth: 4}, Input{Width: 4, Name: "a"},
	}
	for _, p := range named {
		if CanInline(p) {
			t.Errorf("expected %T to require a named wire", p)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()
	f := Str("count=").Cat(Bit(8), Str("\n"))
	want := Format{{Text: "count="}, {BitWidth: 8}, {Text: "\n"}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
	if got := f.NumBits(); got != 1 {
		t.Fatalf("NumBits = %d, want 1", got)
	}
}
