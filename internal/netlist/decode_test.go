package netlist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()
	nl := counterNetlist()
	nl.Add(&Net{ID: 5, Prim: RegFileMake{InitFile: "regs.hex", AddrWidth: 5, DataWidth: 32, ID: 0}})
	nl.Add(&Net{ID: 6, Prim: Display{Format: Str("count=").Cat(Bit(8), Str("\n"))},
		Inputs: []NetInput{Wire{ID: 0}, Wire{ID: 3}}})
	nl.Add(&Net{
		ID:   7,
		Prim: Custom{Name: "Scaler", Inputs: []CustomPort{{Name: "x", Width: 8}},
			Outputs: []CustomPort{{Name: "y", Width: 8}},
			Params:  []CustomParam{{Name: "FACTOR", Value: "3"}}, Clocked: true},
		Inputs: []NetInput{Expr{Prim: Not{Width: 8}, Children: []NetInput{Wire{ID: 3}}}},
	})

	var first bytes.Buffer
	if err := EncodeJSON(nl, &first); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeJSON(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var second bytes.Buffer
	if err := EncodeJSON(decoded, &second); err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Fatalf("round trip not stable (-first +second):\n%s", diff)
	}
	if decoded.Len() != nl.Len() {
		t.Fatalf("decoded %d nets, want %d", decoded.Len(), nl.Len())
	}
}

func TestDecodeLiteral(t *testing.T) {
	t.Parallel()
	doc := `{
	  "nets": [
	    {"id": 0, "prim": {"kind": "input", "width": 8, "name": "a"}},
	    {"id": 2, "prim": {"kind": "add", "width": 8},
	     "inputs": [{"wire": {"id": 0}}, {"expr": {"prim": {"kind": "const", "width": 8, "value": 7}}}],
	     "hints": ["sum"]}
	  ]
	}`
	nl, err := DecodeJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	n, ok := nl.Net(2)
	if !ok {
		t.Fatalf("net 2 missing")
	}
	if diff := cmp.Diff(BinOp{Op: OpAdd, Width: 8}, n.Prim); diff != "" {
		t.Fatalf("prim mismatch (-want +got):\n%s", diff)
	}
	want := []NetInput{
		Wire{ID: 0},
		Expr{Prim: Const{Width: 8, Value: 7}},
	}
	if diff := cmp.Diff(want, n.Inputs); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
	if err := Check(nl); err != nil {
		t.Fatalf("decoded netlist fails check: %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown primitive kind",
			doc:  `{"nets": [{"id": 0, "prim": {"kind": "fma", "width": 8}}]}`,
			want: "unknown primitive kind",
		},
		{
			name: "duplicate instance id",
			doc: `{"nets": [{"id": 0, "prim": {"kind": "finish"}, "inputs": [{"wire": {"id": 0}}]},
			                {"id": 0, "prim": {"kind": "finish"}, "inputs": [{"wire": {"id": 0}}]}]}`,
			want: "duplicate instance id",
		},
		{
			name: "input with both forms",
			doc: `{"nets": [{"id": 0, "prim": {"kind": "not", "width": 1},
			       "inputs": [{"wire": {"id": 0}, "expr": {"prim": {"kind": "const", "width": 1}}}]}]}`,
			want: "exactly one of wire or expr",
		},
		{
			name: "unknown field",
			doc:  `{"nets": [{"id": 0, "prim": {"kind": "finish"}, "bogus": 1}]}`,
			want: "bogus",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeJSON(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatalf("decode succeeded unexpectedly")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestDumpRendersEveryNet(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	Dump(counterNetlist(), &buf)
	out := buf.String()
	for _, want := range []string{
		`input 1 "en"`,
		"const 8 0x1",
		"add 8 [w3.0, w1.0]",
		"registeren 8 init=0x0 [w0.0, w2.0] {count}",
		`output 8 "count" [w3.0]`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}
