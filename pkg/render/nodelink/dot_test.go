package nodelink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/mnrl/pkg/network"
)

func sampleNetwork(t *testing.T) *network.Network {
	t.Helper()
	net := network.New("demo")

	s1, err := network.NewState(network.Common{ID: "s1", Enable: network.EnableOnStartAndActivateIn},
		network.SymbolSet{{Port: "hit", Symbols: "[a]"}}, false)
	if err != nil {
		t.Fatal(err)
	}
	c1, err := network.NewUpCounter(network.Common{ID: "c1", Report: true, ReportID: network.StringReportID("42")},
		3, network.CounterTrigger)
	if err != nil {
		t.Fatal(err)
	}
	b1, err := network.NewBoolean(network.Common{ID: "b1"}, network.BooleanAnd)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []network.Node{s1, c1, b1} {
		if err := net.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, c := range [][4]string{{"s1", "hit", "c1", "count"}, {"c1", "output", "b1", "in0"}} {
		if err := net.AddConnection(c[0], c[1], c[2], c[3]); err != nil {
			t.Fatal(err)
		}
	}
	return net
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleNetwork(t), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`"s1" [shape=ellipse, label="s1\nstate", fillcolor=lightblue];`,
		`"c1" [shape=box3d, label="c1\nupCounter", peripheries=2];`,
		`"b1" [shape=invtrapezium, label="b1\nboolean"];`,
		`"s1" -> "c1" [label="hit→count"];`,
		`"c1" -> "b1" [label="output→in0"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDirection(t *testing.T) {
	dot := ToDOT(sampleNetwork(t), Options{Direction: DirectionTB})
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Errorf("expected rankdir=TB:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleNetwork(t), Options{Detailed: true})
	for _, want := range []string{`mode: trigger`, `threshold: 3`, `reportId: 42`, `symbolSet: hit=[a]`, `gateType: and`} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTPorts(t *testing.T) {
	dot := ToDOT(sampleNetwork(t), Options{Ports: true})
	for _, want := range []string{
		`"b1" [shape=Mrecord, label="{{<in_in0> in0|<in_in1> in1}|b1\nboolean|{<out_output> output}}"];`,
		`"s1":"out_hit" -> "c1":"in_count";`,
		`"c1":"out_output" -> "b1":"in_in0";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ports DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestEscapeRecord(t *testing.T) {
	got := escapeRecord(`a|b {c} <d> "e" f`)
	want := `a\|b\ \{c\}\ \<d\>\ \"e\"\ f`
	if got != want {
		t.Errorf("escapeRecord = %s, want %s", got, want)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sampleNetwork(t), Options{Ports: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("output is not SVG: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %s", out)
	}
}
