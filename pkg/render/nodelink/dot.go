package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mnrl/pkg/network"
)

// Layout directions accepted by [Options.Direction].
const (
	DirectionLR = "LR"
	DirectionTB = "TB"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Direction is the Graphviz rankdir, LR (default) or TB.
	Direction string
	// Ports draws every node as a record with one field per port and
	// attaches edges to the fields. When false, edges are labeled with
	// their port pair instead.
	Ports bool
	// Detailed adds typed fields and pass-through attributes to labels.
	Detailed bool
}

var kindShape = map[network.Kind]string{
	network.KindState:     "ellipse",
	network.KindHState:    "ellipse",
	network.KindUpCounter: "box3d",
	network.KindBoolean:   "invtrapezium",
	network.KindGeneric:   "box",
}

// ToDOT converts a network to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Reporting nodes get a double outline; nodes enabled at start of input
// (onStartAndActivateIn) are filled light blue.
func ToDOT(net *network.Network, opts Options) string {
	dir := opts.Direction
	if dir == "" {
		dir = DirectionLR
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	fmt.Fprintf(&buf, "  label=%q;\n", net.ID())
	buf.WriteString("\n")

	for _, n := range net.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID(), strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, c := range net.Connections() {
		if opts.Ports {
			fmt.Fprintf(&buf, "  %q:%q -> %q:%q;\n",
				c.Source.Node, "out_"+c.Source.Port, c.Destination.Node, "in_"+c.Destination.Port)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n",
			c.Source.Node, c.Destination.Node, c.Source.Port+"→"+c.Destination.Port)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n network.Node, opts Options) []string {
	var attrs []string
	if opts.Ports {
		attrs = append(attrs, "shape=Mrecord", `label="`+recordLabel(n, opts.Detailed)+`"`)
	} else {
		attrs = append(attrs, "shape="+kindShape[n.Kind()], fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)))
	}
	if n.ReportSettings().Report {
		attrs = append(attrs, "peripheries=2")
	}
	if n.Enable() == network.EnableOnStartAndActivateIn {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

func fmtLabel(n network.Node, detailed bool) string {
	head := n.ID() + "\n" + n.Type()
	if !detailed {
		return head
	}
	return head + "\n" + strings.Join(details(n), "\n")
}

// details lists the typed fields and attributes of n, one per line.
func details(n network.Node) []string {
	var parts []string
	for _, a := range n.Document().Attributes {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Key, display(a.Value)))
	}
	if re, ok := n.ReportEnable(); ok {
		parts = append(parts, "reportEnable: "+re.String())
	}
	return parts
}

func display(v any) string {
	switch v := v.(type) {
	case network.SymbolSet:
		pairs := make([]string, len(v))
		for i, m := range v {
			pairs[i] = m.Port + "=" + m.Symbols
		}
		return strings.Join(pairs, " ")
	case network.ReportID:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// recordLabel builds a record label {{inputs}|title|{outputs}}. Field
// names are in_<port> and out_<port>. The result is already escaped for use
// inside a quoted DOT string.
func recordLabel(n network.Node, detailed bool) string {
	fields := func(prefix string, ports []network.Port) string {
		parts := make([]string, len(ports))
		for i, p := range ports {
			text := p.ID()
			if p.Width() > 1 {
				text += "[" + strconv.Itoa(p.Width()) + "]"
			}
			parts[i] = "<" + prefix + escapeRecord(p.ID()) + "> " + escapeRecord(text)
		}
		return "{" + strings.Join(parts, "|") + "}"
	}

	title := escapeRecord(n.ID()) + `\n` + escapeRecord(n.Type())
	if detailed {
		for _, d := range details(n) {
			title += `\n` + escapeRecord(d)
		}
	}
	return "{" + fields("in_", n.InputPorts().Ports()) + "|" + title + "|" + fields("out_", n.OutputPorts().Ports()) + "}"
}

var recordSpecial = strings.NewReplacer(
	`\`, `\\`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`, `"`, `\"`, " ", `\ `,
)

func escapeRecord(s string) string { return recordSpecial.Replace(s) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
