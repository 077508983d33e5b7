package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
	"github.com/matzehuels/mnrl/pkg/network"
	"github.com/matzehuels/mnrl/pkg/pipeline"
)

// Inspect output formats.
const (
	inspectText = "text"
	inspectJSON = "json"
	inspectYAML = "yaml"
)

// inspection is the --format json|yaml shape of inspect.
type inspection struct {
	pipeline.Summary `yaml:",inline"`
	NodeList         []nodeInfo `json:"node_list,omitempty" yaml:"node_list,omitempty"`
}

type nodeInfo struct {
	ID      string   `json:"id" yaml:"id"`
	Type    string   `json:"type" yaml:"type"`
	Enable  string   `json:"enable" yaml:"enable"`
	Report  bool     `json:"report" yaml:"report"`
	Inputs  []string `json:"inputs" yaml:"inputs"`
	Outputs []string `json:"outputs" yaml:"outputs"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		format string
		nodes  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize the nodes, ports and connections of an MNRL document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case inspectText, inspectJSON, inspectYAML:
			default:
				return merrors.New(merrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: text, json, yaml)", format).
					WithSubject("format")
			}
			return c.runInspect(cmd.Context(), cmd, args[0], format, nodes)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", inspectText, "output format: text, json, yaml")
	cmd.Flags().BoolVar(&nodes, "nodes", false, "list every node")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, cmd *cobra.Command, input, format string, withNodes bool) error {
	data, err := readDocument(cmd, input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	net, err := runner.Load(ctx, input, data)
	if err != nil {
		return err
	}

	info := inspection{Summary: pipeline.Summarize(net)}
	if withNodes {
		info.NodeList = listNodes(net)
	}

	out := cmd.OutOrStdout()
	switch format {
	case inspectJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case inspectYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	}
	printInspection(out, info)
	return nil
}

func listNodes(net *network.Network) []nodeInfo {
	nodes := net.Nodes()
	list := make([]nodeInfo, 0, len(nodes))
	for _, n := range nodes {
		list = append(list, nodeInfo{
			ID:      n.ID(),
			Type:    n.Type(),
			Enable:  n.Enable().String(),
			Report:  n.ReportSettings().Report,
			Inputs:  n.InputPorts().IDs(),
			Outputs: n.OutputPorts().IDs(),
		})
	}
	return list
}

func printInspection(w io.Writer, info inspection) {
	s := info.Summary
	fmt.Fprintln(w, StyleTitle.Render(s.ID))
	printKeyValue(w, "nodes", strconv.Itoa(s.Nodes))
	printKeyValue(w, "connections", strconv.Itoa(s.Connections))
	printKeyValue(w, "ports", fmt.Sprintf("%d in · %d out", s.InputPorts, s.OutputPorts))
	printKeyValue(w, "reporting", strconv.Itoa(s.Reporting))
	printKeyValue(w, "start nodes", strconv.Itoa(s.StartNodes))
	if len(s.Unconnected) > 0 {
		printWarning(w, "unconnected: %s", strings.Join(s.Unconnected, ", "))
	}

	if len(s.Types) > 0 {
		types := make([]string, 0, len(s.Types))
		for t := range s.Types {
			types = append(types, t)
		}
		slices.Sort(types)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(StyleDim).
			Headers("TYPE", "COUNT")
		for _, typ := range types {
			t.Row(typ, strconv.Itoa(s.Types[typ]))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Render())
	}

	if len(info.NodeList) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(StyleDim).
			Headers("ID", "TYPE", "ENABLE", "REPORT", "IN", "OUT")
		for _, n := range info.NodeList {
			t.Row(n.ID, n.Type, n.Enable, strconv.FormatBool(n.Report),
				strings.Join(n.Inputs, ","), strings.Join(n.Outputs, ","))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Render())
	}
}
