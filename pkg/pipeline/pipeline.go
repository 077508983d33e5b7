// Package pipeline provides the document pipeline shared by the CLI and the
// validation service.
//
// A document flows through up to three stages:
//
//  1. Load: schema validation followed by two-pass translation into a
//     [network.Network]
//  2. Normalize: canonical re-serialization of the loaded network
//  3. Render: node-link diagram as DOT, SVG or PNG
//
// Normalize and Render results are cached by the SHA-256 of the input
// document, so repeated requests for the same bytes skip all three stages.
// Load itself is never cached; a [network.Network] is mutable and is
// rebuilt for every caller.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	canonical, err := runner.Normalize(ctx, "net.mnrl", data)
//
//	svg, err := runner.Render(ctx, "net.mnrl", data, pipeline.Options{Format: pipeline.FormatSVG})
package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/mnrl/pkg/cache"
	merrors "github.com/matzehuels/mnrl/pkg/errors"
	"github.com/matzehuels/mnrl/pkg/render/nodelink"
)

// Format constants for rendered output.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats lists the supported render formats in display order.
var ValidFormats = []string{FormatDOT, FormatSVG, FormatPNG}

// ValidDirections lists the supported layout directions.
var ValidDirections = []string{nodelink.DirectionLR, nodelink.DirectionTB}

// Options configures a render.
type Options struct {
	Format    string `json:"format,omitempty"`
	Direction string `json:"direction,omitempty"`
	Ports     bool   `json:"ports,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`

	// Refresh bypasses cached results; fresh results are still stored.
	Refresh bool `json:"-"`
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return merrors.New(merrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", ")).WithSubject("format")
	}
	return nil
}

// ValidateDirection checks that a layout direction is supported.
func ValidateDirection(dir string) error {
	if !slices.Contains(ValidDirections, dir) {
		return merrors.New(merrors.ErrCodeInvalidInput, "invalid direction: %q (must be one of: %s)",
			dir, strings.Join(ValidDirections, ", ")).WithSubject("direction")
	}
	return nil
}

// ValidateAndSetDefaults fills in the default format (svg) and direction
// (LR), then validates both.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.Direction == "" {
		o.Direction = nodelink.DirectionLR
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	return ValidateDirection(o.Direction)
}

// RenderKeyOpts returns the cache key options for this render.
func (o Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:    o.Format,
		Direction: o.Direction,
		Ports:     o.Ports,
		Detailed:  o.Detailed,
	}
}

// NodelinkOptions returns the diagram options for this render.
func (o Options) NodelinkOptions() nodelink.Options {
	return nodelink.Options{
		Direction: o.Direction,
		Ports:     o.Ports,
		Detailed:  o.Detailed,
	}
}

// ContentType returns the MIME type of a render format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

func keyType(prefix, detail string) string {
	if detail == "" {
		return prefix
	}
	return fmt.Sprintf("%s_%s", prefix, detail)
}
