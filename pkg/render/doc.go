// Package render lays out and rasterizes pipeline diagrams.
//
// # Overview
//
// [Render] takes a [dot.Graph] and produces the bytes of one output format:
//
//   - png, svg, jpg: laid out and drawn in-process by Graphviz
//   - dot: the DOT source itself, for external Graphviz tooling
//   - pdf: SVG converted with rsvg-convert (from librsvg)
//
// Layout is entirely delegated to Graphviz's dot engine. Output is produced
// in memory; callers decide where it goes.
//
//	data, err := render.Render(ctx, g, render.FormatPNG)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process layout
// and rendering. PDF conversion requires librsvg (rsvg-convert).
//
// [dot.Graph]: github.com/matzehuels/pipeline-yaml/pkg/dot
package render
