package render

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/cornerstone/pkg/layout"
	"github.com/matzehuels/cornerstone/pkg/placement"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// PositionsDOT converts an allocation to DOT. Suites appear left to right
// in catalog order with offsets ascending top to bottom.
func PositionsDOT(cat *suite.Catalog, alloc *placement.Allocation) string {
	var buf bytes.Buffer
	buf.WriteString("graph positions {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\"];\n")
	buf.WriteString("  edge [style=dashed, color=grey60];\n")
	buf.WriteString("\n")

	type candidate struct {
		suite string
		iv    placement.Interval
	}
	var all []candidate

	for i, s := range cat.Suites() {
		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", s.String())
		for _, off := range alloc.Positions[s.Name] {
			attrs := []string{fmt.Sprintf("label=%q", fmt.Sprint(off))}
			if alloc.Exclusive[s.Name] == off {
				attrs = append(attrs, "fillcolor=lightblue", "penwidth=2")
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", nodeID(s.Name, off), strings.Join(attrs, ", "))
			all = append(all, candidate{s.Name, placement.Interval{Start: off, End: off + s.CornerstoneLen}})
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for i, a := range all {
		for _, b := range all[i+1:] {
			if a.suite != b.suite && a.iv.Overlaps(b.iv) {
				fmt.Fprintf(&buf, "  %q -- %q;\n", nodeID(a.suite, a.iv.Start), nodeID(b.suite, b.iv.Start))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// PlacementDOT converts a header to a DOT record laid out by offset.
func PlacementDOT(h *layout.Header) string {
	cells := h.Layout().Regions()
	cells = append(cells, h.Free...)
	slices.SortFunc(cells, func(a, b layout.Region) int { return cmp.Compare(a.Start, b.Start) })

	fields := make([]string, len(cells))
	for i, r := range cells {
		fields[i] = fmt.Sprintf("{%s|%d..%d}", escapeRecord(r.Label), r.Start, r.End)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph header {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, fontname=\"monospace\"];\n")
	fmt.Fprintf(&buf, "  header [label=\"%s\"];\n", strings.ReplaceAll(strings.Join(fields, "|"), `"`, `\"`))
	fmt.Fprintf(&buf, "  length [shape=plaintext, label=%q];\n",
		fmt.Sprintf("%d bytes, %d free", h.Length, h.Slack()))
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(name string, off int) string {
	return fmt.Sprintf("%s@%d", name, off)
}

var recordEscaper = strings.NewReplacer(
	"{", `\{`, "}", `\}`, "|", `\|`, "<", `\<`, ">", `\>`,
)

// escapeRecord escapes characters with meaning inside record labels.
func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}
