// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph turns extracted annotations into a GraphViz DOT description.
//
// Annotations are grouped by track. A track's first Cog1/Cog1gen annotation
// becomes its anchor object and every property, state, action, part, product,
// or environment annotation in the same track hangs off it through a labeled
// edge. Tracks without an anchor contribute nothing from the relational
// categories. Secondary objects and the temporal, movement, and human
// operation markers are emitted as free-standing nodes afterwards.
package graph

import (
	"fmt"
	"strings"

	"github.com/pdiddy/coggraph/pkg/types"
)

// Node is one declared graph node.
type Node struct {
	ID    string
	Label string
	Role  Role
	Style Style
}

// Edge is a directed, labeled edge between two node IDs.
type Edge struct {
	From  string
	To    string
	Label string
	Color string
}

type stmtKind int

const (
	stmtNode stmtKind = iota
	stmtEdge
	stmtComment
)

type stmt struct {
	kind    stmtKind
	index   int
	comment string
}

// Graph is the result of a build: nodes and edges in emission order.
type Graph struct {
	Title string
	Nodes []Node
	Edges []Edge

	// Dropped counts relational annotations discarded because their track
	// had no anchor object.
	Dropped int

	stmts []stmt
}

// NodesByRole returns the nodes produced for role, in emission order.
func (g *Graph) NodesByRole(role Role) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Role == role {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) addNode(n Node) {
	g.stmts = append(g.stmts, stmt{kind: stmtNode, index: len(g.Nodes)})
	g.Nodes = append(g.Nodes, n)
}

func (g *Graph) addEdge(e Edge) {
	g.stmts = append(g.stmts, stmt{kind: stmtEdge, index: len(g.Edges)})
	g.Edges = append(g.Edges, e)
}

func (g *Graph) addComment(text string) {
	g.stmts = append(g.stmts, stmt{kind: stmtComment, comment: text})
}

// builder owns the per-run node bookkeeping so concurrent builds never share
// counters.
type builder struct {
	g       *Graph
	created map[string]bool
}

// Build groups anns by track and returns the resulting graph. title labels
// the graph when non-empty. The same input always yields the same graph.
func Build(anns []types.Annotation, title string) *Graph {
	b := &builder{
		g:       &Graph{Title: title},
		created: make(map[string]bool),
	}

	order, groups := groupByTrack(anns)
	for _, track := range order {
		b.addTrack(track, anns, groups[track])
	}

	b.addSecondaryObjects(anns)
	for _, m := range markers {
		b.addMarkers(m, anns)
	}
	return b.g
}

// groupByTrack returns track IDs in first-seen order and, for each track,
// the indexes of its annotations in original order.
func groupByTrack(anns []types.Annotation) ([]string, map[string][]int) {
	var order []string
	groups := make(map[string][]int)
	for i, a := range anns {
		if _, ok := groups[a.Track]; !ok {
			order = append(order, a.Track)
		}
		groups[a.Track] = append(groups[a.Track], i)
	}
	return order, groups
}

func (b *builder) addTrack(track string, anns []types.Annotation, idx []int) {
	anchor := -1
	for _, i := range idx {
		if isAnchor(anns[i].Category) {
			anchor = i
			break
		}
	}

	if anchor < 0 {
		for _, i := range idx {
			if _, ok := relationFor(anns[i].Category); ok {
				b.g.Dropped++
			}
		}
		return
	}

	anchorID := string(RoleObject) + "_" + track
	b.node(anchorID, anns[anchor].Text, RoleObject, objectStyle)

	for _, i := range idx {
		rel, ok := relationFor(anns[i].Category)
		if !ok {
			continue
		}
		id := b.nextID(rel.role, track, rel.withTrack)
		b.node(id, anns[i].Text, rel.role, rel.style)
		b.g.addEdge(Edge{From: anchorID, To: id, Label: rel.label, Color: rel.color})
	}
}

func (b *builder) addSecondaryObjects(anns []types.Annotation) {
	for _, a := range anns {
		if a.Category != CategorySecondary {
			continue
		}
		id := string(RoleSecondary) + "_" + a.Track
		if b.created[id] {
			continue
		}
		b.node(id, a.Text, RoleSecondary, secondaryStyle)
	}
}

func (b *builder) addMarkers(m marker, anns []types.Annotation) {
	headed := false
	for _, a := range anns {
		if !m.match(a.Category) {
			continue
		}
		if !headed {
			b.g.addComment(m.heading)
			headed = true
		}
		label := a.Text
		if m.withCategory {
			label = a.Category + ": " + a.Text
		}
		b.node(b.nextID(m.role, "", false), label, m.role, m.style)
	}
}

// nextID derives a node ID from the role, optionally the track, and the
// number of nodes created so far.
func (b *builder) nextID(role Role, track string, withTrack bool) string {
	if withTrack {
		return fmt.Sprintf("%s_%s_%d", role, track, len(b.created))
	}
	return fmt.Sprintf("%s_%d", role, len(b.created))
}

func (b *builder) node(id, label string, role Role, style Style) {
	b.created[id] = true
	b.g.addNode(Node{ID: id, Label: label, Role: role, Style: style})
}

// DOT renders the graph as a GraphViz digraph.
func (g *Graph) DOT() string {
	var sb strings.Builder
	sb.WriteString("digraph CogAnnot {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n")
	sb.WriteString("  graph [fontname=\"Arial\", nodesep=0.5, ranksep=0.8];\n")
	sb.WriteString("  node [fontname=\"Arial\"];\n")
	sb.WriteString("  edge [fontname=\"Arial\"];\n")
	sb.WriteString("\n")

	if g.Title != "" {
		fmt.Fprintf(&sb, "  label=%s;\n", quote(g.Title))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  fontsize=16;\n")
		sb.WriteString("\n")
	}

	for _, s := range g.stmts {
		switch s.kind {
		case stmtNode:
			writeNode(&sb, g.Nodes[s.index])
		case stmtEdge:
			writeEdge(&sb, g.Edges[s.index])
		case stmtComment:
			fmt.Fprintf(&sb, "\n  // %s\n", s.comment)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node) {
	fmt.Fprintf(sb, "  %s [label=%s, fillcolor=%s, style=%s",
		quote(n.ID), quote(n.Label), quote(n.Style.Fill), quote(n.Style.Flags))
	if n.Style.Shape != "" {
		fmt.Fprintf(sb, ", shape=%s", n.Style.Shape)
	}
	sb.WriteString("];\n")
}

func writeEdge(sb *strings.Builder, e Edge) {
	fmt.Fprintf(sb, "  %s -> %s [label=%s, color=%s];\n",
		quote(e.From), quote(e.To), quote(e.Label), quote(e.Color))
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote returns s as a DOT double-quoted string. Invalid UTF-8 becomes
// U+FFFD so the output is always valid UTF-8.
func quote(s string) string {
	return `"` + dotEscaper.Replace(strings.ToValidUTF8(s, "\uFFFD")) + `"`
}
