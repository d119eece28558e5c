package report

import (
	"fmt"
	"strings"

	"f0oster/adreport/activedirectory/dntree"
)

// DiagramNode and DiagramEdge form the node/edge list handed to external
// graph-rendering tools. The list is derived purely from the tree builder's
// output; no additional directory queries happen here.
type DiagramNode struct {
	ID    string
	Label string
}

type DiagramEdge struct {
	From  string
	To    string
	Label string
}

type Diagram struct {
	Title string
	Nodes []DiagramNode
	Edges []DiagramEdge
}

// DiagramFromTree flattens the container hierarchy into a node/edge list.
func DiagramFromTree(title string, root *dntree.TreeNode) *Diagram {
	d := &Diagram{Title: title}
	ids := map[*dntree.TreeNode]string{}
	next := 0

	root.Walk(func(node *dntree.TreeNode, depth int) {
		id := fmt.Sprintf("n%d", next)
		next++
		ids[node] = id

		label := node.Name
		if label == "" {
			label = title
		}
		d.Nodes = append(d.Nodes, DiagramNode{ID: id, Label: label})

		if node.Parent != nil {
			d.Edges = append(d.Edges, DiagramEdge{From: ids[node.Parent], To: id})
		}
	})
	return d
}

// AddEdge records an extra topology edge (trusts, site links) between labeled
// nodes, creating the endpoints when the tree did not produce them.
func (d *Diagram) AddEdge(fromLabel, toLabel, label string) {
	from := d.ensureNode(fromLabel)
	to := d.ensureNode(toLabel)
	d.Edges = append(d.Edges, DiagramEdge{From: from, To: to, Label: label})
}

func (d *Diagram) ensureNode(label string) string {
	for _, n := range d.Nodes {
		if n.Label == label {
			return n.ID
		}
	}
	id := fmt.Sprintf("n%d", len(d.Nodes))
	d.Nodes = append(d.Nodes, DiagramNode{ID: id, Label: label})
	return id
}

// Mermaid renders the list as flowchart definition text.
func (d *Diagram) Mermaid() string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")
	for _, n := range d.Nodes {
		fmt.Fprintf(&b, "    %s[%q]\n", n.ID, n.Label)
	}
	for _, e := range d.Edges {
		if e.Label != "" {
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", e.From, e.Label, e.To)
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", e.From, e.To)
		}
	}
	return b.String()
}
