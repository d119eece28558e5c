package report

import (
	"strings"
	"testing"

	"f0oster/adreport/activedirectory"
	"f0oster/adreport/activedirectory/dntree"
)

func diagramTree(t *testing.T) *dntree.TreeNode {
	t.Helper()
	root, warnings := dntree.NewBuilder().Build([]*activedirectory.DirectoryRecord{
		{DN: "CN=x,OU=Users,DC=corp,DC=example,DC=com"},
		{DN: "CN=x,OU=Workstations,DC=corp,DC=example,DC=com"},
	})
	if len(warnings) != 0 {
		t.Fatalf("tree build warnings: %v", warnings)
	}
	return root
}

func TestDiagramFromTree(t *testing.T) {
	d := DiagramFromTree("corp forest", diagramTree(t))

	// synthetic root + domain + two OUs
	if len(d.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(d.Nodes))
	}
	if len(d.Edges) != 3 {
		t.Fatalf("got %d edges, want 3", len(d.Edges))
	}
	if d.Nodes[0].Label != "corp forest" {
		t.Errorf("root label = %q, want the diagram title", d.Nodes[0].Label)
	}
	for _, e := range d.Edges {
		if e.From == "" || e.To == "" {
			t.Errorf("edge %+v references an unknown node", e)
		}
	}
}

func TestDiagramAddEdgeCreatesEndpoints(t *testing.T) {
	d := DiagramFromTree("corp forest", diagramTree(t))
	before := len(d.Nodes)

	d.AddEdge("corp.example.com", "partner.example.net", "trust")

	if len(d.Nodes) != before+1 {
		t.Errorf("got %d nodes, want one new node for the unknown endpoint", len(d.Nodes))
	}
	edge := d.Edges[len(d.Edges)-1]
	if edge.Label != "trust" {
		t.Errorf("edge label = %q, want trust", edge.Label)
	}
}

func TestDiagramMermaid(t *testing.T) {
	d := DiagramFromTree("corp forest", diagramTree(t))
	d.AddEdge("corp.example.com", "partner.example.net", "trust")

	out := d.Mermaid()
	if !strings.HasPrefix(out, "flowchart TD\n") {
		t.Error("mermaid output missing flowchart header")
	}
	if !strings.Contains(out, `["corp.example.com"]`) {
		t.Error("mermaid output missing domain node")
	}
	if !strings.Contains(out, "-->|trust|") {
		t.Error("mermaid output missing labeled trust edge")
	}
}
