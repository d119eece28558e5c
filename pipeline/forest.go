// Package pipeline wires the transform stages into the forest- and
// domain-level report pipelines. Each pipeline owns its data end to end, so
// pipelines for different scopes can run as concurrent, non-interacting tasks.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"f0oster/adreport/activedirectory"
	"f0oster/adreport/activedirectory/dntree"
	"f0oster/adreport/report"
)

// ForestResult carries the forest pipeline's document, the reconstructed
// container tree, the topology diagram derived from it, and the non-fatal
// warnings raised on the way.
type ForestResult struct {
	Document *report.Document
	Tree     *dntree.TreeNode
	Diagram  *report.Diagram
	Warnings []error
}

// Forest builds the topology/discovery report from forest-wide records:
// container tree, domain list, sites and trusts.
func Forest(ctx context.Context, prefix string, records []*activedirectory.DirectoryRecord) (*ForestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, warnings := dntree.NewBuilder().Build(records)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := report.NewDocument(prefix)
	doc.Add(
		forestSummarySection(0, records, tree),
		domainsSection(1, records),
		sitesSection(2, records),
		trustsSection(3, records),
		containerSection(4, tree),
		report.SummarySection(5, warnings),
	)

	return &ForestResult{
		Document: doc,
		Tree:     tree,
		Diagram:  forestDiagram(prefix, tree, records),
		Warnings: warnings,
	}, nil
}

// forestDiagram layers the recorded site and trust topology over the
// container tree's node/edge list. Everything is derived from the fetched
// records; no further directory queries happen here.
func forestDiagram(title string, tree *dntree.TreeNode, records []*activedirectory.DirectoryRecord) *report.Diagram {
	d := report.DiagramFromTree(title, tree)

	for _, r := range recordsOfClass(records, activedirectory.ClassSite) {
		if name := firstValue(r, "name"); name != "" {
			d.AddEdge(title, name, "site")
		}
	}

	for _, r := range recordsOfClass(records, activedirectory.ClassTrust) {
		partner := firstValue(r, "trustPartner")
		if partner == "" {
			continue
		}
		// the trusting domain is the trust record's own naming context
		from := title
		if parsed, err := dntree.ParseDN(r.DN); err == nil && parsed.DomainRoot != "" {
			from = parsed.DomainRoot
		}
		d.AddEdge(from, partner, trustDirection(firstValue(r, "trustDirection")))
	}

	return d
}

func forestSummarySection(index int, records []*activedirectory.DirectoryRecord, tree *dntree.TreeNode) report.Section {
	counts := map[activedirectory.ObjectClass]int{}
	for _, r := range records {
		counts[r.Class]++
	}

	containers := 0
	tree.Walk(func(node *dntree.TreeNode, depth int) {
		if node.Segment != "" {
			containers++
		}
	})

	return report.Pivot("Forest Summary", index, [][2]string{
		{"Domains", fmt.Sprintf("%d", counts[activedirectory.ClassDomain])},
		{"Organizational Units", fmt.Sprintf("%d", counts[activedirectory.ClassOrganizationalUnit])},
		{"Containers", fmt.Sprintf("%d", containers)},
		{"Sites", fmt.Sprintf("%d", counts[activedirectory.ClassSite])},
		{"Trusts", fmt.Sprintf("%d", counts[activedirectory.ClassTrust])},
		{"Objects Inventoried", fmt.Sprintf("%d", len(records))},
	})
}

func domainsSection(index int, records []*activedirectory.DirectoryRecord) report.Section {
	section := report.Section{
		Title:   "Domains",
		Index:   index,
		Kind:    report.Tabular,
		Columns: []string{"Name", "Distinguished Name", "Created"},
	}
	for _, r := range recordsOfClass(records, activedirectory.ClassDomain) {
		name, _ := r.Get("name")
		created, _ := r.Get("whenCreated")
		section.Rows = append(section.Rows, report.Row{name, r.DN, created})
	}
	return section
}

func sitesSection(index int, records []*activedirectory.DirectoryRecord) report.Section {
	section := report.Section{
		Title:   "Sites",
		Index:   index,
		Kind:    report.Tabular,
		Columns: []string{"Name", "Description"},
	}
	for _, r := range recordsOfClass(records, activedirectory.ClassSite) {
		name, _ := r.Get("name")
		desc, _ := r.Get("description")
		section.Rows = append(section.Rows, report.Row{name, desc})
	}
	return section
}

func trustsSection(index int, records []*activedirectory.DirectoryRecord) report.Section {
	section := report.Section{
		Title:   "Trusts",
		Index:   index,
		Kind:    report.Tabular,
		Columns: []string{"Partner", "Direction", "Type"},
	}
	for _, r := range recordsOfClass(records, activedirectory.ClassTrust) {
		partner, _ := r.Get("trustPartner")
		section.Rows = append(section.Rows, report.Row{
			partner,
			trustDirection(firstValue(r, "trustDirection")),
			trustType(firstValue(r, "trustType")),
		})
	}
	return section
}

// containerSection flattens the tree into one row per container with its
// depth-indented path and attached object count.
func containerSection(index int, tree *dntree.TreeNode) report.Section {
	section := report.Section{
		Title:   "Organizational Units",
		Index:   index,
		Kind:    report.Tabular,
		Columns: []string{"Container", "Path", "Objects"},
	}
	tree.Walk(func(node *dntree.TreeNode, depth int) {
		if node.Segment == "" {
			return
		}
		section.Rows = append(section.Rows, report.Row{
			strings.Repeat("  ", depth-1) + node.Name,
			strings.Join(node.Path(), ","),
			fmt.Sprintf("%d", len(node.Records)),
		})
	})
	return section
}

func recordsOfClass(records []*activedirectory.DirectoryRecord, class activedirectory.ObjectClass) []*activedirectory.DirectoryRecord {
	var out []*activedirectory.DirectoryRecord
	for _, r := range records {
		if r.Class == class {
			out = append(out, r)
		}
	}
	return out
}

func firstValue(r *activedirectory.DirectoryRecord, name string) string {
	v, _ := r.Get(name)
	return v
}

// https://learn.microsoft.com/en-us/windows/win32/adschema/a-trustdirection
func trustDirection(raw string) string {
	switch raw {
	case "1":
		return "inbound"
	case "2":
		return "outbound"
	case "3":
		return "bidirectional"
	case "0":
		return "disabled"
	}
	return raw
}

// https://learn.microsoft.com/en-us/windows/win32/adschema/a-trusttype
func trustType(raw string) string {
	switch raw {
	case "1":
		return "downlevel"
	case "2":
		return "uplevel"
	case "3":
		return "realm"
	case "4":
		return "dce"
	}
	return raw
}
