package pipeline

import (
	"context"
	"testing"

	"f0oster/adreport/activedirectory"
	"f0oster/adreport/report"
)

func forestRecords() []*activedirectory.DirectoryRecord {
	return []*activedirectory.DirectoryRecord{
		{
			DN:         "DC=corp,DC=example,DC=com",
			Class:      activedirectory.ClassDomain,
			Attributes: map[string][]string{"name": {"corp"}, "whenCreated": {"20150301120000.0Z"}},
		},
		{
			DN:    "OU=Users,DC=corp,DC=example,DC=com",
			Class: activedirectory.ClassOrganizationalUnit,
		},
		{
			DN:         "CN=Default-First-Site-Name,CN=Sites,CN=Configuration,DC=corp,DC=example,DC=com",
			Class:      activedirectory.ClassSite,
			Attributes: map[string][]string{"name": {"Default-First-Site-Name"}},
		},
		{
			DN:    "CN=partner.example.net,CN=System,DC=corp,DC=example,DC=com",
			Class: activedirectory.ClassTrust,
			Attributes: map[string][]string{
				"trustPartner":   {"partner.example.net"},
				"trustDirection": {"3"},
				"trustType":      {"2"},
			},
		},
	}
}

func sectionByTitle(t *testing.T, doc *report.Document, title string) report.Section {
	t.Helper()
	for _, s := range doc.Sections {
		if s.Title == title {
			return s
		}
	}
	t.Fatalf("document has no %q section", title)
	return report.Section{}
}

func TestForestPipeline(t *testing.T) {
	result, err := Forest(context.Background(), "forest_corp", forestRecords())
	if err != nil {
		t.Fatalf("Forest returned error: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if result.Document.Prefix != "forest_corp" {
		t.Errorf("Prefix = %q, want forest_corp", result.Document.Prefix)
	}

	domains := sectionByTitle(t, result.Document, "Domains")
	if len(domains.Rows) != 1 || domains.Rows[0][0] != "corp" {
		t.Errorf("Domains rows = %v, want the corp domain", domains.Rows)
	}

	trusts := sectionByTitle(t, result.Document, "Trusts")
	if len(trusts.Rows) != 1 {
		t.Fatalf("Trusts rows = %v, want one row", trusts.Rows)
	}
	if got := trusts.Rows[0]; got[0] != "partner.example.net" || got[1] != "bidirectional" || got[2] != "uplevel" {
		t.Errorf("trust row = %v, want decoded direction and type", got)
	}

	if result.Tree == nil {
		t.Fatal("result carries no tree")
	}
	if _, ok := result.Tree.Child("corp.example.com"); !ok {
		t.Error("tree is missing the domain root")
	}
}

func TestForestPipelineDiagramCarriesTopology(t *testing.T) {
	result, err := Forest(context.Background(), "forest_corp", forestRecords())
	if err != nil {
		t.Fatalf("Forest returned error: %v", err)
	}
	if result.Diagram == nil {
		t.Fatal("result carries no diagram")
	}

	labels := map[string]string{}
	for _, n := range result.Diagram.Nodes {
		labels[n.Label] = n.ID
	}
	for _, want := range []string{"corp.example.com", "Default-First-Site-Name", "partner.example.net"} {
		if _, ok := labels[want]; !ok {
			t.Errorf("diagram missing node %q", want)
		}
	}

	var trustEdge, siteEdge bool
	for _, e := range result.Diagram.Edges {
		if e.Label == "bidirectional" && e.From == labels["corp.example.com"] && e.To == labels["partner.example.net"] {
			trustEdge = true
		}
		if e.Label == "site" && e.To == labels["Default-First-Site-Name"] {
			siteEdge = true
		}
	}
	if !trustEdge {
		t.Error("diagram missing the trust edge from the trusting domain to its partner")
	}
	if !siteEdge {
		t.Error("diagram missing the site edge")
	}
}

func TestForestPipelineReportsMalformedRecords(t *testing.T) {
	records := append(forestRecords(), &activedirectory.DirectoryRecord{DN: "not-a-dn"})

	result, err := Forest(context.Background(), "forest_corp", records)
	if err != nil {
		t.Fatalf("Forest returned error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want the malformed record reported", len(result.Warnings))
	}

	summary := sectionByTitle(t, result.Document, "Run Warnings")
	if len(summary.Rows) != 1 {
		t.Errorf("Run Warnings rows = %v, want the warning listed", summary.Rows)
	}
}

func TestForestPipelineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Forest(ctx, "forest_corp", forestRecords()); err == nil {
		t.Error("Forest ignored a cancelled context")
	}
}

func TestTrustDecodersPassUnknownValuesThrough(t *testing.T) {
	if got := trustDirection("9"); got != "9" {
		t.Errorf("trustDirection(9) = %q, want raw passthrough", got)
	}
	if got := trustType(""); got != "" {
		t.Errorf("trustType empty = %q, want empty", got)
	}
}
