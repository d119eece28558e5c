package report

import (
	"reflect"
	"testing"
)

func TestCellStylesFirstMatchWins(t *testing.T) {
	section := Section{
		Columns: []string{"Name", "State"},
		Highlights: []HighlightRule{
			columnEquals("first", "State", "down", StyleBad),
			columnEquals("second", "State", "down", StyleNote),
		},
	}

	styles := section.CellStyles(Row{"host-a", "down"})
	want := []Style{StyleNone, StyleBad}
	if !reflect.DeepEqual(styles, want) {
		t.Errorf("CellStyles = %v, want %v (declared order decides)", styles, want)
	}
}

func TestCellStylesDeterministic(t *testing.T) {
	section := Section{
		Columns:    []string{"Enabled", "Locked", "Password Never Expires", "Stale", "Privileged"},
		Highlights: AccountHighlights(),
	}
	row := Row{"false", "true", "true", "true", "true"}

	first := section.CellStyles(row)
	for i := 0; i < 10; i++ {
		if got := section.CellStyles(row); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %v vs %v", i, got, first)
		}
	}

	want := []Style{StyleWarn, StyleBad, StyleBad, StyleWarn, StyleNote}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("CellStyles = %v, want %v", first, want)
	}
}

func TestCellStylesWithoutRules(t *testing.T) {
	section := Section{Columns: []string{"A", "B"}}
	styles := section.CellStyles(Row{"x", "y"})
	if len(styles) != 2 || styles[0] != StyleNone || styles[1] != StyleNone {
		t.Errorf("CellStyles = %v, want all unstyled", styles)
	}
}

func TestAccountHighlightsIgnoreOtherColumns(t *testing.T) {
	section := Section{
		Columns:    []string{"Description", "Enabled"},
		Highlights: AccountHighlights(),
	}
	// "false" in a non-matching column must stay unstyled.
	styles := section.CellStyles(Row{"false", "true"})
	if styles[0] != StyleNone {
		t.Errorf("Description cell styled %q, want none", styles[0])
	}
}
