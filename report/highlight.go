package report

// Style is the presentation tag a highlight rule assigns to a cell.
type Style string

const (
	StyleNone Style = ""
	StyleBad  Style = "bad"
	StyleWarn Style = "warn"
	StyleNote Style = "note"
)

// HighlightRule maps (column, cell value, row context) to at most one style.
// Rules must be pure; they are evaluated in declared order and the first
// match wins.
type HighlightRule struct {
	Name  string
	Apply func(column, value string, row Row) Style
}

// CellStyles evaluates the section's rules for one row and returns a style
// per cell, aligned with the section's columns.
func (s *Section) CellStyles(row Row) []Style {
	styles := make([]Style, len(row))
	if len(s.Highlights) == 0 {
		return styles
	}

	for i, value := range row {
		column := ""
		if i < len(s.Columns) {
			column = s.Columns[i]
		}
		for _, rule := range s.Highlights {
			if style := rule.Apply(column, value, row); style != StyleNone {
				styles[i] = style
				break
			}
		}
	}
	return styles
}

// columnEquals builds a rule matching an exact value in one column.
func columnEquals(name, column, value string, style Style) HighlightRule {
	return HighlightRule{
		Name: name,
		Apply: func(col, val string, _ Row) Style {
			if col == column && val == value {
				return style
			}
			return StyleNone
		},
	}
}

// AccountHighlights is the stock rule set for account tables. Order matters:
// the first matching rule styles the cell.
func AccountHighlights() []HighlightRule {
	return []HighlightRule{
		columnEquals("disabled-account", "Enabled", "false", StyleWarn),
		columnEquals("locked-account", "Locked", "true", StyleBad),
		columnEquals("password-never-expires", "Password Never Expires", "true", StyleBad),
		columnEquals("password-not-required", "Password Not Required", "true", StyleBad),
		columnEquals("stale-account", "Stale", "true", StyleWarn),
		columnEquals("privileged-account", "Privileged", "true", StyleNote),
	}
}
