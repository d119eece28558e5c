package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// htmlDocument wraps all sections of a document into one inline-styled page.
const htmlDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Segoe UI", sans-serif; margin: 2em; color: #1c1c1c; }
h1 { border-bottom: 2px solid #2a5885; padding-bottom: 0.2em; }
h2 { color: #2a5885; margin-top: 1.6em; }
table { border-collapse: collapse; margin: 0.8em 0; }
th, td { border: 1px solid #c8c8c8; padding: 4px 10px; text-align: left; }
th { background: #2a5885; color: #fff; }
tr:nth-child(even) td { background: #f4f6f8; }
td.bad { background: #f8d0d0; }
td.warn { background: #fbeec2; }
td.note { background: #d4e4f4; }
.generated { color: #777; font-size: 0.85em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="generated">Generated {{.Generated}}</p>
{{range .Sections}}
<h2>{{.Title}}</h2>
<table>
{{if .HasHeader}}<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>{{end}}
{{range .Rows}}<tr>{{range .Cells}}<td{{if .Style}} class="{{.Style}}"{{end}}>{{.Value}}</td>{{end}}</tr>
{{end}}</table>
{{end}}
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Parse(htmlDocument))

type htmlCell struct {
	Value string
	Style Style
}

type htmlRow struct {
	Cells []htmlCell
}

type htmlSection struct {
	Title     string
	HasHeader bool
	Columns   []string
	Rows      []htmlRow
}

type htmlPage struct {
	Title     string
	Generated string
	Sections  []htmlSection
}

// RenderHTML emits the document as one self-contained HTML artifact. The
// document's sections are read, never modified, so the same document can be
// rendered to other formats afterwards.
func RenderHTML(doc *Document, generated time.Time) ([]byte, error) {
	page := htmlPage{
		Title:     doc.Prefix,
		Generated: generated.UTC().Format(time.RFC1123),
	}

	for _, section := range doc.Sections {
		hs := htmlSection{
			Title:     section.Title,
			HasHeader: section.Kind == Tabular,
			Columns:   section.Columns,
		}
		for _, row := range section.Rows {
			styles := section.CellStyles(row)
			cells := make([]htmlCell, len(row))
			for i, value := range row {
				cells[i] = htmlCell{Value: value, Style: styles[i]}
			}
			hs.Rows = append(hs.Rows, htmlRow{Cells: cells})
		}
		page.Sections = append(page.Sections, hs)
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
