package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"semrush-explorer/pkg/api"
)

// Format selects how a ResultTable is written
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// NoResults is printed instead of an empty table
const NoResults = "No results found."

// Formats lists the accepted output formats
func Formats() []Format {
	return []Format{FormatTable, FormatMarkdown, FormatCSV, FormatHTML, FormatJSON}
}

// ParseFormat parses a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// ContentType is the MIME type of a rendered format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Document is the JSON shape of a rendered table
type Document struct {
	Report  string     `json:"report,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Count   int        `json:"count"`
}

// NewDocument wraps a table for JSON output
func NewDocument(report string, t *api.ResultTable) Document {
	doc := Document{Report: report, Columns: []string{}, Rows: [][]string{}}
	if t == nil {
		return doc
	}
	if t.Columns != nil {
		doc.Columns = t.Columns
	}
	if t.Rows != nil {
		doc.Rows = t.Rows
	}
	doc.Count = len(doc.Rows)
	return doc
}

// Render writes t to w in the given format. Empty tables print NoResults
// except in JSON, which always writes a document.
func Render(w io.Writer, report string, t *api.ResultTable, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(report, t))
	}

	if t.IsEmpty() {
		_, err := fmt.Fprintln(w, NoResults)
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if report != "" && format == FormatTable {
		tw.SetTitle(report)
	}

	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		tw.AppendRow(row)
	}

	style := table.StyleRounded
	// SEMRush column names are shown as sent
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	switch format {
	case FormatMarkdown:
		tw.RenderMarkdown()
	case FormatCSV:
		tw.RenderCSV()
	case FormatHTML:
		tw.RenderHTML()
	default:
		tw.Render()
	}
	return nil
}
