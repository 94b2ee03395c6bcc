package api

import (
	"context"
	"net/url"
	"sort"
)

// ReportType is the SEMRush report tag sent as the "type" parameter
type ReportType string

const (
	ReportPhraseQuestions     ReportType = "phrase_questions"
	ReportPhraseRelated       ReportType = "phrase_related"
	ReportPhraseFullSearch    ReportType = "phrase_fullsearch"
	ReportPhraseThese         ReportType = "phrase_these"
	ReportPhraseKDI           ReportType = "phrase_kdi"
	ReportDomainOrganic       ReportType = "domain_organic"
	ReportDomainCompetitors   ReportType = "domain_organic_organic"
	ReportDomainOrganicUnique ReportType = "domain_organic_unique"
	ReportDomainDomains       ReportType = "domain_domains"
)

// QueryRequest is an immutable set of query parameters for one API call
type QueryRequest struct {
	params map[string]string
}

func newQueryRequest(params map[string]string) QueryRequest {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return QueryRequest{params: copied}
}

// Get returns the value of a parameter, or "" when it is not set
func (q QueryRequest) Get(name string) string {
	return q.params[name]
}

// Has reports whether the parameter is set
func (q QueryRequest) Has(name string) bool {
	_, ok := q.params[name]
	return ok
}

// Type returns the report tag of the request
func (q QueryRequest) Type() ReportType {
	return ReportType(q.params["type"])
}

// Params returns a copy of all parameters
func (q QueryRequest) Params() map[string]string {
	copied := make(map[string]string, len(q.params))
	for k, v := range q.params {
		copied[k] = v
	}
	return copied
}

// Names returns the parameter names in sorted order
func (q QueryRequest) Names() []string {
	names := make([]string, 0, len(q.params))
	for k := range q.params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Encode returns the URL-encoded query string, sorted by parameter name
func (q QueryRequest) Encode() string {
	values := make(url.Values, len(q.params))
	for k, v := range q.params {
		values.Set(k, v)
	}
	return values.Encode()
}

// RawResponse is the status and body of one API call, kept only until parsed
type RawResponse struct {
	StatusCode int
	Body       string
}

// Success reports whether the provider answered with HTTP 200
func (r *RawResponse) Success() bool {
	return r != nil && r.StatusCode == 200
}

// ResultTable holds a header and rows of string cells aligned to it
type ResultTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// EmptyTable returns a table with no columns and no rows
func EmptyTable() *ResultTable {
	return &ResultTable{Columns: []string{}, Rows: [][]string{}}
}

// IsEmpty reports whether the table has no data rows
func (t *ResultTable) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

// Len returns the number of data rows
func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of a named column, or -1
func (t *ResultTable) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Records returns the rows keyed by column name
func (t *ResultTable) Records() []map[string]string {
	if t.IsEmpty() {
		return []map[string]string{}
	}
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make(map[string]string, len(t.Columns))
		for i, c := range t.Columns {
			record[c] = row[i]
		}
		records = append(records, record)
	}
	return records
}

// Client issues a single GET against the SEMRush endpoint
type Client interface {
	Call(ctx context.Context, req QueryRequest) (*RawResponse, error)
}
