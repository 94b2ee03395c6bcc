package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxKeywords is how many keywords a single phrase_these / phrase_kdi
// call accepts. Longer lists are truncated silently.
const MaxKeywords = 100

var (
	ErrUnknownReport = errors.New("unknown report type")
	ErrEmptyInput    = errors.New("empty report input")
)

// Scope carries the per-call values every request needs
type Scope struct {
	Database string
	Key      string
}

// ReportSpec describes the fixed parameters of one report type
type ReportSpec struct {
	Type    ReportType
	Title   string
	Columns []string
	Sort    string
	Limited bool
}

var reportSpecs = map[ReportType]ReportSpec{
	ReportPhraseQuestions: {
		Type: ReportPhraseQuestions, Title: "Questions",
		Columns: []string{"Ph", "Nq", "Kd"}, Limited: true,
	},
	ReportPhraseRelated: {
		Type: ReportPhraseRelated, Title: "Related keywords",
		Columns: []string{"Ph", "Nq", "Kd"}, Limited: true,
	},
	ReportPhraseFullSearch: {
		Type: ReportPhraseFullSearch, Title: "Broad match",
		Columns: []string{"Ph", "Nq", "Kd"}, Limited: true,
	},
	ReportPhraseThese: {
		Type: ReportPhraseThese, Title: "Batch volume",
		Columns: []string{"Ph", "Nq", "Kd"}, Limited: true,
	},
	ReportPhraseKDI: {
		Type: ReportPhraseKDI, Title: "Keyword difficulty",
		Columns: []string{"Ph", "Kd"},
	},
	ReportDomainOrganic: {
		Type: ReportDomainOrganic, Title: "Organic keywords",
		Columns: []string{"Ph", "Po", "Nq", "Kd", "Ur", "Tr"}, Sort: "nq_desc", Limited: true,
	},
	ReportDomainCompetitors: {
		Type: ReportDomainCompetitors, Title: "Organic competitors",
		Columns: []string{"Dn", "Cr", "Np", "Or", "Ot", "Oc"}, Limited: true,
	},
	ReportDomainOrganicUnique: {
		Type: ReportDomainOrganicUnique, Title: "Top pages",
		Columns: []string{"Ur", "Pc", "Tg", "Tr"}, Sort: "tr_desc", Limited: true,
	},
	ReportDomainDomains: {
		Type: ReportDomainDomains, Title: "Gap analysis",
		Columns: []string{"Ph", "Nq", "Kd"}, Sort: "nq_desc", Limited: true,
	},
}

// Spec returns the fixed parameters of a report type
func Spec(report ReportType) (ReportSpec, error) {
	spec, ok := reportSpecs[report]
	if !ok {
		return ReportSpec{}, fmt.Errorf("%w: %q", ErrUnknownReport, string(report))
	}
	return spec, nil
}

func buildRequest(report ReportType, scope Scope, limit int, input map[string]string) QueryRequest {
	spec := reportSpecs[report]

	params := map[string]string{
		"type":           string(spec.Type),
		"database":       scope.Database,
		"export_columns": strings.Join(spec.Columns, ","),
		"key":            scope.Key,
	}
	for k, v := range input {
		params[k] = v
	}
	if spec.Limited && limit > 0 {
		params["display_limit"] = strconv.Itoa(limit)
	}
	if spec.Sort != "" {
		params["display_sort"] = spec.Sort
	}

	return newQueryRequest(params)
}

// JoinKeywords joins at most MaxKeywords keywords with ';'
func JoinKeywords(keywords []string) string {
	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	return strings.Join(keywords, ";")
}

// PhraseQuestions builds a phrase_questions request
func PhraseQuestions(scope Scope, keyword string, limit int) QueryRequest {
	return buildRequest(ReportPhraseQuestions, scope, limit, map[string]string{"phrase": keyword})
}

// PhraseRelated builds a phrase_related request
func PhraseRelated(scope Scope, keyword string, limit int) QueryRequest {
	return buildRequest(ReportPhraseRelated, scope, limit, map[string]string{"phrase": keyword})
}

// PhraseFullSearch builds a phrase_fullsearch (broad match) request
func PhraseFullSearch(scope Scope, keyword string, limit int) QueryRequest {
	return buildRequest(ReportPhraseFullSearch, scope, limit, map[string]string{"phrase": keyword})
}

// PhraseThese builds a batch volume request for up to MaxKeywords keywords
func PhraseThese(scope Scope, keywords []string, limit int) QueryRequest {
	return buildRequest(ReportPhraseThese, scope, limit, map[string]string{"phrase": JoinKeywords(keywords)})
}

// PhraseKDI builds a keyword difficulty request for up to MaxKeywords keywords
func PhraseKDI(scope Scope, keywords []string) QueryRequest {
	return buildRequest(ReportPhraseKDI, scope, 0, map[string]string{"phrase": JoinKeywords(keywords)})
}

// DomainOrganic builds a domain_organic request, sorted by volume
func DomainOrganic(scope Scope, domain string, limit int) QueryRequest {
	return buildRequest(ReportDomainOrganic, scope, limit, map[string]string{"domain": domain})
}

// DomainCompetitors builds a domain_organic_organic request
func DomainCompetitors(scope Scope, domain string, limit int) QueryRequest {
	return buildRequest(ReportDomainCompetitors, scope, limit, map[string]string{"domain": domain})
}

// DomainOrganicUnique builds a top pages request, sorted by traffic
func DomainOrganicUnique(scope Scope, domain string, limit int) QueryRequest {
	return buildRequest(ReportDomainOrganicUnique, scope, limit, map[string]string{"domain": domain})
}

// Gap builds a domain_domains request comparing main against competitors
func Gap(scope Scope, main string, competitors []string, gap GapType, limit int) (QueryRequest, error) {
	domains, err := BuildGapDomains(main, competitors, gap)
	if err != nil {
		return QueryRequest{}, err
	}
	return buildRequest(ReportDomainDomains, scope, limit, map[string]string{"domains": domains}), nil
}

// SplitLines turns one-item-per-line operator input into a list of
// trimmed, NFC-normalized, non-empty entries
func SplitLines(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		item := strings.TrimSpace(norm.NFC.String(line))
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
