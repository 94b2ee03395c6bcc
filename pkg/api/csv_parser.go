package api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const cellSeparator = ";"

// ParseTable converts a ';'-delimited SEMRush body into a ResultTable.
// The first line is the header; blank lines are skipped and rows whose
// cell count differs from the header are dropped. Quoting is not handled.
func ParseTable(raw string) *ResultTable {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return EmptyTable()
	}

	header := strings.Split(strings.TrimSuffix(lines[0], "\r"), cellSeparator)
	table := &ResultTable{
		Columns: header,
		Rows:    make([][]string, 0, len(lines)-1),
	}

	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := strings.Split(line, cellSeparator)
		if len(cells) != len(header) {
			continue
		}
		table.Rows = append(table.Rows, cells)
	}

	return table
}

// APIError is the provider's in-band error body, e.g. "ERROR 50 :: NOTHING FOUND"
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("semrush error %d: %s", e.Code, e.Message)
}

var apiErrorPattern = regexp.MustCompile(`^ERROR\s+(\d+)\s*::\s*(.*)$`)

// ParseAPIError recognizes an error body. SEMRush answers some failures
// (no data, bad key) with such a body instead of a table.
func ParseAPIError(raw string) (*APIError, bool) {
	m := apiErrorPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil, false
	}

	code, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}
	return &APIError{Code: code, Message: strings.TrimSpace(m[2])}, true
}

// decodeBody returns the body as UTF-8 text. A UTF-8 BOM is removed and
// bodies that are not valid UTF-8 are read as ISO-8859-1.
func decodeBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	if utf8.Valid(body) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), body)
		if err != nil {
			return string(body)
		}
		return string(decoded)
	}

	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
