package api

import (
	"errors"
	"fmt"
	"strings"
)

// GapType selects the set operation of a domain-vs-domain comparison
type GapType string

const (
	// GapMissing: keywords the competitors rank for and the main domain does not
	GapMissing GapType = "missing"
	// GapShared: keywords every domain ranks for
	GapShared GapType = "shared"
	// GapUnique: keywords only the main domain ranks for
	GapUnique GapType = "unique"
)

var (
	ErrNoCompetitors  = errors.New("gap analysis needs at least one competitor")
	ErrUnknownGapType = errors.New("unknown gap type")
)

// GapTypes lists the supported gap types in presentation order
func GapTypes() []GapType {
	return []GapType{GapMissing, GapShared, GapUnique}
}

// ParseGapType parses "missing", "shared" or "unique"
func ParseGapType(s string) (GapType, error) {
	switch GapType(strings.ToLower(strings.TrimSpace(s))) {
	case GapMissing:
		return GapMissing, nil
	case GapShared:
		return GapShared, nil
	case GapUnique:
		return GapUnique, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGapType, s)
}

// Description is the one-line explanation shown next to a gap type
func (g GapType) Description() string {
	switch g {
	case GapMissing:
		return "Keywords the competitors have and the main domain does not"
	case GapShared:
		return "Keywords every domain has"
	case GapUnique:
		return "Keywords only the main domain has"
	}
	return ""
}

// BuildGapDomains encodes the comparison as the pipe-delimited "domains"
// expression of the domain_domains report. Each segment is
// "<op>|or|<domain>" with op '*' (seed/intersect), '+' (union) or '-'
// (subtract). Competitor order is kept, and competitors[0] always seeds
// the union for GapMissing.
func BuildGapDomains(main string, competitors []string, gap GapType) (string, error) {
	var segments []string

	switch gap {
	case GapMissing:
		if len(competitors) == 0 {
			return "", ErrNoCompetitors
		}
		segments = append(segments, gapSegment("*", competitors[0]))
		for _, c := range competitors[1:] {
			segments = append(segments, gapSegment("+", c))
		}
		segments = append(segments, gapSegment("-", main))
	case GapShared:
		segments = append(segments, gapSegment("*", main))
		for _, c := range competitors {
			segments = append(segments, gapSegment("*", c))
		}
	case GapUnique:
		segments = append(segments, gapSegment("*", main))
		for _, c := range competitors {
			segments = append(segments, gapSegment("-", c))
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGapType, string(gap))
	}

	return strings.Join(segments, "|"), nil
}

func gapSegment(op, domain string) string {
	return op + "|or|" + domain
}
