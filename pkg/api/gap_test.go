package api

import (
	"errors"
	"testing"
)

func TestBuildGapDomains(t *testing.T) {
	tests := []struct {
		name        string
		gap         GapType
		competitors []string
		want        string
	}{
		{"missing", GapMissing, []string{"b.com", "c.com"}, "*|or|b.com|+|or|c.com|-|or|a.com"},
		{"missing single competitor", GapMissing, []string{"b.com"}, "*|or|b.com|-|or|a.com"},
		{"shared", GapShared, []string{"b.com"}, "*|or|a.com|*|or|b.com"},
		{"shared three", GapShared, []string{"b.com", "c.com"}, "*|or|a.com|*|or|b.com|*|or|c.com"},
		{"unique", GapUnique, []string{"b.com", "c.com"}, "*|or|a.com|-|or|b.com|-|or|c.com"},
		{"unique no competitors", GapUnique, nil, "*|or|a.com"},
		{"shared no competitors", GapShared, nil, "*|or|a.com"},
	}

	for _, test := range tests {
		got, err := BuildGapDomains("a.com", test.competitors, test.gap)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s: expected %q, got %q", test.name, test.want, got)
		}
	}
}

func TestBuildGapDomains_PreservesCompetitorOrder(t *testing.T) {
	got, err := BuildGapDomains("a.com", []string{"c.com", "b.com"}, GapMissing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "*|or|c.com|+|or|b.com|-|or|a.com"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBuildGapDomains_Errors(t *testing.T) {
	if _, err := BuildGapDomains("a.com", nil, GapMissing); !errors.Is(err, ErrNoCompetitors) {
		t.Errorf("Expected ErrNoCompetitors, got %v", err)
	}
	if _, err := BuildGapDomains("a.com", []string{"b.com"}, GapType("overlap")); !errors.Is(err, ErrUnknownGapType) {
		t.Errorf("Expected ErrUnknownGapType, got %v", err)
	}
}

func TestParseGapType(t *testing.T) {
	for _, s := range []string{"missing", "Shared", " unique "} {
		if _, err := ParseGapType(s); err != nil {
			t.Errorf("Expected %q to parse, got %v", s, err)
		}
	}
	if _, err := ParseGapType("all"); !errors.Is(err, ErrUnknownGapType) {
		t.Errorf("Expected ErrUnknownGapType, got %v", err)
	}
	for _, g := range GapTypes() {
		if g.Description() == "" {
			t.Errorf("Expected description for %s", g)
		}
	}
}
