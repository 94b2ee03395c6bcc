package service

import (
	"context"

	"semrush-explorer/pkg/api"
)

// KeywordService covers the keyword research reports
type KeywordService interface {
	PhraseQuestions(ctx context.Context, keyword string, limit int) (*api.ResultTable, error)
	PhraseRelated(ctx context.Context, keyword string, limit int) (*api.ResultTable, error)
	PhraseFullSearch(ctx context.Context, keyword string, limit int) (*api.ResultTable, error)
	PhraseThese(ctx context.Context, keywords []string, limit int) (*api.ResultTable, error)
	PhraseKDI(ctx context.Context, keywords []string) (*api.ResultTable, error)
}

// DomainService covers the domain reports
type DomainService interface {
	DomainOrganic(ctx context.Context, domain string, limit int) (*api.ResultTable, error)
	DomainCompetitors(ctx context.Context, domain string, limit int) (*api.ResultTable, error)
	DomainOrganicUnique(ctx context.Context, domain string, limit int) (*api.ResultTable, error)
	Gap(ctx context.Context, main string, competitors []string, gap api.GapType, limit int) (*api.ResultTable, error)
}

// ReportService is everything the presentation layers call
type ReportService interface {
	KeywordService
	DomainService
	Reconfigure(settings api.Settings)
}

var _ ReportService = (*api.Explorer)(nil)
