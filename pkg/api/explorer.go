package api

import (
	"context"
	"sync"

	"semrush-explorer/pkg/logger"
)

// Explorer runs the report types against the API and returns parsed tables.
// A transport failure is returned as an error; a non-200 answer or an
// unparseable body yields an empty table.
type Explorer struct {
	mu        sync.RWMutex
	settings  Settings
	client    Client
	newClient func(Settings) Client
	log       *logger.SecurityLogger
}

// NewExplorer creates an explorer backed by a fasthttp client
func NewExplorer(settings Settings, opts ...ClientOption) *Explorer {
	return NewExplorerWithFactory(settings, func(s Settings) Client {
		return NewHTTPAPIClient(s, opts...)
	})
}

// NewExplorerWithFactory creates an explorer whose client is built by factory,
// again every time Reconfigure changes the transport settings
func NewExplorerWithFactory(settings Settings, factory func(Settings) Client) *Explorer {
	return &Explorer{
		settings:  settings,
		client:    factory(settings),
		newClient: factory,
		log:       logger.NewSecurityLogger(logger.GetLogger().Component("explorer")),
	}
}

// Settings returns the current settings
func (e *Explorer) Settings() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// Reconfigure swaps the settings used by subsequent calls
func (e *Explorer) Reconfigure(settings Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.settings.sameTransport(settings) {
		e.client = e.newClient(settings)
	}
	e.settings = settings

	e.log.SafeInfo("Explorer reconfigured", map[string]interface{}{
		"database":           settings.Database,
		"api_key":            settings.APIKey,
		"disable_tls_verify": settings.DisableTLSVerify,
	})
}

func (e *Explorer) snapshot() (Scope, Client) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings.Scope(), e.client
}

// Fetch performs one call and parses the result
func (e *Explorer) Fetch(ctx context.Context, query QueryRequest) (*ResultTable, error) {
	_, client := e.snapshot()
	return e.fetch(ctx, client, query)
}

func (e *Explorer) fetch(ctx context.Context, client Client, query QueryRequest) (*ResultTable, error) {
	resp, err := client.Call(ctx, query)
	if err != nil {
		return nil, err
	}

	if !resp.Success() {
		e.log.SafeWarn("API returned non-success status", map[string]interface{}{
			"report":      string(query.Type()),
			"status_code": resp.StatusCode,
			"body":        truncate(resp.Body, 200),
		})
		return EmptyTable(), nil
	}

	if apiErr, ok := ParseAPIError(resp.Body); ok {
		e.log.SafeWarn("API returned an error body", map[string]interface{}{
			"report":        string(query.Type()),
			"error_code":    apiErr.Code,
			"error_message": apiErr.Message,
		})
		return EmptyTable(), nil
	}

	table := ParseTable(resp.Body)
	e.log.SafeDebug("Parsed API response", map[string]interface{}{
		"report":  string(query.Type()),
		"columns": len(table.Columns),
		"rows":    table.Len(),
	})
	return table, nil
}

// PhraseQuestions returns question-form keywords containing keyword
func (e *Explorer) PhraseQuestions(ctx context.Context, keyword string, limit int) (*ResultTable, error) {
	scope, client := e.snapshot()
	return e.fetch(ctx, client, PhraseQuestions(scope, keyword, limit))
}

// PhraseRelated returns keywords related to keyword
func (e *Explorer) PhraseRelated(ctx context.Context, keyword string, limit int) (*ResultTable, error) {
	scope, client := e.snapshot()
	return e.fetch(ctx, client, PhraseRelated(scope, keyword, limit))
}

// PhraseFullSearch returns broad-match variations of keyword
func (e *Explorer) PhraseFullSearch(ctx context.Context, keyword string, limit int) (*ResultTable, error) {
	scope, client := e.snapshot()
	return e.fetch(ctx, client, PhraseFullSearch(scope, keyword, limit))
}

// PhraseThese returns volume and difficulty for up to MaxKeywords keywords
func (e *Explorer) PhraseThese(ctx context.Context, keywords []string, limit int) (*ResultTable, error) {
	if len(keywords) == 0 {
		return nil, ErrEmptyInput
	}
	scope, client := e.snapshot()
	return e.fetch(ctx, client, PhraseThese(scope, keywords, limit))
}

// PhraseKDI returns the difficulty index for up to MaxKeywords keywords
func (e *Explorer) PhraseKDI(ctx context.Context, keywords []string) (*ResultTable, error) {
	if len(keywords) == 0 {
		return nil, ErrEmptyInput
	}
	scope, client := e.snapshot()
	return e.fetch(ctx, client, PhraseKDI(scope, keywords))
}

// DomainOrganic returns the organic keywords of domain
func (e *Explorer) DomainOrganic(ctx context.Context, domain string, limit int) (*ResultTable, error) {
	scope, client := e.snapshot()
	return e.fetch(ctx, client, DomainOrganic(scope, domain, limit))
}

// DomainCompetitors returns the organic competitors of domain
func (e *Explorer) DomainCompetitors(ctx context.Context, domain string, limit int) (*ResultTable, error) {
	scope, client := e.snapshot()
	return e.fetch(ctx, client, DomainCompetitors(scope, domain, limit))
}

// DomainOrganicUnique returns the top pages of domain
func (e *Explorer) DomainOrganicUnique(ctx context.Context, domain string, limit int) (*ResultTable, error) {
	scope, client := e.snapshot()
	return e.fetch(ctx, client, DomainOrganicUnique(scope, domain, limit))
}

// Gap compares the keyword sets of main and competitors
func (e *Explorer) Gap(ctx context.Context, main string, competitors []string, gap GapType, limit int) (*ResultTable, error) {
	scope, client := e.snapshot()
	query, err := Gap(scope, main, competitors, gap, limit)
	if err != nil {
		return nil, err
	}
	return e.fetch(ctx, client, query)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
