package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/etherlabsio/healthcheck/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"semrush-explorer/internal/config"
	"semrush-explorer/internal/render"
	"semrush-explorer/internal/service"
	"semrush-explorer/pkg/api"
	"semrush-explorer/pkg/logger"
)

const (
	DefaultLimit = 5
	MaxLimit     = 20
)

// Controller serves the report endpoints of the web front-end
type Controller struct {
	reports service.ReportService
	config  config.Manager
	log     *logger.SecurityLogger
}

func NewController(reports service.ReportService, cfg config.Manager) *Controller {
	return &Controller{
		reports: reports,
		config:  cfg,
		log:     logger.NewSecurityLogger(logger.GetLogger().Component("http")),
	}
}

// NewApp builds the fiber app with middleware and all routes registered
func NewApp(c *Controller) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "semrush-explorer",
		DisableStartupMessage: true,
		ErrorHandler:          c.errorHandler,
		// API calls block for up to the client timeout
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	app.Use(recover.New())
	app.Use(c.requestLogger)
	c.Register(app)
	return app
}

// Register mounts the routes on app
func (c *Controller) Register(app *fiber.App) {
	app.Get("/healthz", adaptor.HTTPHandler(c.healthcheck()))

	apiGroup := app.Group("/api")

	phrase := apiGroup.Group("/phrase")
	phrase.Get("/questions", c.keywordReport(api.ReportPhraseQuestions, c.reports.PhraseQuestions))
	phrase.Get("/related", c.keywordReport(api.ReportPhraseRelated, c.reports.PhraseRelated))
	phrase.Get("/broad", c.keywordReport(api.ReportPhraseFullSearch, c.reports.PhraseFullSearch))
	phrase.Post("/batch", c.Batch)
	phrase.Post("/difficulty", c.Difficulty)

	domain := apiGroup.Group("/domain")
	domain.Get("/organic", c.domainReport(api.ReportDomainOrganic, c.reports.DomainOrganic))
	domain.Get("/competitors", c.domainReport(api.ReportDomainCompetitors, c.reports.DomainCompetitors))
	domain.Get("/pages", c.domainReport(api.ReportDomainOrganicUnique, c.reports.DomainOrganicUnique))

	apiGroup.Get("/gap", c.Gap)
	apiGroup.Get("/settings", c.GetSettings)
	apiGroup.Put("/settings", c.UpdateSettings)
}

type keywordFunc func(ctx context.Context, keyword string, limit int) (*api.ResultTable, error)

type domainFunc func(ctx context.Context, domain string, limit int) (*api.ResultTable, error)

func (c *Controller) keywordReport(report api.ReportType, fn keywordFunc) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		keyword := strings.TrimSpace(ctx.Query("keyword"))
		if keyword == "" {
			return fiber.NewError(fiber.StatusBadRequest, "keyword is required")
		}
		limit, err := parseLimit(ctx.Query("limit"))
		if err != nil {
			return err
		}

		table, err := fn(ctx.UserContext(), keyword, limit)
		if err != nil {
			return err
		}
		return c.respond(ctx, report, table)
	}
}

func (c *Controller) domainReport(report api.ReportType, fn domainFunc) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		domain := strings.TrimSpace(ctx.Query("domain"))
		if domain == "" {
			domain = c.config.GetConfig().Domains.Main
		}
		if domain == "" {
			return fiber.NewError(fiber.StatusBadRequest, "domain is required and no main domain is configured")
		}
		limit, err := parseLimit(ctx.Query("limit"))
		if err != nil {
			return err
		}

		table, err := fn(ctx.UserContext(), domain, limit)
		if err != nil {
			return err
		}
		return c.respond(ctx, report, table)
	}
}

// KeywordListRequest is the JSON body of the batch and difficulty endpoints
type KeywordListRequest struct {
	Keywords []string `json:"keywords"`
	Limit    int      `json:"limit"`
}

func parseKeywordList(ctx *fiber.Ctx) (*KeywordListRequest, error) {
	var req KeywordListRequest

	if strings.HasPrefix(string(ctx.Request().Header.ContentType()), fiber.MIMETextPlain) {
		req.Keywords = api.SplitLines(string(ctx.Body()))
		if v := ctx.Query("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil {
				return nil, fiber.NewError(fiber.StatusBadRequest, "limit must be a number")
			}
			req.Limit = limit
		}
	} else {
		if err := ctx.BodyParser(&req); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		req.Keywords = api.SplitLines(strings.Join(req.Keywords, "\n"))
	}

	if len(req.Keywords) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "at least one keyword is required")
	}
	if req.Limit < 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "limit cannot be negative")
	}
	return &req, nil
}

// Batch returns volume and difficulty for a keyword list
func (c *Controller) Batch(ctx *fiber.Ctx) error {
	req, err := parseKeywordList(ctx)
	if err != nil {
		return err
	}

	limit := req.Limit
	if limit == 0 {
		limit = min(len(req.Keywords), api.MaxKeywords)
	}

	table, err := c.reports.PhraseThese(ctx.UserContext(), req.Keywords, limit)
	if err != nil {
		return err
	}
	return c.respond(ctx, api.ReportPhraseThese, table)
}

// Difficulty returns the difficulty index for a keyword list
func (c *Controller) Difficulty(ctx *fiber.Ctx) error {
	req, err := parseKeywordList(ctx)
	if err != nil {
		return err
	}

	table, err := c.reports.PhraseKDI(ctx.UserContext(), req.Keywords)
	if err != nil {
		return err
	}
	return c.respond(ctx, api.ReportPhraseKDI, table)
}

// Gap compares the configured main domain against the competitors
func (c *Controller) Gap(ctx *fiber.Ctx) error {
	gapType, err := api.ParseGapType(ctx.Query("type", string(api.GapMissing)))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	limit, err := parseLimit(ctx.Query("limit"))
	if err != nil {
		return err
	}

	cfg := c.config.GetConfig()
	if cfg.Domains.Main == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no main domain is configured")
	}

	table, err := c.reports.Gap(ctx.UserContext(), cfg.Domains.Main, cfg.Domains.Competitors, gapType, limit)
	if err != nil {
		return err
	}
	return c.respond(ctx, api.ReportDomainDomains, table)
}

func (c *Controller) respond(ctx *fiber.Ctx, report api.ReportType, table *api.ResultTable) error {
	format := render.FormatJSON
	if v := ctx.Query("format"); v != "" {
		f, err := render.ParseFormat(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		format = f
	}

	if format == render.FormatJSON {
		return ctx.JSON(render.NewDocument(string(report), table))
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, string(report), table, format); err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, format.ContentType())
	return ctx.Send(buf.Bytes())
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(MaxLimit))
	}
	return limit, nil
}

func (c *Controller) healthcheck() http.Handler {
	return healthcheck.Handler(
		healthcheck.WithTimeout(5*time.Second),
		healthcheck.WithChecker(
			"config", healthcheck.CheckerFunc(
				func(ctx context.Context) error {
					cfg := c.config.GetConfig()
					if cfg == nil {
						return errors.New("configuration not loaded")
					}
					if cfg.API.Key == "" {
						return errors.New("API key is not configured")
					}
					return nil
				},
			),
		),
	)
}

func (c *Controller) errorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal error"

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, api.ErrNoCompetitors), errors.Is(err, api.ErrUnknownGapType),
		errors.Is(err, api.ErrEmptyInput), errors.Is(err, config.ErrInvalidConfig):
		code = fiber.StatusBadRequest
		message = err.Error()
	default:
		switch api.ClassifyError(err) {
		case api.ErrorKindTimeout:
			code = fiber.StatusGatewayTimeout
			message = "SEMRush API timed out"
		case api.ErrorKindCanceled:
			code = fiber.StatusServiceUnavailable
			message = "request canceled"
		default:
			code = fiber.StatusBadGateway
			message = "SEMRush API request failed"
		}
	}

	if code >= fiber.StatusInternalServerError {
		c.log.SafeError("Request failed", err, map[string]interface{}{
			"path":   ctx.Path(),
			"status": code,
		})
	}

	return ctx.Status(code).JSON(fiber.Map{"error": message})
}

func (c *Controller) requestLogger(ctx *fiber.Ctx) error {
	start := time.Now()
	err := ctx.Next()

	c.log.SafeInfo("HTTP request", map[string]interface{}{
		"method":      ctx.Method(),
		"path":        ctx.Path(),
		"status":      ctx.Response().StatusCode(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return err
}
