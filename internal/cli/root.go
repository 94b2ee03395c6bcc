package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"semrush-explorer/internal/config"
	"semrush-explorer/internal/render"
	"semrush-explorer/pkg/api"
	"semrush-explorer/pkg/export"
	"semrush-explorer/pkg/logger"
)

const (
	DefaultLimit = 5
	MaxLimit     = 20
)

var ErrNoAPIKey = errors.New("no API key configured: set SEMRUSH_API_KEY or api.key in the config file")

// Fetcher runs a prepared query; *api.Explorer implements it
type Fetcher interface {
	Fetch(ctx context.Context, query api.QueryRequest) (*api.ResultTable, error)
}

// FetcherFactory builds the Fetcher once settings are resolved
type FetcherFactory func(settings api.Settings) Fetcher

func defaultFetcher(settings api.Settings) Fetcher {
	return api.NewExplorer(settings)
}

type app struct {
	newFetcher FetcherFactory
	manager    config.Manager
	cfg        *config.Config

	configPath string
	format     string
	limit      int
	database   string
	insecure   bool
	exportDir  string
	debug      bool
}

// NewRootCommand builds the command tree. A nil factory uses the HTTP explorer.
func NewRootCommand(factory FetcherFactory) *cobra.Command {
	if factory == nil {
		factory = defaultFetcher
	}
	a := &app{newFetcher: factory, manager: config.NewManager()}

	root := &cobra.Command{
		Use:           "semrush-explorer",
		Short:         "semrush-explorer queries SEMRush keyword and domain reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Configuration file path (empty: defaults and SEMRUSH_* environment)")
	flags.StringVarP(&a.format, "format", "f", string(render.FormatTable), "Output format: table, markdown, csv, html or json")
	flags.IntVarP(&a.limit, "limit", "n", DefaultLimit, fmt.Sprintf("Number of results (1-%d)", MaxLimit))
	flags.StringVarP(&a.database, "database", "d", "", "Regional database, overrides the configured one")
	flags.BoolVar(&a.insecure, "insecure", false, "Skip TLS certificate verification")
	flags.StringVar(&a.exportDir, "export-dir", "", "Also write the result as CSV plus a JSON summary to this directory")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		a.keywordCommand("questions", "Questions containing a keyword", api.PhraseQuestions),
		a.keywordCommand("related", "Keywords related to a keyword", api.PhraseRelated),
		a.keywordCommand("broad", "Broad match keywords for a keyword", api.PhraseFullSearch),
		a.batchCommand(),
		a.kdiCommand(),
		a.domainCommand("organic", "Organic keywords a domain ranks for", api.DomainOrganic),
		a.domainCommand("competitors", "Organic competitors of a domain", api.DomainCompetitors),
		a.domainCommand("pages", "Top pages of a domain by traffic", api.DomainOrganicUnique),
		a.gapCommand(),
		a.configCommand(),
	)

	return root
}

// ExecuteContext runs the CLI and exits non-zero on error
func ExecuteContext(ctx context.Context) {
	if err := NewRootCommand(nil).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if _, err := render.ParseFormat(a.format); err != nil {
		return err
	}

	if _, err := a.manager.Load(a.configPath); err != nil {
		return err
	}

	cfg, err := a.manager.Update(func(c *config.Config) {
		if a.database != "" {
			c.API.Database = a.database
		}
		if cmd.Flags().Changed("insecure") {
			c.API.DisableTLSVerify = a.insecure
		}
		if a.debug {
			c.Logger.Level = "debug"
		}
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger.SetLogger(logger.New(cfg.Logger))
	return nil
}

func (a *app) checkLimit() error {
	if a.limit < 1 || a.limit > MaxLimit {
		return fmt.Errorf("--limit must be between 1 and %d", MaxLimit)
	}
	return nil
}

// run fetches query and writes the rendered table, exporting it when asked
func (a *app) run(cmd *cobra.Command, query api.QueryRequest) error {
	if a.cfg.API.Key == "" {
		return ErrNoAPIKey
	}

	table, err := a.newFetcher(a.cfg.APISettings()).Fetch(cmd.Context(), query)
	if err != nil {
		return err
	}

	format, _ := render.ParseFormat(a.format)
	if err := render.Render(cmd.OutOrStdout(), string(query.Type()), table, format); err != nil {
		return err
	}

	if a.exportDir != "" {
		result, err := export.NewExporter().Export(a.exportDir, query.Type(), query, table)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", result.Summary.RowCount, result.CSVPath)
	}
	return nil
}

func (a *app) scope() api.Scope {
	return a.cfg.APISettings().Scope()
}
