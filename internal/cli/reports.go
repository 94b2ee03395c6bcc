package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"semrush-explorer/pkg/api"
)

type keywordBuilder func(scope api.Scope, keyword string, limit int) api.QueryRequest

type domainBuilder func(scope api.Scope, domain string, limit int) api.QueryRequest

func (a *app) keywordCommand(use, short string, build keywordBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <keyword>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkLimit(); err != nil {
				return err
			}
			keyword := strings.TrimSpace(strings.Join(args, " "))
			if keyword == "" {
				return fmt.Errorf("keyword is required")
			}
			return a.run(cmd, build(a.scope(), keyword, a.limit))
		},
	}
}

func (a *app) domainCommand(use, short string, build domainBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [domain]",
		Short: short + " (defaults to the configured main domain)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkLimit(); err != nil {
				return err
			}
			domain := a.cfg.Domains.Main
			if len(args) == 1 {
				domain = strings.TrimSpace(args[0])
			}
			if domain == "" {
				return fmt.Errorf("no domain given and no main domain configured")
			}
			return a.run(cmd, build(a.scope(), domain, a.limit))
		},
	}
}

func (a *app) batchCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "batch [keyword...]",
		Short: fmt.Sprintf("Volume and difficulty for up to %d keywords (args, --file or stdin)", api.MaxKeywords),
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := readKeywords(cmd, args, file)
			if err != nil {
				return err
			}

			limit := min(len(keywords), api.MaxKeywords)
			if cmd.Flags().Changed("limit") {
				if a.limit < 1 {
					return fmt.Errorf("--limit must be positive")
				}
				limit = a.limit
			}
			return a.run(cmd, api.PhraseThese(a.scope(), keywords, limit))
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Read keywords from a file, one per line")
	return cmd
}

func (a *app) kdiCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "kdi [keyword...]",
		Short: fmt.Sprintf("Keyword difficulty for up to %d keywords (args, --file or stdin)", api.MaxKeywords),
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords, err := readKeywords(cmd, args, file)
			if err != nil {
				return err
			}
			return a.run(cmd, api.PhraseKDI(a.scope(), keywords))
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Read keywords from a file, one per line")
	return cmd
}

func (a *app) gapCommand() *cobra.Command {
	var (
		main        string
		competitors []string
	)

	types := make([]string, 0, 3)
	for _, g := range api.GapTypes() {
		types = append(types, fmt.Sprintf("  %-8s %s", g, g.Description()))
	}

	cmd := &cobra.Command{
		Use:       "gap [missing|shared|unique]",
		Short:     "Keyword gap between the main domain and its competitors",
		Long:      "Keyword gap between the main domain and its competitors.\n\nGap types:\n" + strings.Join(types, "\n"),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(api.GapMissing), string(api.GapShared), string(api.GapUnique)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkLimit(); err != nil {
				return err
			}

			gap := api.GapMissing
			if len(args) == 1 {
				parsed, err := api.ParseGapType(args[0])
				if err != nil {
					return err
				}
				gap = parsed
			}

			if main == "" {
				main = a.cfg.Domains.Main
			}
			if main == "" {
				return fmt.Errorf("no main domain given (--main) and none configured")
			}
			if !cmd.Flags().Changed("competitors") {
				competitors = a.cfg.Domains.Competitors
			}

			query, err := api.Gap(a.scope(), main, competitors, gap, a.limit)
			if err != nil {
				return err
			}
			return a.run(cmd, query)
		},
	}
	cmd.Flags().StringVar(&main, "main", "", "Main domain, overrides the configured one")
	cmd.Flags().StringSliceVar(&competitors, "competitors", nil, "Competitor domains, override the configured ones")
	return cmd
}

// readKeywords takes keywords from args, else from file, else from stdin
func readKeywords(cmd *cobra.Command, args []string, file string) ([]string, error) {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, "\n")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read keywords: %w", err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read keywords from stdin: %w", err)
		}
		text = string(data)
	}

	keywords := api.SplitLines(text)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords given: %w", api.ErrEmptyInput)
	}
	return keywords, nil
}
