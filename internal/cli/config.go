package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"semrush-explorer/internal/render"
	"semrush-explorer/pkg/api"
	"semrush-explorer/pkg/logger"
)

func (a *app) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (API key masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			security := logger.NewSecurityLogger(nil)
			cfg := a.cfg

			key := "(not set)"
			if cfg.API.Key != "" {
				key = security.MaskAPIKey(cfg.API.Key)
			}

			t := &api.ResultTable{
				Columns: []string{"Setting", "Value"},
				Rows: [][]string{
					{"api.base_url", cfg.API.BaseURL},
					{"api.key", key},
					{"api.database", cfg.API.Database},
					{"api.disable_tls_verify", strconv.FormatBool(cfg.API.DisableTLSVerify)},
					{"api.timeout_ms", strconv.Itoa(cfg.API.TimeoutMs)},
					{"api.request_delay_ms", strconv.Itoa(cfg.API.RequestDelayMs)},
					{"domains.main", cfg.Domains.Main},
					{"domains.competitors", strings.Join(cfg.Domains.Competitors, ", ")},
				},
			}

			format, _ := render.ParseFormat(a.format)
			return render.Render(cmd.OutOrStdout(), "config", t, format)
		},
	}
}
