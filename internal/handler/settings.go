package handler

import (
	"github.com/gofiber/fiber/v2"
	"semrush-explorer/internal/config"
	"semrush-explorer/pkg/api"
)

// SettingsResponse is the settings page; the API key is never returned
type SettingsResponse struct {
	APIKeySet        bool     `json:"api_key_set"`
	APIKeyMasked     string   `json:"api_key_masked,omitempty"`
	Database         string   `json:"database"`
	Databases        []string `json:"databases"`
	MainDomain       string   `json:"main_domain"`
	Competitors      []string `json:"competitors"`
	DisableTLSVerify bool     `json:"disable_tls_verify"`
	GapTypes         []string `json:"gap_types"`
}

// SettingsUpdate holds the fields an operator may change. Nil fields are
// left as they are. CompetitorsText is the one-per-line form.
type SettingsUpdate struct {
	APIKey           *string  `json:"api_key"`
	Database         *string  `json:"database"`
	MainDomain       *string  `json:"main_domain"`
	Competitors      []string `json:"competitors"`
	CompetitorsText  *string  `json:"competitors_text"`
	DisableTLSVerify *bool    `json:"disable_tls_verify"`
}

func (c *Controller) settingsResponse(cfg *config.Config) SettingsResponse {
	gapTypes := make([]string, 0, 3)
	for _, g := range api.GapTypes() {
		gapTypes = append(gapTypes, string(g))
	}

	competitors := cfg.Domains.Competitors
	if competitors == nil {
		competitors = []string{}
	}

	return SettingsResponse{
		APIKeySet:        cfg.API.Key != "",
		APIKeyMasked:     c.log.MaskAPIKey(cfg.API.Key),
		Database:         cfg.API.Database,
		Databases:        config.SupportedDatabases,
		MainDomain:       cfg.Domains.Main,
		Competitors:      competitors,
		DisableTLSVerify: cfg.API.DisableTLSVerify,
		GapTypes:         gapTypes,
	}
}

// GetSettings returns the current settings
func (c *Controller) GetSettings(ctx *fiber.Ctx) error {
	return ctx.JSON(c.settingsResponse(c.config.GetConfig()))
}

// UpdateSettings validates and applies new settings, then reconfigures
// the report service so the next call uses them
func (c *Controller) UpdateSettings(ctx *fiber.Ctx) error {
	var update SettingsUpdate
	if err := ctx.BodyParser(&update); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cfg, err := c.config.Update(func(cfg *config.Config) {
		if update.APIKey != nil {
			cfg.API.Key = *update.APIKey
		}
		if update.Database != nil {
			cfg.API.Database = *update.Database
		}
		if update.MainDomain != nil {
			cfg.Domains.Main = *update.MainDomain
		}
		if update.CompetitorsText != nil {
			cfg.Domains.Competitors = api.SplitLines(*update.CompetitorsText)
		} else if update.Competitors != nil {
			cfg.Domains.Competitors = update.Competitors
		}
		if update.DisableTLSVerify != nil {
			cfg.API.DisableTLSVerify = *update.DisableTLSVerify
		}
	})
	if err != nil {
		return err
	}

	c.reports.Reconfigure(cfg.APISettings())
	c.log.SafeInfo("Settings saved", map[string]interface{}{
		"database":    cfg.API.Database,
		"main_domain": cfg.Domains.Main,
		"competitors": len(cfg.Domains.Competitors),
	})

	return ctx.JSON(c.settingsResponse(cfg))
}
