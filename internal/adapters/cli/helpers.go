package cli

import (
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/infrastructure/config"
)

// loadConfig loads the configuration named by --config with the CLI log level applied
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// openApp loads the configuration and bootstraps the application against its session store
func openApp() (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return Bootstrap(cfg, nil)
}

// resolveSession picks the session to act on
// Priority: explicit argument > --session > user config default
func resolveSession(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if sessionFlag != "" {
		return sessionFlag, nil
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no session specified and failed to load user config: %w", err)
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return "", fmt.Errorf("no session specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultSession != "" {
		return userCfg.DefaultSession, nil
	}

	return "", fmt.Errorf("no session specified: use --session, or set a default with 'factorysim session use'")
}
