package bootstrap

import (
	"fmt"

	"log/slog"

	coreconfig "orderbot/core/config"
	"orderbot/core/logger"
	"orderbot/internal/menu"
)

// Options control the bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit  func(*coreconfig.Config) error
	LoadCatalog func(path string) (*menu.Catalog, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Catalog *menu.Catalog
}

// Run initializes the logger and loads the menu catalog.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	loadCatalog := opts.LoadCatalog
	if loadCatalog == nil {
		loadCatalog = menu.Load
	}
	catalog, err := loadCatalog(opts.Config.Orders.MenuFile)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: menu catalog load failed: %w", err)
	}

	logger.MENU.Info("catalog loaded",
		slog.String("event", "menu.loaded"),
		slog.Int("items", catalog.Len()),
	)

	return &Result{Catalog: catalog}, nil
}
