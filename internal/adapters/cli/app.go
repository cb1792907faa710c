package cli

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/andrescamacho/factorysim-go/internal/adapters/persistence"
	"github.com/andrescamacho/factorysim-go/internal/adapters/snapshot"
	"github.com/andrescamacho/factorysim-go/internal/adapters/textcmd"
	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
	"github.com/andrescamacho/factorysim-go/internal/infrastructure/config"
	"github.com/andrescamacho/factorysim-go/internal/infrastructure/database"
	"github.com/andrescamacho/factorysim-go/internal/infrastructure/logging"
)

// App is the wired application: session store, session service and the mediator in front of it
type App struct {
	Config   *config.Config
	Logger   *logging.Logger
	DB       *gorm.DB
	Service  *appsim.Service
	Mediator common.Mediator

	logCloser io.Closer
}

// Bootstrap opens the session store and registers every session handler. Middlewares run
// outside the logging middleware, in the given order.
func Bootstrap(cfg *config.Config, observer appsim.Observer, middlewares ...common.Middleware) (*App, error) {
	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		logCloser.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	service := appsim.NewService(
		persistence.NewGormSessionRepository(db, nil), // nil = use RealClock
		persistence.NewGormSessionEventRepository(db),
		snapshot.Codec{},
		cfg.Simulation.Options(),
		nil,
		observer,
	)

	med := common.NewMediator()
	for _, mw := range middlewares {
		med.Use(mw)
	}
	med.Use(common.LoggingMiddleware())
	if err := appsim.RegisterHandlers(med, service); err != nil {
		database.Close(db)
		logCloser.Close()
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Service:   service,
		Mediator:  med,
		logCloser: logCloser,
	}, nil
}

// Context carries the application logger
func (a *App) Context(ctx context.Context) context.Context {
	return common.WithLogger(ctx, a.Logger)
}

// Executor runs text commands against the application's sessions
func (a *App) Executor() *textcmd.Executor {
	return textcmd.NewExecutor(a.Mediator)
}

func (a *App) Close() error {
	err := database.Close(a.DB)
	a.logCloser.Close()
	return err
}
