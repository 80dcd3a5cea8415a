package app

import (
	"database/sql"
	"fmt"

	"github.com/holdingpro/holding/internal/amqp"
	"github.com/holdingpro/holding/internal/config"
	"github.com/holdingpro/holding/internal/database"
	"github.com/holdingpro/holding/internal/event_bus"
	"github.com/holdingpro/holding/pkg/aggregation"
	"github.com/holdingpro/holding/pkg/finance"
	"github.com/holdingpro/holding/pkg/ledger"
	"github.com/holdingpro/holding/pkg/session"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus  *event_bus.EventBus
	Publisher *amqp.Publisher

	Repository ledger.Repository
	Sessions   *ledger.Sessions

	FinanceService  *finance.ServiceImpl
	DashboardRender *finance.CsvDashboardRendererImpl
	FinanceHandler  *finance.Handler
	SessionHandler  *session.Handler

	closers []func()
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	multiplier, err := cfg.ValuationMultiplier()
	if err != nil {
		return nil, err
	}
	granularity, err := aggregation.ParseGranularity(cfg.Dashboard.Granularity)
	if err != nil {
		return nil, err
	}

	deps.EventBus = event_bus.NewEventBus()
	subscribeAudit(deps.EventBus)

	if cfg.AMQP.Url != "" {
		deps.Publisher, err = amqp.Dial(cfg.AMQP.Url, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey)
		if err != nil {
			return nil, err
		}
		deps.Publisher.Subscribe(deps.EventBus)
		deps.closers = append(deps.closers, func() {
			if err := deps.Publisher.Close(); err != nil {
				log.Warnf("failed to close AMQP publisher: %v", err)
			}
		})
		log.Infof("Publishing ledger events to exchange %s", cfg.AMQP.Exchange)
	}

	deps.Repository, err = deps.openRepository(cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}

	deps.Sessions = ledger.NewSessions(cfg.TransactionCatalog(), deps.Repository)
	if cfg.Ledger.SeedDemo {
		deps.Sessions.WithSeed(finance.DemoRecords())
	}

	deps.FinanceService = finance.NewService(deps.Sessions, deps.EventBus, finance.Settings{
		Currency:    cfg.Currency,
		Multiplier:  multiplier,
		MonthsAhead: cfg.Dashboard.MonthsAhead,
		Granularity: granularity,
	})
	deps.DashboardRender = finance.NewCsvDashboardRenderer()
	deps.FinanceHandler = finance.NewHandler(deps.FinanceService, deps.DashboardRender)
	deps.SessionHandler = session.NewHandler()

	return deps, nil
}

// openRepository returns nil for the memory backend.
func (deps *Dependencies) openRepository(cfg config.Application) (ledger.Repository, error) {
	switch cfg.Ledger.Backend {
	case config.BackendPostgres:
		pool, err := database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(cfg.Database); err != nil {
			pool.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, pool.Close)
		return ledger.NewPostgresRepository(pool), nil
	case config.BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, closeDB(db))
		return ledger.NewSQLiteRepository(db), nil
	case config.BackendMemory:
		log.Info("Using in-memory ledger")
		return nil, nil
	}
	return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}
}

// Close releases the connections opened by BuildDependencies, newest first.
func (deps *Dependencies) Close() {
	for i := len(deps.closers) - 1; i >= 0; i-- {
		deps.closers[i]()
	}
	deps.closers = nil
}
