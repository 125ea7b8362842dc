package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	payoutstructureservice "rewardsplit/contexts/finance-core/payout-structure-service"
	boltadapter "rewardsplit/contexts/finance-core/payout-structure-service/adapters/bolt"
	"rewardsplit/contexts/finance-core/payout-structure-service/adapters/memory"
	postgresadapter "rewardsplit/contexts/finance-core/payout-structure-service/adapters/postgres"
	workerapp "rewardsplit/contexts/finance-core/payout-structure-service/application/workers"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"
	contractsv1 "rewardsplit/contracts/gen/events/v1"
	"rewardsplit/internal/platform/config"
	"rewardsplit/internal/platform/db"
	"rewardsplit/internal/platform/httpserver"
	"rewardsplit/internal/platform/logger"
	"rewardsplit/internal/platform/messaging"
	"rewardsplit/internal/platform/metrics"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// Options carry command-line overrides on top of the environment.
type Options struct {
	EnvFile string
	Addr    string
	Verbose bool
}

type outboxStore interface {
	ports.OutboxWriter
	ports.OutboxRepository
}

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	bolt     *boltadapter.OutboxStore
	bus      *messaging.Kafka
	relay    *relayLoop
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	bus      *messaging.Kafka
	relay    *relayLoop
	logger   *slog.Logger
}

// relayLoop drives OutboxRelay.RunOnce on a ticker.
type relayLoop struct {
	relay    workerapp.OutboxRelay
	interval time.Duration
	logger   *slog.Logger
}

// BuildAPI wires the HTTP process. Structures always live in process memory.
// The outbox is PostgreSQL when POSTGRES_DSN is set (relayed by the worker
// process), else bbolt when BOLT_PATH is set, else memory; the last two are
// relayed inside the API process.
func BuildAPI(opts Options) (*APIApp, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	log := logger.New(opts.Verbose).With("service", cfg.ServiceName, "process", "api")
	slog.SetDefault(log)

	app := &APIApp{logger: log}
	clock := postgresadapter.SystemClock{Clock: clockwork.NewRealClock()}
	sessions := memory.NewStoreWithClock(clockwork.NewRealClock())

	var outbox outboxStore
	switch {
	case strings.TrimSpace(cfg.PostgresDSN) != "":
		if err := db.Migrate(context.Background(), cfg.PostgresDSN, postgresadapter.Migrations, "migrations"); err != nil {
			return nil, err
		}
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		app.postgres = pg
		outbox = postgresadapter.NewRepository(pg.DB, log)
	case cfg.BoltPath != "":
		store, err := boltadapter.OpenOutboxStore(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		app.bolt = store
		outbox = store
	default:
		outbox = sessions
	}

	if app.postgres == nil {
		bus, err := messaging.NewKafka(cfg.KafkaBrokers, log)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.bus = bus
		app.relay = &relayLoop{
			relay: workerapp.OutboxRelay{
				Outbox:    outbox,
				Publisher: bus,
				Clock:     clock,
				Topic:     workerapp.DefaultTopic,
				BatchSize: cfg.OutboxBatchSize,
				Logger:    log,
			},
			interval: cfg.OutboxPollInterval,
			logger:   log,
		}
	}

	module := payoutstructureservice.NewModule(payoutstructureservice.Dependencies{
		Structures:         sessions,
		Outbox:             outbox,
		Clock:              clock,
		IDGenerator:        postgresadapter.UUIDGenerator{},
		Observer:           metrics.Observer{},
		MaxRows:            cfg.MaxRowsPerStructure,
		DisableEditJournal: !cfg.EnableEditJournal,
		Logger:             log,
	})

	addr := normalizeAddr(cfg.HTTPPort)
	if opts.Addr != "" {
		addr = normalizeAddr(opts.Addr)
	}
	app.server = httpserver.New(module, httpserver.Options{
		Addr:           addr,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         log,
	})
	return app, nil
}

// BuildWorker wires the relay process for the PostgreSQL outbox.
func BuildWorker(opts Options) (*WorkerApp, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	log := logger.New(opts.Verbose).With("service", cfg.ServiceName, "process", "worker")
	slog.SetDefault(log)
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	if err := db.Migrate(context.Background(), cfg.PostgresDSN, postgresadapter.Migrations, "migrations"); err != nil {
		return nil, err
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, log)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, log)
	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		relay: &relayLoop{
			relay: workerapp.OutboxRelay{
				Outbox:    repo,
				Publisher: bus,
				Clock:     postgresadapter.SystemClock{Clock: clockwork.NewRealClock()},
				Topic:     workerapp.DefaultTopic,
				BatchSize: cfg.OutboxBatchSize,
				Logger:    log,
			},
			interval: cfg.OutboxPollInterval,
			logger:   log,
		},
		logger: log,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"embedded_relay", a.relay != nil,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run(gctx)
	})
	if a.relay != nil {
		g.Go(func() error {
			return a.relay.run(gctx)
		})
	}
	return g.Wait()
}

func (a *APIApp) Close() error {
	var errs []error
	if a.bus != nil {
		errs = append(errs, a.bus.Close())
	}
	if a.bolt != nil {
		errs = append(errs, a.bolt.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.relay.interval.String(),
		"brokers", strings.Join(w.bus.Brokers(), ","),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.bus.Subscribe(gctx, workerapp.DefaultTopic, "payout-structure-journal-cg", w.journalTail)
	})
	g.Go(func() error {
		return w.relay.run(gctx)
	})
	return g.Wait()
}

// journalTail logs every relayed event at debug level.
func (w *WorkerApp) journalTail(_ context.Context, event contractsv1.Envelope) error {
	w.logger.Debug("payout structure event relayed",
		"event", "payout_structure_event_relayed",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"structure_id", event.PartitionKey,
	)
	return nil
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.bus != nil {
		errs = append(errs, w.bus.Close())
	}
	if w.postgres != nil {
		errs = append(errs, w.postgres.Close())
	}
	return errors.Join(errs...)
}

// run relays until ctx is done. A failed cycle is logged and retried on the
// next tick.
func (l *relayLoop) run(ctx context.Context) error {
	interval := l.interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		published, err := l.relay.RunOnce(ctx)
		metrics.RecordOutboxCycle(published, err)
		if err != nil && ctx.Err() == nil {
			l.logger.Warn("outbox relay cycle failed",
				"event", "bootstrap_outbox_relay_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.Contains(value, ":") {
		return value
	}
	return ":" + value
}
