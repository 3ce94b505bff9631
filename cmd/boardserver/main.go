package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/gorouter"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/queries"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/sqltemplate"
	"github.com/goliatone/go-dashboard-controls/components/dashboard/store"
	"github.com/goliatone/go-dashboard-controls/pkg/activity"
	"github.com/goliatone/go-dashboard-controls/pkg/activity/usersink"
	"github.com/goliatone/go-dashboard-controls/pkg/analytics"
	dashboardpkg "github.com/goliatone/go-dashboard-controls/pkg/dashboard"
	"github.com/goliatone/go-dashboard-controls/pkg/goadmin"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if path := loadEnvFiles(".env", "../.env"); path != "" {
		logger.Info("loaded env file", "path", path)
	}
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("boardserver stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	metrics := prometheus.NewRegistry()
	metrics.MustRegister(collectors.NewGoCollector())
	promTelemetry, err := dashboard.NewPrometheusTelemetry(metrics)
	if err != nil {
		return err
	}
	telemetry := dashboard.MultiTelemetry{
		dashboard.LogTelemetry{Logger: logger, Level: slog.LevelDebug},
		promTelemetry,
	}

	deps, err := openBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	broadcast := dashboard.NewBroadcastHook()
	var refresh dashboard.RefreshHook = broadcast
	if deps.redis != nil {
		// Every instance publishes to redis and relays the channel into its
		// own broadcast hook, so local subscribers see each event once.
		hook := store.NewRedisRefreshHook(deps.redis, cfg.RedisChannel, logger)
		refresh = hook
		go func() {
			if err := hook.Relay(ctx, broadcast); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("redis relay stopped", "error", err)
			}
		}()
	}
	refresh = dashboard.RefreshHooks{
		refresh,
		&dashboard.NotificationsHook{Client: logNotifier{logger: logger}, Channel: dashboard.EventReasonDelete},
	}

	emitter := activity.NewEmitter(
		activity.Hooks{usersink.Hook{Sink: logSink{logger: logger}}},
		activity.Config{Enabled: !cfg.DisableActivity},
	)

	board := dashboardpkg.NewBoard(dashboardpkg.BoardOptions{
		Store:       deps.widgets,
		Providers:   deps.registry,
		RefreshHook: refresh,
		Validator:   dashboard.NewJSONSchemaValidator(),
		Telemetry:   telemetry,
		Logger:      logger,
		Dates: dashboard.NewDateRangeResolver(dashboard.DateRangeOptions{
			Location:     cfg.Location,
			WeekStartDay: &cfg.WeekStartDay,
		}),
		Activity:   emitter,
		Tracer:     otel.Tracer("go-dashboard-controls"),
		Visibility: dashboard.NewVisibilityEvaluator(),
	})

	manifests, err := loadBoards(ctx, cfg, deps, telemetry)
	if err != nil {
		return err
	}

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return err
	}
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Board:    board,
		Renderer: renderer,
	})
	executor := httpapi.NewCommandExecutor(board, telemetry)

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        executor,
		Broadcast:  broadcast,
	}); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	admin, err := goadmin.New(goadmin.Config{
		EnableBoards: true,
		Board:        board,
		Manifests:    manifests,
		MenuBuilder:  &loggingMenuBuilder{logger: logger},
	})
	if err != nil {
		return err
	}
	if err := admin.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap admin menu: %w", err)
	}

	api := httpapi.NewRouter(&httpapi.Handlers{
		API:        executor,
		Board:      queries.NewBoardQuery(controller),
		Controller: queries.NewControllerViewQuery(board),
		Actor:      headerActor,
	}, broadcast)
	api.Handle("/metrics", promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))
	apiServer := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           api,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 2)
	go func() {
		logger.Info("board routes ready", "addr", cfg.Addr, "boards", len(manifests))
		errs <- server.Serve(cfg.Addr)
	}()
	go func() {
		logger.Info("board api ready", "addr", cfg.APIAddr)
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return apiServer.Shutdown(shutdownCtx)
}

type backends struct {
	widgets   dashboard.WidgetStore
	registry  *dashboard.Registry
	views     store.ProviderFactory
	persisted bool
	closers   []func() error
	redis     redis.UniversalClient
}

func (b *backends) Close() {
	for _, closeFn := range b.closers {
		_ = closeFn()
	}
}

// openBackends picks the widget store and the SQL view source. Postgres
// stores widgets and serves SQL views unless a MySQL DSN takes the views.
func openBackends(ctx context.Context, cfg config, logger *slog.Logger) (*backends, error) {
	deps := &backends{
		widgets:  dashboard.NewInMemoryWidgetStore(),
		registry: dashboard.NewRegistry(),
	}
	if err := deps.registry.ApplyHooks(); err != nil {
		return nil, err
	}
	templates := sqltemplate.NewProcessor(sqltemplate.Options{Logger: logger})

	if cfg.PostgresDSN != "" {
		db, err := store.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		widgets, err := store.NewGormWidgetStore(db)
		if err != nil {
			return nil, err
		}
		deps.widgets = widgets
		deps.persisted = true
		deps.views = store.GormProviders(db, templates)
		if sqlDB, err := db.DB(); err == nil {
			deps.closers = append(deps.closers, sqlDB.Close)
		}
	}
	if cfg.MySQLDSN != "" {
		db, err := store.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.views = store.SQLProviders(db, templates)
		deps.closers = append(deps.closers, db.Close)
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			deps.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		deps.redis = client
		deps.closers = append(deps.closers, client.Close)
	}
	if cfg.AnalyticsURL != "" {
		client, err := analytics.NewHTTPClient(analytics.HTTPConfig{
			BaseURL: cfg.AnalyticsURL,
			APIKey:  cfg.AnalyticsKey,
		})
		if err != nil {
			deps.Close()
			return nil, err
		}
		if err := analytics.RegisterRemoteViews(deps.registry, client); err != nil {
			deps.Close()
			return nil, err
		}
	}
	return deps, nil
}

// loadBoards registers the views of every manifest and seeds its widgets.
// A persisted board that already has widgets keeps them.
func loadBoards(ctx context.Context, cfg config, deps *backends, telemetry dashboard.Telemetry) ([]*dashboard.BoardManifest, error) {
	seed := commands.NewSeedBoardCommand(deps.widgets, deps.registry, telemetry)
	manifests := make([]*dashboard.BoardManifest, 0, len(cfg.Manifests))
	for _, path := range cfg.Manifests {
		doc, err := dashboardpkg.ReadManifest(path)
		if err != nil {
			return nil, err
		}
		if deps.views != nil {
			if err := store.RegisterSQLViews(deps.registry, doc, deps.views); err != nil {
				return nil, err
			}
		}
		existing, err := deps.widgets.Widgets(ctx, doc.Board)
		if err != nil {
			return nil, err
		}
		if deps.persisted && len(existing) > 0 {
			if err := dashboard.RegisterManifestViews(deps.registry, doc); err != nil {
				return nil, err
			}
		} else if err := seed.Execute(ctx, commands.SeedBoardInput{Manifest: doc}); err != nil {
			return nil, err
		}
		manifests = append(manifests, doc)
	}
	return manifests, nil
}

func headerActor(r *http.Request) commands.Actor {
	return commands.Actor{
		ActorID:  r.Header.Get("X-Actor-ID"),
		UserID:   r.Header.Get("X-User-ID"),
		TenantID: r.Header.Get("X-Tenant-ID"),
	}
}

type logSink struct {
	logger *slog.Logger
}

func (s logSink) Log(ctx context.Context, record types.ActivityRecord) error {
	s.logger.InfoContext(ctx, "activity",
		"verb", record.Verb,
		"object_type", record.ObjectType,
		"object_id", record.ObjectID,
		"actor_id", record.ActorID.String(),
		"channel", record.Channel,
	)
	return nil
}

// logNotifier records widget removals in the server log.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) PublishDashboardEvent(ctx context.Context, event dashboard.WidgetEvent) error {
	n.logger.InfoContext(ctx, "widget removed", "board", event.DashboardID, "widget", event.WidgetID)
	return nil
}

type loggingMenuBuilder struct {
	logger *slog.Logger
}

func (b *loggingMenuBuilder) EnsureMenuItem(ctx context.Context, menuCode string, item goadmin.MenuItem) error {
	b.logger.InfoContext(ctx, "menu item", "menu", menuCode, "label", item.Label, "route", item.Route)
	return nil
}
