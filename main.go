package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"dailyoperacional/internal/catalog"
	"dailyoperacional/internal/config"
	"dailyoperacional/internal/dashboard"
	"dailyoperacional/internal/engine"
	"dailyoperacional/internal/http/handlers"
	appmw "dailyoperacional/internal/http/middleware"
	"dailyoperacional/internal/logging"
	"dailyoperacional/internal/metrics"
	"dailyoperacional/internal/source"
	ui "dailyoperacional/web"
)

const version = "v1.4.0"

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Options{
		App:     "dailyoperacional",
		Version: version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load indicator catalog", "error", err)
		os.Exit(1)
	}

	metrics.InitPrometheusMetrics()
	recorder := metrics.Recorder{}

	refs, events, eventsTTL := loaders(cfg)
	store := source.NewStore(refs, events, source.StoreOptions{
		ReferenceTTL: cfg.SourceTTL,
		EventsTTL:    eventsTTL,
		FetchTimeout: cfg.FetchTimeout,
		Observer:     recorder,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RefreshWarm {
		store.StartRefreshWorker(ctx, logger)
	}

	svc := &dashboard.Service{
		Source:    store,
		Catalog:   cat,
		Formatter: engine.NewFormatter(cfg.Locale),
		Recorder:  recorder,
		Logger:    logger,
	}

	r := router.New()
	auth := appmw.AdminAuth(cfg)

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})
	r.ServeFS("/static/{filepath:*}", ui.StaticFS())
	r.GET("/metrics", handlers.PrometheusHandler(nil))

	r.GET("/", auth(handlers.Dashboard(svc, cfg)))
	r.GET("/v1/view", auth(handlers.ViewHandler(svc)))
	r.GET("/v1/options", auth(handlers.OptionsHandler(svc)))

	server := &fasthttp.Server{
		Handler: handlers.RequestLogger(logger)(r.Handler),
		Name:    "dailyoperacional",
	}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown()
	}()

	logger.Info("listening",
		"addr", cfg.ListenAddr,
		"events_source", cfg.EventsSource,
		"catalog_version", cat.Version(),
	)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func loaders(cfg *config.Config) (source.ReferenceLoader, source.EventLoader, time.Duration) {
	var refs source.ReferenceLoader = source.SheetReference{SheetID: cfg.ReferenceSheetID, GID: cfg.ReferenceGID}
	if cfg.ReferenceXLSX != "" {
		refs = source.WorkbookReference{Path: cfg.ReferenceXLSX}
	}

	if cfg.EventsSource == config.EventsFromDrive {
		return refs, source.DriveEvents{
			FolderID:       cfg.DriveFolderID,
			CredentialsEnv: cfg.DriveCredentialsEnv,
		}, cfg.DriveTTL
	}
	return refs, source.SheetEvents{BaseURL: cfg.EventsBaseURL, GIDs: cfg.EventsGIDs}, cfg.SourceTTL
}
