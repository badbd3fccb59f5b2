package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"couponradar-engine/internal/config"
	"couponradar-engine/internal/events"
	"couponradar-engine/internal/httpapi"
	"couponradar-engine/internal/poll"
	"couponradar-engine/internal/render"
	"couponradar-engine/internal/scrape"
	"couponradar-engine/internal/store"
)

func main() {
	// Engine data dir: env if provided (the dashboard launcher passes one),
	// else local folder.
	dataDir := os.Getenv("COUPONRADAR_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir. Two processes scraping into the same DB
	// would defeat the single-cycle-at-a-time discipline.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("instance lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance is already running in %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, warn := range vr.Warnings {
		log.Printf("[config] warning: %s", warn)
	}
	if !vr.OK() {
		log.Fatalf("config invalid (%s): %v", userCfgPath, vr.Errors)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "coupons.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	var scrapeStatus atomic.Value
	scrapeStatus.Store(scrape.Status{})

	source := render.NewChrome(
		cfg.Scrape.Headless,
		time.Duration(cfg.Scrape.RenderTimeoutSeconds)*time.Second,
	)

	runner := &poll.Runner{
		DB:     db.Pool,
		Source: source,
		Hub:    hub,
		CfgVal: &cfgVal,
		Status: &scrapeStatus,
	}

	mux := httpapi.NewMux(httpapi.Deps{
		DB:           db.Pool,
		Hub:          hub,
		CfgVal:       &cfgVal,
		ScrapeStatus: &scrapeStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		RunCycle:     runner.RunCycle,
	})

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover,
			httpapi.AccessLog,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// /shutdown needs the server itself, so it attaches here not in the router.
	token, err := writeShutdownToken(dataDir)
	if err != nil {
		log.Fatalf("shutdown token: %v", err)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		runner.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
