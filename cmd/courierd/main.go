// README: Entry point; loads config, wires services, starts the local API and background refresh.
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"courierd/internal/backend"
	"courierd/internal/bus"
	"courierd/internal/config"
	"courierd/internal/courier"
	"courierd/internal/earnings"
	"courierd/internal/earnings/migrations"
	httptransport "courierd/internal/http"
	"courierd/internal/infra"
	"courierd/internal/kv"
	"courierd/internal/logging"
	"courierd/internal/nav"
	"courierd/internal/orders"
	"courierd/internal/rejection"
	"courierd/internal/session"
	"courierd/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(slog.LevelInfo)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	migrationDB, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := migrations.Run(migrationDB); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	_ = migrationDB.Close()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	store := kv.NewRedisKV(redisClient)

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	b := bus.New()
	orderStore := orders.NewStore()
	ledger := rejection.NewLedger(store, logger)
	archive := earnings.NewPostgresArchive(dbPool)
	earningsSvc := earnings.NewService(client, archive, logger)
	orderSvc := orders.NewService(orderStore, client, ledger, earningsSvc, b, logger)
	sessionSvc := session.NewService(client, store, cfg.Session.Secret, cfg.Session.TTL, logger)
	courierSvc := courier.NewService(client, orderStore, logger)

	var estimator nav.RouteEstimator = nav.NewSimulatedEstimator(cfg.Maps.SpeedKmh)
	if cfg.Maps.APIKey != "" {
		google, err := nav.NewGoogleEstimator(cfg.Maps.APIKey)
		if err != nil {
			logger.Warn("maps client init failed, using simulated estimates", "error", err)
		} else {
			estimator = google
		}
	}

	dashboard := views.NewDashboardView(orderSvc, courierSvc, b)
	orderList := views.NewOrderListView(orderSvc, b)
	defer dashboard.Close()
	defer orderList.Close()

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Orders:    orderSvc,
		Sessions:  sessionSvc,
		Courier:   courierSvc,
		Earnings:  earningsSvc,
		Nav:       estimator,
		Dashboard: dashboard,
		OrderList: orderList,
		Log:       logger,
	})

	refresher := orders.NewRefresher(orderSvc, sessionSvc.Current, cfg.Refresh.Interval, logger)
	go refresher.Run(ctx)

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("courierd listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
