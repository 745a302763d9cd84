package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/internal/handler"
	"github.com/openshelf/openshelf/internal/repository"
	"github.com/openshelf/openshelf/internal/server"
	"github.com/openshelf/openshelf/internal/service"
	"github.com/openshelf/openshelf/migrations"
	"github.com/openshelf/openshelf/pkg/kafka"
	"github.com/openshelf/openshelf/pkg/logger"
	"github.com/openshelf/openshelf/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "openshelf")

	var (
		catalogRepo     repository.Catalog
		reservationRepo repository.Reservations
		userRepo        repository.Users
		closeDB         = func() {}
	)
	if cfg.Database.InMemory {
		log.Warn("running on the in-memory store; data will not survive a restart")
		mem := repository.NewMemory()
		catalogRepo, reservationRepo, userRepo = mem, mem, mem
	} else {
		db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			log.Fatal("db init", zap.Error(err))
		}
		closeDB = func() { db.Close() }
		if catalogRepo, err = repository.NewCatalog(db, log); err != nil {
			log.Fatal("catalog repo", zap.Error(err))
		}
		if reservationRepo, err = repository.NewReservations(db, log); err != nil {
			log.Fatal("reservation repo", zap.Error(err))
		}
		if userRepo, err = repository.NewUsers(db, log); err != nil {
			log.Fatal("user repo", zap.Error(err))
		}
	}

	jwtKey := []byte(cfg.Auth.JWTSecret)
	catalogSvc := service.NewCatalog(catalogRepo, log)
	reservationSvc := service.NewReservation(reservationRepo, log)
	authSvc := service.NewAuth(userRepo, jwtKey, cfg.Auth.TokenTTL, log)
	adminSvc := service.NewAdmin(catalogRepo, reservationRepo, userRepo, log)

	if err := authSvc.EnsureAdmin(context.Background(),
		cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatal("admin bootstrap", zap.Error(err))
	}

	enqueuer := handler.NewNopEnqueuer()
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close() //nolint:errcheck
		enqueuer = handler.NewEnqueuer(producer)
	}

	h := handler.New(catalogSvc, reservationSvc, authSvc, adminSvc, enqueuer, log)
	srv := server.NewServer(cfg.Server, h.NewRouter(jwtKey))
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	closeDB()
	log.Info("Graceful shutdown finished")
}
