package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chanchalmahajan01/GKT/internal/account"
	"github.com/chanchalmahajan01/GKT/internal/config"
	"github.com/chanchalmahajan01/GKT/internal/db"
	"github.com/chanchalmahajan01/GKT/internal/events"
	"github.com/chanchalmahajan01/GKT/internal/httpapi"
	"github.com/chanchalmahajan01/GKT/internal/logger"
	"github.com/chanchalmahajan01/GKT/internal/mail"
	"github.com/chanchalmahajan01/GKT/internal/menu"
	"github.com/chanchalmahajan01/GKT/internal/order"
	"github.com/chanchalmahajan01/GKT/internal/otp"
	"github.com/chanchalmahajan01/GKT/internal/relay"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

const otpTTL = 10 * time.Minute

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	redisClient := db.InitRedis(cfg)
	defer redisClient.Close()

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg)
	} else {
		log.Warn("SMTP_HOST not set, otp codes will only be logged")
		mailer = mail.NoopMailer{}
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.KafkaBroker != "" {
		kp := events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	}

	hub := relay.NewHub()

	accountRepo := account.NewRepository(database)
	accountSvc := account.NewService(accountRepo, otp.NewRedisStore(redisClient, otpTTL), mailer)

	menuRepo := menu.NewRepository(database)
	menuSvc := menu.NewService(menuRepo, relay.MenuNotifier{Hub: hub})

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, accountRepo, relay.OrderNotifier{Hub: hub}, publisher)

	api := &httpapi.API{
		Accounts: accountSvc,
		Menus:    menuSvc,
		Orders:   orderSvc,
		QR:       order.DefaultQRGenerator{BaseURL: cfg.ClientURL},
		Relay:    relay.NewHandler(hub),
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(httpapi.NewRouter(api))

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
