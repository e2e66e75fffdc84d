package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"minuteshub/internal/config"
	"minuteshub/internal/db"
	"minuteshub/internal/mailer"
	"minuteshub/internal/mq"
	"minuteshub/internal/mqhandler"
	"minuteshub/internal/redis"
	"minuteshub/internal/repository"
	"minuteshub/internal/service"
	"minuteshub/internal/util"
	"minuteshub/pkg/logger"
)

func main() {
	cfg := config.Load()

	zlog := logger.NewLogger()
	defer zlog.Sync()

	dbConn, err := db.NewConnection(cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.InitSchema(context.Background(), dbConn); err != nil {
		zlog.Fatal("schema initialization failed", zap.Error(err))
	}

	// Redis-backed deduper so a redelivered event never triggers a second send
	rdb := redis.NewClient(cfg.Redis)
	deduper := util.NewDeduper(rdb, 24*time.Hour)

	meetingRepo := repository.NewMeetingRepository(dbConn)
	templateRepo := repository.NewTemplateRepository(dbConn)
	preferenceRepo := repository.NewPreferenceRepository(dbConn)

	transport := mailer.NewSMTPTransport(cfg.SMTP.Host, cfg.SMTP.Port)

	templateService := service.NewTemplateService(templateRepo, meetingRepo, zlog)
	preferenceService := service.NewPreferenceService(preferenceRepo)
	emailService := service.NewEmailService(transport, preferenceRepo, zlog)

	autoSend := mqhandler.NewAutoSendHandler(
		meetingRepo,
		templateService,
		preferenceService,
		emailService,
		deduper,
		zlog,
	)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, mq.RoutingMeetingAnalyzed)
	if err != nil {
		zlog.Fatal("failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumer.SetHandler(autoSend.HandleMeetingAnalyzed)

	zlog.Info("auto-send worker started", zap.String("routingKey", mq.RoutingMeetingAnalyzed))

	if err := consumer.StartConsuming(); err != nil {
		zlog.Fatal("consumer stopped", zap.Error(err))
	}
}
