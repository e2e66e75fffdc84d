package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"minuteshub/internal/analysis"
	"minuteshub/internal/config"
	"minuteshub/internal/db"
	"minuteshub/internal/handler"
	"minuteshub/internal/httpserver"
	"minuteshub/internal/mailer"
	"minuteshub/internal/mq"
	"minuteshub/internal/repository"
	"minuteshub/internal/service"
	"minuteshub/internal/transcribe"
	"minuteshub/pkg/logger"
)

func main() {
	// Load config
	cfg := config.Load()

	zlog := logger.NewLogger()
	defer zlog.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.InitSchema(context.Background(), dbConn); err != nil {
		zlog.Fatal("schema initialization failed", zap.Error(err))
	}

	// Init RabbitMQ producer
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		log.Fatalf("failed to init producer: %v", err)
	}
	defer producer.Close()

	// Init repositories
	meetingRepo := repository.NewMeetingRepository(dbConn)
	templateRepo := repository.NewTemplateRepository(dbConn)
	preferenceRepo := repository.NewPreferenceRepository(dbConn)

	// Init adapters
	transcriber := transcribe.NewClient(cfg.Transcription.BaseURL, cfg.Transcription.APIKey, cfg.Transcription.Model)
	analyzer := analysis.NewClient(cfg.Analysis.BaseURL, cfg.Analysis.APIKey)
	transport := mailer.NewSMTPTransport(cfg.SMTP.Host, cfg.SMTP.Port)

	// Init services
	meetingService := service.NewMeetingService(meetingRepo, zlog)
	pipelineService := service.NewPipelineService(meetingRepo, transcriber, analyzer, producer, zlog)
	templateService := service.NewTemplateService(templateRepo, meetingRepo, zlog)
	preferenceService := service.NewPreferenceService(preferenceRepo)
	emailService := service.NewEmailService(transport, preferenceRepo, zlog)

	// Seed built-in templates on first run
	if err := templateService.Seed(context.Background()); err != nil {
		zlog.Fatal("template seeding failed", zap.Error(err))
	}

	// Init handlers
	meetingHandler := handler.NewMeetingHandler(meetingService)
	pipelineHandler := handler.NewPipelineHandler(pipelineService)
	templateHandler := handler.NewTemplateHandler(templateService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)
	emailHandler := handler.NewEmailHandler(emailService)

	// Router
	router := httpserver.NewRouter(
		meetingHandler,
		pipelineHandler,
		templateHandler,
		preferenceHandler,
		emailHandler,
		dbConn,
	)

	// Start API server
	if err := router.Run(cfg.Server.Port); err != nil {
		zlog.Fatal("server start failed", zap.Error(err))
	}
}
