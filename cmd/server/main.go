package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dossier-status-service/internal/config"
	"dossier-status-service/internal/controller"
	"dossier-status-service/internal/middleware"
	"dossier-status-service/internal/rabbit"
	"dossier-status-service/internal/repository"
	"dossier-status-service/internal/service"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("error conectando a MongoDB", zap.Error(err))
	}
	db := client.Database(cfg.MongoDBName)

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatal("error conectando a RabbitMQ", zap.Error(err))
	}
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("error creando canal en RabbitMQ", zap.Error(err))
	}

	publisher, err := rabbit.NewPublisher(ch, logger)
	if err != nil {
		logger.Fatal("error declarando exchange de eventos", zap.Error(err))
	}

	// Repositorio y servicio
	repo := repository.NewMongoDossierRepository(db)
	dossierService := service.NewDossierService(repo, publisher, logger)

	// Handlers
	ctrl := controller.NewDossierController(dossierService)

	// Router
	r := gin.Default()

	// Rutas públicas
	r.POST("/dossiers/intake", ctrl.Intake)

	// Rutas con identidad (el gateway ya autenticó)
	auth := r.Group("/")
	auth.Use(middleware.Identify())

	auth.GET("/dossiers", ctrl.List)
	auth.GET("/dossiers/stats", ctrl.Stats)
	auth.GET("/dossiers/:dossierId", ctrl.Get)
	auth.GET("/dossiers/:dossierId/actions", ctrl.Actions)
	auth.GET("/dossiers/:dossierId/timeline", ctrl.Timeline)
	auth.GET("/dossiers/:dossierId/comment", ctrl.LastComment)
	auth.PATCH("/dossiers/:dossierId/status", ctrl.ChangeStatus)
	auth.POST("/dossiers/:dossierId/delivery/schedule", ctrl.ScheduleDelivery)
	auth.POST("/dossiers/:dossierId/delivery/confirm", ctrl.ConfirmDelivery)

	// Rutas admin
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/dossiers/:status", ctrl.ListByStatus)

	rabbit.SetupConsumers(ch, dossierService, logger)

	// Ejecutar servidor
	logger.Info("dossier status service escuchando", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("servidor caído", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
