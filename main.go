package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"catalog-chat-service/internal/config"
	"catalog-chat-service/internal/handlers"
	"catalog-chat-service/internal/middleware"
	"catalog-chat-service/internal/observability"
	"catalog-chat-service/internal/realtime"
	"catalog-chat-service/internal/room"
	"catalog-chat-service/internal/store"
	"catalog-chat-service/internal/telemetry"
	"catalog-chat-service/internal/token"
	"catalog-chat-service/internal/ws"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	shutdownTracing := observability.SetupTracing(ctx, "catalog-chat-service", cfg.OTLPEndpoint)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	roomStore := connectStore(ctx, cfg)
	defer roomStore.Close()

	var eventsPublisher observability.Publisher
	if publisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, "observability_events"); err != nil {
		log.Printf("observability events disabled: %v", err)
	} else {
		observability.SetPublisher(publisher)
		eventsPublisher = publisher
		defer publisher.Close()
	}

	channel := realtime.NewChannelPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer channel.Close()
	log.Printf("realtime publisher mode=%s", realtime.PublisherMode(channel))

	hub := ws.NewHub()

	consumer := realtime.NewConsumer(cfg.AMQPURL, cfg.AMQPExchange, hub)
	defer consumer.Close()

	reconciler := room.NewReconciler(roomStore, channel, hub, room.Options{
		Cap:              cfg.RoomCap,
		TTL:              cfg.RoomTTL,
		ClearOnLastLeave: cfg.ClearOnLastLeave,
	})

	issuer := token.NewIssuer(cfg.RealtimeSecret, cfg.TokenTTL)
	audit := telemetry.NewAuditEmitter(eventsPublisher, "audit.catalog_chat", "catalog-chat-service", cfg.Environment)

	stateHandler := handlers.NewStateHandler(reconciler, audit)
	tokenHandler := handlers.NewTokenHandler(issuer)
	catalogHandler := handlers.NewCatalogHandler()
	loginHandler := handlers.NewLoginHandler(cfg.SharedPassword, cfg.CookieName, audit)
	healthHandler := handlers.NewHealthHandler(roomStore)
	roomWS := ws.NewRoomWebSocketHandler(hub, issuer)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware("catalog-chat-service"))

	router.GET("/api/chat/state", stateHandler.GetState)
	router.POST("/api/chat/state", stateHandler.MutateState)
	router.GET("/api/realtime/token", tokenHandler.IssueToken)
	router.POST("/api/login", loginHandler.Login)
	router.GET("/api/catalog", middleware.RequireAuthCookie(cfg.CookieName), catalogHandler.ListItems)

	router.GET("/ws/rooms/:room_id", roomWS.Handle)

	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, audit, cfg.Debug)

	log.Printf("listening port=%s store=%T", cfg.Port, roomStore)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func connectStore(ctx context.Context, cfg config.Config) store.RoomStore {
	if cfg.RedisURL == "" {
		log.Printf("redis unconfigured, using in-memory room store")
		return store.NewMemoryStore()
	}

	redisStore, err := store.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	return redisStore
}
