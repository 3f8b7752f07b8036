package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"

	"testgram/internal/config"
	"testgram/internal/handlers/apiserver"
	appKafka "testgram/internal/kafka"
	"testgram/internal/logging"
	"testgram/internal/middleware"
	appRedis "testgram/internal/redis"
	"testgram/internal/services"
	"testgram/internal/storage"
)

func main() {
	// 1. 加载配置
	cfg, err := config.LoadConfig(os.Getenv("TESTGRAM_CONFIG"))
	if err != nil {
		logging.Log.WithError(err).Fatal("loading configuration")
	}
	logging.Init(cfg.AppName, cfg.LogLevel, cfg.AppEnv)
	logging.Log.WithFields(logrus.Fields{"version": cfg.AppVersion, "env": cfg.AppEnv}).Info("configuration loaded")

	// 2. 初始化数据库连接
	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		logging.Log.WithError(err).Fatal("connecting to database")
	}
	if err := storage.AutoMigrateTables(db); err != nil {
		logging.Log.WithError(err).Fatal("migrating database schema")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logging.Log.WithError(err).Fatal("accessing database handle")
	}
	defer sqlDB.Close()

	// 3. Redis 与 Token 黑名单
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := appRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		logging.Log.WithError(err).Fatal("connecting to redis")
	}
	defer redisClient.Close()
	blacklist := appRedis.NewRedisTokenBlacklist(redisClient)

	// 4. Kafka 事件发布
	producer, err := appKafka.NewProducer(cfg.Kafka)
	if err != nil {
		logging.Log.WithError(err).Fatal("creating kafka producer")
	}
	defer producer.Close()
	events := appKafka.NewChatEventPublisher(producer, cfg.Kafka.ChatEventsTopic)

	// 5. Repositories 与 Services
	userRepo := storage.NewGormUserRepository(db)
	friendshipRepo := storage.NewGormFriendshipRepository(db)
	postRepo := storage.NewGormPostRepository(db)
	commentRepo := storage.NewGormCommentRepository(db)
	reactionRepo := storage.NewGormReactionRepository(db)
	chatRepo := storage.NewGormChatRepository(db)
	messageRepo := storage.NewGormMessageRepository(db)

	svc := apiserver.Services{
		Auth:       services.NewAuthService(userRepo, blacklist),
		User:       services.NewUserService(userRepo, friendshipRepo, postRepo),
		Friendship: services.NewFriendshipService(userRepo, friendshipRepo),
		Post:       services.NewPostService(postRepo, reactionRepo),
		Comment:    services.NewCommentService(commentRepo, postRepo),
		Reaction:   services.NewReactionService(reactionRepo, postRepo),
		Chat:       services.NewChatService(chatRepo, messageRepo, userRepo, events, cfg.Chat.SelfLabel),
		Message:    services.NewMessageService(chatRepo, messageRepo, events, cfg.Chat.SelfLabel),
	}

	// 6. 路由与中间件
	limiter := middleware.NewRateLimiter(cfg.APIServer.RateLimit.RequestsPerMinute, cfg.APIServer.RateLimit.Burst)
	go limiter.RunCleanup(ctx, time.Minute)

	r := apiserver.NewRouter(svc, apiserver.RouterOptions{
		Auth:       cfg.Auth,
		Pagination: cfg.Pagination,
		Blacklist:  blacklist,
		Limiter:    limiter,
		Health:     sqlDB,
	})

	corsOptions := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.APIServer.CORS.AllowedOrigins),
		handlers.AllowedMethods(cfg.APIServer.CORS.AllowedMethods),
		handlers.AllowedHeaders(cfg.APIServer.CORS.AllowedHeaders),
		handlers.ExposedHeaders(cfg.APIServer.CORS.ExposedHeaders),
		handlers.MaxAge(cfg.APIServer.CORS.MaxAge),
	}
	if cfg.APIServer.CORS.AllowCredentials {
		corsOptions = append(corsOptions, handlers.AllowCredentials())
	}
	handler := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logging.Log),
		handlers.PrintRecoveryStack(true),
	)(middleware.TrustProxyHeaders(cfg.APIServer.RateLimit.TrustProxy)(handlers.CORS(corsOptions...)(r)))

	// 7. 启动 HTTP 服务器并实现优雅关闭
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.APIServer.Host, cfg.APIServer.Port),
		Handler:      handler,
		ReadTimeout:  cfg.APIServer.ReadTimeout,
		WriteTimeout: cfg.APIServer.WriteTimeout,
		IdleTimeout:  cfg.APIServer.IdleTimeout,
	}

	go func() {
		logging.Log.WithField("addr", srv.Addr).Info("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Log.WithError(err).Fatal("API server failed")
		}
	}()

	<-ctx.Done()
	logging.Log.Info("shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Log.WithError(err).Error("API server forced to shut down")
	}
	logging.Log.Info("API server stopped")
}
