package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"user-directory-api/config"
	"user-directory-api/internal/application/ports"
	"user-directory-api/internal/application/services"
	"user-directory-api/internal/domain/user"
	"user-directory-api/internal/infrastructure/db/mongodb"
	mongouser "user-directory-api/internal/infrastructure/db/mongodb/user"
	"user-directory-api/internal/infrastructure/db/postgres"
	pguser "user-directory-api/internal/infrastructure/db/postgres/user"
	"user-directory-api/internal/infrastructure/jwt"
	"user-directory-api/internal/infrastructure/metrics"
	"user-directory-api/internal/infrastructure/mq"
	"user-directory-api/internal/infrastructure/s3"
	"user-directory-api/internal/interface/api/rest"
	"user-directory-api/internal/interface/api/rest/middleware"
	"user-directory-api/pkg/rmqconsumer"
	"user-directory-api/pkg/userschema"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	mongo      *mongo.Client
	userRepo   user.Repository
	s3         ports.ObjectStorage
	httpSrv    *http.Server
	router     *gin.Engine
	metrics    *metrics.Metrics
	publisher  ports.EventPublisher
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := config.Load()

	a := &App{
		logger:    logger,
		cfg:       cfg,
		metrics:   metrics.New(prometheus.DefaultRegisterer),
		publisher: mq.Discard{},
	}

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	a.router = gin.New()
	a.router.Use(gin.Recovery())
	a.router.Use(middleware.RequestLogGin(logger, a.metrics))
	a.router.Use(rest.ErrorReporter(logger))

	a.httpSrv = &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err = a.initStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err = a.initObjectStorage(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err = a.initMQ(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) initStore(ctx context.Context) error {
	switch a.cfg.Store.Driver {
	case config.StoreDriverPostgres:
		dsn, err := a.cfg.DBDSN()
		if err != nil {
			return fmt.Errorf("db config: %w", err)
		}
		a.db, err = postgres.New(ctx, a.logger, dsn)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		if err = postgres.EnsureSchema(ctx, a.db); err != nil {
			return fmt.Errorf("ensure postgres schema: %w", err)
		}
		a.userRepo = pguser.NewRepository(a.db)

	case config.StoreDriverMongo:
		uri, err := a.cfg.MongoURI()
		if err != nil {
			return fmt.Errorf("mongo config: %w", err)
		}
		a.mongo, err = mongodb.New(ctx, a.logger, uri)
		if err != nil {
			return fmt.Errorf("connect to mongo: %w", err)
		}
		db := a.mongo.Database(a.cfg.Mongo.Database)
		if err = mongouser.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("ensure mongo indexes: %w", err)
		}
		a.userRepo = mongouser.NewRepository(db)

	default:
		return fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}

	a.logger.Info("record store ready", zap.String("driver", a.cfg.Store.Driver))

	return nil
}

func (a *App) initObjectStorage(ctx context.Context) error {
	if !a.cfg.S3Enabled() {
		a.logger.Info("object storage not configured, profile uploads disabled")
		return nil
	}

	client, err := s3.New(ctx, a.logger, a.cfg.S3)
	if err != nil {
		return fmt.Errorf("configure s3: %w", err)
	}
	a.s3 = client

	return nil
}

func (a *App) initMQ(ctx context.Context) error {
	if !a.cfg.MQEnabled() {
		a.logger.Info("rabbitmq not configured, lifecycle events disabled")
		return nil
	}

	dsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return fmt.Errorf("rabbitmq config: %w", err)
	}

	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, dsn); err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	a.mq = rbMQ
	if err = rbMQ.Init(); err != nil {
		return fmt.Errorf("init rabbitmq: %w", err)
	}

	consumer := rmqconsumer.New(a.cfg.MQ, a.logger, rbMQ.GetConn())
	if err = consumer.Connect(dsn); err != nil {
		return fmt.Errorf("connect rabbitmq consumer: %w", err)
	}
	if err = consumer.Init(); err != nil {
		return fmt.Errorf("init rabbitmq consumer: %w", err)
	}

	a.publisher = rbMQ
	a.mqConsumer = consumer

	return nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.logger.Error("mongo disconnect error", zap.Error(err))
		}
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	schema := userschema.New(a.cfg.Users.Genders...)

	var jwtService *jwt.Service
	if a.cfg.App.JWTSecret != "" {
		jwtService = jwt.New(a.cfg.App.JWTSecret)
	} else {
		a.logger.Warn("SERVICE_JWT_SECRET is empty, mutating routes are unauthenticated")
	}
	auth := middleware.AuthMiddleware(jwtService)

	// services
	userService := services.NewUserService(a.userRepo, schema, a.publisher, a.metrics, a.cfg.Store.Timeout)

	// controllers
	rest.NewUserController(a.router, userService, auth)
	if a.s3 != nil {
		profileService := services.NewProfileService(
			a.logger, a.s3, a.userRepo, a.publisher, a.metrics, a.cfg.Store.Timeout,
		)
		rest.NewProfileController(a.router, profileService, auth)
	}

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
