package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ShareItService/internal/api/handlers"
	approveBookingHandler "github.com/m04kA/SMC-ShareItService/internal/api/handlers/approve_booking"
	createBookingHandler "github.com/m04kA/SMC-ShareItService/internal/api/handlers/create_booking"
	createCommentHandler "github.com/m04kA/SMC-ShareItService/internal/api/handlers/create_comment"
	getBookerBookingsHandler "github.com/m04kA/SMC-ShareItService/internal/api/handlers/get_booker_bookings"
	getBookingHandler "github.com/m04kA/SMC-ShareItService/internal/api/handlers/get_booking"
	getItemHandler "github.com/m04kA/SMC-ShareItService/internal/api/handlers/get_item"
	getOwnerBookingsHandler "github.com/m04kA/SMC-ShareItService/internal/api/handlers/get_owner_bookings"
	getOwnerItemsHandler "github.com/m04kA/SMC-ShareItService/internal/api/handlers/get_owner_items"
	"github.com/m04kA/SMC-ShareItService/internal/api/middleware"
	"github.com/m04kA/SMC-ShareItService/internal/config"
	"github.com/m04kA/SMC-ShareItService/internal/domain"
	usersCache "github.com/m04kA/SMC-ShareItService/internal/infra/cache/users"
	bookingRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/booking"
	commentRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/comment"
	itemRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/item"
	userRepo "github.com/m04kA/SMC-ShareItService/internal/infra/storage/user"
	bookingsService "github.com/m04kA/SMC-ShareItService/internal/service/bookings"
	itemsService "github.com/m04kA/SMC-ShareItService/internal/service/items"
	approveBookingUC "github.com/m04kA/SMC-ShareItService/internal/usecase/approve_booking"
	createBookingUC "github.com/m04kA/SMC-ShareItService/internal/usecase/create_booking"
	createCommentUC "github.com/m04kA/SMC-ShareItService/internal/usecase/create_comment"
	"github.com/m04kA/SMC-ShareItService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShareItService/pkg/logger"
	"github.com/m04kA/SMC-ShareItService/pkg/metrics"
	"github.com/m04kA/SMC-ShareItService/pkg/txmanager"
)

// userDirectory общий контракт справочника пользователей (репозиторий или кеш поверх него)
type userDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ShareItService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopBackgroundCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозитории работают либо через обёртку с метриками, либо напрямую с *sql.DB
	var (
		executor  dbmetrics.DBExecutor
		txManager *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopBackgroundCh)
		log.Info("Database metrics collection started")

		executor = wrappedDB
		txManager = txmanager.NewTransactionManager(wrappedDB)
	} else {
		executor = db
		txManager = txmanager.NewSimpleTransactionManager(db)
	}

	bookingRepository := bookingRepo.NewRepository(executor)
	itemRepository := itemRepo.NewRepository(executor)
	userRepository := userRepo.NewRepository(executor)
	commentRepository := commentRepo.NewRepository(executor)

	// Справочник пользователей: redis-кеш поверх репозитория, если включен
	var users userDirectory = userRepository
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Кеш не обязателен: при недоступном redis читаем напрямую из БД
			log.Warn("Redis is unavailable at %s, user cache works in pass-through mode: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Connected to redis at %s", cfg.Redis.Addr)
		}
		pingCancel()

		users = usersCache.NewCache(redisClient, userRepository, time.Duration(cfg.Redis.TTL)*time.Second, log)
	}

	timeProvider := &createBookingUC.RealTimeProvider{}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, users, timeProvider, log)
	itemSvc := itemsService.NewService(
		itemRepository,
		bookingRepository,
		commentRepository,
		users,
		timeProvider,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		itemRepository,
		users,
		txManager,
		metricsCollector,
		log,
	)
	approveBookingUseCase := approveBookingUC.NewUseCase(
		bookingRepository,
		txManager,
		metricsCollector,
		log,
	)
	createCommentUseCase := createCommentUC.NewUseCase(
		bookingRepository,
		itemRepository,
		commentRepository,
		users,
		txManager,
		timeProvider,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	approveBooking := approveBookingHandler.NewHandler(approveBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookerBookings := getBookerBookingsHandler.NewHandler(bookingSvc, log)
	getOwnerBookings := getOwnerBookingsHandler.NewHandler(bookingSvc, log)
	getItem := getItemHandler.NewHandler(itemSvc, log)
	getOwnerItems := getOwnerItemsHandler.NewHandler(itemSvc, log)
	createComment := createCommentHandler.NewHandler(createCommentUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Sharer-User-Id header)
	// ============================================================

	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		protected.Use(limiter.Middleware)
		go limiter.RunEviction(middleware.DefaultEvictionInterval, middleware.DefaultLimiterIdleTTL, stopBackgroundCh)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", getBookerBookings.Handle).Methods(http.MethodGet)

	// /bookings/owner регистрируется раньше /bookings/{bookingId}
	protected.HandleFunc("/bookings/owner", getOwnerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", approveBooking.Handle).Methods(http.MethodPatch)

	// --- Вещи ---
	protected.HandleFunc("/items", getOwnerItems.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/items/{itemId}", getItem.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/items/{itemId}/comment", createComment.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи: сбор метрик пула и очистку rate limiter
	close(stopBackgroundCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
