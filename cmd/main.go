package main

import (
	"context"
	"database/sql"
	"errors"
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

	addSubscriberHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/add_subscriber"
	cancelReservationHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/cancel_reservation"
	forceLotteryHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/force_lottery"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/get_available_slots"
	getSessionHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/get_session"
	listReservationsHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/list_reservations"
	listRunsHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/list_runs"
	listSubscribersHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/list_subscribers"
	loginHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/login"
	lotteryResultsHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/lottery_results"
	myReservationsHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/my_reservations"
	myResultHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/my_result"
	removeSubscriberHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/remove_subscriber"
	reservationsSummaryHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/reservations_summary"
	runLotteryHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/run_lottery"
	submitReservationHandler "github.com/m04kA/SMC-SlotLottery/internal/api/handlers/submit_reservation"
	"github.com/m04kA/SMC-SlotLottery/internal/api/middleware"
	"github.com/m04kA/SMC-SlotLottery/internal/config"
	"github.com/m04kA/SMC-SlotLottery/internal/domain"
	availabilityCache "github.com/m04kA/SMC-SlotLottery/internal/infra/cache/availability"
	lotteryRepo "github.com/m04kA/SMC-SlotLottery/internal/infra/storage/lottery"
	reservationRepo "github.com/m04kA/SMC-SlotLottery/internal/infra/storage/reservation"
	subscriberRepo "github.com/m04kA/SMC-SlotLottery/internal/infra/storage/subscriber"
	"github.com/m04kA/SMC-SlotLottery/internal/integrations/broker"
	"github.com/m04kA/SMC-SlotLottery/internal/integrations/notifier"
	"github.com/m04kA/SMC-SlotLottery/internal/scheduler"
	reservationsService "github.com/m04kA/SMC-SlotLottery/internal/service/reservations"
	sessionService "github.com/m04kA/SMC-SlotLottery/internal/service/session"
	subscribersService "github.com/m04kA/SMC-SlotLottery/internal/service/subscribers"
	getAvailableSlotsUC "github.com/m04kA/SMC-SlotLottery/internal/usecase/get_available_slots"
	runLotteryUC "github.com/m04kA/SMC-SlotLottery/internal/usecase/run_lottery"
	submitReservationUC "github.com/m04kA/SMC-SlotLottery/internal/usecase/submit_reservation"
	"github.com/m04kA/SMC-SlotLottery/migrations"
	"github.com/m04kA/SMC-SlotLottery/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotLottery/pkg/logger"
	"github.com/m04kA/SMC-SlotLottery/pkg/metrics"
	"github.com/m04kA/SMC-SlotLottery/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if v, ok := os.LookupEnv("CONFIG_PATH"); ok && v != "" {
		configPath = v
	}
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-SlotLottery...")
	log.Info("Configuration loaded from %s", configPath)

	// Правила лотереи (уже проверены в config.Validate)
	location, _ := cfg.Lottery.Location()
	blockedDates, _ := cfg.Lottery.ParseBlockedDates()
	catalog, _ := domain.NewSlotCatalog(cfg.Lottery.Slots)
	limits := cfg.Lottery.Limits()
	log.Info("Lottery rules: capacity=%d, subscriber_quota=%d, cutoff=%02d:00 %s, slots=%d, blocked_dates=%d",
		limits.DailyCapacity, limits.SubscriberQuota, cfg.Lottery.CutoffHour, location, len(cfg.Lottery.Slots), len(blockedDates))

	// Инициализируем метрики (если включены)
	// Методы Metrics безопасны для nil, поэтому при выключенных метриках передаем nil
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Инициализируем репозитории и transaction manager
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	lotteryRepository := lotteryRepo.NewRepository(wrappedDB)
	subscriberRepository := subscriberRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Кэш доступности слотов (Redis необязателен)
	var redisClient availabilityCache.Client
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis ping failed, availability cache disabled: addr=%s, error=%v", cfg.Redis.Addr, err)
		} else {
			redisClient = rdb
			log.Info("Availability cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.CacheTTL())
		}
		cancelPing()
	}
	cache := availabilityCache.New(redisClient, cfg.Redis.CacheTTL())

	// Инициализируем каналы уведомлений
	var sinks []notifier.Sink
	if cfg.Notifications.WebhookURL != "" {
		sinks = append(sinks, notifier.NewWebhookSink(cfg.Notifications.WebhookURL, cfg.Notifications.Timeout()))
	}
	if cfg.Notifications.TelegramBotToken != "" {
		tg, err := notifier.NewTelegramSink(cfg.Notifications.TelegramBotToken, cfg.Notifications.TelegramChatID,
			"", cfg.Notifications.Timeout())
		if err != nil {
			log.Warn("Telegram notifications disabled: %v", err)
		} else {
			sinks = append(sinks, tg)
		}
	}
	dispatcher := notifier.NewDispatcher(cfg.Notifications.Timeout(), metricsCollector, log, sinks...)
	publisher := broker.NewPublisher(cfg.Broker.URL, cfg.Broker.Queue, cfg.Notifications.Timeout(), log)
	log.Info("Integrations initialized (notification_sinks=%d, broker=%t)", len(sinks), publisher.Enabled())

	// Инициализируем сервисы
	subscriberSvc := subscribersService.NewService(subscriberRepository, txMgr, log)
	sessionSvc := sessionService.NewService(subscriberSvc, cfg.Session.JWTSecret, cfg.Session.TTL(), log)
	reservationSvc := reservationsService.NewService(reservationRepository, lotteryRepository, cache, location, log)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := subscriberSvc.Seed(seedCtx, cfg.Subscribers.SeedIDs); err != nil {
		log.Fatal("Failed to seed subscribers: %v", err)
	}
	cancelSeed()

	// Инициализируем use cases
	submitReservationUseCase := submitReservationUC.NewUseCase(
		reservationRepository,
		lotteryRepository,
		cache,
		metricsCollector,
		txMgr,
		submitReservationUC.Policy{
			Limits:       limits,
			Catalog:      catalog,
			Location:     location,
			BlockedDates: blockedDates,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		cache,
		getAvailableSlotsUC.Settings{
			Catalog:      catalog,
			Location:     location,
			BlockedDates: blockedDates,
		},
		log,
	)

	runLotteryUseCase := runLotteryUC.NewUseCase(
		reservationRepository,
		lotteryRepository,
		dispatcher,
		publisher,
		cache,
		metricsCollector,
		txMgr,
		runLotteryUC.NewShuffler(),
		limits,
		log,
	)

	// Планировщик лотереи
	lotteryScheduler := scheduler.New(runLotteryUseCase, cfg.Scheduler.Interval(), cfg.Lottery.CutoffHour, location, log)

	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	if cfg.Scheduler.Enabled {
		lotteryScheduler.Go(backgroundCtx)
		log.Info("Lottery scheduler started (interval=%s)", cfg.Scheduler.Interval())
	} else {
		log.Warn("Lottery scheduler disabled, only admin runs are available")
	}

	limiterStore := middleware.NewLimiterStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	if cfg.RateLimit.Enabled {
		limiterStore.StartJanitor(backgroundCtx)
	}

	// Инициализируем handlers
	login := loginHandler.NewHandler(sessionSvc, log)
	getSession := getSessionHandler.NewHandler(log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	reservationsSummary := reservationsSummaryHandler.NewHandler(reservationSvc, log)
	lotteryResults := lotteryResultsHandler.NewHandler(reservationSvc, log)
	submitReservation := submitReservationHandler.NewHandler(submitReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	myReservations := myReservationsHandler.NewHandler(reservationSvc, log)
	myResult := myResultHandler.NewHandler(reservationSvc, log)
	runLottery := runLotteryHandler.NewHandler(lotteryScheduler, log)
	forceLottery := forceLotteryHandler.NewHandler(lotteryScheduler, log)
	listRuns := listRunsHandler.NewHandler(reservationSvc, log)
	listSubscribers := listSubscribersHandler.NewHandler(subscriberSvc, log)
	addSubscriber := addSubscriberHandler.NewHandler(subscriberSvc, log)
	removeSubscriber := removeSubscriberHandler.NewHandler(subscriberSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/login", login.Handle).Methods(http.MethodPost)
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/summary", reservationsSummary.Handle).Methods(http.MethodGet)
	api.HandleFunc("/lottery/results", lotteryResults.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(sessionSvc, log))

	protected.HandleFunc("/session", getSession.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/cancel", cancelReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/mine", myReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/mine/result", myResult.Handle).Methods(http.MethodGet)

	// Подача заявки ограничена по частоте на заявителя
	submit := protected.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		submit.Use(middleware.RateLimit(limiterStore, log))
		log.Info("Rate limit enabled for submissions (rps=%.2f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	submit.HandleFunc("/reservations", submitReservation.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminToken(cfg.Admin.Token, log))

	// --- Лотерея ---
	admin.HandleFunc("/lottery/run", runLottery.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/lottery/force", forceLottery.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/lottery/runs", listRuns.Handle).Methods(http.MethodGet)

	// --- Реестр подписок ---
	admin.HandleFunc("/subscribers", listSubscribers.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/subscribers/{subscriptionId}", addSubscriber.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/subscribers/{subscriptionId}", removeSubscriber.Handle).Methods(http.MethodDelete)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем планировщик и очистку лимитеров, дожидаемся текущего тика
	stopBackground()
	lotteryScheduler.Wait()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки уведомлений
	dispatcher.Wait()

	log.Info("Server stopped gracefully")
}
