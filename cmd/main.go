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

	createBookingHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/create_booking"
	createBookingDetailHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/create_booking_detail"
	createSlotHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/create_slot"
	deleteBookingHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/delete_booking"
	deleteBookingDetailHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/delete_booking_detail"
	deleteSlotHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/delete_slot"
	getBookingHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/get_booking"
	getBookingDetailHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/get_booking_detail"
	getBookingDetailsHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/get_booking_details"
	getBookingTotalHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/get_booking_total"
	getSlotHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/get_slot"
	getSlotAvailabilityHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/get_slot_availability"
	getSlotsByDateHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/get_slots_by_date"
	getUserBookingsHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/get_user_bookings"
	triggerSlotGenerationHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/trigger_slot_generation"
	updateBookingDetailHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/update_booking_detail"
	updateBookingDetailStatusHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/update_booking_detail_status"
	updateSlotHandler "github.com/m04kA/SMC-LabBookingService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-LabBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-LabBookingService/internal/config"
	"github.com/m04kA/SMC-LabBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/booking"
	bookingDetailRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/booking_detail"
	"github.com/m04kA/SMC-LabBookingService/internal/infra/storage/inmemory"
	slotRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/slot"
	testServiceRepo "github.com/m04kA/SMC-LabBookingService/internal/infra/storage/testservice"
	"github.com/m04kA/SMC-LabBookingService/internal/jobs/slotgen"
	bookingDetailsService "github.com/m04kA/SMC-LabBookingService/internal/service/booking_details"
	bookingsService "github.com/m04kA/SMC-LabBookingService/internal/service/bookings"
	slotsService "github.com/m04kA/SMC-LabBookingService/internal/service/slots"
	createBookingDetailUC "github.com/m04kA/SMC-LabBookingService/internal/usecase/create_booking_detail"
	generateSlotsUC "github.com/m04kA/SMC-LabBookingService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-LabBookingService/pkg/auth"
	"github.com/m04kA/SMC-LabBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LabBookingService/pkg/logger"
	"github.com/m04kA/SMC-LabBookingService/pkg/metrics"
	"github.com/m04kA/SMC-LabBookingService/pkg/txmanager"
)

// Репозиторий услуг нужен и сервису слотов, и генератору
type testServiceRepository interface {
	slotsService.TestServiceRepository
	generateSlotsUC.TestServiceRepository
}

type bookingDetailRepository interface {
	bookingDetailsService.BookingDetailRepository
	bookingsService.BookingDetailRepository
	createBookingDetailUC.BookingDetailRepository
}

// storage набор репозиториев выбранного драйвера
type storage struct {
	slots        slotsService.SlotRepository
	testServices testServiceRepository
	bookings     bookingsService.BookingRepository
	details      bookingDetailRepository
	tx           bookingsService.TransactionManager
	close        func()
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

	log.Info("Starting SMC-LabBookingService...")
	log.Info("Configuration loaded from config.toml (storage driver=%s)", cfg.Database.Driver)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	var store *storage
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store = openMemory(cfg, log)
	default:
		store, err = openPostgres(cfg, metricsCollector, stopMetricsCh, log)
		if err != nil {
			log.Fatal("Failed to open database: %v", err)
		}
	}
	defer store.close()

	// Метрики слотов и генератора (nil, если выключены)
	var (
		slotMetrics slotsService.MetricsRecorder
		genMetrics  slotgen.MetricsRecorder
	)
	if metricsCollector != nil {
		slotMetrics = metricsCollector
		genMetrics = metricsCollector
	}

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(
		store.slots,
		store.testServices,
		slotMetrics,
		cfg.Slots.DefaultCapacity,
		log,
	)
	bookingSvc := bookingsService.NewService(
		store.bookings,
		store.details,
		slotSvc,
		store.tx,
		log,
	)
	bookingDetailSvc := bookingDetailsService.NewService(
		store.details,
		store.bookings,
		slotSvc,
		store.tx,
		log,
	)

	// Инициализируем use cases
	createBookingDetailUseCase := createBookingDetailUC.NewUseCase(
		store.bookings,
		store.details,
		store.slots,
		store.testServices,
		slotSvc,
		store.tx,
		log,
	)
	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		store.testServices,
		slotSvc,
		cfg.Slots.DomainShifts(),
		cfg.Slots.GenerationDays,
		log,
	)

	// Планировщик генерации слотов
	location, err := cfg.Slots.Location()
	if err != nil {
		log.Fatal("Invalid slots timezone: %v", err)
	}
	scheduler, err := slotgen.NewScheduler(
		generateSlotsUseCase,
		genMetrics,
		cfg.Slots.GenerationCron,
		location,
		time.Duration(cfg.Slots.GenerationTimeout)*time.Second,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create slot generation scheduler: %v", err)
	}
	if cfg.Slots.GenerationEnabled {
		scheduler.Start()
	} else {
		log.Info("Scheduled slot generation is disabled, manual trigger only")
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Minute)
	if err != nil {
		log.Fatal("Failed to initialize token manager: %v", err)
	}

	// Инициализируем handlers
	getSlotsByDate := getSlotsByDateHandler.NewHandler(slotSvc, log)
	getSlotAvailability := getSlotAvailabilityHandler.NewHandler(slotSvc, log)
	getSlot := getSlotHandler.NewHandler(slotSvc, log)
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	updateSlot := updateSlotHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)
	triggerSlotGeneration := triggerSlotGenerationHandler.NewHandler(scheduler, log)

	createBooking := createBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)

	createBookingDetail := createBookingDetailHandler.NewHandler(createBookingDetailUseCase, log)
	getBookingDetail := getBookingDetailHandler.NewHandler(bookingDetailSvc, log)
	getBookingDetails := getBookingDetailsHandler.NewHandler(bookingDetailSvc, log)
	getBookingTotal := getBookingTotalHandler.NewHandler(bookingDetailSvc, log)
	updateBookingDetail := updateBookingDetailHandler.NewHandler(bookingDetailSvc, log)
	updateBookingDetailStatus := updateBookingDetailStatusHandler.NewHandler(bookingDetailSvc, log)
	deleteBookingDetail := deleteBookingDetailHandler.NewHandler(bookingDetailSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/TestServiceSlot/service/{serviceId}/date/{date}", getSlotsByDate.Handle).Methods(http.MethodGet)
	api.HandleFunc("/TestServiceSlot/{slotId}/available", getSlotAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/TestServiceSlot/{slotId}", getSlot.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer <JWT>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokens, log))

	staffOnly := middleware.RequireRole(domain.StaffRoles...)
	generationRoles := middleware.RequireRole(domain.RoleAdmin, domain.RoleManager)

	// --- Слоты (персонал) ---
	protected.Handle("/TestServiceSlot/trigger-slot-generation",
		generationRoles(http.HandlerFunc(triggerSlotGeneration.Handle))).Methods(http.MethodPost)
	protected.Handle("/TestServiceSlot", staffOnly(http.HandlerFunc(createSlot.Handle))).Methods(http.MethodPost)
	protected.Handle("/TestServiceSlot/{slotId}", staffOnly(http.HandlerFunc(updateSlot.Handle))).Methods(http.MethodPut)
	protected.Handle("/TestServiceSlot/{slotId}", staffOnly(http.HandlerFunc(deleteSlot.Handle))).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Записи на анализы ---
	protected.HandleFunc("/booking-details", createBookingDetail.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/booking-details/booking/{bookingId}/total", getBookingTotal.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/booking-details/booking/{bookingId}", getBookingDetails.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/booking-details/{id}", getBookingDetail.Handle).Methods(http.MethodGet)
	// Клиент может только отменить свою запись, остальное проверяет сервис
	protected.HandleFunc("/booking-details/{id}/status", updateBookingDetailStatus.Handle).Methods(http.MethodPut)
	protected.Handle("/booking-details/{id}", staffOnly(http.HandlerFunc(updateBookingDetail.Handle))).Methods(http.MethodPut)
	protected.Handle("/booking-details/{id}", staffOnly(http.HandlerFunc(deleteBookingDetail.Handle))).Methods(http.MethodDelete)

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Error("Slot generation scheduler did not stop cleanly: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openPostgres подключается к PostgreSQL; запросы идут через dbmetrics, recorder может быть nil
func openPostgres(cfg *config.Config, collector *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var recorder dbmetrics.Recorder
	if collector != nil {
		recorder = collector
	}
	wrappedDB := dbmetrics.WrapWithDefault(db, recorder, stopCh)

	return &storage{
		slots:        slotRepo.NewRepository(wrappedDB),
		testServices: testServiceRepo.NewRepository(wrappedDB),
		bookings:     bookingRepo.NewRepository(wrappedDB),
		details:      bookingDetailRepo.NewRepository(wrappedDB),
		tx:           txmanager.NewTransactionManager(wrappedDB),
		close: func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database: %v", err)
			}
		},
	}, nil
}

// openMemory поднимает in-memory хранилище для локального запуска
func openMemory(cfg *config.Config, log *logger.Logger) *storage {
	mem := inmemory.NewStore()
	for _, seed := range cfg.Database.SeedTestServices {
		service := mem.AddTestService(seed.Name, seed.Price, false)
		log.Info("Seeded test service id=%d (%s)", service.ID, service.Name)
	}
	log.Warn("Using in-memory storage, data is lost on restart")

	return &storage{
		slots:        mem.Slots(),
		testServices: mem.TestServices(),
		bookings:     mem.Bookings(),
		details:      mem.BookingDetails(),
		tx:           mem,
		close:        func() {},
	}
}
