package main

import (
	"clinic-portal-service/internal/app/config"
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/app/delivery/http/controllers"
	"clinic-portal-service/internal/app/delivery/http/middlewares"
	"clinic-portal-service/internal/app/delivery/http/routers"
	"clinic-portal-service/internal/app/drivers/browser"
	"clinic-portal-service/internal/app/drivers/database"
	"clinic-portal-service/internal/app/drivers/logger"
	"clinic-portal-service/internal/app/drivers/messaging"
	"clinic-portal-service/internal/app/drivers/storage"
	"clinic-portal-service/internal/app/services/core/appointments"
	"clinic-portal-service/internal/app/services/core/assessments"
	"clinic-portal-service/internal/app/services/core/availability"
	calendarEvents "clinic-portal-service/internal/app/services/core/calendar_events"
	"clinic-portal-service/internal/app/services/core/clients"
	"clinic-portal-service/internal/app/services/core/diagnostics"
	"clinic-portal-service/internal/app/services/core/documents"
	"clinic-portal-service/internal/app/services/core/users"
	"clinic-portal-service/internal/app/services/shared/documentqueue"
	"clinic-portal-service/internal/app/services/shared/jwtmanager"
	"clinic-portal-service/internal/app/services/shared/locker"
	"clinic-portal-service/internal/app/services/shared/metrics"
	"clinic-portal-service/internal/app/services/shared/pdf"
	"clinic-portal-service/internal/app/services/shared/querycache"
	"clinic-portal-service/internal/app/services/shared/ratelimiter"
	"clinic-portal-service/internal/app/services/shared/realtime"
	"clinic-portal-service/internal/app/services/shared/redis"
	"clinic-portal-service/internal/app/services/shared/requestqueue"
	minioStorage "clinic-portal-service/internal/app/services/shared/storage"
	"clinic-portal-service/internal/app/services/supabase"
	"clinic-portal-service/internal/app/services/supabase/rest"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	redisClient := database.NewRedisClient(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		Logger:         zapLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}
	if internalConfig.Documents.AsyncEnabled {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig)
	}

	err := bootstrapingTheApp(bootstrap)
	if err != nil {
		zapLogger.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", internalConfig.App.Address, internalConfig.App.Port),
		Handler:           chiRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Server started", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	zapLogger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Failed to release resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	log := bootstrap.Logger
	driverConfig := bootstrap.DriverConfig
	internalConfig := bootstrap.InternalConfig

	// Metrics
	availabilityMetrics := metrics.NewAvailabilityMetrics(nil)
	requestQueueMetrics := metrics.NewRequestQueueMetrics(nil)
	realtimeMetrics := metrics.NewRealtimeMetrics(nil)
	documentMetrics := metrics.NewDocumentMetrics(nil)
	httpMetrics := metrics.NewHTTPMetrics(nil)

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, log)
	queryCache := querycache.NewQueryCache(redisRepository, log, internalConfig.Cache.Enabled)
	resourceLimiter := ratelimiter.NewResourceLimiter(redisRepository, log)

	// Supabase REST
	requestQueue := requestqueue.New(log, requestqueue.Config{
		MaxConcurrency: internalConfig.RequestQueue.MaxConcurrency,
		MaxRetries:     internalConfig.RequestQueue.MaxRetries,
		BaseBackoff:    internalConfig.RequestQueue.BaseBackoff,
		MaxBackoff:     internalConfig.RequestQueue.MaxBackoff,
	}, requestQueueMetrics)
	bootstrap.QueueStop = requestQueue.Close
	tokenBucket := ratelimiter.NewTokenBucket(internalConfig.RateLimit.RequestsPerSecond, internalConfig.RateLimit.Burst, requestQueueMetrics)
	restClient := rest.NewClient(rest.Config{
		URL:            driverConfig.Supabase.URL,
		AnonKey:        driverConfig.Supabase.AnonKey,
		ServiceRoleKey: driverConfig.Supabase.ServiceRoleKey,
		Schema:         driverConfig.Supabase.Schema,
		Timeout:        time.Duration(driverConfig.Supabase.RequestTimeout) * time.Second,
	}, requestQueue, tokenBucket, log)

	// Repositories
	availabilityRepository := supabase.NewAvailabilityRepository(restClient, log)
	appointmentRepository := supabase.NewAppointmentRepository(restClient, log)
	clientRepository := supabase.NewClientRepository(restClient, log)
	calendarEventRepository := supabase.NewCalendarEventRepository(restClient, log)
	assessmentRepository := supabase.NewAssessmentRepository(restClient, log)
	userRepository := supabase.NewUserRepository(restClient, log)
	documentRepository := supabase.NewDocumentRepository(restClient, log)

	// Availability
	expander := availability.NewExpander(log,
		availability.WithPastSlotPolicy(availability.PastSlotPolicy(internalConfig.Availability.PastSlotPolicy)),
		availability.WithDefaultTimeZone(internalConfig.Availability.DefaultTimeZone),
		availability.WithDefaultWeeks(internalConfig.Availability.DefaultWeeks),
		availability.WithMetrics(availabilityMetrics),
	)
	availabilityUsecase := availability.NewAvailabilityUsecase(
		availabilityRepository,
		appointmentRepository,
		queryCache,
		expander,
		internalConfig.Availability.DefaultWeeks,
		log,
	)

	// Core usecases
	clientUsecase := clients.NewClientUsecase(clientRepository, queryCache, log)
	appointmentUsecase := appointments.NewAppointmentUsecase(appointmentRepository, availabilityUsecase, log)
	calendarEventUsecase := calendarEvents.NewCalendarEventUsecase(calendarEventRepository, queryCache, log)
	assessmentUsecase := assessments.NewAssessmentUsecase(assessmentRepository, queryCache, log)
	userUsecase := users.NewUserUsecase(userRepository, queryCache, log)

	// Documents
	minioClient := storage.NewMinio(driverConfig)
	objectStorage := minioStorage.NewMinioStorage(minioClient, log)

	allocCtx, browserCancel := browser.NewChromeAllocator(driverConfig)
	bootstrap.BrowserStop = browserCancel
	renderer, err := pdf.NewChromeRenderer(allocCtx, time.Duration(driverConfig.Chrome.RenderTimeout)*time.Second, log, documentMetrics)
	if err != nil {
		return err
	}

	var (
		documentQueue   contracts.DocumentQueue
		documentService *documentqueue.Service
	)
	if bootstrap.RabbitMQ != nil {
		documentService, err = documentqueue.NewService(bootstrap.RabbitMQ, log, internalConfig.Documents.ConsumerPrefetch)
		if err != nil {
			return err
		}
		documentQueue = documentService
	}

	documentUsecase := documents.NewDocumentUsecase(
		documents.Repositories{
			Documents:    documentRepository,
			Clients:      clientRepository,
			Appointments: appointmentRepository,
			Assessments:  assessmentRepository,
			Users:        userRepository,
		},
		renderer,
		objectStorage,
		documentQueue,
		resourceLimiter,
		driverConfig.Minio.BucketName,
		internalConfig.Documents,
		log,
	)

	// Background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	diagnosticsDeps := diagnostics.Dependencies{
		REST:            restClient,
		Redis:           redisRepository,
		Storage:         objectStorage,
		Bucket:          driverConfig.Minio.BucketName,
		DefaultTimeZone: internalConfig.Availability.DefaultTimeZone,
	}

	if internalConfig.Realtime.Enabled {
		realtimeManager := realtime.NewManager(realtime.Config{
			URL:               driverConfig.Supabase.URL,
			APIKey:            driverConfig.Supabase.AnonKey,
			AccessToken:       driverConfig.Supabase.ServiceRoleKey,
			HeartbeatInterval: internalConfig.Realtime.HeartbeatInterval,
			MaxBackoff:        internalConfig.Realtime.MaxBackoff,
		}, log, realtimeMetrics)
		unsubscribe := availability.SubscribeInvalidations(realtimeManager, availabilityUsecase, driverConfig.Supabase.Schema, log)
		diagnosticsDeps.Realtime = realtimeManager

		workers.Add(1)
		go func() {
			defer workers.Done()
			defer unsubscribe()
			if err := realtimeManager.Run(workerCtx); err != nil {
				log.Error("Realtime manager stopped", zap.Error(err))
			}
		}()
	}

	var availabilityWorker *availability.Worker
	if internalConfig.Availability.WorkerEnabled {
		availabilityWorker = availability.NewWorker(log, internalConfig.Availability, lockService, availabilityRepository, availabilityUsecase)
		availabilityWorker.Start(workerCtx)
	}

	if documentService != nil {
		consumer := documentqueue.NewConsumer(
			documentService,
			documentUsecase.ProcessRenderJob,
			log,
			internalConfig.Documents.ConsumerPrefetch,
			internalConfig.Documents.MaxRetry,
			internalConfig.Documents.ConsumerPollInterval,
		)
		workers.Add(1)
		go func() {
			defer workers.Done()
			consumer.Run(workerCtx)
		}()
	}

	bootstrap.WorkerStop = func() {
		if availabilityWorker != nil {
			availabilityWorker.Stop()
		}
		workerCancel()
		workers.Wait()
	}

	diagnosticsUsecase := diagnostics.NewDiagnosticsUsecase(diagnosticsDeps, log)

	// Auth
	jwtManager, err := jwtmanager.NewJWTManager(driverConfig.Supabase.JWTSecret, log)
	if err != nil {
		return err
	}

	// Middlewares
	middlewares := middlewares.NewMiddlewares(log, internalConfig, jwtManager, httpMetrics)

	// Controllers
	availabilityController := controllers.NewAvailabilityController(log, availabilityUsecase)
	clientController := controllers.NewClientController(log, clientUsecase)
	appointmentController := controllers.NewAppointmentController(log, appointmentUsecase)
	calendarEventController := controllers.NewCalendarEventController(log, calendarEventUsecase)
	assessmentController := controllers.NewAssessmentController(log, assessmentUsecase)
	userController := controllers.NewUserController(log, userUsecase)
	documentController := controllers.NewDocumentController(log, documentUsecase)
	diagnosticsController := controllers.NewDiagnosticsController(log, diagnosticsUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		middlewares,
		promhttp.Handler(),
		availabilityController,
		clientController,
		appointmentController,
		calendarEventController,
		assessmentController,
		userController,
		documentController,
		diagnosticsController,
	)

	return nil
}
