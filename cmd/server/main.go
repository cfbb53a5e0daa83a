package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitpharm-api/internal/auth"
	"fitpharm-api/internal/config"
	"fitpharm-api/internal/handler"
	"fitpharm-api/internal/i18n"
	"fitpharm-api/internal/mattermost"
	"fitpharm-api/internal/service"
	"fitpharm-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	i18n.Init(cfg.DefaultLocale)

	// Connect to MongoDB
	db, err := store.NewMongoDB(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	// Stores create their indexes on startup
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	counters := store.NewCounters(db)
	employeeStore, err := store.NewEmployeeStore(ctx, db, counters)
	if err != nil {
		log.Fatalf("Failed to init employee store: %v", err)
	}
	attendanceStore, err := store.NewAttendanceStore(ctx, db, counters)
	if err != nil {
		log.Fatalf("Failed to init attendance store: %v", err)
	}
	payrollStore, err := store.NewPayrollStore(ctx, db, counters)
	if err != nil {
		log.Fatalf("Failed to init payroll store: %v", err)
	}
	itemStore, err := store.NewItemStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init item store: %v", err)
	}
	userStore, err := store.NewUserStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init user store: %v", err)
	}
	feedbackStore, err := store.NewFeedbackStore(ctx, db, counters)
	if err != nil {
		log.Fatalf("Failed to init feedback store: %v", err)
	}
	cancel()

	// Payroll summaries go to Mattermost only when a bot and channel are configured
	var notifier service.PayrollNotifier
	if cfg.PayrollBotToken != "" && cfg.PayrollChannelID != "" {
		mm := mattermost.NewClient(cfg.MattermostURL, cfg.PayrollBotToken)
		notifier = mattermost.NewPayrollNotifier(mm, cfg.PayrollChannelID)
		log.Printf("Payroll summaries will be posted to channel %s", cfg.PayrollChannelID)
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL, userStore)

	// Services
	employeeSvc := service.NewEmployeeService(employeeStore)
	attendanceSvc := service.NewAttendanceService(attendanceStore, employeeStore)
	payrollSvc := service.NewPayrollService(payrollStore, employeeStore, notifier)
	itemSvc := service.NewItemService(itemStore)
	userSvc := service.NewUserService(userStore, issuer)
	feedbackSvc := service.NewFeedbackService(feedbackStore, userStore)

	// Routes
	mux := http.NewServeMux()
	handler.NewEmployeeHandler(employeeSvc).RegisterRoutes(mux)
	handler.NewAttendanceHandler(attendanceSvc).RegisterRoutes(mux)
	handler.NewPayrollHandler(payrollSvc).RegisterRoutes(mux)
	handler.NewItemHandler(itemSvc).RegisterRoutes(mux)
	handler.NewUserHandler(userSvc, issuer, cfg.IsDevelopment()).RegisterRoutes(mux)
	handler.NewFeedbackHandler(feedbackSvc, issuer).RegisterRoutes(mux)
	handler.NewHealthHandler(db).RegisterRoutes(mux)
	handler.RegisterDocsRoutes(mux)

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.LoggingMiddleware(handler.LocaleMiddleware(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("API started on :%s (env: %s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR shutdown: %v", err)
	}
}
