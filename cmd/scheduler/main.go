package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/interview-scheduler/internal/application"
	"github.com/example/interview-scheduler/internal/config"
	httptransport "github.com/example/interview-scheduler/internal/http"
	"github.com/example/interview-scheduler/internal/logging"
	"github.com/example/interview-scheduler/internal/metrics"
	"github.com/example/interview-scheduler/internal/notifier"
	"github.com/example/interview-scheduler/internal/persistence"
	"github.com/example/interview-scheduler/internal/persistence/memory"
	"github.com/example/interview-scheduler/internal/persistence/sqlite"
)

// storageBackends bundles the repositories of whichever backing store the DSN
// selects, plus the shutdown hook for it.
type storageBackends struct {
	employees    persistence.EmployeeRepository
	reservations persistence.ReservationRepository
	tasks        persistence.TaskRepository
	close        func() error
}

// openStorage selects the backing store. The literal DSN "memory" runs the
// service against the ephemeral in-process store; anything else is handed to
// the SQLite driver.
func openStorage(ctx context.Context, dsn string) (storageBackends, error) {
	if dsn == "memory" {
		store := memory.NewStorage()
		return storageBackends{
			employees:    store,
			reservations: store,
			tasks:        store,
			close:        func() error { return nil },
		}, nil
	}

	pool, err := sqlite.NewConnectionPool(dsn)
	if err != nil {
		return storageBackends{}, err
	}
	if err := pool.Migrate(ctx); err != nil {
		_ = pool.Close()
		return storageBackends{}, err
	}
	return storageBackends{
		employees:    sqlite.NewEmployeeRepository(pool),
		reservations: sqlite.NewReservationRepository(pool),
		tasks:        sqlite.NewTaskRepository(pool),
		close:        pool.Close,
	}, nil
}

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := openStorage(context.Background(), cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	passwordHash := cfg.AccessPassword
	if !strings.HasPrefix(passwordHash, "$argon2id$") {
		passwordHash, err = application.HashAccessPassword(cfg.AccessPassword)
		if err != nil {
			logger.Error("failed to hash access password", "error", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	idGenerator := uuid.NewString
	tokenGenerator := uuid.NewString
	now := time.Now

	employeeRepo := newEmployeeRepositoryAdapter(storage.employees)
	reservationRepo := newReservationRepositoryAdapter(storage.reservations)
	taskRepo := newTaskRepositoryAdapter(storage.tasks)

	var confirmations application.Notifier
	if cfg.NotifierEndpoint != "" {
		client := notifier.NewSafeHTTPClient(cfg.NotifierTimeout)
		confirmations = notifier.NewEmailNotifier(cfg.NotifierEndpoint, splitAddresses(cfg.NotifierCC), client, logger)
	} else {
		logger.Info("confirmation notifier disabled, no endpoint configured")
	}

	employeeService := application.NewEmployeeService(employeeRepo, idGenerator, now, logger)
	reservationService := application.NewReservationService(reservationRepo, confirmations, collector, idGenerator, now, logger)
	taskService := application.NewTaskService(taskRepo, idGenerator, now, logger)
	aggregator := application.NewEventAggregator(reservationRepo, taskRepo, now, logger)
	authService := application.NewAuthService(passwordHash, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Employees:    httptransport.NewEmployeeHandler(employeeService, logger),
		Reservations: httptransport.NewReservationHandler(reservationService, logger),
		Tasks:        httptransport.NewTaskHandler(taskService, logger),
		Calendar:     httptransport.NewCalendarHandler(aggregator, logger),
		Metrics:      metrics.Handler(registry),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger, collector),
			httptransport.RateLimit(cfg.RateLimitPerMin, logger),
		},
		Protected: []func(http.Handler) http.Handler{
			httptransport.RequireToken(authService, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("scheduler API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func splitAddresses(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	addresses := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}
	return addresses
}

type employeeRepositoryAdapter struct {
	repo persistence.EmployeeRepository
}

func newEmployeeRepositoryAdapter(repo persistence.EmployeeRepository) *employeeRepositoryAdapter {
	return &employeeRepositoryAdapter{repo: repo}
}

func (a *employeeRepositoryAdapter) CreateEmployee(ctx context.Context, employee application.Employee) (application.Employee, error) {
	if err := a.repo.CreateEmployee(ctx, toPersistenceEmployee(employee)); err != nil {
		return application.Employee{}, err
	}
	stored, err := a.repo.GetEmployee(ctx, employee.ID)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(stored), nil
}

func (a *employeeRepositoryAdapter) GetEmployee(ctx context.Context, id string) (application.Employee, error) {
	stored, err := a.repo.GetEmployee(ctx, id)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(stored), nil
}

func (a *employeeRepositoryAdapter) UpdateEmployee(ctx context.Context, employee application.Employee) (application.Employee, error) {
	if err := a.repo.UpdateEmployee(ctx, toPersistenceEmployee(employee)); err != nil {
		return application.Employee{}, err
	}
	stored, err := a.repo.GetEmployee(ctx, employee.ID)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(stored), nil
}

func (a *employeeRepositoryAdapter) ListEmployees(ctx context.Context, activeOnly bool) ([]application.Employee, error) {
	models, err := a.repo.ListEmployees(ctx, persistence.EmployeeFilter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	employees := make([]application.Employee, 0, len(models))
	for _, model := range models {
		employees = append(employees, toApplicationEmployee(model))
	}
	return employees, nil
}

func (a *employeeRepositoryAdapter) DeleteEmployee(ctx context.Context, id string) error {
	return a.repo.DeleteEmployee(ctx, id)
}

type reservationRepositoryAdapter struct {
	repo persistence.ReservationRepository
}

func newReservationRepositoryAdapter(repo persistence.ReservationRepository) *reservationRepositoryAdapter {
	return &reservationRepositoryAdapter{repo: repo}
}

func (a *reservationRepositoryAdapter) CreateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	if err := a.repo.CreateReservation(ctx, toPersistenceReservation(reservation)); err != nil {
		return application.Reservation{}, err
	}
	stored, err := a.repo.GetReservation(ctx, reservation.ID)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationRepositoryAdapter) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	stored, err := a.repo.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationRepositoryAdapter) UpdateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	if err := a.repo.UpdateReservation(ctx, toPersistenceReservation(reservation)); err != nil {
		return application.Reservation{}, err
	}
	stored, err := a.repo.GetReservation(ctx, reservation.ID)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationRepositoryAdapter) FindBySlot(ctx context.Context, date, timeLabel string) (application.Reservation, error) {
	stored, err := a.repo.FindBySlot(ctx, date, timeLabel)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationRepositoryAdapter) ListReservations(ctx context.Context) ([]application.Reservation, error) {
	models, err := a.repo.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	reservations := make([]application.Reservation, 0, len(models))
	for _, model := range models {
		reservations = append(reservations, toApplicationReservation(model))
	}
	return reservations, nil
}

func (a *reservationRepositoryAdapter) DeleteReservation(ctx context.Context, id string) error {
	return a.repo.DeleteReservation(ctx, id)
}

type taskRepositoryAdapter struct {
	repo persistence.TaskRepository
}

func newTaskRepositoryAdapter(repo persistence.TaskRepository) *taskRepositoryAdapter {
	return &taskRepositoryAdapter{repo: repo}
}

func (a *taskRepositoryAdapter) CreateTask(ctx context.Context, task application.Task) (application.Task, error) {
	if err := a.repo.CreateTask(ctx, toPersistenceTask(task)); err != nil {
		return application.Task{}, err
	}
	stored, err := a.repo.GetTask(ctx, task.ID)
	if err != nil {
		return application.Task{}, err
	}
	return toApplicationTask(stored), nil
}

func (a *taskRepositoryAdapter) GetTask(ctx context.Context, id string) (application.Task, error) {
	stored, err := a.repo.GetTask(ctx, id)
	if err != nil {
		return application.Task{}, err
	}
	return toApplicationTask(stored), nil
}

func (a *taskRepositoryAdapter) UpdateTask(ctx context.Context, task application.Task) (application.Task, error) {
	if err := a.repo.UpdateTask(ctx, toPersistenceTask(task)); err != nil {
		return application.Task{}, err
	}
	stored, err := a.repo.GetTask(ctx, task.ID)
	if err != nil {
		return application.Task{}, err
	}
	return toApplicationTask(stored), nil
}

func (a *taskRepositoryAdapter) ListTasks(ctx context.Context, filter application.TaskFilter) ([]application.Task, error) {
	models, err := a.repo.ListTasks(ctx, persistence.TaskFilter{
		Year:  filter.Year,
		Month: int(filter.Month),
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	tasks := make([]application.Task, 0, len(models))
	for _, model := range models {
		tasks = append(tasks, toApplicationTask(model))
	}
	return tasks, nil
}

func (a *taskRepositoryAdapter) DeleteTask(ctx context.Context, id string) error {
	return a.repo.DeleteTask(ctx, id)
}

func toApplicationEmployee(model persistence.Employee) application.Employee {
	return application.Employee{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceEmployee(employee application.Employee) persistence.Employee {
	return persistence.Employee{
		ID:        employee.ID,
		Name:      employee.Name,
		Email:     employee.Email,
		Active:    employee.Active,
		CreatedAt: employee.CreatedAt,
		UpdatedAt: employee.UpdatedAt,
	}
}

func toApplicationReservation(model persistence.Reservation) application.Reservation {
	return application.Reservation{
		ID:            model.ID,
		Date:          model.Date,
		Time:          model.Time,
		EmployeeName:  model.EmployeeName,
		EmployeeEmail: model.EmployeeEmail,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     cloneTime(model.UpdatedAt),
	}
}

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	return persistence.Reservation{
		ID:            reservation.ID,
		Date:          reservation.Date,
		Time:          reservation.Time,
		EmployeeName:  reservation.EmployeeName,
		EmployeeEmail: reservation.EmployeeEmail,
		CreatedAt:     reservation.CreatedAt,
		UpdatedAt:     cloneTime(reservation.UpdatedAt),
	}
}

func toApplicationTask(model persistence.Task) application.Task {
	description := ""
	if model.Description != nil {
		description = *model.Description
	}
	return application.Task{
		ID:             model.ID,
		Title:          model.Title,
		Description:    description,
		Classification: model.Classification,
		DueDate:        model.DueDate,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toPersistenceTask(task application.Task) persistence.Task {
	var description *string
	if strings.TrimSpace(task.Description) != "" {
		value := task.Description
		description = &value
	}
	return persistence.Task{
		ID:             task.ID,
		Title:          task.Title,
		Description:    description,
		Classification: task.Classification,
		DueDate:        task.DueDate,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
